package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// errors returned by the signing and loading functions carry the code callers branch on
func TestCryptoError_CodeFromOperations(t *testing.T) {
	pki := newTestPKI(t)
	other := newTestPKI(t)

	_, edKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate Ed25519 key: %v", err)
	}

	mismatched := pki.Identity()
	mismatched.PrivateKey = other.SignerKey

	ed := pki.Identity()
	ed.PrivateKey = edKey

	tests := []struct {
		name     string
		run      func() error
		wantCode ErrorCode
	}{
		{
			name:     "key does not match signer certificate",
			run:      func() error { return mismatched.Validate(time.Now()) },
			wantCode: ErrCodeKeyMismatch,
		},
		{
			name:     "unsupported signing key",
			run:      func() error { return ed.Validate(time.Now()) },
			wantCode: ErrCodeSigning,
		},
		{
			name: "expired signer",
			run: func() error {
				_, err := SignDetached([]byte(`{}`), pki.Identity(), SignOptions{Now: time.Now().AddDate(5, 0, 0)})
				return err
			},
			wantCode: ErrCodeCertificate,
		},
		{
			name: "signature is not pkcs7",
			run: func() error {
				_, err := VerifyDetached([]byte("not a signature"), []byte(`{}`), VerifyOptions{})
				return err
			},
			wantCode: ErrCodeInvalidSignature,
		},
		{
			name:     "digest is not hex",
			run:      func() error { return ValidateDigest(strings.Repeat("z", DigestLength)) },
			wantCode: ErrCodeInvalidChecksum,
		},
		{
			name: "missing key file",
			run: func() error {
				_, err := ReadPrivateKeyFromFile(filepath.Join(t.TempDir(), "signer.key"))
				return err
			},
			wantCode: ErrCodeKeyManagement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cryptoErr *CryptoError
			if !errors.As(err, &cryptoErr) {
				t.Fatalf("expected CryptoError, got %T: %v", err, err)
			}
			if cryptoErr.Code() != tt.wantCode {
				t.Errorf("Code() = %q, want %q (%v)", cryptoErr.Code(), tt.wantCode, err)
			}
		})
	}
}

func TestCryptoError_Wrapped(t *testing.T) {
	cause := errors.New("pkcs7: cannot sign")
	err := WrapSigningError(cause, "failed to sign manifest")

	if got, want := err.Error(), "failed to sign manifest: pkcs7: cannot sign"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable with errors.Is")
	}

	plain := NewKeyMismatchError("private key does not match")
	if errors.Unwrap(plain) != nil {
		t.Error("expected no wrapped error")
	}
}
