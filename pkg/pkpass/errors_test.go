package pkpass

import (
	"errors"
	"testing"

	"github.com/information-sharing-networks/pkpass/pkg/crypto"
)

func TestFromCryptoError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback ErrorCode
		want     ErrorCode
	}{
		{"certificate", crypto.NewCertificateError("expired"), ErrCodeSigning, ErrCodeCertificate},
		{"key mismatch", crypto.NewKeyMismatchError("mismatch"), ErrCodeSigning, ErrCodeKeyMismatch},
		{"signing", crypto.NewSigningError("boom"), ErrCodeCertificate, ErrCodeSigning},
		{"invalid signature", crypto.NewSignatureError("bad"), ErrCodeContainer, ErrCodeInvalidSignature},
		{"other crypto code", crypto.NewInternalError("nil"), ErrCodeSigning, ErrCodeSigning},
		{"plain error", errors.New("boom"), ErrCodeWrite, ErrCodeWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fromCryptoError(tt.err, tt.fallback, "test")
			var perr Error
			if !errors.As(err, &perr) {
				t.Fatalf("expected pkpass.Error, got %T", err)
			}
			if perr.Code() != tt.want {
				t.Errorf("Code() = %s, want %s", perr.Code(), tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Error("original error not wrapped")
			}
		})
	}
}

func TestManifestMismatchError(t *testing.T) {
	err := &ManifestMismatchError{Missing: []string{"icon.png"}, Mismatched: []string{"pass.json"}}

	want := `archive content does not match manifest; missing ["icon.png"]; digest mismatch ["pass.json"]`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var perr Error = err
	if perr.Code() != ErrCodeManifestMismatch {
		t.Errorf("Code() = %s", perr.Code())
	}
}
