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

func TestSigningIdentity_Validate(t *testing.T) {
	pki := newTestPKI(t)
	other := newTestPKI(t)

	_, edKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate Ed25519 key: %v", err)
	}

	expired, err := GenerateDevelopmentPKI(DevelopmentPKIOptions{
		PassTypeIdentifier: testPassTypeID,
		NotBefore:          time.Now().AddDate(-2, 0, 0),
		Validity:           24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("GenerateDevelopmentPKI() error = %v", err)
	}

	tests := []struct {
		name                string
		id                  SigningIdentity
		now                 time.Time
		wantErr             bool
		wantCode            ErrorCode
		expectedErrContains string
	}{
		{
			name: "valid identity",
			id:   pki.Identity(),
		},
		{
			name:                "missing signer certificate",
			id:                  SigningIdentity{PrivateKey: pki.SignerKey, Intermediate: pki.Intermediate},
			wantErr:             true,
			wantCode:            ErrCodeCertificate,
			expectedErrContains: "signer certificate is required",
		},
		{
			name:                "missing intermediate",
			id:                  SigningIdentity{Certificate: pki.Signer, PrivateKey: pki.SignerKey},
			wantErr:             true,
			wantCode:            ErrCodeCertificate,
			expectedErrContains: "intermediate certificate is required",
		},
		{
			name:                "expired signer",
			id:                  expired.Identity(),
			wantErr:             true,
			wantCode:            ErrCodeCertificate,
			expectedErrContains: "expired at",
		},
		{
			name:                "not yet valid",
			id:                  pki.Identity(),
			now:                 time.Now().AddDate(-1, 0, 0),
			wantErr:             true,
			wantCode:            ErrCodeCertificate,
			expectedErrContains: "is not valid before",
		},
		{
			name:                "signer from another intermediate",
			id:                  SigningIdentity{Certificate: pki.Signer, PrivateKey: pki.SignerKey, Intermediate: other.Intermediate},
			wantErr:             true,
			wantCode:            ErrCodeCertificate,
			expectedErrContains: "was not issued by intermediate",
		},
		{
			name:                "key of another signer",
			id:                  SigningIdentity{Certificate: pki.Signer, PrivateKey: other.SignerKey, Intermediate: pki.Intermediate},
			wantErr:             true,
			wantCode:            ErrCodeKeyMismatch,
			expectedErrContains: "private key does not match",
		},
		{
			name:                "missing private key",
			id:                  SigningIdentity{Certificate: pki.Signer, Intermediate: pki.Intermediate},
			wantErr:             true,
			wantCode:            ErrCodeSigning,
			expectedErrContains: "private key is required",
		},
		{
			name:                "Ed25519 key",
			id:                  SigningIdentity{Certificate: pki.Signer, PrivateKey: edKey, Intermediate: pki.Intermediate},
			wantErr:             true,
			wantCode:            ErrCodeSigning,
			expectedErrContains: "unsupported key type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate(tt.now)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var cerr Error
			if !errors.As(err, &cerr) {
				t.Fatalf("expected crypto.Error, got %T", err)
			}
			if cerr.Code() != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, cerr.Code())
			}
			if !strings.Contains(err.Error(), tt.expectedErrContains) {
				t.Errorf("expected error containing %q, got %q", tt.expectedErrContains, err.Error())
			}
		})
	}
}

func TestLoadSigningIdentity(t *testing.T) {
	pki := newTestPKI(t)
	dir := t.TempDir()

	if err := SaveCertificatesToPEMFile(dir, "signer.pem", pki.Signer); err != nil {
		t.Fatalf("failed to save signer: %v", err)
	}
	if err := SaveCertificatesToPEMFile(dir, "bundle.pem", pki.Signer, pki.Intermediate); err != nil {
		t.Fatalf("failed to save bundle: %v", err)
	}
	if err := SaveCertificatesToPEMFile(dir, "wwdr.pem", pki.Intermediate); err != nil {
		t.Fatalf("failed to save intermediate: %v", err)
	}
	if err := SavePrivateKeyToPEMFile(pki.SignerKey, dir, "signer.key"); err != nil {
		t.Fatalf("failed to save key: %v", err)
	}

	path := func(name string) string { return filepath.Join(dir, name) }

	tests := []struct {
		name             string
		cert             string
		intermediate     string
		wantErr          bool
		expectedContains string
	}{
		{name: "separate intermediate", cert: path("signer.pem"), intermediate: path("wwdr.pem")},
		{name: "intermediate from bundle", cert: path("bundle.pem")},
		{name: "no intermediate", cert: path("signer.pem"), wantErr: true, expectedContains: "no intermediate certificate"},
		{name: "missing certificate file", cert: path("nope.pem"), wantErr: true, expectedContains: "failed to open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := LoadSigningIdentity(tt.cert, path("signer.key"), tt.intermediate)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.expectedContains) {
					t.Errorf("expected error containing %q, got %q", tt.expectedContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadSigningIdentity() error = %v", err)
			}
			if !id.Intermediate.Equal(pki.Intermediate) {
				t.Error("wrong intermediate loaded")
			}
			if err := id.Validate(time.Time{}); err != nil {
				t.Errorf("loaded identity does not validate: %v", err)
			}
		})
	}
}
