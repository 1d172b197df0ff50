package crypto

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

func TestPrivateKeyToJWK(t *testing.T) {

	// nil private key
	if _, err := PrivateKeyToJWK(nil, ""); err == nil {
		t.Fatalf("expected an error when passing nil private key, but got no error")
	}

	rsaKey, err := GenerateRSAKeyPair(2048)
	if err != nil {
		t.Fatalf("Could not generate a RSA private Key %v", err)
	}
	ecKey, err := GenerateECDSAKeyPair()
	if err != nil {
		t.Fatalf("Could not generate an ECDSA private Key %v", err)
	}

	tests := []struct {
		name      string
		key       crypto.Signer
		keyID     string
		wantAlg   jwa.SignatureAlgorithm
		wantKeyID string
	}{
		{name: "RSA with derived key ID", key: rsaKey, wantAlg: jwa.RS256()},
		{name: "ECDSA with derived key ID", key: ecKey, wantAlg: jwa.ES256()},
		{name: "explicit key ID", key: ecKey, keyID: "signer-2025", wantAlg: jwa.ES256(), wantKeyID: "signer-2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := PrivateKeyToJWK(tt.key, tt.keyID)
			if err != nil {
				t.Fatalf("error converting private key to JWK: %v", err)
			}

			// Test meta data is set correctly (keyID, alg, usage)
			gotKeyID, ok := key.KeyID()
			if !ok {
				t.Fatalf("KeyID not set in JWK")
			}
			wantKeyID := tt.wantKeyID
			if wantKeyID == "" {
				wantKeyID, err = KeyIDFromPublicKey(tt.key.Public())
				if err != nil {
					t.Fatalf("KeyIDFromPublicKey() error = %v", err)
				}
			}
			if gotKeyID != wantKeyID {
				t.Errorf("KeyID mismatch: got %q, want %q", gotKeyID, wantKeyID)
			}

			alg, ok := key.Algorithm()
			if !ok {
				t.Fatalf("Algorithm not set in JWK")
			}
			if alg.String() != tt.wantAlg.String() {
				t.Errorf("Algorithm mismatch: got %q, want %q", alg.String(), tt.wantAlg.String())
			}

			usage, ok := key.KeyUsage()
			if !ok {
				t.Fatalf("KeyUsage not set in JWK")
			}
			if usage != jwk.ForSignature.String() {
				t.Errorf("KeyUsage mismatch: got %q, want %q", usage, jwk.ForSignature.String())
			}

			// convert back
			back, err := JWKToPrivateKey(key)
			if err != nil {
				t.Fatalf("JWKToPrivateKey() error = %v", err)
			}
			original := tt.key.(interface{ Equal(crypto.PrivateKey) bool })
			if !original.Equal(back) {
				t.Error("private key changed after JWK round trip")
			}
		})
	}
}

func TestPrivateKeyToJWK_RejectsEd25519(t *testing.T) {
	_, edKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate Ed25519 key: %v", err)
	}
	if _, err := PrivateKeyToJWK(edKey, ""); err == nil {
		t.Fatal("expected an error for an Ed25519 key, got nil")
	}
}

func TestJWKToPrivateKey_RejectsPublicKey(t *testing.T) {
	ecKey, err := GenerateECDSAKeyPair()
	if err != nil {
		t.Fatalf("Could not generate an ECDSA private Key %v", err)
	}
	pub, err := jwk.Import(ecKey.Public())
	if err != nil {
		t.Fatalf("jwk.Import() error = %v", err)
	}

	if _, err := JWKToPrivateKey(pub); err == nil {
		t.Fatal("expected an error converting a public JWK, got nil")
	}
	if _, err := JWKToPrivateKey(nil); err == nil {
		t.Fatal("expected an error converting a nil JWK, got nil")
	}
}

func TestKeyIDFromPublicKey(t *testing.T) {
	key, err := GenerateECDSAKeyPair()
	if err != nil {
		t.Fatalf("Could not generate an ECDSA private Key %v", err)
	}

	first, err := KeyIDFromPublicKey(key.Public())
	if err != nil {
		t.Fatalf("KeyIDFromPublicKey() error = %v", err)
	}
	second, err := KeyIDFromPublicKey(key.Public())
	if err != nil {
		t.Fatalf("KeyIDFromPublicKey() error = %v", err)
	}

	if len(first) != 16 {
		t.Errorf("key ID length = %d, want 16", len(first))
	}
	if first != second {
		t.Errorf("key ID is not stable: %q != %q", first, second)
	}

	if _, err := KeyIDFromPublicKey(nil); err == nil {
		t.Error("expected an error for a nil public key")
	}
}
