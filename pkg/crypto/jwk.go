// JWK (JSON Web Key) support for pass signing keys
//
// Signing keys may be stored as PEM or as a JWK. these functions convert the RSA and ECDSA keys
// that can sign a pass to JWK format (and back).
// Reference: https://datatracker.ietf.org/doc/html/rfc7517 (JSON Web Key standard)

package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// PrivateKeyToJWK converts an RSA or ECDSA private key to JWK format.
// If keyID is empty, the key ID is derived from the public key thumbprint.
func PrivateKeyToJWK(privateKey crypto.Signer, keyID string) (jwk.Key, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("private key is nil")
	}

	alg, err := signatureAlgorithm(privateKey.Public())
	if err != nil {
		return nil, err
	}

	if keyID == "" {
		keyID, err = KeyIDFromPublicKey(privateKey.Public())
		if err != nil {
			return nil, err
		}
	}

	key, err := jwk.Import(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWK from private key: %w", err)
	}

	// Set key ID
	if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
		return nil, fmt.Errorf("failed to set key ID: %w", err)
	}

	// Set algorithm
	if err := key.Set(jwk.AlgorithmKey, alg); err != nil {
		return nil, fmt.Errorf("failed to set algorithm: %w", err)
	}

	// Set key usage
	if err := key.Set(jwk.KeyUsageKey, jwk.ForSignature); err != nil {
		return nil, fmt.Errorf("failed to set key usage: %w", err)
	}

	return key, nil
}

// JWKToPrivateKey converts a JWK to an RSA or ECDSA private key using lestrrat-go/jwx
func JWKToPrivateKey(key jwk.Key) (crypto.Signer, error) {
	if key == nil {
		return nil, fmt.Errorf("key is nil")
	}

	var raw any
	// Export to raw key
	if err := jwk.Export(key, &raw); err != nil {
		return nil, fmt.Errorf("failed to export private key: %w", err)
	}

	switch k := raw.(type) {
	case *rsa.PrivateKey:
		return k, nil
	case *ecdsa.PrivateKey:
		return k, nil
	}

	alg, _ := key.Algorithm()
	return nil, fmt.Errorf("expected RSA or ECDSA private key but got key with algorithm %v and type %T", alg, raw)
}

// KeyIDFromPublicKey generates a key ID from a public key using its SHA-256 thumbprint (RFC 7638).
// Returns the first 16 characters of the hex-encoded thumbprint.
func KeyIDFromPublicKey(publicKey crypto.PublicKey) (string, error) {
	if publicKey == nil {
		return "", fmt.Errorf("public key is nil")
	}

	// Import to JWK to calculate thumbprint
	jwkKey, err := jwk.Import(publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to import key: %w", err)
	}

	thumbprint, err := jwkKey.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("failed to generate thumbprint: %w", err)
	}

	return fmt.Sprintf("%x", thumbprint)[:16], nil
}

// signatureAlgorithm returns the JWA algorithm recorded in the JWK of a signing key.
func signatureAlgorithm(publicKey crypto.PublicKey) (jwa.SignatureAlgorithm, error) {
	var none jwa.SignatureAlgorithm
	switch k := publicKey.(type) {
	case *rsa.PublicKey:
		return jwa.RS256(), nil
	case *ecdsa.PublicKey:
		switch k.Curve.Params().BitSize {
		case 256:
			return jwa.ES256(), nil
		case 384:
			return jwa.ES384(), nil
		case 521:
			return jwa.ES512(), nil
		}
		return none, fmt.Errorf("unsupported ECDSA curve %s", k.Curve.Params().Name)
	}
	return none, fmt.Errorf("unsupported key type %T: pass signing keys must be RSA or ECDSA", publicKey)
}
