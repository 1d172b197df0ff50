// this file contains functions to generate, save and load the private keys used to sign passes
//
// The signature format supports RSA and ECDSA keys. Production pass certificates use RSA;
// RSA signatures are also deterministic, which makes repeated builds byte-identical.
//
// PEM files are in PKCS#8 format (https://datatracker.ietf.org/doc/html/rfc5208). PKCS#1 and SEC 1
// files (as exported by openssl from a .p12) are accepted on read.

package crypto

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

// GenerateRSAKeyPair generates a new RSA key pair with the specified bit size
// minimum key size is 2048 bits - key size must be a multiple of 256
func GenerateRSAKeyPair(bits int) (*rsa.PrivateKey, error) {
	if bits < 2048 {
		return nil, fmt.Errorf("key size must be at least 2048 bits")
	}

	if bits%256 != 0 {
		return nil, fmt.Errorf("key size should be a multiple of 256")
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	return privateKey, nil
}

// GenerateECDSAKeyPair generates a new P-256 ECDSA key pair
func GenerateECDSAKeyPair() (*ecdsa.PrivateKey, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}

	return privateKey, nil
}

// SavePrivateKeyToPEMFile saves a private key to a PEM file in PKCS#8 format
// note the key is not encrypted
//
// Parameters:
//   - baseDir: The base directory to scope file access (e.g., "./certs")
//   - filename: The filename within the base directory (e.g., "signer.key")
func SavePrivateKeyToPEMFile(privateKey crypto.Signer, baseDir, filename string) error {
	privBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return fmt.Errorf("failed to marshal private key: %w", err)
	}

	pemBlock := &pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: privBytes,
	}

	return writeScopedFile(baseDir, filename, pem.EncodeToMemory(pemBlock), 0600)
}

// SavePrivateKeyToJWKFile saves a private key to a JWK set file
// note the key is not encrypted
//
// Parameters:
//   - keyID: the key ID, derived from the key thumbprint if empty
//   - baseDir: The base directory to scope file access (e.g., "./certs")
//   - filename: The filename within the base directory (e.g., "signer.jwk")
func SavePrivateKeyToJWKFile(privateKey crypto.Signer, keyID, baseDir, filename string) error {
	jwkKey, err := PrivateKeyToJWK(privateKey, keyID)
	if err != nil {
		return fmt.Errorf("failed to create JWK: %w", err)
	}

	jwkSet := jwk.NewSet()
	if err := jwkSet.AddKey(jwkKey); err != nil {
		return fmt.Errorf("failed to add key to JWK set: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(jwkSet, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JWK set: %w", err)
	}

	return writeScopedFile(baseDir, filename, jsonBytes, 0600)
}

// SaveCertificatesToPEMFile saves one or more certificates to a PEM file, in order.
//
// Parameters:
//   - baseDir: The base directory to scope file access (e.g., "./certs")
//   - filename: The filename within the base directory (e.g., "signer.pem")
func SaveCertificatesToPEMFile(baseDir, filename string, certs ...*x509.Certificate) error {
	if len(certs) == 0 {
		return fmt.Errorf("no certificates to save")
	}

	var buf bytes.Buffer
	for _, cert := range certs {
		if err := pem.Encode(&buf, &pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw}); err != nil {
			return fmt.Errorf("failed to encode PEM: %w", err)
		}
	}

	return writeScopedFile(baseDir, filename, buf.Bytes(), 0644)
}

// ParsePrivateKey parses a signing key from a JWK (or JWK set) or from PEM data.
//
// PEM blocks of type PRIVATE KEY (PKCS#8), RSA PRIVATE KEY (PKCS#1) and EC PRIVATE KEY (SEC 1)
// are accepted. Other blocks (e.g. a certificate in the same file) are skipped.
func ParsePrivateKey(data []byte) (crypto.Signer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, NewKeyManagementError("key data is empty")
	}

	if trimmed[0] == '{' {
		return parseJWKPrivateKey(trimmed)
	}

	remaining := trimmed
	for {
		var block *pem.Block
		block, remaining = pem.Decode(remaining)
		if block == nil {
			break
		}

		var key any
		var err error
		switch block.Type {
		case "PRIVATE KEY":
			key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
		case "RSA PRIVATE KEY":
			key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
		case "EC PRIVATE KEY":
			key, err = x509.ParseECPrivateKey(block.Bytes)
		case "ENCRYPTED PRIVATE KEY":
			return nil, NewKeyManagementError("encrypted private keys are not supported")
		default:
			continue
		}
		if err != nil {
			return nil, WrapKeyManagementError(err, fmt.Sprintf("failed to parse %s", block.Type))
		}

		signer, ok := key.(crypto.Signer)
		if !ok {
			return nil, NewKeyManagementError(fmt.Sprintf("key of type %T cannot sign", key))
		}
		return signer, nil
	}

	// no PEM block: try DER encoded PKCS#8
	key, err := x509.ParsePKCS8PrivateKey(trimmed)
	if err != nil {
		return nil, WrapKeyManagementError(err, "no private key found")
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, NewKeyManagementError(fmt.Sprintf("key of type %T cannot sign", key))
	}
	return signer, nil
}

func parseJWKPrivateKey(data []byte) (crypto.Signer, error) {
	jwkSet, err := jwk.Parse(data)
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to parse JWK set")
	}

	if jwkSet.Len() == 0 {
		return nil, NewKeyManagementError("JWK set is empty")
	}

	jwkKey, ok := jwkSet.Key(0)
	if !ok {
		return nil, NewKeyManagementError("failed to get key from JWK set")
	}

	signer, err := JWKToPrivateKey(jwkKey)
	if err != nil {
		return nil, WrapKeyManagementError(err, "JWK is not a signing key")
	}
	return signer, nil
}

// ReadPrivateKeyFromFile loads a signing key from a PEM or JWK file
//
// Parameters:
//   - path: The file path (e.g., "./certs/signer.key" or "./certs/signer.jwk")
func ReadPrivateKeyFromFile(path string) (crypto.Signer, error) {
	data, err := readKeyMaterial(path)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(data)
}

// writeScopedFile writes a file inside baseDir without following paths out of it.
func writeScopedFile(baseDir, filename string, data []byte, perm os.FileMode) error {
	root, err := os.OpenRoot(baseDir)
	if err != nil {
		return fmt.Errorf("failed to open root directory %s: %w", baseDir, err)
	}
	defer root.Close()

	if err := root.WriteFile(filename, data, perm); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
