package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"time"
)

// SigningIdentity is the key material that signs a pass: the signer (pass type ID) certificate,
// its private key and the intermediate certificate that issued it.
// A self-signed signer certificate may be used without an intermediate (development only).
//
// The identity is read-only: signing borrows it for the duration of one call.
type SigningIdentity struct {
	Certificate  *x509.Certificate
	PrivateKey   crypto.PrivateKey
	Intermediate *x509.Certificate
}

// Validate checks that the identity can sign at time now.
//
// Returns an error with code:
//   - ErrCodeCertificate if a certificate is missing, expired or not yet valid,
//     or if the signer certificate was not issued by the intermediate (or is not
//     self-signed when there is no intermediate)
//   - ErrCodeSigning if the private key is missing or is not an RSA or ECDSA key
//   - ErrCodeKeyMismatch if the private key does not belong to the signer certificate
func (id SigningIdentity) Validate(now time.Time) error {
	if id.Certificate == nil {
		return NewCertificateError("signer certificate is required")
	}
	if now.IsZero() {
		now = time.Now()
	}

	if err := checkValidity("signer", id.Certificate, now); err != nil {
		return err
	}

	if id.Intermediate == nil {
		if !issuedBy(id.Certificate, id.Certificate) {
			return NewCertificateError("intermediate certificate is required")
		}
	} else {
		if err := checkValidity("intermediate", id.Intermediate, now); err != nil {
			return err
		}
		if err := id.Certificate.CheckSignatureFrom(id.Intermediate); err != nil {
			return WrapCertificateError(err, fmt.Sprintf("signer certificate %q was not issued by intermediate %q",
				id.Certificate.Subject.CommonName, id.Intermediate.Subject.CommonName))
		}
	}

	signer, err := id.signer()
	if err != nil {
		return err
	}

	pub, ok := signer.Public().(interface{ Equal(crypto.PublicKey) bool })
	if !ok || !pub.Equal(id.Certificate.PublicKey) {
		return NewKeyMismatchError(fmt.Sprintf("private key does not match the public key of signer certificate %q",
			id.Certificate.Subject.CommonName))
	}

	return nil
}

// signer returns the private key as a crypto.Signer of a supported type.
func (id SigningIdentity) signer() (crypto.Signer, error) {
	if id.PrivateKey == nil {
		return nil, NewSigningError("private key is required")
	}
	signer, ok := id.PrivateKey.(crypto.Signer)
	if !ok {
		return nil, NewSigningError(fmt.Sprintf("private key of type %T cannot sign", id.PrivateKey))
	}
	switch signer.Public().(type) {
	case *rsa.PublicKey, *ecdsa.PublicKey:
		return signer, nil
	}
	return nil, NewSigningError(fmt.Sprintf("unsupported key type %T: pass signing keys must be RSA or ECDSA", id.PrivateKey))
}

// LoadSigningIdentity reads the signer certificate, private key and intermediate certificate from files.
//
// The signer certificate file may be a bundle; its first certificate is the signer. If
// intermediatePath is empty, the second certificate of the signer bundle is used as the intermediate;
// a self-signed signer needs none.
// The identity is not validated: call Validate (signing does so).
func LoadSigningIdentity(certPath, keyPath, intermediatePath string) (SigningIdentity, error) {
	certs, err := ReadCertificatesFromFile(certPath)
	if err != nil {
		return SigningIdentity{}, err
	}

	key, err := ReadPrivateKeyFromFile(keyPath)
	if err != nil {
		return SigningIdentity{}, err
	}

	id := SigningIdentity{Certificate: certs[0], PrivateKey: key}

	switch {
	case intermediatePath != "":
		intermediate, err := ReadCertificateFromFile(intermediatePath)
		if err != nil {
			return SigningIdentity{}, err
		}
		id.Intermediate = intermediate
	case len(certs) > 1:
		id.Intermediate = certs[1]
	case issuedBy(certs[0], certs[0]):
		// self-signed
	default:
		return SigningIdentity{}, NewCertificateError(fmt.Sprintf("no intermediate certificate: %s holds only the signer certificate", certPath))
	}

	return id, nil
}
