// certgen.go - generates a private certificate hierarchy for signing passes outside production.
//
// Production passes are signed with a certificate issued by the wallet vendor's intermediate CA.
// For development and tests a local root, intermediate and signer certificate can be generated
// instead; passes signed this way verify against the generated root but are not accepted by a
// wallet app.

package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"time"
)

// DevelopmentPKI is a locally generated certificate hierarchy: root -> intermediate -> signer.
type DevelopmentPKI struct {
	Root            *x509.Certificate
	RootKey         crypto.Signer
	Intermediate    *x509.Certificate
	IntermediateKey crypto.Signer
	Signer          *x509.Certificate
	SignerKey       crypto.Signer
}

// DevelopmentPKIOptions configure GenerateDevelopmentPKI.
type DevelopmentPKIOptions struct {
	PassTypeIdentifier string
	TeamIdentifier     string

	// NotBefore defaults to one hour before now and Validity to one year.
	NotBefore time.Time
	Validity  time.Duration

	// SignerKey is the key certified by the signer certificate. A 2048-bit RSA key is
	// generated if nil.
	SignerKey crypto.Signer
}

// GenerateDevelopmentPKI creates a root and an intermediate CA (P-256) and a signer certificate
// for the pass type identifier.
func GenerateDevelopmentPKI(opts DevelopmentPKIOptions) (*DevelopmentPKI, error) {
	notBefore := opts.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now().Add(-time.Hour)
	}
	validity := opts.Validity
	if validity == 0 {
		validity = 365 * 24 * time.Hour
	}
	notAfter := notBefore.Add(validity)

	rootKey, err := GenerateECDSAKeyPair()
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to generate root key")
	}
	root, err := createCertificate(certificateTemplate{
		subject:   pkix.Name{CommonName: "Pass Development Root CA", Organization: []string{"Development"}},
		isCA:      true,
		notBefore: notBefore,
		notAfter:  notAfter,
	}, rootKey.Public(), nil, rootKey)
	if err != nil {
		return nil, err
	}

	intermediateKey, err := GenerateECDSAKeyPair()
	if err != nil {
		return nil, WrapKeyManagementError(err, "failed to generate intermediate key")
	}
	intermediate, err := createCertificate(certificateTemplate{
		subject:   pkix.Name{CommonName: "Pass Development Intermediate CA", Organization: []string{"Development"}},
		isCA:      true,
		notBefore: notBefore,
		notAfter:  notAfter,
	}, intermediateKey.Public(), root, rootKey)
	if err != nil {
		return nil, err
	}

	signerKey := opts.SignerKey
	if signerKey == nil {
		rsaKey, err := GenerateRSAKeyPair(2048)
		if err != nil {
			return nil, WrapKeyManagementError(err, "failed to generate signer key")
		}
		signerKey = rsaKey
	}
	signer, err := createCertificate(certificateTemplate{
		subject:   passSubject("Pass Type ID: "+opts.PassTypeIdentifier, opts.PassTypeIdentifier, opts.TeamIdentifier),
		notBefore: notBefore,
		notAfter:  notAfter,
	}, signerKey.Public(), intermediate, intermediateKey)
	if err != nil {
		return nil, err
	}

	return &DevelopmentPKI{
		Root:            root,
		RootKey:         rootKey,
		Intermediate:    intermediate,
		IntermediateKey: intermediateKey,
		Signer:          signer,
		SignerKey:       signerKey,
	}, nil
}

// Identity returns the signing identity of the generated signer.
func (p *DevelopmentPKI) Identity() SigningIdentity {
	return SigningIdentity{Certificate: p.Signer, PrivateKey: p.SignerKey, Intermediate: p.Intermediate}
}

// Roots returns a pool holding the generated root.
func (p *DevelopmentPKI) Roots() *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(p.Root)
	return pool
}

type certificateTemplate struct {
	subject   pkix.Name
	isCA      bool
	notBefore time.Time
	notAfter  time.Time
}

// createCertificate issues a certificate for pub. A nil issuer makes it self-signed.
func createCertificate(t certificateTemplate, pub crypto.PublicKey, issuer *x509.Certificate, issuerKey crypto.Signer) (*x509.Certificate, error) {
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, WrapInternalError(err, "failed to generate serial number")
	}

	template := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               t.subject,
		NotBefore:             t.notBefore,
		NotAfter:              t.notAfter,
		BasicConstraintsValid: true,
		IsCA:                  t.isCA,
	}
	if t.isCA {
		template.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageCRLSign
	} else {
		template.KeyUsage = x509.KeyUsageDigitalSignature
		template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageCodeSigning}
	}

	parent := template
	if issuer != nil {
		parent = issuer
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parent, pub, issuerKey)
	if err != nil {
		return nil, WrapCertificateError(err, fmt.Sprintf("failed to create certificate %q", t.subject.CommonName))
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, WrapCertificateError(err, "failed to parse generated certificate")
	}

	return cert, nil
}

// GenerateSelfSignedIdentity creates a self-signed signer certificate for the pass type identifier.
// The identity has no intermediate; when trusted roots are checked, its own certificate is the root.
func GenerateSelfSignedIdentity(opts DevelopmentPKIOptions) (SigningIdentity, error) {
	notBefore := opts.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now().Add(-time.Hour)
	}
	validity := opts.Validity
	if validity == 0 {
		validity = 365 * 24 * time.Hour
	}

	key := opts.SignerKey
	if key == nil {
		rsaKey, err := GenerateRSAKeyPair(2048)
		if err != nil {
			return SigningIdentity{}, WrapKeyManagementError(err, "failed to generate signer key")
		}
		key = rsaKey
	}

	cert, err := createCertificate(certificateTemplate{
		subject:   passSubject("Pass Type ID: "+opts.PassTypeIdentifier, opts.PassTypeIdentifier, opts.TeamIdentifier),
		notBefore: notBefore,
		notAfter:  notBefore.Add(validity),
	}, key.Public(), nil, key)
	if err != nil {
		return SigningIdentity{}, err
	}

	return SigningIdentity{Certificate: cert, PrivateKey: key}, nil
}
