// sign.go - detached PKCS#7 (CMS SignedData) signatures over a pass manifest.
//
// The signature embeds the signer certificate and the intermediate certificate so that a verifier
// can check the chain without any external lookup. The content (manifest.json) is not embedded.

package crypto

import (
	"bytes"
	"crypto/x509"
	"time"

	"go.mozilla.org/pkcs7"
)

// SignOptions control how a signature is produced.
type SignOptions struct {
	// IncludeSigningTime adds the signed attributes (content type, message digest and signing time)
	// wallet apps expect on production passes. Without them the signature depends only on the
	// content and key material, so RSA signatures are reproducible.
	IncludeSigningTime bool

	// Now is the time the identity must be valid at (zero = time.Now()).
	Now time.Time
}

// SignDetached produces a detached signature over content.
//
// The identity is validated first (see SigningIdentity.Validate); any failure of the signing
// primitive is returned with code ErrCodeSigning. No partial signature is ever returned.
func SignDetached(content []byte, id SigningIdentity, opts SignOptions) ([]byte, error) {
	if err := id.Validate(opts.Now); err != nil {
		return nil, err
	}
	key, err := id.signer()
	if err != nil {
		return nil, err
	}

	signedData, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, WrapSigningError(err, "failed to create signed data")
	}
	signedData.SetDigestAlgorithm(pkcs7.OIDDigestAlgorithmSHA256)

	if opts.IncludeSigningTime {
		// certificates are embedded as [signer, intermediate]
		var parents []*x509.Certificate
		if id.Intermediate != nil {
			parents = append(parents, id.Intermediate)
		}
		if err := signedData.AddSignerChain(id.Certificate, key, parents, pkcs7.SignerInfoConfig{}); err != nil {
			return nil, WrapSigningError(err, "failed to add signer")
		}
	} else {
		if err := signedData.SignWithoutAttr(id.Certificate, key, pkcs7.SignerInfoConfig{}); err != nil {
			return nil, WrapSigningError(err, "failed to sign content")
		}
		if id.Intermediate != nil {
			signedData.AddCertificate(id.Intermediate)
		}
	}

	signedData.Detach()

	der, err := signedData.Finish()
	if err != nil {
		return nil, WrapSigningError(err, "failed to finish signing")
	}

	return der, nil
}

// VerifyOptions control signature verification.
type VerifyOptions struct {
	// Roots, when set, requires the signer to chain to one of these certificates
	// through the certificates embedded in the signature.
	Roots *x509.CertPool

	// CurrentTime is the time at which the chain must be valid (zero = time.Now()).
	CurrentTime time.Time
}

// VerifiedSignature describes a signature that verified.
type VerifiedSignature struct {
	Signer       *x509.Certificate
	Certificates []*x509.Certificate
}

// VerifyDetached verifies a detached signature over content.
//
// The signature must have exactly one signer, whose certificate is embedded and was issued by an
// embedded certificate (a self-signed signer issues itself). Failures have code
// ErrCodeInvalidSignature; when opts.Roots is set, a chain that does not reach a trusted root
// has code ErrCodeCertificate.
func VerifyDetached(signature, content []byte, opts VerifyOptions) (*VerifiedSignature, error) {
	p7, err := pkcs7.Parse(signature)
	if err != nil {
		return nil, WrapSignatureError(err, "failed to parse signature")
	}

	signer := p7.GetOnlySigner()
	if signer == nil {
		return nil, NewSignatureError("signature must have exactly one signer with an embedded certificate")
	}

	// detached: supply the content that was signed
	p7.Content = content
	if err := p7.Verify(); err != nil {
		return nil, WrapSignatureError(err, "signature verification failed")
	}

	if !issuedByEmbedded(signer, p7.Certificates) {
		return nil, NewSignatureError("signer certificate was not issued by any certificate embedded in the signature")
	}

	if opts.Roots != nil {
		chain := append([]*x509.Certificate{signer}, p7.Certificates...)
		if err := ValidateCertificateChain(chain, opts.Roots, opts.CurrentTime); err != nil {
			return nil, err
		}
	}

	return &VerifiedSignature{Signer: signer, Certificates: p7.Certificates}, nil
}

func issuedByEmbedded(signer *x509.Certificate, certs []*x509.Certificate) bool {
	for _, c := range certs {
		if issuedBy(signer, c) {
			return true
		}
	}
	return false
}

// issuedBy reports whether cert names issuer as its issuer and carries a valid signature by the
// issuer's key. CA constraints are left to chain validation.
func issuedBy(cert, issuer *x509.Certificate) bool {
	if !bytes.Equal(cert.RawIssuer, issuer.RawSubject) {
		return false
	}
	return issuer.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}
