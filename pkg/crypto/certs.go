package crypto

// certs.go - Functions for loading and validating the X.509 certificates used to sign passes.
// A pass is signed with a signer certificate issued by an intermediate (the wallet developer
// relations CA in production); both are embedded in the signature.

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// oidUserID is the subject attribute that carries the pass type identifier in a pass signing certificate.
var oidUserID = asn1.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 1}

// ParseCertificates parses one or more X.509 certificates from PEM or DER encoded data.
// The certificates are returned in the order they appear in the data.
//
// PEM data may contain other blocks (e.g. a private key); only CERTIFICATE blocks are used.
// Data without any PEM block is parsed as one or more concatenated DER certificates.
func ParseCertificates(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	var block *pem.Block
	remaining := data
	sawPEM := false

	for {
		block, remaining = pem.Decode(remaining)
		if block == nil {
			break
		}
		sawPEM = true

		// Skip non-certificate blocks
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, WrapCertificateError(err, "failed to parse certificate")
		}

		certs = append(certs, cert)
	}

	if !sawPEM && len(data) > 0 {
		der, err := x509.ParseCertificates(data)
		if err != nil {
			return nil, WrapCertificateError(err, "failed to parse DER certificate")
		}
		certs = der
	}

	if len(certs) == 0 {
		return nil, NewValidationError("no certificates found")
	}

	return certs, nil
}

// ReadCertificatesFromFile loads the certificates in a PEM or DER file.
//
// Parameters:
//   - path: The file path (e.g., "./certs/signer.pem" or "AppleWWDRCAG4.cer")
func ReadCertificatesFromFile(path string) ([]*x509.Certificate, error) {
	data, err := readKeyMaterial(path)
	if err != nil {
		return nil, err
	}
	return ParseCertificates(data)
}

// ReadCertificateFromFile loads the first certificate in a PEM or DER file.
// For a bundle this is the leaf certificate.
func ReadCertificateFromFile(path string) (*x509.Certificate, error) {
	certs, err := ReadCertificatesFromFile(path)
	if err != nil {
		return nil, err
	}
	return certs[0], nil
}

// LoadCustomRootCAs loads custom root CAs from a PEM file into a cert pool.
func LoadCustomRootCAs(path string) (*x509.CertPool, error) {
	if path == "" {
		return nil, fmt.Errorf("nil custom roots path received")
	}

	certs, err := ReadCertificatesFromFile(path)
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	for _, cert := range certs {
		pool.AddCert(cert)
	}

	return pool, nil
}

// ValidateCertificateChain validates an X.509 certificate chain against a set of trusted root CAs.
//
// Parameters:
//   - certChain: Certificate chain (leaf first, root last)
//   - roots: Root CA pool (nil = system roots, custom pool = testing/private CA)
//   - now: the time at which the chain must be valid (zero = time.Now())
func ValidateCertificateChain(certChain []*x509.Certificate, roots *x509.CertPool, now time.Time) error {
	if len(certChain) == 0 {
		return NewInternalError("empty certificate chain")
	}
	if now.IsZero() {
		now = time.Now()
	}

	// Build intermediate pool from chain (excluding leaf)
	intermediates := x509.NewCertPool()
	if len(certChain) > 1 {
		for _, cert := range certChain[1:] {
			intermediates.AddCert(cert)
		}
	}

	// pass signing certificates carry a vendor specific extended key usage
	verifyOpts := x509.VerifyOptions{
		Roots:         roots, // nil = system roots
		Intermediates: intermediates,
		CurrentTime:   now,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}

	leaf := certChain[0]
	chains, err := leaf.Verify(verifyOpts)
	if err != nil {
		return WrapCertificateError(err, "certificate chain validation failed")
	}
	if len(chains) == 0 {
		return NewCertificateError("no valid certificate chains found")
	}

	return nil
}

// checkValidity returns a certificate error if cert is not valid at now.
func checkValidity(name string, cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return NewCertificateError(fmt.Sprintf("%s certificate %q is not valid before %s",
			name, cert.Subject.CommonName, cert.NotBefore.Format(time.RFC3339)))
	}
	if now.After(cert.NotAfter) {
		return NewCertificateError(fmt.Sprintf("%s certificate %q expired at %s",
			name, cert.Subject.CommonName, cert.NotAfter.Format(time.RFC3339)))
	}
	return nil
}

// PassTypeIdentifier returns the pass type identifier (the subject UID) of a pass signing certificate,
// or "" if the certificate does not carry one.
func PassTypeIdentifier(cert *x509.Certificate) string {
	for _, name := range cert.Subject.Names {
		if name.Type.Equal(oidUserID) {
			if s, ok := name.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

// TeamIdentifier returns the team identifier (the subject OU) of a pass signing certificate.
func TeamIdentifier(cert *x509.Certificate) string {
	if len(cert.Subject.OrganizationalUnit) == 0 {
		return ""
	}
	return cert.Subject.OrganizationalUnit[0]
}

// passSubject returns the subject of a pass signing certificate.
func passSubject(commonName, passTypeID, teamID string) pkix.Name {
	name := pkix.Name{CommonName: commonName}
	if teamID != "" {
		name.OrganizationalUnit = []string{teamID}
	}
	if passTypeID != "" {
		name.ExtraNames = []pkix.AttributeTypeAndValue{{Type: oidUserID, Value: passTypeID}}
	}
	return name
}

// readKeyMaterial reads a certificate or key file, capped at MaxKeyMaterialSize.
func readKeyMaterial(path string) ([]byte, error) {
	dir := filepath.Dir(path)
	filename := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, WrapKeyManagementError(err, fmt.Sprintf("failed to open directory %s", dir))
	}
	defer root.Close()

	file, err := root.Open(filename)
	if err != nil {
		return nil, WrapKeyManagementError(err, fmt.Sprintf("failed to open %s", path))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxKeyMaterialSize+1))
	if err != nil {
		return nil, WrapKeyManagementError(err, fmt.Sprintf("failed to read %s", path))
	}
	if int64(len(data)) > MaxKeyMaterialSize {
		return nil, NewKeyManagementError(fmt.Sprintf("%s exceeds maximum size (%d bytes)", path, MaxKeyMaterialSize))
	}

	return data, nil
}
