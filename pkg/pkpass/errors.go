package pkpass

import (
	"errors"
	"fmt"

	"github.com/information-sharing-networks/pkpass/pkg/crypto"
)

// Error represents a structured error from the pkpass package.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	// ErrCodeAssetRead indicates an asset could not be read (or is too large).
	ErrCodeAssetRead ErrorCode = "asset_read"

	// ErrCodeCertificate indicates malformed, expired or mis-chained certificates.
	ErrCodeCertificate ErrorCode = "certificate"

	// ErrCodeKeyMismatch indicates the private key does not belong to the signer certificate.
	ErrCodeKeyMismatch ErrorCode = "key_mismatch"

	// ErrCodeSigning indicates a failure of the signing primitive or an unusable key.
	ErrCodeSigning ErrorCode = "signing"

	// ErrCodeWrite indicates the archive could not be written to the output.
	ErrCodeWrite ErrorCode = "write"

	// ErrCodeContainer indicates a corrupt or incomplete archive.
	ErrCodeContainer ErrorCode = "container"

	// ErrCodeManifestMismatch indicates the archive content does not match its manifest.
	ErrCodeManifestMismatch ErrorCode = "manifest_mismatch"

	// ErrCodeInvalidSignature indicates the signature does not verify over the manifest.
	ErrCodeInvalidSignature ErrorCode = "invalid_signature"

	// ErrCodeInvalidPass indicates pass.json is not a valid pass.
	ErrCodeInvalidPass ErrorCode = "invalid_pass"
)

// PackageError represents a structured error from the pkpass package.
type PackageError struct {

	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// asset is the archive-relative name of the asset involved, if any
	asset string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *PackageError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *PackageError) Code() ErrorCode { return e.code }
func (e *PackageError) Unwrap() error   { return e.wrapped }

// Asset returns the name of the asset the error relates to ("" if none).
func (e *PackageError) Asset() string { return e.asset }

// NewAssetReadError creates an error for an asset that could not be read.
//
// The returned error will have code ErrCodeAssetRead.
func NewAssetReadError(name, msg string) error {
	return &PackageError{code: ErrCodeAssetRead, message: fmt.Sprintf("asset %q: %s", name, msg), asset: name}
}

// WrapAssetReadError wraps an I/O error for the named asset.
//
// The returned error will have code ErrCodeAssetRead.
func WrapAssetReadError(err error, name, msg string) error {
	return &PackageError{code: ErrCodeAssetRead, message: fmt.Sprintf("asset %q: %s", name, msg), asset: name, wrapped: err}
}

// WrapWriteError wraps a failure to write the archive.
//
// The returned error will have code ErrCodeWrite.
func WrapWriteError(err error, msg string) error {
	return &PackageError{code: ErrCodeWrite, message: msg, wrapped: err}
}

// NewContainerError creates an error for a corrupt or incomplete archive.
//
// The returned error will have code ErrCodeContainer.
func NewContainerError(msg string) error {
	return &PackageError{code: ErrCodeContainer, message: msg}
}

// WrapContainerError wraps an archive parsing error.
//
// The returned error will have code ErrCodeContainer.
func WrapContainerError(err error, msg string) error {
	return &PackageError{code: ErrCodeContainer, message: msg, wrapped: err}
}

// WrapInvalidPassError wraps a pass.json decoding or validation error.
//
// The returned error will have code ErrCodeInvalidPass.
func WrapInvalidPassError(err error, msg string) error {
	return &PackageError{code: ErrCodeInvalidPass, message: msg, wrapped: err}
}

// ManifestMismatchError lists every difference between an archive and its manifest.
type ManifestMismatchError struct {
	Missing    []string // in the manifest but not in the archive
	Extra      []string // in the archive but not in the manifest
	Mismatched []string // digest differs
}

func (e *ManifestMismatchError) Error() string {
	msg := "archive content does not match manifest"
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf("; missing %q", e.Missing)
	}
	if len(e.Extra) > 0 {
		msg += fmt.Sprintf("; not in manifest %q", e.Extra)
	}
	if len(e.Mismatched) > 0 {
		msg += fmt.Sprintf("; digest mismatch %q", e.Mismatched)
	}
	return msg
}

func (e *ManifestMismatchError) Code() ErrorCode { return ErrCodeManifestMismatch }
func (e *ManifestMismatchError) Unwrap() error   { return nil }

// fromCryptoError converts an error from the crypto package to the matching pkpass error.
// Certificate, key mismatch, signing and signature codes are kept; anything else
// is reported with the fallback code.
func fromCryptoError(err error, fallback ErrorCode, msg string) error {
	code := fallback
	var cerr crypto.Error
	if errors.As(err, &cerr) {
		switch cerr.Code() {
		case crypto.ErrCodeCertificate:
			code = ErrCodeCertificate
		case crypto.ErrCodeKeyMismatch:
			code = ErrCodeKeyMismatch
		case crypto.ErrCodeSigning:
			code = ErrCodeSigning
		case crypto.ErrCodeInvalidSignature:
			code = ErrCodeInvalidSignature
		}
	}
	return &PackageError{code: code, message: msg, wrapped: err}
}
