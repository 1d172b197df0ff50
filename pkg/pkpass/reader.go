package pkpass

import (
	"bytes"
	"context"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/information-sharing-networks/pkpass/pkg/crypto"
	"github.com/information-sharing-networks/pkpass/pkg/pass"
)

// ReadOptions configure Read.
type ReadOptions struct {
	// Roots, when set, requires the signer certificate to chain to one of these roots through
	// the certificates embedded in the signature. When nil only the signature itself and the
	// embedded issuer are checked.
	Roots *x509.CertPool

	// CurrentTime is the time the chain must be valid at when Roots is set (zero = time.Now()).
	CurrentTime time.Time

	// MaxEntrySize is the largest archive entry accepted (default MaxAssetSize).
	MaxEntrySize int64

	// Workers is the number of entries digested concurrently (default runtime.NumCPU()).
	Workers int

	Logger *slog.Logger
}

// Read parses and verifies an archive of size bytes.
//
// The checks run in order and the first failure is returned:
//   - the container must be a valid archive holding pass.json, manifest.json and signature
//     (ErrCodeContainer)
//   - every other entry must be in the manifest with a matching digest and every manifest
//     entry must be present (*ManifestMismatchError, ErrCodeManifestMismatch)
//   - the signature must verify over manifest.json (ErrCodeInvalidSignature, or
//     ErrCodeCertificate if the chain does not reach opts.Roots)
//   - pass.json must be a valid pass (ErrCodeInvalidPass)
//
// No Package is returned unless every check passed.
func Read(r io.ReaderAt, size int64, opts ReadOptions) (*Package, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxEntrySize := opts.MaxEntrySize
	if maxEntrySize <= 0 {
		maxEntrySize = MaxAssetSize
	}

	entries, err := readZip(r, size, maxEntrySize)
	if err != nil {
		return nil, err
	}

	for _, name := range []string{PassFile, ManifestFile, SignatureFile} {
		if _, ok := entries[name]; !ok {
			return nil, NewContainerError(fmt.Sprintf("archive has no %s", name))
		}
	}
	passJSON, manifestJSON, signature := entries[PassFile], entries[ManifestFile], entries[SignatureFile]
	delete(entries, ManifestFile)
	delete(entries, SignatureFile)

	manifest, err := ParseManifest(manifestJSON)
	if err != nil {
		return nil, err
	}

	names := slices.Sorted(maps.Keys(entries))
	sources := make([]Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, BytesSource(name, entries[name]))
	}
	digested, err := digestSources(context.Background(), sources, ManifestOptions{Workers: opts.Workers, MaxAssetSize: maxEntrySize})
	if err != nil {
		return nil, WrapContainerError(err, "failed to digest archive entries")
	}
	if err := manifest.Compare(manifestOf(digested).digests); err != nil {
		return nil, err
	}

	verified, err := crypto.VerifyDetached(signature, manifestJSON, crypto.VerifyOptions{
		Roots:       opts.Roots,
		CurrentTime: opts.CurrentTime,
	})
	if err != nil {
		return nil, fromCryptoError(err, ErrCodeInvalidSignature, "signature verification failed")
	}

	p, err := pass.Parse(passJSON)
	if err != nil {
		return nil, WrapInvalidPassError(err, "invalid pass.json")
	}

	delete(entries, PassFile)
	pkg := &Package{
		pass:      p,
		assets:    entries,
		manifest:  manifest,
		signature: signature,
		signer:    verified.Signer,
	}

	if !pkg.PassTypeIdentifierMatches() && crypto.PassTypeIdentifier(verified.Signer) != "" {
		logger.Warn("archive signed with a certificate for another pass type",
			slog.String("pass_type_identifier", p.PassTypeIdentifier()),
			slog.String("certificate_pass_type_identifier", crypto.PassTypeIdentifier(verified.Signer)))
	}
	logger.Debug("pass archive verified",
		slog.String("serial_number", p.SerialNumber()),
		slog.Int("assets", len(entries)),
		slog.String("signer", verified.Signer.Subject.CommonName))

	return pkg, nil
}

// ReadBytes parses and verifies an archive held in memory (see Read).
func ReadBytes(data []byte, opts ReadOptions) (*Package, error) {
	return Read(bytes.NewReader(data), int64(len(data)), opts)
}

// ReadFile parses and verifies the archive at path (see Read).
func ReadFile(path string, opts ReadOptions) (*Package, error) {
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, WrapContainerError(err, fmt.Sprintf("failed to open directory of %s", path))
	}
	defer root.Close()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, WrapContainerError(err, fmt.Sprintf("failed to open %s", path))
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, WrapContainerError(err, fmt.Sprintf("failed to stat %s", path))
	}

	return Read(file, info.Size(), opts)
}
