package pkpass

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/information-sharing-networks/pkpass/pkg/crypto"
)

// WriteOptions configure Package.Write.
type WriteOptions struct {
	// Workers is the number of files digested concurrently (default runtime.NumCPU()).
	Workers int

	// MaxAssetSize is the largest file accepted (default MaxAssetSize).
	MaxAssetSize int64

	// IncludeSigningTime adds signed attributes (including the signing time) to the signature.
	// Production passes should set this; without it RSA-signed archives are reproducible.
	IncludeSigningTime bool

	// Now is the time the signing certificates must be valid at (zero = time.Now()).
	Now time.Time

	// Logger receives warnings about the package (default slog.Default()).
	Logger *slog.Logger
}

// Write signs the package with id and writes the archive to w.
//
// The archive holds pass.json, manifest.json, signature and then the assets sorted by name,
// so identical input produces an identical archive (see WriteOptions.IncludeSigningTime).
//
// Errors have code ErrCodeAssetRead, ErrCodeCertificate, ErrCodeKeyMismatch, ErrCodeSigning
// or ErrCodeWrite. Nothing is written to w unless manifest and signature were produced;
// if writing itself fails, w holds a partial archive that must be discarded.
func (pkg *Package) Write(w io.Writer, id crypto.SigningIdentity, opts WriteOptions) error {
	return pkg.WriteContext(context.Background(), w, id, opts)
}

// WriteContext is Write with a context that can abandon digesting.
func (pkg *Package) WriteContext(ctx context.Context, w io.Writer, id crypto.SigningIdentity, opts WriteOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := id.Validate(opts.Now); err != nil {
		return fromCryptoError(err, ErrCodeCertificate, "invalid signing identity")
	}
	pkg.warn(logger, id)

	passJSON, err := pkg.pass.MarshalJSON()
	if err != nil {
		return WrapWriteError(err, "failed to encode pass.json")
	}

	names := pkg.AssetNames()
	sources := make([]Source, 0, len(names)+1)
	sources = append(sources, BytesSource(PassFile, passJSON))
	for _, name := range names {
		sources = append(sources, BytesSource(name, pkg.assets[name]))
	}

	digested, err := digestSources(ctx, sources, ManifestOptions{Workers: opts.Workers, MaxAssetSize: opts.MaxAssetSize})
	if err != nil {
		return err
	}

	manifest := manifestOf(digested)
	manifestJSON, err := manifest.Bytes()
	if err != nil {
		return WrapWriteError(err, "failed to encode manifest.json")
	}

	signature, err := crypto.SignDetached(manifestJSON, id, crypto.SignOptions{
		IncludeSigningTime: opts.IncludeSigningTime,
		Now:                opts.Now,
	})
	if err != nil {
		return fromCryptoError(err, ErrCodeSigning, "failed to sign manifest")
	}

	entries := make([]zipEntry, 0, len(digested)+2)
	entries = append(entries,
		zipEntry{name: PassFile, data: digested[0].data},
		zipEntry{name: ManifestFile, data: manifestJSON},
		zipEntry{name: SignatureFile, data: signature},
	)
	for _, d := range digested[1:] {
		entries = append(entries, zipEntry{name: d.name, data: d.data})
	}

	if err := writeZip(w, entries); err != nil {
		return err
	}

	logger.Debug("pass archive written",
		slog.String("serial_number", pkg.pass.SerialNumber()),
		slog.Int("assets", len(names)),
		slog.String("signer", id.Certificate.Subject.CommonName))

	return nil
}

// Bytes signs the package and returns the archive.
func (pkg *Package) Bytes(id crypto.SigningIdentity, opts WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := pkg.Write(&buf, id, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile signs the package and writes the archive to path.
// The file is written to a temporary file first and renamed into place, so path is
// never left holding a partial archive.
func (pkg *Package) WriteFile(path string, id crypto.SigningIdentity, opts WriteOptions) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pkpass-*")
	if err != nil {
		return WrapWriteError(err, fmt.Sprintf("failed to create temporary file in %s", dir))
	}
	tmpName := tmp.Name()

	// Clean up on failure
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := pkg.Write(tmp, id, opts); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return WrapWriteError(err, "failed to close archive")
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return WrapWriteError(err, "failed to set archive permissions")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return WrapWriteError(err, fmt.Sprintf("failed to move archive to %s", path))
	}
	committed = true
	return nil
}

// warn logs problems a wallet app would reject the pass for but that do not stop packaging.
func (pkg *Package) warn(logger *slog.Logger, id crypto.SigningIdentity) {
	if _, ok := pkg.assets[ImageName(ImageIcon, 1)]; !ok {
		logger.Warn("package has no icon.png: wallet apps do not accept a pass without an icon",
			slog.String("serial_number", pkg.pass.SerialNumber()))
	}

	if certPassType := crypto.PassTypeIdentifier(id.Certificate); certPassType != "" && certPassType != pkg.pass.PassTypeIdentifier() {
		logger.Warn("signer certificate was issued for another pass type",
			slog.String("pass_type_identifier", pkg.pass.PassTypeIdentifier()),
			slog.String("certificate_pass_type_identifier", certPassType))
	}
	if certTeam := crypto.TeamIdentifier(id.Certificate); certTeam != "" && certTeam != pkg.pass.TeamIdentifier() {
		logger.Warn("signer certificate was issued to another team",
			slog.String("team_identifier", pkg.pass.TeamIdentifier()),
			slog.String("certificate_team_identifier", certTeam))
	}

	for _, name := range pkg.AssetNames() {
		if info := ClassifyAsset(name); info.Kind == AssetOther {
			logger.Debug("asset is not a known image or localization", slog.String("asset", name))
		}
	}
}
