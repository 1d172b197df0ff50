// Package pkpass packages a pass into a signed archive (.pkpass) and reads archives back.
//
// An archive is a ZIP file holding pass.json, the pass assets (images and localizations),
// manifest.json (the SHA-1 digest of every other file) and signature (a detached PKCS#7
// signature over manifest.json made with the pass type certificate).
//
// Writing:
//
//	pkg := pkpass.New(p)
//	if err := pkg.AddAsset("icon.png", icon); err != nil { ... }
//	if err := pkg.Write(w, identity, pkpass.WriteOptions{}); err != nil { ... }
//
// Reading verifies the manifest and the signature before the pass is decoded; a
// Package is only returned for an archive that passed every check.
package pkpass

import (
	"crypto/x509"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/information-sharing-networks/pkpass/pkg/crypto"
	"github.com/information-sharing-networks/pkpass/pkg/pass"
)

// Package is a pass with its assets.
//
// A Package owns its pass and copies of its asset bytes. It is not safe for concurrent
// mutation. Packages returned by Read also carry the manifest, the signature and the
// signer certificate found in the archive.
type Package struct {
	pass   *pass.Pass
	assets map[string][]byte

	manifest  *Manifest
	signature []byte
	signer    *x509.Certificate
}

// New returns a package for a copy of p with no assets.
func New(p *pass.Pass) *Package {
	return &Package{pass: p.Clone(), assets: make(map[string][]byte)}
}

// Pass returns the pass of the package. Changes made through it (e.g. SetValue) are
// included in the next Write.
func (pkg *Package) Pass() *pass.Pass { return pkg.pass }

// AddAsset stores a copy of data under name, replacing any asset with that name.
//
// name is the archive-relative path, e.g. "icon@2x.png" or "fr.lproj/pass.strings".
func (pkg *Package) AddAsset(name string, data []byte) error {
	if err := validateAssetName(name); err != nil {
		return err
	}
	pkg.assets[name] = slices.Clone(data)
	return nil
}

// AddAssetFile reads the file at path and stores it under name.
func (pkg *Package) AddAssetFile(name, path string) error {
	if err := validateAssetName(name); err != nil {
		return err
	}
	data, err := readSource(FileSource(name, path), MaxAssetSize)
	if err != nil {
		return err
	}
	pkg.assets[name] = data
	return nil
}

// AddAssetsFS adds every regular file in fsys, named by its path in fsys.
// Hidden files (names starting with ".") are skipped. A reserved name (such as a pass.json
// left in the directory) is an error. On error no asset is added.
func (pkg *Package) AddAssetsFS(fsys fs.FS) error {
	added := make(map[string][]byte)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return WrapAssetReadError(err, p, "failed to walk")
		}
		if p != "." && d.Name()[0] == '.' {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := validateAssetName(p); err != nil {
			return err
		}
		data, err := readSource(FSSource(fsys, p, p), MaxAssetSize)
		if err != nil {
			return err
		}
		added[p] = data
		return nil
	})
	if err != nil {
		return err
	}

	maps.Copy(pkg.assets, added)
	return nil
}

// AddAssetsDir adds every regular file below dir (see AddAssetsFS).
func (pkg *Package) AddAssetsDir(dir string) error {
	root, err := os.OpenRoot(filepath.Clean(dir))
	if err != nil {
		return WrapAssetReadError(err, dir, "failed to open directory")
	}
	defer root.Close()
	return pkg.AddAssetsFS(root.FS())
}

// RemoveAsset removes the named asset, if present.
func (pkg *Package) RemoveAsset(name string) {
	delete(pkg.assets, name)
}

// Asset returns a copy of the named asset.
func (pkg *Package) Asset(name string) ([]byte, bool) {
	data, ok := pkg.assets[name]
	if !ok {
		return nil, false
	}
	return slices.Clone(data), true
}

// AssetNames returns the names of the assets, sorted.
func (pkg *Package) AssetNames() []string {
	return slices.Sorted(maps.Keys(pkg.assets))
}

// Manifest returns the manifest read from the archive (nil for a package that was not read).
func (pkg *Package) Manifest() *Manifest { return pkg.manifest }

// Signature returns a copy of the signature read from the archive.
func (pkg *Package) Signature() []byte { return slices.Clone(pkg.signature) }

// Signer returns the certificate that signed the archive the package was read from.
func (pkg *Package) Signer() *x509.Certificate { return pkg.signer }

// PassTypeIdentifierMatches reports whether the signer certificate of a read package was
// issued for the pass type of its pass.
func (pkg *Package) PassTypeIdentifierMatches() bool {
	return pkg.signer != nil && crypto.PassTypeIdentifier(pkg.signer) == pkg.pass.PassTypeIdentifier()
}

// readSource reads all of src, capped at maxSize.
func readSource(src Source, maxSize int64) ([]byte, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, WrapAssetReadError(err, src.Name, "failed to open")
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxSize+1))
	if err != nil {
		return nil, WrapAssetReadError(err, src.Name, "failed to read")
	}
	if int64(len(data)) > maxSize {
		return nil, NewAssetReadError(src.Name, fmt.Sprintf("exceeds maximum size (%d bytes)", maxSize))
	}
	return data, nil
}
