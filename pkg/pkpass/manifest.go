package pkpass

// manifest.go generates and checks manifest.json: the SHA-1 digest of every other file in the
// archive. The signature covers the manifest, so a file is trusted only if its digest matches.

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"runtime"
	"slices"

	"github.com/information-sharing-networks/pkpass/pkg/crypto"
	"golang.org/x/sync/errgroup"
)

// Manifest maps archive-relative file names to lowercase hex SHA-1 digests.
// A Manifest is immutable.
type Manifest struct {
	digests map[string]string
}

// NewManifest returns a manifest holding a copy of digests.
// Every digest must be a lowercase hex SHA-1 digest.
func NewManifest(digests map[string]string) (*Manifest, error) {
	for _, name := range slices.Sorted(maps.Keys(digests)) {
		if err := crypto.ValidateDigest(digests[name]); err != nil {
			return nil, fmt.Errorf("manifest entry %q: %w", name, err)
		}
	}
	return &Manifest{digests: maps.Clone(digests)}, nil
}

// ParseManifest decodes manifest.json.
func ParseManifest(data []byte) (*Manifest, error) {
	var digests map[string]string
	if err := json.Unmarshal(data, &digests); err != nil {
		return nil, WrapContainerError(err, "failed to decode manifest.json")
	}
	m, err := NewManifest(digests)
	if err != nil {
		return nil, WrapContainerError(err, "invalid manifest.json")
	}
	return m, nil
}

// Digest returns the digest recorded for name.
func (m *Manifest) Digest(name string) (string, bool) {
	d, ok := m.digests[name]
	return d, ok
}

// Names returns the file names in the manifest, sorted.
func (m *Manifest) Names() []string {
	return slices.Sorted(maps.Keys(m.digests))
}

func (m *Manifest) Len() int { return len(m.digests) }

// Digests returns a copy of the name to digest mapping.
func (m *Manifest) Digests() map[string]string {
	return maps.Clone(m.digests)
}

// Bytes returns the canonical JSON encoding of the manifest (keys sorted, no whitespace).
// These are the bytes that are signed.
func (m *Manifest) Bytes() ([]byte, error) {
	data, err := json.Marshal(m.digests)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return crypto.CanonicalizeJSON(data)
}

// Compare checks that digests (recomputed from archive content) match the manifest exactly.
// It returns a *ManifestMismatchError listing every difference, or nil.
func (m *Manifest) Compare(digests map[string]string) error {
	var mismatch ManifestMismatchError

	for _, name := range m.Names() {
		got, ok := digests[name]
		switch {
		case !ok:
			mismatch.Missing = append(mismatch.Missing, name)
		case got != m.digests[name]:
			mismatch.Mismatched = append(mismatch.Mismatched, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(digests)) {
		if _, ok := m.digests[name]; !ok {
			mismatch.Extra = append(mismatch.Extra, name)
		}
	}

	if len(mismatch.Missing)+len(mismatch.Extra)+len(mismatch.Mismatched) > 0 {
		return &mismatch
	}
	return nil
}

// ManifestOptions configure manifest generation.
type ManifestOptions struct {
	// Workers is the number of files digested concurrently (default runtime.NumCPU()).
	Workers int

	// MaxAssetSize is the largest file accepted (default MaxAssetSize).
	MaxAssetSize int64
}

func (o ManifestOptions) withDefaults() ManifestOptions {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.MaxAssetSize <= 0 {
		o.MaxAssetSize = MaxAssetSize
	}
	return o
}

// digestedSource is the content of a source and its digest.
type digestedSource struct {
	name   string
	digest string
	data   []byte
}

// GenerateManifest reads every source and returns the manifest of their digests.
//
// Sources are digested concurrently; the result does not depend on completion order. If any
// source cannot be read the error has code ErrCodeAssetRead and names the source, and no
// manifest is returned.
func GenerateManifest(ctx context.Context, sources []Source, opts ManifestOptions) (*Manifest, error) {
	digested, err := digestSources(ctx, sources, opts)
	if err != nil {
		return nil, err
	}
	return manifestOf(digested), nil
}

// digestSources reads and digests every source, keeping the bytes that were hashed.
// Results are in source order.
func digestSources(ctx context.Context, sources []Source, opts ManifestOptions) ([]digestedSource, error) {
	opts = opts.withDefaults()

	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if seen[src.Name] {
			return nil, NewAssetReadError(src.Name, "duplicate file name")
		}
		seen[src.Name] = true
		if src.Open == nil {
			return nil, NewAssetReadError(src.Name, "source has no content")
		}
	}

	results := make([]digestedSource, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rc, err := src.Open()
			if err != nil {
				return WrapAssetReadError(err, src.Name, "failed to open")
			}
			defer rc.Close()

			digest, data, err := crypto.DigestReader(rc, opts.MaxAssetSize)
			if err != nil {
				return WrapAssetReadError(err, src.Name, "failed to read")
			}

			// each worker writes only its own slot
			results[i] = digestedSource{name: src.Name, digest: digest, data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func manifestOf(digested []digestedSource) *Manifest {
	digests := make(map[string]string, len(digested))
	for _, d := range digested {
		digests[d.name] = d.digest
	}
	return &Manifest{digests: digests}
}
