package pkpass

import (
	"bytes"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/information-sharing-networks/pkpass/pkg/crypto"
)

// writeTestFiles writes the files of fsys below dir.
func writeTestFiles(dir string, fsys fstest.MapFS) error {
	for name, f := range fsys {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// rebuildArchive reads the entries of archive, applies mutate and writes them back in name order.
// If resign is set, manifest.json is recomputed over the mutated entries and signature is
// replaced by resign(manifest.json).
func rebuildArchive(t *testing.T, archive []byte, mutate func(entries map[string][]byte), resign func(manifest []byte) []byte) []byte {
	t.Helper()

	entries, err := readZip(bytes.NewReader(archive), int64(len(archive)), MaxAssetSize)
	if err != nil {
		t.Fatalf("readZip() error = %v", err)
	}
	if mutate != nil {
		mutate(entries)
	}

	if resign != nil {
		digests := make(map[string]string)
		for name, data := range entries {
			if name == ManifestFile || name == SignatureFile {
				continue
			}
			digests[name] = crypto.Digest(data)
		}
		m, err := NewManifest(digests)
		if err != nil {
			t.Fatalf("NewManifest() error = %v", err)
		}
		manifestJSON, err := m.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		entries[ManifestFile] = manifestJSON
		entries[SignatureFile] = resign(manifestJSON)
	}

	var zipEntries []zipEntry
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		zipEntries = append(zipEntries, zipEntry{name: name, data: entries[name]})
	}

	var buf bytes.Buffer
	if err := writeZip(&buf, zipEntries); err != nil {
		t.Fatalf("writeZip() error = %v", err)
	}
	return buf.Bytes()
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
