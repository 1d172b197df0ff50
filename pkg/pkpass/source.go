package pkpass

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Source is a named piece of archive content: pass.json or an asset.
//
// Open is called once per read; the content read is the content that is hashed and stored.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// BytesSource returns a source that reads from data. data must not be modified while the
// source is in use.
func BytesSource(name string, data []byte) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileSource returns a source that reads the file at path.
// The file is opened within its directory, symlinks out of the directory are not followed.
func FileSource(name, path string) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			root, err := os.OpenRoot(filepath.Dir(path))
			if err != nil {
				return nil, err
			}
			defer root.Close()
			return root.Open(filepath.Base(path))
		},
	}
}

// FSSource returns a source that reads path from fsys.
func FSSource(fsys fs.FS, name, path string) Source {
	return Source{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return fsys.Open(path)
		},
	}
}
