package pkpass

// zip.go reads and writes the ZIP container. Written archives are reproducible: entries are
// written in the order given, all with the same modification time and compression method.

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"
)

// entryModTime is the modification time of every written entry (the earliest MS-DOS date).
var entryModTime = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

type zipEntry struct {
	name string
	data []byte
}

// writeZip writes entries to w in order.
func writeZip(w io.Writer, entries []zipEntry) error {
	zipWriter := zip.NewWriter(w)

	for _, e := range entries {
		header := &zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: entryModTime,
		}
		header.SetMode(0644)

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return WrapWriteError(err, fmt.Sprintf("failed to create archive entry %q", e.name))
		}
		if _, err := writer.Write(e.data); err != nil {
			return WrapWriteError(err, fmt.Sprintf("failed to write archive entry %q", e.name))
		}
	}

	if err := zipWriter.Close(); err != nil {
		return WrapWriteError(err, "failed to finish archive")
	}
	return nil
}

// readZip returns the content of every file in the archive.
// Directory entries are ignored. Entry names must be safe relative paths and unique.
func readZip(r io.ReaderAt, size int64, maxEntrySize int64) (map[string][]byte, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, WrapContainerError(err, "failed to open archive")
	}
	if len(zipReader.File) > MaxEntries {
		return nil, NewContainerError(fmt.Sprintf("archive has %d entries (maximum %d)", len(zipReader.File), MaxEntries))
	}

	entries := make(map[string][]byte, len(zipReader.File))
	for _, file := range zipReader.File {
		if strings.HasSuffix(file.Name, "/") {
			continue
		}

		// Validate path doesn't escape the archive root
		if !fs.ValidPath(file.Name) || strings.Contains(file.Name, `\`) {
			return nil, NewContainerError(fmt.Sprintf("invalid entry name %q", file.Name))
		}
		if _, dup := entries[file.Name]; dup {
			return nil, NewContainerError(fmt.Sprintf("duplicate entry %q", file.Name))
		}
		if file.UncompressedSize64 > uint64(maxEntrySize) {
			return nil, NewContainerError(fmt.Sprintf("entry %q exceeds maximum size (%d bytes)", file.Name, maxEntrySize))
		}

		data, err := readZipFile(file, maxEntrySize)
		if err != nil {
			return nil, err
		}
		entries[file.Name] = data
	}

	return entries, nil
}

func readZipFile(file *zip.File, maxSize int64) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, WrapContainerError(err, fmt.Sprintf("failed to open entry %q", file.Name))
	}
	defer rc.Close()

	// the header size is not trusted
	data, err := io.ReadAll(io.LimitReader(rc, maxSize+1))
	if err != nil {
		return nil, WrapContainerError(err, fmt.Sprintf("failed to read entry %q", file.Name))
	}
	if int64(len(data)) > maxSize {
		return nil, NewContainerError(fmt.Sprintf("entry %q exceeds maximum size (%d bytes)", file.Name, maxSize))
	}
	return data, nil
}
