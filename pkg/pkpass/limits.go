package pkpass

const (
	// MaxAssetSize is the default limit on the size of one archive entry.
	MaxAssetSize int64 = 20 * 1024 * 1024

	// MaxEntries is the maximum number of entries accepted in an archive.
	MaxEntries = 1000
)
