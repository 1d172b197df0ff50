package crypto

// MaxKeyMaterialSize is the largest certificate or key file that will be read.
var MaxKeyMaterialSize int64 = 1 * 1024 * 1024 // 1MB
