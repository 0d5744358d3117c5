package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
)

// hashFile computes the streaming SHA-256 digest of a file's bytes, returned
// as a hex string. The digest depends only on content, never on path or
// name, and is the sole dedup key for the index. Read failures are returned
// unretried.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
