package fileio

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/leocov-dev/modgrab/core"
)

func CreateFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		err2 := os.MkdirAll(filepath.Dir(path), os.ModePerm)
		if err2 == nil {
			f, err = os.Create(path)
		}
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}

// HashFile computes a file's digest in the given hash format, in that format's
// string encoding (hex for digests, decimal for murmur2).
func HashFile(path, hashFormat string) (string, error) {
	impl, err := core.GetHashImpl(hashFormat)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(impl, f); err != nil {
		return "", err
	}
	return impl.String(), nil
}

// hexMatches compares two hex digests case-insensitively by decoding them.
func hexMatches(a, b string) bool {
	bytesA, errA := hex.DecodeString(a)
	bytesB, errB := hex.DecodeString(b)
	if errA != nil || errB != nil {
		return a == b
	}
	if len(bytesA) != len(bytesB) {
		return false
	}
	for i := range bytesA {
		if bytesA[i] != bytesB[i] {
			return false
		}
	}
	return true
}
