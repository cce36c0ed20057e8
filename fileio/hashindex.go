package fileio

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// HashIndex tracks the SHA-1 digests of the files present in each installation
// directory. Directories are scanned lazily on first use and each keeps its own
// lock, so lookups in mods/ never block lookups in resourcepacks/.
//
// The index is a point-in-time heuristic: files changed behind its back are
// only picked up after Invalidate.
type HashIndex struct {
	mu   sync.Mutex
	dirs map[string]*dirIndex
}

type dirIndex struct {
	mu      sync.RWMutex
	scanned bool
	hashes  map[string]bool
}

func NewHashIndex() *HashIndex {
	return &HashIndex{dirs: make(map[string]*dirIndex)}
}

func (x *HashIndex) dir(dir string) *dirIndex {
	x.mu.Lock()
	defer x.mu.Unlock()
	d, ok := x.dirs[dir]
	if !ok {
		d = &dirIndex{hashes: make(map[string]bool)}
		x.dirs[dir] = d
	}
	return d
}

// Contains reports whether a file with the given SHA-1 exists under dir.
func (x *HashIndex) Contains(dir string, sha1 string) (bool, error) {
	d := x.dir(dir)
	if err := d.ensureScanned(dir); err != nil {
		return false, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hashes[strings.ToLower(sha1)], nil
}

// Add records a just-installed file without rescanning.
func (x *HashIndex) Add(dir string, sha1 string) {
	d := x.dir(dir)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hashes[strings.ToLower(sha1)] = true
}

// Remove drops a hash after its file was deleted.
func (x *HashIndex) Remove(dir string, sha1 string) {
	d := x.dir(dir)
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.hashes, strings.ToLower(sha1))
}

// Invalidate discards a directory's cached hashes; the next lookup rescans.
func (x *HashIndex) Invalidate(dir string) {
	d := x.dir(dir)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scanned = false
	d.hashes = make(map[string]bool)
}

func (d *dirIndex) ensureScanned(dir string) error {
	d.mu.RLock()
	scanned := d.scanned
	d.mu.RUnlock()
	if scanned {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scanned {
		return nil
	}
	hashes, err := scanDir(dir)
	if err != nil {
		return err
	}
	// merge rather than replace so hashes Added before the first scan survive
	for hash := range hashes {
		d.hashes[hash] = true
	}
	d.scanned = true
	return nil
}

// scanDir hashes every non-ignored file under dir. A missing directory is an
// empty set, not an error.
func scanDir(dir string) (map[string]bool, error) {
	hashes := make(map[string]bool)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return hashes, nil
	}

	ignore, _ := readIgnoreFile(filepath.Join(dir, IgnoreFileName))
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if ignore.MatchesPath(filepath.ToSlash(rel)) {
			return nil
		}
		hash, err := HashFile(path, "sha1")
		if err != nil {
			return err
		}
		hashes[strings.ToLower(hash)] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hashes, nil
}
