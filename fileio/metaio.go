package fileio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/leocov-dev/modgrab/core"
)

// MetaPath returns the metadata file path for a slug inside an installation
// directory.
func MetaPath(dir, slug string) string {
	return filepath.Join(dir, slug+core.MetaExtension)
}

// LoadMeta attempts to load an artifact metadata file from a path
func LoadMeta(path string) (*core.Meta, error) {
	var meta core.Meta
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(raw, &meta); err != nil {
		return nil, err
	}
	meta.SetSlug(strings.TrimSuffix(filepath.Base(path), core.MetaExtension))
	return &meta, nil
}

// ListMetas loads every metadata file directly under dir. A missing directory
// is an empty list.
func ListMetas(dir string) ([]*core.Meta, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var metas []*core.Meta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), core.MetaExtension) {
			continue
		}
		meta, err := LoadMeta(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return metas, nil
}

// WriteMeta writes an artifact metadata file next to its artifact.
func WriteMeta(meta *core.Meta, path string) error {
	f, err := CreateFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(meta)
}
