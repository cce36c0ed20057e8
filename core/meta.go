package core

import (
	"fmt"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// MetaExtension is the suffix of the metadata file written next to each
// installed artifact.
const MetaExtension = ".mg.toml"

// Meta is the on-disk record of one installed artifact.
type Meta struct {
	Name     string       `toml:"name"`
	FileName string       `toml:"filename"`
	Type     ResourceType `toml:"type"`
	Pin      bool         `toml:"pin,omitempty"`
	Download MetaDownload `toml:"download"`
	// Source holds registry-specific identifiers, keyed per registry so a
	// meta file stays readable when the source registry is unknown
	Source map[string]map[string]interface{} `toml:"source"`

	slug string
}

type MetaDownload struct {
	URL        string `toml:"url"`
	HashFormat string `toml:"hash-format"`
	Hash       string `toml:"hash"`
}

// ModrinthSource are the identifiers stored for Modrinth-installed content.
type ModrinthSource struct {
	ProjectID string `mapstructure:"project-id"`
	VersionID string `mapstructure:"version-id"`
}

// CurseforgeSource are the identifiers stored for CurseForge-installed content.
type CurseforgeSource struct {
	ProjectID uint32 `mapstructure:"project-id"`
	FileID    uint32 `mapstructure:"file-id"`
}

// MetaFromVersion builds the meta record for a version about to be installed.
func MetaFromVersion(project *Project, version *Version) (*Meta, error) {
	file := version.PrimaryFile()
	if file == nil {
		return nil, fmt.Errorf("%s has no downloadable file", project.Slug)
	}
	hashFormat, hash := file.BestHash()
	if hash == "" {
		return nil, fmt.Errorf("%s has no hash to verify against", file.Filename)
	}

	meta := &Meta{
		Name:     project.Title,
		FileName: file.Filename,
		Type:     project.Type,
		Download: MetaDownload{
			URL:        file.URL,
			HashFormat: hashFormat,
			Hash:       hash,
		},
		Source: make(map[string]map[string]interface{}),
		slug:   project.Slug,
	}

	ref := project.Ref()
	if ref.IsCurseforge() {
		modID, err := ref.CurseforgeID()
		if err != nil {
			return nil, err
		}
		fileID, err := strconv.ParseUint(version.ID, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid curseforge file id %q: %w", version.ID, err)
		}
		meta.Source["curseforge"] = map[string]interface{}{
			"project-id": modID,
			"file-id":    uint32(fileID),
		}
	} else {
		meta.Source["modrinth"] = map[string]interface{}{
			"project-id": project.ID,
			"version-id": version.ID,
		}
	}
	return meta, nil
}

// SourceRegistry returns the registry this artifact came from, or "" when the
// meta carries no known source.
func (m *Meta) SourceRegistry() string {
	for _, name := range []string{"modrinth", "curseforge"} {
		if _, ok := m.Source[name]; ok {
			return name
		}
	}
	return ""
}

// DecodeSource decodes the identifiers for one registry into a typed struct,
// e.g. a *ModrinthSource or *CurseforgeSource.
func (m *Meta) DecodeSource(registry string, out interface{}) error {
	data, ok := m.Source[registry]
	if !ok {
		return fmt.Errorf("meta for %s has no %s source", m.FileName, registry)
	}
	return mapstructure.Decode(data, out)
}

// ProjectRef returns the ref of the source project, or an error when the meta
// has no known source.
func (m *Meta) ProjectRef() (ProjectRef, error) {
	switch m.SourceRegistry() {
	case "modrinth":
		var src ModrinthSource
		if err := m.DecodeSource("modrinth", &src); err != nil {
			return ProjectRef{}, err
		}
		return ModrinthRef(src.ProjectID), nil
	case "curseforge":
		var src CurseforgeSource
		if err := m.DecodeSource("curseforge", &src); err != nil {
			return ProjectRef{}, err
		}
		return CurseforgeRef(src.ProjectID), nil
	}
	return ProjectRef{}, fmt.Errorf("meta for %s has no known source registry", m.FileName)
}

// VersionID returns the source version identifier recorded in the meta.
func (m *Meta) VersionID() (string, error) {
	switch m.SourceRegistry() {
	case "modrinth":
		var src ModrinthSource
		if err := m.DecodeSource("modrinth", &src); err != nil {
			return "", err
		}
		return src.VersionID, nil
	case "curseforge":
		var src CurseforgeSource
		if err := m.DecodeSource("curseforge", &src); err != nil {
			return "", err
		}
		return strconv.FormatUint(uint64(src.FileID), 10), nil
	}
	return "", fmt.Errorf("meta for %s has no known source registry", m.FileName)
}

func (m *Meta) Slug() string {
	return m.slug
}

func (m *Meta) SetSlug(slug string) {
	m.slug = slug
}
