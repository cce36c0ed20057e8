package core

import (
	"fmt"
	"strconv"
	"strings"
)

// CurseforgePrefix namespaces CurseForge project/version identifiers so they can
// share one identifier space with Modrinth identifiers. The prefix is the sole
// dispatch mechanism for selecting a registry.
const CurseforgePrefix = "cf-"

// ResourceType is the kind of installable content a project publishes.
type ResourceType string

const (
	TypeMod          ResourceType = "mod"
	TypeDatapack     ResourceType = "datapack"
	TypeShader       ResourceType = "shader"
	TypeResourcepack ResourceType = "resourcepack"
	TypeModpack      ResourceType = "modpack"
)

// InstallableTypes are the resource types that install into a profile directory.
var InstallableTypes = []ResourceType{TypeMod, TypeDatapack, TypeShader, TypeResourcepack}

// ProjectRef identifies a project on exactly one registry. Construct it once at
// the boundary with ParseProjectRef instead of re-checking prefixes at call sites.
type ProjectRef struct {
	id         string
	curseforge bool
}

// ParseProjectRef splits an identifier into its registry namespace and raw ID.
func ParseProjectRef(id string) ProjectRef {
	if raw, ok := strings.CutPrefix(id, CurseforgePrefix); ok {
		return ProjectRef{id: raw, curseforge: true}
	}
	return ProjectRef{id: id}
}

// CurseforgeRef builds a ref from a raw CurseForge mod ID.
func CurseforgeRef(modID uint32) ProjectRef {
	return ProjectRef{id: strconv.FormatUint(uint64(modID), 10), curseforge: true}
}

// ModrinthRef builds a ref from a raw Modrinth project ID or slug.
func ModrinthRef(id string) ProjectRef {
	return ProjectRef{id: id}
}

func (r ProjectRef) IsCurseforge() bool {
	return r.curseforge
}

// RawID returns the identifier with the namespace prefix stripped, as expected by
// the owning registry's endpoints.
func (r ProjectRef) RawID() string {
	return r.id
}

// CurseforgeID parses the raw numeric CurseForge mod ID.
func (r ProjectRef) CurseforgeID() (uint32, error) {
	if !r.curseforge {
		return 0, fmt.Errorf("%s is not a CurseForge identifier", r.id)
	}
	id, err := strconv.ParseUint(r.id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid CurseForge mod ID %q: %w", r.id, err)
	}
	return uint32(id), nil
}

// String returns the namespaced identifier, as stored and returned to callers.
func (r ProjectRef) String() string {
	if r.curseforge {
		return CurseforgePrefix + r.id
	}
	return r.id
}

// Project is the registry-agnostic view of a publishable unit (mod, resource
// pack, etc). ID always carries its namespace prefix.
type Project struct {
	ID           string
	Slug         string
	Title        string
	Description  string
	Type         ResourceType
	GameVersions []string
	Authors      []string
	PageURL      string
}

func (p *Project) Ref() ProjectRef {
	return ParseProjectRef(p.ID)
}

// Version is one release of a Project, normalized to the Modrinth shape. For
// CurseForge projects a Version may be synthesized from the latest-files index;
// Enriched reports whether hash/dependency data has been backfilled from the
// per-file detail endpoint.
type Version struct {
	ID            string
	ProjectID     string
	Name          string
	VersionNumber string
	Channel       string // release, beta, alpha
	GameVersions  []string
	Loaders       []string
	Files         []File
	Dependencies  []Dependency
	Enriched      bool
}

// PrimaryFile returns the file to install: the one marked primary, or the first
// file if none is marked. Nil if the version has no files.
func (v *Version) PrimaryFile() *File {
	if len(v.Files) == 0 {
		return nil
	}
	for i := range v.Files {
		if v.Files[i].Primary {
			return &v.Files[i]
		}
	}
	return &v.Files[0]
}

// File is one downloadable artifact of a Version. Hashes are keyed by the
// algorithm name ("sha1", "md5", ...), values in lowercase hex.
type File struct {
	Filename string
	URL      string
	Size     int64
	Primary  bool
	Hashes   map[string]string
}

// Sha1 returns the file's SHA-1 hex digest, or "" if the registry didn't supply one.
func (f *File) Sha1() string {
	return f.Hashes["sha1"]
}

// BestHash returns the most preferred hash the registry supplied for this file,
// with its format name.
func (f *File) BestHash() (hashFormat string, hash string) {
	for i := len(PreferredHashList) - 1; i >= 0; i-- {
		format := PreferredHashList[i]
		if value, ok := f.Hashes[format]; ok && value != "" {
			return format, value
		}
	}
	return "", ""
}

type DependencyType string

const (
	DependencyRequired     DependencyType = "required"
	DependencyOptional     DependencyType = "optional"
	DependencyIncompatible DependencyType = "incompatible"
	DependencyEmbedded     DependencyType = "embedded"
)

// Dependency references another project, possibly pinned to a version. ProjectID
// and VersionID are namespaced and may be empty; only required dependencies with
// a project identifier take part in automatic resolution.
type Dependency struct {
	ProjectID string
	VersionID string
	Type      DependencyType
}
