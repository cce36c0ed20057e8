package sources

import (
	"errors"

	"github.com/leocov-dev/modgrab/core"
)

// ErrNoCompatibleVersion is returned when a project has no version matching the
// requested game versions, loaders and resource type.
var ErrNoCompatibleVersion = errors.New("no compatible version found for the configured game version(s) or loader")

// VersionFilter constrains a version listing. Empty slices mean "no constraint".
type VersionFilter struct {
	GameVersions []string
	Loaders      []string
	Type         core.ResourceType
}

// Registry is the common capability surface of a content registry. Both the
// native Modrinth client and the CurseForge adapter implement it; dispatch is
// done purely on the identifier namespace via RegistryFor.
type Registry interface {
	GetProject(ref core.ProjectRef) (*core.Project, error)
	GetVersion(ref core.ProjectRef, versionID string) (*core.Version, error)
	ListVersions(ref core.ProjectRef, filter VersionFilter) ([]*core.Version, error)
	Search(query string, filter VersionFilter) ([]*core.Project, error)
}

func RegistryFor(ref core.ProjectRef) Registry {
	if ref.IsCurseforge() {
		return GetCurseforgeRegistry()
	}
	return GetModrinthRegistry()
}

// ResolveVersions returns the compatible versions of a project in the registry's
// natural order. Callers treat element 0 as the selected version; that is a
// convention, not a quality ranking.
func ResolveVersions(id string, filter VersionFilter) ([]*core.Version, error) {
	ref := core.ParseProjectRef(id)
	versions, err := RegistryFor(ref).ListVersions(ref, filter)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, ErrNoCompatibleVersion
	}
	return versions, nil
}

// loaderFilterSkipped reports whether loader filtering is ignored outright for a
// resource type: neither registry models loaders for shaders and resource packs.
func loaderFilterSkipped(resourceType core.ResourceType) bool {
	return resourceType == core.TypeShader || resourceType == core.TypeResourcepack
}

// effectiveLoaders applies the per-type loader policy to the caller's loader
// selection: datapacks use the synthetic "datapack" loader, resource packs the
// synthetic "minecraft" loader, shaders no loader at all.
func effectiveLoaders(resourceType core.ResourceType, loaders []string) []string {
	switch resourceType {
	case core.TypeDatapack:
		return []string{"datapack"}
	case core.TypeResourcepack:
		return []string{"minecraft"}
	case core.TypeShader:
		return nil
	}
	return loaders
}

// matchVersion implements the single matching rule shared by both adapters: the
// game-version sets must intersect (unless no game versions were requested) and
// the loader sets must intersect (unless loader filtering is skipped for the
// type or no loaders were requested).
func matchVersion(v *core.Version, filter VersionFilter) bool {
	if len(filter.GameVersions) > 0 && !core.Intersects(v.GameVersions, filter.GameVersions) {
		return false
	}
	if loaderFilterSkipped(filter.Type) {
		return true
	}
	loaders := effectiveLoaders(filter.Type, filter.Loaders)
	if len(loaders) == 0 {
		return true
	}
	return core.Intersects(v.Loaders, loaders)
}
