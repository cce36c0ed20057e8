package core

import (
	"errors"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
)

// Profile stores the metadata of a local game instance, usually in profile.toml
// at the instance root.
type Profile struct {
	Name          string `toml:"name"`
	Author        string `toml:"author,omitempty"`
	ProfileFormat string `toml:"profile-format"`
	GameVersion   string `toml:"game-version"`
	// Loaders maps loader name (fabric, forge, ...) to the installed loader version
	Loaders map[string]string      `toml:"loaders"`
	Options map[string]interface{} `toml:"options,omitempty"`
	// Dirs overrides the default resource-type -> directory mapping
	Dirs map[string]string `toml:"dirs,omitempty"`

	filePath string
}

const CurrentProfileFormat = "modgrab:1.0.0"

var ProfileFormatConstraintAccepted = mustParseConstraint("~1")

func mustParseConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

func NewProfile(name, author, gameVersion string, loaders map[string]string) *Profile {
	return &Profile{
		Name:          name,
		Author:        author,
		ProfileFormat: CurrentProfileFormat,
		GameVersion:   gameVersion,
		Loaders:       loaders,
		Options:       make(map[string]interface{}),
	}
}

// GetGameVersion gets the version of Minecraft this profile targets, if it has
// been correctly specified
func (p *Profile) GetGameVersion() (string, error) {
	if p.GameVersion == "" {
		return "", errors.New("no game version specified in profile")
	}
	return p.GameVersion, nil
}

// GetSupportedGameVersions gets the versions this profile allows in installed
// content, ordered by preference (highest = most desirable)
func (p *Profile) GetSupportedGameVersions() ([]string, error) {
	gameVersion, err := p.GetGameVersion()
	if err != nil {
		return nil, err
	}
	all := append(append([]string(nil), p.GetAcceptableGameVersions()...), gameVersion)
	return SortAndDedupeVersions(all), nil
}

func (p *Profile) GetAcceptableGameVersions() []string {
	raw, ok := p.Options["acceptable-game-versions"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (p *Profile) SetAcceptableGameVersions(versions []string) {
	p.Options["acceptable-game-versions"] = SortAndDedupeVersions(versions)
}

// GetCompatibleLoaders returns the loaders acceptable in installed content,
// including backwards-compatible ones
func (p *Profile) GetCompatibleLoaders() (loaders []string) {
	if _, hasQuilt := p.Loaders["quilt"]; hasQuilt {
		loaders = append(loaders, "quilt")
		loaders = append(loaders, "fabric") // Backwards-compatible; for now (could be configurable later)
	} else if _, hasFabric := p.Loaders["fabric"]; hasFabric {
		loaders = append(loaders, "fabric")
	}
	if _, hasNeoForge := p.Loaders["neoforge"]; hasNeoForge {
		loaders = append(loaders, "neoforge")
		loaders = append(loaders, "forge") // Backwards-compatible; for now (could be configurable later)
	} else if _, hasForge := p.Loaders["forge"]; hasForge {
		loaders = append(loaders, "forge")
	}
	return
}

// defaultDirs maps a resource type to its directory under the instance root.
var defaultDirs = map[ResourceType]string{
	TypeMod:          "mods",
	TypeDatapack:     "datapacks",
	TypeShader:       "shaderpacks",
	TypeResourcepack: "resourcepacks",
}

// DirFor resolves the installation directory for a resource type, honoring
// profile overrides. The path is absolute when the profile has a file path.
func (p *Profile) DirFor(resourceType ResourceType) string {
	dir, ok := p.Dirs[string(resourceType)]
	if !ok {
		dir, ok = defaultDirs[resourceType]
		if !ok {
			dir = string(resourceType)
		}
	}
	return filepath.Join(p.GetProfileDir(), dir)
}

func (p *Profile) GetFilePath() string {
	return p.filePath
}

func (p *Profile) SetFilePath(path string) {
	p.filePath = path
}

func (p *Profile) GetProfileDir() string {
	return filepath.Dir(p.filePath)
}
