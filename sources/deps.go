package sources

import (
	"github.com/charmbracelet/log"

	"github.com/leocov-dev/modgrab/config"
	"github.com/leocov-dev/modgrab/core"
)

// InstalledIndex answers whether an artifact with the given SHA-1 already
// exists under an installation directory.
type InstalledIndex interface {
	Contains(dir string, sha1 string) (bool, error)
}

// ResolvedDependency pairs a dependency's project record with the version
// selected for it.
type ResolvedDependency struct {
	Project *core.Project
	Version *core.Version
}

// FindMissingDependencies resolves the direct required dependencies of a
// version and returns the ones not already installed. Only one level is
// walked; dependencies-of-dependencies are picked up on a later install.
// Dependencies that cannot be resolved are logged and skipped so one broken
// registry entry does not block the install.
func FindMissingDependencies(rootVersion *core.Version, filter VersionFilter, index InstalledIndex, dirFor func(core.ResourceType) string) []ResolvedDependency {
	var deps []core.Dependency
	seen := make(map[string]bool)
	for _, dep := range rootVersion.Dependencies {
		if dep.Type != core.DependencyRequired || dep.ProjectID == "" {
			continue
		}
		if seen[dep.ProjectID] {
			continue
		}
		seen[dep.ProjectID] = true
		deps = append(deps, dep)
	}
	if len(deps) == 0 {
		return nil
	}

	results := core.RunBounded(deps, config.DependencyConcurrency, func(dep core.Dependency) (ResolvedDependency, error) {
		return resolveDependency(dep, filter)
	})

	var missing []ResolvedDependency
	for _, res := range results {
		if !res.Ok() {
			log.Warn("skipping unresolvable dependency", "project", res.Item.ProjectID, "err", res.Err)
			continue
		}
		if !isInstalled(res.Value, index, dirFor) {
			missing = append(missing, res.Value)
		}
	}
	return missing
}

func resolveDependency(dep core.Dependency, filter VersionFilter) (ResolvedDependency, error) {
	ref := core.ParseProjectRef(dep.ProjectID)
	registry := RegistryFor(ref)
	project, err := registry.GetProject(ref)
	if err != nil {
		return ResolvedDependency{}, err
	}
	depFilter := filter
	depFilter.Type = project.Type
	var version *core.Version
	if dep.VersionID != "" {
		version, err = registry.GetVersion(ref, dep.VersionID)
	} else {
		var versions []*core.Version
		versions, err = ResolveVersions(dep.ProjectID, depFilter)
		if err == nil {
			version = versions[0]
		}
	}
	if err != nil {
		return ResolvedDependency{}, err
	}
	return ResolvedDependency{Project: project, Version: version}, nil
}

// isInstalled checks the hash index for the dependency's primary file. A
// version without a primary file or SHA-1 is conservatively treated as not
// installed.
func isInstalled(dep ResolvedDependency, index InstalledIndex, dirFor func(core.ResourceType) string) bool {
	primary := dep.Version.PrimaryFile()
	if primary == nil {
		return false
	}
	sha1 := primary.Sha1()
	if sha1 == "" {
		return false
	}
	installed, err := index.Contains(dirFor(dep.Project.Type), sha1)
	if err != nil {
		log.Warn("could not check installed files", "project", dep.Project.Slug, "err", err)
		return false
	}
	return installed
}
