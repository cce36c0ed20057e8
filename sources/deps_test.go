package sources

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leocov-dev/modgrab/core"
)

type fakeRegistry struct {
	projects map[string]*core.Project
	versions map[string][]*core.Version
	pinned   map[string]*core.Version
}

func (f *fakeRegistry) GetProject(ref core.ProjectRef) (*core.Project, error) {
	if p, ok := f.projects[ref.String()]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %s not found", ref)
}

func (f *fakeRegistry) GetVersion(ref core.ProjectRef, versionID string) (*core.Version, error) {
	if v, ok := f.pinned[versionID]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("version %s not found", versionID)
}

func (f *fakeRegistry) ListVersions(ref core.ProjectRef, filter VersionFilter) ([]*core.Version, error) {
	return f.versions[ref.String()], nil
}

func (f *fakeRegistry) Search(query string, filter VersionFilter) ([]*core.Project, error) {
	return nil, nil
}

func swapRegistries(t *testing.T, fake Registry) {
	t.Helper()
	prevMr, prevCf := modrinthRegistry, curseforgeRegistry
	modrinthRegistry, curseforgeRegistry = fake, fake
	t.Cleanup(func() {
		modrinthRegistry, curseforgeRegistry = prevMr, prevCf
	})
}

type fakeIndex struct {
	installed map[string]bool
}

func (f *fakeIndex) Contains(dir, sha1 string) (bool, error) {
	return f.installed[dir+"/"+sha1], nil
}

func modVersion(projectID, versionID, sha1 string) *core.Version {
	return &core.Version{
		ID:        versionID,
		ProjectID: projectID,
		Files: []core.File{{
			Filename: versionID + ".jar",
			URL:      "https://example.invalid/" + versionID + ".jar",
			Primary:  true,
			Hashes:   map[string]string{"sha1": sha1},
		}},
	}
}

func TestFindMissingDependencies(t *testing.T) {
	const installedSha = "da39a3ee5e6b4b0d3255bfef95601890afd80709"

	fake := &fakeRegistry{
		projects: map[string]*core.Project{
			"aaaa": {ID: "aaaa", Slug: "dep-a", Type: core.TypeMod},
			"dddd": {ID: "dddd", Slug: "dep-d", Type: core.TypeMod},
			"eeee": {ID: "eeee", Slug: "dep-e", Type: core.TypeMod},
		},
		versions: map[string][]*core.Version{
			"aaaa": {modVersion("aaaa", "a1", "a9993e364706816aba3e25717850c26c9cd0d89d")},
			"eeee": {modVersion("eeee", "e1", installedSha)},
		},
		pinned: map[string]*core.Version{
			"d7": modVersion("dddd", "d7", "900150983cd24fb0d6963f7d28e17f72"),
		},
	}
	swapRegistries(t, fake)

	root := &core.Version{
		ID: "root",
		Dependencies: []core.Dependency{
			{ProjectID: "aaaa", Type: core.DependencyRequired},
			{ProjectID: "aaaa", Type: core.DependencyRequired}, // duplicate
			{ProjectID: "bbbb", Type: core.DependencyOptional},
			{Type: core.DependencyRequired}, // no project id
			{ProjectID: "dddd", VersionID: "d7", Type: core.DependencyRequired},
			{ProjectID: "eeee", Type: core.DependencyRequired}, // already installed
			{ProjectID: "zzzz", Type: core.DependencyRequired}, // unresolvable
		},
	}
	index := &fakeIndex{installed: map[string]bool{"mods/" + installedSha: true}}
	dirFor := func(core.ResourceType) string { return "mods" }

	missing := FindMissingDependencies(root, VersionFilter{Type: core.TypeMod}, index, dirFor)
	require.Len(t, missing, 2)

	byProject := make(map[string]ResolvedDependency)
	for _, dep := range missing {
		byProject[dep.Project.ID] = dep
	}
	require.Contains(t, byProject, "aaaa")
	require.Contains(t, byProject, "dddd")
	assert.Equal(t, "a1", byProject["aaaa"].Version.ID)
	assert.Equal(t, "d7", byProject["dddd"].Version.ID, "pinned version id must be fetched directly")
}

func TestFindMissingDependenciesNoPrimaryFile(t *testing.T) {
	fake := &fakeRegistry{
		projects: map[string]*core.Project{
			"aaaa": {ID: "aaaa", Slug: "dep-a", Type: core.TypeMod},
		},
		versions: map[string][]*core.Version{
			"aaaa": {{ID: "a1", ProjectID: "aaaa"}},
		},
	}
	swapRegistries(t, fake)

	root := &core.Version{
		Dependencies: []core.Dependency{{ProjectID: "aaaa", Type: core.DependencyRequired}},
	}
	index := &fakeIndex{installed: map[string]bool{}}

	missing := FindMissingDependencies(root, VersionFilter{Type: core.TypeMod}, index, func(core.ResourceType) string { return "mods" })
	require.Len(t, missing, 1, "a version without files cannot be proven installed")
	assert.Equal(t, "aaaa", missing[0].Project.ID)
}

func TestFindMissingDependenciesNone(t *testing.T) {
	swapRegistries(t, &fakeRegistry{})
	root := &core.Version{
		Dependencies: []core.Dependency{{ProjectID: "bbbb", Type: core.DependencyOptional}},
	}
	assert.Nil(t, FindMissingDependencies(root, VersionFilter{}, &fakeIndex{}, func(core.ResourceType) string { return "mods" }))
}
