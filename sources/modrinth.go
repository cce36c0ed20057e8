package sources

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"

	"github.com/leocov-dev/modgrab/core"
)

const (
	mrApiServer  = "https://api.modrinth.com"
	mrSiteServer = "https://modrinth.com"
)

var mrDefaultClient *modrinthApi.Client

func GetModrinthClient() *modrinthApi.Client {
	if mrDefaultClient == nil {
		mrDefaultClient = modrinthApi.NewClient(&http.Client{})
		mrDefaultClient.UserAgent = core.UserAgent
	}
	return mrDefaultClient
}

type mrRegistry struct{}

var modrinthRegistry Registry = mrRegistry{}

func GetModrinthRegistry() Registry {
	return modrinthRegistry
}

func (mrRegistry) GetProject(ref core.ProjectRef) (*core.Project, error) {
	project, err := GetModrinthClient().Projects.Get(ref.RawID())
	if err != nil {
		return nil, err
	}
	return mrProjectToCore(project), nil
}

func (mrRegistry) GetVersion(ref core.ProjectRef, versionID string) (*core.Version, error) {
	versions, err := GetModrinthClient().Versions.GetMultiple([]string{versionID})
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("version %s not found", versionID)
	}
	return mrVersionToCore(versions[0]), nil
}

func (mrRegistry) ListVersions(ref core.ProjectRef, filter VersionFilter) ([]*core.Version, error) {
	project, err := GetModrinthClient().Projects.Get(ref.RawID())
	if err != nil {
		return nil, err
	}

	versions, err := GetModrinthClient().Versions.GetMultiple(project.Versions)
	if err != nil {
		return nil, err
	}

	// GetMultiple does not guarantee order; restore newest-first, which is what
	// the version listing endpoint would return (project.Versions is oldest-first)
	position := make(map[string]int, len(project.Versions))
	for i, id := range project.Versions {
		position[id] = i
	}
	sort.SliceStable(versions, func(i, j int) bool {
		var a, b int
		if versions[i].ID != nil {
			a = position[*versions[i].ID]
		}
		if versions[j].ID != nil {
			b = position[*versions[j].ID]
		}
		return a > b
	})

	var out []*core.Version
	for _, v := range versions {
		converted := mrVersionToCore(v)
		if matchVersion(converted, filter) {
			out = append(out, converted)
		}
	}
	return out, nil
}

// mrSearchHit is the subset of the Modrinth search response this tool uses; the
// search endpoint is not covered by the client library.
type mrSearchHit struct {
	ProjectID   string   `json:"project_id"`
	ProjectType string   `json:"project_type"`
	Slug        string   `json:"slug"`
	Author      string   `json:"author"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Versions    []string `json:"versions"`
}

type mrSearchResult struct {
	Hits []mrSearchHit `json:"hits"`
}

func (mrRegistry) Search(query string, filter VersionFilter) ([]*core.Project, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", "10")

	var facets [][]string
	if filter.Type != "" {
		facets = append(facets, []string{"project_type:" + mrProjectType(filter.Type)})
	}
	if len(filter.GameVersions) > 0 {
		gameVersions := core.TruncateNewest(filter.GameVersions, core.MaxGameVersionFilters)
		versionFacets := make([]string, 0, len(gameVersions))
		for _, v := range gameVersions {
			versionFacets = append(versionFacets, "versions:"+v)
		}
		facets = append(facets, versionFacets)
	}
	if loaders := effectiveLoaders(filter.Type, filter.Loaders); len(loaders) > 0 && !loaderFilterSkipped(filter.Type) {
		loaders = core.TruncateFilters(loaders, core.MaxLoaderFilters)
		loaderFacets := make([]string, 0, len(loaders))
		for _, l := range loaders {
			loaderFacets = append(loaderFacets, "categories:"+l)
		}
		facets = append(facets, loaderFacets)
	}
	if len(facets) > 0 {
		facetJSON, err := json.Marshal(facets)
		if err != nil {
			return nil, err
		}
		params.Set("facets", string(facetJSON))
	}

	resp, err := core.GetWithUA(mrApiServer+"/v2/search?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("modrinth search returned status %v", resp.StatusCode)
	}

	var result mrSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	projects := make([]*core.Project, 0, len(result.Hits))
	for _, hit := range result.Hits {
		projects = append(projects, &core.Project{
			ID:          hit.ProjectID,
			Slug:        hit.Slug,
			Title:       hit.Title,
			Description: hit.Description,
			Type:        mrResourceType(hit.ProjectType),
			Authors:     []string{hit.Author},
			PageURL:     mrSiteServer + "/" + hit.ProjectType + "/" + hit.Slug,
		})
	}
	return projects, nil
}

// mrProjectType maps a core resource type to the Modrinth project_type facet.
// Datapacks are Modrinth mods carrying the synthetic "datapack" loader.
func mrProjectType(resourceType core.ResourceType) string {
	switch resourceType {
	case core.TypeDatapack:
		return "mod"
	case core.TypeShader:
		return "shader"
	case core.TypeResourcepack:
		return "resourcepack"
	case core.TypeModpack:
		return "modpack"
	}
	return "mod"
}

func mrResourceType(projectType string) core.ResourceType {
	switch projectType {
	case "shader":
		return core.TypeShader
	case "resourcepack":
		return core.TypeResourcepack
	case "modpack":
		return core.TypeModpack
	}
	return core.TypeMod
}

func mrProjectToCore(project *modrinthApi.Project) *core.Project {
	p := &core.Project{
		GameVersions: project.GameVersions,
	}
	if project.ID != nil {
		p.ID = *project.ID
	}
	if project.Slug != nil {
		p.Slug = *project.Slug
	}
	if project.Title != nil {
		p.Title = *project.Title
	}
	if project.Description != nil {
		p.Description = *project.Description
	}
	if project.ProjectType != nil {
		p.Type = mrResourceType(*project.ProjectType)
		if project.Slug != nil {
			p.PageURL = mrSiteServer + "/" + *project.ProjectType + "/" + *project.Slug
		}
	}
	return p
}

// mrVersionToCore converts a Modrinth version to the registry-agnostic shape.
// Modrinth data is always complete, so the result is marked enriched.
func mrVersionToCore(version *modrinthApi.Version) *core.Version {
	v := &core.Version{
		GameVersions: version.GameVersions,
		Loaders:      version.Loaders,
		Enriched:     true,
	}
	if version.ID != nil {
		v.ID = *version.ID
	}
	if version.ProjectID != nil {
		v.ProjectID = *version.ProjectID
	}
	if version.Name != nil {
		v.Name = *version.Name
	}
	if version.VersionNumber != nil {
		v.VersionNumber = *version.VersionNumber
	}
	if version.VersionType != nil {
		v.Channel = *version.VersionType
	}

	for _, file := range version.Files {
		f := core.File{
			Hashes: file.Hashes,
		}
		if file.Filename != nil {
			f.Filename = *file.Filename
		}
		if file.URL != nil {
			f.URL = *file.URL
		}
		if file.Size != nil {
			f.Size = int64(*file.Size)
		}
		if file.Primary != nil {
			f.Primary = *file.Primary
		}
		v.Files = append(v.Files, f)
	}

	for _, dep := range version.Dependencies {
		d := core.Dependency{}
		if dep.ProjectID != nil {
			d.ProjectID = *dep.ProjectID
		}
		if dep.VersionID != nil {
			d.VersionID = *dep.VersionID
		}
		if dep.DependencyType != nil {
			d.Type = core.DependencyType(*dep.DependencyType)
		}
		v.Dependencies = append(v.Dependencies, d)
	}

	return v
}
