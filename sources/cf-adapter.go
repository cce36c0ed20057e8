package sources

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/leocov-dev/modgrab/config"
	"github.com/leocov-dev/modgrab/core"
)

// CurseForge class IDs for the Minecraft game
const (
	cfClassMods          = 6
	cfClassResourcepacks = 12
	cfClassModpacks      = 4471
	cfClassShaders       = 6552
	cfClassDatapacks     = 6945
)

// maxPreciseGameVersions is the cutoff between the precise per-version file
// listing strategy and the latest-files-index strategy.
const maxPreciseGameVersions = 3

type cfRegistry struct {
	client *cfClient
}

var curseforgeRegistry Registry = &cfRegistry{client: cfDefaultClient}

func GetCurseforgeRegistry() Registry {
	return curseforgeRegistry
}

func (r *cfRegistry) GetProject(ref core.ProjectRef) (*core.Project, error) {
	modID, err := ref.CurseforgeID()
	if err != nil {
		return nil, err
	}
	mod, err := r.client.GetModInfo(modID)
	if err != nil {
		return nil, err
	}
	return cfModToCore(mod), nil
}

func (r *cfRegistry) GetVersion(ref core.ProjectRef, versionID string) (*core.Version, error) {
	modID, err := ref.CurseforgeID()
	if err != nil {
		return nil, err
	}
	fileID, err := strconv.ParseUint(versionID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid curseforge file id %q: %w", versionID, err)
	}
	file, err := r.client.GetFileInfo(modID, uint32(fileID))
	if err != nil {
		return nil, err
	}
	v := cfFileToVersion(file)
	if v == nil {
		return nil, fmt.Errorf("curseforge file %s has no download available", versionID)
	}
	return v, nil
}

func (r *cfRegistry) ListVersions(ref core.ProjectRef, filter VersionFilter) ([]*core.Version, error) {
	modID, err := ref.CurseforgeID()
	if err != nil {
		return nil, err
	}
	if n := len(filter.GameVersions); n > 0 && n <= maxPreciseGameVersions {
		return r.listVersionsPrecise(modID, filter)
	}
	return r.listVersionsFromIndex(modID, filter)
}

// listVersionsPrecise asks the API for each requested game version separately,
// which returns full file records with hashes and dependencies up front.
func (r *cfRegistry) listVersionsPrecise(modID uint32, filter VersionFilter) ([]*core.Version, error) {
	loaderParam := cfLoaderParam(filter)
	seen := make(map[uint32]bool)
	var files []CfModFileInfo
	for _, gameVersion := range filter.GameVersions {
		pageFiles, err := r.client.GetModFiles(modID, gameVersion, loaderParam)
		if err != nil {
			return nil, err
		}
		for _, file := range pageFiles {
			if !seen[file.ID] {
				seen[file.ID] = true
				files = append(files, file)
			}
		}
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].ID > files[j].ID
	})
	var versions []*core.Version
	for _, file := range files {
		v := cfFileToVersion(file)
		if v == nil {
			continue
		}
		if cfMatchVersion(v, filter) {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

// listVersionsFromIndex synthesizes versions from the latest-files index on the
// mod record, then backfills the full file records with a bounded fetch. A
// failed backfill keeps the lightweight version rather than failing the listing.
func (r *cfRegistry) listVersionsFromIndex(modID uint32, filter VersionFilter) ([]*core.Version, error) {
	mod, err := r.client.GetModInfo(modID)
	if err != nil {
		return nil, err
	}
	var order []uint32
	byFile := make(map[uint32]*core.Version)
	for _, entry := range mod.LatestFilesIndexes {
		v, ok := byFile[entry.FileID]
		if !ok {
			v = &core.Version{
				ID:        strconv.FormatUint(uint64(entry.FileID), 10),
				ProjectID: core.CurseforgeRef(mod.ID).String(),
				Name:      entry.Filename,
				Channel:   cfChannelName(entry.ReleaseType),
				Files: []core.File{{
					Filename: entry.Filename,
					Primary:  true,
				}},
			}
			byFile[entry.FileID] = v
			order = append(order, entry.FileID)
		}
		v.GameVersions = append(v.GameVersions, entry.GameVersion)
		if name := cfLoaderName(entry.ModLoader); name != "" && !core.Intersects(v.Loaders, []string{name}) {
			v.Loaders = append(v.Loaders, name)
		}
	}
	var matched []*core.Version
	for _, fileID := range order {
		if v := byFile[fileID]; cfMatchVersion(v, filter) {
			matched = append(matched, v)
		}
	}

	results := core.RunBounded(matched, config.FileDetailConcurrency, func(v *core.Version) (*core.Version, error) {
		fileID, err := strconv.ParseUint(v.ID, 10, 32)
		if err != nil {
			return nil, err
		}
		file, err := r.client.GetFileInfo(modID, uint32(fileID))
		if err != nil {
			return nil, err
		}
		full := cfFileToVersion(file)
		if full == nil {
			return nil, fmt.Errorf("file %s has no download available", v.ID)
		}
		return full, nil
	})
	versions := make([]*core.Version, 0, len(results))
	for _, res := range results {
		if res.Ok() {
			versions = append(versions, mergeIndexVersion(res.Value, res.Item))
		} else {
			log.Warn("could not fetch curseforge file details, using index data",
				"mod", mod.Slug, "file", res.Item.ID, "err", res.Err)
			versions = append(versions, res.Item)
		}
	}
	return versions, nil
}

// mergeIndexVersion folds index rows into the enriched record; the file detail
// endpoint does not always list every game version the index does.
func mergeIndexVersion(full, index *core.Version) *core.Version {
	for _, gv := range index.GameVersions {
		if !core.Intersects(full.GameVersions, []string{gv}) {
			full.GameVersions = append(full.GameVersions, gv)
		}
	}
	for _, l := range index.Loaders {
		if !core.Intersects(full.Loaders, []string{l}) {
			full.Loaders = append(full.Loaders, l)
		}
	}
	return full
}

func (r *cfRegistry) Search(query string, filter VersionFilter) ([]*core.Project, error) {
	var gameVersion string
	if len(filter.GameVersions) > 0 {
		gameVersion = filter.GameVersions[0]
	}
	mods, err := r.client.GetSearch(query, "", cfClassID(filter.Type), 0, gameVersion, cfLoaderParam(filter))
	if err != nil {
		return nil, err
	}
	projects := make([]*core.Project, 0, len(mods))
	for _, mod := range mods {
		projects = append(projects, cfModToCore(mod))
	}
	return projects, nil
}

// cfMatchVersion applies the shared matching rule, except that datapacks match
// on game version alone: CurseForge files never declare a datapack loader, so
// the synthetic "datapack" loader used for Modrinth can never intersect here.
func cfMatchVersion(v *core.Version, filter VersionFilter) bool {
	if filter.Type == core.TypeDatapack {
		return len(filter.GameVersions) == 0 || core.Intersects(v.GameVersions, filter.GameVersions)
	}
	return matchVersion(v, filter)
}

// cfLoaderParam picks the server-side loader filter: only usable when the
// effective loader selection is a single loader CurseForge knows about.
func cfLoaderParam(filter VersionFilter) ModloaderType {
	if loaderFilterSkipped(filter.Type) || filter.Type == core.TypeDatapack {
		return ModloaderTypeAny
	}
	loaders := effectiveLoaders(filter.Type, filter.Loaders)
	if len(loaders) != 1 {
		return ModloaderTypeAny
	}
	for i, id := range ModloaderIds {
		if id == loaders[0] {
			return ModloaderType(i)
		}
	}
	return ModloaderTypeAny
}

func cfClassID(resourceType core.ResourceType) uint32 {
	switch resourceType {
	case core.TypeMod:
		return cfClassMods
	case core.TypeResourcepack:
		return cfClassResourcepacks
	case core.TypeShader:
		return cfClassShaders
	case core.TypeDatapack:
		return cfClassDatapacks
	case core.TypeModpack:
		return cfClassModpacks
	}
	return 0
}

func cfResourceType(classID uint32) core.ResourceType {
	switch classID {
	case cfClassResourcepacks:
		return core.TypeResourcepack
	case cfClassShaders:
		return core.TypeShader
	case cfClassDatapacks:
		return core.TypeDatapack
	case cfClassModpacks:
		return core.TypeModpack
	}
	return core.TypeMod
}

func cfChannelName(releaseType int) string {
	switch releaseType {
	case cfChannelBeta:
		return "beta"
	case cfChannelAlpha:
		return "alpha"
	}
	return "release"
}

func cfLoaderName(loader ModloaderType) string {
	if loader > ModloaderTypeAny && int(loader) < len(ModloaderIds) {
		return ModloaderIds[loader]
	}
	return ""
}

func cfModToCore(mod CfModInfo) *core.Project {
	authors := make([]string, 0, len(mod.Authors))
	for _, author := range mod.Authors {
		authors = append(authors, author.Name)
	}
	var gameVersions []string
	for _, entry := range mod.LatestFilesIndexes {
		gameVersions = append(gameVersions, entry.GameVersion)
	}
	return &core.Project{
		ID:           core.CurseforgeRef(mod.ID).String(),
		Slug:         mod.Slug,
		Title:        mod.Name,
		Description:  mod.Summary,
		Type:         cfResourceType(mod.ClassID),
		GameVersions: core.SortAndDedupeVersions(gameVersions),
		Authors:      authors,
		PageURL:      mod.Links.WebsiteURL,
	}
}

// cfFileToVersion converts a full file record. Returns nil when the file has no
// download URL (distribution disabled by the author).
func cfFileToVersion(file CfModFileInfo) *core.Version {
	if file.DownloadURL == "" {
		return nil
	}
	var gameVersions, loaders []string
	for _, gv := range file.GameVersions {
		if loaderIdx := cfLoaderIndex(gv); loaderIdx != ModloaderTypeAny {
			loaders = append(loaders, ModloaderIds[loaderIdx])
		} else {
			gameVersions = append(gameVersions, gv)
		}
	}
	hashes := make(map[string]string)
	for _, h := range file.Hashes {
		switch h.Algo {
		case cfHashAlgoSha1:
			hashes["sha1"] = h.Value
		case cfHashAlgoMd5:
			hashes["md5"] = h.Value
		}
	}
	if file.Fingerprint != 0 {
		hashes["murmur2"] = strconv.FormatUint(uint64(file.Fingerprint), 10)
	}
	var deps []core.Dependency
	for _, dep := range file.Dependencies {
		deps = append(deps, core.Dependency{
			ProjectID: core.CurseforgeRef(dep.ModID).String(),
			Type:      cfDependencyType(dep.RelationType),
		})
	}
	name := file.DisplayName
	if name == "" {
		name = file.FileName
	}
	return &core.Version{
		ID:           strconv.FormatUint(uint64(file.ID), 10),
		ProjectID:    core.CurseforgeRef(file.ModID).String(),
		Name:         name,
		Channel:      cfChannelName(file.ReleaseType),
		GameVersions: gameVersions,
		Loaders:      loaders,
		Files: []core.File{{
			Filename: file.FileName,
			URL:      file.DownloadURL,
			Size:     file.FileLength,
			Primary:  true,
			Hashes:   hashes,
		}},
		Dependencies: deps,
		Enriched:     true,
	}
}

// cfLoaderIndex matches entries of a file's mixed gameVersions list against
// known loader names; CurseForge capitalizes them ("Fabric", "NeoForge").
func cfLoaderIndex(gameVersion string) ModloaderType {
	switch gameVersion {
	case "Forge":
		return ModloaderTypeForge
	case "Cauldron":
		return ModloaderTypeCauldron
	case "LiteLoader":
		return ModloaderTypeLiteLoader
	case "Fabric":
		return ModloaderTypeFabric
	case "Quilt":
		return ModloaderTypeQuilt
	case "NeoForge":
		return ModloaderTypeNeoForge
	}
	return ModloaderTypeAny
}

func cfDependencyType(relationType int) core.DependencyType {
	switch relationType {
	case cfRelationRequired:
		return core.DependencyRequired
	case cfRelationOptional, cfRelationTool:
		return core.DependencyOptional
	case cfRelationIncompatible:
		return core.DependencyIncompatible
	case cfRelationEmbedded:
		return core.DependencyEmbedded
	}
	return core.DependencyOptional
}
