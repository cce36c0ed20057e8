package fileio

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vbauerster/mpb/v4"
	"github.com/vbauerster/mpb/v4/decor"

	"github.com/leocov-dev/modgrab/config"
	"github.com/leocov-dev/modgrab/core"
)

// InstallTarget is one project version queued for installation.
type InstallTarget struct {
	Project *core.Project
	Version *core.Version
}

// InstalledArtifact describes a file placed into the profile by InstallAll.
type InstalledArtifact struct {
	Slug string
	Path string
	Size int64
}

// InstallAll downloads a batch of versions into the profile, writes their
// metadata files and keeps the hash index current. Targets fail independently;
// the caller decides what a partial batch means.
func InstallAll(profile *core.Profile, index *HashIndex, targets []InstallTarget, showProgress bool) []core.BatchResult[InstallTarget, InstalledArtifact] {
	var bar *mpb.Bar
	var progress *mpb.Progress
	if showProgress && len(targets) > 0 {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(targets)),
			mpb.PrependDecorators(
				decor.Name("installing"),
				decor.CountersNoUnit(" %d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	results := core.RunBounded(targets, config.DownloadConcurrency, func(target InstallTarget) (InstalledArtifact, error) {
		artifact, err := installOne(profile, index, target)
		if bar != nil {
			bar.Increment()
		}
		return artifact, err
	})
	if progress != nil {
		progress.Wait()
	}
	return results
}

func installOne(profile *core.Profile, index *HashIndex, target InstallTarget) (InstalledArtifact, error) {
	meta, err := core.MetaFromVersion(target.Project, target.Version)
	if err != nil {
		return InstalledArtifact{}, err
	}

	dir := profile.DirFor(target.Project.Type)
	dest := filepath.Join(dir, meta.FileName)
	if err := DownloadFile(meta.Download.URL, dest, meta.Download.HashFormat, meta.Download.Hash); err != nil {
		return InstalledArtifact{}, err
	}

	if err := WriteMeta(meta, MetaPath(dir, meta.Slug())); err != nil {
		return InstalledArtifact{}, err
	}

	if sha1 := target.Version.PrimaryFile().Sha1(); sha1 != "" {
		index.Add(dir, sha1)
	} else if hash, err := HashFile(dest, "sha1"); err == nil {
		index.Add(dir, hash)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return InstalledArtifact{}, err
	}
	return InstalledArtifact{Slug: meta.Slug(), Path: dest, Size: info.Size()}, nil
}

// FindMeta locates an installed artifact by slug across the profile's
// installation directories.
func FindMeta(profile *core.Profile, slug string) (*core.Meta, string, error) {
	for _, resourceType := range core.InstallableTypes {
		dir := profile.DirFor(resourceType)
		path := MetaPath(dir, slug)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		meta, err := LoadMeta(path)
		if err != nil {
			return nil, "", err
		}
		return meta, dir, nil
	}
	return nil, "", fmt.Errorf("no installed content named %q", slug)
}

// Remove deletes an installed artifact and its metadata file, and drops it from
// the hash index.
func Remove(profile *core.Profile, index *HashIndex, slug string) error {
	meta, dir, err := FindMeta(profile, slug)
	if err != nil {
		return err
	}

	artifactPath := filepath.Join(dir, meta.FileName)
	if sha1, err := HashFile(artifactPath, "sha1"); err == nil {
		index.Remove(dir, sha1)
	}
	if err := os.Remove(artifactPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Remove(MetaPath(dir, meta.Slug()))
}

// Refresh re-verifies every installed artifact against its metadata,
// redownloading anything missing or corrupted, and rebuilds the hash index.
func Refresh(profile *core.Profile, index *HashIndex, showProgress bool) []core.BatchResult[*core.Meta, string] {
	var metas []*core.Meta
	dirs := make(map[*core.Meta]string)
	for _, resourceType := range core.InstallableTypes {
		dir := profile.DirFor(resourceType)
		index.Invalidate(dir)
		loaded, err := ListMetas(dir)
		if err != nil {
			continue
		}
		for _, meta := range loaded {
			metas = append(metas, meta)
			dirs[meta] = dir
		}
	}

	var bar *mpb.Bar
	var progress *mpb.Progress
	if showProgress && len(metas) > 0 {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(metas)),
			mpb.PrependDecorators(
				decor.Name("refreshing"),
				decor.CountersNoUnit(" %d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	results := core.RunBounded(metas, config.DownloadConcurrency, func(meta *core.Meta) (string, error) {
		dir := dirs[meta]
		dest := filepath.Join(dir, meta.FileName)
		err := DownloadFile(meta.Download.URL, dest, meta.Download.HashFormat, meta.Download.Hash)
		if bar != nil {
			bar.Increment()
		}
		if err != nil {
			return "", err
		}
		if sha1, hashErr := HashFile(dest, "sha1"); hashErr == nil {
			index.Add(dir, sha1)
		}
		return dest, nil
	})
	if progress != nil {
		progress.Wait()
	}
	return results
}
