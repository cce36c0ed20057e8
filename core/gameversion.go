package core

import (
	"github.com/unascribed/FlexVer/go/flexver"
)

// Multi-value filter caps enforced by the CurseForge API; requests must be
// truncated client-side rather than passed through.
const (
	MaxGameVersionFilters = 4
	MaxLoaderFilters      = 5
	MaxCategoryFilters    = 10
)

// SortAndDedupeVersions sorts game versions in FlexVer order (oldest first) and
// removes duplicates in place, returning the shortened slice.
func SortAndDedupeVersions(versions []string) []string {
	flexver.VersionSlice(versions).Sort()
	if len(versions) == 0 {
		return versions
	}
	j := 0
	for i := 1; i < len(versions); i++ {
		if versions[i] != versions[j] {
			j++
			versions[j] = versions[i]
		}
	}
	return versions[:j+1]
}

// TruncateNewest caps a version filter list at n entries, keeping the newest
// versions when the list is over the cap.
func TruncateNewest(versions []string, n int) []string {
	if len(versions) <= n {
		return versions
	}
	sorted := SortAndDedupeVersions(append([]string(nil), versions...))
	if len(sorted) <= n {
		return sorted
	}
	return sorted[len(sorted)-n:]
}

// TruncateFilters caps an unordered filter list (loaders, categories) at n entries.
func TruncateFilters(values []string, n int) []string {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

// Intersects reports whether the two string sets share at least one element.
func Intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
