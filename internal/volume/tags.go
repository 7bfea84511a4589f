// Package volume projects the volume collection into the listing (filter,
// sort, aggregate stats) and drives the delete, untag and force-delete flow.
package volume

import (
	"slices"
	"strings"

	"podconsole/internal/podman"
)

// CompareTags orders repo tags with ":latest" tags first, then
// lexicographically.
func CompareTags(a, b string) int {
	al, bl := strings.HasSuffix(a, ":latest"), strings.HasSuffix(b, ":latest")
	switch {
	case al && !bl:
		return -1
	case bl && !al:
		return 1
	}
	return strings.Compare(a, b)
}

// SortTags returns a sorted copy of tags.
func SortTags(tags []string) []string {
	out := slices.Clone(tags)
	slices.SortStableFunc(out, CompareTags)
	return out
}

// PrimaryTag returns the tag a volume is listed under: the first of its
// sorted tags, "" when untagged.
func PrimaryTag(v podman.Volume) string {
	if !v.Tagged() {
		return ""
	}
	return slices.MinFunc(v.RepoTags, CompareTags)
}

// SplitTag splits "repo:tag" at the last colon, so registry ports stay in
// the repo part. A tag without a colon is all repo.
func SplitTag(ref string) (repo, tag string) {
	i := strings.LastIndex(ref, ":")
	if i < 0 {
		return ref, ""
	}
	return ref[:i], ref[i+1:]
}
