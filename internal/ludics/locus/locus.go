// Package locus implements the addressable dot-path tree underpinning a dialogue.
package locus

import (
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/openagora/ludics/internal/platform/errors"
)

// Root is the canonical root path of every justification tree.
const Root = "0"

// Validate checks that path is a well-formed dot path. Segments are
// non-empty and contain no whitespace, dots or commas; both numeric segments
// (copy-allocated) and free-form names (instantiated) are allowed. Commas
// are reserved as the list separator masked names are stored with.
func Validate(path string) error {
	if path == "" {
		return invalidPath(path)
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" || strings.ContainsAny(seg, " \t\n,") {
			return invalidPath(path)
		}
	}
	return nil
}

func invalidPath(path string) error {
	return apperrors.WithMetadata(apperrors.CodeLocusPathInvalid,
		"locus path "+strconv.Quote(path)+" is not a valid dot path",
		map[string]string{"Path": path})
}

// Parent returns the path minus its last segment, or "" for a single-segment path.
func Parent(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// Child joins a base path with a child segment.
func Child(base, segment string) string {
	if base == "" {
		return segment
	}
	return base + "." + segment
}

// LastSegment returns the final segment of the path.
func LastSegment(path string) string {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// Depth returns the number of segments in the path.
func Depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, ".") + 1
}

// Ancestors returns every proper ancestor of path, nearest last
// (e.g. "0.1.2" yields ["0", "0.1"]).
func Ancestors(path string) []string {
	var out []string
	for parent := Parent(path); parent != ""; parent = Parent(parent) {
		out = append(out, parent)
	}
	sort.Slice(out, func(i, j int) bool { return Depth(out[i]) < Depth(out[j]) })
	return out
}

// IsAncestorOrEqual reports whether ancestor is path itself or one of its ancestors.
func IsAncestorOrEqual(ancestor, path string) bool {
	if ancestor == path {
		return true
	}
	return strings.HasPrefix(path, ancestor+".")
}

// IsStrictAncestor reports whether ancestor is a proper ancestor of path.
func IsStrictAncestor(ancestor, path string) bool {
	return ancestor != path && IsAncestorOrEqual(ancestor, path)
}

// AllocateChildren first-fit allocates count fresh numeric child segments
// under a base, skipping any sibling names already taken. The smallest unused
// non-negative integers win, so allocating after "0" and "2" yields "1", "3", ...
func AllocateChildren(taken []string, count int) []string {
	used := make(map[int]bool, len(taken))
	for _, name := range taken {
		if n, err := strconv.Atoi(name); err == nil && n >= 0 {
			used[n] = true
		}
	}

	out := make([]string, 0, count)
	for next := 0; len(out) < count; next++ {
		if used[next] {
			continue
		}
		out = append(out, strconv.Itoa(next))
	}
	return out
}

// RewritePrefix substitutes the leading oldPrefix of path with newPrefix,
// preserving the remainder. The second return is false when path is not
// equal to or under oldPrefix.
func RewritePrefix(path, oldPrefix, newPrefix string) (string, bool) {
	if path == oldPrefix {
		return newPrefix, true
	}
	if strings.HasPrefix(path, oldPrefix+".") {
		return newPrefix + path[len(oldPrefix):], true
	}
	return path, false
}
