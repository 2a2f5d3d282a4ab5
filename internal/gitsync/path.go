package gitsync

import "strings"

// NormalizePath canonicalizes a relative path into a POSIX-style
// repository path: backslashes become forward slashes, empty segments
// and "." / ".." segments are dropped, and the result carries no leading
// or trailing slash. An empty return value means the path was rejected
// (it reduced to nothing). Comparison downstream is byte-for-byte; no
// case folding or percent-encoding happens here.
func NormalizePath(raw string) string {
	raw = strings.ReplaceAll(raw, "\\", "/")

	var segs []string

	for _, seg := range strings.Split(raw, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}

		segs = append(segs, seg)
	}

	return strings.Join(segs, "/")
}

// JoinPrefix combines a target-directory prefix with a repo-relative
// path. Both sides are expected to be normalized already; the combined
// result is re-normalized to keep the invariant after concatenation.
func JoinPrefix(prefix, rel string) string {
	if prefix == "" {
		return NormalizePath(rel)
	}

	return NormalizePath(prefix + "/" + rel)
}
