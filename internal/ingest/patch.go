package ingest

import (
	"sort"
	"strings"
)

const diffHeaderPrefix = "diff --git"

// FixedFiles extracts the set of source files a unified diff touches,
// deduplicated and in ascending lexical order. Only `diff --git` header
// lines contribute; a patch with none yields an empty set, which excludes
// the bug from evaluation upstream. Headers are assumed well-formed:
// `diff --git a/foo/bar.py b/foo/bar.py`.
func FixedFiles(patch string) []string {
	seen := make(map[string]struct{})
	for _, line := range strings.Split(patch, "\n") {
		if !strings.HasPrefix(line, diffHeaderPrefix) {
			continue
		}
		parts := strings.Fields(line)
		// Old-side path with the "a/" prefix stripped.
		path := parts[2][2:]
		seen[path] = struct{}{}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}
