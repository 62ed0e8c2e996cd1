package parser

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxDepth bounds recursive discovery so a search rooted near the
// home directory cannot wander into unrelated large trees.
const DefaultMaxDepth = 10

// FindFiles walks root and returns every file whose base name matches the
// glob pattern, up to maxDepth directory levels below root. A missing or
// unreadable root yields an empty result; subtrees that cannot be read are
// skipped rather than aborting the search.
func FindFiles(root, pattern string, maxDepth int) []string {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	var matches []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Permission or read error: skip this subtree, keep walking.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		depth := strings.Count(rel, string(filepath.Separator))
		if d.IsDir() {
			if depth >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			matches = append(matches, path)
		}
		return nil
	})
	return matches
}

// globFiles returns direct children of dir matching pattern. Missing
// directories yield nil.
func globFiles(dir, pattern string) []string {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil
	}
	var files []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	return files
}

// subDirs returns the immediate subdirectories of dir.
func subDirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}
	return dirs
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// dirExists reports whether path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// dedupePaths removes duplicates while preserving first-seen order.
func dedupePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var out []string
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
