package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns match every file extension the readers understand.
var DefaultPatterns = []string{"**/*.xml", "**/*.rdf", "**/*.sbol", "**/*.nt", "**/*.jsonld"}

// ResolveFiles expands paths and glob patterns to concrete files.
// Supports both single-level wildcards (*) and recursive wildcards (**).
//
// Examples:
//   - "designs/*.xml" → ["/abs/designs/a.xml", ...]
//   - "toggle.nt" → ["/abs/toggle.nt"]
//   - "designs/**/*.sbol" → every .sbol file below designs
//
// Directories are skipped. The result is sorted and free of duplicates.
func ResolveFiles(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	sort.Strings(resolved)
	return resolved, nil
}

// resolvePattern expands a single glob pattern to files.
func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		absPath, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory: %s", absPath)
		}

		return []string{absPath}, nil
	}

	absPattern, err := makeAbsolutePattern(pattern)
	if err != nil {
		return nil, err
	}

	// Use doublestar for ** support
	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue // Skip paths that can't be stat'd
		}
		if !info.IsDir() {
			files = append(files, match)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	return files, nil
}

// Match reports whether the slash-separated relative path rel matches any
// of patterns.
func Match(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// makeAbsolutePattern converts a relative pattern to absolute.
// Preserves glob characters in the pattern.
func makeAbsolutePattern(pattern string) (string, error) {
	globIdx := strings.IndexAny(pattern, "*?[{")
	if globIdx == -1 {
		return filepath.Abs(pattern)
	}

	// Split at the last separator before the glob
	dirPart := pattern[:globIdx]
	if lastSep := strings.LastIndexAny(dirPart, string(filepath.Separator)+"/"); lastSep >= 0 {
		dirPart = pattern[:lastSep]
	} else {
		dirPart = "."
	}

	globPart := pattern[len(dirPart):]
	if dirPart == "." && !strings.HasPrefix(pattern, ".") {
		globPart = string(filepath.Separator) + pattern
	}

	absDir, err := filepath.Abs(dirPart)
	if err != nil {
		return "", err
	}

	return absDir + filepath.FromSlash(globPart), nil
}
