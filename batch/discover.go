package batch

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
)

// Discover implements §4.11's file enumeration: every file under root whose
// base name matches pattern, recursing only if recursive is set, sorted and
// deduplicated.
func Discover(root string, pattern *regexp.Regexp, recursive bool) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !pattern.MatchString(d.Name()) {
			return nil
		}
		if _, dup := seen[path]; dup {
			return nil
		}
		seen[path] = struct{}{}
		out = append(out, path)
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
