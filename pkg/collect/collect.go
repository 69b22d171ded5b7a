// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package collect

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📂 FileSet is an immutable set of eligible file paths, relative to Root
type FileSet struct {
	root  string
	paths []string
}

// NewFileSet builds a FileSet from arbitrary paths, dropping duplicates
func NewFileSet(root string, paths ...string) FileSet {
	seen := make(map[string]struct{}, len(paths))
	unique := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		unique = append(unique, p)
	}
	sort.Strings(unique)
	return FileSet{root: filepath.Clean(root), paths: unique}
}

// Root returns the directory the paths are relative to
func (s FileSet) Root() string {
	return s.root
}

// Paths returns a sorted copy of the relative paths
func (s FileSet) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Len returns the number of files in the set
func (s FileSet) Len() int {
	return len(s.paths)
}

// Contains reports whether the relative path is in the set
func (s FileSet) Contains(path string) bool {
	i := sort.SearchStrings(s.paths, path)
	return i < len(s.paths) && s.paths[i] == path
}

// 🔧 Options configures a collection run
type Options struct {
	Root            string   // Directory to walk, "." when empty
	Patterns        []string // Globs; without a "/" they match the file name only
	ExcludePrefixes []string // Plain string prefixes of the relative path
}

// 🔍 Collect walks opts.Root and returns every file matching at least one
// pattern whose relative path does not start with an excluded prefix.
func Collect(ctx context.Context, opts Options) (FileSet, error) {
	logger := zerolog.Ctx(ctx)

	root := opts.Root
	if root == "" {
		root = "."
	}
	root = filepath.Clean(root)

	logger.Debug().
		Str("root", root).
		Strs("patterns", opts.Patterns).
		Strs("exclude_prefixes", opts.ExcludePrefixes).
		Msg("collecting files")

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relativizing %s: %w", path, err)
		}

		// descendants of an excluded directory share its prefix
		if IsExcluded(rel, opts.ExcludePrefixes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !isFile(path, d) {
			return nil
		}

		if Matches(ctx, rel, opts.Patterns) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return FileSet{}, errors.Errorf("collecting files under %s: %w", root, err)
	}

	set := NewFileSet(root, paths...)
	logger.Debug().Int("files", set.Len()).Msg("collected files")
	return set, nil
}

// IsExcluded reports whether rel starts with any of prefixes
func IsExcluded(rel string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	return false
}

// Matches reports whether rel matches any pattern. Bad patterns never match.
func Matches(ctx context.Context, rel string, patterns []string) bool {
	slashRel := filepath.ToSlash(rel)
	for _, pattern := range patterns {
		target := filepath.Base(slashRel)
		if strings.Contains(pattern, "/") {
			target = slashRel
		}

		matched, err := doublestar.Match(pattern, target)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// isFile accepts regular files and symlinks that resolve to one
func isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
