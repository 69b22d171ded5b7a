package collect

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func slashPaths(set FileSet) []string {
	out := []string{}
	for _, p := range set.Paths() {
		out = append(out, filepath.ToSlash(p))
	}
	return out
}

func TestCollect(t *testing.T) {
	tree := map[string]string{
		"src/y.cpp":              "foo bar foo",
		"src/y.h":                "foo",
		"src/notes.txt":          "foo",
		"src/deep/nested/z.cpp":  "",
		"Build/x.cpp":            "foo",
		"BuildTools/gen.cpp":     "",
		"Toolchain/patch.h":      "",
		"Kernel/Build/inner.cpp": "",
		"main.cpp":               "",
		"header.hpp":             "",
	}

	tests := []struct {
		name     string
		patterns []string
		prefixes []string
		want     []string
	}{
		{
			name:     "default_patterns_and_prefixes",
			patterns: []string{"*.cpp", "*.h"},
			prefixes: []string{"Toolchain", "Build"},
			want: []string{
				"Kernel/Build/inner.cpp",
				"main.cpp",
				"src/deep/nested/z.cpp",
				"src/y.cpp",
				"src/y.h",
			},
		},
		{
			name:     "no_prefixes",
			patterns: []string{"*.h"},
			want: []string{
				"Toolchain/patch.h",
				"src/y.h",
			},
		},
		{
			name:     "overlapping_patterns_deduplicated",
			patterns: []string{"*.cpp", "y.*", "*"},
			prefixes: []string{"Toolchain", "Build", "Kernel", "src/deep"},
			want: []string{
				"header.hpp",
				"main.cpp",
				"src/notes.txt",
				"src/y.cpp",
				"src/y.h",
			},
		},
		{
			name:     "path_pattern_uses_doublestar",
			patterns: []string{"src/**/*.cpp"},
			want: []string{
				"src/deep/nested/z.cpp",
				"src/y.cpp",
			},
		},
		{
			name:     "malformed_pattern_matches_nothing",
			patterns: []string{"[*.cpp"},
			want:     []string{},
		},
		{
			name:     "no_patterns",
			patterns: nil,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, tree)

			set, err := Collect(context.Background(), Options{
				Root:            root,
				Patterns:        tt.patterns,
				ExcludePrefixes: tt.prefixes,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.want, slashPaths(set))
			assert.Equal(t, filepath.Clean(root), set.Root())
		})
	}
}

func TestCollect_SkipsDirectoriesNamedLikeFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "weird.h"), 0o755))
	writeTree(t, root, map[string]string{"weird.h/real.h": ""})

	set, err := Collect(context.Background(), Options{Root: root, Patterns: []string{"*.h"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"weird.h/real.h"}, slashPaths(set))
}

func TestCollect_MissingRoot(t *testing.T) {
	_, err := Collect(context.Background(), Options{
		Root:     filepath.Join(t.TempDir(), "missing"),
		Patterns: []string{"*.cpp"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collecting files")
}

func TestFileSet(t *testing.T) {
	set := NewFileSet("./root/", "b.cpp", "a.h", "b.cpp")

	assert.Equal(t, "root", set.Root())
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"a.h", "b.cpp"}, set.Paths())
	assert.True(t, set.Contains("a.h"))
	assert.False(t, set.Contains("c.h"))

	paths := set.Paths()
	paths[0] = "mutated"
	assert.Equal(t, []string{"a.h", "b.cpp"}, set.Paths(), "Paths must return a copy")
}

func TestIsExcluded(t *testing.T) {
	prefixes := []string{"Toolchain", "Build"}

	assert.True(t, IsExcluded("Build", prefixes))
	assert.True(t, IsExcluded(filepath.Join("Build", "x.cpp"), prefixes))
	assert.True(t, IsExcluded("BuildTools", prefixes))
	assert.False(t, IsExcluded(filepath.Join("src", "Build", "x.cpp"), prefixes))
	assert.False(t, IsExcluded("anything", []string{""}))
}
