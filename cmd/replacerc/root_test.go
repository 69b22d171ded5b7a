package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"Build/x.cpp":   "foo",
		"src/y.cpp":     "foo bar foo",
		"src/y.h":       "int foo;",
		"docs/foo.md":   "foo",
		"Toolchain/t.h": "foo",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(b)
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Session(t *testing.T) {
	root := setupTree(t)

	stdout, stderr, err := execute(t, "foo\n.\nbaz\n.\n", "--root", root, "--end-marker", ".")
	require.NoError(t, err)

	assert.Equal(t, "BEFORE:\nAFTER:\nBEFORE:\n", stdout)
	assert.Contains(t, stderr, "2 files under")

	assert.Equal(t, "baz bar baz", readFile(t, root, "src/y.cpp"))
	assert.Equal(t, "int baz;", readFile(t, root, "src/y.h"))
	assert.Equal(t, "foo", readFile(t, root, "Build/x.cpp"))
	assert.Equal(t, "foo", readFile(t, root, "Toolchain/t.h"))
	assert.Equal(t, "foo", readFile(t, root, "docs/foo.md"))
}

func TestRootCommand_InPlaceAndQuit(t *testing.T) {
	root := setupTree(t)

	stdout, _, err := execute(t, "foo\nEND\nqux\nEND\nexit\nEND\n", "--root", root, "--end-marker", "END", "--quit", "exit", "--in-place")
	require.NoError(t, err)

	assert.Equal(t, "BEFORE:\nAFTER:\nBEFORE:\n", stdout)
	assert.Equal(t, "qux bar qux", readFile(t, root, "src/y.cpp"))
}

func TestRootCommand_ConfigFile(t *testing.T) {
	root := setupTree(t)
	cfgPath := filepath.Join(root, ".replacerc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("patterns: ['*.md']\nend_marker: '%%'\n"), 0o644))

	_, stderr, err := execute(t, "foo\n%%\nbar\n%%\n", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "using config "+cfgPath)

	assert.Equal(t, "bar", readFile(t, root, "docs/foo.md"))
	assert.Equal(t, "foo bar foo", readFile(t, root, "src/y.cpp"))
}

func TestRootCommand_DiscoversConfigInRoot(t *testing.T) {
	root := setupTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".replacerc.hcl"), []byte(`
patterns   = concat(default_patterns, ["*.md"])
end_marker = "."
`), 0o644))

	_, _, err := execute(t, "foo\n.\nbar\n.\n", "--root", root)
	require.NoError(t, err)

	assert.Equal(t, "bar", readFile(t, root, "docs/foo.md"))
	assert.Equal(t, "bar bar bar", readFile(t, root, "src/y.cpp"))
}

func TestRootCommand_MissingRoot(t *testing.T) {
	_, _, err := execute(t, "", "--root", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collecting files")
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	_, _, err := execute(t, "", "unexpected")
	require.Error(t, err)
}

func TestListCommand(t *testing.T) {
	root := setupTree(t)

	stdout, _, err := execute(t, "", "list", "--root", root)
	require.NoError(t, err)

	want := filepath.Join(root, "src", "y.cpp") + "\n" + filepath.Join(root, "src", "y.h") + "\n"
	assert.Equal(t, want, stdout)
}

func TestApplyCommand(t *testing.T) {
	root := setupTree(t)
	blocks := t.TempDir()
	beforeFile := filepath.Join(blocks, "before.txt")
	afterFile := filepath.Join(blocks, "after.txt")
	require.NoError(t, os.WriteFile(beforeFile, []byte("foo\n"), 0o644))
	require.NoError(t, os.WriteFile(afterFile, []byte("baz\n"), 0o644))

	stdout, stderr, err := execute(t, "", "apply", "--root", root, "--before-file", beforeFile, "--after-file", afterFile)
	require.NoError(t, err)

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "3 replacements in 2 of 2 files")
	assert.Equal(t, "baz bar baz", readFile(t, root, "src/y.cpp"))
	assert.Equal(t, "foo", readFile(t, root, "Build/x.cpp"))
}

func TestApplyCommand_EmptyBlockIgnored(t *testing.T) {
	root := setupTree(t)
	blocks := t.TempDir()
	beforeFile := filepath.Join(blocks, "before.txt")
	afterFile := filepath.Join(blocks, "after.txt")
	require.NoError(t, os.WriteFile(beforeFile, []byte("foo\n"), 0o644))
	require.NoError(t, os.WriteFile(afterFile, []byte(""), 0o644))

	stdout, _, err := execute(t, "", "apply", "--root", root, "--before-file", beforeFile, "--after-file", afterFile)
	require.NoError(t, err)

	assert.Equal(t, "IGNORE\n", stdout)
	assert.Equal(t, "foo bar foo", readFile(t, root, "src/y.cpp"))
}

func TestApplyCommand_RequiresFlags(t *testing.T) {
	_, _, err := execute(t, "", "apply")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before-file")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "replacerc version info")

	stdout, _, err = execute(t, "", "version", "--json")
	require.NoError(t, err)

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Version)
}
