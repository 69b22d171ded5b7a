package prompt

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/replacerc/pkg/collect"
	"github.com/walteh/replacerc/pkg/log"
	"github.com/walteh/replacerc/pkg/status"
)

// scriptedReader replays chunks; an empty chunk reads as end-of-file, the
// way a terminal reports Ctrl-D. Once the script is used up it calls
// onDone and blocks until the test ends.
type scriptedReader struct {
	chunks []string
	onDone func()
	block  chan struct{}
}

func newScriptedReader(t *testing.T, onDone func(), chunks ...string) *scriptedReader {
	r := &scriptedReader{chunks: chunks, onDone: onDone, block: make(chan struct{})}
	t.Cleanup(func() { close(r.block) })
	return r
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.onDone != nil {
			r.onDone()
			r.onDone = nil
		}
		<-r.block
		return 0, io.EOF
	}
	chunk := r.chunks[0]
	r.chunks = r.chunks[1:]
	if chunk == "" {
		return 0, io.EOF
	}
	return copy(p, chunk), nil
}

func setupTree(t *testing.T, files map[string]string) (string, collect.FileSet) {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	set, err := collect.Collect(context.Background(), collect.Options{
		Root:            root,
		Patterns:        []string{"*.cpp", "*.h"},
		ExcludePrefixes: []string{"Toolchain", "Build"},
	})
	require.NoError(t, err)
	return root, set
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(b)
}

func runSession(t *testing.T, ctx context.Context, in *Input, files collect.FileSet, opts Options) (string, error) {
	t.Helper()
	t.Cleanup(in.Close)

	out := &bytes.Buffer{}
	opts.Input = in
	opts.Output = out
	opts.Files = files

	session, err := NewSession(opts)
	require.NoError(t, err)

	err = session.Run(ctx)
	return out.String(), err
}

func TestSession_ExcludedPrefixScenario(t *testing.T) {
	root, files := setupTree(t, map[string]string{
		"Build/x.cpp": "foo",
		"src/y.cpp":   "foo bar foo",
	})

	in := NewInput(strings.NewReader("foo\n.\nbaz\n.\n"), false)
	out, err := runSession(t, context.Background(), in, files, Options{EndMarker: "."})
	require.NoError(t, err)

	assert.Equal(t, "foo", readFile(t, root, "Build/x.cpp"))
	assert.Equal(t, "baz bar baz", readFile(t, root, "src/y.cpp"))
	assert.Equal(t, "BEFORE:\nAFTER:\nBEFORE:\n", out)
}

func TestSession_EmptyBlockThenInterrupt(t *testing.T) {
	root, files := setupTree(t, map[string]string{"a.cpp": "foo"})
	before, err := os.Stat(filepath.Join(root, "a.cpp"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := NewInput(newScriptedReader(t, cancel, "", ""), true)
	out, err := runSession(t, ctx, in, files, Options{})
	require.NoError(t, err)

	assert.Equal(t, "BEFORE:\nAFTER:\nIGNORE\nBEFORE:\n\n", out)
	assert.Equal(t, "foo", readFile(t, root, "a.cpp"))

	after, err := os.Stat(filepath.Join(root, "a.cpp"))
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime(), "file must not be written")
}

func TestSession_InteractiveMultiplePasses(t *testing.T) {
	root, files := setupTree(t, map[string]string{
		"k.h": "x = foo;\nbar\nbaz\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := NewInput(newScriptedReader(t, cancel,
		"foo\n", "",
		"baz\n", "",
		"bar\nbaz\n", "",
		"qux", "",
	), true)
	out, err := runSession(t, ctx, in, files, Options{Store: status.New(files.Root(), status.WriteInPlace)})
	require.NoError(t, err)

	assert.Equal(t, "x = baz;\nqux\n", readFile(t, root, "k.h"))
	assert.Equal(t, "BEFORE:\nAFTER:\nBEFORE:\nAFTER:\nBEFORE:\n\n", out)
}

func TestSession_EmptyAfterIsIgnored(t *testing.T) {
	root, files := setupTree(t, map[string]string{"a.cpp": "foo"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := NewInput(newScriptedReader(t, cancel, "foo\n", "", ""), true)
	out, err := runSession(t, ctx, in, files, Options{})
	require.NoError(t, err)

	assert.Equal(t, "BEFORE:\nAFTER:\nIGNORE\nBEFORE:\n\n", out)
	assert.Equal(t, "foo", readFile(t, root, "a.cpp"))
}

func TestSession_QuitCommand(t *testing.T) {
	root, files := setupTree(t, map[string]string{"a.cpp": "foo"})

	in := NewInput(strings.NewReader("foo\n.\n:quit\n.\nfoo\n.\nbar\n.\n"), false)
	out, err := runSession(t, context.Background(), in, files, Options{EndMarker: ".", QuitCommand: ":quit"})
	require.NoError(t, err)

	assert.Equal(t, "BEFORE:\nAFTER:\n", out)
	assert.Equal(t, "foo", readFile(t, root, "a.cpp"))
}

func TestSession_QuitCommandDisabled(t *testing.T) {
	root, files := setupTree(t, map[string]string{"a.cpp": "foo"})

	in := NewInput(strings.NewReader("foo\n.\n:quit\n.\n"), false)
	_, err := runSession(t, context.Background(), in, files, Options{EndMarker: "."})
	require.NoError(t, err)

	assert.Equal(t, ":quit", readFile(t, root, "a.cpp"))
}

func TestSession_PipedInputWithoutMarker(t *testing.T) {
	root, files := setupTree(t, map[string]string{"a.cpp": "foo\nbar"})

	in := NewInput(strings.NewReader("foo\nbar\n"), false)
	out, err := runSession(t, context.Background(), in, files, Options{})
	require.NoError(t, err)

	assert.Equal(t, "BEFORE:\nAFTER:\nIGNORE\n", out)
	assert.Equal(t, "foo\nbar", readFile(t, root, "a.cpp"))
}

func TestSession_EmptyPipedInput(t *testing.T) {
	_, files := setupTree(t, map[string]string{"a.cpp": "foo"})

	in := NewInput(strings.NewReader(""), false)
	out, err := runSession(t, context.Background(), in, files, Options{})
	require.NoError(t, err)

	assert.Equal(t, "BEFORE:\n", out)
}

func TestSession_FailedPassEndsSession(t *testing.T) {
	root := t.TempDir()
	files := collect.NewFileSet(root, "missing.cpp")

	in := NewInput(strings.NewReader("foo\n.\nbar\n.\n"), false)
	_, err := runSession(t, context.Background(), in, files, Options{EndMarker: "."})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.cpp")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSession_ReportsModifiedFiles(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	_, files := setupTree(t, map[string]string{
		"src/y.cpp": "foo bar foo",
		"src/z.h":   "nothing",
	})

	console := &bytes.Buffer{}
	in := NewInput(strings.NewReader("foo\n.\nbaz\n.\n"), false)
	_, err := runSession(t, context.Background(), in, files, Options{
		EndMarker: ".",
		Logger:    log.New(console, zerolog.Disabled),
	})
	require.NoError(t, err)

	assert.Contains(t, console.String(), filepath.Join("src", "y.cpp"))
	assert.NotContains(t, console.String(), filepath.Join("src", "z.h"))
	assert.Contains(t, console.String(), "2 replacements in 1 of 2 files")
}

func TestNewSession_Validation(t *testing.T) {
	_, err := NewSession(Options{Output: io.Discard})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input is required")

	in := NewInput(strings.NewReader(""), false)
	defer in.Close()
	_, err = NewSession(Options{Input: in})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output is required")
}
