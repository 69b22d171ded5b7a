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

package status

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents what a rewrite did to a file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusModified             // Content changed
	StatusUnchanged            // Content written back identical
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// ✍️ WriteMode selects how rewritten content reaches the disk
type WriteMode int

const (
	// WriteAtomic writes a sibling temp file and renames it over the original
	WriteAtomic WriteMode = iota
	// WriteInPlace opens the file read/write, rewrites from offset 0 and truncates
	WriteInPlace
)

// String returns a string representation of WriteMode
func (m WriteMode) String() string {
	switch m {
	case WriteAtomic:
		return "atomic"
	case WriteInPlace:
		return "in-place"
	default:
		return "unknown"
	}
}

// 🔄 TransformFunc maps the current content of a file to its new content
type TransformFunc func(ctx context.Context, content []byte) ([]byte, error)

// 📄 FileInfo describes a completed rewrite
type FileInfo struct {
	Path       string     // Path relative to the manager's base directory
	Status     FileStatus // Whether the content changed
	SizeBefore int64
	SizeAfter  int64
}

// 💾 Manager reads and rewrites files below a base directory
type Manager struct {
	baseDir string
	mode    WriteMode
}

// 🏭 New creates a new manager
func New(baseDir string, mode WriteMode) *Manager {
	return &Manager{
		baseDir: filepath.Clean(baseDir),
		mode:    mode,
	}
}

// Mode returns the write mode in use
func (m *Manager) Mode() WriteMode {
	return m.mode
}

// 🔒 getAbsPath returns the path for a given relative path
func (m *Manager) getAbsPath(path string) string {
	return filepath.Join(m.baseDir, path)
}

// Rewrite reads the file, transforms its content and writes the result back.
// The write always happens, even when fn returns identical content.
func (m *Manager) Rewrite(ctx context.Context, path string, fn TransformFunc) (*FileInfo, error) {
	zerolog.Ctx(ctx).Trace().Str("path", path).Stringer("mode", m.mode).Msg("rewriting file")

	switch m.mode {
	case WriteInPlace:
		return m.rewriteInPlace(ctx, path, fn)
	case WriteAtomic:
		return m.rewriteAtomic(ctx, path, fn)
	default:
		return nil, errors.Errorf("unknown write mode %d", m.mode)
	}
}

func (m *Manager) rewriteInPlace(ctx context.Context, path string, fn TransformFunc) (*FileInfo, error) {
	f, err := os.OpenFile(m.getAbsPath(path), os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return rewriteOpenFile(ctx, path, f, fn)
}

// rewriteOpenFile reads f, rewrites it from offset 0 and truncates it
func rewriteOpenFile(ctx context.Context, path string, f *os.File, fn TransformFunc) (*FileInfo, error) {
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}

	updated, err := fn(ctx, content)
	if err != nil {
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Errorf("seeking to start: %w", err)
	}
	if _, err := f.Write(updated); err != nil {
		return nil, errors.Errorf("writing file: %w", err)
	}
	if err := f.Truncate(int64(len(updated))); err != nil {
		return nil, errors.Errorf("truncating file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Errorf("closing file: %w", err)
	}

	return newFileInfo(path, content, updated), nil
}

// rewriteAtomic fails wherever rewriteInPlace would: the file is opened for
// writing first. Files with other hard links or another owner are rewritten
// in place.
func (m *Manager) rewriteAtomic(ctx context.Context, path string, fn TransformFunc) (*FileInfo, error) {
	// rename must replace the link target, not the link
	absPath, err := filepath.EvalSymlinks(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("resolving file: %w", err)
	}

	f, err := os.OpenFile(absPath, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Errorf("checking file: %w", err)
	}

	if !renameSafe(info) {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("file is hard linked or foreign owned, rewriting in place")
		return rewriteOpenFile(ctx, path, f, fn)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Errorf("closing file: %w", err)
	}

	updated, err := fn(ctx, content)
	if err != nil {
		return nil, err
	}

	if err := WriteFileAtomic(absPath, updated, info.Mode().Perm()); err != nil {
		return nil, err
	}

	return newFileInfo(path, content, updated), nil
}

// WriteFileAtomic writes content to a temp file next to path and renames it
// over path. The temp file is removed if anything fails.
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tempPath)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

func newFileInfo(path string, before, after []byte) *FileInfo {
	st := StatusUnchanged
	if string(before) != string(after) {
		st = StatusModified
	}
	return &FileInfo{
		Path:       path,
		Status:     st,
		SizeBefore: int64(len(before)),
		SizeAfter:  int64(len(after)),
	}
}
