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

package operation

import (
	"bytes"
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/replacerc/pkg/collect"
	"github.com/walteh/replacerc/pkg/status"
	"github.com/walteh/replacerc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📄 FileResult is the outcome of rewriting a single file
type FileResult struct {
	Path         string
	Replacements int
	Status       status.FileStatus
	SizeBefore   int64
	SizeAfter    int64
}

// 📊 Summary aggregates the results of one replacement pass
type Summary struct {
	Files        []FileResult
	Written      int
	Modified     int
	Replacements int
}

func (s *Summary) add(res FileResult) {
	s.Files = append(s.Files, res)
	s.Written++
	s.Replacements += res.Replacements
	if res.Status == status.StatusModified {
		s.Modified++
	}
}

// 🔄 ReplaceOperation rewrites every file of a FileSet with one Pair
type ReplaceOperation struct {
	files    collect.FileSet
	store    *status.Manager
	replacer *text.SimpleTextReplacer
	pair     Pair

	summary Summary
}

// Summary returns the results gathered so far
func (op *ReplaceOperation) Summary() Summary {
	return op.summary
}

// 🏃 Execute rewrites each file in order. The first failure aborts the pass;
// files already rewritten stay rewritten.
func (op *ReplaceOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	rules := op.pair.rules()

	logger.Debug().
		Int("files", op.files.Len()).
		Int("before_len", len(op.pair.Before)).
		Int("after_len", len(op.pair.After)).
		Msg("applying replacement")

	for _, path := range op.files.Paths() {
		count := 0
		info, err := op.store.Rewrite(ctx, path, func(ctx context.Context, content []byte) ([]byte, error) {
			result, err := op.replacer.ReplaceText(ctx, bytes.NewReader(content), rules)
			if err != nil {
				return nil, err
			}
			count = result.ReplacementCount
			return result.ModifiedContent, nil
		})
		if err != nil {
			return errors.Errorf("processing file %s: %w", path, err)
		}

		op.summary.add(FileResult{
			Path:         path,
			Replacements: count,
			Status:       info.Status,
			SizeBefore:   info.SizeBefore,
			SizeAfter:    info.SizeAfter,
		})
	}

	logger.Debug().
		Int("written", op.summary.Written).
		Int("modified", op.summary.Modified).
		Int("replacements", op.summary.Replacements).
		Msg("replacement applied")

	return nil
}
