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

package prompt

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/walteh/replacerc/pkg/collect"
	"github.com/walteh/replacerc/pkg/log"
	"github.com/walteh/replacerc/pkg/operation"
	"github.com/walteh/replacerc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// Protocol lines written to the session output
const (
	PromptBefore = "BEFORE:"
	PromptAfter  = "AFTER:"
	Ignored      = "IGNORE"
)

// 🔧 Options configures a Session
type Options struct {
	Input       *Input
	Output      io.Writer
	Files       collect.FileSet
	Store       *status.Manager // defaults to an atomic manager at Files.Root()
	Logger      *log.Logger     // user feedback; discarded when nil
	EndMarker   string          // ends a block early when set
	QuitCommand string          // a block equal to it ends the session when set
}

// 🔁 Session is the interactive prompt cycle: read a before block, read an
// after block, apply or skip, repeat.
type Session struct {
	in          *Input
	out         io.Writer
	files       collect.FileSet
	store       *status.Manager
	logger      *log.Logger
	endMarker   string
	quitCommand string
}

// 🏭 NewSession validates opts and creates a session
func NewSession(opts Options) (*Session, error) {
	if opts.Input == nil {
		return nil, errors.Errorf("input is required")
	}
	if opts.Output == nil {
		return nil, errors.Errorf("output is required")
	}
	if opts.Store == nil {
		opts.Store = status.New(opts.Files.Root(), status.WriteAtomic)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, zerolog.Disabled)
	}
	return &Session{
		in:          opts.Input,
		out:         opts.Output,
		files:       opts.Files,
		store:       opts.Store,
		logger:      opts.Logger,
		endMarker:   opts.EndMarker,
		quitCommand: opts.QuitCommand,
	}, nil
}

// 🏃 Run loops until ctx is cancelled while waiting for input, the quit
// command is entered, or a non-interactive input runs dry. Those all end the
// session without error; a failed replacement pass ends it with one.
func (s *Session) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	for {
		if s.in.Exhausted() {
			logger.Debug().Msg("input exhausted, ending session")
			return nil
		}

		before, done, err := s.readBlock(ctx, PromptBefore)
		if done || err != nil {
			return err
		}
		if before == "" && s.in.Exhausted() {
			logger.Debug().Msg("input exhausted, ending session")
			return nil
		}

		after, done, err := s.readBlock(ctx, PromptAfter)
		if done || err != nil {
			return err
		}

		pair := operation.Pair{Before: before, After: after}
		if pair.Empty() {
			fmt.Fprintln(s.out, Ignored)
			continue
		}

		if err := s.apply(ctx, pair); err != nil {
			return err
		}
	}
}

// readBlock prompts and reads one block. done is true when the session must
// end cleanly.
func (s *Session) readBlock(ctx context.Context, prompt string) (string, bool, error) {
	fmt.Fprintln(s.out, prompt)

	block, err := s.in.ReadBlock(ctx, s.endMarker)
	if errors.Is(err, ErrInterrupted) {
		fmt.Fprintln(s.out)
		zerolog.Ctx(ctx).Debug().Msg("interrupted, ending session")
		return "", true, nil
	}
	if err != nil {
		return "", true, err
	}

	if s.quitCommand != "" && block == s.quitCommand {
		zerolog.Ctx(ctx).Debug().Msg("quit command received, ending session")
		return "", true, nil
	}

	return block, false, nil
}

func (s *Session) apply(ctx context.Context, pair operation.Pair) error {
	op, err := operation.NewReplaceOperation(operation.Options{
		Files: s.files,
		Store: s.store,
	}, pair)
	if err != nil {
		return errors.Errorf("creating replace operation: %w", err)
	}

	if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
		return errors.Errorf("applying replacement: %w", err)
	}

	Report(ctx, s.logger, op.Summary())
	return nil
}

// 📊 Report prints the modified files and the totals of a pass
func Report(ctx context.Context, logger *log.Logger, summary operation.Summary) {
	for _, res := range summary.Files {
		if res.Status != status.StatusModified {
			continue
		}
		logger.LogFileOperation(ctx, log.FileOperation{
			Path:         res.Path,
			Status:       res.Status.String(),
			IsModified:   true,
			Replacements: res.Replacements,
		})
	}
	logger.PassSummary(ctx, summary.Written, summary.Modified, summary.Replacements)
}
