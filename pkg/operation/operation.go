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

// Package operation applies replacement pairs across a collected file set
package operation

import (
	"context"

	"github.com/walteh/replacerc/pkg/collect"
	"github.com/walteh/replacerc/pkg/status"
	"github.com/walteh/replacerc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is a unit of work the runner executes
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔄 Pair is one before/after replacement captured from the user
type Pair struct {
	Before string
	After  string
}

// Empty reports whether the pair must be skipped
func (p Pair) Empty() bool {
	return p.Before == "" || p.After == ""
}

func (p Pair) rules() []text.ReplacementRule {
	return []text.ReplacementRule{{Before: p.Before, After: p.After}}
}

// 🔧 Options contains the collaborators of a replace operation
type Options struct {
	// Files is the eligible file set, relative to Files.Root()
	Files collect.FileSet
	// Store performs the rewrites; defaults to an atomic manager at Files.Root()
	Store *status.Manager
	// Replacer performs the text substitution; defaults to a SimpleTextReplacer
	Replacer *text.SimpleTextReplacer
}

// 🏭 NewReplaceOperation creates an operation applying pair to every file
func NewReplaceOperation(opts Options, pair Pair) (*ReplaceOperation, error) {
	if opts.Replacer == nil {
		opts.Replacer = text.NewSimpleTextReplacer()
	}
	if err := opts.Replacer.ValidateRules(pair.rules()); err != nil {
		return nil, errors.Errorf("validating pair: %w", err)
	}
	if opts.Store == nil {
		opts.Store = status.New(opts.Files.Root(), status.WriteAtomic)
	}
	return &ReplaceOperation{
		files:    opts.Files,
		store:    opts.Store,
		replacer: opts.Replacer,
		pair:     pair,
	}, nil
}
