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

package text

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔄 ReplacementRule is a literal before/after substitution
type ReplacementRule struct {
	Before string
	After  string
}

// 📊 ReplacementResult holds the outcome of applying rules to some content
type ReplacementResult struct {
	OriginalContent  []byte
	ModifiedContent  []byte
	ReplacementCount int
	WasModified      bool
}

// SimpleTextReplacer performs literal, non-overlapping, left-to-right replacement
type SimpleTextReplacer struct{}

// NewSimpleTextReplacer creates a new SimpleTextReplacer
func NewSimpleTextReplacer() *SimpleTextReplacer {
	return &SimpleTextReplacer{}
}

// ReplaceText reads all of content and applies each rule in order.
// Rules with an empty Before are skipped.
func (r *SimpleTextReplacer) ReplaceText(ctx context.Context, content io.Reader, rules []ReplacementRule) (*ReplacementResult, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &ReplacementResult{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
	}

	currentContent := string(originalContent)
	for _, rule := range rules {
		if rule.Before == "" {
			zerolog.Ctx(ctx).Debug().Msg("skipping rule with empty before text")
			continue
		}

		count := strings.Count(currentContent, rule.Before)
		if count == 0 {
			continue
		}

		result.ReplacementCount += count
		currentContent = strings.ReplaceAll(currentContent, rule.Before, rule.After)
	}

	result.ModifiedContent = []byte(currentContent)
	result.WasModified = currentContent != string(originalContent)
	return result, nil
}

// ValidateRules rejects rules that would be ignored by the replace loop
func (r *SimpleTextReplacer) ValidateRules(rules []ReplacementRule) error {
	for i, rule := range rules {
		if rule.Before == "" {
			return errors.Errorf("rule %d: before text is required", i)
		}
		if rule.After == "" {
			return errors.Errorf("rule %d: after text is required", i)
		}
	}
	return nil
}
