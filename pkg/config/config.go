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

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 📌 Defaults reproduce the behaviour of running without any config file
var (
	DefaultPatterns        = []string{"*.cpp", "*.h"}
	DefaultExcludePrefixes = []string{"Toolchain", "Build"}
	DefaultConfigFiles     = []string{".replacerc.yaml", ".replacerc.yml", ".replacerc.json", ".replacerc.hcl"}
)

const (
	DefaultRoot        = "."
	DefaultQuitCommand = ":quit"
)

// 📚 Config represents the complete configuration
type Config struct {
	Patterns        []string // Globs selecting eligible files
	ExcludePrefixes []string // Relative path prefixes that are never touched
	Root            string   // Directory to collect files from
	Atomic          bool     // Write through temp file + rename instead of in place
	EndMarker       string   // Line that ends a block early; disabled when empty
	QuitCommand     string   // Block content that ends the loop; disabled when empty

	location string
}

// 🏭 Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{
		Patterns:        append([]string(nil), DefaultPatterns...),
		ExcludePrefixes: append([]string(nil), DefaultExcludePrefixes...),
		Root:            DefaultRoot,
		Atomic:          true,
		QuitCommand:     DefaultQuitCommand,
	}
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks the configuration and normalizes paths
func (cfg *Config) Validate() error {
	if len(cfg.Patterns) == 0 {
		return errors.Errorf("at least one pattern is required")
	}
	for i, p := range cfg.Patterns {
		if strings.TrimSpace(p) == "" {
			return errors.Errorf("patterns[%d] is empty", i)
		}
	}
	if cfg.Root == "" {
		return errors.Errorf("root is required")
	}
	if cfg.EndMarker != "" && cfg.EndMarker == cfg.QuitCommand {
		return errors.Errorf("end_marker and quit_command must differ, both are %q", cfg.EndMarker)
	}

	cfg.Root = filepath.Clean(cfg.Root)
	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	mode := "in-place"
	if cfg.Atomic {
		mode = "atomic"
	}
	return fmt.Sprintf("%s [%s] -%s (%s)",
		cfg.Root,
		strings.Join(cfg.Patterns, ", "),
		strings.Join(cfg.ExcludePrefixes, " -"),
		mode)
}

// 📄 FileConfig is the on-disk shape shared by every format. Absent fields keep
// their defaults.
type FileConfig struct {
	Patterns        []string `json:"patterns,omitempty" yaml:"patterns,omitempty" hcl:"patterns,optional"`
	ExcludePrefixes []string `json:"exclude_prefixes,omitempty" yaml:"exclude_prefixes,omitempty" hcl:"exclude_prefixes,optional"`
	Root            *string  `json:"root,omitempty" yaml:"root,omitempty" hcl:"root,optional"`
	Atomic          *bool    `json:"atomic,omitempty" yaml:"atomic,omitempty" hcl:"atomic,optional"`
	EndMarker       *string  `json:"end_marker,omitempty" yaml:"end_marker,omitempty" hcl:"end_marker,optional"`
	QuitCommand     *string  `json:"quit_command,omitempty" yaml:"quit_command,omitempty" hcl:"quit_command,optional"`
}

func (fc *FileConfig) applyTo(cfg *Config) {
	if fc.Patterns != nil {
		cfg.Patterns = fc.Patterns
	}
	if fc.ExcludePrefixes != nil {
		cfg.ExcludePrefixes = fc.ExcludePrefixes
	}
	if fc.Root != nil {
		cfg.Root = *fc.Root
	}
	if fc.Atomic != nil {
		cfg.Atomic = *fc.Atomic
	}
	if fc.EndMarker != nil {
		cfg.EndMarker = *fc.EndMarker
	}
	if fc.QuitCommand != nil {
		cfg.QuitCommand = *fc.QuitCommand
	}
}
