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

package opts

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/walteh/replacerc/pkg/collect"
	"github.com/walteh/replacerc/pkg/config"
	"github.com/walteh/replacerc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile  string
	Debug       bool
	Root        string
	InPlace     bool
	EndMarker   string
	QuitCommand string
}

// AddFlags registers the shared flags on cmd
func (o *RootOpts) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: .replacerc.{yaml,yml,json,hcl} if present)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.Root, "root", config.DefaultRoot, "directory to collect files from")
	cmd.PersistentFlags().BoolVar(&o.InPlace, "in-place", false, "rewrite files in place instead of through a temp file")
	cmd.PersistentFlags().StringVar(&o.EndMarker, "end-marker", "", "line that ends a block besides end-of-input")
	cmd.PersistentFlags().StringVar(&o.QuitCommand, "quit", config.DefaultQuitCommand, "block that ends the session, empty to disable")
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// LoadConfig loads the config file and applies flags that were set explicitly
func (o *RootOpts) LoadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if o.ConfigFile != "" {
		cfg, err = config.Load(ctx, o.ConfigFile)
	} else {
		dir := config.DefaultRoot
		if changed(cmd, "root") {
			dir = o.Root
		}
		cfg, err = config.Discover(ctx, dir)
	}
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if changed(cmd, "root") {
		cfg.Root = o.Root
	}
	if changed(cmd, "in-place") {
		cfg.Atomic = !o.InPlace
	}
	if changed(cmd, "end-marker") {
		cfg.EndMarker = o.EndMarker
	}
	if changed(cmd, "quit") {
		cfg.QuitCommand = o.QuitCommand
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating flags: %w", err)
	}
	return cfg, nil
}

// Workspace is everything a command needs to run replacements
type Workspace struct {
	Config *config.Config
	Files  collect.FileSet
	Store  *status.Manager
}

// Prepare loads the config and collects the eligible files once
func (o *RootOpts) Prepare(ctx context.Context, cmd *cobra.Command) (*Workspace, error) {
	cfg, err := o.LoadConfig(ctx, cmd)
	if err != nil {
		return nil, err
	}

	files, err := collect.Collect(ctx, collect.Options{
		Root:            cfg.Root,
		Patterns:        cfg.Patterns,
		ExcludePrefixes: cfg.ExcludePrefixes,
	})
	if err != nil {
		return nil, errors.Errorf("collecting files: %w", err)
	}

	mode := status.WriteAtomic
	if !cfg.Atomic {
		mode = status.WriteInPlace
	}

	return &Workspace{
		Config: cfg,
		Files:  files,
		Store:  status.New(files.Root(), mode),
	}, nil
}
