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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/replacerc/cmd/replacerc/commands"
	"github.com/walteh/replacerc/cmd/replacerc/opts"
	"github.com/walteh/replacerc/pkg/log"
	"github.com/walteh/replacerc/pkg/prompt"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"
)

// NewRootCommand creates the replacerc command tree
func NewRootCommand() *cobra.Command {
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "replacerc",
		Short: "Interactively replace literal text across a source tree",
		Long: `replacerc repeatedly asks for a BEFORE block and an AFTER block and
rewrites every eligible file, replacing all occurrences of BEFORE with AFTER.

A block ends at end-of-input (Ctrl-D on a terminal) or, when --end-marker is
set, at a line equal to the marker. If either block is empty the pass is
skipped and IGNORE is printed. Ctrl-C while waiting for input, or a block
equal to the quit command, ends the session.

Eligible files default to *.cpp and *.h, excluding paths that start with
Toolchain or Build.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, o.Debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd, o)
		},
	}

	o.AddFlags(cmd)

	cmd.AddCommand(
		commands.NewListCmd(o),
		commands.NewApplyCmd(o),
		newVersionCmd(),
	)

	return cmd
}

// setupLogging puts a console logger on the command context
func setupLogging(cmd *cobra.Command, debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := log.New(cmd.ErrOrStderr(), level)
	cmd.SetContext(log.NewContext(ctx, logger))
}

func runSession(cmd *cobra.Command, o *opts.RootOpts) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ws, err := o.Prepare(ctx, cmd)
	if err != nil {
		return err
	}

	logger := log.FromContext(ctx)
	logger.Header(fmt.Sprintf("%d files under %s (%s)", ws.Files.Len(), ws.Files.Root(), ws.Store.Mode()))
	if loc := ws.Config.Location(); loc != "" {
		logger.Infof("using config %s", loc)
	}

	stdin := cmd.InOrStdin()
	in := prompt.NewInput(stdin, isTerminal(stdin))
	defer in.Close()

	zerolog.Ctx(ctx).Debug().Bool("interactive", in.Interactive()).Msg("reading blocks from stdin")

	session, err := prompt.NewSession(prompt.Options{
		Input:       in,
		Output:      cmd.OutOrStdout(),
		Files:       ws.Files,
		Store:       ws.Store,
		Logger:      logger,
		EndMarker:   ws.Config.EndMarker,
		QuitCommand: ws.Config.QuitCommand,
	})
	if err != nil {
		return errors.Errorf("creating session: %w", err)
	}

	return session.Run(ctx)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
