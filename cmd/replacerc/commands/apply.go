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

package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/replacerc/cmd/replacerc/opts"
	"github.com/walteh/replacerc/pkg/log"
	"github.com/walteh/replacerc/pkg/operation"
	"github.com/walteh/replacerc/pkg/prompt"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var beforeFile, afterFile string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run one replacement pass with blocks read from files",
		Long: `Apply reads the before and after blocks from files instead of the
terminal and runs a single replacement pass. A trailing newline in either
file is not part of the block, exactly like a line typed at the prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			before, err := readBlockFile(beforeFile)
			if err != nil {
				return err
			}
			after, err := readBlockFile(afterFile)
			if err != nil {
				return err
			}

			pair := operation.Pair{Before: before, After: after}
			if pair.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), prompt.Ignored)
				return nil
			}

			ws, err := o.Prepare(ctx, cmd)
			if err != nil {
				return err
			}

			op, err := operation.NewReplaceOperation(operation.Options{Files: ws.Files, Store: ws.Store}, pair)
			if err != nil {
				return errors.Errorf("creating replace operation: %w", err)
			}
			if err := operation.NewRunner(zerolog.Ctx(ctx)).Run(ctx, op); err != nil {
				return errors.Errorf("applying replacement: %w", err)
			}

			prompt.Report(ctx, log.FromContext(ctx), op.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&beforeFile, "before-file", "", "file holding the before block")
	cmd.Flags().StringVar(&afterFile, "after-file", "", "file holding the after block")
	_ = cmd.MarkFlagRequired("before-file")
	_ = cmd.MarkFlagRequired("after-file")

	return cmd
}

func readBlockFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening block file: %w", err)
	}
	defer f.Close()

	return prompt.ReadAllBlock(f)
}
