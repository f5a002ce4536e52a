// Copyright 2016-2020, Pulumi Corporation.
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
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize/english"
	"github.com/hashicorp/hcl/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/pulumi/protolint/pkg/lint/checker"
	"github.com/pulumi/protolint/pkg/lint/descriptor"
	"github.com/pulumi/protolint/pkg/lint/syntax"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	var disable []string

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Check Python files for misuses of protobuf-generated types",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checker.ValidateRules(disable); err != nil {
				return err
			}

			cfg, table, err := root.load(".")
			if err != nil {
				return err
			}

			options := checker.Options{Disabled: append(append([]string(nil), cfg.Disable...), disable...)}
			count, err := checkFiles(cmd.OutOrStdout(), args, table, options)
			if err != nil {
				return err
			}
			if count == 0 {
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s found\n", english.Plural(count, "problem", ""))
			return errProblemsFound
		},
	}

	cmd.Flags().StringSliceVar(&disable, "disable", nil, "Rules whose diagnostics are dropped")

	return cmd
}

// checkFiles checks each file and writes the diagnostics to w. It returns the number of diagnostics written. Files
// that cannot be read do not stop the remaining files from being checked.
func checkFiles(w io.Writer, paths []string, table *descriptor.Table, options checker.Options) (int, error) {
	var result error
	var files []*syntax.File
	var diagnostics hcl.Diagnostics
	for _, path := range paths {
		source, err := os.ReadFile(path)
		if err != nil {
			result = multierr.Append(result, errors.Wrapf(err, "reading %v", path))
			continue
		}

		file, diags := syntax.ParseFile(path, source)
		diagnostics = append(diagnostics, diags...)
		if file == nil {
			continue
		}
		files = append(files, file)
		diagnostics = append(diagnostics, checker.Check(file, table, options)...)
	}

	if len(diagnostics) > 0 {
		writer := syntax.NewDiagnosticWriter(w, files, 0, false)
		result = multierr.Append(result, writer.WriteDiagnostics(diagnostics))
	}
	return len(diagnostics), result
}
