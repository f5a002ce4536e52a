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
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pulumi/protolint/pkg/lint/checker"
	"github.com/pulumi/protolint/pkg/lint/descriptor"
	"github.com/pulumi/protolint/pkg/lint/syntax"
)

func newScopeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scope FILE",
		Short: "Print the bindings a Python file leaves in its module scope",
		Long: "Print the bindings a Python file leaves in its module scope.\n" +
			"\n" +
			"This is a debugging aid: it shows the value the evaluator inferred for every module-level name.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, table, err := root.load(".")
			if err != nil {
				return err
			}
			return dumpScope(cmd.OutOrStdout(), os.Stderr, args[0], table, checker.Options{Disabled: cfg.Disable})
		},
	}
}

func dumpScope(stdout, stderr io.Writer, path string, table *descriptor.Table, options checker.Options) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %v", path)
	}

	file, diags := syntax.ParseFile(path, source)
	if file == nil {
		return diags
	}

	result := checker.Analyze(file, table, options)
	diags = append(diags, result.Diagnostics...)
	if len(diags) > 0 {
		writer := syntax.NewDiagnosticWriter(stderr, []*syntax.File{file}, 0, false)
		if err := writer.WriteDiagnostics(diags); err != nil {
			return err
		}
	}

	checker.DumpConfig.Fdump(stdout, checker.Bindings(result.Scope))
	return nil
}
