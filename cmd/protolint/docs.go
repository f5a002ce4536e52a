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
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pulumi/protolint/pkg/lint/docs"
	"github.com/pulumi/protolint/pkg/util/logging"
)

func newDocsCmd(root *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate a Markdown reference of the known protobuf modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, table, err := root.load(".")
			if err != nil {
				return err
			}

			files, err := docs.GeneratePackage("protolint", table)
			if err != nil {
				return err
			}
			return writeFiles(out, files)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "docs", "The directory to write the reference to")

	return cmd
}

// writeFiles writes generated files beneath dir.
func writeFiles(dir string, files map[string][]byte) error {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		path := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return errors.Wrapf(err, "creating directory for %v", path)
		}
		if err := os.WriteFile(path, files[p], 0600); err != nil {
			return errors.Wrapf(err, "writing %v", path)
		}
		logging.V(5).Infof("wrote %v", path)
	}
	return nil
}
