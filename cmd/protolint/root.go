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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pulumi/protolint/pkg/lint/config"
	"github.com/pulumi/protolint/pkg/lint/descriptor"
	"github.com/pulumi/protolint/pkg/util/logging"
)

// errProblemsFound is returned by commands that ran to completion but reported problems.
var errProblemsFound = errors.New("problems found")

type rootOptions struct {
	logToStderr bool
	verbose     int
	configPath  string
	descriptors []string
}

func newProtolintCmd() *cobra.Command {
	var root rootOptions

	cmd := &cobra.Command{
		Use:   "protolint",
		Short: "Find misuses of protobuf-generated types in Python code",
		Long: "protolint statically checks Python source against the descriptors of the protobuf messages it uses.\n" +
			"\n" +
			"Descriptors are read from the files named by --descriptors and by the nearest " + config.FileName + ".",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.InitLogging(root.logToStderr, root.verbose)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&root.logToStderr, "logtostderr", false, "Log to stderr instead of to files")
	flags.IntVarP(&root.verbose, "verbose", "v", 0, "Enable verbose logging (e.g., v=3); anything >3 is very verbose")
	flags.StringVar(&root.configPath, "config", "",
		"The configuration file to use; by default the nearest "+config.FileName+" is used")
	flags.StringSliceVar(&root.descriptors, "descriptors", nil,
		"Descriptor tables (.yaml) or descriptor sets (.pb) to load in addition to the configured ones")

	cmd.AddCommand(newCheckCmd(&root))
	cmd.AddCommand(newDocsCmd(&root))
	cmd.AddCommand(newScopeCmd(&root))

	return cmd
}

// load reads the project configuration that applies to dir, if any, and builds the type table from the configured
// and command-line descriptors.
func (root *rootOptions) load(dir string) (*config.Config, *descriptor.Table, error) {
	path := root.configPath
	if path == "" {
		found, err := config.Find(dir)
		if err != nil {
			return nil, nil, err
		}
		path = found
	}

	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
		logging.V(5).Infof("using configuration %v", path)
	}

	descriptors := append(append([]string(nil), cfg.Descriptors...), root.descriptors...)
	if len(descriptors) == 0 {
		logging.Warningf("no descriptors configured; only the well-known types are known")
		return cfg, descriptor.NewTable(), nil
	}

	table, err := descriptor.LoadFiles(descriptors...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, table, nil
}
