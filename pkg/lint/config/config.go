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

// Package config loads protolint project configuration from .protolint.hcl files.
package config

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"

	"github.com/pulumi/protolint/pkg/lint/checker"
)

// FileName is the name of the project configuration file.
const FileName = ".protolint.hcl"

// Config is a project configuration:
//
//	descriptors = ["protos/addressbook.yaml", "gen/descriptor.pb"]
//	disable     = ["positional-arguments"]
type Config struct {
	// Descriptors lists descriptor tables and descriptor sets. Relative paths are resolved against the directory that
	// holds the configuration file.
	Descriptors []string `hcl:"descriptors,optional"`
	// Disable lists rules whose diagnostics are dropped.
	Disable []string `hcl:"disable,optional"`

	// Path is the file the configuration was loaded from.
	Path string
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parsing %v", path)
	}

	var config Config
	if diags = gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "decoding %v", path)
	}
	if err := checker.ValidateRules(config.Disable); err != nil {
		return nil, errors.Wrapf(err, "%v", path)
	}

	dir := filepath.Dir(path)
	for i, p := range config.Descriptors {
		if !filepath.IsAbs(p) {
			config.Descriptors[i] = filepath.Join(dir, p)
		}
	}
	config.Path = path
	return &config, nil
}

// Find looks for a configuration file in dir and each of its parents. It returns "" if there is none.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, FileName)
		info, err := os.Stat(path)
		switch {
		case err == nil && !info.IsDir():
			return path, nil
		case err != nil && !os.IsNotExist(err):
			return "", errors.Wrapf(err, "looking for %v", FileName)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
