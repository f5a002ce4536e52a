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

package checker

import (
	"strings"

	"github.com/pulumi/protolint/pkg/lint/descriptor"
	"github.com/pulumi/protolint/pkg/lint/evaluation"
	"github.com/pulumi/protolint/pkg/lint/syntax"
	"github.com/pulumi/protolint/pkg/util/logging"
)

// importBinding returns the name an `import` binds: the alias if there is one, else the first component of the
// dotted path.
func importBinding(n syntax.ImportName) string {
	if n.Alias != "" {
		return n.Alias
	}
	return strings.SplitN(n.Path, ".", 2)[0]
}

func (c *checker) importModule(path string) evaluation.Value {
	if v, ok := c.table.Import(path); ok {
		logging.V(7).Infof("%v: import %v", c.file.Name, path)
		return v
	}
	return evaluation.Unknown
}

// checkImport binds the names of an `import` statement. Modules outside the type table are bound to
// evaluation.Unknown so that they shadow any earlier binding of the same name.
func (c *checker) checkImport(s *syntax.Import) {
	for _, n := range s.Names {
		path := n.Path
		if n.Alias == "" {
			path = importBinding(n)
		}
		c.scope.Assign(importBinding(n), c.importModule(path))
	}
}

func (c *checker) checkImportFrom(s *syntax.ImportFrom) {
	module := evaluation.Unknown
	if !strings.HasPrefix(s.Module, ".") {
		module = c.importModule(s.Module)
	}

	if s.Wildcard {
		if m, ok := module.(*descriptor.Module); ok && m.File() != nil {
			for _, name := range m.AttributeNames() {
				if v, ok := m.GetAttr(name); ok {
					c.scope.Assign(name, v)
				}
			}
		}
		return
	}

	for _, n := range s.Names {
		c.scope.Assign(n.BoundName(), c.importMember(module, n))
	}
}

func (c *checker) importMember(module evaluation.Value, n syntax.ImportName) evaluation.Value {
	m, ok := module.(*descriptor.Module)
	if !ok {
		return evaluation.Unknown
	}
	if v, ok := m.GetAttr(n.Path); ok {
		return v
	}

	rng := n.SrcRange
	c.report(&evaluation.Error{Kind: evaluation.AttributeNotFound, Name: n.Path, Owner: m, Subject: &rng})
	return evaluation.Unknown
}
