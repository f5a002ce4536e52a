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

// Package checker walks a parsed Python file, drives the evaluation engine over its statements, and reports illegal
// uses of protobuf-generated types.
package checker

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/hcl/v2"

	"github.com/pulumi/protolint/pkg/lint/descriptor"
	"github.com/pulumi/protolint/pkg/lint/evaluation"
	"github.com/pulumi/protolint/pkg/lint/syntax"
	"github.com/pulumi/protolint/pkg/util/contract"
	"github.com/pulumi/protolint/pkg/util/logging"
)

// Options controls a check.
type Options struct {
	// Disabled lists the rules whose diagnostics are dropped.
	Disabled []string
	// Globals are bound in the base scope level before the file is walked.
	Globals map[string]evaluation.Value
}

// Result is the outcome of checking a single file.
type Result struct {
	// Scope holds the bindings left at the end of the file.
	Scope       *evaluation.Scope
	Diagnostics hcl.Diagnostics
}

type checker struct {
	file        *syntax.File
	table       *descriptor.Table
	scope       *evaluation.Scope
	disabled    map[string]bool
	diagnostics hcl.Diagnostics
}

// Check checks a file against a type table.
func Check(file *syntax.File, table *descriptor.Table, options Options) hcl.Diagnostics {
	return Analyze(file, table, options).Diagnostics
}

// Analyze checks a file against a type table and also returns the final scope.
func Analyze(file *syntax.File, table *descriptor.Table, options Options) *Result {
	contract.Assert(table != nil)

	c := &checker{
		file:     file,
		table:    table,
		scope:    evaluation.NewScope(options.Globals),
		disabled: map[string]bool{},
	}
	for _, rule := range options.Disabled {
		c.disabled[rule] = true
	}

	c.checkStatements(file.Statements)

	if logging.V(9) {
		logging.Infof("%v: final scope:\n%s", file.Name, DumpConfig.Sdump(Bindings(c.scope)))
	}
	return &Result{Scope: c.scope, Diagnostics: c.diagnostics}
}

// DumpConfig renders scopes for debugging without descending into the type table.
var DumpConfig = &spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                2,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Bindings returns the values visible in a scope, keyed by name.
func Bindings(scope *evaluation.Scope) map[string]evaluation.Value {
	bindings := map[string]evaluation.Value{}
	for _, name := range scope.Names() {
		v, _ := scope.BindReference(name)
		bindings[name] = v
	}
	return bindings
}

func (c *checker) checkStatements(statements []syntax.Statement) {
	for _, s := range statements {
		c.checkStatement(s)
	}
}

func (c *checker) checkStatement(s syntax.Statement) {
	switch s := s.(type) {
	case *syntax.ExpressionStatement:
		c.typeOf(s.Expr)
	case *syntax.Assignment:
		c.checkAssignment(s)
	case *syntax.AugmentedAssignment:
		c.typeOf(s.Value)
		if _, isName := s.Target.(*syntax.Name); !isName {
			c.typeOf(s.Target)
		}
	case *syntax.Import:
		c.checkImport(s)
	case *syntax.ImportFrom:
		c.checkImportFrom(s)
	case *syntax.FunctionDef:
		c.checkFunction(s)
	case *syntax.ClassDef:
		c.checkClass(s)
	case *syntax.Compound:
		c.checkCompound(s)
	case *syntax.Return:
		if s.Value != nil {
			c.typeOf(s.Value)
		}
	case *syntax.Delete:
		for _, target := range s.Targets {
			if _, isName := target.(*syntax.Name); !isName {
				c.typeOf(target)
			}
		}
	case *syntax.Pass:
		// Nothing to do.
	default:
		contract.Failf("unexpected statement type %T", s)
	}
}

func (c *checker) checkFunction(s *syntax.FunctionDef) {
	for _, d := range s.Decorators {
		c.typeOf(d)
	}
	// Parameters with defaults are assumed to hold their default.
	locals := localNames(s.Body)
	for _, p := range s.Parameters {
		locals[p.Name] = evaluation.Unknown
		if p.Default != nil {
			locals[p.Name] = c.typeOf(p.Default)
		}
	}
	c.scope.Assign(s.Name, evaluation.Unknown)

	c.inScope(locals, s.Body)
}

func (c *checker) checkClass(s *syntax.ClassDef) {
	for _, d := range s.Decorators {
		c.typeOf(d)
	}
	for _, b := range s.Bases {
		c.typeOf(b)
	}

	c.inScope(localNames(s.Body), s.Body)
	c.scope.Assign(s.Name, evaluation.Unknown)
}

// inScope checks a body in a new innermost scope level holding the body's local names.
func (c *checker) inScope(locals map[string]evaluation.Value, body []syntax.Statement) {
	c.scope.Push(locals)
	c.checkStatements(body)
	err := c.scope.Pop()
	contract.Assertf(err == nil, "unbalanced scope: %v", err)
}

func (c *checker) checkCompound(s *syntax.Compound) {
	for _, h := range s.Headers {
		if h != s.Iterable {
			c.typeOf(h)
		}
	}

	for i, target := range s.Targets {
		element := evaluation.Unknown
		if i == 0 && s.Iterable != nil {
			element = c.elementOf(c.typeOf(s.Iterable))
		}
		c.bindTarget(target, element)
	}

	for _, body := range s.Bodies {
		c.checkStatements(body)
	}
}

// elementOf returns the value of an element of an iterated container.
func (c *checker) elementOf(container evaluation.Value) evaluation.Value {
	if r, ok := container.(*descriptor.Repeated); ok {
		return r.Elem()
	}
	return evaluation.Unknown
}

// localNames collects the names a function or class body binds. They are local to the body: an assignment inside
// the body must not rebind a same-named outer variable.
func localNames(body []syntax.Statement) map[string]evaluation.Value {
	locals := map[string]evaluation.Value{}

	var addTarget func(target syntax.Expression)
	addTarget = func(target syntax.Expression) {
		switch target := target.(type) {
		case *syntax.Name:
			locals[target.Identifier] = evaluation.Unknown
		case *syntax.Sequence:
			for _, e := range target.Elements {
				addTarget(e)
			}
			for _, e := range target.Splats {
				addTarget(e)
			}
		}
	}

	var addStatements func(statements []syntax.Statement)
	addStatements = func(statements []syntax.Statement) {
		for _, s := range statements {
			switch s := s.(type) {
			case *syntax.Assignment:
				for _, target := range s.Targets {
					addTarget(target)
				}
			case *syntax.AugmentedAssignment:
				addTarget(s.Target)
			case *syntax.Import:
				for _, n := range s.Names {
					locals[importBinding(n)] = evaluation.Unknown
				}
			case *syntax.ImportFrom:
				for _, n := range s.Names {
					locals[n.BoundName()] = evaluation.Unknown
				}
			case *syntax.FunctionDef:
				locals[s.Name] = evaluation.Unknown
			case *syntax.ClassDef:
				locals[s.Name] = evaluation.Unknown
			case *syntax.Compound:
				for _, target := range s.Targets {
					addTarget(target)
				}
				for _, body := range s.Bodies {
					addStatements(body)
				}
			}
		}
	}
	addStatements(body)

	return locals
}
