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

package syntax

import (
	"github.com/hashicorp/hcl/v2"
)

// Statement is a Python statement node.
type Statement interface {
	Range() hcl.Range

	isStatement()
}

// ExpressionStatement is a statement consisting of a single expression, typically a call.
type ExpressionStatement struct {
	Expr     Expression
	SrcRange hcl.Range
}

func (s *ExpressionStatement) Range() hcl.Range {
	return s.SrcRange
}

func (*ExpressionStatement) isStatement() {}

// Assignment is a (possibly chained) assignment `t1 = t2 = value`. Targets are listed left to right.
type Assignment struct {
	Targets  []Expression
	Value    Expression
	SrcRange hcl.Range
}

func (s *Assignment) Range() hcl.Range {
	return s.SrcRange
}

func (*Assignment) isStatement() {}

// AugmentedAssignment is an in-place update such as `x += 1`.
type AugmentedAssignment struct {
	Target   Expression
	Operator string
	Value    Expression
	SrcRange hcl.Range
}

func (s *AugmentedAssignment) Range() hcl.Range {
	return s.SrcRange
}

func (*AugmentedAssignment) isStatement() {}

// ImportName is a single imported name, e.g. `a.b as c` or `x`.
type ImportName struct {
	// Path is the dotted name being imported.
	Path string
	// Alias is the `as` name, if any.
	Alias    string
	SrcRange hcl.Range
}

// BoundName returns the name that the import binds in the importing scope.
func (n ImportName) BoundName() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Path
}

// Import is an `import a.b, c as d` statement.
type Import struct {
	Names    []ImportName
	SrcRange hcl.Range
}

func (s *Import) Range() hcl.Range {
	return s.SrcRange
}

func (*Import) isStatement() {}

// ImportFrom is a `from module import a, b as c` statement.
type ImportFrom struct {
	// Module is the dotted module path. Relative imports keep their leading dots.
	Module   string
	Names    []ImportName
	Wildcard bool
	SrcRange hcl.Range
}

func (s *ImportFrom) Range() hcl.Range {
	return s.SrcRange
}

func (*ImportFrom) isStatement() {}

// Parameter is a function parameter.
type Parameter struct {
	Name    string
	Default Expression
}

// FunctionDef is a function definition. Decorators and defaults are evaluated in the enclosing scope.
type FunctionDef struct {
	Name       string
	Parameters []Parameter
	Decorators []Expression
	Body       []Statement
	SrcRange   hcl.Range
}

func (s *FunctionDef) Range() hcl.Range {
	return s.SrcRange
}

func (*FunctionDef) isStatement() {}

// ClassDef is a class definition.
type ClassDef struct {
	Name       string
	Bases      []Expression
	Decorators []Expression
	Body       []Statement
	SrcRange   hcl.Range
}

func (s *ClassDef) Range() hcl.Range {
	return s.SrcRange
}

func (*ClassDef) isStatement() {}

// Compound is any control-flow statement: if, for, while, with, or try. protolint does not model control flow, so
// only the header expressions, loop targets, and nested bodies are retained, in source order.
type Compound struct {
	Kind string
	// Headers are the conditions, iterables, and context managers.
	Headers []Expression
	// Iterable is the expression a for statement iterates over. It is also listed in Headers.
	Iterable Expression
	// Targets are the expressions bound by the header: the loop variable of a for statement, the `as` targets of
	// with items, and the names bound by except clauses. For a for statement, Targets[0] is the loop variable.
	Targets  []Expression
	Bodies   [][]Statement
	SrcRange hcl.Range
}

func (s *Compound) Range() hcl.Range {
	return s.SrcRange
}

func (*Compound) isStatement() {}

// Return is a return statement with an optional value.
type Return struct {
	Value    Expression
	SrcRange hcl.Range
}

func (s *Return) Range() hcl.Range {
	return s.SrcRange
}

func (*Return) isStatement() {}

// Delete is a `del a, b.c` statement.
type Delete struct {
	Targets  []Expression
	SrcRange hcl.Range
}

func (s *Delete) Range() hcl.Range {
	return s.SrcRange
}

func (*Delete) isStatement() {}

// Pass is any statement that protolint ignores.
type Pass struct {
	Kind     string
	SrcRange hcl.Range
}

func (s *Pass) Range() hcl.Range {
	return s.SrcRange
}

func (*Pass) isStatement() {}

// File is a parsed Python source file.
type File struct {
	Name       string
	Bytes      []byte
	Statements []Statement
}
