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

// Package format renders syntax trees back to Python source text.
package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/pulumi/protolint/pkg/lint/syntax"
	"github.com/pulumi/protolint/pkg/util/contract"
)

// ExpressionGenerator generates source text for each kind of expression node.
type ExpressionGenerator interface {
	GenAttribute(w io.Writer, expr *syntax.Attribute)
	GenCall(w io.Writer, expr *syntax.Call)
	GenConstant(w io.Writer, expr *syntax.Constant)
	GenDict(w io.Writer, expr *syntax.Dict)
	GenName(w io.Writer, expr *syntax.Name)
	GenOther(w io.Writer, expr *syntax.Other)
	GenSequence(w io.Writer, expr *syntax.Sequence)
	GenSubscript(w io.Writer, expr *syntax.Subscript)
}

// FormatFunc adapts a function to fmt.Formatter.
type FormatFunc func(f fmt.State, c rune)

func (fn FormatFunc) Format(f fmt.State, c rune) {
	fn(f, c)
}

// Formatter is a convenience type that implements a number of common utilities used to emit source code.
type Formatter struct {
	// The current indent level as a string.
	Indent string

	// The ExpressionGenerator to use in {G,Fg}en{,f}
	g ExpressionGenerator
}

// NewFormatter creates a new formatter that will use the given ExpressionGenerator when generating code.
func NewFormatter(g ExpressionGenerator) *Formatter {
	return &Formatter{g: g}
}

// Indented bumps the current indentation level, invokes the given function, and then resets the indentation level to
// its prior value.
func (e *Formatter) Indented(f func()) {
	e.Indent += "    "
	f()
	e.Indent = e.Indent[:len(e.Indent)-4]
}

// Fprint prints one or more values to the given writer.
func (e *Formatter) Fprint(w io.Writer, a ...interface{}) {
	_, err := fmt.Fprint(w, a...)
	contract.IgnoreError(err)
}

// Fprintf prints a formatted message to the given writer.
func (e *Formatter) Fprintf(w io.Writer, format string, a ...interface{}) {
	_, err := fmt.Fprintf(w, format, a...)
	contract.IgnoreError(err)
}

// Fgen generates code for a list of strings and expression trees. The former are written directly to the destination;
// the latter are recursively generated using the appropriate Gen* functions.
func (e *Formatter) Fgen(w io.Writer, vs ...interface{}) {
	for _, v := range vs {
		switch v := v.(type) {
		case string:
			e.Fprint(w, v)
		case *syntax.Attribute:
			e.g.GenAttribute(w, v)
		case *syntax.Call:
			e.g.GenCall(w, v)
		case *syntax.Constant:
			e.g.GenConstant(w, v)
		case *syntax.Dict:
			e.g.GenDict(w, v)
		case *syntax.Name:
			e.g.GenName(w, v)
		case *syntax.Other:
			e.g.GenOther(w, v)
		case *syntax.Sequence:
			e.g.GenSequence(w, v)
		case *syntax.Subscript:
			e.g.GenSubscript(w, v)
		default:
			contract.Failf("unexpected expression node of type %T", v)
		}
	}
}

// Fgenf generates code using a format string and its arguments. Any arguments that are expressions are wrapped in a
// FormatFunc that calls the appropriate recursive generation function.
func (e *Formatter) Fgenf(w io.Writer, format string, args ...interface{}) {
	for i := range args {
		if node, ok := args[i].(syntax.Expression); ok {
			args[i] = FormatFunc(func(f fmt.State, c rune) { e.Fgen(f, node) })
		}
	}
	e.Fprintf(w, format, args...)
}

// Expression renders x as Python source.
func Expression(x syntax.Expression) string {
	if x == nil {
		return ""
	}
	var b strings.Builder
	newPythonGenerator().Fgen(&b, x)
	return b.String()
}
