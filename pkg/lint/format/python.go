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

package format

import (
	"io"
	"strconv"

	"github.com/pulumi/protolint/pkg/lint/syntax"
	"github.com/zclconf/go-cty/cty"
)

type pythonGenerator struct {
	*Formatter
}

func newPythonGenerator() *pythonGenerator {
	g := &pythonGenerator{}
	g.Formatter = NewFormatter(g)
	return g
}

func (g *pythonGenerator) GenAttribute(w io.Writer, expr *syntax.Attribute) {
	g.Fgenf(w, "%v.%s", expr.Object, expr.Name)
}

func (g *pythonGenerator) GenCall(w io.Writer, expr *syntax.Call) {
	g.Fgen(w, expr.Function, "(")
	sep := ""
	for _, arg := range expr.Args {
		g.Fgen(w, sep, arg)
		sep = ", "
	}
	for _, kw := range expr.Keywords {
		g.Fgenf(w, "%s%s=%v", sep, kw.Name, kw.Value)
		sep = ", "
	}
	for range expr.Splats {
		g.Fgen(w, sep, "...")
		sep = ", "
	}
	g.Fgen(w, ")")
}

func (g *pythonGenerator) GenConstant(w io.Writer, expr *syntax.Constant) {
	g.Fprint(w, Literal(expr))
}

func (g *pythonGenerator) GenDict(w io.Writer, expr *syntax.Dict) {
	g.Fgen(w, "{")
	for i, item := range expr.Items {
		if i > 0 {
			g.Fgen(w, ", ")
		}
		g.Fgenf(w, "%v: %v", item.Key, item.Value)
	}
	g.Fgen(w, "}")
}

func (g *pythonGenerator) GenName(w io.Writer, expr *syntax.Name) {
	g.Fprint(w, expr.Identifier)
}

func (g *pythonGenerator) GenOther(w io.Writer, expr *syntax.Other) {
	g.Fprintf(w, "<%s>", expr.Kind)
}

func (g *pythonGenerator) GenSequence(w io.Writer, expr *syntax.Sequence) {
	open, close := "[", "]"
	if expr.Kind == syntax.TupleDisplay {
		open, close = "(", ")"
	}
	g.Fgen(w, open)
	for i, element := range expr.Elements {
		if i > 0 {
			g.Fgen(w, ", ")
		}
		g.Fgen(w, element)
	}
	if expr.Kind == syntax.TupleDisplay && len(expr.Elements) == 1 {
		g.Fgen(w, ",")
	}
	g.Fgen(w, close)
}

func (g *pythonGenerator) GenSubscript(w io.Writer, expr *syntax.Subscript) {
	g.Fgenf(w, "%v[%v]", expr.Object, expr.Key)
}

// Literal renders a constant node as Python source, keeping the distinctions between int and float and between str
// and bytes that its value alone does not record.
func Literal(c *syntax.Constant) string {
	switch c.Kind {
	case syntax.StrLiteral:
		return strconv.Quote(c.Text)
	case syntax.BytesLiteral:
		return "b" + strconv.Quote(c.Text)
	case syntax.FloatLiteral:
		if c.Value.IsKnown() && !c.Value.IsNull() && c.Value.AsBigFloat().IsInt() {
			return Constant(c.Value) + ".0"
		}
	}
	return Constant(c.Value)
}

// Constant renders a constant value as a Python literal.
func Constant(v cty.Value) string {
	switch {
	case v.IsNull():
		return "None"
	case !v.IsKnown():
		return "<unknown>"
	case v.Type() == cty.Bool:
		if v.True() {
			return "True"
		}
		return "False"
	case v.Type() == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			return bf.Text('f', 0)
		}
		return bf.Text('g', -1)
	case v.Type() == cty.String:
		return strconv.Quote(v.AsString())
	default:
		return v.GoString()
	}
}
