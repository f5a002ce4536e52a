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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func parseExpr(t *testing.T, src string) Expression {
	x, diags := ParseExpression(src)
	require.False(t, diags.HasErrors(), "%v", diags)
	return x
}

func TestParseName(t *testing.T) {
	x := parseExpr(t, "Person")
	name, ok := x.(*Name)
	require.True(t, ok)
	assert.Equal(t, "Person", name.Identifier)
	assert.Equal(t, 1, name.SrcRange.Start.Line)
	assert.Equal(t, 1, name.SrcRange.Start.Column)
	assert.Equal(t, 7, name.SrcRange.End.Column)
}

func TestParseConstants(t *testing.T) {
	cases := []struct {
		src      string
		expected cty.Value
		kind     LiteralKind
	}{
		{"456", cty.NumberIntVal(456), IntLiteral},
		{"0x1F", cty.NumberIntVal(31), IntLiteral},
		{"0o17", cty.NumberIntVal(15), IntLiteral},
		{"1_000", cty.NumberIntVal(1000), IntLiteral},
		{"-1", cty.NumberIntVal(-1), IntLiteral},
		{"-2.0", cty.NumberIntVal(-2), FloatLiteral},
		{`"blue"`, cty.StringVal("blue"), StrLiteral},
		{`'red'`, cty.StringVal("red"), StrLiteral},
		{`"a\tb"`, cty.StringVal("a\tb"), StrLiteral},
		{`r"a\tb"`, cty.StringVal(`a\tb`), StrLiteral},
		{`b"\x41"`, cty.StringVal("A"), BytesLiteral},
		{`"""tri"""`, cty.StringVal("tri"), StrLiteral},
		{`"con" 'cat'`, cty.StringVal("concat"), StrLiteral},
		{`b"con" b'cat'`, cty.StringVal("concat"), BytesLiteral},
		{"True", cty.True, BoolLiteral},
		{"False", cty.False, BoolLiteral},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			x := parseExpr(t, c.src)
			constant, ok := x.(*Constant)
			require.True(t, ok, "%T", x)
			assert.True(t, c.expected.RawEquals(constant.Value), "got %#v", constant.Value)
			assert.Equal(t, c.kind, constant.Kind)
		})
	}
}

func TestParseStringText(t *testing.T) {
	// Text keeps the decoded contents exactly; cty normalizes the combining sequence to a single rune.
	constant, ok := parseExpr(t, `"e\u0301"`).(*Constant)
	require.True(t, ok)
	assert.Equal(t, "e\u0301", constant.Text)

	constant, ok = parseExpr(t, `b"\xff\101"`).(*Constant)
	require.True(t, ok)
	assert.Equal(t, BytesLiteral, constant.Kind)
	assert.Equal(t, "\xffA", constant.Text)
}

func TestParseMixedConcatenationIsNotConstant(t *testing.T) {
	x := parseExpr(t, `"a" b"b"`)
	_, ok := x.(*Constant)
	assert.False(t, ok)
}

func TestParseNone(t *testing.T) {
	constant, ok := parseExpr(t, "None").(*Constant)
	require.True(t, ok)
	assert.True(t, constant.Value.IsNull())
}

func TestParseFloat(t *testing.T) {
	constant, ok := parseExpr(t, "1.5").(*Constant)
	require.True(t, ok)
	assert.Equal(t, FloatLiteral, constant.Kind)
	f, _ := constant.Value.AsBigFloat().Float64()
	assert.Equal(t, 1.5, f)
}

func TestParseFormattedStringIsNotConstant(t *testing.T) {
	x := parseExpr(t, `f"{name}"`)
	_, ok := x.(*Constant)
	assert.False(t, ok)
}

func TestParseAttributeChain(t *testing.T) {
	x := parseExpr(t, "outer.inner.attr")
	attr, ok := x.(*Attribute)
	require.True(t, ok)
	assert.Equal(t, "attr", attr.Name)

	inner, ok := attr.Object.(*Attribute)
	require.True(t, ok)
	assert.Equal(t, "inner", inner.Name)

	root, ok := attr.Root().(*Name)
	require.True(t, ok)
	assert.Equal(t, "outer", root.Identifier)
}

func TestParseSubscriptOfList(t *testing.T) {
	x := parseExpr(t, "[Person][0]")
	sub, ok := x.(*Subscript)
	require.True(t, ok)

	list, ok := sub.Object.(*Sequence)
	require.True(t, ok)
	assert.Equal(t, ListDisplay, list.Kind)
	require.Len(t, list.Elements, 1)

	key, ok := sub.Key.(*Constant)
	require.True(t, ok)
	assert.True(t, cty.NumberIntVal(0).RawEquals(key.Value))
}

func TestParseNestedDict(t *testing.T) {
	x := parseExpr(t, `{
    "outer": {
        "inner": Person
    }
}["outer"]["inner"]`)
	outer, ok := x.(*Subscript)
	require.True(t, ok)
	inner, ok := outer.Object.(*Subscript)
	require.True(t, ok)
	dict, ok := inner.Object.(*Dict)
	require.True(t, ok)
	require.Len(t, dict.Items, 1)
	_, ok = dict.Items[0].Value.(*Dict)
	assert.True(t, ok)
}

func TestParseSplats(t *testing.T) {
	dict, ok := parseExpr(t, `{"a": 1, **rest}`).(*Dict)
	require.True(t, ok)
	assert.Len(t, dict.Items, 1)
	assert.Len(t, dict.Splats, 1)

	list, ok := parseExpr(t, `[a, *rest]`).(*Sequence)
	require.True(t, ok)
	assert.Len(t, list.Elements, 1)
	assert.Len(t, list.Splats, 1)
}

func TestParseCall(t *testing.T) {
	call, ok := parseExpr(t, `module_pb2.Person(name="x", id=1)`).(*Call)
	require.True(t, ok)
	_, ok = call.Function.(*Attribute)
	assert.True(t, ok)
	assert.Empty(t, call.Args)
	require.Len(t, call.Keywords, 2)
	assert.Equal(t, "name", call.Keywords[0].Name)
	assert.Equal(t, "id", call.Keywords[1].Name)
}

func TestParseAssignment(t *testing.T) {
	stmt, diags := ParseAssignment(`obj.attr = "blue"`)
	require.False(t, diags.HasErrors())
	require.Len(t, stmt.Targets, 1)
	_, ok := stmt.Targets[0].(*Attribute)
	assert.True(t, ok)
	_, ok = stmt.Value.(*Constant)
	assert.True(t, ok)
}

func TestParseChainedAssignment(t *testing.T) {
	stmt, diags := ParseAssignment(`a = b = 1`)
	require.False(t, diags.HasErrors())
	require.Len(t, stmt.Targets, 2)
	assert.Equal(t, "a", stmt.Targets[0].(*Name).Identifier)
	assert.Equal(t, "b", stmt.Targets[1].(*Name).Identifier)
}

func TestParseExpressionRejectsStatements(t *testing.T) {
	_, diags := ParseExpression("x = 1")
	assert.True(t, diags.HasErrors())
}

func TestParseFile(t *testing.T) {
	src := `import a.b as c, d
from google.protobuf import timestamp_pb2 as ts
from x import *

@decorator
def f(a, b=1, *args, c: int = 2, **kwargs):
    return a.b

class C(Base):
    x = 1

for p in person.phones:
    p.number = "1"
else:
    pass

with open(path) as fh:
    pass

try:
    pass
except ValueError as e:
    pass
finally:
    pass

x += 1
del x
`
	file, diags := ParseFile("test.py", []byte(src))
	require.False(t, diags.HasErrors(), "%v", diags)
	require.Len(t, file.Statements, 10)

	imp := file.Statements[0].(*Import)
	require.Len(t, imp.Names, 2)
	assert.Equal(t, "a.b", imp.Names[0].Path)
	assert.Equal(t, "c", imp.Names[0].BoundName())
	assert.Equal(t, "d", imp.Names[1].BoundName())

	from := file.Statements[1].(*ImportFrom)
	assert.Equal(t, "google.protobuf", from.Module)
	require.Len(t, from.Names, 1)
	assert.Equal(t, "timestamp_pb2", from.Names[0].Path)
	assert.Equal(t, "ts", from.Names[0].Alias)

	assert.True(t, file.Statements[2].(*ImportFrom).Wildcard)

	fn := file.Statements[3].(*FunctionDef)
	assert.Equal(t, "f", fn.Name)
	assert.Len(t, fn.Decorators, 1)
	var params []string
	for _, param := range fn.Parameters {
		params = append(params, param.Name)
	}
	assert.Equal(t, []string{"a", "b", "args", "c", "kwargs"}, params)
	require.Len(t, fn.Body, 1)
	_, ok := fn.Body[0].(*Return)
	assert.True(t, ok)

	class := file.Statements[4].(*ClassDef)
	assert.Equal(t, "C", class.Name)
	assert.Len(t, class.Bases, 1)

	loop := file.Statements[5].(*Compound)
	assert.Equal(t, "for", loop.Kind)
	require.Len(t, loop.Targets, 1)
	assert.Equal(t, "p", loop.Targets[0].(*Name).Identifier)
	_, ok = loop.Iterable.(*Attribute)
	assert.True(t, ok)
	assert.Len(t, loop.Bodies, 2)

	with := file.Statements[6].(*Compound)
	assert.Equal(t, "with", with.Kind)
	require.Len(t, with.Targets, 1)
	assert.Equal(t, "fh", with.Targets[0].(*Name).Identifier)

	try := file.Statements[7].(*Compound)
	assert.Equal(t, "try", try.Kind)
	assert.Len(t, try.Bodies, 3)

	_, ok = file.Statements[8].(*AugmentedAssignment)
	assert.True(t, ok)
	_, ok = file.Statements[9].(*Delete)
	assert.True(t, ok)
}

func TestParseFileSyntaxError(t *testing.T) {
	file, diags := ParseFile("bad.py", []byte("x = (\n"))
	require.True(t, diags.HasErrors())
	require.NotNil(t, file)
	require.NotNil(t, diags[0].Subject)
	assert.Equal(t, "bad.py", diags[0].Subject.Filename)
}
