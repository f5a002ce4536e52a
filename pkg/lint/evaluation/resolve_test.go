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

package evaluation

import (
	"testing"

	"github.com/pulumi/protolint/pkg/lint/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func parseExpr(t *testing.T, src string) syntax.Expression {
	x, diags := syntax.ParseExpression(src)
	require.False(t, diags.HasErrors(), "%v", diags)
	return x
}

func assertConstant(t *testing.T, expected cty.Value, actual Value) {
	v, ok := actual.(cty.Value)
	require.True(t, ok, "expected a constant, got %T", actual)
	assert.True(t, expected.RawEquals(v), "expected %#v, got %#v", expected, v)
}

func personScope() (*Scope, *Object) {
	person := NewObject("Person", nil)
	return NewScope(map[string]Value{"Person": person}), person
}

func TestResolveName(t *testing.T) {
	scope, person := personScope()
	v, err := Resolve(scope, parseExpr(t, "Person"))
	require.NoError(t, err)
	assert.Same(t, person, v)
}

func TestResolveConstantSlice(t *testing.T) {
	scope, person := personScope()
	v, err := Resolve(scope, parseExpr(t, "[Person][0]"))
	require.NoError(t, err)
	assert.Same(t, person, v)

	v, err = Resolve(scope, parseExpr(t, "(1, Person)[-1]"))
	require.NoError(t, err)
	assert.Same(t, person, v)
}

func TestResolveConstantDict(t *testing.T) {
	scope, person := personScope()
	v, err := Resolve(scope, parseExpr(t, `{"a": Person}["a"]`))
	require.NoError(t, err)
	assert.Same(t, person, v)
}

func TestResolveNestedDict(t *testing.T) {
	scope, person := personScope()
	v, err := Resolve(scope, parseExpr(t, `{
    "outer": {
        "inner": Person
    }
}["outer"]["inner"]`))
	require.NoError(t, err)
	assert.Same(t, person, v)
}

func TestResolveDuplicateKeyLastWins(t *testing.T) {
	scope := NewScope(nil)
	v, err := Resolve(scope, parseExpr(t, `{"a": 1, "a": 2}["a"]`))
	require.NoError(t, err)
	assertConstant(t, cty.NumberIntVal(2), v)
}

func TestResolveKeyEquality(t *testing.T) {
	scope, person := personScope()
	cases := []string{
		"{1: Person}[True]",
		"{True: Person}[1]",
		"{0: Person}[False]",
		"{1.0: Person}[1]",
		"{2: Person}[2.0]",
		"{None: Person}[None]",
		`{b"a": Person}[b"a"]`,
		`{"\u00e9": Person}["\xe9"]`,
		"[1, Person][True]",
		"[Person, 1][False]",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			v, err := Resolve(scope, parseExpr(t, src))
			require.NoError(t, err)
			assert.Same(t, person, v)
		})
	}
}

func TestResolveEqualKeysCollapse(t *testing.T) {
	// 1 and True are the same key, so the later entry wins.
	v, err := Resolve(NewScope(nil), parseExpr(t, "{1: 1, True: 2}[1]"))
	require.NoError(t, err)
	assertConstant(t, cty.NumberIntVal(2), v)
}

func TestResolveConstant(t *testing.T) {
	v, err := Resolve(NewScope(nil), parseExpr(t, "456"))
	require.NoError(t, err)
	assertConstant(t, cty.NumberIntVal(456), v)
}

func TestResolveFailures(t *testing.T) {
	scope, _ := personScope()
	cases := []struct {
		src  string
		kind ErrorKind
	}{
		{"Missing", NameNotFound},
		{`{"a": Person}["b"]`, KeyNotFound},
		{"[Person][1]", IndexOutOfRange},
		{"[Person][-2]", IndexOutOfRange},
		{"[Person][k]", Unresolvable},
		{`[Person]["a"]`, Unresolvable},
		{"[Person][0.5]", Unresolvable},
		{"[Person][0.0]", Unresolvable},
		{"[Person][None]", Unresolvable},
		{`{"a": Person}[b"a"]`, KeyNotFound},
		{`{b"a": Person}["a"]`, KeyNotFound},
		{`{"e\u0301": Person}["\u00e9"]`, KeyNotFound},
		{`{0.5: Person}[0]`, KeyNotFound},
		{"[*xs, Person][0]", Unresolvable},
		{`{**d, "a": Person}["a"]`, Unresolvable},
		{`{k: Person}["a"]`, Unresolvable},
		{"Person.attr", Unresolvable},
		{"Person()", Unresolvable},
		{"Person[0]", Unresolvable},
		{"[Person]", Unresolvable},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, err := Resolve(scope, parseExpr(t, c.src))
			require.Error(t, err)
			assert.Equal(t, c.kind, KindOf(err), "%v", err)
		})
	}
}

func TestResolveDoesNotEvaluateElements(t *testing.T) {
	scope, person := personScope()
	v, err := Resolve(scope, parseExpr(t, "[Missing, Person][1]"))
	require.NoError(t, err)
	assert.Same(t, person, v)
}

// Whenever Resolve succeeds on a name or constant, Evaluate yields the same value.
func TestResolveAgreesWithEvaluate(t *testing.T) {
	scope, _ := personScope()
	scope.Assign("x", cty.StringVal("x"))
	for _, src := range []string{"Person", "x", "456", `"s"`, "None"} {
		t.Run(src, func(t *testing.T) {
			x := parseExpr(t, src)
			r, err := Resolve(scope, x)
			require.NoError(t, err)
			e, err := Evaluate(scope, x)
			require.NoError(t, err)
			if rv, ok := r.(cty.Value); ok {
				assertConstant(t, rv, e)
			} else {
				assert.Same(t, r, e)
			}
		})
	}
}
