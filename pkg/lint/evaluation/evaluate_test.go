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

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func evaluateString(t *testing.T, scope *Scope, src string) (Value, error) {
	return Evaluate(scope, parseExpr(t, src))
}

func nestedScope() (*Scope, *Object, *Object) {
	inner := NewObject("Inner", map[string]Value{"attr": cty.StringVal("recursive_attribute")})
	outer := NewObject("Outer", map[string]Value{"inner": inner})
	return NewScope(map[string]Value{"outer": outer}), outer, inner
}

func TestEvaluateName(t *testing.T) {
	scope := NewScope(map[string]Value{"x": cty.NumberIntVal(123)})
	v, err := evaluateString(t, scope, "x")
	require.NoError(t, err)
	assertConstant(t, cty.NumberIntVal(123), v)
}

func TestEvaluateConstant(t *testing.T) {
	scope := NewScope(map[string]Value{"x": cty.NumberIntVal(123)})
	v, err := evaluateString(t, scope, "456")
	require.NoError(t, err)
	assertConstant(t, cty.NumberIntVal(456), v)
}

func TestEvaluateAttribute(t *testing.T) {
	obj := NewObject("Obj", map[string]Value{"attr": cty.StringVal("attribute")})
	scope := NewScope(map[string]Value{"name": obj})
	v, err := evaluateString(t, scope, "name.attr")
	require.NoError(t, err)
	assertConstant(t, cty.StringVal("attribute"), v)
}

func TestEvaluateAttributeNotFound(t *testing.T) {
	obj := NewObject("Obj", map[string]Value{"attr": cty.StringVal("attribute")})
	scope := NewScope(map[string]Value{"name": obj})
	_, err := evaluateString(t, scope, "name.missing")
	require.Error(t, err)

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, AttributeNotFound, e.Kind)
	assert.Equal(t, "missing", e.Name)
	assert.Same(t, obj, e.Owner)
	require.NotNil(t, e.Subject)
	assert.Equal(t, 6, e.Subject.Start.Column)
}

func TestEvaluateRecursiveAttributes(t *testing.T) {
	scope, _, _ := nestedScope()
	v, err := evaluateString(t, scope, "outer.inner.attr")
	require.NoError(t, err)
	assertConstant(t, cty.StringVal("recursive_attribute"), v)
}

func TestEvaluateRecursiveAttributeNotFound(t *testing.T) {
	scope, outer, _ := nestedScope()
	_, err := evaluateString(t, scope, "outer.missing.attr")
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, AttributeNotFound, e.Kind)
	assert.Equal(t, "missing", e.Name)
	assert.Same(t, outer, e.Owner)
}

func TestEvaluateRecursiveTopNameNotFound(t *testing.T) {
	obj := NewObject("Obj", map[string]Value{"attr": cty.StringVal("one-two-three")})
	scope := NewScope(map[string]Value{"name": obj})
	_, err := evaluateString(t, scope, "missing.attr")
	require.Error(t, err)
	assert.True(t, IsNameNotFound(err))
	assert.False(t, IsAttributeNotFound(err))

	e, _ := AsError(err)
	require.NotNil(t, e.Subject)
	assert.Equal(t, 1, e.Subject.Start.Column)
}

func TestEvaluateConstantHasNoAttributes(t *testing.T) {
	scope := NewScope(map[string]Value{"x": cty.StringVal("s")})
	_, err := evaluateString(t, scope, "x.upper")
	assert.True(t, IsAttributeNotFound(err))
}

func TestEvaluateUnsupported(t *testing.T) {
	scope, _, _ := nestedScope()
	for _, src := range []string{"outer()", "outer[0]", "[outer]", "a + b", "lambda: outer"} {
		t.Run(src, func(t *testing.T) {
			_, err := evaluateString(t, scope, src)
			assert.True(t, IsUnsupported(err), "%v", err)
		})
	}
}

func TestErrorKindSurvivesWrapping(t *testing.T) {
	_, err := NewScope(nil).Lookup("x")
	wrapped := errors.Wrap(err, "checking module")
	assert.True(t, IsNameNotFound(wrapped))
	assert.Contains(t, wrapped.Error(), "name not found: x")
}

func TestErrorDiagnostic(t *testing.T) {
	scope, _, _ := nestedScope()
	_, err := evaluateString(t, scope, "outer.missing")
	e, ok := AsError(err)
	require.True(t, ok)

	diag := e.Diagnostic()
	assert.Equal(t, "attribute not found", diag.Summary)
	assert.Equal(t, `The value has no attribute "missing".`, diag.Detail)
	assert.Equal(t, e.Subject, diag.Subject)
}
