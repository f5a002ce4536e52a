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
	"testing"

	"github.com/pulumi/protolint/pkg/lint/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestExpressionRoundTrip(t *testing.T) {
	cases := []string{
		"outer.inner.attr",
		`{"a": Person}["a"]`,
		"[Person][0]",
		"(a,)",
		`module_pb2.Person(name="x", id=1)`,
		"t.ToJsonString()",
		"x[-1]",
		`{b"k": 1.0}[b"k"]`,
		"x[2.5]",
		"a + b",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			x, diags := syntax.ParseExpression(src)
			require.False(t, diags.HasErrors(), "%v", diags)
			if src == "a + b" {
				assert.Equal(t, "<binary_operator>", Expression(x))
				return
			}
			assert.Equal(t, src, Expression(x))
		})
	}
}

func TestConstant(t *testing.T) {
	assert.Equal(t, "None", Constant(cty.NullVal(cty.DynamicPseudoType)))
	assert.Equal(t, "True", Constant(cty.True))
	assert.Equal(t, "456", Constant(cty.NumberIntVal(456)))
	assert.Equal(t, "1.5", Constant(cty.NumberFloatVal(1.5)))
	assert.Equal(t, `"blue"`, Constant(cty.StringVal("blue")))
}

func TestIndented(t *testing.T) {
	f := NewFormatter(newPythonGenerator())
	f.Indented(func() {
		assert.Equal(t, "    ", f.Indent)
		f.Indented(func() { assert.Equal(t, "        ", f.Indent) })
	})
	assert.Equal(t, "", f.Indent)
}
