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
	"github.com/pulumi/protolint/pkg/lint/descriptor"
	"github.com/pulumi/protolint/pkg/lint/evaluation"
	"github.com/pulumi/protolint/pkg/lint/syntax"
	"github.com/pulumi/protolint/pkg/util/contract"
)

// typeOf computes the analysis-time value of an expression, reporting any illegal uses along the way. Literal
// structure is resolved first, then live attribute chains are evaluated; shapes the engine does not handle are
// evaluated structurally. Anything that cannot be determined is evaluation.Unknown.
func (c *checker) typeOf(x syntax.Expression) evaluation.Value {
	v, err := evaluation.Resolve(c.scope, x)
	if evaluation.IsUnresolvable(err) {
		v, err = evaluation.Evaluate(c.scope, x)
	}

	switch {
	case err == nil:
		c.visitUnselected(x)
		return v
	case evaluation.IsUnsupported(err) || evaluation.IsUnresolvable(err):
		return c.evaluateStructure(x)
	default:
		c.report(err)
		return evaluation.Unknown
	}
}

// visitUnselected checks the parts of a resolved literal subscript that Resolve did not need to look at.
func (c *checker) visitUnselected(x syntax.Expression) {
	if s, ok := x.(*syntax.Subscript); ok {
		for _, child := range syntax.Children(s) {
			c.typeOf(child)
		}
	}
}

// visitExcept checks every part of x except skip.
func (c *checker) visitExcept(x, skip syntax.Expression) {
	for _, child := range syntax.Children(x) {
		switch {
		case child == skip:
		case contains(child, skip):
			c.visitExcept(child, skip)
		default:
			c.typeOf(child)
		}
	}
}

func contains(x, target syntax.Expression) bool {
	if x == target {
		return true
	}
	for _, child := range syntax.Children(x) {
		if contains(child, target) {
			return true
		}
	}
	return false
}

func (c *checker) evaluateStructure(x syntax.Expression) evaluation.Value {
	switch x := x.(type) {
	case *syntax.Attribute:
		owner := c.typeOf(x.Object)
		v, err := evaluation.GetAttr(owner, x)
		if err != nil {
			c.report(err)
			return evaluation.Unknown
		}
		return v
	case *syntax.Call:
		return c.call(x)
	case *syntax.Subscript:
		// A literal display indexed by a constant still selects its element when the element is not itself
		// resolvable, e.g. `[Person()][0]`.
		if element, err := evaluation.SelectElement(x); err == nil {
			c.visitExcept(x, element)
			return c.typeOf(element)
		}

		container := c.typeOf(x.Object)
		c.typeOf(x.Key)
		switch container := container.(type) {
		case *descriptor.Repeated:
			return container.Elem()
		case *descriptor.Map:
			return container.Elem()
		}
		return evaluation.Unknown
	default:
		for _, child := range syntax.Children(x) {
			c.typeOf(child)
		}
		return evaluation.Unknown
	}
}

// call evaluates a call. Message classes are checked as constructors and produce fresh instances; bound methods
// produce their known results.
func (c *checker) call(x *syntax.Call) evaluation.Value {
	function := c.typeOf(x.Function)

	args := make([]evaluation.Value, len(x.Args))
	for i, arg := range x.Args {
		args[i] = c.typeOf(arg)
	}
	keywords := make([]evaluation.Value, len(x.Keywords))
	for i, kw := range x.Keywords {
		keywords[i] = c.typeOf(kw.Value)
	}
	for _, splat := range x.Splats {
		c.typeOf(splat)
	}

	switch function := function.(type) {
	case *descriptor.Class:
		return c.construct(function, x, keywords)
	case *descriptor.Method:
		return function.Call()
	default:
		return evaluation.Unknown
	}
}

func (c *checker) construct(class *descriptor.Class, x *syntax.Call, keywords []evaluation.Value) evaluation.Value {
	msg := class.Message
	if len(x.Args) != 0 {
		rng := x.Args[0].Range()
		c.errorf(PositionalArguments, &rng,
			"No positional arguments are allowed in message constructors and will raise TypeError; %q takes keyword "+
				"arguments only.", msg.FullName)
	}

	instance := class.New()
	for i, kw := range x.Keywords {
		field, ok := msg.Field(kw.Name)
		if !ok {
			rng := kw.NameRange
			c.errorf(UnexpectedKeyword, &rng, "Unexpected keyword argument %q in constructor of %q.%s",
				kw.Name, msg.FullName, didYouMean(kw.Name, fieldNames(msg)))
			continue
		}
		// Composite fields are initialized by copy in constructors, so only scalars are remembered.
		if !field.IsRepeated() && !field.Kind.IsComposite() {
			err := instance.SetAttr(kw.Name, keywords[i])
			contract.Assertf(err == nil, "setting scalar field %v: %v", kw.Name, err)
		}
	}
	return instance
}

func fieldNames(msg *descriptor.Message) []string {
	names := make([]string, len(msg.Fields))
	for i, f := range msg.Fields {
		names[i] = f.Name
	}
	return names
}
