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
	"github.com/pulumi/protolint/pkg/lint/evaluation"
	"github.com/pulumi/protolint/pkg/lint/syntax"
)

func (c *checker) checkAssignment(s *syntax.Assignment) {
	if len(s.Targets) == 1 {
		c.assign(s.Targets[0], s.Value)
		return
	}

	// A chained assignment binds one value to every target.
	v := c.typeOf(s.Value)
	for _, target := range s.Targets {
		c.bindTarget(target, v)
	}
}

// assign performs a single-target assignment through the engine, falling back to structural evaluation of the
// right-hand side for shapes the engine does not handle.
func (c *checker) assign(target, value syntax.Expression) {
	var err error
	switch target.(type) {
	case *syntax.Name:
		err = evaluation.Assign(c.scope, target, value)
	case *syntax.Attribute:
		err = evaluation.AssignAttr(c.scope, target, value)
	default:
		c.bindTarget(target, c.typeOf(value))
		return
	}

	switch {
	case err == nil:
		c.visitUnselected(value)
	case evaluation.IsUnsupported(err) || evaluation.IsUnresolvable(err):
		c.bindTarget(target, c.typeOf(value))
	default:
		c.report(err)
		if name, ok := target.(*syntax.Name); ok {
			c.scope.Assign(name.Identifier, evaluation.Unknown)
		}
	}
}

// bindTarget binds an already computed value to an assignment target.
func (c *checker) bindTarget(target syntax.Expression, v evaluation.Value) {
	switch target := target.(type) {
	case *syntax.Name:
		c.scope.Assign(target.Identifier, v)
	case *syntax.Attribute:
		owner := c.typeOf(target.Object)
		if err := evaluation.SetAttr(owner, target, v); err != nil {
			c.report(err)
		}
	case *syntax.Sequence:
		for _, e := range target.Elements {
			c.bindTarget(e, evaluation.Unknown)
		}
		for _, e := range target.Splats {
			c.bindTarget(e, evaluation.Unknown)
		}
	case *syntax.Subscript:
		c.typeOf(target.Object)
		c.typeOf(target.Key)
	default:
		c.typeOf(target)
	}
}
