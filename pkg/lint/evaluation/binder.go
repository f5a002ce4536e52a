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
	"github.com/pulumi/protolint/pkg/lint/syntax"
	"github.com/pulumi/protolint/pkg/util/logging"
)

// rightHandSide computes the value of an assignment's right-hand side: literal structure first, live state for
// everything Resolve cannot decide.
func rightHandSide(scope *Scope, node syntax.Expression) (Value, error) {
	v, err := Resolve(scope, node)
	if IsUnresolvable(err) {
		return Evaluate(scope, node)
	}
	return v, err
}

// Assign binds the value of the right-hand side to a name target in scope.
func Assign(scope *Scope, target, value syntax.Expression) error {
	name, ok := target.(*syntax.Name)
	if !ok {
		return unsupported(target)
	}

	v, err := rightHandSide(scope, value)
	if err != nil {
		return err
	}

	logging.V(7).Infof("assign %s = %v", name.Identifier, v)
	scope.Assign(name.Identifier, v)
	return nil
}

// AssignAttr assigns the value of the right-hand side to an attribute target. The target's base is evaluated to find
// the live object that owns the attribute, and that object is mutated; the scope itself is left unchanged.
func AssignAttr(scope *Scope, target, value syntax.Expression) error {
	attr, ok := target.(*syntax.Attribute)
	if !ok {
		return unsupported(target)
	}

	owner, err := Evaluate(scope, attr.Object)
	if err != nil {
		return err
	}
	v, err := rightHandSide(scope, value)
	if err != nil {
		return err
	}

	logging.V(7).Infof("assign attribute %s of %v = %v", attr.Name, owner, v)
	return SetAttr(owner, attr, v)
}

// BindValue binds an already computed value to a name or attribute target.
func BindValue(scope *Scope, target syntax.Expression, value Value) error {
	switch target := target.(type) {
	case *syntax.Name:
		scope.Assign(target.Identifier, value)
		return nil
	case *syntax.Attribute:
		owner, err := Evaluate(scope, target.Object)
		if err != nil {
			return err
		}
		return SetAttr(owner, target, value)
	default:
		return unsupported(target)
	}
}

// SetAttr performs a single attribute assignment on owner.
func SetAttr(owner Value, node *syntax.Attribute, value Value) error {
	rng := node.NameRange

	m, ok := owner.(MutableAttributable)
	if !ok {
		return &Error{Kind: AttributeNotAssignable, Name: node.Name, Owner: owner, Subject: &rng}
	}

	if err := m.SetAttr(node.Name, value); err != nil {
		if e, ok := err.(*Error); ok {
			if e.Owner == nil {
				e.Owner = owner
			}
			return withSubject(e, rng)
		}
		return &Error{Kind: AttributeNotAssignable, Name: node.Name, Owner: owner, Subject: &rng, reason: err}
	}
	return nil
}
