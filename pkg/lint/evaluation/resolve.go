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

// Package evaluation implements the symbolic evaluation engine: a small abstract interpreter that tracks which
// analysis-time values are reachable through which names and attribute paths.
//
// Resolve and Evaluate are deliberately separate. Resolve only descends into syntactically literal structure and
// never touches live object state; Evaluate also dereferences attribute chains against the values bound in a Scope.
// Assign and AssignAttr keep a Scope and the live object graph consistent with observed assignments.
package evaluation

import (
	"math/big"

	"github.com/pulumi/protolint/pkg/lint/format"
	"github.com/pulumi/protolint/pkg/lint/syntax"
)

// Resolve returns the value that node statically denotes. Names are looked up in scope, constants denote
// themselves, and constant-key subscripts of literal list, tuple, and dict displays select the corresponding element
// at any nesting depth. Every other shape fails with Unresolvable.
func Resolve(scope *Scope, node syntax.Expression) (Value, error) {
	switch node := node.(type) {
	case *syntax.Name:
		v, err := scope.Lookup(node.Identifier)
		if err != nil {
			return nil, withSubject(err, node.SrcRange)
		}
		return v, nil
	case *syntax.Constant:
		return node.Value, nil
	case *syntax.Subscript:
		element, err := resolveElement(node)
		if err != nil {
			return nil, err
		}
		return Resolve(scope, element)
	default:
		return nil, unresolvable(node)
	}
}

// SelectElement returns the element expression that a constant-key subscript of a literal display selects, without
// resolving the element itself. It fails the way Resolve does for the subscript's structure.
func SelectElement(node *syntax.Subscript) (syntax.Expression, error) {
	return resolveElement(node)
}

// resolveElement returns the element expression that a subscript of a literal display selects.
func resolveElement(node *syntax.Subscript) (syntax.Expression, error) {
	container := node.Object
	if inner, ok := container.(*syntax.Subscript); ok {
		element, err := resolveElement(inner)
		if err != nil {
			return nil, err
		}
		container = element
	}

	key, ok := node.Key.(*syntax.Constant)
	if !ok {
		return nil, unresolvable(node.Key)
	}

	switch container := container.(type) {
	case *syntax.Sequence:
		return indexSequence(container, key)
	case *syntax.Dict:
		return indexDict(container, key)
	default:
		return nil, unresolvable(container)
	}
}

func indexSequence(seq *syntax.Sequence, key *syntax.Constant) (syntax.Expression, error) {
	if len(seq.Splats) != 0 {
		return nil, unresolvable(seq)
	}

	var index int64
	switch key.Kind {
	case syntax.BoolLiteral:
		if key.Value.True() {
			index = 1
		}
	case syntax.IntLiteral:
		i, acc := key.Value.AsBigFloat().Int64()
		if acc != big.Exact {
			return nil, newError(IndexOutOfRange, format.Literal(key), &key.SrcRange)
		}
		index = i
	default:
		// Only ints and bools index sequences.
		return nil, unresolvable(key)
	}

	if index < 0 {
		index += int64(len(seq.Elements))
	}
	if index < 0 || index >= int64(len(seq.Elements)) {
		return nil, newError(IndexOutOfRange, format.Literal(key), &key.SrcRange)
	}
	return seq.Elements[index], nil
}

func indexDict(dict *syntax.Dict, key *syntax.Constant) (syntax.Expression, error) {
	if len(dict.Splats) != 0 {
		return nil, unresolvable(dict)
	}

	var match syntax.Expression
	dynamicKeys := false
	for _, item := range dict.Items {
		k, ok := item.Key.(*syntax.Constant)
		if !ok {
			dynamicKeys = true
			continue
		}
		// Later duplicates win, as they do at runtime.
		if keysEqual(k, key) {
			match = item.Value
		}
	}

	switch {
	case match != nil:
		return match, nil
	case dynamicKeys:
		return nil, unresolvable(dict)
	default:
		return nil, newError(KeyNotFound, format.Literal(key), &key.SrcRange)
	}
}

// keysEqual compares constant dict keys the way Python does: bools, ints, and floats compare numerically, strs and
// bytes compare by exact contents and never equal each other.
func keysEqual(a, b *syntax.Constant) bool {
	an, aNumeric := numericKey(a)
	bn, bNumeric := numericKey(b)
	switch {
	case aNumeric || bNumeric:
		return aNumeric && bNumeric && an.Cmp(bn) == 0
	case a.Kind != b.Kind:
		return false
	case a.Kind == syntax.NoneLiteral:
		return true
	default:
		return a.Text == b.Text
	}
}

func numericKey(c *syntax.Constant) (*big.Float, bool) {
	switch c.Kind {
	case syntax.BoolLiteral:
		if c.Value.True() {
			return big.NewFloat(1), true
		}
		return big.NewFloat(0), true
	case syntax.IntLiteral:
		return c.Value.AsBigFloat(), true
	case syntax.FloatLiteral:
		// Float literals are doubles at runtime.
		f, _ := c.Value.AsBigFloat().Float64()
		return big.NewFloat(f), true
	default:
		return nil, false
	}
}

func unresolvable(node syntax.Expression) error {
	if node == nil {
		return newError(Unresolvable, "<nil>", nil)
	}
	rng := node.Range()
	return newError(Unresolvable, nodeKind(node), &rng)
}

func nodeKind(node syntax.Expression) string {
	switch node := node.(type) {
	case *syntax.Name:
		return "name"
	case *syntax.Constant:
		return "constant"
	case *syntax.Attribute:
		return "attribute"
	case *syntax.Subscript:
		return "subscript"
	case *syntax.Sequence:
		return node.Kind.String()
	case *syntax.Dict:
		return "dict"
	case *syntax.Call:
		return "call"
	case *syntax.Other:
		return node.Kind
	default:
		return "<nil>"
	}
}
