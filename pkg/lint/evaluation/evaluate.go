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
)

// Evaluate returns the value that node denotes in scope, dereferencing attribute chains against live values. An
// unbound leading name fails with NameNotFound; the first missing link of an attribute chain fails with
// AttributeNotFound. Shapes other than names, constants, and attribute accesses fail with Unsupported.
func Evaluate(scope *Scope, node syntax.Expression) (Value, error) {
	switch node := node.(type) {
	case *syntax.Name:
		v, err := scope.Lookup(node.Identifier)
		if err != nil {
			return nil, withSubject(err, node.SrcRange)
		}
		return v, nil
	case *syntax.Constant:
		return node.Value, nil
	case *syntax.Attribute:
		owner, err := Evaluate(scope, node.Object)
		if err != nil {
			return nil, err
		}
		return GetAttr(owner, node)
	default:
		return nil, unsupported(node)
	}
}

// GetAttr performs a single attribute step of an attribute chain.
func GetAttr(owner Value, node *syntax.Attribute) (Value, error) {
	if a, ok := owner.(Attributable); ok {
		if v, ok := a.GetAttr(node.Name); ok {
			return v, nil
		}
	}
	rng := node.NameRange
	return nil, &Error{Kind: AttributeNotFound, Name: node.Name, Owner: owner, Subject: &rng}
}

func unsupported(node syntax.Expression) error {
	if node == nil {
		return newError(Unsupported, "<nil>", nil)
	}
	rng := node.Range()
	return newError(Unsupported, nodeKind(node), &rng)
}
