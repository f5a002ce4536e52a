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
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Expression is an immutable Python expression node.
type Expression interface {
	Range() hcl.Range

	isExpression()
}

// Name is a reference to an identifier.
type Name struct {
	Identifier string
	SrcRange   hcl.Range
}

func (x *Name) Range() hcl.Range {
	return x.SrcRange
}

func (*Name) isExpression() {}

// LiteralKind is the Python type of a constant.
type LiteralKind int

const (
	NoneLiteral LiteralKind = iota
	BoolLiteral
	IntLiteral
	FloatLiteral
	StrLiteral
	BytesLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case BoolLiteral:
		return "bool"
	case IntLiteral:
		return "int"
	case FloatLiteral:
		return "float"
	case StrLiteral:
		return "str"
	case BytesLiteral:
		return "bytes"
	default:
		return "NoneType"
	}
}

// Constant is a literal number, string, boolean, or None.
type Constant struct {
	Value cty.Value
	// Kind is the literal's Python type. cty does not tell int from float or str from bytes.
	Kind LiteralKind
	// Text holds the exact decoded contents of a str or bytes literal. Value is NFC-normalized and may differ.
	Text     string
	SrcRange hcl.Range
}

func (x *Constant) Range() hcl.Range {
	return x.SrcRange
}

func (*Constant) isExpression() {}

// Attribute is an attribute access of the form `Object.Name`.
type Attribute struct {
	Object    Expression
	Name      string
	NameRange hcl.Range
	SrcRange  hcl.Range
}

func (x *Attribute) Range() hcl.Range {
	return x.SrcRange
}

func (*Attribute) isExpression() {}

// Root returns the innermost non-attribute expression of an attribute chain.
func (x *Attribute) Root() Expression {
	var obj Expression = x
	for {
		attr, ok := obj.(*Attribute)
		if !ok {
			return obj
		}
		obj = attr.Object
	}
}

// Subscript is an index expression of the form `Object[Key]`. Slices and multi-dimensional keys are represented
// as Other keys.
type Subscript struct {
	Object   Expression
	Key      Expression
	SrcRange hcl.Range
}

func (x *Subscript) Range() hcl.Range {
	return x.SrcRange
}

func (*Subscript) isExpression() {}

// SequenceKind distinguishes the displays that produce ordered sequences.
type SequenceKind int

const (
	ListDisplay SequenceKind = iota
	TupleDisplay
)

func (k SequenceKind) String() string {
	if k == TupleDisplay {
		return "tuple"
	}
	return "list"
}

// Sequence is a list or tuple display such as `[a, b]` or `(a, b)`.
type Sequence struct {
	Kind     SequenceKind
	Elements []Expression
	// Splats holds the operands of `*iterable` unpackings. Element positions are unknowable if there are any.
	Splats   []Expression
	SrcRange hcl.Range
}

func (x *Sequence) Range() hcl.Range {
	return x.SrcRange
}

func (*Sequence) isExpression() {}

// DictItem is a single `Key: Value` pair in a dict display.
type DictItem struct {
	Key   Expression
	Value Expression
}

// Dict is a dict display such as `{"a": b}`.
type Dict struct {
	Items []DictItem
	// Splats holds the operands of `**mapping` unpackings.
	Splats   []Expression
	SrcRange hcl.Range
}

func (x *Dict) Range() hcl.Range {
	return x.SrcRange
}

func (*Dict) isExpression() {}

// Keyword is a `name=value` argument to a call.
type Keyword struct {
	Name      string
	NameRange hcl.Range
	Value     Expression
}

// Call is a call expression.
type Call struct {
	Function Expression
	Args     []Expression
	Keywords []Keyword
	// Splats holds the operands of `*args` and `**kwargs` unpackings.
	Splats   []Expression
	SrcRange hcl.Range
}

func (x *Call) Range() hcl.Range {
	return x.SrcRange
}

func (*Call) isExpression() {}

// Other is any expression shape that protolint does not model. Children holds the modeled subexpressions so that
// uses inside operators, comprehensions, lambdas, etc. are still visited.
type Other struct {
	Kind     string
	Children []Expression
	SrcRange hcl.Range
}

func (x *Other) Range() hcl.Range {
	return x.SrcRange
}

func (*Other) isExpression() {}

// Children returns the direct subexpressions of x.
func Children(x Expression) []Expression {
	switch x := x.(type) {
	case *Attribute:
		return []Expression{x.Object}
	case *Subscript:
		return []Expression{x.Object, x.Key}
	case *Sequence:
		return append(append([]Expression(nil), x.Elements...), x.Splats...)
	case *Dict:
		children := make([]Expression, 0, 2*len(x.Items)+len(x.Splats))
		for _, item := range x.Items {
			children = append(children, item.Key, item.Value)
		}
		return append(children, x.Splats...)
	case *Call:
		children := append([]Expression{x.Function}, x.Args...)
		for _, kw := range x.Keywords {
			children = append(children, kw.Value)
		}
		return append(children, x.Splats...)
	case *Other:
		return x.Children
	default:
		return nil
	}
}
