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

// Package syntax converts Python source into the immutable expression and statement trees that protolint analyzes.
// Parsing is done by tree-sitter; the concrete tree is released before ParseFile returns.
package syntax

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	"github.com/zclconf/go-cty/cty"
)

type parser struct {
	filename    string
	source      []byte
	diagnostics hcl.Diagnostics
}

func newTreeSitterParser() (*sitter.Parser, error) {
	p := sitter.NewParser()
	if err := p.SetLanguage(sitter.NewLanguage(python.Language())); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// ParseFile parses the given Python source. Syntax errors are reported as diagnostics; the statements that could be
// recovered are returned regardless.
func ParseFile(filename string, source []byte) (*File, hcl.Diagnostics) {
	tsParser, err := newTreeSitterParser()
	if err != nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "cannot initialize the Python parser",
			Detail:   err.Error(),
		}}
	}
	defer tsParser.Close()

	tree := tsParser.Parse(source, nil)
	if tree == nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "cannot parse file",
			Detail:   fmt.Sprintf("tree-sitter returned no tree for %s", filename),
		}}
	}
	defer tree.Close()

	p := &parser{filename: filename, source: source}
	root := tree.RootNode()
	if root.HasError() {
		p.diagnostics = append(p.diagnostics, p.syntaxError(root))
	}

	return &File{
		Name:       filename,
		Bytes:      source,
		Statements: p.statements(root),
	}, p.diagnostics
}

// ParseExpression parses a single Python expression.
func ParseExpression(source string) (Expression, hcl.Diagnostics) {
	file, diagnostics := ParseFile("<expression>", []byte(source))
	if diagnostics.HasErrors() {
		return nil, diagnostics
	}
	if len(file.Statements) == 1 {
		if stmt, ok := file.Statements[0].(*ExpressionStatement); ok {
			return stmt.Expr, diagnostics
		}
	}
	return nil, append(diagnostics, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "expected a single expression",
		Detail:   source,
	})
}

// ParseAssignment parses a single Python assignment statement.
func ParseAssignment(source string) (*Assignment, hcl.Diagnostics) {
	file, diagnostics := ParseFile("<assignment>", []byte(source))
	if diagnostics.HasErrors() {
		return nil, diagnostics
	}
	if len(file.Statements) == 1 {
		if stmt, ok := file.Statements[0].(*Assignment); ok {
			return stmt, diagnostics
		}
	}
	return nil, append(diagnostics, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "expected a single assignment",
		Detail:   source,
	})
}

func (p *parser) text(node *sitter.Node) string {
	return string(p.source[node.StartByte():node.EndByte()])
}

func (p *parser) rangeOf(node *sitter.Node) hcl.Range {
	start, end := node.StartPosition(), node.EndPosition()
	return hcl.Range{
		Filename: p.filename,
		Start:    hcl.Pos{Line: int(start.Row) + 1, Column: int(start.Column) + 1, Byte: int(node.StartByte())},
		End:      hcl.Pos{Line: int(end.Row) + 1, Column: int(end.Column) + 1, Byte: int(node.EndByte())},
	}
}

func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

func (p *parser) syntaxError(root *sitter.Node) *hcl.Diagnostic {
	bad := findFirst(root, func(n *sitter.Node) bool { return n.IsError() || n.IsMissing() })
	if bad == nil {
		bad = root
	}
	rng := p.rangeOf(bad)
	summary := "invalid syntax"
	if bad.IsMissing() {
		summary = fmt.Sprintf("invalid syntax: missing %s", bad.Kind())
	}
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Subject:  &rng,
	}
}

func findFirst(root *sitter.Node, pred func(n *sitter.Node) bool) *sitter.Node {
	if root == nil {
		return nil
	}
	if pred(root) {
		return root
	}
	for i := uint(0); i < root.ChildCount(); i++ {
		if found := findFirst(root.Child(i), pred); found != nil {
			return found
		}
	}
	return nil
}

// Statements

func (p *parser) statements(block *sitter.Node) []Statement {
	var stmts []Statement
	for _, child := range namedChildren(block) {
		if stmt := p.statement(child); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *parser) statement(node *sitter.Node) Statement {
	switch node.Kind() {
	case "expression_statement":
		return p.expressionStatement(node)
	case "import_statement":
		return &Import{Names: p.importNames(node, nil), SrcRange: p.rangeOf(node)}
	case "import_from_statement":
		return p.importFromStatement(node)
	case "function_definition":
		return p.functionDefinition(node, nil)
	case "class_definition":
		return p.classDefinition(node, nil)
	case "decorated_definition":
		return p.decoratedDefinition(node)
	case "if_statement":
		return p.ifStatement(node)
	case "for_statement":
		return p.forStatement(node)
	case "while_statement":
		return p.whileStatement(node)
	case "with_statement":
		return p.withStatement(node)
	case "try_statement":
		return p.tryStatement(node)
	case "return_statement":
		var value Expression
		if children := namedChildren(node); len(children) > 0 {
			value = p.expr(children[0])
		}
		return &Return{Value: value, SrcRange: p.rangeOf(node)}
	case "delete_statement":
		var targets []Expression
		for _, child := range namedChildren(node) {
			if child.Kind() == "expression_list" {
				for _, target := range namedChildren(child) {
					targets = append(targets, p.expr(target))
				}
			} else {
				targets = append(targets, p.expr(child))
			}
		}
		return &Delete{Targets: targets, SrcRange: p.rangeOf(node)}
	default:
		return &Pass{Kind: node.Kind(), SrcRange: p.rangeOf(node)}
	}
}

func (p *parser) expressionStatement(node *sitter.Node) Statement {
	children := namedChildren(node)
	if len(children) == 1 {
		switch child := children[0]; child.Kind() {
		case "assignment":
			return p.assignment(child)
		case "augmented_assignment":
			return &AugmentedAssignment{
				Target:   p.expr(child.ChildByFieldName("left")),
				Operator: p.text(child.ChildByFieldName("operator")),
				Value:    p.expr(child.ChildByFieldName("right")),
				SrcRange: p.rangeOf(child),
			}
		default:
			return &ExpressionStatement{Expr: p.expr(child), SrcRange: p.rangeOf(node)}
		}
	}
	return &ExpressionStatement{
		Expr:     p.sequence(node, TupleDisplay, children),
		SrcRange: p.rangeOf(node),
	}
}

func (p *parser) assignment(node *sitter.Node) Statement {
	stmt := &Assignment{SrcRange: p.rangeOf(node)}
	for {
		stmt.Targets = append(stmt.Targets, p.expr(node.ChildByFieldName("left")))

		right := node.ChildByFieldName("right")
		switch {
		case right == nil:
			// An annotation without a value binds nothing.
			return &Pass{Kind: "annotation", SrcRange: stmt.SrcRange}
		case right.Kind() == "assignment":
			node = right
		default:
			stmt.Value = p.expr(right)
			return stmt
		}
	}
}

func (p *parser) importNames(node, skip *sitter.Node) []ImportName {
	var names []ImportName
	for _, child := range namedChildren(node) {
		if sameNode(child, skip) {
			continue
		}
		switch child.Kind() {
		case "dotted_name":
			names = append(names, ImportName{Path: p.text(child), SrcRange: p.rangeOf(child)})
		case "aliased_import":
			names = append(names, ImportName{
				Path:     p.text(child.ChildByFieldName("name")),
				Alias:    p.text(child.ChildByFieldName("alias")),
				SrcRange: p.rangeOf(child),
			})
		}
	}
	return names
}

func (p *parser) importFromStatement(node *sitter.Node) Statement {
	module := node.ChildByFieldName("module_name")
	stmt := &ImportFrom{SrcRange: p.rangeOf(node)}
	if module != nil {
		stmt.Module = p.text(module)
	}
	stmt.Names = p.importNames(node, module)
	for _, child := range namedChildren(node) {
		if child.Kind() == "wildcard_import" {
			stmt.Wildcard = true
		}
	}
	return stmt
}

func (p *parser) parameters(node *sitter.Node) []Parameter {
	var params []Parameter
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "identifier":
			params = append(params, Parameter{Name: p.text(child)})
		case "default_parameter", "typed_default_parameter":
			params = append(params, Parameter{
				Name:    p.text(child.ChildByFieldName("name")),
				Default: p.expr(child.ChildByFieldName("value")),
			})
		case "typed_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			if name := p.parameterName(child); name != "" {
				params = append(params, Parameter{Name: name})
			}
		}
	}
	return params
}

func (p *parser) parameterName(node *sitter.Node) string {
	if node.Kind() == "identifier" {
		return p.text(node)
	}
	for _, child := range namedChildren(node) {
		if name := p.parameterName(child); name != "" {
			return name
		}
	}
	return ""
}

func (p *parser) functionDefinition(node *sitter.Node, decorators []Expression) Statement {
	return &FunctionDef{
		Name:       p.text(node.ChildByFieldName("name")),
		Parameters: p.parameters(node.ChildByFieldName("parameters")),
		Decorators: decorators,
		Body:       p.statements(node.ChildByFieldName("body")),
		SrcRange:   p.rangeOf(node),
	}
}

func (p *parser) classDefinition(node *sitter.Node, decorators []Expression) Statement {
	var bases []Expression
	if superclasses := node.ChildByFieldName("superclasses"); superclasses != nil {
		for _, child := range namedChildren(superclasses) {
			bases = append(bases, p.expr(child))
		}
	}
	return &ClassDef{
		Name:       p.text(node.ChildByFieldName("name")),
		Bases:      bases,
		Decorators: decorators,
		Body:       p.statements(node.ChildByFieldName("body")),
		SrcRange:   p.rangeOf(node),
	}
}

func (p *parser) decoratedDefinition(node *sitter.Node) Statement {
	var decorators []Expression
	for _, child := range namedChildren(node) {
		if child.Kind() == "decorator" {
			if inner := namedChildren(child); len(inner) > 0 {
				decorators = append(decorators, p.expr(inner[0]))
			}
		}
	}

	definition := node.ChildByFieldName("definition")
	switch {
	case definition == nil:
		return &Pass{Kind: node.Kind(), SrcRange: p.rangeOf(node)}
	case definition.Kind() == "class_definition":
		return p.classDefinition(definition, decorators)
	default:
		return p.functionDefinition(definition, decorators)
	}
}

func (p *parser) ifStatement(node *sitter.Node) Statement {
	stmt := &Compound{Kind: "if", SrcRange: p.rangeOf(node)}
	stmt.Headers = append(stmt.Headers, p.expr(node.ChildByFieldName("condition")))
	stmt.Bodies = append(stmt.Bodies, p.statements(node.ChildByFieldName("consequence")))
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "elif_clause":
			stmt.Headers = append(stmt.Headers, p.expr(child.ChildByFieldName("condition")))
			stmt.Bodies = append(stmt.Bodies, p.statements(child.ChildByFieldName("consequence")))
		case "else_clause":
			stmt.Bodies = append(stmt.Bodies, p.statements(child.ChildByFieldName("body")))
		}
	}
	return stmt
}

func (p *parser) elseBody(stmt *Compound, node *sitter.Node) {
	if alternative := node.ChildByFieldName("alternative"); alternative != nil {
		stmt.Bodies = append(stmt.Bodies, p.statements(alternative.ChildByFieldName("body")))
	}
}

func (p *parser) forStatement(node *sitter.Node) Statement {
	iterable := p.expr(node.ChildByFieldName("right"))
	stmt := &Compound{
		Kind:     "for",
		Headers:  []Expression{iterable},
		Iterable: iterable,
		Targets:  []Expression{p.expr(node.ChildByFieldName("left"))},
		Bodies:   [][]Statement{p.statements(node.ChildByFieldName("body"))},
		SrcRange: p.rangeOf(node),
	}
	p.elseBody(stmt, node)
	return stmt
}

func (p *parser) whileStatement(node *sitter.Node) Statement {
	stmt := &Compound{
		Kind:     "while",
		Headers:  []Expression{p.expr(node.ChildByFieldName("condition"))},
		Bodies:   [][]Statement{p.statements(node.ChildByFieldName("body"))},
		SrcRange: p.rangeOf(node),
	}
	p.elseBody(stmt, node)
	return stmt
}

// asPattern splits `value as target` into its two halves.
func (p *parser) asPattern(node *sitter.Node) (Expression, Expression) {
	children := namedChildren(node)
	if len(children) == 0 {
		return p.other(node), nil
	}
	value := p.expr(children[0])

	alias := node.ChildByFieldName("alias")
	if alias == nil {
		if len(children) < 2 {
			return value, nil
		}
		alias = children[len(children)-1]
	}
	if inner := namedChildren(alias); len(inner) == 1 && alias.Kind() == "as_pattern_target" {
		return value, p.expr(inner[0])
	}
	if alias.Kind() == "as_pattern_target" {
		return value, &Name{Identifier: p.text(alias), SrcRange: p.rangeOf(alias)}
	}
	return value, p.expr(alias)
}

func (p *parser) withStatement(node *sitter.Node) Statement {
	stmt := &Compound{Kind: "with", SrcRange: p.rangeOf(node)}
	for _, child := range namedChildren(node) {
		if child.Kind() != "with_clause" {
			continue
		}
		for _, item := range namedChildren(child) {
			value := item.ChildByFieldName("value")
			if value == nil {
				continue
			}
			if value.Kind() == "as_pattern" {
				header, target := p.asPattern(value)
				stmt.Headers = append(stmt.Headers, header)
				if target != nil {
					stmt.Targets = append(stmt.Targets, target)
				}
			} else {
				stmt.Headers = append(stmt.Headers, p.expr(value))
			}
		}
	}
	stmt.Bodies = append(stmt.Bodies, p.statements(node.ChildByFieldName("body")))
	return stmt
}

func (p *parser) tryStatement(node *sitter.Node) Statement {
	stmt := &Compound{Kind: "try", SrcRange: p.rangeOf(node)}
	stmt.Bodies = append(stmt.Bodies, p.statements(node.ChildByFieldName("body")))
	for _, clause := range namedChildren(node) {
		switch clause.Kind() {
		case "except_clause", "except_group_clause":
			alias := clause.ChildByFieldName("alias")
			for _, child := range namedChildren(clause) {
				switch {
				case sameNode(child, alias):
					stmt.Targets = append(stmt.Targets, p.expr(child))
				case child.Kind() == "block":
					stmt.Bodies = append(stmt.Bodies, p.statements(child))
				case child.Kind() == "as_pattern":
					header, target := p.asPattern(child)
					stmt.Headers = append(stmt.Headers, header)
					if target != nil {
						stmt.Targets = append(stmt.Targets, target)
					}
				default:
					stmt.Headers = append(stmt.Headers, p.expr(child))
				}
			}
		case "else_clause", "finally_clause":
			if body := clause.ChildByFieldName("body"); body != nil {
				stmt.Bodies = append(stmt.Bodies, p.statements(body))
				continue
			}
			for _, child := range namedChildren(clause) {
				if child.Kind() == "block" {
					stmt.Bodies = append(stmt.Bodies, p.statements(child))
				}
			}
		}
	}
	return stmt
}

// Expressions

func (p *parser) expr(node *sitter.Node) Expression {
	if node == nil {
		return nil
	}

	switch node.Kind() {
	case "identifier":
		return &Name{Identifier: p.text(node), SrcRange: p.rangeOf(node)}
	case "integer", "float", "string", "true", "false", "none", "concatenated_string":
		if c, ok := p.constant(node); ok {
			c.SrcRange = p.rangeOf(node)
			return c
		}
		return p.other(node)
	case "unary_operator":
		if c, ok := p.signedNumber(node); ok {
			c.SrcRange = p.rangeOf(node)
			return c
		}
		return p.other(node)
	case "attribute":
		name := node.ChildByFieldName("attribute")
		return &Attribute{
			Object:    p.expr(node.ChildByFieldName("object")),
			Name:      p.text(name),
			NameRange: p.rangeOf(name),
			SrcRange:  p.rangeOf(node),
		}
	case "subscript":
		return p.subscript(node)
	case "parenthesized_expression":
		if children := namedChildren(node); len(children) == 1 {
			return p.expr(children[0])
		}
		return p.other(node)
	case "list", "list_pattern":
		return p.sequence(node, ListDisplay, namedChildren(node))
	case "tuple", "tuple_pattern", "expression_list", "pattern_list":
		return p.sequence(node, TupleDisplay, namedChildren(node))
	case "dictionary":
		return p.dict(node)
	case "call":
		return p.call(node)
	case "lambda":
		return &Other{Kind: node.Kind(), SrcRange: p.rangeOf(node)}
	case "list_comprehension", "set_comprehension", "dictionary_comprehension", "generator_expression":
		return p.comprehension(node)
	default:
		return p.other(node)
	}
}

func (p *parser) other(node *sitter.Node) Expression {
	var children []Expression
	for _, child := range namedChildren(node) {
		if x := p.expr(child); x != nil {
			children = append(children, x)
		}
	}
	return &Other{Kind: node.Kind(), Children: children, SrcRange: p.rangeOf(node)}
}

// comprehension keeps only the iterables of the comprehension's for clauses: the element expressions refer to loop
// variables that are not visible in the enclosing scope.
func (p *parser) comprehension(node *sitter.Node) Expression {
	var children []Expression
	for _, child := range namedChildren(node) {
		if child.Kind() == "for_in_clause" {
			if right := child.ChildByFieldName("right"); right != nil {
				children = append(children, p.expr(right))
			}
		}
	}
	return &Other{Kind: node.Kind(), Children: children, SrcRange: p.rangeOf(node)}
}

func (p *parser) subscript(node *sitter.Node) Expression {
	value := node.ChildByFieldName("value")
	var keys []*sitter.Node
	for _, child := range namedChildren(node) {
		if !sameNode(child, value) {
			keys = append(keys, child)
		}
	}

	var key Expression
	switch {
	case len(keys) == 1 && keys[0].Kind() != "slice":
		key = p.expr(keys[0])
	case len(keys) == 1:
		key = p.other(keys[0])
	default:
		rng := p.rangeOf(node)
		var children []Expression
		for _, k := range keys {
			children = append(children, p.expr(k))
		}
		key = &Other{Kind: "subscript_tuple", Children: children, SrcRange: rng}
	}

	return &Subscript{
		Object:   p.expr(value),
		Key:      key,
		SrcRange: p.rangeOf(node),
	}
}

func (p *parser) sequence(node *sitter.Node, kind SequenceKind, elements []*sitter.Node) Expression {
	x := &Sequence{Kind: kind, SrcRange: p.rangeOf(node)}
	for _, element := range elements {
		switch element.Kind() {
		case "list_splat", "list_splat_pattern":
			if inner := namedChildren(element); len(inner) > 0 {
				x.Splats = append(x.Splats, p.expr(inner[0]))
			}
		default:
			x.Elements = append(x.Elements, p.expr(element))
		}
	}
	return x
}

func (p *parser) dict(node *sitter.Node) Expression {
	x := &Dict{SrcRange: p.rangeOf(node)}
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "pair":
			x.Items = append(x.Items, DictItem{
				Key:   p.expr(child.ChildByFieldName("key")),
				Value: p.expr(child.ChildByFieldName("value")),
			})
		case "dictionary_splat":
			if inner := namedChildren(child); len(inner) > 0 {
				x.Splats = append(x.Splats, p.expr(inner[0]))
			}
		}
	}
	return x
}

func (p *parser) call(node *sitter.Node) Expression {
	x := &Call{
		Function: p.expr(node.ChildByFieldName("function")),
		SrcRange: p.rangeOf(node),
	}

	arguments := node.ChildByFieldName("arguments")
	if arguments == nil {
		return x
	}
	if arguments.Kind() == "generator_expression" {
		x.Args = append(x.Args, p.comprehension(arguments))
		return x
	}

	for _, arg := range namedChildren(arguments) {
		switch arg.Kind() {
		case "keyword_argument":
			name := arg.ChildByFieldName("name")
			x.Keywords = append(x.Keywords, Keyword{
				Name:      p.text(name),
				NameRange: p.rangeOf(name),
				Value:     p.expr(arg.ChildByFieldName("value")),
			})
		case "list_splat", "dictionary_splat":
			if inner := namedChildren(arg); len(inner) > 0 {
				x.Splats = append(x.Splats, p.expr(inner[0]))
			}
		default:
			x.Args = append(x.Args, p.expr(arg))
		}
	}
	return x
}

func (p *parser) constant(node *sitter.Node) (*Constant, bool) {
	switch node.Kind() {
	case "true":
		return &Constant{Value: cty.True, Kind: BoolLiteral}, true
	case "false":
		return &Constant{Value: cty.False, Kind: BoolLiteral}, true
	case "none":
		return &Constant{Value: cty.NullVal(cty.DynamicPseudoType), Kind: NoneLiteral}, true
	case "integer":
		v, ok := parseInteger(p.text(node))
		return &Constant{Value: v, Kind: IntLiteral}, ok
	case "float":
		v, ok := parseFloat(p.text(node))
		return &Constant{Value: v, Kind: FloatLiteral}, ok
	case "string":
		return parseString(p.text(node))
	case "concatenated_string":
		var kind LiteralKind
		var result strings.Builder
		for i, part := range namedChildren(node) {
			c, ok := p.constant(part)
			if !ok || (c.Kind != StrLiteral && c.Kind != BytesLiteral) || (i > 0 && c.Kind != kind) {
				return nil, false
			}
			kind = c.Kind
			result.WriteString(c.Text)
		}
		return stringConstant(kind, result.String()), true
	default:
		return nil, false
	}
}

// signedNumber folds `-1` and `+1.5` into constants so that negative indices are literal keys.
func (p *parser) signedNumber(node *sitter.Node) (*Constant, bool) {
	operand := node.ChildByFieldName("argument")
	operator := node.ChildByFieldName("operator")
	if operand == nil || operator == nil {
		return nil, false
	}
	if kind := operand.Kind(); kind != "integer" && kind != "float" {
		return nil, false
	}
	c, ok := p.constant(operand)
	if !ok {
		return nil, false
	}
	switch p.text(operator) {
	case "-":
		c.Value = c.Value.Negate()
		return c, true
	case "+":
		return c, true
	default:
		return nil, false
	}
}
