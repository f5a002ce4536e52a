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

package descriptor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pulumi/protolint/pkg/lint/evaluation"
	"github.com/zclconf/go-cty/cty"
)

// Attributes is implemented by values that can enumerate the attributes they define.
type Attributes interface {
	evaluation.Attributable

	AttributeNames() []string
}

func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

func enumValueConstant(v *EnumValue) cty.Value {
	return cty.NumberIntVal(int64(v.Number))
}

func sortedNames(names []string) []string {
	sort.Strings(names)
	unique := names[:0]
	for _, name := range names {
		if len(unique) == 0 || name != unique[len(unique)-1] {
			unique = append(unique, name)
		}
	}
	return unique
}

// Module is a generated _pb2 module, or a package whose members are generated modules.
type Module struct {
	table *Table
	name  string
	file  *File
}

// Name returns the module's dotted Python name.
func (m *Module) Name() string {
	return m.name
}

// File returns the file that generates the module, or nil for a package.
func (m *Module) File() *File {
	return m.file
}

func (m *Module) GetAttr(name string) (evaluation.Value, bool) {
	if isDunder(name) {
		return evaluation.Unknown, true
	}
	if m.file != nil {
		if name == "DESCRIPTOR" {
			return evaluation.Unknown, true
		}
		for _, msg := range m.file.Messages {
			if msg.Name == name {
				return &Class{table: m.table, Message: msg}, true
			}
		}
		if e, ok := findEnum(m.file.Enums, name); ok {
			return &EnumType{Enum: e}, true
		}
		if v, ok := findEnumValue(m.file.Enums, name); ok {
			return enumValueConstant(v), true
		}
	}
	return m.table.Import(m.name + "." + name)
}

func (m *Module) AttributeNames() []string {
	var names []string
	if m.file != nil {
		names = append(names, "DESCRIPTOR")
		for _, msg := range m.file.Messages {
			names = append(names, msg.Name)
		}
		for _, e := range m.file.Enums {
			names = append(names, e.Name)
			for _, v := range e.Values {
				names = append(names, v.Name)
			}
		}
	}
	prefix := m.name + "."
	for module := range m.table.modules {
		if strings.HasPrefix(module, prefix) {
			names = append(names, strings.SplitN(module[len(prefix):], ".", 2)[0])
		}
	}
	return sortedNames(names)
}

func (m *Module) String() string {
	return fmt.Sprintf("<module %s>", m.name)
}

// Class is a generated message class.
type Class struct {
	table   *Table
	Message *Message
}

// New returns a fresh instance of the class.
func (c *Class) New() *Instance {
	return newInstance(c.table, c.Message)
}

func (c *Class) GetAttr(name string) (evaluation.Value, bool) {
	msg := c.Message
	switch {
	case isDunder(name) || name == "DESCRIPTOR":
		return evaluation.Unknown, true
	case name == "FromString":
		return &Method{Name: name, Receiver: c, result: func() evaluation.Value { return c.New() }}, true
	}
	if n, ok := msg.Message(name); ok {
		return &Class{table: c.table, Message: n}, true
	}
	if e, ok := msg.Enum(name); ok {
		return &EnumType{Enum: e}, true
	}
	if v, ok := findEnumValue(msg.Enums, name); ok {
		return enumValueConstant(v), true
	}
	if _, ok := msg.Field(name); ok {
		// The field's descriptor property.
		return evaluation.Unknown, true
	}
	if strings.HasSuffix(name, "_FIELD_NUMBER") {
		for _, f := range msg.Fields {
			if strings.ToUpper(f.Name)+"_FIELD_NUMBER" == name {
				return cty.NumberIntVal(int64(f.Number)), true
			}
		}
	}
	if hasMethod(msg, name) {
		return &Method{Name: name, Receiver: c}, true
	}
	return nil, false
}

func (c *Class) AttributeNames() []string {
	msg := c.Message
	names := []string{"DESCRIPTOR"}
	for _, n := range msg.Messages {
		names = append(names, n.Name)
	}
	for _, e := range msg.Enums {
		names = append(names, e.Name)
		for _, v := range e.Values {
			names = append(names, v.Name)
		}
	}
	for _, f := range msg.Fields {
		names = append(names, f.Name, strings.ToUpper(f.Name)+"_FIELD_NUMBER")
	}
	names = append(names, messageMethods...)
	names = append(names, msg.Methods...)
	return sortedNames(names)
}

func (c *Class) String() string {
	return fmt.Sprintf("<class %s>", c.Message.FullName)
}

func hasMethod(msg *Message, name string) bool {
	for _, m := range messageMethods {
		if m == name {
			return true
		}
	}
	for _, m := range msg.Methods {
		if m == name {
			return true
		}
	}
	return false
}

// Instance is a message object. Scalar fields remember the values assigned to them; composite fields hold nested
// values that are created on first access and shared afterwards.
type Instance struct {
	table   *Table
	Message *Message

	values map[string]evaluation.Value
}

func newInstance(table *Table, msg *Message) *Instance {
	return &Instance{table: table, Message: msg, values: map[string]evaluation.Value{}}
}

func (i *Instance) GetAttr(name string) (evaluation.Value, bool) {
	if f, ok := i.Message.Field(name); ok {
		if v, ok := i.values[name]; ok {
			return v, true
		}
		v := i.fieldValue(f)
		if _, isScalar := v.(*Scalar); !isScalar {
			i.values[name] = v
		}
		return v, true
	}

	switch {
	case isDunder(name) || name == "DESCRIPTOR":
		return evaluation.Unknown, true
	case name == "FromString":
		class := &Class{table: i.table, Message: i.Message}
		return &Method{Name: name, Receiver: i, result: func() evaluation.Value { return class.New() }}, true
	case hasMethod(i.Message, name):
		return i.method(name), true
	}
	return nil, false
}

func (i *Instance) method(name string) *Method {
	m := &Method{Name: name, Receiver: i}
	if result, ok := wellKnownResults[i.Message.FullName][name]; ok {
		if msg, ok := i.table.Message(result); ok {
			m.result = func() evaluation.Value { return newInstance(i.table, msg) }
		}
	}
	return m
}

func (i *Instance) fieldValue(f *Field) evaluation.Value {
	typ, _ := i.table.fieldType(i.Message, f)
	msg, isMessage := typ.(*Message)
	switch {
	case f.IsRepeated() && isMessage && msg.MapEntry:
		return &Map{table: i.table, Field: f, Entry: msg}
	case f.IsRepeated():
		return &Repeated{table: i.table, Field: f, Element: typ}
	case f.Kind.IsComposite() && isMessage:
		return newInstance(i.table, msg)
	case f.Kind.IsComposite():
		return evaluation.Unknown
	default:
		enum, _ := typ.(*Enum)
		return &Scalar{Field: f, Enum: enum}
	}
}

// SetAttr assigns a scalar field. Composite and repeated fields cannot be assigned, and names that are not fields
// cannot be set at all.
func (i *Instance) SetAttr(name string, value evaluation.Value) error {
	f, ok := i.Message.Field(name)
	if !ok {
		return evaluation.NewAttributeNotFound(i, name)
	}
	if f.IsRepeated() || f.Kind.IsComposite() {
		return evaluation.NewAttributeNotAssignable(i, name,
			errors.Errorf("assignment not allowed to composite field %q in message %v", name, i.Message.FullName))
	}
	i.values[name] = value
	return nil
}

func (i *Instance) AttributeNames() []string {
	names := []string{"DESCRIPTOR"}
	for _, f := range i.Message.Fields {
		names = append(names, f.Name)
	}
	names = append(names, messageMethods...)
	names = append(names, i.Message.Methods...)
	return sortedNames(names)
}

func (i *Instance) String() string {
	return fmt.Sprintf("<%s instance>", i.Message.FullName)
}

// Scalar is the value of a scalar or enum field that has not been assigned.
type Scalar struct {
	Field *Field
	// Enum is the field's enum type, if any.
	Enum *Enum
}

func (s *Scalar) String() string {
	return fmt.Sprintf("<%s %s>", s.Field.Kind, s.Field.Name)
}

// EnumType is a generated enum wrapper.
type EnumType struct {
	Enum *Enum
}

var enumMethods = []string{"Name", "Value", "items", "keys", "values"}

func (e *EnumType) GetAttr(name string) (evaluation.Value, bool) {
	if v, ok := e.Enum.Value(name); ok {
		return enumValueConstant(v), true
	}
	if name == "DESCRIPTOR" || isDunder(name) {
		return evaluation.Unknown, true
	}
	for _, m := range enumMethods {
		if m == name {
			return &Method{Name: name, Receiver: e}, true
		}
	}
	return nil, false
}

func (e *EnumType) AttributeNames() []string {
	names := append([]string{"DESCRIPTOR"}, enumMethods...)
	for _, v := range e.Enum.Values {
		names = append(names, v.Name)
	}
	return sortedNames(names)
}

func (e *EnumType) String() string {
	return fmt.Sprintf("<enum %s>", e.Enum.FullName)
}

var repeatedMethods = []string{
	"MergeFrom", "append", "clear", "count", "extend", "index", "insert", "pop", "remove", "reverse", "sort",
}

// Repeated is the value of a repeated field.
type Repeated struct {
	table   *Table
	Field   *Field
	Element Type
}

// Elem returns the value of an element of the field.
func (r *Repeated) Elem() evaluation.Value {
	switch element := r.Element.(type) {
	case *Message:
		return newInstance(r.table, element)
	case *Enum:
		return &Scalar{Field: r.Field, Enum: element}
	default:
		if r.Field.Kind.IsComposite() {
			return evaluation.Unknown
		}
		return &Scalar{Field: r.Field}
	}
}

func (r *Repeated) GetAttr(name string) (evaluation.Value, bool) {
	if isDunder(name) {
		return evaluation.Unknown, true
	}
	if name == "add" && r.Field.Kind.IsComposite() {
		return &Method{Name: name, Receiver: r, result: r.Elem}, true
	}
	for _, m := range repeatedMethods {
		if m == name {
			method := &Method{Name: name, Receiver: r}
			if name == "pop" {
				method.result = r.Elem
			}
			return method, true
		}
	}
	return nil, false
}

func (r *Repeated) AttributeNames() []string {
	names := append([]string{}, repeatedMethods...)
	if r.Field.Kind.IsComposite() {
		names = append(names, "add")
	}
	return sortedNames(names)
}

func (r *Repeated) String() string {
	return fmt.Sprintf("<repeated %s>", r.Field.Name)
}

var mapMethods = []string{
	"GetEntryClass", "MergeFrom", "clear", "get", "items", "keys", "pop", "setdefault", "update", "values",
}

// Map is the value of a map field.
type Map struct {
	table *Table
	Field *Field
	Entry *Message
}

// Elem returns the value stored under a key of the map.
func (m *Map) Elem() evaluation.Value {
	value, ok := m.Entry.Field("value")
	if !ok {
		return evaluation.Unknown
	}
	return newInstance(m.table, m.Entry).fieldValue(value)
}

func (m *Map) GetAttr(name string) (evaluation.Value, bool) {
	if isDunder(name) {
		return evaluation.Unknown, true
	}
	if name == "get_or_create" {
		return &Method{Name: name, Receiver: m, result: m.Elem}, true
	}
	for _, method := range mapMethods {
		if method == name {
			return &Method{Name: name, Receiver: m}, true
		}
	}
	return nil, false
}

func (m *Map) AttributeNames() []string {
	return sortedNames(append([]string{"get_or_create"}, mapMethods...))
}

func (m *Map) String() string {
	return fmt.Sprintf("<map %s>", m.Field.Name)
}

// Method is a method bound to a value.
type Method struct {
	Name     string
	Receiver evaluation.Value

	result func() evaluation.Value
}

// Call returns the value the method returns, or evaluation.Unknown.
func (m *Method) Call() evaluation.Value {
	if m.result == nil {
		return evaluation.Unknown
	}
	return m.result()
}

func (m *Method) String() string {
	return fmt.Sprintf("<method %s of %v>", m.Name, m.Receiver)
}
