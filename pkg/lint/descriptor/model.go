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

// Package descriptor holds the table of protobuf message and enum types known to the analyzer, loaders that build
// it, and the analysis-time values that stand in for generated Python modules, classes, and messages.
package descriptor

import (
	"path"
	"strings"
)

// Label is a field's cardinality.
type Label string

const (
	LabelOptional Label = "optional"
	LabelRequired Label = "required"
	LabelRepeated Label = "repeated"
)

// Kind is a field's wire type.
type Kind string

const (
	KindDouble   Kind = "double"
	KindFloat    Kind = "float"
	KindInt64    Kind = "int64"
	KindUint64   Kind = "uint64"
	KindInt32    Kind = "int32"
	KindFixed64  Kind = "fixed64"
	KindFixed32  Kind = "fixed32"
	KindBool     Kind = "bool"
	KindString   Kind = "string"
	KindGroup    Kind = "group"
	KindMessage  Kind = "message"
	KindBytes    Kind = "bytes"
	KindUint32   Kind = "uint32"
	KindEnum     Kind = "enum"
	KindSfixed32 Kind = "sfixed32"
	KindSfixed64 Kind = "sfixed64"
	KindSint32   Kind = "sint32"
	KindSint64   Kind = "sint64"
)

var kinds = map[Kind]bool{
	KindDouble: true, KindFloat: true, KindInt64: true, KindUint64: true, KindInt32: true, KindFixed64: true,
	KindFixed32: true, KindBool: true, KindString: true, KindGroup: true, KindMessage: true, KindBytes: true,
	KindUint32: true, KindEnum: true, KindSfixed32: true, KindSfixed64: true, KindSint32: true, KindSint64: true,
}

// IsValid returns true if k names a protobuf field type.
func (k Kind) IsValid() bool {
	return kinds[k]
}

// IsComposite returns true for kinds whose values are nested messages.
func (k Kind) IsComposite() bool {
	return k == KindMessage || k == KindGroup
}

// Type is a *Message or an *Enum.
type Type interface {
	QualifiedName() string
}

// File describes a single .proto file.
type File struct {
	// Name is the path of the .proto file, e.g. "tutorial/addressbook.proto".
	Name         string
	Package      string
	Dependencies []string
	Messages     []*Message
	Enums        []*Enum
}

// Module returns the name of the Python module that protoc generates for the file.
func (f *File) Module() string {
	return ModuleName(f.Name)
}

// ModuleName maps a .proto path to the name of its generated Python module: "dir/name-x.proto" becomes
// "dir.name_x_pb2".
func ModuleName(protoPath string) string {
	p := strings.TrimSuffix(path.Clean(protoPath), ".proto")
	dir, base := path.Split(p)
	base = strings.Replace(base, "-", "_", -1) + "_pb2"
	if dir == "" {
		return base
	}
	return strings.Replace(strings.Trim(dir, "/"), "/", ".", -1) + "." + base
}

// Message describes a message type.
type Message struct {
	Name     string
	FullName string
	Fields   []*Field
	Messages []*Message
	Enums    []*Enum
	Oneofs   []string
	// Methods lists extra Python methods generated for well-known types.
	Methods []string
	// MapEntry is set for the synthesized entry types of map fields.
	MapEntry bool
	// File is the file that declares the message.
	File *File
}

func (m *Message) QualifiedName() string {
	return m.FullName
}

// Field returns the field with the given name.
func (m *Message) Field(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Message returns the nested message type with the given name.
func (m *Message) Message(name string) (*Message, bool) {
	for _, n := range m.Messages {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Enum returns the nested enum type with the given name.
func (m *Message) Enum(name string) (*Enum, bool) {
	return findEnum(m.Enums, name)
}

// Field describes a message field.
type Field struct {
	Name   string
	Number int32
	Label  Label
	Kind   Kind
	// TypeName names the message or enum type of composite and enum fields. It is resolved relative to the
	// declaring message, and may be fully qualified with a leading '.'.
	TypeName string
	Oneof    string
}

// IsRepeated returns true if the field holds a list or a map.
func (f *Field) IsRepeated() bool {
	return f.Label == LabelRepeated
}

// Enum describes an enum type.
type Enum struct {
	Name     string
	FullName string
	Values   []*EnumValue
}

func (e *Enum) QualifiedName() string {
	return e.FullName
}

// Value returns the enum value with the given name.
func (e *Enum) Value(name string) (*EnumValue, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// EnumValue is a named enum constant.
type EnumValue struct {
	Name   string
	Number int32
}

func findEnum(enums []*Enum, name string) (*Enum, bool) {
	for _, e := range enums {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// findEnumValue finds a value of any of the given enums. Generated modules and classes export the values of their
// enums as top-level constants.
func findEnumValue(enums []*Enum, name string) (*EnumValue, bool) {
	for _, e := range enums {
		if v, ok := e.Value(name); ok {
			return v, true
		}
	}
	return nil, false
}

// mapEntryName returns the name protoc gives the entry type of a map field.
func mapEntryName(fieldName string) string {
	var b strings.Builder
	upper := true
	for _, r := range fieldName {
		switch {
		case r == '_':
			upper = true
		case upper:
			b.WriteString(strings.ToUpper(string(r)))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString("Entry")
	return b.String()
}
