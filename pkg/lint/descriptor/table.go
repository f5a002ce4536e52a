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
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pulumi/protolint/pkg/lint/evaluation"
	"github.com/pulumi/protolint/pkg/util/contract"
)

// Table is the set of files, message types, and enum types known to the analyzer.
type Table struct {
	files   map[string]*File
	modules map[string]*File
	types   map[string]Type
}

// NewTable creates a table that knows the well-known types.
func NewTable() *Table {
	t := &Table{
		files:   map[string]*File{},
		modules: map[string]*File{},
		types:   map[string]Type{},
	}
	for _, f := range wellKnownFiles() {
		err := t.AddFile(f)
		contract.Assertf(err == nil, "adding well-known file %v: %v", f.Name, err)
	}
	return t
}

// AddFile adds a file and its types to the table. Files whose name is already known are skipped, so well-known types
// that also appear in a loaded descriptor set do not conflict.
func (t *Table) AddFile(f *File) error {
	if f.Name == "" {
		return errors.New("file has no name")
	}
	if _, has := t.files[f.Name]; has {
		return nil
	}
	if other, has := t.modules[f.Module()]; has {
		return errors.Errorf("%v and %v both generate module %v", other.Name, f.Name, f.Module())
	}

	prefix := ""
	if f.Package != "" {
		prefix = f.Package + "."
	}

	var types []Type
	var collect func(prefix string, messages []*Message, enums []*Enum) error
	collect = func(prefix string, messages []*Message, enums []*Enum) error {
		for _, e := range enums {
			if e.Name == "" {
				return errors.Errorf("%v: enum in %q has no name", f.Name, strings.TrimSuffix(prefix, "."))
			}
			e.FullName = prefix + e.Name
			types = append(types, e)
		}
		for _, m := range messages {
			if m.Name == "" {
				return errors.Errorf("%v: message in %q has no name", f.Name, strings.TrimSuffix(prefix, "."))
			}
			m.FullName, m.File = prefix+m.Name, f
			types = append(types, m)
			if err := collect(m.FullName+".", m.Messages, m.Enums); err != nil {
				return err
			}
		}
		return nil
	}
	if err := collect(prefix, f.Messages, f.Enums); err != nil {
		return err
	}

	for _, typ := range types {
		if _, has := t.types[typ.QualifiedName()]; has {
			return errors.Errorf("%v: duplicate type %v", f.Name, typ.QualifiedName())
		}
	}
	for _, typ := range types {
		t.types[typ.QualifiedName()] = typ
	}
	t.files[f.Name], t.modules[f.Module()] = f, f
	return nil
}

// Files returns the known files sorted by module name.
func (t *Table) Files() []*File {
	files := make([]*File, 0, len(t.files))
	for _, f := range t.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Module() < files[j].Module()
	})
	return files
}

// Module returns the file that generates the named Python module.
func (t *Table) Module(name string) (*File, bool) {
	f, ok := t.modules[name]
	return f, ok
}

// Message returns the message type with the given fully qualified name.
func (t *Table) Message(fullName string) (*Message, bool) {
	m, ok := t.types[strings.TrimPrefix(fullName, ".")].(*Message)
	return m, ok
}

// Enum returns the enum type with the given fully qualified name.
func (t *Table) Enum(fullName string) (*Enum, bool) {
	e, ok := t.types[strings.TrimPrefix(fullName, ".")].(*Enum)
	return e, ok
}

// LookupType resolves a type name the way protoc does: a name with a leading '.' is fully qualified; any other name
// is looked up in scope, then in each enclosing scope out to the root.
func (t *Table) LookupType(scope, name string) (Type, bool) {
	if strings.HasPrefix(name, ".") {
		typ, ok := t.types[name[1:]]
		return typ, ok
	}

	for {
		candidate := name
		if scope != "" {
			candidate = scope + "." + name
		}
		if typ, ok := t.types[candidate]; ok {
			return typ, true
		}
		if scope == "" {
			return nil, false
		}
		if i := strings.LastIndex(scope, "."); i >= 0 {
			scope = scope[:i]
		} else {
			scope = ""
		}
	}
}

// fieldType returns the resolved type of a message or enum field.
func (t *Table) fieldType(m *Message, f *Field) (Type, bool) {
	if f.TypeName == "" {
		return nil, false
	}
	return t.LookupType(m.FullName, f.TypeName)
}

// Import returns the value that importing the named Python module produces: a generated module, or a package whose
// members are the generated modules beneath it.
func (t *Table) Import(name string) (evaluation.Value, bool) {
	if f, ok := t.modules[name]; ok {
		return &Module{table: t, name: name, file: f}, true
	}
	if t.isPackage(name) {
		return &Module{table: t, name: name}, true
	}
	return nil, false
}

func (t *Table) isPackage(name string) bool {
	prefix := name + "."
	for module := range t.modules {
		if strings.HasPrefix(module, prefix) {
			return true
		}
	}
	return false
}
