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

// Package docs generates a Markdown reference of the generated Python modules, message classes, and enums that
// protolint knows about.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/pulumi/protolint/pkg/lint/descriptor"
	"github.com/pulumi/protolint/pkg/util/contract"
)

type modContext struct {
	table    *descriptor.Table
	mod      string
	file     *descriptor.File
	children []*modContext
	owners   map[string]*descriptor.File
	tool     string
}

// pythonType returns the Python type a field holds.
func (mod *modContext) pythonType(msg *descriptor.Message, f *descriptor.Field) string {
	var typ string
	switch f.Kind {
	case descriptor.KindDouble, descriptor.KindFloat:
		typ = "float"
	case descriptor.KindBool:
		typ = "bool"
	case descriptor.KindString:
		typ = "str"
	case descriptor.KindBytes:
		typ = "bytes"
	case descriptor.KindMessage, descriptor.KindGroup, descriptor.KindEnum:
		typ = mod.typeName(msg, f)
	default:
		typ = "int"
	}

	if !f.IsRepeated() {
		return typ
	}
	if entry, ok := mod.mapEntry(msg, f); ok {
		key, _ := entry.Field("key")
		value, _ := entry.Field("value")
		return fmt.Sprintf("Mapping[%s, %s]", mod.pythonType(entry, key), mod.pythonType(entry, value))
	}
	return fmt.Sprintf("Sequence[%s]", typ)
}

// typeName returns the name of a field's message or enum type relative to the current module.
func (mod *modContext) typeName(msg *descriptor.Message, f *descriptor.Field) string {
	typ, ok := mod.table.LookupType(msg.FullName, f.TypeName)
	if !ok {
		return strings.TrimPrefix(f.TypeName, ".")
	}

	name := typ.QualifiedName()
	file := mod.owners[name]
	if file != nil && file.Package != "" {
		name = strings.TrimPrefix(name, file.Package+".")
	}
	if file != nil && file != mod.file {
		return file.Module() + "." + name
	}
	return name
}

func (mod *modContext) mapEntry(msg *descriptor.Message, f *descriptor.Field) (*descriptor.Message, bool) {
	typ, ok := mod.table.LookupType(msg.FullName, f.TypeName)
	if !ok {
		return nil, false
	}
	entry, ok := typ.(*descriptor.Message)
	return entry, ok && entry.MapEntry
}

// declare records the file that declares each type.
func declare(owners map[string]*descriptor.File, f *descriptor.File, msgs []*descriptor.Message, enums []*descriptor.Enum) {
	for _, e := range enums {
		owners[e.QualifiedName()] = f
	}
	for _, msg := range msgs {
		owners[msg.QualifiedName()] = f
		declare(owners, f, msg.Messages, msg.Enums)
	}
}

func anchor(name string) string {
	return strings.ToLower(strings.Replace(name, ".", "-", -1))
}

func (mod *modContext) genHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "---\n")
	fmt.Fprintf(w, "title: %q\n", title)
	fmt.Fprintf(w, "---\n\n")

	fmt.Fprintf(w, "<!-- WARNING: this file was generated by %v. -->\n", mod.tool)
	fmt.Fprintf(w, "<!-- Do not edit by hand unless you're certain you know what you are doing! -->\n\n")
}

func (mod *modContext) genMessage(w io.Writer, msg *descriptor.Message, prefix string, level int) {
	if msg.MapEntry {
		return
	}

	name := prefix + msg.Name
	fmt.Fprintf(w, "%s %s\n\n", strings.Repeat("#", level), name)

	// Emit the constructor signature.
	fmt.Fprintf(w, "```python\n")
	if len(msg.Fields) == 0 {
		fmt.Fprintf(w, "%s()\n", name)
	} else {
		fmt.Fprintf(w, "%s(\n", name)
		for _, f := range msg.Fields {
			fmt.Fprintf(w, "    %s: Optional[%s] = None,\n", f.Name, mod.pythonType(msg, f))
		}
		fmt.Fprintf(w, ")\n")
	}
	fmt.Fprintf(w, "```\n\n")

	if len(msg.Fields) > 0 {
		fmt.Fprintf(w, "| Field | Number | Type | Assignable |\n")
		fmt.Fprintf(w, "| --- | --- | --- | --- |\n")
		for _, f := range msg.Fields {
			assignable := "yes"
			if f.IsRepeated() || f.Kind.IsComposite() {
				assignable = "no"
			}
			oneof := ""
			if f.Oneof != "" {
				oneof = fmt.Sprintf(" (oneof `%s`)", f.Oneof)
			}
			fmt.Fprintf(w, "| `%s`%s | %d | `%s` | %s |\n", f.Name, oneof, f.Number, mod.pythonType(msg, f), assignable)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(msg.Methods) > 0 {
		methods := append([]string(nil), msg.Methods...)
		sort.Strings(methods)
		fmt.Fprintf(w, "Additional methods: ")
		for i, m := range methods {
			if i > 0 {
				fmt.Fprintf(w, ", ")
			}
			fmt.Fprintf(w, "`%s()`", m)
		}
		fmt.Fprintf(w, "\n\n")
	}

	for _, e := range msg.Enums {
		mod.genEnum(w, e, name+".", level+1)
	}
	for _, nested := range msg.Messages {
		mod.genMessage(w, nested, name+".", level+1)
	}
}

func (mod *modContext) genEnum(w io.Writer, e *descriptor.Enum, prefix string, level int) {
	fmt.Fprintf(w, "%s %s%s\n\n", strings.Repeat("#", level), prefix, e.Name)

	fmt.Fprintf(w, "| Value | Number |\n")
	fmt.Fprintf(w, "| --- | --- |\n")
	for _, v := range e.Values {
		fmt.Fprintf(w, "| `%s` | %d |\n", v.Name, v.Number)
	}
	fmt.Fprintf(w, "\n")
}

func (mod *modContext) genModule(w io.Writer) {
	mod.genHeader(w, mod.mod)

	f := mod.file
	fmt.Fprintf(w, "Generated from `%s`", f.Name)
	if f.Package != "" {
		fmt.Fprintf(w, " (package `%s`)", f.Package)
	}
	fmt.Fprintf(w, ".\n\n")

	if len(f.Dependencies) > 0 {
		fmt.Fprintf(w, "Imports:\n\n")
		for _, d := range f.Dependencies {
			fmt.Fprintf(w, "- `%s`\n", descriptor.ModuleName(d))
		}
		fmt.Fprintf(w, "\n")
	}

	for _, e := range f.Enums {
		mod.genEnum(w, e, "", 2)
	}
	for _, msg := range f.Messages {
		mod.genMessage(w, msg, "", 2)
	}
}

// genIndex emits an _index.md file for a package.
func (mod *modContext) genIndex() string {
	w := &bytes.Buffer{}

	name := mod.mod
	if name == "" {
		name = "Generated modules"
	}
	mod.genHeader(w, name)

	sort.Slice(mod.children, func(i, j int) bool {
		return mod.children[i].mod < mod.children[j].mod
	})

	var packages, modules []*modContext
	for _, child := range mod.children {
		if child.file != nil {
			modules = append(modules, child)
		} else {
			packages = append(packages, child)
		}
	}

	if len(packages) > 0 {
		fmt.Fprintf(w, "## Packages\n\n")
		for _, child := range packages {
			fmt.Fprintf(w, "- [%s](%s/)\n", child.mod, baseName(child.mod))
		}
		fmt.Fprintf(w, "\n")
	}

	if len(modules) > 0 {
		fmt.Fprintf(w, "## Modules\n\n")
		for _, child := range modules {
			var members []string
			for _, msg := range child.file.Messages {
				members = append(members, fmt.Sprintf("[%s](%s#%s)", msg.Name, baseName(child.mod)+".md", anchor(msg.Name)))
			}
			fmt.Fprintf(w, "- [%s](%s.md)", child.mod, baseName(child.mod))
			if len(members) > 0 {
				fmt.Fprintf(w, ": %s", strings.Join(members, ", "))
			}
			fmt.Fprintf(w, "\n")
		}
		fmt.Fprintf(w, "\n")
	}

	return w.String()
}

func baseName(module string) string {
	return module[strings.LastIndex(module, ".")+1:]
}

type fs map[string][]byte

func (fs fs) add(path string, contents []byte) {
	_, has := fs[path]
	contract.Assertf(!has, "duplicate file: %s", path)
	fs[path] = contents
}

func (mod *modContext) dir() string {
	return strings.Replace(mod.mod, ".", "/", -1)
}

func (mod *modContext) gen(fs fs) error {
	if mod.file == nil {
		fs.add(path.Join(mod.dir(), "_index.md"), []byte(mod.genIndex()))
		return nil
	}

	buffer := &bytes.Buffer{}
	mod.genModule(buffer)
	fs.add(mod.dir()+".md", buffer.Bytes())
	return nil
}

// GeneratePackage generates the reference for every module in the table. The result maps slash-separated paths to
// file contents.
func GeneratePackage(tool string, table *descriptor.Table) (map[string][]byte, error) {
	modules := map[string]*modContext{}
	owners := map[string]*descriptor.File{}

	var getMod func(name string) *modContext
	getMod = func(name string) *modContext {
		mod, ok := modules[name]
		if !ok {
			mod = &modContext{
				table:  table,
				mod:    name,
				owners: owners,
				tool:   tool,
			}

			if name != "" {
				parentName := ""
				if i := strings.LastIndex(name, "."); i >= 0 {
					parentName = name[:i]
				}
				parent := getMod(parentName)
				parent.children = append(parent.children, mod)
			}

			modules[name] = mod
		}
		return mod
	}

	getMod("")
	for _, f := range table.Files() {
		mod := getMod(f.Module())
		mod.file = f
		declare(owners, f, f.Messages, f.Enums)
	}
	for _, mod := range modules {
		if mod.file != nil && len(mod.children) > 0 {
			return nil, errors.Errorf("module %v is also a package", mod.mod)
		}
	}

	files := fs{}
	for _, mod := range modules {
		if err := mod.gen(files); err != nil {
			return nil, err
		}
	}
	return files, nil
}
