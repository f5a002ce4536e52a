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
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/blang/semver"
	"github.com/golang/protobuf/proto"
	descpb "github.com/golang/protobuf/protoc-gen-go/descriptor"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/pulumi/protolint/pkg/util/contract"
	"github.com/pulumi/protolint/pkg/util/logging"
)

// yamlTable is the on-disk form of a hand-written descriptor table:
//
//	version: 1.0.0
//	files:
//	  - name: tutorial/addressbook.proto
//	    package: tutorial
//	    messages:
//	      - name: Person
//	        fields:
//	          - {name: name, number: 1, type: string}
//	          - {name: phones, number: 4, label: repeated, type: message, type_name: PhoneNumber}
//	          - {name: labels, number: 5, type: map, key: string, value: string}
type yamlTable struct {
	Version string     `yaml:"version"`
	Files   []yamlFile `yaml:"files"`
}

type yamlFile struct {
	Name         string        `yaml:"name"`
	Package      string        `yaml:"package"`
	Dependencies []string      `yaml:"dependencies"`
	Messages     []yamlMessage `yaml:"messages"`
	Enums        []yamlEnum    `yaml:"enums"`
}

type yamlMessage struct {
	Name     string        `yaml:"name"`
	Fields   []yamlField   `yaml:"fields"`
	Messages []yamlMessage `yaml:"messages"`
	Enums    []yamlEnum    `yaml:"enums"`
	Methods  []string      `yaml:"methods"`
}

type yamlField struct {
	Name     string `yaml:"name"`
	Number   int32  `yaml:"number"`
	Label    string `yaml:"label"`
	Type     string `yaml:"type"`
	TypeName string `yaml:"type_name"`
	Oneof    string `yaml:"oneof"`
	Key      string `yaml:"key"`
	Value    string `yaml:"value"`
}

type yamlEnum struct {
	Name   string `yaml:"name"`
	Values []struct {
		Name   string `yaml:"name"`
		Number int32  `yaml:"number"`
	} `yaml:"values"`
}

// LoadYAML reads a YAML descriptor table. The table's major version must be 1.
func LoadYAML(r io.Reader) ([]*File, error) {
	bytes, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var table yamlTable
	if err = yaml.UnmarshalStrict(bytes, &table); err != nil {
		return nil, errors.Wrap(err, "decoding descriptor table")
	}

	if table.Version == "" {
		return nil, errors.New("descriptor table has no version")
	}
	version, err := semver.ParseTolerant(table.Version)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing descriptor table version %q", table.Version)
	}
	if version.Major != 1 {
		return nil, errors.Errorf("unsupported descriptor table version %v", version)
	}

	var result *multierror.Error
	files := make([]*File, 0, len(table.Files))
	for _, yf := range table.Files {
		f := &File{Name: yf.Name, Package: yf.Package, Dependencies: yf.Dependencies}
		for _, ym := range yf.Messages {
			m, err := convertYAMLMessage(ym)
			if err != nil {
				result = multierror.Append(result, inFile(yf.Name, err)...)
			}
			f.Messages = append(f.Messages, m)
		}
		for _, ye := range yf.Enums {
			f.Enums = append(f.Enums, convertYAMLEnum(ye))
		}
		files = append(files, f)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return files, nil
}

func convertYAMLMessage(ym yamlMessage) (*Message, error) {
	m := &Message{Name: ym.Name, Methods: ym.Methods}

	var result *multierror.Error
	for _, yf := range ym.Fields {
		label := Label(yf.Label)
		switch label {
		case "":
			label = LabelOptional
		case LabelOptional, LabelRequired, LabelRepeated:
		default:
			result = multierror.Append(result, errors.Errorf("%v.%v: unknown label %q", ym.Name, yf.Name, yf.Label))
			continue
		}

		if yf.Type == "map" {
			key, value := Kind(yf.Key), Kind(yf.Value)
			if !key.IsValid() || !value.IsValid() {
				result = multierror.Append(result, errors.Errorf("%v.%v: invalid map types %q and %q",
					ym.Name, yf.Name, yf.Key, yf.Value))
				continue
			}
			field, entry := mapField(yf.Name, yf.Number, key, value, yf.TypeName)
			m.Fields, m.Messages = append(m.Fields, field), append(m.Messages, entry)
			continue
		}

		kind := Kind(yf.Type)
		if !kind.IsValid() {
			result = multierror.Append(result, errors.Errorf("%v.%v: unknown type %q", ym.Name, yf.Name, yf.Type))
			continue
		}
		if (kind.IsComposite() || kind == KindEnum) && yf.TypeName == "" {
			result = multierror.Append(result, errors.Errorf("%v.%v: %v field has no type_name", ym.Name, yf.Name, kind))
			continue
		}

		m.Fields = append(m.Fields, &Field{
			Name:     yf.Name,
			Number:   yf.Number,
			Label:    label,
			Kind:     kind,
			TypeName: yf.TypeName,
			Oneof:    yf.Oneof,
		})
		if yf.Oneof != "" && !contains(m.Oneofs, yf.Oneof) {
			m.Oneofs = append(m.Oneofs, yf.Oneof)
		}
	}

	for _, yn := range ym.Messages {
		n, err := convertYAMLMessage(yn)
		if err != nil {
			result = multierror.Append(result, err)
		}
		m.Messages = append(m.Messages, n)
	}
	for _, ye := range ym.Enums {
		m.Enums = append(m.Enums, convertYAMLEnum(ye))
	}
	return m, result.ErrorOrNil()
}

// inFile attributes each of a message's errors to the file that declares it.
func inFile(name string, err error) []error {
	merr, ok := err.(*multierror.Error)
	if !ok {
		return []error{errors.Wrap(err, name)}
	}
	errs := make([]error, len(merr.Errors))
	for i, e := range merr.Errors {
		errs[i] = errors.Wrap(e, name)
	}
	return errs
}

func convertYAMLEnum(ye yamlEnum) *Enum {
	e := &Enum{Name: ye.Name}
	for _, v := range ye.Values {
		e.Values = append(e.Values, &EnumValue{Name: v.Name, Number: v.Number})
	}
	return e
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// LoadDescriptorSet reads a serialized FileDescriptorSet, as written by `protoc --descriptor_set_out`.
func LoadDescriptorSet(b []byte) ([]*File, error) {
	var set descpb.FileDescriptorSet
	if err := proto.Unmarshal(b, &set); err != nil {
		return nil, errors.Wrap(err, "decoding file descriptor set")
	}

	files := make([]*File, 0, len(set.File))
	for _, fd := range set.File {
		f := &File{Name: fd.GetName(), Package: fd.GetPackage(), Dependencies: fd.Dependency}
		for _, md := range fd.MessageType {
			f.Messages = append(f.Messages, convertMessage(md))
		}
		for _, ed := range fd.EnumType {
			f.Enums = append(f.Enums, convertEnum(ed))
		}
		files = append(files, f)
	}
	return files, nil
}

func convertMessage(md *descpb.DescriptorProto) *Message {
	m := &Message{Name: md.GetName(), MapEntry: md.GetOptions().GetMapEntry()}
	for _, od := range md.OneofDecl {
		m.Oneofs = append(m.Oneofs, od.GetName())
	}
	for _, fd := range md.Field {
		f := &Field{
			Name:     fd.GetName(),
			Number:   fd.GetNumber(),
			Label:    Label(strings.ToLower(strings.TrimPrefix(fd.GetLabel().String(), "LABEL_"))),
			Kind:     Kind(strings.ToLower(strings.TrimPrefix(fd.GetType().String(), "TYPE_"))),
			TypeName: fd.GetTypeName(),
		}
		if fd.OneofIndex != nil && int(fd.GetOneofIndex()) < len(m.Oneofs) {
			f.Oneof = m.Oneofs[fd.GetOneofIndex()]
		}
		m.Fields = append(m.Fields, f)
	}
	for _, nd := range md.NestedType {
		m.Messages = append(m.Messages, convertMessage(nd))
	}
	for _, ed := range md.EnumType {
		m.Enums = append(m.Enums, convertEnum(ed))
	}
	return m
}

func convertEnum(ed *descpb.EnumDescriptorProto) *Enum {
	e := &Enum{Name: ed.GetName()}
	for _, vd := range ed.Value {
		e.Values = append(e.Values, &EnumValue{Name: vd.GetName(), Number: vd.GetNumber()})
	}
	return e
}

// LoadFiles builds a table from YAML descriptor tables and serialized descriptor sets. Every file is loaded even if
// earlier ones fail; the returned error aggregates all failures.
func LoadFiles(paths ...string) (*Table, error) {
	table := NewTable()

	var result *multierror.Error
	for _, path := range paths {
		files, err := loadFile(path)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "loading %v", path))
			continue
		}
		for _, f := range files {
			if err = table.AddFile(f); err != nil {
				result = multierror.Append(result, errors.Wrapf(err, "loading %v", path))
			}
		}
		logging.V(5).Infof("loaded %d descriptor file(s) from %v", len(files), path)
	}
	return table, result.ErrorOrNil()
}

func loadFile(path string) ([]*File, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer contract.IgnoreClose(f)
		return LoadYAML(f)
	case ".pb", ".desc", ".protoset", ".binpb":
		bytes, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return LoadDescriptorSet(bytes)
	default:
		return nil, errors.Errorf("unrecognized descriptor file extension %q", ext)
	}
}
