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
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/protobuf/proto"
	descpb "github.com/golang/protobuf/protoc-gen-go/descriptor"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAMLVersion(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("files: []\n"))
	assert.EqualError(t, err, "descriptor table has no version")

	_, err = LoadYAML(strings.NewReader("version: 2.0.0\nfiles: []\n"))
	assert.EqualError(t, err, "unsupported descriptor table version 2.0.0")

	_, err = LoadYAML(strings.NewReader("version: banana\n"))
	assert.Error(t, err)

	files, err := LoadYAML(strings.NewReader("version: \"1.2\"\nfiles: []\n"))
	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestLoadYAMLStrict(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("version: 1.0.0\nfiels: []\n"))
	assert.Error(t, err)
}

func TestLoadYAMLInvalidFields(t *testing.T) {
	src := `version: 1.0.0
files:
  - name: bad.proto
    messages:
      - name: Bad
        fields:
          - {name: a, number: 1, type: strng}
          - {name: b, number: 2, type: message}
          - {name: c, number: 3, type: string, label: many}
          - {name: d, number: 4, type: map, key: string, value: thing}
`
	_, err := LoadYAML(strings.NewReader(src))
	require.Error(t, err)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok, "%T", err)
	require.Len(t, merr.Errors, 4)
	assert.Contains(t, merr.Errors[0].Error(), `Bad.a: unknown type "strng"`)
	assert.Contains(t, merr.Errors[1].Error(), "Bad.b: message field has no type_name")
	assert.Contains(t, merr.Errors[2].Error(), `Bad.c: unknown label "many"`)
	assert.Contains(t, merr.Errors[3].Error(), "Bad.d: invalid map types")
}

func TestLoadYAMLMapField(t *testing.T) {
	table := loadAddressBook(t)
	person, _ := table.Message("tutorial.Person")

	labels, ok := person.Field("labels")
	require.True(t, ok)
	assert.Equal(t, LabelRepeated, labels.Label)
	assert.Equal(t, KindMessage, labels.Kind)
	assert.Equal(t, "LabelsEntry", labels.TypeName)

	home, _ := person.Field("home")
	assert.Equal(t, "location", home.Oneof)
}

func addressBookSet() *descpb.FileDescriptorSet {
	field := func(name string, number int32, typ descpb.FieldDescriptorProto_Type,
		label descpb.FieldDescriptorProto_Label, typeName string) *descpb.FieldDescriptorProto {

		fd := &descpb.FieldDescriptorProto{
			Name:   proto.String(name),
			Number: proto.Int32(number),
			Type:   typ.Enum(),
			Label:  label.Enum(),
		}
		if typeName != "" {
			fd.TypeName = proto.String(typeName)
		}
		return fd
	}

	optional, repeated := descpb.FieldDescriptorProto_LABEL_OPTIONAL, descpb.FieldDescriptorProto_LABEL_REPEATED
	email := field("email", 3, descpb.FieldDescriptorProto_TYPE_STRING, optional, "")
	email.OneofIndex = proto.Int32(0)

	return &descpb.FileDescriptorSet{
		File: []*descpb.FileDescriptorProto{{
			Name:    proto.String("tutorial/addressbook.proto"),
			Package: proto.String("tutorial"),
			MessageType: []*descpb.DescriptorProto{{
				Name: proto.String("Person"),
				Field: []*descpb.FieldDescriptorProto{
					field("name", 1, descpb.FieldDescriptorProto_TYPE_STRING, optional, ""),
					field("id", 2, descpb.FieldDescriptorProto_TYPE_INT32, optional, ""),
					email,
					field("phones", 4, descpb.FieldDescriptorProto_TYPE_MESSAGE, repeated,
						".tutorial.Person.PhoneNumber"),
					field("labels", 5, descpb.FieldDescriptorProto_TYPE_MESSAGE, repeated,
						".tutorial.Person.LabelsEntry"),
				},
				OneofDecl: []*descpb.OneofDescriptorProto{{Name: proto.String("contact")}},
				NestedType: []*descpb.DescriptorProto{
					{
						Name: proto.String("PhoneNumber"),
						Field: []*descpb.FieldDescriptorProto{
							field("number", 1, descpb.FieldDescriptorProto_TYPE_STRING, optional, ""),
							field("type", 2, descpb.FieldDescriptorProto_TYPE_ENUM, optional,
								".tutorial.Person.PhoneType"),
						},
					},
					{
						Name: proto.String("LabelsEntry"),
						Field: []*descpb.FieldDescriptorProto{
							field("key", 1, descpb.FieldDescriptorProto_TYPE_STRING, optional, ""),
							field("value", 2, descpb.FieldDescriptorProto_TYPE_STRING, optional, ""),
						},
						Options: &descpb.MessageOptions{MapEntry: proto.Bool(true)},
					},
				},
				EnumType: []*descpb.EnumDescriptorProto{{
					Name: proto.String("PhoneType"),
					Value: []*descpb.EnumValueDescriptorProto{
						{Name: proto.String("MOBILE"), Number: proto.Int32(0)},
						{Name: proto.String("HOME"), Number: proto.Int32(1)},
					},
				}},
			}},
		}},
	}
}

func TestLoadDescriptorSet(t *testing.T) {
	b, err := proto.Marshal(addressBookSet())
	require.NoError(t, err)

	files, err := LoadDescriptorSet(b)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	assert.Equal(t, "tutorial.addressbook_pb2", f.Module())
	assert.Equal(t, "tutorial", f.Package)

	table := NewTable()
	require.NoError(t, table.AddFile(f))

	person, ok := table.Message("tutorial.Person")
	require.True(t, ok)
	assert.Equal(t, []string{"contact"}, person.Oneofs)

	email, _ := person.Field("email")
	assert.Equal(t, "contact", email.Oneof)
	assert.Equal(t, KindString, email.Kind)
	assert.Equal(t, LabelOptional, email.Label)

	phones, _ := person.Field("phones")
	assert.Equal(t, LabelRepeated, phones.Label)
	assert.Equal(t, KindMessage, phones.Kind)

	entry, ok := table.Message("tutorial.Person.LabelsEntry")
	require.True(t, ok)
	assert.True(t, entry.MapEntry)

	p := getAttr(t, importModule(t, table, "tutorial.addressbook_pb2"), "Person").(*Class).New()
	assert.IsType(t, &Map{}, getAttr(t, p, "labels"))
	assert.IsType(t, &Repeated{}, getAttr(t, p, "phones"))
}

func TestLoadDescriptorSetInvalid(t *testing.T) {
	_, err := LoadDescriptorSet([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}

func TestLoadFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "protolint")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	b, err := proto.Marshal(addressBookSet())
	require.NoError(t, err)
	setPath := filepath.Join(dir, "addressbook.pb")
	require.NoError(t, ioutil.WriteFile(setPath, b, 0600))

	table, err := LoadFiles(setPath)
	require.NoError(t, err)
	_, ok := table.Message("tutorial.Person.PhoneNumber")
	assert.True(t, ok)
	_, ok = table.Message("google.protobuf.Timestamp")
	assert.True(t, ok)

	// Every path is attempted, and the failures are reported together.
	badPath := filepath.Join(dir, "bad.txt")
	require.NoError(t, ioutil.WriteFile(badPath, nil, 0600))
	table, err = LoadFiles(badPath, filepath.Join(dir, "missing.yaml"), "testdata/addressbook.yaml")
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	assert.Len(t, merr.Errors, 2)
	_, ok = table.Message("tutorial.Address")
	assert.True(t, ok)

	// A file already loaded from another source keeps its first definition.
	_, err = LoadFiles("testdata/addressbook.yaml", setPath)
	assert.NoError(t, err)
}
