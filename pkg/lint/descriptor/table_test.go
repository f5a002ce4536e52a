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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadAddressBook(t *testing.T) *Table {
	f, err := os.Open("testdata/addressbook.yaml")
	require.NoError(t, err)
	defer f.Close()

	files, err := LoadYAML(f)
	require.NoError(t, err)

	table := NewTable()
	for _, file := range files {
		require.NoError(t, table.AddFile(file))
	}
	return table
}

func TestModuleName(t *testing.T) {
	cases := map[string]string{
		"addressbook.proto":          "addressbook_pb2",
		"tutorial/addressbook.proto": "tutorial.addressbook_pb2",
		"a/b/name-x.proto":           "a.b.name_x_pb2",
		"google/protobuf/any.proto":  "google.protobuf.any_pb2",
		"./relative/dir/thing.proto": "relative.dir.thing_pb2",
	}
	for path, expected := range cases {
		assert.Equal(t, expected, ModuleName(path), path)
	}
}

func TestMapEntryName(t *testing.T) {
	assert.Equal(t, "LabelsEntry", mapEntryName("labels"))
	assert.Equal(t, "PhoneNumbersEntry", mapEntryName("phone_numbers"))
	assert.Equal(t, "ByIdEntry", mapEntryName("by_id"))
}

func TestWellKnownTypes(t *testing.T) {
	table := NewTable()
	for _, name := range []string{
		"google.protobuf.Any",
		"google.protobuf.Timestamp",
		"google.protobuf.Duration",
		"google.protobuf.FieldMask",
		"google.protobuf.Struct",
		"google.protobuf.Value",
		"google.protobuf.ListValue",
		"google.protobuf.Empty",
		"google.protobuf.StringValue",
	} {
		_, ok := table.Message(name)
		assert.True(t, ok, name)
	}
	_, ok := table.Enum(".google.protobuf.NullValue")
	assert.True(t, ok)

	_, ok = table.Module("google.protobuf.timestamp_pb2")
	assert.True(t, ok)
}

func TestAddFile(t *testing.T) {
	table := loadAddressBook(t)

	person, ok := table.Message("tutorial.Person")
	require.True(t, ok)
	assert.Equal(t, "tutorial/addressbook.proto", person.File.Name)
	assert.Equal(t, []string{"location"}, person.Oneofs)

	phone, ok := table.Message("tutorial.Person.PhoneNumber")
	require.True(t, ok)
	assert.Equal(t, "PhoneNumber", phone.Name)

	entry, ok := table.Message("tutorial.Person.LabelsEntry")
	require.True(t, ok)
	assert.True(t, entry.MapEntry)

	_, ok = table.Enum("tutorial.Person.PhoneType")
	assert.True(t, ok)

	// Adding the same file again is a no-op.
	f, _ := table.Module("tutorial.addressbook_pb2")
	assert.NoError(t, table.AddFile(f))
}

func TestAddFileConflicts(t *testing.T) {
	table := loadAddressBook(t)

	err := table.AddFile(&File{Name: "other.proto", Package: "tutorial", Messages: []*Message{{Name: "Person"}}})
	assert.Error(t, err)
	_, ok := table.Module("other_pb2")
	assert.False(t, ok, "a failed file must not be added")

	err = table.AddFile(&File{Name: "tutorial/addressbook-.proto"})
	assert.NoError(t, err)
	err = table.AddFile(&File{Name: "tutorial/addressbook_.proto"})
	assert.Error(t, err)

	assert.Error(t, table.AddFile(&File{}))
}

func TestLookupType(t *testing.T) {
	table := loadAddressBook(t)

	cases := []struct {
		scope, name, expected string
	}{
		{"tutorial.Person", "PhoneNumber", "tutorial.Person.PhoneNumber"},
		{"tutorial.Person.PhoneNumber", "PhoneType", "tutorial.Person.PhoneType"},
		{"tutorial.Person", "Address", "tutorial.Address"},
		{"tutorial.AddressBook", "Person.PhoneNumber", "tutorial.Person.PhoneNumber"},
		{"tutorial.Person", ".google.protobuf.Timestamp", "google.protobuf.Timestamp"},
		{"", "tutorial.Status", "tutorial.Status"},
	}
	for _, c := range cases {
		typ, ok := table.LookupType(c.scope, c.name)
		if assert.True(t, ok, "%v in %v", c.name, c.scope) {
			assert.Equal(t, c.expected, typ.QualifiedName())
		}
	}

	_, ok := table.LookupType("tutorial.Person", "Missing")
	assert.False(t, ok)
	_, ok = table.LookupType("tutorial.Person", ".Address")
	assert.False(t, ok)
}

func TestFilesSorted(t *testing.T) {
	table := loadAddressBook(t)
	files := table.Files()
	for i := 1; i < len(files); i++ {
		assert.True(t, files[i-1].Module() < files[i].Module())
	}
}

func TestImport(t *testing.T) {
	table := loadAddressBook(t)

	v, ok := table.Import("tutorial.addressbook_pb2")
	require.True(t, ok)
	m := v.(*Module)
	assert.Equal(t, "tutorial.addressbook_pb2", m.Name())
	assert.NotNil(t, m.File())

	v, ok = table.Import("tutorial")
	require.True(t, ok)
	assert.Nil(t, v.(*Module).File())

	v, ok = table.Import("google.protobuf")
	require.True(t, ok)
	assert.Contains(t, v.(*Module).AttributeNames(), "timestamp_pb2")

	_, ok = table.Import("tutorial.missing_pb2")
	assert.False(t, ok)
	_, ok = table.Import("tut")
	assert.False(t, ok)
}
