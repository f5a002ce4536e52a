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

// messageMethods are the methods every generated message class has.
var messageMethods = []string{
	"ByteSize",
	"Clear",
	"ClearExtension",
	"ClearField",
	"CopyFrom",
	"DiscardUnknownFields",
	"Extensions",
	"FindInitializationErrors",
	"FromString",
	"HasExtension",
	"HasField",
	"IsInitialized",
	"ListFields",
	"MergeFrom",
	"MergeFromString",
	"ParseFromString",
	"RegisterExtension",
	"SerializePartialToString",
	"SerializeToString",
	"SetInParent",
	"UnknownFields",
	"WhichOneof",
}

// wellKnownResults maps well-known methods to the full names of the message types they return.
var wellKnownResults = map[string]map[string]string{
	"google.protobuf.Struct": {
		"get_or_create_list":   "google.protobuf.ListValue",
		"get_or_create_struct": "google.protobuf.Struct",
	},
	"google.protobuf.ListValue": {
		"add_list":   "google.protobuf.ListValue",
		"add_struct": "google.protobuf.Struct",
	},
}

func scalar(name string, number int32, kind Kind) *Field {
	return &Field{Name: name, Number: number, Label: LabelOptional, Kind: kind}
}

func typed(name string, number int32, kind Kind, typeName string) *Field {
	return &Field{Name: name, Number: number, Label: LabelOptional, Kind: kind, TypeName: typeName}
}

// mapField builds a map field and the entry message that protoc synthesizes for it. The entry message must be added
// to the declaring message's nested messages.
func mapField(name string, number int32, key Kind, value Kind, valueType string) (*Field, *Message) {
	entry := &Message{
		Name:     mapEntryName(name),
		MapEntry: true,
		Fields: []*Field{
			scalar("key", 1, key),
			typed("value", 2, value, valueType),
		},
	}
	field := &Field{Name: name, Number: number, Label: LabelRepeated, Kind: KindMessage, TypeName: entry.Name}
	return field, entry
}

func wellKnownFiles() []*File {
	wkt := func(name string, messages []*Message, enums ...*Enum) *File {
		return &File{Name: "google/protobuf/" + name, Package: "google.protobuf", Messages: messages, Enums: enums}
	}

	timeMethods := []string{
		"ToJsonString",
		"FromJsonString",
		"ToNanoseconds",
		"ToMicroseconds",
		"ToMilliseconds",
		"ToSeconds",
		"FromNanoseconds",
		"FromMicroseconds",
		"FromMilliseconds",
		"FromSeconds",
	}

	fieldsField, fieldsEntry := mapField("fields", 1, KindString, KindMessage, "Value")
	structType := &Message{
		Name:     "Struct",
		Fields:   []*Field{fieldsField},
		Messages: []*Message{fieldsEntry},
		Methods:  []string{"keys", "values", "items", "get_or_create_list", "get_or_create_struct", "update"},
	}
	valueType := &Message{
		Name: "Value",
		Fields: []*Field{
			{Name: "null_value", Number: 1, Label: LabelOptional, Kind: KindEnum, TypeName: "NullValue", Oneof: "kind"},
			{Name: "number_value", Number: 2, Label: LabelOptional, Kind: KindDouble, Oneof: "kind"},
			{Name: "string_value", Number: 3, Label: LabelOptional, Kind: KindString, Oneof: "kind"},
			{Name: "bool_value", Number: 4, Label: LabelOptional, Kind: KindBool, Oneof: "kind"},
			{Name: "struct_value", Number: 5, Label: LabelOptional, Kind: KindMessage, TypeName: "Struct", Oneof: "kind"},
			{Name: "list_value", Number: 6, Label: LabelOptional, Kind: KindMessage, TypeName: "ListValue", Oneof: "kind"},
		},
		Oneofs: []string{"kind"},
	}
	listValueType := &Message{
		Name:    "ListValue",
		Fields:  []*Field{{Name: "values", Number: 1, Label: LabelRepeated, Kind: KindMessage, TypeName: "Value"}},
		Methods: []string{"append", "extend", "add_struct", "add_list", "items"},
	}
	nullValue := &Enum{Name: "NullValue", Values: []*EnumValue{{Name: "NULL_VALUE", Number: 0}}}

	wrapper := func(name string, kind Kind) *Message {
		return &Message{Name: name, Fields: []*Field{scalar("value", 1, kind)}}
	}

	return []*File{
		wkt("any.proto", []*Message{{
			Name:    "Any",
			Fields:  []*Field{scalar("type_url", 1, KindString), scalar("value", 2, KindBytes)},
			Methods: []string{"Pack", "Unpack", "TypeName", "Is"},
		}}),
		wkt("timestamp.proto", []*Message{{
			Name:    "Timestamp",
			Fields:  []*Field{scalar("seconds", 1, KindInt64), scalar("nanos", 2, KindInt32)},
			Methods: append(append([]string{}, timeMethods...), "GetCurrentTime", "ToDatetime", "FromDatetime"),
		}}),
		wkt("duration.proto", []*Message{{
			Name:    "Duration",
			Fields:  []*Field{scalar("seconds", 1, KindInt64), scalar("nanos", 2, KindInt32)},
			Methods: append(append([]string{}, timeMethods...), "ToTimedelta", "FromTimedelta"),
		}}),
		wkt("field_mask.proto", []*Message{{
			Name:   "FieldMask",
			Fields: []*Field{{Name: "paths", Number: 1, Label: LabelRepeated, Kind: KindString}},
			Methods: []string{
				"ToJsonString",
				"FromJsonString",
				"IsValidForDescriptor",
				"AllFieldsFromDescriptor",
				"CanonicalFormFromMask",
				"Union",
				"Intersect",
				"MergeMessage",
			},
		}}),
		wkt("struct.proto", []*Message{structType, valueType, listValueType}, nullValue),
		wkt("empty.proto", []*Message{{Name: "Empty"}}),
		wkt("wrappers.proto", []*Message{
			wrapper("DoubleValue", KindDouble),
			wrapper("FloatValue", KindFloat),
			wrapper("Int64Value", KindInt64),
			wrapper("UInt64Value", KindUint64),
			wrapper("Int32Value", KindInt32),
			wrapper("UInt32Value", KindUint32),
			wrapper("BoolValue", KindBool),
			wrapper("StringValue", KindString),
			wrapper("BytesValue", KindBytes),
		}),
	}
}
