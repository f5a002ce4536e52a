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

package evaluation

import (
	"fmt"
	"sort"
	"strings"
)

// Value is any analysis-time value: a constant (cty.Value), a type descriptor, a live stand-in object, etc. The
// engine never inspects a value except through the capabilities below.
type Value interface{}

// Attributable is a value that supports attribute lookup.
type Attributable interface {
	GetAttr(name string) (Value, bool)
}

// MutableAttributable is a value that also supports attribute assignment.
type MutableAttributable interface {
	Attributable

	// SetAttr assigns to the named attribute. Implementations may return an *Error to control the failure kind.
	SetAttr(name string, value Value) error
}

type unknown struct{}

func (unknown) String() string {
	return "<unknown>"
}

// Unknown stands for a value that analysis could not determine. It has no attributes.
var Unknown Value = unknown{}

// Object is a mutable bag of attributes with reference semantics. The zero value is an empty object.
type Object struct {
	Name  string
	attrs map[string]Value
}

// NewObject creates an object with a copy of the given attributes.
func NewObject(name string, attrs map[string]Value) *Object {
	o := &Object{Name: name, attrs: make(map[string]Value, len(attrs))}
	for k, v := range attrs {
		o.attrs[k] = v
	}
	return o
}

func (o *Object) GetAttr(name string) (Value, bool) {
	v, ok := o.attrs[name]
	return v, ok
}

func (o *Object) SetAttr(name string, value Value) error {
	if o.attrs == nil {
		o.attrs = map[string]Value{}
	}
	o.attrs[name] = value
	return nil
}

func (o *Object) String() string {
	names := make([]string, 0, len(o.attrs))
	for name := range o.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("<%s {%s}>", o.Name, strings.Join(names, ", "))
}
