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

	"github.com/hashicorp/hcl/v2"
	"github.com/pkg/errors"
)

// ErrorKind classifies evaluation failures. Callers rely on telling the kinds apart, e.g. an unknown leading name
// from a missing attribute further down a chain.
type ErrorKind int

const (
	// NameNotFound means an identifier is not visible in any scope level.
	NameNotFound ErrorKind = iota + 1
	// AttributeNotFound means a value in an attribute chain has no attribute of the given name.
	AttributeNotFound
	// KeyNotFound means a literal dict has no entry for a constant key.
	KeyNotFound
	// IndexOutOfRange means a constant index lies outside a literal sequence.
	IndexOutOfRange
	// Unresolvable means Resolve was given an expression that is not statically decidable.
	Unresolvable
	// Unsupported means Evaluate or an assignment was given an expression shape it does not handle.
	Unsupported
	// AttributeNotAssignable means a value does not accept assignment to the given attribute.
	AttributeNotAssignable
	// EmptyScopeStack means Pop was called with only the base level left.
	EmptyScopeStack
)

var errorKindNames = map[ErrorKind]string{
	NameNotFound:           "name not found",
	AttributeNotFound:      "attribute not found",
	KeyNotFound:            "key not found",
	IndexOutOfRange:        "index out of range",
	Unresolvable:           "unresolvable expression",
	Unsupported:            "unsupported expression",
	AttributeNotAssignable: "attribute not assignable",
	EmptyScopeStack:        "empty scope stack",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is an evaluation failure.
type Error struct {
	Kind ErrorKind
	// Name is the identifier, attribute, key, or node kind the failure is about.
	Name string
	// Owner is the value that lacked the attribute, for AttributeNotFound and AttributeNotAssignable.
	Owner Value
	// Subject is the source range of the offending node, if known.
	Subject *hcl.Range

	reason error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.Name)
	if e.reason != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.reason)
	}
	return msg
}

// Reason returns the underlying error reported by a value's SetAttr, if any.
func (e *Error) Reason() error {
	return e.reason
}

// Diagnostic converts the failure into an error diagnostic.
func (e *Error) Diagnostic() *hcl.Diagnostic {
	var detail string
	switch e.Kind {
	case NameNotFound:
		detail = fmt.Sprintf("The name %q is not defined.", e.Name)
	case AttributeNotFound:
		detail = fmt.Sprintf("The value has no attribute %q.", e.Name)
	case AttributeNotAssignable:
		detail = fmt.Sprintf("The attribute %q cannot be assigned.", e.Name)
	case KeyNotFound:
		detail = fmt.Sprintf("The literal has no key %s.", e.Name)
	case IndexOutOfRange:
		detail = fmt.Sprintf("The index %s is out of range.", e.Name)
	default:
		detail = e.Error()
	}
	if e.reason != nil {
		detail = fmt.Sprintf("%s %v", detail, e.reason)
	}
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  e.Kind.String(),
		Detail:   detail,
		Subject:  e.Subject,
	}
}

func newError(kind ErrorKind, name string, subject *hcl.Range) *Error {
	return &Error{Kind: kind, Name: name, Subject: subject}
}

// withSubject fills in the subject of an evaluation failure that does not have one yet.
func withSubject(err error, subject hcl.Range) error {
	if e, ok := err.(*Error); ok && e.Subject == nil {
		e.Subject = &subject
	}
	return err
}

// NewAttributeNotFound creates an AttributeNotFound failure. Values may return it from SetAttr.
func NewAttributeNotFound(owner Value, name string) *Error {
	return &Error{Kind: AttributeNotFound, Name: name, Owner: owner}
}

// NewAttributeNotAssignable creates an AttributeNotAssignable failure. Values may return it from SetAttr.
func NewAttributeNotAssignable(owner Value, name string, reason error) *Error {
	return &Error{Kind: AttributeNotAssignable, Name: name, Owner: owner, reason: reason}
}

// AsError returns the *Error at the root of err's wrapping chain.
func AsError(err error) (*Error, bool) {
	e, ok := errors.Cause(err).(*Error)
	return e, ok
}

// KindOf returns the kind of an evaluation failure, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return 0
}

func IsNameNotFound(err error) bool {
	return KindOf(err) == NameNotFound
}

func IsAttributeNotFound(err error) bool {
	return KindOf(err) == AttributeNotFound
}

func IsUnresolvable(err error) bool {
	return KindOf(err) == Unresolvable
}

func IsUnsupported(err error) bool {
	return KindOf(err) == Unsupported
}
