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
	"sort"

	"github.com/pulumi/protolint/pkg/util/logging"
)

type level map[string]Value

func (l level) bindReference(name string) (Value, bool) {
	v, ok := l[name]
	return v, ok
}

// Scope is a stack of name to value mappings. Lookups read the innermost level that defines a name. The base level
// is never popped.
//
// A Scope is owned by a single analysis pass and is not safe for concurrent use.
type Scope struct {
	stack []level
}

// NewScope creates a scope whose base level holds a copy of the given bindings.
func NewScope(globals map[string]Value) *Scope {
	s := &Scope{}
	s.Push(globals)
	return s
}

// Push adds a new innermost level holding a copy of the given bindings, which shadow any outer bindings of the same
// names until the level is popped. A nil or empty mapping adds a level that only reads through.
func (s *Scope) Push(bindings map[string]Value) {
	next := make(level, len(bindings))
	for name, v := range bindings {
		next[name] = v
	}
	s.stack = append(s.stack, next)
}

// Pop discards the innermost level.
func (s *Scope) Pop() error {
	if len(s.stack) <= 1 {
		return newError(EmptyScopeStack, "pop", nil)
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// Depth returns the number of levels, including the base level.
func (s *Scope) Depth() int {
	return len(s.stack)
}

func (s *Scope) definingLevel(name string) (level, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if _, ok := s.stack[i].bindReference(name); ok {
			return s.stack[i], true
		}
	}
	return nil, false
}

// BindReference returns the value bound to name by the innermost level that defines it.
func (s *Scope) BindReference(name string) (Value, bool) {
	if l, ok := s.definingLevel(name); ok {
		return l[name], true
	}
	return nil, false
}

// Lookup is BindReference with a NameNotFound failure for unbound names.
func (s *Scope) Lookup(name string) (Value, error) {
	v, ok := s.BindReference(name)
	if !ok {
		return nil, newError(NameNotFound, name, nil)
	}
	return v, nil
}

// Assign rebinds name in the level that currently defines it, or binds it in the innermost level if no level does.
func (s *Scope) Assign(name string, value Value) {
	l, ok := s.definingLevel(name)
	if !ok {
		l = s.stack[len(s.stack)-1]
	}
	if logging.V(9) {
		logging.Infof("scope: %s = %v (depth %d)", name, value, len(s.stack))
	}
	l[name] = value
}

// Names returns the sorted names visible from the innermost level.
func (s *Scope) Names() []string {
	seen := map[string]struct{}{}
	for _, l := range s.stack {
		for name := range l {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
