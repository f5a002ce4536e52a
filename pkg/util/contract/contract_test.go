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

package contract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssert(t *testing.T) {
	assert.NotPanics(t, func() { Assert(true) })
	assert.Panics(t, func() { Assert(false) })
}

func TestAssertf(t *testing.T) {
	assert.NotPanics(t, func() { Assertf(true, "unused %v", 1) })
	assert.PanicsWithValue(t, "An assertion has failed: bad value 42", func() {
		Assertf(false, "bad value %v", 42)
	})
}

func TestFailf(t *testing.T) {
	assert.PanicsWithValue(t, "A failure has occurred: unexpected node *int", func() {
		Failf("unexpected node %T", new(int))
	})
}

func TestIgnoreError(t *testing.T) {
	assert.NotPanics(t, func() { IgnoreError(errors.New("dropped")) })
}
