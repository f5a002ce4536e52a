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

// Package contract provides assertion helpers for states that indicate a bug in protolint itself.
package contract

import (
	"fmt"

	"github.com/golang/glog"
)

const assertMsg = "An assertion has failed"
const failMsg = "A failure has occurred"

// Assert checks a condition and Fails if it is false.
func Assert(cond bool) {
	if !cond {
		failfast(assertMsg)
	}
}

// Assertf checks a condition and Failfs if it is false, formatting and logging the given message.
func Assertf(cond bool, msg string, args ...interface{}) {
	if !cond {
		failfast(fmt.Sprintf("%v: %v", assertMsg, fmt.Sprintf(msg, args...)))
	}
}

// Failf unconditionally panics with the given message.
func Failf(msg string, args ...interface{}) {
	failfast(fmt.Sprintf("%v: %v", failMsg, fmt.Sprintf(msg, args...)))
}

// IgnoreError explicitly drops an error that cannot be handled in a useful way.
func IgnoreError(_ error) {}

// IgnoreClose closes a resource and drops any error.
func IgnoreClose(cr interface{ Close() error }) {
	IgnoreError(cr.Close())
}

func failfast(msg string) {
	glog.Errorf("%v", msg)
	glog.Flush()
	panic(msg)
}
