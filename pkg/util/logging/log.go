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

// Package logging wraps glog so that the rest of protolint has a single place to configure verbosity.
//
// Verbosity levels follow a rough convention: V(3) for per-file progress, V(7) for engine and checker decisions,
// and V(9) for full value dumps.
package logging

import (
	"flag"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// LogToStderr is true when logs are written to stderr instead of files.
var LogToStderr = false

// Verbose is the current verbosity level.
var Verbose = 0

// InitLogging configures glog. It must be called before any logging happens for the settings to take effect.
func InitLogging(logToStderr bool, verbose int) error {
	LogToStderr, Verbose = logToStderr, verbose

	if logToStderr {
		if err := setFlag("logtostderr", "true"); err != nil {
			return err
		}
	}
	if verbose > 0 {
		if err := setFlag("v", strconv.Itoa(verbose)); err != nil {
			return err
		}
	}
	return nil
}

func setFlag(name, value string) error {
	f := flag.Lookup(name)
	if f == nil {
		return errors.Errorf("glog flag %q is not registered", name)
	}
	return errors.Wrapf(f.Value.Set(value), "setting glog flag %q", name)
}

// V reports whether verbosity at the call site is at least the requested level.
func V(level glog.Level) glog.Verbose {
	return glog.V(level)
}

func Infof(msg string, args ...interface{}) {
	glog.Infof(msg, args...)
}

func Warningf(msg string, args ...interface{}) {
	glog.Warningf(msg, args...)
}

func Errorf(msg string, args ...interface{}) {
	glog.Errorf(msg, args...)
}

// Flush writes any buffered log entries.
func Flush() {
	glog.Flush()
}
