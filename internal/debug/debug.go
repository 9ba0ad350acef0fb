// Copyright 2025-2026 Sam Yellin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build debug

// Package debug includes debugging helpers, compiled in only under the
// debug build tag. Release builds pay nothing for them.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Enabled is true when built with the debug tag.
const Enabled = true

// Logf prints debugging information to stderr, prefixed with the calling
// file and line.
func Logf(format string, args ...any) {
	_, file, line, _ := runtime.Caller(1)
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s:%d: %s\n", filepath.Base(file), line, msg)
}

// Assert panics if cond is false, but only in debug mode.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("crunch: internal assertion failed: "+format, args...))
	}
}
