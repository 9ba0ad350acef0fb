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

//go:build !debug

// Package debug includes debugging helpers, compiled in only under the
// debug build tag. Release builds pay nothing for them.
package debug

// Enabled is true when built with the debug tag.
const Enabled = false

// Logf does nothing without the debug tag.
func Logf(string, ...any) {}

// Assert does nothing without the debug tag.
func Assert(bool, string, ...any) {}
