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

package crunch

// Validate runs the full validation pipeline on m, in three strictly
// ordered stages, stopping at the first failure:
//
//  1. Presence. Every Required scalar, string and submessage field must
//     be set. Arrays and maps have no presence stage.
//  2. Values, in declared field order. Set scalars and strings re-run
//     their validators; set submessages recurse into this whole pipeline,
//     so a nested failure surfaces with the nested field's id; arrays and
//     maps validate their elements and then their length validators.
//  3. Cross-field. The message's own Validate hook runs last, and only
//     if every field passed.
func Validate(m Message) error {
	fields := m.Fields()

	for _, f := range fields {
		switch v := f.(type) {
		case scalarMember:
			if err := checkPresence(v.presence(), v.isSet(), v.ID()); err != nil {
				return err
			}
		case stringMember:
			if err := checkPresence(v.presence(), v.isSet(), v.ID()); err != nil {
				return err
			}
		case messageMember:
			if err := checkPresence(v.presence(), v.isSet(), v.ID()); err != nil {
				return err
			}
		}
	}

	for _, f := range fields {
		switch v := f.(type) {
		case scalarMember:
			if v.isSet() {
				if err := v.container().validateWithIDErased(v.ID()); err != nil {
					return err
				}
			}
		case stringMember:
			if v.isSet() {
				if err := v.container().validateWithID(v.ID()); err != nil {
					return err
				}
			}
		case messageMember:
			if v.isSet() {
				if err := Validate(v.message()); err != nil {
					return err
				}
			}
		case arrayAccess:
			if err := v.validateErased(); err != nil {
				return err
			}
		case mapAccess:
			if err := v.validateErased(); err != nil {
				return err
			}
		}
	}

	return m.Validate()
}
