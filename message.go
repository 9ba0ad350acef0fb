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

import "fmt"

// Message is the declaration surface for an application message type.
//
// MessageID must be constant for the type. Fields must return the same
// members in the same declared order on every call; the slice identifies
// the message's live containers, not copies. Validate holds cross-field
// rules only; per-field rules belong on the fields themselves, and the
// pipeline in [Validate] runs both.
type Message interface {
	MessageID() MessageID
	Fields() []Member
	Validate() error
}

// Equal reports deep field-wise equality. Messages of different types are
// never equal. Map members compare as unordered sets.
func Equal(a, b Message) bool {
	if a.MessageID() != b.MessageID() {
		return false
	}
	fa, fb := a.Fields(), b.Fields()
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if !equalMember(fa[i], fb[i]) {
			return false
		}
	}
	return true
}

func copyMessage(dst, src Message) {
	fd, fs := dst.Fields(), src.Fields()
	for i := range fs {
		copyMember(fd[i], fs[i])
	}
}

func copyMember(dst, src Member) {
	switch s := src.(type) {
	case scalarMember:
		d := dst.(scalarMember)
		d.container().storeBits(s.container().loadBits())
		d.markSet(s.isSet())
	case stringMember:
		d := dst.(stringMember)
		d.container().setRaw(s.container().raw(), s.container().Len())
		d.markSet(s.isSet())
	case messageMember:
		d := dst.(messageMember)
		copyMessage(d.message(), s.message())
		d.markSet(s.isSet())
	case arrayAccess:
		arrayCopy(dst.(arrayAccess), s)
	case mapAccess:
		mapCopy(dst.(mapAccess), s)
	}
}

func clearMessage(m Message) {
	for _, f := range m.Fields() {
		switch v := f.(type) {
		case scalarMember:
			v.container().clearErased()
			v.markSet(false)
		case stringMember:
			v.container().Clear()
			v.markSet(false)
		case messageMember:
			clearMessage(v.message())
			v.markSet(false)
		case arrayAccess:
			v.clearAll()
		case mapAccess:
			v.clearAll()
		}
	}
}

// CheckMessage verifies a message type's schema: every field id in range
// and unique within its message, and no message type nested inside
// itself (direct or through arrays and maps). It walks nested messages
// and aggregate element prototypes recursively.
//
// [NewBuffer] and [NewDecoder] run this automatically; call it directly
// when declaring types far from their first use.
func CheckMessage(m Message) error {
	return checkMessage(m, nil)
}

func checkMessage(m Message, path []MessageID) error {
	id := m.MessageID()
	for _, seen := range path {
		if seen == id {
			return fmt.Errorf("crunch: message %d nested within itself", id)
		}
	}
	path = append(path, id)

	seen := make(map[FieldID]bool, len(m.Fields()))
	for _, f := range m.Fields() {
		fid := f.ID()
		if fid < 1 || fid > MaxFieldID {
			return fmt.Errorf("crunch: message %d: field id %d out of range", id, fid)
		}
		if seen[fid] {
			return fmt.Errorf("crunch: message %d: duplicate field id %d", id, fid)
		}
		seen[fid] = true

		if err := checkMemberNesting(f, path); err != nil {
			return err
		}
	}
	return nil
}

// checkMemberNesting recurses into every place a message type can hide:
// submessage fields, array element prototypes, map key and value
// prototypes, and nested aggregates thereof.
func checkMemberNesting(f Member, path []MessageID) error {
	switch v := f.(type) {
	case messageMember:
		return checkMessage(v.message(), path)
	case arrayAccess:
		if v.capSlots() > 0 {
			return checkElementNesting(v.slot(0), path)
		}
	case mapAccess:
		if v.capSlots() > 0 {
			if err := checkElementNesting(v.keySlot(0), path); err != nil {
				return err
			}
			return checkElementNesting(v.valSlot(0), path)
		}
	}
	return nil
}

func checkElementNesting(e any, path []MessageID) error {
	switch v := e.(type) {
	case Message:
		return checkMessage(v, path)
	case arrayAccess:
		if v.capSlots() > 0 {
			return checkElementNesting(v.slot(0), path)
		}
	case mapAccess:
		if v.capSlots() > 0 {
			if err := checkElementNesting(v.keySlot(0), path); err != nil {
				return err
			}
			return checkElementNesting(v.valSlot(0), path)
		}
	}
	return nil
}
