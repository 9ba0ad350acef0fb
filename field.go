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

// Member is one entry of a message's field list: a value container paired
// with a field id, and (for non-aggregate members) a presence policy.
//
// The set of implementations is closed: [ScalarField], [StringField],
// [MessageField], [ArrayField] and [MapField]. Codecs and the validation
// pipeline dispatch over that set; user code cannot add to it.
type Member interface {
	// ID returns the field id, unique within the owning message.
	ID() FieldID
	// Kind discriminates the container behind this member.
	Kind() Kind

	isMember()
}

// scalarMember, stringMember and messageMember are the codec-facing views
// of the presence-carrying members, erased over their type parameters.
type scalarMember interface {
	Member
	presence() Presence
	isSet() bool
	markSet(set bool)
	container() scalarContainer
}

type stringMember interface {
	Member
	presence() Presence
	isSet() bool
	markSet(set bool)
	container() *String
}

type messageMember interface {
	Member
	presence() Presence
	isSet() bool
	markSet(set bool)
	message() Message
}

// ScalarField pairs a [Scalar] with a field id and presence policy.
type ScalarField[T ScalarValue] struct {
	id    FieldID
	pres  Presence
	set   bool
	value *Scalar[T]
}

// NewScalarField builds an unset scalar field.
func NewScalarField[T ScalarValue](id FieldID, pres Presence, validators ...Validator[T]) *ScalarField[T] {
	return &ScalarField[T]{id: id, pres: pres, value: NewScalar[T](validators...)}
}

// ID returns the field id.
func (f *ScalarField[T]) ID() FieldID { return f.id }

// Kind returns [KindScalar].
func (f *ScalarField[T]) Kind() Kind { return KindScalar }

func (f *ScalarField[T]) isMember() {}

// Set validates v, stores it and marks the field present. On failure the
// field is unchanged and the error carries this field's id.
func (f *ScalarField[T]) Set(v T) error {
	if err := f.value.setWithID(v, f.id); err != nil {
		return err
	}
	f.set = true
	return nil
}

// SetUnchecked stores v and marks the field present without validating.
func (f *ScalarField[T]) SetUnchecked(v T) {
	f.value.SetUnchecked(v)
	f.set = true
}

// Get returns the stored value; the zero value of T when unset.
func (f *ScalarField[T]) Get() T { return f.value.Get() }

// IsSet reports whether the field is present.
func (f *ScalarField[T]) IsSet() bool { return f.set }

// Clear unsets the field and zeroes the value.
func (f *ScalarField[T]) Clear() {
	f.value.Clear()
	f.set = false
}

func (f *ScalarField[T]) presence() Presence        { return f.pres }
func (f *ScalarField[T]) isSet() bool               { return f.set }
func (f *ScalarField[T]) markSet(set bool)          { f.set = set }
func (f *ScalarField[T]) container() scalarContainer { return f.value }

// StringField pairs a [String] with a field id and presence policy.
type StringField struct {
	id    FieldID
	pres  Presence
	set   bool
	value *String
}

// NewStringField builds an unset string field with room for maxSize bytes.
func NewStringField(id FieldID, pres Presence, maxSize int, validators ...Validator[string]) *StringField {
	return &StringField{id: id, pres: pres, value: NewString(maxSize, validators...)}
}

// ID returns the field id.
func (f *StringField) ID() FieldID { return f.id }

// Kind returns [KindString].
func (f *StringField) Kind() Kind { return KindString }

func (f *StringField) isMember() {}

// Set validates v, stores it and marks the field present. On failure the
// field is unchanged and the error carries this field's id.
func (f *StringField) Set(v string) error {
	if err := f.value.setWithID(v, f.id); err != nil {
		return err
	}
	f.set = true
	return nil
}

// Get returns the stored string; "" when unset.
func (f *StringField) Get() string { return f.value.Get() }

// Len returns the current length in bytes.
func (f *StringField) Len() int { return f.value.Len() }

// MaxSize returns the capacity in bytes.
func (f *StringField) MaxSize() int { return f.value.MaxSize() }

// IsSet reports whether the field is present.
func (f *StringField) IsSet() bool { return f.set }

// Clear unsets the field and zeroes the storage.
func (f *StringField) Clear() {
	f.value.Clear()
	f.set = false
}

func (f *StringField) presence() Presence { return f.pres }
func (f *StringField) isSet() bool        { return f.set }
func (f *StringField) markSet(set bool)   { f.set = set }
func (f *StringField) container() *String { return f.value }

// MessageField pairs a nested message with a field id and presence policy.
// The nested message instance is owned by the field; [MessageField.Get]
// exposes it live for reading and in-place mutation.
type MessageField[M Message] struct {
	id   FieldID
	pres Presence
	set  bool
	msg  M
}

// NewMessageField builds an unset message field around msg, which becomes
// the field's backing instance.
func NewMessageField[M Message](id FieldID, pres Presence, msg M) *MessageField[M] {
	return &MessageField[M]{id: id, pres: pres, msg: msg}
}

// ID returns the field id.
func (f *MessageField[M]) ID() FieldID { return f.id }

// Kind returns [KindMessage].
func (f *MessageField[M]) Kind() Kind { return KindMessage }

func (f *MessageField[M]) isMember() {}

// Set validates m with the full pipeline, copies it into the backing
// instance and marks the field present. On failure the field is unchanged.
func (f *MessageField[M]) Set(m M) error {
	if err := Validate(m); err != nil {
		return err
	}
	if err := elementFits(f.msg, m); err != nil {
		return withField(err, f.id)
	}
	copyMessage(f.msg, m)
	f.set = true
	return nil
}

// Get returns the backing message. Mutations through it are visible to
// the field, but do not mark it present; use [MessageField.Mutable] when
// building in place.
func (f *MessageField[M]) Get() M { return f.msg }

// Mutable marks the field present and returns the backing message for
// in-place population.
func (f *MessageField[M]) Mutable() M {
	f.set = true
	return f.msg
}

// IsSet reports whether the field is present.
func (f *MessageField[M]) IsSet() bool { return f.set }

// Clear unsets the field and resets the backing message.
func (f *MessageField[M]) Clear() {
	clearMessage(f.msg)
	f.set = false
}

func (f *MessageField[M]) presence() Presence { return f.pres }
func (f *MessageField[M]) isSet() bool        { return f.set }
func (f *MessageField[M]) markSet(set bool)   { f.set = set }
func (f *MessageField[M]) message() Message   { return f.msg }

// checkPresence is stage one of validation for a presence-carrying member.
func checkPresence(pres Presence, set bool, id FieldID) error {
	if pres == Required && !set {
		return errValidation(id, "field is required but not set")
	}
	return nil
}

// equalMember reports deep equality of two members occupying the same
// position in two instances of the same message type. Unset fields
// compare equal only to unset fields.
func equalMember(a, b Member) bool {
	switch x := a.(type) {
	case scalarMember:
		y, ok := b.(scalarMember)
		if !ok || x.isSet() != y.isSet() {
			return false
		}
		return !x.isSet() || elementEqual(x.container(), y.container())
	case stringMember:
		y, ok := b.(stringMember)
		if !ok || x.isSet() != y.isSet() {
			return false
		}
		return !x.isSet() || elementEqual(x.container(), y.container())
	case messageMember:
		y, ok := b.(messageMember)
		if !ok || x.isSet() != y.isSet() {
			return false
		}
		return !x.isSet() || Equal(x.message(), y.message())
	case arrayAccess:
		y, ok := b.(arrayAccess)
		return ok && arrayEqual(x, y)
	case mapAccess:
		y, ok := b.(mapAccess)
		return ok && mapEqual(x, y)
	default:
		return false
	}
}
