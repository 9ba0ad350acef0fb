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

import (
	"errors"
	"fmt"
)

// Code classifies a failure.
type Code uint8

const (
	// CodeUnknown is the zero Code.
	CodeUnknown Code = iota
	// CodeIntegrityCheckFailed reports a checksum mismatch on deserialize.
	CodeIntegrityCheckFailed
	// CodeDeserializationError reports a structural parse failure.
	CodeDeserializationError
	// CodeValidationFailed reports a presence, value or cross-field failure.
	CodeValidationFailed
	// CodeInvalidMessageID reports a header message id mismatch.
	CodeInvalidMessageID
	// CodeInvalidFormat reports a header format mismatch.
	CodeInvalidFormat
	// CodeCapacityExceeded reports a write that would overflow a
	// fixed-capacity container.
	CodeCapacityExceeded
)

// Sentinels matched by [errors.Is] against any [*Error] of that code.
var (
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
	ErrDeserialization      = errors.New("deserialization error")
	ErrValidationFailed     = errors.New("validation failed")
	ErrInvalidMessageID     = errors.New("invalid message id")
	ErrInvalidFormat        = errors.New("invalid serialization format")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
)

var sentinels = [...]error{
	CodeUnknown:              nil,
	CodeIntegrityCheckFailed: ErrIntegrityCheckFailed,
	CodeDeserializationError: ErrDeserialization,
	CodeValidationFailed:     ErrValidationFailed,
	CodeInvalidMessageID:     ErrInvalidMessageID,
	CodeInvalidFormat:        ErrInvalidFormat,
	CodeCapacityExceeded:     ErrCapacityExceeded,
}

// Error is the error value returned by every fallible operation.
//
// Field is the id of the offending field, or 0 when no field applies.
// Message is a static description; it is never built from wire content.
type Error struct {
	Code    Code
	Field   FieldID
	Message string
}

// NewValidationError builds a cross-field validation failure. It is the
// error a [Message.Validate] implementation should return.
func NewValidationError(id FieldID, msg string) *Error {
	return &Error{Code: CodeValidationFailed, Field: id, Message: msg}
}

func errIntegrity() *Error {
	return &Error{Code: CodeIntegrityCheckFailed, Message: "integrity check failed"}
}

func errValidation(id FieldID, msg string) *Error {
	return &Error{Code: CodeValidationFailed, Field: id, Message: msg}
}

func errDeserialization(msg string) *Error {
	return &Error{Code: CodeDeserializationError, Message: msg}
}

func errInvalidMessageID() *Error {
	return &Error{Code: CodeInvalidMessageID, Message: "invalid message id"}
}

func errInvalidFormat() *Error {
	return &Error{Code: CodeInvalidFormat, Message: "invalid serialization format"}
}

func errCapacity(id FieldID, msg string) *Error {
	return &Error{Code: CodeCapacityExceeded, Field: id, Message: msg}
}

// withField stamps id onto an error that was produced without field
// context. Errors that already carry a field id are left alone.
func withField(err error, id FieldID) error {
	var e *Error
	if errors.As(err, &e) && e.Field == 0 && id != 0 {
		stamped := *e
		stamped.Field = id
		return &stamped
	}
	return err
}

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *Error) Unwrap() error {
	if int(e.Code) < len(sentinels) {
		return sentinels[e.Code]
	}
	return nil
}

// Error implements [error].
func (e *Error) Error() string {
	if e.Field != 0 {
		return fmt.Sprintf("crunch: field %d: %s", e.Field, e.Message)
	}
	return "crunch: " + e.Message
}
