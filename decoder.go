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

// Decoder dispatches incoming buffers to message types by the header's
// message id. Register one constructor per expected type; Decode builds a
// fresh instance for each successfully parsed buffer.
type Decoder struct {
	codec     Codec
	integrity IntegrityPolicy
	protos    map[MessageID]func() Message
}

// NewDecoder builds a decoder over the given message constructors. Each
// constructed type is schema-checked, and two constructors may not claim
// the same message id.
func NewDecoder(c Codec, p IntegrityPolicy, protos ...func() Message) (*Decoder, error) {
	d := &Decoder{
		codec:     c,
		integrity: p,
		protos:    make(map[MessageID]func() Message, len(protos)),
	}
	for _, proto := range protos {
		m := proto()
		if err := CheckMessage(m); err != nil {
			return nil, err
		}
		id := m.MessageID()
		if _, dup := d.protos[id]; dup {
			return nil, fmt.Errorf("crunch: duplicate message id %d", id)
		}
		d.protos[id] = proto
	}
	return d, nil
}

// Decode verifies buf's integrity and header, constructs the registered
// type for the header's message id, and runs the full receive pipeline
// on it. A message id with no registered constructor fails with
// [CodeInvalidMessageID].
func (d *Decoder) Decode(buf []byte) (Message, error) {
	body, err := checkIntegrity(d.integrity, buf)
	if err != nil {
		return nil, err
	}
	h, err := parseHeader(body)
	if err != nil {
		return nil, err
	}
	proto, ok := d.protos[h.msgID]
	if !ok {
		return nil, errInvalidMessageID()
	}
	m := proto()
	if err := validateHeader(body, d.codec.Format(), h.msgID); err != nil {
		return nil, err
	}
	if err := d.codec.decode(body, m); err != nil {
		return nil, err
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}
