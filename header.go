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

import "github.com/sam-w-yellin/crunch/internal/wire"

// header is the fixed prefix shared by every wire format:
// [version (1)] [format (1)] [message id (4, little-endian)].
type header struct {
	version byte
	format  Format
	msgID   MessageID
}

// writeHeader writes the header at the start of b, which must hold at
// least HeaderSize bytes.
func writeHeader(b []byte, format Format, id MessageID) int {
	b[0] = Version
	b[1] = byte(format)
	wire.PutFixed(b[2:], uint64(uint32(id)), 4)
	return HeaderSize
}

// parseHeader reads the header without judging its contents.
func parseHeader(b []byte) (header, error) {
	if len(b) < HeaderSize {
		return header{}, errDeserialization("buffer too small for header")
	}
	raw, _ := wire.Fixed(b[2:], 4)
	return header{
		version: b[0],
		format:  Format(b[1]),
		msgID:   MessageID(int32(uint32(raw))),
	}, nil
}

// validateHeader parses the header and checks it against what the caller
// expects, in order: version, then format, then message id.
func validateHeader(b []byte, format Format, id MessageID) error {
	h, err := parseHeader(b)
	if err != nil {
		return err
	}
	if h.version != Version {
		return errDeserialization("unsupported version")
	}
	if h.format != format {
		return errInvalidFormat()
	}
	if h.msgID != id {
		return errInvalidMessageID()
	}
	return nil
}
