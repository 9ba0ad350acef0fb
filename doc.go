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

// Package crunch is a message-definition and serialization toolkit for
// resource-constrained, mission-critical software.
//
// A message is an ordered collection of fields: scalars, strings, enums,
// nested messages, fixed-capacity arrays and fixed-capacity maps. Every
// container has a static capacity chosen at construction; storage is
// allocated up front and never grows or moves afterwards. Fallible
// operations report a [*Error]; there are no panics on hot paths.
//
// Messages serialize through one of two wire formats:
//
//   - A fixed layout ([CodecPacked], [CodecAligned4], [CodecAligned8]) whose
//     byte length is fully determined by the message schema and chosen
//     alignment. Absent fields are zero-filled, not omitted, so two
//     instances of the same type always occupy the same number of bytes.
//
//   - A Tag-Length-Value layout ([CodecTLV]) with protobuf-style base-128
//     varints, where absent fields cost nothing on the wire.
//
// Either format may be combined with an integrity policy ([IntegrityNone],
// [IntegrityParity], [IntegrityCRC16]) that appends a checksum trailer
// verified before any parsing happens.
//
// [Buffer.Serialize] validates a message before encoding it, and
// [Buffer.Deserialize] re-validates after decoding, so a buffer that
// parses structurally but violates field or cross-field rules is still
// rejected. The explicit bypasses ([Buffer.SerializeWithoutValidation],
// [Scalar.SetUnchecked]) are the only ways around this.
//
// Messages are plain values with no internal locking; concurrent use of a
// single message or [Buffer] must be serialized by the caller.
package crunch
