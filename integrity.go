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

// IntegrityPolicy computes the checksum trailer appended to every
// serialized message. The trailer covers the header and payload; it is
// verified before any parsing happens on deserialize.
type IntegrityPolicy interface {
	// Size returns the trailer length in bytes.
	Size() int
	// Sum writes the checksum of data into dst, which has length Size().
	Sum(data []byte, dst []byte)
}

// Built-in integrity policies.
var (
	// IntegrityNone adds no trailer and performs no check.
	IntegrityNone IntegrityPolicy = integrityNone{}
	// IntegrityParity adds a 1-byte XOR parity trailer. It catches any
	// single-bit corruption and little else.
	IntegrityParity IntegrityPolicy = integrityParity{}
	// IntegrityCRC16 adds a 2-byte CRC-16-CCITT trailer (polynomial
	// 0x1021, initial value 0xFFFF), stored big-endian.
	IntegrityCRC16 IntegrityPolicy = integrityCRC16{}
)

type integrityNone struct{}

func (integrityNone) Size() int       { return 0 }
func (integrityNone) Sum(_, _ []byte) {}

type integrityParity struct{}

func (integrityParity) Size() int { return 1 }

func (integrityParity) Sum(data []byte, dst []byte) {
	var p byte
	for _, b := range data {
		p ^= b
	}
	dst[0] = p
}

type integrityCRC16 struct{}

func (integrityCRC16) Size() int { return 2 }

func (integrityCRC16) Sum(data []byte, dst []byte) {
	crc := crc16(data)
	dst[0] = byte(crc >> 8)
	dst[1] = byte(crc)
}

// crc16 is CRC-16-CCITT, bitwise. Message trailers are short and computed
// once per serialize, so no lookup table.
func crc16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// checkIntegrity verifies and strips the trailer, returning the covered
// prefix.
func checkIntegrity(p IntegrityPolicy, buf []byte) ([]byte, error) {
	n := p.Size()
	if n == 0 {
		return buf, nil
	}
	if len(buf) < n {
		return nil, errIntegrity()
	}
	body, trailer := buf[:len(buf)-n], buf[len(buf)-n:]
	var a [8]byte
	sum := a[:]
	if n > len(a) {
		sum = make([]byte, n)
	}
	p.Sum(body, sum[:n])
	for i := 0; i < n; i++ {
		if sum[i] != trailer[i] {
			return nil, errIntegrity()
		}
	}
	return body, nil
}
