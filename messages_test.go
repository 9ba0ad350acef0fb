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

// Shared message types for the package tests.

const (
	pingID      MessageID = 0x12345678
	fixID       MessageID = 0x0202
	telemetryID MessageID = 0x0201
)

// ping is the minimal two-field message: one required positive int32,
// one optional int16.
type ping struct {
	F1 *ScalarField[int32]
	F2 *ScalarField[int16]
}

func newPing() *ping {
	return &ping{
		F1: NewScalarField[int32](1, Required, Positive[int32]()),
		F2: NewScalarField[int16](2, Optional),
	}
}

func (m *ping) MessageID() MessageID { return pingID }
func (m *ping) Fields() []Member     { return []Member{m.F1, m.F2} }
func (m *ping) Validate() error      { return nil }

// fixQuality is a named enum type stored in a scalar field.
type fixQuality int32

const (
	fixNone fixQuality = iota
	fix2D
	fix3D
)

type gpsFix struct {
	Lat  *ScalarField[float64]
	Lon  *ScalarField[float64]
	Qual *ScalarField[fixQuality]
}

func newGPSFix() *gpsFix {
	return &gpsFix{
		Lat:  NewScalarField[float64](1, Required, IsFinite[float64]()),
		Lon:  NewScalarField[float64](2, Required, IsFinite[float64]()),
		Qual: NewScalarField[fixQuality](3, Optional, OneOf(fixNone, fix2D, fix3D)),
	}
}

func (m *gpsFix) MessageID() MessageID { return fixID }
func (m *gpsFix) Fields() []Member     { return []Member{m.Lat, m.Lon, m.Qual} }
func (m *gpsFix) Validate() error      { return nil }

// telemetry exercises every container kind plus a cross-field rule.
type telemetry struct {
	Name    *StringField
	Seq     *ScalarField[uint32]
	Temp    *ScalarField[int16]
	Fix     *MessageField[*gpsFix]
	Samples *ArrayField[*Scalar[int32]]
	Tags    *MapField[*Scalar[uint8], *String]
	Alarm   *ScalarField[bool]
	Code    *ScalarField[uint16]
}

func newTelemetry() *telemetry {
	return &telemetry{
		Name:    NewStringField(1, Required, 16),
		Seq:     NewScalarField[uint32](2, Required),
		Temp:    NewScalarField[int16](3, Optional, GreaterThan[int16](-100)),
		Fix:     NewMessageField(4, Optional, newGPSFix()),
		Samples: NewArrayField(5, 4,
			func() *Scalar[int32] { return NewScalar[int32]() },
			LengthAtMost(4)),
		Tags: NewMapField(6, 3,
			func() *Scalar[uint8] { return NewScalar[uint8]() },
			func() *String { return NewString(8) }),
		Alarm: NewScalarField[bool](7, Optional),
		Code:  NewScalarField[uint16](8, Optional),
	}
}

func (m *telemetry) MessageID() MessageID { return telemetryID }

func (m *telemetry) Fields() []Member {
	return []Member{m.Name, m.Seq, m.Temp, m.Fix, m.Samples, m.Tags, m.Alarm, m.Code}
}

func (m *telemetry) Validate() error {
	if m.Alarm.Get() && !m.Code.IsSet() {
		return NewValidationError(m.Code.ID(), "alarm requires a code")
	}
	return nil
}

// validTelemetry builds an instance that passes the full pipeline, with
// every container populated.
func validTelemetry() *telemetry {
	m := newTelemetry()
	if err := m.Name.Set("unit-7"); err != nil {
		panic(err)
	}
	if err := m.Seq.Set(1042); err != nil {
		panic(err)
	}
	if err := m.Temp.Set(-40); err != nil {
		panic(err)
	}
	fix := m.Fix.Mutable()
	if err := fix.Lat.Set(59.33); err != nil {
		panic(err)
	}
	if err := fix.Lon.Set(18.07); err != nil {
		panic(err)
	}
	if err := fix.Qual.Set(fix3D); err != nil {
		panic(err)
	}
	for _, v := range []int32{5, -3, 12} {
		if err := m.Samples.Add(ScalarOf(v)); err != nil {
			panic(err)
		}
	}
	if err := m.Tags.Insert(ScalarOf[uint8](1), stringOf("gps")); err != nil {
		panic(err)
	}
	if err := m.Tags.Insert(ScalarOf[uint8](2), stringOf("imu")); err != nil {
		panic(err)
	}
	return m
}

func stringOf(s string) *String {
	v := NewString(8)
	if err := v.Set(s); err != nil {
		panic(err)
	}
	return v
}
