// Copyright 2024 The om-nomnomnom Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"fmt"
	"math"
	"strconv"
)

// A SampleValue is a representation of a value for a given sample at a given
// time. The distinguished IEEE-754 values +Inf, -Inf, and NaN are admitted.
type SampleValue float64

// Equal does a straight v==o.
func (v SampleValue) Equal(o SampleValue) bool {
	return v == o
}

// IsNonNegativeInteger reports whether the value is a non-negative integer
// representable as a double, the constraint on _count samples.
func (v SampleValue) IsNonNegativeInteger() bool {
	f := float64(v)
	return f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
}

// MarshalJSON implements json.Marshaler. The value is quoted so that +Inf,
// -Inf, and NaN survive the trip through JSON.
func (v SampleValue) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", v.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *SampleValue) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("sample value must be a quoted string")
	}
	f, err := strconv.ParseFloat(string(b[1:len(b)-1]), 64)
	if err != nil {
		return err
	}
	*v = SampleValue(f)
	return nil
}

func (v SampleValue) String() string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, +1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
