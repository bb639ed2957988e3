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
	"strconv"
	"strings"
	"time"
)

// A Timestamp is a point in time expressed as decimal seconds since the
// epoch, with sub-second precision preserved to the nanosecond. Sec and Nsec
// always carry the same sign.
type Timestamp struct {
	Sec  int64
	Nsec int64
}

// ParseTimestamp parses the decimal seconds representation used on sample
// lines: an optionally signed integer part with an optional fraction.
// Exponents and the Inf/NaN spellings are not valid timestamps.
func ParseTimestamp(s string) (Timestamp, error) {
	intpart, frac, hasFrac := strings.Cut(s, ".")
	sec, err := strconv.ParseInt(intpart, 10, 64)
	if err != nil {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
	}
	var nsec int64
	if hasFrac {
		// Nanosecond resolution; anything beyond is truncated.
		for len(frac) < 9 {
			frac += "0"
		}
		frac = frac[:9]
		if nsec, err = strconv.ParseInt(frac, 10, 64); err != nil || frac[0] == '-' || frac[0] == '+' {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
		}
		if strings.HasPrefix(s, "-") {
			nsec = -nsec
		}
	}
	return Timestamp{Sec: sec, Nsec: nsec}, nil
}

// TimestampFromFloat converts floating-point seconds. Precision beyond the
// double mantissa is unrecoverable; use ParseTimestamp on the wire token
// where possible.
func TimestampFromFloat(f float64) Timestamp {
	sec := int64(f)
	return Timestamp{Sec: sec, Nsec: int64((f - float64(sec)) * 1e9)}
}

// Equal reports whether two timestamps represent the same instant.
func (t Timestamp) Equal(o Timestamp) bool {
	return t.Sec == o.Sec && t.Nsec == o.Nsec
}

// Before reports whether the timestamp t is before o.
func (t Timestamp) Before(o Timestamp) bool {
	if t.Sec != o.Sec {
		return t.Sec < o.Sec
	}
	return t.Nsec < o.Nsec
}

// After reports whether the timestamp t is after o.
func (t Timestamp) After(o Timestamp) bool {
	return o.Before(t)
}

// Float64 returns the timestamp as floating-point seconds.
func (t Timestamp) Float64() float64 {
	return float64(t.Sec) + float64(t.Nsec)/1e9
}

// Time converts the timestamp to a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Sec, t.Nsec)
}

// String returns the canonical decimal-seconds representation with trailing
// fractional zeros removed.
func (t Timestamp) String() string {
	var sb strings.Builder
	if t.Sec == 0 && t.Nsec < 0 {
		sb.WriteByte('-')
	}
	sb.WriteString(strconv.FormatInt(t.Sec, 10))
	nsec := t.Nsec
	if nsec < 0 {
		nsec = -nsec
	}
	if nsec != 0 {
		frac := strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
		sb.WriteByte('.')
		sb.WriteString(frac)
	}
	return sb.String()
}

// MarshalJSON implements json.Marshaler, emitting the canonical decimal
// representation as a bare JSON number.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	ts, err := ParseTimestamp(string(b))
	if err != nil {
		return err
	}
	*t = ts
	return nil
}
