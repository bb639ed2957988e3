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
	"math"
	"testing"
)

func TestSampleValueString(t *testing.T) {
	for want, v := range map[string]SampleValue{
		"1":     1,
		"-1.5":  -1.5,
		"1e+42": 1e42,
		"+Inf":  SampleValue(math.Inf(+1)),
		"-Inf":  SampleValue(math.Inf(-1)),
		"NaN":   SampleValue(math.NaN()),
	} {
		if got := v.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestSampleValueJSON(t *testing.T) {
	for _, v := range []SampleValue{0, 1.5, SampleValue(math.Inf(+1)), SampleValue(math.Inf(-1))} {
		b, err := v.MarshalJSON()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		var back SampleValue
		if err := back.UnmarshalJSON(b); err != nil {
			t.Fatalf("unexpected error for %s: %s", b, err)
		}
		if !back.Equal(v) {
			t.Errorf("expected %v to round trip, got %v", v, back)
		}
	}

	var v SampleValue
	if err := v.UnmarshalJSON([]byte(`1.5`)); err == nil {
		t.Errorf("expected an error for an unquoted value")
	}
}

func TestIsNonNegativeInteger(t *testing.T) {
	yes := []SampleValue{0, 1, 12, 1e15}
	for _, v := range yes {
		if !v.IsNonNegativeInteger() {
			t.Errorf("expected %v to qualify", v)
		}
	}
	no := []SampleValue{-1, 0.5, 12.75, SampleValue(math.Inf(+1)), SampleValue(math.NaN())}
	for _, v := range no {
		if v.IsNonNegativeInteger() {
			t.Errorf("expected %v not to qualify", v)
		}
	}
}
