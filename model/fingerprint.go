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
)

// A Fingerprint is a stable hash of a label set, used to key series maps.
// Two label sets with equal content always produce the same fingerprint
// under the same hash; distinct label sets may collide, so users must fall
// back to LabelSet.Equal on collision.
type Fingerprint uint64

// FingerprintFromString transforms a string representation into a Fingerprint.
func FingerprintFromString(s string) (Fingerprint, error) {
	num, err := strconv.ParseUint(s, 16, 64)
	return Fingerprint(num), err
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Less compares fingerprints by their numeric value.
func (f Fingerprint) Less(o Fingerprint) bool {
	return f < o
}

// Equal does a straight f==o.
func (f Fingerprint) Equal(o Fingerprint) bool {
	return f == o
}

// Fingerprints represents a collection of Fingerprint subject to a given
// natural sorting scheme. It implements sort.Interface.
type Fingerprints []Fingerprint

func (f Fingerprints) Len() int {
	return len(f)
}

func (f Fingerprints) Less(i, j int) bool {
	return f[i] < f[j]
}

func (f Fingerprints) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
}
