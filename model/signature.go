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
	"crypto/sha256"
	"encoding/binary"
	"hash/fnv"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// SeparatorByte is a byte that cannot occur in valid UTF-8 sequences and is
// used to separate label names, label values, and other strings from each
// other when calculating their combined hash value (aka signature aka
// fingerprint).
const SeparatorByte byte = 255

// sortedPairs returns the label names of ls sorted alphabetically. All hash
// derivations feed pairs in this order so that insertion order never leaks
// into a fingerprint.
func sortedPairs(ls LabelSet) LabelNames {
	names := make(LabelNames, 0, len(ls))
	for ln := range ls {
		names = append(names, ln)
	}
	sort.Sort(names)
	return names
}

// labelSetToFingerprint works exactly as LabelSet.Fingerprint but takes a
// LabelSet as parameter (rather than a method receiver). The default hash is
// collision-resistant: the sorted name/value pairs are fed through SHA-256
// and the first eight bytes form the fingerprint.
func labelSetToFingerprint(ls LabelSet) Fingerprint {
	h := sha256.New()
	sep := []byte{SeparatorByte}
	for _, ln := range sortedPairs(ls) {
		h.Write([]byte(ln))
		h.Write(sep)
		h.Write([]byte(ls[ln]))
		h.Write(sep)
	}
	var sum [sha256.Size]byte
	return Fingerprint(binary.BigEndian.Uint64(h.Sum(sum[:0])))
}

// labelSetToFNVFingerprint hashes the sorted pairs with FNV-64a.
func labelSetToFNVFingerprint(ls LabelSet) Fingerprint {
	h := fnv.New64a()
	sep := []byte{SeparatorByte}
	for _, ln := range sortedPairs(ls) {
		h.Write([]byte(ln))
		h.Write(sep)
		h.Write([]byte(ls[ln]))
		h.Write(sep)
	}
	return Fingerprint(h.Sum64())
}

// labelSetToFastFingerprint works similar to labelSetToFingerprint but uses
// a non-cryptographic, much faster hash. It is weaker against adversarial
// inputs; callers compare full label sets on collision, so equality results
// are never wrong.
func labelSetToFastFingerprint(ls LabelSet) Fingerprint {
	var d xxhash.Digest
	d.Reset()
	sep := []byte{SeparatorByte}
	for _, ln := range sortedPairs(ls) {
		d.Write([]byte(ln))
		d.Write(sep)
		d.Write([]byte(ls[ln]))
		d.Write(sep)
	}
	return Fingerprint(d.Sum64())
}
