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

import "testing"

func TestFingerprintContentAddressed(t *testing.T) {
	derivations := map[string]func(LabelSet) Fingerprint{
		"default": LabelSet.Fingerprint,
		"fnv":     LabelSet.FNVFingerprint,
		"fast":    LabelSet.FastFingerprint,
	}
	for name, fp := range derivations {
		t.Run(name, func(t *testing.T) {
			a := LabelSet{"job": "api", "instance": "a:9090"}
			b := LabelSet{"instance": "a:9090", "job": "api"}
			if fp(a) != fp(b) {
				t.Errorf("expected equal content to produce equal fingerprints")
			}
			// Repeated derivation must be stable.
			if fp(a) != fp(a) {
				t.Errorf("expected fingerprints to be stable")
			}
			c := LabelSet{"job": "api", "instance": "b:9090"}
			if fp(a) == fp(c) {
				t.Errorf("expected different content to produce different fingerprints")
			}
			// The name/value boundary must not be ambiguous.
			d := LabelSet{"jobapi": ""}
			e := LabelSet{"job": "api"}
			if fp(d) == fp(e) {
				t.Errorf("expected shifted name/value boundaries to produce different fingerprints")
			}
		})
	}
}

func TestFingerprintDerivationsDiffer(t *testing.T) {
	ls := LabelSet{"job": "api"}
	if ls.Fingerprint() == ls.FNVFingerprint() {
		t.Errorf("expected the default and FNV hashes to differ")
	}
	if ls.Fingerprint() == ls.FastFingerprint() {
		t.Errorf("expected the default and fast hashes to differ")
	}
}

func TestEmptyLabelSetFingerprint(t *testing.T) {
	if (LabelSet{}).Fingerprint() != (LabelSet)(nil).Fingerprint() {
		t.Errorf("expected nil and empty label sets to share a fingerprint")
	}
}

func TestFingerprintString(t *testing.T) {
	f := Fingerprint(0xdeadbeef)
	if f.String() != "00000000deadbeef" {
		t.Errorf("unexpected string form %q", f.String())
	}
	parsed, err := FingerprintFromString("00000000deadbeef")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !parsed.Equal(f) {
		t.Errorf("expected round trip, got %s", parsed)
	}
	if !Fingerprint(1).Less(Fingerprint(2)) {
		t.Errorf("expected 1 to sort below 2")
	}
}
