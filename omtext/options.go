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

package omtext

import (
	yaml "go.yaml.in/yaml/v2"

	"github.com/inferiorhumanorgans/om-nomnomnom/model"
)

// Options are the validation toggles of the parser. The zero value is NOT
// the default configuration; use DefaultOptions.
type Options struct {
	// NaiveWideCharSupport skips per-codepoint length accounting and
	// assumes two bytes per character as an overestimate for length caps.
	NaiveWideCharSupport bool `yaml:"naive_wide_char_support"`

	// NoInterleaveMetric forbids returning to a family after another
	// family's samples have appeared.
	NoInterleaveMetric bool `yaml:"no_interleave_metric"`

	// EnforceTimestampMonotonic requires non-decreasing timestamps within
	// each series.
	EnforceTimestampMonotonic bool `yaml:"enforce_timestamp_monotonic"`

	// ValidateHistogramCount requires _count to equal the +Inf bucket value.
	ValidateHistogramCount bool `yaml:"validate_histogram_count"`

	// NaiveLabelHash selects the faster non-cryptographic label-set hash.
	// Collisions still resolve by full label-set equality, so results stay
	// correct; the hash is merely DoS-weaker.
	NaiveLabelHash bool `yaml:"naive_label_hash"`

	// HashFNV selects FNV-64a rather than the default hash. Ignored when
	// NaiveLabelHash is set.
	HashFNV bool `yaml:"hash_fnv"`

	// GenericParseError emits a catchall error variant for
	// otherwise-unclassified failures; with it off such failures are
	// reported as unexpected tokens.
	GenericParseError bool `yaml:"generic_parse_error"`
}

// DefaultOptions returns the toggles in their documented default positions.
func DefaultOptions() Options {
	return Options{
		NoInterleaveMetric:        true,
		EnforceTimestampMonotonic: true,
		ValidateHistogramCount:    true,
		GenericParseError:         true,
	}
}

// UnmarshalYAML implements yaml.Unmarshaler: keys absent from the document
// keep their default values.
func (o *Options) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*o = DefaultOptions()
	type plain Options
	return unmarshal((*plain)(o))
}

// LoadOptions parses a YAML document of toggles, with defaults for absent
// keys.
func LoadOptions(buf []byte) (Options, error) {
	o := DefaultOptions()
	if err := yaml.UnmarshalStrict(buf, &o); err != nil {
		return Options{}, err
	}
	return o, nil
}

// fingerprint derives the series key for a label set under the configured
// hash.
func (o *Options) fingerprint(ls model.LabelSet) model.Fingerprint {
	switch {
	case o.NaiveLabelHash:
		return ls.FastFingerprint()
	case o.HashFNV:
		return ls.FNVFingerprint()
	default:
		return ls.Fingerprint()
	}
}

// A ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithOptions replaces the whole option set.
func WithOptions(o Options) ParserOption {
	return func(p *Parser) { p.opts = o }
}

// WithNoInterleave toggles the family interleaving check.
func WithNoInterleave(on bool) ParserOption {
	return func(p *Parser) { p.opts.NoInterleaveMetric = on }
}

// WithTimestampMonotonic toggles per-series timestamp ordering.
func WithTimestampMonotonic(on bool) ParserOption {
	return func(p *Parser) { p.opts.EnforceTimestampMonotonic = on }
}

// WithHistogramCountValidation toggles the _count == +Inf bucket check.
func WithHistogramCountValidation(on bool) ParserOption {
	return func(p *Parser) { p.opts.ValidateHistogramCount = on }
}

// WithNaiveLabelHash toggles the fast non-cryptographic label hash.
func WithNaiveLabelHash(on bool) ParserOption {
	return func(p *Parser) { p.opts.NaiveLabelHash = on }
}

// WithFNVHash toggles FNV-64a label hashing.
func WithFNVHash(on bool) ParserOption {
	return func(p *Parser) { p.opts.HashFNV = on }
}

// WithNaiveWideChars toggles byte-based length accounting.
func WithNaiveWideChars(on bool) ParserOption {
	return func(p *Parser) { p.opts.NaiveWideCharSupport = on }
}

// WithGenericParseError toggles the catchall error variant.
func WithGenericParseError(on bool) ParserOption {
	return func(p *Parser) { p.opts.GenericParseError = on }
}
