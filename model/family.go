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
	"bytes"
	"encoding/json"
)

// An Exemplar is a reference to data outside of the metric set, attached to
// a histogram bucket or counter total sample.
type Exemplar struct {
	Labels    LabelSet    `json:"labels"`
	Value     SampleValue `json:"value"`
	Timestamp *Timestamp  `json:"timestamp,omitempty"`
}

// A Sample is one value of one series of a metric family, in document order.
// Name is the full sample name as written, including any type-generated
// suffix such as _total or _bucket.
type Sample struct {
	Name      string      `json:"name"`
	Labels    LabelSet    `json:"labels,omitempty"`
	Value     SampleValue `json:"value"`
	Timestamp *Timestamp  `json:"timestamp,omitempty"`
	Exemplar  *Exemplar   `json:"exemplar,omitempty"`
}

// A MetricFamily is a collection of related (and similarly named) samples
// under one declared type. Help and Unit are nil when the document carried
// no HELP/UNIT line; a HELP or UNIT line with an empty payload also leaves
// them nil.
type MetricFamily struct {
	Name    string     `json:"name"`
	Type    MetricType `json:"type"`
	Help    *string    `json:"help,omitempty"`
	Unit    *string    `json:"unit,omitempty"`
	Samples []Sample   `json:"samples"`
}

// GetHelp returns the help text, or "" if no HELP line was seen.
func (f *MetricFamily) GetHelp() string {
	if f.Help != nil {
		return *f.Help
	}
	return ""
}

// GetUnit returns the unit, or "" if no UNIT line was seen.
func (f *MetricFamily) GetUnit() string {
	if f.Unit != nil {
		return *f.Unit
	}
	return ""
}

// String returns a pointer to the given string, for family literals.
func String(s string) *string {
	return &s
}

// A MetricSet is the finalized result of parsing one exposition document:
// an ordered mapping from family name to MetricFamily. Iteration order is
// the order of first appearance in the document.
type MetricSet struct {
	byName map[string]*MetricFamily
	order  []string
}

// NewMetricSet returns an empty metric set.
func NewMetricSet() *MetricSet {
	return &MetricSet{byName: make(map[string]*MetricFamily)}
}

// Add appends a family. An existing family of the same name is replaced in
// place, keeping its original position.
func (s *MetricSet) Add(f *MetricFamily) {
	if _, ok := s.byName[f.Name]; !ok {
		s.order = append(s.order, f.Name)
	}
	s.byName[f.Name] = f
}

// Get returns the family with the given base name, or nil.
func (s *MetricSet) Get(name string) *MetricFamily {
	return s.byName[name]
}

// Has reports whether a family with the given base name exists.
func (s *MetricSet) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Len returns the number of families.
func (s *MetricSet) Len() int {
	return len(s.order)
}

// Names returns the family names in order of first appearance.
func (s *MetricSet) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Families returns the families in order of first appearance.
func (s *MetricSet) Families() []*MetricFamily {
	fams := make([]*MetricFamily, 0, len(s.order))
	for _, name := range s.order {
		fams = append(fams, s.byName[name])
	}
	return fams
}

// MarshalJSON implements json.Marshaler, preserving document order.
func (s *MetricSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(s.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
