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

import "fmt"

// A FlatSample is a sample detached from its family: the metric name rides
// along in the label set under MetricNameLabel. This is the shape scrape
// pipelines consume.
type FlatSample struct {
	Metric    LabelSet
	Value     SampleValue
	Timestamp *Timestamp
}

// Equal compares first the metric, then the timestamp, then the value.
func (s *FlatSample) Equal(o *FlatSample) bool {
	if s == o {
		return true
	}
	if !s.Metric.Equal(o.Metric) {
		return false
	}
	if (s.Timestamp == nil) != (o.Timestamp == nil) {
		return false
	}
	if s.Timestamp != nil && !s.Timestamp.Equal(*o.Timestamp) {
		return false
	}
	return s.Value.Equal(o.Value)
}

func (s *FlatSample) String() string {
	if s.Timestamp != nil {
		return fmt.Sprintf("%s => %s @[%s]", s.Metric, s.Value, s.Timestamp)
	}
	return fmt.Sprintf("%s => %s", s.Metric, s.Value)
}

// Vector is a sortable FlatSample slice. It implements sort.Interface.
type Vector []*FlatSample

func (v Vector) Len() int {
	return len(v)
}

// Less compares first the metrics, then the timestamp.
func (v Vector) Less(i, j int) bool {
	switch {
	case v[i].Metric.Before(v[j].Metric):
		return true
	case v[j].Metric.Before(v[i].Metric):
		return false
	case v[i].Timestamp == nil:
		return v[j].Timestamp != nil
	case v[j].Timestamp == nil:
		return false
	default:
		return v[i].Timestamp.Before(*v[j].Timestamp)
	}
}

func (v Vector) Swap(i, j int) {
	v[i], v[j] = v[j], v[i]
}

// Equal compares two sample vectors element-wise.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i, s := range v {
		if !s.Equal(o[i]) {
			return false
		}
	}
	return true
}
