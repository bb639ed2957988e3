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
	"sort"

	jsoniter "github.com/json-iterator/go"
)

// MarshalValue writes a sample value to the passed jsoniter stream, quoted
// so that +Inf, -Inf, and NaN survive the trip through JSON.
func MarshalValue(v SampleValue, stream *jsoniter.Stream) {
	stream.WriteString(v.String())
}

// MarshalTimestamp writes a timestamp to the passed jsoniter stream as a raw
// decimal-seconds number. This avoids the float64 round trip that would
// truncate sub-second precision.
func MarshalTimestamp(t Timestamp, stream *jsoniter.Stream) {
	stream.WriteRaw(t.String())
}

// MarshalLabelSet writes a label set to the passed jsoniter stream with
// names in sorted order.
func MarshalLabelSet(ls LabelSet, stream *jsoniter.Stream) {
	names := make([]string, 0, len(ls))
	for ln := range ls {
		names = append(names, string(ln))
	}
	sort.Strings(names)
	stream.WriteObjectStart()
	for i, ln := range names {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(ln)
		stream.WriteString(string(ls[LabelName(ln)]))
	}
	stream.WriteObjectEnd()
}

func marshalExemplar(e *Exemplar, stream *jsoniter.Stream) {
	stream.WriteObjectStart()
	stream.WriteObjectField("labels")
	MarshalLabelSet(e.Labels, stream)
	stream.WriteMore()
	stream.WriteObjectField("value")
	MarshalValue(e.Value, stream)
	if e.Timestamp != nil {
		stream.WriteMore()
		stream.WriteObjectField("timestamp")
		MarshalTimestamp(*e.Timestamp, stream)
	}
	stream.WriteObjectEnd()
}

func marshalSample(s *Sample, stream *jsoniter.Stream) {
	stream.WriteObjectStart()
	stream.WriteObjectField("name")
	stream.WriteString(s.Name)
	if len(s.Labels) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("labels")
		MarshalLabelSet(s.Labels, stream)
	}
	stream.WriteMore()
	stream.WriteObjectField("value")
	MarshalValue(s.Value, stream)
	if s.Timestamp != nil {
		stream.WriteMore()
		stream.WriteObjectField("timestamp")
		MarshalTimestamp(*s.Timestamp, stream)
	}
	if s.Exemplar != nil {
		stream.WriteMore()
		stream.WriteObjectField("exemplar")
		marshalExemplar(s.Exemplar, stream)
	}
	stream.WriteObjectEnd()
}

// WriteJSON streams the family to a jsoniter stream.
func (f *MetricFamily) WriteJSON(stream *jsoniter.Stream) {
	stream.WriteObjectStart()
	stream.WriteObjectField("name")
	stream.WriteString(f.Name)
	stream.WriteMore()
	stream.WriteObjectField("type")
	stream.WriteString(f.Type.String())
	if f.Help != nil {
		stream.WriteMore()
		stream.WriteObjectField("help")
		stream.WriteString(*f.Help)
	}
	if f.Unit != nil {
		stream.WriteMore()
		stream.WriteObjectField("unit")
		stream.WriteString(*f.Unit)
	}
	stream.WriteMore()
	stream.WriteObjectField("samples")
	stream.WriteArrayStart()
	for i := range f.Samples {
		if i > 0 {
			stream.WriteMore()
		}
		marshalSample(&f.Samples[i], stream)
	}
	stream.WriteArrayEnd()
	stream.WriteObjectEnd()
}

// WriteJSON streams the whole set to a jsoniter stream, preserving document
// order.
func (s *MetricSet) WriteJSON(stream *jsoniter.Stream) {
	stream.WriteObjectStart()
	for i, name := range s.order {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(name)
		s.byName[name].WriteJSON(stream)
	}
	stream.WriteObjectEnd()
}
