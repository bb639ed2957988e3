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
	"encoding/json"
	"fmt"
)

// MetricType defines the type of a MetricFamily.
type MetricType uint8

const (
	// UnknownType is the default for families without a TYPE line.
	UnknownType MetricType = iota
	// GaugeType families hold current measurements.
	GaugeType
	// CounterType families measure discrete events.
	CounterType
	// StateSetType families represent a series of related boolean values.
	StateSetType
	// InfoType families expose textual information that should not change
	// during process lifetime.
	InfoType
	// HistogramType families measure distributions of discrete events.
	HistogramType
	// GaugeHistogramType families measure current distributions.
	GaugeHistogramType
	// SummaryType families measure distributions with precomputed quantiles.
	SummaryType
)

func (t MetricType) String() string {
	switch t {
	case GaugeType:
		return "gauge"
	case CounterType:
		return "counter"
	case StateSetType:
		return "stateset"
	case InfoType:
		return "info"
	case HistogramType:
		return "histogram"
	case GaugeHistogramType:
		return "gaugehistogram"
	case SummaryType:
		return "summary"
	default:
		return "unknown"
	}
}

// ParseMetricType maps the exact lowercase token of a TYPE line to a
// MetricType.
func ParseMetricType(s string) (MetricType, bool) {
	switch s {
	case "counter":
		return CounterType, true
	case "gauge":
		return GaugeType, true
	case "histogram":
		return HistogramType, true
	case "gaugehistogram":
		return GaugeHistogramType, true
	case "summary":
		return SummaryType, true
	case "stateset":
		return StateSetType, true
	case "info":
		return InfoType, true
	case "unknown":
		return UnknownType, true
	}
	return UnknownType, false
}

// MarshalJSON implements json.Marshaler.
func (t MetricType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *MetricType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	mt, ok := ParseMetricType(s)
	if !ok {
		return fmt.Errorf("unknown metric type %q", s)
	}
	*t = mt
	return nil
}

// ConflictSuffixes are the sample-name suffixes the text format generates.
// A family name ending up equal to another family's name plus one of these
// would make the two indistinguishable on the wire.
var ConflictSuffixes = []string{
	"_bucket", "_count", "_created", "_gcount", "_gsum", "_info", "_sum", "_total",
}

func hasSuffix(name, suffix string) bool {
	return len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix
}

// IsTotalName reports whether the sample name carries the counter _total
// suffix.
func IsTotalName(name string) bool { return hasSuffix(name, "_total") }

// IsCreatedName reports whether the sample name carries the _created suffix.
func IsCreatedName(name string) bool { return hasSuffix(name, "_created") }

// IsCountName reports whether the sample name carries the _count suffix.
func IsCountName(name string) bool { return hasSuffix(name, "_count") }

// IsSumName reports whether the sample name carries the _sum suffix.
func IsSumName(name string) bool { return hasSuffix(name, "_sum") }

// IsBucketName reports whether the sample name carries the _bucket suffix.
func IsBucketName(name string) bool { return hasSuffix(name, "_bucket") }

// IsGCountName reports whether the sample name carries the _gcount suffix.
func IsGCountName(name string) bool { return hasSuffix(name, "_gcount") }

// IsGSumName reports whether the sample name carries the _gsum suffix.
func IsGSumName(name string) bool { return hasSuffix(name, "_gsum") }

// IsInfoName reports whether the sample name carries the _info suffix.
func IsInfoName(name string) bool { return hasSuffix(name, "_info") }

// CounterFamilyName strips the sample-name suffixes a counter family
// generates, yielding the base family name.
func CounterFamilyName(name string) string {
	switch {
	case IsCreatedName(name):
		return name[:len(name)-8]
	case IsTotalName(name):
		return name[:len(name)-6]
	default:
		return name
	}
}

// SummaryFamilyName strips the sample-name suffixes a summary family
// generates.
func SummaryFamilyName(name string) string {
	switch {
	case IsCountName(name):
		return name[:len(name)-6]
	case IsSumName(name):
		return name[:len(name)-4]
	case IsCreatedName(name):
		return name[:len(name)-8]
	default:
		return name
	}
}

// HistogramFamilyName strips the sample-name suffixes a histogram family
// generates.
func HistogramFamilyName(name string) string {
	switch {
	case IsCountName(name):
		return name[:len(name)-6]
	case IsSumName(name):
		return name[:len(name)-4]
	case IsCreatedName(name):
		return name[:len(name)-8]
	case IsBucketName(name):
		return name[:len(name)-7]
	default:
		return name
	}
}

// GaugeHistogramFamilyName strips the sample-name suffixes a gaugehistogram
// family generates.
func GaugeHistogramFamilyName(name string) string {
	switch {
	case IsGCountName(name):
		return name[:len(name)-7]
	case IsGSumName(name):
		return name[:len(name)-5]
	case IsBucketName(name):
		return name[:len(name)-7]
	case IsCreatedName(name):
		return name[:len(name)-8]
	default:
		return name
	}
}

// InfoFamilyName strips the _info suffix an info family generates.
func InfoFamilyName(name string) string {
	if IsInfoName(name) {
		return name[:len(name)-5]
	}
	return name
}
