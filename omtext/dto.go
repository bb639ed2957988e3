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
	"sort"

	dto "github.com/prometheus/client_model/go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/inferiorhumanorgans/om-nomnomnom/model"
)

// ToMetricFamilies converts a parsed MetricSet into client_model protobuf
// families for interoperability with the wider Prometheus ecosystem, in
// document order. Histogram and summary families are reassembled into their
// structured form; info and stateset families, which have no protobuf
// counterpart, are exported as gauges.
func ToMetricFamilies(set *model.MetricSet) []*dto.MetricFamily {
	fams := make([]*dto.MetricFamily, 0, set.Len())
	for _, f := range set.Families() {
		fams = append(fams, toMetricFamily(f))
	}
	return fams
}

func toMetricFamily(f *model.MetricFamily) *dto.MetricFamily {
	out := &dto.MetricFamily{
		Name: proto.String(f.Name),
		Help: f.Help,
		Unit: f.Unit,
	}
	switch f.Type {
	case model.CounterType:
		out.Type = dto.MetricType_COUNTER.Enum()
		for i := range f.Samples {
			s := &f.Samples[i]
			if !model.IsTotalName(s.Name) {
				continue
			}
			m := newDTOMetric(s.Labels, s.Timestamp)
			m.Counter = &dto.Counter{
				Value:    proto.Float64(float64(s.Value)),
				Exemplar: toDTOExemplar(s.Exemplar),
			}
			out.Metric = append(out.Metric, m)
		}
	case model.SummaryType:
		out.Type = dto.MetricType_SUMMARY.Enum()
		out.Metric = summaryMetrics(f)
	case model.HistogramType, model.GaugeHistogramType:
		if f.Type == model.HistogramType {
			out.Type = dto.MetricType_HISTOGRAM.Enum()
		} else {
			out.Type = dto.MetricType_GAUGE_HISTOGRAM.Enum()
		}
		out.Metric = histogramMetrics(f)
	case model.GaugeType, model.InfoType, model.StateSetType:
		out.Type = dto.MetricType_GAUGE.Enum()
		for i := range f.Samples {
			s := &f.Samples[i]
			m := newDTOMetric(s.Labels, s.Timestamp)
			m.Gauge = &dto.Gauge{Value: proto.Float64(float64(s.Value))}
			out.Metric = append(out.Metric, m)
		}
	default:
		out.Type = dto.MetricType_UNTYPED.Enum()
		for i := range f.Samples {
			s := &f.Samples[i]
			m := newDTOMetric(s.Labels, s.Timestamp)
			m.Untyped = &dto.Untyped{Value: proto.Float64(float64(s.Value))}
			out.Metric = append(out.Metric, m)
		}
	}
	return out
}

// dtoGroup collects the structured samples sharing one label-set grouping.
type dtoGroup struct {
	labels model.LabelSet
	ts     *model.Timestamp
	metric *dto.Metric
}

func groupFor(groups *[]*dtoGroup, labels model.LabelSet, strip model.LabelName, ts *model.Timestamp) *dtoGroup {
	gl := labels
	if _, ok := labels[strip]; ok {
		gl = labels.Clone()
		delete(gl, strip)
	}
	for _, g := range *groups {
		if g.labels.Equal(gl) {
			return g
		}
	}
	g := &dtoGroup{labels: gl, ts: ts, metric: newDTOMetric(gl, ts)}
	*groups = append(*groups, g)
	return g
}

func summaryMetrics(f *model.MetricFamily) []*dto.Metric {
	var groups []*dtoGroup
	for i := range f.Samples {
		s := &f.Samples[i]
		g := groupFor(&groups, s.Labels, model.QuantileLabel, s.Timestamp)
		if g.metric.Summary == nil {
			g.metric.Summary = &dto.Summary{}
		}
		switch {
		case model.IsCountName(s.Name):
			g.metric.Summary.SampleCount = proto.Uint64(uint64(s.Value))
		case model.IsSumName(s.Name):
			g.metric.Summary.SampleSum = proto.Float64(float64(s.Value))
		case s.Name == f.Name:
			q, _ := parseNumber(string(s.Labels[model.QuantileLabel]))
			g.metric.Summary.Quantile = append(g.metric.Summary.Quantile, &dto.Quantile{
				Quantile: proto.Float64(q),
				Value:    proto.Float64(float64(s.Value)),
			})
		}
	}
	metrics := make([]*dto.Metric, 0, len(groups))
	for _, g := range groups {
		metrics = append(metrics, g.metric)
	}
	return metrics
}

func histogramMetrics(f *model.MetricFamily) []*dto.Metric {
	var groups []*dtoGroup
	for i := range f.Samples {
		s := &f.Samples[i]
		g := groupFor(&groups, s.Labels, model.BucketLabel, s.Timestamp)
		if g.metric.Histogram == nil {
			g.metric.Histogram = &dto.Histogram{}
		}
		switch {
		case model.IsBucketName(s.Name):
			bound, _ := parseNumber(string(s.Labels[model.BucketLabel]))
			g.metric.Histogram.Bucket = append(g.metric.Histogram.Bucket, &dto.Bucket{
				UpperBound:      proto.Float64(bound),
				CumulativeCount: proto.Uint64(uint64(s.Value)),
				Exemplar:        toDTOExemplar(s.Exemplar),
			})
		case model.IsCountName(s.Name), model.IsGCountName(s.Name):
			g.metric.Histogram.SampleCount = proto.Uint64(uint64(s.Value))
		case model.IsSumName(s.Name), model.IsGSumName(s.Name):
			g.metric.Histogram.SampleSum = proto.Float64(float64(s.Value))
		}
	}
	metrics := make([]*dto.Metric, 0, len(groups))
	for _, g := range groups {
		metrics = append(metrics, g.metric)
	}
	return metrics
}

func newDTOMetric(labels model.LabelSet, ts *model.Timestamp) *dto.Metric {
	m := &dto.Metric{Label: toDTOLabels(labels)}
	if ts != nil {
		m.TimestampMs = proto.Int64(ts.Sec*1000 + ts.Nsec/1e6)
	}
	return m
}

func toDTOLabels(labels model.LabelSet) []*dto.LabelPair {
	if len(labels) == 0 {
		return nil
	}
	names := make([]string, 0, len(labels))
	for ln := range labels {
		names = append(names, string(ln))
	}
	sort.Strings(names)
	pairs := make([]*dto.LabelPair, 0, len(names))
	for _, ln := range names {
		pairs = append(pairs, &dto.LabelPair{
			Name:  proto.String(ln),
			Value: proto.String(string(labels[model.LabelName(ln)])),
		})
	}
	return pairs
}

func toDTOExemplar(e *model.Exemplar) *dto.Exemplar {
	if e == nil {
		return nil
	}
	out := &dto.Exemplar{
		Label: toDTOLabels(e.Labels),
		Value: proto.Float64(float64(e.Value)),
	}
	if e.Timestamp != nil {
		out.Timestamp = timestamppb.New(e.Timestamp.Time())
	}
	return out
}
