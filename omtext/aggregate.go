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
	"fmt"
	"math"
	"strings"

	"github.com/inferiorhumanorgans/om-nomnomnom/model"
)

// seriesKey identifies one series: a sample name plus the fingerprint of
// its label set. Fingerprints may collide, so the bucket behind a key holds
// every distinct label set and is scanned with full equality.
type seriesKey struct {
	name string
	fp   model.Fingerprint
}

type seriesState struct {
	labels model.LabelSet
	ts     *model.Timestamp
	count  int
}

type bucketPoint struct {
	le    float64
	value float64
}

type quantilePoint struct {
	q     float64
	value float64
}

// groupState accumulates the histogram/summary structure of one label-set
// grouping (the label set minus le/quantile) for reconciliation.
type groupState struct {
	labels    model.LabelSet
	buckets   []bucketPoint
	quantiles []quantilePoint
	count     *float64
	sum       *float64
	gcount    *float64
	gsum      *float64
}

type familyState struct {
	name    string
	mtype   model.MetricType
	typeSet bool
	help    *string
	unit    *string
	samples []model.Sample
	sealed  bool

	series map[seriesKey][]*seriesState

	// Series contiguity bookkeeping: label sets already seen, and the one
	// the previous sample belonged to.
	seen    map[model.Fingerprint][]model.LabelSet
	lastFP  model.Fingerprint
	lastLS  model.LabelSet
	hasLast bool

	groups     map[model.Fingerprint][]*groupState
	groupOrder []*groupState

	hasTotal  bool
	hasNegBkt bool
}

// aggregator is the cross-line state of one parse: the in-progress family
// records and the invariants that span lines.
type aggregator struct {
	opts     *Options
	families map[string]*familyState
	order    []string
	current  *familyState
	sawEOF   bool
}

func newAggregator(opts *Options) *aggregator {
	return &aggregator{
		opts:     opts,
		families: make(map[string]*familyState),
	}
}

func (a *aggregator) newFamily(name string) *familyState {
	f := &familyState{
		name:   name,
		series: make(map[seriesKey][]*seriesState),
		seen:   make(map[model.Fingerprint][]model.LabelSet),
		groups: make(map[model.Fingerprint][]*groupState),
	}
	a.families[name] = f
	a.order = append(a.order, name)
	return f
}

// lookup returns the family with the given base name if it was declared
// with the wanted type.
func (a *aggregator) lookup(base string, want model.MetricType) *familyState {
	if f := a.families[base]; f != nil && f.typeSet && f.mtype == want {
		return f
	}
	return nil
}

// familyFor resolves a sample name to its family by stripping the
// type-generated suffixes against the declared families, most specific type
// first, falling back to the bare name.
func (a *aggregator) familyFor(name string) *familyState {
	if f := a.lookup(model.CounterFamilyName(name), model.CounterType); f != nil {
		return f
	}
	if f := a.lookup(model.SummaryFamilyName(name), model.SummaryType); f != nil {
		return f
	}
	if f := a.lookup(model.HistogramFamilyName(name), model.HistogramType); f != nil {
		return f
	}
	if f := a.lookup(model.GaugeHistogramFamilyName(name), model.GaugeHistogramType); f != nil {
		return f
	}
	if f := a.lookup(model.InfoFamilyName(name), model.InfoType); f != nil {
		return f
	}
	if f := a.families[name]; f != nil {
		return f
	}
	return a.newFamily(name)
}

// switchTo makes f the family in progress. Under the no-interleave policy
// leaving a family seals it, and a sealed family cannot be returned to.
func (a *aggregator) switchTo(c *cursor, f *familyState) *ParseError {
	if a.current == f {
		return nil
	}
	if a.current != nil && a.opts.NoInterleaveMetric {
		if err := a.seal(c, a.current); err != nil {
			return err
		}
	}
	if f.sealed {
		return c.errorf(ErrInterleavedFamily, f.name, fmt.Sprintf("samples of family %q interleaved with another family", f.name))
	}
	a.current = f
	return nil
}

// meta registers a TYPE, HELP, or UNIT line. Meta lines must precede the
// family's samples.
func (a *aggregator) meta(c *cursor, keyword, name, payload string) *ParseError {
	f := a.families[name]
	if f == nil {
		f = a.newFamily(name)
	}
	if len(f.samples) > 0 {
		return c.errorf(ErrMetaAfterSample, name, fmt.Sprintf("%s for family %q that already has samples", keyword, name))
	}
	if err := a.switchTo(c, f); err != nil {
		return err
	}
	switch keyword {
	case "TYPE":
		if f.typeSet {
			return c.errorf(ErrDuplicateMeta, name, fmt.Sprintf("second TYPE line for family %q", name))
		}
		mt, ok := model.ParseMetricType(payload)
		if !ok {
			return c.errorf(ErrUnknownMetricType, payload, fmt.Sprintf("unknown metric type %q", payload))
		}
		f.mtype = mt
		f.typeSet = true
	case "HELP":
		if f.help != nil {
			return c.errorf(ErrDuplicateMeta, name, fmt.Sprintf("second HELP line for family %q", name))
		}
		f.help = &payload
	case "UNIT":
		if f.unit != nil {
			return c.errorf(ErrDuplicateMeta, name, fmt.Sprintf("second UNIT line for family %q", name))
		}
		if payload != "" && !strings.HasSuffix(name, "_"+payload) {
			return c.errorf(ErrUnitMismatch, payload, fmt.Sprintf("family %q does not carry unit suffix %q", name, payload))
		}
		f.unit = &payload
	}
	return nil
}

// sample ingests one sample line.
func (a *aggregator) sample(c *cursor, s model.Sample) *ParseError {
	f := a.familyFor(s.Name)
	if err := a.switchTo(c, f); err != nil {
		return err
	}
	if err := a.checkSample(c, f, &s); err != nil {
		return err
	}
	if err := a.checkSeries(c, f, &s); err != nil {
		return err
	}
	a.accumulate(f, &s)
	f.samples = append(f.samples, s)
	return nil
}

// checkSample enforces the per-sample value and shape rules of the family's
// declared type.
func (a *aggregator) checkSample(c *cursor, f *familyState, s *model.Sample) *ParseError {
	value := float64(s.Value)
	switch f.mtype {
	case model.CounterType:
		if model.IsTotalName(s.Name) && (value < 0 || math.IsNaN(value)) {
			return c.errorf(ErrCounterInvariant, s.Name, fmt.Sprintf("counter total value must not be NaN or negative, got %v", s.Value))
		}
	case model.SummaryType:
		if err := a.checkSummarySample(c, f, s); err != nil {
			return err
		}
	case model.HistogramType, model.GaugeHistogramType:
		if err := a.checkHistogramSample(c, f, s); err != nil {
			return err
		}
	case model.StateSetType:
		if s.Name != f.name {
			return c.errorf(ErrStateSetInvariant, s.Name, fmt.Sprintf("stateset sample must be named %q", f.name))
		}
		if _, ok := s.Labels[model.LabelName(f.name)]; !ok {
			return c.errorf(ErrStateSetInvariant, s.Name, fmt.Sprintf("stateset sample must carry label %q", f.name))
		}
		if value != 0 && value != 1 {
			return c.errorf(ErrStateSetInvariant, s.Name, fmt.Sprintf("stateset value must be 0 or 1, got %v", s.Value))
		}
	case model.InfoType:
		if !model.IsInfoName(s.Name) {
			return c.errorf(ErrInfoInvariant, s.Name, "info sample name must carry the _info suffix")
		}
		if value != 1 {
			return c.errorf(ErrInfoInvariant, s.Name, fmt.Sprintf("info value must be 1, got %v", s.Value))
		}
	}
	if s.Exemplar != nil {
		onBucket := model.IsBucketName(s.Name) && (f.mtype == model.HistogramType || f.mtype == model.GaugeHistogramType)
		onTotal := model.IsTotalName(s.Name) && f.mtype == model.CounterType
		if !onBucket && !onTotal {
			return c.errorf(ErrUnexpectedToken, s.Name, "exemplars are only allowed on counter total and histogram bucket samples")
		}
	}
	return nil
}

func (a *aggregator) checkSummarySample(c *cursor, f *familyState, s *model.Sample) *ParseError {
	value := float64(s.Value)
	switch {
	case model.IsCountName(s.Name), model.IsSumName(s.Name):
		if value < 0 || math.IsNaN(value) {
			return c.errorf(ErrSummaryInvariant, s.Name, fmt.Sprintf("summary count and sum must not be NaN or negative, got %v", s.Value))
		}
	case model.IsCreatedName(s.Name):
	case s.Name == f.name:
		q, ok := s.Labels[model.QuantileLabel]
		if !ok {
			return c.errorf(ErrSummaryInvariant, s.Name, "summary quantile sample without quantile label")
		}
		qv, numOK := parseNumber(string(q))
		if !numOK || math.IsNaN(qv) {
			return c.errorf(ErrSummaryInvariant, string(q), fmt.Sprintf("expected float as quantile, got %q", q))
		}
		if qv < 0 || qv > 1 {
			return c.errorf(ErrSummaryInvariant, string(q), fmt.Sprintf("quantile must be between 0 and 1 inclusive, got %v", qv))
		}
		if value < 0 {
			return c.errorf(ErrSummaryInvariant, s.Name, fmt.Sprintf("quantile value must not be negative, got %v", s.Value))
		}
	default:
		return c.errorf(ErrSummaryInvariant, s.Name, fmt.Sprintf("sample name %q not valid for a summary family", s.Name))
	}
	return nil
}

func (a *aggregator) checkHistogramSample(c *cursor, f *familyState, s *model.Sample) *ParseError {
	value := float64(s.Value)
	switch {
	case model.IsBucketName(s.Name):
		le, ok := s.Labels[model.BucketLabel]
		if !ok {
			return c.errorf(ErrHistogramInvariant, s.Name, "histogram bucket without le label")
		}
		bound, numOK := parseNumber(string(le))
		if !numOK || math.IsNaN(bound) || math.IsInf(bound, -1) {
			return c.errorf(ErrHistogramInvariant, string(le), fmt.Sprintf("invalid bucket bound %q", le))
		}
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return c.errorf(ErrHistogramInvariant, s.Name, fmt.Sprintf("bucket value must be a non-negative finite number, got %v", s.Value))
		}
	case model.IsCountName(s.Name):
		if f.mtype == model.HistogramType && (value < 0 || math.IsNaN(value)) {
			return c.errorf(ErrHistogramInvariant, s.Name, fmt.Sprintf("histogram count must not be NaN or negative, got %v", s.Value))
		}
	case model.IsSumName(s.Name):
		if f.mtype == model.HistogramType && (value < 0 || math.IsNaN(value)) {
			return c.errorf(ErrHistogramInvariant, s.Name, fmt.Sprintf("histogram sum must not be NaN or negative, got %v", s.Value))
		}
	case model.IsGSumName(s.Name):
		if math.IsNaN(value) {
			return c.errorf(ErrHistogramInvariant, s.Name, "gaugehistogram sum must not be NaN")
		}
		if value < 0 && !f.hasNegBkt {
			return c.errorf(ErrHistogramInvariant, s.Name, "negative gaugehistogram sum without negative buckets")
		}
	}
	return nil
}

// checkSeries runs the per-series invariants: duplicate detection,
// timestamp monotonicity, and series contiguity.
func (a *aggregator) checkSeries(c *cursor, f *familyState, s *model.Sample) *ParseError {
	fp := a.opts.fingerprint(s.Labels)

	key := seriesKey{name: s.Name, fp: fp}
	var st *seriesState
	for _, cand := range f.series[key] {
		if cand.labels.Equal(s.Labels) {
			st = cand
			break
		}
	}
	if st == nil {
		st = &seriesState{labels: s.Labels}
		f.series[key] = append(f.series[key], st)
	}
	if st.count > 0 {
		switch {
		case st.ts == nil && s.Timestamp == nil:
			return c.errorf(ErrDuplicateSample, s.Name, fmt.Sprintf("duplicate sample for series %s%s", s.Name, s.Labels))
		case st.ts != nil && s.Timestamp != nil && st.ts.Equal(*s.Timestamp):
			return c.errorf(ErrDuplicateSample, s.Name, fmt.Sprintf("duplicate timestamp %s for series %s%s", s.Timestamp, s.Name, s.Labels))
		}
		if a.opts.EnforceTimestampMonotonic {
			switch {
			case (st.ts == nil) != (s.Timestamp == nil):
				return c.errorf(ErrTimestampRegression, s.Name, fmt.Sprintf("series %s%s mixes timestamped and untimestamped samples", s.Name, s.Labels))
			case st.ts != nil && s.Timestamp.Before(*st.ts):
				return c.errorf(ErrTimestampRegression, s.Name, fmt.Sprintf("timestamp %s regresses below %s for series %s%s", s.Timestamp, st.ts, s.Name, s.Labels))
			}
		}
	}
	st.ts = s.Timestamp
	st.count++

	if a.opts.NoInterleaveMetric {
		known := false
		for _, prev := range f.seen[fp] {
			if prev.Equal(s.Labels) {
				known = true
				break
			}
		}
		if known && f.hasLast && !(fp == f.lastFP && f.lastLS.Equal(s.Labels)) {
			return c.errorf(ErrInterleavedFamily, s.Name, fmt.Sprintf("series %s of family %q interleaved", s.Labels, f.name))
		}
		if !known {
			f.seen[fp] = append(f.seen[fp], s.Labels)
		}
		f.lastFP, f.lastLS, f.hasLast = fp, s.Labels, true
	}
	return nil
}

// accumulate folds the sample into the family flags and, for histogram-ish
// and summary families, into its label-set grouping for reconciliation.
func (a *aggregator) accumulate(f *familyState, s *model.Sample) {
	value := float64(s.Value)
	if model.IsTotalName(s.Name) {
		f.hasTotal = true
	}
	switch f.mtype {
	case model.HistogramType, model.GaugeHistogramType:
		g := f.group(a.opts, s.Labels, model.BucketLabel)
		switch {
		case model.IsBucketName(s.Name):
			bound, _ := parseNumber(string(s.Labels[model.BucketLabel]))
			if bound < 0 {
				f.hasNegBkt = true
			}
			g.buckets = append(g.buckets, bucketPoint{le: bound, value: value})
		case model.IsCountName(s.Name):
			g.count = &value
		case model.IsSumName(s.Name):
			g.sum = &value
		case model.IsGCountName(s.Name):
			g.gcount = &value
		case model.IsGSumName(s.Name):
			g.gsum = &value
		}
	case model.SummaryType:
		g := f.group(a.opts, s.Labels, model.QuantileLabel)
		switch {
		case model.IsCountName(s.Name):
			g.count = &value
		case model.IsSumName(s.Name):
			g.sum = &value
		case s.Name == f.name:
			q, _ := parseNumber(string(s.Labels[model.QuantileLabel]))
			g.quantiles = append(g.quantiles, quantilePoint{q: q, value: value})
		}
	}
}

// group finds or creates the grouping record for a label set with the
// structural label stripped.
func (f *familyState) group(opts *Options, ls model.LabelSet, strip model.LabelName) *groupState {
	gl := ls
	if _, ok := ls[strip]; ok {
		gl = ls.Clone()
		delete(gl, strip)
	}
	fp := opts.fingerprint(gl)
	for _, cand := range f.groups[fp] {
		if cand.labels.Equal(gl) {
			return cand
		}
	}
	g := &groupState{labels: gl}
	f.groups[fp] = append(f.groups[fp], g)
	f.groupOrder = append(f.groupOrder, g)
	return g
}

// finalize seals the outstanding families, reconciles them, and freezes the
// result. docLen is the document length, used as the error offset for
// failures detected at end of input.
func (a *aggregator) finalize(lineNo, docLen int) (*model.MetricSet, *ParseError) {
	c := &cursor{line: lineNo, base: docLen}
	if !a.sawEOF {
		return nil, c.errorf(ErrUnexpectedEOF, "", "expected '# EOF' at end of input")
	}
	if a.opts.NoInterleaveMetric {
		if a.current != nil && !a.current.sealed {
			if err := a.seal(c, a.current); err != nil {
				return nil, err
			}
		}
	} else {
		for _, name := range a.order {
			if err := a.seal(c, a.families[name]); err != nil {
				return nil, err
			}
		}
	}
	set := model.NewMetricSet()
	for _, name := range a.order {
		f := a.families[name]
		if len(f.samples) == 0 {
			continue
		}
		set.Add(&model.MetricFamily{
			Name:    f.name,
			Type:    f.mtype,
			Help:    f.help,
			Unit:    f.unit,
			Samples: f.samples,
		})
	}
	return set, nil
}
