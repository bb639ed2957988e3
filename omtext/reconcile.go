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

	"github.com/inferiorhumanorgans/om-nomnomnom/model"
)

// seal closes a family once all of its lines have been seen: checks the
// name-conflict and unit rules and the structural invariants of histogram,
// gaugehistogram, summary, and counter families.
func (a *aggregator) seal(c *cursor, f *familyState) *ParseError {
	if f.sealed {
		return nil
	}
	f.sealed = true

	for _, suffix := range model.ConflictSuffixes {
		if other, ok := a.families[f.name+suffix]; ok && other != f {
			return c.errorf(ErrNameConflict, f.name, fmt.Sprintf("family %q clashes with sample names of family %q", other.name, f.name))
		}
	}

	if (f.mtype == model.InfoType || f.mtype == model.StateSetType) && f.unit != nil && *f.unit != "" {
		return c.errorf(ErrUnitMismatch, f.name, fmt.Sprintf("%s family %q must have an empty unit, found %q", f.mtype, f.name, *f.unit))
	}

	switch f.mtype {
	case model.CounterType:
		if len(f.samples) > 0 && !f.hasTotal {
			return c.errorf(ErrCounterInvariant, f.name, fmt.Sprintf("counter family %q has no _total sample", f.name))
		}
	case model.HistogramType, model.GaugeHistogramType:
		for _, g := range f.groupOrder {
			if err := a.reconcileHistogram(c, f, g); err != nil {
				return err
			}
		}
	case model.SummaryType:
		for _, g := range f.groupOrder {
			if err := a.reconcileSummary(c, f, g); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *aggregator) reconcileHistogram(c *cursor, f *familyState, g *groupState) *ParseError {
	where := fmt.Sprintf("family %q, grouping %s", f.name, g.labels)

	if len(g.buckets) == 0 {
		return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: no buckets", where))
	}
	infValue := math.NaN()
	infSeen := false
	for i, b := range g.buckets {
		if i > 0 && b.le <= g.buckets[i-1].le {
			return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: buckets not in increasing order of le", where))
		}
		if i > 0 && b.value < g.buckets[i-1].value {
			return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: bucket values are not cumulative", where))
		}
		if math.IsInf(b.le, +1) {
			infSeen = true
			infValue = b.value
		}
	}
	if !infSeen {
		return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: missing le=\"+Inf\" bucket", where))
	}

	if f.mtype == model.GaugeHistogramType {
		if (g.gcount == nil) != (g.gsum == nil) {
			return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: _gcount and _gsum must appear together", where))
		}
		return nil
	}

	if g.sum == nil {
		return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: missing _sum sample", where))
	}
	if g.count == nil {
		return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: missing _count sample", where))
	}
	if f.hasNegBkt {
		return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: negative bucket bounds cannot be combined with _sum", where))
	}
	if !model.SampleValue(*g.count).IsNonNegativeInteger() {
		return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: _count must be a non-negative integer, got %v", where, *g.count))
	}
	if a.opts.ValidateHistogramCount && *g.count != infValue {
		return c.errorf(ErrHistogramInvariant, f.name, fmt.Sprintf("%s: _count %v does not match the +Inf bucket value %v", where, *g.count, infValue))
	}
	return nil
}

func (a *aggregator) reconcileSummary(c *cursor, f *familyState, g *groupState) *ParseError {
	where := fmt.Sprintf("family %q, grouping %s", f.name, g.labels)

	for i, q := range g.quantiles {
		if i == 0 {
			continue
		}
		if q.q == g.quantiles[i-1].q {
			return c.errorf(ErrSummaryInvariant, f.name, fmt.Sprintf("%s: duplicate quantile %v", where, q.q))
		}
		if q.q < g.quantiles[i-1].q {
			return c.errorf(ErrSummaryInvariant, f.name, fmt.Sprintf("%s: quantiles not in increasing order", where))
		}
	}
	if g.count != nil && !model.SampleValue(*g.count).IsNonNegativeInteger() {
		return c.errorf(ErrSummaryInvariant, f.name, fmt.Sprintf("%s: _count must be a non-negative integer, got %v", where, *g.count))
	}
	return nil
}
