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

import "github.com/inferiorhumanorgans/om-nomnomnom/model"

// DecodeOptions control the flattening of a MetricSet into bare samples.
type DecodeOptions struct {
	// Timestamp is attached to every sample that has no explicit timestamp
	// of its own.
	Timestamp *model.Timestamp
}

// ExtractSamples flattens the families of a MetricSet into a sample vector
// in document order. The metric name moves into the label set under
// model.MetricNameLabel, the shape scrape pipelines consume.
func ExtractSamples(o *DecodeOptions, set *model.MetricSet) model.Vector {
	var all model.Vector
	for _, f := range set.Families() {
		all = append(all, extractSamples(f, o)...)
	}
	return all
}

func extractSamples(f *model.MetricFamily, o *DecodeOptions) model.Vector {
	samples := make(model.Vector, 0, len(f.Samples))
	for i := range f.Samples {
		s := &f.Samples[i]
		metric := s.Labels.Clone()
		metric[model.MetricNameLabel] = model.LabelValue(s.Name)

		flat := &model.FlatSample{
			Metric: metric,
			Value:  s.Value,
		}
		if s.Timestamp != nil {
			flat.Timestamp = s.Timestamp
		} else if o != nil {
			flat.Timestamp = o.Timestamp
		}
		samples = append(samples, flat)
	}
	return samples
}
