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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inferiorhumanorgans/om-nomnomnom/model"
)

func TestExtractSamples(t *testing.T) {
	set, err := Parse([]byte(`# TYPE http_requests counter
http_requests_total{method="GET"} 3 1680000000.5
http_requests_total{method="POST"} 1
# TYPE temp gauge
temp 21.5
# EOF
`))
	require.NoError(t, err)

	defaultTS := &model.Timestamp{Sec: 42}
	got := ExtractSamples(&DecodeOptions{Timestamp: defaultTS}, set)

	want := model.Vector{
		{
			Metric:    model.LabelSet{model.MetricNameLabel: "http_requests_total", "method": "GET"},
			Value:     3,
			Timestamp: &model.Timestamp{Sec: 1680000000, Nsec: 500000000},
		},
		{
			Metric:    model.LabelSet{model.MetricNameLabel: "http_requests_total", "method": "POST"},
			Value:     1,
			Timestamp: defaultTS,
		},
		{
			Metric:    model.LabelSet{model.MetricNameLabel: "temp"},
			Value:     21.5,
			Timestamp: defaultTS,
		},
	}
	require.True(t, want.Equal(got), "expected %v, got %v", want, got)
}

func TestExtractSamplesNoDefaultTimestamp(t *testing.T) {
	set, err := Parse([]byte("a 1\n# EOF\n"))
	require.NoError(t, err)

	got := ExtractSamples(nil, set)
	require.Len(t, got, 1)
	require.Nil(t, got[0].Timestamp)
	require.Equal(t, model.LabelValue("a"), got[0].Metric[model.MetricNameLabel])
}
