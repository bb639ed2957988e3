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
	"math"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestToMetricFamilies(t *testing.T) {
	set, err := Parse([]byte(`# HELP http_requests Total requests served.
# TYPE http_requests counter
http_requests_total{code="200"} 3 1680000000
http_requests_total{code="500"} 1 1680000000
# TYPE request_duration_seconds histogram
request_duration_seconds_bucket{le="0.1"} 5
request_duration_seconds_bucket{le="+Inf"} 12
request_duration_seconds_count 12
request_duration_seconds_sum 7.5
# TYPE rpc summary
rpc{quantile="0.5"} 0.05
rpc{quantile="0.9"} 0.1
rpc_sum 17.5
rpc_count 100
# TYPE build info
build_info{version="1.2.3"} 1
thing 42
# EOF
`))
	require.NoError(t, err)

	fams := ToMetricFamilies(set)
	require.Len(t, fams, 5)

	counter := fams[0]
	require.Equal(t, "http_requests", counter.GetName())
	require.Equal(t, "Total requests served.", counter.GetHelp())
	require.Equal(t, dto.MetricType_COUNTER, counter.GetType())
	require.Len(t, counter.Metric, 2)
	require.Equal(t, "code", counter.Metric[0].Label[0].GetName())
	require.Equal(t, "200", counter.Metric[0].Label[0].GetValue())
	require.Equal(t, 3.0, counter.Metric[0].Counter.GetValue())
	require.Equal(t, int64(1680000000000), counter.Metric[0].GetTimestampMs())

	hist := fams[1]
	require.Equal(t, dto.MetricType_HISTOGRAM, hist.GetType())
	require.Len(t, hist.Metric, 1)
	h := hist.Metric[0].Histogram
	require.Equal(t, uint64(12), h.GetSampleCount())
	require.Equal(t, 7.5, h.GetSampleSum())
	require.Len(t, h.Bucket, 2)
	require.Equal(t, 0.1, h.Bucket[0].GetUpperBound())
	require.Equal(t, uint64(5), h.Bucket[0].GetCumulativeCount())
	require.True(t, math.IsInf(h.Bucket[1].GetUpperBound(), +1))

	summary := fams[2]
	require.Equal(t, dto.MetricType_SUMMARY, summary.GetType())
	require.Len(t, summary.Metric, 1)
	s := summary.Metric[0].Summary
	require.Equal(t, uint64(100), s.GetSampleCount())
	require.Equal(t, 17.5, s.GetSampleSum())
	require.Len(t, s.Quantile, 2)
	require.Equal(t, 0.5, s.Quantile[0].GetQuantile())
	require.Equal(t, 0.05, s.Quantile[0].GetValue())

	info := fams[3]
	require.Equal(t, dto.MetricType_GAUGE, info.GetType())
	require.Equal(t, 1.0, info.Metric[0].Gauge.GetValue())

	untyped := fams[4]
	require.Equal(t, dto.MetricType_UNTYPED, untyped.GetType())
	require.Equal(t, 42.0, untyped.Metric[0].Untyped.GetValue())
}

func TestToMetricFamiliesExemplar(t *testing.T) {
	set, err := Parse([]byte(`# TYPE c counter
c_total 5 # {trace_id="abc"} 1 1623000000
# EOF
`))
	require.NoError(t, err)

	fams := ToMetricFamilies(set)
	require.Len(t, fams, 1)
	ex := fams[0].Metric[0].Counter.GetExemplar()
	require.NotNil(t, ex)
	require.Equal(t, "trace_id", ex.Label[0].GetName())
	require.Equal(t, 1.0, ex.GetValue())
	require.Equal(t, int64(1623000000), ex.GetTimestamp().GetSeconds())
}
