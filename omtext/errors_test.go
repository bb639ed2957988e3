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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrors(t *testing.T) {
	scenarios := []struct {
		name string
		in   string
		kind ErrorKind
		line int // 0 means don't check
	}{
		{
			name: "missing_eof",
			in:   "x 1\n",
			kind: ErrUnexpectedEOF,
		},
		{
			name: "empty_document",
			in:   "",
			kind: ErrUnexpectedEOF,
		},
		{
			name: "text_after_eof",
			in:   "x 1\n# EOF\nextra\n",
			kind: ErrTrailingInput,
			line: 3,
		},
		{
			name: "blank_line_after_eof",
			in:   "x 1\n# EOF\n\n",
			kind: ErrTrailingInput,
		},
		{
			name: "invalid_eof_line",
			in:   "# EOF trailing\n",
			kind: ErrUnexpectedToken,
		},
		{
			name: "interleaved_families",
			in:   "# TYPE a gauge\na 1\nb 1\na 2\n# EOF\n",
			kind: ErrInterleavedFamily,
			line: 4,
		},
		{
			name: "interleaved_series",
			in:   "# TYPE a gauge\na{x=\"1\"} 1 1\na{x=\"2\"} 1 1\na{x=\"1\"} 2 2\n# EOF\n",
			kind: ErrInterleavedFamily,
		},
		{
			name: "second_type_line",
			in:   "# TYPE a gauge\n# TYPE a counter\n",
			kind: ErrDuplicateMeta,
			line: 2,
		},
		{
			name: "second_help_line",
			in:   "# HELP a one\n# HELP a two\n",
			kind: ErrDuplicateMeta,
		},
		{
			name: "second_unit_line",
			in:   "# TYPE a_seconds gauge\n# UNIT a_seconds seconds\n# UNIT a_seconds seconds\n",
			kind: ErrDuplicateMeta,
		},
		{
			name: "help_after_sample",
			in:   "# TYPE a gauge\na 1\n# HELP a help\n",
			kind: ErrMetaAfterSample,
			line: 3,
		},
		{
			name: "type_after_sample",
			in:   "a 1\n# TYPE a gauge\n",
			kind: ErrMetaAfterSample,
		},
		{
			name: "unknown_type",
			in:   "# TYPE a jauge\n",
			kind: ErrUnknownMetricType,
			line: 1,
		},
		{
			name: "unit_without_suffix",
			in:   "# TYPE a_bytes counter\n# UNIT a_bytes seconds\n",
			kind: ErrUnitMismatch,
		},
		{
			name: "unit_on_info",
			in:   "# TYPE build_x info\n# UNIT build_x x\nbuild_x_info 1\n# EOF\n",
			kind: ErrUnitMismatch,
		},
		{
			name: "duplicate_label_name",
			in:   "a{x=\"1\",x=\"2\"} 1\n",
			kind: ErrDuplicateLabelName,
		},
		{
			name: "reserved_label_name",
			in:   "a{__name__=\"a\"} 1\n",
			kind: ErrUnexpectedToken,
		},
		{
			name: "timestamp_regression",
			in:   "# TYPE a gauge\na{x=\"1\"} 1 2\na{x=\"1\"} 2 1\n",
			kind: ErrTimestampRegression,
			line: 3,
		},
		{
			name: "timestamp_mixed_presence",
			in:   "# TYPE a gauge\na{x=\"1\"} 1 2\na{x=\"1\"} 2\n",
			kind: ErrTimestampRegression,
		},
		{
			name: "duplicate_sample_no_timestamps",
			in:   "a 1\na 2\n",
			kind: ErrDuplicateSample,
		},
		{
			name: "duplicate_sample_same_timestamp",
			in:   "a 1 5\na 2 5\n",
			kind: ErrDuplicateSample,
		},
		{
			name: "histogram_count_mismatch",
			in: `# TYPE h histogram
h_bucket{le="0.1"} 5
h_bucket{le="1"} 10
h_bucket{le="+Inf"} 12
h_count 13
h_sum 7.5
# EOF
`,
			kind: ErrHistogramInvariant,
		},
		{
			name: "histogram_fractional_count",
			in: `# TYPE h histogram
h_bucket{le="+Inf"} 1.5
h_count 1.5
h_sum 1
# EOF
`,
			kind: ErrHistogramInvariant,
		},
		{
			name: "histogram_buckets_out_of_order",
			in: `# TYPE h histogram
h_bucket{le="1"} 5
h_bucket{le="0.5"} 3
h_bucket{le="+Inf"} 10
h_count 10
h_sum 2
# EOF
`,
			kind: ErrHistogramInvariant,
		},
		{
			name: "histogram_values_not_cumulative",
			in: `# TYPE h histogram
h_bucket{le="1"} 5
h_bucket{le="2"} 3
h_bucket{le="+Inf"} 10
h_count 10
h_sum 2
# EOF
`,
			kind: ErrHistogramInvariant,
		},
		{
			name: "histogram_missing_inf_bucket",
			in: `# TYPE h histogram
h_bucket{le="1"} 5
h_count 5
h_sum 2
# EOF
`,
			kind: ErrHistogramInvariant,
		},
		{
			name: "histogram_missing_sum",
			in: `# TYPE h histogram
h_bucket{le="+Inf"} 5
h_count 5
# EOF
`,
			kind: ErrHistogramInvariant,
		},
		{
			name: "histogram_bucket_without_le",
			in:   "# TYPE h histogram\nh_bucket 1\n",
			kind: ErrHistogramInvariant,
		},
		{
			name: "histogram_nan_bucket_bound",
			in:   "# TYPE h histogram\nh_bucket{le=\"NaN\"} 1\n",
			kind: ErrHistogramInvariant,
		},
		{
			name: "histogram_negative_bucket_value",
			in:   "# TYPE h histogram\nh_bucket{le=\"1\"} -1\n",
			kind: ErrHistogramInvariant,
		},
		{
			name: "gaugehistogram_gsum_without_gcount",
			in: `# TYPE g gaugehistogram
g_bucket{le="+Inf"} 5
g_gsum 2
# EOF
`,
			kind: ErrHistogramInvariant,
		},
		{
			name: "summary_quantile_out_of_range",
			in:   "# TYPE s summary\ns{quantile=\"1.5\"} 1\n",
			kind: ErrSummaryInvariant,
		},
		{
			name: "summary_negative_count",
			in:   "# TYPE s summary\ns_count -1\n",
			kind: ErrSummaryInvariant,
		},
		{
			name: "summary_duplicate_quantile",
			in: `# TYPE s summary
s{quantile="0.5"} 1
s{quantile="0.50"} 2
# EOF
`,
			kind: ErrSummaryInvariant,
		},
		{
			name: "summary_quantiles_out_of_order",
			in: `# TYPE s summary
s{quantile="0.9"} 1
s{quantile="0.5"} 2
# EOF
`,
			kind: ErrSummaryInvariant,
		},
		{
			name: "summary_sample_without_quantile",
			in:   "# TYPE s summary\ns 1\n",
			kind: ErrSummaryInvariant,
		},
		{
			name: "counter_without_total",
			in:   "# TYPE c counter\nc 1\n# EOF\n",
			kind: ErrCounterInvariant,
		},
		{
			name: "counter_negative_total",
			in:   "# TYPE c counter\nc_total -1\n",
			kind: ErrCounterInvariant,
		},
		{
			name: "counter_nan_total",
			in:   "# TYPE c counter\nc_total NaN\n",
			kind: ErrCounterInvariant,
		},
		{
			name: "family_name_conflict",
			in: `# TYPE a counter
a_total 1
# TYPE a_created gauge
a_created 1
# EOF
`,
			kind: ErrNameConflict,
		},
		{
			name: "stateset_bad_value",
			in:   "# TYPE feature stateset\nfeature{feature=\"a\"} 2\n",
			kind: ErrStateSetInvariant,
		},
		{
			name: "stateset_missing_self_label",
			in:   "# TYPE feature stateset\nfeature{other=\"a\"} 1\n",
			kind: ErrStateSetInvariant,
		},
		{
			name: "info_bad_value",
			in:   "# TYPE build info\nbuild_info 2\n",
			kind: ErrInfoInvariant,
		},
		{
			name: "exemplar_on_gauge",
			in:   "# TYPE a gauge\na 1 # {} 1\n",
			kind: ErrUnexpectedToken,
		},
		{
			name: "exemplar_too_long",
			in:   "# TYPE c counter\nc_total 1 # {trace_id=\"" + strings.Repeat("x", 129) + "\"} 1\n",
			kind: ErrLexical,
		},
		{
			name: "second_exemplar",
			in:   "# TYPE c counter\nc_total 1 # {} 1 # {} 2\n",
			kind: ErrLexical,
		},
		{
			name: "bad_escape_in_label_value",
			in:   "a{x=\"\\q\"} 1\n",
			kind: ErrLexical,
		},
		{
			name: "bad_escape_in_help",
			in:   "# HELP a bad \\q escape\n",
			kind: ErrLexical,
		},
		{
			name: "unterminated_label_value",
			in:   "a{x=\"1} 1\n",
			kind: ErrLexical,
		},
		{
			name: "label_value_missing_quotes",
			in:   "a{x=1} 1\n",
			kind: ErrUnexpectedToken,
		},
		{
			name: "label_missing_equals",
			in:   "a{x} 1\n",
			kind: ErrUnexpectedToken,
		},
		{
			name: "missing_value",
			in:   "a\n",
			kind: ErrUnexpectedToken,
		},
		{
			name: "bare_inf_value",
			in:   "a Inf\n",
			kind: ErrLexical,
		},
		{
			name: "lowercase_nan_value",
			in:   "a nan\n",
			kind: ErrLexical,
		},
		{
			name: "hex_value",
			in:   "a 0x1f\n",
			kind: ErrLexical,
		},
		{
			name: "timestamp_with_exponent",
			in:   "a 1 1e3\n",
			kind: ErrLexical,
		},
		{
			name: "nan_timestamp",
			in:   "a 1 NaN\n",
			kind: ErrLexical,
		},
		{
			name: "carriage_return_terminator",
			in:   "a 1\r\n",
			kind: ErrLexical,
		},
		{
			name: "invalid_metric_name",
			in:   "1abc 2\n",
			kind: ErrLexical,
		},
		{
			name: "invalid_metric_name_in_descriptor",
			in:   "# TYPE 1abc gauge\n",
			kind: ErrLexical,
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			_, err := Parse([]byte(scenario.in))
			require.Error(t, err)
			perr, ok := err.(*ParseError)
			require.True(t, ok, "expected *ParseError, got %T: %v", err, err)
			require.Equal(t, scenario.kind, perr.Kind, "unexpected kind for error %q", perr)
			if scenario.line != 0 {
				require.Equal(t, scenario.line, perr.Line, "unexpected line for error %q", perr)
			}
		})
	}
}

func TestParseErrorMessage(t *testing.T) {
	_, err := Parse([]byte("# TYPE a gauge\na{x=\"1\",x=\"2\"} 1\n# EOF\n"))
	require.Error(t, err)
	perr := err.(*ParseError)
	require.Equal(t, 2, perr.Line)
	require.Equal(t, "x", perr.Token)
	require.Contains(t, perr.Error(), "line 2")
	require.Contains(t, perr.Error(), "duplicate label name")
}
