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

// Package omtext ingests the OpenMetrics text exposition format.
//
// Parse consumes one complete document and returns the metric families
// grouped by base name, validated against the format's cross-line rules:
// metadata uniqueness and ordering, family interleaving, per-series
// timestamp monotonicity and duplicate detection, and the structural
// invariants of histogram and summary families. The first deviation aborts
// the parse with a ParseError carrying the line and byte offset.
//
// Parsing is synchronous and pure: the same buffer and options always
// produce the same result, and independent parses need no coordination.
package omtext
