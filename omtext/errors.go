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

import "fmt"

// ErrorKind classifies a parse failure. Every deviation from the format is
// an error; there are no recoverable warnings.
type ErrorKind uint8

const (
	// ErrGeneric is the catchall for otherwise-unclassified failures.
	ErrGeneric ErrorKind = iota
	// ErrLexical marks a malformed identifier, number, string, or escape
	// sequence.
	ErrLexical
	// ErrUnexpectedToken marks a grammar mismatch at a known position.
	ErrUnexpectedToken
	// ErrDuplicateMeta marks more than one TYPE/HELP/UNIT line for a family.
	ErrDuplicateMeta
	// ErrMetaAfterSample marks a meta line for a family that already has
	// samples.
	ErrMetaAfterSample
	// ErrUnknownMetricType marks a TYPE line with an unrecognized type token.
	ErrUnknownMetricType
	// ErrUnitMismatch marks a UNIT whose family name does not carry the
	// _<unit> suffix, or a unit on a type that must not have one.
	ErrUnitMismatch
	// ErrDuplicateLabelName marks a label appearing twice in one label list.
	ErrDuplicateLabelName
	// ErrInterleavedFamily marks a return to a family (or series) after
	// other samples, when forbidden.
	ErrInterleavedFamily
	// ErrTimestampRegression marks a timestamp decreasing within a series,
	// when enforced.
	ErrTimestampRegression
	// ErrDuplicateSample marks identical (label set, timestamp) within a
	// series.
	ErrDuplicateSample
	// ErrHistogramInvariant marks a structural histogram failure.
	ErrHistogramInvariant
	// ErrSummaryInvariant marks a structural summary failure.
	ErrSummaryInvariant
	// ErrCounterInvariant marks a malformed counter family.
	ErrCounterInvariant
	// ErrNameConflict marks a family name clashing with another family's
	// generated sample names.
	ErrNameConflict
	// ErrStateSetInvariant marks a malformed stateset family.
	ErrStateSetInvariant
	// ErrInfoInvariant marks a malformed info family.
	ErrInfoInvariant
	// ErrUnexpectedEOF marks input ending without an # EOF line.
	ErrUnexpectedEOF
	// ErrTrailingInput marks data after the # EOF line.
	ErrTrailingInput
)

func (k ErrorKind) String() string {
	switch k {
	case ErrLexical:
		return "lexical error"
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrDuplicateMeta:
		return "duplicate metadata"
	case ErrMetaAfterSample:
		return "metadata after sample"
	case ErrUnknownMetricType:
		return "unknown metric type"
	case ErrUnitMismatch:
		return "unit mismatch"
	case ErrDuplicateLabelName:
		return "duplicate label name"
	case ErrInterleavedFamily:
		return "interleaved family"
	case ErrTimestampRegression:
		return "timestamp out of order"
	case ErrDuplicateSample:
		return "duplicate sample"
	case ErrHistogramInvariant:
		return "malformed histogram"
	case ErrSummaryInvariant:
		return "malformed summary"
	case ErrCounterInvariant:
		return "malformed counter"
	case ErrNameConflict:
		return "family name conflict"
	case ErrStateSetInvariant:
		return "malformed stateset"
	case ErrInfoInvariant:
		return "malformed info"
	case ErrUnexpectedEOF:
		return "unexpected end of input"
	case ErrTrailingInput:
		return "data after # EOF"
	default:
		return "parse error"
	}
}

// ParseError is the error type returned for a failed parse. Line is
// 1-based, Offset is the 0-based byte offset into the document. Token holds
// the offending token where one exists.
type ParseError struct {
	Line   int
	Offset int
	Kind   ErrorKind
	Token  string
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("line %d (offset %d): %s", e.Line, e.Offset, e.Kind)
	}
	return fmt.Sprintf("line %d (offset %d): %s: %s", e.Line, e.Offset, e.Kind, e.Msg)
}

// Is allows errors.Is matching against a *ParseError carrying only a Kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Line == 0 || t.Line == e.Line)
}
