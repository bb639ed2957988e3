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
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/inferiorhumanorgans/om-nomnomnom/model"
)

// cursor is the position of the recognizers within one line of the
// exposition. base is the byte offset of the line start within the whole
// document, so errors carry document-absolute positions.
type cursor struct {
	data []byte
	i    int
	line int
	base int
}

func (c *cursor) errorf(kind ErrorKind, token, msg string) *ParseError {
	return &ParseError{
		Line:   c.line,
		Offset: c.base + c.i,
		Kind:   kind,
		Token:  token,
		Msg:    msg,
	}
}

func (c *cursor) eol() bool {
	return c.i >= len(c.data)
}

func (c *cursor) peek() byte {
	if c.eol() {
		return 0
	}
	return c.data[c.i]
}

func isBlankOrTab(b byte) bool {
	return b == ' ' || b == '\t'
}

// skipBlanks advances over spaces and tabs.
func (c *cursor) skipBlanks() {
	for !c.eol() && isBlankOrTab(c.data[c.i]) {
		c.i++
	}
}

func isMetricNameStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == ':'
}

func isMetricNameByte(b byte) bool {
	return isMetricNameStart(b) || (b >= '0' && b <= '9')
}

func isLabelNameStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isLabelNameByte(b byte) bool {
	return isLabelNameStart(b) || (b >= '0' && b <= '9')
}

// metricName recognizes [a-zA-Z_:][a-zA-Z0-9_:]*.
func (c *cursor) metricName() (string, *ParseError) {
	if c.eol() || !isMetricNameStart(c.data[c.i]) {
		return "", c.errorf(ErrLexical, string(c.peek()), "invalid metric name")
	}
	start := c.i
	for !c.eol() && isMetricNameByte(c.data[c.i]) {
		c.i++
	}
	return string(c.data[start:c.i]), nil
}

// labelName recognizes [a-zA-Z_][a-zA-Z0-9_]*; no colons.
func (c *cursor) labelName() (string, *ParseError) {
	if c.eol() || !isLabelNameStart(c.data[c.i]) {
		return "", c.errorf(ErrLexical, string(c.peek()), "invalid label name")
	}
	start := c.i
	for !c.eol() && isLabelNameByte(c.data[c.i]) {
		c.i++
	}
	return string(c.data[start:c.i]), nil
}

// quotedString recognizes a double-quoted string with the escapes \\, \",
// and \n. Any other backslash sequence is an error. The returned string
// owns its storage; UTF-8 passes through unaltered.
func (c *cursor) quotedString() (string, *ParseError) {
	if c.peek() != '"' {
		return "", c.errorf(ErrUnexpectedToken, string(c.peek()), "expected '\"' at start of string")
	}
	c.i++
	var sb strings.Builder
	for {
		if c.eol() {
			return "", c.errorf(ErrLexical, "", "unterminated quoted string")
		}
		b := c.data[c.i]
		switch b {
		case '"':
			c.i++
			return sb.String(), nil
		case '\\':
			c.i++
			if c.eol() {
				return "", c.errorf(ErrLexical, "", "unterminated escape sequence")
			}
			switch c.data[c.i] {
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'n':
				sb.WriteByte('\n')
			default:
				return "", c.errorf(ErrLexical, string(c.data[c.i]), "invalid escape sequence")
			}
			c.i++
		default:
			sb.WriteByte(b)
			c.i++
		}
	}
}

// labelSet recognizes { pair ("," pair)* ","? } with an optional empty
// body. Duplicate label names are an error. Labels whose value unescapes to
// the empty string are dropped from the set. runes and bytes report the
// cumulative width of all name/value pairs read, for the exemplar cap.
func (c *cursor) labelSet() (ls model.LabelSet, runes, bytes int, err *ParseError) {
	if c.peek() != '{' {
		return nil, 0, 0, c.errorf(ErrUnexpectedToken, string(c.peek()), "expected '{'")
	}
	c.i++
	ls = model.LabelSet{}
	seen := map[string]struct{}{}
	for {
		c.skipBlanks()
		if c.peek() == '}' {
			c.i++
			return ls, runes, bytes, nil
		}
		name, lerr := c.labelName()
		if lerr != nil {
			return nil, 0, 0, lerr
		}
		if name == model.MetricNameLabel {
			return nil, 0, 0, c.errorf(ErrUnexpectedToken, name, "label name is reserved")
		}
		if _, dup := seen[name]; dup {
			return nil, 0, 0, c.errorf(ErrDuplicateLabelName, name, "duplicate label name")
		}
		seen[name] = struct{}{}
		c.skipBlanks()
		if c.peek() != '=' {
			return nil, 0, 0, c.errorf(ErrUnexpectedToken, string(c.peek()), "expected '=' after label name")
		}
		c.i++
		c.skipBlanks()
		value, lerr := c.quotedString()
		if lerr != nil {
			return nil, 0, 0, lerr
		}
		runes += len(name) + utf8.RuneCountInString(value)
		bytes += len(name) + len(value)
		// An empty value is equivalent to the label being absent.
		if value != "" {
			ls[model.LabelName(name)] = model.LabelValue(value)
		}
		c.skipBlanks()
		switch c.peek() {
		case ',':
			c.i++
		case '}':
			c.i++
			return ls, runes, bytes, nil
		default:
			return nil, 0, 0, c.errorf(ErrUnexpectedToken, string(c.peek()), "expected ',' or '}' in label set")
		}
	}
}

// token reads up to the next blank or end of line.
func (c *cursor) token() string {
	start := c.i
	for !c.eol() && !isBlankOrTab(c.data[c.i]) {
		c.i++
	}
	return string(c.data[start:c.i])
}

// number recognizes a sample value: the literals +Inf, -Inf, and NaN
// (case-sensitively, exactly these spellings) or a decimal float with
// optional exponent.
func (c *cursor) number() (float64, *ParseError) {
	pos := c.i
	tok := c.token()
	v, ok := parseNumber(tok)
	if !ok {
		c.i = pos
		return 0, c.errorf(ErrLexical, tok, "expected float as value")
	}
	return v, nil
}

// timestamp recognizes a decimal-seconds timestamp. Inf/NaN spellings in
// any case are rejected, as are exponents.
func (c *cursor) timestamp() (model.Timestamp, *ParseError) {
	pos := c.i
	tok := c.token()
	lower := strings.ToLower(tok)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		c.i = pos
		return model.Timestamp{}, c.errorf(ErrLexical, tok, "invalid timestamp")
	}
	ts, err := model.ParseTimestamp(tok)
	if err != nil {
		c.i = pos
		return model.Timestamp{}, c.errorf(ErrLexical, tok, "invalid timestamp")
	}
	return ts, nil
}

// restOfLine consumes the remainder of the line. With escapes enabled the
// sequences \\ and \n are decoded and any other backslash sequence is an
// error; this is the HELP payload rule.
func (c *cursor) restOfLine(recognizeEscapes bool) (string, *ParseError) {
	if !recognizeEscapes {
		s := string(c.data[c.i:])
		c.i = len(c.data)
		return s, nil
	}
	var sb strings.Builder
	for !c.eol() {
		b := c.data[c.i]
		if b != '\\' {
			sb.WriteByte(b)
			c.i++
			continue
		}
		c.i++
		if c.eol() {
			return "", c.errorf(ErrLexical, "", "unterminated escape sequence")
		}
		switch c.data[c.i] {
		case '\\':
			sb.WriteByte('\\')
		case 'n':
			sb.WriteByte('\n')
		default:
			return "", c.errorf(ErrLexical, string(c.data[c.i]), "invalid escape sequence")
		}
		c.i++
	}
	return sb.String(), nil
}

func parseNumber(s string) (float64, bool) {
	switch s {
	case "+Inf":
		return math.Inf(+1), true
	case "-Inf":
		return math.Inf(-1), true
	case "NaN":
		return math.NaN(), true
	}
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !((b >= '0' && b <= '9') || b == '+' || b == '-' || b == '.' || b == 'e' || b == 'E') {
			return 0, false
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
