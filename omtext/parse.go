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
	"bytes"

	"github.com/inferiorhumanorgans/om-nomnomnom/model"
)

// Parser parses OpenMetrics text expositions. The zero value is not usable;
// construct with NewParser. A Parser holds only configuration and may be
// used for any number of documents, concurrently.
type Parser struct {
	opts Options
}

// NewParser returns a parser with the default options, modified by opts.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{opts: DefaultOptions()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse consumes a complete exposition document and returns the metric
// families grouped by base name, in order of first appearance. The buffer
// is only read. The first deviation from the format aborts the parse; no
// partial result is returned.
func Parse(buf []byte) (*model.MetricSet, error) {
	return NewParser().Parse(buf)
}

// Parse parses one complete exposition document.
func (p *Parser) Parse(buf []byte) (*model.MetricSet, error) {
	agg := newAggregator(&p.opts)
	offset := 0
	lineNo := 0
	for offset < len(buf) {
		lineNo++
		var data []byte
		next := len(buf)
		if nl := bytes.IndexByte(buf[offset:], '\n'); nl >= 0 {
			data = buf[offset : offset+nl]
			next = offset + nl + 1
		} else {
			// Final line without terminator. Only # EOF is acceptable here;
			// anything else fails the missing # EOF check in finalize.
			data = buf[offset:]
		}
		c := &cursor{data: data, line: lineNo, base: offset}
		if agg.sawEOF {
			return nil, p.fail(c.errorf(ErrTrailingInput, string(data), "input after # EOF"))
		}
		if err := p.parseLine(c, agg); err != nil {
			return nil, p.fail(err)
		}
		offset = next
	}
	set, err := agg.finalize(lineNo, len(buf))
	if err != nil {
		return nil, p.fail(err)
	}
	return set, nil
}

// fail applies the generic-error toggle before an error escapes.
func (p *Parser) fail(e *ParseError) error {
	if e.Kind == ErrGeneric && !p.opts.GenericParseError {
		e.Kind = ErrUnexpectedToken
	}
	return e
}

func (p *Parser) parseLine(c *cursor, agg *aggregator) *ParseError {
	if n := len(c.data); n > 0 && c.data[n-1] == '\r' {
		c.i = n - 1
		return c.errorf(ErrLexical, "\\r", "line terminator must be '\\n'")
	}
	c.skipBlanks()
	if c.eol() {
		return nil
	}
	if c.peek() == '#' {
		return p.parseComment(c, agg)
	}
	return p.parseSample(c, agg)
}

// parseComment handles every line starting with '#': the EOF marker, the
// TYPE/HELP/UNIT descriptors, and free-form comments (ignored).
func (p *Parser) parseComment(c *cursor, agg *aggregator) *ParseError {
	c.i++
	c.skipBlanks()
	if c.eol() {
		return nil
	}
	keyword := c.token()
	if keyword == "EOF" {
		c.skipBlanks()
		if !c.eol() {
			return c.errorf(ErrUnexpectedToken, string(c.peek()), "invalid # EOF line")
		}
		agg.sawEOF = true
		return nil
	}
	if keyword != "TYPE" && keyword != "HELP" && keyword != "UNIT" {
		return nil
	}
	c.skipBlanks()
	if c.eol() {
		return nil
	}
	name, err := c.metricName()
	if err != nil {
		return c.errorf(ErrLexical, "", "invalid metric name in comment")
	}
	if !c.eol() && !isBlankOrTab(c.peek()) {
		return c.errorf(ErrLexical, name, "invalid metric name in comment")
	}
	c.skipBlanks()
	if c.eol() {
		// A descriptor with no payload sets nothing; this is not considered
		// a syntax error.
		return nil
	}
	var payload string
	if keyword == "HELP" {
		if payload, err = c.restOfLine(true); err != nil {
			return err
		}
	} else {
		if payload, err = c.restOfLine(false); err != nil {
			return err
		}
	}
	return agg.meta(c, keyword, name, payload)
}

func (p *Parser) parseSample(c *cursor, agg *aggregator) *ParseError {
	name, err := c.metricName()
	if err != nil {
		return err
	}
	var labels model.LabelSet
	c.skipBlanks()
	if c.peek() == '{' {
		if labels, _, _, err = c.labelSet(); err != nil {
			return err
		}
		c.skipBlanks()
	}
	if c.eol() {
		return c.errorf(ErrUnexpectedToken, "", "expected value")
	}
	value, err := c.number()
	if err != nil {
		return err
	}
	if len(labels) == 0 {
		labels = nil
	}
	sample := model.Sample{
		Name:   name,
		Labels: labels,
		Value:  model.SampleValue(value),
	}
	c.skipBlanks()
	if !c.eol() && c.peek() != '#' {
		ts, err := c.timestamp()
		if err != nil {
			return err
		}
		sample.Timestamp = &ts
		c.skipBlanks()
	}
	if c.peek() == '#' {
		ex, err := p.parseExemplar(c)
		if err != nil {
			return err
		}
		sample.Exemplar = ex
	}
	if !c.eol() {
		return c.errorf(ErrUnexpectedToken, string(c.peek()), "unexpected data after sample")
	}
	return agg.sample(c, sample)
}

// parseExemplar recognizes "# labels value [timestamp]" after a sample.
func (p *Parser) parseExemplar(c *cursor) (*model.Exemplar, *ParseError) {
	c.i++
	c.skipBlanks()
	labels, runes, byteLen, err := c.labelSet()
	if err != nil {
		return nil, err
	}
	// There is a hard 128 code point limit on the combined exemplar label
	// length; the naive mode overestimates with two bytes per character.
	if p.opts.NaiveWideCharSupport {
		if byteLen > 256 {
			return nil, c.errorf(ErrLexical, "", "exemplar label set exceeds 256 bytes")
		}
	} else if runes > 128 {
		return nil, c.errorf(ErrLexical, "", "exemplar label set exceeds 128 characters")
	}
	c.skipBlanks()
	if c.eol() {
		return nil, c.errorf(ErrUnexpectedToken, "", "expected exemplar value")
	}
	value, err := c.number()
	if err != nil {
		return nil, err
	}
	ex := &model.Exemplar{Labels: labels, Value: model.SampleValue(value)}
	c.skipBlanks()
	if !c.eol() {
		ts, err := c.timestamp()
		if err != nil {
			return nil, err
		}
		ex.Timestamp = &ts
		c.skipBlanks()
	}
	if !c.eol() {
		return nil, c.errorf(ErrUnexpectedToken, string(c.peek()), "unexpected data after exemplar")
	}
	return ex, nil
}
