/*
fixbuilder — FIX message builder and decoder
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package decoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stephenlclarke/fixbuilder/fieldspec"
	"github.com/stephenlclarke/fixbuilder/fix"
)

// UnknownMsgType is reported in Meta.MsgType when tag 35 is absent.
const UnknownMsgType = "unknown"

var (
	ErrEmptyMessage     = errors.New("empty message")
	ErrMissingSeparator = errors.New("segment has no '='")
	ErrInvalidTag       = errors.New("tag is not a positive integer")
)

// ParseError locates the segment that stopped the parse.
type ParseError struct {
	Offset  int
	Segment string
	Reason  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d (%q): %v", e.Offset, e.Segment, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Reason }

type Meta struct {
	MsgType     string
	MsgTypeName string
	BeginString string
	BodyLength  string
	CheckSum    string
	Delimiter   string
}

// ParsedMessage keeps every field in wire order, duplicates included.
type ParsedMessage struct {
	Fields []fix.Field
	Meta   Meta
}

// FieldMap collapses the fields for validation. Later duplicates win.
func (p ParsedMessage) FieldMap() fix.FieldMap {
	return fix.ToMap(p.Fields)
}

// Value returns the first occurrence of tag.
func (p ParsedMessage) Value(tag int) (string, bool) {
	for _, f := range p.Fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

// Raw re-renders the message with SOH delimiters.
func (p ParsedMessage) Raw() string {
	return fix.Join(p.Fields, fix.SOH)
}

// Parser resolves message names through a registry. A nil registry, or a nil
// *Parser, leaves Meta.MsgTypeName empty.
type Parser struct {
	reg *fieldspec.Registry
}

func NewParser(reg *fieldspec.Registry) *Parser {
	return &Parser{reg: reg}
}

// Parse is a registry-free shortcut for (*Parser)(nil).Parse.
func Parse(raw string) (ParsedMessage, error) {
	var p *Parser
	return p.Parse(raw)
}

// Parse splits raw into tag=value fields. The delimiter is SOH when one is
// present, otherwise '|'. It does not check completeness; that is the
// validator's job.
func (p *Parser) Parse(raw string) (ParsedMessage, error) {
	raw = strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(raw) == "" {
		return ParsedMessage{}, &ParseError{Reason: ErrEmptyMessage}
	}

	delim := DetectDelimiter(raw)
	fields := make([]fix.Field, 0, strings.Count(raw, delim)+1)

	offset := 0
	for _, seg := range strings.Split(raw, delim) {
		start := offset
		offset += len(seg) + len(delim)

		if seg == "" {
			continue
		}

		tagStr, value, ok := strings.Cut(seg, "=")
		if !ok {
			return ParsedMessage{}, &ParseError{Offset: start, Segment: seg, Reason: ErrMissingSeparator}
		}

		tag, ok := parseTag(tagStr)
		if !ok {
			return ParsedMessage{}, &ParseError{Offset: start, Segment: seg, Reason: ErrInvalidTag}
		}

		fields = append(fields, fix.Field{Tag: tag, Value: value})
	}

	if len(fields) == 0 {
		return ParsedMessage{}, &ParseError{Reason: ErrEmptyMessage}
	}

	msg := ParsedMessage{Fields: fields}
	msg.Meta = p.meta(msg, delim)

	return msg, nil
}

func (p *Parser) meta(msg ParsedMessage, delim string) Meta {
	m := Meta{MsgType: UnknownMsgType, Delimiter: delim}

	if v, ok := msg.Value(fix.TagMsgType); ok {
		m.MsgType = v
		if p != nil && p.reg != nil {
			m.MsgTypeName = p.reg.MessageName(v)
		}
	}

	m.BeginString, _ = msg.Value(fix.TagBeginString)
	m.BodyLength, _ = msg.Value(fix.TagBodyLength)
	m.CheckSum, _ = msg.Value(fix.TagCheckSum)

	return m
}

// DetectDelimiter prefers SOH and falls back to the display pipe.
func DetectDelimiter(raw string) string {
	if strings.Contains(raw, fix.SOH) {
		return fix.SOH
	}
	return fix.Pipe
}

func parseTag(s string) (int, bool) {
	if s == "" || len(s) > 9 {
		return 0, false
	}

	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}

	return n, n > 0
}
