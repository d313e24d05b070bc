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
package encoder

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/stephenlclarke/fixbuilder/fieldspec"
	"github.com/stephenlclarke/fixbuilder/fix"
	"github.com/stephenlclarke/fixbuilder/validator"
)

var (
	// ErrUnknownMsgType means the caller asked for a message type without a layout.
	ErrUnknownMsgType = errors.New("unknown message type")
	// ErrMissingBeginString means Header.BeginString was blank.
	ErrMissingBeginString = errors.New("missing BeginString")
	// ErrMsgTypeMismatch means the fields carry a MsgType(35) other than the one requested.
	ErrMsgTypeMismatch = errors.New("MsgType (35) mismatch")
)

// ValidationError is returned by a strict Builder when validation fails.
type ValidationError struct {
	MsgType enum.MsgType
	Errors  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("MsgType %s failed validation: %s", e.MsgType, strings.Join(e.Errors, " "))
}

// Header carries the session level fields. Blank optional fields are left
// off the wire entirely.
type Header struct {
	BeginString  string
	SenderCompID string
	TargetCompID string
	MsgSeqNum    string
	SendingTime  string
}

// BuiltMessage is the result of one Build call.
type BuiltMessage struct {
	Raw        []byte
	Display    string
	Errors     []string
	BodyLength int
	CheckSum   string
	Fields     []fix.Field
}

// headerTags never come from the business fields mapping.
var headerTags = []int{
	fix.TagBeginString, fix.TagBodyLength, fix.TagCheckSum, fix.TagMsgType,
	fix.TagSenderCompID, fix.TagTargetCompID, fix.TagMsgSeqNum, fix.TagSendingTime,
}

// Builder assembles wire messages from a fields mapping. It holds no mutable
// state and is safe for concurrent use.
type Builder struct {
	reg              *fieldspec.Registry
	validator        *validator.Validator
	strict           bool
	stampSendingTime bool
	now              func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithStrict makes Build refuse to assemble a message that fails validation.
func WithStrict(strict bool) Option {
	return func(b *Builder) { b.strict = strict }
}

// WithClock replaces time.Now for default timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithSendingTime stamps SendingTime(52) when the header leaves it blank.
func WithSendingTime(stamp bool) Option {
	return func(b *Builder) { b.stampSendingTime = stamp }
}

// WithValidator overrides the validator built from the registry.
func WithValidator(v *validator.Validator) Option {
	return func(b *Builder) { b.validator = v }
}

func New(reg *fieldspec.Registry, opts ...Option) *Builder {
	b := &Builder{reg: reg, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	if b.validator == nil {
		b.validator = validator.New(reg)
	}
	return b
}

// Build validates fields and assembles a message of msgType. Validation
// failures are reported in BuiltMessage.Errors and do not stop the build
// unless the Builder is strict. Unknown message types, a blank BeginString
// and a conflicting MsgType(35) in fields are caller bugs and return an error.
func (b *Builder) Build(msgType enum.MsgType, fields fix.FieldMap, header Header) (BuiltMessage, error) {
	layout, ok := b.reg.Layout(msgType)
	if !ok {
		return BuiltMessage{}, fmt.Errorf("%w: %q", ErrUnknownMsgType, msgType)
	}

	beginString := strings.TrimSpace(header.BeginString)
	if beginString == "" {
		return BuiltMessage{}, ErrMissingBeginString
	}

	if v := strings.TrimSpace(fields[fix.TagMsgType]); v != "" && v != string(msgType) {
		return BuiltMessage{}, fmt.Errorf("%w: fields have %q, building %q", ErrMsgTypeMismatch, v, msgType)
	}

	work, header := b.applyDefaults(fields, header)

	errs := b.validator.Validate(work, msgType)
	errs = append(errs, checkDelimiters(work)...)

	if b.strict && len(errs) > 0 {
		return BuiltMessage{Errors: errs}, &ValidationError{MsgType: msgType, Errors: errs}
	}

	body := make([]fix.Field, 0, len(layout.Order)+len(work)+5)
	body = append(body, fix.Field{Tag: fix.TagMsgType, Value: string(msgType)})
	body = appendHeader(body, header)
	body = appendLayout(body, layout, work)
	body = appendCustom(body, layout, work)

	raw, bodyLength, checksum := fix.Frame(beginString, body)

	emitted := make([]fix.Field, 0, len(body)+3)
	emitted = append(emitted,
		fix.Field{Tag: fix.TagBeginString, Value: beginString},
		fix.Field{Tag: fix.TagBodyLength, Value: fmt.Sprint(bodyLength)},
	)
	emitted = append(emitted, body...)
	emitted = append(emitted, fix.Field{Tag: fix.TagCheckSum, Value: checksum})

	return BuiltMessage{
		Raw:        raw,
		Display:    fix.ToDisplay(string(raw)),
		Errors:     errs,
		BodyLength: bodyLength,
		CheckSum:   checksum,
		Fields:     emitted,
	}, nil
}

func (b *Builder) applyDefaults(fields fix.FieldMap, header Header) (fix.FieldMap, Header) {
	work := fields.Clone()
	stamp := fix.FormatTimestamp(b.now())

	if !work.Present(fix.TagTransactTime) {
		work[fix.TagTransactTime] = stamp
	}

	if b.stampSendingTime && strings.TrimSpace(header.SendingTime) == "" {
		header.SendingTime = stamp
	}

	return work, header
}

func appendHeader(body []fix.Field, h Header) []fix.Field {
	optional := []fix.Field{
		{Tag: fix.TagSenderCompID, Value: h.SenderCompID},
		{Tag: fix.TagTargetCompID, Value: h.TargetCompID},
		{Tag: fix.TagMsgSeqNum, Value: h.MsgSeqNum},
		{Tag: fix.TagSendingTime, Value: h.SendingTime},
	}

	for _, f := range optional {
		if strings.TrimSpace(f.Value) != "" {
			body = append(body, f)
		}
	}
	return body
}

// appendLayout emits the canonical order. Required tags are always written,
// even when empty, so a best-effort build shows where the gap is.
func appendLayout(body []fix.Field, layout fieldspec.MessageLayout, fields fix.FieldMap) []fix.Field {
	for _, tag := range layout.Order {
		value, ok := fields[tag]
		if slices.Contains(layout.Required, tag) || (ok && value != "") {
			body = append(body, fix.Field{Tag: tag, Value: value})
		}
	}
	return body
}

// appendCustom emits caller tags outside the layout in ascending tag order.
func appendCustom(body []fix.Field, layout fieldspec.MessageLayout, fields fix.FieldMap) []fix.Field {
	for _, tag := range fields.Tags() {
		if tag <= 0 || slices.Contains(layout.Order, tag) || slices.Contains(headerTags, tag) {
			continue
		}
		if value := fields[tag]; value != "" {
			body = append(body, fix.Field{Tag: tag, Value: value})
		}
	}
	return body
}

func checkDelimiters(fields fix.FieldMap) []string {
	var errs []string
	for _, tag := range fields.Tags() {
		if strings.Contains(fields[tag], fix.SOH) {
			errs = append(errs, fmt.Sprintf("Field %d contains the SOH delimiter.", tag))
		}
	}
	return errs
}
