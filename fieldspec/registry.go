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
package fieldspec

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/quickfixgo/enum"
	"github.com/stephenlclarke/fixbuilder/fix"
)

// FieldSpec describes a known tag for labelling and validation hints.
type FieldSpec struct {
	Tag       int
	Label     string
	Help      string
	Type      string
	Required  bool
	Condition string
	Enums     map[string]string
}

// ConditionalRule makes TargetTag required whenever the value of TriggerTag
// is one of TriggerValues.
type ConditionalRule struct {
	TargetTag     int
	TriggerTag    int
	TriggerValues []string
}

// Applies evaluates the trigger against fields.
func (r ConditionalRule) Applies(fields fix.FieldMap) bool {
	v, ok := fields[r.TriggerTag]
	if !ok {
		return false
	}
	return slices.Contains(r.TriggerValues, strings.TrimSpace(v))
}

func (r ConditionalRule) String() string {
	return fmt.Sprintf("%d required when %d in {%s}", r.TargetTag, r.TriggerTag, strings.Join(r.TriggerValues, ","))
}

// MessageLayout is the canonical body order and the validation rules for one
// message type. Order lists every body tag the builder may emit.
type MessageLayout struct {
	MsgType      enum.MsgType
	Name         string
	Order        []int
	Required     []int
	Conditionals []ConditionalRule
}

// Registry is the immutable table of field specs and message layouts. It is
// safe for concurrent use; every accessor returns copies.
type Registry struct {
	fields   map[int]FieldSpec
	layouts  map[enum.MsgType]MessageLayout
	msgTypes []enum.MsgType
}

type options struct {
	dictionaries []io.Reader
}

// Option configures New.
type Option func(*options)

// WithDictionary merges tag names, types and enum descriptions from a
// QuickFIX style XML data dictionary. Built-in entries are never replaced.
func WithDictionary(r io.Reader) Option {
	return func(o *options) {
		o.dictionaries = append(o.dictionaries, r)
	}
}

// New builds a Registry from the built-in table plus any dictionaries.
func New(opts ...Option) (*Registry, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	fields, layouts := builtinFields(), builtinLayouts()

	r := &Registry{
		fields:  make(map[int]FieldSpec, len(fields)),
		layouts: make(map[enum.MsgType]MessageLayout, len(layouts)),
	}

	for _, f := range fields {
		r.fields[f.Tag] = f
	}

	for _, l := range layouts {
		r.layouts[l.MsgType] = l
		r.msgTypes = append(r.msgTypes, l.MsgType)
	}

	for i, d := range o.dictionaries {
		dict, err := decodeDictionary(d)
		if err != nil {
			return nil, fmt.Errorf("fieldspec: dictionary %d: %w", i+1, err)
		}
		r.merge(dict)
	}

	return r, nil
}

// MustNew is New for the built-in table only, which cannot fail.
func MustNew() *Registry {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the FieldSpec for tag. A missing tag is a normal outcome.
func (r *Registry) Lookup(tag int) (FieldSpec, bool) {
	f, ok := r.fields[tag]
	if !ok {
		return FieldSpec{}, false
	}
	f.Enums = maps.Clone(f.Enums)
	return f, true
}

// LookupName finds a field by name, ignoring case. When two tags share a
// name the lower tag wins.
func (r *Registry) LookupName(name string) (FieldSpec, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FieldSpec{}, false
	}
	for _, tag := range r.Tags() {
		if strings.EqualFold(r.fields[tag].Label, name) {
			return r.Lookup(tag)
		}
	}
	return FieldSpec{}, false
}

// Label returns the field name, or the tag number when unknown.
func (r *Registry) Label(tag int) string {
	if f, ok := r.fields[tag]; ok && f.Label != "" {
		return f.Label
	}
	return strconv.Itoa(tag)
}

// EnumDescription returns the description of value for tag, or "".
func (r *Registry) EnumDescription(tag int, value string) string {
	if f, ok := r.fields[tag]; ok {
		return f.Enums[value]
	}
	return ""
}

// Tags lists every known tag in ascending order.
func (r *Registry) Tags() []int {
	tags := make([]int, 0, len(r.fields))
	for t := range r.fields {
		tags = append(tags, t)
	}
	sort.Ints(tags)
	return tags
}

// MessageTypes lists the buildable message types in declaration order.
func (r *Registry) MessageTypes() []enum.MsgType {
	return slices.Clone(r.msgTypes)
}

// Layout returns the canonical layout for msgType.
func (r *Registry) Layout(msgType enum.MsgType) (MessageLayout, bool) {
	l, ok := r.layouts[msgType]
	if !ok {
		return MessageLayout{}, false
	}
	l.Order = slices.Clone(l.Order)
	l.Required = slices.Clone(l.Required)
	l.Conditionals = slices.Clone(l.Conditionals)
	return l, true
}

// RequiredFields returns the required tags of msgType in declaration order.
func (r *Registry) RequiredFields(msgType enum.MsgType) []int {
	return slices.Clone(r.layouts[msgType].Required)
}

// ConditionalFields returns the conditional rules of msgType in declaration order.
func (r *Registry) ConditionalFields(msgType enum.MsgType) []ConditionalRule {
	return slices.Clone(r.layouts[msgType].Conditionals)
}

// MessageName resolves a MsgType value to its name, e.g. "D" to "NewOrderSingle".
func (r *Registry) MessageName(msgType string) string {
	if l, ok := r.layouts[enum.MsgType(msgType)]; ok {
		return l.Name
	}
	return r.EnumDescription(fix.TagMsgType, msgType)
}

// ParseMsgType accepts a MsgType code ("D") or a layout name ("NewOrderSingle").
func (r *Registry) ParseMsgType(s string) (enum.MsgType, bool) {
	if _, ok := r.layouts[enum.MsgType(s)]; ok {
		return enum.MsgType(s), true
	}
	for _, mt := range r.msgTypes {
		if strings.EqualFold(r.layouts[mt].Name, s) {
			return mt, true
		}
	}
	return "", false
}

func (r *Registry) merge(d *dictionary) {
	for _, df := range d.fields {
		f, known := r.fields[df.Tag]
		if !known {
			f = FieldSpec{Tag: df.Tag, Label: df.Name}
		}
		if f.Type == "" {
			f.Type = df.Type
		}
		for v, desc := range df.Enums {
			if f.Enums == nil {
				f.Enums = make(map[string]string, len(df.Enums))
			}
			if _, ok := f.Enums[v]; !ok {
				f.Enums[v] = desc
			}
		}
		r.fields[df.Tag] = f
	}

	msgTypeField := r.fields[fix.TagMsgType]
	if msgTypeField.Enums == nil {
		msgTypeField.Enums = make(map[string]string, len(d.messages))
	}
	for mt, name := range d.messages {
		if _, ok := msgTypeField.Enums[mt]; !ok {
			msgTypeField.Enums[mt] = name
		}
	}
	r.fields[fix.TagMsgType] = msgTypeField
}
