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
package validator

import (
	"fmt"
	"strings"

	"github.com/quickfixgo/enum"
	"github.com/stephenlclarke/fixbuilder/fieldspec"
	"github.com/stephenlclarke/fixbuilder/fix"
)

// Validator applies the registry's required and conditional rules. It holds
// no mutable state and is safe for concurrent use.
type Validator struct {
	reg *fieldspec.Registry
}

func New(reg *fieldspec.Registry) *Validator {
	return &Validator{reg: reg}
}

// Validate reports every missing required field followed by every missing
// conditional field, each in registry declaration order. fields is not
// modified.
func (v *Validator) Validate(fields fix.FieldMap, msgType enum.MsgType) []string {
	layout, ok := v.reg.Layout(msgType)
	if !ok {
		return []string{fmt.Sprintf("Unknown MsgType %s", msgType)}
	}

	var errors []string
	errors = append(errors, validateRequiredFields(layout.Required, fields)...)
	errors = append(errors, validateConditionalFields(layout.Conditionals, fields)...)

	return errors
}

func validateRequiredFields(required []int, fields fix.FieldMap) []string {
	var errors []string
	for _, tag := range required {
		if !fields.Present(tag) {
			errors = append(errors, fmt.Sprintf("Missing required field %d.", tag))
		}
	}
	return errors
}

func validateConditionalFields(rules []fieldspec.ConditionalRule, fields fix.FieldMap) []string {
	var errors []string
	for _, rule := range rules {
		if rule.Applies(fields) && !fields.Present(rule.TargetTag) {
			errors = append(errors, fmt.Sprintf("Missing conditional field %d.", rule.TargetTag))
		}
	}
	return errors
}

// ImmutableOnReplace are the tags an OrderCancelReplaceRequest may not change.
var ImmutableOnReplace = []int{fix.TagSymbol, fix.TagSide}

// ChangeableOnReplace are the tags of which at least one must change.
var ChangeableOnReplace = []int{fix.TagPrice, fix.TagOrderQty, fix.TagTimeInForce, fix.TagOrdType}

// ValidateReplace compares a replace request against the order it amends.
func (v *Validator) ValidateReplace(fields, original fix.FieldMap) []string {
	var errors []string

	for _, tag := range ImmutableOnReplace {
		if val, ok := fields[tag]; ok && strings.TrimSpace(val) != strings.TrimSpace(original[tag]) {
			errors = append(errors, fmt.Sprintf("Immutable field changed: %d", tag))
		}
	}

	changed := false
	for _, tag := range ChangeableOnReplace {
		_, inNew := fields[tag]
		_, inOld := original[tag]
		if (inNew || inOld) && strings.TrimSpace(fields[tag]) != strings.TrimSpace(original[tag]) {
			changed = true
			break
		}
	}

	if !changed {
		errors = append(errors, fmt.Sprintf("Replace must change at least one of: %s.", joinTags(ChangeableOnReplace)))
	}

	return errors
}

// ValidateCancelTarget checks that OrigClOrdID refers to a live order.
func (v *Validator) ValidateCancelTarget(fields fix.FieldMap, live func(clOrdID string) bool) []string {
	orig := strings.TrimSpace(fields[fix.TagOrigClOrdID])
	if orig == "" || live == nil || !live(orig) {
		return []string{fmt.Sprintf("OrigClOrdID(%d) does not reference a known live order.", fix.TagOrigClOrdID)}
	}
	return nil
}

func joinTags(tags []int) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, ",")
}
