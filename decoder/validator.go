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
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/stephenlclarke/fixbuilder/fieldspec"
	"github.com/stephenlclarke/fixbuilder/fix"
	"github.com/stephenlclarke/fixbuilder/validator"
)

// ValidateMessage runs the structural checks on a parsed message: framing,
// field types, enum values, field order and, for the buildable message types,
// the required and conditional rules.
func ValidateMessage(p ParsedMessage, reg *fieldspec.Registry, v *validator.Validator) []string {
	var errors []string

	errors = append(errors, CheckIntegrity(p)...)
	errors = append(errors, CheckFieldTypes(p, reg)...)

	layout, ok := reg.Layout(enum.MsgType(p.Meta.MsgType))
	if !ok {
		return append(errors, fmt.Sprintf("Unknown MsgType %s", p.Meta.MsgType))
	}

	errors = append(errors, CheckFieldOrder(p, layout.Order)...)
	if v != nil {
		errors = append(errors, v.Validate(p.FieldMap(), layout.MsgType)...)
	}

	return errors
}

// CheckIntegrity recomputes BodyLength(9) and CheckSum(10) from the parsed
// fields as they would appear on the wire.
func CheckIntegrity(p ParsedMessage) []string {
	var errors []string

	if len(p.Fields) == 0 || p.Fields[0].Tag != fix.TagBeginString {
		errors = append(errors, "BeginString(8) must be the first field")
	}

	bodyIdx := indexOf(p.Fields, fix.TagBodyLength)
	sumIdx := indexOf(p.Fields, fix.TagCheckSum)

	if bodyIdx == -1 {
		errors = append(errors, "Missing BodyLength(9)")
	}
	if sumIdx == -1 {
		return append(errors, "Missing CheckSum(10)")
	}
	if sumIdx != len(p.Fields)-1 {
		errors = append(errors, "CheckSum(10) must be the last field")
	}

	if bodyIdx != -1 && bodyIdx < sumIdx {
		got := p.Fields[bodyIdx].Value
		expected := strconv.Itoa(fix.BodyLengthString(fix.Join(p.Fields[bodyIdx+1:sumIdx], fix.SOH)))
		if got != expected {
			errors = append(errors, fmt.Sprintf("BodyLength mismatch: got %s, expected %s", got, expected))
		}
	}

	got := p.Fields[sumIdx].Value
	expected := fix.ChecksumString(fix.Join(p.Fields[:sumIdx], fix.SOH))
	if got != expected {
		errors = append(errors, fmt.Sprintf("Checksum mismatch: got %s, expected %s", got, expected))
	}

	return errors
}

// CheckFieldTypes checks every value against its registry type and, when the
// registry lists them, its enum values. Unknown tags are skipped.
func CheckFieldTypes(p ParsedMessage, reg *fieldspec.Registry) []string {
	var errors []string
	for _, fv := range p.Fields {
		spec, ok := reg.Lookup(fv.Tag)
		if !ok {
			continue
		}

		// the MsgType table only names the common messages
		if len(spec.Enums) > 0 && fv.Tag != fix.TagMsgType {
			if _, valid := spec.Enums[fv.Value]; !valid {
				errors = append(errors, fmt.Sprintf("Invalid enum value '%s' for tag %d", fv.Value, fv.Tag))
			}
		}

		if spec.Type != "" && !IsValidType(fv.Value, spec.Type) {
			errors = append(errors, fmt.Sprintf("Invalid type for tag %d: expected %s, got '%s'", fv.Tag, spec.Type, fv.Value))
		}
	}
	return errors
}

// CheckFieldOrder reports layout tags that appear before a tag the layout
// places ahead of them.
func CheckFieldOrder(p ParsedMessage, expectedOrder []int) []string {
	orderIndex := make(map[int]int, len(expectedOrder))
	for i, tag := range expectedOrder {
		orderIndex[tag] = i
	}

	var errors []string
	lastIdx := -1
	for _, fv := range p.Fields {
		if idx, ok := orderIndex[fv.Tag]; ok {
			if idx < lastIdx {
				errors = append(errors, fmt.Sprintf("Tag %d out of order", fv.Tag))
			}
			lastIdx = idx
		}
	}
	return errors
}

func indexOf(fields []fix.Field, tag int) int {
	for i, f := range fields {
		if f.Tag == tag {
			return i
		}
	}
	return -1
}

var monthYear = regexp.MustCompile(`^\d{6}([0-9]{2}|(-[0-9]{1,2})|(-?w[1-5]))?$`)

// IsValidType reports whether val is a well formed value of the FIX type typ.
// Unknown types are accepted.
func IsValidType(val string, typ string) bool {
	switch strings.ToUpper(typ) {
	case "INT", "LENGTH", "NUMINGROUP", "SEQNUM", "DAYOFMONTH":
		_, err := strconv.Atoi(val)
		return err == nil
	case "FLOAT", "QTY", "PRICE", "PRICEOFFSET", "AMT", "PERCENTAGE":
		_, err := strconv.ParseFloat(val, 64)
		return err == nil
	case "BOOLEAN":
		return val == "Y" || val == "N"
	case "CHAR":
		return len(val) == 1
	case "UTCTIMESTAMP":
		return parsesAny(val, "20060102-15:04:05", fix.TimestampLayout)
	case "UTCDATEONLY":
		return parsesAny(val, "20060102")
	case "UTCTIMEONLY":
		return parsesAny(val, "15:04", "15:04:05", "15:04:05.000")
	case "MONTHYEAR":
		return monthYear.MatchString(val)
	default:
		return true
	}
}

func parsesAny(val string, layouts ...string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, val); err == nil {
			return true
		}
	}
	return false
}
