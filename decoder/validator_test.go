// validator_test.go
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
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/stephenlclarke/fixbuilder/encoder"
	"github.com/stephenlclarke/fixbuilder/fieldspec"
	"github.com/stephenlclarke/fixbuilder/fix"
	"github.com/stephenlclarke/fixbuilder/validator"
)

func mustParse(t *testing.T, raw string) ParsedMessage {
	t.Helper()

	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", raw, err)
	}
	return p
}

func TestCheckIntegrity(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"valid", "8=FIX.4.4|9=5|35=0|10=163|", nil},
		{"bad body length", "8=FIX.4.4|9=6|35=0|10=164|", []string{"BodyLength mismatch: got 6, expected 5"}},
		{"bad checksum", "8=FIX.4.4|9=5|35=0|10=999|", []string{"Checksum mismatch: got 999, expected 163"}},
		{"unpadded checksum", "8=FIX.4.4|9=5|35=0|10=16|", []string{"Checksum mismatch: got 16, expected 163"}},
		{"missing checksum", "8=FIX.4.4|9=5|35=0|", []string{"Missing CheckSum(10)"}},
		{"missing body length", "8=FIX.4.4|35=0|10=247|", []string{"Missing BodyLength(9)"}},
		{"begin string not first", "35=0|8=FIX.4.4|9=5|10=163|", []string{
			"BeginString(8) must be the first field",
			"BodyLength mismatch: got 5, expected 0",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckIntegrity(mustParse(t, tt.raw))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CheckIntegrity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckIntegrityChecksumNotLast(t *testing.T) {
	got := CheckIntegrity(mustParse(t, "8=FIX.4.4|9=5|35=0|10=163|58=x|"))
	if !slices.Contains(got, "CheckSum(10) must be the last field") {
		t.Errorf("CheckIntegrity() = %v", got)
	}
}

func TestCheckFieldTypes(t *testing.T) {
	reg := fieldspec.MustNew()
	p := mustParse(t, "35=D|38=abc|54=Z|44=1.5|60=yesterday|9999=anything|")

	got := CheckFieldTypes(p, reg)
	want := []string{
		"Invalid type for tag 38: expected QTY, got 'abc'",
		"Invalid enum value 'Z' for tag 54",
		"Invalid type for tag 60: expected UTCTIMESTAMP, got 'yesterday'",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("CheckFieldTypes() = %v, want %v", got, want)
	}
}

func TestCheckFieldOrder(t *testing.T) {
	reg := fieldspec.MustNew()
	layout, _ := reg.Layout(enum.MsgType_ORDER_SINGLE)

	got := CheckFieldOrder(mustParse(t, "35=D|55=AAPL|11=t1|54=1|58=free|"), layout.Order)
	if !reflect.DeepEqual(got, []string{"Tag 11 out of order"}) {
		t.Errorf("CheckFieldOrder() = %v", got)
	}
}

func TestValidateMessageOnBuiltOrder(t *testing.T) {
	reg := fieldspec.MustNew()
	b := encoder.New(reg, encoder.WithClock(func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }))

	built, err := b.Build(enum.MsgType_ORDER_SINGLE,
		fix.FieldMap{11: "t1", 55: "AAPL", 54: "1", 38: "100", 40: "2", 44: "187.5"},
		encoder.Header{BeginString: "FIX.4.4"})
	if err != nil {
		t.Fatal(err)
	}

	if errs := ValidateMessage(mustParse(t, built.Display), reg, validator.New(reg)); len(errs) != 0 {
		t.Errorf("ValidateMessage() = %v", errs)
	}
}

func TestValidateMessageReportsMissingFields(t *testing.T) {
	reg := fieldspec.MustNew()
	p := mustParse(t, "35=D|11=t1|55=AAPL|54=1|38=100|40=2|60=20240102-03:04:05|")

	got := ValidateMessage(p, reg, validator.New(reg))
	for _, want := range []string{"Missing CheckSum(10)", "Missing conditional field 44."} {
		if !slices.Contains(got, want) {
			t.Errorf("ValidateMessage() = %v, missing %q", got, want)
		}
	}
}

func TestValidateMessageUnknownType(t *testing.T) {
	reg := fieldspec.MustNew()

	got := ValidateMessage(mustParse(t, "8=FIX.4.4|9=5|35=0|10=163|"), reg, validator.New(reg))
	if !reflect.DeepEqual(got, []string{"Unknown MsgType 0"}) {
		t.Errorf("ValidateMessage() = %v", got)
	}
}

func TestIsValidType(t *testing.T) {
	tests := []struct {
		val, typ string
		want     bool
	}{
		{"42", "INT", true},
		{"4.2", "INT", false},
		{"187.5", "PRICE", true},
		{"1e3", "QTY", true},
		{"ten", "QTY", false},
		{"Y", "BOOLEAN", true},
		{"y", "BOOLEAN", false},
		{"1", "char", true},
		{"12", "CHAR", false},
		{"20240102-03:04:05", "UTCTIMESTAMP", true},
		{"20240102-03:04:05.678", "UTCTIMESTAMP", true},
		{"2024-01-02", "UTCTIMESTAMP", false},
		{"20240102", "UTCDATEONLY", true},
		{"03:04", "UTCTIMEONLY", true},
		{"202401", "MONTHYEAR", true},
		{"202401w2", "MONTHYEAR", true},
		{"2024", "MONTHYEAR", false},
		{"anything", "STRING", true},
		{"anything", "XMLDATA", true},
	}

	for _, tt := range tests {
		if got := IsValidType(tt.val, tt.typ); got != tt.want {
			t.Errorf("IsValidType(%q, %q) = %v, want %v", tt.val, tt.typ, got, tt.want)
		}
	}
}
