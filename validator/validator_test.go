package validator

import (
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/quickfixgo/enum"
	"github.com/stephenlclarke/fixbuilder/fieldspec"
	"github.com/stephenlclarke/fixbuilder/fix"
)

func newValidator() *Validator {
	return New(fieldspec.MustNew())
}

func limitOrder() fix.FieldMap {
	return fix.FieldMap{11: "t1", 55: "AAPL", 54: "1", 38: "100", 40: "2", 44: "187.5", 60: "20240101-00:00:00.000"}
}

func TestValidateCompleteNewOrder(t *testing.T) {
	if errs := newValidator().Validate(limitOrder(), enum.MsgType_ORDER_SINGLE); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateLimitWithoutPrice(t *testing.T) {
	f := limitOrder()
	delete(f, 44)

	errs := newValidator().Validate(f, enum.MsgType_ORDER_SINGLE)
	want := "Missing conditional field 44."

	if !slices.Contains(errs, want) {
		t.Errorf("expected %q, got %v", want, errs)
	}
}

func TestValidateMarketWithoutPrice(t *testing.T) {
	f := limitOrder()
	delete(f, 44)
	f[40] = "1"

	for _, e := range newValidator().Validate(f, enum.MsgType_ORDER_SINGLE) {
		if strings.Contains(e, "44") {
			t.Errorf("market order must not require price, got %q", e)
		}
	}
}

func TestValidateWhitespaceIsMissing(t *testing.T) {
	f := limitOrder()
	f[55] = "   "
	f[44] = "\t"

	got := newValidator().Validate(f, enum.MsgType_ORDER_SINGLE)
	want := []string{"Missing required field 55.", "Missing conditional field 44."}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Validate() = %v, want %v", got, want)
	}
}

func TestValidateAccumulatesInDeclarationOrder(t *testing.T) {
	got := newValidator().Validate(fix.FieldMap{40: "4"}, enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST)
	want := []string{
		"Missing required field 41.",
		"Missing required field 11.",
		"Missing required field 55.",
		"Missing required field 54.",
		"Missing required field 38.",
		"Missing required field 60.",
		"Missing conditional field 44.",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Validate() = %v, want %v", got, want)
	}
}

func TestValidateIsIdempotentAndPure(t *testing.T) {
	v := newValidator()
	f := fix.FieldMap{11: "x", 40: "2"}
	before := f.Clone()

	first := v.Validate(f, enum.MsgType_ORDER_SINGLE)
	second := v.Validate(f, enum.MsgType_ORDER_SINGLE)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("validation not idempotent: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(f, before) {
		t.Errorf("Validate mutated its input: %v", f)
	}
}

func TestValidateExecutionReportAvgPx(t *testing.T) {
	f := fix.FieldMap{37: "O1", 11: "t1", 150: "2", 39: "2", 55: "AAPL", 54: "1", 38: "100", 14: "100", 151: "0", 60: "x"}

	got := newValidator().Validate(f, enum.MsgType_EXECUTION_REPORT)
	if !reflect.DeepEqual(got, []string{"Missing conditional field 6."}) {
		t.Errorf("Validate() = %v", got)
	}

	f[150] = "0"
	if got := newValidator().Validate(f, enum.MsgType_EXECUTION_REPORT); len(got) != 0 {
		t.Errorf("ExecType=New needs no AvgPx, got %v", got)
	}
}

func TestValidateUnknownMsgType(t *testing.T) {
	got := newValidator().Validate(fix.FieldMap{}, "Z")
	if !reflect.DeepEqual(got, []string{"Unknown MsgType Z"}) {
		t.Errorf("Validate() = %v", got)
	}
}

func TestValidateReplace(t *testing.T) {
	v := newValidator()
	original := fix.FieldMap{55: "AAPL", 54: "1", 38: "100", 40: "2", 44: "10"}

	tests := []struct {
		name   string
		fields fix.FieldMap
		want   []string
	}{
		{"price changed", fix.FieldMap{55: "AAPL", 54: "1", 38: "100", 40: "2", 44: "11"}, nil},
		{"nothing changed", fix.FieldMap{55: "AAPL", 54: "1", 38: "100", 40: "2", 44: "10"},
			[]string{"Replace must change at least one of: 44,38,59,40."}},
		{"symbol changed", fix.FieldMap{55: "MSFT", 54: "1", 38: "200", 40: "2", 44: "10"},
			[]string{"Immutable field changed: 55"}},
		{"tif added", fix.FieldMap{55: "AAPL", 54: "1", 38: "100", 40: "2", 44: "10", 59: "1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.ValidateReplace(tt.fields, original)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateReplace() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateCancelTarget(t *testing.T) {
	v := newValidator()
	live := map[string]bool{"A1": true}
	isLive := func(id string) bool { return live[id] }

	if errs := v.ValidateCancelTarget(fix.FieldMap{41: "A1"}, isLive); errs != nil {
		t.Errorf("expected live order to pass, got %v", errs)
	}
	if errs := v.ValidateCancelTarget(fix.FieldMap{41: "B2"}, isLive); len(errs) != 1 {
		t.Errorf("expected one error for unknown order, got %v", errs)
	}
	if errs := v.ValidateCancelTarget(fix.FieldMap{}, nil); len(errs) != 1 {
		t.Errorf("expected one error when 41 missing, got %v", errs)
	}
}
