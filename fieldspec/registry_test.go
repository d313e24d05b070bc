package fieldspec

import (
	"reflect"
	"strings"
	"testing"

	"github.com/quickfixgo/enum"
	"github.com/stephenlclarke/fixbuilder/fix"
)

func TestLookupKnownTag(t *testing.T) {
	r := MustNew()

	f, ok := r.Lookup(44)
	if !ok {
		t.Fatal("expected tag 44 to be known")
	}
	if f.Label != "Price" || f.Required || f.Condition != "OrdType=2|4" {
		t.Errorf("unexpected spec for 44: %+v", f)
	}
}

func TestLookupUnknownTagIsNotAnError(t *testing.T) {
	r := MustNew()

	if _, ok := r.Lookup(9999); ok {
		t.Error("expected 9999 to be unknown")
	}
	if got := r.Label(9999); got != "9999" {
		t.Errorf("Label(9999) = %q, want fallback to tag number", got)
	}
}

func TestLookupName(t *testing.T) {
	r := MustNew()

	tests := []struct {
		name    string
		wantTag int
		wantOK  bool
	}{
		{"Price", 44, true},
		{"price", 44, true},
		{" ORDTYPE ", 40, true},
		{"TransactTime", 60, true},
		{"NoSuchField", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		f, ok := r.LookupName(tt.name)
		if ok != tt.wantOK || f.Tag != tt.wantTag {
			t.Errorf("LookupName(%q) = %d, %v; want %d, %v", tt.name, f.Tag, ok, tt.wantTag, tt.wantOK)
		}
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	r := MustNew()

	f, _ := r.Lookup(54)
	f.Enums["1"] = "changed"

	if got := r.EnumDescription(54, "1"); got != "Buy" {
		t.Errorf("registry mutated through Lookup copy: %q", got)
	}
}

func TestRequiredFieldsPerMessageType(t *testing.T) {
	r := MustNew()

	tests := []struct {
		msgType enum.MsgType
		want    []int
	}{
		{enum.MsgType_ORDER_SINGLE, []int{11, 55, 54, 38, 40, 60}},
		{enum.MsgType_ORDER_CANCEL_REQUEST, []int{41, 11, 55, 54, 60}},
		{enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST, []int{41, 11, 55, 54, 38, 40, 60}},
		{enum.MsgType_EXECUTION_REPORT, []int{37, 11, 150, 39, 55, 54, 38, 14, 151, 60}},
		{enum.MsgType("Z"), nil},
	}

	for _, tt := range tests {
		got := r.RequiredFields(tt.msgType)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("RequiredFields(%s) = %v, want %v", tt.msgType, got, tt.want)
		}
	}
}

func TestLayoutOrder(t *testing.T) {
	r := MustNew()

	tests := map[enum.MsgType][]int{
		enum.MsgType_ORDER_SINGLE:                 {11, 55, 54, 38, 40, 44, 59, 60},
		enum.MsgType_ORDER_CANCEL_REQUEST:         {41, 11, 55, 54, 60},
		enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST: {41, 11, 55, 54, 38, 40, 44, 59, 60},
		enum.MsgType_EXECUTION_REPORT:             {37, 11, 150, 39, 55, 54, 38, 14, 151, 6, 60},
	}

	for mt, want := range tests {
		l, ok := r.Layout(mt)
		if !ok {
			t.Fatalf("missing layout for %s", mt)
		}
		if !reflect.DeepEqual(l.Order, want) {
			t.Errorf("Layout(%s).Order = %v, want %v", mt, l.Order, want)
		}
	}

	if _, ok := r.Layout("Z"); ok {
		t.Error("unexpected layout for Z")
	}
}

func TestConditionalRuleApplies(t *testing.T) {
	r := MustNew()
	rules := r.ConditionalFields(enum.MsgType_ORDER_SINGLE)

	if len(rules) != 1 || rules[0].TargetTag != 44 || rules[0].TriggerTag != 40 {
		t.Fatalf("unexpected conditionals: %v", rules)
	}

	cases := map[string]bool{"1": false, "2": true, "4": true, " 2 ": true, "3": false}
	for ordType, want := range cases {
		got := rules[0].Applies(fix.FieldMap{40: ordType})
		if got != want {
			t.Errorf("Applies(40=%q) = %v, want %v", ordType, got, want)
		}
	}

	if rules[0].Applies(fix.FieldMap{}) {
		t.Error("rule must not apply when trigger tag is absent")
	}

	if !strings.Contains(rules[0].String(), "44 required when 40") {
		t.Errorf("String() = %q", rules[0].String())
	}
}

func TestMessageNameAndParseMsgType(t *testing.T) {
	r := MustNew()

	if got := r.MessageName("D"); got != "NewOrderSingle" {
		t.Errorf("MessageName(D) = %q", got)
	}
	if got := r.MessageName("A"); got != "Logon" {
		t.Errorf("MessageName(A) = %q", got)
	}
	if got := r.MessageName("zz"); got != "" {
		t.Errorf("MessageName(zz) = %q, want empty", got)
	}

	for _, in := range []string{"G", "OrderCancelReplaceRequest", "ordercancelreplacerequest"} {
		mt, ok := r.ParseMsgType(in)
		if !ok || mt != enum.MsgType_ORDER_CANCEL_REPLACE_REQUEST {
			t.Errorf("ParseMsgType(%q) = %q, %v", in, mt, ok)
		}
	}

	if _, ok := r.ParseMsgType("Logon"); ok {
		t.Error("Logon is not a buildable message type")
	}
}

func TestMessageTypesDeclarationOrder(t *testing.T) {
	got := MustNew().MessageTypes()
	want := []enum.MsgType{"D", "F", "G", "8"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("MessageTypes() = %v, want %v", got, want)
	}
}

func TestTagsSorted(t *testing.T) {
	tags := MustNew().Tags()
	for i := 1; i < len(tags); i++ {
		if tags[i-1] >= tags[i] {
			t.Fatalf("tags not strictly ascending at %d: %v", i, tags)
		}
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := MustNew()
	b, err := New(WithDictionary(strings.NewReader(`<fix><fields><field number="5001" name="Custom" type="STRING"/></fields></fix>`)))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := b.Lookup(5001); !ok {
		t.Error("expected dictionary tag in b")
	}
	if _, ok := a.Lookup(5001); ok {
		t.Error("dictionary leaked into an unrelated registry")
	}
}
