package fix

import (
	"reflect"
	"testing"
)

func TestTagConstants(t *testing.T) {
	cases := map[string][2]int{
		"BeginString": {TagBeginString, 8},
		"BodyLength":  {TagBodyLength, 9},
		"CheckSum":    {TagCheckSum, 10},
		"MsgType":     {TagMsgType, 35},
		"ClOrdID":     {TagClOrdID, 11},
		"Price":       {TagPrice, 44},
		"ExecType":    {TagExecType, 150},
		"LeavesQty":   {TagLeavesQty, 151},
	}

	for name, c := range cases {
		if c[0] != c[1] {
			t.Errorf("%s = %d, want %d", name, c[0], c[1])
		}
	}
}

func TestFieldMapPresent(t *testing.T) {
	m := FieldMap{11: "t1", 55: "   ", 44: ""}

	if !m.Present(11) {
		t.Error("expected 11 to be present")
	}
	if m.Present(55) || m.Present(44) || m.Present(38) {
		t.Error("blank or absent values must not count as present")
	}
}

func TestFieldMapCloneIsIndependent(t *testing.T) {
	m := FieldMap{11: "t1"}
	c := m.Clone()
	c[60] = "x"

	if _, ok := m[60]; ok {
		t.Error("Clone shares storage with original")
	}
}

func TestFieldMapTagsSorted(t *testing.T) {
	got := FieldMap{55: "A", 11: "B", 38: "C"}.Tags()
	if !reflect.DeepEqual(got, []int{11, 38, 55}) {
		t.Errorf("Tags() = %v", got)
	}
}

func TestJoinAndDisplay(t *testing.T) {
	fields := []Field{{Tag: 8, Value: "FIX.4.4"}, {Tag: 35, Value: "D"}}

	raw := Join(fields, SOH)
	if raw != "8=FIX.4.4\x0135=D\x01" {
		t.Errorf("Join() = %q", raw)
	}

	if got := ToDisplay(raw); got != "8=FIX.4.4|35=D|" {
		t.Errorf("ToDisplay() = %q", got)
	}
}

func TestToMapLastDuplicateWins(t *testing.T) {
	m := ToMap([]Field{{Tag: 58, Value: "a"}, {Tag: 58, Value: "b"}})
	if m[58] != "b" {
		t.Errorf("ToMap()[58] = %q, want b", m[58])
	}
}
