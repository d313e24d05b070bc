package fix

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestChecksumKnownPrefix(t *testing.T) {
	input := "8=FIX.4.4\x019=12\x0135=A\x01"

	if got := ChecksumString(input); got != "226" {
		t.Errorf("ChecksumString() = %q, want %q", got, "226")
	}

	if got := Checksum([]byte(input)); got != "226" {
		t.Errorf("Checksum() = %q, want %q", got, "226")
	}
}

func TestChecksumIsAlwaysThreeDigits(t *testing.T) {
	cases := map[string]string{
		"":         "000",
		"\x07":     "007",
		"ABC":      "198",
		"\xff":     "255",
		"\xff\x01": "000",
	}

	for input, want := range cases {
		got := ChecksumString(input)
		if got != want {
			t.Errorf("ChecksumString(%q) = %q, want %q", input, got, want)
		}
		if len(got) != 3 {
			t.Errorf("ChecksumString(%q) returned %d digits", input, len(got))
		}
	}
}

func TestChecksumMatchesByteSum(t *testing.T) {
	inputs := []string{"8=FIX.4.4", "35=D\x0111=abc\x01", strings.Repeat("Z", 1000)}

	for _, in := range inputs {
		sum := 0
		for _, b := range []byte(in) {
			sum += int(b)
		}

		want, _ := strconv.Atoi(ChecksumString(in))
		if sum%256 != want {
			t.Errorf("checksum for %q = %d, want %d", in, want, sum%256)
		}
	}
}

func TestBodyLengthCountsBytesNotRunes(t *testing.T) {
	s := "58=é\x01"

	if got := BodyLengthString(s); got != 6 {
		t.Errorf("BodyLengthString(%q) = %d, want 6", s, got)
	}

	if got := BodyLength([]byte(s)); got != 6 {
		t.Errorf("BodyLength(%q) = %d, want 6", s, got)
	}

	if got := BodyLength(nil); got != 0 {
		t.Errorf("BodyLength(nil) = %d, want 0", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 7, 9, 5, 3, 42_000_000, time.FixedZone("X", 3600))

	if got := FormatTimestamp(ts); got != "20240307-08:05:03.042" {
		t.Errorf("FormatTimestamp() = %q", got)
	}
}

func TestFrameInsertsLengthAndChecksum(t *testing.T) {
	raw, bodyLen, sum := Frame("FIX.4.4", []Field{{Tag: 35, Value: "A"}})

	want := "8=FIX.4.4\x019=5\x0135=A\x0110=" + sum + "\x01"
	if string(raw) != want {
		t.Fatalf("Frame() = %q, want %q", raw, want)
	}

	if bodyLen != len("35=A\x01") {
		t.Errorf("body length = %d, want %d", bodyLen, len("35=A\x01"))
	}

	if sum != ChecksumString("8=FIX.4.4\x019=5\x0135=A\x01") {
		t.Errorf("checksum %s does not cover the prefix", sum)
	}
}
