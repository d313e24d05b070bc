package fieldspec

import (
	"strings"
	"testing"
)

const sampleDictionary = `<?xml version="1.0"?>
<fix major="4" minor="4">
  <messages>
    <message name="Heartbeat" msgtype="0" msgcat="admin"/>
    <message name="NewOrderSingle" msgtype="D" msgcat="app"/>
  </messages>
  <fields>
    <field number="44" name="PriceFromXML" type="FLOAT"/>
    <field number="54" name="Side" type="CHAR">
      <value enum="1" description="BUY_FROM_XML"/>
      <value enum="7" description="UNDISCLOSED"/>
    </field>
    <field number="167" name="SecurityType" type="STRING">
      <values>
        <value enum="CS" description="COMMON_STOCK"/>
      </values>
    </field>
    <field number="0" name="Bogus" type="STRING"/>
  </fields>
</fix>`

func TestDictionaryFillsUnknownTagsOnly(t *testing.T) {
	r, err := New(WithDictionary(strings.NewReader(sampleDictionary)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got := r.Label(44); got != "Price" {
		t.Errorf("built-in label overridden: %q", got)
	}

	f, ok := r.Lookup(167)
	if !ok || f.Label != "SecurityType" || f.Type != "STRING" {
		t.Errorf("Lookup(167) = %+v, %v", f, ok)
	}
	if got := r.EnumDescription(167, "CS"); got != "COMMON_STOCK" {
		t.Errorf("wrapped enum not imported: %q", got)
	}

	if _, ok := r.Lookup(0); ok {
		t.Error("tag 0 must be ignored")
	}
}

func TestDictionaryNamesResolve(t *testing.T) {
	r, err := New(WithDictionary(strings.NewReader(sampleDictionary)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if f, ok := r.LookupName("securitytype"); !ok || f.Tag != 167 {
		t.Errorf("LookupName(securitytype) = %+v, %v", f, ok)
	}
	if _, ok := r.LookupName("PriceFromXML"); ok {
		t.Error("label of a built-in tag must not come from the dictionary")
	}
}

func TestDictionaryAddsMissingEnumsWithoutOverriding(t *testing.T) {
	r, err := New(WithDictionary(strings.NewReader(sampleDictionary)))
	if err != nil {
		t.Fatal(err)
	}

	if got := r.EnumDescription(54, "1"); got != "Buy" {
		t.Errorf("built-in enum overridden: %q", got)
	}
	if got := r.EnumDescription(54, "7"); got != "UNDISCLOSED" {
		t.Errorf("missing enum not added: %q", got)
	}
}

func TestDictionaryAddsMessageNames(t *testing.T) {
	r, err := New(WithDictionary(strings.NewReader(sampleDictionary)))
	if err != nil {
		t.Fatal(err)
	}

	if got := r.MessageName("0"); got != "Heartbeat" {
		t.Errorf("MessageName(0) = %q", got)
	}
	if got := r.MessageName("D"); got != NameNewOrderSingle {
		t.Errorf("MessageName(D) = %q", got)
	}
}

func TestDictionaryLatin1Charset(t *testing.T) {
	xmlData := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<fix><fields><field number=\"6000\" name=\"Caf\xe9\" type=\"STRING\"/></fields></fix>"

	r, err := New(WithDictionary(strings.NewReader(xmlData)))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got := r.Label(6000); got != "Café" {
		t.Errorf("Label(6000) = %q, want %q", got, "Café")
	}
}

func TestDictionaryMalformedXML(t *testing.T) {
	_, err := New(WithDictionary(strings.NewReader("<fix><fields>")))
	if err == nil {
		t.Fatal("expected error for truncated XML")
	}
	if !strings.Contains(err.Error(), "dictionary 1") {
		t.Errorf("error does not identify the dictionary: %v", err)
	}
}
