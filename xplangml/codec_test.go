package xplangml

import (
	"errors"
	"testing"
)

func attrVon(t *testing.T, typName, attrName string) *AttributeDescriptor {
	t.Helper()
	e, err := Katalog.Eintrag(typName)
	if err != nil {
		t.Fatalf("Eintrag(%s): %v", typName, err)
	}
	a, ok := e.Attribut(attrName)
	if !ok {
		t.Fatalf("%s has no attribute %s", typName, attrName)
	}
	return a
}

func TestDecodeEnumCode(t *testing.T) {
	a := attrVon(t, "BP_Wegerecht", "rechtscharakter")

	wert, err := decodeWert(a, "BP_Wegerecht", "1000")
	if err != nil {
		t.Fatalf("decode 1000: %v", err)
	}
	if wert.(int) != 1000 {
		t.Errorf("wert = %v, want 1000", wert)
	}
	m, _ := a.Enum.MitgliedByCode(1000)
	if m.Name != "Festsetzung" {
		t.Errorf("member name = %s, want Festsetzung", m.Name)
	}
}

func TestDecodeEnumSymbolischerName(t *testing.T) {
	a := attrVon(t, "BP_Wegerecht", "typ")
	wert, err := decodeWert(a, "BP_Wegerecht", "Gehrecht")
	if err != nil {
		t.Fatalf("decode Gehrecht: %v", err)
	}
	if wert.(int) != 1000 {
		t.Errorf("wert = %v, want 1000", wert)
	}
}

func TestDecodeEnumUnbekannt(t *testing.T) {
	a := attrVon(t, "BP_Wegerecht", "rechtscharakter")
	_, err := decodeWert(a, "BP_Wegerecht", "7777")
	var ede *EnumDecodeError
	if !errors.As(err, &ede) {
		t.Fatalf("expected EnumDecodeError, got %v", err)
	}
	if ede.Wert != "7777" || ede.TypName != "BP_Wegerecht" || ede.Attribut != "rechtscharakter" {
		t.Errorf("error lacks diagnostics: %+v", ede)
	}
}

func TestDecodeSkalar(t *testing.T) {
	tests := []struct {
		typName string
		attr    string
		text    string
		want    any
		fehler  bool
	}{
		{"BP_Plan", "name", "Plan Ost", "Plan Ost", false},
		{"BP_Plan", "erstellungsMassstab", "1000", 1000, false},
		{"BP_Plan", "erstellungsMassstab", "abc", nil, true},
		{"BP_Plan", "bezugshoehe", "12.5", 12.5, false},
		{"BP_Plan", "staedtebaulicherVertrag", "true", true, false},
		{"BP_Plan", "staedtebaulicherVertrag", "0", false, false},
		{"BP_Plan", "staedtebaulicherVertrag", "ja", nil, true},
		{"BP_Plan", "inkrafttretensDatum", "2024-03-01", "2024-03-01", false},
		{"BP_Plan", "inkrafttretensDatum", "2024-03-01T00:00:00", "2024-03-01", false},
		{"BP_Plan", "inkrafttretensDatum", "01.03.2024", nil, true},
	}
	for _, tt := range tests {
		a := attrVon(t, tt.typName, tt.attr)
		wert, err := decodeWert(a, tt.typName, tt.text)
		if tt.fehler {
			if err == nil {
				t.Errorf("%s.%s %q: expected error", tt.typName, tt.attr, tt.text)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s.%s %q: %v", tt.typName, tt.attr, tt.text, err)
			continue
		}
		if wert != tt.want {
			t.Errorf("%s.%s %q = %v, want %v", tt.typName, tt.attr, tt.text, wert, tt.want)
		}
	}
}

func TestEncodeSkalar(t *testing.T) {
	a := attrVon(t, "BP_Plan", "bezugshoehe")
	text, schreibe, err := encodeWert(a, "BP_Plan", 112.75, Version54)
	if err != nil || !schreibe {
		t.Fatalf("encode: %v", err)
	}
	// 无本地化分隔符、无指数形式
	if text != "112.75" {
		t.Errorf("text = %q", text)
	}

	b := attrVon(t, "BP_Plan", "gruenordnungsplan")
	text, _, _ = encodeWert(b, "BP_Plan", false, Version54)
	if text != "false" {
		t.Errorf("bool = %q", text)
	}
}

func TestEncodeEnumVersionsgebunden(t *testing.T) {
	// UrbanesGebiet erst ab 5.1
	a := attrVon(t, "BP_BaugebietsTeilFlaeche", "besondereArtDerBaulNutzung")

	_, schreibe, err := encodeWert(a, "BP_BaugebietsTeilFlaeche", 1550, Version41)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if schreibe {
		t.Error("member valid only from 5.1 must be skipped for 4.1")
	}

	text, schreibe, err := encodeWert(a, "BP_BaugebietsTeilFlaeche", 1550, Version54)
	if err != nil || !schreibe || text != "1550" {
		t.Errorf("5.4 encode = %q %v %v", text, schreibe, err)
	}
}
