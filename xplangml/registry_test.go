package xplangml

import (
	"errors"
	"testing"
)

func TestEintragUnbekannt(t *testing.T) {
	_, err := Katalog.Eintrag("BP_GibtEsNicht")
	var sle *SchemaLookupError
	if !errors.As(err, &sle) {
		t.Fatalf("expected SchemaLookupError, got %v", err)
	}
	if _, ok := Katalog.ClassForTag("BP_GibtEsNicht"); ok {
		t.Error("ClassForTag must not find unknown tag")
	}
}

func TestAttributesForVersionsgating(t *testing.T) {
	e, _ := Katalog.Eintrag("BP_Plan")

	hat := func(attrs []AttributeDescriptor, name string) bool {
		for _, a := range attrs {
			if a.Name == name {
				return true
			}
		}
		return false
	}

	alt := e.AttributesFor(Version41)
	neu := e.AttributesFor(Version54)

	// technischerPlanersteller erst ab 5.2
	if hat(alt, "technischerPlanersteller") {
		t.Error("technischerPlanersteller must not be valid in 4.1")
	}
	if !hat(neu, "technischerPlanersteller") {
		t.Error("technischerPlanersteller missing in 5.4")
	}

	// versionBauNVO nur bis 5.2
	if !hat(alt, "versionBauNVO") {
		t.Error("versionBauNVO missing in 4.1")
	}
	if hat(neu, "versionBauNVO") {
		t.Error("versionBauNVO must not be valid in 5.4")
	}
}

func TestAttributesForReihenfolge(t *testing.T) {
	e, _ := Katalog.Eintrag("BP_Wegerecht")
	attrs := e.AttributesFor(Version54)
	// 声明顺序保持：text在typ之前
	var posText, posTyp = -1, -1
	for i, a := range attrs {
		switch a.Name {
		case "text":
			posText = i
		case "typ":
			posTyp = i
		}
	}
	if posText < 0 || posTyp < 0 || posText > posTyp {
		t.Errorf("declared order lost: text=%d typ=%d", posText, posTyp)
	}
}

func TestResolveVersioned(t *testing.T) {
	e, _ := Katalog.Eintrag("BP_GruenFlaeche")

	name, form, ok := e.ResolveVersioned("zweckbestimmung", Version54)
	if !ok || form != DarstellungSkalar || name != "zweckbestimmung" {
		t.Errorf("5.4: %s %v %v", name, form, ok)
	}

	name, form, ok = e.ResolveVersioned("zweckbestimmung", Version60)
	if !ok || form != DarstellungRelation || name != "komplexeZweckbestimmung" {
		t.Errorf("6.0: %s %v %v", name, form, ok)
	}

	if _, _, ok := e.ResolveVersioned("nichtVersioniert", Version54); ok {
		t.Error("unversioned logical name must not resolve")
	}
}

func TestVermeideExport(t *testing.T) {
	e, _ := Katalog.Eintrag("BP_Wegerecht")
	if !e.Vermeidet("gehoertZuBereich") {
		t.Error("owner backref must be on the avoid list")
	}
	if e.Vermeidet("typ") {
		t.Error("typ must not be avoided")
	}
}

func TestNichtExportieren(t *testing.T) {
	e, _ := Katalog.Eintrag("BP_Wegerecht")
	a, ok := e.Attribut("darstellungsprioritaet")
	if !ok {
		t.Fatal("internal attribute missing from entry")
	}
	if !a.NichtExportieren {
		t.Error("internal attribute must be flagged NichtExportieren")
	}
	// 版本过滤不剔除内部字段，由写遍历器跳过
	if !a.GueltigIn(Version41) || !a.GueltigIn(Version60) {
		t.Error("internal attribute should be version-independent")
	}
}

func TestErzwingeFlaechenschluss(t *testing.T) {
	for typ, will := range map[string]bool{
		"BP_Wegerecht":                   true,
		"BP_AnpflanzungBindungErhaltung": true,
		"BP_BaugebietsTeilFlaeche":       false,
	} {
		e, err := Katalog.Eintrag(typ)
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		if e.ErzwingeFlaechenschlussFalsch != will {
			t.Errorf("%s: ErzwingeFlaechenschlussFalsch = %v", typ, e.ErzwingeFlaechenschlussFalsch)
		}
	}
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("5.4")
	if err != nil || v != Version54 {
		t.Errorf("ParseVersion: %v %v", v, err)
	}
	if _, err := ParseVersion("3.0"); err == nil {
		t.Error("3.0 must be rejected")
	}
	if Version54.Namespace() != "http://www.xplanung.de/xplangml/5/4" {
		t.Errorf("namespace = %s", Version54.Namespace())
	}
	if v, ok := NamespaceToVersion("http://www.xplanung.de/xplangml/6/0"); !ok || v != Version60 {
		t.Errorf("NamespaceToVersion: %v %v", v, ok)
	}
}
