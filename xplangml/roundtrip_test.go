package xplangml

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
)

const (
	planUUID      = "11111111-1111-1111-1111-111111111111"
	bereichUUID   = "22222222-2222-2222-2222-222222222222"
	baugebietUUID = "33333333-3333-3333-3333-333333333333"
	wegerechtUUID = "44444444-4444-4444-4444-444444444444"
	ppoUUID       = "55555555-5555-5555-5555-555555555555"
	refUUID       = "66666666-6666-6666-6666-666666666666"
	gemeindeUUID  = "77777777-7777-7777-7777-777777777777"
)

func baueTestplan() *Objekt {
	plan := NewObjekt("BP_Plan")
	plan.UUID = planUUID
	plan.SetAttribut("name", "BPlan Ost")
	plan.SetAttribut("nummer", "42")
	plan.SetAttribut("planart", 1000)
	plan.SetAttribut("inkrafttretensDatum", "2023-06-15")
	plan.SetAttribut("technischerPlanersteller", "Stadtplanungsamt")
	plan.Geometrie = &Geometrie{Geom: orb.Polygon{{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {0, 0}}}, Srid: 25832}

	gemeinde := NewObjekt("XP_Gemeinde")
	gemeinde.UUID = gemeindeUUID
	gemeinde.SetAttribut("ags", "05315000")
	gemeinde.SetAttribut("gemeindeName", "Köln")
	plan.AddRelation("gemeinde", gemeinde)

	ref := NewObjekt("XP_SpezExterneReferenz")
	ref.UUID = refUUID
	ref.SetAttribut("art", "Dokument")
	ref.SetAttribut("typ", 1010)
	ref.SetAttribut("referenzName", "begruendung.pdf")
	ref.SetAttribut("referenzMimeType", "application/pdf")
	ref.SetAttribut("datei", []byte("%PDF-1.4 testinhalt"))
	plan.AddRelation("externeReferenz", ref)

	bereich := NewObjekt("BP_Bereich")
	bereich.UUID = bereichUUID
	bereich.SetAttribut("nummer", 0)
	bereich.SetAttribut("name", "Teilgebiet 1")
	bereich.Geometrie = &Geometrie{Geom: orb.Polygon{{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {0, 0}}}, Srid: 25832}

	baugebiet := NewObjekt("BP_BaugebietsTeilFlaeche")
	baugebiet.UUID = baugebietUUID
	baugebiet.SetAttribut("rechtscharakter", 1000)
	baugebiet.SetAttribut("allgArtDerBaulNutzung", 1000)
	baugebiet.SetAttribut("GFZ", 0.8)
	baugebiet.SetAttribut("flaechenschluss", true)
	baugebiet.Geometrie = &Geometrie{Geom: orb.Polygon{{{0, 0}, {50, 0}, {50, 50}, {0, 50}, {0, 0}}}, Srid: 25832}
	bereich.AddRelation("planinhalt", baugebiet)

	wegerecht := NewObjekt("BP_Wegerecht")
	wegerecht.UUID = wegerechtUUID
	wegerecht.SetAttribut("rechtscharakter", 1000)
	wegerecht.SetAttribut("typ", []int{1000, 2000})
	wegerecht.SetAttribut("breite", 3.5)
	wegerecht.Geometrie = &Geometrie{Geom: orb.LineString{{0, 0}, {80, 80}}, Srid: 25832}
	bereich.AddRelation("planinhalt", wegerecht)

	ppo := NewObjekt("XP_PPO")
	ppo.UUID = ppoUUID
	ppo.SetAttribut("drehwinkel", 45.0)
	ppo.SetAttribut("symbolPfad", "symbole/baum.svg")
	ppo.SetAttribut("dientZurDarstellungVon", baugebietUUID)
	ppo.Geometrie = &Geometrie{Geom: orb.Point{25, 25}, Srid: 25832}
	bereich.AddRelation("praesentationsobjekt", ppo)

	plan.AddRelation("bereich", bereich)
	return plan
}

func exportiereString(t *testing.T, plan *Objekt, v Version) string {
	t.Helper()
	doc, err := NewWriter(v).ToDocument(plan)
	if err != nil {
		t.Fatalf("ToDocument: %v", err)
	}
	s, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("WriteToString: %v", err)
	}
	return s
}

func importiereString(t *testing.T, xmlText string) (*LeseErgebnis, error) {
	t.Helper()
	return NewReader().ReadGML([]byte(xmlText), nil, nil)
}

func TestRoundtripIdentitaet(t *testing.T) {
	original := baueTestplan()
	xmlText := exportiereString(t, original, Version54)

	ergebnis, err := importiereString(t, xmlText)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if ergebnis.Version != Version54 {
		t.Errorf("version = %v", ergebnis.Version)
	}
	plan := ergebnis.Plan

	// UUID往返保持
	if plan.UUID != planUUID {
		t.Errorf("plan uuid = %s", plan.UUID)
	}
	if wert, _ := plan.Attribut("name"); wert != "BPlan Ost" {
		t.Errorf("name = %v", wert)
	}
	if wert, _ := plan.Attribut("planart"); wert != 1000 {
		t.Errorf("planart = %v", wert)
	}
	if wert, _ := plan.Attribut("inkrafttretensDatum"); wert != "2023-06-15" {
		t.Errorf("datum = %v", wert)
	}

	bereiche := plan.Relation("bereich")
	if len(bereiche) != 1 || bereiche[0].UUID != bereichUUID {
		t.Fatalf("bereiche = %v", bereiche)
	}
	inhalte := bereiche[0].Relation("planinhalt")
	if len(inhalte) != 2 {
		t.Fatalf("planinhalt count = %d", len(inhalte))
	}
	// 文档顺序即持久化顺序
	if inhalte[0].UUID != baugebietUUID || inhalte[1].UUID != wegerechtUUID {
		t.Errorf("order lost: %s, %s", inhalte[0].UUID, inhalte[1].UUID)
	}
	if wert, _ := inhalte[0].Attribut("GFZ"); wert != 0.8 {
		t.Errorf("GFZ = %v", wert)
	}
	if inhalte[0].Geometrie == nil || inhalte[0].Geometrie.Srid != 25832 {
		t.Errorf("geometry lost: %+v", inhalte[0].Geometrie)
	}

	wegerecht := inhalte[1]
	typ, _ := wegerecht.Attribut("typ")
	if liste, ok := typ.([]int); !ok || len(liste) != 2 || liste[0] != 1000 || liste[1] != 2000 {
		t.Errorf("typ = %v", typ)
	}

	ppos := bereiche[0].Relation("praesentationsobjekt")
	if len(ppos) != 1 || ppos[0].UUID != ppoUUID {
		t.Fatalf("ppo = %v", ppos)
	}
	if wert, _ := ppos[0].Attribut("dientZurDarstellungVon"); wert != baugebietUUID {
		t.Errorf("dientZurDarstellungVon = %v", wert)
	}

	refs := plan.Relation("externeReferenz")
	if len(refs) != 1 {
		t.Fatalf("refs = %v", refs)
	}
	// GML导出内联base64，负载原样回来
	datei, _ := refs[0].Attribut("datei")
	if string(datei.([]byte)) != "%PDF-1.4 testinhalt" {
		t.Errorf("datei = %v", datei)
	}
}

func TestRoundtripDeterministisch(t *testing.T) {
	plan := baueTestplan()
	a := exportiereString(t, plan, Version60)
	b := exportiereString(t, plan, Version60)
	if a != b {
		t.Error("same graph and version must serialize identically")
	}
}

func TestVersionGatingSchreiben(t *testing.T) {
	plan := baueTestplan()

	alt := exportiereString(t, plan, Version41)
	if strings.Contains(alt, "technischerPlanersteller") {
		t.Error("attribute introduced in 5.2 must not appear in 4.1 output")
	}
	neu := exportiereString(t, plan, Version54)
	if !strings.Contains(neu, "technischerPlanersteller") {
		t.Error("attribute missing in 5.4 output")
	}
}

func TestVersionGatingLesen(t *testing.T) {
	// 4.1文档里冒出的5.2属性不得填充
	xmlText := `<?xml version="1.0" encoding="UTF-8"?>
<xplan:BP_Plan xmlns:xplan="http://www.xplanung.de/xplangml/4/1" xmlns:gml="http://www.opengis.net/gml/3.2" gml:id="GML_` + planUUID + `">
  <xplan:name>Altplan</xplan:name>
  <xplan:technischerPlanersteller>Jemand</xplan:technischerPlanersteller>
</xplan:BP_Plan>`
	ergebnis, err := importiereString(t, xmlText)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if _, ok := ergebnis.Plan.Attribut("technischerPlanersteller"); ok {
		t.Error("spurious element populated despite version gate")
	}
	if len(ergebnis.Warnungen) == 0 {
		t.Error("expected a warning")
	}
}

func TestNichtExportierenSchreiben(t *testing.T) {
	plan := baueTestplan()
	bereich := plan.Relation("bereich")[0]
	bereich.Relation("planinhalt")[0].SetAttribut("darstellungsprioritaet", 7)

	xmlText := exportiereString(t, plan, Version54)
	if strings.Contains(xmlText, "darstellungsprioritaet") {
		t.Error("internal attribute leaked into export")
	}
}

func TestUnbekanntesElementUeberlebt(t *testing.T) {
	xmlText := `<?xml version="1.0" encoding="UTF-8"?>
<xplan:BP_Plan xmlns:xplan="http://www.xplanung.de/xplangml/5/4" xmlns:gml="http://www.opengis.net/gml/3.2" gml:id="GML_` + planUUID + `">
  <xplan:name>Testplan</xplan:name>
  <xplan:bereich>
    <xplan:BP_Bereich gml:id="GML_` + bereichUUID + `">
      <xplan:planinhalt>
        <xplan:BP_Raumfahrzeuglandeplatz gml:id="GML_00000000-0000-0000-0000-00000000aaaa">
          <xplan:text>unbekannter Typ</xplan:text>
        </xplan:BP_Raumfahrzeuglandeplatz>
      </xplan:planinhalt>
      <xplan:planinhalt>
        <xplan:BP_Wegerecht gml:id="GML_` + wegerechtUUID + `">
          <xplan:typ>1000</xplan:typ>
        </xplan:BP_Wegerecht>
      </xplan:planinhalt>
      <xplan:planinhalt>
        <xplan:BP_GruenFlaeche gml:id="GML_00000000-0000-0000-0000-00000000bbbb">
          <xplan:zweckbestimmung>1000</xplan:zweckbestimmung>
        </xplan:BP_GruenFlaeche>
      </xplan:planinhalt>
    </xplan:BP_Bereich>
  </xplan:bereich>
</xplan:BP_Plan>`
	ergebnis, err := importiereString(t, xmlText)
	if err != nil {
		t.Fatalf("one unknown element must not fail the document: %v", err)
	}
	inhalte := ergebnis.Plan.Relation("bereich")[0].Relation("planinhalt")
	if len(inhalte) != 2 {
		t.Errorf("expected 2 valid objects, got %d", len(inhalte))
	}
	if len(ergebnis.Warnungen) == 0 {
		t.Error("expected at least one warning")
	}
}

func TestWegerechtSzenario(t *testing.T) {
	// 符号名写法的枚举，flaechenschluss在文档里为true也强制false
	xmlText := `<?xml version="1.0" encoding="UTF-8"?>
<xplan:BP_Plan xmlns:xplan="http://www.xplanung.de/xplangml/5/4" xmlns:gml="http://www.opengis.net/gml/3.2" gml:id="GML_` + planUUID + `">
  <xplan:bereich>
    <xplan:BP_Bereich gml:id="GML_` + bereichUUID + `">
      <xplan:planinhalt>
        <xplan:BP_Wegerecht gml:id="GML_` + wegerechtUUID + `">
          <xplan:flaechenschluss>true</xplan:flaechenschluss>
          <xplan:typ>Gehrecht</xplan:typ>
          <xplan:typ>Fahrrecht</xplan:typ>
        </xplan:BP_Wegerecht>
      </xplan:planinhalt>
    </xplan:BP_Bereich>
  </xplan:bereich>
</xplan:BP_Plan>`
	ergebnis, err := importiereString(t, xmlText)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	wegerecht := ergebnis.Plan.Relation("bereich")[0].Relation("planinhalt")[0]
	typ, _ := wegerecht.Attribut("typ")
	liste, ok := typ.([]int)
	if !ok || len(liste) != 2 || liste[0] != 1000 || liste[1] != 2000 {
		t.Errorf("typ = %v, want [1000 2000]", typ)
	}
	fs, _ := wegerecht.Attribut("flaechenschluss")
	if fs != false {
		t.Errorf("flaechenschluss = %v, want forced false", fs)
	}
}

func TestLeereListeGegenFehlend(t *testing.T) {
	plan := baueTestplan()
	bereich := plan.Relation("bereich")[0]

	mitLeer := NewObjekt("BP_Wegerecht")
	mitLeer.UUID = "88888888-8888-8888-8888-888888888888"
	mitLeer.SetAttribut("typ", []int{})
	bereich.AddRelation("planinhalt", mitLeer)

	ohne := NewObjekt("BP_Wegerecht")
	ohne.UUID = "99999999-9999-9999-9999-999999999999"
	bereich.AddRelation("planinhalt", ohne)

	ergebnis, err := importiereString(t, exportiereString(t, plan, Version54))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	inhalte := ergebnis.Plan.Relation("bereich")[0].Relation("planinhalt")
	if len(inhalte) != 4 {
		t.Fatalf("planinhalt count = %d", len(inhalte))
	}

	wert, ok := inhalte[2].Attribut("typ")
	if !ok {
		t.Fatal("explicitly empty list came back absent")
	}
	if liste, _ := wert.([]int); len(liste) != 0 {
		t.Errorf("empty list = %v", liste)
	}

	if _, ok := inhalte[3].Attribut("typ"); ok {
		t.Error("absent attribute came back populated")
	}
}

func TestVersionierteZweckbestimmung(t *testing.T) {
	bauePlanMitGruen := func() *Objekt {
		plan := NewObjekt("BP_Plan")
		plan.UUID = planUUID
		plan.SetAttribut("name", "Gruenplan")
		bereich := NewObjekt("BP_Bereich")
		bereich.UUID = bereichUUID
		gruen := NewObjekt("BP_GruenFlaeche")
		gruen.UUID = baugebietUUID
		gruen.SetAttribut("zweckbestimmung", []int{1000, 1600})
		bereich.AddRelation("planinhalt", gruen)
		plan.AddRelation("bereich", bereich)
		return plan
	}

	// 5.4: 标量枚举列表
	altText := exportiereString(t, bauePlanMitGruen(), Version54)
	if strings.Contains(altText, "komplexeZweckbestimmung") {
		t.Error("5.4 export must use the scalar representation")
	}
	altErgebnis, err := importiereString(t, altText)
	if err != nil {
		t.Fatalf("5.4 import: %v", err)
	}
	gruenAlt := altErgebnis.Plan.Relation("bereich")[0].Relation("planinhalt")[0]
	if wert, _ := gruenAlt.Attribut("zweckbestimmung"); len(wert.([]int)) != 2 {
		t.Errorf("scalar zweckbestimmung = %v", wert)
	}

	// 6.0: 关系行，顺序保持
	neuText := exportiereString(t, bauePlanMitGruen(), Version60)
	if !strings.Contains(neuText, "XP_KomplexeZweckbestGruen") {
		t.Error("6.0 export must use satellite rows")
	}
	neuErgebnis, err := importiereString(t, neuText)
	if err != nil {
		t.Fatalf("6.0 import: %v", err)
	}
	gruenNeu := neuErgebnis.Plan.Relation("bereich")[0].Relation("planinhalt")[0]
	zeilen := gruenNeu.Relation("komplexeZweckbestimmung")
	if len(zeilen) != 2 {
		t.Fatalf("satellite rows = %d", len(zeilen))
	}
	a, _ := zeilen[0].Attribut("allgemein")
	b, _ := zeilen[1].Attribut("allgemein")
	if a != 1000 || b != 1600 {
		t.Errorf("row order lost: %v %v", a, b)
	}
}

func TestTextListeRoundtrip(t *testing.T) {
	bauePlan := func(zweck any) *Objekt {
		plan := NewObjekt("RP_Plan")
		plan.UUID = planUUID
		plan.SetAttribut("name", "Regionalplan Sued")
		bereich := NewObjekt("RP_Bereich")
		bereich.UUID = bereichUUID
		freiraum := NewObjekt("RP_Freiraum")
		freiraum.UUID = baugebietUUID
		freiraum.SetAttribut("zweckbestimmung", zweck)
		bereich.AddRelation("planinhalt", freiraum)
		plan.AddRelation("bereich", bereich)
		return plan
	}

	xmlText := exportiereString(t, bauePlan([]string{"Gruenzug", "Gruenzaesur"}), Version54)
	ergebnis, err := importiereString(t, xmlText)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	freiraum := ergebnis.Plan.Relation("bereich")[0].Relation("planinhalt")[0]
	wert, ok := freiraum.Attribut("zweckbestimmung")
	if !ok {
		t.Fatal("text list lost on roundtrip")
	}
	liste, _ := wert.([]string)
	if len(liste) != 2 || liste[0] != "Gruenzug" || liste[1] != "Gruenzaesur" {
		t.Errorf("zweckbestimmung = %v", wert)
	}

	// JSON反序列化的属性包里字符串列表是[]any
	ausJSON := exportiereString(t, bauePlan([]any{"Gruenzug", "Gruenzaesur"}), Version54)
	if ausJSON != xmlText {
		t.Error("[]any text list must export identically to []string")
	}
}

func TestVersionierteZweckbestimmungAusJSON(t *testing.T) {
	// 从库里加载的属性包经过JSON往返，枚举列表变成[]any{float64}
	// 6.0导出时的标量到关系行迁移必须兼容这种形态
	plan := NewObjekt("BP_Plan")
	plan.UUID = planUUID
	bereich := NewObjekt("BP_Bereich")
	bereich.UUID = bereichUUID
	gruen := NewObjekt("BP_GruenFlaeche")
	gruen.UUID = baugebietUUID
	gruen.SetAttribut("zweckbestimmung", []any{1000.0, 1600.0})
	bereich.AddRelation("planinhalt", gruen)
	plan.AddRelation("bereich", bereich)

	neuText := exportiereString(t, plan, Version60)
	if !strings.Contains(neuText, "XP_KomplexeZweckbestGruen") {
		t.Fatal("6.0 export dropped the zweckbestimmung list")
	}
	ergebnis, err := importiereString(t, neuText)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	gruenNeu := ergebnis.Plan.Relation("bereich")[0].Relation("planinhalt")[0]
	zeilen := gruenNeu.Relation("komplexeZweckbestimmung")
	if len(zeilen) != 2 {
		t.Fatalf("satellite rows = %d", len(zeilen))
	}
	a, _ := zeilen[0].Attribut("allgemein")
	b, _ := zeilen[1].Attribut("allgemein")
	if a != 1000 || b != 1600 {
		t.Errorf("row values = %v %v", a, b)
	}
}

func TestFehlerWerdenGesammelt(t *testing.T) {
	xmlText := `<?xml version="1.0" encoding="UTF-8"?>
<xplan:BP_Plan xmlns:xplan="http://www.xplanung.de/xplangml/5/4" xmlns:gml="http://www.opengis.net/gml/3.2" gml:id="GML_` + planUUID + `">
  <xplan:bereich>
    <xplan:BP_Bereich gml:id="GML_` + bereichUUID + `">
      <xplan:planinhalt>
        <xplan:BP_Wegerecht gml:id="GML_` + wegerechtUUID + `">
          <xplan:rechtscharakter>7777</xplan:rechtscharakter>
          <xplan:breite>3.5</xplan:breite>
        </xplan:BP_Wegerecht>
      </xplan:planinhalt>
    </xplan:BP_Bereich>
  </xplan:bereich>
</xplan:BP_Plan>`
	ergebnis, err := importiereString(t, xmlText)
	var agg *ImportFehler
	if !errors.As(err, &agg) {
		t.Fatalf("expected ImportFehler, got %v", err)
	}
	var ede *EnumDecodeError
	if !errors.As(agg.Fehler[0], &ede) {
		t.Fatalf("expected EnumDecodeError inside aggregate, got %v", agg.Fehler[0])
	}
	// 对象部分填充而不是被丢弃
	if ergebnis == nil || ergebnis.Plan == nil {
		t.Fatal("partial result missing")
	}
	wegerecht := ergebnis.Plan.Relation("bereich")[0].Relation("planinhalt")[0]
	if wert, _ := wegerecht.Attribut("breite"); wert != 3.5 {
		t.Errorf("partially populated object lost breite: %v", wert)
	}
}

func TestZipExportZweiMitglieder(t *testing.T) {
	plan := baueTestplan()
	daten, err := NewWriter(Version54).ToArchive(plan)
	if err != nil {
		t.Fatalf("ToArchive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(daten), int64(len(daten)))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("members = %d, want 2", len(zr.File))
	}
	var hatGml, hatPdf bool
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, ".gml") {
			hatGml = true
		}
		if strings.HasSuffix(f.Name, ".pdf") {
			hatPdf = true
		}
	}
	if !hatGml || !hatPdf {
		t.Errorf("members: gml=%v pdf=%v", hatGml, hatPdf)
	}
	// 导出不得改动调用方的对象图
	ref := plan.Relation("externeReferenz")[0]
	if _, ok := ref.Attribut("datei"); !ok {
		t.Error("ToArchive mutated the input graph")
	}
}

func TestZipRoundtrip(t *testing.T) {
	plan := baueTestplan()
	daten, err := NewWriter(Version54).ToArchive(plan)
	if err != nil {
		t.Fatalf("ToArchive: %v", err)
	}
	ergebnis, err := NewReader().ReadArchive(daten, nil)
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	ref := ergebnis.Plan.Relation("externeReferenz")[0]
	datei, ok := ref.Attribut("datei")
	if !ok || string(datei.([]byte)) != "%PDF-1.4 testinhalt" {
		t.Errorf("sidecar payload not reattached: %v", ok)
	}
	url, _ := ref.Attribut("referenzURL")
	if url != "begruendung.pdf" {
		t.Errorf("referenzURL = %v", url)
	}
}

func TestArchiveFormatFehler(t *testing.T) {
	leeresZip := func() []byte {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		zw.Close()
		return buf.Bytes()
	}()
	ohneGml := func() []byte {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, _ := zw.Create("bild.png")
		w.Write([]byte("png"))
		zw.Close()
		return buf.Bytes()
	}()

	r := NewReader()
	for name, daten := range map[string][]byte{"empty": leeresZip, "no gml": ohneGml, "garbage": []byte("kein zip")} {
		_, err := r.ReadArchive(daten, nil)
		var afe *ArchiveFormatError
		if !errors.As(err, &afe) {
			t.Errorf("%s: expected ArchiveFormatError, got %v", name, err)
		}
	}
}

func TestProgressCallback(t *testing.T) {
	xmlText := exportiereString(t, baueTestplan(), Version54)
	var zuletzt, gesamt int
	ctx := &LeseKontext{Progress: func(aktuell, ges int) {
		zuletzt = aktuell
		gesamt = ges
	}}
	if _, err := NewReader().ReadGML([]byte(xmlText), nil, ctx); err != nil {
		t.Fatalf("import: %v", err)
	}
	if zuletzt == 0 || zuletzt != gesamt {
		t.Errorf("progress ended at %d/%d", zuletzt, gesamt)
	}
}

func TestQueryExisting(t *testing.T) {
	vorhandene := NewObjekt("XP_Gemeinde")
	vorhandene.UUID = "aaaaaaaa-0000-0000-0000-000000000000"
	vorhandene.SetAttribut("ags", "05315000")
	vorhandene.SetAttribut("gemeindeName", "Köln")

	ctx := &LeseKontext{QueryExisting: func(kandidat *Objekt) *Objekt {
		if kandidat.Typ != "XP_Gemeinde" {
			return nil
		}
		ags, _ := kandidat.Attribut("ags")
		if ags == "05315000" {
			return vorhandene
		}
		return nil
	}}

	xmlText := exportiereString(t, baueTestplan(), Version54)
	ergebnis, err := NewReader().ReadGML([]byte(xmlText), nil, ctx)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	gemeinden := ergebnis.Plan.Relation("gemeinde")
	if len(gemeinden) != 1 || gemeinden[0] != vorhandene {
		t.Error("existing instance not substituted")
	}
}
