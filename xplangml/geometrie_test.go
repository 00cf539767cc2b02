package xplangml

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
)

// 1.5/2.5 的小端double编码
const (
	hexX15 = "000000000000f83f"
	hexY25 = "0000000000000440"

	plainPointWKB = "0101000000" + hexX15 + hexY25
	// SRID标志位0x20000000置位，嵌入SRID 25832
	ewkbPoint = "0101000020" + "e8640000" + hexX15 + hexY25
)

func TestNormalizeWKBHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain wkb unchanged", plainPointWKB, plainPointWKB},
		{"ewkb flag and srid stripped", ewkbPoint, plainPointWKB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeWKBHex(tt.in)
			if err != nil {
				t.Fatalf("NormalizeWKBHex: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
			// 幂等
			nochmal, err := NormalizeWKBHex(got)
			if err != nil {
				t.Fatalf("second NormalizeWKBHex: %v", err)
			}
			if nochmal != got {
				t.Errorf("not idempotent: %s != %s", nochmal, got)
			}
		})
	}
}

func TestNormalizeWKBHexFehler(t *testing.T) {
	for _, in := range []string{"zz", "01", ""} {
		if _, err := NormalizeWKBHex(in); err == nil {
			t.Errorf("NormalizeWKBHex(%q) expected error", in)
		}
	}
}

func TestSridAusEWKBHex(t *testing.T) {
	if srid := SridAusEWKBHex(ewkbPoint); srid != 25832 {
		t.Errorf("srid = %d, want 25832", srid)
	}
	if srid := SridAusEWKBHex(plainPointWKB); srid != 0 {
		t.Errorf("plain wkb srid = %d, want 0", srid)
	}
}

func TestDecodeWKBHex(t *testing.T) {
	g, err := DecodeWKBHex(ewkbPoint, 0)
	if err != nil {
		t.Fatalf("DecodeWKBHex: %v", err)
	}
	p, ok := g.Geom.(orb.Point)
	if !ok {
		t.Fatalf("expected point, got %T", g.Geom)
	}
	if p[0] != 1.5 || p[1] != 2.5 {
		t.Errorf("point = %v", p)
	}
	if g.Srid != 25832 {
		t.Errorf("srid = %d, want 25832", g.Srid)
	}
}

func TestWKBHexRoundtrip(t *testing.T) {
	poly := orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}
	wkbHex, err := EncodeWKBHex(&Geometrie{Geom: poly, Srid: 25832})
	if err != nil {
		t.Fatalf("EncodeWKBHex: %v", err)
	}
	g, err := DecodeWKBHex(wkbHex, 25832)
	if err != nil {
		t.Fatalf("DecodeWKBHex: %v", err)
	}
	if !orb.Equal(g.Geom, poly) {
		t.Errorf("roundtrip mismatch: %v", g.Geom)
	}
}

func parseGeom(t *testing.T, xmlText string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlText); err != nil {
		t.Fatalf("bad test xml: %v", err)
	}
	return doc.Root()
}

func TestDecodeGMLDreiDimensional(t *testing.T) {
	// 三维输入压平为二维
	el := parseGeom(t, `<gml:LineString xmlns:gml="x" srsName="EPSG:25832"><gml:posList srsDimension="3">1 2 50 3 4 51</gml:posList></gml:LineString>`)
	g, err := DecodeGML(el, 0)
	if err != nil {
		t.Fatalf("DecodeGML: %v", err)
	}
	ls := g.Geom.(orb.LineString)
	want := orb.LineString{{1, 2}, {3, 4}}
	if !ls.Equal(want) {
		t.Errorf("line = %v, want %v", ls, want)
	}
	if g.Srid != 25832 {
		t.Errorf("srid = %d", g.Srid)
	}
}

func TestDecodeGMLPolygon(t *testing.T) {
	el := parseGeom(t, `<gml:Polygon xmlns:gml="x" srsName="urn:ogc:def:crs:EPSG::25832">
		<gml:exterior><gml:LinearRing><gml:posList>0 0 10 0 10 10 0 10 0 0</gml:posList></gml:LinearRing></gml:exterior>
		<gml:interior><gml:LinearRing><gml:posList>2 2 4 2 4 4 2 4 2 2</gml:posList></gml:LinearRing></gml:interior>
	</gml:Polygon>`)
	g, err := DecodeGML(el, 0)
	if err != nil {
		t.Fatalf("DecodeGML: %v", err)
	}
	poly := g.Geom.(orb.Polygon)
	if len(poly) != 2 {
		t.Fatalf("rings = %d, want 2", len(poly))
	}
	if g.Srid != 25832 {
		t.Errorf("urn srsName not parsed, srid = %d", g.Srid)
	}
}

func TestDecodeGMLKurvePassthrough(t *testing.T) {
	el := parseGeom(t, `<gml:Curve xmlns:gml="x"><gml:segments>
		<gml:Arc><gml:posList>0 0 1 1 2 0</gml:posList></gml:Arc>
	</gml:segments></gml:Curve>`)
	g, err := DecodeGML(el, 25832)
	if err != nil {
		t.Fatalf("DecodeGML: %v", err)
	}
	if !g.Kurve {
		t.Fatal("expected Kurve flag")
	}
	out, err := EncodeGML(g)
	if err != nil {
		t.Fatalf("EncodeGML: %v", err)
	}
	if out.Tag != "Curve" {
		t.Errorf("curve not passed through, got <%s>", out.Tag)
	}
	// 曲线不参与简化
	korr := KorrekturOptionen{Aktiv: true, Methode: "dp", Toleranz: 10}
	if k := korr.Korrigiere(g); !k.Kurve {
		t.Error("correction must not touch curves")
	}
}

func TestKorrigiereDuplikateUndWinding(t *testing.T) {
	// 外环顺时针给入，带重复点
	ring := orb.Ring{{0, 0}, {0, 10}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}
	korr := KorrekturOptionen{Aktiv: true}
	g := korr.Korrigiere(&Geometrie{Geom: orb.Polygon{ring}, Srid: 25832})
	poly := g.Geom.(orb.Polygon)
	if len(poly[0]) != 5 {
		t.Errorf("duplicate vertex not removed: %d points", len(poly[0]))
	}
	if poly[0].Orientation() != orb.CCW {
		t.Error("exterior ring not counter-clockwise")
	}
}

func TestKorrigiereLaesstEingabeUnberuehrt(t *testing.T) {
	// 纠偏返回新几何，入参的底层数组不能被改写
	ring := orb.Ring{{0, 0}, {0, 10}, {0, 10}, {10, 10}, {10, 0}, {0, 0}}
	original := make(orb.Ring, len(ring))
	copy(original, ring)

	korr := KorrekturOptionen{Aktiv: true}
	korr.Korrigiere(&Geometrie{Geom: orb.Polygon{ring}, Srid: 25832})

	for i := range ring {
		if ring[i] != original[i] {
			t.Fatalf("input ring mutated at %d: %v != %v", i, ring[i], original[i])
		}
	}
}

func TestKorrigiereSimplify(t *testing.T) {
	// 共线中间点在容差内被DP去掉
	ls := orb.LineString{{0, 0}, {5, 0.001}, {10, 0}}
	korr := KorrekturOptionen{Aktiv: true, Methode: "dp", Toleranz: 0.1}
	g := korr.Korrigiere(&Geometrie{Geom: ls})
	if len(g.Geom.(orb.LineString)) != 2 {
		t.Errorf("simplify did not run: %v", g.Geom)
	}

	// 保拓扑模式下环不允许退化
	kleinesDreieck := orb.Polygon{{{0, 0}, {1, 0}, {0.5, 0.01}, {0, 0}}}
	korrTopo := KorrekturOptionen{Aktiv: true, Methode: "dp", Toleranz: 5, TopologieErhalten: true}
	gt := korrTopo.Korrigiere(&Geometrie{Geom: kleinesDreieck})
	if len(gt.Geom.(orb.Polygon)[0]) < 4 {
		t.Errorf("ring degenerated: %v", gt.Geom)
	}
}

func TestParseSrsName(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"EPSG:25832", 25832},
		{"urn:ogc:def:crs:EPSG::4326", 4326},
		{"http://www.opengis.net/def/crs/EPSG/0/25833", 25833},
		{"", 0},
		{"unbekannt", 0},
	}
	for _, tt := range tests {
		if got := parseSrsName(tt.in); got != tt.want {
			t.Errorf("parseSrsName(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
