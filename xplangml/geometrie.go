package xplangml

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/simplify"
)

// Geometrie 编解码器内部的几何表示
// 弧线等曲线类型orb无法表达，保留原始GML元素原样透传，不参与简化
type Geometrie struct {
	Geom  orb.Geometry
	Srid  int
	Kurve bool
	Roh   *etree.Element
}

// ewkbSridFlag PostGIS扩展WKB在几何类型字中嵌入SRID的标志位
const ewkbSridFlag = 0x20000000

// NormalizeWKBHex 清除EWKB的SRID标志位并剔除随后的SRID字
// 纯WKB原样返回，对已规范化的输入幂等
func NormalizeWKBHex(wkbHex string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(wkbHex))
	if err != nil {
		return "", &GeometryDecodeError{Grund: "invalid hex", Err: err}
	}
	if len(raw) < 5 {
		return "", &GeometryDecodeError{Grund: "wkb too short"}
	}

	little := raw[0] == 1
	typwort := leseUint32(raw[1:5], little)
	if typwort&ewkbSridFlag == 0 {
		return wkbHex, nil
	}
	if len(raw) < 9 {
		return "", &GeometryDecodeError{Grund: "ewkb truncated before srid word"}
	}

	typwort &^= ewkbSridFlag
	kopf := make([]byte, 5)
	kopf[0] = raw[0]
	schreibeUint32(kopf[1:5], typwort, little)

	// 头部拼回，跳过4字节SRID
	out := make([]byte, 0, len(raw)-4)
	out = append(out, kopf...)
	out = append(out, raw[9:]...)
	return hex.EncodeToString(out), nil
}

// SridAusEWKBHex 读出EWKB里嵌入的SRID，纯WKB返回0
func SridAusEWKBHex(wkbHex string) int {
	raw, err := hex.DecodeString(strings.TrimSpace(wkbHex))
	if err != nil || len(raw) < 9 {
		return 0
	}
	little := raw[0] == 1
	if leseUint32(raw[1:5], little)&ewkbSridFlag == 0 {
		return 0
	}
	return int(leseUint32(raw[5:9], little))
}

func leseUint32(b []byte, little bool) uint32 {
	if little {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24
}

func schreibeUint32(b []byte, w uint32, little bool) {
	if little {
		b[0], b[1], b[2], b[3] = byte(w), byte(w>>8), byte(w>>16), byte(w>>24)
	} else {
		b[3], b[2], b[1], b[0] = byte(w), byte(w>>8), byte(w>>16), byte(w>>24)
	}
}

// DecodeWKBHex 数据库中的WKB/EWKB十六进制串转orb几何
func DecodeWKBHex(wkbHex string, srid int) (*Geometrie, error) {
	if eingebettet := SridAusEWKBHex(wkbHex); eingebettet != 0 {
		srid = eingebettet
	}
	norm, err := NormalizeWKBHex(wkbHex)
	if err != nil {
		return nil, err
	}
	raw, _ := hex.DecodeString(norm)
	geom, err := wkb.Unmarshal(raw)
	if err != nil {
		return nil, &GeometryDecodeError{Grund: "wkb unmarshal", Err: err}
	}
	return &Geometrie{Geom: geom, Srid: srid}, nil
}

// EncodeWKBHex orb几何转WKB十六进制串（无SRID标志）
func EncodeWKBHex(g *Geometrie) (string, error) {
	if g == nil || g.Geom == nil {
		return "", &GeometryDecodeError{Grund: "nil geometry"}
	}
	raw, err := wkb.Marshal(g.Geom)
	if err != nil {
		return "", &GeometryDecodeError{Grund: "wkb marshal", Err: err}
	}
	return hex.EncodeToString(raw), nil
}

// parseSrsName 支持EPSG:n、urn:ogc:def:crs:EPSG::n和OGC http风格三种写法
func parseSrsName(srs string) int {
	srs = strings.TrimSpace(srs)
	if srs == "" {
		return 0
	}
	idx := strings.LastIndexAny(srs, ":/")
	if idx < 0 || idx+1 >= len(srs) {
		return 0
	}
	n, err := strconv.Atoi(srs[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// parsePosListe 坐标串解析，三维输入丢弃Z坐标压平为二维
func parsePosListe(text string, dim int) ([]orb.Point, error) {
	if dim < 2 {
		dim = 2
	}
	felder := strings.Fields(text)
	if len(felder)%dim != 0 {
		return nil, &GeometryDecodeError{Grund: fmt.Sprintf("posList length %d not divisible by dimension %d", len(felder), dim)}
	}
	punkte := make([]orb.Point, 0, len(felder)/dim)
	for i := 0; i+dim <= len(felder); i += dim {
		x, errX := strconv.ParseFloat(felder[i], 64)
		y, errY := strconv.ParseFloat(felder[i+1], 64)
		if errX != nil || errY != nil {
			return nil, &GeometryDecodeError{Grund: fmt.Sprintf("bad coordinate pair %q %q", felder[i], felder[i+1])}
		}
		punkte = append(punkte, orb.Point{x, y})
	}
	return punkte, nil
}

func dimensionVon(el *etree.Element) int {
	if a := el.SelectAttrValue("srsDimension", ""); a != "" {
		if d, err := strconv.Atoi(a); err == nil {
			return d
		}
	}
	return 2
}

// posListText posList优先，兼容旧式coordinates（逗号分隔对）
func posListText(el *etree.Element) (string, int) {
	if pl := findeKind(el, "posList"); pl != nil {
		return pl.Text(), dimFallback(pl, el)
	}
	if pos := findeKind(el, "pos"); pos != nil {
		return pos.Text(), dimFallback(pos, el)
	}
	if co := findeKind(el, "coordinates"); co != nil {
		return strings.NewReplacer(",", " ").Replace(co.Text()), 2
	}
	return "", 2
}

func dimFallback(el, eltern *etree.Element) int {
	d := dimensionVon(el)
	if d == 2 {
		if de := dimensionVon(eltern); de != 2 {
			return de
		}
	}
	return d
}

// findeKind 按局部标签名查找直接子元素，忽略命名空间前缀
func findeKind(el *etree.Element, tag string) *etree.Element {
	for _, k := range el.ChildElements() {
		if k.Tag == tag {
			return k
		}
	}
	return nil
}

func findeKinder(el *etree.Element, tag string) []*etree.Element {
	var result []*etree.Element
	for _, k := range el.ChildElements() {
		if k.Tag == tag {
			result = append(result, k)
		}
	}
	return result
}

// geometrieTags GML几何根元素的局部标签名
var geometrieTags = map[string]bool{
	"Point": true, "LineString": true, "Polygon": true, "Curve": true,
	"MultiPoint": true, "MultiCurve": true, "MultiSurface": true,
	"MultiLineString": true, "MultiPolygon": true, "MultiGeometry": true,
}

// IstGeometrieElement 元素是否为GML几何
func IstGeometrieElement(el *etree.Element) bool {
	return geometrieTags[el.Tag]
}

// DecodeGML GML几何元素转内部表示
func DecodeGML(el *etree.Element, defaultSrid int) (*Geometrie, error) {
	srid := parseSrsName(el.SelectAttrValue("srsName", ""))
	if srid == 0 {
		srid = defaultSrid
	}

	switch el.Tag {
	case "Point":
		text, dim := posListText(el)
		punkte, err := parsePosListe(text, dim)
		if err != nil {
			return nil, err
		}
		if len(punkte) == 0 {
			return nil, &GeometryDecodeError{Grund: "empty Point"}
		}
		return &Geometrie{Geom: punkte[0], Srid: srid}, nil

	case "LineString":
		text, dim := posListText(el)
		punkte, err := parsePosListe(text, dim)
		if err != nil {
			return nil, err
		}
		if len(punkte) < 2 {
			return nil, &GeometryDecodeError{Grund: "LineString needs at least 2 points"}
		}
		return &Geometrie{Geom: orb.LineString(punkte), Srid: srid}, nil

	case "Polygon":
		poly, err := decodePolygon(el)
		if err != nil {
			return nil, err
		}
		return &Geometrie{Geom: poly, Srid: srid}, nil

	case "Curve":
		return decodeKurve(el, srid)

	case "MultiPoint":
		var mp orb.MultiPoint
		for _, m := range findeKinder(el, "pointMember") {
			if p := findeKind(m, "Point"); p != nil {
				g, err := DecodeGML(p, srid)
				if err != nil {
					return nil, err
				}
				mp = append(mp, g.Geom.(orb.Point))
			}
		}
		return &Geometrie{Geom: mp, Srid: srid}, nil

	case "MultiLineString", "MultiCurve":
		var ml orb.MultiLineString
		kurve := false
		member := "curveMember"
		if el.Tag == "MultiLineString" {
			member = "lineStringMember"
		}
		for _, m := range findeKinder(el, member) {
			for _, k := range m.ChildElements() {
				g, err := DecodeGML(k, srid)
				if err != nil {
					return nil, err
				}
				kurve = kurve || g.Kurve
				switch geom := g.Geom.(type) {
				case orb.LineString:
					ml = append(ml, geom)
				case orb.MultiLineString:
					ml = append(ml, geom...)
				}
			}
		}
		if kurve {
			return &Geometrie{Geom: ml, Srid: srid, Kurve: true, Roh: el.Copy()}, nil
		}
		return &Geometrie{Geom: ml, Srid: srid}, nil

	case "MultiSurface", "MultiPolygon":
		var mpoly orb.MultiPolygon
		member := "surfaceMember"
		if el.Tag == "MultiPolygon" {
			member = "polygonMember"
		}
		for _, m := range findeKinder(el, member) {
			if p := findeKind(m, "Polygon"); p != nil {
				poly, err := decodePolygon(p)
				if err != nil {
					return nil, err
				}
				mpoly = append(mpoly, poly)
			}
		}
		return &Geometrie{Geom: mpoly, Srid: srid}, nil
	}

	return nil, &GeometryDecodeError{Grund: "unsupported geometry element " + el.Tag}
}

func decodePolygon(el *etree.Element) (orb.Polygon, error) {
	var poly orb.Polygon
	ext := findeKind(el, "exterior")
	if ext == nil {
		ext = findeKind(el, "outerBoundaryIs")
	}
	if ext == nil {
		return nil, &GeometryDecodeError{Grund: "Polygon without exterior"}
	}
	ring, err := decodeRing(ext)
	if err != nil {
		return nil, err
	}
	poly = append(poly, ring)

	for _, in := range el.ChildElements() {
		if in.Tag != "interior" && in.Tag != "innerBoundaryIs" {
			continue
		}
		ring, err := decodeRing(in)
		if err != nil {
			return nil, err
		}
		poly = append(poly, ring)
	}
	return poly, nil
}

func decodeRing(grenze *etree.Element) (orb.Ring, error) {
	lr := findeKind(grenze, "LinearRing")
	if lr == nil {
		return nil, &GeometryDecodeError{Grund: "boundary without LinearRing"}
	}
	text, dim := posListText(lr)
	punkte, err := parsePosListe(text, dim)
	if err != nil {
		return nil, err
	}
	if len(punkte) < 4 {
		return nil, &GeometryDecodeError{Grund: "ring needs at least 4 points"}
	}
	return orb.Ring(punkte), nil
}

// decodeKurve 带Arc段的曲线：取全部坐标近似为折线供范围计算，原始元素透传
func decodeKurve(el *etree.Element, srid int) (*Geometrie, error) {
	segmente := findeKind(el, "segments")
	if segmente == nil {
		return nil, &GeometryDecodeError{Grund: "Curve without segments"}
	}
	var punkte []orb.Point
	kurve := false
	for _, seg := range segmente.ChildElements() {
		if seg.Tag == "Arc" || seg.Tag == "ArcString" || seg.Tag == "CircleByCenterPoint" {
			kurve = true
		}
		text, dim := posListText(seg)
		p, err := parsePosListe(text, dim)
		if err != nil {
			return nil, err
		}
		punkte = append(punkte, p...)
	}
	if len(punkte) < 2 {
		return nil, &GeometryDecodeError{Grund: "Curve without coordinates"}
	}
	g := &Geometrie{Geom: orb.LineString(punkte), Srid: srid, Kurve: kurve}
	if kurve {
		g.Roh = el.Copy()
	}
	return g, nil
}

// EncodeGML 内部表示转GML几何元素，曲线原样回写
func EncodeGML(g *Geometrie) (*etree.Element, error) {
	if g == nil || (g.Geom == nil && g.Roh == nil) {
		return nil, &GeometryDecodeError{Grund: "nil geometry"}
	}
	if g.Kurve && g.Roh != nil {
		return g.Roh.Copy(), nil
	}

	srs := ""
	if g.Srid != 0 {
		srs = "EPSG:" + strconv.Itoa(g.Srid)
	}

	mitSrs := func(el *etree.Element) *etree.Element {
		if srs != "" {
			el.CreateAttr("srsName", srs)
		}
		return el
	}

	switch geom := g.Geom.(type) {
	case orb.Point:
		el := mitSrs(etree.NewElement("gml:Point"))
		el.CreateElement("gml:pos").SetText(koordText([]orb.Point{geom}))
		return el, nil
	case orb.LineString:
		el := mitSrs(etree.NewElement("gml:LineString"))
		el.CreateElement("gml:posList").SetText(koordText(geom))
		return el, nil
	case orb.Ring:
		return EncodeGML(&Geometrie{Geom: orb.Polygon{geom}, Srid: g.Srid})
	case orb.Polygon:
		el := mitSrs(etree.NewElement("gml:Polygon"))
		encodeRinge(el, geom)
		return el, nil
	case orb.MultiPoint:
		el := mitSrs(etree.NewElement("gml:MultiPoint"))
		for _, p := range geom {
			m := el.CreateElement("gml:pointMember")
			pe := m.CreateElement("gml:Point")
			pe.CreateElement("gml:pos").SetText(koordText([]orb.Point{p}))
		}
		return el, nil
	case orb.MultiLineString:
		el := mitSrs(etree.NewElement("gml:MultiCurve"))
		for _, ls := range geom {
			m := el.CreateElement("gml:curveMember")
			le := m.CreateElement("gml:LineString")
			le.CreateElement("gml:posList").SetText(koordText(ls))
		}
		return el, nil
	case orb.MultiPolygon:
		el := mitSrs(etree.NewElement("gml:MultiSurface"))
		for _, poly := range geom {
			m := el.CreateElement("gml:surfaceMember")
			pe := m.CreateElement("gml:Polygon")
			encodeRinge(pe, poly)
		}
		return el, nil
	}
	return nil, &GeometryDecodeError{Grund: fmt.Sprintf("unsupported geometry type %T", g.Geom)}
}

func encodeRinge(el *etree.Element, poly orb.Polygon) {
	for i, ring := range poly {
		grenze := "gml:exterior"
		if i > 0 {
			grenze = "gml:interior"
		}
		lr := el.CreateElement(grenze).CreateElement("gml:LinearRing")
		lr.CreateElement("gml:posList").SetText(koordText(ring))
	}
}

func koordText(punkte []orb.Point) string {
	var sb strings.Builder
	for i, p := range punkte {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(p[0], 'f', -1, 64))
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(p[1], 'f', -1, 64))
	}
	return sb.String()
}

// KorrekturOptionen 几何修正策略，由调用方注入
type KorrekturOptionen struct {
	Aktiv             bool
	Methode           string // "keine" 或 "dp"
	Toleranz          float64
	TopologieErhalten bool
}

// Korrigiere 重复点清理、可选Douglas-Peucker简化、环方向规范化
// 曲线几何不做任何简化
func (o KorrekturOptionen) Korrigiere(g *Geometrie) *Geometrie {
	if g == nil || !o.Aktiv || g.Kurve || g.Geom == nil {
		return g
	}

	geom := entferneDuplikate(g.Geom)

	if o.Methode == "dp" && o.Toleranz > 0 {
		if o.TopologieErhalten {
			geom = simplifyTopo(geom, o.Toleranz)
		} else {
			geom = simplify.DouglasPeucker(o.Toleranz).Simplify(geom)
		}
	}

	geom = normalisiereRinge(geom)
	return &Geometrie{Geom: geom, Srid: g.Srid}
}

func entferneDuplikate(geom orb.Geometry) orb.Geometry {
	switch g := geom.(type) {
	case orb.LineString:
		return orb.LineString(dedupPunkte(g))
	case orb.Ring:
		return orb.Ring(dedupPunkte(g))
	case orb.Polygon:
		out := make(orb.Polygon, len(g))
		for i, r := range g {
			out[i] = orb.Ring(dedupPunkte(r))
		}
		return out
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(g))
		for i, ls := range g {
			out[i] = orb.LineString(dedupPunkte(ls))
		}
		return out
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = entferneDuplikate(p).(orb.Polygon)
		}
		return out
	}
	return geom
}

func dedupPunkte(punkte []orb.Point) []orb.Point {
	if len(punkte) < 2 {
		return punkte
	}
	// 不复用入参的底层数组，纠偏不改写调用方的几何
	out := make([]orb.Point, 0, len(punkte))
	out = append(out, punkte[0])
	for _, p := range punkte[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	// 环的首尾闭合点保留
	if len(out) > 1 && punkte[0] == punkte[len(punkte)-1] && out[len(out)-1] != out[0] {
		out = append(out, out[0])
	}
	return out
}

// simplifyTopo 保拓扑简化：退化为少于4点的环回退到原始环
func simplifyTopo(geom orb.Geometry, toleranz float64) orb.Geometry {
	dp := simplify.DouglasPeucker(toleranz)
	switch g := geom.(type) {
	case orb.Polygon:
		out := make(orb.Polygon, len(g))
		for i, r := range g {
			s := dp.Simplify(orb.LineString(r)).(orb.LineString)
			if len(s) < 4 {
				out[i] = r
			} else {
				out[i] = orb.Ring(s)
			}
		}
		return out
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(g))
		for i, p := range g {
			out[i] = simplifyTopo(p, toleranz).(orb.Polygon)
		}
		return out
	}
	return dp.Simplify(geom)
}

// normalisiereRinge 外环统一逆时针，内环顺时针
func normalisiereRinge(geom orb.Geometry) orb.Geometry {
	switch g := geom.(type) {
	case orb.Polygon:
		for i, r := range g {
			soll := orb.CCW
			if i > 0 {
				soll = orb.CW
			}
			if r.Orientation() != soll {
				r.Reverse()
			}
			g[i] = r
		}
		return g
	case orb.MultiPolygon:
		for i, p := range g {
			g[i] = normalisiereRinge(p).(orb.Polygon)
		}
		return g
	}
	return geom
}
