package xplangml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LeseKontext 由调用方注入的回调
// QueryExisting 用于跨文档引用去重（如已存在的Gemeinde），返回nil视为新对象
// Progress 纯通知性的进度回调，无背压语义
type LeseKontext struct {
	QueryExisting func(kandidat *Objekt) *Objekt
	Progress      func(aktuell, gesamt int)
}

// LeseErgebnis 一次导入的结果：重建的规划图加收集到的警告
type LeseErgebnis struct {
	Plan      *Objekt
	Version   Version
	Warnungen []string
}

// Reader XPlanGML导入器
// 单对象解码错误进入列表，整个文档读完后统一以ImportFehler上报
type Reader struct {
	Registry    *Registry
	Korrektur   KorrekturOptionen
	DefaultSrid int
}

func NewReader() *Reader {
	return &Reader{Registry: Katalog}
}

// ReadFile 按扩展名分发，不支持的扩展名立即失败
func (r *Reader) ReadFile(pfad string, ctx *LeseKontext) (*LeseErgebnis, error) {
	daten, err := os.ReadFile(pfad)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(pfad)) {
	case ".gml", ".xml":
		return r.ReadGML(daten, nil, ctx)
	case ".zip":
		return r.ReadArchive(daten, ctx)
	}
	return nil, &ArchiveFormatError{Grund: "unsupported file extension " + filepath.Ext(pfad)}
}

// ReadArchive ZIP容器导入：要求非空且含至少一个gml成员
// 第一个gml成员是规划文档，其余成员按包内路径作为被引用文件
func (r *Reader) ReadArchive(daten []byte, ctx *LeseKontext) (*LeseErgebnis, error) {
	zr, err := zip.NewReader(bytes.NewReader(daten), int64(len(daten)))
	if err != nil {
		return nil, &ArchiveFormatError{Grund: "not a zip archive: " + err.Error()}
	}
	if len(zr.File) == 0 {
		return nil, &ArchiveFormatError{Grund: "archive has no members"}
	}

	var gmlDaten []byte
	sidecars := map[string][]byte{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("archive member %s: %w", f.Name, err)
		}
		inhalt, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("archive member %s: %w", f.Name, err)
		}
		if gmlDaten == nil && strings.HasSuffix(strings.ToLower(f.Name), ".gml") {
			gmlDaten = inhalt
			continue
		}
		sidecars[f.Name] = inhalt
	}
	if gmlDaten == nil {
		return nil, &ArchiveFormatError{Grund: "archive has no .gml member"}
	}

	return r.ReadGML(gmlDaten, sidecars, ctx)
}

// charsetLeser 旧文档常见的Latin-1编码在这里转为UTF-8
func charsetLeser(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8":
		return input, nil
	case "iso-8859-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}

// ReadGML 解析单个XPlanGML文档并重建对象图
func (r *Reader) ReadGML(daten []byte, sidecars map[string][]byte, ctx *LeseKontext) (*LeseErgebnis, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetLeser
	if err := doc.ReadFromBytes(daten); err != nil {
		return nil, fmt.Errorf("malformed XML: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}

	lauf := &leseLauf{reg: r.Registry, korrektur: r.Korrektur, srid: r.DefaultSrid}

	lauf.version = r.erkenneVersion(root, lauf)

	planEl := r.findePlanElement(root, lauf)
	if planEl == nil {
		return nil, fmt.Errorf("document contains no recognizable plan element")
	}

	gesamt := r.zaehleBekannte(planEl)
	aktuell := 0
	if ctx != nil && ctx.Progress != nil {
		lauf.melden = func() {
			aktuell++
			ctx.Progress(aktuell, gesamt)
		}
	}

	plan := lauf.deserialisiere(planEl)
	if plan == nil {
		return nil, fmt.Errorf("plan element <%s> has no schema entry", planEl.Tag)
	}

	r.verknuepfe(plan, lauf)
	r.dedupliziere(plan, ctx)
	r.ordneSidecarsZu(plan, sidecars, lauf)

	ergebnis := &LeseErgebnis{Plan: plan, Version: lauf.version, Warnungen: lauf.warnungen}
	if len(lauf.fehler) > 0 {
		// 收集-后-聚合策略：问题一次性全量上报，而不是逐个中断
		return ergebnis, &ImportFehler{Fehler: lauf.fehler}
	}
	return ergebnis, nil
}

// erkenneVersion 从根元素的命名空间绑定识别格式版本
func (r *Reader) erkenneVersion(root *etree.Element, lauf *leseLauf) Version {
	for _, a := range root.Attr {
		if a.Space != "xmlns" && a.Key != "xmlns" {
			continue
		}
		if v, ok := NamespaceToVersion(a.Value); ok {
			return v
		}
	}
	lauf.warne("no XPlanGML namespace found, assuming version %s", Version54)
	return Version54
}

// findePlanElement 根元素本身是规划时直接用
// 否则在featureMember包装（XPlanAuszug风格）下找第一个规划元素
func (r *Reader) findePlanElement(root *etree.Element, lauf *leseLauf) *etree.Element {
	if e, ok := r.Registry.ClassForTag(root.Tag); ok && e.IstPlan {
		return root
	}

	var gefunden *etree.Element
	for _, member := range root.ChildElements() {
		kandidaten := []*etree.Element{member}
		if member.Tag == "featureMember" {
			kandidaten = member.ChildElements()
		}
		for _, k := range kandidaten {
			e, ok := r.Registry.ClassForTag(k.Tag)
			if !ok || !e.IstPlan {
				continue
			}
			if gefunden == nil {
				gefunden = k
			} else {
				lauf.warne("document contains more than one plan, importing only <%s>", gefunden.Tag)
			}
		}
	}
	return gefunden
}

func (r *Reader) zaehleBekannte(el *etree.Element) int {
	n := 0
	if _, ok := r.Registry.ClassForTag(el.Tag); ok {
		n++
	}
	for _, k := range el.ChildElements() {
		n += r.zaehleBekannte(k)
	}
	return n
}

// verknuepfe 二次引用解析：先整图构建，再补引用，绝不边建边连
func (r *Reader) verknuepfe(plan *Objekt, lauf *leseLauf) {
	vorhanden := map[string]*Objekt{}
	for _, o := range plan.Alle() {
		vorhanden[o.UUID] = o
	}

	for _, o := range plan.Alle() {
		eintrag, err := r.Registry.Eintrag(o.Typ)
		if err != nil {
			continue
		}
		for i := range eintrag.Attribute {
			a := &eintrag.Attribute[i]
			if a.Art != WertVerweis || eintrag.Vermeidet(a.Name) {
				continue
			}
			wert, ok := o.Attribut(a.Name)
			if !ok {
				continue
			}
			ziel, _ := wert.(string)
			if ziel == "" {
				continue
			}
			if _, ok := vorhanden[ziel]; !ok {
				lauf.warne("%s %s: reference %s of %s cannot be resolved", o.Typ, o.UUID, a.Name, ziel)
			}
		}
	}
}

// dedupliziere 跨文档引用去重：候选对象在目标库中已存在时替换为既有实例
func (r *Reader) dedupliziere(plan *Objekt, ctx *LeseKontext) {
	if ctx == nil || ctx.QueryExisting == nil {
		return
	}
	for _, o := range plan.Alle() {
		for _, name := range o.RelationNamen() {
			kinder := o.relationen[name]
			for i, kind := range kinder {
				if vorhanden := ctx.QueryExisting(kind); vorhanden != nil {
					kinder[i] = vorhanden
				}
			}
		}
	}
}

// ordneSidecarsZu 包内附属文件按referenzURL回挂到外部引用对象
func (r *Reader) ordneSidecarsZu(plan *Objekt, sidecars map[string][]byte, lauf *leseLauf) {
	if len(sidecars) == 0 {
		return
	}
	for _, o := range plan.Alle() {
		if o.Typ != "XP_ExterneReferenz" && o.Typ != "XP_SpezExterneReferenz" {
			continue
		}
		wert, ok := o.Attribut("referenzURL")
		if !ok {
			continue
		}
		url, _ := wert.(string)
		if inhalt, ok := sidecars[url]; ok {
			o.SetAttribut("datei", inhalt)
		} else if url != "" && !strings.Contains(url, "://") {
			lauf.warne("referenced file %q not found in archive", url)
		}
	}
}
