package xplangml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// Writer XPlanGML导出器
// 同一对象图、版本与导出模式下输出结构完全确定
type Writer struct {
	Registry *Registry
	Version  Version
	Prefix   string
}

func NewWriter(v Version) *Writer {
	return &Writer{Registry: Katalog, Version: v, Prefix: "xplan"}
}

// ToDocument 整图序列化为一棵命名空间化的XML文档，嵌入文件以base64内联
func (w *Writer) ToDocument(plan *Objekt) (*etree.Document, error) {
	return w.dokument(plan.Kopie())
}

func (w *Writer) dokument(plan *Objekt) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	lauf := &schreibLauf{reg: w.Registry, version: w.Version, prefix: w.Prefix}
	if err := lauf.serialisiere(plan, &doc.Element); err != nil {
		return nil, err
	}

	root := doc.Root()
	root.CreateAttr("xmlns:"+w.Prefix, w.Version.Namespace())
	root.CreateAttr("xmlns:gml", NsGML)
	root.CreateAttr("xmlns:xlink", NsXLink)
	root.CreateAttr("xmlns:xsi", NsXSI)
	return doc, nil
}

// ToArchive 导出为ZIP容器：恰好一个gml成员加外部引用的附属文件
// 嵌入的二进制负载外提为同包文件，referenzURL改写为包内相对路径
func (w *Writer) ToArchive(plan *Objekt) ([]byte, error) {
	kopie := plan.Kopie()

	dateien := w.extrahiereDateien(kopie)

	doc, err := w.dokument(kopie)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	gmlName := w.gmlDateiname(kopie)
	member, err := zw.Create(gmlName)
	if err != nil {
		return nil, err
	}
	doc.Indent(2)
	if _, err := doc.WriteTo(member); err != nil {
		return nil, err
	}

	for _, d := range dateien {
		member, err := zw.Create(d.name)
		if err != nil {
			return nil, err
		}
		if _, err := member.Write(d.inhalt); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type archivDatei struct {
	name   string
	inhalt []byte
}

// extrahiereDateien 把图中全部嵌入负载摘出来，改写引用为包内路径
func (w *Writer) extrahiereDateien(plan *Objekt) []archivDatei {
	var dateien []archivDatei
	vergeben := map[string]bool{}

	for _, o := range plan.Alle() {
		if o.Typ != "XP_ExterneReferenz" && o.Typ != "XP_SpezExterneReferenz" {
			continue
		}
		wert, ok := o.Attribut("datei")
		if !ok {
			continue
		}
		inhalt, _ := wert.([]byte)
		if len(inhalt) == 0 {
			o.DelAttribut("datei")
			continue
		}

		name := w.sidecarName(o)
		basis := name
		for n := 1; vergeben[name]; n++ {
			ext := path.Ext(basis)
			name = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(basis, ext), n, ext)
		}
		vergeben[name] = true

		dateien = append(dateien, archivDatei{name: name, inhalt: inhalt})
		o.SetAttribut("referenzURL", name)
		o.DelAttribut("datei")
	}
	return dateien
}

// sidecarName 附属文件名：引用名优先，其次URL基名，最后按MIME猜扩展名
func (w *Writer) sidecarName(o *Objekt) string {
	if wert, ok := o.Attribut("referenzName"); ok {
		if s, _ := wert.(string); s != "" {
			return bereinigeDateiname(s)
		}
	}
	if wert, ok := o.Attribut("referenzURL"); ok {
		if s, _ := wert.(string); s != "" {
			if basis := path.Base(strings.ReplaceAll(s, "\\", "/")); basis != "." && basis != "/" {
				return bereinigeDateiname(basis)
			}
		}
	}
	ext := ".bin"
	if wert, ok := o.Attribut("referenzMimeType"); ok {
		if s, _ := wert.(string); s != "" {
			if exts, err := mime.ExtensionsByType(s); err == nil && len(exts) > 0 {
				ext = exts[0]
			}
		}
	}
	return "ref_" + o.UUID + ext
}

func (w *Writer) gmlDateiname(plan *Objekt) string {
	name := "xplan"
	if wert, ok := plan.Attribut("name"); ok {
		if s, _ := wert.(string); s != "" {
			name = bereinigeDateiname(s)
		}
	}
	return name + ".gml"
}

func bereinigeDateiname(s string) string {
	ersetzer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", " ", "_")
	return ersetzer.Replace(s)
}

// WriteFile 导出入口：format为gml或zip
// SchemaLookupError在写方向是致命的内部错误，直接上抛
func (w *Writer) WriteFile(plan *Objekt, pfad string, format string) error {
	switch strings.ToLower(format) {
	case "gml":
		doc, err := w.ToDocument(plan)
		if err != nil {
			return err
		}
		doc.Indent(2)
		f, err := os.Create(pfad)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = doc.WriteTo(f)
		return err
	case "zip":
		daten, err := w.ToArchive(plan)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(pfad), os.ModePerm); err != nil {
			return err
		}
		return os.WriteFile(pfad, daten, 0644)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
