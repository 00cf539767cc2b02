package xplangml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// schreibLauf 一次导出过程的遍历状态
type schreibLauf struct {
	reg     *Registry
	version Version
	prefix  string
}

// gmlID 对象UUID到gml:id的约定格式
func gmlID(uuidStr string) string {
	return "GML_" + uuidStr
}

func uuidAusGmlID(id string) string {
	return strings.TrimPrefix(id, "GML_")
}

// serialisiere 按注册表声明顺序把对象写成命名空间化的XML子树
// 写方向严格：类型无注册表条目直接报错（属于内部错误）
func (l *schreibLauf) serialisiere(o *Objekt, eltern *etree.Element) error {
	eintrag, err := l.reg.Eintrag(o.Typ)
	if err != nil {
		return err
	}

	angleichenDarstellung(o, eintrag, l.version)

	el := eltern.CreateElement(l.prefix + ":" + o.Typ)
	if o.UUID != "" {
		el.CreateAttr("gml:id", gmlID(o.UUID))
	}

	for _, a := range eintrag.AttributesFor(l.version) {
		if a.NichtExportieren || eintrag.Vermeidet(a.Name) {
			continue
		}

		switch a.Art {
		case WertGeometrie:
			if o.Geometrie == nil {
				continue
			}
			geomEl, err := EncodeGML(o.Geometrie)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", o.Typ, a.Name, err)
			}
			el.CreateElement(l.prefix + ":" + a.Name).AddChild(geomEl)

		case WertRelation:
			for _, kind := range o.Relation(a.Name) {
				wrapper := el.CreateElement(l.prefix + ":" + a.Name)
				if err := l.serialisiere(kind, wrapper); err != nil {
					return err
				}
			}

		case WertVerweis:
			wert, ok := o.Attribut(a.Name)
			if !ok {
				continue
			}
			ziel, _ := wert.(string)
			if ziel == "" {
				continue
			}
			ref := el.CreateElement(l.prefix + ":" + a.Name)
			ref.CreateAttr("xlink:href", "#"+gmlID(ziel))

		case WertEnumListe, WertTextListe:
			wert, ok := o.Attribut(a.Name)
			if !ok {
				continue
			}
			if err := l.serialisiereListe(el, o.Typ, &a, wert); err != nil {
				return err
			}

		default:
			wert, ok := o.Attribut(a.Name)
			if !ok || wert == nil {
				continue
			}
			text, schreibe, err := encodeWert(&a, o.Typ, wert, l.version)
			if err != nil {
				return err
			}
			if schreibe {
				el.CreateElement(l.prefix + ":" + a.Name).SetText(text)
			}
		}
	}
	return nil
}

// serialisiereListe 数组编码为同名重复元素
// 显式空数组与属性缺失必须可区分：空数组写一个xsi:nil元素
func (l *schreibLauf) serialisiereListe(el *etree.Element, typName string, a *AttributeDescriptor, wert any) error {
	var texte []string
	switch liste := wert.(type) {
	case []int:
		for _, code := range liste {
			t, schreibe, err := encodeWert(a, typName, code, l.version)
			if err != nil {
				return err
			}
			if schreibe {
				texte = append(texte, t)
			}
		}
	case []string:
		texte = append(texte, liste...)
	case []any:
		for _, w := range liste {
			t, schreibe, err := encodeWert(a, typName, w, l.version)
			if err != nil {
				return err
			}
			if schreibe {
				texte = append(texte, t)
			}
		}
	default:
		return fmt.Errorf("%s.%s: expected list, got %T", typName, a.Name, wert)
	}

	if len(texte) == 0 {
		leer := el.CreateElement(l.prefix + ":" + a.Name)
		leer.CreateAttr("xsi:nil", "true")
		return nil
	}
	for _, t := range texte {
		el.CreateElement(l.prefix + ":" + a.Name).SetText(t)
	}
	return nil
}

// angleichenDarstellung 版本相关属性在导出前统一到目标版本的物理形式
// 旧式标量枚举列表与新式关系行按版本谓词互转
func angleichenDarstellung(o *Objekt, eintrag *Eintrag, v Version) {
	for i := range eintrag.Versionen {
		va := &eintrag.Versionen[i]
		form := va.Form(v)

		if form == DarstellungRelation {
			// 标量值迁移为卫星关系行
			wert, ok := o.Attribut(va.Skalar)
			if !ok {
				continue
			}
			relDesc, okRel := eintrag.Attribut(va.Relation)
			if okRel && len(o.Relation(va.Relation)) == 0 {
				// JSON反序列化的属性包里列表是[]any，和serialisiereListe一样兼容
				var codes []int
				switch liste := wert.(type) {
				case []int:
					codes = liste
				case []any:
					for _, w := range liste {
						if z, ok := toInt(w); ok {
							codes = append(codes, z)
						}
					}
				}
				for i, code := range codes {
					kind := NewObjekt(relDesc.RelationTyp)
					// 合成行的UUID从宿主推导，保证重复导出字节结构一致
					kind.UUID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/%s/%d", o.UUID, va.Relation, i))).String()
					kind.SetAttribut("allgemein", code)
					o.AddRelation(va.Relation, kind)
				}
			}
			o.DelAttribut(va.Skalar)
		} else {
			// 关系行压平为标量编码列表
			kinder := o.Relation(va.Relation)
			if len(kinder) == 0 {
				continue
			}
			if _, ok := o.Attribut(va.Skalar); !ok {
				codes := make([]int, 0, len(kinder))
				for _, kind := range kinder {
					if code, ok := kind.Attribut("allgemein"); ok {
						if z, ok := toInt(code); ok {
							codes = append(codes, z)
						}
					}
				}
				o.SetAttribut(va.Skalar, codes)
			}
			delete(o.relationen, va.Relation)
			for j, n := range o.relNamen {
				if n == va.Relation {
					o.relNamen = append(o.relNamen[:j], o.relNamen[j+1:]...)
					break
				}
			}
		}
	}
}

// leseLauf 一次导入过程的遍历状态，对象级错误收集不中断
type leseLauf struct {
	reg       *Registry
	version   Version
	warnungen []string
	fehler    []error
	korrektur KorrekturOptionen
	srid      int
	melden    func()
}

func (l *leseLauf) warne(format string, args ...any) {
	l.warnungen = append(l.warnungen, fmt.Sprintf(format, args...))
}

func (l *leseLauf) sammleFehler(err error) {
	l.fehler = append(l.fehler, err)
}

// deserialisiere 按标签查注册表构造对象并递归读取子元素
// 未知标签记录警告返回nil，调用方跳过该元素
func (l *leseLauf) deserialisiere(el *etree.Element) *Objekt {
	eintrag, ok := l.reg.ClassForTag(el.Tag)
	if !ok {
		l.warne("unknown element <%s> skipped", el.Tag)
		return nil
	}
	if l.melden != nil {
		l.melden()
	}

	o := NewObjekt(eintrag.TypName)
	if id := el.SelectAttrValue("gml:id", ""); id != "" {
		o.UUID = uuidAusGmlID(id)
	} else if id := el.SelectAttrValue("id", ""); id != "" {
		o.UUID = uuidAusGmlID(id)
	} else {
		o.UUID = uuid.NewString()
	}

	for _, kind := range el.ChildElements() {
		l.leseAttribut(o, eintrag, kind)
	}

	l.erzwingeInvarianten(o, eintrag)
	return o
}

// leseAttribut 单个属性元素的读取，失败进入错误列表不中断
func (l *leseLauf) leseAttribut(o *Objekt, eintrag *Eintrag, kind *etree.Element) {
	a, ok := eintrag.Attribut(kind.Tag)
	if !ok {
		l.warne("%s: unknown attribute element <%s> ignored", eintrag.TypName, kind.Tag)
		return
	}
	// 目标版本尚未引入的属性不填充，即使文档里冒出同名元素
	if a.AbVersion != 0 && l.version < a.AbVersion {
		l.warne("%s.%s: not valid before version %s, ignored", eintrag.TypName, a.Name, a.AbVersion)
		return
	}

	switch a.Art {
	case WertGeometrie:
		for _, g := range kind.ChildElements() {
			if !IstGeometrieElement(g) {
				continue
			}
			geom, err := DecodeGML(g, l.srid)
			if err != nil {
				l.sammleFehler(fmt.Errorf("%s.%s: %w", eintrag.TypName, a.Name, err))
				return
			}
			o.Geometrie = l.korrektur.Korrigiere(geom)
			return
		}

	case WertRelation:
		for _, sub := range kind.ChildElements() {
			subObjekt := l.deserialisiere(sub)
			if subObjekt == nil {
				continue
			}
			if a.RelationTyp != "" && subObjekt.Typ != a.RelationTyp {
				l.warne("%s.%s: expected %s, got %s", eintrag.TypName, a.Name, a.RelationTyp, subObjekt.Typ)
			}
			o.AddRelation(a.Name, subObjekt)
		}

	case WertVerweis:
		href := kind.SelectAttrValue("xlink:href", kind.SelectAttrValue("href", ""))
		if href == "" {
			href = strings.TrimSpace(kind.Text())
		}
		ziel := uuidAusGmlID(strings.TrimPrefix(href, "#"))
		if ziel != "" {
			o.SetAttribut(a.Name, ziel)
		}

	case WertEnumListe, WertTextListe:
		if kind.SelectAttrValue("xsi:nil", "") == "true" {
			// 显式空数组
			if _, ok := o.Attribut(a.Name); !ok {
				if a.Art == WertEnumListe {
					o.SetAttribut(a.Name, []int{})
				} else {
					o.SetAttribut(a.Name, []string{})
				}
			}
			return
		}
		wert, err := decodeWert(a, eintrag.TypName, kind.Text())
		if err != nil {
			l.sammleFehler(err)
			return
		}
		if a.Art == WertEnumListe {
			liste, _ := o.attribute[a.Name].([]int)
			o.SetAttribut(a.Name, append(liste, wert.(int)))
		} else {
			liste, _ := o.attribute[a.Name].([]string)
			o.SetAttribut(a.Name, append(liste, wert.(string)))
		}

	default:
		wert, err := decodeWert(a, eintrag.TypName, kind.Text())
		if err != nil {
			l.sammleFehler(err)
			return
		}
		o.SetAttribut(a.Name, wert)
	}
}

// erzwingeInvarianten 类型级结构不变式
// 叠加型要素（如BP_Wegerecht）无论文档内容如何flaechenschluss强制为false
func (l *leseLauf) erzwingeInvarianten(o *Objekt, eintrag *Eintrag) {
	if eintrag.ErzwingeFlaechenschlussFalsch {
		if _, ok := eintrag.Attribut("flaechenschluss"); ok {
			o.SetAttribut("flaechenschluss", false)
		}
	}
}
