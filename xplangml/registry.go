package xplangml

// Wertart 属性值类别，决定编解码方式
type Wertart int

const (
	WertText Wertart = iota
	WertGanzzahl
	WertDezimal
	WertBoolesch
	WertDatum
	WertEnum
	WertEnumListe
	WertTextListe
	WertGeometrie
	WertRelation
	WertBinaer
	// WertVerweis 按gml:id引用另一对象（xlink:href），读方向二次解析
	WertVerweis
)

// EnumMitglied 枚举成员，线上编码与显示名分离
// AbVersion 为0表示所有版本均可用
type EnumMitglied struct {
	Code      int
	Name      string
	AbVersion Version
}

type EnumDef struct {
	Name       string
	Mitglieder []EnumMitglied
}

// MitgliedByCode 按线上编码查找成员
func (d *EnumDef) MitgliedByCode(code int) (*EnumMitglied, bool) {
	for i := range d.Mitglieder {
		if d.Mitglieder[i].Code == code {
			return &d.Mitglieder[i], true
		}
	}
	return nil, false
}

// MitgliedByName 按符号名查找成员，读方向兼容旧文档
func (d *EnumDef) MitgliedByName(name string) (*EnumMitglied, bool) {
	for i := range d.Mitglieder {
		if d.Mitglieder[i].Name == name {
			return &d.Mitglieder[i], true
		}
	}
	return nil, false
}

// AttributeDescriptor 单个属性的注册表描述
type AttributeDescriptor struct {
	Name string
	Art  Wertart

	// 版本范围，AbVersion为0表示自始有效，BisVersion为0表示沿用至今
	AbVersion  Version
	BisVersion Version

	// 内部字段（外键、内部标志），任何版本都不导出
	NichtExportieren bool

	Enum *EnumDef

	// Art==WertRelation 时子对象的期望类型
	RelationTyp string
}

// GueltigIn 属性在给定格式版本下是否有效
func (a *AttributeDescriptor) GueltigIn(v Version) bool {
	if a.AbVersion != 0 && v < a.AbVersion {
		return false
	}
	if a.BisVersion != 0 && v > a.BisVersion {
		return false
	}
	return true
}

// Geometrieart 能力标志：某个要素类型允许的几何形态
type Geometrieart uint8

const (
	GeomKeine   Geometrieart = 0
	GeomPunkt   Geometrieart = 1 << iota
	GeomLinie
	GeomFlaeche
	GeomGemischt = GeomPunkt | GeomLinie | GeomFlaeche
)

// Darstellung 版本相关属性的物理表示形式
type Darstellung int

const (
	DarstellungSkalar Darstellung = iota
	DarstellungRelation
)

// VersionsAufloesung 描述一个逻辑属性在不同版本下的物理形式
// 例如 zweckbestimmung 在旧版本是枚举列表，在新版本是带排序的关系行
type VersionsAufloesung struct {
	Logisch  string
	Skalar   string
	Relation string
	Form     func(Version) Darstellung
}

// Eintrag 注册表中一个具体类型的完整描述
// 源系统中数百个类继承层次在这里压平为能力标志加声明式属性表
type Eintrag struct {
	TypName string
	Familie string // BP FP LP RP SO XP

	Geometrie Geometrieart

	// 结构不变式：该类型实例永远不参与面闭合（如叠加型的BP_Wegerecht）
	ErzwingeFlaechenschlussFalsch bool
	IstPlan                       bool
	IstBereich                    bool

	Attribute []AttributeDescriptor

	// 写方向跳过的属性/关系名，防止owner回指造成无限递归
	VermeideExport []string

	Versionen []VersionsAufloesung
}

// AttributesFor 给定版本下有效的属性描述符，保持声明顺序
func (e *Eintrag) AttributesFor(v Version) []AttributeDescriptor {
	result := make([]AttributeDescriptor, 0, len(e.Attribute))
	for _, a := range e.Attribute {
		if a.GueltigIn(v) {
			result = append(result, a)
		}
	}
	return result
}

// Attribut 按名称查找描述符，不做版本过滤（读方向宽松接受）
func (e *Eintrag) Attribut(name string) (*AttributeDescriptor, bool) {
	for i := range e.Attribute {
		if e.Attribute[i].Name == name {
			return &e.Attribute[i], true
		}
	}
	return nil, false
}

// ResolveVersioned 逻辑属性名到物理属性名的版本相关解析
func (e *Eintrag) ResolveVersioned(logisch string, v Version) (string, Darstellung, bool) {
	for i := range e.Versionen {
		va := &e.Versionen[i]
		if va.Logisch != logisch {
			continue
		}
		form := va.Form(v)
		if form == DarstellungRelation {
			return va.Relation, DarstellungRelation, true
		}
		return va.Skalar, DarstellungSkalar, true
	}
	return "", 0, false
}

// Vermeidet 属性是否在导出时跳过
func (e *Eintrag) Vermeidet(name string) bool {
	for _, n := range e.VermeideExport {
		if n == name {
			return true
		}
	}
	return false
}

// Registry 只读的类型注册表，进程启动时显式构建一次
// 多个编解码调用可并发读取
type Registry struct {
	eintraege map[string]*Eintrag
}

func NewRegistry(eintraege []*Eintrag) *Registry {
	m := make(map[string]*Eintrag, len(eintraege))
	for _, e := range eintraege {
		m[e.TypName] = e
	}
	return &Registry{eintraege: m}
}

// Eintrag 按类型名查找，找不到返回SchemaLookupError
func (r *Registry) Eintrag(typName string) (*Eintrag, error) {
	if e, ok := r.eintraege[typName]; ok {
		return e, nil
	}
	return nil, &SchemaLookupError{Name: typName}
}

// ClassForTag XML局部标签名到具体类型的查找，读方向用
// 标签名与类型名在XPlanGML中一致
func (r *Registry) ClassForTag(tag string) (*Eintrag, bool) {
	e, ok := r.eintraege[tag]
	return e, ok
}

// Katalog 全局注册表实例，katalog.go中声明式构建
var Katalog = NewRegistry(katalogEintraege())
