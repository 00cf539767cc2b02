package xplangml

// Objekt 通用的运行时要素记录
// 编解码器不直接依赖数据库模型，由服务层负责 gorm 行与 Objekt 之间的互转
// 属性值类型约定：Text=string Ganzzahl=int Dezimal=float64 Boolesch=bool
// Datum=string(ISO日期) Enum=int(编码) EnumListe=[]int TextListe=[]string Binaer=[]byte
type Objekt struct {
	UUID      string
	Typ       string
	Geometrie *Geometrie

	attribute map[string]any

	// 关系按插入顺序遍历，兄弟顺序必须往返保持
	relNamen   []string
	relationen map[string][]*Objekt
}

func NewObjekt(typ string) *Objekt {
	return &Objekt{
		Typ:        typ,
		attribute:  make(map[string]any),
		relationen: make(map[string][]*Objekt),
	}
}

func (o *Objekt) SetAttribut(name string, wert any) {
	o.attribute[name] = wert
}

// Attribut 返回属性值，第二个返回值区分"值为空"与"属性不存在"
func (o *Objekt) Attribut(name string) (any, bool) {
	w, ok := o.attribute[name]
	return w, ok
}

func (o *Objekt) DelAttribut(name string) {
	delete(o.attribute, name)
}

// Attribute 属性包的浅拷贝，服务层整包持久化时用
func (o *Objekt) Attribute() map[string]any {
	m := make(map[string]any, len(o.attribute))
	for name, wert := range o.attribute {
		m[name] = wert
	}
	return m
}

func (o *Objekt) AddRelation(name string, kind *Objekt) {
	if kind == nil {
		return
	}
	if _, ok := o.relationen[name]; !ok {
		o.relNamen = append(o.relNamen, name)
	}
	o.relationen[name] = append(o.relationen[name], kind)
}

func (o *Objekt) Relation(name string) []*Objekt {
	return o.relationen[name]
}

// RelationNamen 插入顺序的关系槽名列表
func (o *Objekt) RelationNamen() []string {
	return o.relNamen
}

// Kopie 深拷贝整个对象图
// 导出前的版本形式转换、压缩包外提都在拷贝上进行，遍历器不改动调用方的对象
func (o *Objekt) Kopie() *Objekt {
	n := NewObjekt(o.Typ)
	n.UUID = o.UUID
	if o.Geometrie != nil {
		g := *o.Geometrie
		if o.Geometrie.Roh != nil {
			g.Roh = o.Geometrie.Roh.Copy()
		}
		n.Geometrie = &g
	}
	for name, wert := range o.attribute {
		switch w := wert.(type) {
		case []int:
			n.attribute[name] = append([]int(nil), w...)
		case []string:
			n.attribute[name] = append([]string(nil), w...)
		case []byte:
			n.attribute[name] = append([]byte(nil), w...)
		default:
			n.attribute[name] = wert
		}
	}
	for _, name := range o.relNamen {
		for _, kind := range o.relationen[name] {
			n.AddRelation(name, kind.Kopie())
		}
	}
	return n
}

// Alle 深度优先遍历自身及全部子对象，交叉引用解析时用
func (o *Objekt) Alle() []*Objekt {
	result := []*Objekt{o}
	for _, name := range o.relNamen {
		for _, kind := range o.relationen[name] {
			result = append(result, kind.Alle()...)
		}
	}
	return result
}
