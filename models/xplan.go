package models

import (
	"gorm.io/datatypes"
)

// 规划主表，五个规划族共用，Typ区分BP_Plan/FP_Plan等
type XPPlan struct {
	UUID         string `gorm:"type:varchar(64);primary_key"`
	Typ          string `gorm:"type:varchar(64);index"`
	Name         string `gorm:"type:varchar(255)"`
	Nummer       string `gorm:"type:varchar(255)"`
	Gemeinde     string `gorm:"type:varchar(255)"`
	GemeindeUUID string `gorm:"type:varchar(64);index"`
	Rechtsstand  int
	// 全部标量属性作为JSON包存放，目录驱动的读写不需要逐列建模
	Attribute datatypes.JSON `gorm:"type:jsonb"`
	// 几何为规范化EWKB十六进制，无SRID字头
	Geom string `gorm:"type:text"`
	Srid int
	// 导入时的格式版本，导出默认沿用
	Version     int
	UpdatedDate string `gorm:"type:varchar(255)"`
}

type XPBereich struct {
	UUID      string `gorm:"type:varchar(64);primary_key"`
	Typ       string `gorm:"type:varchar(64)"`
	PlanUUID  string `gorm:"type:varchar(64);index"`
	Nummer    int
	Name      string         `gorm:"type:varchar(255)"`
	Attribute datatypes.JSON `gorm:"type:jsonb"`
	Geom      string         `gorm:"type:text"`
	Srid      int
	SortID    int64
}

// 规划内容要素，一表多型
type XPObjekt struct {
	UUID            string         `gorm:"type:varchar(64);primary_key"`
	Typ             string         `gorm:"type:varchar(64);index"`
	BereichUUID     string         `gorm:"type:varchar(64);index"`
	Attribute       datatypes.JSON `gorm:"type:jsonb"`
	Geom            string         `gorm:"type:text"`
	Srid            int
	Flaechenschluss bool
	SortID          int64
}

// 复杂用途指定卫星行，SortID保持兄弟间顺序
type XPKomplexeZweckbestimmung struct {
	UUID                string `gorm:"type:varchar(64);primary_key"`
	Typ                 string `gorm:"type:varchar(64)"`
	ObjektUUID          string `gorm:"type:varchar(64);index"`
	Allgemein           int
	TextlicheErgaenzung string `gorm:"type:varchar(255)"`
	Aufschrift          string `gorm:"type:varchar(255)"`
	SortID              int64
}

type XPExterneReferenz struct {
	UUID        string `gorm:"type:varchar(64);primary_key"`
	Typ         string `gorm:"type:varchar(64)"`
	PlanUUID    string `gorm:"type:varchar(64);index"`
	BereichUUID string `gorm:"type:varchar(64);index"`
	ObjektUUID  string `gorm:"type:varchar(64);index"`
	// 宿主对象上的关系槽名，externeReferenz/refScan/refMassnahme
	Slot             string `gorm:"type:varchar(64)"`
	Art              string `gorm:"type:varchar(255)"`
	RefTyp           int
	ReferenzName     string `gorm:"type:varchar(255)"`
	ReferenzURL      string `gorm:"type:varchar(512)"`
	ReferenzMimeType string `gorm:"type:varchar(255)"`
	Beschreibung     string `gorm:"type:varchar(255)"`
	Datum            string `gorm:"type:varchar(64)"`
	// 附件落在Download目录，库里只存相对路径
	DateiPfad string `gorm:"type:varchar(512)"`
	SortID    int64
}

type XPPraesentationsobjekt struct {
	UUID        string `gorm:"type:varchar(64);primary_key"`
	Typ         string `gorm:"type:varchar(64)"`
	BereichUUID string `gorm:"type:varchar(64);index"`
	// 被注记的规划内容要素
	DientZurDarstellungVon string         `gorm:"type:varchar(64)"`
	Attribute              datatypes.JSON `gorm:"type:jsonb"`
	Geom                   string         `gorm:"type:text"`
	Srid                   int
	SortID                 int64
}

// 行政单元跨规划共享，AGS为业务键
type XPGemeinde struct {
	UUID         string `gorm:"type:varchar(64);primary_key"`
	AGS          string `gorm:"type:varchar(64);index"`
	RS           string `gorm:"type:varchar(64)"`
	GemeindeName string `gorm:"type:varchar(255)"`
	OrtsteilName string `gorm:"type:varchar(255)"`
}

// 导入审计：一次导入的版本、对象数、警告与错误
type XPImportProtokoll struct {
	ID        int64  `gorm:"primary_key;autoIncrement"`
	PlanUUID  string `gorm:"type:varchar(64);index"`
	Dateiname string `gorm:"type:varchar(255)"`
	Version   string `gorm:"type:varchar(32)"`
	Anzahl    int
	Warnungen datatypes.JSON `gorm:"type:jsonb"`
	Fehler    datatypes.JSON `gorm:"type:jsonb"`
	Erfolg    bool
	Datum     string `gorm:"type:varchar(64)"`
}
