package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/GrainArc/XPlanMap/Transformer"
	"github.com/GrainArc/XPlanMap/config"
	"github.com/GrainArc/XPlanMap/models"
	"github.com/GrainArc/XPlanMap/xplangml"
	"github.com/paulmach/orb/geojson"
	"gorm.io/gorm"
)

type PlanService struct {
	db *gorm.DB
}

func NewPlanService() *PlanService {
	return &PlanService{
		db: models.GetDB(),
	}
}

// PlanListItem 规划列表项
type PlanListItem struct {
	UUID     string `json:"uuid"`
	Typ      string `json:"typ"`
	Name     string `json:"name"`
	Nummer   string `json:"nummer"`
	Gemeinde string `json:"gemeinde"`
	Version  string `json:"version"`
	Datum    string `json:"datum"`
}

// SpeichereImport 导入结果落库，同UUID的旧版本整体替换
// 解码失败的导入也写协议记录，排错时能看到当时的警告和报错
func (s *PlanService) SpeichereImport(ergebnis *xplangml.LeseErgebnis, dateiname string, importErr error) (*models.XPPlan, error) {
	var row *models.XPPlan

	err := s.db.Transaction(func(tx *gorm.DB) error {
		plan := ergebnis.Plan
		if err := s.loescheRows(tx, plan.UUID); err != nil {
			return err
		}

		var err error
		row, err = s.speicherePlan(tx, plan, ergebnis.Version)
		return err
	})

	s.schreibeProtokoll(ergebnis, dateiname, importErr, err == nil)

	if err != nil {
		return nil, err
	}
	return row, nil
}

func geomHex(o *xplangml.Objekt) (string, int) {
	if o.Geometrie == nil {
		return "", 0
	}
	hex, err := xplangml.EncodeWKBHex(o.Geometrie)
	if err != nil {
		log.Printf("geometry of %s %s not storable: %v", o.Typ, o.UUID, err)
		return "", 0
	}
	// 入库前规范化，库里绝不出现带SRID字头的EWKB
	norm, err := xplangml.NormalizeWKBHex(hex)
	if err != nil {
		return hex, o.Geometrie.Srid
	}
	return norm, o.Geometrie.Srid
}

// attributeJSON 属性包整包序列化，datei负载不进库
func attributeJSON(o *xplangml.Objekt) []byte {
	bag := o.Attribute()
	delete(bag, "datei")
	data, err := json.Marshal(bag)
	if err != nil {
		log.Printf("attribute bag of %s %s: %v", o.Typ, o.UUID, err)
		return []byte("{}")
	}
	return data
}

func textAttr(o *xplangml.Objekt, name string) string {
	if wert, ok := o.Attribut(name); ok {
		if str, ok := wert.(string); ok {
			return str
		}
	}
	return ""
}

func (s *PlanService) speicherePlan(tx *gorm.DB, plan *xplangml.Objekt, version xplangml.Version) (*models.XPPlan, error) {
	hex, srid := geomHex(plan)
	row := models.XPPlan{
		UUID:        plan.UUID,
		Typ:         plan.Typ,
		Name:        textAttr(plan, "name"),
		Nummer:      textAttr(plan, "nummer"),
		Attribute:   attributeJSON(plan),
		Geom:        hex,
		Srid:        srid,
		Version:     int(version),
		UpdatedDate: time.Now().Format("2006-01-02 15:04:05"),
	}
	if wert, ok := plan.Attribut("rechtsstand"); ok {
		if code, okInt := wert.(int); okInt {
			row.Rechtsstand = code
		}
	}

	for _, gemeinde := range plan.Relation("gemeinde") {
		uuid, err := s.speichereGemeinde(tx, gemeinde)
		if err != nil {
			return nil, err
		}
		// 实务上一个规划一个辖区，取第一个进列显示
		if row.GemeindeUUID == "" {
			row.GemeindeUUID = uuid
			row.Gemeinde = textAttr(gemeinde, "gemeindeName")
		}
	}

	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}

	for i, ref := range plan.Relation("externeReferenz") {
		if err := s.speichereReferenz(tx, ref, models.XPExterneReferenz{PlanUUID: plan.UUID, Slot: "externeReferenz", SortID: int64(i)}); err != nil {
			return nil, err
		}
	}

	for i, bereich := range plan.Relation("bereich") {
		if err := s.speichereBereich(tx, bereich, plan.UUID, int64(i)); err != nil {
			return nil, err
		}
	}

	return &row, nil
}

// speichereGemeinde 行政单元按AGS去重，已有的复用
func (s *PlanService) speichereGemeinde(tx *gorm.DB, gemeinde *xplangml.Objekt) (string, error) {
	ags := textAttr(gemeinde, "ags")
	if ags != "" {
		var vorhanden models.XPGemeinde
		if err := tx.Where("ags = ?", ags).First(&vorhanden).Error; err == nil {
			return vorhanden.UUID, nil
		}
	}

	row := models.XPGemeinde{
		UUID:         gemeinde.UUID,
		AGS:          ags,
		RS:           textAttr(gemeinde, "rs"),
		GemeindeName: textAttr(gemeinde, "gemeindeName"),
		OrtsteilName: textAttr(gemeinde, "ortsteilName"),
	}
	if err := tx.Save(&row).Error; err != nil {
		return "", err
	}
	return row.UUID, nil
}

func (s *PlanService) speichereReferenz(tx *gorm.DB, ref *xplangml.Objekt, vorlage models.XPExterneReferenz) error {
	vorlage.UUID = ref.UUID
	vorlage.Typ = ref.Typ
	vorlage.Art = textAttr(ref, "art")
	vorlage.ReferenzName = textAttr(ref, "referenzName")
	vorlage.ReferenzURL = textAttr(ref, "referenzURL")
	vorlage.ReferenzMimeType = textAttr(ref, "referenzMimeType")
	vorlage.Beschreibung = textAttr(ref, "beschreibung")
	vorlage.Datum = textAttr(ref, "datum")
	if wert, ok := ref.Attribut("typ"); ok {
		if code, okInt := wert.(int); okInt {
			vorlage.RefTyp = code
		}
	}

	// 附件落盘，库里只存相对路径
	if wert, ok := ref.Attribut("datei"); ok {
		if inhalt, okBytes := wert.([]byte); okBytes && len(inhalt) > 0 {
			name := vorlage.ReferenzName
			if name == "" {
				name = "ref_" + ref.UUID
			}
			relPfad := filepath.Join("Dokumente", vorlage.PlanUUID+vorlage.BereichUUID+vorlage.ObjektUUID, name)
			vollPfad := filepath.Join(config.Download, relPfad)
			if err := os.MkdirAll(filepath.Dir(vollPfad), os.ModePerm); err != nil {
				return err
			}
			if err := os.WriteFile(vollPfad, inhalt, 0644); err != nil {
				return err
			}
			vorlage.DateiPfad = relPfad
		}
	}

	return tx.Create(&vorlage).Error
}

func (s *PlanService) speichereBereich(tx *gorm.DB, bereich *xplangml.Objekt, planUUID string, sortID int64) error {
	hex, srid := geomHex(bereich)
	row := models.XPBereich{
		UUID:      bereich.UUID,
		Typ:       bereich.Typ,
		PlanUUID:  planUUID,
		Name:      textAttr(bereich, "name"),
		Attribute: attributeJSON(bereich),
		Geom:      hex,
		Srid:      srid,
		SortID:    sortID,
	}
	if wert, ok := bereich.Attribut("nummer"); ok {
		if z, okInt := wert.(int); okInt {
			row.Nummer = z
		}
	}
	if err := tx.Create(&row).Error; err != nil {
		return err
	}

	for i, ref := range bereich.Relation("refScan") {
		if err := s.speichereReferenz(tx, ref, models.XPExterneReferenz{BereichUUID: bereich.UUID, Slot: "refScan", SortID: int64(i)}); err != nil {
			return err
		}
	}

	for i, objekt := range bereich.Relation("planinhalt") {
		if err := s.speichereObjekt(tx, objekt, bereich.UUID, int64(i)); err != nil {
			return err
		}
	}

	for i, ppo := range bereich.Relation("praesentationsobjekt") {
		hex, srid := geomHex(ppo)
		row := models.XPPraesentationsobjekt{
			UUID:                   ppo.UUID,
			Typ:                    ppo.Typ,
			BereichUUID:            bereich.UUID,
			DientZurDarstellungVon: textAttr(ppo, "dientZurDarstellungVon"),
			Attribute:              attributeJSON(ppo),
			Geom:                   hex,
			Srid:                   srid,
			SortID:                 int64(i),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}

func (s *PlanService) speichereObjekt(tx *gorm.DB, objekt *xplangml.Objekt, bereichUUID string, sortID int64) error {
	hex, srid := geomHex(objekt)
	row := models.XPObjekt{
		UUID:        objekt.UUID,
		Typ:         objekt.Typ,
		BereichUUID: bereichUUID,
		Attribute:   attributeJSON(objekt),
		Geom:        hex,
		Srid:        srid,
		SortID:      sortID,
	}
	if wert, ok := objekt.Attribut("flaechenschluss"); ok {
		if b, okBool := wert.(bool); okBool {
			row.Flaechenschluss = b
		}
	}
	if err := tx.Create(&row).Error; err != nil {
		return err
	}

	for i, zeile := range objekt.Relation("komplexeZweckbestimmung") {
		satellit := models.XPKomplexeZweckbestimmung{
			UUID:                zeile.UUID,
			Typ:                 zeile.Typ,
			ObjektUUID:          objekt.UUID,
			TextlicheErgaenzung: textAttr(zeile, "textlicheErgaenzung"),
			Aufschrift:          textAttr(zeile, "aufschrift"),
			SortID:              int64(i),
		}
		if wert, ok := zeile.Attribut("allgemein"); ok {
			if code, okInt := wert.(int); okInt {
				satellit.Allgemein = code
			}
		}
		if err := tx.Create(&satellit).Error; err != nil {
			return err
		}
	}

	for i, ref := range objekt.Relation("refMassnahme") {
		if err := s.speichereReferenz(tx, ref, models.XPExterneReferenz{ObjektUUID: objekt.UUID, Slot: "refMassnahme", SortID: int64(i)}); err != nil {
			return err
		}
	}

	return nil
}

func (s *PlanService) loescheRows(tx *gorm.DB, planUUID string) error {
	var bereichUUIDs []string
	tx.Model(&models.XPBereich{}).Where("plan_uuid = ?", planUUID).Pluck("uuid", &bereichUUIDs)

	if len(bereichUUIDs) > 0 {
		var objektUUIDs []string
		tx.Model(&models.XPObjekt{}).Where("bereich_uuid IN ?", bereichUUIDs).Pluck("uuid", &objektUUIDs)

		if len(objektUUIDs) > 0 {
			tx.Where("objekt_uuid IN ?", objektUUIDs).Delete(&models.XPKomplexeZweckbestimmung{})
			tx.Where("objekt_uuid IN ?", objektUUIDs).Delete(&models.XPExterneReferenz{})
		}
		tx.Where("bereich_uuid IN ?", bereichUUIDs).Delete(&models.XPObjekt{})
		tx.Where("bereich_uuid IN ?", bereichUUIDs).Delete(&models.XPPraesentationsobjekt{})
		tx.Where("bereich_uuid IN ?", bereichUUIDs).Delete(&models.XPExterneReferenz{})
	}

	tx.Where("plan_uuid = ?", planUUID).Delete(&models.XPExterneReferenz{})
	tx.Where("plan_uuid = ?", planUUID).Delete(&models.XPBereich{})
	return tx.Where("uuid = ?", planUUID).Delete(&models.XPPlan{}).Error
}

func (s *PlanService) schreibeProtokoll(ergebnis *xplangml.LeseErgebnis, dateiname string, importErr error, erfolg bool) {
	protokoll := models.XPImportProtokoll{
		Dateiname: dateiname,
		Erfolg:    erfolg && importErr == nil,
		Datum:     time.Now().Format("2006-01-02 15:04:05"),
	}
	if ergebnis != nil {
		if ergebnis.Plan != nil {
			protokoll.PlanUUID = ergebnis.Plan.UUID
			protokoll.Anzahl = len(ergebnis.Plan.Alle())
		}
		protokoll.Version = ergebnis.Version.String()
		if data, err := json.Marshal(ergebnis.Warnungen); err == nil {
			protokoll.Warnungen = data
		}
	}
	if importErr != nil {
		var meldungen []string
		if agg, ok := importErr.(*xplangml.ImportFehler); ok {
			for _, f := range agg.Fehler {
				meldungen = append(meldungen, f.Error())
			}
		} else {
			meldungen = append(meldungen, importErr.Error())
		}
		if data, err := json.Marshal(meldungen); err == nil {
			protokoll.Fehler = data
		}
	}

	if err := s.db.Create(&protokoll).Error; err != nil {
		log.Printf("Failed to write import protocol: %v", err)
	}
}

// QueryExisting 导入时的跨文档去重回调，目前只对行政单元生效
func (s *PlanService) QueryExisting(kandidat *xplangml.Objekt) *xplangml.Objekt {
	if kandidat.Typ != "XP_Gemeinde" {
		return nil
	}
	ags := textAttr(kandidat, "ags")
	if ags == "" {
		return nil
	}
	var row models.XPGemeinde
	if err := s.db.Where("ags = ?", ags).First(&row).Error; err != nil {
		return nil
	}
	return gemeindeObjekt(&row)
}

func gemeindeObjekt(row *models.XPGemeinde) *xplangml.Objekt {
	o := xplangml.NewObjekt("XP_Gemeinde")
	o.UUID = row.UUID
	if row.AGS != "" {
		o.SetAttribut("ags", row.AGS)
	}
	if row.RS != "" {
		o.SetAttribut("rs", row.RS)
	}
	if row.GemeindeName != "" {
		o.SetAttribut("gemeindeName", row.GemeindeName)
	}
	if row.OrtsteilName != "" {
		o.SetAttribut("ortsteilName", row.OrtsteilName)
	}
	return o
}

// LadePlan 从表行重建对象图，兄弟顺序按SortID
func (s *PlanService) LadePlan(planUUID string) (*xplangml.Objekt, xplangml.Version, error) {
	var row models.XPPlan
	if err := s.db.Where("uuid = ?", planUUID).First(&row).Error; err != nil {
		return nil, 0, fmt.Errorf("plan %s: %w", planUUID, err)
	}

	plan := baueObjekt(row.Typ, row.UUID, row.Attribute, row.Geom, row.Srid)

	if row.GemeindeUUID != "" {
		var gemeinde models.XPGemeinde
		if err := s.db.Where("uuid = ?", row.GemeindeUUID).First(&gemeinde).Error; err == nil {
			plan.AddRelation("gemeinde", gemeindeObjekt(&gemeinde))
		}
	}

	if err := s.ladeReferenzen(plan, "plan_uuid", planUUID, "externeReferenz"); err != nil {
		return nil, 0, err
	}

	var bereiche []models.XPBereich
	s.db.Where("plan_uuid = ?", planUUID).Order("sort_id").Find(&bereiche)
	for i := range bereiche {
		bereich, err := s.ladeBereich(&bereiche[i])
		if err != nil {
			return nil, 0, err
		}
		plan.AddRelation("bereich", bereich)
	}

	return plan, xplangml.Version(row.Version), nil
}

func (s *PlanService) ladeBereich(row *models.XPBereich) (*xplangml.Objekt, error) {
	bereich := baueObjekt(row.Typ, row.UUID, row.Attribute, row.Geom, row.Srid)

	if err := s.ladeReferenzen(bereich, "bereich_uuid", row.UUID, "refScan"); err != nil {
		return nil, err
	}

	var objekte []models.XPObjekt
	s.db.Where("bereich_uuid = ?", row.UUID).Order("sort_id").Find(&objekte)
	for i := range objekte {
		objekt, err := s.ladeObjekt(&objekte[i])
		if err != nil {
			return nil, err
		}
		bereich.AddRelation("planinhalt", objekt)
	}

	var ppos []models.XPPraesentationsobjekt
	s.db.Where("bereich_uuid = ?", row.UUID).Order("sort_id").Find(&ppos)
	for i := range ppos {
		ppo := baueObjekt(ppos[i].Typ, ppos[i].UUID, ppos[i].Attribute, ppos[i].Geom, ppos[i].Srid)
		if ppos[i].DientZurDarstellungVon != "" {
			ppo.SetAttribut("dientZurDarstellungVon", ppos[i].DientZurDarstellungVon)
		}
		bereich.AddRelation("praesentationsobjekt", ppo)
	}

	return bereich, nil
}

func (s *PlanService) ladeObjekt(row *models.XPObjekt) (*xplangml.Objekt, error) {
	objekt := baueObjekt(row.Typ, row.UUID, row.Attribute, row.Geom, row.Srid)

	var satelliten []models.XPKomplexeZweckbestimmung
	s.db.Where("objekt_uuid = ?", row.UUID).Order("sort_id").Find(&satelliten)
	for i := range satelliten {
		zeile := xplangml.NewObjekt(satelliten[i].Typ)
		zeile.UUID = satelliten[i].UUID
		zeile.SetAttribut("allgemein", satelliten[i].Allgemein)
		if satelliten[i].TextlicheErgaenzung != "" {
			zeile.SetAttribut("textlicheErgaenzung", satelliten[i].TextlicheErgaenzung)
		}
		if satelliten[i].Aufschrift != "" {
			zeile.SetAttribut("aufschrift", satelliten[i].Aufschrift)
		}
		objekt.AddRelation("komplexeZweckbestimmung", zeile)
	}

	if err := s.ladeReferenzen(objekt, "objekt_uuid", row.UUID, "refMassnahme"); err != nil {
		return nil, err
	}

	return objekt, nil
}

func (s *PlanService) ladeReferenzen(wirt *xplangml.Objekt, spalte string, uuid string, slot string) error {
	var refs []models.XPExterneReferenz
	s.db.Where(spalte+" = ? AND slot = ?", uuid, slot).Order("sort_id").Find(&refs)
	for i := range refs {
		wirt.AddRelation(slot, referenzObjekt(&refs[i]))
	}
	return nil
}

func referenzObjekt(row *models.XPExterneReferenz) *xplangml.Objekt {
	ref := xplangml.NewObjekt(row.Typ)
	ref.UUID = row.UUID
	if row.Art != "" {
		ref.SetAttribut("art", row.Art)
	}
	if row.RefTyp != 0 {
		ref.SetAttribut("typ", row.RefTyp)
	}
	if row.ReferenzName != "" {
		ref.SetAttribut("referenzName", row.ReferenzName)
	}
	if row.ReferenzURL != "" {
		ref.SetAttribut("referenzURL", row.ReferenzURL)
	}
	if row.ReferenzMimeType != "" {
		ref.SetAttribut("referenzMimeType", row.ReferenzMimeType)
	}
	if row.Beschreibung != "" {
		ref.SetAttribut("beschreibung", row.Beschreibung)
	}
	if row.Datum != "" {
		ref.SetAttribut("datum", row.Datum)
	}
	if row.DateiPfad != "" {
		inhalt, err := os.ReadFile(filepath.Join(config.Download, row.DateiPfad))
		if err != nil {
			log.Printf("attached file of %s missing: %v", row.UUID, err)
		} else {
			ref.SetAttribut("datei", inhalt)
		}
	}
	return ref
}

// baueObjekt 表行到运行时对象的公共部分：属性包、几何
func baueObjekt(typ string, uuid string, attribute []byte, geomHex string, srid int) *xplangml.Objekt {
	o := xplangml.NewObjekt(typ)
	o.UUID = uuid

	if len(attribute) > 0 {
		var bag map[string]any
		if err := json.Unmarshal(attribute, &bag); err == nil {
			for name, wert := range bag {
				o.SetAttribut(name, wert)
			}
		}
	}

	if geomHex != "" {
		geom, err := xplangml.DecodeWKBHex(geomHex, srid)
		if err != nil {
			log.Printf("stored geometry of %s %s unreadable: %v", typ, uuid, err)
		} else {
			o.Geometrie = geom
		}
	}

	return o
}

func (s *PlanService) PlanListe() ([]PlanListItem, error) {
	var rows []models.XPPlan
	if err := s.db.Order("updated_date desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]PlanListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, PlanListItem{
			UUID:     row.UUID,
			Typ:      row.Typ,
			Name:     row.Name,
			Nummer:   row.Nummer,
			Gemeinde: row.Gemeinde,
			Version:  xplangml.Version(row.Version).String(),
			Datum:    row.UpdatedDate,
		})
	}
	return items, nil
}

func (s *PlanService) LoeschePlan(planUUID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.loescheRows(tx, planUUID)
	})
}

// PlanGeoJSON 前端预览用的要素集合，尽量转成WGS84
func (s *PlanService) PlanGeoJSON(planUUID string) (*geojson.FeatureCollection, error) {
	var row models.XPPlan
	if err := s.db.Where("uuid = ?", planUUID).First(&row).Error; err != nil {
		return nil, fmt.Errorf("plan %s: %w", planUUID, err)
	}

	fc := geojson.NewFeatureCollection()
	srid := row.Srid

	anhaengen := func(typ string, uuid string, geomStr string, geomSrid int, name string) {
		if geomStr == "" {
			return
		}
		geom, err := xplangml.DecodeWKBHex(geomStr, geomSrid)
		if err != nil || geom.Geom == nil {
			return
		}
		feature := geojson.NewFeature(geom.Geom)
		feature.Properties = map[string]interface{}{
			"uuid": uuid,
			"typ":  typ,
			"name": name,
		}
		fc.Append(feature)
		if srid == 0 {
			srid = geomSrid
		}
	}

	anhaengen(row.Typ, row.UUID, row.Geom, row.Srid, row.Name)

	var bereiche []models.XPBereich
	s.db.Where("plan_uuid = ?", planUUID).Order("sort_id").Find(&bereiche)
	for _, bereich := range bereiche {
		anhaengen(bereich.Typ, bereich.UUID, bereich.Geom, bereich.Srid, bereich.Name)

		var objekte []models.XPObjekt
		s.db.Where("bereich_uuid = ?", bereich.UUID).Order("sort_id").Find(&objekte)
		for _, objekt := range objekte {
			anhaengen(objekt.Typ, objekt.UUID, objekt.Geom, objekt.Srid, "")
		}
	}

	if len(fc.Features) == 0 {
		return fc, nil
	}
	if srid != 0 && srid != 4326 {
		return Transformer.GeoJsonTransformTo4326(fc, strconv.Itoa(srid))
	}
	return fc, nil
}
