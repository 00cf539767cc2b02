package views

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/GrainArc/XPlanMap/Transformer"
	"github.com/GrainArc/XPlanMap/config"
	"github.com/GrainArc/XPlanMap/methods"
	"github.com/GrainArc/XPlanMap/models"
	"github.com/GrainArc/XPlanMap/services"
	"github.com/GrainArc/XPlanMap/xplangml"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type XPlanController struct {
}

// neuerReader 读取器按配置装配纠偏策略
func neuerReader() *xplangml.Reader {
	r := xplangml.NewReader()
	r.DefaultSrid = config.DefaultSrid
	if config.KorrekturMethode != "keine" {
		r.Korrektur = xplangml.KorrekturOptionen{
			Aktiv:             true,
			Methode:           config.KorrekturMethode,
			Toleranz:          config.KorrekturToleranz,
			TopologieErhalten: true,
		}
	}
	return r
}

// ImportXPlan 同步导入：gml/xml/zip/rar上传，解码落库
func (xc *XPlanController) ImportXPlan(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	uploadDir := filepath.Join(config.Download, "Upload", uuid.New().String())
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	pfad := filepath.Join(uploadDir, file.Filename)
	if err := c.SaveUploadedFile(file, pfad); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	// rar先解包再找gml
	if strings.EqualFold(filepath.Ext(pfad), ".rar") {
		if err := methods.Unzip(pfad); err != nil {
			c.JSON(400, gin.H{"error": "解压失败: " + err.Error()})
			return
		}
		gmls := Transformer.FindFiles(uploadDir, "gml")
		if len(gmls) == 0 {
			c.JSON(400, gin.H{"error": "压缩包内没有gml文档"})
			return
		}
		pfad = gmls[0]
	}

	svc := services.NewPlanService()
	ctx := &xplangml.LeseKontext{QueryExisting: svc.QueryExisting}

	ergebnis, importErr := neuerReader().ReadFile(pfad, ctx)
	if ergebnis == nil || ergebnis.Plan == nil {
		c.JSON(400, gin.H{"error": fehlerText(importErr)})
		return
	}

	row, err := svc.SpeichereImport(ergebnis, file.Filename, importErr)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	antwort := gin.H{
		"uuid":      row.UUID,
		"typ":       row.Typ,
		"name":      row.Name,
		"version":   ergebnis.Version.String(),
		"anzahl":    len(ergebnis.Plan.Alle()),
		"warnungen": ergebnis.Warnungen,
	}
	if importErr != nil {
		antwort["fehler"] = fehlerListe(importErr)
		c.JSON(422, antwort)
		return
	}
	c.JSON(200, antwort)
}

func fehlerText(err error) string {
	if err == nil {
		return "document contains no plan"
	}
	return err.Error()
}

func fehlerListe(err error) []string {
	if agg, ok := err.(*xplangml.ImportFehler); ok {
		meldungen := make([]string, 0, len(agg.Fehler))
		for _, f := range agg.Fehler {
			meldungen = append(meldungen, f.Error())
		}
		return meldungen
	}
	return []string{err.Error()}
}

// ExportXPlan 导出：format为gml或zip，version缺省用导入时的版本
func (xc *XPlanController) ExportXPlan(c *gin.Context) {
	planUUID := c.Query("uuid")
	if planUUID == "" {
		c.JSON(400, gin.H{"error": "uuid不能为空"})
		return
	}
	format := c.DefaultQuery("format", "zip")

	svc := services.NewPlanService()
	plan, version, err := svc.LadePlan(planUUID)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	if v := c.Query("version"); v != "" {
		version, err = xplangml.ParseVersion(v)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
	}
	if version == 0 {
		version = xplangml.Version54
	}

	writer := xplangml.NewWriter(version)
	name := plan.UUID
	if wert, ok := plan.Attribut("name"); ok {
		if s, _ := wert.(string); s != "" {
			name = s
		}
	}

	switch strings.ToLower(format) {
	case "gml":
		doc, err := writer.ToDocument(plan)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		doc.Indent(2)
		daten, err := doc.WriteToBytes()
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.gml"`, name))
		c.Data(http.StatusOK, "application/gml+xml", daten)

	case "zip":
		daten, err := writer.ToArchive(plan)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, name))
		c.Data(http.StatusOK, "application/zip", daten)

	default:
		c.JSON(400, gin.H{"error": "不支持的导出格式: " + format})
	}
}

func (xc *XPlanController) GetPlanList(c *gin.Context) {
	svc := services.NewPlanService()
	items, err := svc.PlanListe()
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"data": items})
}

// GetPlan 单个规划的详情：主行加分区和内容条目数
func (xc *XPlanController) GetPlan(c *gin.Context) {
	planUUID := c.Query("uuid")
	if planUUID == "" {
		c.JSON(400, gin.H{"error": "uuid不能为空"})
		return
	}
	db := models.DB
	var plan models.XPPlan
	if err := db.Where("uuid = ?", planUUID).First(&plan).Error; err != nil {
		c.JSON(404, gin.H{"error": "规划不存在"})
		return
	}
	var bereichAnzahl, objektAnzahl int64
	db.Model(&models.XPBereich{}).Where("plan_uuid = ?", planUUID).Count(&bereichAnzahl)
	db.Model(&models.XPObjekt{}).
		Joins("JOIN xp_bereich ON xp_bereich.uuid = xp_objekt.bereich_uuid").
		Where("xp_bereich.plan_uuid = ?", planUUID).Count(&objektAnzahl)

	var refs []models.XPExterneReferenz
	db.Where("plan_uuid = ?", planUUID).Order("sort_id").Find(&refs)

	c.JSON(200, gin.H{
		"plan":           plan,
		"bereich_anzahl": bereichAnzahl,
		"objekt_anzahl":  objektAnzahl,
		"referenzen":     refs,
	})
}

func (xc *XPlanController) DeletePlan(c *gin.Context) {
	planUUID := c.Query("uuid")
	if planUUID == "" {
		c.JSON(400, gin.H{"error": "uuid不能为空"})
		return
	}
	svc := services.NewPlanService()
	if err := svc.LoeschePlan(planUUID); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"message": "已删除"})
}

// ShowPlanGeo 前端预览用GeoJSON
func (xc *XPlanController) ShowPlanGeo(c *gin.Context) {
	planUUID := c.Query("uuid")
	if planUUID == "" {
		c.JSON(400, gin.H{"error": "uuid不能为空"})
		return
	}
	svc := services.NewPlanService()
	fc, err := svc.PlanGeoJSON(planUUID)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, fc)
}

// GetImportProtokoll 导入审计记录
func (xc *XPlanController) GetImportProtokoll(c *gin.Context) {
	db := models.DB
	var rows []models.XPImportProtokoll
	query := db.Order("id desc").Limit(100)
	if planUUID := c.Query("uuid"); planUUID != "" {
		query = query.Where("plan_uuid = ?", planUUID)
	}
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"data": rows})
}

// ImportGeomFromShp shapefile里的几何挂到既有要素上
// 压缩包解包后取第一个shp的第一个要素
func (xc *XPlanController) ImportGeomFromShp(c *gin.Context) {
	zielUUID := c.PostForm("uuid")
	if zielUUID == "" {
		c.JSON(400, gin.H{"error": "uuid不能为空"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(400, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	uploadDir := filepath.Join(config.Download, "Upload", uuid.New().String())
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	pfad := filepath.Join(uploadDir, file.Filename)
	if err := c.SaveUploadedFile(file, pfad); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	shpPfad := pfad
	if !strings.EqualFold(filepath.Ext(pfad), ".shp") {
		if err := methods.Unzip(pfad); err != nil {
			c.JSON(400, gin.H{"error": "解压失败: " + err.Error()})
			return
		}
		shps := Transformer.FindFiles(uploadDir, "shp")
		if len(shps) == 0 {
			c.JSON(400, gin.H{"error": "压缩包内没有shp文件"})
			return
		}
		shpPfad = shps[0]
	}

	fc, crs := Transformer.ConvertSHPToGeoJSON(shpPfad)
	if fc == nil || len(fc.Features) == 0 {
		c.JSON(400, gin.H{"error": "shp文件不可读或没有要素"})
		return
	}

	srid := config.DefaultSrid
	if crs != "" {
		fmt.Sscanf(crs, "%d", &srid)
	}

	geom := &xplangml.Geometrie{Geom: fc.Features[0].Geometry, Srid: srid}
	hex, err := xplangml.EncodeWKBHex(geom)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	// 目标可能是规划、分区或内容要素，挨个表试
	db := models.DB
	for _, ziel := range []interface{}{&models.XPPlan{}, &models.XPBereich{}, &models.XPObjekt{}} {
		result := db.Model(ziel).Where("uuid = ?", zielUUID).Updates(map[string]interface{}{"geom": hex, "srid": srid})
		if result.Error == nil && result.RowsAffected > 0 {
			c.JSON(200, gin.H{"message": "几何已更新", "uuid": zielUUID, "srid": srid})
			return
		}
	}
	c.JSON(404, gin.H{"error": "目标要素不存在"})
}

// ExportPlanShp 规划要素导出为shapefile包
func (xc *XPlanController) ExportPlanShp(c *gin.Context) {
	planUUID := c.Query("uuid")
	if planUUID == "" {
		c.JSON(400, gin.H{"error": "uuid不能为空"})
		return
	}

	svc := services.NewPlanService()
	fc, err := svc.PlanGeoJSON(planUUID)
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}
	if len(fc.Features) == 0 {
		c.JSON(400, gin.H{"error": "规划没有几何要素"})
		return
	}

	outDir := filepath.Join(config.Download, "Export", planUUID)
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	Transformer.ConvertGeoJSONToSHP(fc, filepath.Join(outDir, "xplan.shp"))

	daten, err := methods.ZipFileOut(outDir)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_shp.zip"`, planUUID))
	c.Data(http.StatusOK, "application/zip", daten)
}
