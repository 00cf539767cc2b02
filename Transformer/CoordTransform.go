package Transformer

import (
	"encoding/json"
	"fmt"

	"github.com/GrainArc/XPlanMap/models"
	"github.com/paulmach/orb/geojson"
)

type ConvertedPoint struct {
	Lat float64
	Lng float64
}

// CoordTransformAToB 单点坐标系转换，走PostGIS的ST_Transform
func CoordTransformAToB(x float64, y float64, A string, B string) (x1, y1 float64) {
	var point ConvertedPoint
	sql := fmt.Sprintf("SELECT ST_Y(ST_Transform(ST_SetSRID(ST_Point(?, ?), %s), %s)) AS lat,ST_X(ST_Transform(ST_SetSRID(ST_Point(?, ?), %s), %s)) AS lng", A, B, A, B)
	db := models.DB
	db.Raw(sql, x, y, x, y).Scan(&point)
	return point.Lng, point.Lat
}

func GetGeometryString(original *geojson.Feature) string {
	originalJSON, _ := json.Marshal(original)

	var feature struct {
		Geometry map[string]interface{} `json:"geometry"`
	}
	json.Unmarshal(originalJSON, &feature)
	data, _ := json.Marshal(feature.Geometry)
	return string(data)
}

type GeometryData struct {
	GeoJSON []byte `gorm:"column:geojson"`
}

// GeoJsonTransformTo4326 前端预览要WGS84，UTM或Gauss-Krüger的规划逐要素转换
// 无PostGIS时查询失败，要素保持原坐标返回
func GeoJsonTransformTo4326(original *geojson.FeatureCollection, EPSG string) (*geojson.FeatureCollection, error) {
	db := models.DB
	for i, item := range original.Features {
		originalJSON := GetGeometryString(item)

		sql := fmt.Sprintf(`SELECT ST_AsGeoJSON(ST_Transform(ST_SetSRID(ST_GeomFromGeoJSON(?), %s), 4326)) as geojson;`, EPSG)
		var geomData GeometryData
		if err := db.Raw(sql, originalJSON).Scan(&geomData).Error; err == nil && len(geomData.GeoJSON) > 0 {
			data, _ := json.Marshal(item)
			var feature struct {
				Geometry   map[string]interface{} `json:"geometry"`
				Properties map[string]interface{} `json:"properties"`
				Type       string                 `json:"type"`
			}
			json.Unmarshal(data, &feature)
			json.Unmarshal(geomData.GeoJSON, &feature.Geometry)
			data2, _ := json.Marshal(feature)
			json.Unmarshal(data2, &original.Features[i])
		}
	}

	return original, nil
}
