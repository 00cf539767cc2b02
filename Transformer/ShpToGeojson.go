package Transformer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gitee.com/LJ_COOL/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func SplitPoints(points []shp.Point, parts []int32) [][]shp.Point {
	var polygons [][]shp.Point
	for i, partIndex := range parts {
		start := partIndex
		var end int32
		if i < len(parts)-1 {
			end = parts[i+1]
		} else {
			end = int32(len(points))
		}
		polygon := points[start:end]
		polygons = append(polygons, polygon)
	}
	return polygons
}

func IsClockwise(points []orb.Point) bool {
	sum := 0.0
	for i := 0; i < len(points)-1; i++ {
		p1 := points[i]
		p2 := points[i+1]
		sum += (p2[0] - p1[0]) * (p2[1] + p1[1])
	}
	return sum > 0
}

// splitParts 按外环(顺时针)把环索引分组，外环加后续内环构成一个多边形
func splitParts(parts []int32, dounts []bool) [][]int32 {
	var result [][]int32
	var currentGroup []int32
	groupStarted := false
	for i, part := range parts {
		if dounts[i] {
			if groupStarted {
				result = append(result, currentGroup)
				currentGroup = []int32{part}
			} else {
				currentGroup = []int32{part}
				groupStarted = true
			}
		} else {
			if groupStarted {
				currentGroup = append(currentGroup, part)
			}
		}
	}
	if len(currentGroup) > 0 {
		result = append(result, currentGroup)
	}
	return result
}

func createIndexSlice(n int32) []int32 {
	indexSlice := make([]int32, 0, n)
	for i := int32(0); i < n; i++ {
		indexSlice = append(indexSlice, i)
	}
	return indexSlice
}

// ConvertSHPToGeoJSON shapefile转GeoJSON，返回要素集合与探测到的坐标系
func ConvertSHPToGeoJSON(shpfileFilePath string) (*geojson.FeatureCollection, string) {
	shape, err := shp.Open(shpfileFilePath)
	if err != nil {
		return nil, ""
	}
	defer shape.Close()

	featureCollection := geojson.NewFeatureCollection()
	fields := shape.Fields()
	encoding := readCPGEncoding(shpfileFilePath)

	detectedCRS := make(map[string]bool)

	for shape.Next() {
		n, p := shape.Shape()

		switch s := p.(type) {
		case *shp.Point:
			featureCollection.Append(processPointGeometry(s.X, s.Y, n, shape, fields, encoding, detectedCRS))
		case *shp.PointZ:
			featureCollection.Append(processPointGeometry(s.X, s.Y, n, shape, fields, encoding, detectedCRS))
		case *shp.PointM:
			featureCollection.Append(processPointGeometry(s.X, s.Y, n, shape, fields, encoding, detectedCRS))
		case *shp.PolyLine:
			featureCollection.Append(processPolyLineGeometry(s.Points, n, shape, fields, encoding, detectedCRS))
		case *shp.PolyLineZ:
			featureCollection.Append(processPolyLineGeometry(s.Points, n, shape, fields, encoding, detectedCRS))
		case *shp.PolyLineM:
			featureCollection.Append(processPolyLineGeometry(s.Points, n, shape, fields, encoding, detectedCRS))
		case *shp.Polygon:
			featureCollection.Append(processPolygonGeometry(s.Points, s.Parts, n, shape, fields, encoding, detectedCRS))
		case *shp.PolygonZ:
			featureCollection.Append(processPolygonGeometry(s.Points, s.Parts, n, shape, fields, encoding, detectedCRS))
		case *shp.PolygonM:
			featureCollection.Append(processPolygonGeometry(s.Points, s.Parts, n, shape, fields, encoding, detectedCRS))
		}
	}

	return featureCollection, selectCRS(detectedCRS)
}

// readCPGEncoding 读取CPG文件获取字符编码，德国老数据默认ISO-8859-1
func readCPGEncoding(shpfilePath string) string {
	dir := filepath.Dir(shpfilePath)
	base := filepath.Base(shpfilePath)
	newBase := strings.TrimSuffix(base, filepath.Ext(base)) + ".cpg"
	cpgPath := filepath.Join(dir, newBase)

	cpgContent, err := os.ReadFile(cpgPath)
	if err != nil {
		return "ISO-8859-1"
	}
	return strings.TrimSpace(string(cpgContent))
}

// detectCRS 按X坐标范围猜坐标系
// 德国常见：4326经纬度，25832/25833 UTM32/33，31466-31468带号Gauss-Krüger
func detectCRS(x float64) string {
	switch {
	case x > -180 && x <= 180:
		return "4326"
	case x >= 100000 && x < 1000000:
		return "25832"
	case x >= 2400000 && x < 2700000:
		return "31466"
	case x >= 3300000 && x < 3700000:
		return "31467"
	case x >= 4200000 && x < 4700000:
		return "31468"
	default:
		return ""
	}
}

func buildAttributes(n int, shape *shp.Reader, fields []shp.Field, encoding string) map[string]interface{} {
	attrs := make(map[string]interface{})

	for k, f := range fields {
		attrValue := shape.ReadAttribute(n, k)

		if strings.EqualFold(encoding, "ISO-8859-1") || strings.EqualFold(encoding, "88591") {
			attrs[Latin1ToUtf8(f.String())] = Latin1ToUtf8(attrValue)
		} else {
			attrs[f.String()] = attrValue
		}
	}

	if len(fields) == 0 {
		attrs["attribute"] = "null"
	}

	return attrs
}

func processPointGeometry(x, y float64, n int, shape *shp.Reader, fields []shp.Field, encoding string, detectedCRS map[string]bool) *geojson.Feature {
	if crs := detectCRS(x); crs != "" {
		detectedCRS[crs] = true
	}

	feature := geojson.NewFeature(orb.Point{x, y})
	feature.Properties = buildAttributes(n, shape, fields, encoding)
	return feature
}

func processPolyLineGeometry(points []shp.Point, n int, shape *shp.Reader, fields []shp.Field, encoding string, detectedCRS map[string]bool) *geojson.Feature {
	coords := make([]orb.Point, len(points))
	for i, vertex := range points {
		if crs := detectCRS(vertex.X); crs != "" {
			detectedCRS[crs] = true
		}
		coords[i] = orb.Point{vertex.X, vertex.Y}
	}

	feature := geojson.NewFeature(orb.LineString(coords))
	feature.Properties = buildAttributes(n, shape, fields, encoding)
	return feature
}

func processPolygonGeometry(points []shp.Point, parts []int32, n int, shape *shp.Reader, fields []shp.Field, encoding string, detectedCRS map[string]bool) *geojson.Feature {
	var multiPolygons orb.MultiPolygon

	polygons := SplitPoints(points, parts)

	dounts := make([]bool, len(polygons))
	for i, part := range polygons {
		orbPoints := make([]orb.Point, len(part))
		for j, point := range part {
			orbPoints[j] = orb.Point{point.X, point.Y}
		}
		dounts[i] = IsClockwise(orbPoints)
	}

	polygonsIndex := createIndexSlice(int32(len(polygons)))
	newParts := splitParts(polygonsIndex, dounts)

	for _, item := range newParts {
		var rings []orb.Ring

		for _, i := range item {
			coords := make([]orb.Point, len(polygons[i]))
			for j, vertex := range polygons[i] {
				if crs := detectCRS(vertex.X); crs != "" {
					detectedCRS[crs] = true
				}
				coords[j] = orb.Point{vertex.X, vertex.Y}
			}
			rings = append(rings, orb.Ring(coords))
		}

		multiPolygons = append(multiPolygons, orb.Polygon(rings))
	}

	feature := geojson.NewFeature(multiPolygons)
	feature.Properties = buildAttributes(n, shape, fields, encoding)
	return feature
}

func selectCRS(detectedCRS map[string]bool) string {
	priority := []string{"25832", "31466", "31467", "31468", "4326"}

	for _, crs := range priority {
		if detectedCRS[crs] {
			return crs
		}
	}

	return ""
}

func createCpgFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("无法创建文件: %v", err)
	}
	defer file.Close()

	_, err = file.WriteString("UTF-8")
	if err != nil {
		return fmt.Errorf("写入文件失败: %v", err)
	}

	return nil
}

func createPrjFile(prjFilePath string) error {
	// ETRS89 / UTM zone 32N
	prjContent := `PROJCS["ETRS89_UTM_zone_32N",GEOGCS["GCS_ETRS_1989",DATUM["D_ETRS_1989",SPHEROID["GRS_1980",6378137.0,298.257222101]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]],PROJECTION["Transverse_Mercator"],PARAMETER["False_Easting",500000.0],PARAMETER["False_Northing",0.0],PARAMETER["Central_Meridian",9.0],PARAMETER["Scale_Factor",0.9996],PARAMETER["Latitude_Of_Origin",0.0],UNIT["Meter",1.0]]`

	file, err := os.Create(prjFilePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(prjContent)
	return err
}

type ShapeData struct {
	Shape      shp.Shape
	Attributes map[string]string
	GeomType   string // "point", "line", "polygon"
}

// ConvertGeoJSONToSHP 规划要素按几何类型分成点线面三个shapefile写出
func ConvertGeoJSONToSHP(GeoData *geojson.FeatureCollection, shpfileFilePath string) {
	fileName := filepath.Base(shpfileFilePath)
	rootName := fileName[0 : len(fileName)-len(filepath.Ext(fileName))]
	dirPath := filepath.Dir(shpfileFilePath)

	shpfileFilePath_point := filepath.Join(dirPath, rootName) + "_punkt.shp"
	shpfileFilePath_polygon := filepath.Join(dirPath, rootName) + "_flaeche.shp"
	shpfileFilePath_line := filepath.Join(dirPath, rootName) + "_linie.shp"

	shpFile_polygon, _ := shp.Create(shpfileFilePath_polygon, shp.POLYGON)
	shpFile_line, _ := shp.Create(shpfileFilePath_line, shp.POLYLINE)
	shpFile_point, _ := shp.Create(shpfileFilePath_point, shp.POINT)

	createCpgFile(filepath.Join(dirPath, rootName) + "_punkt.cpg")
	createCpgFile(filepath.Join(dirPath, rootName) + "_flaeche.cpg")
	createCpgFile(filepath.Join(dirPath, rootName) + "_linie.cpg")

	createPrjFile(filepath.Join(dirPath, rootName) + "_punkt.prj")
	createPrjFile(filepath.Join(dirPath, rootName) + "_flaeche.prj")
	createPrjFile(filepath.Join(dirPath, rootName) + "_linie.prj")

	var fields []shp.Field
	Properties := GeoData.Features[0].Properties

	var FieldMAP = make(map[string]int)
	i := 0
	for key := range Properties {
		fields = append(fields, shp.StringField([]byte(key), 120))
		FieldMAP[key] = i
		i += 1
	}

	shpFile_polygon.SetFields(fields)
	shpFile_line.SetFields(fields)
	shpFile_point.SetFields(fields)

	defer shpFile_polygon.Close()
	defer shpFile_line.Close()
	defer shpFile_point.Close()

	// 并发转要素，串行写文件
	const concurrency = 10
	featureCount := len(GeoData.Features)

	featureChan := make(chan *geojson.Feature, featureCount)
	resultChan := make(chan []ShapeData, concurrency)
	var wg sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var localResults []ShapeData

			for feature := range featureChan {
				if feature.Geometry != nil {
					localResults = append(localResults, processFeature(feature)...)
				}
			}

			if len(localResults) > 0 {
				resultChan <- localResults
			}
		}()
	}

	go func() {
		for _, feature := range GeoData.Features {
			featureChan <- feature
		}
		close(featureChan)
	}()

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var pointShapes []ShapeData
	var lineShapes []ShapeData
	var polygonShapes []ShapeData

	for results := range resultChan {
		for _, shape := range results {
			switch shape.GeomType {
			case "point":
				pointShapes = append(pointShapes, shape)
			case "line":
				lineShapes = append(lineShapes, shape)
			case "polygon":
				polygonShapes = append(polygonShapes, shape)
			}
		}
	}

	writeShapesToFile(shpFile_point, pointShapes, FieldMAP)
	writeShapesToFile(shpFile_line, lineShapes, FieldMAP)
	writeShapesToFile(shpFile_polygon, polygonShapes, FieldMAP)

	shpFile_polygon.Close()
	shpFile_line.Close()
	shpFile_point.Close()

	checkAndDeleteEmptyShapefile(shpfileFilePath_point, rootName+"_punkt")
	checkAndDeleteEmptyShapefile(shpfileFilePath_polygon, rootName+"_flaeche")
	checkAndDeleteEmptyShapefile(shpfileFilePath_line, rootName+"_linie")
}

func processFeature(feature *geojson.Feature) []ShapeData {
	var results []ShapeData

	attributes := make(map[string]string)
	for key, item := range feature.Properties {
		var itemStr string
		switch v := item.(type) {
		case string:
			itemStr = v
		case float64:
			itemStr = fmt.Sprintf("%f", v)
		case int:
			itemStr = fmt.Sprintf("%d", v)
		case nil:
			itemStr = ""
		default:
			itemStr = fmt.Sprintf("%v", v)
		}
		attributes[key] = itemStr
	}

	switch geom := feature.Geometry.(type) {
	case orb.Polygon:
		var PL [][]shp.Point
		for _, ring := range geom {
			var points []shp.Point
			for _, pt := range ring {
				points = append(points, shp.Point{X: pt[0], Y: pt[1]})
			}
			PL = append(PL, points)
		}
		results = append(results, ShapeData{
			Shape:      shp.NewPolyLine(PL),
			Attributes: attributes,
			GeomType:   "polygon",
		})

	case orb.MultiPolygon:
		for _, polygon := range geom {
			var PL [][]shp.Point
			for _, ring := range polygon {
				var points []shp.Point
				for _, pt := range ring {
					points = append(points, shp.Point{X: pt[0], Y: pt[1]})
				}
				PL = append(PL, points)
			}
			results = append(results, ShapeData{
				Shape:      shp.NewPolyLine(PL),
				Attributes: attributes,
				GeomType:   "polygon",
			})
		}

	case orb.LineString:
		var PL [][]shp.Point
		var points []shp.Point
		for _, pt := range geom {
			points = append(points, shp.Point{X: pt[0], Y: pt[1]})
		}
		PL = append(PL, points)
		results = append(results, ShapeData{
			Shape:      shp.NewPolyLine(PL),
			Attributes: attributes,
			GeomType:   "line",
		})

	case orb.Point:
		results = append(results, ShapeData{
			Shape:      &shp.Point{X: geom[0], Y: geom[1]},
			Attributes: attributes,
			GeomType:   "point",
		})

	case orb.MultiPoint:
		if len(geom) > 0 {
			pt := geom[0]
			results = append(results, ShapeData{
				Shape:      &shp.Point{X: pt[0], Y: pt[1]},
				Attributes: attributes,
				GeomType:   "point",
			})
		}
	}

	return results
}

func writeShapesToFile(shpFile *shp.Writer, shapes []ShapeData, fieldMap map[string]int) {
	for i, shapeData := range shapes {
		shpFile.Write(shapeData.Shape)

		for key, value := range shapeData.Attributes {
			if fieldIndex, exists := fieldMap[key]; exists {
				if err := shpFile.WriteAttribute(i, fieldIndex, value); err != nil {
					fmt.Println(err.Error())
				}
			}
		}
	}
}

func checkAndDeleteEmptyShapefile(shpFilePath, baseName string) {
	fileInfo, err := os.Stat(shpFilePath)
	if err != nil {
		return
	}

	// 只有文件头的shp连同附属文件一起删掉
	if fileInfo.Size() <= 110 {
		dir := filepath.Dir(shpFilePath)
		extensions := []string{".shp", ".dbf", ".shx", ".cpg", ".prj"}

		for _, ext := range extensions {
			os.Remove(filepath.Join(dir, baseName+ext))
		}
	}
}
