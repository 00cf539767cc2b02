package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
)

var MainRouter string
var DSN string
var Dbname string
var Download string
var DefaultSrid int
var KorrekturMethode string
var KorrekturToleranz float64
var MainConfig Config

type Config struct {
	XMLName           xml.Name `xml:"config"`
	MainRouter        string   `xml:"MainRouter"`
	Dbname            string   `xml:"dbname"`
	Host              string   `xml:"host"`
	Port              string   `xml:"port"`
	Username          string   `xml:"user"`
	Password          string   `xml:"password"`
	Download          string   `xml:"download"`
	DefaultSrid       string   `xml:"srid"`
	KorrekturMethode  string   `xml:"korrektur"`
	KorrekturToleranz string   `xml:"toleranz"`
}

func init() {

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
		return
	}
	MainRouter = MainConfig.MainRouter
	Dbname = MainConfig.Dbname
	Download = MainConfig.Download

	// 德国规划数据默认使用UTM32
	DefaultSrid = 25832
	if s, err := strconv.Atoi(MainConfig.DefaultSrid); err == nil && s > 0 {
		DefaultSrid = s
	}

	// korrektur: keine 或 dp
	KorrekturMethode = MainConfig.KorrekturMethode
	if KorrekturMethode == "" {
		KorrekturMethode = "keine"
	}
	KorrekturToleranz = 0.05
	if t, err := strconv.ParseFloat(MainConfig.KorrekturToleranz, 64); err == nil && t > 0 {
		KorrekturToleranz = t
	}

	DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC", MainConfig.Host, MainConfig.Username, MainConfig.Password, MainConfig.Dbname, MainConfig.Port)

}
