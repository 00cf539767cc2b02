package models

import (
	"log"
	"os"
	"path/filepath"

	"github.com/GrainArc/XPlanMap/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

func InitDB() {
	var err error
	DB, err = gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		// 无PG环境时落到本地sqlite文件，单机部署常态
		log.Printf("Failed to connect to postgres, falling back to sqlite: %v", err)
		if err := os.MkdirAll(config.Download, os.ModePerm); err != nil {
			log.Fatalf("Failed to create storage dir: %v", err)
		}
		dbPath := filepath.Join(config.Download, "xplan.db")
		DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			log.Fatalf("Failed to open sqlite database: %v", err)
		}
	}

	DB.NamingStrategy = schema.NamingStrategy{
		SingularTable: true,
	}

	if err := migrateAllTables(DB); err != nil {
		log.Printf("Failed to migrate tables: %v", err)
	}
}

// migrateAllTables 批量迁移所有表
func migrateAllTables(db *gorm.DB) error {
	models := []interface{}{
		&XPPlan{},
		&XPBereich{},
		&XPObjekt{},
		&XPKomplexeZweckbestimmung{},
		&XPExterneReferenz{},
		&XPPraesentationsobjekt{},
		&XPGemeinde{},
		&XPImportProtokoll{},
	}

	return db.AutoMigrate(models...)
}

func GetDB() *gorm.DB {
	return DB
}
