package database

import (
	"fmt"
	"log"
	"os"

	"art-catalog-app/internal/audit"
	"art-catalog-app/internal/domain/session"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB() *gorm.DB {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	// ✅ REQUIRED for UUID generation
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	// ✅ Auto-migrate service-local models. Catalogue records live upstream,
	// only session snapshots and the review audit trail are stored here.
	if err := db.AutoMigrate(
		&session.SnapshotRow{},
		&audit.ReviewAction{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
	return db
}
