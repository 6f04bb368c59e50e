package models

import (
	"log"

	"gorm.io/gorm"
)

// AutoMigrate создает таблицы в БД
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Branch{},
		&Admin{},
		&Complaint{},
	); err != nil {
		log.Printf("❌ AutoMigrate failed: %v", err)
		return err
	}
	log.Println("✅ Таблицы branches, admins, complaints мигрированы")
	return nil
}
