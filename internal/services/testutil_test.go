package services

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"complaints/server/internal/models"
)

// newTestDB поднимает изолированную in-memory sqlite БД с миграциями.
// Именованная shared-memory БД нужна, чтобы пул соединений gorm видел
// одни и те же таблицы
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("не удалось открыть тестовую БД: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("не удалось получить sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("миграция тестовой БД: %v", err)
	}
	return db
}

// seedBranch создает филиал для тестов
func seedBranch(t *testing.T, db *gorm.DB, name, city string) *models.Branch {
	t.Helper()

	branch := models.Branch{
		Name:     name,
		Address:  "ул. Тестовая, 1",
		City:     city,
		IsActive: true,
	}
	if err := db.Create(&branch).Error; err != nil {
		t.Fatalf("не удалось создать филиал %q: %v", name, err)
	}
	return &branch
}

// seedComplaint создает жалобу напрямую в БД, минуя валидацию формы
func seedComplaint(t *testing.T, db *gorm.DB, c models.Complaint) *models.Complaint {
	t.Helper()

	if c.CustomerName == "" {
		c.CustomerName = "Тестовый Клиент"
	}
	if c.ComplaintType == "" {
		c.ComplaintType = models.ComplaintTypeOther
	}
	if c.Priority == "" {
		c.Priority = models.ComplaintPriorityMedium
	}
	if c.Status == "" {
		c.Status = models.ComplaintStatusPending
	}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("не удалось создать жалобу: %v", err)
	}
	return &c
}

func mustCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.Complaint{}).Count(&count).Error; err != nil {
		t.Fatalf("подсчет жалоб: %v", err)
	}
	return count
}
