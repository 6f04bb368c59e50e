package main

import (
	"errors"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"complaints/server/internal/config"
	"complaints/server/internal/database"
	"complaints/server/internal/models"
)

// Создает первого администратора, если его еще нет
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ .env файл не найден, используем переменные окружения системы")
	}

	cfg := config.Load()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ PostgreSQL connection failed: %v", err)
	}
	defer database.ClosePostgres(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	var existing models.Admin
	err = db.First(&existing, "username = ?", cfg.DefaultAdminUsername).Error
	if err == nil {
		log.Printf("ℹ️ Администратор %q уже существует, ничего не делаем", existing.Username)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("❌ Ошибка проверки администратора: %v", err)
	}

	admin := models.Admin{
		Username: cfg.DefaultAdminUsername,
		IsActive: true,
	}
	if err := admin.SetPassword(cfg.DefaultAdminPassword); err != nil {
		log.Fatalf("❌ Ошибка хеширования пароля: %v", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}

	log.Printf("✅ Администратор %q создан", admin.Username)
	log.Printf("⚠️ ВАЖНО: смените пароль после первого входа!")
}
