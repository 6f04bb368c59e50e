package main

import (
	"log"

	"github.com/joho/godotenv"

	"complaints/server/internal/config"
	"complaints/server/internal/database"
	"complaints/server/internal/models"
)

// Заполняет справочник филиалов стартовыми данными.
// Филиалы с уже занятыми названиями пропускаются
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

	branches := []models.Branch{
		{
			Name:        "Центральный",
			Address:     "ул. Ленина, 1",
			City:        "Москва",
			Phone:       "+7 (495) 000-00-01",
			Email:       "central@example.com",
			ManagerName: "Иванова Мария",
			IsActive:    true,
		},
		{
			Name:        "Северный",
			Address:     "пр. Мира, 100",
			City:        "Москва",
			Phone:       "+7 (495) 000-00-02",
			Email:       "north@example.com",
			ManagerName: "Петров Алексей",
			IsActive:    true,
		},
		{
			Name:        "Невский",
			Address:     "Невский пр., 50",
			City:        "Санкт-Петербург",
			Phone:       "+7 (812) 000-00-03",
			Email:       "nevsky@example.com",
			ManagerName: "Сидорова Анна",
			IsActive:    true,
		},
	}

	created := 0
	for i := range branches {
		var count int64
		if err := db.Model(&models.Branch{}).Where("name = ?", branches[i].Name).Count(&count).Error; err != nil {
			log.Fatalf("❌ Ошибка проверки филиала %q: %v", branches[i].Name, err)
		}
		if count > 0 {
			log.Printf("ℹ️ Филиал %q уже существует, пропускаем", branches[i].Name)
			continue
		}
		if err := db.Create(&branches[i]).Error; err != nil {
			log.Fatalf("❌ Ошибка создания филиала %q: %v", branches[i].Name, err)
		}
		log.Printf("✅ Филиал %q создан (id=%s)", branches[i].Name, branches[i].ID)
		created++
	}

	log.Printf("✅ Готово: создано филиалов: %d", created)
}
