package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	qrcode "github.com/skip2/go-qrcode"

	"complaints/server/internal/config"
	"complaints/server/internal/database"
	"complaints/server/internal/models"
)

// Генерирует PNG с QR-кодом для каждого филиала: код ведет на публичную
// форму жалоб этого филиала. Ссылка сохраняется в qr_code_url филиала
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

	qrDir := "qr-codes"
	if err := os.MkdirAll(qrDir, 0o755); err != nil {
		log.Fatalf("❌ Ошибка создания каталога %s: %v", qrDir, err)
	}

	var branches []models.Branch
	if err := db.Find(&branches).Error; err != nil {
		log.Fatalf("❌ Ошибка получения филиалов: %v", err)
	}
	log.Printf("ℹ️ Найдено филиалов: %d", len(branches))

	for i := range branches {
		branch := &branches[i]
		qrURL := fmt.Sprintf("%s/complaint/%s", cfg.FrontendURL, branch.ID)

		fileName := fmt.Sprintf("qr-code-%s.png",
			strings.ToLower(strings.ReplaceAll(branch.Name, " ", "-")))
		filePath := filepath.Join(qrDir, fileName)

		if err := qrcode.WriteFile(qrURL, qrcode.Medium, 300, filePath); err != nil {
			log.Fatalf("❌ Ошибка генерации QR-кода для %q: %v", branch.Name, err)
		}

		if err := db.Model(branch).Update("qr_code_url", qrURL).Error; err != nil {
			log.Fatalf("❌ Ошибка сохранения qr_code_url для %q: %v", branch.Name, err)
		}

		log.Printf("✅ QR-код для %q: %s -> %s", branch.Name, qrURL, filePath)
	}

	log.Println("✅ Генерация QR-кодов завершена")
}
