package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"complaints/server/internal/api"
	"complaints/server/internal/config"
	"complaints/server/internal/database"
	"complaints/server/internal/models"
	"complaints/server/internal/services"
)

func main() {
	// Загружаем переменные окружения из .env файла (если существует)
	// Игнорируем ошибку, если файл не найден (для production окружений)
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️ .env файл не найден, используем переменные окружения системы")
	} else {
		log.Printf("✅ Переменные окружения загружены из .env файла")
	}

	// Загрузка конфигурации
	cfg := config.Load()

	// Логируем наличие DATABASE_URL (без пароля)
	if cfg.DatabaseURL != "" {
		safeURL := cfg.DatabaseURL
		if idx := strings.Index(safeURL, "@"); idx > 0 {
			if schemeIdx := strings.Index(safeURL, "://"); schemeIdx > 0 {
				safeURL = safeURL[:schemeIdx+3] + "***@" + safeURL[idx+1:]
			}
		}
		log.Printf("📋 DATABASE_URL установлен: %s", safeURL)
	}

	// Подключение к PostgreSQL: без БД сервис жалоб не работает
	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ PostgreSQL connection failed: %v", err)
	}
	defer database.ClosePostgres(db)

	// Выполняем миграции
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// Инициализация сервисов
	branchService := services.NewBranchService(db)
	log.Println("✅ Branch service initialized")

	complaintService := services.NewComplaintService(db)
	log.Println("✅ Complaint service initialized")

	exportService := services.NewExportService()

	uploadService := services.NewUploadService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if cfg.CloudinaryName == "" {
		log.Println("⚠️ CLOUDINARY_NAME не установлен: загрузка фото будет падать с ошибкой внешнего сервиса")
	} else {
		log.Println("✅ Upload service initialized")
	}

	// Отключаем debug-логи gin
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Health check endpoint (должен быть до CORS)
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "Complaints Server",
			"version": "1.0.0",
		})
	})

	// Логирование всех запросов
	r.Use(api.RequestLogger())

	// CORS для формы жалоб и консоли администратора
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// API routes
	apiGroup := r.Group("/api/v1")

	// Авторизация администраторов
	authController := api.NewAuthController(db, cfg.JWTSecret)
	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/login", authController.Login)
	}
	log.Println("🔐 Auth endpoints enabled: /api/v1/auth/login")

	// Публичная подача жалоб и проверка статуса
	complaintController := api.NewComplaintController(complaintService)
	complaintGroup := apiGroup.Group("/complaints")
	{
		complaintGroup.POST("", complaintController.SubmitComplaint)                    // Подать жалобу
		complaintGroup.GET("/status/:complaintNumber", complaintController.GetComplaintStatus) // Статус по номеру
		complaintGroup.GET("/branch/:branchId", complaintController.GetBranchComplaints) // Жалобы филиала
	}
	log.Println("📣 Complaint endpoints enabled: /api/v1/complaints")

	// Справочник филиалов: чтение публичное, изменение только для админов
	requireAdmin := api.RequireAdmin(db, cfg.JWTSecret)
	branchController := api.NewBranchController(branchService)
	branchGroup := apiGroup.Group("/branches")
	{
		branchGroup.GET("", branchController.GetBranches)                  // Все филиалы
		branchGroup.GET("/active", branchController.GetActiveBranches)     // Только действующие
		branchGroup.GET("/:id", branchController.GetBranch)                // Получить филиал
		branchGroup.POST("", requireAdmin, branchController.CreateBranch)  // Создать филиал
		branchGroup.PUT("/:id", requireAdmin, branchController.UpdateBranch) // Обновить филиал
		branchGroup.DELETE("/:id", requireAdmin, branchController.DeleteBranch) // Деактивировать
		branchGroup.PATCH("/:id/restore", requireAdmin, branchController.RestoreBranch) // Восстановить
	}
	log.Println("🏢 Branch endpoints enabled: /api/v1/branches")

	// Консоль администратора
	adminController := api.NewAdminController(complaintService, exportService)
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(requireAdmin)
	{
		adminGroup.GET("/complaints", adminController.GetComplaints)                    // Дашборд с фильтрами
		adminGroup.PUT("/complaints/:id/status", adminController.UpdateComplaintStatus) // Смена статуса
		adminGroup.GET("/stats", adminController.GetStats)                              // Статистика
		adminGroup.GET("/export", adminController.ExportComplaints)                     // Выгрузка CSV/XLSX
	}
	log.Println("🔧 Admin endpoints enabled: /api/v1/admin")

	// Загрузка фотографий во внешнее хранилище
	uploadController := api.NewUploadController(uploadService, cfg.MaxFileSize)
	uploadGroup := apiGroup.Group("/upload")
	{
		uploadGroup.POST("/upload-single", uploadController.UploadSingle)     // Одно изображение
		uploadGroup.POST("/upload-multiple", uploadController.UploadMultiple) // До 5 изображений
		uploadGroup.DELETE("/delete/:publicId", uploadController.DeleteImage) // Удалить по publicId
	}
	log.Println("📷 Upload endpoints enabled: /api/v1/upload")

	port := cfg.ServerPort
	log.Printf("🚀 Server starting on port %s", port)
	log.Printf("📡 API доступен на http://0.0.0.0:%s/api/v1", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
