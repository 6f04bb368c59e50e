package api

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"complaints/server/internal/models"
)

const adminContextKey = "admin"

// RequireAdmin проверяет bearer-токен и резолвит его в активного администратора.
// Любой отказ (нет токена, плохая подпись, истекший срок, админ не найден или
// деактивирован) отдается клиенту одинаковым 401: причина только в логах
func RequireAdmin(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := ""
		if parts := strings.SplitN(authHeader, " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
			token = parts[1]
		}
		if token == "" {
			denyAccess(c, "токен не передан")
			return
		}

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("неожиданный метод подписи")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !parsed.Valid {
			denyAccess(c, "токен не прошел проверку: "+errText(err))
			return
		}

		adminID, _ := claims["admin_id"].(string)
		if adminID == "" {
			denyAccess(c, "в токене нет admin_id")
			return
		}

		var admin models.Admin
		if err := db.First(&admin, "id = ?", adminID).Error; err != nil {
			denyAccess(c, "администратор "+adminID+" не найден")
			return
		}
		if !admin.IsActive {
			denyAccess(c, "администратор "+adminID+" деактивирован")
			return
		}

		c.Set(adminContextKey, &admin)
		c.Next()
	}
}

func denyAccess(c *gin.Context, reason string) {
	log.Printf("🔒 Отказ авторизации %s %s: %s", c.Request.Method, c.Request.URL.Path, reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "Доступ запрещен",
	})
}

func errText(err error) string {
	if err == nil {
		return "invalid token"
	}
	return err.Error()
}

// CurrentAdmin возвращает администратора, положенного в контекст RequireAdmin
func CurrentAdmin(c *gin.Context) *models.Admin {
	if v, ok := c.Get(adminContextKey); ok {
		if admin, ok := v.(*models.Admin); ok {
			return admin
		}
	}
	return nil
}

// RequestLogger логирует каждый запрос: метод, путь, статус, задержка
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		log.Printf("🌐 %s %s - Status: %d - Latency: %v", method, path, status, latency)
	}
}
