package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"complaints/server/internal/services"
)

// respondError маппит ошибки сервисного слоя на HTTP ответы.
// Неожиданные ошибки логируются и отдаются как 500 без внутренних деталей
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var referenceErr *services.ReferenceError
	var missingFieldErr *services.MissingFieldError
	var dependencyErr *services.DependencyError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Ошибка валидации",
			"details": validationErr.Error(),
		})
	case errors.As(err, &referenceErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": referenceErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"error": notFoundErr.Error(),
		})
	case errors.As(err, &dependencyErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Сбой внешнего сервиса",
			"details": dependencyErr.Error(),
		})
	case errors.As(err, &missingFieldErr):
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Операция не выполнена",
		})
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Внутренняя ошибка сервера",
		})
	}
}
