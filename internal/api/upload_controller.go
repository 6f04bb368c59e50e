package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"complaints/server/internal/services"
)

// UploadController прокидывает фотографии жалоб во внешнее хранилище
type UploadController struct {
	service     *services.UploadService
	maxFileSize int64
}

// NewUploadController создает новый экземпляр UploadController
func NewUploadController(service *services.UploadService, maxFileSize int64) *UploadController {
	return &UploadController{service: service, maxFileSize: maxFileSize}
}

// UploadSingle загружает одно изображение
// POST /api/v1/upload/upload-single (multipart, поле image)
func (uc *UploadController) UploadSingle(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл изображения не передан"})
		return
	}
	if fileHeader.Size > uc.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл слишком большой"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	image, err := uc.service.UploadImage(file, fileHeader.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": image.ImageURL,
		"publicId": image.PublicID,
		"message":  "Изображение загружено",
	})
}

// UploadMultiple загружает до 5 изображений за запрос
// POST /api/v1/upload/upload-multiple (multipart, поле images)
func (uc *UploadController) UploadMultiple(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файлы изображений не переданы"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файлы изображений не переданы"})
		return
	}
	if len(files) > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не больше 5 изображений за запрос"})
		return
	}

	uploaded := make([]services.UploadedImage, 0, len(files))
	for _, fileHeader := range files {
		if fileHeader.Size > uc.maxFileSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Файл слишком большой: " + fileHeader.Filename})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		image, err := uc.service.UploadImage(file, fileHeader.Filename)
		file.Close()
		if err != nil {
			respondError(c, err)
			return
		}
		uploaded = append(uploaded, *image)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"images":  uploaded,
		"count":   len(uploaded),
		"message": "Изображения загружены",
	})
}

// DeleteImage удаляет изображение из внешнего хранилища
// DELETE /api/v1/upload/delete/:publicId
func (uc *UploadController) DeleteImage(c *gin.Context) {
	publicID := c.Param("publicId")

	if err := uc.service.DeleteImage(publicID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Изображение удалено",
	})
}
