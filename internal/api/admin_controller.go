package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"complaints/server/internal/services"
)

// AdminController endpoints консоли администратора: фильтрованные выборки,
// смена статусов, статистика, выгрузка
type AdminController struct {
	complaints *services.ComplaintService
	export     *services.ExportService
}

// NewAdminController создает новый экземпляр AdminController
func NewAdminController(complaints *services.ComplaintService, export *services.ExportService) *AdminController {
	return &AdminController{complaints: complaints, export: export}
}

// GetComplaints возвращает страницу жалоб под фильтры дашборда
// GET /api/v1/admin/complaints?status=&priority=&branch_id=&hasImages=&limit=&offset=
func (ac *AdminController) GetComplaints(c *gin.Context) {
	filters := services.AdminListFilters{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		BranchID: c.Query("branch_id"),
		Limit:    queryInt(c, "limit", 100),
		Offset:   queryInt(c, "offset", 0),
	}
	// hasImages=true только жалобы с фото, hasImages=false только без
	switch c.Query("hasImages") {
	case "true":
		v := true
		filters.HasImages = &v
	case "false":
		v := false
		filters.HasImages = &v
	}

	complaints, err := ac.complaints.ListForAdmin(filters)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"complaints": complaints,
		"total":      len(complaints),
	})
}

// UpdateComplaintStatus переводит жалобу в новый статус
// PUT /api/v1/admin/complaints/:id/status
func (ac *AdminController) UpdateComplaintStatus(c *gin.Context) {
	id := c.Param("id")

	var input services.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	complaint, err := ac.complaints.UpdateStatus(id, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Статус жалобы обновлен",
		"complaint": complaint,
	})
}

// GetStats возвращает агрегированную статистику за скользящее окно
// GET /api/v1/admin/stats?period=30
func (ac *AdminController) GetStats(c *gin.Context) {
	period := queryInt(c, "period", 30)

	stats, err := ac.complaints.GetStatistics(period)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// ExportComplaints выгружает отфильтрованный набор жалоб в CSV или XLSX
// GET /api/v1/admin/export?start_date=&end_date=&branch_id=&format=csv
func (ac *AdminController) ExportComplaints(c *gin.Context) {
	filters := services.ExportFilters{
		BranchID: c.Query("branch_id"),
	}
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Ошибка валидации",
				"details": "start_date: ожидается дата в формате YYYY-MM-DD или RFC3339",
			})
			return
		}
		filters.StartDate = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Ошибка валидации",
				"details": "end_date: ожидается дата в формате YYYY-MM-DD или RFC3339",
			})
			return
		}
		filters.EndDate = &parsed
	}

	complaints, err := ac.complaints.FindForExport(filters)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "xlsx" {
		data, err := ac.export.BuildXLSX(complaints)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=complaints.xlsx")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
		return
	}

	csv, err := ac.export.BuildCSV(complaints)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=complaints.csv")
	c.Data(http.StatusOK, "text/csv", []byte(csv))
}

func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
