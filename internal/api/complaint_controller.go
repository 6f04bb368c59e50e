package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"complaints/server/internal/services"
)

// ComplaintController публичные endpoints подачи жалоб и проверки статуса
type ComplaintController struct {
	service *services.ComplaintService
}

// NewComplaintController создает новый экземпляр ComplaintController
func NewComplaintController(service *services.ComplaintService) *ComplaintController {
	return &ComplaintController{service: service}
}

// SubmitComplaint принимает жалобу из публичной формы
// POST /api/v1/complaints
func (cc *ComplaintController) SubmitComplaint(c *gin.Context) {
	var input services.SubmitComplaintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	complaint, err := cc.service.Submit(&input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"message":         "Жалоба принята",
		"complaintId":     complaint.ID,
		"complaintNumber": complaint.ComplaintNumber,
	})
}

// GetComplaintStatus возвращает клиентскую проекцию жалобы по номеру
// GET /api/v1/complaints/status/:complaintNumber
func (cc *ComplaintController) GetComplaintStatus(c *gin.Context) {
	complaintNumber := c.Param("complaintNumber")

	view, err := cc.service.GetByNumber(complaintNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"complaint": view,
	})
}

// GetBranchComplaints возвращает жалобы филиала (для управляющего)
// GET /api/v1/complaints/branch/:branchId?status=xxx&limit=50&offset=0
func (cc *ComplaintController) GetBranchComplaints(c *gin.Context) {
	branchID := c.Param("branchId")
	status := c.Query("status")
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	complaints, err := cc.service.ListForBranch(branchID, status, limit, offset)
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

// queryInt читает числовой query-параметр с значением по умолчанию
func queryInt(c *gin.Context, key string, defaultValue int) int {
	if raw := c.Query(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return defaultValue
}
