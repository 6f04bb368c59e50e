package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"complaints/server/internal/services"
)

// BranchController управляет API endpoints справочника филиалов
type BranchController struct {
	service *services.BranchService
}

// NewBranchController создает новый экземпляр BranchController
func NewBranchController(service *services.BranchService) *BranchController {
	return &BranchController{service: service}
}

// GetBranches получает список всех филиалов
// GET /api/v1/branches
func (bc *BranchController) GetBranches(c *gin.Context) {
	branches, err := bc.service.GetAllBranches(false)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"branches": branches,
	})
}

// GetActiveBranches получает только действующие филиалы (для публичной формы)
// GET /api/v1/branches/active
func (bc *BranchController) GetActiveBranches(c *gin.Context) {
	branches, err := bc.service.GetAllBranches(true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, branches)
}

// GetBranch получает филиал по ID
// GET /api/v1/branches/:id
func (bc *BranchController) GetBranch(c *gin.Context) {
	id := c.Param("id")

	branch, err := bc.service.GetBranchByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"branch":  branch,
	})
}

// CreateBranch создает новый филиал
// POST /api/v1/branches
func (bc *BranchController) CreateBranch(c *gin.Context) {
	var input services.BranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	branch, err := bc.service.CreateBranch(&input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Филиал создан",
		"branch":  branch,
	})
}

// UpdateBranch обновляет филиал
// PUT /api/v1/branches/:id
func (bc *BranchController) UpdateBranch(c *gin.Context) {
	id := c.Param("id")

	var input services.BranchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Неверные данные",
			"details": err.Error(),
		})
		return
	}

	branch, err := bc.service.UpdateBranch(id, &input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Филиал обновлен",
		"branch":  branch,
	})
}

// DeleteBranch деактивирует филиал (мягкое удаление)
// DELETE /api/v1/branches/:id
func (bc *BranchController) DeleteBranch(c *gin.Context) {
	id := c.Param("id")

	if err := bc.service.DeleteBranch(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Филиал деактивирован",
	})
}

// RestoreBranch восстанавливает деактивированный филиал
// PATCH /api/v1/branches/:id/restore
func (bc *BranchController) RestoreBranch(c *gin.Context) {
	id := c.Param("id")

	branch, err := bc.service.RestoreBranch(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Филиал восстановлен",
		"branch":  branch,
	})
}
