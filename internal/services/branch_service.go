package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"complaints/server/internal/models"

	"gorm.io/gorm"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// BranchService управляет справочником филиалов
type BranchService struct {
	db *gorm.DB
}

// NewBranchService создает новый экземпляр BranchService
func NewBranchService(db *gorm.DB) *BranchService {
	return &BranchService{db: db}
}

// BranchInput данные формы создания/обновления филиала
type BranchInput struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ManagerName string `json:"manager_name"`
	IsActive    *bool  `json:"is_active"`
}

func (in *BranchInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.ManagerName = strings.TrimSpace(in.ManagerName)

	if l := len([]rune(in.Name)); l < 2 || l > 100 {
		return &ValidationError{Field: "name", Detail: "название обязательно, от 2 до 100 символов"}
	}
	if l := len([]rune(in.Address)); l < 5 || l > 500 {
		return &ValidationError{Field: "address", Detail: "адрес обязателен, от 5 до 500 символов"}
	}
	if l := len([]rune(in.City)); l < 2 || l > 100 {
		return &ValidationError{Field: "city", Detail: "город обязателен, от 2 до 100 символов"}
	}
	if in.Phone != "" && !phonePattern.MatchString(in.Phone) {
		return &ValidationError{Field: "phone", Detail: "телефон содержит недопустимые символы"}
	}
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		return &ValidationError{Field: "email", Detail: "некорректный email"}
	}
	if in.ManagerName != "" {
		if l := len([]rune(in.ManagerName)); l < 2 || l > 100 {
			return &ValidationError{Field: "manager_name", Detail: "имя управляющего от 2 до 100 символов"}
		}
	}
	return nil
}

// GetAllBranches возвращает список филиалов, отсортированный по названию.
// При activeOnly=true возвращает только действующие филиалы
func (s *BranchService) GetAllBranches(activeOnly bool) ([]models.Branch, error) {
	var branches []models.Branch
	query := s.db.Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения филиалов: %w", err)
	}
	return branches, nil
}

// GetBranchByID возвращает филиал по ID
func (s *BranchService) GetBranchByID(id string) (*models.Branch, error) {
	var branch models.Branch
	if err := s.db.First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "филиал", Key: id}
		}
		return nil, fmt.Errorf("ошибка получения филиала %s: %w", id, err)
	}
	return &branch, nil
}

// CreateBranch создает новый филиал
func (s *BranchService) CreateBranch(input *BranchInput) (*models.Branch, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	branch := models.Branch{
		Name:        input.Name,
		Address:     input.Address,
		City:        input.City,
		Phone:       input.Phone,
		Email:       input.Email,
		ManagerName: input.ManagerName,
		IsActive:    true,
	}
	if input.IsActive != nil {
		branch.IsActive = *input.IsActive
	}

	if err := s.db.Create(&branch).Error; err != nil {
		return nil, fmt.Errorf("ошибка создания филиала: %w", err)
	}
	return &branch, nil
}

// UpdateBranch обновляет существующий филиал
func (s *BranchService) UpdateBranch(id string, input *BranchInput) (*models.Branch, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	branch, err := s.GetBranchByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":         input.Name,
		"address":      input.Address,
		"city":         input.City,
		"phone":        input.Phone,
		"email":        input.Email,
		"manager_name": input.ManagerName,
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if err := s.db.Model(branch).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("ошибка обновления филиала %s: %w", id, err)
	}
	return branch, nil
}

// DeleteBranch деактивирует филиал (мягкое удаление, is_active = false).
// Жалобы филиала не затрагиваются
func (s *BranchService) DeleteBranch(id string) error {
	return s.setActive(id, false)
}

// RestoreBranch восстанавливает деактивированный филиал (is_active = true)
func (s *BranchService) RestoreBranch(id string) (*models.Branch, error) {
	if err := s.setActive(id, true); err != nil {
		return nil, err
	}
	return s.GetBranchByID(id)
}

func (s *BranchService) setActive(id string, active bool) error {
	result := s.db.Model(&models.Branch{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("ошибка изменения статуса филиала %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "филиал", Key: id}
	}
	return nil
}

// SetQRCodeURL сохраняет ссылку формы жалоб, зашитую в QR-код филиала
func (s *BranchService) SetQRCodeURL(id, url string) error {
	result := s.db.Model(&models.Branch{}).Where("id = ?", id).Update("qr_code_url", url)
	if result.Error != nil {
		return fmt.Errorf("ошибка сохранения qr_code_url филиала %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "филиал", Key: id}
	}
	return nil
}
