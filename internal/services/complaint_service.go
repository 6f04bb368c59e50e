package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"complaints/server/internal/models"

	"gorm.io/gorm"
)

// ComplaintService управляет жизненным циклом жалоб и выборками для консоли
type ComplaintService struct {
	db *gorm.DB
}

// NewComplaintService создает новый экземпляр ComplaintService
func NewComplaintService(db *gorm.DB) *ComplaintService {
	return &ComplaintService{db: db}
}

// SubmitComplaintInput данные публичной формы подачи жалобы
type SubmitComplaintInput struct {
	BranchID      string               `json:"branchId"`
	CustomerName  string               `json:"customerName"`
	CustomerEmail string               `json:"customerEmail"`
	CustomerPhone string               `json:"customerPhone"`
	ComplaintType string               `json:"complaintType"`
	Priority      string               `json:"priority"`
	Description   string               `json:"description"`
	PurchaseDate  *time.Time           `json:"purchaseDate"`
	ReceiptNumber string               `json:"receiptNumber"`
	Attachments   []models.Attachment  `json:"attachments"`
	DynamicFields models.DynamicFields `json:"dynamicFields"`
}

func (in *SubmitComplaintInput) validate() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.Description = strings.TrimSpace(in.Description)
	in.ReceiptNumber = strings.TrimSpace(in.ReceiptNumber)

	if in.BranchID == "" {
		return &ValidationError{Field: "branchId", Detail: "филиал обязателен"}
	}
	if l := len([]rune(in.CustomerName)); l < 2 || l > 100 {
		return &ValidationError{Field: "customerName", Detail: "имя клиента обязательно, от 2 до 100 символов"}
	}
	if in.CustomerPhone != "" && !phonePattern.MatchString(in.CustomerPhone) {
		return &ValidationError{Field: "customerPhone", Detail: "телефон содержит недопустимые символы"}
	}
	if !models.IsValidComplaintType(in.ComplaintType) {
		return &ValidationError{Field: "complaintType", Detail: "недопустимый тип жалобы"}
	}
	if in.Priority == "" {
		in.Priority = models.ComplaintPriorityMedium
	}
	if !models.IsValidComplaintPriority(in.Priority) {
		return &ValidationError{Field: "priority", Detail: "недопустимый приоритет"}
	}
	if in.Description != "" {
		if l := len([]rune(in.Description)); l < 10 || l > 2000 {
			return &ValidationError{Field: "description", Detail: "описание от 10 до 2000 символов"}
		}
	}
	for i, att := range in.Attachments {
		if att.ImageURL == "" || att.PublicID == "" {
			return &ValidationError{
				Field:  fmt.Sprintf("attachments[%d]", i),
				Detail: "вложение должно содержать imageUrl и publicId",
			}
		}
	}
	return nil
}

// Submit принимает жалобу: валидирует форму, проверяет существование филиала
// на момент подачи (без транзакции, гонка с удалением филиала принята)
// и сохраняет запись со статусом pending
func (s *ComplaintService) Submit(input *SubmitComplaintInput) (*models.Complaint, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var branch models.Branch
	if err := s.db.First(&branch, "id = ?", input.BranchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceError{Entity: "филиал", Key: input.BranchID}
		}
		return nil, fmt.Errorf("ошибка проверки филиала %s: %w", input.BranchID, err)
	}

	dynamicFields := input.DynamicFields
	if dynamicFields == nil {
		dynamicFields = models.DynamicFields{}
	}

	complaint := models.Complaint{
		BranchID:      input.BranchID,
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		CustomerPhone: input.CustomerPhone,
		ComplaintType: input.ComplaintType,
		Priority:      input.Priority,
		Status:        models.ComplaintStatusPending,
		Description:   input.Description,
		PurchaseDate:  input.PurchaseDate,
		ReceiptNumber: input.ReceiptNumber,
		Attachments:   models.AttachmentList(input.Attachments),
		DynamicFields: dynamicFields,
	}

	if err := s.db.Create(&complaint).Error; err != nil {
		return nil, fmt.Errorf("ошибка сохранения жалобы: %w", err)
	}
	return &complaint, nil
}

// ComplaintStatusView клиентская проекция жалобы: без внутренних заметок,
// с названием и адресом филиала для отображения
type ComplaintStatusView struct {
	ID              string    `json:"id"`
	ComplaintNumber string    `json:"complaintNumber"`
	Status          string    `json:"status"`
	Priority        string    `json:"priority"`
	ComplaintType   string    `json:"complaintType"`
	Description     string    `json:"description"`
	BranchName      string    `json:"branchName"`
	BranchAddress   string    `json:"branchAddress"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Resolution      string    `json:"resolution"`
}

// GetByNumber возвращает клиентскую проекцию жалобы по её номеру
func (s *ComplaintService) GetByNumber(complaintNumber string) (*ComplaintStatusView, error) {
	var complaint models.Complaint
	err := s.db.Preload("Branch").First(&complaint, "complaint_number = ?", complaintNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "жалоба", Key: complaintNumber}
		}
		return nil, fmt.Errorf("ошибка поиска жалобы %s: %w", complaintNumber, err)
	}

	view := &ComplaintStatusView{
		ID:              complaint.ID,
		ComplaintNumber: complaint.ComplaintNumber,
		Status:          complaint.Status,
		Priority:        complaint.Priority,
		ComplaintType:   complaint.ComplaintType,
		Description:     complaint.Description,
		CreatedAt:       complaint.CreatedAt,
		UpdatedAt:       complaint.UpdatedAt,
		Resolution:      complaint.Resolution,
	}
	if complaint.Branch != nil {
		view.BranchName = complaint.Branch.Name
		view.BranchAddress = complaint.Branch.Address
	}
	return view, nil
}

// AdminListFilters фильтры панели администратора. Каждый заданный фильтр
// соединяется с остальными по AND
type AdminListFilters struct {
	Status    string
	Priority  string
	BranchID  string
	HasImages *bool
	Limit     int
	Offset    int
}

// ListForAdmin возвращает страницу жалоб, новые первыми.
// Пагинация offset/limit, без верхней границы limit (известная особенность)
func (s *ComplaintService) ListForAdmin(filters AdminListFilters) ([]models.Complaint, error) {
	query := s.db.Preload("Branch").Order("created_at DESC")

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.Priority != "" {
		query = query.Where("priority = ?", filters.Priority)
	}
	if filters.BranchID != "" {
		query = query.Where("branch_id = ?", filters.BranchID)
	}
	if filters.HasImages != nil {
		lengthExpr := s.jsonArrayLengthExpr("attachments")
		if *filters.HasImages {
			query = query.Where(fmt.Sprintf("attachments IS NOT NULL AND %s > 0", lengthExpr))
		} else {
			query = query.Where(fmt.Sprintf("attachments IS NULL OR %s = 0", lengthExpr))
		}
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}
	query = query.Limit(limit).Offset(filters.Offset)

	var complaints []models.Complaint
	if err := query.Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения жалоб: %w", err)
	}
	return complaints, nil
}

// jsonArrayLengthExpr выражение длины JSON массива для текущего диалекта
// (jsonb_array_length в PostgreSQL, json_array_length в sqlite для тестов)
func (s *ComplaintService) jsonArrayLengthExpr(column string) string {
	if s.db.Dialector.Name() == "postgres" {
		return fmt.Sprintf("jsonb_array_length(%s)", column)
	}
	return fmt.Sprintf("json_array_length(%s)", column)
}

// ListForBranch возвращает жалобы филиала (для управляющего), новые первыми
func (s *ComplaintService) ListForBranch(branchID, status string, limit, offset int) ([]models.Complaint, error) {
	query := s.db.Preload("Branch").Where("branch_id = ?", branchID).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit <= 0 {
		limit = 50
	}

	var complaints []models.Complaint
	if err := query.Limit(limit).Offset(offset).Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("ошибка получения жалоб филиала %s: %w", branchID, err)
	}
	return complaints, nil
}

// UpdateStatusInput данные операции смены статуса
type UpdateStatusInput struct {
	Status     string  `json:"status"`
	Resolution *string `json:"resolution"`
	AdminNotes *string `json:"adminNotes"`
}

// UpdateStatus переводит жалобу в новый статус. Граф переходов не
// ограничивается: любой статус достижим из любого, проверяется только
// принадлежность перечню
func (s *ComplaintService) UpdateStatus(id string, input *UpdateStatusInput) (*models.Complaint, error) {
	if !models.IsValidComplaintStatus(input.Status) {
		return nil, &ValidationError{Field: "status", Detail: "недопустимый статус"}
	}

	var complaint models.Complaint
	if err := s.db.First(&complaint, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "жалоба", Key: id}
		}
		return nil, fmt.Errorf("ошибка поиска жалобы %s: %w", id, err)
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.Resolution != nil {
		updates["resolution"] = *input.Resolution
	}
	if input.AdminNotes != nil {
		updates["admin_notes"] = *input.AdminNotes
	}

	if err := s.db.Model(&complaint).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("ошибка обновления жалобы %s: %w", id, err)
	}
	return &complaint, nil
}

// TypeCount количество жалоб одного типа за период
type TypeCount struct {
	Type  string `json:"type" gorm:"column:complaint_type"`
	Count int64  `json:"count"`
}

// BranchCount количество жалоб филиала за период
type BranchCount struct {
	BranchName string `json:"branchName" gorm:"column:branch_name"`
	Count      int64  `json:"count"`
}

// Statistics агрегированная статистика панели администратора.
// Счетчики считаются независимыми запросами, без единого снапшота:
// при параллельной записи итоги могут расходиться на единицы
type Statistics struct {
	TotalComplaints    int64         `json:"totalComplaints"`
	Pending            int64         `json:"pending"`
	InProgress         int64         `json:"inProgress"`
	Resolved           int64         `json:"resolved"`
	Closed             int64         `json:"closed"`
	Urgent             int64         `json:"urgent"`
	High               int64         `json:"high"`
	Medium             int64         `json:"medium"`
	Low                int64         `json:"low"`
	RecentComplaints   int64         `json:"recentComplaints"`
	ComplaintsByType   []TypeCount   `json:"complaintsByType"`
	ComplaintsByBranch []BranchCount `json:"complaintsByBranch"`
}

// GetStatistics считает статистику: общие счетчики по статусам и приоритетам
// плюс разрезы по типам и филиалам за скользящее окно periodDays дней
func (s *ComplaintService) GetStatistics(periodDays int) (*Statistics, error) {
	if periodDays <= 0 {
		periodDays = 30
	}
	startDate := time.Now().UTC().AddDate(0, 0, -periodDays)

	stats := &Statistics{}

	counts := []struct {
		dest  *int64
		where []interface{}
	}{
		{&stats.TotalComplaints, nil},
		{&stats.Pending, []interface{}{"status = ?", models.ComplaintStatusPending}},
		{&stats.InProgress, []interface{}{"status = ?", models.ComplaintStatusInProgress}},
		{&stats.Resolved, []interface{}{"status = ?", models.ComplaintStatusResolved}},
		{&stats.Closed, []interface{}{"status = ?", models.ComplaintStatusClosed}},
		{&stats.Urgent, []interface{}{"priority = ?", models.ComplaintPriorityUrgent}},
		{&stats.High, []interface{}{"priority = ?", models.ComplaintPriorityHigh}},
		{&stats.Medium, []interface{}{"priority = ?", models.ComplaintPriorityMedium}},
		{&stats.Low, []interface{}{"priority = ?", models.ComplaintPriorityLow}},
		{&stats.RecentComplaints, []interface{}{"created_at >= ?", startDate}},
	}
	for _, c := range counts {
		query := s.db.Model(&models.Complaint{})
		if c.where != nil {
			query = query.Where(c.where[0], c.where[1:]...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("ошибка подсчета статистики: %w", err)
		}
	}

	stats.ComplaintsByType = []TypeCount{}
	err := s.db.Model(&models.Complaint{}).
		Select("complaint_type, COUNT(*) AS count").
		Where("created_at >= ?", startDate).
		Group("complaint_type").
		Order("count DESC").
		Scan(&stats.ComplaintsByType).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета жалоб по типам: %w", err)
	}

	stats.ComplaintsByBranch = []BranchCount{}
	err = s.db.Table("complaints").
		Select("branches.name AS branch_name, COUNT(*) AS count").
		Joins("JOIN branches ON branches.id = complaints.branch_id").
		Where("complaints.created_at >= ?", startDate).
		Group("branches.name").
		Order("count DESC").
		Scan(&stats.ComplaintsByBranch).Error
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета жалоб по филиалам: %w", err)
	}

	return stats, nil
}

// ExportFilters фильтры выгрузки: диапазон дат создания и филиал
type ExportFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	BranchID  string
}

// FindForExport возвращает полный набор жалоб под фильтры выгрузки
// (без пагинации), новые первыми, с данными филиала
func (s *ComplaintService) FindForExport(filters ExportFilters) ([]models.Complaint, error) {
	query := s.db.Preload("Branch").Order("created_at DESC")
	if filters.StartDate != nil {
		query = query.Where("created_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("created_at <= ?", *filters.EndDate)
	}
	if filters.BranchID != "" {
		query = query.Where("branch_id = ?", filters.BranchID)
	}

	var complaints []models.Complaint
	if err := query.Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("ошибка выборки жалоб для выгрузки: %w", err)
	}
	return complaints, nil
}
