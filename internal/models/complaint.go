package models

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Типы жалоб (фиксированный перечень формы)
const (
	ComplaintTypeProductQuality = "product_quality"
	ComplaintTypeServiceIssue   = "service_issue"
	ComplaintTypeStaffBehavior  = "staff_behavior"
	ComplaintTypePricingDispute = "pricing_dispute"
	ComplaintTypeCleanliness    = "cleanliness"
	ComplaintTypeWaitingTime    = "waiting_time"
	ComplaintTypeOther          = "other"
)

// Статусы обработки жалобы
const (
	ComplaintStatusPending    = "pending"
	ComplaintStatusInProgress = "in_progress"
	ComplaintStatusResolved   = "resolved"
	ComplaintStatusClosed     = "closed"
)

// Приоритеты жалобы
const (
	ComplaintPriorityLow    = "low"
	ComplaintPriorityMedium = "medium"
	ComplaintPriorityHigh   = "high"
	ComplaintPriorityUrgent = "urgent"
)

// ComplaintTypes список допустимых типов жалоб
var ComplaintTypes = []string{
	ComplaintTypeProductQuality,
	ComplaintTypeServiceIssue,
	ComplaintTypeStaffBehavior,
	ComplaintTypePricingDispute,
	ComplaintTypeCleanliness,
	ComplaintTypeWaitingTime,
	ComplaintTypeOther,
}

// ComplaintStatuses список допустимых статусов
var ComplaintStatuses = []string{
	ComplaintStatusPending,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
	ComplaintStatusClosed,
}

// ComplaintPriorities список допустимых приоритетов
var ComplaintPriorities = []string{
	ComplaintPriorityLow,
	ComplaintPriorityMedium,
	ComplaintPriorityHigh,
	ComplaintPriorityUrgent,
}

// IsValidComplaintType проверяет принадлежность типа жалобы перечню
func IsValidComplaintType(t string) bool {
	return containsString(ComplaintTypes, t)
}

// IsValidComplaintStatus проверяет принадлежность статуса перечню
func IsValidComplaintStatus(s string) bool {
	return containsString(ComplaintStatuses, s)
}

// IsValidComplaintPriority проверяет принадлежность приоритета перечню
func IsValidComplaintPriority(p string) bool {
	return containsString(ComplaintPriorities, p)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// Attachment фото жалобы во внешнем хранилище: ссылка + идентификатор для удаления
type Attachment struct {
	ImageURL string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

// AttachmentList хранится в JSONB колонке
type AttachmentList []Attachment

// Value сериализует список вложений в JSONB
func (al AttachmentList) Value() (driver.Value, error) {
	if al == nil {
		al = AttachmentList{}
	}
	return json.Marshal(al)
}

// Scan читает список вложений из JSONB
func (al *AttachmentList) Scan(value interface{}) error {
	if value == nil {
		*al = AttachmentList{}
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal AttachmentList value: %w", err)
	}
	return json.Unmarshal(bytes, al)
}

// DynamicFields произвольные поля формы (вопросы конкретного филиала),
// хранятся как schemaless JSONB без фиксированной схемы
type DynamicFields map[string]interface{}

// Value сериализует динамические поля в JSONB
func (df DynamicFields) Value() (driver.Value, error) {
	if df == nil {
		df = DynamicFields{}
	}
	return json.Marshal(df)
}

// Scan читает динамические поля из JSONB
func (df *DynamicFields) Scan(value interface{}) error {
	if value == nil {
		*df = DynamicFields{}
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("failed to unmarshal DynamicFields value: %w", err)
	}
	return json.Unmarshal(bytes, df)
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported source type")
	}
}

// Complaint представляет жалобу клиента
type Complaint struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey"`
	ComplaintNumber string         `json:"complaint_number" gorm:"type:varchar(64);uniqueIndex;not null"` // Номер для клиента, назначается один раз
	BranchID        string         `json:"branch_id" gorm:"type:uuid;index;not null"`
	CustomerName    string         `json:"customer_name" gorm:"type:varchar(100);not null"`
	CustomerEmail   string         `json:"customer_email" gorm:"type:varchar(255)"`
	CustomerPhone   string         `json:"customer_phone" gorm:"type:varchar(50)"`
	ComplaintType   string         `json:"complaint_type" gorm:"type:varchar(50);index;not null"`
	Priority        string         `json:"priority" gorm:"type:varchar(20);index;default:'medium'"`
	Status          string         `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	Description     string         `json:"description" gorm:"type:text"`
	PurchaseDate    *time.Time     `json:"purchase_date,omitempty"`
	ReceiptNumber   string         `json:"receipt_number" gorm:"type:varchar(100)"`
	Attachments     AttachmentList `json:"attachments" gorm:"type:jsonb"`
	DynamicFields   DynamicFields  `json:"dynamic_fields" gorm:"type:jsonb"`
	Resolution      string         `json:"resolution" gorm:"type:text"`
	AdminNotes      string         `json:"admin_notes" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	// Связи
	Branch *Branch `json:"branch,omitempty" gorm:"foreignKey:BranchID;references:ID"`
}

// TableName указывает имя таблицы
func (Complaint) TableName() string {
	return "complaints"
}

// BeforeCreate генерирует UUID и номер жалобы
func (c *Complaint) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.ComplaintNumber == "" {
		c.ComplaintNumber = GenerateComplaintNumber()
	}
	return nil
}

const complaintNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateComplaintNumber формирует номер вида COMP-<миллисекунды>-<4 случайных символа>.
// Уникальность практическая, без повторной генерации при коллизии
func GenerateComplaintNumber() string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand недоступен только при деградации ОС, подставляем время
		nano := time.Now().UnixNano()
		for i := range suffix {
			suffix[i] = complaintNumberAlphabet[int(nano>>uint(i*8))%len(complaintNumberAlphabet)]
		}
	} else {
		for i := range suffix {
			suffix[i] = complaintNumberAlphabet[int(suffix[i])%len(complaintNumberAlphabet)]
		}
	}
	return fmt.Sprintf("COMP-%d-%s", time.Now().UnixMilli(), string(suffix))
}
