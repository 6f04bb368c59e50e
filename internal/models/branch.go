package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branch представляет филиал сети
type Branch struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);index;not null"`
	Address     string    `json:"address" gorm:"type:varchar(500);not null"`
	City        string    `json:"city" gorm:"type:varchar(100);index;not null"`
	Phone       string    `json:"phone" gorm:"type:varchar(50)"`
	Email       string    `json:"email" gorm:"type:varchar(255)"`
	ManagerName string    `json:"manager_name" gorm:"type:varchar(100)"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	QRCodeURL   string    `json:"qr_code_url" gorm:"type:text"` // Ссылка формы жалоб, зашитая в QR-код
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName указывает имя таблицы
func (Branch) TableName() string {
	return "branches"
}

// BeforeCreate генерирует UUID
func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
