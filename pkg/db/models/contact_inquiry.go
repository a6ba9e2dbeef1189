package models

import (
	"time"

	"github.com/chylers/storefront-api/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactInquiry is a message submitted through the public contact form.
type ContactInquiry struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	Email       string            `gorm:"column:email;not null"`
	Phone       *string           `gorm:"column:phone"`
	Subject     string            `gorm:"column:subject;not null"`
	Message     string            `gorm:"column:message;not null"`
	InquiryType enums.InquiryType `gorm:"column:inquiry_type;not null;default:'general'"`
	OrderNumber *string           `gorm:"column:order_number"`
	IsResolved  bool              `gorm:"column:is_resolved;not null;default:false"`
	ResolvedAt  *time.Time        `gorm:"column:resolved_at"`
	ResolvedBy  *string           `gorm:"column:resolved_by"`
	AdminNotes  *string           `gorm:"column:admin_notes"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (ContactInquiry) TableName() string { return "contact_inquiries" }

func (c *ContactInquiry) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.InquiryType == "" {
		c.InquiryType = enums.InquiryTypeGeneral
	}
	return nil
}
