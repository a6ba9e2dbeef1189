package contact

import (
	"time"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/chylers/storefront-api/pkg/enums"
	"github.com/google/uuid"
)

// CreateInquiryRequest is the public contact form payload.
type CreateInquiryRequest struct {
	Name        string            `json:"name" validate:"required,max=200"`
	Email       string            `json:"email" validate:"required,email"`
	Phone       *string           `json:"phone,omitempty" validate:"omitempty,max=20,phone"`
	Subject     *string           `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message     string            `json:"message" validate:"required,max=5000"`
	InquiryType enums.InquiryType `json:"inquiry_type,omitempty"`
	OrderNumber *string           `json:"order_number,omitempty" validate:"omitempty,max=50"`
}

// UpdateInquiryRequest is the admin triage payload.
type UpdateInquiryRequest struct {
	IsResolved *bool   `json:"is_resolved,omitempty"`
	AdminNotes *string `json:"admin_notes,omitempty" validate:"omitempty,max=5000"`
}

// InquiryDTO is the transport shape of a stored inquiry.
type InquiryDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Phone       *string           `json:"phone,omitempty"`
	Subject     string            `json:"subject"`
	Message     string            `json:"message"`
	InquiryType enums.InquiryType `json:"inquiry_type"`
	OrderNumber *string           `json:"order_number,omitempty"`
	IsResolved  bool              `json:"is_resolved"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
	ResolvedBy  *string           `json:"resolved_by,omitempty"`
	AdminNotes  *string           `json:"admin_notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func fromModel(m *models.ContactInquiry) *InquiryDTO {
	return &InquiryDTO{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Subject:     m.Subject,
		Message:     m.Message,
		InquiryType: m.InquiryType,
		OrderNumber: m.OrderNumber,
		IsResolved:  m.IsResolved,
		ResolvedAt:  m.ResolvedAt,
		ResolvedBy:  m.ResolvedBy,
		AdminNotes:  m.AdminNotes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
