package models

import (
	"time"

	dbtypes "github.com/chylers/storefront-api/pkg/db/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BusinessInfo is the single row describing the company.
type BusinessInfo struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CompanyName      string             `gorm:"column:company_name;not null"`
	Address          string             `gorm:"column:address;not null"`
	Phone            string             `gorm:"column:phone;not null"`
	Email            string             `gorm:"column:email;not null"`
	Hours            map[string]string  `gorm:"column:hours;type:jsonb;serializer:json"`
	WillCallLocation string             `gorm:"column:will_call_location"`
	WillCallHours    string             `gorm:"column:will_call_hours"`
	Certifications   dbtypes.StringList `gorm:"column:certifications;type:jsonb;not null"`
	AboutUs          string             `gorm:"column:about_us"`
	Story            string             `gorm:"column:story"`
	Mission          string             `gorm:"column:mission"`
	Values           dbtypes.StringList `gorm:"column:company_values;type:jsonb;not null"`
	FoundedYear      int                `gorm:"column:founded_year"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (BusinessInfo) TableName() string { return "business_info" }

func (b *BusinessInfo) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// SocialMediaLink is one public profile shown on the site.
type SocialMediaLink struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Platform     string    `gorm:"column:platform;not null"`
	URL          string    `gorm:"column:url;not null"`
	Username     *string   `gorm:"column:username"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *SocialMediaLink) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
