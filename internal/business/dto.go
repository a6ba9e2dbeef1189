package business

import (
	"time"

	"github.com/chylers/storefront-api/pkg/db/models"
	"github.com/google/uuid"
)

// SocialLinkView is a public social profile.
type SocialLinkView struct {
	ID           uuid.UUID `json:"id"`
	Platform     string    `json:"platform"`
	URL          string    `json:"url"`
	Username     *string   `json:"username,omitempty"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// InfoView is the public business profile with computed opening status.
type InfoView struct {
	CompanyName      string            `json:"company_name"`
	Address          string            `json:"address"`
	Phone            string            `json:"phone"`
	Email            string            `json:"email"`
	Hours            map[string]string `json:"hours"`
	WillCallLocation string            `json:"will_call_location"`
	WillCallHours    string            `json:"will_call_hours"`
	Certifications   []string          `json:"certifications"`
	AboutUs          string            `json:"about_us"`
	Story            *string           `json:"story"`
	Mission          *string           `json:"mission"`
	Values           []string          `json:"values"`
	FoundedYear      int               `json:"founded_year"`
	SocialMediaLinks []SocialLinkView  `json:"social_media_links"`
	IsOpenNow        bool              `json:"is_open_now"`
	NextOpenTime     *string           `json:"next_open_time"`
}

// SocialLinkRequest adds a social profile.
type SocialLinkRequest struct {
	Platform     string  `json:"platform" validate:"required,max=50"`
	URL          string  `json:"url" validate:"required,url"`
	Username     *string `json:"username,omitempty" validate:"omitempty,max=100"`
	IsActive     *bool   `json:"is_active,omitempty"`
	DisplayOrder int     `json:"display_order"`
}

// UpdateInfoRequest is the admin partial update of the business profile.
type UpdateInfoRequest struct {
	CompanyName      *string            `json:"company_name,omitempty" validate:"omitempty,min=1,max=200"`
	Address          *string            `json:"address,omitempty" validate:"omitempty,min=1"`
	Phone            *string            `json:"phone,omitempty" validate:"omitempty,min=1,max=50"`
	Email            *string            `json:"email,omitempty" validate:"omitempty,email"`
	Hours            *map[string]string `json:"hours,omitempty"`
	WillCallLocation *string            `json:"will_call_location,omitempty"`
	WillCallHours    *string            `json:"will_call_hours,omitempty"`
	Certifications   *[]string          `json:"certifications,omitempty"`
	AboutUs          *string            `json:"about_us,omitempty"`
	Story            *string            `json:"story,omitempty"`
	Mission          *string            `json:"mission,omitempty"`
	Values           *[]string          `json:"values,omitempty"`
	FoundedYear      *int               `json:"founded_year,omitempty" validate:"omitempty,min=1900,max=2100"`
}

func newSocialLinkView(m models.SocialMediaLink) SocialLinkView {
	return SocialLinkView{
		ID:           m.ID,
		Platform:     m.Platform,
		URL:          m.URL,
		Username:     m.Username,
		IsActive:     m.IsActive,
		DisplayOrder: m.DisplayOrder,
		CreatedAt:    m.CreatedAt,
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
