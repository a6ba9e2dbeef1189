package models

import (
	"time"

	"github.com/chylers/storefront-api/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookEvent is the durable record of one inbound webhook delivery.
type WebhookEvent struct {
	ID           uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Source       string                 `gorm:"column:source;not null"`
	EventType    enums.WebhookEventType `gorm:"column:event_type;not null"`
	EventID      string                 `gorm:"column:event_id;not null;uniqueIndex"`
	Payload      map[string]any         `gorm:"column:payload;type:jsonb;serializer:json;not null"`
	Headers      map[string]string      `gorm:"column:headers;type:jsonb;serializer:json"`
	Processed    bool                   `gorm:"column:processed;not null;default:false"`
	ProcessedAt  *time.Time             `gorm:"column:processed_at"`
	ErrorMessage *string                `gorm:"column:error_message"`
	RetryCount   int                    `gorm:"column:retry_count;not null;default:0"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (e *WebhookEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
