package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BillingEvent is one stored outbox row awaiting dispatch.
type BillingEvent struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	EventType  string            `gorm:"type:text;not null" json:"event_type"`
	Payload    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"payload"`
	DedupeKey  *string           `gorm:"type:text;uniqueIndex:ux_billing_events_dedupe" json:"dedupe_key,omitempty"`
	Published  bool              `gorm:"not null;default:false" json:"published"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (BillingEvent) TableName() string { return "billing_events" }
