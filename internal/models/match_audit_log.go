package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MatchAuditLog records which PMS booking, if any, enriched one OTA row and by which key.
type MatchAuditLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RunID     uuid.UUID      `gorm:"type:uuid;index" json:"run_id"`
	SourceRow int            `json:"source_row"`
	OrderID   string         `json:"order_id"`
	BookingID string         `json:"booking_id,omitempty"`
	MatchedBy string         `gorm:"index" json:"matched_by"`
	Status    string         `json:"status"`
	Details   datatypes.JSON `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
