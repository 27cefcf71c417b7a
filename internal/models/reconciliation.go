package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RunKindAudit       = "audit"
	RunKindDateCompare = "date_compare"
	RunKindMeituan     = "meituan"

	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

// ReconciliationRun is the persisted summary of one reconciliation. Uploaded
// tables themselves are never stored.
type ReconciliationRun struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind           string         `gorm:"index" json:"kind"`
	SourceFilename string         `json:"source_filename"`
	SystemFilename string         `json:"system_filename"`
	InputDigest    string         `gorm:"index" json:"input_digest"`
	TotalRecords   int            `json:"total_records"`
	MatchedCount   int            `json:"matched_count"`
	UnmatchedCount int            `json:"unmatched_count"`
	Summary        datatypes.JSON `json:"summary,omitempty"`
	Status         string         `gorm:"index" json:"status"`
	Error          string         `json:"error,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
