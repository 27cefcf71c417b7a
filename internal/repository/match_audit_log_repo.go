package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"ota-reconciliation-backend/internal/models"
)

const auditLogBatchSize = 500

type MatchAuditLogRepository struct {
	db *gorm.DB
}

func NewMatchAuditLogRepository(db *gorm.DB) *MatchAuditLogRepository {
	return &MatchAuditLogRepository{db: db}
}

func (r *MatchAuditLogRepository) BulkCreate(logs []models.MatchAuditLog) error {
	if len(logs) == 0 {
		return nil
	}
	for i := range logs {
		if logs[i].ID == uuid.Nil {
			logs[i].ID = uuid.New()
		}
	}
	return r.db.CreateInBatches(logs, auditLogBatchSize).Error
}

func (r *MatchAuditLogRepository) ListByRun(runID uuid.UUID) ([]models.MatchAuditLog, error) {
	var logs []models.MatchAuditLog
	err := r.db.Where("run_id = ?", runID).Order("source_row").Find(&logs).Error
	return logs, err
}
