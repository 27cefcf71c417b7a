package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ota-reconciliation-backend/internal/models"
)

var ErrRunNotFound = errors.New("reconciliation run not found")

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Create(run *models.ReconciliationRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.Create(run).Error
}

// Complete stores the final counts and summary of a run.
func (r *RunRepository) Complete(id uuid.UUID, total, matched, unmatched int, summary datatypes.JSON) error {
	now := time.Now()
	return r.db.Model(&models.ReconciliationRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          models.RunStatusCompleted,
			"total_records":   total,
			"matched_count":   matched,
			"unmatched_count": unmatched,
			"summary":         summary,
			"completed_at":    now,
		}).Error
}

func (r *RunRepository) Fail(id uuid.UUID, reason string) error {
	now := time.Now()
	return r.db.Model(&models.ReconciliationRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       models.RunStatusFailed,
			"error":        reason,
			"completed_at": now,
		}).Error
}

func (r *RunRepository) GetByID(id uuid.UUID) (*models.ReconciliationRun, error) {
	var run models.ReconciliationRun
	err := r.db.First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// List returns the most recent runs first.
func (r *RunRepository) List(limit int) ([]models.ReconciliationRun, error) {
	var runs []models.ReconciliationRun
	err := r.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
