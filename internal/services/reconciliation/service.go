package reconciliation

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"ota-reconciliation-backend/internal/cache"
	"ota-reconciliation-backend/internal/models"
	"ota-reconciliation-backend/internal/repository"
)

var (
	ErrHistoryDisabled = errors.New("run history is not configured")
	ErrRunNotFound     = repository.ErrRunNotFound
)

const (
	defaultRunLimit = 50
	maxRunLimit     = 200
)

// RunStore persists run summaries. *repository.RunRepository satisfies it.
type RunStore interface {
	Create(run *models.ReconciliationRun) error
	Complete(id uuid.UUID, total, matched, unmatched int, summary datatypes.JSON) error
	Fail(id uuid.UUID, reason string) error
	GetByID(id uuid.UUID) (*models.ReconciliationRun, error)
	List(limit int) ([]models.ReconciliationRun, error)
}

// MatchLogStore persists per-row match decisions of audit runs.
type MatchLogStore interface {
	BulkCreate(logs []models.MatchAuditLog) error
	ListByRun(runID uuid.UUID) ([]models.MatchAuditLog, error)
}

type ReconciliationService struct {
	runs      RunStore
	matchLogs MatchLogStore
	cache     cache.Cache
	cacheTTL  time.Duration
}

type Option func(*ReconciliationService)

// WithHistory records every run and its match decisions.
func WithHistory(runs RunStore, matchLogs MatchLogStore) Option {
	return func(s *ReconciliationService) {
		s.runs = runs
		s.matchLogs = matchLogs
	}
}

// WithCache memoizes results by input content.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *ReconciliationService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func NewReconciliationService(opts ...Option) *ReconciliationService {
	s := &ReconciliationService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// inputDigest identifies a run's inputs by content and file format. The base
// name does not count, the extension does since it selects the parser.
func inputDigest(kind string, uploads ...Upload) string {
	h := sha256.New()
	h.Write([]byte(kind))
	var size [8]byte
	for _, u := range uploads {
		for _, part := range [][]byte{[]byte(strings.ToLower(filepath.Ext(u.Filename))), u.Content} {
			binary.BigEndian.PutUint64(size[:], uint64(len(part)))
			h.Write(size[:])
			h.Write(part)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func cacheKey(kind, digest string) string { return kind + ":" + digest }

// cached loads a memoized result into dst. Cache failures only cost a recompute.
func (s *ReconciliationService) cached(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dst)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		logrus.WithError(err).WithField("key", key).Warn("cache read failed")
	}
	return err == nil
}

func (s *ReconciliationService) memoize(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (s *ReconciliationService) startRun(kind, sourceName, systemName, digest string) (uuid.UUID, error) {
	run := &models.ReconciliationRun{
		ID:             uuid.New(),
		Kind:           kind,
		SourceFilename: sourceName,
		SystemFilename: systemName,
		InputDigest:    digest,
		Status:         models.RunStatusProcessing,
		StartedAt:      time.Now(),
	}
	if s.runs == nil {
		return run.ID, nil
	}
	if err := s.runs.Create(run); err != nil {
		return uuid.Nil, fmt.Errorf("failed to record run: %w", err)
	}
	return run.ID, nil
}

func (s *ReconciliationService) completeRun(id uuid.UUID, total, matched, unmatched int, summary interface{}) error {
	if s.runs == nil {
		return nil
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if err := s.runs.Complete(id, total, matched, unmatched, datatypes.JSON(payload)); err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// failRun marks the run failed and returns the original error.
func (s *ReconciliationService) failRun(log *logrus.Entry, id uuid.UUID, cause error) error {
	log.WithError(cause).Warn("reconciliation run failed")
	if s.runs != nil {
		if err := s.runs.Fail(id, cause.Error()); err != nil {
			log.WithError(err).Error("failed to mark run as failed")
		}
	}
	return cause
}

func (s *ReconciliationService) GetRun(id uuid.UUID) (*models.ReconciliationRun, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	return s.runs.GetByID(id)
}

// ListRuns returns recent runs, newest first. limit is clamped to [1, 200].
func (s *ReconciliationService) ListRuns(limit int) ([]models.ReconciliationRun, error) {
	if s.runs == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = defaultRunLimit
	}
	if limit > maxRunLimit {
		limit = maxRunLimit
	}
	return s.runs.List(limit)
}

func (s *ReconciliationService) ListMatches(runID uuid.UUID) ([]models.MatchAuditLog, error) {
	if s.runs == nil || s.matchLogs == nil {
		return nil, ErrHistoryDisabled
	}
	if _, err := s.runs.GetByID(runID); err != nil {
		return nil, err
	}
	return s.matchLogs.ListByRun(runID)
}
