package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"ota-reconciliation-backend/internal/models"
	"ota-reconciliation-backend/internal/services/matching"
)

type AuditInput struct {
	Source Upload
	System Upload
}

type AuditOutput struct {
	RunID  uuid.UUID             `json:"run_id"`
	Cached bool                  `json:"cached"`
	Result *matching.AuditResult `json:"result"`
}

// RunAudit reconciles an OTA order export against the PMS export.
func (s *ReconciliationService) RunAudit(ctx context.Context, in AuditInput) (*AuditOutput, error) {
	digest := inputDigest(models.RunKindAudit, in.Source, in.System)
	runID, err := s.startRun(models.RunKindAudit, in.Source.Filename, in.System.Filename, digest)
	if err != nil {
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{"run_id": runID, "kind": models.RunKindAudit})

	out := &AuditOutput{RunID: runID}
	key := cacheKey(models.RunKindAudit, digest)
	var result matching.AuditResult
	if s.cached(ctx, key, &result) {
		out.Result, out.Cached = &result, true
	} else {
		computed, err := computeAudit(in)
		if err != nil {
			return nil, s.failRun(log, runID, err)
		}
		out.Result = computed
		s.memoize(ctx, key, computed)
	}

	summary := out.Result.Summary
	if err := s.recordMatches(runID, out.Result); err != nil {
		return nil, s.failRun(log, runID, err)
	}
	if err := s.completeRun(runID, summary.Total, summary.Matched, summary.Unmatched, summary); err != nil {
		return nil, s.failRun(log, runID, err)
	}

	log.WithFields(logrus.Fields{
		"total":     summary.Total,
		"matched":   summary.Matched,
		"unmatched": summary.Unmatched,
		"cached":    out.Cached,
	}).Info("audit completed")
	return out, nil
}

func computeAudit(in AuditInput) (*matching.AuditResult, error) {
	source, err := readTable(in.Source)
	if err != nil {
		return nil, err
	}
	system, err := readTable(in.System)
	if err != nil {
		return nil, err
	}
	return matching.Audit(source, matching.CtripSourceAliases, system, matching.SystemAliases)
}

func (s *ReconciliationService) recordMatches(runID uuid.UUID, result *matching.AuditResult) error {
	if s.matchLogs == nil {
		return nil
	}
	logs := make([]models.MatchAuditLog, 0, len(result.Rows))
	for _, row := range result.Rows {
		details, _ := json.Marshal(map[string]string{
			"guest_name":    row.GuestName,
			"checkout_date": row.CheckoutDate,
			"room_number":   row.RoomNumber,
		})
		logs = append(logs, models.MatchAuditLog{
			ID:        uuid.New(),
			RunID:     runID,
			SourceRow: row.SourceRow,
			OrderID:   row.OrderID,
			BookingID: row.BookingID,
			MatchedBy: row.MatchedBy,
			Status:    row.Status,
			Details:   datatypes.JSON(details),
		})
	}
	if err := s.matchLogs.BulkCreate(logs); err != nil {
		return fmt.Errorf("failed to record match decisions: %w", err)
	}
	return nil
}
