package reconciliation

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ota-reconciliation-backend/internal/models"
	"ota-reconciliation-backend/internal/services/matching"
)

type DateInput struct {
	System Upload
	OTA    Upload
}

type DateOutput struct {
	RunID      uuid.UUID                `json:"run_id"`
	Cached     bool                     `json:"cached"`
	Comparison *matching.DateComparison `json:"comparison"`
	Total      int                      `json:"total"`
}

type dateResult struct {
	Comparison *matching.DateComparison
	Total      int
}

// RunDateComparison joins the PMS export to the OTA export on booking id and
// reports date or price disagreements.
func (s *ReconciliationService) RunDateComparison(ctx context.Context, in DateInput) (*DateOutput, error) {
	digest := inputDigest(models.RunKindDateCompare, in.System, in.OTA)
	runID, err := s.startRun(models.RunKindDateCompare, in.OTA.Filename, in.System.Filename, digest)
	if err != nil {
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{"run_id": runID, "kind": models.RunKindDateCompare})

	out := &DateOutput{RunID: runID}
	key := cacheKey(models.RunKindDateCompare, digest)
	var res dateResult
	if s.cached(ctx, key, &res) {
		out.Cached = true
	} else {
		if res, err = computeDates(in); err != nil {
			return nil, s.failRun(log, runID, err)
		}
		s.memoize(ctx, key, res)
	}
	out.Comparison, out.Total = res.Comparison, res.Total

	summary := map[string]int{
		"total":      res.Total,
		"compared":   res.Comparison.Compared,
		"mismatches": len(res.Comparison.Mismatches),
		"not_found":  len(res.Comparison.NotFound),
	}
	if err := s.completeRun(runID, res.Total, res.Comparison.Compared, len(res.Comparison.NotFound), summary); err != nil {
		return nil, s.failRun(log, runID, err)
	}

	log.WithFields(logrus.Fields{
		"total":      res.Total,
		"mismatches": len(res.Comparison.Mismatches),
		"not_found":  len(res.Comparison.NotFound),
		"cached":     out.Cached,
	}).Info("date comparison completed")
	return out, nil
}

func computeDates(in DateInput) (dateResult, error) {
	system, err := readTable(in.System)
	if err != nil {
		return dateResult{}, err
	}
	ota, err := readTable(in.OTA)
	if err != nil {
		return dateResult{}, err
	}

	primary, err := matching.BuildDateTable(system, matching.DateSystemAliases, matching.SystemDateColumns)
	if err != nil {
		return dateResult{}, err
	}
	secondary, err := matching.BuildDateTable(ota, matching.DateOTAAliases, matching.OTADateColumns)
	if err != nil {
		return dateResult{}, err
	}
	return dateResult{Comparison: matching.CompareDates(primary, secondary), Total: len(primary)}, nil
}
