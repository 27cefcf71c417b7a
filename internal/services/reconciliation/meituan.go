package reconciliation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ota-reconciliation-backend/internal/models"
	"ota-reconciliation-backend/internal/services/meituan"
)

var ErrNoJLGNumbers = errors.New("no (JLG) numbers found in the uploaded emails")

type MeituanInput struct {
	Emails []Upload
	System Upload
}

type MeituanOutput struct {
	RunID         uuid.UUID             `json:"run_id"`
	Cached        bool                  `json:"cached"`
	Numbers       []string              `json:"numbers"`
	SkippedEmails []string              `json:"skipped_emails"`
	Result        *meituan.LookupResult `json:"result"`
}

type meituanResult struct {
	Numbers []string
	Skipped []string
	Lookup  *meituan.LookupResult
}

// RunMeituanLookup extracts (JLG) booking numbers from Meituan notification
// emails and looks each one up in the PMS export. Unreadable emails are
// skipped and reported.
func (s *ReconciliationService) RunMeituanLookup(ctx context.Context, in MeituanInput) (*MeituanOutput, error) {
	uploads := make([]Upload, 0, len(in.Emails)+1)
	uploads = append(uploads, in.System)
	uploads = append(uploads, in.Emails...)
	digest := inputDigest(models.RunKindMeituan, uploads...)

	sourceName := ""
	if len(in.Emails) > 0 {
		sourceName = in.Emails[0].Filename
	}
	runID, err := s.startRun(models.RunKindMeituan, sourceName, in.System.Filename, digest)
	if err != nil {
		return nil, err
	}
	log := logrus.WithFields(logrus.Fields{"run_id": runID, "kind": models.RunKindMeituan})

	out := &MeituanOutput{RunID: runID}
	key := cacheKey(models.RunKindMeituan, digest)
	var res meituanResult
	if s.cached(ctx, key, &res) {
		out.Cached = true
	} else {
		if res, err = computeMeituan(log, in); err != nil {
			return nil, s.failRun(log, runID, err)
		}
		s.memoize(ctx, key, res)
	}
	out.Numbers, out.SkippedEmails, out.Result = res.Numbers, res.Skipped, res.Lookup

	found, missing := len(res.Lookup.Rows), len(res.Lookup.NotFound)
	summary := map[string]int{"numbers": len(res.Numbers), "found": found, "not_found": missing, "skipped_emails": len(res.Skipped)}
	if err := s.completeRun(runID, len(res.Numbers), found, missing, summary); err != nil {
		return nil, s.failRun(log, runID, err)
	}

	log.WithFields(logrus.Fields{"numbers": len(res.Numbers), "found": found, "cached": out.Cached}).Info("meituan lookup completed")
	return out, nil
}

func computeMeituan(log *logrus.Entry, in MeituanInput) (meituanResult, error) {
	res := meituanResult{Numbers: []string{}, Skipped: []string{}}
	seen := make(map[string]struct{})

	for _, e := range in.Emails {
		text, err := meituan.ParseEML(e.Content)
		if err != nil {
			log.WithError(err).WithField("file", e.Filename).Warn("skipping unreadable email")
			res.Skipped = append(res.Skipped, e.Filename)
			continue
		}
		for _, n := range meituan.ExtractJLGNumbers(text) {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			res.Numbers = append(res.Numbers, n)
		}
	}
	if len(res.Numbers) == 0 {
		return res, ErrNoJLGNumbers
	}

	system, err := readTable(in.System)
	if err != nil {
		return res, err
	}
	if res.Lookup, err = meituan.Lookup(system, res.Numbers); err != nil {
		return res, err
	}
	return res, nil
}
