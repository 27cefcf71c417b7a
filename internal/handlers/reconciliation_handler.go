package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ota-reconciliation-backend/internal/apierror"
	"ota-reconciliation-backend/internal/services/matching"
	service "ota-reconciliation-backend/internal/services/reconciliation"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReconciliationHandler struct {
	service *service.ReconciliationService
}

func NewReconciliationHandler(s *service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// LimitUploads caps the request body size of upload routes.
func LimitUploads(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// Audit reconciles an uploaded OTA export ("source") against a PMS export ("system").
func (h *ReconciliationHandler) Audit(c *gin.Context) {
	source, err := h.formUpload(c, "source")
	if err != nil {
		respondError(c, err)
		return
	}
	system, err := h.formUpload(c, "system")
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.service.RunAudit(c.Request.Context(), service.AuditInput{Source: source, System: system})
	if err != nil {
		respondError(c, err)
		return
	}

	if wantsWorkbook(c) {
		data, err := service.AuditWorkbook(out.Result)
		if err != nil {
			respondError(c, err)
			return
		}
		sendWorkbook(c, "reconciliation_result.xlsx", data)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":    out.RunID,
		"cached":    out.Cached,
		"summary":   out.Result.Summary,
		"message":   out.Result.Summary.String(),
		"rows":      out.Result.Rows,
		"unmatched": out.Result.Unmatched,
	})
}

func (h *ReconciliationHandler) CompareDates(c *gin.Context) {
	system, err := h.formUpload(c, "system")
	if err != nil {
		respondError(c, err)
		return
	}
	ota, err := h.formUpload(c, "ota")
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := h.service.RunDateComparison(c.Request.Context(), service.DateInput{System: system, OTA: ota})
	if err != nil {
		respondError(c, err)
		return
	}

	if wantsWorkbook(c) {
		data, err := service.DateWorkbook(out.Comparison)
		if err != nil {
			respondError(c, err)
			return
		}
		sendWorkbook(c, "date_comparison.xlsx", data)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":     out.RunID,
		"cached":     out.Cached,
		"total":      out.Total,
		"compared":   out.Comparison.Compared,
		"mismatches": out.Comparison.Mismatches,
		"not_found":  out.Comparison.NotFound,
	})
}

// MeituanLookup accepts any number of "eml" files plus one "system" export.
func (h *ReconciliationHandler) MeituanLookup(c *gin.Context) {
	system, err := h.formUpload(c, "system")
	if err != nil {
		respondError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if tooLarge := uploadTooLarge(err); tooLarge != nil {
		respondError(c, tooLarge)
		return
	}
	if err != nil || len(form.File["eml"]) == 0 {
		respondError(c, apierror.NewAPIError(apierror.ErrInvalidInput, "at least one eml file is required", nil))
		return
	}
	emails := make([]service.Upload, 0, len(form.File["eml"]))
	for _, fh := range form.File["eml"] {
		u, err := readFileHeader(fh)
		if err != nil {
			respondError(c, err)
			return
		}
		emails = append(emails, u)
	}

	out, err := h.service.RunMeituanLookup(c.Request.Context(), service.MeituanInput{Emails: emails, System: system})
	if err != nil {
		respondError(c, err)
		return
	}

	if wantsWorkbook(c) {
		data, err := service.MeituanWorkbook(out.Result)
		if err != nil {
			respondError(c, err)
			return
		}
		sendWorkbook(c, "meituan_match_results.xlsx", data)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":         out.RunID,
		"cached":         out.Cached,
		"numbers":        out.Numbers,
		"skipped_emails": out.SkippedEmails,
		"rows":           out.Result.Rows,
		"not_found":      out.Result.NotFound,
	})
}

func (h *ReconciliationHandler) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := h.service.ListRuns(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs})
}

func (h *ReconciliationHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewAPIError(apierror.ErrInvalidInput, "invalid run ID", nil))
		return
	}

	run, err := h.service.GetRun(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (h *ReconciliationHandler) ListMatches(c *gin.Context) {
	id, err := uuid.Parse(c.Param("runId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewAPIError(apierror.ErrInvalidInput, "invalid run ID", nil))
		return
	}

	logs, err := h.service.ListMatches(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": logs})
}

func (h *ReconciliationHandler) formUpload(c *gin.Context, field string) (service.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if tooLarge := uploadTooLarge(err); tooLarge != nil {
			return service.Upload{}, tooLarge
		}
		return service.Upload{}, apierror.NewAPIError(apierror.ErrInvalidInput, fmt.Sprintf("file %q is required", field), nil)
	}
	return readFileHeader(fh)
}

// uploadTooLarge reports a request body cut off by LimitUploads, or nil.
func uploadTooLarge(err error) error {
	var maxErr *http.MaxBytesError
	if !errors.As(err, &maxErr) {
		return nil
	}
	return apierror.NewAPIError(apierror.ErrTooLarge,
		fmt.Sprintf("upload exceeds the %d MB limit", maxErr.Limit>>20), gin.H{"limit_bytes": maxErr.Limit})
}

func readFileHeader(fh *multipart.FileHeader) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, apierror.NewAPIError(apierror.ErrInvalidInput, "cannot open "+fh.Filename, nil)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, apierror.NewAPIError(apierror.ErrInvalidInput, "cannot read "+fh.Filename, nil)
	}
	return service.Upload{Filename: fh.Filename, Content: content}, nil
}

func wantsWorkbook(c *gin.Context) bool {
	return c.Query("format") == "xlsx"
}

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// toAPIError classifies service errors. Schema errors carry the missing
// canonical column names.
func toAPIError(err error) apierror.APIError {
	var (
		apiErr    apierror.APIError
		schemaErr *matching.SchemaError
		emptyErr  *matching.EmptyInputError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &schemaErr):
		return apierror.NewAPIError(apierror.ErrSchema, schemaErr.Error(), gin.H{"table": schemaErr.Table, "missing": schemaErr.Missing})
	case errors.As(err, &emptyErr):
		return apierror.NewAPIError(apierror.ErrEmptyInput, emptyErr.Error(), gin.H{"table": emptyErr.Table})
	case errors.Is(err, service.ErrInvalidUpload):
		return apierror.NewAPIError(apierror.ErrInvalidInput, err.Error(), nil)
	case errors.Is(err, service.ErrNoJLGNumbers):
		return apierror.NewAPIError(apierror.ErrUnprocessable, err.Error(), nil)
	case errors.Is(err, service.ErrRunNotFound):
		return apierror.NewAPIError(apierror.ErrNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrHistoryDisabled):
		return apierror.NewAPIError(apierror.ErrUnavailable, err.Error(), nil)
	default:
		return apierror.NewAPIError(apierror.ErrInternalServer, "internal server error", err.Error())
	}
}

func respondError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	status := apierror.MapErrorToHTTPStatus(apiErr)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		apiErr.Details = nil
	}
	c.JSON(status, apiErr)
}
