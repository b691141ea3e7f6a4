// internal/infra/httpapi/handlers.go
package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"shift_notifier/internal/app"
	"shift_notifier/internal/domain/dispatch"
	"shift_notifier/internal/domain/roster"
	"shift_notifier/internal/infra/ingest"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler carries the application services the HTTP surface drives.
type Handler struct {
	preview       *app.PreviewService
	dispatcher    *app.DispatchService
	confirmations *app.ConfirmationService
	logger        *logrus.Logger
}

func NewHandler(
	preview *app.PreviewService,
	dispatcher *app.DispatchService,
	confirmations *app.ConfirmationService,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		preview:       preview,
		dispatcher:    dispatcher,
		confirmations: confirmations,
		logger:        logger,
	}
}

type sendMessagesRequest struct {
	Data []roster.ShiftRow `json:"data"`
}

type sendMessagesResponse struct {
	Status                string        `json:"status"`
	Message               string        `json:"message"`
	Details               *batchDetails `json:"details,omitempty"`
	Warnings              []string      `json:"warnings,omitempty"`
	Errors                []string      `json:"errors,omitempty"`
	UnregisteredEmployees []string      `json:"unregistered_employees,omitempty"`
}

type batchDetails struct {
	Successful int `json:"successful"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// Upload receives the roster workbook, parses it and stages the rows as
// the preview buffer. Structural problems (bad extension, missing
// columns, nothing parseable) are upload errors; per-row validity is
// judged later, at send time.
func (h *Handler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "No file uploaded"})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "No file selected"})
		return
	}
	if !ingest.AllowedFile(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid file type. Please upload .xlsx or .xls files only.",
		})
		return
	}

	rows, err := ingest.ReadRoster(file)
	if err != nil {
		h.logger.WithError(err).WithField("filename", header.Filename).Warn("Roster upload rejected")
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	h.preview.Stage(rows)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": fmt.Sprintf("Successfully uploaded and validated %d records", len(rows)),
		"data":    rows,
	})
}

// SendMessages dispatches one batch. The body may carry the rows
// explicitly; otherwise the staged preview buffer is used. The preview
// buffer survives a transport-failure batch so the operator can retry.
func (h *Handler) SendMessages(c *gin.Context) {
	var req sendMessagesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("invalid request body: %s", err.Error()),
			})
			return
		}
	}

	rows := req.Data
	if len(rows) == 0 {
		staged, err := h.preview.Rows()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "No data available. Please upload a file first.",
			})
			return
		}
		rows = staged
	}

	summary, err := h.dispatcher.Dispatch(c.Request.Context(), rows)
	if err != nil {
		if err == app.ErrEmptyBatch {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "No rows to process."})
			return
		}
		h.logger.WithError(err).Error("Dispatch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal server error occurred"})
		return
	}

	h.preview.CompleteDispatch(summary.Retryable())

	c.JSON(http.StatusOK, sendMessagesResponse{
		Status:  string(summary.Status()),
		Message: summaryMessage(summary),
		Details: &batchDetails{
			Successful: summary.SentCount,
			Skipped:    summary.SkippedCount,
			Failed:     summary.FailedCount,
		},
		Warnings:              summary.Warnings,
		Errors:                summary.Errors,
		UnregisteredEmployees: summary.UnregisteredRecipients,
	})
}

func summaryMessage(s *dispatch.Summary) string {
	total := s.SentCount + s.SkippedCount + s.FailedCount
	switch s.Status() {
	case dispatch.StatusSuccess:
		return fmt.Sprintf("Successfully sent %d messages to all employees!", s.SentCount)
	case dispatch.StatusWarning:
		return fmt.Sprintf("Sent %d of %d messages. %d skipped.", s.SentCount, total, s.SkippedCount)
	default:
		if s.FailedCount > 0 {
			return fmt.Sprintf("Sent %d of %d messages. %d failed.", s.SentCount, total, s.FailedCount)
		}
		return "No valid rows found in the submitted data."
	}
}

// ClearData drops the staged preview buffer. Confirmations are
// deliberately untouched; resetting those is a separate admin action.
func (h *Handler) ClearData(c *gin.Context) {
	h.preview.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Data cleared successfully"})
}

type confirmationView struct {
	EmployeeName string `json:"employee_name"`
	ConfirmedAt  string `json:"confirmed_at"`
	WeekStart    string `json:"week_start"`
	Status       string `json:"status"`
}

// ListConfirmations returns every recorded confirmation, most recent
// first.
func (h *Handler) ListConfirmations(c *gin.Context) {
	confirmations, err := h.confirmations.ListConfirmations(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list confirmations")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal server error occurred"})
		return
	}

	views := make([]confirmationView, 0, len(confirmations))
	for _, conf := range confirmations {
		views = append(views, confirmationView{
			EmployeeName: conf.EmployeeName,
			ConfirmedAt:  conf.ConfirmedAt.Format(time.RFC3339),
			WeekStart:    conf.WeekStart.Format("2006-01-02"),
			Status:       conf.Status,
		})
	}
	c.JSON(http.StatusOK, views)
}

// ClearConfirmations is the administrative reset of the confirmation
// store.
func (h *Handler) ClearConfirmations(c *gin.Context) {
	if err := h.confirmations.ClearConfirmations(c.Request.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to clear confirmations")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Internal server error occurred"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Confirmations cleared successfully"})
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
