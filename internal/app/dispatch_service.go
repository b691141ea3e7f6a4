// internal/app/dispatch_service.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shift_notifier/internal/domain/dispatch"
	"shift_notifier/internal/domain/employee"
	"shift_notifier/internal/domain/messaging"
	"shift_notifier/internal/domain/roster"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Custom application-level errors for the dispatch engine
var ErrEmptyBatch = fmt.Errorf("no rows supplied in batch")

var (
	dispatchRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_rows_total",
			Help: "Roster rows processed, by terminal outcome",
		},
		[]string{"outcome"},
	)
	dispatchBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_batches_total",
			Help: "Dispatch batches processed, by derived status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(dispatchRowsTotal, dispatchBatchesTotal)
}

// DispatchService drives the end-to-end send for one batch: validate,
// resolve recipients, format, send, account. It is stateless between
// calls; retry is the caller's decision (resubmit the failed rows).
type DispatchService struct {
	directory   employee.Directory
	transport   messaging.Transport
	logger      *logrus.Logger
	concurrency int
	sendTimeout time.Duration
}

func NewDispatchService(
	dir employee.Directory,
	tr messaging.Transport,
	logger *logrus.Logger,
	concurrency int,
	sendTimeout time.Duration,
) *DispatchService {
	if concurrency < 1 {
		concurrency = 1
	}
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &DispatchService{
		directory:   dir,
		transport:   tr,
		logger:      logger,
		concurrency: concurrency,
		sendTimeout: sendTimeout,
	}
}

// Dispatch processes one batch and returns its summary. Each deliverable
// row is attempted exactly once; a failed send never aborts the batch.
// An empty input is ErrEmptyBatch, distinct from "all rows invalid"
// which still yields a normal summary.
func (s *DispatchService) Dispatch(ctx context.Context, rows []roster.ShiftRow) (*dispatch.Summary, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBatch
	}

	summary := &dispatch.Summary{}

	// 1. Validation skips.
	valid, rejected := roster.Validate(rows)
	for i := range rejected {
		rej := rejected[i]
		summary.SkippedCount++
		summary.Outcomes = append(summary.Outcomes, dispatch.Outcome{
			Row:        rej.Row,
			Kind:       dispatch.OutcomeSkipped,
			SkipReason: dispatch.SkipValidation,
			Reject:     &rej,
		})
		s.logger.WithFields(logrus.Fields{
			"employee": rej.Row.EmployeeName,
			"reason":   rej.Reason,
			"field":    rej.Field,
		}).Debug("Row rejected by validation")
	}

	// 2. Resolution skips.
	deliverable, unregistered := Resolve(ctx, s.directory, s.logger, valid)
	seenNames := make(map[string]bool)
	for _, row := range unregistered {
		summary.SkippedCount++
		summary.Warnings = append(summary.Warnings, row.EmployeeName)
		if !seenNames[row.EmployeeName] {
			seenNames[row.EmployeeName] = true
			summary.UnregisteredRecipients = append(summary.UnregisteredRecipients, row.EmployeeName)
		}
		summary.Outcomes = append(summary.Outcomes, dispatch.Outcome{
			Row:        row,
			Kind:       dispatch.OutcomeSkipped,
			SkipReason: dispatch.SkipUnregistered,
		})
	}

	// 3. Send one message per deliverable row. The errgroup limit bounds
	// concurrency; with a limit of 1 rows are attempted in input order,
	// which also keeps the errors list ordered.
	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for _, row := range deliverable {
		row := row
		group.Go(func() error {
			err := s.sendOne(groupCtx, row)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.FailedCount++
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", row.EmployeeName, err))
				summary.Outcomes = append(summary.Outcomes, dispatch.Outcome{
					Row:  row,
					Kind: dispatch.OutcomeFailed,
					Err:  err,
				})
				return nil // row failure never fails the batch
			}
			summary.SentCount++
			summary.Outcomes = append(summary.Outcomes, dispatch.Outcome{
				Row:  row,
				Kind: dispatch.OutcomeSent,
			})
			return nil
		})
	}
	group.Wait() // workers always return nil

	dispatchRowsTotal.WithLabelValues("sent").Add(float64(summary.SentCount))
	dispatchRowsTotal.WithLabelValues("skipped").Add(float64(summary.SkippedCount))
	dispatchRowsTotal.WithLabelValues("failed").Add(float64(summary.FailedCount))
	dispatchBatchesTotal.WithLabelValues(string(summary.Status())).Inc()

	s.logger.WithFields(logrus.Fields{
		"rows":    len(rows),
		"sent":    summary.SentCount,
		"skipped": summary.SkippedCount,
		"failed":  summary.FailedCount,
		"status":  summary.Status(),
	}).Info("Dispatch batch completed")

	return summary, nil
}

// sendOne formats and sends the message for a single row, bounding the
// transport call so one hung recipient cannot stall the whole batch.
func (s *DispatchService) sendOne(ctx context.Context, row roster.ShiftRow) error {
	text := roster.FormatMessage(row)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.transport.Send(sendCtx, row.RecipientID, text); err != nil {
		s.logger.WithError(err).WithField("employee", row.EmployeeName).Error("Message send failed")
		return err
	}
	s.logger.WithField("employee", row.EmployeeName).Debug("Message sent")
	return nil
}
