// internal/app/confirmation_service.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shift_notifier/internal/domain/confirmation"
	"shift_notifier/internal/domain/employee"
	idb "shift_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

var ErrUnknownSender = fmt.Errorf("sender is not a registered employee")

// Acknowledgement texts accepted from recipients, compared
// case-insensitively after trimming.
var ackTexts = map[string]bool{
	"confirm":   true,
	"confirmed": true,
	"yes":       true,
	"ok":        true,
}

// ConfirmationService handles the inbound side: recipient ID capture and
// confirmation recording from platform webhook events, plus the
// read/reset operations the HTTP layer exposes.
type ConfirmationService struct {
	employeeRepo employee.Repository
	confRepo     confirmation.Repository
	logger       *logrus.Logger
}

func NewConfirmationService(er employee.Repository, cr confirmation.Repository, logger *logrus.Logger) *ConfirmationService {
	return &ConfirmationService{employeeRepo: er, confRepo: cr, logger: logger}
}

// RegisterEmployee upserts an active employee for the given recipient ID.
func (s *ConfirmationService) RegisterEmployee(ctx context.Context, recipientID, name string) (*employee.Employee, error) {
	e := &employee.Employee{Name: strings.TrimSpace(name), RecipientID: recipientID, IsActive: true}
	if e.Name == "" {
		return nil, fmt.Errorf("employee name must not be empty")
	}
	if err := s.employeeRepo.Upsert(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to register employee: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"employee": e.Name, "recipient_id": recipientID}).
		Info("Employee registered from inbound message")
	return e, nil
}

// HandleInboundMessage processes one text message event from the
// platform webhook. "register <name>" registers the sender; an
// acknowledgement text records a confirmation for the current week.
// Anything else is logged for recipient ID capture and otherwise
// ignored.
func (s *ConfirmationService) HandleInboundMessage(ctx context.Context, recipientID, text string, at time.Time) error {
	trimmed := strings.TrimSpace(text)

	if name, ok := strings.CutPrefix(trimmed, "register "); ok {
		_, err := s.RegisterEmployee(ctx, recipientID, name)
		return err
	}

	if ackTexts[strings.ToLower(trimmed)] {
		return s.recordAck(ctx, recipientID, at)
	}

	s.logger.WithField("recipient_id", recipientID).Info("Captured recipient ID from inbound message")
	return nil
}

func (s *ConfirmationService) recordAck(ctx context.Context, recipientID string, at time.Time) error {
	e, err := s.employeeRepo.GetByRecipientID(ctx, recipientID)
	if err != nil {
		if err == idb.ErrEmployeeNotFound {
			s.logger.WithField("recipient_id", recipientID).
				Warn("Acknowledgement from unregistered recipient ignored")
			return ErrUnknownSender
		}
		return fmt.Errorf("failed to look up sender: %w", err)
	}

	c := &confirmation.Confirmation{
		EmployeeName: e.Name,
		ConfirmedAt:  at,
		WeekStart:    confirmation.WeekStartOf(at),
		Status:       confirmation.StatusConfirmed,
	}
	if err := s.confRepo.Record(ctx, c); err != nil {
		return fmt.Errorf("failed to record confirmation: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"employee":   e.Name,
		"week_start": c.WeekStart.Format("2006-01-02"),
	}).Info("Shift confirmation recorded")
	return nil
}

// ListConfirmations returns all confirmations, most recent first.
func (s *ConfirmationService) ListConfirmations(ctx context.Context) ([]*confirmation.Confirmation, error) {
	return s.confRepo.ListAll(ctx)
}

// ClearConfirmations removes every stored confirmation. This is an
// administrative reset, deliberately separate from clearing the staged
// roster.
func (s *ConfirmationService) ClearConfirmations(ctx context.Context) error {
	return s.confRepo.Clear(ctx)
}
