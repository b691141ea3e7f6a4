// internal/app/reminder_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"shift_notifier/internal/domain/confirmation"
	"shift_notifier/internal/domain/employee"
	"shift_notifier/internal/domain/messaging"

	"github.com/sirupsen/logrus"
)

const reminderText = "Hi %s, please confirm this week's shift schedule by replying \"confirm\". Thank you!"

// ReminderService nudges registered employees who have not confirmed
// the current week's schedule. Driven by the cron scheduler; the
// dispatch engine itself stays free of timing concerns.
type ReminderService struct {
	employeeRepo employee.Repository
	confRepo     confirmation.Repository
	transport    messaging.Transport
	logger       *logrus.Logger
	sendTimeout  time.Duration
}

func NewReminderService(
	er employee.Repository,
	cr confirmation.Repository,
	tr messaging.Transport,
	logger *logrus.Logger,
	sendTimeout time.Duration,
) *ReminderService {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &ReminderService{
		employeeRepo: er,
		confRepo:     cr,
		transport:    tr,
		logger:       logger,
		sendTimeout:  sendTimeout,
	}
}

// RemindUnconfirmed sends one reminder to every active employee without
// a confirmation for the week containing now. Send failures are logged
// and counted but do not abort the sweep.
func (s *ReminderService) RemindUnconfirmed(ctx context.Context, now time.Time) (reminded int, err error) {
	weekStart := confirmation.WeekStartOf(now)

	active, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}
	if len(active) == 0 {
		s.logger.Debug("Reminder sweep: no active employees")
		return 0, nil
	}

	confirmations, err := s.confRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list confirmations: %w", err)
	}
	confirmed := make(map[string]bool)
	for _, c := range confirmations {
		if c.WeekStart.Equal(weekStart) {
			confirmed[c.EmployeeName] = true
		}
	}

	for _, e := range active {
		if confirmed[e.Name] {
			continue
		}
		sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		sendErr := s.transport.Send(sendCtx, e.RecipientID, fmt.Sprintf(reminderText, e.Name))
		cancel()
		if sendErr != nil {
			s.logger.WithError(sendErr).WithField("employee", e.Name).Warn("Reminder send failed")
			continue
		}
		reminded++
	}

	s.logger.WithFields(logrus.Fields{
		"week_start": weekStart.Format("2006-01-02"),
		"reminded":   reminded,
		"active":     len(active),
	}).Info("Reminder sweep completed")
	return reminded, nil
}
