package scheduler

import (
	"context"
	"time"

	"shift_notifier/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler runs the weekly confirmation sweep on a cron spec.
// Timing lives here, at the edge; the dispatch and reminder services
// know nothing about schedules.
type ReminderScheduler struct {
	cronEngine *cron.Cron
	reminders  *app.ReminderService
	logger     *logrus.Logger
	cronSpec   string
}

func NewReminderScheduler(reminders *app.ReminderService, logger *logrus.Logger, cronSpec string) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		reminders:  reminders,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *ReminderScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for confirmation reminder sweep")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.reminders.RemindUnconfirmed(ctx, time.Now()); err != nil {
			s.logger.WithError(err).Error("Reminder sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpec).Info("Reminder scheduler started")
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running job to finish.
	<-ctx.Done()
	s.logger.Info("Reminder scheduler stopped")
}
