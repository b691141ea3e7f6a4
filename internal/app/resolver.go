// internal/app/resolver.go
package app

import (
	"context"

	"shift_notifier/internal/domain/employee"
	"shift_notifier/internal/domain/roster"

	"github.com/sirupsen/logrus"
)

// Resolve partitions valid rows into deliverable and unregistered using
// the directory capability, preserving input order. Lookups are not
// cached: the directory may change between batches. A lookup failure
// counts the row as unregistered rather than aborting the batch.
func Resolve(ctx context.Context, dir employee.Directory, log *logrus.Logger, rows []roster.ShiftRow) (deliverable, unregistered []roster.ShiftRow) {
	for _, row := range rows {
		known, err := dir.IsKnownRecipient(ctx, row.RecipientID)
		if err != nil {
			log.WithError(err).WithField("recipient_id", row.RecipientID).
				Warn("Directory lookup failed; treating recipient as unregistered")
			unregistered = append(unregistered, row)
			continue
		}
		if !known {
			unregistered = append(unregistered, row)
			continue
		}
		deliverable = append(deliverable, row)
	}
	return deliverable, unregistered
}
