package employee

import "time"

// Employee is a roster member addressable on the messaging platform.
// RecipientID is the platform-assigned opaque identifier captured when
// the employee first messages the bot.
type Employee struct {
	ID          int64
	Name        string
	RecipientID string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
