package domain

import (
	"context"
	"time"
)

// Mailer sends a single plain-text email. Implementations may use SES or a
// no-op.
type Mailer interface {
	Send(to, subject, text string) error
}

// OrphanContainerAlert carries the details of a container event that was
// created but whose session attach failed.
type OrphanContainerAlert struct {
	ContainerEventID string
	ContainerTitle   string
	Date             time.Time
	Reason           string
}

// NotificationService delivers operational alerts about the calendar.
type NotificationService interface {
	NotifyOrphanContainer(ctx context.Context, alert *OrphanContainerAlert) error
}
