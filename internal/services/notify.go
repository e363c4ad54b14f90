package services

import (
	"context"
	"fmt"
	"log"

	"schoolcal/internal/domain"
)

type notificationService struct {
	mailer domain.Mailer
	to     string
}

// NewNotificationService returns a NotificationService that emails
// operational alerts to the given address.
func NewNotificationService(mailer domain.Mailer, to string) domain.NotificationService {
	return &notificationService{mailer: mailer, to: to}
}

// NotifyOrphanContainer reports a container event whose session attach
// failed, so the orphan can be cleaned up instead of lingering silently.
func (s *notificationService) NotifyOrphanContainer(ctx context.Context, alert *domain.OrphanContainerAlert) error {
	if alert == nil {
		return fmt.Errorf("orphan container alert is nil")
	}
	if s.to == "" {
		return fmt.Errorf("no alert address configured")
	}
	subject := fmt.Sprintf("Orphan container event %s needs cleanup", alert.ContainerEventID)
	text := fmt.Sprintf(
		"A container event was created for a slot session but the session attach failed.\n\n"+
			"Container event: %s (%q)\nDate: %s\nReason: %s\n\n"+
			"The container was left behind and should be deleted or reused.",
		alert.ContainerEventID, alert.ContainerTitle, alert.Date.Format("2006-01-02"), alert.Reason)
	if err := s.mailer.Send(s.to, subject, text); err != nil {
		return fmt.Errorf("failed to send orphan container alert: %w", err)
	}
	log.Printf("[EMAIL] Orphan container alert sent for event %s", alert.ContainerEventID)
	return nil
}
