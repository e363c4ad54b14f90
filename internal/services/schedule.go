package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"schoolcal/internal/domain"
)

type scheduleService struct {
	eventRepo      domain.EventRepository
	sessionRepo    domain.SessionRepository
	priv           domain.PrivilegeChecker
	store          domain.StoreRefresher
	notifier       domain.NotificationService
	logger         *slog.Logger
	tolerance      time.Duration
	contextTimeout time.Duration

	// containerMu serializes the container search-then-create sequence so two
	// identical concurrent slot requests resolve to a single container.
	containerMu sync.Mutex
}

// NewScheduleService returns the sanctioned write path for events and
// sessions. store and notifier may be nil (refresh and alerts become no-ops,
// useful for tests). toleranceMinutes is the near-miss window for container
// matching.
func NewScheduleService(
	eventRepo domain.EventRepository,
	sessionRepo domain.SessionRepository,
	priv domain.PrivilegeChecker,
	store domain.StoreRefresher,
	notifier domain.NotificationService,
	logger *slog.Logger,
	toleranceMinutes int,
	timeout time.Duration,
) domain.ScheduleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &scheduleService{
		eventRepo:      eventRepo,
		sessionRepo:    sessionRepo,
		priv:           priv,
		store:          store,
		notifier:       notifier,
		logger:         logger,
		tolerance:      time.Duration(toleranceMinutes) * time.Minute,
		contextTimeout: timeout,
	}
}

func (s *scheduleService) CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !s.priv.IsPrivileged(ctx) {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateEventDraft(&draft); err != nil {
		return nil, err
	}

	event := eventFromDraft(draft)
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.refresh(ctx)
	return event, nil
}

func (s *scheduleService) UpdateEvent(ctx context.Context, id string, draft domain.EventDraft) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !s.priv.IsPrivileged(ctx) {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateEventDraft(&draft); err != nil {
		return nil, err
	}

	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	// Full-patch semantics: the draft replaces every field.
	updated := eventFromDraft(draft)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.refresh(ctx)
	return updated, nil
}

func (s *scheduleService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !s.priv.IsPrivileged(ctx) {
		return domain.ErrPermissionDenied
	}
	// Delete cascades to the event's sessions at the repository.
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.refresh(ctx)
	return nil
}

func (s *scheduleService) CreateSession(ctx context.Context, eventID string, draft domain.SessionDraft) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !s.priv.IsPrivileged(ctx) {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateSessionDraft(&draft); err != nil {
		return nil, err
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get parent event: %w", err)
	}

	session := sessionFromDraft(eventID, draft)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.refresh(ctx)
	return session, nil
}

func (s *scheduleService) CreateSessionAutoContainer(ctx context.Context, date time.Time, start, end domain.TimeOfDay, draft domain.SessionDraft) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !s.priv.IsPrivileged(ctx) {
		return nil, domain.ErrPermissionDenied
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	// The clicked slot defines the session's time range.
	draft.StartTime = start
	draft.EndTime = end
	if err := validateSessionDraft(&draft); err != nil {
		return nil, err
	}

	s.containerMu.Lock()
	defer s.containerMu.Unlock()

	host, created, err := s.resolveContainer(ctx, date, start, end, draft)
	if err != nil {
		return nil, err
	}

	session := sessionFromDraft(host.ID, draft)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if created {
			s.alertOrphanContainer(ctx, host, err)
			return nil, &domain.OrphanContainerError{ContainerEventID: host.ID, Err: err}
		}
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.refresh(ctx)
	return session, nil
}

// resolveContainer finds an existing event on the requested date to host the
// session, or synthesizes a minimal container event. Match clauses are tried
// in priority order; within a clause the first event in enumeration order
// wins.
func (s *scheduleService) resolveContainer(ctx context.Context, date time.Time, start, end domain.TimeOfDay, draft domain.SessionDraft) (host *domain.Event, created bool, err error) {
	listed, err := s.eventRepo.ListByDateRange(ctx, date, date)
	if err != nil {
		return nil, false, fmt.Errorf("list events: %w", err)
	}
	var candidates []*domain.Event
	for _, e := range listed {
		if domain.SameDay(e.StartDate, date) {
			candidates = append(candidates, e)
		}
	}

	// Untimed or all-day events are universally compatible hosts.
	for _, e := range candidates {
		if e.IsAllDay || e.StartTime == nil || e.EndTime == nil {
			return e, false, nil
		}
	}
	// Full containment of the requested range.
	for _, e := range candidates {
		if *e.StartTime <= start && end <= *e.EndTime {
			return e, false, nil
		}
	}
	// Near-miss on the start time, to tolerate minor scheduling drift.
	tol := int(s.tolerance / time.Minute)
	for _, e := range candidates {
		delta := e.StartTime.MinutesFrom(start)
		if delta < 0 {
			delta = -delta
		}
		if delta <= tol {
			return e, false, nil
		}
	}

	container := containerEvent(date, start, end, draft)
	now := time.Now()
	container.CreatedAt = now
	container.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, container); err != nil {
		return nil, false, fmt.Errorf("create container event: %w", err)
	}
	s.logger.Info("synthesized container event for slot session",
		slog.String("event_id", container.ID),
		slog.String("date", date.Format("2006-01-02")),
		slog.String("start", start.String()),
		slog.String("end", end.String()))
	return container, true, nil
}

func containerEvent(date time.Time, start, end domain.TimeOfDay, draft domain.SessionDraft) *domain.Event {
	color := draft.ColorCode
	if color == "" {
		color = domain.DefaultColor(domain.EventClass)
	}
	startT, endT := start, end
	return &domain.Event{
		Title:     draft.Title + " (Event Container)",
		Type:      domain.EventClass,
		StartDate: domain.DateOnly(date),
		EndDate:   domain.DateOnly(date),
		StartTime: &startT,
		EndTime:   &endT,
		IsAllDay:  false,
		ColorCode: color,
	}
}

func (s *scheduleService) UpdateSession(ctx context.Context, id string, draft domain.SessionDraft) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !s.priv.IsPrivileged(ctx) {
		return nil, domain.ErrPermissionDenied
	}
	if err := validateSessionDraft(&draft); err != nil {
		return nil, err
	}

	existing, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	updated := sessionFromDraft(existing.EventID, draft)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := s.sessionRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update session: %w", err)
	}
	s.refresh(ctx)
	return updated, nil
}

func (s *scheduleService) DeleteSession(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !s.priv.IsPrivileged(ctx) {
		return domain.ErrPermissionDenied
	}
	// Removes only the session; the parent event is untouched.
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	s.refresh(ctx)
	return nil
}

// refresh rebuilds the snapshot after a committed mutation. The write has
// already succeeded, so a refresh failure is logged rather than surfaced.
func (s *scheduleService) refresh(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Refresh(ctx); err != nil {
		s.logger.Warn("store refresh after mutation failed", slog.Any("error", err))
	}
}

func (s *scheduleService) alertOrphanContainer(ctx context.Context, container *domain.Event, cause error) {
	s.logger.Error("session attach failed after container creation",
		slog.String("container_event_id", container.ID),
		slog.Any("error", cause))
	if s.notifier == nil {
		return
	}
	alert := &domain.OrphanContainerAlert{
		ContainerEventID: container.ID,
		ContainerTitle:   container.Title,
		Date:             container.StartDate,
		Reason:           cause.Error(),
	}
	if err := s.notifier.NotifyOrphanContainer(ctx, alert); err != nil {
		s.logger.Warn("orphan container alert failed", slog.Any("error", err))
	}
}

func validateEventDraft(d *domain.EventDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if d.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", domain.ErrValidation)
	}
	if d.EndDate.IsZero() {
		d.EndDate = d.StartDate
	}
	if domain.DateOnly(d.EndDate).Before(domain.DateOnly(d.StartDate)) {
		return fmt.Errorf("%w: end date before start date", domain.ErrValidation)
	}
	if (d.StartTime == nil) != (d.EndTime == nil) {
		return fmt.Errorf("%w: start and end time must both be set or both be absent", domain.ErrValidation)
	}
	if d.StartTime != nil {
		if !d.StartTime.Valid() || !d.EndTime.Valid() {
			return fmt.Errorf("%w: time out of range", domain.ErrValidation)
		}
		if !d.StartTime.Before(*d.EndTime) {
			return fmt.Errorf("%w: start time must be before end time", domain.ErrValidation)
		}
	}
	return nil
}

func validateSessionDraft(d *domain.SessionDraft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if !d.StartTime.Valid() || !d.EndTime.Valid() {
		return fmt.Errorf("%w: time out of range", domain.ErrValidation)
	}
	if !d.StartTime.Before(d.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", domain.ErrValidation)
	}
	return nil
}

func eventFromDraft(d domain.EventDraft) *domain.Event {
	color := d.ColorCode
	if color == "" {
		color = domain.DefaultColor(d.Type)
	}
	return &domain.Event{
		Title:       strings.TrimSpace(d.Title),
		Description: optional(d.Description),
		StartDate:   domain.DateOnly(d.StartDate),
		EndDate:     domain.DateOnly(d.EndDate),
		StartTime:   d.StartTime,
		EndTime:     d.EndTime,
		IsAllDay:    d.IsAllDay,
		Type:        d.Type,
		ColorCode:   color,
		Location:    optional(d.Location),
	}
}

func sessionFromDraft(eventID string, d domain.SessionDraft) *domain.Session {
	now := time.Now()
	return &domain.Session{
		EventID:            eventID,
		Title:              strings.TrimSpace(d.Title),
		Description:        optional(d.Description),
		Presenter:          optional(d.Presenter),
		Location:           optional(d.Location),
		StartTime:          d.StartTime,
		EndTime:            d.EndTime,
		Type:               d.Type,
		ColorCode:          d.ColorCode,
		DisplayOrder:       d.DisplayOrder,
		IsActive:           d.IsActive,
		AttendanceRequired: d.AttendanceRequired,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// optional normalizes a blank string to absent.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
