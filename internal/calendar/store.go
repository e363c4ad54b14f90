package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"schoolcal/internal/domain"
)

// SessionLoad is the typed result of one per-event session fetch. A failed
// fetch is recorded, not silently treated as "no sessions", so callers can
// tell the two apart.
type SessionLoad struct {
	EventID  string
	Sessions []*domain.Session
	Err      error
}

// Snapshot is an immutable projection of the events (with sessions attached)
// for one fetch window. It is rebuilt wholesale on every refresh.
type Snapshot struct {
	ID     string
	From   time.Time
	To     time.Time
	Events []*domain.Event
	Loads  []SessionLoad
}

// EventByID returns the event with the given id, or nil.
func (s *Snapshot) EventByID(id string) *domain.Event {
	for _, e := range s.Events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// SessionByID returns the session with the given id and its parent event.
func (s *Snapshot) SessionByID(id string) (*domain.Session, *domain.Event) {
	for _, e := range s.Events {
		for _, sess := range e.Sessions {
			if sess.ID == id {
				return sess, e
			}
		}
	}
	return nil, nil
}

// FailedLoads returns the per-event session fetches that failed.
func (s *Snapshot) FailedLoads() []SessionLoad {
	var out []SessionLoad
	for _, l := range s.Loads {
		if l.Err != nil {
			out = append(out, l)
		}
	}
	return out
}

// SessionsFailed reports whether the session fetch for the given event
// failed, distinguishing "failed to load" from "no sessions".
func (s *Snapshot) SessionsFailed(eventID string) bool {
	for _, l := range s.Loads {
		if l.EventID == eventID && l.Err != nil {
			return true
		}
	}
	return false
}

// Flatten produces the combined list of main entries (one per event) and
// session entries (one per session, tagged with the parent event). The kind
// tag is set here, once, and never re-derived from display text.
func (s *Snapshot) Flatten() []domain.DisplayItem {
	var out []domain.DisplayItem
	for _, e := range s.Events {
		out = append(out, domain.DisplayItem{Kind: domain.KindEvent, Event: e})
		for _, sess := range e.Sessions {
			out = append(out, domain.DisplayItem{Kind: domain.KindSession, Event: e, Session: sess})
		}
	}
	return out
}

// Loader builds snapshots from the remote repositories. Per-event session
// fetches run as a bounded concurrent batch; a failure for one event never
// aborts the whole load.
type Loader struct {
	events      domain.EventRepository
	sessions    domain.SessionRepository
	logger      *slog.Logger
	concurrency int
}

// NewLoader returns a Loader. Concurrency values below 1 are clamped to 1.
func NewLoader(events domain.EventRepository, sessions domain.SessionRepository, logger *slog.Logger, concurrency int) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		events:      events,
		sessions:    sessions,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Load fetches all events in [from, to] and their sessions, returning a new
// snapshot. An event list failure is fatal; session fetch failures are
// isolated per event, logged, and recorded on the snapshot.
func (l *Loader) Load(ctx context.Context, from, to time.Time) (*Snapshot, error) {
	events, err := l.events.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	snap := &Snapshot{
		ID:     uuid.NewString(),
		From:   domain.DateOnly(from),
		To:     domain.DateOnly(to),
		Events: events,
		Loads:  make([]SessionLoad, len(events)),
	}

	sem := make(chan struct{}, l.concurrency)
	var wg sync.WaitGroup
	for i, e := range events {
		wg.Add(1)
		go func(i int, e *domain.Event) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			sessions, err := l.sessions.ListByEventID(ctx, e.ID)
			snap.Loads[i] = SessionLoad{EventID: e.ID, Sessions: sessions, Err: err}
		}(i, e)
	}
	wg.Wait()

	for i, e := range events {
		load := snap.Loads[i]
		if load.Err != nil {
			l.logger.Warn("session fetch failed, keeping event without sessions",
				slog.String("snapshot_id", snap.ID),
				slog.String("event_id", e.ID),
				slog.Any("error", load.Err))
			e.Sessions = nil
			continue
		}
		sortSessions(load.Sessions)
		e.Sessions = load.Sessions
	}
	return snap, nil
}

func sortSessions(sessions []*domain.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].DisplayOrder != sessions[j].DisplayOrder {
			return sessions[i].DisplayOrder < sessions[j].DisplayOrder
		}
		return sessions[i].StartTime < sessions[j].StartTime
	})
}

// Store holds the current snapshot for the active fetch window. It is
// rebuilt, never patched, after each successful mutation so readers always
// observe a consistent projection.
type Store struct {
	mu     sync.RWMutex
	loader *Loader
	snap   *Snapshot
	from   time.Time
	to     time.Time
}

// NewStore returns an empty store backed by the given loader.
func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// SetWindow loads the given window and makes its snapshot current.
func (s *Store) SetWindow(ctx context.Context, from, to time.Time) error {
	snap, err := s.loader.Load(ctx, from, to)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap, s.from, s.to = snap, from, to
	s.mu.Unlock()
	return nil
}

// Refresh rebuilds the snapshot for the current window from the source of
// truth. A store without a window is a no-op.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.RLock()
	from, to, loaded := s.from, s.to, s.snap != nil
	s.mu.RUnlock()
	if !loaded {
		return nil
	}
	snap, err := s.loader.Load(ctx, from, to)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

// Current returns the current snapshot, or nil before the first SetWindow.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
