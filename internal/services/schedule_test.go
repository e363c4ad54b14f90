package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"schoolcal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEventRepo is an in-memory EventRepository for tests. Enumeration order
// is insertion order, which the container resolution relies on.
type fakeEventRepo struct {
	mu        sync.Mutex
	events    []*domain.Event
	nextID    int
	createErr error
	listErr   error
	sessions  *fakeSessionRepo // when set, Delete cascades like the real repo
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.events {
		if !e.StartDate.Before(domain.DateOnly(from)) && !e.StartDate.After(domain.DateOnly(to)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, cur := range f.events {
		if cur.ID == e.ID {
			f.events[i] = e
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	for i, e := range f.events {
		if e.ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			f.mu.Unlock()
			if f.sessions != nil {
				f.sessions.deleteByEventID(id)
			}
			return nil
		}
	}
	f.mu.Unlock()
	return domain.ErrNotFound
}

// fakeSessionRepo is an in-memory SessionRepository for tests.
type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  []*domain.Session
	nextID    int
	createErr error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{nextID: 1}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = fmt.Sprintf("sess-%d", f.nextID)
	f.nextID++
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSessionRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Session
	for _, s := range f.sessions {
		if s.EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, cur := range f.sessions {
		if cur.ID == s.ID {
			f.sessions[i] = s
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.sessions {
		if s.ID == id {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeSessionRepo) deleteByEventID(eventID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*domain.Session
	for _, s := range f.sessions {
		if s.EventID != eventID {
			kept = append(kept, s)
		}
	}
	f.sessions = kept
}

func (f *fakeSessionRepo) countForEvent(eventID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sessions {
		if s.EventID == eventID {
			n++
		}
	}
	return n
}

// fakePrivilege grants or denies everything.
type fakePrivilege bool

func (f fakePrivilege) IsPrivileged(ctx context.Context) bool { return bool(f) }

// fakeRefresher counts refreshes.
type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeNotifier records orphan container alerts.
type fakeNotifier struct {
	mu     sync.Mutex
	alerts []*domain.OrphanContainerAlert
}

func (f *fakeNotifier) NotifyOrphanContainer(ctx context.Context, alert *domain.OrphanContainerAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, alert)
	return nil
}

func timePtr(hour, minute int) *domain.TimeOfDay {
	t := domain.NewTimeOfDay(hour, minute)
	return &t
}

func newTestService(er *fakeEventRepo, sr *fakeSessionRepo, privileged bool, store domain.StoreRefresher, notifier domain.NotificationService) domain.ScheduleService {
	return NewScheduleService(er, sr, fakePrivilege(privileged), store, notifier, nil, 30, 5*time.Second)
}

func TestScheduleService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		privileged bool
		repoErr    error
		draft      domain.EventDraft
		wantErr    error
		assert     func(t *testing.T, er *fakeEventRepo, ev *domain.Event)
	}{
		{
			name:       "success with defaults",
			privileged: true,
			draft:      domain.EventDraft{Title: "  Algebra  ", StartDate: day, Type: domain.EventClass, Description: "  "},
			assert: func(t *testing.T, er *fakeEventRepo, ev *domain.Event) {
				require.NotEmpty(t, ev.ID)
				assert.Equal(t, "Algebra", ev.Title)
				assert.True(t, ev.EndDate.Equal(day), "end date defaults to start date")
				assert.Nil(t, ev.Description, "blank optional normalized to absent")
				assert.Equal(t, domain.DefaultColor(domain.EventClass), ev.ColorCode)
				assert.False(t, ev.CreatedAt.IsZero())
			},
		},
		{
			name:       "missing title",
			privileged: true,
			draft:      domain.EventDraft{StartDate: day, Type: domain.EventClass},
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "missing start date",
			privileged: true,
			draft:      domain.EventDraft{Title: "Algebra", Type: domain.EventClass},
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "one-sided times",
			privileged: true,
			draft:      domain.EventDraft{Title: "Algebra", StartDate: day, StartTime: timePtr(9, 0)},
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "start time not before end time",
			privileged: true,
			draft:      domain.EventDraft{Title: "Algebra", StartDate: day, StartTime: timePtr(11, 0), EndTime: timePtr(9, 0)},
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "permission denied",
			privileged: false,
			draft:      domain.EventDraft{Title: "Algebra", StartDate: day, Type: domain.EventClass},
			wantErr:    domain.ErrPermissionDenied,
		},
		{
			name:       "repo error",
			privileged: true,
			repoErr:    errors.New("db error"),
			draft:      domain.EventDraft{Title: "Algebra", StartDate: day, Type: domain.EventClass},
			wantErr:    errors.New("any"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			er := newFakeEventRepo()
			er.createErr = tt.repoErr
			refresher := &fakeRefresher{}
			svc := newTestService(er, newFakeSessionRepo(), tt.privileged, refresher, nil)
			ev, err := svc.CreateEvent(ctx, tt.draft)
			if tt.wantErr != nil {
				require.Error(t, err)
				switch {
				case errors.Is(tt.wantErr, domain.ErrValidation):
					require.True(t, errors.Is(err, domain.ErrValidation))
					assert.Empty(t, er.events, "no state change on validation failure")
				case errors.Is(tt.wantErr, domain.ErrPermissionDenied):
					require.True(t, errors.Is(err, domain.ErrPermissionDenied))
					assert.Empty(t, er.events, "no state change for non-privileged caller")
				}
				assert.Zero(t, refresher.count(), "no refresh on failed mutation")
				return
			}
			require.NoError(t, err)
			require.NotNil(t, ev)
			assert.Equal(t, 1, refresher.count())
			tt.assert(t, er, ev)
		})
	}
}

func TestScheduleService_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	er := newFakeEventRepo()
	_ = er.Create(ctx, &domain.Event{Title: "Before", StartDate: day, EndDate: day, Type: domain.EventClass, CreatedAt: time.Now()})
	refresher := &fakeRefresher{}
	svc := newTestService(er, newFakeSessionRepo(), true, refresher, nil)

	t.Run("full patch replaces fields", func(t *testing.T) {
		updated, err := svc.UpdateEvent(ctx, "ev-1", domain.EventDraft{
			Title:     "After",
			StartDate: day,
			StartTime: timePtr(13, 0),
			EndTime:   timePtr(15, 0),
			Type:      domain.EventExam,
			Location:  "Hall B",
		})
		require.NoError(t, err)
		assert.Equal(t, "ev-1", updated.ID)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, domain.EventExam, updated.Type)
		require.NotNil(t, updated.Location)
		assert.Equal(t, "Hall B", *updated.Location)
		assert.Equal(t, domain.DefaultColor(domain.EventExam), updated.ColorCode)
		assert.Equal(t, 1, refresher.count())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.UpdateEvent(ctx, "ev-missing", domain.EventDraft{Title: "X", StartDate: day})
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("permission denied", func(t *testing.T) {
		denied := newTestService(er, newFakeSessionRepo(), false, nil, nil)
		_, err := denied.UpdateEvent(ctx, "ev-1", domain.EventDraft{Title: "X", StartDate: day})
		require.True(t, errors.Is(err, domain.ErrPermissionDenied))
	})
}

func TestScheduleService_DeleteEvent_Cascades(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	er := newFakeEventRepo()
	sr := newFakeSessionRepo()
	er.sessions = sr
	_ = er.Create(ctx, &domain.Event{Title: "Host", StartDate: day, EndDate: day, Type: domain.EventClass})
	for i := 0; i < 3; i++ {
		_ = sr.Create(ctx, &domain.Session{EventID: "ev-1", Title: fmt.Sprintf("S%d", i), StartTime: domain.NewTimeOfDay(9+i, 0), EndTime: domain.NewTimeOfDay(10+i, 0), IsActive: true})
	}
	refresher := &fakeRefresher{}
	svc := newTestService(er, sr, true, refresher, nil)

	require.NoError(t, svc.DeleteEvent(ctx, "ev-1"))
	assert.Equal(t, 0, sr.countForEvent("ev-1"), "cascade removes every session of the event")
	assert.Empty(t, er.events)
	assert.Equal(t, 1, refresher.count())

	err := svc.DeleteEvent(ctx, "ev-1")
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestScheduleService_CreateSession(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		parentID   string
		privileged bool
		draft      domain.SessionDraft
		wantErr    error
	}{
		{
			name:       "success",
			parentID:   "ev-1",
			privileged: true,
			draft:      domain.SessionDraft{Title: "Lab", StartTime: domain.NewTimeOfDay(10, 0), EndTime: domain.NewTimeOfDay(11, 0), Type: "lab", IsActive: true},
		},
		{
			name:       "parent not found",
			parentID:   "ev-missing",
			privileged: true,
			draft:      domain.SessionDraft{Title: "Lab", StartTime: domain.NewTimeOfDay(10, 0), EndTime: domain.NewTimeOfDay(11, 0)},
			wantErr:    domain.ErrNotFound,
		},
		{
			name:       "start not before end",
			parentID:   "ev-1",
			privileged: true,
			draft:      domain.SessionDraft{Title: "Lab", StartTime: domain.NewTimeOfDay(11, 0), EndTime: domain.NewTimeOfDay(11, 0)},
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "permission denied",
			parentID:   "ev-1",
			privileged: false,
			draft:      domain.SessionDraft{Title: "Lab", StartTime: domain.NewTimeOfDay(10, 0), EndTime: domain.NewTimeOfDay(11, 0)},
			wantErr:    domain.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			er := newFakeEventRepo()
			sr := newFakeSessionRepo()
			_ = er.Create(ctx, &domain.Event{Title: "Host", StartDate: day, EndDate: day, Type: domain.EventClass})
			svc := newTestService(er, sr, tt.privileged, nil, nil)
			sess, err := svc.CreateSession(ctx, tt.parentID, tt.draft)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.wantErr))
				assert.Empty(t, sr.sessions)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, sess)
			assert.Equal(t, "ev-1", sess.EventID)
			assert.Equal(t, 1, sr.countForEvent("ev-1"))
		})
	}
}

func TestScheduleService_DeleteSession_KeepsParent(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	er := newFakeEventRepo()
	sr := newFakeSessionRepo()
	_ = er.Create(ctx, &domain.Event{Title: "Host", StartDate: day, EndDate: day, Type: domain.EventClass})
	_ = sr.Create(ctx, &domain.Session{EventID: "ev-1", Title: "Lab", StartTime: domain.NewTimeOfDay(10, 0), EndTime: domain.NewTimeOfDay(11, 0)})
	svc := newTestService(er, sr, true, nil, nil)

	require.NoError(t, svc.DeleteSession(ctx, "sess-1"))
	assert.Empty(t, sr.sessions)
	assert.Len(t, er.events, 1, "deleting a session never deletes its parent event")
}

func TestScheduleService_UpdateSession(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	er := newFakeEventRepo()
	sr := newFakeSessionRepo()
	_ = er.Create(ctx, &domain.Event{Title: "Host", StartDate: day, EndDate: day, Type: domain.EventClass})
	_ = sr.Create(ctx, &domain.Session{EventID: "ev-1", Title: "Lab", StartTime: domain.NewTimeOfDay(10, 0), EndTime: domain.NewTimeOfDay(11, 0)})
	svc := newTestService(er, sr, true, nil, nil)

	t.Run("full patch keeps parent", func(t *testing.T) {
		updated, err := svc.UpdateSession(ctx, "sess-1", domain.SessionDraft{
			Title:     "Lab (moved)",
			StartTime: domain.NewTimeOfDay(14, 0),
			EndTime:   domain.NewTimeOfDay(15, 30),
			Presenter: "Dr. Chen",
			IsActive:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, "sess-1", updated.ID)
		assert.Equal(t, "ev-1", updated.EventID)
		assert.Equal(t, "Lab (moved)", updated.Title)
		require.NotNil(t, updated.Presenter)
		assert.Equal(t, "Dr. Chen", *updated.Presenter)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.UpdateSession(ctx, "sess-missing", domain.SessionDraft{Title: "X", StartTime: domain.NewTimeOfDay(9, 0), EndTime: domain.NewTimeOfDay(10, 0)})
		require.True(t, errors.Is(err, domain.ErrNotFound))
	})
}

func TestScheduleService_AutoContainer_MatchPriority(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	draft := domain.SessionDraft{Title: "Review", Type: "lecture", IsActive: true}

	tests := []struct {
		name       string
		seed       []*domain.Event
		wantHostID string
		wantEvents int
	}{
		{
			name: "containment match attaches to existing event",
			seed: []*domain.Event{
				{Title: "Afternoon block", StartDate: day, EndDate: day, StartTime: timePtr(13, 0), EndTime: timePtr(15, 0), Type: domain.EventClass},
			},
			wantHostID: "ev-1",
			wantEvents: 1,
		},
		{
			name: "untimed event preferred over later containment match",
			seed: []*domain.Event{
				{Title: "Timed block", StartDate: day, EndDate: day, StartTime: timePtr(13, 0), EndTime: timePtr(15, 0), Type: domain.EventClass},
				{Title: "Open day", StartDate: day, EndDate: day, IsAllDay: true, Type: domain.EventSpecial},
			},
			wantHostID: "ev-2",
			wantEvents: 2,
		},
		{
			name: "near-miss start within tolerance",
			seed: []*domain.Event{
				{Title: "Drifted block", StartDate: day, EndDate: day, StartTime: timePtr(13, 20), EndTime: timePtr(13, 50), Type: domain.EventClass},
			},
			wantHostID: "ev-1",
			wantEvents: 1,
		},
		{
			name: "first match wins in enumeration order",
			seed: []*domain.Event{
				{Title: "Block A", StartDate: day, EndDate: day, StartTime: timePtr(12, 0), EndTime: timePtr(16, 0), Type: domain.EventClass},
				{Title: "Block B", StartDate: day, EndDate: day, StartTime: timePtr(13, 0), EndTime: timePtr(14, 0), Type: domain.EventClass},
			},
			wantHostID: "ev-1",
			wantEvents: 2,
		},
		{
			name: "beyond tolerance synthesizes container",
			seed: []*domain.Event{
				{Title: "Morning block", StartDate: day, EndDate: day, StartTime: timePtr(8, 0), EndTime: timePtr(9, 0), Type: domain.EventClass},
			},
			wantHostID: "ev-2",
			wantEvents: 2,
		},
		{
			name: "other dates are ignored",
			seed: []*domain.Event{
				{Title: "Tomorrow", StartDate: day.AddDate(0, 0, 1), EndDate: day.AddDate(0, 0, 1), IsAllDay: true, Type: domain.EventClass},
			},
			wantHostID: "ev-2",
			wantEvents: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			er := newFakeEventRepo()
			sr := newFakeSessionRepo()
			for _, e := range tt.seed {
				require.NoError(t, er.Create(ctx, e))
			}
			svc := newTestService(er, sr, true, nil, nil)

			sess, err := svc.CreateSessionAutoContainer(ctx, day, domain.NewTimeOfDay(13, 0), domain.NewTimeOfDay(14, 0), draft)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHostID, sess.EventID)
			assert.Len(t, er.events, tt.wantEvents)
		})
	}
}

func TestScheduleService_AutoContainer_Fallback(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	er := newFakeEventRepo()
	sr := newFakeSessionRepo()
	svc := newTestService(er, sr, true, nil, nil)

	sess, err := svc.CreateSessionAutoContainer(ctx, day, domain.NewTimeOfDay(10, 0), domain.NewTimeOfDay(11, 0), domain.SessionDraft{Title: "Study group", IsActive: true})
	require.NoError(t, err)

	require.Len(t, er.events, 1, "exactly one container event is created")
	container := er.events[0]
	assert.Equal(t, "Study group (Event Container)", container.Title)
	assert.Equal(t, domain.EventClass, container.Type)
	assert.True(t, container.StartDate.Equal(day))
	assert.True(t, container.EndDate.Equal(day))
	require.NotNil(t, container.StartTime)
	assert.Equal(t, "10:00", container.StartTime.String())
	require.NotNil(t, container.EndTime)
	assert.Equal(t, "11:00", container.EndTime.String())
	assert.False(t, container.IsAllDay)

	assert.Equal(t, container.ID, sess.EventID)
	assert.Equal(t, "10:00", sess.StartTime.String())
	assert.Equal(t, "11:00", sess.EndTime.String())
}

// Two identical concurrent slot requests must resolve to a single container:
// the search-then-create sequence is serialized, so the second request finds
// the container the first one made.
func TestScheduleService_AutoContainer_ConcurrentRequestsShareContainer(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	er := newFakeEventRepo()
	sr := newFakeSessionRepo()
	svc := newTestService(er, sr, true, nil, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateSessionAutoContainer(ctx, day, domain.NewTimeOfDay(10, 0), domain.NewTimeOfDay(11, 0), domain.SessionDraft{Title: "Study group", IsActive: true})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Len(t, er.events, 1, "identical concurrent requests share one container")
	assert.Equal(t, 2, sr.countForEvent(er.events[0].ID))
}

func TestScheduleService_AutoContainer_OrphanOnAttachFailure(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	er := newFakeEventRepo()
	sr := newFakeSessionRepo()
	sr.createErr = errors.New("insert failed")
	notifier := &fakeNotifier{}
	svc := newTestService(er, sr, true, nil, notifier)

	_, err := svc.CreateSessionAutoContainer(ctx, day, domain.NewTimeOfDay(10, 0), domain.NewTimeOfDay(11, 0), domain.SessionDraft{Title: "Study group"})
	require.Error(t, err)

	var orphan *domain.OrphanContainerError
	require.True(t, errors.As(err, &orphan), "attach failure after container creation is typed")
	require.Len(t, er.events, 1)
	assert.Equal(t, er.events[0].ID, orphan.ContainerEventID)

	require.Len(t, notifier.alerts, 1, "orphan container is surfaced, not silently left behind")
	assert.Equal(t, er.events[0].ID, notifier.alerts[0].ContainerEventID)
}

func TestScheduleService_AutoContainer_AttachFailureWithoutContainer(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	er := newFakeEventRepo()
	_ = er.Create(ctx, &domain.Event{Title: "Open day", StartDate: day, EndDate: day, IsAllDay: true, Type: domain.EventClass})
	sr := newFakeSessionRepo()
	sr.createErr = errors.New("insert failed")
	notifier := &fakeNotifier{}
	svc := newTestService(er, sr, true, nil, notifier)

	_, err := svc.CreateSessionAutoContainer(ctx, day, domain.NewTimeOfDay(10, 0), domain.NewTimeOfDay(11, 0), domain.SessionDraft{Title: "Study group"})
	require.Error(t, err)

	var orphan *domain.OrphanContainerError
	assert.False(t, errors.As(err, &orphan), "no orphan error when no container was created")
	assert.Empty(t, notifier.alerts)
}
