package domain

import (
	"context"
	"time"
)

// View is the calendar granularity being rendered.
type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
	ViewDay   View = "day"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	return v == ViewMonth || v == ViewWeek || v == ViewDay
}

// TypeFilter restricts visible items by event type. TypeFilterAll disables
// the restriction.
type TypeFilter string

const TypeFilterAll TypeFilter = "all"

// ViewContext is the explicit rendering context passed to the visibility
// filter and the interaction router. It replaces ambient view/date/role
// state.
type ViewContext struct {
	View       View
	Anchor     time.Time
	TypeFilter TypeFilter
}

// ItemKind discriminates flattened display items. It is set once during
// store flattening and never re-derived from display text.
type ItemKind int

const (
	KindEvent ItemKind = iota
	KindSession
)

// DisplayItem is a render-ready entry: either an event, or a session tagged
// with a back-reference to its parent event.
type DisplayItem struct {
	Kind    ItemKind
	Event   *Event
	Session *Session // set only when Kind == KindSession
}

// ID returns the id of the underlying event or session.
func (d DisplayItem) ID() string {
	if d.Kind == KindSession {
		return d.Session.ID
	}
	return d.Event.ID
}

// Date returns the calendar date the item occurs on. Sessions occur on their
// parent event's start date.
func (d DisplayItem) Date() time.Time {
	return d.Event.StartDate
}

// Type returns the resolved event type; sessions inherit their parent's.
func (d DisplayItem) Type() EventType {
	return d.Event.Type
}

// Title returns the display title of the underlying item.
func (d DisplayItem) Title() string {
	if d.Kind == KindSession {
		return d.Session.Title
	}
	return d.Event.Title
}

// Color returns the resolved display color; sessions fall back to their
// parent's color.
func (d DisplayItem) Color() string {
	if d.Kind == KindSession {
		return d.Session.ColorOr(d.Event.Color())
	}
	return d.Event.Color()
}

// StartTime returns the item's wall-clock start, or nil for all-day or
// untimed events.
func (d DisplayItem) StartTime() *TimeOfDay {
	if d.Kind == KindSession {
		t := d.Session.StartTime
		return &t
	}
	if d.Event.Timed() {
		return d.Event.StartTime
	}
	return nil
}

// EndTime returns the item's wall-clock end, or nil for all-day or untimed
// events.
func (d DisplayItem) EndTime() *TimeOfDay {
	if d.Kind == KindSession {
		t := d.Session.EndTime
		return &t
	}
	if d.Event.Timed() {
		return d.Event.EndTime
	}
	return nil
}

// AllDay reports whether the item spans the whole visible day.
func (d DisplayItem) AllDay() bool {
	return d.Kind == KindEvent && d.Event.IsAllDay
}

// PrivilegeChecker resolves whether the current actor may mutate the
// calendar. Role resolution itself is external; the engine consumes the
// boolean only.
type PrivilegeChecker interface {
	IsPrivileged(ctx context.Context) bool
}

// StoreRefresher rebuilds the in-memory projection from the source of truth.
// The schedule service calls it after every successful mutation so the
// visibility filter always observes a consistent snapshot.
type StoreRefresher interface {
	Refresh(ctx context.Context) error
}

// ScheduleService defines the sanctioned write path for events and sessions.
type ScheduleService interface {
	CreateEvent(ctx context.Context, draft EventDraft) (*Event, error)
	UpdateEvent(ctx context.Context, id string, draft EventDraft) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	CreateSession(ctx context.Context, eventID string, draft SessionDraft) (*Session, error)
	CreateSessionAutoContainer(ctx context.Context, date time.Time, start, end TimeOfDay, draft SessionDraft) (*Session, error)
	UpdateSession(ctx context.Context, id string, draft SessionDraft) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
}
