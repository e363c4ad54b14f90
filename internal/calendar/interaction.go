package calendar

import (
	"time"

	"schoolcal/internal/domain"
)

// Intent is the opaque outcome of a cell or item interaction, consumed by
// the presentation layer. It is a closed tagged union.
type Intent interface {
	isIntent()
}

// CreateEventIntent opens event creation for a date. Month-view cells
// default to all-day events.
type CreateEventIntent struct {
	Date   time.Time
	AllDay bool
}

// CreateSessionIntent opens session creation for an empty hour slot; the
// parent event is resolved later through the auto-container path.
type CreateSessionIntent struct {
	Date  time.Time
	Start domain.TimeOfDay
	End   domain.TimeOfDay
}

// EditSessionIntent opens editing for an existing session.
type EditSessionIntent struct {
	Session *domain.Session
	Event   *domain.Event
}

// ViewDetailsIntent opens the details of an existing item; the event/session
// routing is carried by the item's kind tag.
type ViewDetailsIntent struct {
	Item domain.DisplayItem
}

// NoopIntent means the interaction has no effect.
type NoopIntent struct{}

func (CreateEventIntent) isIntent()   {}
func (CreateSessionIntent) isIntent() {}
func (EditSessionIntent) isIntent()   {}
func (ViewDetailsIntent) isIntent()   {}
func (NoopIntent) isIntent()          {}

// RouteCellClick resolves a click on a grid cell. Month cells open event
// creation; week/day hour cells open session creation on an empty slot, or
// session editing when the slot already holds a session. Non-privileged
// callers get a no-op.
func RouteCellClick(vc domain.ViewContext, privileged bool, date time.Time, hour int, occupants []domain.DisplayItem) Intent {
	if !privileged {
		return NoopIntent{}
	}
	if vc.View == domain.ViewMonth {
		return CreateEventIntent{Date: domain.DateOnly(date), AllDay: true}
	}
	for _, it := range occupants {
		if it.Kind == domain.KindSession {
			return EditSessionIntent{Session: it.Session, Event: it.Event}
		}
	}
	return CreateSessionIntent{
		Date:  domain.DateOnly(date),
		Start: domain.NewTimeOfDay(hour, 0),
		End:   domain.NewTimeOfDay(hour+1, 0),
	}
}

// RouteItemClick resolves a click on an existing item: details open for any
// caller; details stay read-only for non-privileged callers downstream.
func RouteItemClick(item domain.DisplayItem) Intent {
	return ViewDetailsIntent{Item: item}
}
