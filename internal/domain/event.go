package domain

import (
	"context"
	"time"
)

// EventType classifies a calendar event.
type EventType string

const (
	EventClass          EventType = "class"
	EventExam           EventType = "exam"
	EventHoliday        EventType = "holiday"
	EventSpecial        EventType = "special_event"
	EventCancelledClass EventType = "cancelled_class"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventClass, EventExam, EventHoliday, EventSpecial, EventCancelledClass:
		return true
	}
	return false
}

// DefaultColor returns the deterministic display color for an event type.
func DefaultColor(t EventType) string {
	switch t {
	case EventClass:
		return "#4caf50" // green
	case EventExam:
		return "#ff9800" // orange
	case EventHoliday:
		return "#f44336" // red
	case EventSpecial:
		return "#9c27b0" // purple
	case EventCancelledClass:
		return "#9e9e9e" // gray
	default:
		return "#2196f3" // blue
	}
}

// Event represents a schedulable calendar item on a specific date.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	StartTime   *TimeOfDay `json:"start_time,omitempty"`
	EndTime     *TimeOfDay `json:"end_time,omitempty"`
	IsAllDay    bool       `json:"is_all_day"`
	Type        EventType  `json:"event_type"`
	ColorCode   string     `json:"color_code"`
	Location    *string    `json:"location,omitempty"`
	Sessions    []*Session `json:"sessions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Color returns the explicit color code, or the type default when unset.
func (e *Event) Color() string {
	if e.ColorCode != "" {
		return e.ColorCode
	}
	return DefaultColor(e.Type)
}

// Timed reports whether the event carries start/end wall-clock times that
// should be honored. All-day events ignore their times.
func (e *Event) Timed() bool {
	return !e.IsAllDay && e.StartTime != nil && e.EndTime != nil
}

// EventDraft carries the caller-supplied fields for creating or fully
// patching an event. Blank optional strings are normalized to absent.
type EventDraft struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time // zero value defaults to StartDate
	StartTime   *TimeOfDay
	EndTime     *TimeOfDay
	IsAllDay    bool
	Type        EventType
	ColorCode   string
	Location    string
}

// EventRepository defines the remote persistence interface for events.
// ListByDateRange returns events without their sessions; session loading is
// a separate per-event fetch (see SessionRepository).
type EventRepository interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	// Delete removes the event and cascades to all its sessions.
	Delete(ctx context.Context, id string) error
}
