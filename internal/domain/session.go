package domain

import (
	"context"
	"time"
)

// Session is a sub-interval of work nested inside an event's day. A session
// never exists without a parent event; its times are interpreted as occurring
// on the parent's start date.
type Session struct {
	ID                 string    `json:"id"`
	EventID            string    `json:"parent_event_id"`
	Title              string    `json:"title"`
	Description        *string   `json:"description,omitempty"`
	Presenter          *string   `json:"presenter,omitempty"`
	Location           *string   `json:"location,omitempty"`
	StartTime          TimeOfDay `json:"start_time"`
	EndTime            TimeOfDay `json:"end_time"`
	Type               string    `json:"session_type"`
	ColorCode          string    `json:"color_code"`
	DisplayOrder       int       `json:"display_order"`
	IsActive           bool      `json:"is_active"`
	AttendanceRequired bool      `json:"attendance_required"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ColorOr returns the session's color code, falling back to the given parent
// color when unset.
func (s *Session) ColorOr(parentColor string) string {
	if s.ColorCode != "" {
		return s.ColorCode
	}
	return parentColor
}

// SessionDraft carries the caller-supplied fields for creating or fully
// patching a session.
type SessionDraft struct {
	Title              string
	Description        string
	Presenter          string
	Location           string
	StartTime          TimeOfDay
	EndTime            TimeOfDay
	Type               string
	ColorCode          string
	DisplayOrder       int
	IsActive           bool
	AttendanceRequired bool
}

// SessionRepository defines the remote persistence interface for sessions.
type SessionRepository interface {
	ListByEventID(ctx context.Context, eventID string) ([]*Session, error)
	GetByID(ctx context.Context, id string) (*Session, error)
	Create(ctx context.Context, session *Session) error
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}
