package ics

import (
	"strings"
	"testing"
	"time"

	"schoolcal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func timePtr(hour, minute int) *domain.TimeOfDay {
	t := domain.NewTimeOfDay(hour, minute)
	return &t
}

func TestExport(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	host := &domain.Event{
		ID:        "ev-1",
		Title:     "Science Fair",
		StartDate: day,
		EndDate:   day,
		StartTime: timePtr(9, 0),
		EndTime:   timePtr(12, 0),
		Type:      domain.EventSpecial,
		Location:  strPtr("Gym"),
	}
	allDay := &domain.Event{
		ID:          "ev-2",
		Title:       "Spring Break",
		StartDate:   day,
		EndDate:     day,
		IsAllDay:    true,
		Type:        domain.EventHoliday,
		Description: strPtr("No classes"),
	}
	sess := &domain.Session{
		ID:        "s-1",
		EventID:   "ev-1",
		Title:     "Robotics Demo",
		StartTime: domain.NewTimeOfDay(10, 0),
		EndTime:   domain.NewTimeOfDay(11, 0),
		Presenter: strPtr("Dr. Chen"),
	}

	items := []domain.DisplayItem{
		{Kind: domain.KindEvent, Event: host},
		{Kind: domain.KindSession, Event: host, Session: sess},
		{Kind: domain.KindEvent, Event: allDay},
	}

	out, err := Export(items, "School Calendar")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "School Calendar")

	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:event-ev-1@schoolcal")
	assert.Contains(t, out, "UID:session-s-1@schoolcal")
	assert.Contains(t, out, "SUMMARY:Science Fair")
	assert.Contains(t, out, "SUMMARY:Robotics Demo")
	assert.Contains(t, out, "LOCATION:Gym")

	assert.Contains(t, out, "RELATED-TO:ev-1", "session entries point back to their parent event")

	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250310", "all-day entries use date-only stamps")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20250311", "all-day end is the following day")
}

func TestExport_Empty(t *testing.T) {
	out, err := Export(nil, "")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}
