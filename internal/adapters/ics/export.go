package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"schoolcal/internal/domain"
)

// Export renders the given display items as an iCalendar document. All-day
// events become DATE values; timed items get local wall-clock DTSTART/DTEND
// on their calendar date. Sessions export under their own ids with the
// parent event id recorded as RELATED-TO.
func Export(items []domain.DisplayItem, name string) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if name != "" {
		cal.SetName(name)
	}

	for _, it := range items {
		ev := cal.AddEvent(uidFor(it))
		ev.SetSummary(it.Title())
		ev.SetDtStampTime(time.Now())

		date := domain.DateOnly(it.Date())
		switch {
		case it.AllDay():
			ev.SetAllDayStartAt(date)
			ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
		default:
			start, end := it.StartTime(), it.EndTime()
			if start == nil || end == nil {
				// Untimed event: export as all-day on its date.
				ev.SetAllDayStartAt(date)
				ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
				break
			}
			ev.SetStartAt(atTime(date, *start))
			ev.SetEndAt(atTime(date, *end))
		}

		if it.Kind == domain.KindSession {
			ev.AddProperty(ical.ComponentProperty("RELATED-TO"), it.Event.ID)
			if it.Session.Description != nil {
				ev.SetDescription(*it.Session.Description)
			}
			if it.Session.Location != nil {
				ev.SetLocation(*it.Session.Location)
			}
		} else {
			if it.Event.Description != nil {
				ev.SetDescription(*it.Event.Description)
			}
			if it.Event.Location != nil {
				ev.SetLocation(*it.Event.Location)
			}
		}
	}
	return cal.Serialize(), nil
}

func uidFor(it domain.DisplayItem) string {
	if it.Kind == domain.KindSession {
		return fmt.Sprintf("session-%s@schoolcal", it.Session.ID)
	}
	return fmt.Sprintf("event-%s@schoolcal", it.Event.ID)
}

func atTime(date time.Time, t domain.TimeOfDay) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
}
