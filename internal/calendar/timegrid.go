package calendar

import (
	"time"

	"schoolcal/internal/domain"
)

// HourRange bounds the visible hour grid, half-open [First, Last).
type HourRange struct {
	First int
	Last  int
}

// DefaultHourRange is the visible grid used when no configuration is given.
var DefaultHourRange = HourRange{First: 6, Last: 22}

// Hours returns the displayed hours in order.
func (r HourRange) Hours() []int {
	if r.Last <= r.First {
		return nil
	}
	out := make([]int, 0, r.Last-r.First)
	for h := r.First; h < r.Last; h++ {
		out = append(out, h)
	}
	return out
}

// Contains reports whether hour falls inside the visible grid.
func (r HourRange) Contains(hour int) bool {
	return hour >= r.First && hour < r.Last
}

// HourBuckets returns the grid hours the item occupies on the given date.
// All-day items fill every displayed hour; timed items span
// [start hour, end hour); an untimed, non-all-day event falls back to the
// single hour carried by its start date timestamp.
func HourBuckets(item domain.DisplayItem, date time.Time, grid HourRange) []int {
	if !domain.SameDay(item.Date(), date) {
		return nil
	}
	if item.AllDay() {
		return grid.Hours()
	}
	start, end := item.StartTime(), item.EndTime()
	if start == nil || end == nil {
		return []int{item.Date().Hour()}
	}
	first, last := start.Hour(), end.Hour()
	if last <= first {
		// Sub-hour item: still occupies its start hour.
		return []int{first}
	}
	out := make([]int, 0, last-first)
	for h := first; h < last; h++ {
		out = append(out, h)
	}
	return out
}

// OccupiesHour reports whether the item should be drawn in the given hour row
// of the given date.
func OccupiesHour(item domain.DisplayItem, hour int, date time.Time, grid HourRange) bool {
	for _, h := range HourBuckets(item, date, grid) {
		if h == hour {
			return true
		}
	}
	return false
}

// SegmentPosition classifies how a multi-hour item is drawn in one hour row,
// so consecutive rows render as a continuous block.
type SegmentPosition int

const (
	SegmentNone SegmentPosition = iota
	SegmentStart
	SegmentMiddle
	SegmentEnd
	SegmentSingle
)

func (p SegmentPosition) String() string {
	switch p {
	case SegmentStart:
		return "start"
	case SegmentMiddle:
		return "middle"
	case SegmentEnd:
		return "end"
	case SegmentSingle:
		return "single"
	default:
		return "none"
	}
}

// Segment returns the item's position within the given hour row and whether
// the title should be drawn there. Titles are drawn once, at the start (or
// single) row only.
func Segment(item domain.DisplayItem, hour int, grid HourRange) (SegmentPosition, bool) {
	var first, last int
	switch {
	case item.AllDay():
		hours := grid.Hours()
		if len(hours) == 0 {
			return SegmentNone, false
		}
		first, last = hours[0], hours[len(hours)-1]
	default:
		buckets := HourBuckets(item, item.Date(), grid)
		if len(buckets) == 0 {
			return SegmentNone, false
		}
		first, last = buckets[0], buckets[len(buckets)-1]
	}
	if hour < first || hour > last {
		return SegmentNone, false
	}
	switch {
	case first == last:
		return SegmentSingle, true
	case hour == first:
		return SegmentStart, true
	case hour == last:
		return SegmentEnd, false
	default:
		return SegmentMiddle, false
	}
}

// ViewWindow computes the inclusive [from, to] date range covered by a view
// anchored at the given date. Month windows align to the calendar grid:
// start of the week containing the 1st through end of the week containing
// the last day. Weeks start on Sunday.
func ViewWindow(anchor time.Time, view domain.View) (from, to time.Time) {
	anchor = domain.DateOnly(anchor)
	switch view {
	case domain.ViewDay:
		return anchor, anchor
	case domain.ViewWeek:
		from = startOfWeek(anchor)
		return from, from.AddDate(0, 0, 6)
	case domain.ViewMonth:
		fallthrough
	default:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return startOfWeek(first), startOfWeek(last).AddDate(0, 0, 6)
	}
}

func startOfWeek(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}
