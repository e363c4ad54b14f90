package calendar

import (
	"sort"
	"time"

	"schoolcal/internal/domain"
)

// VisibleItems computes the ordered set of items to render for the given
// view context. Month view shows events only; week/day views always retain
// session entries, even when their parent's type is filtered out, because
// sessions are always-relevant sub-detail once a day is in view.
func VisibleItems(snap *Snapshot, vc domain.ViewContext) []domain.DisplayItem {
	if snap == nil {
		return nil
	}
	items := snap.Flatten()

	out := items[:0:0]
	from, to := ViewWindow(vc.Anchor, vc.View)
	for _, it := range items {
		// View-based suppression: sessions never render as top-level
		// items in month view.
		if vc.View == domain.ViewMonth && it.Kind == domain.KindSession {
			continue
		}
		if !typeMatches(it, vc) {
			continue
		}
		if !inWindow(it.Date(), from, to) {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return displayLess(out[i], out[j])
	})
	return out
}

func typeMatches(it domain.DisplayItem, vc domain.ViewContext) bool {
	if vc.TypeFilter == "" || vc.TypeFilter == domain.TypeFilterAll {
		return true
	}
	// Sessions are exempt from the type filter in week/day view.
	if it.Kind == domain.KindSession && (vc.View == domain.ViewWeek || vc.View == domain.ViewDay) {
		return true
	}
	return string(it.Type()) == string(vc.TypeFilter)
}

func inWindow(date, from, to time.Time) bool {
	d := domain.DateOnly(date)
	return !d.Before(from) && !d.After(to)
}

// displayLess orders items by (date, parent event start, parent id), keeping
// each event's group contiguous: the main entry first, then its sessions by
// display order and start time. Every item in a group shares the same group
// key, so a session that starts before its parent cannot pull the group out
// of place.
func displayLess(a, b domain.DisplayItem) bool {
	ad, bd := domain.DateOnly(a.Date()), domain.DateOnly(b.Date())
	if !ad.Equal(bd) {
		return ad.Before(bd)
	}
	as, bs := anchorStart(a), anchorStart(b)
	if as != bs {
		return as < bs
	}
	if a.Event != b.Event {
		return a.Event.ID < b.Event.ID
	}
	// Within a group: main entry first, then sessions.
	if a.Kind != b.Kind {
		return a.Kind == domain.KindEvent
	}
	if a.Kind == domain.KindSession {
		if a.Session.DisplayOrder != b.Session.DisplayOrder {
			return a.Session.DisplayOrder < b.Session.DisplayOrder
		}
		return a.Session.StartTime < b.Session.StartTime
	}
	return false
}

// anchorStart maps an item to its parent event's sortable start; groups of
// all-day and untimed events sort before timed ones.
func anchorStart(it domain.DisplayItem) int {
	if it.Event.Timed() {
		return int(*it.Event.StartTime)
	}
	return -1
}
