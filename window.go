package herald

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Day is the fixed span used for lookahead arithmetic. The window is a
// multiple of 24h, not a calendar day, so a DST transition inside the
// window shifts its far edge by an hour.
const Day = 24 * time.Hour

// Upcoming reduces events to the ones announceable between now and
// now + daysAhead days. Events without a public page or tagged with
// TagExclude are dropped, each kept event's sessions are reduced to the
// ones starting inside the window (bounds inclusive) and sorted by start
// time, and events left without sessions are dropped too. The result is
// ordered by first session start; equal starts keep their input order.
func Upcoming(events Events, daysAhead int, now time.Time) Events {
	cutoff := now.Add(time.Duration(daysAhead) * Day)

	upcoming := make(Events, 0, len(events))
	for _, ev := range events {
		if !ev.Displayable() || ev.Excluded() {
			continue
		}
		sessions := lo.Filter(ev.Sessions, func(s Session, _ int) bool {
			return !s.StartTime.Before(now) && !s.StartTime.After(cutoff)
		})
		if len(sessions) == 0 {
			continue
		}
		sort.SliceStable(sessions, func(i, j int) bool {
			return sessions[i].StartTime.Before(sessions[j].StartTime)
		})
		ev.Sessions = sessions
		upcoming = append(upcoming, ev)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Sessions[0].StartTime.Before(upcoming[j].Sessions[0].StartTime)
	})
	return upcoming
}
