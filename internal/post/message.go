package post

import (
	"fmt"
	"strings"
	"time"

	"github.com/chaptertools/herald"
)

// maxBlocksPerMessage is the platform ceiling on blocks per message.
const maxBlocksPerMessage = 50

const (
	chromeBlocks   = 2 // header + subtitle
	blocksPerEvent = 2 // separator + section
	overflowBlocks = 1
)

// maxVisibleEvents is derived from the platform ceiling and the per-event
// block cost; recompute it from the formula if either input changes.
const maxVisibleEvents = (maxBlocksPerMessage - chromeBlocks - overflowBlocks) / blocksPerEvent

// displayZone is the reference zone every rendered date uses, regardless
// of the offsets the upstream sent.
var displayZone = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

var eventTypeLabels = map[string]string{
	"physical": "🏢 In person",
	"virtual":  "💻 Virtual",
	"online":   "💻 Virtual",
	"hybrid":   "🔀 Hybrid",
}

func virtualType(typ string) bool {
	typ = strings.ToLower(typ)
	return typ == "virtual" || typ == "online"
}

// BuildMessage renders the chapter's upcoming events into a block
// document plus its plain-text fallback. The output is fully determined
// by its arguments; pass a fixed now to get identical documents.
func BuildMessage(chapter herald.Chapter, events herald.Events, daysAhead int, now time.Time) Message {
	from := now.In(displayZone)
	to := from.Add(time.Duration(daysAhead) * herald.Day)

	blocks := make([]Block, 0, maxBlocksPerMessage)
	blocks = append(blocks, headerBlock(fmt.Sprintf("Upcoming %s events 📆", chapter.Name)))
	blocks = append(blocks, sectionBlock(fmt.Sprintf(
		"Here's what's coming up in the next %d days (%s to %s). See <%s|all %s events> for the full schedule.",
		daysAhead, from.Format("Jan 2"), to.Format("Jan 2, 2006"), chapter.URL, chapter.Name)))

	if len(events) == 0 {
		empty := fmt.Sprintf("No upcoming events in the next %d days.", daysAhead)
		blocks = append(blocks, sectionBlock(empty))
		return Message{Channel: chapter.ChannelID, Text: empty, Blocks: blocks}
	}

	visible := events
	overflow := 0
	if len(visible) > maxVisibleEvents {
		overflow = len(visible) - maxVisibleEvents
		visible = visible[:maxVisibleEvents]
	}
	for _, ev := range visible {
		blocks = append(blocks, dividerBlock(), sectionBlock(renderEvent(ev)))
	}
	if overflow > 0 {
		blocks = append(blocks, contextBlock(fmt.Sprintf(
			"+%d more %s. See <%s|the full schedule>.",
			overflow, pluralize(overflow, "event"), chapter.URL)))
	}

	fallback := fmt.Sprintf("%d %s in the next %d days", len(events), pluralize(len(events), "event"), daysAhead)
	return Message{Channel: chapter.ChannelID, Text: fallback, Blocks: blocks}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}

func renderEvent(ev herald.Event) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "*<%s|%s>*", ev.URL, ev.Title)
	for _, s := range ev.Sessions {
		b.WriteString("\n")
		b.WriteString(renderSession(ev, s))
	}
	return b.String()
}

// renderSession renders one occurrence line. The start time's zone
// suffix is elided, the end time's covers both.
func renderSession(ev herald.Event, s herald.Session) string {
	start := s.StartTime.In(displayZone)
	end := s.EndTime.In(displayZone)

	line := fmt.Sprintf("📅 %s to %s", start.Format("Mon, Jan 2, 3:04 PM"), end.Format("3:04 PM MST"))
	if !virtualType(ev.EventType) {
		if loc := sessionLocation(s); loc != "" {
			line += " · 📍 " + loc
		}
	}
	if label, ok := eventTypeLabels[strings.ToLower(ev.EventType)]; ok {
		line += " · " + label
	}
	return line
}

func sessionLocation(s herald.Session) string {
	if s.LocationAddress != "" {
		return s.LocationAddress
	}
	return s.LocationName
}
