// Package events partitions photos into temporal events: maximal runs of
// chronologically sorted photos with no internal gap exceeding a
// configured threshold.
package events

import (
	"sort"
	"time"

	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

// TimestampLayout is the exact EXIF timestamp format accepted by event
// grouping. Anything else is treated as unparseable.
const TimestampLayout = "2006:01:02 15:04:05"

// DefaultGapHours is the event split threshold when none is given.
const DefaultGapHours = 6.0

// GroupByEvent partitions records into events separated by more than
// gapHours. Records with a missing or unparseable timestamp are excluded
// entirely: no event id, not present in any group. The remaining records
// are sorted ascending by timestamp (stable, so ties keep input order)
// and walked once; a new event starts whenever the gap since the previous
// record strictly exceeds gapHours. Event ids are sequential from 0 and
// each included record is mutated with its id. The returned map lists
// each event's members in chronological order.
func GroupByEvent(records []*organizer.PhotoRecord, gapHours float64) map[int][]*organizer.PhotoRecord {
	type timed struct {
		at  time.Time
		rec *organizer.PhotoRecord
	}

	var items []timed
	for _, rec := range records {
		if rec.Exif.Timestamp == "" {
			continue
		}
		at, err := time.Parse(TimestampLayout, rec.Exif.Timestamp)
		if err != nil {
			continue
		}
		items = append(items, timed{at: at, rec: rec})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].at.Before(items[j].at)
	})

	gap := time.Duration(gapHours * float64(time.Hour))
	groups := make(map[int][]*organizer.PhotoRecord)
	eventID := -1
	var last time.Time

	for i, item := range items {
		if i == 0 || item.at.Sub(last) > gap {
			eventID++
		}
		id := eventID
		item.rec.EventID = &id
		groups[eventID] = append(groups[eventID], item.rec)
		last = item.at
	}

	return groups
}

// NameEvent sets the display name on every record currently in the
// event's group. The name is stored per record, so it is not retroactive
// for records grouped later. Unknown event ids are a no-op.
func NameEvent(events map[int][]*organizer.PhotoRecord, eventID int, name string) {
	for _, rec := range events[eventID] {
		rec.EventName = name
	}
}

// RenameEvent overwrites the display name for an event. Identical to
// NameEvent; last write wins.
func RenameEvent(events map[int][]*organizer.PhotoRecord, eventID int, name string) {
	NameEvent(events, eventID, name)
}
