package geo

import (
	"fmt"

	"github.com/kozaktomas/photo-organizer/internal/organizer"
)

// GroupByLocation partitions records by their resolved value at the
// given level (city, state or country). Records with an empty value at
// that level are excluded entirely; there is no "unknown" bucket. Order
// within each group is first-seen record order.
func GroupByLocation(records []*organizer.PhotoRecord, level organizer.LocationLevel) (map[string][]*organizer.PhotoRecord, error) {
	switch level {
	case organizer.LevelCity, organizer.LevelState, organizer.LevelCountry:
	default:
		return nil, fmt.Errorf("unknown location level %q (want city, state or country)", level)
	}

	groups := make(map[string][]*organizer.PhotoRecord)
	for _, rec := range records {
		key := rec.LocationField(level)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], rec)
	}
	return groups, nil
}
