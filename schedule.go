package crossway

import (
	"sort"
	"strconv"
	"strings"
)

// ParseCounts converts the raw text of every lane field into a vehicle
// count. A missing lane counts as empty text. Every lane that is not a
// non-negative integer is reported in a single *InvalidInputError.
func ParseCounts(raw map[LaneID]string) (map[LaneID]int, error) {
	counts := make(map[LaneID]int, NumLanes)
	values := make(map[LaneID]string, NumLanes)
	var bad []LaneID
	for _, lane := range AllLanes {
		text := raw[lane]
		values[lane] = text
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || n < 0 {
			bad = append(bad, lane)
			continue
		}
		counts[lane] = n
	}
	if len(bad) > 0 {
		return nil, NewInvalidInputError(bad, values)
	}
	return counts, nil
}

// BuildSchedule orders the lanes by vehicle count, busiest first. Lanes
// with equal counts keep their original order.
func BuildSchedule(counts map[LaneID]int) []LaneID {
	schedule := make([]LaneID, len(AllLanes))
	copy(schedule, AllLanes)
	sort.SliceStable(schedule, func(i, j int) bool {
		return counts[schedule[i]] > counts[schedule[j]]
	})
	return schedule
}
