package gradebook

import (
	"sort"
	"strconv"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
)

// ParsePeriod decodes the opaque period token carried on report cards.
// Numeric tokens restrict aggregation to that grading period; anything else
// (including the empty token) means "all lessons" and is passed through to
// the rendered report untouched.
func ParsePeriod(token string) int {
	n, err := strconv.Atoi(token)
	if err != nil || n <= 0 {
		return PeriodAll
	}
	return n
}

// lessonsInPeriod returns the set of lesson ids belonging to the given
// grading period, or nil when no restriction applies. Lessons and period
// markers share one ordering space: period 1 runs up to the first marker,
// period 2 up to the second, and so on. A period past the last marker covers
// the trailing lessons; anything beyond that is an empty set.
func lessonsInPeriod(subject *models.Subject, period int) map[uint]struct{} {
	if period == PeriodAll {
		return nil
	}

	markers := make([]int, 0, len(subject.PeriodMarkers))
	for _, m := range subject.PeriodMarkers {
		markers = append(markers, m.Position)
	}
	sort.Ints(markers)

	if period > len(markers)+1 {
		return map[uint]struct{}{}
	}

	low := -1
	if period > 1 {
		low = markers[period-2]
	}
	high := int(^uint(0) >> 1)
	if period <= len(markers) {
		high = markers[period-1]
	}

	ids := make(map[uint]struct{})
	for _, lesson := range subject.Lessons {
		if lesson.Position > low && lesson.Position < high {
			ids[lesson.ID] = struct{}{}
		}
	}
	return ids
}
