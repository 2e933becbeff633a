package assembler

import (
	"strconv"
	"strings"

	"github.com/veltaplan/schedule-assist/internal/model"
)

// dedupBy keeps the first occurrence per key in a single pass.
func dedupBy[T any](items []T, key func(T) string) []T {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}

func eventPartKey(p model.EventPartPlanner) string {
	return strings.Join([]string{
		p.GroupID,
		strconv.Itoa(p.Part),
		p.EventID,
		p.UserID,
		p.EventPart.StartDate,
		p.EventPart.EndDate,
	}, "|")
}

func timeslotKey(s model.TimeSlot) string {
	return strings.Join([]string{s.HostID, s.Date, s.StartTime, s.EndTime}, "|")
}
