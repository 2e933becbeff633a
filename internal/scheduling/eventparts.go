package scheduling

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/veltaplan/schedule-assist/internal/model"
	"github.com/veltaplan/schedule-assist/internal/wallclock"
)

// GenerateEventParts slices an event into 30-minute parts plus one
// remainder part when the duration is not a multiple of 30. Part and
// LastPart are 1-based; GroupID starts as the event id.
func GenerateEventParts(e model.Event, hostID string) ([]model.EventPart, error) {
	start, err := wallclock.Parse(e.StartDate, e.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "event %s", e.ID)
	}
	end, err := wallclock.Parse(e.EndDate, e.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "event %s", e.ID)
	}
	minutes := int(end.Sub(start).Minutes())
	if minutes <= 0 {
		// Zero-length events produce no parts and are dropped.
		return nil, nil
	}

	whole := minutes / 30
	remainder := minutes % 30
	total := whole
	if remainder > 0 {
		total++
	}

	ev := e
	parts := make([]model.EventPart, 0, total)
	for i := 1; i <= total; i++ {
		parts = append(parts, model.EventPart{
			GroupID:   e.ID,
			Part:      i,
			LastPart:  total,
			EventID:   e.ID,
			UserID:    e.UserID,
			HostID:    hostID,
			StartDate: e.StartDate,
			EndDate:   e.EndDate,
			Timezone:  e.Timezone,

			Priority:   e.Priority,
			Modifiable: e.Modifiable,
			Gap:        e.IsBreak,

			IsMeeting:                   e.IsMeeting,
			IsExternalMeeting:           e.IsExternalMeeting,
			IsMeetingModifiable:         e.IsMeetingModifiable,
			IsExternalMeetingModifiable: e.IsExternalMeetingModifiable,
			IsPreEvent:                  e.IsPreEvent,
			IsPostEvent:                 e.IsPostEvent,

			DailyTaskList:  e.DailyTaskList,
			WeeklyTaskList: e.WeeklyTaskList,
			TaskID:         e.TaskID,

			ForEventID:  e.ForEventID,
			PreEventID:  e.PreEventID,
			PostEventID: e.PostEventID,
			MeetingID:   e.MeetingID,

			HardDeadline: e.HardDeadline,
			SoftDeadline: e.SoftDeadline,

			PreferredDayOfWeek:      e.PreferredDayOfWeek,
			PreferredTime:           e.PreferredTime,
			PreferredStartTimeRange: e.PreferredStartTimeRange,
			PreferredEndTimeRange:   e.PreferredEndTimeRange,

			PositiveImpactScore:     e.PositiveImpactScore,
			PositiveImpactDayOfWeek: e.PositiveImpactDayOfWeek,
			PositiveImpactTime:      e.PositiveImpactTime,
			NegativeImpactScore:     e.NegativeImpactScore,
			NegativeImpactDayOfWeek: e.NegativeImpactDayOfWeek,
			NegativeImpactTime:      e.NegativeImpactTime,

			Event: &ev,
		})
	}
	return parts, nil
}

// GenerateEventPartsForEvents decomposes a list of events, preserving
// event order.
func GenerateEventPartsForEvents(events []model.Event, hostID string) ([]model.EventPart, error) {
	var out []model.EventPart
	for _, e := range events {
		parts, err := GenerateEventParts(e, hostID)
		if err != nil {
			return nil, err
		}
		out = append(out, parts...)
	}
	return out, nil
}

// SplicePreBufferParts merges each pre-buffer part group into its main
// event's group: the buffer parts come first, the whole group is
// renumbered 1..lastPart under a fresh shared group id.
func SplicePreBufferParts(parts []model.EventPart) []model.EventPart {
	for _, forID := range bufferTargets(parts, func(p model.EventPart) bool { return p.IsPreEvent }) {
		pre := selectParts(parts, func(p model.EventPart) bool {
			return p.IsPreEvent && p.ForEventID != nil && *p.ForEventID == forID
		})
		main := selectParts(parts, func(p model.EventPart) bool { return p.EventID == forID })
		if len(pre) == 0 || len(main) == 0 {
			continue
		}
		gid := uuid.New().String()
		total := len(pre) + len(main)
		renumber(parts, pre, gid, 1, total)
		renumber(parts, main, gid, len(pre)+1, total)
	}
	return parts
}

// SplicePostBufferParts appends each post-buffer part group after its
// main event's parts. A main event that already carries a pre-buffer
// keeps its group id; the post parts continue the numbering and only
// lastPart moves. Otherwise the merged group is renumbered under a
// fresh id like the pre-buffer case.
func SplicePostBufferParts(parts []model.EventPart) []model.EventPart {
	for _, forID := range bufferTargets(parts, func(p model.EventPart) bool { return p.IsPostEvent }) {
		post := selectParts(parts, func(p model.EventPart) bool {
			return p.IsPostEvent && p.ForEventID != nil && *p.ForEventID == forID
		})
		main := selectParts(parts, func(p model.EventPart) bool { return p.EventID == forID })
		if len(post) == 0 || len(main) == 0 {
			continue
		}

		if parts[main[0]].PreEventID != nil {
			// Group already renumbered by the pre-buffer splice; extend it.
			gid := parts[main[0]].GroupID
			group := selectParts(parts, func(p model.EventPart) bool { return p.GroupID == gid })
			total := len(group) + len(post)
			next := 0
			for _, idx := range group {
				if parts[idx].Part > next {
					next = parts[idx].Part
				}
			}
			for _, idx := range group {
				parts[idx].LastPart = total
			}
			renumber(parts, post, gid, next+1, total)
			continue
		}

		gid := uuid.New().String()
		total := len(main) + len(post)
		renumber(parts, main, gid, 1, total)
		renumber(parts, post, gid, len(main)+1, total)
	}
	return parts
}

// bufferTargets returns the distinct main-event ids referenced by buffer
// parts, in first-seen order.
func bufferTargets(parts []model.EventPart, isBuffer func(model.EventPart) bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range parts {
		if !isBuffer(p) || p.ForEventID == nil {
			continue
		}
		if _, ok := seen[*p.ForEventID]; ok {
			continue
		}
		seen[*p.ForEventID] = struct{}{}
		out = append(out, *p.ForEventID)
	}
	return out
}

func selectParts(parts []model.EventPart, match func(model.EventPart) bool) []int {
	var out []int
	for i, p := range parts {
		if match(p) {
			out = append(out, i)
		}
	}
	return out
}

func renumber(parts []model.EventPart, idx []int, gid string, first, lastPart int) {
	for n, i := range idx {
		parts[i].GroupID = gid
		parts[i].Part = first + n
		parts[i].LastPart = lastPart
	}
}

// SetPreferredTimeForUnmodifiableEvent pins a non-modifiable part to its
// current position. The pin is derived from the event's OWN timezone so
// the wall-clock time the user sees is what gets preserved.
func SetPreferredTimeForUnmodifiableEvent(part *model.EventPartPlanner, eventTZ string) error {
	if part.Modifiable {
		return nil
	}
	if part.PreferredDayOfWeek != nil || part.PreferredTime != nil {
		return nil
	}
	start, err := wallclock.Parse(part.EventPart.StartDate, eventTZ)
	if err != nil {
		return errors.Wrapf(err, "pin event %s", part.EventID)
	}
	day := wallclock.ISOWeekday(start)
	clock := wallclock.FormatClock(start)
	part.PreferredDayOfWeek = &day
	part.PreferredTime = &clock
	return nil
}

// TagPartsForDailyOrWeeklyTask copies the task-list flags from a
// recurring original onto the parts of its instances.
func TagPartsForDailyOrWeeklyTask(parts []model.EventPart, originals map[string]model.Event) {
	for i := range parts {
		p := &parts[i]
		if p.Event == nil || p.Event.RecurringEventID == nil {
			continue
		}
		orig, ok := originals[*p.Event.RecurringEventID]
		if !ok {
			continue
		}
		p.DailyTaskList = orig.DailyTaskList
		p.WeeklyTaskList = orig.WeeklyTaskList
	}
}
