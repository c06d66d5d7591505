package registration

import (
	"fmt"
	"strconv"
	"strings"

	"marche/models"

	"github.com/google/uuid"
)

const (
	DefaultSlotDuration = 30
	DefaultSlotInterval = 10
)

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes from midnight to "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ClockRange is a half-open interval [Start, End) in minutes from midnight.
type ClockRange struct {
	Start int
	End   int
}

// BuildSlots returns the maximal run of [t, t+duration) slots inside
// [start, end) where each slot starts gap minutes after the previous one ends.
// A non-positive duration or an empty window yields no slots; a negative gap
// counts as zero.
func BuildSlots(start, end, duration, gap int) []ClockRange {
	if duration <= 0 || end <= start {
		return nil
	}
	if gap < 0 {
		gap = 0
	}

	var out []ClockRange
	for t := start; t+duration <= end; t += duration + gap {
		out = append(out, ClockRange{Start: t, End: t + duration})
	}
	return out
}

// GenerateTimeSlots is BuildSlots over "HH:MM" bounds, with a fresh id per slot.
func GenerateTimeSlots(startTime, endTime string, duration, gap int) ([]models.TimeSlot, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return nil, err
	}

	ranges := BuildSlots(start, end, duration, gap)
	slots := make([]models.TimeSlot, 0, len(ranges))
	for _, r := range ranges {
		slots = append(slots, models.TimeSlot{
			ID:        uuid.New().String(),
			StartTime: FormatClock(r.Start),
			EndTime:   FormatClock(r.End),
		})
	}
	return slots, nil
}
