// Package schedule encodes the weekly lesson slots of a lesson line.
//
// A schedule travels as one string field, for example
// "Monday 09:00-10:00, Tuesday 14:00-15:30". Everything outside the draft
// boundary works on []Slot and only encodes when writing the field back.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	slotSeparator = ", "
	minutesPerDay = 24 * 60
)

// Slot is one weekly recurring interval. Start and End are minutes since midnight.
type Slot struct {
	Day   time.Weekday `json:"day"`
	Start int          `json:"start"`
	End   int          `json:"end"`
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Day, FormatClock(s.Start), FormatClock(s.End))
}

// Overlaps reports whether two slots share time on the same day.
// Adjacent slots (one ends when the other starts) do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	if s.Day != other.Day {
		return false
	}
	return s.Start < other.End && s.End > other.Start
}

// Candidate is the raw input of the schedule builder before it becomes a Slot.
type Candidate struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Parse decodes an encoded schedule. The empty string is an empty schedule.
func Parse(s string) ([]Slot, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, slotSeparator)
	slots := make([]Slot, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		slot, err := parseSlot(part)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func parseSlot(part string) (Slot, error) {
	dayName, times, ok := strings.Cut(part, " ")
	if !ok {
		return Slot{}, fmt.Errorf("%w: %q", ErrMalformed, part)
	}
	day, ok := ParseDay(dayName)
	if !ok {
		return Slot{}, fmt.Errorf("%w: unknown day in %q", ErrMalformed, part)
	}
	startText, endText, ok := strings.Cut(times, "-")
	if !ok {
		return Slot{}, fmt.Errorf("%w: missing time range in %q", ErrMalformed, part)
	}
	start, err := ParseClock(startText)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q: %v", ErrMalformed, part, err)
	}
	end, err := ParseClock(endText)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q: %v", ErrMalformed, part, err)
	}
	return Slot{Day: day, Start: start, End: end}, nil
}

// Serialize encodes slots in order. It is the inverse of Parse.
func Serialize(slots []Slot) string {
	parts := make([]string, len(slots))
	for i, slot := range slots {
		parts[i] = slot.String()
	}
	return strings.Join(parts, slotSeparator)
}

// CanAdd checks a candidate against the existing slots without modifying them.
func CanAdd(existing []Slot, c Candidate) error {
	_, err := candidateSlot(existing, c)
	return err
}

// Add returns existing with the candidate appended, or the refusal reason.
// A refused candidate is never partially applied.
func Add(existing []Slot, c Candidate) ([]Slot, error) {
	slot, err := candidateSlot(existing, c)
	if err != nil {
		return existing, err
	}
	out := make([]Slot, 0, len(existing)+1)
	out = append(out, existing...)
	return append(out, slot), nil
}

func candidateSlot(existing []Slot, c Candidate) (Slot, error) {
	startText := strings.TrimSpace(c.Start)
	endText := strings.TrimSpace(c.End)
	if startText == "" || endText == "" {
		return Slot{}, &SlotError{Reason: ReasonMissingTime}
	}
	day, ok := ParseDay(c.Day)
	if !ok {
		return Slot{}, &SlotError{Reason: ReasonInvalidDay}
	}
	start, err := ParseClock(startText)
	if err != nil {
		return Slot{}, &SlotError{Reason: ReasonInvalidTime}
	}
	end, err := ParseClock(endText)
	if err != nil {
		return Slot{}, &SlotError{Reason: ReasonInvalidTime}
	}
	slot := Slot{Day: day, Start: start, End: end}
	if slot.End <= slot.Start {
		return Slot{}, &SlotError{Reason: ReasonInvalidRange}
	}
	for _, other := range existing {
		if slot.Overlaps(other) {
			return Slot{}, &SlotError{Reason: ReasonOverlap, Conflict: other}
		}
	}
	return slot, nil
}

// Remove returns a copy of existing without the slot at index.
// An out-of-range index leaves the schedule unchanged.
func Remove(existing []Slot, index int) []Slot {
	out := make([]Slot, 0, len(existing))
	for i, slot := range existing {
		if i == index {
			continue
		}
		out = append(out, slot)
	}
	return out
}

// Check verifies the invariants of an already decoded schedule: every slot ends
// after it starts and no two slots on the same day overlap.
func Check(slots []Slot) error {
	for i, slot := range slots {
		if slot.End <= slot.Start {
			return &SlotError{Reason: ReasonInvalidRange}
		}
		for _, other := range slots[:i] {
			if slot.Overlaps(other) {
				return &SlotError{Reason: ReasonOverlap, Conflict: other}
			}
		}
	}
	return nil
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	hoursText, minutesText, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("schedule: time %q is not HH:MM", s)
	}
	hours, err := strconv.Atoi(hoursText)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("schedule: hour out of range in %q", s)
	}
	minutes, err := strconv.Atoi(minutesText)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("schedule: minute out of range in %q", s)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as zero padded "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
