package schedule

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned by Parse when the encoded schedule does not follow
// the "<Day> <HH:MM>-<HH:MM>" layout.
var ErrMalformed = errors.New("schedule: malformed slot")

// Reason classifies why a candidate slot was refused.
type Reason string

const (
	ReasonMissingTime  Reason = "missing_time"
	ReasonInvalidTime  Reason = "invalid_time"
	ReasonInvalidDay   Reason = "invalid_day"
	ReasonInvalidRange Reason = "invalid_range"
	ReasonOverlap      Reason = "overlap"
)

var reasonMessages = map[Reason]string{
	ReasonMissingTime:  "Enter both times.",
	ReasonInvalidTime:  "Times must use the HH:MM format.",
	ReasonInvalidDay:   "Choose a day of the week.",
	ReasonInvalidRange: "End time must be after start.",
	ReasonOverlap:      "Time overlaps with an existing slot!",
}

// SlotError is returned when a candidate cannot be added to a schedule.
type SlotError struct {
	Reason Reason
	// Conflict is the existing slot hit by an overlap, zero otherwise.
	Conflict Slot
}

func (e *SlotError) Error() string {
	if e.Reason == ReasonOverlap {
		return fmt.Sprintf("schedule: %s (conflicts with %s)", e.Reason, e.Conflict)
	}
	return fmt.Sprintf("schedule: %s", e.Reason)
}

// Message is the user-facing text shown next to the schedule builder.
func (e *SlotError) Message() string {
	if msg, ok := reasonMessages[e.Reason]; ok {
		return msg
	}
	return string(e.Reason)
}

// ReasonOf extracts the refusal reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var slotErr *SlotError
	if errors.As(err, &slotErr) {
		return slotErr.Reason, true
	}
	return "", false
}
