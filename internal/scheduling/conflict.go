package scheduling

import (
	"fmt"
	"time"
)

// TemplateSlot is an instructor's recurring weekly commitment as seen
// by the conflict detector.
type TemplateSlot struct {
	TemplateID   string
	InstructorID string
	DayOfWeek    time.Weekday
	StartTime    string
	EndTime      string
	Active       bool
}

// Snapshot is the read-only view of existing commitments one
// validation pass checks against. It is read once and never refreshed
// mid-generation; closing the read-then-act race is the persistence
// layer's contract.
type Snapshot struct {
	Occurrences []Occurrence
	Templates   []TemplateSlot
}

// ConflictKind distinguishes which commitment collided.
type ConflictKind string

const (
	ConflictOneOff   ConflictKind = "one_off"
	ConflictTemplate ConflictKind = "template"
)

// Conflict describes the first commitment found to collide with a
// proposed slot. Exactly one of Occurrence/Template is set.
type Conflict struct {
	Kind       ConflictKind
	Date       time.Time
	Occurrence *Occurrence
	Template   *TemplateSlot
}

// Message renders a caller-facing description of the collision.
func (c Conflict) Message() string {
	switch c.Kind {
	case ConflictOneOff:
		if c.Occurrence != nil {
			return fmt.Sprintf("instructor already booked on %s from %s to %s",
				c.Occurrence.Date.Format(DateLayout), c.Occurrence.StartTime, c.Occurrence.EndTime)
		}
	case ConflictTemplate:
		if c.Template != nil {
			return fmt.Sprintf("instructor has a recurring %s class from %s to %s",
				c.Template.DayOfWeek, c.Template.StartTime, c.Template.EndTime)
		}
	}
	return "instructor is not available for this slot"
}

// Slot is a proposed instructor booking to check for collisions.
type Slot struct {
	InstructorID string
	Date         time.Time
	StartTime    string
	EndTime      string
}

// FindConflict reports the first colliding commitment for the slot,
// or nil when the instructor is free. One-off occurrences are scanned
// before weekly templates, so when both would collide the more
// specific one-off booking is the one reported. Only the first match
// is returned, keeping the caller's feedback to one actionable
// message per check.
func FindConflict(slot Slot, snap Snapshot) (*Conflict, error) {
	start, err := ToMinutes(slot.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ToMinutes(slot.EndTime)
	if err != nil {
		return nil, err
	}

	for i := range snap.Occurrences {
		occ := snap.Occurrences[i]
		if occ.InstructorID != slot.InstructorID || !sameDate(occ.Date, slot.Date) {
			continue
		}
		occStart, err := ToMinutes(occ.StartTime)
		if err != nil {
			return nil, err
		}
		occEnd, err := ToMinutes(occ.EndTime)
		if err != nil {
			return nil, err
		}
		if Overlaps(start, end, occStart, occEnd) {
			return &Conflict{Kind: ConflictOneOff, Date: midnight(slot.Date), Occurrence: &occ}, nil
		}
	}

	weekday := slot.Date.Weekday()
	for i := range snap.Templates {
		tpl := snap.Templates[i]
		if !tpl.Active || tpl.InstructorID != slot.InstructorID || tpl.DayOfWeek != weekday {
			continue
		}
		tplStart, err := ToMinutes(tpl.StartTime)
		if err != nil {
			return nil, err
		}
		tplEnd, err := ToMinutes(tpl.EndTime)
		if err != nil {
			return nil, err
		}
		if Overlaps(start, end, tplStart, tplEnd) {
			return &Conflict{Kind: ConflictTemplate, Date: midnight(slot.Date), Template: &tpl}, nil
		}
	}

	return nil, nil
}

// AvailableInstructors filters the roster down to instructors with no
// conflict for the proposed slot.
func AvailableInstructors(date time.Time, startTime, endTime string, instructorIDs []string, snap Snapshot) ([]string, error) {
	available := make([]string, 0, len(instructorIDs))
	for _, id := range instructorIDs {
		conflict, err := FindConflict(Slot{
			InstructorID: id,
			Date:         date,
			StartTime:    startTime,
			EndTime:      endTime,
		}, snap)
		if err != nil {
			return nil, err
		}
		if conflict == nil {
			available = append(available, id)
		}
	}
	return available, nil
}
