// Package scheduling implements the recurring assignment engine: it
// expands an assignment request into dated class occurrences, splits
// the requested payment across them and checks the instructor's
// existing commitments for double-bookings. Everything here is a pure
// function over its inputs; persistence and snapshot refresh belong
// to the caller.
package scheduling

import "time"

// PlanResult is the outcome of one full engine pass.
type PlanResult struct {
	Occurrences    []Occurrence
	TotalClasses   int
	PerClassAmount float64

	// Warnings holds collisions found for recurring kinds, which do
	// not block creation. Adhoc collisions are hard errors instead.
	Warnings []Conflict
}

// Plan runs the whole pipeline: validate, expand, allocate payment,
// detect conflicts against the snapshot and assemble the final
// occurrence sequence. Either the complete sequence is returned or an
// error before any occurrence leaves the engine; there is no partial
// emission. The snapshot is consulted as-is and never re-read.
func Plan(req Request, snap Snapshot, now time.Time) (*PlanResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	dates, err := Expand(req)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, newValidationError("date_range", "no classes fall inside the requested range")
	}

	core := req.Core()
	perClass := AllocatePayment(core.PaymentAmount, core.PaymentType, len(dates))

	var warnings []Conflict
	for _, d := range dates {
		conflict, err := FindConflict(Slot{
			InstructorID: core.InstructorID,
			Date:         d.Date,
			StartTime:    d.StartTime,
			EndTime:      d.EndTime,
		}, snap)
		if err != nil {
			return nil, err
		}
		if conflict == nil {
			continue
		}
		if req.Kind() == KindAdhoc {
			return nil, &ConflictError{Conflict: *conflict}
		}
		warnings = append(warnings, *conflict)
	}

	return &PlanResult{
		Occurrences:    BuildOccurrences(req, dates, perClass, now),
		TotalClasses:   len(dates),
		PerClassAmount: perClass,
		Warnings:       warnings,
	}, nil
}
