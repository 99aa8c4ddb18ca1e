package models

import (
	"fmt"

	"github.com/desertthunder/atx/internal/shared"
)

// DraftEntry holds one student's unsaved fields for an in-progress class session.
//
// Optional fields use pointers: nil means the instructor has not touched the field.
// An entry whose Attendance is nil is excluded from commit entirely.
type DraftEntry struct {
	StudentID           int
	Attendance          *AttendanceStatus
	Participation       *ParticipationLevel
	AssignmentDelivered *bool
	AssignmentGrade     *float64 // [1,10], meaningful only when AssignmentDelivered is true
	Attitude            *Attitude
	Notes               string
}

// SessionDraft is the client-held state for one class session before commit.
//
// It is owned by a single workflow instance and mutated only from the event loop,
// so it carries no locking. All mutation goes through the Set* methods, which
// validate input and keep the present/absent counters current.
type SessionDraft struct {
	CourseID   int
	CohortYear int
	Date       string // YYYY-MM-DD

	roster  []Student
	entries map[int]*DraftEntry
	// assignmentID -> studentID -> delivery status
	deliveryMarks map[int]map[int]DeliveryStatus

	presentCount int
	absentCount  int
	committed    bool
}

// NewSessionDraft creates an empty draft for the given course offering and date.
func NewSessionDraft(courseID, cohortYear int, date string) *SessionDraft {
	return &SessionDraft{
		CourseID:      courseID,
		CohortYear:    cohortYear,
		Date:          date,
		entries:       make(map[int]*DraftEntry),
		deliveryMarks: make(map[int]map[int]DeliveryStatus),
	}
}

// Seed populates the draft with one untouched entry per roster student, in order.
// Any previously seeded entries are discarded.
func (d *SessionDraft) Seed(students []Student) {
	d.roster = make([]Student, len(students))
	copy(d.roster, students)

	d.entries = make(map[int]*DraftEntry, len(students))
	for _, s := range students {
		d.entries[s.ID] = &DraftEntry{StudentID: s.ID}
	}
	d.recount()
}

// Roster returns the seeded students in API order.
func (d *SessionDraft) Roster() []Student {
	return d.roster
}

// Entry returns the draft entry for the given student, if seeded.
func (d *SessionDraft) Entry(studentID int) (*DraftEntry, bool) {
	e, ok := d.entries[studentID]
	return e, ok
}

// Counts returns the derived attendance counters for display.
// Present counts Present and Late entries; absent counts Absent entries.
// Untouched entries contribute to neither.
func (d *SessionDraft) Counts() (present, absent int) {
	return d.presentCount, d.absentCount
}

// MarkedCount returns how many entries have an attendance status set.
func (d *SessionDraft) MarkedCount() int {
	n := 0
	for _, e := range d.entries {
		if e.Attendance != nil {
			n++
		}
	}
	return n
}

// Committed reports whether this draft has already been consumed by a commit.
func (d *SessionDraft) Committed() bool { return d.committed }

// MarkCommitted flags the draft as consumed. A draft is committed at most once.
func (d *SessionDraft) MarkCommitted() { d.committed = true }

// DeliveryMarks returns the collected per-assignment delivery statuses.
func (d *SessionDraft) DeliveryMarks() map[int]map[int]DeliveryStatus {
	return d.deliveryMarks
}

// SetAttendance records an attendance status for a roster student. Last write wins.
func (d *SessionDraft) SetAttendance(studentID int, status AttendanceStatus) error {
	e, ok := d.entries[studentID]
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrUnknownStudent, studentID)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: attendance status '%s'", shared.ErrInvalidArgument, status)
	}

	e.Attendance = &status
	d.recount()
	return nil
}

// SetParticipation records a participation level for a roster student.
func (d *SessionDraft) SetParticipation(studentID int, level ParticipationLevel) error {
	e, ok := d.entries[studentID]
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrUnknownStudent, studentID)
	}
	if !level.Valid() {
		return fmt.Errorf("%w: participation level '%s'", shared.ErrInvalidArgument, level)
	}

	e.Participation = &level
	d.recount()
	return nil
}

// SetAssignmentDelivered records whether the student handed in the session's assignment.
func (d *SessionDraft) SetAssignmentDelivered(studentID int, delivered bool) error {
	e, ok := d.entries[studentID]
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrUnknownStudent, studentID)
	}

	e.AssignmentDelivered = &delivered
	d.recount()
	return nil
}

// SetAssignmentGrade records an assignment grade in [1,10].
// A nil grade clears the field; an out-of-range grade fails with
// [shared.ErrGradeRange] and leaves the prior value untouched.
func (d *SessionDraft) SetAssignmentGrade(studentID int, grade *float64) error {
	e, ok := d.entries[studentID]
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrUnknownStudent, studentID)
	}

	if grade == nil {
		e.AssignmentGrade = nil
		d.recount()
		return nil
	}

	if *grade < 1 || *grade > 10 {
		return fmt.Errorf("%w: %.1f not in [1,10]", shared.ErrGradeRange, *grade)
	}

	g := *grade
	e.AssignmentGrade = &g
	d.recount()
	return nil
}

// SetAttitude records the student's in-class attitude.
func (d *SessionDraft) SetAttitude(studentID int, attitude Attitude) error {
	e, ok := d.entries[studentID]
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrUnknownStudent, studentID)
	}
	if !attitude.Valid() {
		return fmt.Errorf("%w: attitude '%s'", shared.ErrInvalidArgument, attitude)
	}

	e.Attitude = &attitude
	d.recount()
	return nil
}

// SetNotes records free-text observations for the student.
func (d *SessionDraft) SetNotes(studentID int, text string) error {
	e, ok := d.entries[studentID]
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrUnknownStudent, studentID)
	}

	e.Notes = text
	return nil
}

// SetDeliveryMark records a delivery status for one student on one assignment.
func (d *SessionDraft) SetDeliveryMark(assignmentID, studentID int, status DeliveryStatus) error {
	if _, ok := d.entries[studentID]; !ok {
		return fmt.Errorf("%w: %d", shared.ErrUnknownStudent, studentID)
	}
	if !status.Valid() {
		return fmt.Errorf("%w: delivery status '%s'", shared.ErrInvalidArgument, status)
	}

	if d.deliveryMarks[assignmentID] == nil {
		d.deliveryMarks[assignmentID] = make(map[int]DeliveryStatus)
	}
	d.deliveryMarks[assignmentID][studentID] = status
	return nil
}

// recount recomputes the present/absent counters by scanning every entry.
// A full re-scan avoids drift from out-of-order UI events.
func (d *SessionDraft) recount() {
	present, absent := 0, 0
	for _, e := range d.entries {
		if e.Attendance == nil {
			continue
		}
		switch *e.Attendance {
		case AttendancePresent, AttendanceLate:
			present++
		case AttendanceAbsent:
			absent++
		}
	}
	d.presentCount = present
	d.absentCount = absent
}
