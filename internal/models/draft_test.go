package models

import (
	"errors"
	"testing"

	"github.com/desertthunder/atx/internal/shared"
)

func seededDraft() *SessionDraft {
	d := NewSessionDraft(7, 2024, "2026-04-10")
	d.Seed([]Student{
		{ID: 1, FullName: "Ana Suarez", CohortYear: 2024},
		{ID: 2, FullName: "Bruno Paz", CohortYear: 2024},
		{ID: 3, FullName: "Carla Ibanez", CohortYear: 2024},
		{ID: 4, FullName: "Diego Funes", CohortYear: 2024},
	})
	return d
}

func TestSessionDraft_Seed(t *testing.T) {
	d := seededDraft()

	if got := len(d.Roster()); got != 4 {
		t.Fatalf("Roster() length = %d, want 4", got)
	}

	for _, s := range d.Roster() {
		e, ok := d.Entry(s.ID)
		if !ok {
			t.Fatalf("Entry(%d) missing after seed", s.ID)
		}
		if e.Attendance != nil || e.Participation != nil || e.AssignmentDelivered != nil ||
			e.AssignmentGrade != nil || e.Attitude != nil || e.Notes != "" {
			t.Errorf("Entry(%d) not untouched after seed: %+v", s.ID, e)
		}
	}

	present, absent := d.Counts()
	if present != 0 || absent != 0 {
		t.Errorf("Counts() = (%d, %d), want (0, 0)", present, absent)
	}
}

func TestSessionDraft_LastWriteWins(t *testing.T) {
	d := seededDraft()

	if err := d.SetAttendance(1, AttendanceAbsent); err != nil {
		t.Fatalf("SetAttendance() error = %v", err)
	}
	if err := d.SetAttendance(1, AttendancePresent); err != nil {
		t.Fatalf("SetAttendance() error = %v", err)
	}

	e, _ := d.Entry(1)
	if e.Attendance == nil || *e.Attendance != AttendancePresent {
		t.Errorf("Attendance = %v, want Present", e.Attendance)
	}

	if err := d.SetParticipation(1, ParticipationLow); err != nil {
		t.Fatalf("SetParticipation() error = %v", err)
	}
	if err := d.SetParticipation(1, ParticipationHigh); err != nil {
		t.Fatalf("SetParticipation() error = %v", err)
	}
	if *e.Participation != ParticipationHigh {
		t.Errorf("Participation = %v, want High", *e.Participation)
	}

	if err := d.SetNotes(1, "first"); err != nil {
		t.Fatalf("SetNotes() error = %v", err)
	}
	if err := d.SetNotes(1, "second"); err != nil {
		t.Fatalf("SetNotes() error = %v", err)
	}
	if e.Notes != "second" {
		t.Errorf("Notes = %q, want %q", e.Notes, "second")
	}
}

func TestSessionDraft_UnknownStudent(t *testing.T) {
	d := seededDraft()

	ops := []struct {
		name string
		call func() error
	}{
		{"SetAttendance", func() error { return d.SetAttendance(99, AttendancePresent) }},
		{"SetParticipation", func() error { return d.SetParticipation(99, ParticipationHigh) }},
		{"SetAssignmentDelivered", func() error { return d.SetAssignmentDelivered(99, true) }},
		{"SetAssignmentGrade", func() error { g := 7.0; return d.SetAssignmentGrade(99, &g) }},
		{"SetAttitude", func() error { return d.SetAttitude(99, AttitudeGood) }},
		{"SetNotes", func() error { return d.SetNotes(99, "x") }},
		{"SetDeliveryMark", func() error { return d.SetDeliveryMark(1, 99, DeliveryOnTime) }},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			if err := op.call(); !errors.Is(err, shared.ErrUnknownStudent) {
				t.Errorf("%s(99) error = %v, want ErrUnknownStudent", op.name, err)
			}
		})
	}
}

func TestSessionDraft_SetAssignmentGrade(t *testing.T) {
	tests := []struct {
		name    string
		grade   float64
		wantErr bool
	}{
		{"below range", 0, true},
		{"above range", 11, true},
		{"half step", 7.5, false},
		{"lower bound", 1, false},
		{"upper bound", 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := seededDraft()
			prior := 6.0
			if err := d.SetAssignmentGrade(2, &prior); err != nil {
				t.Fatalf("seeding prior grade: %v", err)
			}

			err := d.SetAssignmentGrade(2, &tt.grade)
			e, _ := d.Entry(2)

			if tt.wantErr {
				if !errors.Is(err, shared.ErrGradeRange) {
					t.Fatalf("SetAssignmentGrade(%v) error = %v, want ErrGradeRange", tt.grade, err)
				}
				if e.AssignmentGrade == nil || *e.AssignmentGrade != prior {
					t.Errorf("grade = %v, want prior value %v preserved", e.AssignmentGrade, prior)
				}
				return
			}

			if err != nil {
				t.Fatalf("SetAssignmentGrade(%v) error = %v", tt.grade, err)
			}
			if e.AssignmentGrade == nil || *e.AssignmentGrade != tt.grade {
				t.Errorf("grade = %v, want %v", e.AssignmentGrade, tt.grade)
			}
		})
	}

	t.Run("nil clears", func(t *testing.T) {
		d := seededDraft()
		g := 8.5
		if err := d.SetAssignmentGrade(3, &g); err != nil {
			t.Fatalf("SetAssignmentGrade() error = %v", err)
		}
		if err := d.SetAssignmentGrade(3, nil); err != nil {
			t.Fatalf("SetAssignmentGrade(nil) error = %v", err)
		}
		e, _ := d.Entry(3)
		if e.AssignmentGrade != nil {
			t.Errorf("grade = %v, want nil after clear", *e.AssignmentGrade)
		}
	})
}

func TestSessionDraft_Counts(t *testing.T) {
	d := seededDraft()

	// A: Present, B: Absent, C: Late, D untouched
	if err := d.SetAttendance(1, AttendancePresent); err != nil {
		t.Fatal(err)
	}
	if err := d.SetAttendance(2, AttendanceAbsent); err != nil {
		t.Fatal(err)
	}
	if err := d.SetAttendance(3, AttendanceLate); err != nil {
		t.Fatal(err)
	}

	present, absent := d.Counts()
	if present != 2 {
		t.Errorf("present = %d, want 2 (Present + Late)", present)
	}
	if absent != 1 {
		t.Errorf("absent = %d, want 1", absent)
	}

	if got := d.MarkedCount(); got != 3 {
		t.Errorf("MarkedCount() = %d, want 3", got)
	}

	// Flipping Late to Absent moves the student between counters.
	if err := d.SetAttendance(3, AttendanceAbsent); err != nil {
		t.Fatal(err)
	}
	present, absent = d.Counts()
	if present != 1 || absent != 2 {
		t.Errorf("Counts() after flip = (%d, %d), want (1, 2)", present, absent)
	}
}

func TestSessionDraft_DeliveryMarks(t *testing.T) {
	d := seededDraft()

	if err := d.SetDeliveryMark(10, 1, DeliveryLate); err != nil {
		t.Fatalf("SetDeliveryMark() error = %v", err)
	}
	if err := d.SetDeliveryMark(10, 1, DeliveryOnTime); err != nil {
		t.Fatalf("SetDeliveryMark() error = %v", err)
	}
	if err := d.SetDeliveryMark(11, 2, DeliveryNotDelivered); err != nil {
		t.Fatalf("SetDeliveryMark() error = %v", err)
	}

	marks := d.DeliveryMarks()
	if got := marks[10][1]; got != DeliveryOnTime {
		t.Errorf("mark[10][1] = %v, want on_time (last write wins)", got)
	}
	if got := marks[11][2]; got != DeliveryNotDelivered {
		t.Errorf("mark[11][2] = %v, want not_delivered", got)
	}

	if err := d.SetDeliveryMark(10, 1, DeliveryStatus("whenever")); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("invalid status error = %v, want ErrInvalidArgument", err)
	}
}
