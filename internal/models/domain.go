package models

import "strings"

// AttendanceStatus is the persisted attendance state for a student in a class session.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "Present"
	AttendanceAbsent  AttendanceStatus = "Absent"
	AttendanceLate    AttendanceStatus = "Late"
)

// Valid reports whether s is one of the recognized attendance statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// ParseAttendanceStatus maps user input onto a canonical attendance status,
// ignoring case.
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present":
		return AttendancePresent, true
	case "absent":
		return AttendanceAbsent, true
	case "late":
		return AttendanceLate, true
	}
	return "", false
}

// ParticipationLevel grades how actively a student participated in a class session.
type ParticipationLevel string

const (
	ParticipationHigh   ParticipationLevel = "High"
	ParticipationMedium ParticipationLevel = "Medium"
	ParticipationLow    ParticipationLevel = "Low"
	ParticipationNone   ParticipationLevel = "None"
)

func (l ParticipationLevel) Valid() bool {
	switch l {
	case ParticipationHigh, ParticipationMedium, ParticipationLow, ParticipationNone:
		return true
	}
	return false
}

// Attitude is the instructor's qualitative read of a student's in-class attitude.
type Attitude string

const (
	AttitudeExcellent Attitude = "Excellent"
	AttitudeGood      Attitude = "Good"
	AttitudeFair      Attitude = "Fair"
	AttitudePoor      Attitude = "Poor"
)

func (a Attitude) Valid() bool {
	switch a {
	case AttitudeExcellent, AttitudeGood, AttitudeFair, AttitudePoor:
		return true
	}
	return false
}

// DeliveryStatus tracks when (or whether) a student handed in an assignment.
type DeliveryStatus string

const (
	DeliveryOnTime       DeliveryStatus = "on_time"
	DeliveryLate         DeliveryStatus = "late"
	DeliveryVeryLate     DeliveryStatus = "very_late"
	DeliveryNotDelivered DeliveryStatus = "not_delivered"
)

func (d DeliveryStatus) Valid() bool {
	switch d {
	case DeliveryOnTime, DeliveryLate, DeliveryVeryLate, DeliveryNotDelivered:
		return true
	}
	return false
}

// ParseDeliveryStatus maps user input onto a canonical delivery status,
// ignoring case.
func ParseDeliveryStatus(s string) (DeliveryStatus, bool) {
	status := DeliveryStatus(strings.ToLower(strings.TrimSpace(s)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Course represents a course offering. Reference data fetched, not owned, by the client.
type Course struct {
	ID          int    `json:"id"`
	SubjectName string `json:"subjectName"`
	Year        int    `json:"year"`
	Term        string `json:"term"`
	Instructor  string `json:"instructor"`
}

// Student represents an enrolled student. Reference data.
type Student struct {
	ID         int    `json:"id"`
	FullName   string `json:"fullName"`
	NationalID string `json:"nationalId"`
	Email      string `json:"email"`
	CohortYear int    `json:"cohortYear"`
}

// ClassSession represents one dated occurrence of a course offering.
// The id is assigned by the API on creation.
type ClassSession struct {
	ID             int    `json:"id"`
	CourseID       int    `json:"courseOfferingId"`
	Date           string `json:"date"` // YYYY-MM-DD
	SequenceNumber int    `json:"sequenceNumber"`
	Topic          string `json:"topic"`
}

// AttendanceRecord represents a persisted attendance status for one student in one session.
type AttendanceRecord struct {
	ID             int              `json:"id"`
	StudentID      int              `json:"studentId"`
	ClassSessionID int              `json:"classSessionId"`
	Status         AttendanceStatus `json:"status"`
}

// Assignment represents a gradable deliverable (TP) attached to a course offering.
type Assignment struct {
	ID          int    `json:"id"`
	CourseID    int    `json:"courseOfferingId"`
	Title       string `json:"title"`
	DueDate     string `json:"dueDate"`
	Description string `json:"description"`
}
