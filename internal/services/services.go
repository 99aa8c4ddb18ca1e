// package services defines interface Tracker for talking to the attendance API
package services

import (
	"context"

	"github.com/desertthunder/atx/internal/models"
)

// Tracker defines the client contract for the attendance tracker REST API.
type Tracker interface {
	// Courses retrieves all course offerings.
	Courses(ctx context.Context) ([]models.Course, error)

	// Course retrieves a single course offering by ID.
	Course(ctx context.Context, courseID int) (*models.Course, error)

	// Students retrieves every enrolled student.
	Students(ctx context.Context) ([]models.Student, error)

	// StudentsByCohort retrieves the students belonging to one cohort year.
	StudentsByCohort(ctx context.Context, cohortYear int) ([]models.Student, error)

	// SessionsByCourse retrieves the class sessions recorded for a course offering.
	SessionsByCourse(ctx context.Context, courseID int) ([]models.ClassSession, error)

	// CreateSession creates a class session and returns it with its assigned ID.
	CreateSession(ctx context.Context, courseID int, date string, sequenceNumber int, topic string) (*models.ClassSession, error)

	// AttendanceBySession retrieves the attendance records persisted for one session.
	AttendanceBySession(ctx context.Context, sessionID int) ([]models.AttendanceRecord, error)

	// CreateAttendance persists one attendance record.
	CreateAttendance(ctx context.Context, studentID, sessionID int, status models.AttendanceStatus) (*models.AttendanceRecord, error)

	// UpdateAttendance changes the status of an existing attendance record.
	UpdateAttendance(ctx context.Context, recordID int, status models.AttendanceStatus) (*models.AttendanceRecord, error)

	// CreateParticipation persists one participation record.
	CreateParticipation(ctx context.Context, studentID, sessionID int, level models.ParticipationLevel, comment string) error

	// AssignmentsByCourse retrieves the assignments attached to a course offering.
	AssignmentsByCourse(ctx context.Context, courseID int) ([]models.Assignment, error)

	// CreateDelivery persists one assignment delivery record.
	CreateDelivery(ctx context.Context, assignmentID, studentID int, status models.DeliveryStatus) error

	// Name returns a human-readable name for the backing API.
	Name() string
}
