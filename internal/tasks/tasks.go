// package tasks implements the class-session registration workflow.
//
// The core abstraction is SessionEngine, which orchestrates roster loading and
// session commits against the attendance API. Operations emit progress updates
// via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/services"
	"github.com/desertthunder/atx/internal/shared"
	"golang.org/x/time/rate"
)

// RosterResult contains the data fetched when starting a registration session.
type RosterResult struct {
	Course      *models.Course      // Selected course offering
	Students    []models.Student    // Roster in API order
	Assignments []models.Assignment // Course assignments, nil when the fetch failed
}

// CommitResult contains the outcome of persisting one session draft.
//
// A commit with failures is still a completed commit: the session exists and
// the successful records are persisted. Callers decide how loudly to report
// the failed remainder.
type CommitResult struct {
	SessionID             int                    // ID assigned to the created class session
	SequenceNumber        int                    // Sequence number the session was created with
	Attempted             int                    // Entries with an attendance status set
	Created               int                    // Attendance records actually persisted
	Failures              []models.CommitFailure // Per-student attendance write failures
	Participations        int                    // Participation records persisted
	ParticipationFailures []models.CommitFailure // Per-student participation write failures, non-fatal
	Deliveries            int                    // Delivery records persisted
}

// Err returns a partial-commit error when any attendance write failed, nil otherwise.
func (r *CommitResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d attendance records failed", shared.ErrPartialCommit, len(r.Failures), r.Attempted)
}

// RecordFailure identifies one attendance record whose update failed.
type RecordFailure struct {
	RecordID int    `json:"record_id"`
	Reason   string `json:"reason"`
}

// UpdateResult contains the outcome of editing an already-persisted session.
type UpdateResult struct {
	Attempted int
	Updated   int
	Failures  []RecordFailure
}

// SessionEngine defines the registration workflow operations.
type SessionEngine interface {
	// LoadRoster fetches the course, its cohort roster, and its assignments,
	// then seeds the draft with one untouched entry per student.
	LoadRoster(ctx context.Context, draft *models.SessionDraft, progress chan<- ProgressUpdate) (*RosterResult, error)

	// Commit persists the draft as a new class session with its attendance,
	// participation, and delivery records.
	Commit(ctx context.Context, draft *models.SessionDraft, topic string, progress chan<- ProgressUpdate) (*CommitResult, error)
}

// CommitRecorder persists an itemized commit outcome to the local cache.
// Recording is best-effort: failures never affect the commit itself.
type CommitRecorder interface {
	Record(entry *models.CommitLogEntry) error
}

// APIClient defines the interface for raw API requests, used by Overview.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// WorkflowEngine implements SessionEngine against the tracker API.
type WorkflowEngine struct {
	tracker  services.Tracker
	api      APIClient
	recorder CommitRecorder
	limiter  *rate.Limiter
}

// NewWorkflowEngine creates a WorkflowEngine. writeRate caps write requests
// per second during commit; zero or negative disables throttling. recorder
// may be nil when no local cache is configured.
func NewWorkflowEngine(tracker services.Tracker, api APIClient, recorder CommitRecorder, writeRate float64) *WorkflowEngine {
	var limiter *rate.Limiter
	if writeRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(writeRate), 1)
	}

	return &WorkflowEngine{
		tracker:  tracker,
		api:      api,
		recorder: recorder,
		limiter:  limiter,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *WorkflowEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// throttle waits for the write rate limiter, if one is configured.
func (e *WorkflowEngine) throttle(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

// LoadRoster fetches the course, the cohort roster, and the course assignments,
// and seeds the draft. An empty roster aborts the workflow before any entry
// exists. The assignments fetch is best-effort: a failure leaves
// RosterResult.Assignments nil and the workflow proceeds without deliveries.
func (e *WorkflowEngine) LoadRoster(ctx context.Context, draft *models.SessionDraft, progress chan<- ProgressUpdate) (*RosterResult, error) {
	if e.tracker == nil {
		return nil, fmt.Errorf("%w: tracker service not initialized", shared.ErrServiceUnavailable)
	}

	result := &RosterResult{}

	e.sendProgress(progress, fetchCourseUpdate(1, 3))
	course, err := e.tracker.Course(ctx, draft.CourseID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch course %d: %v", shared.ErrCourseNotFound, draft.CourseID, err)
	}
	result.Course = course

	e.sendProgress(progress, fetchRosterUpdate(2, 3, draft.CohortYear))
	students, err := e.tracker.StudentsByCohort(ctx, draft.CohortYear)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch roster: %v", shared.ErrAPIRequest, err)
	}
	if len(students) == 0 {
		return nil, fmt.Errorf("%w: cohort %d has no students", shared.ErrEmptyRoster, draft.CohortYear)
	}
	result.Students = students

	e.sendProgress(progress, fetchAssignmentsUpdate(3, 3))
	assignments, err := e.tracker.AssignmentsByCourse(ctx, draft.CourseID)
	if err == nil {
		result.Assignments = assignments
	}

	draft.Seed(students)
	e.sendProgress(progress, rosterLoadedUpdate(3, 3, result))
	return result, nil
}

// Commit persists the draft as a new class session.
//
// The sequence number is computed by counting the course's existing sessions
// and adding one; concurrent commits against the same course can race on it.
// Session creation failure aborts the whole commit and leaves the draft
// editable. Per-student attendance failures are collected and do not stop the
// remaining students; participation is only written for students whose
// attendance write succeeded. Delivery marks are written last, best-effort.
func (e *WorkflowEngine) Commit(ctx context.Context, draft *models.SessionDraft, topic string, progress chan<- ProgressUpdate) (*CommitResult, error) {
	if e.tracker == nil {
		return nil, fmt.Errorf("%w: tracker service not initialized", shared.ErrServiceUnavailable)
	}
	if draft.Committed() {
		return nil, fmt.Errorf("%w: draft already committed", shared.ErrInvalidInput)
	}
	if draft.MarkedCount() == 0 {
		return nil, fmt.Errorf("%w: no attendance statuses set", shared.ErrNothingToCommit)
	}

	e.sendProgress(progress, computeSequenceUpdate(1, 2))
	sessions, err := e.tracker.SessionsByCourse(ctx, draft.CourseID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch existing sessions: %v", shared.ErrAPIRequest, err)
	}
	sequenceNumber := len(sessions) + 1

	e.sendProgress(progress, createSessionUpdate(2, 2, sequenceNumber))
	if err := e.throttle(ctx); err != nil {
		return nil, err
	}
	session, err := e.tracker.CreateSession(ctx, draft.CourseID, draft.Date, sequenceNumber, topic)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionCreate, err)
	}

	result := &CommitResult{
		SessionID:      session.ID,
		SequenceNumber: session.SequenceNumber,
	}

	marked := make([]models.DraftEntry, 0, draft.MarkedCount())
	for _, student := range draft.Roster() {
		entry, ok := draft.Entry(student.ID)
		if !ok || entry.Attendance == nil {
			continue
		}
		marked = append(marked, *entry)
	}
	result.Attempted = len(marked)

	for i, entry := range marked {
		e.sendProgress(progress, writeAttendanceUpdate(i+1, len(marked), entry.StudentID))

		if err := e.throttle(ctx); err != nil {
			return result, err
		}
		if _, err := e.tracker.CreateAttendance(ctx, entry.StudentID, session.ID, *entry.Attendance); err != nil {
			result.Failures = append(result.Failures, models.CommitFailure{
				StudentID: entry.StudentID,
				Reason:    err.Error(),
			})
			continue
		}
		result.Created++

		if entry.Participation == nil {
			continue
		}
		if err := e.throttle(ctx); err != nil {
			return result, err
		}
		if err := e.tracker.CreateParticipation(ctx, entry.StudentID, session.ID, *entry.Participation, entry.Notes); err != nil {
			result.ParticipationFailures = append(result.ParticipationFailures, models.CommitFailure{
				StudentID: entry.StudentID,
				Reason:    err.Error(),
			})
			e.sendProgress(progress, participationFailedUpdate(entry.StudentID, err))
		} else {
			result.Participations++
		}
	}

	marks := draft.DeliveryMarks()
	if len(marks) > 0 {
		e.sendProgress(progress, writeDeliveriesUpdate(len(marks)))
		for assignmentID, byStudent := range marks {
			for studentID, status := range byStudent {
				if err := e.throttle(ctx); err != nil {
					return result, err
				}
				if err := e.tracker.CreateDelivery(ctx, assignmentID, studentID, status); err == nil {
					result.Deliveries++
				}
			}
		}
	}

	draft.MarkCommitted()
	e.recordCommit(draft, result)
	e.sendProgress(progress, commitDoneUpdate(result))
	return result, nil
}

// recordCommit writes the itemized outcome to the local commit log.
func (e *WorkflowEngine) recordCommit(draft *models.SessionDraft, result *CommitResult) {
	if e.recorder == nil {
		return
	}

	entry := models.NewCommitLogEntry(0)
	entry.SessionID = result.SessionID
	entry.CourseID = draft.CourseID
	entry.Date = draft.Date
	entry.SessionNumber = result.SequenceNumber
	entry.Attempted = result.Attempted
	entry.Created = result.Created
	entry.Failures = result.Failures

	// Local log only; a write failure must not surface into the commit.
	_ = e.recorder.Record(entry)
}
