package tasks

import (
	"context"
	"fmt"
	"sort"

	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/shared"
)

// SessionDetailResult contains one persisted session with its attendance
// records and derived tallies.
type SessionDetailResult struct {
	Session models.ClassSession
	Records []models.AttendanceRecord
	Present int
	Absent  int
	Late    int
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// CourseOverview pairs a course offering with its most recently registered session.
type CourseOverview struct {
	Course        models.Course        `json:"course"`
	LatestSession *models.ClassSession `json:"latestSession,omitempty"`
}

// OverviewResult contains the reference data fetched for the overview report.
type OverviewResult struct {
	Courses     any              // All course offerings
	Students    any              // All enrolled students
	Assignments any              // All assignments
	Recent      []CourseOverview // Latest session per course, when a tracker is wired
	Errors      []EndpointResult // Failed endpoint fetches
}

type overviewOperation struct {
	name    string
	path    string
	target  *any
	message string
}

// ReportEngine defines read and edit operations on already-persisted sessions.
type ReportEngine interface {
	// History retrieves a course's sessions, most recent first.
	History(ctx context.Context, courseID int, progress chan<- ProgressUpdate) ([]models.ClassSession, error)

	// SessionDetail retrieves one session with its attendance records and tallies.
	SessionDetail(ctx context.Context, courseID, sessionID int, progress chan<- ProgressUpdate) (*SessionDetailResult, error)

	// UpdateStatuses applies status changes to existing attendance records.
	UpdateStatuses(ctx context.Context, changes map[int]models.AttendanceStatus, progress chan<- ProgressUpdate) (*UpdateResult, error)

	// Overview fetches all reference data from the API for a combined report.
	Overview(ctx context.Context, progress chan<- ProgressUpdate) (*OverviewResult, error)
}

// History retrieves a course's class sessions sorted by date descending,
// breaking date ties on sequence number.
func (e *WorkflowEngine) History(ctx context.Context, courseID int, progress chan<- ProgressUpdate) ([]models.ClassSession, error) {
	if e.tracker == nil {
		return nil, fmt.Errorf("%w: tracker service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchHistoryUpdate(courseID))
	sessions, err := e.tracker.SessionsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch sessions: %v", shared.ErrAPIRequest, err)
	}

	// ISO dates sort lexicographically.
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].Date != sessions[j].Date {
			return sessions[i].Date > sessions[j].Date
		}
		return sessions[i].SequenceNumber > sessions[j].SequenceNumber
	})

	return sessions, nil
}

// SessionDetail retrieves one session with its attendance records and
// per-status tallies.
func (e *WorkflowEngine) SessionDetail(ctx context.Context, courseID, sessionID int, progress chan<- ProgressUpdate) (*SessionDetailResult, error) {
	if e.tracker == nil {
		return nil, fmt.Errorf("%w: tracker service not initialized", shared.ErrServiceUnavailable)
	}

	sessions, err := e.tracker.SessionsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch sessions: %v", shared.ErrAPIRequest, err)
	}

	result := &SessionDetailResult{}
	found := false
	for _, s := range sessions {
		if s.ID == sessionID {
			result.Session = s
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: session %d in course %d", shared.ErrSessionNotFound, sessionID, courseID)
	}

	e.sendProgress(progress, fetchDetailUpdate(sessionID))
	records, err := e.tracker.AttendanceBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch attendance: %v", shared.ErrAPIRequest, err)
	}
	result.Records = records

	for _, r := range records {
		switch r.Status {
		case models.AttendancePresent:
			result.Present++
		case models.AttendanceAbsent:
			result.Absent++
		case models.AttendanceLate:
			result.Late++
		}
	}

	return result, nil
}

// UpdateStatuses applies attendance status changes to existing records, one
// PUT per record. Failures are collected and do not stop the remaining updates.
func (e *WorkflowEngine) UpdateStatuses(ctx context.Context, changes map[int]models.AttendanceStatus, progress chan<- ProgressUpdate) (*UpdateResult, error) {
	if e.tracker == nil {
		return nil, fmt.Errorf("%w: tracker service not initialized", shared.ErrServiceUnavailable)
	}
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: no status changes given", shared.ErrNothingToCommit)
	}

	recordIDs := make([]int, 0, len(changes))
	for id := range changes {
		recordIDs = append(recordIDs, id)
	}
	sort.Ints(recordIDs)

	result := &UpdateResult{Attempted: len(recordIDs)}
	for i, recordID := range recordIDs {
		e.sendProgress(progress, updateRecordUpdate(i+1, len(recordIDs), recordID))

		if err := e.throttle(ctx); err != nil {
			return result, err
		}
		if _, err := e.tracker.UpdateAttendance(ctx, recordID, changes[recordID]); err != nil {
			result.Failures = append(result.Failures, RecordFailure{
				RecordID: recordID,
				Reason:   err.Error(),
			})
			continue
		}
		result.Updated++
	}

	return result, nil
}

// Overview fetches all reference data from the API.
func (e *WorkflowEngine) Overview(ctx context.Context, progress chan<- ProgressUpdate) (*OverviewResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &OverviewResult{
		Errors: []EndpointResult{},
	}

	endpoints := []overviewOperation{
		{name: "courses", path: "/courses", target: &result.Courses, message: "Fetching courses..."},
		{name: "students", path: "/students", target: &result.Students, message: "Fetching students..."},
		{name: "assignments", path: "/assignments", target: &result.Assignments, message: "Fetching assignments..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, overviewUpdate(endpoint, i+1, totalSteps))

		resp, err := e.api.Get(ctx, endpoint.path)
		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			} else {
				errMsg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%s", errMsg),
			})
		} else {
			*endpoint.target = resp.JSONData
		}
	}

	if e.tracker != nil {
		courses, err := e.tracker.Courses(ctx)
		if err != nil {
			result.Errors = append(result.Errors, EndpointResult{Endpoint: "/courses", Error: err})
			return result, nil
		}

		for _, course := range courses {
			overview := CourseOverview{Course: course}
			sessions, err := e.History(ctx, course.ID, nil)
			if err != nil {
				result.Errors = append(result.Errors, EndpointResult{
					Endpoint: fmt.Sprintf("/classes/course/%d", course.ID),
					Error:    err,
				})
			} else if len(sessions) > 0 {
				latest := sessions[0]
				overview.LatestSession = &latest
			}
			result.Recent = append(result.Recent, overview)
		}
	}

	return result, nil
}
