package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchCourse Phase = iota
	FetchRoster
	FetchAssignments
	ComputeSequence
	CreateSession
	WriteAttendance
	WriteDeliveries
	CommitDone
	FetchHistory
	FetchDetail
	UpdateRecords
	FetchOverview
)

func (p Phase) String() string {
	switch p {
	case FetchCourse:
		return "fetch_course"
	case FetchRoster:
		return "fetch_roster"
	case FetchAssignments:
		return "fetch_assignments"
	case ComputeSequence:
		return "compute_sequence"
	case CreateSession:
		return "create_session"
	case WriteAttendance:
		return "write_attendance"
	case WriteDeliveries:
		return "write_deliveries"
	case CommitDone:
		return "commit_done"
	case FetchHistory:
		return "fetch_history"
	case FetchDetail:
		return "fetch_detail"
	case UpdateRecords:
		return "update_records"
	case FetchOverview:
		return "fetch_overview"
	default:
		return ""
	}
}

func fetchCourseUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchCourse,
		Step:    step,
		Total:   total,
		Message: "Fetching course offering...",
	}
}

func fetchRosterUpdate(step, total, cohortYear int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRoster,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %d cohort roster...", cohortYear),
	}
}

func fetchAssignmentsUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAssignments,
		Step:    step,
		Total:   total,
		Message: "Fetching course assignments...",
	}
}

func rosterLoadedUpdate(step, total int, result *RosterResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchRoster,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Roster loaded: %d students", len(result.Students)),
		Data:    result,
	}
}

func computeSequenceUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ComputeSequence,
		Step:    step,
		Total:   total,
		Message: "Computing session sequence number...",
	}
}

func createSessionUpdate(step, total, sequenceNumber int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreateSession,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Creating class session #%d...", sequenceNumber),
	}
}

func writeAttendanceUpdate(step, total, studentID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteAttendance,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Writing attendance for student %d...", step, total, studentID),
	}
}

func participationFailedUpdate(studentID int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteAttendance,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Participation for student %d not saved: %v", studentID, err),
	}
}

func writeDeliveriesUpdate(assignments int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteDeliveries,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing delivery marks for %d assignments...", assignments),
	}
}

func commitDoneUpdate(result *CommitResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CommitDone,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Session #%d saved: %d/%d records created", result.SequenceNumber, result.Created, result.Attempted),
		Data:    result,
	}
}

func fetchHistoryUpdate(courseID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchHistory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching session history for course %d...", courseID),
	}
}

func fetchDetailUpdate(sessionID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetail,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching records for session %d...", sessionID),
	}
}

func updateRecordUpdate(step, total, recordID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UpdateRecords,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Updating record %d...", step, total, recordID),
	}
}

func overviewUpdate(endpoint overviewOperation, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchOverview,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}
