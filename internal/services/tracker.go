// Attendance tracker API [Tracker] implementation
//
// Communicates with the REST backend (default port 8000). Errors carried in
// non-2xx bodies as {detail} or {error} are relayed verbatim to the caller.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/shared"
	"golang.org/x/oauth2"
)

const defaultTrackerBaseURL string = "http://localhost:8000/api"

// TrackerClient implements the Tracker interface over HTTP.
type TrackerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewTrackerClient creates a tracker API client. An empty token leaves
// requests unauthenticated; otherwise a static bearer token is attached
// to every request.
func NewTrackerClient(baseURL, token string) *TrackerClient {
	if baseURL == "" {
		baseURL = defaultTrackerBaseURL
	}

	client := http.DefaultClient
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = oauth2.NewClient(context.Background(), src)
	}

	return &TrackerClient{
		baseURL:    baseURL,
		httpClient: client,
	}
}

// Name returns the service name.
func (t *TrackerClient) Name() string {
	return "Attendance Tracker"
}

func (t *TrackerClient) doRequest(ctx context.Context, method, endpoint string, payload, result any) error {
	apiURL := t.baseURL + endpoint

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
			Error  string `json:"error"`
		}
		msg := ""
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			if errResp.Detail != "" {
				msg = errResp.Detail
			} else if errResp.Error != "" {
				msg = errResp.Error
			}
		}

		sentinel := shared.ErrAPIRequest
		if resp.StatusCode == http.StatusNotFound {
			sentinel = shared.ErrNotFound
		}

		if msg != "" {
			return fmt.Errorf("%w (status %d): %s", sentinel, resp.StatusCode, msg)
		}
		return fmt.Errorf("%w: status %d", sentinel, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Courses retrieves all course offerings.
//
// Calls GET /courses.
func (t *TrackerClient) Courses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := t.doRequest(ctx, http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Course retrieves a single course offering.
//
// Calls GET /courses/{id}.
func (t *TrackerClient) Course(ctx context.Context, courseID int) (*models.Course, error) {
	var course models.Course
	endpoint := fmt.Sprintf("/courses/%d", courseID)
	if err := t.doRequest(ctx, http.MethodGet, endpoint, nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Students retrieves every enrolled student.
//
// Calls GET /students.
func (t *TrackerClient) Students(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := t.doRequest(ctx, http.MethodGet, "/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// StudentsByCohort retrieves the students in one cohort year.
//
// Calls GET /students?cohort={year}.
func (t *TrackerClient) StudentsByCohort(ctx context.Context, cohortYear int) ([]models.Student, error) {
	var students []models.Student
	endpoint := fmt.Sprintf("/students?cohort=%d", cohortYear)
	if err := t.doRequest(ctx, http.MethodGet, endpoint, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// SessionsByCourse retrieves the class sessions for a course offering.
//
// Calls GET /classes/course/{courseId}.
func (t *TrackerClient) SessionsByCourse(ctx context.Context, courseID int) ([]models.ClassSession, error) {
	var sessions []models.ClassSession
	endpoint := fmt.Sprintf("/classes/course/%d", courseID)
	if err := t.doRequest(ctx, http.MethodGet, endpoint, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// CreateSession creates a class session.
//
// Calls POST /classes.
func (t *TrackerClient) CreateSession(ctx context.Context, courseID int, date string, sequenceNumber int, topic string) (*models.ClassSession, error) {
	payload := struct {
		CourseOfferingID int    `json:"courseOfferingId"`
		Date             string `json:"date"`
		SequenceNumber   int    `json:"sequenceNumber"`
		Topic            string `json:"topic"`
	}{
		CourseOfferingID: courseID,
		Date:             date,
		SequenceNumber:   sequenceNumber,
		Topic:            topic,
	}

	var session models.ClassSession
	if err := t.doRequest(ctx, http.MethodPost, "/classes", payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// AttendanceBySession retrieves the persisted attendance records for one session.
//
// Calls GET /attendance/class/{classSessionId}.
func (t *TrackerClient) AttendanceBySession(ctx context.Context, sessionID int) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	endpoint := fmt.Sprintf("/attendance/class/%d", sessionID)
	if err := t.doRequest(ctx, http.MethodGet, endpoint, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateAttendance persists one attendance record.
//
// Calls POST /attendance.
func (t *TrackerClient) CreateAttendance(ctx context.Context, studentID, sessionID int, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	payload := struct {
		StudentID      int                     `json:"studentId"`
		ClassSessionID int                     `json:"classSessionId"`
		Status         models.AttendanceStatus `json:"status"`
	}{
		StudentID:      studentID,
		ClassSessionID: sessionID,
		Status:         status,
	}

	var record models.AttendanceRecord
	if err := t.doRequest(ctx, http.MethodPost, "/attendance", payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateAttendance changes the status of an existing attendance record.
//
// Calls PUT /attendance/{id}.
func (t *TrackerClient) UpdateAttendance(ctx context.Context, recordID int, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	payload := struct {
		Status models.AttendanceStatus `json:"status"`
	}{Status: status}

	var record models.AttendanceRecord
	endpoint := fmt.Sprintf("/attendance/%d", recordID)
	if err := t.doRequest(ctx, http.MethodPut, endpoint, payload, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateParticipation persists one participation record.
//
// Calls POST /participation.
func (t *TrackerClient) CreateParticipation(ctx context.Context, studentID, sessionID int, level models.ParticipationLevel, comment string) error {
	payload := struct {
		StudentID      int                       `json:"studentId"`
		ClassSessionID int                       `json:"classSessionId"`
		Level          models.ParticipationLevel `json:"level"`
		Comment        string                    `json:"comment"`
	}{
		StudentID:      studentID,
		ClassSessionID: sessionID,
		Level:          level,
		Comment:        comment,
	}

	return t.doRequest(ctx, http.MethodPost, "/participation", payload, nil)
}

// AssignmentsByCourse retrieves the assignments for a course offering.
//
// Calls GET /assignments?course={id}.
func (t *TrackerClient) AssignmentsByCourse(ctx context.Context, courseID int) ([]models.Assignment, error) {
	var assignments []models.Assignment
	endpoint := fmt.Sprintf("/assignments?course=%d", courseID)
	if err := t.doRequest(ctx, http.MethodGet, endpoint, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CreateDelivery persists one assignment delivery record.
//
// Calls POST /deliveries.
func (t *TrackerClient) CreateDelivery(ctx context.Context, assignmentID, studentID int, status models.DeliveryStatus) error {
	payload := struct {
		AssignmentID int                   `json:"assignmentId"`
		StudentID    int                   `json:"studentId"`
		Status       models.DeliveryStatus `json:"status"`
	}{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Status:       status,
	}

	return t.doRequest(ctx, http.MethodPost, "/deliveries", payload, nil)
}
