// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/atx/internal/models"
)

// MockTracker is a no-op test double for [services.Tracker]
type MockTracker struct{}

func (m *MockTracker) Courses(ctx context.Context) ([]models.Course, error) {
	return []models.Course{}, nil
}
func (m *MockTracker) Course(ctx context.Context, courseID int) (*models.Course, error) {
	return nil, nil
}
func (m *MockTracker) Students(ctx context.Context) ([]models.Student, error) {
	return []models.Student{}, nil
}
func (m *MockTracker) StudentsByCohort(ctx context.Context, cohortYear int) ([]models.Student, error) {
	return []models.Student{}, nil
}
func (m *MockTracker) SessionsByCourse(ctx context.Context, courseID int) ([]models.ClassSession, error) {
	return []models.ClassSession{}, nil
}
func (m *MockTracker) CreateSession(ctx context.Context, courseID int, date string, sequenceNumber int, topic string) (*models.ClassSession, error) {
	return nil, nil
}
func (m *MockTracker) AttendanceBySession(ctx context.Context, sessionID int) ([]models.AttendanceRecord, error) {
	return []models.AttendanceRecord{}, nil
}
func (m *MockTracker) CreateAttendance(ctx context.Context, studentID, sessionID int, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	return nil, nil
}
func (m *MockTracker) UpdateAttendance(ctx context.Context, recordID int, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	return nil, nil
}
func (m *MockTracker) CreateParticipation(ctx context.Context, studentID, sessionID int, level models.ParticipationLevel, comment string) error {
	return nil
}
func (m *MockTracker) AssignmentsByCourse(ctx context.Context, courseID int) ([]models.Assignment, error) {
	return []models.Assignment{}, nil
}
func (m *MockTracker) CreateDelivery(ctx context.Context, assignmentID, studentID int, status models.DeliveryStatus) error {
	return nil
}
func (m *MockTracker) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
