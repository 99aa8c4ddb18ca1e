package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/shared"
)

func TestTrackerClient(t *testing.T) {
	ctx := context.Background()

	t.Run("NewTrackerClient", func(t *testing.T) {
		t.Run("creates client with default URL", func(t *testing.T) {
			if c := NewTrackerClient("", ""); c == nil {
				t.Fatal("expected client to be created")
			} else if c.baseURL != defaultTrackerBaseURL {
				t.Errorf("expected baseURL to be %s, got %s", defaultTrackerBaseURL, c.baseURL)
			}
		})

		t.Run("creates client with custom URL", func(t *testing.T) {
			customURL := "http://localhost:9000/api"
			if c := NewTrackerClient(customURL, ""); c.baseURL != customURL {
				t.Errorf("expected baseURL to be %s, got %s", customURL, c.baseURL)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if c := NewTrackerClient("", ""); c.Name() != "Attendance Tracker" {
			t.Errorf("expected name 'Attendance Tracker', got %s", c.Name())
		}
	})

	t.Run("bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
				t.Errorf("expected Authorization 'Bearer sekrit', got %q", got)
			}
			json.NewEncoder(w).Encode([]models.Course{})
		}))
		defer server.Close()

		c := NewTrackerClient(server.URL, "sekrit")
		if _, err := c.Courses(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Courses", func(t *testing.T) {
		mockCourses := []models.Course{
			{ID: 1, SubjectName: "Systems Design", Year: 2026, Term: "1C", Instructor: "R. Funes"},
			{ID: 2, SubjectName: "Databases", Year: 2026, Term: "2C", Instructor: "M. Ortega"},
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/courses" {
				t.Errorf("expected path /courses, got %s", r.URL.Path)
			}
			if r.Method != http.MethodGet {
				t.Errorf("expected GET method, got %s", r.Method)
			}
			json.NewEncoder(w).Encode(mockCourses)
		}))
		defer server.Close()

		c := NewTrackerClient(server.URL, "")
		courses, err := c.Courses(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(courses) != 2 {
			t.Fatalf("expected 2 courses, got %d", len(courses))
		}
		if courses[0].SubjectName != "Systems Design" {
			t.Errorf("expected subject 'Systems Design', got %s", courses[0].SubjectName)
		}
	})

	t.Run("StudentsByCohort", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/students" {
				t.Errorf("expected path /students, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("cohort"); got != "2024" {
				t.Errorf("expected cohort=2024, got %s", got)
			}
			json.NewEncoder(w).Encode([]models.Student{
				{ID: 3, FullName: "Ana Suarez", CohortYear: 2024},
			})
		}))
		defer server.Close()

		c := NewTrackerClient(server.URL, "")
		students, err := c.StudentsByCohort(ctx, 2024)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(students) != 1 || students[0].FullName != "Ana Suarez" {
			t.Errorf("unexpected students: %+v", students)
		}
	})

	t.Run("CreateSession", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/classes" {
				t.Errorf("expected path /classes, got %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("expected POST method, got %s", r.Method)
			}

			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}
			if payload["courseOfferingId"] != float64(7) {
				t.Errorf("expected courseOfferingId 7, got %v", payload["courseOfferingId"])
			}
			if payload["sequenceNumber"] != float64(4) {
				t.Errorf("expected sequenceNumber 4, got %v", payload["sequenceNumber"])
			}

			json.NewEncoder(w).Encode(models.ClassSession{
				ID: 42, CourseID: 7, Date: "2026-04-10", SequenceNumber: 4, Topic: "Indexing",
			})
		}))
		defer server.Close()

		c := NewTrackerClient(server.URL, "")
		session, err := c.CreateSession(ctx, 7, "2026-04-10", 4, "Indexing")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.ID != 42 {
			t.Errorf("expected session id 42, got %d", session.ID)
		}
	})

	t.Run("CreateAttendance", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/attendance" {
				t.Errorf("expected path /attendance, got %s", r.URL.Path)
			}

			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}
			if payload["studentId"] != float64(3) || payload["classSessionId"] != float64(42) {
				t.Errorf("unexpected payload: %v", payload)
			}
			if payload["status"] != "Late" {
				t.Errorf("expected status Late, got %v", payload["status"])
			}

			json.NewEncoder(w).Encode(models.AttendanceRecord{
				ID: 100, StudentID: 3, ClassSessionID: 42, Status: models.AttendanceLate,
			})
		}))
		defer server.Close()

		c := NewTrackerClient(server.URL, "")
		record, err := c.CreateAttendance(ctx, 3, 42, models.AttendanceLate)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if record.ID != 100 || record.Status != models.AttendanceLate {
			t.Errorf("unexpected record: %+v", record)
		}
	})

	t.Run("UpdateAttendance", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/attendance/100" {
				t.Errorf("expected path /attendance/100, got %s", r.URL.Path)
			}
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT method, got %s", r.Method)
			}
			json.NewEncoder(w).Encode(models.AttendanceRecord{
				ID: 100, StudentID: 3, ClassSessionID: 42, Status: models.AttendanceAbsent,
			})
		}))
		defer server.Close()

		c := NewTrackerClient(server.URL, "")
		record, err := c.UpdateAttendance(ctx, 100, models.AttendanceAbsent)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if record.Status != models.AttendanceAbsent {
			t.Errorf("expected status Absent, got %s", record.Status)
		}
	})

	t.Run("error relay", func(t *testing.T) {
		t.Run("relays detail message verbatim", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"detail": "date is required"})
			}))
			defer server.Close()

			c := NewTrackerClient(server.URL, "")
			_, err := c.CreateSession(ctx, 7, "", 1, "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if got := err.Error(); !strings.Contains(got, "date is required") {
				t.Errorf("expected detail message in error, got %q", got)
			}
		})

		t.Run("falls back to error field", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
			}))
			defer server.Close()

			c := NewTrackerClient(server.URL, "")
			_, err := c.Courses(ctx)
			if err == nil || !strings.Contains(err.Error(), "boom") {
				t.Errorf("expected error message 'boom', got %v", err)
			}
		})

		t.Run("404 maps to not found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			c := NewTrackerClient(server.URL, "")
			_, err := c.Course(ctx, 99)
			if !errors.Is(err, shared.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})
}
