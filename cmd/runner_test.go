package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/services"
	"github.com/desertthunder/atx/internal/shared"
	tu "github.com/desertthunder/atx/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			tracker := &tu.MockTracker{}
			api := &services.APIService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Tracker:    tracker,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.tracker != tracker {
				t.Error("expected tracker to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be created")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				HTTPClient: nil,
			})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("without API client the engine reports unavailable", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Tracker: &tu.MockTracker{}})

			_, err := runner.engine.Overview(context.Background(), nil)
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Fatalf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				ConfigPath: "/test/path/config.toml",
			})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("requireDatabase", func(t *testing.T) {
		t.Run("fails without a database", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if _, err := runner.requireDatabase(); err == nil {
				t.Fatal("expected error without a database")
			}
		})

		t.Run("returns the configured database", func(t *testing.T) {
			db, err := shared.NewDatabase(":memory:")
			if err != nil {
				t.Fatalf("failed to create database: %v", err)
			}
			defer db.Close()

			runner := NewRunner(RunnerOpts{DB: db})

			got, err := runner.requireDatabase()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != db {
				t.Error("expected the configured database")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

// stubTracker serves a one-student roster and records delivery writes.
type stubTracker struct {
	tu.MockTracker
	deliveries []string
}

func (s *stubTracker) Course(ctx context.Context, courseID int) (*models.Course, error) {
	return &models.Course{ID: courseID, SubjectName: "Databases"}, nil
}

func (s *stubTracker) StudentsByCohort(ctx context.Context, cohortYear int) ([]models.Student, error) {
	return []models.Student{{ID: 1, FullName: "Ana Suarez", CohortYear: cohortYear}}, nil
}

func (s *stubTracker) AssignmentsByCourse(ctx context.Context, courseID int) ([]models.Assignment, error) {
	return []models.Assignment{{ID: 3, CourseID: courseID, Title: "TP 3"}}, nil
}

func (s *stubTracker) CreateSession(ctx context.Context, courseID int, date string, sequenceNumber int, topic string) (*models.ClassSession, error) {
	return &models.ClassSession{ID: 9, CourseID: courseID, Date: date, SequenceNumber: sequenceNumber, Topic: topic}, nil
}

func (s *stubTracker) CreateAttendance(ctx context.Context, studentID, sessionID int, status models.AttendanceStatus) (*models.AttendanceRecord, error) {
	return &models.AttendanceRecord{ID: 100 + studentID, StudentID: studentID, ClassSessionID: sessionID, Status: status}, nil
}

func (s *stubTracker) CreateDelivery(ctx context.Context, assignmentID, studentID int, status models.DeliveryStatus) error {
	s.deliveries = append(s.deliveries, fmt.Sprintf("%d:%d=%s", assignmentID, studentID, status))
	return nil
}

func TestRegisterRunDeliveries(t *testing.T) {
	t.Run("delivery flags reach the API", func(t *testing.T) {
		tracker := &stubTracker{}
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Tracker: tracker, Output: output})

		cmd := registerCommand(runner)
		args := []string{"register", "run",
			"--course", "7", "--cohort", "2024",
			"--date", "2026-04-10", "--present", "1",
			"--delivery", "3:1=on_time",
		}
		if err := cmd.Run(context.Background(), args); err != nil {
			t.Fatalf("register run error = %v", err)
		}

		if len(tracker.deliveries) != 1 || tracker.deliveries[0] != "3:1=on_time" {
			t.Errorf("expected delivery write 3:1=on_time, got %v", tracker.deliveries)
		}
		if !strings.Contains(output.String(), "Delivery marks: 1/1") {
			t.Errorf("expected delivery summary in output, got %q", output.String())
		}
	})

	t.Run("unknown assignment is rejected", func(t *testing.T) {
		tracker := &stubTracker{}
		runner := NewRunner(RunnerOpts{Tracker: tracker, Output: &bytes.Buffer{}})

		cmd := registerCommand(runner)
		args := []string{"register", "run",
			"--course", "7", "--cohort", "2024",
			"--date", "2026-04-10", "--present", "1",
			"--delivery", "4:1=on_time",
		}
		err := cmd.Run(context.Background(), args)
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Fatalf("expected ErrInvalidFlag for unknown assignment, got %v", err)
		}
		if len(tracker.deliveries) != 0 {
			t.Errorf("expected no delivery writes, got %v", tracker.deliveries)
		}
	})
}

func TestParseStatusChanges(t *testing.T) {
	tc := []struct {
		name    string
		args    []string
		want    map[int]models.AttendanceStatus
		wantErr bool
	}{
		{
			name: "lowercase statuses",
			args: []string{"1=present", "2=absent", "3=late"},
			want: map[int]models.AttendanceStatus{
				1: models.AttendancePresent,
				2: models.AttendanceAbsent,
				3: models.AttendanceLate,
			},
		},
		{
			name: "mixed casing",
			args: []string{"4=Present", "5=LATE"},
			want: map[int]models.AttendanceStatus{
				4: models.AttendancePresent,
				5: models.AttendanceLate,
			},
		},
		{name: "unknown status", args: []string{"1=tardy"}, wantErr: true},
		{name: "missing separator", args: []string{"1present"}, wantErr: true},
		{name: "bad record id", args: []string{"abc=present"}, wantErr: true},
		{name: "zero record id", args: []string{"0=present"}, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStatusChanges(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for id, status := range tt.want {
				if got[id] != status {
					t.Errorf("record %d: expected %s, got %s", id, status, got[id])
				}
			}
		})
	}
}

func TestParseDeliveryMarks(t *testing.T) {
	tc := []struct {
		name    string
		raw     []string
		want    []deliveryMark
		wantErr bool
	}{
		{name: "empty", raw: nil, want: nil},
		{
			name: "single mark",
			raw:  []string{"3:17=on_time"},
			want: []deliveryMark{{assignmentID: 3, studentID: 17, status: models.DeliveryOnTime}},
		},
		{
			name: "uppercase status",
			raw:  []string{"3:17=LATE"},
			want: []deliveryMark{{assignmentID: 3, studentID: 17, status: models.DeliveryLate}},
		},
		{
			name: "multiple marks",
			raw:  []string{"3:17=on_time", "3:18=not_delivered"},
			want: []deliveryMark{
				{assignmentID: 3, studentID: 17, status: models.DeliveryOnTime},
				{assignmentID: 3, studentID: 18, status: models.DeliveryNotDelivered},
			},
		},
		{name: "missing status", raw: []string{"3:17"}, wantErr: true},
		{name: "missing student", raw: []string{"3=on_time"}, wantErr: true},
		{name: "bad assignment id", raw: []string{"x:17=on_time"}, wantErr: true},
		{name: "bad student id", raw: []string{"3:0=on_time"}, wantErr: true},
		{name: "unknown status", raw: []string{"3:17=early"}, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDeliveryMarks(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("mark %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestParseIDList(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "5", want: []int{5}},
		{name: "multiple", input: "1,2,3", want: []int{1, 2, 3}},
		{name: "spaces and trailing comma", input: " 1, 2 ,3,", want: []int{1, 2, 3}},
		{name: "not a number", input: "1,abc", wantErr: true},
		{name: "zero id", input: "0", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDList(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}
