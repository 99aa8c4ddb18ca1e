package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/atx/internal/models"
)

func sampleExport() *SessionExport {
	return &SessionExport{
		Session: models.ClassSession{
			ID:             42,
			CourseID:       7,
			Date:           "2026-04-10",
			SequenceNumber: 4,
			Topic:          "Indexing",
		},
		Course: &models.Course{ID: 7, SubjectName: "Databases", Year: 2026},
		Records: []models.AttendanceRecord{
			{ID: 1, StudentID: 1, ClassSessionID: 42, Status: models.AttendancePresent},
			{ID: 2, StudentID: 2, ClassSessionID: 42, Status: models.AttendanceAbsent},
			{ID: 3, StudentID: 3, ClassSessionID: 42, Status: models.AttendanceLate},
		},
		Students: map[int]models.Student{
			1: {ID: 1, FullName: "Ana Suarez"},
			2: {ID: 2, FullName: "Bruno Paz"},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "RecordID,StudentID,Student,Status") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Ana Suarez") {
			t.Errorf("CSV missing student name")
		}
		if !strings.Contains(output, "Late") {
			t.Errorf("CSV missing Late status")
		}
		// Student 3 is not in the roster map and falls back to the bare ID.
		if !strings.Contains(output, "student 3") {
			t.Errorf("CSV missing fallback name for unknown student")
		}

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 4 {
			t.Errorf("expected header + 3 records, got %d lines", len(lines))
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Databases, Session #4") {
			t.Errorf("Markdown missing title, got: %s", output)
		}
		if !strings.Contains(output, "**Date**: 2026-04-10") {
			t.Errorf("Markdown missing date")
		}
		if !strings.Contains(output, "**Topic**: Indexing") {
			t.Errorf("Markdown missing topic")
		}
		if !strings.Contains(output, "**Present**: 2 (1 late)") {
			t.Errorf("Markdown missing tallies, got: %s", output)
		}
		if !strings.Contains(output, "| Bruno Paz | Absent |") {
			t.Errorf("Markdown missing attendance row")
		}
	})

	t.Run("ExportToMarkdown without course", func(t *testing.T) {
		export := sampleExport()
		export.Course = nil

		data, err := ExportToMarkdown(export)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "# Session #4") {
			t.Errorf("expected bare session title, got: %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Session #4 (2026-04-10)") {
			t.Errorf("text missing header, got: %s", output)
		}
		if !strings.Contains(output, "1. Ana Suarez - Present") {
			t.Errorf("text missing numbered record")
		}
	})

	t.Run("RosterToCSV", func(t *testing.T) {
		data, err := RosterToCSV([]models.Student{
			{ID: 1, FullName: "Ana Suarez", NationalID: "30111222", Email: "ana@example.com", CohortYear: 2024},
		})
		if err != nil {
			t.Fatalf("RosterToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,FullName,NationalID,Email,CohortYear") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "ana@example.com") {
			t.Errorf("CSV missing student row")
		}
	})
}
