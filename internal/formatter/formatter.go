// package formatter provides functions to export session data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/desertthunder/atx/internal/models"
)

// SessionExport bundles one persisted session with everything needed to render it.
//
// Students maps student IDs to roster entries for name resolution; records
// whose student is missing from the map are rendered with the bare ID.
type SessionExport struct {
	Session  models.ClassSession
	Course   *models.Course
	Records  []models.AttendanceRecord
	Students map[int]models.Student
}

func (e *SessionExport) studentName(id int) string {
	if s, ok := e.Students[id]; ok && s.FullName != "" {
		return s.FullName
	}
	return fmt.Sprintf("student %d", id)
}

func (e *SessionExport) tally() (present, absent, late int) {
	for _, r := range e.Records {
		switch r.Status {
		case models.AttendancePresent:
			present++
		case models.AttendanceAbsent:
			absent++
		case models.AttendanceLate:
			late++
		}
	}
	return present, absent, late
}

// ExportToCSV converts a SessionExport to CSV format with columns: RecordID, StudentID, Student, Status
func ExportToCSV(export *SessionExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"RecordID", "StudentID", "Student", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range export.Records {
		record := []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.StudentID),
			export.studentName(r.StudentID),
			string(r.Status),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a SessionExport to Markdown format
func ExportToMarkdown(export *SessionExport) ([]byte, error) {
	var buf bytes.Buffer

	title := fmt.Sprintf("Session #%d", export.Session.SequenceNumber)
	if export.Course != nil {
		title = fmt.Sprintf("%s, Session #%d", export.Course.SubjectName, export.Session.SequenceNumber)
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	buf.WriteString(fmt.Sprintf("**Date**: %s\n", export.Session.Date))
	if export.Session.Topic != "" {
		buf.WriteString(fmt.Sprintf("**Topic**: %s\n", export.Session.Topic))
	}

	present, absent, late := export.tally()
	buf.WriteString(fmt.Sprintf("**Present**: %d (%d late) · **Absent**: %d\n\n", present+late, late, absent))

	buf.WriteString("## Attendance\n\n")
	buf.WriteString("| Student | Status |\n")
	buf.WriteString("|---------|--------|\n")
	for _, r := range export.Records {
		buf.WriteString(fmt.Sprintf("| %s | %s |\n", export.studentName(r.StudentID), r.Status))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a SessionExport to plain text format
func ExportToText(export *SessionExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Session #%d (%s)\n", export.Session.SequenceNumber, export.Session.Date))
	if export.Session.Topic != "" {
		buf.WriteString(fmt.Sprintf("Topic: %s\n", export.Session.Topic))
	}

	present, absent, late := export.tally()
	buf.WriteString(fmt.Sprintf("Present: %d (%d late), Absent: %d\n\n", present+late, late, absent))

	for i, r := range export.Records {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, export.studentName(r.StudentID), r.Status))
	}

	return buf.Bytes(), nil
}

// RosterToCSV converts a student roster to CSV format with columns: ID, FullName, NationalID, Email, CohortYear
func RosterToCSV(students []models.Student) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "FullName", "NationalID", "Email", "CohortYear"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range students {
		record := []string{
			strconv.Itoa(s.ID),
			s.FullName,
			s.NationalID,
			s.Email,
			strconv.Itoa(s.CohortYear),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}
