package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/atx/internal/formatter"
	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/shared"
	"github.com/desertthunder/atx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SessionsHistory lists registered sessions for a course, newest first.
func (r *Runner) SessionsHistory(ctx context.Context, cmd *cli.Command) error {
	courseID := cmd.Int("course")

	r.logger.Info("fetching session history", "course", courseID)

	sessions, err := r.engine.History(ctx, courseID, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(sessions, true)
	}

	r.writePlainHeader(fmt.Sprintf("Sessions for course %d (%d)", courseID, len(sessions)))
	for _, s := range sessions {
		r.writePlain("#%d  %s", s.SequenceNumber, s.Date)
		if s.Topic != "" {
			r.writePlain("  %s", s.Topic)
		}
		r.writePlain("  (id %d)\n", s.ID)
	}

	return nil
}

// SessionsShow displays one session with its attendance tallies and records.
func (r *Runner) SessionsShow(ctx context.Context, cmd *cli.Command) error {
	courseID := cmd.Int("course")
	sessionID := cmd.Int("id")

	r.logger.Info("fetching session detail", "course", courseID, "session", sessionID)

	detail, err := r.engine.SessionDetail(ctx, courseID, sessionID, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(detail, true)
	}

	r.writePlainHeader(fmt.Sprintf("Session #%d (%s)", detail.Session.SequenceNumber, detail.Session.Date))
	if detail.Session.Topic != "" {
		r.writePlain("Topic: %s\n", detail.Session.Topic)
	}
	r.writePlain("Present: %d (of which %d late)\n", detail.Present+detail.Late, detail.Late)
	r.writePlain("Absent: %d\n\n", detail.Absent)

	for _, rec := range detail.Records {
		r.writePlain("  student %d: %s (record %d)\n", rec.StudentID, rec.Status, rec.ID)
	}

	return nil
}

// SessionsExport renders a session's attendance records to CSV, Markdown, or text.
func (r *Runner) SessionsExport(ctx context.Context, cmd *cli.Command) error {
	courseID := cmd.Int("course")
	sessionID := cmd.Int("id")
	format := cmd.String("format")
	outputPath := cmd.String("output")

	r.logger.Info("exporting session", "course", courseID, "session", sessionID, "format", format)

	detail, err := r.engine.SessionDetail(ctx, courseID, sessionID, nil)
	if err != nil {
		return err
	}

	export := &formatter.SessionExport{
		Session:  detail.Session,
		Records:  detail.Records,
		Students: map[int]models.Student{},
	}

	// Name resolution is best-effort; a bare ID is still a usable row.
	if course, err := r.tracker.Course(ctx, courseID); err == nil {
		export.Course = course
	} else {
		r.logger.Warn("failed to fetch course for export", "error", err)
	}
	if students, err := r.tracker.Students(ctx); err == nil {
		for _, s := range students {
			export.Students[s.ID] = s
		}
	} else {
		r.logger.Warn("failed to fetch students for export", "error", err)
	}

	var data []byte
	switch format {
	case "csv":
		data, err = formatter.ExportToCSV(export)
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(export)
	case "text", "txt":
		data, err = formatter.ExportToText(export)
	default:
		return fmt.Errorf("%w: unknown format '%s' (must be csv, markdown, or text)", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return fmt.Errorf("failed to render export: %w", err)
	}

	if outputPath == "" {
		r.output.Write(data)
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	r.writePlain("✓ Exported session %d to %s\n", sessionID, outputPath)
	return nil
}

// SessionsEdit corrects attendance statuses on existing records.
//
// Each argument is RECORD_ID=STATUS where STATUS is present, absent, or late.
func (r *Runner) SessionsEdit(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one RECORD_ID=STATUS argument is required", shared.ErrMissingArgument)
	}

	changes, err := parseStatusChanges(args)
	if err != nil {
		return err
	}

	r.logger.Info("updating attendance records", "count", len(changes))

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("✏️  %s\n", update.Message)
		}
	}()

	result, err := r.engine.UpdateStatuses(ctx, changes, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlainln("✓ Updated %d/%d records", result.Updated, result.Attempted)
	if len(result.Failures) > 0 {
		r.writePlain("Failed updates:\n")
		for _, f := range result.Failures {
			r.writePlain("  - record %d: %s\n", f.RecordID, f.Reason)
		}
	}

	return nil
}

// parseStatusChanges parses RECORD_ID=STATUS arguments into a change set.
// Status values are matched case-insensitively.
func parseStatusChanges(args []string) (map[int]models.AttendanceStatus, error) {
	changes := make(map[int]models.AttendanceStatus, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: '%s' is not RECORD_ID=STATUS", shared.ErrInvalidArgument, arg)
		}

		recordID, err := strconv.Atoi(parts[0])
		if err != nil || recordID <= 0 {
			return nil, fmt.Errorf("%w: '%s' is not a record ID", shared.ErrInvalidArgument, parts[0])
		}

		status, ok := models.ParseAttendanceStatus(parts[1])
		if !ok {
			return nil, fmt.Errorf("%w: '%s' is not a valid status (present, absent, late)", shared.ErrInvalidArgument, parts[1])
		}

		changes[recordID] = status
	}
	return changes, nil
}
