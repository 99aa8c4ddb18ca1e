package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/shared"
	"github.com/desertthunder/atx/internal/tasks"
	"github.com/desertthunder/atx/internal/ui"
	"github.com/urfave/cli/v3"
)

// RegisterTUI launches the interactive terminal UI for session registration.
func (r *Runner) RegisterTUI(ctx context.Context, cmd *cli.Command) error {
	if r.tracker == nil {
		return fmt.Errorf("%w: tracker service not initialized", shared.ErrServiceUnavailable)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: workflow engine not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/atx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.tracker, r.engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// RegisterRun registers a session non-interactively from ID lists.
func (r *Runner) RegisterRun(ctx context.Context, cmd *cli.Command) error {
	courseID := cmd.Int("course")
	cohort := cmd.Int("cohort")
	date := cmd.String("date")
	topic := cmd.String("topic")

	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("%w: invalid date '%s' (expected YYYY-MM-DD)", shared.ErrInvalidFlag, date)
	}

	present, err := parseIDList(cmd.String("present"))
	if err != nil {
		return fmt.Errorf("%w: --present: %v", shared.ErrInvalidFlag, err)
	}
	absent, err := parseIDList(cmd.String("absent"))
	if err != nil {
		return fmt.Errorf("%w: --absent: %v", shared.ErrInvalidFlag, err)
	}
	late, err := parseIDList(cmd.String("late"))
	if err != nil {
		return fmt.Errorf("%w: --late: %v", shared.ErrInvalidFlag, err)
	}

	deliveries, err := parseDeliveryMarks(cmd.StringSlice("delivery"))
	if err != nil {
		return fmt.Errorf("%w: --delivery: %v", shared.ErrInvalidFlag, err)
	}

	if len(present)+len(absent)+len(late) == 0 {
		return fmt.Errorf("%w: at least one of --present, --absent, or --late is required", shared.ErrMissingArgument)
	}

	r.logger.Info("registering session", "course", courseID, "date", date)
	r.writePlain("Registering session for course %d on %s...\n\n", courseID, date)

	draft := models.NewSessionDraft(courseID, cohort, date)
	roster, err := r.engine.LoadRoster(ctx, draft, nil)
	if err != nil {
		return err
	}

	assignmentIDs := make(map[int]bool, len(roster.Assignments))
	for _, a := range roster.Assignments {
		assignmentIDs[a.ID] = true
	}
	for _, mark := range deliveries {
		if !assignmentIDs[mark.assignmentID] {
			return fmt.Errorf("%w: --delivery: assignment %d does not belong to course %d", shared.ErrInvalidFlag, mark.assignmentID, courseID)
		}
		if err := draft.SetDeliveryMark(mark.assignmentID, mark.studentID, mark.status); err != nil {
			return fmt.Errorf("--delivery: %w", err)
		}
	}

	marks := []struct {
		ids    []int
		status models.AttendanceStatus
	}{
		{present, models.AttendancePresent},
		{absent, models.AttendanceAbsent},
		{late, models.AttendanceLate},
	}
	for _, m := range marks {
		for _, id := range m.ids {
			if err := draft.SetAttendance(id, m.status); err != nil {
				return fmt.Errorf("student %d: %w", id, err)
			}
		}
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progressCh {
			switch update.Phase {
			case tasks.CreateSession:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.WriteAttendance:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteDeliveries:
				r.writePlain("📦 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Commit(ctx, draft, topic, progressCh)
	close(progressCh)
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("Session #%d registered", result.SequenceNumber))
	r.writePlain("Attendance records: %d/%d\n", result.Created, result.Attempted)
	if len(deliveries) > 0 {
		r.writePlain("Delivery marks: %d/%d\n", result.Deliveries, len(deliveries))
	}

	if len(result.Failures) > 0 {
		r.writePlain("\nFailed to save %d records:\n", len(result.Failures))
		for _, f := range result.Failures {
			r.writePlain("  - student %d: %s\n", f.StudentID, f.Reason)
		}
	}

	return nil
}

// deliveryMark is one parsed --delivery flag value.
type deliveryMark struct {
	assignmentID int
	studentID    int
	status       models.DeliveryStatus
}

// parseDeliveryMarks parses repeated TP_ID:STUDENT_ID=STATUS flag values.
// Status values are matched case-insensitively.
func parseDeliveryMarks(raw []string) ([]deliveryMark, error) {
	var marks []deliveryMark
	for _, value := range raw {
		ids, statusText, ok := strings.Cut(value, "=")
		if !ok {
			return nil, fmt.Errorf("'%s' is not TP_ID:STUDENT_ID=STATUS", value)
		}
		assignmentText, studentText, ok := strings.Cut(ids, ":")
		if !ok {
			return nil, fmt.Errorf("'%s' is not TP_ID:STUDENT_ID=STATUS", value)
		}

		assignmentID, err := strconv.Atoi(strings.TrimSpace(assignmentText))
		if err != nil || assignmentID <= 0 {
			return nil, fmt.Errorf("'%s' is not an assignment ID", assignmentText)
		}
		studentID, err := strconv.Atoi(strings.TrimSpace(studentText))
		if err != nil || studentID <= 0 {
			return nil, fmt.Errorf("'%s' is not a student ID", studentText)
		}

		status, ok := models.ParseDeliveryStatus(statusText)
		if !ok {
			return nil, fmt.Errorf("'%s' is not a delivery status (on_time, late, very_late, not_delivered)", statusText)
		}

		marks = append(marks, deliveryMark{assignmentID: assignmentID, studentID: studentID, status: status})
	}
	return marks, nil
}

// parseIDList parses a comma-separated list of positive integer IDs.
func parseIDList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("'%s' is not a student ID", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// registerCommand handles session registration, interactive and not
func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "register",
		Aliases: []string{"r"},
		Usage:   "Register a class session with attendance",
		Commands: []*cli.Command{
			{
				Name:    "ui",
				Aliases: []string{"tui", "interactive"},
				Usage:   "Launch interactive TUI for session registration",
				Action:  r.RegisterTUI,
			},
			{
				Name:  "run",
				Usage: "Register a session from student ID lists",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "course",
						Usage:    "Course offering ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "cohort",
						Usage:    "Cohort entry year for the roster",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "date",
						Usage: "Session date, YYYY-MM-DD (default: today)",
					},
					&cli.StringFlag{
						Name:  "topic",
						Usage: "Session topic",
					},
					&cli.StringFlag{
						Name:  "present",
						Usage: "Comma-separated student IDs to mark present",
					},
					&cli.StringFlag{
						Name:  "absent",
						Usage: "Comma-separated student IDs to mark absent",
					},
					&cli.StringFlag{
						Name:  "late",
						Usage: "Comma-separated student IDs to mark late",
					},
					&cli.StringSliceFlag{
						Name:  "delivery",
						Usage: "Assignment delivery mark as TP_ID:STUDENT_ID=STATUS (repeatable)",
					},
				},
				Action: r.RegisterRun,
			},
		},
	}
}
