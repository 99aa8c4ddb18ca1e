package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/atx/internal/formatter"
	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/shared"
	"github.com/urfave/cli/v3"
)

// CoursesList fetches and displays the available course offerings.
func (r *Runner) CoursesList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	r.logger.Info("listing course offerings")

	courses, err := r.tracker.Courses(ctx)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(courses, pretty)
	}

	r.writePlainHeader(fmt.Sprintf("Course Offerings (%d)", len(courses)))
	for _, c := range courses {
		r.writePlain("%d. %s (%d %s)", c.ID, c.SubjectName, c.Year, c.Term)
		if c.Instructor != "" {
			r.writePlain(" (%s)", c.Instructor)
		}
		r.writePlain("\n")
	}

	return nil
}

// CoursesShow fetches and displays a single course offering.
func (r *Runner) CoursesShow(ctx context.Context, cmd *cli.Command) error {
	courseID := cmd.IntArg("id")
	if courseID <= 0 {
		return fmt.Errorf("%w: course id is required", shared.ErrMissingArgument)
	}

	r.logger.Info("fetching course", "id", courseID)

	course, err := r.tracker.Course(ctx, courseID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(course, true)
	}

	r.writePlain("%s\n", course.SubjectName)
	r.writePlain("  ID:         %d\n", course.ID)
	r.writePlain("  Year/Term:  %d %s\n", course.Year, course.Term)
	if course.Instructor != "" {
		r.writePlain("  Instructor: %s\n", course.Instructor)
	}

	return nil
}

// StudentsList fetches and displays students, optionally filtered by cohort year.
func (r *Runner) StudentsList(ctx context.Context, cmd *cli.Command) error {
	cohort := cmd.Int("cohort")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	var students []models.Student
	var err error
	if cohort > 0 {
		r.logger.Info("listing students", "cohort", cohort)
		students, err = r.tracker.StudentsByCohort(ctx, cohort)
	} else {
		r.logger.Info("listing students")
		students, err = r.tracker.Students(ctx)
	}
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(students, pretty)
	}

	title := fmt.Sprintf("Students (%d)", len(students))
	if cohort > 0 {
		title = fmt.Sprintf("Students, cohort %d (%d)", cohort, len(students))
	}
	r.writePlainHeader(title)
	for _, s := range students {
		r.writePlain("%d. %s (cohort %d)\n", s.ID, s.FullName, s.CohortYear)
	}

	return nil
}

// StudentsExport writes a roster as CSV to a file or stdout.
func (r *Runner) StudentsExport(ctx context.Context, cmd *cli.Command) error {
	cohort := cmd.Int("cohort")
	outputPath := cmd.String("output")

	var students []models.Student
	var err error
	if cohort > 0 {
		r.logger.Info("exporting roster", "cohort", cohort)
		students, err = r.tracker.StudentsByCohort(ctx, cohort)
	} else {
		r.logger.Info("exporting roster")
		students, err = r.tracker.Students(ctx)
	}
	if err != nil {
		return err
	}

	data, err := formatter.RosterToCSV(students)
	if err != nil {
		return fmt.Errorf("failed to render roster: %w", err)
	}

	if outputPath == "" {
		r.output.Write(data)
		return nil
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write roster file: %w", err)
	}

	r.writePlain("✓ Exported %d students to %s\n", len(students), outputPath)
	return nil
}
