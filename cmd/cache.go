package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/atx/internal/repositories"
	"github.com/urfave/cli/v3"
)

// CacheSync fetches courses and students from the API into the local cache.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	db, err := r.requireDatabase()
	if err != nil {
		return err
	}

	r.logger.Info("syncing reference data to local cache")

	courses, err := r.tracker.Courses(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch courses: %w", err)
	}

	students, err := r.tracker.Students(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch students: %w", err)
	}

	adapter := repositories.NewCacheSyncAdapter(
		repositories.NewCourseRepository(db),
		repositories.NewStudentRepository(db),
	)

	syncedCourses, err := adapter.SyncCourses(courses)
	if err != nil {
		return fmt.Errorf("failed to sync courses: %w", err)
	}

	syncedStudents, err := adapter.SyncStudents(students)
	if err != nil {
		return fmt.Errorf("failed to sync students: %w", err)
	}

	r.logger.Info("cache sync complete", "courses", syncedCourses, "students", syncedStudents)
	r.writePlainln("✓ Synced %d courses and %d students", syncedCourses, syncedStudents)

	return nil
}

// CacheCourses lists locally cached course offerings.
func (r *Runner) CacheCourses(ctx context.Context, cmd *cli.Command) error {
	db, err := r.requireDatabase()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if year := cmd.Int("year"); year > 0 {
		criteria["year"] = year
	}

	cached, err := repositories.NewCourseRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list cached courses: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Cached Courses (%d)", len(cached)))
	for _, c := range cached {
		r.writePlain("%d. %s (%d %s)\n", c.Course.ID, c.Course.SubjectName, c.Course.Year, c.Course.Term)
	}

	return nil
}

// CacheStudents lists locally cached students.
func (r *Runner) CacheStudents(ctx context.Context, cmd *cli.Command) error {
	db, err := r.requireDatabase()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if cohort := cmd.Int("cohort"); cohort > 0 {
		criteria["cohort_year"] = cohort
	}

	cached, err := repositories.NewStudentRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list cached students: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Cached Students (%d)", len(cached)))
	for _, s := range cached {
		r.writePlain("%d. %s (cohort %d)\n", s.Student.ID, s.Student.FullName, s.Student.CohortYear)
	}

	return nil
}

// CacheLog lists locally recorded session commits, newest first.
func (r *Runner) CacheLog(ctx context.Context, cmd *cli.Command) error {
	db, err := r.requireDatabase()
	if err != nil {
		return err
	}

	criteria := map[string]any{}
	if courseID := cmd.Int("course"); courseID > 0 {
		criteria["course_remote_id"] = courseID
	}

	entries, err := repositories.NewCommitLogRepository(db).List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list commit log: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Commit Log (%d)", len(entries)))
	for _, e := range entries {
		r.writePlain("%s  course %d  session #%d (%s)  %d/%d records\n",
			e.CreatedAt().Format("2006-01-02 15:04"), e.CourseID, e.SessionNumber, e.Date, e.Created, e.Attempted)
		for _, f := range e.Failures {
			r.writePlain("    ✗ student %d: %s\n", f.StudentID, f.Reason)
		}
	}

	return nil
}

// cacheCommand handles the local reference-data cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local reference-data cache",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Fetch courses and students into the local cache",
				Action: r.CacheSync,
			},
			{
				Name:  "courses",
				Usage: "List cached course offerings",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "year",
						Usage: "Filter by offering year",
					},
				},
				Action: r.CacheCourses,
			},
			{
				Name:  "students",
				Usage: "List cached students",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "cohort",
						Usage: "Filter by cohort entry year",
					},
				},
				Action: r.CacheStudents,
			},
			{
				Name:  "log",
				Usage: "Show locally recorded session commits",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "course",
						Usage: "Filter by course offering ID",
					},
				},
				Action: r.CacheLog,
			},
		},
	}
}
