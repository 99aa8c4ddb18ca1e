// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// coursesCommand handles course offering lookups
func coursesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "courses",
		Aliases: []string{"c"},
		Usage:   "Course offering operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List course offerings",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CoursesList,
			},
			{
				Name:  "show",
				Usage: "Show one course offering",
				Arguments: []cli.Argument{
					&cli.IntArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CoursesShow,
			},
		},
	}
}

// studentsCommand handles student roster lookups
func studentsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "students",
		Aliases: []string{"st"},
		Usage:   "Student roster operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List students, optionally filtered by cohort year",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "cohort",
						Usage: "Cohort entry year to filter by",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.StudentsList,
			},
			{
				Name:  "export",
				Usage: "Export a roster as CSV",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "cohort",
						Usage: "Cohort entry year to filter by",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
				},
				Action: r.StudentsExport,
			},
		},
	}
}

// sessionsCommand handles class session history and edits
func sessionsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sessions",
		Aliases: []string{"s"},
		Usage:   "Class session history operations",
		Commands: []*cli.Command{
			{
				Name:  "history",
				Usage: "List registered sessions for a course, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "course",
						Usage:    "Course offering ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SessionsHistory,
			},
			{
				Name:  "show",
				Usage: "Show one session with its attendance records",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "course",
						Usage:    "Course offering ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Class session ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SessionsShow,
			},
			{
				Name:  "export",
				Usage: "Export a session's attendance to CSV, Markdown, or text",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "course",
						Usage:    "Course offering ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Class session ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, markdown, text)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
				},
				Action: r.SessionsExport,
			},
			{
				Name:      "edit",
				Usage:     "Correct attendance statuses on existing records",
				ArgsUsage: "RECORD_ID=STATUS [RECORD_ID=STATUS...]",
				Action:    r.SessionsEdit,
			},
		},
	}
}
