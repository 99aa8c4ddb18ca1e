package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/atx/internal/shared"
	"github.com/desertthunder/atx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the tracker API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	useJSON := cmd.Bool("json")

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if useJSON {
		if resp.IsJSON {
			return r.writeJSON(resp.JSONData, false)
		}
		r.output.Write(resp.Body)
		r.output.Write([]byte("\n"))
		return nil
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIPost makes a direct POST request to the tracker API
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	r.logger.Info("POST request", "path", path)

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	resp, err := r.api.Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// APIOverview fetches and displays all reference data from the tracker API.
func (r *Runner) APIOverview(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.logger.Info("fetching API overview")
	r.writePlain("Fetching tracker state...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			r.writePlain("📊 %s\n", update.Message)
		}
	}()

	result, err := r.engine.Overview(ctx, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		r.logger.Warn("failed to fetch endpoint", "endpoint", e.Endpoint, "error", e.Error)
	}

	r.writePlain("\n✓ Overview complete\n\n")

	for _, c := range result.Recent {
		if c.LatestSession != nil {
			r.writePlain("%s: last session #%d on %s\n", c.Course.SubjectName, c.LatestSession.SequenceNumber, c.LatestSession.Date)
		} else {
			r.writePlain("%s: no sessions registered\n", c.Course.SubjectName)
		}
	}
	if len(result.Recent) > 0 {
		r.writePlain("\n")
	}

	type overviewData struct {
		Courses     any                    `json:"courses,omitempty"`
		Students    any                    `json:"students,omitempty"`
		Assignments any                    `json:"assignments,omitempty"`
		Recent      []tasks.CourseOverview `json:"recent,omitempty"`
		Errors      []string               `json:"errors,omitempty"`
	}

	dump := overviewData{
		Courses:     result.Courses,
		Students:    result.Students,
		Assignments: result.Assignments,
		Recent:      result.Recent,
	}
	for _, e := range result.Errors {
		dump.Errors = append(dump.Errors, fmt.Sprintf("%s: %v", e.Endpoint, e.Error))
	}

	if save {
		saveFile := "overview.json"
		data, err := json.MarshalIndent(dump, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal overview: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save overview", "error", err)
		} else {
			r.logger.Info("overview saved", "file", saveFile)
			r.writePlain("✓ Overview saved to %s\n\n", saveFile)
		}
	}

	return r.writeJSON(dump, pretty)
}

// apiCommand handles direct tracker API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the attendance tracker",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the tracker API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "overview",
				Usage: "Fetch all reference data (courses, students, assignments)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save overview to overview.json",
						Value: false,
					},
				},
				Action: r.APIOverview,
			},
		},
	}
}
