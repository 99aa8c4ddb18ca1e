// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for class-session registration:
//  1. [CourseListView] : Browse and select a course offering
//  2. [SessionSetupView] : Enter the session date, cohort year, and topic
//  3. [RosterView] : Mark attendance, participation, grades, and notes per student
//  4. [InputView] : Free-text entry for a grade or observation
//  5. [ConfirmView] : Review derived counts before committing
//  6. [CommitView] : Monitor real-time progress updates
//  7. [ResultView] : Display the commit outcome and any failed records
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the WorkflowEngine, providing
// non-blocking status reporting during commits.
//
// A failed commit returns to [RosterView] with the draft intact; only a
// successful commit consumes the draft.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
