package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/atx/internal/models"
)

var (
	_ list.Item = courseItem{}
	_ list.Item = studentItem{}
)

// courseItem wraps [models.Course] to implement [list.Item].
type courseItem struct {
	course models.Course
}

func (i courseItem) FilterValue() string { return i.course.SubjectName }
func (i courseItem) Title() string       { return i.course.SubjectName }
func (i courseItem) Description() string {
	desc := fmt.Sprintf("%d %s", i.course.Year, i.course.Term)
	if i.course.Instructor != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.course.Instructor)
	}
	return desc
}

// studentItem wraps a roster [models.Student] and renders the student's
// current draft entry. The draft pointer is shared with the workflow, so
// edits show up on the next frame without rebuilding the list.
type studentItem struct {
	student models.Student
	draft   *models.SessionDraft
}

func (i studentItem) FilterValue() string { return i.student.FullName }
func (i studentItem) Title() string       { return i.student.FullName }
func (i studentItem) Description() string {
	entry, ok := i.draft.Entry(i.student.ID)
	if !ok || entry.Attendance == nil {
		return "unmarked"
	}

	parts := []string{string(*entry.Attendance)}
	if entry.Participation != nil {
		parts = append(parts, fmt.Sprintf("participation %s", *entry.Participation))
	}
	if entry.AssignmentDelivered != nil && *entry.AssignmentDelivered {
		if entry.AssignmentGrade != nil {
			parts = append(parts, fmt.Sprintf("delivered %.1f", *entry.AssignmentGrade))
		} else {
			parts = append(parts, "delivered")
		}
	}
	if entry.Notes != "" {
		parts = append(parts, "✎")
	}
	return strings.Join(parts, " • ")
}
