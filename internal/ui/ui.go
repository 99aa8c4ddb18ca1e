package ui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/atx/internal/models"
	"github.com/desertthunder/atx/internal/services"
	"github.com/desertthunder/atx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CourseListView ViewState = iota
	SessionSetupView
	RosterView
	InputView
	ConfirmView
	CommitView
	ResultView
)

// inputTarget identifies which draft field the InputView edits.
type inputTarget int

const (
	inputGrade inputTarget = iota
	inputNotes
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	tracker services.Tracker
	engine  *tasks.WorkflowEngine
	width   int
	height  int

	courseList list.Model
	courses    []models.Course
	course     *models.Course

	dateInput   textinput.Model
	cohortInput textinput.Model
	topicInput  textinput.Model
	setupFocus  int
	topic       string

	draft       *models.SessionDraft
	roster      *tasks.RosterResult
	studentList list.Model

	target     inputTarget
	valueInput textinput.Model

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.CommitResult
	err          error
	status       string

	help help.Model
	keys keyMap
}

type coursesFetchedMsg struct {
	courses []models.Course
	err     error
}

type rosterLoadedMsg struct {
	roster *tasks.RosterResult
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

type commitCompleteMsg struct {
	result *tasks.CommitResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, tracker services.Tracker, engine *tasks.WorkflowEngine) *Model {
	return &Model{
		ctx:     ctx,
		view:    CourseListView,
		tracker: tracker,
		engine:  engine,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the course offerings.
func (m *Model) Init() tea.Cmd {
	return m.fetchCourses()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.courseList.Width() == 0 {
			m.courseList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.studentList.Width() == 0 {
			m.studentList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CourseListView:
			return m.handleCourseListKeys(msg)
		case SessionSetupView:
			return m.handleSetupKeys(msg)
		case RosterView:
			return m.handleRosterKeys(msg)
		case InputView:
			return m.handleInputKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case coursesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.courses = msg.courses
		items := make([]list.Item, len(msg.courses))
		for i, c := range msg.courses {
			items[i] = courseItem{course: c}
		}
		m.courseList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.courseList.Title = "Course Offerings"
		m.courseList.SetSize(m.width-4, m.height-8)
		return m, nil

	case rosterLoadedMsg:
		if msg.err != nil {
			// Roster failure returns to course selection; the draft is discarded.
			m.status = fmt.Sprintf("Roster load failed: %v", msg.err)
			m.draft = nil
			m.view = CourseListView
			return m, nil
		}
		m.roster = msg.roster
		items := make([]list.Item, len(msg.roster.Students))
		for i, s := range msg.roster.Students {
			items[i] = studentItem{student: s, draft: m.draft}
		}
		m.studentList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.studentList.Title = fmt.Sprintf("%s · %s", m.course.SubjectName, m.draft.Date)
		m.studentList.SetSize(m.width-4, m.height-8)
		m.status = ""
		m.view = RosterView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case commitCompleteMsg:
		m.progressChan = nil
		if msg.err != nil {
			// The draft survives a failed commit; back to editing.
			m.status = fmt.Sprintf("Commit failed: %v", msg.err)
			m.view = RosterView
			return m, nil
		}
		m.result = msg.result
		m.status = ""
		m.view = ResultView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CourseListView:
		return m.renderCourseList()
	case SessionSetupView:
		return m.renderSetup()
	case RosterView:
		return m.renderRoster()
	case InputView:
		return m.renderInput()
	case ConfirmView:
		return m.renderConfirm()
	case CommitView:
		return m.renderCommit()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleCourseListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.courseList.SelectedItem()
		if selected != nil {
			if c, ok := selected.(courseItem); ok {
				course := c.course
				m.course = &course
				m.startSetup()
				return m, textinput.Blink
			}
		}
	}

	var cmd tea.Cmd
	m.courseList, cmd = m.courseList.Update(msg)
	return m, cmd
}

// startSetup initializes the date and cohort inputs for the selected course.
func (m *Model) startSetup() {
	m.dateInput = textinput.New()
	m.dateInput.Placeholder = "YYYY-MM-DD"
	m.dateInput.SetValue(time.Now().Format("2006-01-02"))
	m.dateInput.Focus()

	m.cohortInput = textinput.New()
	m.cohortInput.Placeholder = "cohort year"
	m.cohortInput.SetValue(strconv.Itoa(m.course.Year))

	m.topicInput = textinput.New()
	m.topicInput.Placeholder = "topic (optional)"

	m.setupFocus = 0
	m.status = ""
	m.view = SessionSetupView
}

func (m *Model) handleSetupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CourseListView
		return m, nil
	case "tab", "shift+tab":
		inputs := []*textinput.Model{&m.dateInput, &m.cohortInput, &m.topicInput}
		inputs[m.setupFocus].Blur()
		if msg.String() == "tab" {
			m.setupFocus = (m.setupFocus + 1) % len(inputs)
		} else {
			m.setupFocus = (m.setupFocus + len(inputs) - 1) % len(inputs)
		}
		inputs[m.setupFocus].Focus()
		return m, textinput.Blink
	case "enter":
		date := m.dateInput.Value()
		if _, err := time.Parse("2006-01-02", date); err != nil {
			m.status = fmt.Sprintf("invalid date %q", date)
			return m, nil
		}
		cohort, err := strconv.Atoi(m.cohortInput.Value())
		if err != nil || cohort <= 0 {
			m.status = fmt.Sprintf("invalid cohort year %q", m.cohortInput.Value())
			return m, nil
		}

		m.topic = m.topicInput.Value()
		m.draft = models.NewSessionDraft(m.course.ID, cohort, date)
		m.status = ""
		return m, m.loadRoster()
	}

	var cmd tea.Cmd
	switch m.setupFocus {
	case 0:
		m.dateInput, cmd = m.dateInput.Update(msg)
	case 1:
		m.cohortInput, cmd = m.cohortInput.Update(msg)
	default:
		m.topicInput, cmd = m.topicInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleRosterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		// Cancel discards the draft entirely.
		m.draft = nil
		m.roster = nil
		m.status = ""
		m.view = CourseListView
		return m, nil
	case "1":
		m.setAttendance(models.AttendancePresent)
		return m, nil
	case "2":
		m.setAttendance(models.AttendanceAbsent)
		return m, nil
	case "3":
		m.setAttendance(models.AttendanceLate)
		return m, nil
	case "h":
		m.setParticipation(models.ParticipationHigh)
		return m, nil
	case "m":
		m.setParticipation(models.ParticipationMedium)
		return m, nil
	case "l":
		m.setParticipation(models.ParticipationLow)
		return m, nil
	case "x":
		m.setParticipation(models.ParticipationNone)
		return m, nil
	case "t":
		m.toggleDelivered()
		return m, nil
	case "g":
		return m.startInput(inputGrade)
	case "o":
		return m.startInput(inputNotes)
	case "c":
		if m.draft.MarkedCount() == 0 {
			m.status = "nothing to commit: no attendance statuses set"
			return m, nil
		}
		m.status = ""
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.studentList, cmd = m.studentList.Update(msg)
	return m, cmd
}

// selectedStudent returns the roster student under the cursor.
func (m *Model) selectedStudent() (models.Student, bool) {
	selected := m.studentList.SelectedItem()
	if selected == nil {
		return models.Student{}, false
	}
	item, ok := selected.(studentItem)
	if !ok {
		return models.Student{}, false
	}
	return item.student, true
}

func (m *Model) setAttendance(status models.AttendanceStatus) {
	student, ok := m.selectedStudent()
	if !ok {
		return
	}
	if err := m.draft.SetAttendance(student.ID, status); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *Model) setParticipation(level models.ParticipationLevel) {
	student, ok := m.selectedStudent()
	if !ok {
		return
	}
	if err := m.draft.SetParticipation(student.ID, level); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *Model) toggleDelivered() {
	student, ok := m.selectedStudent()
	if !ok {
		return
	}
	entry, _ := m.draft.Entry(student.ID)
	delivered := entry.AssignmentDelivered == nil || !*entry.AssignmentDelivered
	if err := m.draft.SetAssignmentDelivered(student.ID, delivered); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

func (m *Model) startInput(target inputTarget) (tea.Model, tea.Cmd) {
	student, ok := m.selectedStudent()
	if !ok {
		return m, nil
	}
	entry, _ := m.draft.Entry(student.ID)

	m.target = target
	m.valueInput = textinput.New()
	switch target {
	case inputGrade:
		m.valueInput.Placeholder = "grade (1-10)"
		if entry.AssignmentGrade != nil {
			m.valueInput.SetValue(strconv.FormatFloat(*entry.AssignmentGrade, 'f', -1, 64))
		}
	case inputNotes:
		m.valueInput.Placeholder = "observations"
		m.valueInput.SetValue(entry.Notes)
	}
	m.valueInput.Focus()
	m.status = ""
	m.view = InputView
	return m, textinput.Blink
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.status = ""
		m.view = RosterView
		return m, nil
	case "enter":
		student, ok := m.selectedStudent()
		if !ok {
			m.view = RosterView
			return m, nil
		}

		value := m.valueInput.Value()
		switch m.target {
		case inputGrade:
			if value == "" {
				if err := m.draft.SetAssignmentGrade(student.ID, nil); err != nil {
					m.status = err.Error()
					return m, nil
				}
			} else {
				grade, err := strconv.ParseFloat(value, 64)
				if err != nil {
					m.status = fmt.Sprintf("invalid grade %q", value)
					return m, nil
				}
				// An out-of-range grade leaves the prior value untouched.
				if err := m.draft.SetAssignmentGrade(student.ID, &grade); err != nil {
					m.status = err.Error()
					return m, nil
				}
			}
		case inputNotes:
			if err := m.draft.SetNotes(student.ID, value); err != nil {
				m.status = err.Error()
				return m, nil
			}
		}

		m.status = ""
		m.view = RosterView
		return m, nil
	}

	var cmd tea.Cmd
	m.valueInput, cmd = m.valueInput.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = RosterView
		return m, nil
	case "y":
		m.view = CommitView
		return m, m.startCommit()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = CourseListView
		m.course = nil
		m.draft = nil
		m.roster = nil
		m.result = nil
		m.err = nil
		m.status = ""
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CourseListView:
		m.courseList, cmd = m.courseList.Update(msg)
	case RosterView:
		m.studentList, cmd = m.studentList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchCourses() tea.Cmd {
	return func() tea.Msg {
		courses, err := m.tracker.Courses(m.ctx)
		return coursesFetchedMsg{courses: courses, err: err}
	}
}

func (m *Model) loadRoster() tea.Cmd {
	return func() tea.Msg {
		roster, err := m.engine.LoadRoster(m.ctx, m.draft, nil)
		return rosterLoadedMsg{roster: roster, err: err}
	}
}

func (m *Model) startCommit() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Commit(m.ctx, m.draft, m.topic, m.progressChan)
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return commitCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			result, err := m.result, m.err
			m.err = nil
			return commitCompleteMsg{result: result, err: err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderCourseList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	out := fmt.Sprintf("%s\n\n%s", m.courseList.View(), helpView)
	if m.status != "" {
		out = fmt.Sprintf("%s\n%s", styles.warn.Render(m.status), out)
	}
	return out
}

func (m *Model) renderSetup() string {
	title := styles.title.Render(fmt.Sprintf("New session: %s", m.course.SubjectName))
	fields := fmt.Sprintf("Date:   %s\nCohort: %s\nTopic:  %s\n",
		m.dateInput.View(), m.cohortInput.View(), m.topicInput.View())

	enterKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load roster"))
	tabKey := key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field"))
	helpView := m.help.ShortHelpView([]key.Binding{enterKey, tabKey, m.keys.back})

	out := fmt.Sprintf("%s\n%s\n%s", title, fields, helpView)
	if m.status != "" {
		out = fmt.Sprintf("%s\n\n%s", out, styles.err.Render(m.status))
	}
	return out
}

func (m *Model) renderRoster() string {
	present, absent := m.draft.Counts()
	counts := styles.help.Render(fmt.Sprintf("present %d · absent %d · marked %d/%d",
		present, absent, m.draft.MarkedCount(), len(m.draft.Roster())))

	helpKeys := []key.Binding{m.keys.present, m.keys.absent, m.keys.late, m.keys.partic, m.keys.delivered, m.keys.grade, m.keys.notes, m.keys.confirm}
	helpView := m.help.ShortHelpView(helpKeys)

	out := fmt.Sprintf("%s\n%s\n%s", m.studentList.View(), counts, helpView)
	if m.status != "" {
		out = fmt.Sprintf("%s\n%s", out, styles.err.Render(m.status))
	}
	return out
}

func (m *Model) renderInput() string {
	student, _ := m.selectedStudent()
	label := "Grade"
	if m.target == inputNotes {
		label = "Notes"
	}
	title := styles.title.Render(fmt.Sprintf("%s · %s", label, student.FullName))

	enterKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save"))
	helpView := m.help.ShortHelpView([]key.Binding{enterKey, m.keys.back})

	out := fmt.Sprintf("%s\n%s\n\n%s", title, m.valueInput.View(), helpView)
	if m.status != "" {
		out = fmt.Sprintf("%s\n\n%s", out, styles.err.Render(m.status))
	}
	return out
}

func (m *Model) renderConfirm() string {
	present, absent := m.draft.Counts()
	title := styles.title.Render(fmt.Sprintf("Save session for '%s'?", m.course.SubjectName))
	info := fmt.Sprintf(
		"\nDate: %s\nMarked: %d of %d students\nPresent: %d (includes late)\nAbsent: %d\n",
		m.draft.Date, m.draft.MarkedCount(), len(m.draft.Roster()), present, absent,
	)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderCommit() string {
	title := styles.title.Render("Saving Session")

	var phase string
	switch m.progress.Phase {
	case tasks.ComputeSequence:
		phase = "Computing sequence number..."
	case tasks.CreateSession:
		phase = "Creating class session..."
	case tasks.WriteAttendance:
		phase = fmt.Sprintf("Writing attendance (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.WriteDeliveries:
		phase = "Writing delivery marks..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to start over, q to quit")
	}

	title := styles.ok.Render(fmt.Sprintf("✓ Session #%d saved", m.result.SequenceNumber))
	info := fmt.Sprintf("\nAttendance records: %d/%d", m.result.Created, m.result.Attempted)
	if m.result.Participations > 0 {
		info += fmt.Sprintf("\nParticipation records: %d", m.result.Participations)
	}
	if m.result.Deliveries > 0 {
		info += fmt.Sprintf("\nDelivery records: %d", m.result.Deliveries)
	}

	var failed string
	if len(m.result.Failures) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to save %d records:", len(m.result.Failures))))
		for _, f := range m.result.Failures {
			failed += fmt.Sprintf("\n  • student %d: %s", f.StudentID, f.Reason)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s%s%s\n\n%s", title, info, failed, helpView)
}
