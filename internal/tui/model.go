package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/lululau/monthgrid/internal/calendar"
	"github.com/lululau/monthgrid/internal/render"
)

type inputMode int

const (
	inputNone inputMode = iota
	inputYear
	inputMonth
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

// Options tunes the interactive program.
type Options struct {
	// Notice is shown under the help line, e.g. a stale holiday cache hint.
	Notice string
	Logger *zap.Logger
	Now    func() time.Time
}

// Run starts the interactive Bubble Tea UI.
func Run(svc *calendar.Service, req calendar.Request, opts Options) error {
	if svc == nil {
		var err error
		if svc, err = calendar.NewService(); err != nil {
			return err
		}
	}
	m := newModel(svc, req.Normalize(), opts)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}

type model struct {
	svc       *calendar.Service
	request   calendar.Request
	view      calendar.MonthView
	viewErr   error
	width     int
	inputMode inputMode
	input     textinput.Model
	statusMsg string
	notice    string
	logger    *zap.Logger
	now       func() time.Time
}

func newModel(svc *calendar.Service, req calendar.Request, opts Options) model {
	ti := textinput.New()
	ti.CharLimit = 16
	ti.Prompt = "> "

	m := model{
		svc:     svc,
		request: req,
		input:   ti,
		notice:  opts.Notice,
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.request.Mode = calendar.ModeMonth
	m.refresh()
	return m
}

// refresh rebuilds the current month view from the request.
func (m *model) refresh() {
	m.view, m.viewErr = m.svc.Month(m.request.Year, m.request.Month)
	if m.viewErr != nil {
		m.logger.Warn("cannot build month view",
			zap.Int("year", m.request.Year),
			zap.Int("month", m.request.Month),
			zap.Error(m.viewErr),
		)
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if m.inputMode != inputNone {
			return m.handleInputKey(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "k", "[":
			m.navigate(m.previousMonth())
		case "j", "]":
			m.navigate(m.nextMonth())
		case "K", "{":
			m.navigate(m.request.PreviousYear())
		case "J", "}":
			m.navigate(m.request.NextYear())
		case "w":
			m.rotateWeekStart()
		case "y":
			m.activateInput(inputYear, "year [month]")
		case "m":
			m.activateInput(inputMonth, "1-12")
		case ".":
			m.navigate(calendar.RequestFor(m.now()))
		}
	}
	return m, nil
}

// Paging follows the grid boundaries of the visible view.
func (m model) nextMonth() calendar.Request {
	if m.viewErr != nil {
		return m.request.NextMonth()
	}
	return m.view.NextRequest()
}

func (m model) previousMonth() calendar.Request {
	if m.viewErr != nil {
		return m.request.PreviousMonth()
	}
	return m.view.PreviousRequest()
}

func (m *model) navigate(req calendar.Request) {
	if err := req.Validate(); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.request = req
	m.statusMsg = ""
	m.refresh()
}

func (m *model) rotateWeekStart() {
	next := (m.svc.FirstDayOfWeek() + 1) % calendar.DaysPerWeek
	if err := m.svc.SetFirstDayOfWeek(next); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.statusMsg = "week starts on " + time.Weekday(next).String()
	m.refresh()
}

func (m model) View() string {
	if m.inputMode != inputNone {
		return m.inputView()
	}

	body, err := m.renderCalendar()
	status := m.statusMsg
	if err != nil {
		status = err.Error()
	}

	sb := strings.Builder{}
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString(render.HelpLine())
	if m.svc.HasHolidayData() {
		sb.WriteString("\n")
		sb.WriteString(render.ColorLegend())
	}
	if status != "" {
		sb.WriteString("\n")
		sb.WriteString(m.style(statusStyle, status))
	}
	if m.notice != "" {
		sb.WriteString("\n\n")
		sb.WriteString(m.style(noticeStyle, m.notice))
	}
	return sb.String()
}

func (m model) style(s lipgloss.Style, text string) string {
	if render.NoColor() {
		return text
	}
	return s.Render(text)
}

func (m model) renderCalendar() (string, error) {
	if m.viewErr != nil {
		return "", m.viewErr
	}
	blocks, err := render.BuildBlocks([]calendar.MonthView{m.view})
	if err != nil {
		return "", err
	}
	width := m.width
	if width <= 0 {
		width = render.DefaultWidth
	}
	return render.Layout(blocks, width), nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = inputNone
		m.statusMsg = ""
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.applyInput()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) activateInput(mode inputMode, placeholder string) {
	m.inputMode = mode
	m.input.SetValue("")
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
	m.statusMsg = ""
}

func (m *model) applyInput() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.statusMsg = "enter a number"
		return
	}
	req := m.request
	switch m.inputMode {
	case inputYear:
		fields := strings.Fields(value)
		if len(fields) > 2 {
			m.statusMsg = "expected: year or year month"
			return
		}
		year, err := calendar.ParseInt(fields[0])
		if err != nil {
			m.statusMsg = "invalid year"
			return
		}
		req.Year = year
		if len(fields) == 2 {
			month, err := calendar.ParseInt(fields[1])
			if err != nil {
				m.statusMsg = "invalid month"
				return
			}
			req.Month = month
		}
	case inputMonth:
		month, err := calendar.ParseInt(value)
		if err != nil {
			m.statusMsg = "invalid month"
			return
		}
		req.Month = month
	}
	req.Mode = calendar.ModeMonth
	if err := req.Validate(); err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.inputMode = inputNone
	m.input.Blur()
	m.navigate(req)
}

func (m model) inputView() string {
	var label string
	switch m.inputMode {
	case inputYear:
		label = "Enter year, optionally followed by month (Enter to confirm / Esc to cancel)"
	case inputMonth:
		label = "Enter month 1-12 (Enter to confirm / Esc to cancel)"
	default:
		return ""
	}
	return m.style(labelStyle, label) + "\n\n" + m.input.View()
}
