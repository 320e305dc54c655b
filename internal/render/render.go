package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lululau/monthgrid/internal/calendar"
	"github.com/lululau/monthgrid/internal/textwidth"
)

const (
	cellPadding = 1
	blockGap    = 3
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

// NoColor reports whether colour output is disabled.
func NoColor() bool {
	return noColorMode
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FEC260"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A5B4FC")).
			Padding(0, cellPadding)
	cellStyle    = lipgloss.NewStyle().Padding(0, cellPadding)
	dimCellStyle = cellStyle.Foreground(lipgloss.Color("#6B7280"))
	todayStyle   = cellStyle.Bold(true).Foreground(lipgloss.Color("#34D399"))
	holidayStyle = cellStyle.Foreground(lipgloss.Color("#3B82F6"))
	workdayStyle = cellStyle.Foreground(lipgloss.Color("#F97316"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#475569"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	legendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Markers stand in for colours when colour is off.
const (
	holidayMarker = "*"
	workdayMarker = "+"
	todayMarker   = "<"
)

// MonthBlock packages rendered lines with their visual width/height.
type MonthBlock struct {
	Lines  []string
	Width  int
	Height int
}

// BuildBlocks converts month views into renderable blocks.
func BuildBlocks(views []calendar.MonthView) ([]MonthBlock, error) {
	blocks := make([]MonthBlock, len(views))
	for i, view := range views {
		block, err := buildMonthBlock(view)
		if err != nil {
			return nil, err
		}
		blocks[i] = block
	}
	return blocks, nil
}

// Layout places blocks side by side, wrapping to new bands when the next
// block would not fit in width columns. A width of zero stacks everything.
func Layout(blocks []MonthBlock, width int) string {
	if len(blocks) == 0 {
		return ""
	}

	var bands []string
	for start := 0; start < len(blocks); {
		end := start + 1
		used := blocks[start].Width
		for end < len(blocks) && used+blockGap+blocks[end].Width <= width {
			used += blockGap + blocks[end].Width
			end++
		}
		bands = append(bands, joinBand(blocks[start:end]))
		start = end
	}
	return strings.Join(bands, "\n\n")
}

func joinBand(blocks []MonthBlock) string {
	height := 0
	for _, b := range blocks {
		height = max(height, b.Height)
	}
	lines := make([]string, height)
	gap := strings.Repeat(" ", blockGap)
	for row := range lines {
		parts := make([]string, len(blocks))
		for i, b := range blocks {
			line := ""
			if row < len(b.Lines) {
				line = b.Lines[row]
			}
			if i < len(blocks)-1 {
				line = textwidth.PadRight(line, b.Width)
			}
			parts[i] = line
		}
		lines[row] = strings.TrimRight(strings.Join(parts, gap), " ")
	}
	return strings.Join(lines, "\n")
}

func buildMonthBlock(view calendar.MonthView) (MonthBlock, error) {
	if len(view.Weeks) != calendar.WeeksPerGrid {
		return MonthBlock{}, fmt.Errorf("month view %s has %d weeks, want %d", view.Title, len(view.Weeks), calendar.WeeksPerGrid)
	}

	order := view.Weekdays()
	headers := make([]string, len(order))
	for i, wd := range order {
		headers[i] = WeekdayLabel(wd)
	}

	rows := make([][]string, len(view.Weeks))
	for i, week := range view.Weeks {
		rows[i] = make([]string, len(week))
		for j, day := range week {
			rows[i][j] = renderDayCell(day)
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderColumn(false).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return cellStyleFor(view, row, col)
		})
	if !noColorMode {
		t = t.BorderStyle(borderStyle)
	}

	title := view.Title
	if !noColorMode {
		title = titleStyle.Render(title)
	}
	lines := append([]string{title, ""}, strings.Split(strings.TrimRight(t.Render(), "\n"), "\n")...)

	width := 0
	for _, line := range lines {
		width = max(width, textwidth.StringWidth(line))
	}
	return MonthBlock{
		Lines:  lines,
		Width:  width,
		Height: len(lines),
	}, nil
}

// WeekdayLabel is the two-letter column header for a weekday.
func WeekdayLabel(wd time.Weekday) string {
	return wd.String()[:2]
}

func renderDayCell(day calendar.Day) string {
	cell := fmt.Sprintf("%2d", day.Date.Day())
	if !noColorMode {
		return cell
	}
	switch {
	case day.Holiday != nil && day.Holiday.IsHoliday:
		return cell + holidayMarker
	case day.Holiday != nil:
		return cell + workdayMarker
	case day.IsToday:
		return cell + todayMarker
	default:
		return cell + " "
	}
}

// Priority: holiday/workday colors > today > dimmed outside days.
func cellStyleFor(view calendar.MonthView, row, col int) lipgloss.Style {
	if row == table.HeaderRow {
		if noColorMode {
			return cellStyle
		}
		return headerStyle
	}
	if noColorMode || row < 0 || row >= len(view.Weeks) || col < 0 || col >= len(view.Weeks[row]) {
		return cellStyle
	}

	day := view.Weeks[row][col]
	switch {
	case !day.InMonth:
		return dimCellStyle
	case day.Holiday != nil && day.Holiday.IsHoliday:
		return holidayStyle
	case day.Holiday != nil:
		return workdayStyle
	case day.IsToday:
		return todayStyle
	default:
		return cellStyle
	}
}

// HelpLine describes the interactive key bindings.
func HelpLine() string {
	helpText := "j/] next month  k/[ previous month  J/} next year  K/{ previous year  w week start  . today  y year  m month  q quit"
	if noColorMode {
		return helpText
	}
	return helpStyle.Render(helpText)
}

// ColorLegend returns a legend explaining the holiday colour coding.
func ColorLegend() string {
	if noColorMode {
		return fmt.Sprintf("%s holiday  %s working day  %s today", holidayMarker, workdayMarker, todayMarker)
	}
	return legendStyle.Render("blue = holiday  orange = working day  green = today")
}
