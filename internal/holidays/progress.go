package holidays

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type fetchProgressMsg struct {
	done  int64
	total int64
}

type fetchDoneMsg struct {
	result FetchResult
	err    error
}

type fetchModel struct {
	url      string
	dest     string
	bar      progress.Model
	done     int64
	total    int64
	started  time.Time
	finished bool
	result   FetchResult
	err      error
}

func newFetchModel(url, dest string) fetchModel {
	return fetchModel{
		url:     url,
		dest:    dest,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		total:   -1,
		started: time.Now(),
	}
}

func (m fetchModel) Init() tea.Cmd {
	return nil
}

func (m fetchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.finished {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.err = context.Canceled
			return m, tea.Quit
		}
	case fetchProgressMsg:
		m.done = msg.done
		m.total = msg.total
	case fetchDoneMsg:
		m.finished = true
		m.result = msg.result
		m.err = msg.err
	}
	return m, nil
}

func (m fetchModel) View() string {
	if m.finished {
		return m.summary() + "\nPress any key to exit...\n"
	}

	var info string
	percent := 0.0
	if m.total > 0 {
		percent = min(float64(m.done)/float64(m.total), 1)
		info = fmt.Sprintf("%s / %s  %.1f%%", FormatBytes(m.done), FormatBytes(m.total), percent*100)
	} else {
		info = FormatBytes(m.done)
	}
	if elapsed := time.Since(m.started).Seconds(); elapsed > 0 && m.done > 0 {
		info += fmt.Sprintf("  %s/s", FormatBytes(int64(float64(m.done)/elapsed)))
	}
	return fmt.Sprintf("Downloading holidays from %s\n\n%s\n%s\n\nPress Ctrl+C to cancel\n", m.url, m.bar.ViewAs(percent), info)
}

func (m fetchModel) summary() string {
	var sb strings.Builder
	if m.err != nil {
		fmt.Fprintf(&sb, "Download failed: %v\n\n", m.err)
		sb.WriteString("You can fetch the file manually:\n")
		fmt.Fprintf(&sb, "  1. download %s\n", m.url)
		fmt.Fprintf(&sb, "  2. save it as %s\n", m.dest)
		return sb.String()
	}
	fmt.Fprintf(&sb, "Download complete\n\nSize:     %s\nModified: %s\nSaved to: %s\n",
		FormatBytes(m.result.Size), m.result.ModTime.Format("2006-01-02 15:04:05"), m.result.Path)
	if y := m.result.Years; y != nil {
		fmt.Fprintf(&sb, "Years:    %d - %d (%d in total)\n", y.Min, y.Max, y.Count)
	}
	return sb.String()
}

// RunFetch downloads url into dest while showing a progress bar.
func RunFetch(ctx context.Context, client *http.Client, url, dest string) (FetchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newFetchModel(url, dest), tea.WithContext(ctx))
	go func() {
		result, err := Fetch(ctx, client, url, dest, func(done, total int64) {
			p.Send(fetchProgressMsg{done: done, total: total})
		})
		p.Send(fetchDoneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return FetchResult{}, err
	}
	m := final.(fetchModel)
	return m.result, m.err
}
