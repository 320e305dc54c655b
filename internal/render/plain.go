package render

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/lululau/monthgrid/internal/calendar"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 100

// PlainOptions controls how the non-interactive renderer behaves.
type PlainOptions struct {
	Writer  io.Writer
	Service *calendar.Service
	Request calendar.Request
	Width   int
	// Notice is printed below the calendar when non-empty, e.g. a stale
	// holiday cache warning.
	Notice string
}

// RunPlain renders the requested view exactly once.
func RunPlain(opts PlainOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Service == nil {
		svc, err := calendar.NewService()
		if err != nil {
			return err
		}
		opts.Service = svc
	}

	req := opts.Request.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}
	views, err := opts.Service.Views(req)
	if err != nil {
		return err
	}
	blocks, err := BuildBlocks(views)
	if err != nil {
		return err
	}
	width := opts.Width
	if width == 0 {
		width = DetectWidth()
	}
	output := Layout(blocks, width)
	if output == "" {
		return nil
	}
	if _, err := fmt.Fprintln(opts.Writer, output); err != nil {
		return err
	}

	if opts.Service.HasHolidayData() {
		if _, err := fmt.Fprintln(opts.Writer, "\n"+ColorLegend()); err != nil {
			return err
		}
	}
	if opts.Notice != "" {
		_, err = fmt.Fprintln(opts.Writer, "\n"+opts.Notice)
	}
	return err
}

// DetectWidth tries to determine the terminal width, falling back to
// DefaultWidth.
func DetectWidth() int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		if w, _, err := term.GetSize(int(fd)); err == nil && w > 0 {
			return w
		}
	}
	return DefaultWidth
}
