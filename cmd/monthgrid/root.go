package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lululau/monthgrid/internal/calendar"
	"github.com/lululau/monthgrid/internal/config"
	"github.com/lululau/monthgrid/internal/holidays"
	"github.com/lululau/monthgrid/internal/logging"
	"github.com/lululau/monthgrid/internal/render"
	"github.com/lululau/monthgrid/internal/tui"
)

// app carries what PersistentPreRunE prepares for the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	now        func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now}
	var (
		yearView bool
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "monthgrid [year] [month]",
		Short: "Six-week month calendar for the terminal",
		Long: `Shows a month as a fixed six-week grid.

  no arguments   current month
  -y             current year
  9              September of the current year
  1983           the whole of 1983
  2012 12        December 2012
  -y 9           the whole of year 9`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseRequest(yearView, args, a.now())
			if err != nil {
				return err
			}
			return a.show(cmd, req, plain)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&yearView, "year-view", "y", false, "show a whole year")
	flags.BoolVarP(&plain, "plain", "n", false, "render once and exit (non-interactive)")

	persistent := cmd.PersistentFlags()
	persistent.StringVarP(&a.configPath, "config", "c", "", "config file path")
	persistent.BoolP("no-color", "N", false, "disable all colour output")
	persistent.IntP("first-day", "f", 0, "first day of week, 0 = Sunday .. 6 = Saturday")
	persistent.StringP("holidays-file", "H", "", "holidays JSON file (skips the cache)")

	cmd.AddCommand(newGridCmd(a), newHolidaysCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	v := config.New(a.configPath)
	if err := bindFlags(v, cmd); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	render.SetNoColor(cfg.Display.NoColor)
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	bindings := map[string]string{
		"display.no_color":           "no-color",
		"calendar.first_day_of_week": "first-day",
		"holidays.file":              "holidays-file",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func (a *app) show(cmd *cobra.Command, req calendar.Request, plain bool) error {
	set, notice := a.loadHolidays()

	opts := []calendar.Option{
		calendar.WithNow(a.now),
		calendar.WithWeekStart(a.cfg.Calendar.FirstDayOfWeek),
		calendar.WithLogger(a.logger.Named("calendar")),
	}
	if set != nil {
		opts = append(opts, calendar.WithHolidays(set))
	}
	svc, err := calendar.NewService(opts...)
	if err != nil {
		return err
	}

	if plain || req.Mode == calendar.ModeYear {
		return render.RunPlain(render.PlainOptions{
			Writer:  cmd.OutOrStdout(),
			Service: svc,
			Request: req,
			Notice:  notice,
		})
	}
	return tui.Run(svc, req, tui.Options{
		Notice: notice,
		Logger: a.logger.Named("tui"),
		Now:    a.now,
	})
}

// loadHolidays returns the overlay to use, if any, and a notice for the user
// when the cached copy needs refreshing. Failures only cost the overlay.
func (a *app) loadHolidays() (holidays.Set, string) {
	if path := a.cfg.Holidays.File; path != "" {
		set, err := holidays.LoadFromFile(path)
		if err != nil {
			a.logger.Warn("cannot load holidays file", zap.String("path", path), zap.Error(err))
			return nil, ""
		}
		return set, ""
	}

	path, err := holidays.CachePath()
	if err != nil {
		a.logger.Debug("no cache directory", zap.Error(err))
		return nil, ""
	}
	valid, err := holidays.IsCacheValid(path, a.cfg.Holidays.GetMaxAge(), a.now())
	if err != nil {
		a.logger.Warn("cannot stat holidays cache", zap.String("path", path), zap.Error(err))
	}

	var set holidays.Set
	if valid {
		if set, err = holidays.LoadFromFile(path); err != nil {
			a.logger.Warn("cannot load holidays cache", zap.String("path", path), zap.Error(err))
			valid = false
		}
	}
	if !valid && a.cfg.Holidays.URL != "" {
		return set, "Holiday data is missing or stale; run `monthgrid holidays fetch` to refresh it."
	}
	return set, ""
}

func parseRequest(showYear bool, args []string, now time.Time) (calendar.Request, error) {
	year := now.Year()
	month := int(now.Month())

	switch len(args) {
	case 0:
		// defaults
	case 1:
		val, err := parseNumber(args[0], "month/year")
		if err != nil {
			return calendar.Request{}, err
		}
		switch {
		case showYear:
			year = val
		case val >= 1 && val <= 12:
			month = val
		default:
			year = val
			showYear = true
		}
	case 2:
		if showYear {
			return calendar.Request{}, errors.New("-y takes at most one year argument")
		}
		y, err := parseNumber(args[0], "year")
		if err != nil {
			return calendar.Request{}, err
		}
		m, err := parseNumber(args[1], "month")
		if err != nil {
			return calendar.Request{}, err
		}
		year, month = y, m
	default:
		return calendar.Request{}, errors.New("too many arguments, see --help")
	}

	req := calendar.Request{
		Year:  year,
		Month: month,
		Mode:  calendar.ModeMonth,
	}
	if showYear {
		req.Mode = calendar.ModeYear
	}
	if err := req.Validate(); err != nil {
		return calendar.Request{}, err
	}
	return req, nil
}

func parseNumber(value string, field string) (int, error) {
	n, err := calendar.ParseInt(value)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as %s", value, field)
	}
	return n, nil
}
