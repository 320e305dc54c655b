package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lululau/monthgrid/internal/holidays"
)

func newHolidaysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage the holiday overlay",
	}
	cmd.AddCommand(newHolidaysFetchCmd(a), newHolidaysInfoCmd(a))
	return cmd
}

func newHolidaysFetchCmd(a *app) *cobra.Command {
	var (
		output  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch [url]",
		Short: "Download a holidays JSON file into the cache",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := a.cfg.Holidays.URL
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return errors.New("no holidays URL: pass one or set holidays.url in the config")
			}

			dest := output
			if dest == "" {
				var err error
				if dest, err = holidays.CachePath(); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			client := &http.Client{}
			log := a.logger.Named("holidays").With(zap.String("url", url), zap.String("dest", dest))

			var (
				result holidays.FetchResult
				err    error
			)
			if isatty.IsTerminal(os.Stdout.Fd()) {
				result, err = holidays.RunFetch(ctx, client, url, dest)
			} else {
				result, err = holidays.Fetch(ctx, client, url, dest, nil)
				if err == nil {
					printFetchResult(cmd, result)
				}
			}
			if err != nil {
				log.Error("fetch failed", zap.Error(err))
				return err
			}
			log.Info("fetched", zap.Int64("bytes", result.Size))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write here instead of the cache")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "give up after this long")
	return cmd
}

func newHolidaysInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the holiday data in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Holidays.File
			if path == "" {
				var err error
				if path, err = holidays.CachePath(); err != nil {
					return err
				}
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("no holiday data at %s: %w", path, err)
			}
			set, err := holidays.LoadFromFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File:     %s\n", path)
			fmt.Fprintf(out, "Size:     %s\n", holidays.FormatBytes(info.Size()))
			fmt.Fprintf(out, "Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))
			if years, ok := set.Years(); ok {
				fmt.Fprintf(out, "Years:    %d - %d (%d in total)\n", years.Min, years.Max, years.Count)
			}
			valid, err := holidays.IsCacheValid(path, a.cfg.Holidays.GetMaxAge(), a.now())
			if err == nil && !valid {
				fmt.Fprintln(out, "Status:   stale")
			}
			return nil
		},
	}
}

func printFetchResult(cmd *cobra.Command, result holidays.FetchResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Saved %s to %s\n", holidays.FormatBytes(result.Size), result.Path)
	if y := result.Years; y != nil {
		fmt.Fprintf(out, "Years %d - %d (%d in total)\n", y.Min, y.Max, y.Count)
	}
}
