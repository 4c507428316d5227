// Command hesab serves the budgeting API and offers calendar, period and job
// helpers on the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hesab/hesab/cmd/hesab/cli"
	"github.com/hesab/hesab/internal/app"
)

// exitError carries a command exit code through cobra.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCode(code int) error {
	if code == 0 {
		return nil
	}
	return exitError{code: code}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hesab",
		Short:         "Personal budgeting with Gregorian and Persian calendars",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newConvertCmd(), newPeriodCmd(), newJobsCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.InTestMode() {
				slog.Default().Info("test mode detected, skipping runtime startup")
				return nil
			}
			return runServer(cmd.Context())
		},
	}
}

func newConvertCmd() *cobra.Command {
	opts := cli.ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <YYYY-MM-DD>",
		Short: "Convert a date between the Gregorian and Persian calendars",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Date = args[0]
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return exitCode(cli.ConvertCommand(opts))
		},
	}
	cmd.Flags().StringVar(&opts.From, "from", "GREGORIAN", "calendar of the input date")
	cmd.Flags().StringVar(&opts.To, "to", "PERSIAN", "calendar to convert into")
	cmd.Flags().StringVar(&opts.Lang, "lang", "en", "language for month and weekday names (en or fa)")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "print JSON")
	return cmd
}

func newPeriodCmd() *cobra.Command {
	opts := cli.PeriodOptions{}
	cmd := &cobra.Command{
		Use:   "period",
		Short: "Show the billing period containing today",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()
			return exitCode(cli.PeriodCommand(opts))
		},
	}
	cmd.Flags().IntVar(&opts.StartDay, "start-day", 1, "first day of the billing month (1-31)")
	cmd.Flags().StringVar(&opts.Calendar, "calendar", "GREGORIAN", "GREGORIAN or PERSIAN")
	cmd.Flags().StringVar(&opts.Today, "today", "", "reference date in the chosen calendar (default: now)")
	cmd.Flags().IntVar(&opts.Repeat, "repeat", 1, "number of consecutive periods to list")
	cmd.Flags().BoolVar(&opts.JSONOutput, "json", false, "print JSON")
	return cmd
}

func newJobsCmd() *cobra.Command {
	var redisAddr string
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and trigger background jobs",
	}
	cmd.PersistentFlags().StringVar(&redisAddr, "redis", envOr("REDIS_ADDR", "127.0.0.1:6379"), "Redis address")

	trigger := cli.TriggerOptions{}
	triggerCmd := &cobra.Command{
		Use:   "trigger [task]",
		Short: "Enqueue a job (default budget:threshold_scan)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				trigger.Name = args[0]
			}
			trigger.Stdout = cmd.OutOrStdout()
			trigger.Stderr = cmd.ErrOrStderr()
			queue, err := cli.NewJobsCLI(redisAddr)
			if err != nil {
				return err
			}
			defer queue.Close()
			return exitCode(cli.TriggerCommand(cmd.Context(), queue, trigger))
		},
	}
	triggerCmd.Flags().Int64Var(&trigger.CategoryID, "category", 0, "limit the threshold scan to one category")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print queue counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := cli.NewJobsCLI(redisAddr)
			if err != nil {
				return err
			}
			defer queue.Close()
			return exitCode(cli.StatsCommand(cmd.Context(), queue, cli.StatsOptions{
				Stdout: cmd.OutOrStdout(),
				Stderr: cmd.ErrOrStderr(),
			}))
		},
	}

	cmd.AddCommand(triggerCmd, statsCmd)
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			stop()
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
