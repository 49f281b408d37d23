package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/crawlboard/internal/app"
)

// NewRootCmd creates the root command. Without a subcommand it starts the
// interactive dashboard.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawlboard",
		Short: "Browse and manage crawl results",
		Long: `crawlboard polls a crawl service and shows its results as a filterable,
sortable, paginated table with a detail pane for the selected result.

Settings come from $XDG_CONFIG_HOME/crawlboard/config.toml, then
CRAWLBOARD_* environment variables, then the flags below.`,
		Version:       getVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return app.Run(ctx, sessionOptions(cmd))
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file path (default $XDG_CONFIG_HOME/crawlboard/config.toml)")
	flags.String("prefs", "", "preferences file path (default $XDG_CONFIG_HOME/crawlboard/prefs.toml)")
	flags.String("api-url", "", "crawl service base URL")
	flags.Duration("poll", 0, "refresh interval, e.g. 5s")
	flags.Int("page-size", 0, "rows per page")
	flags.String("log-file", "", "log file path")
	flags.Bool("debug", false, "log at debug level")

	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewSubmitCmd())
	cmd.AddCommand(NewRequeueCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewPingCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "crawlboard:", err)
		os.Exit(1)
	}
}

// sessionOptions collects the persistent flags.
func sessionOptions(cmd *cobra.Command) app.Options {
	flags := cmd.Flags()
	var opts app.Options
	opts.ConfigPath, _ = flags.GetString("config")
	opts.PrefsPath, _ = flags.GetString("prefs")
	opts.APIURL, _ = flags.GetString("api-url")
	opts.PollInterval, _ = flags.GetDuration("poll")
	opts.PageSize, _ = flags.GetInt("page-size")
	opts.LogFile, _ = flags.GetString("log-file")
	opts.Debug, _ = flags.GetBool("debug")
	return opts
}

// openSession opens an app session from the command's flags.
func openSession(cmd *cobra.Command) (*app.Session, error) {
	return app.Open(sessionOptions(cmd))
}
