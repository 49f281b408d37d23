package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewPingCmd creates the ping command.
func NewPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the crawl service answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), s.Config.RequestTimeout)
			defer cancel()
			started := time.Now()
			if err := s.Client.Ping(ctx); err != nil {
				return fmt.Errorf("%s unreachable: %w", s.Client.BaseURL(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ok (%s)\n", s.Client.BaseURL(), time.Since(started).Round(time.Millisecond))
			return nil
		},
	}
}
