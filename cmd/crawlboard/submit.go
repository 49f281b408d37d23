package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/crawlboard/internal/crawler"
)

// NewSubmitCmd creates the submit command.
func NewSubmitCmd() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "submit URL...",
		Short: "Queue URLs for crawling",
		Long: `Submit queues each URL with the crawl service. A missing scheme defaults
to https. URLs are submitted concurrently; one failure does not stop the rest.

Examples:
  crawlboard submit example.com https://go.dev/doc/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			queued := make([]crawler.Result, len(args))
			errs := runBatch(cmd.Context(), args, concurrency, func(ctx context.Context, i int, raw string) error {
				ctx, cancel := context.WithTimeout(ctx, s.Config.RequestTimeout)
				defer cancel()
				r, err := s.Client.Submit(ctx, raw)
				if err != nil {
					s.Logger.Warn("submit failed", zap.String("url", raw), zap.Error(err))
					return err
				}
				s.Logger.Info("submitted", zap.Int64("id", r.ID), zap.String("url", r.Url))
				queued[i] = r
				return nil
			})

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			for i, raw := range args {
				switch {
				case errs[i] == nil:
					fmt.Fprintf(out, "queued #%d %s\n", queued[i].ID, queued[i].Url)
				case errors.Is(errs[i], crawler.ErrInvalidURL):
					fmt.Fprintf(errOut, "skipped %s: not a valid http(s) URL\n", raw)
				default:
					fmt.Fprintf(errOut, "failed %s: %v\n", raw, errs[i])
				}
			}
			return countFailures(errs, "submissions")
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", defaultConcurrency, "maximum submissions in flight")
	return cmd
}
