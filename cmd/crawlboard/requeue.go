package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/crawlboard/internal/crawler"
)

// NewRequeueCmd creates the requeue command.
func NewRequeueCmd() *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "requeue ID...",
		Short: "Crawl results again",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			errs := runBatch(cmd.Context(), ids, concurrency, func(ctx context.Context, _ int, id int64) error {
				ctx, cancel := context.WithTimeout(ctx, s.Config.RequestTimeout)
				defer cancel()
				if _, err := s.Client.Requeue(ctx, id); err != nil {
					s.Logger.Warn("requeue failed", zap.Int64("id", id), zap.Error(err))
					return err
				}
				s.Logger.Info("requeued", zap.Int64("id", id))
				return nil
			})

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			for i, id := range ids {
				switch {
				case errs[i] == nil:
					fmt.Fprintf(out, "requeued #%d\n", id)
				case errors.Is(errs[i], crawler.ErrNotFound):
					fmt.Fprintf(errOut, "#%d does not exist\n", id)
				default:
					fmt.Fprintf(errOut, "failed #%d: %v\n", id, errs[i])
				}
			}
			return countFailures(errs, "requeues")
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", defaultConcurrency, "maximum requests in flight")
	return cmd
}
