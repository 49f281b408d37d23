package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewDeleteCmd creates the delete command.
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Remove results",
		Long: `Delete removes results from the crawl service. Several ids are removed
in a single bulk request.`,
		Args: cobra.MinimumNArgs(1),
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

			ctx, cancel := context.WithTimeout(cmd.Context(), s.Config.RequestTimeout)
			defer cancel()
			out := cmd.OutOrStdout()

			if len(ids) == 1 {
				if err := s.Client.Delete(ctx, ids[0]); err != nil {
					return fmt.Errorf("delete #%d: %w", ids[0], err)
				}
				s.Logger.Info("deleted", zap.Int64("id", ids[0]))
				fmt.Fprintf(out, "deleted #%d\n", ids[0])
				return nil
			}

			resp, err := s.Client.DeleteBulk(ctx, ids)
			if err != nil {
				return fmt.Errorf("delete %d results: %w", len(ids), err)
			}
			s.Logger.Info("bulk deleted",
				zap.Int64s("ids", ids),
				zap.Int64("rows_affected", resp.RowsAffected),
			)
			deleted := resp.DeletedIDs
			if len(deleted) == 0 {
				deleted = ids
			}
			fmt.Fprintf(out, "deleted %d of %d: %s\n", resp.RowsAffected, len(ids), formatIDs(deleted))
			return nil
		},
	}
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, " ")
}
