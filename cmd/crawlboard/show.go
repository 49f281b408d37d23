package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print every field of one result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
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
			r, err := s.Client.FetchResult(ctx, ids[0])
			if err != nil {
				return fmt.Errorf("fetch #%d: %w", ids[0], err)
			}
			return writeResult(cmd.OutOrStdout(), format, r)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", formatTable, "output format: table, markdown, json or yaml")
	return cmd
}
