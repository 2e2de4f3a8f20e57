package main

import (
	"fmt"

	"github.com/evantbyrne/vessel"
	"github.com/evantbyrne/vessel/store"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(opts)
			if err != nil {
				return err
			}
			defer db.DB.Close()
			logs, err := vessel.MigrateUp(cmd.Context(), db.DB, db.Dialect, store.Migrations())
			printLogs(cmd, logs)
			return err
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore(opts)
			if err != nil {
				return err
			}
			defer db.DB.Close()
			logs, err := vessel.MigrateDown(cmd.Context(), db.DB, db.Dialect, store.Migrations(), steps)
			printLogs(cmd, logs)
			return err
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to revert, 0 for all")
	cmd.AddCommand(down)

	return cmd
}

func printLogs(cmd *cobra.Command, logs []string) {
	for _, line := range logs {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
