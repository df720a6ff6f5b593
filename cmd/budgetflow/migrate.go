package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mthorne/budgetflow/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("Database is at schema version %d\n", storage.ExpectedSchemaVersion)
			return nil
		},
	}
}
