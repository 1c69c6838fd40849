package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/subscout/subscout/internal/common"
	"github.com/subscout/subscout/internal/storage"
)

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <statement files...>",
		Short: "Parse statement files and store their transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			txns, err := loadStatementFiles(ctx, args)
			if err != nil {
				return err
			}

			dbPath, err := defaultDBPath()
			if err != nil {
				return err
			}
			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Migrate(ctx); err != nil {
				return err
			}

			inserted, err := store.SaveTransactions(ctx, txns)
			if err != nil {
				return err
			}

			common.LogInfo("imported transactions", common.Fields{
				"inserted":   inserted,
				"duplicates": len(txns) - inserted,
				"db":         dbPath,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions (%d duplicates skipped)\n",
				inserted, len(txns)-inserted)
			return nil
		},
	}
}
