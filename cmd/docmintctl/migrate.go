package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/docmint-backend/internal/db"
)

func migrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Применить SQL миграции",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			if dir == "" {
				dir = cfg.MigrationsPath
			}
			applied, err := db.RunMigrations(cmd.Context(), conn, dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Схема актуальна")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(out, "applied %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "каталог миграций (по умолчанию MIGRATIONS_PATH)")
	return cmd
}
