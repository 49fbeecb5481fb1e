package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/docmint-backend/internal/repository"
	"github.com/ignatzorin/docmint-backend/internal/service"
)

func seedCmd() *cobra.Command {
	var opts service.SeedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Загрузить встроенные шаблоны и чек-листы",
		Long: `Загружает встроенные шаблоны документов и комплаенс чек-листы.
Существующие ключи не перезаписываются, повторный запуск ничего не меняет.

Примеры:
  docmintctl seed
  docmintctl seed --demo-email demo@docmint.dev --demo-password 'Demo1234!'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			users := repository.NewUserRepository(conn)
			svc := service.NewSeedService(
				repository.NewTemplateRepository(conn),
				repository.NewChecklistRepository(conn),
				users,
				nil,
			)
			report, err := svc.SeedData(cmd.Context(), opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "templates: +%d, checklists: +%d, demo user: %t\n",
				report.Templates, report.Checklists, report.DemoUser)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.DemoEmail, "demo-email", "", "email демо аккаунта")
	cmd.Flags().StringVar(&opts.DemoPassword, "demo-password", "", "пароль демо аккаунта")
	return cmd
}
