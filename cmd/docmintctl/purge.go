package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/docmint-backend/internal/repository"
	"github.com/ignatzorin/docmint-backend/internal/storage"
	"github.com/ignatzorin/docmint-backend/internal/worker"
)

func purgeCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Удалить несохранённые черновики и просроченные сессии",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer conn.Close()

			if olderThan <= 0 {
				olderThan = cfg.RetentionPeriod
			}

			pdfCache, err := storage.NewPDFCache(cfg.PDFCachePath, 0)
			if err != nil {
				return err
			}

			users := repository.NewUserRepository(conn)
			retention := worker.NewRetention(repository.NewDocumentRepository(conn), users, olderThan, cfg.RetentionInterval).
				WithPDFEvictor(pdfCache)
			report, err := retention.RunOnce(cmd.Context(), olderThan)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "purged documents: %d, reset users: %d, expired sessions: %d\n",
				report.PurgedDocuments, report.ResetUsers, report.ExpiredSessions)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "возраст черновиков (по умолчанию RETENTION_PERIOD)")
	return cmd
}
