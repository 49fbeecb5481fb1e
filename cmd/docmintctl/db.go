package main

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/docmint-backend/internal/config"
	"github.com/ignatzorin/docmint-backend/internal/db"
)

// cliPool пул для разовых команд.
var cliPool = db.PoolOptions{
	MaxOpenConns:    4,
	MaxIdleConns:    1,
	ConnMaxLifetime: time.Minute,
}

func openDB(ctx context.Context) (*config.Config, *sqlx.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, cliPool)
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}
