package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/vancomm/yourssweeper/internal/config"
	"github.com/vancomm/yourssweeper/internal/database"
	"github.com/vancomm/yourssweeper/internal/ledger"
)

const sqliteTable = "highscore"

// openStore returns the configured ledger store and a func releasing it.
func openStore(
	ctx context.Context, cfg config.Config, log logrus.FieldLogger,
) (ledger.Store, func(), error) {
	switch cfg.Ledger.Backend {
	case config.BackendSQLite:
		db, err := ledger.OpenSQLite(ctx, cfg.Ledger.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open sqlite ledger: %w", err)
		}
		s, err := ledger.NewSQLiteStore(db, sqliteTable)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("unable to create sqlite ledger: %w", err)
		}
		log.WithField("path", cfg.Ledger.Path).Info("using sqlite ledger")
		return s, func() { db.Close() }, nil

	case config.BackendPostgres:
		pool, migrator, err := database.ConnectAndMigrate(ctx, cfg.Ledger.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if version, dirty, err := migrator.Version(); err != nil {
			log.WithError(err).Warn("unable to check migration version")
		} else {
			log.WithFields(logrus.Fields{
				"version": version,
				"dirty":   dirty,
			}).Info("using postgres ledger")
		}
		migrator.Close()
		return ledger.NewPostgresStore(pool), pool.Close, nil

	default:
		log.WithField("path", cfg.Ledger.Path).Info("using file ledger")
		return ledger.NewFileStore(afero.NewOsFs(), cfg.Ledger.Path), func() {}, nil
	}
}
