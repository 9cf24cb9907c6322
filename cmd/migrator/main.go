package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/yourssweeper/internal/config"
	"github.com/vancomm/yourssweeper/internal/database"
	"github.com/vancomm/yourssweeper/internal/logging"
)

var (
	log        = logrus.New()
	configPath string
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if log, err = logging.New(*cfg); err != nil {
		logrus.Fatal(err)
	}
	if cfg.Ledger.Backend != config.BackendPostgres {
		log.Fatalf("ledger backend is %q, nothing to migrate", cfg.Ledger.Backend)
	}

	pool, migrator, err := database.ConnectAndMigrate(ctx, cfg.Ledger.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to db: ", err)
	}
	defer pool.Close()
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		log.WithError(err).Error("failed to check migration version")
		return
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
