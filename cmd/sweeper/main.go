package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/yourssweeper/internal/config"
	"github.com/vancomm/yourssweeper/internal/driver"
	"github.com/vancomm/yourssweeper/internal/ledger"
	"github.com/vancomm/yourssweeper/internal/logging"
	"github.com/vancomm/yourssweeper/internal/mines"
	"github.com/vancomm/yourssweeper/internal/server"
)

var (
	configPath string
	serve      bool
	difficulty string
)

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
	flag.BoolVar(&serve, "serve", false, "serve the game over HTTP instead of the terminal")
	flag.StringVar(&difficulty, "difficulty", "", "starting difficulty: easy, medium, hard or rows:cols:mines")
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if difficulty != "" {
		cfg.Difficulty = difficulty
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	log, err := logging.New(*cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	mines.Log = log

	log.Info("starting up, development = ", cfg.Development)
	log.WithFields(cfg.Fields()).Debug("config")

	if err := run(mainCtx, *cfg, log); err != nil {
		log.Error("exit reason: ", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	l := ledger.New(store, log)
	l.Load(ctx)

	d, err := cfg.StartDifficulty()
	if err != nil {
		return err
	}
	session, err := mines.NewSession(d)
	if err != nil {
		return err
	}
	drv := driver.New(session, l, log)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return drv.Run(gCtx)
	})

	if !serve {
		g.Go(func() error {
			return play(gCtx, drv, os.Stdin, os.Stdout)
		})
		return ignoreCanceled(g.Wait())
	}

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(drv, l, log).Handler(cfg.CorsOrigins...),
		BaseContext: func(net.Listener) context.Context {
			return gCtx
		},
	}

	log.Infof("ready to serve @ %s", cfg.Addr)

	g.Go(func() error {
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		select {
		case <-gCtx.Done():
		case <-drv.Done():
		}
		sCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(sCtx)
	})

	return ignoreCanceled(g.Wait())
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
