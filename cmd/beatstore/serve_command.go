package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"beatstore/internal/api"
	"beatstore/internal/checkout"
	"beatstore/internal/fulfillment"
	"beatstore/internal/logging"
	"beatstore/internal/mailer"
)

func newServeCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			lockPath := filepath.Join(cfg.Paths.LogDir, "beatstore.lock")
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another beatstore instance is already running")
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release lock", logging.Error(err))
				}
			}()

			if err := st.Seed(cmd.Context()); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}

			transport, err := mailer.NewTransport(cfg, logger)
			if err != nil {
				return err
			}
			if !cfg.SMTPConfigured() {
				logger.Warn("smtp not configured, delivering to local sandbox outbox",
					logging.String("outbox", cfg.Email.SandboxDir))
			}

			pipeline := fulfillment.New(cfg, st, transport, logger)
			engine := checkout.NewEngine(st, logger)
			server := api.NewServer(cfg, st, pipeline, engine, logger)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.Start(ctx); err != nil {
				return err
			}
			logger.Info("beatstore running",
				logging.String("store", cfg.Store.Name),
				logging.String("db", st.Path()))

			<-ctx.Done()
			server.Stop()
			logger.Info("beatstore stopped")
			return nil
		},
	}
}
