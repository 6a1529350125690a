package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"bisub/internal/api"
	"bisub/internal/history"
	"bisub/internal/logging"
)

const serveLockName = "serve.lock"

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if v := strings.TrimSpace(bind); v != "" {
				cfg.API.Bind = v
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			lockPath := filepath.Join(cfg.Paths.StateDir, serveLockName)
			lock := flock.New(lockPath)
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another bisub server is already running for this state directory")
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					logger.Warn("failed to release server lock", logging.Error(err))
				}
			}()

			var store *history.Store
			if !noHistory {
				if store, err = ctx.openHistory(); err != nil {
					return err
				}
				defer store.Close()
			}
			server := api.NewServer(&cfg, store, logger)

			runCtx, cancel := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := server.Start(runCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s (lock %s)\n", server.Addr(), lockPath)
			<-runCtx.Done()
			server.Stop()
			logger.Info("api server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides api.bind)")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record runs in the history ledger")
	return cmd
}
