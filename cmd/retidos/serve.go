package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeanthielis/relatorio-retidos/internal/config"
	"github.com/jeanthielis/relatorio-retidos/internal/importer"
	"github.com/jeanthielis/relatorio-retidos/internal/logging"
	"github.com/jeanthielis/relatorio-retidos/internal/server"
	"github.com/jeanthielis/relatorio-retidos/internal/session"
	"github.com/jeanthielis/relatorio-retidos/internal/store"
	"github.com/jeanthielis/relatorio-retidos/internal/util"
)

// serveCmd HTTP server for the report UI
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API used by the report UI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, info, log, err := setup(cmd)
		if err != nil {
			return err
		}

		port, _ := cmd.Flags().GetInt("port")
		dev, _ := cmd.Flags().GetBool("dev")
		db, _ := cmd.Flags().GetString("db")
		if !applyServeFlags(cfg, info, port, dev, db) {
			log.WithField("port", cfg.Server.Port).Warn("--port ignored, the port is set in the config file or RETIDOS_PORT")
		}
		noBrowser, _ := cmd.Flags().GetBool("no-browser")

		st, err := store.New(cfg.Data.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer func() { _ = st.Close() }()

		sess, err := session.New(session.Options{
			Specs:   importer.DefaultFieldSpecs().WithOverrides(cfg.Columns),
			Targets: cfg.Targets,
			Store:   st,
			Log:     logging.Component(log, "cli"),
		})
		if err != nil {
			return err
		}

		srv := server.NewServer(cfg, sess, st, logging.Component(log, "http"))
		httpServer := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.WithField("port", cfg.Server.Port).Info("listening")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		if !cfg.Server.DevMode && !noBrowser {
			if err := util.OpenBrowserWithFallback(url); err != nil {
				log.Warnf("could not open a browser, visit %s", url)
			}
		} else {
			log.Infof("visit %s", url)
		}

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	},
}

// applyServeFlags applies the serve flags over the loaded config. --port only takes
// effect when neither the file nor RETIDOS_PORT set the port; false when it was ignored.
func applyServeFlags(cfg *config.AppConfig, info config.LoadConfigInfo, port int, dev bool, db string) bool {
	applied := true
	if port > 0 {
		if info.PortSpecified {
			applied = false
		} else {
			cfg.Server.Port = port
		}
	}
	if dev {
		cfg.Server.DevMode = true
	}
	if db != "" {
		cfg.Data.DBPath = db
	}
	return applied
}

func init() {
	serveCmd.Flags().Int("port", 0, "HTTP port, used when config.toml and RETIDOS_PORT leave it unset")
	serveCmd.Flags().Bool("dev", false, "development mode, unknown routes redirect to the UI dev server")
	serveCmd.Flags().String("db", "", "SQLite path for settings and upload history (default :memory:)")
	serveCmd.Flags().Bool("no-browser", false, "do not open a browser")
	rootCmd.AddCommand(serveCmd)
}
