package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/ordercalc/pkg/application/services/resolution"
	"github.com/vsinha/ordercalc/pkg/interfaces/api"
)

func newServeCmd(root *rootOpts) *cobra.Command {
	var (
		store storeFlags
		port  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the order calculator HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *root.cfg
			if err := store.apply(&cfg); err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}

			zapLogger, err := newZapLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer zapLogger.Sync()

			zapLogger.Info("Starting ordercalc service",
				zap.String("version", version),
				zap.String("build_time", buildTime),
				zap.String("store", cfg.Store.Kind),
			)

			ctx := cmd.Context()
			inv, err := openStore(ctx, &cfg, zapLogger)
			if err != nil {
				return err
			}
			defer inv.close()

			if cfg.Server.Mode == "release" {
				gin.SetMode(gin.ReleaseMode)
			}

			router := api.NewRouter(api.RouterConfig{
				Calculator: resolution.NewResolverWithConfig(inv.port, resolution.Config{
					MaxDepth: cfg.Resolver.MaxDepth,
					Logger:   zapLogger,
				}),
				Health:    inv.health,
				Logger:    zapLogger,
				Version:   version,
				BuildTime: buildTime,
			})

			corsHandler := cors.New(cors.Options{
				AllowedOrigins: cfg.Server.CORSOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"*"},
			})

			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      corsHandler.Handler(router),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}
			return serve(ctx, srv, cfg.Server.ShutdownTimeout, zapLogger)
		},
	}

	store.register(cmd)
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("Server exited")
	return nil
}
