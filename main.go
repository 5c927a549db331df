package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shop-api/config"
	"github.com/kendall-kelly/shop-api/logger"
	"github.com/kendall-kelly/shop-api/observability"
	"github.com/kendall-kelly/shop-api/repository"
	"github.com/kendall-kelly/shop-api/services"
	"github.com/kendall-kelly/shop-api/utils"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "shop-api",
	Short:         "Shop API: members, catalog items and orders",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// shop-api serve - start the HTTP server (default command)
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// shop-api migrate - create or update the schema and exit
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := bootstrap(); err != nil {
			return err
		}
		if err := repository.Migrate(config.GetDB()); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database migration completed successfully")
		return nil
	},
}

// shop-api routes - print the registered routes
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the HTTP routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		router, err := setupRouter(cfg)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH")
		for _, r := range router.Routes() {
			fmt.Fprintf(w, "%s\t%s\n", r.Method, r.Path)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(routesCmd)
}

// bootstrap loads the configuration, sets up logging and connects the database
func bootstrap() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	config.SetConfig(cfg)
	logger.Setup(cfg.LogLevel, cfg.GoEnv)

	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsTest():
		gin.SetMode(gin.TestMode)
	case cfg.IsDevelopment():
		gin.SetMode(gin.DebugMode)
	}

	if err := config.ConnectDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initServices builds the unit of work factory and the service singletons.
// Item images go to S3 when a bucket is configured, to the upload directory otherwise.
func initServices(ctx context.Context, cfg *config.Config) error {
	factory := repository.NewUnitOfWorkFactory(config.GetDB())

	var images services.ImageService
	if cfg.S3Enabled() {
		s3Service, err := services.InitS3Service(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize S3: %w", err)
		}
		images = services.InitImageService(s3Service)
		log.WithField("bucket", cfg.AWSS3Bucket).Info("Item images stored in S3")
	} else {
		utils.UploadDir = cfg.UploadDir
		images = services.InitLocalImageService(cfg.UploadDir)
		log.WithField("dir", cfg.UploadDir).Info("Item images stored on local disk")
	}

	services.InitMemberService(factory)
	services.InitItemService(factory, images)
	services.InitOrderService(factory)
	return nil
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap()
	if err != nil {
		return err
	}
	log.WithField("env", cfg.GoEnv).Info("Starting Shop API server...")

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingOptions{
		Enabled:      cfg.TracingEnabled,
		OTLPEndpoint: cfg.OTLPEndpoint,
		Environment:  cfg.GoEnv,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.WithError(err).Warn("Failed to flush traces")
		}
	}()

	if err := repository.Migrate(config.GetDB()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migration completed successfully")

	if err := initServices(ctx, cfg); err != nil {
		return err
	}

	router, err := setupRouter(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Server is listening")
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

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
