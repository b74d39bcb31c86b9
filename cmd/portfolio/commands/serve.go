package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"portfolio/internal/cache"
	"portfolio/internal/database"
	"portfolio/internal/deploy"
	"portfolio/internal/engine"
	"portfolio/internal/handlers"
	"portfolio/internal/ordering"
	"portfolio/internal/router"
	"portfolio/internal/storage"
)

// serveCmd runs the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the live site and the admin API",
	Long: `Run pending migrations, then serve the public site and the
token-guarded admin API until interrupted.

Valkey and S3 are optional: without Valkey pages are rendered on every
request, without S3 uploads are disabled, and without GITHUB_* settings
the deploy trigger is disabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) error {
	slog.Info("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	db, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// Seed the default pages (no-op if they already exist).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return err
		}
	}

	// The page cache is optional: a nil cache renders every request.
	var pageCache *cache.PageCache
	valkeyClient, err := cache.ConnectValkey(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, page cache disabled", "addr", cfg.ValkeyAddr(), "error", err)
	} else {
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	}

	// Object storage is optional: without it uploads answer 503.
	var uploader handlers.Uploader
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3PublicURL,
	)
	switch {
	case err != nil:
		return err
	case storageClient == nil:
		slog.Warn("s3 storage not configured, media uploads disabled")
	default:
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
		uploader = storage.NewUploader(storageClient)
	}

	// The deploy trigger is optional: without GitHub settings it answers 503.
	var deployer handlers.Deployer
	if d := deploy.New(deployConfig()); d != nil {
		slog.Info("deploy trigger configured", "repository", d.Repository())
		deployer = d
	} else {
		slog.Warn("github deploy not configured, deploy trigger disabled")
	}

	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN not set, admin API disabled")
	}

	c := newContent(db)
	eng, err := engine.New(siteName)
	if err != nil {
		return err
	}
	exp, err := newExporter(c, exportOptions(nil))
	if err != nil {
		return err
	}

	public := handlers.NewPublic(c.loader, eng, pageCache)
	admin := handlers.NewAdmin(c.projects, c.blocks, c.pages, ordering.New(c.blocks), uploader, exp, deployer, pageCache)
	r := router.New(public, admin, router.Options{AdminToken: cfg.AdminToken, StaticDir: cfg.StaticDir})

	// WriteTimeout must accommodate a full static export and large uploads.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
