// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/cobra"

	"blockpress/internal/cache"
	"blockpress/internal/database"
	"blockpress/internal/handlers"
	"blockpress/internal/meta"
	"blockpress/internal/models"
	"blockpress/internal/plugins"
	"blockpress/internal/resolver"
	"blockpress/internal/router"
	"blockpress/internal/store"
	"blockpress/internal/tracing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"theme_dir", cfg.ThemeDir,
		"plugins_dir", cfg.PluginsDir,
	)

	tp, err := tracing.NewProvider(ctx, cfg.TraceExporter, cfg.TraceEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown failed", "error", err)
		}
	}()
	if tp.Enabled() {
		slog.Info("tracing enabled", "exporter", cfg.TraceExporter)
	}

	// Connect to PostgreSQL and run pending migrations.
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db, cfg.SiteName); err != nil {
			return err
		}
	}

	// Connect to Valkey for the REST response cache.
	valkeyClient, err := cache.ConnectValkey(ctx, cache.ValkeyOptions{
		Addr:     cfg.ValkeyAddr(),
		Password: cfg.ValkeyPassword,
		DB:       cfg.ValkeyDB,
	})
	if err != nil {
		return err
	}
	defer valkeyClient.Close()
	responseCache := cache.NewResponseCache(valkeyClient, cfg.CacheTTL)

	src, err := loadSources(cfg.ThemeDir, cfg.PluginsDir)
	if err != nil {
		return err
	}

	// Initialize data stores and the author name directory.
	templateStore := store.NewTemplateStore(db)
	userStore := store.NewUserStore(db)
	settingStore := store.NewSiteSettingStore(db)
	names := meta.NewDirectory(src.theme, plugins.NewDirectory(src.plugins), settingStore, userStore, cfg.SiteName, meta.DefaultExpiration)

	res := resolver.New(src.registry, src.theme, templateStore, names, resolver.WithPluginKey(src.pluginKey()))

	if cfg.ThemeWatch {
		err := src.theme.Watch(ctx, 250*time.Millisecond, func() {
			responseCache.InvalidateAll(ctx)
			names.Forget()
		})
		if err != nil {
			return err
		}
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registered := promauto.With(promReg).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockpress",
		Name:      "registered_templates",
		Help:      "Templates registered by plugins",
	}, []string{"type"})
	for _, typ := range []models.TemplateType{models.TemplateTypeTemplate, models.TemplateTypePart} {
		registered.WithLabelValues(string(typ)).Set(float64(src.registry.Count(typ)))
	}

	if n, err := templateStore.Count(ctx); err == nil {
		slog.Info("template customizations loaded", "count", n)
	}

	r := router.New(router.Handlers{
		Templates:     handlers.NewTemplates(res, templateStore, responseCache, models.TemplateTypeTemplate),
		TemplateParts: handlers.NewTemplates(res, templateStore, responseCache, models.TemplateTypePart),
		Posts:         handlers.NewPosts(res),
	}, promReg, promReg)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	// Graceful shutdown: wait for a signal, then drain connections.
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
