package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/devburak/contextHub-Theme/internal/api"
	"github.com/devburak/contextHub-Theme/internal/cache"
	"github.com/devburak/contextHub-Theme/internal/config"
	"github.com/devburak/contextHub-Theme/internal/geoip"
	"github.com/devburak/contextHub-Theme/internal/guard"
	"github.com/devburak/contextHub-Theme/internal/handler"
	"github.com/devburak/contextHub-Theme/internal/i18n"
	"github.com/devburak/contextHub-Theme/internal/logging"
	"github.com/devburak/contextHub-Theme/internal/middleware"
	"github.com/devburak/contextHub-Theme/internal/render"
	"github.com/devburak/contextHub-Theme/internal/scheduler"
	"github.com/devburak/contextHub-Theme/internal/service"
	"github.com/devburak/contextHub-Theme/internal/version"
	"github.com/devburak/contextHub-Theme/web"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "ContextHub theme server.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showHelp {
		flag.Usage()
		return
	}
	if *showVersion {
		info := version.Get()
		fmt.Printf("themeserver %s (commit %s, built %s)\n", info.Version, info.GitCommit, info.BuildTime)
		return
	}

	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.IsDevelopment())
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	i18n.SetDefaultLanguage(cfg.DefaultLocale)

	client := api.New(api.Options{
		BaseURL:  cfg.APIBaseURL,
		APIKey:   cfg.APIKey,
		TenantID: cfg.TenantID,
		Logger:   logger,
	})

	contentCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
	})
	defer func() {
		if err := contentCache.Close(); err != nil {
			logger.Error("closing cache", "error", err)
		}
	}()

	tenants := service.NewTenantService(client, cfg.SiteURL, cfg.LogoLayout, logger)
	categories := service.NewCategoryService(client, service.CategoryOptions{
		TTL:        cfg.CategoryCacheTTL,
		FetchLimit: cfg.CategoryFetchLimit,
		Logger:     logger,
	})
	menus := service.NewMenuService(client, service.MenuOptions{
		TTL:    cfg.MenuCacheTTL,
		Logger: logger,
		Refs: map[string]service.MenuRef{
			service.MenuPrimary: {ID: cfg.MenuID, Slug: cfg.MenuSlug},
			service.MenuFooter:  {ID: cfg.FooterMenuID, Slug: cfg.FooterMenuSlug},
		},
	})
	contents := service.NewContentService(client, service.ContentOptions{
		Tenants:        tenants,
		Cache:          contentCache,
		DetailTTL:      cfg.CacheTTL,
		PageSize:       cfg.ContentPageSize,
		MaxLookupPages: cfg.ContentLookupMaxPages,
		Logger:         logger,
	})
	forms := service.NewFormService(client, service.FormOptions{
		APIKey:        cfg.APIKey,
		FormID:        cfg.ContactFormID,
		FormSlug:      cfg.ContactFormSlug,
		DefaultLocale: cfg.DefaultLocale,
		TTL:           cfg.ContactFormCacheTTL,
		Logger:        logger,
	})

	submitGuard := guard.New(guard.Config{
		Window:       cfg.ContactRateWindow,
		MaxPerWindow: cfg.ContactRateMax,
		Cooldown:     cfg.ContactCooldown,
		BurstRate:    cfg.ContactBurstRate,
		BurstSize:    cfg.ContactBurstSize,
	})
	defer submitGuard.Close()

	geo, err := geoip.New(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn("geoip disabled", "error", err)
		geo, _ = geoip.New("")
	}
	defer func() {
		if err := geo.Close(); err != nil {
			logger.Error("closing geoip database", "error", err)
		}
	}()

	warmup(tenants, categories, menus, logger)

	sched := scheduler.New(scheduler.Options{Logger: logger})
	sched.Add("tenant", tenants.Load)
	sched.Add("categories", func(ctx context.Context) error {
		_, err := categories.Ensure(ctx, true)
		return err
	})
	sched.Add("menus", func(ctx context.Context) error {
		var firstErr error
		for _, key := range []string{service.MenuPrimary, service.MenuFooter} {
			if _, err := menus.Ensure(ctx, key, true); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	})
	if geo.IsEnabled() {
		sched.Add("geoip", func(context.Context) error { return geo.Reload() })
	}
	if err := sched.Start(cfg.RefreshInterval); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	renderer, err := render.New(web.Templates)
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	h := handler.New(handler.Options{
		Config:     cfg,
		Logger:     logger,
		Renderer:   renderer,
		Tenants:    tenants,
		Categories: categories,
		Menus:      menus,
		Contents:   contents,
		Forms:      forms,
		Guard:      submitGuard,
		GeoIP:      geo,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.IsDevelopment() {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.StripTrailingSlash)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("mounting static files: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/health", h.Health)
	r.Get("/robots.txt", h.Robots)
	r.Get("/sitemap.xml", h.Sitemap)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Locale(func() string {
			if locale := tenants.DefaultLocale(); locale != "" {
				return locale
			}
			return cfg.DefaultLocale
		}))
		r.Use(middleware.SiteContext(categories, menus, logger))

		r.Get("/", h.Home)
		r.Get("/category/{slug}", h.Category)
		r.Get("/content/{slug}", h.Content)
		r.Get("/search", h.Search)
		r.Get("/contact", h.ContactForm)
		r.Post("/contact", h.ContactSubmit)
		r.NotFound(h.NotFound)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("theme server listening",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"version", version.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// warmup loads upstream data once at boot so the first request does not
// pay the fetch cost. Failures are tolerated, the scheduler retries.
func warmup(tenants *service.TenantService, categories *service.CategoryService, menus *service.MenuService, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := tenants.Load(ctx); err != nil {
		logger.Warn("initial tenant load failed", "error", err)
	}
	if _, err := categories.Ensure(ctx, true); err != nil {
		logger.Warn("initial category load failed", "error", err)
	}
	for _, key := range []string{service.MenuPrimary, service.MenuFooter} {
		if _, err := menus.Ensure(ctx, key, true); err != nil {
			logger.Warn("initial menu load failed", "menu", key, "error", err)
		}
	}
}
