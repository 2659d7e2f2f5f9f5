package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thermo/config"
	"thermo/internal/health"
	"thermo/internal/logs"
	"thermo/internal/metrics"
	"thermo/internal/middleware"
	"thermo/internal/storage"
	"thermo/internal/telemetry"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type App struct {
	cfg        *config.Config
	Router     *mux.Router
	httpServer *http.Server

	store  storage.Store
	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	// 1) Логи
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	// 2) Хранилище (redis | mysql | postgres | in-memory)
	st, err := storage.Open(a.cfg)
	if err != nil {
		log.Fatalf("storage open failed: %v", err)
	}
	a.store = st
	if a.cfg.Storage.Driver == "" {
		logs.Logger.Warn("no storage driver configured, readings kept in-memory only")
	}

	// 3) Роутер + middleware
	a.Router = mux.NewRouter()
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(middleware.LoggerMW)

	// 4) Health + метрики
	health.RegisterRoutesWithStore(a.Router, a.store)
	a.Router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// 5) Телеметрия: ingest + query
	telemetry.NewHTTP(a.store).RegisterRoutes(a.Router)

	// 6) Страница отображения
	a.RegisterWebUI()

	a.Router.Walk(func(rt *mux.Route, r *mux.Router, ancestors []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return ErrNotInitialized
	}
	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigs; a.cancel() }()

	c := cors.New(cors.Options{
		AllowedOrigins: a.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	a.httpServer = &http.Server{
		Addr:         bind,
		Handler:      c.Handler(a.Router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.httpServer.Shutdown(ctx)
	if a.store != nil {
		_ = a.store.Close()
	}
	return nil
}

var ErrNotInitialized = &initError{"server not initialized (call Initialize(cfg) first)"}

type initError struct{ s string }

func (e *initError) Error() string { return e.s }
