package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"ThermoCalc/internal/calc/batch"
	"ThermoCalc/internal/calc/diffusion"
	"ThermoCalc/internal/calc/equilibrium"
	"ThermoCalc/internal/calc/importer"
	"ThermoCalc/internal/calc/phasediagram"
	"ThermoCalc/internal/calc/property"
	"ThermoCalc/internal/calc/report"
	"ThermoCalc/internal/calculation"
	"ThermoCalc/internal/config"
	"ThermoCalc/internal/metrics"
	"ThermoCalc/internal/middleware"
	"ThermoCalc/internal/project"
	"ThermoCalc/internal/repo"
)

var wg sync.WaitGroup

type deps struct {
	cfg     config.Config
	log     zerolog.Logger
	repo    repo.Repository
	metrics *metrics.Metrics
}

func HandleList(r *mux.Router, d deps) {
	observe := d.metrics.ObserveCalculation

	r.Use(d.metrics.Middleware)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}).Methods("GET")
	r.Handle("/metrics", d.metrics.Handler()).Methods("GET")

	limiter := middleware.NewIPRateLimiter(rate.Limit(d.cfg.RateLimitRPS), d.cfg.RateLimitBurst)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode("pong")
	}).Methods("GET")

	diffusionH := &diffusion.Handler{Log: d.log, Observe: observe}
	batchH := &batch.Handler{Log: d.log, Observe: observe}
	importH := &importer.Handler{Log: d.log, Observe: observe}
	reportH := &report.Handler{Log: d.log}
	phaseH := &phasediagram.Handler{Observe: observe}
	equilibriumH := &equilibrium.Handler{Observe: observe}
	propertyH := &property.Handler{Observe: observe}

	api.HandleFunc("/tools/diffusion/calc", diffusionH.Calc).Methods("POST")
	api.HandleFunc("/tools/diffusion/display", diffusionH.Display).Methods("POST")
	api.HandleFunc("/tools/diffusion/batch", batchH.Diffusion).Methods("POST")
	api.HandleFunc("/tools/diffusion/import", importH.Diffusion).Methods("POST")
	api.HandleFunc("/tools/diffusion/report/pdf", reportH.PDF).Methods("POST")
	api.HandleFunc("/tools/diffusion/report/xlsx", reportH.XLSX).Methods("POST")
	api.HandleFunc("/tools/phase-diagram/calc", phaseH.Calc).Methods("POST")
	api.HandleFunc("/tools/equilibrium/calc", equilibriumH.Calc).Methods("POST")
	api.HandleFunc("/tools/property/calc", propertyH.Calc).Methods("POST")

	projectH := &project.Handler{Repo: d.repo, Log: d.log}
	api.HandleFunc("/projects", projectH.List).Methods("GET")
	api.HandleFunc("/projects", projectH.Create).Methods("POST")
	api.HandleFunc("/projects/{id}", projectH.Get).Methods("GET")
	api.HandleFunc("/projects/{id}", projectH.Update).Methods("PUT", "PATCH")
	api.HandleFunc("/projects/{id}", projectH.Delete).Methods("DELETE")

	calcH := &calculation.Handler{Repo: d.repo, Log: d.log, Observe: observe}
	api.HandleFunc("/calculations", calcH.List).Methods("GET")
	api.HandleFunc("/calculations", calcH.Create).Methods("POST")
	api.HandleFunc("/calculations/diffusion", calcH.Diffusion).Methods("POST")
	api.HandleFunc("/calculations/{id}", calcH.Get).Methods("GET")

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.cfg.StaticDir)))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("config")
	}
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := repo.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("database")
	}
	defer db.Close()
	store := repo.New(cfg.DatabaseDriver, db)
	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	router := mux.NewRouter()
	HandleList(router, deps{cfg: cfg, log: log, repo: store, metrics: metrics.New()})
	handler := middleware.CORS(cfg.AllowedOrigin, middleware.AccessLog(log)(router))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", cfg.Addr()).Bool("tls", cfg.TLS()).Str("db", cfg.DatabaseDriver).Msg("starting server")
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown")
	}
	log.Info().Msg("server stopped")

	wg.Wait()
}
