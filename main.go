package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	apihttp "dominion-bridge/internal/api/http"
	"dominion-bridge/internal/auth"
	coordinator "dominion-bridge/internal/coordinator/application"
	"dominion-bridge/internal/fetch"
	"dominion-bridge/internal/observability/metrics"
	statistics "dominion-bridge/internal/statistics/domain"
	statisticsrepo "dominion-bridge/internal/statistics/infrastructure/postgres"
	usageapp "dominion-bridge/internal/usage/application"
	"dominion-bridge/internal/usage/infrastructure/excel"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := loadServerConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	pipelineCfg, err := coordinator.LoadConfig()
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("db ping error: %v", err)
	}

	store := statisticsrepo.NewSeriesStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		logger.Fatalf("schema error: %v", err)
	}

	metrics.Init(db, logger)

	loc, err := pipelineCfg.Location()
	if err != nil {
		logger.Fatalf("timezone error: %v", err)
	}
	policy, err := pipelineCfg.Policy()
	if err != nil {
		logger.Fatalf("dst policy error: %v", err)
	}
	interval, err := pipelineCfg.Interval()
	if err != nil {
		logger.Fatalf("interval error: %v", err)
	}

	var mergerOpts []statistics.MergerOption
	if pipelineCfg.CorrectionWindowDays > 0 {
		mergerOpts = append(mergerOpts, statistics.WithCorrectionWindowDays(pipelineCfg.CorrectionWindowDays))
	}
	merger, err := statistics.NewMerger(store, statistics.SystemClock{}, loc, mergerOpts...)
	if err != nil {
		logger.Fatalf("merger error: %v", err)
	}

	fetcher, err := fetch.NewSpoolFetcher(cfg.SpoolDir, pipelineCfg.DownloadDir)
	if err != nil {
		logger.Fatalf("fetcher error: %v", err)
	}

	loader := excel.NewLoader(excel.WithSheetNames(pipelineCfg.PowerSheet, pipelineCfg.EnergySheet))
	processor := usageapp.NewProcessor(loc, policy)

	coord, err := coordinator.NewCoordinator(fetcher, loader, processor, merger, pipelineCfg.Account, logger)
	if err != nil {
		logger.Fatalf("coordinator error: %v", err)
	}
	coord.KeepDownloads(pipelineCfg.KeepDownloads)

	scheduler := coordinator.NewScheduler(coord, interval, logger)
	go scheduler.Start(context.Background())

	authPolicy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), authPolicy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/usage", apihttp.NewUsageHandler(coord))
	mux.Handle("/api/v1/usage/hourly", apihttp.NewHourlyHandler(coord))
	mux.Handle("/api/v1/bill", apihttp.NewBillHandler(coord))
	mux.Handle("/api/v1/run", apihttp.NewRunHandler(coord))
	mux.Handle("/api/v1/reports/", apihttp.NewReportsHandler(coord))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", apihttp.HealthzHandler{})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type serverConfig struct {
	DatabaseURL string
	HTTPAddr    string
	SpoolDir    string
	JWTSecret   string
}

func loadServerConfig() serverConfig {
	cfg := serverConfig{
		DatabaseURL: getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		SpoolDir:    getenvDefault("DOMINION_SPOOL_DIR", "var/spool/dominion"),
		JWTSecret:   getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL or PG_DSN is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET is required")
	}
	return cfg
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
