package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-PlanningService/internal/api/handlers"
	getPlanningHandler "github.com/m04kA/SMC-PlanningService/internal/api/handlers/get_planning"
	listFieldsHandler "github.com/m04kA/SMC-PlanningService/internal/api/handlers/list_fields"
	listUnavailabilitiesHandler "github.com/m04kA/SMC-PlanningService/internal/api/handlers/list_unavailabilities"
	"github.com/m04kA/SMC-PlanningService/internal/api/middleware"
	"github.com/m04kA/SMC-PlanningService/internal/config"
	"github.com/m04kA/SMC-PlanningService/internal/domain"
	backendRepo "github.com/m04kA/SMC-PlanningService/internal/infra/storage/backend"
	"github.com/m04kA/SMC-PlanningService/internal/infra/storage/snapshot"
	"github.com/m04kA/SMC-PlanningService/internal/integrations/terrainapi"
	"github.com/m04kA/SMC-PlanningService/internal/planning"
	"github.com/m04kA/SMC-PlanningService/internal/service/directory"
	getPlanningUC "github.com/m04kA/SMC-PlanningService/internal/usecase/get_planning"
	listFieldsUC "github.com/m04kA/SMC-PlanningService/internal/usecase/list_fields"
	listUnavailabilitiesUC "github.com/m04kA/SMC-PlanningService/internal/usecase/list_unavailabilities"
	"github.com/m04kA/SMC-PlanningService/pkg/logger"
	"github.com/m04kA/SMC-PlanningService/pkg/metrics"
	"github.com/m04kA/SMC-PlanningService/pkg/types"
)

// backendSource источник данных бэкенда терраинов (REST API или база)
type backendSource interface {
	ListFields(ctx context.Context, ownerID types.ID) ([]domain.Field, error)
	ListReservations(ctx context.Context) ([]domain.Reservation, error)
	GetReservation(ctx context.Context, id types.ID) (*domain.Reservation, error)
	ListSubscriptions(ctx context.Context) ([]domain.Subscription, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	ListUnavailabilities(ctx context.Context, fieldID types.ID) ([]domain.Unavailability, error)
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-PlanningService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены). Методы nil-коллектора ничего не делают.
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	location, err := cfg.Planning.Location()
	if err != nil {
		log.Fatal("Invalid planning timezone: %v", err)
	}

	// Источник данных бэкенда
	var source backendSource
	switch cfg.Backend.Source {
	case config.SourcePostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Backend source: postgres (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
		source = backendRepo.NewRepository(db)

	default:
		source = terrainapi.NewClient(
			cfg.Backend.URL,
			cfg.Backend.Token,
			time.Duration(cfg.Backend.Timeout)*time.Second,
			log,
		)
		log.Info("Backend source: http (url=%s, timeout=%ds)", cfg.Backend.URL, cfg.Backend.Timeout)
	}

	// Кэш справочника
	cacheTTL := time.Duration(cfg.Redis.TTL) * time.Second
	var cache directory.Cache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is unreachable at %s, directory cache will miss until it is back: %v", cfg.Redis.Addr, err)
		}
		cancel()

		cache = snapshot.NewRedisCache(rdb, cfg.Redis.Key, cacheTTL)
		log.Info("Directory cache: redis (addr=%s, key=%s, ttl=%s)", cfg.Redis.Addr, cfg.Redis.Key, cacheTTL)
	} else {
		cache = snapshot.NewMemoryCache(cacheTTL)
		log.Info("Directory cache: in-memory (ttl=%s)", cacheTTL)
	}

	// Сервисы планинга
	directoryLoader := directory.NewLoader(source, cache, log, metricsCollector)

	var limiter *rate.Limiter
	if cfg.Planning.LookupRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Planning.LookupRPS), cfg.Planning.LookupBurst)
	}
	reservationLookup := planning.NewReservationLookup(
		source,
		limiter,
		time.Duration(cfg.Planning.LookupTimeout)*time.Second,
	)
	gridBuilder := planning.NewBuilder(log, metricsCollector)

	// Инициализируем use cases
	getPlanningUseCase := getPlanningUC.NewUseCase(
		source,
		source,
		directoryLoader,
		gridBuilder,
		reservationLookup,
		metricsCollector,
		&getPlanningUC.RealTimeProvider{Location: location},
		getPlanningUC.Options{
			DefaultOpening:         types.TimeString(cfg.Planning.DefaultOpening),
			DefaultClosing:         types.TimeString(cfg.Planning.DefaultClosing),
			NightShiftLimitMinutes: cfg.Planning.NightShiftLimitMinutes,
			WaitTimeout:            time.Duration(cfg.Planning.WaitTimeout) * time.Second,
		},
		log,
	)
	listFieldsUseCase := listFieldsUC.NewUseCase(source, log)
	listUnavailabilitiesUseCase := listUnavailabilitiesUC.NewUseCase(source, log)

	// Инициализируем handlers
	getPlanning := getPlanningHandler.NewHandler(getPlanningUseCase, log)
	listFields := listFieldsHandler.NewHandler(listFieldsUseCase, log)
	listUnavailabilities := listUnavailabilitiesHandler.NewHandler(listUnavailabilitiesUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Терраины владельца
	api.HandleFunc("/owners/{ownerId}/fields", listFields.Handle).Methods(http.MethodGet)

	// Недельный планинг терраина
	api.HandleFunc("/fields/{fieldId}/planning", getPlanning.Handle).Methods(http.MethodGet)

	// Записи о занятости терраина за период
	api.HandleFunc("/fields/{fieldId}/unavailabilities", listUnavailabilities.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
