package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/salesflow-ai/entitlement-service/internal/api/rest"
	"github.com/salesflow-ai/entitlement-service/internal/api/rest/handlers"
	"github.com/salesflow-ai/entitlement-service/internal/config"
	"github.com/salesflow-ai/entitlement-service/internal/copilot"
	"github.com/salesflow-ai/entitlement-service/internal/db"
	"github.com/salesflow-ai/entitlement-service/internal/entitlement"
	"github.com/salesflow-ai/entitlement-service/internal/kafka"
	"github.com/salesflow-ai/entitlement-service/internal/leadgen"
	"github.com/salesflow-ai/entitlement-service/internal/metrics"
	"github.com/salesflow-ai/entitlement-service/internal/repository"
	"github.com/salesflow-ai/entitlement-service/internal/service"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	// Инициализируем логгер
	log := logger.New(cfg.Logging.Level)
	defer log.Sync()

	log.Infow("entitlement service starting up", "env", cfg.App.Env)

	if cfg.Auth.JWTSecret == "" {
		log.Warnw("JWT secret is not set, API runs unauthenticated")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Локальное хранилище состояния подписки (источник истины)
	stateStore, err := repository.NewSQLiteStateStore(cfg.State.Path, log)
	if err != nil {
		log.Fatalw("failed to open state store", "path", cfg.State.Path, "error", err)
	}
	defer func() {
		if err := stateStore.Close(); err != nil {
			log.Errorw("error closing state store", "error", err)
		}
	}()
	log.Infow("state store opened", "path", cfg.State.Path)

	// Удаленная база опциональна: без нее сервис работает локально
	var (
		subscriptionRepo repository.SubscriptionRepository
		scriptRepo       repository.ScriptRepository
		objectionRepo    repository.ObjectionRepository
		copyEventRepo    repository.CopyEventRepository
		leadRepo         repository.LeadRepository
	)
	if cfg.Database.DSN != "" {
		pg, err := db.NewPostgres(cfg.Database.DSN, log)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer func() {
			if err := pg.Close(); err != nil {
				log.Errorw("error closing database connection", "error", err)
			}
		}()
		log.Infow("database connection established")

		baseRepo := repository.NewPostgresSubscriptionRepository(pg, log)

		// Redis кеш не критичен, без него читаем напрямую из базы
		redisCache, err := repository.NewRedisCacheRepository(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Warnw("failed to initialize Redis cache, continuing without caching", "error", err)
			subscriptionRepo = baseRepo
		} else {
			log.Infow("Redis cache initialized")
			defer func() {
				if err := redisCache.Close(); err != nil {
					log.Errorw("error closing Redis connection", "error", err)
				}
			}()
			subscriptionRepo = repository.NewCachedSubscriptionRepository(baseRepo, redisCache, log)
		}

		scriptRepo = repository.NewPostgresScriptRepository(pg, log)
		objectionRepo = repository.NewPostgresObjectionRepository(pg, log)
		copyEventRepo = repository.NewPostgresCopyEventRepository(pg, log)
		leadRepo = repository.NewPostgresLeadRepository(pg, log)
	} else {
		log.Warnw("DATABASE_DSN is not set, using in-memory storage")
		scriptRepo = repository.NewInMemoryScriptRepository()
		objectionRepo = repository.NewInMemoryObjectionRepository()
		copyEventRepo = repository.NewInMemoryCopyEventRepository()
		leadRepo = repository.NewInMemoryLeadRepository()
	}

	// Prometheus метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	entitlementMetrics := metrics.NewEntitlementMetrics(registry)

	// Gate с лимитами тарифа
	limits := entitlement.Limits{
		FreeLeadLimit:     cfg.Limits.FreeLeadLimit,
		FreeAICallsPerDay: cfg.Limits.FreeAICallsPerDay,
	}
	gateOpts := []entitlement.Option{entitlement.WithMetrics(entitlementMetrics)}

	// Kafka producer не критичен для основного флоу
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Errorw("failed to initialize Kafka producer, continuing without event publishing", "error", err)
		} else {
			log.Infow("Kafka producer initialized")
			defer func() {
				if err := producer.Close(); err != nil {
					log.Errorw("error closing Kafka producer", "error", err)
				}
			}()
			gateOpts = append(gateOpts, entitlement.WithProducer(producer))
		}
	}

	gate := entitlement.NewGate(limits, stateStore, subscriptionRepo, log, gateOpts...)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	state, err := gate.Load(loadCtx)
	loadCancel()
	if err != nil {
		log.Fatalw("failed to load entitlement state", "error", err)
	}
	log.Infow("entitlement state loaded",
		"tier", state.Tier(),
		"lead_count", state.LeadCount,
		"ai_calls_today", state.AICallsToday,
	)

	// Service layer
	scriptService := service.NewScriptService(scriptRepo, log)
	trackingService := service.NewCopyTrackingService(copyEventRepo, scriptRepo, log)
	leadService := service.NewLeadService(leadRepo, gate, log)

	copilotClient := copilot.NewClient(cfg.Copilot.BaseURL, log)
	aiService := service.NewAIService(copilotClient, gate, log)

	var adviser service.ObjectionAdviser
	if cfg.Copilot.BaseURL != "" {
		adviser = copilotClient
	}
	objectionService := service.NewObjectionService(objectionRepo, adviser, log)

	h := rest.Handlers{
		Entitlement: handlers.NewEntitlementHandler(gate, log),
		Scripts:     handlers.NewScriptHandler(scriptService, trackingService, log),
		Objections:  handlers.NewObjectionHandler(objectionService, log),
		Leads:       handlers.NewLeadHandler(leadService, log),
		AI:          handlers.NewAIHandler(aiService, log),
	}
	if cfg.LeadGen.BaseURL != "" {
		leadgenClient := leadgen.NewClient(cfg.LeadGen.BaseURL, cfg.LeadGen.Token, log)
		h.LeadGen = handlers.NewLeadGenHandler(leadgenClient, log)
	}

	router := rest.SetupRouter(log, registry, cfg, h)
	server := rest.NewServer(router, cfg, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalw("failed to start HTTP server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	} else {
		log.Infow("HTTP server gracefully stopped")
	}
}
