package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/DineshPrabhakaran22/Zerodha1/adapters/kafka"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/config"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/events"
	httphandler "github.com/DineshPrabhakaran22/Zerodha1/internal/handler/http"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/handler/middleware"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/service"
	"github.com/DineshPrabhakaran22/Zerodha1/internal/websocket"
	"github.com/DineshPrabhakaran22/Zerodha1/storage/postgres"
	"github.com/DineshPrabhakaran22/Zerodha1/storage/redis"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

type App struct {
	cfg             *config.Config
	log             *slog.Logger
	httpServer      *http.Server
	storage         *postgres.Storage
	authService     service.AuthService
	wsManager       *websocket.Manager
	redisClient     *goredis.Client
	redisSubscriber *redis.Subscriber
	kafkaProducer   *kafka.Producer

	ctx    context.Context
	cancel context.CancelFunc
}

func New(log *slog.Logger, cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	storage, err := postgres.New(cfg.Database)
	if err != nil {
		panic(fmt.Errorf("failed to init storage: %w", err))
	}

	a := &App{
		cfg:       cfg,
		log:       log,
		storage:   storage,
		wsManager: websocket.NewManager(log),
		ctx:       ctx,
		cancel:    cancel,
	}

	var publishers events.Fanout

	if cfg.Redis.Addr != "" {
		a.redisClient = redis.NewClient(cfg.Redis)
		a.redisSubscriber = redis.NewSubscriber(a.redisClient, log)
		publishers = append(publishers, redis.NewPublisher(a.redisClient, cfg.Redis.Channel))
		log.Info("ledger events go through redis", "addr", cfg.Redis.Addr, "channel", cfg.Redis.Channel)
	} else {
		publishers = append(publishers, a.wsManager)
		log.Info("redis not configured, ledger events stay in process")
	}

	if len(cfg.Kafka.Brokers) > 0 {
		a.kafkaProducer = kafka.NewProducer(cfg.Kafka, log)
		publishers = append(publishers, a.kafkaProducer)
		log.Info("ledger events are produced to kafka", "topic", cfg.Kafka.Topic)
	}

	ledgerService := service.NewLedgerService(storage.DB, publishers, log)
	a.authService = service.NewAuthService(storage.DB, cfg.Security)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	ginEngine := gin.New()
	httpHandler := httphandler.NewHandler(ledgerService, a.authService, a.wsManager, log, cfg.Security.CookieSecure)
	httpHandler.RegisterRoutes(ginEngine)

	a.httpServer = &http.Server{
		Addr:    net.JoinHostPort("", strconv.FormatUint(uint64(cfg.HTTP.Port), 10)),
		Handler: middleware.CORS(cfg.CORS.Origins)(ginEngine),
	}

	return a
}

func (a *App) Run() error {
	a.log.Info("starting application components...")

	go func() {
		a.log.Info("websocket manager started")
		a.wsManager.Run(a.ctx)
		a.log.Info("websocket manager stopped")
	}()

	if a.redisSubscriber != nil {
		if err := a.redisSubscriber.Subscribe(a.ctx, a.cfg.Redis.Channel); err != nil {
			return fmt.Errorf("app.Run: redis subscribe: %w", err)
		}
		go a.wsManager.ListenRedis(a.ctx, a.redisSubscriber)
	}

	go a.runSessionCleanup()

	return a.runHTTP()
}

func (a *App) Stop() {
	a.log.Info("stopping application components gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.HTTP.Timeout)
	defer shutdownCancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("failed to gracefully shutdown HTTP server", "error", err)
	} else {
		a.log.Info("HTTP server stopped")
	}

	a.cancel()

	if a.redisSubscriber != nil {
		a.redisSubscriber.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("failed to close redis client", "error", err)
		}
	}

	if a.kafkaProducer != nil {
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Warn("failed to flush kafka producer", "error", err)
		}
	}

	if err := a.storage.Stop(); err != nil {
		a.log.Error("failed to stop storage", "error", err)
	} else {
		a.log.Info("database connection closed")
	}
}

func (a *App) runHTTP() error {
	const op = "app.runHTTP"

	a.log.Info("HTTP server is running", "addr", a.httpServer.Addr)

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (a *App) runSessionCleanup() {
	ticker := time.NewTicker(a.cfg.Security.SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			n, err := a.authService.DeleteExpiredSessions(a.ctx)
			if err != nil {
				a.log.Error("failed to cleanup expired sessions", slog.Any("error", err))
				continue
			}
			a.log.Info("expired sessions cleanup finished", "deleted", n)
		}
	}
}
