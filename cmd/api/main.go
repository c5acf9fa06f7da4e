package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/bootstrap"
	"github.com/IgorGrieder/linkly-connector/internal/config"
	"github.com/IgorGrieder/linkly-connector/internal/events"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/db"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/logger"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/telemetry"
	"github.com/IgorGrieder/linkly-connector/internal/processing/clicks"
	"github.com/IgorGrieder/linkly-connector/internal/processing/links"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	mongoStorage "github.com/IgorGrieder/linkly-connector/internal/storage/mongo"
	redisStorage "github.com/IgorGrieder/linkly-connector/internal/storage/redis"
	httpTransport "github.com/IgorGrieder/linkly-connector/internal/transport/http"
	"github.com/IgorGrieder/linkly-connector/internal/transport/http/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.App.Env, cfg.App.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("env", cfg.App.Env),
	)

	ctx := context.Background()

	var shutdownTracer func(context.Context) error
	if cfg.OTel.Enabled {
		shutdownTracer, err = telemetry.InitTracer(ctx, cfg.OTel.Endpoint, cfg.App.Name, cfg.App.Version)
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			logger.Info("OpenTelemetry tracer initialized", zap.String("endpoint", cfg.OTel.Endpoint))
		}
	}

	linklyClient, err := bootstrap.LinklyClient(cfg.Linkly, bootstrap.Credential(cfg.Linkly))
	if err != nil {
		logger.Fatal("Invalid Linkly credential", zap.Error(err))
	}
	linkSvc := links.NewService(linklyClient)

	state, err := bootstrap.OpenState(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open node state backend", zap.Error(err))
	}
	defer func() { _ = state.Close(context.Background()) }()

	healthChecks := map[string]httpTransport.Pinger{}
	if state.Ping != nil {
		healthChecks["state_"+state.Backend] = state.Ping
	}

	nodes, err := bootstrap.Nodes(cfg)
	if err != nil {
		logger.Fatal("Failed to load trigger nodes", zap.Error(err))
	}

	var sink trigger.ClickSink
	var kafkaPublisher *events.KafkaPublisher
	if cfg.Kafka.Enabled {
		writer := events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.ClickTopic)
		kafkaPublisher = events.NewKafkaPublisher(writer, cfg.Kafka.ClickTopic, cfg.Trigger.EmitTimeout)
		sink = kafkaPublisher
	} else {
		sink = events.NewLogPublisher(logger.Named("clicks"))
	}

	hooks := trigger.NewSubscriptionManager(linklyClient, state.Store, linklyClient.WorkspaceID(), logger.Named("trigger"))
	triggerSvc := trigger.NewService(nodes, hooks, state.Store, sink)

	var limiter middleware.WindowCounter
	if cfg.Redis.Addr != "" {
		redisClient, err := bootstrap.Redis(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		limiter = redisStorage.NewFixedWindowLimiter(redisClient, "rl:webhook", cfg.Security.WebhookRateWindow)
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var clickSvc *clicks.Service
	if cfg.Stats.Enabled {
		mongoConn, err := db.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database, 0)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() { _ = mongoConn.Disconnect(context.Background()) }()

		clickRepo, err := mongoStorage.NewClickRepository(ctx, mongoConn)
		if err != nil {
			logger.Fatal("Failed to initialize click repository", zap.Error(err))
		}
		statsRepo, err := mongoStorage.NewClickStatsRepository(ctx, mongoConn)
		if err != nil {
			logger.Fatal("Failed to initialize click stats repository", zap.Error(err))
		}
		clickSvc = clicks.NewService(clickRepo, statsRepo)
		healthChecks["mongodb"] = mongoConn.Ping
	}

	router := httpTransport.NewRouter(cfg, httpTransport.Dependencies{
		Links:        linkSvc,
		Triggers:     triggerSvc,
		Clicks:       clickSvc,
		Credentials:  bootstrap.CredentialChecker(cfg.Linkly, linklyClient),
		Limiter:      limiter,
		HealthChecks: healthChecks,
		Log:          logger.Named("http"),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Linkly.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
		if err := router.Drain(shutdownCtx); err != nil {
			logger.Warn("Pending click emissions abandoned", zap.Error(err))
		}
		if kafkaPublisher != nil {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error("Kafka writer close error", zap.Error(err))
			}
		}
		if shutdownTracer != nil {
			_ = shutdownTracer(shutdownCtx)
		}
	}()

	logger.Info("Server starting",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.App.Env),
		zap.String("address", fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)),
		zap.Int("trigger_nodes", len(nodes)),
		zap.String("state_backend", state.Backend),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("Server error", zap.Error(err))
	}

	<-stopped
	logger.Info("Server stopped gracefully")
}
