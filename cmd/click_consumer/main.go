package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appConfig "github.com/IgorGrieder/linkly-connector/internal/config"
	"github.com/IgorGrieder/linkly-connector/internal/events"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/db"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/logger"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/telemetry"
	"github.com/IgorGrieder/linkly-connector/internal/processing/clicks"
	mongoStorage "github.com/IgorGrieder/linkly-connector/internal/storage/mongo"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type config struct {
	appEnv        string
	appName       string
	appVersion    string
	logLevel      string
	otelEnabled   bool
	otelEndpoint  string
	mongoURI      string
	mongoDatabase string

	kafkaBrokers  []string
	kafkaTopic    string
	kafkaGroupID  string
	kafkaClientID string

	fetchMaxWait   time.Duration
	operationTTL   time.Duration
	consumeBackoff time.Duration
}

// clickRecorder is the part of clicks.Service the consumer drives.
type clickRecorder interface {
	Record(ctx context.Context, ev events.ClickReceived) error
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.appEnv, cfg.logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serviceName := fmt.Sprintf("%s-click-consumer", cfg.appName)
	var shutdownTracer func(context.Context) error
	if cfg.otelEnabled {
		shutdownTracer, err = telemetry.InitTracer(ctx, cfg.otelEndpoint, serviceName, cfg.appVersion)
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", zap.Error(err))
			shutdownTracer = nil
		} else {
			logger.Info("OpenTelemetry tracer initialized",
				zap.String("endpoint", cfg.otelEndpoint),
				zap.String("service", serviceName),
			)
		}
	}
	defer func() {
		if shutdownTracer == nil {
			return
		}
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Warn("failed to shutdown tracer", zap.Error(err))
		}
	}()

	mongoConn, err := db.ConnectMongo(ctx, cfg.mongoURI, cfg.mongoDatabase, 0)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = mongoConn.Disconnect(context.Background()) }()

	clickRepo, err := mongoStorage.NewClickRepository(ctx, mongoConn)
	if err != nil {
		logger.Fatal("failed to initialize click repository", zap.Error(err))
	}
	statsRepo, err := mongoStorage.NewClickStatsRepository(ctx, mongoConn)
	if err != nil {
		logger.Fatal("failed to initialize stats repository", zap.Error(err))
	}
	clickSvc := clicks.NewService(clickRepo, statsRepo)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.kafkaBrokers,
		Topic:       cfg.kafkaTopic,
		GroupID:     cfg.kafkaGroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     cfg.fetchMaxWait,
		StartOffset: kafka.FirstOffset,
		Dialer: &kafka.Dialer{
			ClientID:  cfg.kafkaClientID,
			Timeout:   10 * time.Second,
			DualStack: true,
		},
	})
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Warn("failed to close kafka reader", zap.Error(err))
		}
	}()

	logger.Info("click consumer started",
		zap.Strings("kafka_brokers", cfg.kafkaBrokers),
		zap.String("kafka_topic", cfg.kafkaTopic),
		zap.String("kafka_group", cfg.kafkaGroupID),
		zap.String("kafka_client_id", cfg.kafkaClientID),
	)

	tracer := otel.Tracer("click-consumer")
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("click consumer stopping")
				return
			}
			logger.Error("failed to fetch kafka message", zap.Error(err))
			time.Sleep(cfg.consumeBackoff)
			continue
		}

		consumeCtx := events.ContextFromKafkaHeaders(ctx, msg.Headers)
		consumeCtx, span := tracer.Start(
			consumeCtx,
			"kafka.consume.click_received",
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("messaging.system", "kafka"),
				attribute.String("messaging.destination.name", msg.Topic),
				attribute.String("messaging.operation", "process"),
				attribute.Int("messaging.kafka.partition", msg.Partition),
				attribute.Int64("messaging.kafka.offset", msg.Offset),
			),
		)

		if err := processUntilDone(consumeCtx, msg, clickSvc, cfg.operationTTL, cfg.consumeBackoff); err != nil {
			span.SetStatus(codes.Error, "process click event interrupted")
			span.End()
			logger.Info("click consumer stopping", zap.Int64("uncommitted_offset", msg.Offset))
			return
		}

		if err := reader.CommitMessages(consumeCtx, msg); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "commit kafka offset failed")
			logger.Error("failed to commit kafka offset",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			span.End()
			time.Sleep(cfg.consumeBackoff)
			continue
		}

		span.End()
	}
}

// processUntilDone retries msg until it is processed or ctx ends. Moving on
// to the next message would let its commit skip this offset.
func processUntilDone(ctx context.Context, msg kafka.Message, recorder clickRecorder, operationTTL, backoff time.Duration) error {
	for attempt := 1; ; attempt++ {
		err := processMessage(ctx, msg, recorder, operationTTL)
		if err == nil {
			return nil
		}
		trace.SpanFromContext(ctx).RecordError(err)
		logger.Error("failed to process click event, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// processMessage records one click. A nil return commits the offset, so
// payloads that can never be recorded are logged and skipped.
func processMessage(ctx context.Context, msg kafka.Message, recorder clickRecorder, operationTTL time.Duration) error {
	var event events.ClickReceived
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Warn("invalid click event payload, skipping",
			zap.Error(err),
			zap.ByteString("payload", msg.Value),
		)
		return nil
	}
	if strings.TrimSpace(event.EventID) == "" {
		logger.Warn("click event missing eventId, skipping", zap.String("node", event.NodeID))
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTTL)
	defer cancel()

	err := recorder.Record(opCtx, event)
	if errors.Is(err, clicks.ErrMissingLinkID) {
		logger.Info("click event has no link id, not counted",
			zap.String("event_id", event.EventID),
			zap.String("node", event.NodeID),
		)
		return nil
	}
	return err
}

func loadConfig() (config, error) {
	cfg := config{
		appEnv:         appConfig.GetEnv("APP_ENV", "production"),
		appName:        appConfig.GetEnv("APP_NAME", "linkly-connector"),
		appVersion:     appConfig.GetEnv("APP_VERSION", "0.1.0"),
		logLevel:       appConfig.GetEnv("LOG_LEVEL", "info"),
		otelEnabled:    appConfig.GetEnvBool("OTEL_ENABLED", false),
		otelEndpoint:   appConfig.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		mongoURI:       appConfig.GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		mongoDatabase:  appConfig.GetEnv("MONGODB_DATABASE", "linkly"),
		kafkaBrokers:   appConfig.SplitCSV(appConfig.GetEnv("KAFKA_BROKERS", "localhost:9092")),
		kafkaTopic:     appConfig.GetEnv("KAFKA_CLICK_TOPIC", "linkly.clicks"),
		kafkaGroupID:   appConfig.GetEnv("KAFKA_CONSUMER_GROUP", "linkly-click-consumer"),
		kafkaClientID:  appConfig.GetEnv("KAFKA_CLIENT_ID", appConfig.DefaultWorkerID("click-consumer")),
		fetchMaxWait:   appConfig.GetEnvDuration("KAFKA_CONSUMER_MAX_WAIT", 500*time.Millisecond),
		operationTTL:   appConfig.GetEnvDuration("KAFKA_CONSUMER_OPERATION_TIMEOUT", 5*time.Second),
		consumeBackoff: appConfig.GetEnvDuration("KAFKA_CONSUMER_BACKOFF", 500*time.Millisecond),
	}

	if len(cfg.kafkaBrokers) == 0 {
		return config{}, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if strings.TrimSpace(cfg.kafkaTopic) == "" {
		return config{}, fmt.Errorf("KAFKA_CLICK_TOPIC must not be empty")
	}
	if strings.TrimSpace(cfg.kafkaGroupID) == "" {
		return config{}, fmt.Errorf("KAFKA_CONSUMER_GROUP must not be empty")
	}
	if cfg.operationTTL <= 0 {
		return config{}, fmt.Errorf("KAFKA_CONSUMER_OPERATION_TIMEOUT must be > 0")
	}

	return cfg, nil
}
