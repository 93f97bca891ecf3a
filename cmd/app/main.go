package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"orderflow/cmd"
	"orderflow/internal/adapters/out/documents"
	"orderflow/internal/adapters/out/email"
	kafkaout "orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/objectstore"
	"orderflow/internal/adapters/out/payments"
	"orderflow/internal/adapters/out/postgres/auditrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/outboxrepo"
	"orderflow/internal/adapters/out/postgres/returnrepo"
	"orderflow/internal/adapters/out/postgres/taskrepo"
	"orderflow/internal/core/domain/model/outbox"
	"orderflow/internal/jobs"
	"orderflow/internal/tasks"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs(logger)

	db, err := openDatabase(configs)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if err := migrateDatabase(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	root := cmd.NewCompositionRoot(configs, db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	brokers := strings.Split(configs.KafkaHost, ",")

	writer := kafkaout.NewWriter(brokers)
	defer writer.Close()
	publisher, err := kafkaout.NewPublisher(writer)
	if err != nil {
		logger.Error("failed to create outbox publisher", "error", err)
		os.Exit(1)
	}

	relayJob, err := root.CreateOutboxRelayJob(publisher)
	if err != nil {
		logger.Error("failed to create outbox relay job", "error", err)
		os.Exit(1)
	}
	jobManager := jobs.NewJobManager(relayJob)
	if err := jobManager.StartAll(); err != nil {
		logger.Error("failed to start jobs", "error", err)
		os.Exit(1)
	}

	reader := kafkaout.NewReader(brokers, configs.KafkaConsumerGroup, outbox.TopicTasks)
	consumer, err := kafkaout.NewTriggerConsumer(reader, root.UnitOfWorkFactory(), logger)
	if err != nil {
		logger.Error("failed to create trigger consumer", "error", err)
		os.Exit(1)
	}
	consumer.Start(ctx)

	pool, err := createTaskPool(ctx, configs, root, logger)
	if err != nil {
		logger.Error("failed to create task pool", "error", err)
		os.Exit(1)
	}
	pool.Start(ctx)

	e := root.CreateHTTPServer().NewEcho()
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down web server", "error", err)
	}
	pool.Stop(shutdownCtx)
	consumer.Stop()
	jobManager.StopAll()
}

func createTaskPool(ctx context.Context, configs cmd.Config, root cmd.CompositionRoot, logger *slog.Logger) (*tasks.Pool, error) {
	minioClient, err := objectstore.NewClient(
		configs.MinioEndpoint, configs.MinioAccessKey, configs.MinioSecretKey, configs.MinioUseSSL)
	if err != nil {
		return nil, err
	}
	if err := objectstore.EnsureBucket(ctx, minioClient, configs.MinioInvoiceBucket); err != nil {
		return nil, err
	}
	archive, err := objectstore.NewInvoiceArchive(minioClient, configs.MinioInvoiceBucket)
	if err != nil {
		return nil, err
	}

	notifier, err := email.NewSMTPNotifier(configs.SMTPAddr, configs.SMTPFrom, nil)
	if err != nil {
		return nil, err
	}
	invoiceHandler, err := tasks.NewInvoiceHandler(documents.NewTemplateRenderer(), archive, notifier)
	if err != nil {
		return nil, err
	}

	gateway, err := payments.NewHTTPGateway(configs.PaymentGatewayURL, configs.PaymentGatewayAPIKey, nil)
	if err != nil {
		return nil, err
	}
	refundHandler, err := tasks.NewRefundHandler(gateway)
	if err != nil {
		return nil, err
	}

	executor, err := root.CreateTaskExecutor(invoiceHandler, refundHandler)
	if err != nil {
		return nil, err
	}
	return tasks.NewPool(root.UnitOfWorkFactory(), executor, logger,
		tasks.WithConcurrency(configs.TaskWorkers),
		tasks.WithBatchSize(configs.TaskBatchSize))
}

func openDatabase(configs cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		configs.DBHost, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBPort, configs.DBSslMode)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func migrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&returnrepo.ReturnDTO{},
		&auditrepo.RecordDTO{},
		&taskrepo.InstanceDTO{},
		&taskrepo.MarkerDTO{},
		&outboxrepo.EventDTO{},
	)
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn("no .env file loaded, relying on environment", "error", err)
	}

	return cmd.Config{
		HTTPPort: envOrDefault("HTTP_PORT", "8080"),

		DBHost:     envOrDefault("DB_HOST", "localhost"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		KafkaHost:          envOrDefault("KAFKA_HOST", "localhost:9092"),
		KafkaConsumerGroup: envOrDefault("KAFKA_CONSUMER_GROUP", "orderflow-tasks"),

		MinioEndpoint:      envOrDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:     os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:        envBool("MINIO_USE_SSL", false),
		MinioInvoiceBucket: envOrDefault("MINIO_INVOICE_BUCKET", "invoices"),

		SMTPAddr: envOrDefault("SMTP_ADDR", "localhost:25"),
		SMTPFrom: envOrDefault("SMTP_FROM", "billing@orderflow.local"),

		PaymentGatewayURL:    envOrDefault("PAYMENT_GATEWAY_URL", "http://localhost:8090"),
		PaymentGatewayAPIKey: os.Getenv("PAYMENT_GATEWAY_API_KEY"),

		TaskWorkers:   envInt("TASK_WORKERS", 2),
		TaskBatchSize: envInt("TASK_BATCH_SIZE", 10),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
