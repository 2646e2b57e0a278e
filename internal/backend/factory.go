package backend

import (
	"context"
	"fmt"
	"log/slog"

	"daftar/internal/amqp"
	"daftar/internal/backend/supabase"
	"daftar/internal/services"
	"daftar/internal/storage"
	"daftar/internal/store"
)

type Factory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

func (f *Factory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SupabaseBackend:
		return f.createSupabaseBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *Factory) createSQLiteBackend(config Config) (*Result, error) {
	sqliteRepo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional: without it, records stay local until the worker's
	// pending sweep picks them up.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	recordService := services.NewRecordService(sqliteRepo, amqpClient)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &Result{
		Backend: recordService,
		Cleanup: recordService.Close,
	}, nil
}

func (f *Factory) createSupabaseBackend(config Config) (*Result, error) {
	cli, err := supabase.NewClient(config.SupabaseURL, config.SupabaseAnonKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
	}

	f.logger.Info("Initialized Supabase backend")

	return &Result{
		Backend: cli,
		Cleanup: nil,
	}, nil
}

func (f *Factory) createMemoryBackend() (*Result, error) {
	f.logger.Info("Initialized memory backend")

	return &Result{
		Backend: store.New(),
		Cleanup: nil,
	}, nil
}
