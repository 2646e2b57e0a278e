// Package services orchestrates record writes across the local database
// and the async sync pipeline. Writes land in SQLite first; the remote
// push happens in the worker.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"daftar/internal/amqp"
	"daftar/internal/core"
	"daftar/internal/storage"
)

// RecordService saves records locally and publishes sync messages so the
// worker can mirror them to the remote backend. A nil AMQP client disables
// sync publishing; the periodic sweep still picks the rows up.
type RecordService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewRecordService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *RecordService {
	return &RecordService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

func (s *RecordService) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	saved, err := s.storage.AddTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publishSync(ctx, "transaction", saved.ID, 1)
	return saved, nil
}

func (s *RecordService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx)
}

func (s *RecordService) AddCheck(ctx context.Context, c core.Check) (core.Check, error) {
	saved, err := s.storage.AddCheck(ctx, c)
	if err != nil {
		return core.Check{}, err
	}
	s.publishSync(ctx, "check", saved.ID, 1)
	return saved, nil
}

func (s *RecordService) ListChecks(ctx context.Context) ([]core.Check, error) {
	return s.storage.ListChecks(ctx)
}

func (s *RecordService) UpdateCheckStatus(ctx context.Context, id int64, status core.CheckStatus) (core.Check, error) {
	updated, err := s.storage.UpdateCheckStatus(ctx, id, status)
	if err != nil {
		return core.Check{}, err
	}
	s.publishSync(ctx, "check", updated.ID, 2)
	return updated, nil
}

func (s *RecordService) AddProduct(ctx context.Context, p core.Product) (core.Product, error) {
	saved, err := s.storage.AddProduct(ctx, p)
	if err != nil {
		return core.Product{}, err
	}
	s.publishSync(ctx, "product", saved.ID, 1)
	return saved, nil
}

func (s *RecordService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.storage.ListProducts(ctx)
}

func (s *RecordService) AdjustStock(ctx context.Context, id int64, delta int64) (core.Product, error) {
	updated, err := s.storage.AdjustStock(ctx, id, delta)
	if err != nil {
		return core.Product{}, err
	}
	s.publishSync(ctx, "product", updated.ID, 2)
	return updated, nil
}

func (s *RecordService) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	return s.storage.ListInvoices(ctx)
}

// publishSync never fails the request; the record is already saved locally
// and the pending sweep covers lost messages.
func (s *RecordService) publishSync(ctx context.Context, entity string, id, version int64) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message",
			"entity", entity, "id", id)
		return
	}

	if err := s.amqpClient.PublishRecordSync(ctx, entity, id, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"entity", entity, "id", id, "error", err)
	}
}

// Close releases the storage and AMQP connections.
func (s *RecordService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}

	return nil
}
