// Package worker mirrors locally-saved records to the remote backend. It
// consumes sync messages from AMQP and runs a periodic sweep as a backup
// in case messages are lost.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"daftar/internal/amqp"
	"daftar/internal/core"
	"daftar/internal/log"
	"daftar/internal/storage"
)

// RemoteWriter pushes records to the hosted backend.
type RemoteWriter interface {
	UpsertTransaction(ctx context.Context, t core.Transaction) error
	UpsertCheck(ctx context.Context, c core.Check) error
	UpsertProduct(ctx context.Context, p core.Product) error
}

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	remote    RemoteWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, remote RemoteWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		remote:    remote,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.RecordSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"entity", msg.Entity,
		"id", msg.ID,
		"version", msg.Version)

	return w.syncRecord(ctx, msg.Entity, msg.ID)
}

// ProcessPending pushes any rows that still carry a pending sync status.
// Backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending records", "count", len(pending))

	for _, rec := range pending {
		if err := w.syncRecord(ctx, rec.Entity, rec.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync record",
				"entity", rec.Entity, "id", rec.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog at worker startup, using a
// larger batch than the periodic sweep.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending records for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending records found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending records on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, rec := range pending {
		if err := w.syncRecord(ctx, rec.Entity, rec.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync record during startup",
				"entity", rec.Entity, "id", rec.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncRecord(ctx context.Context, entity string, id int64) error {
	var err error
	switch entity {
	case "transaction":
		var t core.Transaction
		if t, err = w.storage.GetTransaction(ctx, id); err == nil {
			err = w.remote.UpsertTransaction(ctx, t)
		}
	case "check":
		var c core.Check
		if c, err = w.storage.GetCheck(ctx, id); err == nil {
			err = w.remote.UpsertCheck(ctx, c)
		}
	case "product":
		var p core.Product
		if p, err = w.storage.GetProduct(ctx, id); err == nil {
			err = w.remote.UpsertProduct(ctx, p)
		}
	default:
		return fmt.Errorf("unsupported sync entity: %s", entity)
	}

	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, entity, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				log.NewFields().WithRecord(entity, id).WithError(markErr).ToSlice()...)
		}
		return fmt.Errorf("push %s %d: %w", entity, id, err)
	}

	if err := w.storage.MarkSynced(ctx, entity, id); err != nil {
		// The push itself worked; the row will be retried harmlessly.
		slog.ErrorContext(ctx, "Failed to mark as synced",
			log.NewFields().WithRecord(entity, id).WithError(err).ToSlice()...)
	}

	slog.InfoContext(ctx, "Successfully synced record", log.NewFields().WithRecord(entity, id).ToSlice()...)
	return nil
}
