// Package worker consumes profile snapshot events: it stores them in SQLite,
// exports them to a spreadsheet and prunes old rows on a schedule.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron"

	"xpdash/internal/amqp"
	"xpdash/internal/core"
	"xpdash/internal/log"
	"xpdash/internal/sheets"
)

// SnapshotStore is the persistence the worker needs.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, s core.Snapshot) (int64, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SnapshotWorker struct {
	store     SnapshotStore
	exporter  sheets.SnapshotExporter
	retention time.Duration
	now       func() time.Time
}

// NewSnapshotWorker builds a worker. exporter may be nil to skip export.
func NewSnapshotWorker(store SnapshotStore, exporter sheets.SnapshotExporter, retention time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		store:     store,
		exporter:  exporter,
		retention: retention,
		now:       time.Now,
	}
}

// Handle stores the snapshot and then exports it. A storage failure is
// returned so the message is requeued; an export failure is only logged
// because the snapshot is already safe locally and a redelivery would
// store it twice.
func (w *SnapshotWorker) Handle(ctx context.Context, msg *amqp.SnapshotMessage) error {
	s := msg.Snapshot

	events := log.NewStructuredLogger(log.FromContext(ctx))

	id, err := w.store.SaveSnapshot(ctx, s)
	if err != nil {
		events.LogError(ctx, "Failed to store snapshot", err, log.ComponentStorage, log.OpStore,
			log.NewFields().WithErrorType(log.ErrorTypeDatabase).With(log.FieldLogin, s.Login))
		return fmt.Errorf("save snapshot: %w", err)
	}

	if w.exporter == nil {
		return nil
	}

	ref, err := w.exporter.Export(ctx, s)
	if err != nil {
		events.LogError(ctx, "Failed to export snapshot", err, log.ComponentSheets, log.OpExport,
			log.NewFields().WithErrorType(log.ErrorTypeExport).With(log.FieldLogin, s.Login).With("id", id))
		return nil
	}

	log.FromContext(ctx).WithComponent(log.ComponentSheets).InfoContext(ctx, "Snapshot exported",
		"id", id,
		log.FieldLogin, s.Login,
		log.FieldOperation, log.OpExport,
		"ref", ref)
	return nil
}

// Prune deletes snapshots older than the retention window.
func (w *SnapshotWorker) Prune(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.retention)
	n, err := w.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	if n > 0 {
		log.FromContext(ctx).WithComponent(log.ComponentStorage).InfoContext(ctx, "Pruned old snapshots",
			log.FieldOperation, log.OpPrune,
			"removed", n,
			"cutoff", cutoff)
	}
	return n, nil
}

// SchedulePrune runs Prune on the cron schedule (for example "@hourly" or
// "0 30 3 * * *") until the returned cron is stopped.
func (w *SnapshotWorker) SchedulePrune(ctx context.Context, schedule string) (*cron.Cron, error) {
	c := cron.New()
	err := c.AddFunc(schedule, func() {
		if _, err := w.Prune(ctx); err != nil {
			log.FromContext(ctx).WithComponent(log.ComponentWorker).ErrorContext(ctx, "Scheduled prune failed",
				log.FieldOperation, log.OpPrune,
				log.FieldError, err.Error())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
