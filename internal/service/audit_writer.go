package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"giftledger/internal/metrics"
	"giftledger/internal/model"
	"giftledger/internal/repository"
)

// auditEntry carries exactly one of the three append-only record kinds.
type auditEntry struct {
	usage    *model.UsageRecord
	status   *model.StatusChangeLog
	recharge *model.RechargeRecord
}

// AuditWriter appends audit records after a successful balance commit,
// without blocking the caller's response. Usage records are batched; status
// and recharge entries are written as they arrive. If an append fails the
// balance mutation is not rolled back, since the money already moved; the
// failure is logged and counted for reconciliation.
type AuditWriter struct {
	repo   repository.AuditRepository
	logger *zerolog.Logger

	entries   chan auditEntry
	done      chan struct{}
	closeOnce sync.Once
}

// NewAuditWriter creates an audit writer and starts its background worker.
func NewAuditWriter(repo repository.AuditRepository, logger *zerolog.Logger) *AuditWriter {
	w := &AuditWriter{
		repo:    repo,
		logger:  logger,
		entries: make(chan auditEntry, 100),
		done:    make(chan struct{}),
	}
	go w.worker(context.Background())
	return w
}

// worker drains the entry channel, batching usage records and flushing them
// on size or on a one second tick.
func (w *AuditWriter) worker(ctx context.Context) {
	defer close(w.done)

	batch := make([]model.UsageRecord, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := w.repo.AppendUsageBatch(ctx, batch); err != nil {
			w.fail("usage", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-w.entries:
			if !ok {
				flush()
				return
			}
			switch {
			case entry.usage != nil:
				batch = append(batch, *entry.usage)
				if len(batch) >= 10 {
					flush()
				}
			case entry.status != nil:
				if err := w.repo.AppendStatusLog(ctx, entry.status); err != nil {
					w.fail("status", err)
				}
			case entry.recharge != nil:
				if err := w.repo.AppendRecharge(ctx, entry.recharge); err != nil {
					w.fail("recharge", err)
				}
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}

// RecordUsage enqueues a usage record. Falls back to a synchronous append
// when the channel is full.
func (w *AuditWriter) RecordUsage(ctx context.Context, record model.UsageRecord) {
	select {
	case w.entries <- auditEntry{usage: &record}:
	default:
		if err := w.repo.AppendUsage(ctx, &record); err != nil {
			w.fail("usage", err)
		}
	}
}

// RecordStatusChange enqueues a status change entry.
func (w *AuditWriter) RecordStatusChange(ctx context.Context, log model.StatusChangeLog) {
	select {
	case w.entries <- auditEntry{status: &log}:
	default:
		if err := w.repo.AppendStatusLog(ctx, &log); err != nil {
			w.fail("status", err)
		}
	}
}

// RecordRecharge enqueues a recharge history entry.
func (w *AuditWriter) RecordRecharge(ctx context.Context, record model.RechargeRecord) {
	select {
	case w.entries <- auditEntry{recharge: &record}:
	default:
		if err := w.repo.AppendRecharge(ctx, &record); err != nil {
			w.fail("recharge", err)
		}
	}
}

// Close flushes pending entries and stops the worker.
func (w *AuditWriter) Close() {
	w.closeOnce.Do(func() {
		close(w.entries)
		<-w.done
	})
}

func (w *AuditWriter) fail(kind string, err error) {
	metrics.AuditAppendFailures.WithLabelValues(kind).Inc()
	if w.logger != nil {
		w.logger.Error().Err(err).Str("kind", kind).Msg("audit append failed after balance commit")
	}
}
