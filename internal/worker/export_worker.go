// Package worker exports ledger mutations to an external sink. It consumes
// the events published by the ledger service and appends the full records to
// the configured exporter.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/sheets"
)

// ExpenseFetcher is the slice of the storage layer the worker needs: events
// carry identifiers only, the worker loads the full record itself.
type ExpenseFetcher interface {
	FindOneByIDAndOwner(ctx context.Context, id, ownerID int64) (core.Expense, error)
}

type ExportWorker struct {
	store    ExpenseFetcher
	exporter sheets.Exporter
}

func NewExportWorker(store ExpenseFetcher, exporter sheets.Exporter) *ExportWorker {
	return &ExportWorker{store: store, exporter: exporter}
}

// HandleEvent processes a single ledger event. Returning an error requeues
// the delivery, so events whose records no longer exist are dropped instead.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"kind", msg.Kind,
		"expense_id", msg.ExpenseID,
		"owner_id", msg.OwnerID)

	switch msg.Kind {
	case amqp.EventExpenseCreated, amqp.EventExpenseUpdated:
		return w.exportExpense(ctx, msg)
	case amqp.EventExpenseDeleted:
		// The sink is append-only; deletions keep the exported history.
		slog.InfoContext(ctx, "Skipping export for deleted expense",
			"expense_id", msg.ExpenseID,
			"owner_id", msg.OwnerID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event kind, dropping", "kind", msg.Kind)
		return nil
	}
}

func (w *ExportWorker) exportExpense(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	expense, err := w.store.FindOneByIDAndOwner(ctx, msg.ExpenseID, msg.OwnerID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Deleted between publish and consume. Nothing to export.
			slog.WarnContext(ctx, "Expense no longer exists, dropping event",
				"kind", msg.Kind,
				"expense_id", msg.ExpenseID)
			return nil
		}
		return fmt.Errorf("load expense %d: %w", msg.ExpenseID, err)
	}

	ref, err := w.exporter.Append(ctx, expense)
	if err != nil {
		return fmt.Errorf("append to exporter: %w", err)
	}

	slog.InfoContext(ctx, "Expense exported",
		"expense_id", expense.ID,
		"owner_id", expense.OwnerID,
		"amount_cents", expense.Amount.Cents,
		"ref", ref)

	return nil
}
