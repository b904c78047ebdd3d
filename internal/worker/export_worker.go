// Package worker consumes expense events and exports them to the
// configured spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/sheets"
)

// ExpenseFetcher reads a single expense by owner and id.
type ExpenseFetcher interface {
	GetExpense(ctx context.Context, userID string, id int64) (core.Expense, error)
}

// ExportWorker appends created expenses to the export sheet. Deleted
// expenses only log; the sheet is an append-only journal.
type ExportWorker struct {
	fetcher  ExpenseFetcher
	appender sheets.ExpenseAppender
	logger   *log.Logger
}

func NewExportWorker(fetcher ExpenseFetcher, appender sheets.ExpenseAppender, logger *log.Logger) *ExportWorker {
	return &ExportWorker{
		fetcher:  fetcher,
		appender: appender,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleEvent processes a single expense event. Returning an error
// makes the consumer nack and requeue the delivery.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	switch msg.Type {
	case amqp.EventExpenseCreated:
		return w.exportExpense(ctx, msg)
	case amqp.EventExpenseDeleted:
		w.logger.InfoContext(ctx, "Expense deleted, journal row kept",
			log.FieldExpenseID, msg.ID,
			log.FieldUserID, msg.UserID)
		return nil
	default:
		return fmt.Errorf("unknown event type %q", msg.Type)
	}
}

func (w *ExportWorker) exportExpense(ctx context.Context, msg *amqp.ExpenseEventMessage) error {
	expense, err := w.fetcher.GetExpense(ctx, msg.UserID, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		// Deleted before the event was consumed. Nothing to export.
		w.logger.WarnContext(ctx, "Expense gone before export",
			log.FieldExpenseID, msg.ID,
			log.FieldUserID, msg.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch expense %d: %w", msg.ID, err)
	}

	if err := w.appender.Append(ctx, expense); err != nil {
		return fmt.Errorf("append expense %d: %w", msg.ID, err)
	}

	w.logger.InfoContext(ctx, "Exported expense",
		log.FieldOperation, log.OpExport,
		log.FieldExpenseID, expense.ID,
		log.FieldUserID, expense.UserID)
	return nil
}
