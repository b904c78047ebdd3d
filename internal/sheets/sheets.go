// Package sheets defines the export port the worker writes through.
package sheets

import (
	"context"

	"spendlog/internal/core"
)

// ExpenseAppender appends an expense row to the export destination.
type ExpenseAppender interface {
	Append(ctx context.Context, e core.Expense) error
}
