// Package store defines the ports the HTTP layer talks to. Every
// operation takes the owning user explicitly; implementations must
// scope their queries by user, not filter afterwards.
package store

import (
	"context"

	"spendlog/internal/core"
)

type (
	// ExpenseCreator persists a validated expense and returns the
	// stored row with its server-assigned id.
	ExpenseCreator interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	}

	// ExpenseLister returns the user's expenses ordered by date
	// descending, at most core.ListPageSize rows.
	ExpenseLister interface {
		ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	}

	// ExpenseGetter fetches one row matching both id and userID.
	// Returns core.ErrNotFound when absent or owned by someone else.
	ExpenseGetter interface {
		GetExpense(ctx context.Context, userID string, id int64) (core.Expense, error)
	}

	// TotalReader sums the user's amounts; no rows sum to zero.
	TotalReader interface {
		TotalAmount(ctx context.Context, userID string) (core.Money, error)
	}

	// ExpenseDeleter removes one row matching both id and userID and
	// returns its projection, or core.ErrNotFound.
	ExpenseDeleter interface {
		DeleteExpense(ctx context.Context, userID string, id int64) (core.ExpenseSummary, error)
	}

	// Store is the full set of expense operations.
	Store interface {
		ExpenseCreator
		ExpenseLister
		ExpenseGetter
		TotalReader
		ExpenseDeleter
	}

	// UserReader resolves login credentials. Implemented by the sqlite
	// repository; the memory store seeds a fixed dev user.
	UserReader interface {
		GetUserByEmail(ctx context.Context, email string) (User, error)
	}
)

// User is an account row; PasswordHash is a bcrypt hash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}
