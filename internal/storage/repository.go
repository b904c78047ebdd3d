package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/store"

	_ "modernc.org/sqlite"
)

// dateLayout is the fixed-width ISO form dates are stored in. Lexical
// order matches chronological order, which the list query relies on.
const dateLayout = "2006-01-02T15:04:05.000Z"

// SQLiteRepository implements store.Store and store.UserReader over a
// local SQLite database.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var (
	_ store.Store      = (*SQLiteRepository)(nil)
	_ store.UserReader = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Title:       e.Title,
		AmountCents: e.Amount.Cents,
		Date:        e.Date.UTC().Format(dateLayout),
		UserID:      e.UserID,
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	created, err := rowToExpense(row)
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", created.ID,
		"user_id", created.UserID,
		"amount_cents", created.Amount.Cents)

	return created, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := r.queries.ListExpensesByUser(ctx, userID, core.ListPageSize)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := rowToExpense(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, userID string, id int64) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return rowToExpense(row)
}

func (r *SQLiteRepository) TotalAmount(ctx context.Context, userID string) (core.Money, error) {
	cents, err := r.queries.TotalAmountByUser(ctx, userID)
	if err != nil {
		return core.Money{}, fmt.Errorf("total amount: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID string, id int64) (core.ExpenseSummary, error) {
	title, cents, err := r.queries.DeleteExpense(ctx, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseSummary{}, core.ErrNotFound
	}
	if err != nil {
		return core.ExpenseSummary{}, fmt.Errorf("delete expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "user_id", userID)

	return core.ExpenseSummary{Title: title, Amount: core.Money{Cents: cents}}, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	row, err := r.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, core.ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return store.User{ID: row.ID, Email: row.Email, PasswordHash: row.PasswordHash}, nil
}

// CreateUser registers an account. Used by the user bootstrap command
// and by tests.
func (r *SQLiteRepository) CreateUser(ctx context.Context, u store.User) error {
	if err := r.queries.CreateUser(ctx, u.ID, u.Email, u.PasswordHash); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func rowToExpense(row ExpenseRow) (core.Expense, error) {
	t, err := time.Parse(dateLayout, row.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", row.Date, err)
	}
	return core.Expense{
		ID:     row.ID,
		Title:  row.Title,
		Amount: core.Money{Cents: row.AmountCents},
		Date:   core.Date{Time: t},
		UserID: row.UserID,
	}, nil
}
