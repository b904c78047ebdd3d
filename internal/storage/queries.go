package storage

import (
	"context"
	"database/sql"
)

// Queries wraps the raw SQL statements against the expense schema.
type Queries struct {
	db dbtx
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so the same queries run
// inside and outside transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db dbtx) *Queries {
	return &Queries{db: db}
}

// WithTx returns the queries bound to a transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// ExpenseRow mirrors the expenses table.
type ExpenseRow struct {
	ID          int64
	Title       string
	AmountCents int64
	Date        string
	UserID      string
}

// UserRow mirrors the users table.
type UserRow struct {
	ID           string
	Email        string
	PasswordHash string
}

type CreateExpenseParams struct {
	Title       string
	AmountCents int64
	Date        string
	UserID      string
}

const createExpense = `
INSERT INTO expenses (title, amount_cents, date, user_id)
VALUES (?, ?, ?, ?)
RETURNING id, title, amount_cents, date, user_id
`

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (ExpenseRow, error) {
	var row ExpenseRow
	err := q.db.QueryRowContext(ctx, createExpense,
		arg.Title, arg.AmountCents, arg.Date, arg.UserID,
	).Scan(&row.ID, &row.Title, &row.AmountCents, &row.Date, &row.UserID)
	return row, err
}

const listExpensesByUser = `
SELECT id, title, amount_cents, date, user_id
FROM expenses
WHERE user_id = ?
ORDER BY date DESC, id DESC
LIMIT ?
`

func (q *Queries) ListExpensesByUser(ctx context.Context, userID string, limit int64) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpensesByUser, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseRow
	for rows.Next() {
		var row ExpenseRow
		if err := rows.Scan(&row.ID, &row.Title, &row.AmountCents, &row.Date, &row.UserID); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

const getExpense = `
SELECT id, title, amount_cents, date, user_id
FROM expenses
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetExpense(ctx context.Context, id int64, userID string) (ExpenseRow, error) {
	var row ExpenseRow
	err := q.db.QueryRowContext(ctx, getExpense, id, userID).
		Scan(&row.ID, &row.Title, &row.AmountCents, &row.Date, &row.UserID)
	return row, err
}

const totalAmountByUser = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM expenses
WHERE user_id = ?
`

func (q *Queries) TotalAmountByUser(ctx context.Context, userID string) (int64, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx, totalAmountByUser, userID).Scan(&cents)
	return cents, err
}

const deleteExpense = `
DELETE FROM expenses
WHERE id = ? AND user_id = ?
RETURNING title, amount_cents
`

// DeleteExpense removes the row and returns its projection. The caller
// maps sql.ErrNoRows to the domain's not-found error.
func (q *Queries) DeleteExpense(ctx context.Context, id int64, userID string) (string, int64, error) {
	var title string
	var cents int64
	err := q.db.QueryRowContext(ctx, deleteExpense, id, userID).Scan(&title, &cents)
	return title, cents, err
}

const getUserByEmail = `
SELECT id, email, password_hash
FROM users
WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (UserRow, error) {
	var row UserRow
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).
		Scan(&row.ID, &row.Email, &row.PasswordHash)
	return row, err
}

const createUser = `
INSERT INTO users (id, email, password_hash)
VALUES (?, ?, ?)
`

func (q *Queries) CreateUser(ctx context.Context, id, email, passwordHash string) error {
	_, err := q.db.ExecContext(ctx, createUser, id, email, passwordHash)
	return err
}
