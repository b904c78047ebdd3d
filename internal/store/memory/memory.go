// Package memory is an in-process store used as the dev backend and in
// tests. It honors the same ownership and ordering contract as the
// sqlite repository.
package memory

import (
	"context"
	"sort"
	"sync"

	"spendlog/internal/core"
	"spendlog/internal/store"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense
	users  map[string]store.User // keyed by email
}

func New() *Store {
	return &Store{nextID: 1, users: make(map[string]store.User)}
}

// SeedUser registers an account for login. Used by the dev backend.
func (s *Store) SeedUser(u store.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Email] = u
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.items = append(s.items, e)
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context, userID string) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Expense
	for _, e := range s.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	// Date descending; newer ids first on equal dates so a just-created
	// row lands on top of the first page.
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > core.ListPageSize {
		out = out[:core.ListPageSize]
	}
	return out, nil
}

func (s *Store) GetExpense(_ context.Context, userID string, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.ID == id && e.UserID == userID {
			return e, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

func (s *Store) TotalAmount(_ context.Context, userID string) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cents int64
	for _, e := range s.items {
		if e.UserID == userID {
			cents += e.Amount.Cents
		}
	}
	return core.Money{Cents: cents}, nil
}

func (s *Store) DeleteExpense(_ context.Context, userID string, id int64) (core.ExpenseSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id && e.UserID == userID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return e.Summary(), nil
		}
	}
	return core.ExpenseSummary{}, core.ErrNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return store.User{}, core.ErrNotFound
	}
	return u, nil
}
