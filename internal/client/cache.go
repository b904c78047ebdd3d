package client

import (
	"context"
	"sync"
	"time"

	"spendlog/internal/cache"
	"spendlog/internal/core"
)

const expensesKey = "expenses"

// ExpenseListCache keeps the last fetched expense page so a fresh
// create can merge into it without a refetch.
type ExpenseListCache struct {
	mu    sync.Mutex
	items *cache.LRUCache[[]core.Expense]
}

func NewExpenseListCache(ttl time.Duration) *ExpenseListCache {
	return &ExpenseListCache{
		items: cache.NewLRUCache[[]core.Expense](1, ttl),
	}
}

// Ensure returns the cached list, fetching and storing it on a miss.
func (c *ExpenseListCache) Ensure(ctx context.Context, fetch func(context.Context) ([]core.Expense, error)) ([]core.Expense, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if list, ok := c.items.Get(expensesKey); ok {
		return list, nil
	}

	list, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.items.Set(expensesKey, list)
	return list, nil
}

// Prepend puts a newly created expense at the front of the cached list.
// A cold cache stays cold; the next Ensure fetches the real page.
func (c *ExpenseListCache) Prepend(e core.Expense) {
	c.mu.Lock()
	defer c.mu.Unlock()

	list, ok := c.items.Get(expensesKey)
	if !ok {
		return
	}
	merged := make([]core.Expense, 0, len(list)+1)
	merged = append(merged, e)
	merged = append(merged, list...)
	c.items.Set(expensesKey, merged)
}

// Get returns the cached list without fetching.
func (c *ExpenseListCache) Get() ([]core.Expense, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Get(expensesKey)
}

// Invalidate drops the cached list.
func (c *ExpenseListCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Delete(expensesKey)
}
