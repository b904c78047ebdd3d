// Package services orchestrates expense operations across the store
// and the event stream.
package services

import (
	"context"
	"errors"
	"fmt"

	"spendlog/internal/amqp"
	"spendlog/internal/core"
	"spendlog/internal/log"
	"spendlog/internal/store"
)

// EventPublisher is the slice of the AMQP client the service needs.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, eventType string, id int64, userID string) error
}

// ExpenseService fronts the store and announces writes on the event
// stream. The store is the source of truth; publish failures are logged
// and never fail the request.
type ExpenseService struct {
	store     store.Store
	publisher EventPublisher
	logger    *log.Logger
}

var _ store.Store = (*ExpenseService)(nil)

// NewExpenseService wires the service. A nil publisher disables events,
// which is how the memory backend and tests run.
func NewExpenseService(s store.Store, publisher EventPublisher, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		store:     s,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentExpense),
	}
}

func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, amqp.EventExpenseCreated, created.ID, created.UserID)
	return created, nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, userID)
}

func (s *ExpenseService) GetExpense(ctx context.Context, userID string, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, userID, id)
}

func (s *ExpenseService) TotalAmount(ctx context.Context, userID string) (core.Money, error) {
	return s.store.TotalAmount(ctx, userID)
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, userID string, id int64) (core.ExpenseSummary, error) {
	summary, err := s.store.DeleteExpense(ctx, userID, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ExpenseSummary{}, err
		}
		return core.ExpenseSummary{}, fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, amqp.EventExpenseDeleted, id, userID)
	return summary, nil
}

func (s *ExpenseService) publish(ctx context.Context, eventType string, id int64, userID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, eventType, id, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			"type", eventType,
			log.FieldExpenseID, id,
			log.FieldError, err)
	}
}
