package core

import (
	"errors"
	"strings"
)

const (
	// MaxTitleLen bounds expense titles on both the form and the API.
	MaxTitleLen = 100

	// ListPageSize is the fixed page size for expense listings.
	ListPageSize = 10
)

type (
	// Expense is a single user-owned financial record.
	Expense struct {
		ID     int64  `json:"id"`
		Title  string `json:"title"`
		Amount Money  `json:"amount"`
		Date   Date   `json:"date"`
		UserID string `json:"userId"`
	}

	// ExpenseSummary is the minimal projection returned by delete.
	ExpenseSummary struct {
		Title  string `json:"title"`
		Amount Money  `json:"amount"`
	}
)

var (
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrTitleTooLong  = errors.New("title too long")
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyUserID   = errors.New("missing user id")
)

// ValidateTitle checks a title the way both the form and the API do.
func ValidateTitle(title string) error {
	if len(strings.TrimSpace(title)) == 0 {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLen {
		return ErrTitleTooLong
	}
	return nil
}

// Summary returns the delete projection of the expense.
func (e Expense) Summary() ExpenseSummary {
	return ExpenseSummary{Title: e.Title, Amount: e.Amount}
}

func (e Expense) Validate() error {
	if err := ValidateTitle(e.Title); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.UserID == "" {
		return ErrEmptyUserID
	}
	return nil
}
