package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"spendlog/internal/core"
)

// FieldName identifies a form field.
type FieldName string

const (
	FieldTitle  FieldName = "title"
	FieldAmount FieldName = "amount"
	FieldDate   FieldName = "date"
)

var formFields = []FieldName{FieldTitle, FieldAmount, FieldDate}

// ErrSubmitInProgress is returned when Submit is called while an
// earlier submission is still running.
var ErrSubmitInProgress = errors.New("submission already in progress")

// Notifier receives user-facing outcome messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator switches the visible route after a successful submission.
type Navigator interface {
	NavigateTo(route string)
}

type fieldState struct {
	value   string
	touched bool
	err     error
}

// Snapshot is the observable form state handed to subscribers.
type Snapshot struct {
	CanSubmit    bool
	IsSubmitting bool
}

// Form drives the create-expense flow: per-field validation on every
// change, touched-gated error display, a single-flight submit that
// merges the result into the list cache, then notification and
// navigation.
type Form struct {
	mu        sync.Mutex
	api       *Client
	cache     *ExpenseListCache
	notifier  Notifier
	navigator Navigator

	fields       map[FieldName]*fieldState
	isSubmitting bool
	subscribers  []func(Snapshot)
}

func NewForm(api *Client, cache *ExpenseListCache, notifier Notifier, navigator Navigator) *Form {
	f := &Form{
		api:       api,
		cache:     cache,
		notifier:  notifier,
		navigator: navigator,
		fields:    make(map[FieldName]*fieldState),
	}
	for _, name := range formFields {
		f.fields[name] = &fieldState{}
		f.fields[name].err = validateField(name, "")
	}
	return f
}

// Subscribe registers a callback invoked on every state change.
func (f *Form) Subscribe(fn func(Snapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribers = append(f.subscribers, fn)
}

// SetValue updates a field and re-validates it.
func (f *Form) SetValue(name FieldName, value string) {
	f.mu.Lock()
	field, ok := f.fields[name]
	if !ok {
		f.mu.Unlock()
		return
	}
	field.value = value
	field.err = validateField(name, value)
	f.mu.Unlock()
	f.notifySubscribers()
}

// Touch marks a field as visited, which makes its error visible.
func (f *Form) Touch(name FieldName) {
	f.mu.Lock()
	if field, ok := f.fields[name]; ok {
		field.touched = true
	}
	f.mu.Unlock()
	f.notifySubscribers()
}

// Value returns the current field value.
func (f *Form) Value(name FieldName) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if field, ok := f.fields[name]; ok {
		return field.value
	}
	return ""
}

// VisibleError returns the field's validation message, but only once
// the field has been touched. Untouched fields never show errors.
func (f *Form) VisibleError(name FieldName) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	field, ok := f.fields[name]
	if !ok || !field.touched || field.err == nil {
		return ""
	}
	return field.err.Error()
}

// CanSubmit reports whether every field is valid and no submission is
// running.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmitLocked()
}

func (f *Form) canSubmitLocked() bool {
	if f.isSubmitting {
		return false
	}
	for _, field := range f.fields {
		if field.err != nil {
			return false
		}
	}
	return true
}

// IsSubmitting reports whether a submission is in flight.
func (f *Form) IsSubmitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isSubmitting
}

// Submit runs the create flow: warm the list cache, post the expense,
// prepend the stored record to the cached list, notify, navigate. On
// any failure the form state is preserved so the user can retry.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.isSubmitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	if !f.canSubmitLocked() {
		f.mu.Unlock()
		return errors.New("form has validation errors")
	}
	input, err := f.inputLocked()
	if err != nil {
		f.mu.Unlock()
		return err
	}
	title := f.fields[FieldTitle].value
	f.isSubmitting = true
	f.mu.Unlock()
	f.notifySubscribers()

	err = f.submit(ctx, input, title)

	f.mu.Lock()
	f.isSubmitting = false
	f.mu.Unlock()
	f.notifySubscribers()
	return err
}

func (f *Form) submit(ctx context.Context, input core.ExpenseInput, title string) error {
	// Warm the cache first so the prepend below merges into a real
	// list instead of masking the server's page.
	if _, err := f.cache.Ensure(ctx, f.api.ListExpenses); err != nil {
		f.notifier.Error(fmt.Sprintf("Failed to create expense %s", title))
		return err
	}

	created, err := f.api.CreateExpense(ctx, input)
	if err != nil {
		f.notifier.Error(fmt.Sprintf("Failed to create expense %s", title))
		return err
	}

	f.cache.Prepend(created)
	f.notifier.Success(fmt.Sprintf("Expense created successfully %s", title))
	f.navigator.NavigateTo("/expenses")
	return nil
}

func (f *Form) inputLocked() (core.ExpenseInput, error) {
	amount, err := core.ParseAmount(f.fields[FieldAmount].value)
	if err != nil {
		return core.ExpenseInput{}, err
	}
	return core.ExpenseInput{
		Title:  f.fields[FieldTitle].value,
		Amount: amount.Float(),
		Date:   f.fields[FieldDate].value,
		UserID: "1",
	}, nil
}

func (f *Form) notifySubscribers() {
	f.mu.Lock()
	snapshot := Snapshot{
		CanSubmit:    f.canSubmitLocked(),
		IsSubmitting: f.isSubmitting,
	}
	subscribers := make([]func(Snapshot), len(f.subscribers))
	copy(subscribers, f.subscribers)
	f.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func validateField(name FieldName, value string) error {
	switch name {
	case FieldTitle:
		return core.ValidateTitle(value)
	case FieldAmount:
		_, err := core.ParseAmount(value)
		return err
	case FieldDate:
		_, err := core.ParseDateMDY(value)
		return err
	default:
		return nil
	}
}
