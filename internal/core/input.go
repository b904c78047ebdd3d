package core

// ExpenseInput is the untrusted create payload. The same shape is
// validated speculatively by the client form and authoritatively by the
// server before anything reaches storage.
type ExpenseInput struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	UserID string  `json:"userId"`
}

// Validate checks every field and returns a ValidationError enumerating
// the failing ones, or nil when the payload is well formed.
func (in ExpenseInput) Validate() error {
	verr := NewValidationError()
	verr.Add("title", ValidateTitle(in.Title))
	verr.Add("amount", MoneyFromFloat(in.Amount).Validate())
	if _, err := ParseDateMDY(in.Date); err != nil {
		verr.Add("date", err)
	}
	if in.UserID == "" {
		verr.Add("userId", ErrEmptyUserID)
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// ToExpense converts a validated payload into a domain expense owned by
// userID. The payload's own userId is deliberately ignored: ownership
// always comes from the authenticated caller.
func (in ExpenseInput) ToExpense(userID string) (Expense, error) {
	if err := in.Validate(); err != nil {
		return Expense{}, err
	}
	date, err := ParseDateMDY(in.Date)
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		Title:  in.Title,
		Amount: MoneyFromFloat(in.Amount),
		Date:   date,
		UserID: userID,
	}, nil
}
