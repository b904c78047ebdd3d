package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"spendlog/internal/auth"
	"spendlog/internal/core"
	"spendlog/internal/log"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "email and password are required"})
		return
	}

	token, userID, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, loginResponse{Token: token, UserID: userID})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(auth.TokenFromRequest(r))
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// expenseEnvelope matches the wire shape for every expense response,
// list included.
type expenseEnvelope struct {
	Expense any `json:"expense"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFrom(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthenticated)
		return
	}

	s.simulateLatency(r.Context())

	expenses, err := s.store.ListExpenses(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	respondJSON(w, http.StatusOK, expenseEnvelope{Expense: expenses})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFrom(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthenticated)
		return
	}

	var input core.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	// Ownership comes from the session, whatever the payload claims.
	input.UserID = userID
	if verr := input.Validate(); verr != nil {
		respondError(w, r, verr)
		return
	}

	expense, err := input.ToExpense(userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.store.CreateExpense(r.Context(), expense)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Expense created",
		log.FieldOperation, log.OpCreate,
		log.FieldExpenseID, created.ID,
		log.FieldUserID, userID)

	respondJSON(w, http.StatusOK, expenseEnvelope{Expense: created})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFrom(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthenticated)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, core.ErrNotFound)
		return
	}

	expense, err := s.store.GetExpense(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, expenseEnvelope{Expense: expense})
}

type totalResponse struct {
	Total core.Money `json:"total"`
}

func (s *Server) handleTotalAmount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFrom(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthenticated)
		return
	}

	s.simulateLatency(r.Context())

	total, err := s.store.TotalAmount(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, totalResponse{Total: total})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFrom(r.Context())
	if !ok {
		respondError(w, r, core.ErrUnauthenticated)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, core.ErrNotFound)
		return
	}

	summary, err := s.store.DeleteExpense(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id,
		log.FieldUserID, userID)

	respondJSON(w, http.StatusOK, expenseEnvelope{Expense: summary})
}
