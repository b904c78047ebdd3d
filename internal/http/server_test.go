package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/log"
	"spendlog/internal/store"
	"spendlog/internal/store/memory"
)

type testEnv struct {
	server *Server
	tokens map[string]string // userID -> session token
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := memory.New()
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})

	sessions := auth.NewSessions(time.Hour)
	authn := auth.NewAuthenticator(mem, sessions, logger)

	tokens := make(map[string]string)
	for _, u := range []struct{ id, email string }{
		{"1", "alice@example.com"},
		{"2", "bob@example.com"},
	} {
		hash, err := auth.HashPassword("secret-" + u.id)
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		mem.SeedUser(store.User{ID: u.id, Email: u.email, PasswordHash: hash})

		token, _, err := authn.Login(context.Background(), u.email, "secret-"+u.id)
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		tokens[u.id] = token
	}

	s := NewServer(Options{
		Addr:           ":0",
		AllowedOrigins: []string{"http://localhost:5173"},
	}, mem, authn, logger)
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	return &testEnv{server: s, tokens: tokens}
}

// do performs a request as the given user. An empty userID sends no
// credentials.
func (env *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+env.tokens[userID])
	}

	rec := httptest.NewRecorder()
	env.server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func createPayload(title string, amount float64, date string) map[string]any {
	return map[string]any{"title": title, "amount": amount, "date": date, "userId": "ignored"}
}

func TestOperationsRequireSession(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/expenses/"},
		{http.MethodPost, "/expenses/"},
		{http.MethodGet, "/expenses/total"},
		{http.MethodGet, "/expenses/1"},
		{http.MethodDelete, "/expenses/1"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := env.do(t, tc.method, tc.path, "", nil)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestCreateExpenseWireFormat(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/expenses/", "1", createPayload("Coffee", 4.5, "6/1/2024"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	expense, ok := body["expense"].(map[string]any)
	if !ok {
		t.Fatalf("missing expense envelope: %v", body)
	}
	if expense["title"] != "Coffee" {
		t.Errorf("title = %v", expense["title"])
	}
	if expense["amount"] != 4.5 {
		t.Errorf("amount = %v, want 4.5", expense["amount"])
	}
	if expense["date"] != "2024-06-01T00:00:00.000Z" {
		t.Errorf("date = %v, want UTC midnight ISO form", expense["date"])
	}
	if expense["userId"] != "1" {
		t.Errorf("userId = %v, payload userId must be ignored", expense["userId"])
	}
	if id, ok := expense["id"].(float64); !ok || id < 1 {
		t.Errorf("id = %v, want server-assigned id", expense["id"])
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name    string
		payload map[string]any
		field   string
	}{
		{"empty title", createPayload("", 4.5, "6/1/2024"), "title"},
		{"long title", createPayload(strings.Repeat("x", 101), 4.5, "6/1/2024"), "title"},
		{"zero amount", createPayload("Coffee", 0, "6/1/2024"), "amount"},
		{"negative amount", createPayload("Coffee", -1, "6/1/2024"), "amount"},
		{"bad date", createPayload("Coffee", 4.5, "2024-06-01"), "date"},
		{"impossible date", createPayload("Coffee", 4.5, "2/30/2024"), "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/expenses/", "1", tc.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			body := decodeBody(t, rec)
			fields, _ := body["fields"].(map[string]any)
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("fields = %v, want entry for %q", fields, tc.field)
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/expenses/", strings.NewReader("{"))
		req.Header.Set("Authorization", "Bearer "+env.tokens["1"])
		rec := httptest.NewRecorder()
		env.server.Handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListReturnsOwnExpensesNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	for day := 1; day <= 12; day++ {
		rec := env.do(t, http.MethodPost, "/expenses/", "1", createPayload("e", 1, "6/"+strconv.Itoa(day)+"/2024"))
		if rec.Code != http.StatusOK {
			t.Fatalf("create day %d: status %d", day, rec.Code)
		}
	}
	env.do(t, http.MethodPost, "/expenses/", "2", createPayload("theirs", 1, "6/1/2024"))

	rec := env.do(t, http.MethodGet, "/expenses/", "1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	items, ok := body["expense"].([]any)
	if !ok {
		t.Fatalf("missing expense list: %v", body)
	}
	if len(items) != 10 {
		t.Fatalf("len = %d, want page size 10", len(items))
	}
	first := items[0].(map[string]any)
	if first["date"] != "2024-06-12T00:00:00.000Z" {
		t.Errorf("first item date = %v, want newest", first["date"])
	}
	for _, item := range items {
		if item.(map[string]any)["userId"] != "1" {
			t.Fatalf("foreign expense leaked into list: %v", item)
		}
	}
}

func TestGetExpenseScopedToOwner(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/expenses/", "2", createPayload("theirs", 9.99, "6/1/2024"))
	created := decodeBody(t, rec)["expense"].(map[string]any)
	id := strconv.Itoa(int(created["id"].(float64)))

	if rec := env.do(t, http.MethodGet, "/expenses/"+id, "2", nil); rec.Code != http.StatusOK {
		t.Fatalf("owner get: status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/expenses/"+id, "1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign get: status = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/expenses/9999", "1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing get: status = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/expenses/abc", "1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("non-numeric id: status = %d, want 404", rec.Code)
	}
}

func TestTotalAmount(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/expenses/total", "1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if total := decodeBody(t, rec)["total"]; total != float64(0) {
		t.Fatalf("empty total = %v, want 0", total)
	}

	env.do(t, http.MethodPost, "/expenses/", "1", createPayload("a", 10, "6/1/2024"))
	env.do(t, http.MethodPost, "/expenses/", "1", createPayload("b", 20.5, "6/2/2024"))
	env.do(t, http.MethodPost, "/expenses/", "2", createPayload("theirs", 100, "6/1/2024"))

	rec = env.do(t, http.MethodGet, "/expenses/total", "1", nil)
	if total := decodeBody(t, rec)["total"]; total != 30.5 {
		t.Fatalf("total = %v, want 30.5", total)
	}
}

func TestDeleteReturnsProjection(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/expenses/", "1", createPayload("Lunch", 12.5, "6/1/2024"))
	created := decodeBody(t, rec)["expense"].(map[string]any)
	id := strconv.Itoa(int(created["id"].(float64)))

	rec = env.do(t, http.MethodDelete, "/expenses/"+id, "1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	deleted := decodeBody(t, rec)["expense"].(map[string]any)
	if deleted["title"] != "Lunch" || deleted["amount"] != 12.5 {
		t.Fatalf("projection = %v, want title and amount only", deleted)
	}
	if _, hasID := deleted["id"]; hasID {
		t.Fatalf("projection leaks extra fields: %v", deleted)
	}

	if rec := env.do(t, http.MethodDelete, "/expenses/"+id, "1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: status = %d, want 404", rec.Code)
	}
}

func TestDeleteForeignExpenseLeavesRow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/expenses/", "2", createPayload("theirs", 5, "6/1/2024"))
	created := decodeBody(t, rec)["expense"].(map[string]any)
	id := strconv.Itoa(int(created["id"].(float64)))

	if rec := env.do(t, http.MethodDelete, "/expenses/"+id, "1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign delete: status = %d, want 404", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/expenses/"+id, "2", nil); rec.Code != http.StatusOK {
		t.Fatalf("owner lost the row: status = %d", rec.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid credentials set a session cookie", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "secret-1",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		body := decodeBody(t, rec)
		if body["userId"] != "1" || body["token"] == "" {
			t.Fatalf("unexpected login response: %v", body)
		}

		var sessionCookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == auth.SessionCookie {
				sessionCookie = c
			}
		}
		if sessionCookie == nil || !sessionCookie.HttpOnly {
			t.Fatal("expected HttpOnly session cookie")
		}

		// Cookie works against a protected route.
		req := httptest.NewRequest(http.MethodGet, "/expenses/", nil)
		req.AddCookie(sessionCookie)
		rr := httptest.NewRecorder()
		env.server.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("cookie auth: status = %d", rr.Code)
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrong",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "alice@example.com"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
			"email": "bob@example.com", "password": "secret-2",
		})
		token := decodeBody(t, rec)["token"].(string)

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		env.server.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("logout status = %d", rr.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/expenses/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr = httptest.NewRecorder()
		env.server.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("revoked token still works: status = %d", rr.Code)
		}
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := env.do(t, http.MethodGet, path, "", nil); rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", path, rec.Code)
		}
	}
}

