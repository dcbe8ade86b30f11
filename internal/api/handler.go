// Package api exposes the HTTP surface: registration, login, the
// authenticated identity endpoint, and owner-scoped task CRUD.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"taskd/internal/identity"
	"taskd/internal/security/password"
	"taskd/internal/security/token"
	"taskd/internal/task"
)

// Handler carries the dependencies of every HTTP endpoint.
type Handler struct {
	log          *slog.Logger
	maxBodyBytes int64

	users  identity.Store
	tasks  task.Store
	tokens *token.Manager

	// dummyHash is verified against when the login email does not exist, so
	// a failed lookup costs the same as a failed password check.
	dummyHash string
}

// NewHandler wires the API handler. maxBodyBytes caps every request body.
func NewHandler(log *slog.Logger, users identity.Store, tasks task.Store, tokens *token.Manager, maxBodyBytes int64) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{
		log:          log,
		maxBodyBytes: maxBodyBytes,
		users:        users,
		tasks:        tasks,
		tokens:       tokens,
		dummyHash:    identity.DummyHash(),
	}
}

// Register mounts all routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.Handle("GET /auth/me", h.requireAuth(http.HandlerFunc(h.handleMe)))

	mux.Handle("GET /tasks", h.requireAuth(http.HandlerFunc(h.handleListTasks)))
	mux.Handle("POST /tasks", h.requireAuth(http.HandlerFunc(h.handleCreateTask)))
	mux.Handle("GET /tasks/{id}", h.requireAuth(http.HandlerFunc(h.handleGetTask)))
	mux.Handle("PUT /tasks/{id}", h.requireAuth(http.HandlerFunc(h.handleReplaceTask)))
	mux.Handle("DELETE /tasks/{id}", h.requireAuth(http.HandlerFunc(h.handleDeleteTask)))
}

// ---- auth endpoints ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	var errs []fieldError
	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, fieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, fieldError{Field: "email", Message: "email is not a valid address"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	u, err := h.users.CreateUser(r.Context(), identity.CreateUserInput{
		Email:    email,
		Password: req.Password,
		Now:      time.Now().UTC(),
	})
	if err != nil {
		switch {
		case identity.IsConflict(err):
			writeValidationErrors(w, []fieldError{{Field: "email", Message: "email is already registered"}})
		case errors.Is(err, password.ErrPasswordTooShort):
			writeValidationErrors(w, []fieldError{{Field: "password", Message: "password is too short"}})
		case errors.Is(err, password.ErrPasswordTooLong):
			writeValidationErrors(w, []fieldError{{Field: "password", Message: "password is too long"}})
		case errors.Is(err, password.ErrWeakPassword):
			writeValidationErrors(w, []fieldError{{Field: "password", Message: "password is too weak"}})
		case identity.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "bad_request", "invalid registration input")
		default:
			h.log.Error("identity.register", "err", err)
			writeError(w, http.StatusInternalServerError, "internal", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{UserID: u.ID, Email: u.Email})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		// Still a credential failure from the caller's point of view; do not
		// reveal which part was missing.
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	auth, err := h.users.GetUserAuthByEmail(r.Context(), req.Email)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			// Burn comparable time against a throwaway hash so unknown
			// emails are not distinguishable by latency.
			_, _ = identity.VerifyPassword(req.Password, h.dummyHash)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
			return
		}
		h.log.Error("identity.login", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	ok, err := identity.VerifyPassword(req.Password, auth.PasswordHash)
	if err != nil || !ok {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
		return
	}

	signed, _, err := h.tokens.Issue(auth.User.ID, auth.User.Email, time.Now())
	if err != nil {
		h.log.Error("token.issue", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: signed})
}

// handleMe answers from token claims alone; no store round-trip.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{UserID: claims.UserID, Email: claims.Email})
}

// ---- auth middleware ----

type ctxKey int

const claimsKey ctxKey = iota

func claimsFrom(ctx context.Context) (token.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(token.Claims)
	return c, ok
}

// requireAuth validates the bearer token and stashes the claims in the
// request context. Every failure is the same generic 401.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		claims, err := h.tokens.Validate(raw, time.Now())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(auth[len(prefix):])
	if tok == "" {
		return "", false
	}
	return tok, true
}
