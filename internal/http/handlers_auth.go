package http

import (
	"log/slog"
	"net/http"

	"fiscal/internal/auth"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")
	firstname := sanitizeInput(r.Form.Get("firstname"))
	lastname := sanitizeInput(r.Form.Get("lastname"))

	if err := s.auth.CreateAccount(r.Context(), email, password, firstname, lastname); err != nil {
		slog.WarnContext(r.Context(), "Signup failed", "email", email, "error", err)
		respondDomainError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "Account created", "email", email)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")

	account, err := s.auth.ValidateLogin(r.Context(), email, password)
	if err != nil {
		slog.WarnContext(r.Context(), "Login rejected", "email", email)
		respondDomainError(w, err)
		return
	}

	token, err := s.sessions.Create(account.Email)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.setSessionCookie(w, token)
	slog.InfoContext(r.Context(), "Login succeeded", "email", account.Email)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		s.sessions.Revoke(cookie.Value)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	sessionEmail := emailFrom(r.Context())
	email := auth.NormalizeEmail(r.Form.Get("email"))
	password := r.Form.Get("password")

	// Accounts can only delete themselves.
	if email != sessionEmail {
		respondError(w, http.StatusForbidden, "cannot delete another account")
		return
	}

	if err := s.auth.DeleteAccount(r.Context(), email, password); err != nil {
		slog.WarnContext(r.Context(), "Account deletion rejected", "email", email, "error", err)
		respondDomainError(w, err)
		return
	}

	s.sessions.RevokeAll(email)
	s.invalidateAnalytics(email)
	s.clearSessionCookie(w)
	s.ledger.NotifyAccountDeleted(r.Context(), email)

	slog.InfoContext(r.Context(), "Account deleted", "email", email)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleGetUserInfo(w http.ResponseWriter, r *http.Request) {
	email := emailFrom(r.Context())

	account, err := s.auth.GetAccount(r.Context(), email)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"email":     account.Email,
		"firstname": account.Firstname,
		"lastname":  account.Lastname,
	})
}

func (s *Server) handleUpdateUserInfo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	email := emailFrom(r.Context())
	firstname := sanitizeInput(r.Form.Get("firstname"))
	lastname := sanitizeInput(r.Form.Get("lastname"))

	if err := s.auth.UpdateProfile(r.Context(), email, firstname, lastname); err != nil {
		respondDomainError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "Profile updated", "email", email)
	http.Redirect(w, r, "/", http.StatusFound)
}
