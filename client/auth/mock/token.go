package mock

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/viant/storefront/client/state"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signIn handles /auth/signin requests
func (s *Service) signIn(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if !decode(w, r, &input) {
		return
	}
	acc, ok := s.accounts.Get(normalizeEmail(input.Email))
	if !ok || acc.password != input.Password {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
		return
	}
	renewal := uuid.NewString()
	s.renewals.Put(renewal, acc.profile.Email)
	s.issue(w, acc, renewal)
}

// signUp handles /auth/signup requests
func (s *Service) signUp(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if !decode(w, r, &input) {
		return
	}
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" || input.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name, email and password are required")
		return
	}
	created := false
	s.accounts.Update(email, func(current account, ok bool) account {
		if ok {
			return current
		}
		created = true
		profile := state.Profile{ID: uuid.NewString(), Name: input.Name, Email: email, Role: state.RoleUser}
		return account{profile: profile, password: input.Password}
	})
	if !created {
		writeError(w, http.StatusConflict, "email_taken", "Email is already registered")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "account created"})
}

// signOut handles /auth/signout requests
func (s *Service) signOut(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(RenewalCookie); err == nil {
		s.renewals.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: RenewalCookie, Path: "/auth", HttpOnly: true, MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// refresh handles /auth/refresh requests
func (s *Service) refresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCount.Add(1)
	if delay := time.Duration(s.refreshDelay.Load()); delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if s.failRefresh.Load() {
		writeError(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh rejected")
		return
	}
	cookie, err := r.Cookie(RenewalCookie)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_refresh_token", "missing refresh token")
		return
	}
	email, ok := s.renewals.Get(cookie.Value)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_refresh_token", "refresh token revoked")
		return
	}
	acc, ok := s.accounts.Get(email)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_refresh_token", "unknown account")
		return
	}
	s.issue(w, acc, cookie.Value)
}

func (s *Service) issue(w http.ResponseWriter, acc account, renewal string) {
	accessToken, err := s.createJWT(acc)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "Server error")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RenewalCookie,
		Value:    renewal,
		Path:     "/auth",
		HttpOnly: true,
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
	})
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}
