package mock

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// forgotPassword handles /auth/forgot-password requests; unknown emails are not disclosed
func (s *Service) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &input) {
		return
	}
	email := normalizeEmail(input.Email)
	if _, ok := s.accounts.Get(email); ok {
		s.resets.DeleteIf(func(_ string, owner string) bool { return owner == email })
		s.resets.Put(uuid.NewString(), email)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "reset link sent"})
}

// resetPassword handles /auth/reset-password/{token} requests
func (s *Service) resetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var input struct {
		Password string `json:"password"`
	}
	if !decode(w, r, &input) {
		return
	}
	email, ok := s.resets.Get(token)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_token", "Reset link is invalid or expired")
		return
	}
	s.resets.Delete(token)
	s.setPassword(email, input.Password)
	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset"})
}

// changePassword handles /auth/change-password requests
func (s *Service) changePassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decode(w, r, &input) {
		return
	}
	email := currentEmail(r)
	acc, _ := s.accounts.Get(email)
	if acc.password != input.CurrentPassword {
		writeError(w, http.StatusBadRequest, "wrong_password", "Current password is incorrect")
		return
	}
	s.setPassword(email, input.NewPassword)
	writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

// setPassword stores password and revokes every credential issued to email.
func (s *Service) setPassword(email, password string) {
	s.accounts.Update(email, func(current account, ok bool) account {
		current.password = password
		current.version++
		return current
	})
	s.RevokeRenewals(email)
}
