package mock

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type emailKey struct{}

// Handler returns the storefront API router.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.injectFaults)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signin", s.signIn)
		r.Post("/signup", s.signUp)
		r.Post("/signout", s.signOut)
		r.Post("/refresh", s.refresh)
		r.Post("/forgot-password", s.forgotPassword)
		r.Post("/reset-password/{token}", s.resetPassword)
		r.With(s.authenticated).Post("/change-password", s.changePassword)
	})
	r.Group(func(r chi.Router) {
		r.Use(s.authenticated)
		r.Get("/users/me", s.getProfile)
		r.Patch("/users/me", s.patchProfile)
		r.Patch("/users/me/avatar", s.patchAvatar)
		r.Get("/cart", s.getCart)
	})
	return r
}

// authenticated rejects requests without a valid access token.
func (s *Service) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="storefront"`)
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing access token")
			return
		}
		acc, err := s.verifyJWT(parts[1])
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="storefront", error="invalid_token"`)
			writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), emailKey{}, acc.profile.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentEmail(r *http.Request) string {
	email, _ := r.Context().Value(emailKey{}).(string)
	return email
}

func decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"message": message, "code": code})
}
