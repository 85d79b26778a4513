package mock

import (
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/viant/storefront/client/state"
)

const maxAvatarSize = 1 << 20

// getProfile handles GET /users/me
func (s *Service) getProfile(w http.ResponseWriter, r *http.Request) {
	acc, _ := s.accounts.Get(currentEmail(r))
	writeJSON(w, http.StatusOK, acc.profile)
}

// patchProfile handles PATCH /users/me
func (s *Service) patchProfile(w http.ResponseWriter, r *http.Request) {
	var patch state.ProfilePatch
	if !decode(w, r, &patch) {
		return
	}
	acc := s.accounts.Update(currentEmail(r), func(current account, ok bool) account {
		patch.Apply(&current.profile)
		return current
	})
	writeJSON(w, http.StatusOK, acc.profile)
}

// patchAvatar handles PATCH /users/me/avatar multipart uploads
func (s *Service) patchAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid avatar upload")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "avatar is required")
		return
	}
	defer file.Close()
	if _, err = io.Copy(io.Discard, file); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid avatar upload")
		return
	}
	email := currentEmail(r)
	acc, _ := s.accounts.Get(email)
	URL := fmt.Sprintf("/avatars/%v/%v%v", acc.profile.ID, uuid.NewString(), path.Ext(header.Filename))
	s.accounts.Update(email, func(current account, ok bool) account {
		current.profile.Avatar = URL
		return current
	})
	writeJSON(w, http.StatusOK, map[string]string{"avatar": URL})
}

// getCart handles GET /cart
func (s *Service) getCart(w http.ResponseWriter, r *http.Request) {
	acc, _ := s.accounts.Get(currentEmail(r))
	cart := acc.cart
	if cart.Items == nil {
		cart.Items = []state.CartItem{}
	}
	writeJSON(w, http.StatusOK, cart)
}
