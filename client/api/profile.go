package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/viant/storefront/client/state"
)

// Profile returns the signed-in user's profile.
func (c *Client) Profile(ctx context.Context) (*state.Profile, error) {
	req := &request{method: http.MethodGet, path: "users/me", authorized: true}
	ret := &state.Profile{}
	if err := c.do(ctx, req, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// UpdateProfile applies a partial update and returns the stored profile.
func (c *Client) UpdateProfile(ctx context.Context, patch *state.ProfilePatch) (*state.Profile, error) {
	if err := validateProfilePatch(patch); err != nil {
		return nil, err
	}
	req, err := jsonRequest(http.MethodPatch, "users/me", patch)
	if err != nil {
		return nil, err
	}
	req.authorized = true
	ret := &state.Profile{}
	if err = c.do(ctx, req, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// UpdateAvatar uploads a new avatar image and returns its URL.
func (c *Client) UpdateAvatar(ctx context.Context, filename string, content io.Reader) (string, error) {
	if filename == "" || content == nil {
		return "", &ValidationError{Field: "avatar", Message: "is required"}
	}
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("avatar", filename)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if err = writer.Close(); err != nil {
		return "", err
	}
	req := &request{method: http.MethodPatch, path: "users/me/avatar", body: body, contentType: writer.FormDataContentType(), authorized: true}
	var out avatarResponse
	if err = c.do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.Avatar, nil
}

// Cart returns the signed-in user's cart.
func (c *Client) Cart(ctx context.Context) (*state.Cart, error) {
	req := &request{method: http.MethodGet, path: "cart", authorized: true}
	ret := &state.Cart{}
	if err := c.do(ctx, req, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
