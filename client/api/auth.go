package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/viant/storefront/client/auth/store"
	"github.com/viant/storefront/client/auth/transport"
	"golang.org/x/oauth2"
)

// SignIn exchanges email and password for an access credential. The renewal
// credential arrives as an HttpOnly cookie and stays in the cookie jar.
func (c *Client) SignIn(ctx context.Context, in *SignInRequest) (*oauth2.Token, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return c.token(ctx, "auth/signin", in)
}

// SignUp registers a new account.
func (c *Client) SignUp(ctx context.Context, in *SignUpRequest) error {
	if err := in.Validate(); err != nil {
		return err
	}
	req, err := jsonRequest(http.MethodPost, "auth/signup", in)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// SignOut invalidates the server-side renewal credential.
func (c *Client) SignOut(ctx context.Context) error {
	req, _ := jsonRequest(http.MethodPost, "auth/signout", nil)
	return c.do(ctx, req, nil)
}

// Refresh mints a new access credential from the renewal cookie.
func (c *Client) Refresh(ctx context.Context) (*oauth2.Token, error) {
	return c.token(ctx, "auth/refresh", nil)
}

// ForgotPassword asks the server to email a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	req, err := jsonRequest(http.MethodPost, "auth/forgot-password", &forgotPasswordRequest{Email: email})
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// ResetPassword sets a new password using the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	if token == "" {
		return &ValidationError{Field: "token", Message: "is required"}
	}
	if err := validatePassword("password", password); err != nil {
		return err
	}
	req, err := jsonRequest(http.MethodPost, "auth/reset-password/"+url.PathEscape(token), &resetPasswordRequest{Password: password})
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}

// ChangePassword changes the signed-in user's password. The server invalidates
// the session on success; callers must sign out.
func (c *Client) ChangePassword(ctx context.Context, in *ChangePasswordRequest) error {
	if err := in.Validate(); err != nil {
		return err
	}
	req, err := jsonRequest(http.MethodPost, "auth/change-password", in)
	if err != nil {
		return err
	}
	req.authorized = true
	return c.do(ctx, req, nil)
}

func (c *Client) token(ctx context.Context, path string, payload interface{}) (*oauth2.Token, error) {
	req, err := jsonRequest(http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	var out tokenResponse
	if err = c.do(ctx, req, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, errors.New("response carried no access token")
	}
	return store.Bearer(out.AccessToken), nil
}

func isSessionError(err error) bool {
	return errors.Is(err, transport.ErrSessionInvalid)
}
