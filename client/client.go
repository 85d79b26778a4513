package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/viant/storefront/client/api"
	"github.com/viant/storefront/client/auth/store"
	"github.com/viant/storefront/client/auth/transport"
	"github.com/viant/storefront/client/guard"
	"github.com/viant/storefront/client/session"
	"github.com/viant/storefront/client/state"
	"golang.org/x/oauth2"
)

// Client is a storefront session client.
type Client struct {
	credentials   store.Store
	jar           http.CookieJar
	httpTransport http.RoundTripper
	timeout       time.Duration
	logger        logrus.FieldLogger
	guardOptions  []guard.Option

	api       *api.Client
	transport *transport.RoundTripper
	manager   *session.Manager
	sync      *session.Synchronizer
	service   *session.Service
	guard     *guard.Guard
}

// New creates a client for the storefront API rooted at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base URL was empty")
	}
	ret := &Client{
		httpTransport: http.DefaultTransport,
		logger:        logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.credentials == nil {
		ret.credentials = store.NewMemoryStore()
	}
	if ret.jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		ret.jar = jar
	}
	ret.manager = session.NewManager(ret.credentials, state.NewStore(), session.WithManagerLogger(ret.logger))
	rt, err := transport.New(
		transport.WithStore(ret.credentials),
		transport.WithTransport(ret.httpTransport),
		transport.WithCookieJar(ret.jar),
		transport.WithInvalidator(ret.manager),
		transport.WithRenewer(ret.manager),
		transport.WithLogger(ret.logger),
		transport.WithRefresher(transport.RefresherFunc(func(ctx context.Context) (*oauth2.Token, error) {
			return ret.api.Refresh(ctx)
		})),
	)
	if err != nil {
		return nil, err
	}
	ret.transport = rt
	ret.api = api.New(baseURL,
		api.WithHTTPClient(&http.Client{Transport: rt.Base(), Timeout: ret.timeout}),
		api.WithAuthorizedClient(&http.Client{Transport: rt, Timeout: ret.timeout}))
	ret.sync = session.NewSynchronizer(ret.manager, ret.api, ret.logger)
	ret.service = session.NewService(ret.api, ret.manager, ret.sync, ret.logger)
	guardOptions := append([]guard.Option{guard.WithLogger(ret.logger)}, ret.guardOptions...)
	ret.guard = guard.New(ret.manager, ret.sync, guardOptions...)
	return ret, nil
}

// API returns the endpoint client.
func (c *Client) API() *api.Client {
	return c.api
}

// Guard returns the route guard.
func (c *Client) Guard() *guard.Guard {
	return c.guard
}

// Manager returns the session manager.
func (c *Client) Manager() *session.Manager {
	return c.manager
}

func (c *Client) SignIn(ctx context.Context, request *api.SignInRequest) (session.View, error) {
	return c.service.SignIn(ctx, request)
}

func (c *Client) SignUp(ctx context.Context, request *api.SignUpRequest) error {
	return c.service.SignUp(ctx, request)
}

func (c *Client) SignOut(ctx context.Context) error {
	return c.service.SignOut(ctx)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.service.ForgotPassword(ctx, email)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.service.ResetPassword(ctx, token, password)
}

func (c *Client) ChangePassword(ctx context.Context, request *api.ChangePasswordRequest) error {
	return c.service.ChangePassword(ctx, request)
}

func (c *Client) UpdateProfile(ctx context.Context, patch *state.ProfilePatch) (session.View, error) {
	return c.service.UpdateProfile(ctx, patch)
}

func (c *Client) UpdateAvatar(ctx context.Context, filename string, content io.Reader) (session.View, error) {
	return c.service.UpdateAvatar(ctx, filename, content)
}

func (c *Client) Sync(ctx context.Context) error {
	return c.sync.Sync(ctx)
}

func (c *Client) View(ctx context.Context) session.View {
	return c.manager.View(ctx)
}

func (c *Client) Subscribe(listener func(session.View)) (cancel func()) {
	return c.manager.Subscribe(listener)
}

func (c *Client) Check(ctx context.Context, role state.Role) guard.Decision {
	return c.guard.Check(ctx, role)
}
