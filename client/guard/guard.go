package guard

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/viant/storefront/client/session"
	"github.com/viant/storefront/client/state"
)

const (
	// DefaultSignInPath is where denied requests are redirected.
	DefaultSignInPath = "/signin"
	// RedirectParameter carries the originally requested URI to the sign-in page.
	RedirectParameter = "redirect"
)

// Synchronizer loads the session state on navigation.
type Synchronizer interface {
	Sync(ctx context.Context) error
}

// Guard gates routes by role.
type Guard struct {
	manager    *session.Manager
	sync       Synchronizer
	signInPath string
	pending    http.Handler
	logger     logrus.FieldLogger
}

// Option represents a guard option
type Option func(g *Guard)

// WithSignInPath sets the sign-in path denied requests are redirected to.
func WithSignInPath(path string) Option {
	return func(g *Guard) {
		g.signInPath = path
	}
}

// WithPendingHandler sets the handler answering requests whose session is not
// synchronized.
func WithPendingHandler(handler http.Handler) Option {
	return func(g *Guard) {
		g.pending = handler
	}
}

// WithLogger sets the guard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// New creates a guard. synchronizer may be nil, in which case decisions use the
// state as last published.
func New(manager *session.Manager, synchronizer Synchronizer, options ...Option) *Guard {
	ret := &Guard{
		manager:    manager,
		sync:       synchronizer,
		signInPath: DefaultSignInPath,
		pending:    http.HandlerFunc(retryLater),
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(ret)
	}
	ret.logger = ret.logger.WithField("component", "guard")
	return ret
}

// Check synchronizes the session and decides access for role.
func (g *Guard) Check(ctx context.Context, role state.Role) Decision {
	if g.sync != nil {
		if err := g.sync.Sync(ctx); err != nil {
			g.logger.WithError(err).Debug("navigation sync failed")
		}
	}
	return Decide(g.manager.View(ctx), role)
}

// Require returns middleware admitting only users with role.
func (g *Guard) Require(role state.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Check(r.Context(), role)
			switch decision {
			case Authorized:
				next.ServeHTTP(w, r)
			case Pending:
				g.pending.ServeHTTP(w, r)
			default:
				g.logger.WithField("path", r.URL.Path).WithField("role", string(role)).Debug("access denied")
				http.Redirect(w, r, g.SignInURL(r), http.StatusSeeOther)
			}
		})
	}
}

// Authenticated returns middleware admitting any signed-in user.
func (g *Guard) Authenticated() func(http.Handler) http.Handler {
	return g.Require("")
}

// SignInURL returns the sign-in location preserving the requested URI.
func (g *Guard) SignInURL(r *http.Request) string {
	return g.signInPath + "?" + url.Values{RedirectParameter: {r.URL.RequestURI()}}.Encode()
}

// RedirectTarget returns the location to return to after sign-in. Only local
// absolute paths are accepted; anything else yields "/".
func RedirectTarget(r *http.Request) string {
	target := r.URL.Query().Get(RedirectParameter)
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, `\`) {
		return "/"
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return parsed.RequestURI()
}

func retryLater(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Retry-After", "1")
	http.Error(w, "session is loading", http.StatusServiceUnavailable)
}
