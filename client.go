package storefront

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/viant/storefront/client"
	"github.com/viant/storefront/client/auth/store"
	"github.com/viant/storefront/client/auth/transport"
	"github.com/viant/storefront/client/guard"
	"github.com/viant/storefront/internal/config"
)

// ClientOptions
//
// defines options for configuring a storefront client.
type ClientOptions struct {
	URL       string `json:"url,omitempty" short:"u" long:"url" description:"storefront API url" env:"STOREFRONT_URL"`
	TimeoutMs int    `json:"timeoutMs,omitempty" long:"timeout" description:"request timeout in ms" env:"STOREFRONT_TIMEOUT_MS" envDefault:"10000"`

	// CredentialURL persists the access credential (any afs URL, plain path for a local file).
	CredentialURL string `json:"credentialURL,omitempty" short:"s" long:"credential" description:"access credential location" env:"STOREFRONT_CREDENTIAL_URL"`
	// RedisAddr and SessionID keep the access credential in Redis, one key per browsing session.
	RedisAddr string `json:"redisAddr,omitempty" long:"redis" description:"redis address for credential storage" env:"STOREFRONT_REDIS_ADDR"`
	SessionID string `json:"sessionID,omitempty" long:"session" description:"session id for redis credential storage" env:"STOREFRONT_SESSION_ID"`

	// CookieJarPath persists the renewal cookie between runs.
	CookieJarPath string `json:"cookieJarPath,omitempty" short:"j" long:"cookies" description:"cookie jar file" env:"STOREFRONT_COOKIE_JAR"`
	SignInPath    string `json:"signInPath,omitempty" long:"signin-path" description:"sign-in path denied requests are redirected to" env:"STOREFRONT_SIGNIN_PATH"`
	LogLevel      string `json:"logLevel,omitempty" short:"l" long:"log-level" description:"log level" env:"STOREFRONT_LOG_LEVEL" envDefault:"info"`

	// Store, if set, takes precedence over CredentialURL and RedisAddr.
	Store store.Store `json:"-"`
	// CookieJar, if set, takes precedence over CookieJarPath.
	CookieJar http.CookieJar `json:"-"`
}

// LoadEnv fills options from STOREFRONT_* environment variables.
func (c *ClientOptions) LoadEnv() error {
	return config.ParseEnv(c)
}

// Logger returns a logger at the configured level.
func (c *ClientOptions) Logger() (*logrus.Logger, error) {
	logger := logrus.New()
	if c.LogLevel == "" {
		return logger, nil
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)
	return logger, nil
}

// CredentialStore returns the configured credential store.
func (c *ClientOptions) CredentialStore() store.Store {
	switch {
	case c.Store != nil:
		return c.Store
	case c.RedisAddr != "":
		sessionID := c.SessionID
		if sessionID == "" {
			sessionID = "default"
		}
		return store.NewRedisStore(redis.NewClient(&redis.Options{Addr: c.RedisAddr}), sessionID)
	case c.CredentialURL != "":
		return store.NewFileStore(c.CredentialURL)
	}
	return store.NewMemoryStore()
}

// Jar returns the configured cookie jar.
func (c *ClientOptions) Jar() (http.CookieJar, error) {
	switch {
	case c.CookieJar != nil:
		return c.CookieJar, nil
	case c.CookieJarPath != "":
		return transport.NewFileJar(c.CookieJarPath)
	}
	return cookiejar.New(nil)
}

// Options returns client options
func (c *ClientOptions) Options() ([]client.Option, error) {
	logger, err := c.Logger()
	if err != nil {
		return nil, err
	}
	jar, err := c.Jar()
	if err != nil {
		return nil, fmt.Errorf("failed to open cookie jar: %w", err)
	}
	var result []client.Option
	result = append(result, client.WithStore(c.CredentialStore()), client.WithCookieJar(jar), client.WithLogger(logger))
	if c.TimeoutMs > 0 {
		result = append(result, client.WithTimeout(time.Duration(c.TimeoutMs)*time.Millisecond))
	}
	if c.SignInPath != "" {
		result = append(result, client.WithGuardOptions(guard.WithSignInPath(c.SignInPath)))
	}
	return result, nil
}

// NewClient creates a storefront client configured via ClientOptions.
func NewClient(options *ClientOptions) (*client.Client, error) {
	if options.URL == "" {
		return nil, fmt.Errorf("storefront url was empty")
	}
	opts, err := options.Options()
	if err != nil {
		return nil, err
	}
	return client.New(options.URL, opts...)
}
