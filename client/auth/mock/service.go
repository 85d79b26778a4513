package mock

import (
	"crypto/rand"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/viant/storefront/client/state"
	"github.com/viant/storefront/internal/collection"
)

// RenewalCookie is the name of the HttpOnly cookie carrying the renewal token.
const RenewalCookie = "refreshToken"

type account struct {
	profile  state.Profile
	password string
	cart     state.Cart
	// version invalidates every access token issued before a password change
	version int
}

// Service is an in-memory storefront API.
type Service struct {
	// Secret signs access tokens.
	Secret []byte
	// AccessTTL is the access token lifetime.
	AccessTTL time.Duration

	accounts *collection.SyncMap[string, account]
	// renewal token -> email
	renewals *collection.SyncMap[string, string]
	// reset token -> email
	resets *collection.SyncMap[string, string]
	// request path -> forced status code
	faults *collection.SyncMap[string, int]

	generation   atomic.Int64
	refreshCount atomic.Int32
	refreshDelay atomic.Int64
	failRefresh  atomic.Bool
}

// New creates a service with a random signing secret.
func New() *Service {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	return &Service{
		Secret:    secret,
		AccessTTL: 15 * time.Minute,
		accounts:  collection.NewSyncMap[string, account](),
		renewals:  collection.NewSyncMap[string, string](),
		resets:    collection.NewSyncMap[string, string](),
		faults:    collection.NewSyncMap[string, int](),
	}
}

// AddUser registers an account and returns its stored profile.
func (s *Service) AddUser(profile state.Profile, password string) state.Profile {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	if profile.Role == "" {
		profile.Role = state.RoleUser
	}
	profile.Email = normalizeEmail(profile.Email)
	s.accounts.Put(profile.Email, account{profile: profile, password: password})
	return profile
}

// SetCart replaces the cart of the account registered under email.
func (s *Service) SetCart(email string, cart state.Cart) {
	s.accounts.Update(normalizeEmail(email), func(current account, ok bool) account {
		current.cart = state.Cart{Items: append([]state.CartItem(nil), cart.Items...)}
		return current
	})
}

// Profile returns the stored profile of the account registered under email.
func (s *Service) Profile(email string) (state.Profile, bool) {
	acc, ok := s.accounts.Get(normalizeEmail(email))
	return acc.profile, ok
}

// ResetToken returns the pending password reset token issued for email.
func (s *Service) ResetToken(email string) (string, bool) {
	email = normalizeEmail(email)
	ret := ""
	s.resets.Range(func(token string, owner string) bool {
		if owner == email {
			ret = token
			return false
		}
		return true
	})
	return ret, ret != ""
}

// ExpireAccessTokens makes every access token issued so far fail authorization,
// while renewal tokens stay valid.
func (s *Service) ExpireAccessTokens() {
	s.generation.Add(1)
}

// RevokeRenewals invalidates every renewal token of the account under email.
func (s *Service) RevokeRenewals(email string) {
	email = normalizeEmail(email)
	s.renewals.DeleteIf(func(_ string, owner string) bool {
		return owner == email
	})
}

// SetRefreshDelay delays every refresh response by delay.
func (s *Service) SetRefreshDelay(delay time.Duration) {
	s.refreshDelay.Store(int64(delay))
}

// FailRefresh makes the refresh endpoint reject every request while enabled.
func (s *Service) FailRefresh(enabled bool) {
	s.failRefresh.Store(enabled)
}

// RefreshCount returns the number of refresh requests received.
func (s *Service) RefreshCount() int {
	return int(s.refreshCount.Load())
}

// Fail forces every request to path to respond with status until Recover is called.
func (s *Service) Fail(path string, status int) {
	s.faults.Put(path, status)
}

// Recover removes a fault installed by Fail.
func (s *Service) Recover(path string) {
	s.faults.Delete(path)
}

func (s *Service) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status, ok := s.faults.Get(r.URL.Path); ok {
			writeError(w, status, "fault", http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
