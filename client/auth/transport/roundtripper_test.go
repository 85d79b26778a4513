package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/storefront/client/auth/store"
	"golang.org/x/oauth2"
)

// resourceServer accepts only the bearer token it currently considers valid.
type resourceServer struct {
	*httptest.Server
	mu           sync.Mutex
	valid        string
	unauthorized int32
	bodies       []string
	seen         []string
}

func newResourceServer(valid string) *resourceServer {
	ret := &resourceServer{valid: valid}
	ret.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ret.mu.Lock()
		valid := ret.valid
		ret.seen = append(ret.seen, r.Header.Get("Authorization"))
		ret.bodies = append(ret.bodies, string(body))
		ret.mu.Unlock()
		switch r.URL.Path {
		case "/forbidden":
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		case "/broken":
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+valid {
			atomic.AddInt32(&ret.unauthorized, 1)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	return ret
}

func (s *resourceServer) setValid(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid = token
}

type countingRefresher struct {
	calls int32
	delay time.Duration
	fn    func(call int32) (*oauth2.Token, error)
}

func (c *countingRefresher) Refresh(ctx context.Context) (*oauth2.Token, error) {
	call := atomic.AddInt32(&c.calls, 1)
	time.Sleep(c.delay)
	return c.fn(call)
}

type recordingInvalidator struct {
	mu       sync.Mutex
	rejected []*oauth2.Token
	store    store.Store
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, rejected *oauth2.Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, rejected)
	_ = r.store.ClearToken(ctx)
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rejected)
}

func newTestRoundTripper(t *testing.T, initial string, refresher Refresher, options ...Option) (*RoundTripper, store.Store) {
	t.Helper()
	credentials := store.NewMemoryStore()
	if initial != "" {
		require.NoError(t, credentials.SetToken(context.Background(), store.Bearer(initial)))
	}
	options = append([]Option{WithStore(credentials), WithRefresher(refresher)}, options...)
	rt, err := New(options...)
	require.NoError(t, err)
	return rt, credentials
}

func TestRoundTripper_AttachesCredential(t *testing.T) {
	server := newResourceServer("t1")
	defer server.Close()
	refresher := &countingRefresher{fn: func(int32) (*oauth2.Token, error) { return nil, errors.New("unexpected") }}
	rt, _ := newTestRoundTripper(t, "t1", refresher)

	resp, err := (&http.Client{Transport: rt}).Get(server.URL + "/users/me")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Bearer t1"}, server.seen)
	assert.EqualValues(t, 0, atomic.LoadInt32(&refresher.calls))
}

func TestRoundTripper_OtherFailuresPassThrough(t *testing.T) {
	server := newResourceServer("t1")
	defer server.Close()
	refresher := &countingRefresher{fn: func(int32) (*oauth2.Token, error) { return store.Bearer("t2"), nil }}
	rt, _ := newTestRoundTripper(t, "t1", refresher)
	client := &http.Client{Transport: rt}

	for path, status := range map[string]int{"/forbidden": http.StatusForbidden, "/broken": http.StatusInternalServerError} {
		resp, err := client.Get(server.URL + path)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, status, resp.StatusCode, path)
	}
	assert.EqualValues(t, 0, atomic.LoadInt32(&refresher.calls))
}

func TestRoundTripper_RefreshAndReplayBody(t *testing.T) {
	server := newResourceServer("t2")
	defer server.Close()
	refresher := &countingRefresher{fn: func(int32) (*oauth2.Token, error) { return store.Bearer("t2"), nil }}
	rt, credentials := newTestRoundTripper(t, "t1", refresher)

	req, err := http.NewRequest(http.MethodPatch, server.URL+"/users/me", strings.NewReader(`{"name":"An"}`))
	require.NoError(t, err)
	resp, err := (&http.Client{Transport: rt}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Bearer t1", "Bearer t2"}, server.seen)
	assert.Equal(t, []string{`{"name":"An"}`, `{"name":"An"}`}, server.bodies)
	token, ok := credentials.LookupToken(context.Background())
	require.True(t, ok)
	assert.Equal(t, "t2", token.AccessToken)
}

func TestRoundTripper_SingleRefresh(t *testing.T) {
	var testCases = []struct {
		description string
		requests    int
	}{
		{description: "same tick pair", requests: 2},
		{description: "burst", requests: 16},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			server := newResourceServer("t1")
			defer server.Close()
			refresher := &countingRefresher{delay: 50 * time.Millisecond, fn: func(call int32) (*oauth2.Token, error) {
				token := fmt.Sprintf("fresh-%d", call)
				server.setValid(token)
				return store.Bearer(token), nil
			}}
			rt, _ := newTestRoundTripper(t, "t1", refresher)
			client := &http.Client{Transport: rt}
			// the server stops accepting t1 after every request was issued with it
			server.setValid("expired")

			start := make(chan struct{})
			var wg sync.WaitGroup
			errs := make(chan error, testCase.requests)
			for i := 0; i < testCase.requests; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					resp, err := client.Get(server.URL + "/cart")
					if err != nil {
						errs <- err
						return
					}
					_ = resp.Body.Close()
					if resp.StatusCode != http.StatusOK {
						errs <- fmt.Errorf("unexpected status %d", resp.StatusCode)
					}
				}()
			}
			close(start)
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}
			assert.EqualValues(t, 1, atomic.LoadInt32(&refresher.calls))
			for _, header := range server.seen {
				assert.Contains(t, []string{"Bearer t1", "Bearer fresh-1"}, header)
			}
		})
	}
}

func TestRoundTripper_RetryBound(t *testing.T) {
	server := newResourceServer("never")
	defer server.Close()
	refresher := &countingRefresher{fn: func(int32) (*oauth2.Token, error) { return store.Bearer("t2"), nil }}
	invalidator := &recordingInvalidator{}
	rt, credentials := newTestRoundTripper(t, "t1", refresher, WithInvalidator(invalidator))
	invalidator.store = credentials

	_, err := (&http.Client{Transport: rt}).Get(server.URL + "/users/me")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionInvalid)
	assert.EqualValues(t, 1, atomic.LoadInt32(&refresher.calls))
	assert.EqualValues(t, 2, atomic.LoadInt32(&server.unauthorized))
	require.Equal(t, 1, invalidator.count())
	assert.Equal(t, "t2", invalidator.rejected[0].AccessToken)
	_, ok := credentials.LookupToken(context.Background())
	assert.False(t, ok)
}

func TestRoundTripper_RefreshFailureFailsAllWaiters(t *testing.T) {
	server := newResourceServer("expired")
	defer server.Close()
	refresher := &countingRefresher{delay: 50 * time.Millisecond, fn: func(int32) (*oauth2.Token, error) {
		return nil, errors.New("renewal cookie rejected")
	}}
	invalidator := &recordingInvalidator{}
	rt, credentials := newTestRoundTripper(t, "t1", refresher, WithInvalidator(invalidator))
	invalidator.store = credentials
	client := &http.Client{Transport: rt}

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(server.URL + "/users/me")
			if err == nil {
				_ = resp.Body.Close()
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.ErrorIs(t, err, ErrSessionInvalid)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&refresher.calls))
	assert.Equal(t, 1, invalidator.count())
	assert.EqualValues(t, n, atomic.LoadInt32(&server.unauthorized))
}

func TestRoundTripper_DefaultInvalidationKeepsNewerCredential(t *testing.T) {
	ctx := context.Background()
	server := newResourceServer("never")
	defer server.Close()
	var credentials store.Store
	refresher := &countingRefresher{fn: func(int32) (*oauth2.Token, error) {
		// a new sign-in lands while the refresh is running
		_ = credentials.SetToken(ctx, store.Bearer("signed-in-again"))
		return nil, errors.New("expired renewal")
	}}
	rt, s := newTestRoundTripper(t, "t1", refresher)
	credentials = s

	_, err := (&http.Client{Transport: rt}).Get(server.URL + "/users/me")
	assert.ErrorIs(t, err, ErrSessionInvalid)
	token, ok := credentials.LookupToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "signed-in-again", token.AccessToken)
}

func TestRoundTripper_SignOutDuringRefresh(t *testing.T) {
	ctx := context.Background()
	server := newResourceServer("t2")
	defer server.Close()
	var credentials store.Store
	refresher := &countingRefresher{fn: func(int32) (*oauth2.Token, error) {
		_ = credentials.ClearToken(ctx)
		return store.Bearer("t2"), nil
	}}
	rt, s := newTestRoundTripper(t, "t1", refresher)
	credentials = s

	_, err := (&http.Client{Transport: rt}).Get(server.URL + "/users/me")
	assert.ErrorIs(t, err, ErrSessionInvalid)
	_, ok := credentials.LookupToken(ctx)
	assert.False(t, ok)
}

func TestRoundTripper_Renewer(t *testing.T) {
	testCases := []struct {
		description string
		renewErr    error
		expectErr   bool
	}{
		{description: "committed"},
		{description: "session cleared while refreshing", renewErr: errors.New("not signed in"), expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx := context.Background()
			server := newResourceServer("t2")
			defer server.Close()
			refresher := &countingRefresher{fn: func(int32) (*oauth2.Token, error) { return store.Bearer("t2"), nil }}
			invalidator := &recordingInvalidator{}
			var renewed []string
			var credentials store.Store
			renewer := RenewerFunc(func(ctx context.Context, stale, fresh *oauth2.Token) error {
				renewed = append(renewed, stale.AccessToken+">"+fresh.AccessToken)
				if testCase.renewErr != nil {
					return testCase.renewErr
				}
				return credentials.SetToken(ctx, fresh)
			})
			rt, s := newTestRoundTripper(t, "t1", refresher, WithInvalidator(invalidator), WithRenewer(renewer))
			credentials = s
			invalidator.store = s

			resp, err := (&http.Client{Transport: rt}).Get(server.URL + "/users/me")
			assert.Equal(t, []string{"t1>t2"}, renewed)
			assert.Equal(t, 0, invalidator.count())
			token, ok := credentials.LookupToken(ctx)
			require.True(t, ok)
			if testCase.expectErr {
				assert.ErrorIs(t, err, ErrSessionInvalid)
				assert.Equal(t, "t1", token.AccessToken)
				assert.EqualValues(t, 1, atomic.LoadInt32(&server.unauthorized))
				return
			}
			require.NoError(t, err)
			_ = resp.Body.Close()
			assert.Equal(t, "t2", token.AccessToken)
			assert.Equal(t, []string{"Bearer t1", "Bearer t2"}, server.seen)
		})
	}
}

func TestRoundTripper_RenewalCookieChannel(t *testing.T) {
	var refreshCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/signin":
			http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "renew-1", Path: "/auth", HttpOnly: true})
			_, _ = w.Write([]byte(`{"accessToken":"t1"}`))
		case "/auth/refresh":
			if c, err := r.Cookie("refreshToken"); err == nil {
				refreshCookie = c.Value
			}
			_, _ = w.Write([]byte(`{"accessToken":"t2"}`))
		default:
			if r.Header.Get("Authorization") != "Bearer t2" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	var rt *RoundTripper
	refresher := RefresherFunc(func(ctx context.Context) (*oauth2.Token, error) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodPost, server.URL+"/auth/refresh", nil)
		resp, err := (&http.Client{Transport: rt.Base()}).Do(req)
		if err != nil {
			return nil, err
		}
		_ = resp.Body.Close()
		return store.Bearer("t2"), nil
	})
	rt, _ = newTestRoundTripper(t, "t1", refresher, WithCookieJar(jar))
	public := &http.Client{Transport: rt.Base()}

	resp, err := public.Post(server.URL+"/auth/signin", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = (&http.Client{Transport: rt}).Get(server.URL + "/cart")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "renew-1", refreshCookie)
}

func TestNew_RequiresRefresher(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}
