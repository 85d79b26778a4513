package transport

import (
	"net/http"
	neturl "net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileJar_PersistsRenewalCookie(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	u, err := neturl.Parse("http://127.0.0.1:8080/auth/signin")
	require.NoError(t, err)
	refresh, _ := neturl.Parse("http://127.0.0.1:8080/auth/refresh")

	jar, err := NewFileJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "renew-1", Path: "/auth", HttpOnly: true, MaxAge: 3600}})

	reloaded, err := NewFileJar(path)
	require.NoError(t, err)
	cookies := reloaded.Cookies(refresh)
	require.Len(t, cookies, 1)
	assert.Equal(t, "renew-1", cookies[0].Value)

	reloaded.SetCookies(u, []*http.Cookie{{Name: "refreshToken", Value: "", Path: "/auth", MaxAge: -1}})
	assert.Empty(t, reloaded.Cookies(refresh))

	cleared, err := NewFileJar(path)
	require.NoError(t, err)
	assert.Empty(t, cleared.Cookies(refresh))
}

func TestWrapWithCookieJar_NilJar(t *testing.T) {
	assert.Equal(t, http.DefaultTransport, WrapWithCookieJar(http.DefaultTransport, nil))
}
