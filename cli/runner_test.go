package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/storefront/client/auth/mock"
	"github.com/viant/storefront/client/session"
	"github.com/viant/storefront/client/state"
)

type cliFixture struct {
	backend *mock.Service
	global  []string
}

func newCLIFixture(t *testing.T) *cliFixture {
	backend := mock.New()
	backend.AddUser(state.Profile{Name: "An", Email: "an@example.com"}, "secret1")
	backend.SetCart("an@example.com", state.Cart{Items: []state.CartItem{{ProductID: "p1", Price: 10, Quantity: 4}}})
	server := httptest.NewServer(backend.Handler())
	t.Cleanup(server.Close)
	dir := t.TempDir()
	return &cliFixture{backend: backend, global: []string{
		"--url", server.URL,
		"--credential", filepath.Join(dir, "credential.json"),
		"--cookies", filepath.Join(dir, "cookies.json"),
		"--log-level", "error",
	}}
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	out := &bytes.Buffer{}
	err := New(out).Run(context.Background(), append(append([]string{}, f.global...), args...))
	return out.String(), err
}

func TestRunner_SessionAcrossRuns(t *testing.T) {
	f := newCLIFixture(t)

	_, err := f.run(t, "whoami")
	assert.True(t, errors.Is(err, session.ErrSignedOut))

	output, err := f.run(t, "signin", "-e", "an@example.com", "-p", "secret1")
	require.NoError(t, err)
	profile := state.Profile{}
	require.NoError(t, json.Unmarshal([]byte(output), &profile))
	assert.Equal(t, "An", profile.Name)

	// the next run restores the credential and refreshes through the stored cookie
	f.backend.ExpireAccessTokens()
	output, err = f.run(t, "cart")
	require.NoError(t, err)
	cart := state.Cart{}
	require.NoError(t, json.Unmarshal([]byte(output), &cart))
	assert.Equal(t, 4, cart.Count())
	assert.Equal(t, 1, f.backend.RefreshCount())

	output, err = f.run(t, "admin")
	assert.True(t, errors.Is(err, ErrAccessDenied))
	assert.Contains(t, output, "denied")

	output, err = f.run(t, "update-profile", "--name", "An Le", "--province", "Hue")
	require.NoError(t, err)
	assert.Contains(t, output, "An Le")

	avatar := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(avatar, []byte("png"), 0o600))
	output, err = f.run(t, "avatar", "--file", avatar)
	require.NoError(t, err)
	assert.Contains(t, output, ".png")

	_, err = f.run(t, "signout")
	require.NoError(t, err)
	_, err = f.run(t, "whoami")
	assert.True(t, errors.Is(err, session.ErrSignedOut))
}

func TestRunner_Passwords(t *testing.T) {
	f := newCLIFixture(t)
	_, err := f.run(t, "signup", "-n", "Binh", "-e", "binh@example.com", "-p", "secret1")
	require.NoError(t, err)
	_, err = f.run(t, "forgot-password", "-e", "binh@example.com")
	require.NoError(t, err)
	token, ok := f.backend.ResetToken("binh@example.com")
	require.True(t, ok)
	_, err = f.run(t, "reset-password", "-t", token, "-p", "secret2")
	require.NoError(t, err)

	_, err = f.run(t, "signin", "-e", "binh@example.com", "-p", "secret2")
	require.NoError(t, err)
	_, err = f.run(t, "change-password", "--current", "secret2", "--new", "secret3")
	require.NoError(t, err)
	_, err = f.run(t, "whoami")
	assert.True(t, errors.Is(err, session.ErrSignedOut))
}

func TestRunner_RequiresCommand(t *testing.T) {
	err := New(&bytes.Buffer{}).Run(context.Background(), []string{"--url", "http://localhost"})
	assert.Error(t, err)
}
