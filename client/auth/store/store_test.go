package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func TestStores_Contract(t *testing.T) {
	_, rdb := newTestRedis(t)
	var testCases = []struct {
		description string
		store       Store
	}{
		{description: "memory", store: NewMemoryStore()},
		{description: "file", store: NewFileStore(filepath.Join(t.TempDir(), "credential.json"))},
		{description: "redis", store: NewRedisStore(rdb, "browser-1")},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			ctx := context.Background()
			_, ok := testCase.store.LookupToken(ctx)
			assert.False(t, ok)

			require.NoError(t, testCase.store.SetToken(ctx, Bearer("t1")))
			token, ok := testCase.store.LookupToken(ctx)
			require.True(t, ok)
			assert.Equal(t, "t1", token.AccessToken)
			assert.Equal(t, "Bearer", token.TokenType)

			require.NoError(t, testCase.store.SetToken(ctx, Bearer("t2")))
			token, _ = testCase.store.LookupToken(ctx)
			assert.Equal(t, "t2", token.AccessToken)

			assert.ErrorIs(t, testCase.store.SetToken(ctx, Bearer("")), ErrEmptyToken)
			assert.ErrorIs(t, testCase.store.SetToken(ctx, nil), ErrEmptyToken)

			require.NoError(t, testCase.store.ClearToken(ctx))
			_, ok = testCase.store.LookupToken(ctx)
			assert.False(t, ok)
			require.NoError(t, testCase.store.ClearToken(ctx))
		})
	}
}

func TestFileStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "credential.json")
	require.NoError(t, NewFileStore(location).SetToken(ctx, Bearer("persisted")))

	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accessToken"`)

	token, ok := NewFileStore(location).LookupToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "persisted", token.AccessToken)
}

func TestFileStore_CorruptFileIsAbsent(t *testing.T) {
	location := filepath.Join(t.TempDir(), "credential.json")
	require.NoError(t, os.WriteFile(location, []byte("{not json"), 0o600))
	_, ok := NewFileStore(location).LookupToken(context.Background())
	assert.False(t, ok)
}

func TestRedisStore_TTLAndPrefix(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, "abc", WithKeyPrefix("shop:"), WithTTL(time.Minute))
	require.NoError(t, s.SetToken(ctx, Bearer("t1")))
	assert.True(t, mr.Exists("shop:abc"))
	assert.Equal(t, time.Minute, mr.TTL("shop:abc"))

	mr.FastForward(2 * time.Minute)
	_, ok := s.LookupToken(ctx)
	assert.False(t, ok)
}

func TestStore_LookupReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.SetToken(ctx, Bearer("t1")))
	token, _ := s.LookupToken(ctx)
	token.AccessToken = "mutated"
	token, _ = s.LookupToken(ctx)
	assert.Equal(t, "t1", token.AccessToken)
	assert.True(t, SameToken(token, Bearer("t1")))
	assert.False(t, SameToken(token, nil))
}
