package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accredited-programmes-ui/internal/tokenstore"
)

// recordingStore wraps the memory store and records writes
type recordingStore struct {
	*tokenstore.MemoryStore
	mu    sync.Mutex
	ttls  map[string]time.Duration
	reads atomic.Int32
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: tokenstore.NewMemoryStore(), ttls: map[string]time.Duration{}}
}

func (s *recordingStore) SetToken(ctx context.Context, key, token string, ttl time.Duration) error {
	s.mu.Lock()
	s.ttls[key] = ttl
	s.mu.Unlock()
	return s.MemoryStore.SetToken(ctx, key, token, ttl)
}

func (s *recordingStore) GetToken(ctx context.Context, key string) (string, error) {
	s.reads.Add(1)
	return s.MemoryStore.GetToken(ctx, key)
}

func (s *recordingStore) ttl(key string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ttl, ok := s.ttls[key]
	return ttl, ok
}

func testAuthClient(t *testing.T, store tokenstore.TokenStore, handler http.HandlerFunc) *HmppsAuthClient {
	upstream := testUpstream(t, handler)
	return NewHmppsAuthClient(upstream, store, HmppsAuthConfig{
		ExternalURL:        "https://auth.example.com/auth",
		APIClientID:        "api-client",
		APIClientSecret:    "api-secret",
		SystemClientID:     "system-client",
		SystemClientSecret: "system-secret",
	}, nil)
}

func tokenHandler(calls *atomic.Int32, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"access_token":%q,"token_type":"bearer","expires_in":300}`, token)
	}
}

func TestGetSystemClientTokenRequestShape(t *testing.T) {
	store := newRecordingStore()
	client := testAuthClient(t, store, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth/token", r.URL.Path)

		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("system-client:system-secret"))
		assert.Equal(t, expected, r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "user1", r.PostForm.Get("username"))
		_, _ = io.WriteString(w, `{"access_token":"token-1","expires_in":300}`)
	})

	token, err := client.GetSystemClientToken(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	require.Eventually(t, func() bool {
		_, ok := store.ttl("user1")
		return ok
	}, time.Second, 5*time.Millisecond)
	ttl, _ := store.ttl("user1")
	assert.Equal(t, 240*time.Second, ttl)
}

func TestGetSystemClientTokenAnonymous(t *testing.T) {
	store := newRecordingStore()
	client := testAuthClient(t, store, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, present := r.PostForm["username"]
		assert.False(t, present)
		_, _ = io.WriteString(w, `{"access_token":"anon-token","expires_in":300}`)
	})

	token, err := client.GetSystemClientToken(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "anon-token", token)

	require.Eventually(t, func() bool {
		_, ok := store.ttl("%ANONYMOUS%")
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestGetSystemClientTokenWarmCache(t *testing.T) {
	var calls atomic.Int32
	store := newRecordingStore()
	client := testAuthClient(t, store, tokenHandler(&calls, "token-1"))

	first, err := client.GetSystemClientToken(context.Background(), "user1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		token, _ := store.MemoryStore.GetToken(context.Background(), "user1")
		return token != ""
	}, time.Second, 5*time.Millisecond)

	second, err := client.GetSystemClientToken(context.Background(), "user1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetSystemClientTokenUsesCachedToken(t *testing.T) {
	var calls atomic.Int32
	store := newRecordingStore()
	require.NoError(t, store.MemoryStore.SetToken(context.Background(), "user1", "cached", time.Minute))
	client := testAuthClient(t, store, tokenHandler(&calls, "fresh"))

	token, err := client.GetSystemClientToken(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, "cached", token)
	assert.Zero(t, calls.Load())
}

func TestGetSystemClientTokenCoalescesConcurrentMisses(t *testing.T) {
	const callers = 8
	var calls atomic.Int32
	release := make(chan struct{})

	store := newRecordingStore()
	client := testAuthClient(t, store, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = io.WriteString(w, `{"access_token":"shared","expires_in":300}`)
	})

	var wg sync.WaitGroup
	tokens := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := client.GetSystemClientToken(context.Background(), "user1")
			assert.NoError(t, err)
			tokens[i] = token
		}(i)
	}

	require.Eventually(t, func() bool {
		return store.reads.Load() == callers && calls.Load() == 1
	}, time.Second, time.Millisecond)
	// give the remaining callers time to join the flight
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, token := range tokens {
		assert.Equal(t, "shared", token)
	}
}

func TestGetSystemClientTokenErrorPropagates(t *testing.T) {
	var calls atomic.Int32
	store := newRecordingStore()
	client := testAuthClient(t, store, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid_client","error_description":"Bad credentials"}`)
	})

	_, err := client.GetSystemClientToken(context.Background(), "user1")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, int32(1), calls.Load())

	time.Sleep(20 * time.Millisecond)
	_, ok := store.ttl("user1")
	assert.False(t, ok)
}

func TestGetUserToken(t *testing.T) {
	client := testAuthClient(t, newRecordingStore(), func(w http.ResponseWriter, r *http.Request) {
		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("api-client:api-secret"))
		assert.Equal(t, expected, r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "http://localhost:3000/sign-in/callback", r.PostForm.Get("redirect_uri"))
		_, _ = io.WriteString(w, `{"access_token":"user-token","expires_in":1200}`)
	})

	resp, err := client.GetUserToken(context.Background(), "the-code", "http://localhost:3000/sign-in/callback")
	require.NoError(t, err)
	assert.Equal(t, "user-token", resp.AccessToken)
}

func TestAuthorizeURL(t *testing.T) {
	client := testAuthClient(t, newRecordingStore(), func(w http.ResponseWriter, r *http.Request) {})

	u := client.AuthorizeURL("http://localhost:3000/sign-in/callback", "state-1")
	assert.True(t, strings.HasPrefix(u, "https://auth.example.com/auth/oauth/authorize?"))
	assert.Contains(t, u, "client_id=api-client")
	assert.Contains(t, u, "state=state-1")
	assert.Contains(t, u, "response_type=code")
}

func TestTokenVerificationClient(t *testing.T) {
	upstream := testUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/verify", r.URL.Path)
		if r.Header.Get("Authorization") == "Bearer good" {
			_, _ = io.WriteString(w, `{"active":true}`)
			return
		}
		_, _ = io.WriteString(w, `{"active":false}`)
	})

	enabled := NewTokenVerificationClient(upstream, true, nil)
	assert.True(t, enabled.Verify(context.Background(), "good"))
	assert.False(t, enabled.Verify(context.Background(), "bad"))

	disabled := NewTokenVerificationClient(upstream, false, nil)
	assert.True(t, disabled.Verify(context.Background(), "bad"))
}
