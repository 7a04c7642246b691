package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithHTTPClient(srv.Client(), srv.URL, "test-anon-key")
}

func TestSignInURL(t *testing.T) {
	c := NewClientWithHTTPClient(nil, "https://abc.supabase.co/", "key")

	got := c.SignInURL("google", "http://localhost:8080/auth/callback")

	assert.Contains(t, got, "https://abc.supabase.co/auth/v1/authorize?")
	assert.Contains(t, got, "provider=google")
	assert.Contains(t, got, "redirect_to=http%3A%2F%2Flocalhost%3A8080%2Fauth%2Fcallback")
}

func TestExchangeCode_Success(t *testing.T) {
	var gotAPIKey, gotGrant string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/v1/token", r.URL.Path)
		gotAPIKey = r.Header.Get("apikey")
		require.NoError(t, r.ParseForm())
		gotGrant = r.PostFormValue("grant_type")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-123","token_type":"bearer","expires_in":3600,"refresh_token":"rt-456"}`))
	}))

	sess, err := c.ExchangeCode(context.Background(), "valid-code")

	require.NoError(t, err)
	assert.Equal(t, "test-anon-key", gotAPIKey)
	assert.Equal(t, "authorization_code", gotGrant)
	assert.Equal(t, "at-123", sess.AccessToken)
	assert.Equal(t, "rt-456", sess.RefreshToken)
	assert.Equal(t, "Bearer", sess.TokenType)
}

func TestExchangeCode_Rejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))

	sess, err := c.ExchangeCode(context.Background(), "used-code")

	assert.Error(t, err)
	assert.Nil(t, sess)
	assert.Contains(t, err.Error(), "400")
}

func TestExchangeCode_EmptyToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := c.ExchangeCode(context.Background(), "code")
	assert.Error(t, err)
}

func TestCurrentUser_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		require.Equal(t, "Bearer at-123", r.Header.Get("Authorization"))
		require.Equal(t, "test-anon-key", r.Header.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"u@example.com"}`))
	}))

	user, err := c.CurrentUser(context.Background(), "at-123")

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "u@example.com", user.Email)
}

func TestCurrentUser_RejectedToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.CurrentUser(context.Background(), "expired")
	assert.ErrorIs(t, err, driven.ErrUnauthenticated)
}

func TestCurrentUser_EmptyID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := c.CurrentUser(context.Background(), "at-123")
	assert.ErrorIs(t, err, driven.ErrUnauthenticated)
}
