package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danovak/bookmarkhub/internal/adapter/driving/session"
	"github.com/danovak/bookmarkhub/internal/domain/model"
	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

// mockGateway implements driven.IdentityGateway for handler tests.
type mockGateway struct {
	session      *model.Session
	exchangeErr  error
	exchangeCall int
	gotCode      string
	signInURL    string
}

func (m *mockGateway) SignInURL(_, redirectTo string) string {
	return m.signInURL + "?redirect_to=" + redirectTo
}

func (m *mockGateway) ExchangeCode(_ context.Context, code string) (*model.Session, error) {
	m.exchangeCall++
	m.gotCode = code
	return m.session, m.exchangeErr
}

func (m *mockGateway) CurrentUser(_ context.Context, _ string) (*model.User, error) {
	return nil, errors.New("not used")
}

func testCodec(t *testing.T) *session.Codec {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	codec, err := session.NewCodec(key)
	require.NoError(t, err)
	return codec
}

func newHandler(t *testing.T, gw driven.IdentityGateway) *Handler {
	t.Helper()
	return NewHandler(gw, testCodec(t), "google", "", slog.Default())
}

// csrfRequest builds a POST request carrying a matching CSRF cookie and form field.
func csrfRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: "tok"})
	req.Header.Set("X-CSRF-Token", "tok")
	return req
}

// --- Auth callback decision flow ---

func TestAuthCallback_Success(t *testing.T) {
	gw := &mockGateway{session: &model.Session{AccessToken: "at-123"}}
	h := newHandler(t, gw)

	rec := httptest.NewRecorder()
	h.AuthCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=valid", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	assert.NotContains(t, rec.Header().Get("Location"), "error")
	assert.Equal(t, "valid", gw.gotCode)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestAuthCallback_ExchangeFailure(t *testing.T) {
	gw := &mockGateway{exchangeErr: errors.New("invalid_grant")}
	h := newHandler(t, gw)

	rec := httptest.NewRecorder()
	h.AuthCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=rejected", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=auth_failed", rec.Header().Get("Location"))
	assert.Equal(t, 1, gw.exchangeCall, "a single-use code must never be retried")
	assert.Empty(t, rec.Result().Cookies(), "no session cookie on failed exchange")
	assert.NotContains(t, rec.Body.String(), "invalid_grant", "internal error detail must not reach the client")
}

func TestAuthCallback_MissingCode(t *testing.T) {
	gw := &mockGateway{}
	h := newHandler(t, gw)

	rec := httptest.NewRecorder()
	h.AuthCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=missing_code", rec.Header().Get("Location"))
	assert.Zero(t, gw.exchangeCall, "no exchange attempt without a code")
}

func TestAuthCallback_EmptyCode(t *testing.T) {
	gw := &mockGateway{}
	h := newHandler(t, gw)

	rec := httptest.NewRecorder()
	h.AuthCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=missing_code", rec.Header().Get("Location"))
	assert.Zero(t, gw.exchangeCall)
}

func TestAuthCallback_Unconfigured(t *testing.T) {
	h := newHandler(t, nil)

	rec := httptest.NewRecorder()
	h.AuthCallback(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?code=valid", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"), "no redirect when unconfigured")
	assert.JSONEq(t, `{"error":"identity gateway not configured"}`, rec.Body.String())
}

// --- Sign-in initiation ---

func TestStartLogin(t *testing.T) {
	gw := &mockGateway{signInURL: "https://gw.example/auth/v1/authorize"}
	h := newHandler(t, gw)

	rec := httptest.NewRecorder()
	req := csrfRequest("/auth/login")
	req.Host = "app.example"
	h.StartLogin(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://gw.example/auth/v1/authorize?redirect_to=http://app.example/auth/callback", rec.Header().Get("Location"))
}

func TestStartLogin_PublicURLOverridesHost(t *testing.T) {
	gw := &mockGateway{signInURL: "https://gw.example/authorize"}
	h := NewHandler(gw, testCodec(t), "google", "https://bookmarks.example.com", slog.Default())

	rec := httptest.NewRecorder()
	h.StartLogin(rec, csrfRequest("/auth/login"))

	assert.Contains(t, rec.Header().Get("Location"), "redirect_to=https://bookmarks.example.com/auth/callback")
}

func TestStartLogin_Unconfigured(t *testing.T) {
	h := newHandler(t, nil)

	rec := httptest.NewRecorder()
	h.StartLogin(rec, csrfRequest("/auth/login"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?error=unconfigured", rec.Header().Get("Location"))
}

func TestStartLogin_BadCSRF(t *testing.T) {
	h := newHandler(t, &mockGateway{})

	rec := httptest.NewRecorder()
	h.StartLogin(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// --- Logout ---

func TestLogout(t *testing.T) {
	h := newHandler(t, &mockGateway{})

	rec := httptest.NewRecorder()
	h.Logout(rec, csrfRequest("/auth/logout"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

// --- Pages ---

func TestLogin_RendersErrorMarker(t *testing.T) {
	h := newHandler(t, &mockGateway{})

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/?error=auth_failed", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication failed. Please try again.")
}

func TestLogin_IgnoresUnknownMarker(t *testing.T) {
	h := newHandler(t, &mockGateway{})

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/?error=bogus", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "error-banner")
}

func TestLogin_UnconfiguredShowsHint(t *testing.T) {
	h := newHandler(t, nil)

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "BOOKMARKHUB_GATEWAY_URL")
	assert.NotContains(t, rec.Body.String(), "/auth/login")
}

func TestDashboard_Renders(t *testing.T) {
	h := newHandler(t, &mockGateway{})

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookmark-rows")
	assert.Contains(t, rec.Body.String(), "/static/dashboard.js")
}
