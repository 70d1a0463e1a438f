package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/raffle-web/internal/auth"
	"github.com/vietanh2810/raffle-web/internal/config"
	"github.com/vietanh2810/raffle-web/internal/db"
	"github.com/vietanh2810/raffle-web/internal/domain"
	"github.com/vietanh2810/raffle-web/internal/live"
	"github.com/vietanh2810/raffle-web/internal/view"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:   "test",
			Port:          "0",
			BaseURL:       "localhost",
			JWTSigningKey: "test-signing-key-0123456789",
			TokenTTL:      time.Hour,
		},
		Gin:      &config.GinConfig{Mode: "test"},
		Database: &config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		Session: &config.SessionConfig{
			CookieName: "raffle_session",
			PrefsName:  "raffle_prefs",
			PrefsKey:   "0123456789abcdef0123456789abcdef",
			CSRFKey:    "abcdef0123456789abcdef0123456789",
		},
	}

	conn, err := db.Open(conf.Database)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	renderer, err := view.New()
	require.NoError(t, err)

	return NewServer(conf, conn, renderer, live.NewHub(nil))
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("User-Agent", "raffle-test")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func TestServer_Pages(t *testing.T) {
	s := newTestServer(t)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "No raffles match your filters.")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(s, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="csrf_token"`)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/static/live.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Form posts need the csrf token.
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=a%40b.co&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = serve(s, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/account", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

var csrfFieldPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func TestServer_LoginFormWithCSRFToken(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"ana@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	require.Equal(t, http.StatusCreated, serve(s, req).Code)

	w := serve(s, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)
	match := csrfFieldPattern.FindStringSubmatch(w.Body.String())
	require.Len(t, match, 2)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	form := url.Values{"email": {"ana@example.com"}, "password": {"secret123"}, "csrf_token": {match[1]}}
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = serve(s, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/account", w.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "raffle_session" {
			session = c
		}
	}
	require.NotNil(t, session)

	req = httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(session)
	w = serve(s, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Account #")

	// A token from another form load does not pass without its cookie.
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusForbidden, serve(s, req).Code)
}

func TestServer_APISession(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"ana@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(s, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp domain.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = serve(s, req)
	require.Equal(t, http.StatusOK, w.Code)

	var st auth.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.True(t, st.Authenticated)
	assert.Equal(t, "ana@example.com", st.Identity.Email)
	assert.Len(t, st.Identity.UserNumber, 8)

	// Same email again.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"ana@example.com","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusConflict, serve(s, req).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ana@example.com","password":"wrong123"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)

	w = serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/items/1", nil)).Code)
}

func TestTrustedOrigins(t *testing.T) {
	assert.Equal(t,
		[]string{"raffle.example", "localhost:3000"},
		trustedOrigins([]string{"https://raffle.example", "http://localhost:3000", "not a url", ""}))
}
