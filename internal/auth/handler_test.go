package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emojihub/emojihub/internal/permissions"
	"github.com/emojihub/emojihub/internal/users"
)

type staticChecker struct {
	granted map[int64][]string
}

func (c staticChecker) PermissionsOf(_ context.Context, userID int64) ([]string, error) {
	return c.granted[userID], nil
}

func newTestRouter(t *testing.T, svc *Service, granted map[int64][]string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	guard := permissions.Guard{Service: staticChecker{granted: granted}, Logger: logger}
	handler := NewHandler(logger, svc, guard)
	r := chi.NewRouter()
	r.Route("/auth", handler.MountRoutes)
	return r
}

func postJSON(t *testing.T, h http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginThenMeFlow(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Name: "Alice", Surname: "Smith", Login: "alice", PasswordHash: "s3cretpass"}
	svc := newTestService(t, newFakeStore(alice), now)
	router := newTestRouter(t, svc, nil)

	rec := postJSON(t, router, "/auth/login", map[string]string{"login": "alice", "password": "s3cretpass"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pair tokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	rec = postJSON(t, router, "/auth/me", nil, map[string]string{HeaderAccessToken: pair.AccessToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var me users.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, int64(42), me.ID)
	assert.Equal(t, "alice", me.Login)
}

func TestLoginBadPasswordIsUnauthorized(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Login: "alice", PasswordHash: "s3cretpass"}
	svc := newTestService(t, newFakeStore(alice), now)
	router := newTestRouter(t, svc, nil)

	rec := postJSON(t, router, "/auth/login", map[string]string{"login": "alice", "password": "nope-nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithoutTokenIsUnauthorized(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, newFakeStore(), now)
	router := newTestRouter(t, svc, nil)

	rec := postJSON(t, router, "/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeWithTamperedTokenIsUnauthorized(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Login: "alice", PasswordHash: "s3cretpass"}
	svc := newTestService(t, newFakeStore(alice), now)
	router := newTestRouter(t, svc, nil)

	rec := postJSON(t, router, "/auth/login", map[string]string{"login": "alice", "password": "s3cretpass"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pair tokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	tampered := pair.AccessToken[:len(pair.AccessToken)-2] + "xx"
	rec = postJSON(t, router, "/auth/me", nil, map[string]string{HeaderAccessToken: tampered})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshEndpointUsesTokenHeader(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Login: "alice", PasswordHash: "s3cretpass"}
	svc := newTestService(t, newFakeStore(alice), now)
	router := newTestRouter(t, svc, nil)

	rec := postJSON(t, router, "/auth/login", map[string]string{"login": "alice", "password": "s3cretpass"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pair tokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	rec = postJSON(t, router, "/auth/refresh", nil, map[string]string{HeaderRefreshToken: pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	var access accessTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &access))
	assert.NotEmpty(t, access.AccessToken)

	// The access token is not accepted in the refresh header.
	rec = postJSON(t, router, "/auth/refresh", nil, map[string]string{HeaderRefreshToken: pair.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterRequiresPermission(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	admin := &users.User{ID: 1, Login: "admin", PasswordHash: "adminpass1"}
	plain := &users.User{ID: 2, Login: "plain", PasswordHash: "plainpass1"}
	svc := newTestService(t, newFakeStore(admin, plain), now)
	router := newTestRouter(t, svc, map[int64][]string{1: {"user:create"}})

	login := func(login, password string) string {
		rec := postJSON(t, router, "/auth/login", map[string]string{"login": login, "password": password}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var pair tokenPairResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
		return pair.AccessToken
	}

	body := map[string]string{"name": "Bob", "surname": "Jones", "login": "bob", "password": "longenough"}

	rec := postJSON(t, router, "/auth/register", body, map[string]string{HeaderAccessToken: login("plain", "plainpass1")})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = postJSON(t, router, "/auth/register", body, map[string]string{HeaderAccessToken: login("admin", "adminpass1")})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created users.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "bob", created.Login)
}

func TestRegisterValidatesInput(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	admin := &users.User{ID: 1, Login: "admin", PasswordHash: "adminpass1"}
	svc := newTestService(t, newFakeStore(admin), now)
	router := newTestRouter(t, svc, map[int64][]string{1: {"user:create"}})

	rec := postJSON(t, router, "/auth/login", map[string]string{"login": "admin", "password": "adminpass1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pair tokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	headers := map[string]string{HeaderAccessToken: pair.AccessToken}

	// Password shorter than eight characters.
	rec = postJSON(t, router, "/auth/register",
		map[string]string{"name": "Bob", "surname": "Jones", "login": "bob", "password": "short"}, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Name longer than twenty characters.
	rec = postJSON(t, router, "/auth/register",
		map[string]string{"name": "aaaaaaaaaaaaaaaaaaaaa", "surname": "Jones", "login": "bob2", "password": "longenough"}, headers)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
