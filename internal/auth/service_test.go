package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emojihub/emojihub/internal/shared"
	"github.com/emojihub/emojihub/internal/token"
	"github.com/emojihub/emojihub/internal/users"
)

type fakeStore struct {
	byLogin map[string]*users.User
	byID    map[int64]*users.User
}

func newFakeStore(list ...*users.User) *fakeStore {
	s := &fakeStore{byLogin: map[string]*users.User{}, byID: map[int64]*users.User{}}
	for _, u := range list {
		s.byLogin[u.Login] = u
		s.byID[u.ID] = u
	}
	return s
}

func (s *fakeStore) FindByLogin(_ context.Context, login string) (*users.User, error) {
	u, ok := s.byLogin[login]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeStore) Create(_ context.Context, _ int64, params users.CreateParams) (*users.User, error) {
	if _, ok := s.byLogin[params.Login]; ok {
		return nil, shared.ErrAlreadyExists
	}
	u := &users.User{
		ID:           int64(len(s.byID) + 1),
		Name:         params.Name,
		Surname:      params.Surname,
		Login:        params.Login,
		PasswordHash: params.Password,
	}
	s.byLogin[u.Login] = u
	s.byID[u.ID] = u
	return u, nil
}

// The fake stores the plain password in PasswordHash.
func (s *fakeStore) VerifyPassword(user *users.User, password string) error {
	if user.PasswordHash != password {
		return shared.ErrInvalidCredentials
	}
	return nil
}

func newTestService(t *testing.T, store UserStore, now time.Time) *Service {
	t.Helper()
	codec, err := token.NewCodec("auth-test-secret", token.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	issuer := token.NewIssuer(codec, token.WithIssuerClock(func() time.Time { return now }))
	return NewService(store, codec, issuer)
}

func TestLoginIssuesDecodablePair(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Name: "Alice", Login: "alice", PasswordHash: "s3cretpass"}
	svc := newTestService(t, newFakeStore(alice), now)

	pair, err := svc.Login(context.Background(), "alice", "s3cretpass")
	require.NoError(t, err)

	user, err := svc.CurrentUser(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "alice", user.Login)
}

func TestLoginUnknownUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := newTestService(t, newFakeStore(), now)

	_, err := svc.Login(context.Background(), "ghost", "whatever1")
	require.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Login: "alice", PasswordHash: "s3cretpass"}
	svc := newTestService(t, newFakeStore(alice), now)

	_, err := svc.Login(context.Background(), "alice", "wrong-pass")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestRefreshMintsNewAccessToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Login: "alice", PasswordHash: "s3cretpass"}
	svc := newTestService(t, newFakeStore(alice), now)

	pair, err := svc.Login(context.Background(), "alice", "s3cretpass")
	require.NoError(t, err)

	access, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	user, err := svc.CurrentUser(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Login: "alice", PasswordHash: "s3cretpass"}
	svc := newTestService(t, newFakeStore(alice), now)

	pair, err := svc.Login(context.Background(), "alice", "s3cretpass")
	require.NoError(t, err)

	// An access token presented at the refresh endpoint must not pass.
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestRefreshForDeletedUser(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Login: "alice", PasswordHash: "s3cretpass"}
	store := newFakeStore(alice)
	svc := newTestService(t, store, now)

	pair, err := svc.Login(context.Background(), "alice", "s3cretpass")
	require.NoError(t, err)

	delete(store.byID, 42)
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestCurrentUserRejectsRefreshToken(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Login: "alice", PasswordHash: "s3cretpass"}
	svc := newTestService(t, newFakeStore(alice), now)

	pair, err := svc.Login(context.Background(), "alice", "s3cretpass")
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, shared.ErrInvalidToken)
}

func TestCurrentUserExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	alice := &users.User{ID: 42, Login: "alice", PasswordHash: "s3cretpass"}
	store := newFakeStore(alice)

	earlySvc := newTestService(t, store, issuedAt)
	pair, err := earlySvc.Login(context.Background(), "alice", "s3cretpass")
	require.NoError(t, err)

	lateSvc := newTestService(t, store, issuedAt.Add(2*time.Hour))
	_, err = lateSvc.CurrentUser(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, shared.ErrTokenExpired)
}
