package permissions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emojihub/emojihub/internal/shared"
)

type fakeGrantRepo struct {
	catalog map[string]*Permission
	grants  map[int64]map[int64]bool
	users   map[int64]bool
	nextID  int64
}

func newFakeGrantRepo(names ...string) *fakeGrantRepo {
	f := &fakeGrantRepo{
		catalog: map[string]*Permission{},
		grants:  map[int64]map[int64]bool{},
		users:   map[int64]bool{},
	}
	for _, name := range names {
		f.nextID++
		f.catalog[name] = &Permission{ID: f.nextID, Name: name, CreatedAt: time.Now()}
	}
	return f
}

func (f *fakeGrantRepo) addUser(id int64) { f.users[id] = true }

func (f *fakeGrantRepo) grant(userID int64, name string) {
	p := f.catalog[name]
	if f.grants[userID] == nil {
		f.grants[userID] = map[int64]bool{}
	}
	f.grants[userID][p.ID] = true
}

func (f *fakeGrantRepo) Create(_ context.Context, name, description string) (*Permission, error) {
	if _, ok := f.catalog[name]; ok {
		return nil, shared.ErrAlreadyExists
	}
	f.nextID++
	p := &Permission{ID: f.nextID, Name: name, Description: description, CreatedAt: time.Now()}
	f.catalog[name] = p
	return p, nil
}

func (f *fakeGrantRepo) List(context.Context) ([]Permission, error) {
	out := make([]Permission, 0, len(f.catalog))
	for _, p := range f.catalog {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeGrantRepo) GetByName(_ context.Context, name string) (*Permission, error) {
	p, ok := f.catalog[name]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (f *fakeGrantRepo) PermissionsOf(_ context.Context, userID int64) ([]string, error) {
	var names []string
	for _, p := range f.catalog {
		if f.grants[userID][p.ID] {
			names = append(names, p.Name)
		}
	}
	return names, nil
}

func (f *fakeGrantRepo) Assign(_ context.Context, userID, permissionID int64) error {
	if !f.users[userID] {
		return shared.ErrNotFound
	}
	if f.grants[userID] == nil {
		f.grants[userID] = map[int64]bool{}
	}
	f.grants[userID][permissionID] = true
	return nil
}

func (f *fakeGrantRepo) Revoke(_ context.Context, userID, permissionID int64) error {
	if !f.users[userID] {
		return shared.ErrUserNotFound
	}
	delete(f.grants[userID], permissionID)
	return nil
}

func TestCreateNormalizesName(t *testing.T) {
	repo := newFakeGrantRepo()
	svc := NewService(repo, nil, nil, nil)

	created, err := svc.Create(context.Background(), 1, "  Emoji:Create  ", " allows adding emojis ")
	require.NoError(t, err)
	assert.Equal(t, "emoji:create", created.Name)
	assert.Equal(t, "allows adding emojis", created.Description)

	_, err = svc.Create(context.Background(), 1, "emoji:create", "")
	require.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestAssignAndRevokeRoundTrip(t *testing.T) {
	repo := newFakeGrantRepo("emoji:read", "emoji:create")
	repo.addUser(7)
	svc := NewService(repo, nil, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.Assign(ctx, 1, 7, "emoji:read"))
	require.NoError(t, svc.Assign(ctx, 1, 7, "emoji:read")) // idempotent

	got, err := svc.PermissionsOf(ctx, 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"emoji:read"}, got)

	require.NoError(t, svc.Revoke(ctx, 1, 7, "emoji:read"))
	require.NoError(t, svc.Revoke(ctx, 1, 7, "emoji:read")) // idempotent

	got, err = svc.PermissionsOf(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAssignUnknownPermission(t *testing.T) {
	repo := newFakeGrantRepo("emoji:read")
	repo.addUser(7)
	svc := NewService(repo, nil, nil, nil)

	err := svc.Assign(context.Background(), 1, 7, "no:such")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRevokeUnknownUser(t *testing.T) {
	repo := newFakeGrantRepo("emoji:read")
	svc := NewService(repo, nil, nil, nil)

	err := svc.Revoke(context.Background(), 1, 999, "emoji:read")
	require.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestAssignInvalidatesCache(t *testing.T) {
	repo := newFakeGrantRepo("emoji:read")
	repo.addUser(7)
	cache := NewCache(repo, nil, nil)
	svc := NewService(repo, cache, nil, nil)
	ctx := context.Background()

	before, err := svc.PermissionsOf(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, before)

	require.NoError(t, svc.Assign(ctx, 1, 7, "emoji:read"))

	after, err := svc.PermissionsOf(ctx, 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"emoji:read"}, after)
}
