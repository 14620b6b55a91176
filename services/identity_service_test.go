// file: services/identity_service_test.go
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-footy-trivia/models"
	"go-footy-trivia/services"
	"go-footy-trivia/store"
)

func newProvider(t *testing.T) (*services.StoreProvider, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	tokens := services.NewTokenManager("test-secret", "footy-test", time.Hour)
	return services.NewStoreProvider(mem, tokens), mem
}

func TestProvider_SignUpAndSignInRoundtrip(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	created, token, err := p.SignUp(ctx, "Amy", "amy@example.com", "hunter2", models.RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleUser, created.Role)

	id, token, err := p.SignIn(ctx, "amy@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, id.ID)
	assert.Equal(t, "Amy", id.Name)

	// the issued token resolves back to the same identity
	current, err := p.Current(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, current.ID)
	assert.Equal(t, models.RoleUser, current.Role)
}

func TestProvider_SignInRejectsBadCredentials(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	_, _, err := p.SignUp(ctx, "Amy", "amy@example.com", "hunter2", models.RoleUser)
	require.NoError(t, err)

	_, _, err = p.SignIn(ctx, "amy@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCredentials)

	_, _, err = p.SignIn(ctx, "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, services.ErrBadCredentials)
}

func TestProvider_SignUpRejectsDuplicateEmail(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	_, _, err := p.SignUp(ctx, "Amy", "amy@example.com", "hunter2", models.RoleUser)
	require.NoError(t, err)

	_, _, err = p.SignUp(ctx, "Imposter", "amy@example.com", "other", models.RoleAdmin)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestProvider_SignUpNormalisesUnknownRole(t *testing.T) {
	p, _ := newProvider(t)

	id, _, err := p.SignUp(context.Background(), "Amy", "amy@example.com", "hunter2", "superuser")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, id.Role)
}

func TestProvider_PasswordHashNeverStoredPlain(t *testing.T) {
	p, mem := newProvider(t)
	ctx := context.Background()

	id, _, err := p.SignUp(ctx, "Amy", "amy@example.com", "hunter2", models.RoleUser)
	require.NoError(t, err)

	doc, err := mem.Get(ctx, store.CollectionUsers, id.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", doc["passwordHash"])
	assert.NotContains(t, doc, "password")
}

func TestProvider_ChangePassword(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	id, _, err := p.SignUp(ctx, "Amy", "amy@example.com", "hunter2", models.RoleUser)
	require.NoError(t, err)

	assert.ErrorIs(t, p.ChangePassword(ctx, id.ID, "wrong", "newpass"), services.ErrBadCredentials)
	require.NoError(t, p.ChangePassword(ctx, id.ID, "hunter2", "newpass"))

	_, _, err = p.SignIn(ctx, "amy@example.com", "hunter2")
	assert.ErrorIs(t, err, services.ErrBadCredentials)
	_, _, err = p.SignIn(ctx, "amy@example.com", "newpass")
	assert.NoError(t, err)
}

func TestProvider_SubscribeAndUnsubscribe(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	var changes []services.IdentityChange
	unsubscribe := p.Subscribe(func(c services.IdentityChange) {
		changes = append(changes, c)
	})

	id, _, err := p.SignUp(ctx, "Amy", "amy@example.com", "hunter2", models.RoleUser)
	require.NoError(t, err)
	p.SignOut(id.ID)

	require.Len(t, changes, 2)
	assert.True(t, changes[0].SignedIn)
	assert.Equal(t, id.ID, changes[0].Identity.ID)
	assert.False(t, changes[1].SignedIn)

	// after unsubscribing, no further pushes arrive
	unsubscribe()
	unsubscribe() // idempotent
	p.SignOut(id.ID)
	assert.Len(t, changes, 2)
}

// ---------------- session guard ----------------

func TestGuard_AdmitsMatchingRole(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Seed(store.CollectionUsers,
		models.Doc{"id": "u1", "name": "Amy", "email": "amy@example.com", "role": "admin", "createdAt": "2024-01-01T00:00:00Z"},
		models.Doc{"id": "u2", "name": "Bo", "email": "bo@example.com", "role": "user", "createdAt": "2024-01-01T00:00:00Z"},
	)
	guard := services.NewSessionGuard(mem)
	ctx := context.Background()

	id, err := guard.Authorize(ctx, "u1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Amy", id.Name)

	_, err = guard.Authorize(ctx, "u2", models.RoleAdmin)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = guard.Authorize(ctx, "", models.RoleAdmin)
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	// authenticated but without a stored record
	_, err = guard.Authorize(ctx, "ghost", models.RoleAdmin)
	assert.ErrorIs(t, err, services.ErrLookupFailed)
}

func TestGuard_RereadsStoredRoleEveryCheck(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Seed(store.CollectionUsers,
		models.Doc{"id": "u1", "role": "admin", "createdAt": "2024-01-01T00:00:00Z"})
	guard := services.NewSessionGuard(mem)
	ctx := context.Background()

	_, err := guard.Authorize(ctx, "u1", models.RoleAdmin)
	require.NoError(t, err)

	// demote the user: the next check fails even though the earlier one passed
	require.NoError(t, mem.Upsert(ctx, store.CollectionUsers, "u1", models.Doc{"role": "user"}))
	_, err = guard.Authorize(ctx, "u1", models.RoleAdmin)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestGuard_LookupOutage(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.Seed(store.CollectionUsers,
		models.Doc{"id": "u1", "role": "admin", "createdAt": "2024-01-01T00:00:00Z"})
	guard := services.NewSessionGuard(mem)

	mem.FailNext("Get", store.ErrRemoteUnavailable)
	_, err := guard.Authorize(context.Background(), "u1", models.RoleAdmin)
	assert.ErrorIs(t, err, services.ErrLookupFailed)
}
