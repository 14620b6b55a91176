// Package services: services/identity_service.go
// Session Guard and the identity provider boundary. The provider resolves
// who the current user is; Authorize decides whether that user may see a
// role-gated view by re-reading the stored role from the users collection.
//
// Identity change notification is an explicit subscription with an
// unsubscribe handle, not ambient global state: components that care about
// sign-in/sign-out hold their own subscription for exactly as long as they
// live.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-footy-trivia/logger"
	"go-footy-trivia/models"
	"go-footy-trivia/store"
)

// Session guard failures.
var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrUnauthorized    = errors.New("access denied")
	ErrLookupFailed    = errors.New("role lookup failed")
	ErrBadCredentials  = errors.New("wrong email or password")
	ErrEmailTaken      = errors.New("email already registered")
)

// IdentityChange is pushed to subscribers on sign-in (SignedIn=true) and
// sign-out (SignedIn=false).
type IdentityChange struct {
	Identity models.Identity
	SignedIn bool
}

// Provider is the identity/session boundary the console consumes.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (models.Identity, string, error)
	SignUp(ctx context.Context, name, email, password, role string) (models.Identity, string, error)
	SignOut(uid string)
	Current(token string) (models.Identity, error)
	ChangePassword(ctx context.Context, uid, oldPassword, newPassword string) error
	Subscribe(fn func(IdentityChange)) (unsubscribe func())
}

// ----------------------- store-backed provider -----------------------

// StoreProvider implements Provider against the users collection: bcrypt
// password hashes live on the user documents, and sign-in issues a signed ID
// token the session carries.
type StoreProvider struct {
	store  store.Store
	tokens *TokenManager

	mu      sync.Mutex
	nextSub int
	subs    map[int]func(IdentityChange)
}

var _ Provider = (*StoreProvider)(nil)

// NewStoreProvider wires a provider over the store and token manager.
func NewStoreProvider(st store.Store, tokens *TokenManager) *StoreProvider {
	return &StoreProvider{store: st, tokens: tokens, subs: make(map[int]func(IdentityChange))}
}

// SignIn verifies the password against the stored hash and issues an ID
// token. The users collection is keyed by uid, so the email is resolved with
// a fetch-all scan; collections are small enough that this is fine.
func (p *StoreProvider) SignIn(ctx context.Context, email, password string) (models.Identity, string, error) {
	docs, err := p.store.FetchAll(ctx, store.CollectionUsers)
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	for _, d := range docs {
		if d.GetString("email", "") != email {
			continue
		}
		hash := d.GetString("passwordHash", "")
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			return models.Identity{}, "", ErrBadCredentials
		}
		id, derr := models.DecodeIdentity(d)
		if derr != nil {
			return models.Identity{}, "", fmt.Errorf("%w: %v", ErrLookupFailed, derr)
		}
		token, terr := p.tokens.Issue(id)
		if terr != nil {
			return models.Identity{}, "", fmt.Errorf("%w: %v", ErrLookupFailed, terr)
		}
		logger.Info.Printf("identity: %s signed in", id.ID)
		p.notifySubs(IdentityChange{Identity: id, SignedIn: true})
		return id, token, nil
	}
	return models.Identity{}, "", ErrBadCredentials
}

// SignUp creates the user record (uid assigned here, createdAt stamped) and
// signs the new user in.
func (p *StoreProvider) SignUp(ctx context.Context, name, email, password, role string) (models.Identity, string, error) {
	if role != models.RoleAdmin && role != models.RoleUser {
		role = models.RoleUser
	}

	docs, err := p.store.FetchAll(ctx, store.CollectionUsers)
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	for _, d := range docs {
		if d.GetString("email", "") == email {
			return models.Identity{}, "", ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	id := models.Identity{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	doc := id.Doc()
	doc["passwordHash"] = string(hash)

	if err := p.store.Upsert(ctx, store.CollectionUsers, id.ID, doc); err != nil {
		return models.Identity{}, "", err
	}

	token, err := p.tokens.Issue(id)
	if err != nil {
		return models.Identity{}, "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	logger.Info.Printf("identity: %s signed up with role %s", id.ID, role)
	p.notifySubs(IdentityChange{Identity: id, SignedIn: true})
	return id, token, nil
}

// SignOut notifies subscribers. The session cookie itself is cleared by the
// auth controller.
func (p *StoreProvider) SignOut(uid string) {
	logger.Info.Printf("identity: %s signed out", uid)
	p.notifySubs(IdentityChange{Identity: models.Identity{ID: uid}, SignedIn: false})
}

// Current resolves the identity carried by the session's ID token.
func (p *StoreProvider) Current(token string) (models.Identity, error) {
	if token == "" {
		return models.Identity{}, ErrUnauthenticated
	}
	id, err := p.tokens.Verify(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return id, nil
}

// ChangePassword verifies the old password before merge-writing the new
// hash. Only the passwordHash field is touched.
func (p *StoreProvider) ChangePassword(ctx context.Context, uid, oldPassword, newPassword string) error {
	doc, err := p.store.Get(ctx, store.CollectionUsers, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLookupFailed
		}
		return err
	}
	hash := doc.GetString("passwordHash", "")
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(oldPassword)) != nil {
		return ErrBadCredentials
	}
	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return p.store.Upsert(ctx, store.CollectionUsers, uid, models.Doc{"passwordHash": string(newHash)})
}

// Subscribe registers fn for identity change pushes and returns the matching
// unsubscribe. The returned func is idempotent.
func (p *StoreProvider) Subscribe(fn func(IdentityChange)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextSub++
	key := p.nextSub
	p.subs[key] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, key)
	}
}

func (p *StoreProvider) notifySubs(change IdentityChange) {
	p.mu.Lock()
	fns := make([]func(IdentityChange), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(change)
	}
}

// ----------------------- session guard -----------------------

// SessionGuard authorizes gated views. The stored role is re-read on every
// check so a role change takes effect without a new sign-in.
type SessionGuard struct {
	store store.Store
}

// NewSessionGuard creates a guard over the users collection.
func NewSessionGuard(st store.Store) *SessionGuard {
	return &SessionGuard{store: st}
}

// Authorize resolves the identity's stored record and checks its role.
// Failures are terminal for the view: the caller redirects and surfaces a
// one-line notification, with no automatic retry.
func (g *SessionGuard) Authorize(ctx context.Context, uid, requiredRole string) (models.Identity, error) {
	if uid == "" {
		return models.Identity{}, ErrUnauthenticated
	}
	doc, err := g.store.Get(ctx, store.CollectionUsers, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Warn.Printf("guard: no user record for %s", uid)
			return models.Identity{}, ErrLookupFailed
		}
		return models.Identity{}, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	id, err := models.DecodeIdentity(doc)
	if err != nil {
		return models.Identity{}, ErrLookupFailed
	}
	if id.Role != requiredRole {
		logger.Warn.Printf("guard: %s holds role %q, needs %q", uid, id.Role, requiredRole)
		return models.Identity{}, ErrUnauthorized
	}
	return id, nil
}
