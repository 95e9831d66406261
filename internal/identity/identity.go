// Package identity tracks the principal bound to a session. A Service holds
// the shared collaborators; each session gets its own Store.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/events"
	"github.com/Skotchmaster/food_storefront/internal/models"
	"github.com/Skotchmaster/food_storefront/internal/session"
	pkg_hash "github.com/Skotchmaster/food_storefront/pkg/hash"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

type Directory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// LogoutHook runs after a principal signs out. Errors are logged only.
type LogoutHook func(ctx context.Context, p domain.Principal) error

type Service struct {
	Directory Directory
	Codec     *session.Codec
	Events    events.Publisher

	// DemoLogin accepts any password for a known email and skips the
	// duplicate-email check on register. Demo only.
	DemoLogin bool

	mu    sync.RWMutex
	hooks []LogoutHook
}

func (s *Service) OnLogout(h LogoutHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

func (s *Service) logoutHooks() []LogoutHook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LogoutHook, len(s.hooks))
	copy(out, s.hooks)
	return out
}

// NewStore returns a store for one session, still loading until Restore runs.
func (s *Service) NewStore(storage session.Storage) *Store {
	return &Store{svc: s, storage: storage, loading: true}
}

type RegisterInput struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Role     domain.Role    `json:"role"`
	Country  domain.Country `json:"country"`
}

// Snapshot is a consistent view of a store at one instant.
type Snapshot struct {
	Principal *domain.Principal `json:"principal"`
	Loading   bool              `json:"loading"`
}

type Store struct {
	svc     *Service
	storage session.Storage

	mu        sync.RWMutex
	loading   bool
	principal *domain.Principal
}

func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	snap := Snapshot{Loading: st.loading}
	if st.principal != nil {
		p := *st.principal
		snap.Principal = &p
	}
	return snap
}

// Current is nil both while loading and when nobody is signed in; use
// Loading or Snapshot to tell them apart.
func (st *Store) Current() *domain.Principal {
	return st.Snapshot().Principal
}

func (st *Store) Loading() bool {
	return st.Snapshot().Loading
}

// Restore resolves the session from storage. A corrupt token is dropped and
// the session continues anonymously.
func (st *Store) Restore(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "identity.restore")

	var restored *domain.Principal
	if token, ok := st.storage.Get(session.TokenKey); ok && token != "" {
		p, err := st.svc.Codec.Restore(token)
		if err != nil {
			l.Info("session_dropped", "reason", "corrupt token", "error", err)
			st.storage.Remove(session.TokenKey)
		} else {
			restored = &p
		}
	}

	st.mu.Lock()
	st.principal = restored
	st.loading = false
	st.mu.Unlock()
}

func (st *Store) Login(ctx context.Context, email, password string) (domain.Principal, error) {
	l := logging.FromContext(ctx).With("svc", "identity.login")

	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.Principal{}, fmt.Errorf("email is required: %w", domain.ErrInvalidCredentials)
	}

	user, err := st.svc.Directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return domain.Principal{}, fmt.Errorf("login %s: %w", email, domain.ErrInvalidCredentials)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return domain.Principal{}, err
	}

	if !st.svc.DemoLogin && !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return domain.Principal{}, fmt.Errorf("login %s: %w", email, domain.ErrInvalidCredentials)
	}

	p := user.Principal()
	st.switchFrom(ctx, p.ID)
	if err := st.activate(p); err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot save session", "error", err)
		return domain.Principal{}, err
	}

	events.Emit(ctx, st.svc.Events, events.TopicUsers, p.ID, events.UserLoggedIn, p)
	l.Info("login_successful", "user_id", p.ID, "role", p.Role)
	return p, nil
}

func (st *Store) Register(ctx context.Context, in RegisterInput) (domain.Principal, error) {
	l := logging.FromContext(ctx).With("svc", "identity.register")

	in.Email = domain.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.Email == "" {
		return domain.Principal{}, fmt.Errorf("name and email are required: %w", domain.ErrValidation)
	}
	if !in.Role.Valid() {
		return domain.Principal{}, fmt.Errorf("role %q is unknown: %w", in.Role, domain.ErrValidation)
	}
	if !in.Country.Valid() {
		return domain.Principal{}, fmt.Errorf("country %q is unknown: %w", in.Country, domain.ErrValidation)
	}

	if !st.svc.DemoLogin {
		if in.Password == "" {
			return domain.Principal{}, fmt.Errorf("password is required: %w", domain.ErrValidation)
		}
		_, err := st.svc.Directory.FindByEmail(ctx, in.Email)
		switch {
		case err == nil:
			l.Warn("register_failed", "status", 400, "reason", "email already registered")
			return domain.Principal{}, fmt.Errorf("email %s already registered: %w", in.Email, domain.ErrValidation)
		case !errors.Is(err, domain.ErrNotFound):
			return domain.Principal{}, err
		}
	}

	user := &models.User{Name: in.Name, Email: in.Email, Role: in.Role, Country: in.Country}
	if in.Password != "" {
		pwHash, err := pkg_hash.HashPassword(in.Password)
		if err != nil {
			l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
			return domain.Principal{}, err
		}
		user.PasswordHash = pwHash
	}
	if err := st.svc.Directory.Create(ctx, user); err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return domain.Principal{}, err
	}

	p := user.Principal()
	st.switchFrom(ctx, p.ID)
	if err := st.activate(p); err != nil {
		return domain.Principal{}, err
	}

	events.Emit(ctx, st.svc.Events, events.TopicUsers, p.ID, events.UserRegistered, p)
	l.Info("register_successful", "user_id", p.ID)
	return p, nil
}

// Logout clears the session and then runs the logout hooks.
func (st *Store) Logout(ctx context.Context) {
	st.mu.Lock()
	prev := st.principal
	st.principal = nil
	st.loading = false
	st.storage.Remove(session.TokenKey)
	st.mu.Unlock()

	if prev != nil {
		st.signedOut(ctx, *prev)
	}
}

// switchFrom logs out the current principal when nextID is someone else, so
// an identity change runs the same hooks as an explicit logout.
func (st *Store) switchFrom(ctx context.Context, nextID string) {
	cur := st.Current()
	if cur == nil || cur.ID == nextID {
		return
	}
	st.Logout(ctx)
}

func (st *Store) signedOut(ctx context.Context, prev domain.Principal) {
	l := logging.FromContext(ctx).With("svc", "identity.logout")
	for _, h := range st.svc.logoutHooks() {
		if err := h(ctx, prev); err != nil {
			l.Warn("logout_hook_failed", "user_id", prev.ID, "error", err)
		}
	}
	events.Emit(ctx, st.svc.Events, events.TopicUsers, prev.ID, events.UserLoggedOut, nil)
	l.Info("successful_logout", "user_id", prev.ID)
}

func (st *Store) activate(p domain.Principal) error {
	token, err := st.svc.Codec.Save(p)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.storage.Set(session.TokenKey, token)
	st.principal = &p
	st.loading = false
	return nil
}
