package session

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

type (
	// Repository keeps the Stores of all live sessions, keyed by session id.
	Repository interface {
		CreateSession(ctx context.Context, id string, store *Store) error
		// WithSession runs fn with exclusive access to the Store of session `id`.
		WithSession(ctx context.Context, id string, fn func(*Store) error) error
		DeleteSession(ctx context.Context, id string) error
		// PruneSessions removes the sessions not used since `idleSince` and returns how many were removed.
		PruneSessions(ctx context.Context, idleSince time.Time) (int, error)
		CountSessions(ctx context.Context) (int, error)
	}

	Service struct {
		repo Repository
		deps Deps
	}
)

func NewService(repo Repository, deps Deps) *Service {
	if deps.IDGen == nil {
		deps.IDGen = core.NewUUIDGenerator()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{repo: repo, deps: deps}
}

// Login opens a new session logged in as `role` and returns its id.
func (svc *Service) Login(ctx context.Context, role user.Role) (string, user.User, error) {
	store := NewStore(svc.deps)
	usr, err := store.Login(role)
	if err != nil {
		return "", user.User{}, errors.Wrap(err, "logging in")
	}
	id := svc.deps.IDGen.NewID()
	if err = svc.repo.CreateSession(ctx, id, store); err != nil {
		if errors.Cause(err) == ErrSessionExists {
			// ids are no longer unique: sessions would leak into each other
			return "", user.User{}, core.NewShutdownError(err, "session id generator")
		}
		return "", user.User{}, errors.Wrap(err, "creating session")
	}
	return id, usr, nil
}

// Logout logs the session's user out and forgets the session.
func (svc *Service) Logout(ctx context.Context, id string) error {
	err := svc.repo.WithSession(ctx, id, func(s *Store) error {
		s.Logout()
		return nil
	})
	if err != nil {
		return err
	}
	return svc.repo.DeleteSession(ctx, id)
}

// Do runs fn against the Store of session `id`.
func (svc *Service) Do(ctx context.Context, id string, fn func(*Store) error) error {
	return svc.repo.WithSession(ctx, id, fn)
}

// PruneIdle forgets the sessions idle for longer than `ttl`.
func (svc *Service) PruneIdle(ctx context.Context, ttl time.Duration) (int, error) {
	return svc.repo.PruneSessions(ctx, svc.deps.Now().Add(-ttl))
}

func (svc *Service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountSessions(ctx)
}
