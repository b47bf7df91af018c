package inmemdb

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/session"
)

type sessionRepository struct {
	db  *sessionTable
	now func() time.Time
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.session, now: db.now}
}

func (repo *sessionRepository) CreateSession(ctx context.Context, id string, store *session.Store) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; ok {
		return errors.Wrap(session.ErrSessionExists, id)
	}
	repo.db.table[id] = &sessionRow{store: store, lastSeen: repo.now()}
	return nil
}

func (repo *sessionRepository) WithSession(ctx context.Context, id string, fn func(*session.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.RLock()
	row, ok := repo.db.table[id]
	repo.db.RUnlock()
	if !ok {
		return session.ErrSessionNotFound
	}

	row.Lock()
	defer row.Unlock()
	if row.deleted { // removed while we were waiting
		return session.ErrSessionNotFound
	}
	row.lastSeen = repo.now()
	return fn(row.store)
}

func (repo *sessionRepository) DeleteSession(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.Lock()
	row, ok := repo.db.table[id]
	delete(repo.db.table, id)
	repo.db.Unlock()

	if ok {
		row.Lock()
		row.deleted = true
		row.Unlock()
	}
	return nil
}

func (repo *sessionRepository) PruneSessions(ctx context.Context, idleSince time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	repo.db.RLock()
	rows := make(map[string]*sessionRow, len(repo.db.table))
	for id, row := range repo.db.table {
		rows[id] = row
	}
	repo.db.RUnlock()

	var pruned int
	for id, row := range rows {
		row.Lock()
		if !row.deleted && row.lastSeen.Before(idleSince) {
			row.deleted = true
			row.store.Logout()
			pruned++

			repo.db.Lock()
			delete(repo.db.table, id)
			repo.db.Unlock()
		}
		row.Unlock()
	}
	return pruned, nil
}

func (repo *sessionRepository) CountSessions(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.table), nil
}
