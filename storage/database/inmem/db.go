package inmemdb

import (
	"sync"
	"time"

	"github.com/trezcool/darasa/core/session"
)

type (
	DB struct {
		session *sessionTable
		now     func() time.Time
	}

	sessionTable struct {
		sync.RWMutex
		table map[string]*sessionRow
	}

	// sessionRow serializes access to one Store.
	sessionRow struct {
		sync.Mutex
		store    *session.Store
		lastSeen time.Time
		deleted  bool
	}
)

// Open returns an empty in-memory database. `now` defaults to time.Now.
func Open(now ...func() time.Time) (*DB, error) {
	db := &DB{
		session: &sessionTable{table: make(map[string]*sessionRow)},
		now:     time.Now,
	}
	if len(now) > 0 && now[0] != nil {
		db.now = now[0]
	}
	return db, nil
}
