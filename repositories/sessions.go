package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"neon-arena/domain"
)

// SessionRepository persists session snapshots in BadgerDB, keyed by
// session id. Snapshots are stored as JSON: they are already JSON documents
// on the wire, so the durable form stays inspectable with the same shape.
type SessionRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSessionRepository(db *badger.DB, log *slog.Logger) SessionRepository {
	return SessionRepository{db: db, log: log}
}

func sessionKey(id string) []byte {
	return []byte(fmt.Sprintf("session:%s", id))
}

// Record stores the initial snapshot of a freshly created session.
func (r SessionRepository) Record(snapshot domain.Snapshot) error {
	return r.write(snapshot)
}

// Update overwrites the stored snapshot as the session progresses and when
// it finishes. Writes are idempotent upserts.
func (r SessionRepository) Update(snapshot domain.Snapshot) error {
	return r.write(snapshot)
}

func (r SessionRepository) write(snapshot domain.Snapshot) error {
	bytes, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(snapshot.GameID), bytes)
	})
}

// Get loads a stored snapshot. The game payload comes back as generic JSON.
func (r SessionRepository) Get(id domain.SessionID) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(string(id)))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &snapshot)
		})
	})
	return snapshot, err
}
