package persistence

import (
	"encoding/json"
	"errors"

	"binance-futures-bot-go/internal/models"

	"github.com/dgraph-io/badger/v3"
)

// badgerRepository is the BadgerDB implementation of the GridSessionRepository.
type badgerRepository struct {
	db         *badger.DB
	sessionKey []byte
}

// NewBadgerRepository opens (or creates) a BadgerDB database at dbPath.
func NewBadgerRepository(dbPath string) (GridSessionRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	// Badger's own logging is disabled to keep the app's logs clean;
	// errors still surface through the DB operations.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &badgerRepository{
		db:         db,
		sessionKey: []byte("grid_session"),
	}, nil
}

// SaveSession marshals the session into JSON and stores it under a fixed key.
func (r *badgerRepository) SaveSession(session *models.GridSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.sessionKey, data)
	})
}

// LoadSession loads the stored session. A missing key means no session has
// been recorded yet and is reported as (nil, nil), not as an error.
func (r *badgerRepository) LoadSession() (*models.GridSession, error) {
	var session models.GridSession

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.sessionKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) == 0 {
				return errors.New("session value is empty in database")
			}
			return json.Unmarshal(val, &session)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Close gracefully closes the connection to the database.
func (r *badgerRepository) Close() error {
	return r.db.Close()
}
