package persistence

import "binance-futures-bot-go/internal/models"

// GridSessionRepository abstracts the storage used to keep the most recent
// grid session (the set of ladder orders placed in one call), so a restarted
// process can inspect or cancel them. Order history is deliberately not kept.
type GridSessionRepository interface {
	// SaveSession atomically replaces the stored session.
	SaveSession(session *models.GridSession) error

	// LoadSession loads the stored session.
	// If no session is found, it returns (nil, nil).
	LoadSession() (*models.GridSession, error)

	// Close gracefully closes the connection to the database.
	Close() error
}
