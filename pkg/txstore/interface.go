package txstore

import (
	"errors"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("transaction store is closed")

// ITransactionStore persists signed transactions keyed by their transaction id
// (hex SHA-256 of the full serialized transaction). Implementations must be
// safe for concurrent use.
type ITransactionStore interface {
	// SaveTransaction stores tx and returns its id. Saving the same
	// transaction again overwrites the record.
	SaveTransaction(tx *protocol.Transaction) (string, error)

	// LoadTransaction returns the record for id, or nil if there is none.
	LoadTransaction(id string) (*Record, error)

	// ListTransactionIDs returns every stored id in ascending order.
	ListTransactionIDs() ([]string, error)

	// DeleteTransaction removes id. Deleting a missing id is not an error.
	DeleteTransaction(id string) error

	// Close releases the backend. Idempotent.
	Close() error

	// HealthCheck verifies the backend is reachable and initialized.
	HealthCheck() error
}
