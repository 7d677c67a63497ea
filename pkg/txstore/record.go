package txstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
	"github.com/efeint01/TronClientSdk/pkg/txauth"
)

// Record is a stored transaction.
type Record struct {
	ID          string                `json:"id"`
	SavedAt     time.Time             `json:"savedAt"`
	Transaction *protocol.Transaction `json:"transaction"`
}

// NewRecord wraps a copy of tx with its id and the save time.
func NewRecord(tx *protocol.Transaction, now time.Time) (*Record, error) {
	if tx == nil {
		return nil, fmt.Errorf("cannot store nil transaction")
	}
	return &Record{
		ID:          txauth.TransactionIDHex(tx),
		SavedAt:     now.UTC(),
		Transaction: tx.Clone(),
	}, nil
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{
		ID:          r.ID,
		SavedAt:     r.SavedAt,
		Transaction: r.Transaction.Clone(),
	}
}

// MarshalRecord serializes a Record to JSON bytes.
func MarshalRecord(r *Record) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot marshal nil Record")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Record to JSON: %w", err)
	}
	return data, nil
}

// UnmarshalRecord deserializes a Record and checks that its id matches the
// transaction it carries.
func UnmarshalRecord(data []byte) (*Record, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to Record: %w", err)
	}
	if r.Transaction == nil {
		return nil, fmt.Errorf("record %s has no transaction", r.ID)
	}
	if id := txauth.TransactionIDHex(r.Transaction); id != r.ID {
		return nil, fmt.Errorf("record id %s does not match transaction id %s", r.ID, id)
	}
	return &r, nil
}
