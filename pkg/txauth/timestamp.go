package txauth

import (
	"time"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

// SetTimestamp returns a copy of tx with raw_data.timestamp set to now in
// milliseconds. The timestamp is part of the signing hash, so stamp before
// signing.
func SetTimestamp(tx *protocol.Transaction, now time.Time) *protocol.Transaction {
	out := tx.Clone()
	if out == nil {
		out = &protocol.Transaction{}
	}
	if out.RawData == nil {
		out.RawData = &protocol.TransactionRaw{}
	}
	out.RawData.Timestamp = now.UnixMilli()
	return out
}
