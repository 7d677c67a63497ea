package txauth

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

// HashLength is the size of a signing hash or transaction id.
const HashLength = sha256.Size

// SigningHash is SHA-256 over the serialized raw data. It is the digest every
// signature in the transaction covers.
func SigningHash(tx *protocol.Transaction) [HashLength]byte {
	var raw []byte
	if tx != nil {
		raw = tx.RawData.Marshal()
	}
	return sha256.Sum256(raw)
}

// ComputeSigningHash is SigningHash.
func ComputeSigningHash(tx *protocol.Transaction) [HashLength]byte {
	return SigningHash(tx)
}

// TransactionID is SHA-256 over the whole serialized transaction, signatures
// included. It identifies a transaction; it is never signed.
func TransactionID(tx *protocol.Transaction) [HashLength]byte {
	return sha256.Sum256(tx.Marshal())
}

// TransactionIDHex is TransactionID as lower-case hex without a prefix.
func TransactionIDHex(tx *protocol.Transaction) string {
	id := TransactionID(tx)
	return common.Bytes2Hex(id[:])
}
