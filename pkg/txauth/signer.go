package txauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

// SigningKey produces recoverable secp256k1 signatures over a 32-byte hash.
// SignHash returns r || s || v; v may be 0/1 or 27/28.
type SigningKey interface {
	Address() common.Address
	SignHash(ctx context.Context, hash []byte) ([]byte, error)
}

// KeySelector picks the key that signs the contract at index.
type KeySelector interface {
	KeyFor(index int, contract *protocol.Contract) (SigningKey, error)
}

// KeySelectorFunc adapts a function to KeySelector.
type KeySelectorFunc func(index int, contract *protocol.Contract) (SigningKey, error)

func (f KeySelectorFunc) KeyFor(index int, contract *protocol.Contract) (SigningKey, error) {
	return f(index, contract)
}

// SingleKey signs every contract with key.
func SingleKey(key SigningKey) KeySelector {
	return KeySelectorFunc(func(int, *protocol.Contract) (SigningKey, error) {
		return key, nil
	})
}

// SignTransaction signs every contract in tx with key.
func (a *Authenticator) SignTransaction(ctx context.Context, tx *protocol.Transaction, key SigningKey) (*protocol.Transaction, error) {
	if key == nil {
		return nil, errors.New("signing key is nil")
	}
	return a.SignTransactionWith(ctx, tx, SingleKey(key))
}

// SignTransactionWith returns a copy of tx with one signature appended per
// contract, in contract order, each over the same signing hash. Signatures
// already on tx are kept in front. tx itself is not modified.
func (a *Authenticator) SignTransactionWith(ctx context.Context, tx *protocol.Transaction, keys KeySelector) (*protocol.Transaction, error) {
	if tx == nil {
		return nil, ErrNilTransaction
	}
	contracts := tx.GetContracts()
	if len(contracts) == 0 {
		return nil, ErrNoContracts
	}

	hash := SigningHash(tx)
	signed := tx.Clone()
	for i, contract := range contracts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key, err := keys.KeyFor(i, contract)
		if err != nil {
			return nil, fmt.Errorf("failed to select key for contract %d: %w", i, err)
		}
		if key == nil {
			return nil, fmt.Errorf("no signing key for contract %d", i)
		}
		sig, err := key.SignHash(ctx, hash[:])
		if err != nil {
			return nil, fmt.Errorf("failed to sign contract %d: %w", i, err)
		}
		if len(sig) != SignatureLength {
			return nil, fmt.Errorf("%w: key returned %d bytes for contract %d", ErrMalformedSignature, len(sig), i)
		}
		signed.Signature = append(signed.Signature, append([]byte(nil), sig...))

		a.logger.Debug("Signed contract",
			zap.Int("index", i),
			zap.String("contractType", contract.Type.String()),
			zap.String("signer", key.Address().Hex()),
		)
	}
	a.recorder.SignaturesCreated(len(contracts))
	return signed, nil
}
