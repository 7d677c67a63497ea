package keys

import (
	"context"
	"fmt"
	"strings"

	"github.com/Layr-Labs/crypto-libs/pkg/ecdsa"
	"github.com/ethereum/go-ethereum/common"
)

// LibKey is a local key held by the crypto-libs ecdsa package.
type LibKey struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewLibKey(key *ecdsa.PrivateKey) (*LibKey, error) {
	if key == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}
	addr, err := key.DeriveAddress()
	if err != nil {
		return nil, fmt.Errorf("failed to derive address from private key: %w", err)
	}
	return &LibKey{
		key:     key,
		address: common.HexToAddress(addr.String()),
	}, nil
}

func GenerateLibKey() (*LibKey, error) {
	key, _, err := ecdsa.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ECDSA key: %w", err)
	}
	return NewLibKey(key)
}

// LibKeyFromHex parses a hex private key, with or without 0x.
func LibKeyFromHex(s string) (*LibKey, error) {
	key, err := ecdsa.NewPrivateKeyFromHexString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyHex, err)
	}
	return NewLibKey(key)
}

func (k *LibKey) Address() common.Address {
	return k.address
}

func (k *LibKey) SignHash(_ context.Context, hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHash, len(hash))
	}
	sig, err := k.key.Sign(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to sign hash with key %s: %w", k.address.Hex(), err)
	}
	return sig.Bytes(), nil
}
