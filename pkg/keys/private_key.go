package keys

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/efeint01/TronClientSdk/pkg/txauth"
)

var (
	_ txauth.SigningKey = (*PrivateKey)(nil)
	_ txauth.SigningKey = (*LibKey)(nil)
)

// PrivateKey is an in-process secp256k1 key backed by go-ethereum.
type PrivateKey struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewPrivateKey(key *ecdsa.PrivateKey) *PrivateKey {
	return &PrivateKey{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate secp256k1 key: %w", err)
	}
	return NewPrivateKey(key), nil
}

// PrivateKeyFromHex parses a 32-byte hex scalar, with or without 0x.
func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyHex, err)
	}
	return NewPrivateKey(key), nil
}

func (k *PrivateKey) Address() common.Address {
	return k.address
}

// Hex returns the 0x-prefixed private scalar.
func (k *PrivateKey) Hex() string {
	return hexutil.Encode(crypto.FromECDSA(k.key))
}

// PublicKeyHex returns the uncompressed 0x04-prefixed public key.
func (k *PrivateKey) PublicKeyHex() string {
	return hexutil.Encode(crypto.FromECDSAPub(&k.key.PublicKey))
}

// SignHash returns r || s || v with v in {0, 1}.
func (k *PrivateKey) SignHash(_ context.Context, hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHash, len(hash))
	}
	return crypto.Sign(hash, k.key)
}
