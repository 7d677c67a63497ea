package keys

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efeint01/TronClientSdk/pkg/txauth"
)

func TestPrivateKey_SignRecovers(t *testing.T) {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)

	hash := crypto.Keccak256([]byte("hello"))
	sig, err := key.SignHash(context.Background(), hash)
	require.NoError(t, err)
	require.Len(t, sig, txauth.SignatureLength)

	addr, err := txauth.RecoverAddress(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), addr)

	_, err = key.SignHash(context.Background(), hash[:16])
	assert.True(t, errors.Is(err, ErrInvalidHash))
}

func TestPrivateKeyFromHex(t *testing.T) {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)

	for _, s := range []string{key.Hex(), key.Hex()[2:], " " + key.Hex() + "\n"} {
		parsed, err := PrivateKeyFromHex(s)
		require.NoError(t, err)
		assert.Equal(t, key.Address(), parsed.Address())
	}
	assert.Len(t, key.PublicKeyHex(), 2+130)

	for _, bad := range []string{"", "0x1234", "zz"} {
		_, err := PrivateKeyFromHex(bad)
		assert.True(t, errors.Is(err, ErrInvalidKeyHex), bad)
	}
}

func TestLibKey_MatchesPrivateKey(t *testing.T) {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)

	lib, err := LibKeyFromHex(key.Hex())
	require.NoError(t, err)
	assert.Equal(t, key.Address(), lib.Address())

	hash := crypto.Keccak256([]byte("hello"))
	sig, err := lib.SignHash(context.Background(), hash)
	require.NoError(t, err)
	require.Len(t, sig, txauth.SignatureLength)

	addr, err := txauth.RecoverAddress(hash, sig)
	require.NoError(t, err)
	assert.Equal(t, lib.Address(), addr)

	_, err = lib.SignHash(context.Background(), []byte{1})
	assert.True(t, errors.Is(err, ErrInvalidHash))
}

func TestLibKey_Errors(t *testing.T) {
	_, err := NewLibKey(nil)
	assert.Error(t, err)

	_, err = LibKeyFromHex("not-hex")
	assert.True(t, errors.Is(err, ErrInvalidKeyHex))
}
