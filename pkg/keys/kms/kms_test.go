package kms

import (
	"context"
	cryptoEcdsa "crypto/ecdsa"
	"encoding/asn1"
	"errors"
	"math/big"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
	"github.com/efeint01/TronClientSdk/pkg/txauth"
)

var (
	oidECPublicKey = asn1.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidSecp256k1   = asn1.ObjectIdentifier{1, 3, 132, 0, 10}
)

// fakeKMS signs with an in-memory key and answers in KMS's DER formats.
type fakeKMS struct {
	key       *cryptoEcdsa.PrivateKey
	highS     bool
	signErr   error
	signCalls int
	created   []*kms.CreateKeyInput
	aliases   []*kms.CreateAliasInput
}

func newFakeKMS(t *testing.T) *fakeKMS {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &fakeKMS{key: key}
}

func (f *fakeKMS) GetPublicKey(_ context.Context, _ *kms.GetPublicKeyInput, _ ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error) {
	pub := crypto.FromECDSAPub(&f.key.PublicKey)
	der, err := asn1.Marshal(asn1EcPublicKey{
		EcPublicKeyInfo: asn1EcPublicKeyInfo{Algorithm: oidECPublicKey, Parameters: oidSecp256k1},
		PublicKey:       asn1.BitString{Bytes: pub, BitLength: len(pub) * 8},
	})
	if err != nil {
		return nil, err
	}
	return &kms.GetPublicKeyOutput{PublicKey: der}, nil
}

func (f *fakeKMS) Sign(_ context.Context, in *kms.SignInput, _ ...func(*kms.Options)) (*kms.SignOutput, error) {
	f.signCalls++
	if f.signErr != nil {
		return nil, f.signErr
	}
	sig, err := crypto.Sign(in.Message, f.key)
	if err != nil {
		return nil, err
	}
	r := new(big.Int).SetBytes(sig[0:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if f.highS {
		s = new(big.Int).Sub(secp256k1N, s)
	}
	der, err := asn1.Marshal(struct{ R, S *big.Int }{r, s})
	if err != nil {
		return nil, err
	}
	return &kms.SignOutput{Signature: der}, nil
}

func (f *fakeKMS) CreateKey(_ context.Context, in *kms.CreateKeyInput, _ ...func(*kms.Options)) (*kms.CreateKeyOutput, error) {
	f.created = append(f.created, in)
	return &kms.CreateKeyOutput{KeyMetadata: &types.KeyMetadata{KeyId: aws.String("key-1234")}}, nil
}

func (f *fakeKMS) CreateAlias(_ context.Context, in *kms.CreateAliasInput, _ ...func(*kms.Options)) (*kms.CreateAliasOutput, error) {
	f.aliases = append(f.aliases, in)
	return &kms.CreateAliasOutput{}, nil
}

func TestKey_SignHash(t *testing.T) {
	for _, highS := range []bool{false, true} {
		fake := newFakeKMS(t)
		fake.highS = highS

		key, err := New(context.Background(), fake, "key-1234", zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(fake.key.PublicKey), key.Address())
		assert.Equal(t, "key-1234", key.KeyID())

		hash := crypto.Keccak256([]byte("digest"))
		sig, err := key.SignHash(context.Background(), hash)
		require.NoError(t, err)
		require.Len(t, sig, 65)
		assert.Contains(t, []byte{27, 28}, sig[64])
		assert.LessOrEqual(t, new(big.Int).SetBytes(sig[32:64]).Cmp(secp256k1HalfN), 0)

		addr, err := txauth.RecoverAddress(hash, sig)
		require.NoError(t, err)
		assert.Equal(t, key.Address(), addr)
	}
}

func TestKey_SignsTransaction(t *testing.T) {
	fake := newFakeKMS(t)
	key, err := New(context.Background(), fake, "key-1234", nil)
	require.NoError(t, err)

	tx := &protocol.Transaction{RawData: &protocol.TransactionRaw{
		Contract: []*protocol.Contract{
			protocol.NewContract(&protocol.WithdrawBalanceContract{OwnerAddress: key.Address().Bytes()}),
			protocol.NewContract(&protocol.UnfreezeAssetContract{OwnerAddress: key.Address().Bytes()}),
		},
	}}

	auth := txauth.NewAuthenticator(nil)
	signed, err := auth.SignTransaction(context.Background(), tx, key)
	require.NoError(t, err)
	assert.True(t, auth.ValidateTransaction(signed))
	assert.Equal(t, 2, fake.signCalls)
}

func TestKey_Errors(t *testing.T) {
	fake := newFakeKMS(t)

	_, err := New(context.Background(), fake, "", nil)
	assert.Error(t, err)

	key, err := New(context.Background(), fake, "key-1234", nil)
	require.NoError(t, err)

	_, err = key.SignHash(context.Background(), []byte{1, 2, 3})
	assert.Error(t, err)
	assert.Equal(t, 0, fake.signCalls)

	errThrottled := errors.New("throttled")
	fake.signErr = errThrottled
	_, err = key.SignHash(context.Background(), crypto.Keccak256([]byte("x")))
	assert.True(t, errors.Is(err, errThrottled))
}

func TestKey_WrongPublicKey(t *testing.T) {
	fake := newFakeKMS(t)
	key, err := New(context.Background(), fake, "key-1234", nil)
	require.NoError(t, err)

	// KMS now signs with a different key than the one it advertised
	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	fake.key = other

	_, err = key.SignHash(context.Background(), crypto.Keccak256([]byte("x")))
	assert.Error(t, err)
}

func TestParseSignature_Errors(t *testing.T) {
	_, _, err := parseSignature([]byte{0x01, 0x02})
	assert.Error(t, err)

	der, err := asn1.Marshal(struct{ R, S *big.Int }{big.NewInt(0), big.NewInt(1)})
	require.NoError(t, err)
	_, _, err = parseSignature(der)
	assert.Error(t, err)

	_, err = parsePublicKey([]byte{0x30, 0x00})
	assert.Error(t, err)
}

func TestCreateKey(t *testing.T) {
	fake := newFakeKMS(t)

	id, err := CreateKey(context.Background(), fake, "signer", "tx-signer")
	require.NoError(t, err)
	assert.Equal(t, "key-1234", id)
	require.Len(t, fake.created, 1)
	assert.Equal(t, types.KeySpecEccSecgP256k1, fake.created[0].KeySpec)
	assert.Equal(t, types.KeyUsageTypeSignVerify, fake.created[0].KeyUsage)
	require.Len(t, fake.aliases, 1)
	assert.Equal(t, "alias/tx-signer", *fake.aliases[0].AliasName)

	_, err = CreateKey(context.Background(), fake, "no-alias", "")
	require.NoError(t, err)
	assert.Len(t, fake.aliases, 1)
}
