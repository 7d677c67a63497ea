// Package kms signs with an asymmetric ECC_SECG_P256K1 key held in AWS KMS.
// KMS returns DER (r, s) without a recovery id, so each signature is
// low-S normalized and its recovery id found by trial recovery against the
// key's public key.
package kms

import (
	"context"
	cryptoEcdsa "crypto/ecdsa"
	"encoding/asn1"
	"fmt"
	"math/big"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// API is the subset of the KMS client used here.
type API interface {
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
	CreateKey(ctx context.Context, params *kms.CreateKeyInput, optFns ...func(*kms.Options)) (*kms.CreateKeyOutput, error)
	CreateAlias(ctx context.Context, params *kms.CreateAliasInput, optFns ...func(*kms.Options)) (*kms.CreateAliasOutput, error)
}

var (
	secp256k1N     = crypto.S256().Params().N
	secp256k1HalfN = new(big.Int).Rsh(secp256k1N, 1)
)

// Key is a KMS-held signing key. The public key is fetched once at construction.
type Key struct {
	logger    *zap.Logger
	client    API
	keyID     string
	publicKey *cryptoEcdsa.PublicKey
	address   common.Address
}

// NewClient returns a KMS client for awsCfg.
func NewClient(awsCfg aws.Config) API {
	return kms.NewFromConfig(awsCfg)
}

func NewFromConfig(ctx context.Context, awsCfg aws.Config, keyID string, logger *zap.Logger) (*Key, error) {
	return New(ctx, NewClient(awsCfg), keyID, logger)
}

func New(ctx context.Context, client API, keyID string, logger *zap.Logger) (*Key, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if keyID == "" {
		return nil, fmt.Errorf("kms key id is required")
	}

	out, err := client.GetPublicKey(ctx, &kms.GetPublicKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get public key for key %s", keyID)
	}
	pub, err := parsePublicKey(out.PublicKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse public key for key %s", keyID)
	}

	k := &Key{
		logger:    logger,
		client:    client,
		keyID:     keyID,
		publicKey: pub,
		address:   crypto.PubkeyToAddress(*pub),
	}
	logger.Info("Loaded KMS signing key",
		zap.String("keyId", keyID),
		zap.String("address", k.address.Hex()),
	)
	return k, nil
}

func (k *Key) KeyID() string {
	return k.keyID
}

func (k *Key) Address() common.Address {
	return k.address
}

// SignHash signs a 32-byte digest and returns r || s || v with v in {27, 28}.
func (k *Key) SignHash(ctx context.Context, hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, fmt.Errorf("hash must be exactly 32 bytes, got %d", len(hash))
	}

	out, err := k.client.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(k.keyID),
		Message:          hash,
		SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
		MessageType:      types.MessageTypeDigest,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign with key %s", k.keyID)
	}

	r, s, err := parseSignature(out.Signature)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse signature from key %s", k.keyID)
	}
	return k.recoverable(hash, r, s)
}

// recoverable normalizes s and appends the recovery id that yields the key's
// public key.
func (k *Key) recoverable(hash []byte, r, s *big.Int) ([]byte, error) {
	if s.Cmp(secp256k1HalfN) > 0 {
		s = new(big.Int).Sub(secp256k1N, s)
	}

	sig := make([]byte, 65)
	r.FillBytes(sig[0:32])
	s.FillBytes(sig[32:64])

	expected := crypto.FromECDSAPub(k.publicKey)
	for recoveryID := byte(0); recoveryID < 4; recoveryID++ {
		sig[64] = recoveryID
		recovered, err := crypto.Ecrecover(hash, sig)
		if err != nil {
			k.logger.Debug("Ecrecover failed",
				zap.Int("recoveryId", int(recoveryID)),
				zap.Error(err),
			)
			continue
		}
		if string(recovered) == string(expected) {
			sig[64] = 27 + recoveryID
			return sig, nil
		}
	}
	return nil, fmt.Errorf("could not determine recovery id for key %s", k.keyID)
}

// CreateKey creates a secp256k1 sign/verify key and, when alias is set, an
// alias for it. It returns the new key id.
func CreateKey(ctx context.Context, client API, name, alias string) (string, error) {
	out, err := client.CreateKey(ctx, &kms.CreateKeyInput{
		KeyUsage:    types.KeyUsageTypeSignVerify,
		KeySpec:     types.KeySpecEccSecgP256k1,
		Description: aws.String(fmt.Sprintf("Transaction signing key - %s", name)),
		Tags: []types.Tag{
			{TagKey: aws.String("Name"), TagValue: aws.String(name)},
			{TagKey: aws.String("Purpose"), TagValue: aws.String("transaction-signing")},
			{TagKey: aws.String("Curve"), TagValue: aws.String("secp256k1")},
		},
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to create KMS key %s", name)
	}
	if out.KeyMetadata == nil || out.KeyMetadata.KeyId == nil {
		return "", fmt.Errorf("kms returned no key id for %s", name)
	}
	keyID := *out.KeyMetadata.KeyId

	if alias != "" {
		_, err := client.CreateAlias(ctx, &kms.CreateAliasInput{
			AliasName:   aws.String("alias/" + alias),
			TargetKeyId: aws.String(keyID),
		})
		if err != nil {
			return "", errors.Wrapf(err, "failed to create alias %s for key %s", alias, keyID)
		}
	}
	return keyID, nil
}

type asn1EcSig struct {
	R asn1.RawValue
	S asn1.RawValue
}

type asn1EcPublicKey struct {
	EcPublicKeyInfo asn1EcPublicKeyInfo
	PublicKey       asn1.BitString
}

type asn1EcPublicKeyInfo struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.ObjectIdentifier
}

// parsePublicKey decodes the DER SubjectPublicKeyInfo KMS returns.
func parsePublicKey(der []byte) (*cryptoEcdsa.PublicKey, error) {
	var info asn1EcPublicKey
	if _, err := asn1.Unmarshal(der, &info); err != nil {
		return nil, fmt.Errorf("failed to parse ASN.1 public key: %w", err)
	}
	return crypto.UnmarshalPubkey(info.PublicKey.Bytes)
}

func parseSignature(der []byte) (*big.Int, *big.Int, error) {
	var sig asn1EcSig
	if _, err := asn1.Unmarshal(der, &sig); err != nil {
		return nil, nil, err
	}
	r := new(big.Int).SetBytes(sig.R.Bytes)
	s := new(big.Int).SetBytes(sig.S.Bytes)
	if r.Sign() == 0 || s.Sign() == 0 || r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return nil, nil, fmt.Errorf("signature values out of range")
	}
	return r, s, nil
}
