package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"

	internalAws "github.com/efeint01/TronClientSdk/internal/aws"
	"github.com/efeint01/TronClientSdk/pkg/config"
	"github.com/efeint01/TronClientSdk/pkg/keys"
	"github.com/efeint01/TronClientSdk/pkg/keys/kms"
	"github.com/efeint01/TronClientSdk/pkg/txauth"
)

// newKeySelector builds the signing keys for the configured backend.
func newKeySelector(ctx context.Context, cfg *config.Config, l *zap.Logger) (txauth.KeySelector, error) {
	if err := cfg.ValidateKeys(); err != nil {
		return nil, fmt.Errorf("invalid key configuration: %w", err)
	}

	switch cfg.KeyBackend {
	case config.KeyBackend_Local:
		key, err := keys.LibKeyFromHex(cfg.PrivateKeys[0])
		if err != nil {
			return nil, err
		}
		l.Sugar().Debugw("Using local key", "address", key.Address().Hex())
		return txauth.SingleKey(key), nil

	case config.KeyBackend_Keyring:
		kr := keys.NewKeyring(l)
		for i, k := range cfg.PrivateKeys {
			if _, err := kr.LoadPrivateKeyHex(fmt.Sprintf("key-%d", i), k); err != nil {
				return nil, fmt.Errorf("failed to load key %d: %w", i, err)
			}
		}
		return kr, nil

	case config.KeyBackend_KMS:
		key, err := newKMSKey(ctx, cfg, l)
		if err != nil {
			return nil, err
		}
		return txauth.SingleKey(key), nil
	}
	return nil, fmt.Errorf("unsupported key backend: %s", cfg.KeyBackend)
}

func newKMSClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (kms.API, error) {
	awsCfg, err := internalAws.LoadAWSConfig(ctx, internalAws.Options{
		Region:  cfg.AWSRegion,
		Profile: cfg.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if identity, err := internalAws.CallerIdentity(ctx, awsCfg); err != nil {
		l.Sugar().Warnw("Failed to resolve AWS caller identity", "error", err)
	} else {
		l.Sugar().Debugw("Using AWS identity", "arn", aws.ToString(identity.Arn), "account", aws.ToString(identity.Account))
	}

	return kms.NewClient(awsCfg), nil
}

func newKMSKey(ctx context.Context, cfg *config.Config, l *zap.Logger) (*kms.Key, error) {
	client, err := newKMSClient(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	return kms.New(ctx, client, cfg.KMSKeyID, l)
}
