package config

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/efeint01/TronClientSdk/pkg/keys"
)

// Environment variable names for the txauth CLI
const (
	EnvKeyBackend     = "TXAUTH_KEY_BACKEND"
	EnvPrivateKeys    = "TXAUTH_PRIVATE_KEYS"
	EnvKMSKeyID       = "TXAUTH_KMS_KEY_ID"
	EnvAWSRegion      = "TXAUTH_AWS_REGION"
	EnvAWSProfile     = "TXAUTH_AWS_PROFILE"
	EnvStoreType      = "TXAUTH_STORE_TYPE"
	EnvBadgerPath     = "TXAUTH_BADGER_PATH"
	EnvRedisAddress   = "TXAUTH_REDIS_ADDRESS"
	EnvRedisPassword  = "TXAUTH_REDIS_PASSWORD"
	EnvRedisDB        = "TXAUTH_REDIS_DB"
	EnvRedisKeyPrefix = "TXAUTH_REDIS_KEY_PREFIX"
	EnvDebug          = "TXAUTH_DEBUG"
)

type KeyBackend string

const (
	KeyBackend_Local   KeyBackend = "local"
	KeyBackend_Keyring KeyBackend = "keyring"
	KeyBackend_KMS     KeyBackend = "kms"
)

type StoreType string

const (
	StoreType_Memory StoreType = "memory"
	StoreType_Badger StoreType = "badger"
	StoreType_Redis  StoreType = "redis"
)

var (
	supportedKeyBackends = []string{string(KeyBackend_Local), string(KeyBackend_Keyring), string(KeyBackend_KMS)}
	supportedStoreTypes  = []string{string(StoreType_Memory), string(StoreType_Badger), string(StoreType_Redis)}
)

type Config struct {
	KeyBackend KeyBackend `json:"keyBackend" yaml:"keyBackend"`
	// PrivateKeys holds hex secp256k1 keys: exactly one for local, one or
	// more for keyring.
	PrivateKeys []string `json:"-" yaml:"-"`

	KMSKeyID   string `json:"kmsKeyId" yaml:"kmsKeyId"`
	AWSRegion  string `json:"awsRegion" yaml:"awsRegion"`
	AWSProfile string `json:"awsProfile" yaml:"awsProfile"`

	StoreType      StoreType `json:"storeType" yaml:"storeType"`
	BadgerPath     string    `json:"badgerPath" yaml:"badgerPath"`
	RedisAddress   string    `json:"redisAddress" yaml:"redisAddress"`
	RedisPassword  string    `json:"-" yaml:"-"`
	RedisDB        int       `json:"redisDb" yaml:"redisDb"`
	RedisKeyPrefix string    `json:"redisKeyPrefix" yaml:"redisKeyPrefix"`

	Debug bool `json:"debug" yaml:"debug"`
}

// SplitKeys splits a comma separated key list, dropping blanks.
func SplitKeys(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateKeys checks only the key backend settings. Commands that never
// sign skip it.
func (c *Config) ValidateKeys() error {
	var allErrors field.ErrorList
	allErrors = append(allErrors, c.validateKeys(field.NewPath("keys"))...)
	return allErrors.ToAggregate()
}

func (c *Config) validateKeys(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList
	keysPath := path.Child("privateKeys")

	switch c.KeyBackend {
	case KeyBackend_Local:
		if len(c.PrivateKeys) != 1 {
			allErrors = append(allErrors, field.Invalid(keysPath, len(c.PrivateKeys), "local backend takes exactly one private key"))
		}
	case KeyBackend_Keyring:
		if len(c.PrivateKeys) == 0 {
			allErrors = append(allErrors, field.Required(keysPath, "keyring backend needs at least one private key"))
		}
	case KeyBackend_KMS:
		if c.KMSKeyID == "" {
			allErrors = append(allErrors, field.Required(path.Child("kmsKeyId"), "kms backend needs a key id"))
		}
		if c.AWSRegion == "" {
			allErrors = append(allErrors, field.Required(path.Child("awsRegion"), "kms backend needs an AWS region"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("backend"), string(c.KeyBackend), supportedKeyBackends))
	}

	if c.KeyBackend == KeyBackend_Local || c.KeyBackend == KeyBackend_Keyring {
		for i, k := range c.PrivateKeys {
			if _, err := keys.PrivateKeyFromHex(k); err != nil {
				// never echo key material back
				allErrors = append(allErrors, field.Invalid(keysPath.Index(i), "<redacted>", keys.ErrInvalidKeyHex.Error()))
			}
		}
	}
	return allErrors
}

func (c *Config) validateStore(path *field.Path) field.ErrorList {
	var allErrors field.ErrorList

	switch c.StoreType {
	case StoreType_Memory:
	case StoreType_Badger:
		if c.BadgerPath == "" {
			allErrors = append(allErrors, field.Required(path.Child("badgerPath"), "badger store needs a data path"))
		}
	case StoreType_Redis:
		if c.RedisAddress == "" {
			allErrors = append(allErrors, field.Required(path.Child("redisAddress"), "redis store needs an address"))
		}
		if c.RedisDB < 0 || c.RedisDB > 15 {
			allErrors = append(allErrors, field.Invalid(path.Child("redisDb"), c.RedisDB, "must be between 0-15"))
		}
	default:
		allErrors = append(allErrors, field.NotSupported(path.Child("type"), string(c.StoreType), supportedStoreTypes))
	}
	return allErrors
}

// Validate checks the key backend and store settings together.
func (c *Config) Validate() error {
	var allErrors field.ErrorList
	allErrors = append(allErrors, c.validateKeys(field.NewPath("keys"))...)
	allErrors = append(allErrors, c.validateStore(field.NewPath("store"))...)
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}

// ValidateStore checks only the store settings.
func (c *Config) ValidateStore() error {
	return c.validateStore(field.NewPath("store")).ToAggregate()
}

func (c *Config) String() string {
	return fmt.Sprintf("keyBackend=%s keys=%d store=%s", c.KeyBackend, len(c.PrivateKeys), c.StoreType)
}
