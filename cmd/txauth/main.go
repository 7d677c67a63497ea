package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/efeint01/TronClientSdk/pkg/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "txauth",
		Usage: "Sign and verify TRON transactions",
		Description: `Computes signing hashes, signs each contract of a transaction with the
configured key backend and checks that every contract is signed by its owner.

Transactions are read and written as JSON, or as hex protobuf bytes with --hex.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "key-backend",
				Aliases: []string{"backend"},
				Usage:   "Key backend: local, keyring or kms",
				Value:   string(config.KeyBackend_Local),
				EnvVars: []string{config.EnvKeyBackend},
			},
			&cli.StringFlag{
				Name:    "private-keys",
				Aliases: []string{"keys"},
				Usage:   "Comma separated hex private keys (local takes one, keyring one or more)",
				EnvVars: []string{config.EnvPrivateKeys},
			},
			&cli.StringFlag{
				Name:    "kms-key-id",
				Usage:   "AWS KMS key id, ARN or alias for the kms backend",
				EnvVars: []string{config.EnvKMSKeyID},
			},
			&cli.StringFlag{
				Name:    "aws-region",
				Usage:   "AWS region for the kms backend",
				Value:   "us-east-1",
				EnvVars: []string{config.EnvAWSRegion},
			},
			&cli.StringFlag{
				Name:    "aws-profile",
				Usage:   "AWS shared config profile (ignored inside Kubernetes)",
				EnvVars: []string{config.EnvAWSProfile},
			},
			&cli.StringFlag{
				Name:    "store",
				Usage:   "Transaction store: memory, badger or redis",
				Value:   string(config.StoreType_Memory),
				EnvVars: []string{config.EnvStoreType},
			},
			&cli.StringFlag{
				Name:    "badger-path",
				Usage:   "Data directory for the badger store",
				Value:   "./data/txauth",
				EnvVars: []string{config.EnvBadgerPath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Usage:   "Redis host:port for the redis store",
				EnvVars: []string{config.EnvRedisAddress},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				EnvVars: []string{config.EnvRedisPassword},
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Usage:   "Redis database number",
				EnvVars: []string{config.EnvRedisDB},
			},
			&cli.StringFlag{
				Name:    "redis-key-prefix",
				Usage:   "Prefix for every redis key",
				EnvVars: []string{config.EnvRedisKeyPrefix},
			},
			&cli.BoolFlag{
				Name:  "hex",
				Usage: "Read and write transactions as hex protobuf bytes instead of JSON",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Log a snapshot of the signing and validation counters on exit",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvDebug},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "keygen",
				Usage: "Generate a secp256k1 key",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "kms",
						Usage: "Create the key in AWS KMS instead of locally",
					},
					&cli.StringFlag{
						Name:  "alias",
						Usage: "KMS alias for the new key (without the alias/ prefix)",
					},
				},
				Action: keygenCommand,
			},
			{
				Name:      "hash",
				Usage:     "Print the signing hash and transaction id",
				ArgsUsage: "<tx-file>",
				Action:    hashCommand,
			},
			{
				Name:      "sign",
				Usage:     "Sign every contract of a transaction",
				ArgsUsage: "<tx-file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file for the signed transaction (stdout when empty)",
					},
					&cli.BoolFlag{
						Name:  "stamp",
						Usage: "Set the transaction timestamp to now before signing",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Persist the signed transaction in the configured store",
					},
				},
				Action: signCommand,
			},
			{
				Name:      "validate",
				Usage:     "Check that every contract is signed by its owner",
				ArgsUsage: "<tx-file>",
				Action:    validateCommand,
			},
			{
				Name:      "owner",
				Usage:     "Print the owner address of each contract",
				ArgsUsage: "<tx-file>",
				Action:    ownerCommand,
			},
			{
				Name:      "show",
				Usage:     "Print a stored transaction, or list stored ids when no id is given",
				ArgsUsage: "[tx-id]",
				Action:    showCommand,
			},
		},
	}
}

func configFromContext(c *cli.Context) *config.Config {
	return &config.Config{
		KeyBackend:     config.KeyBackend(c.String("key-backend")),
		PrivateKeys:    config.SplitKeys(c.String("private-keys")),
		KMSKeyID:       c.String("kms-key-id"),
		AWSRegion:      c.String("aws-region"),
		AWSProfile:     c.String("aws-profile"),
		StoreType:      config.StoreType(c.String("store")),
		BadgerPath:     c.String("badger-path"),
		RedisAddress:   c.String("redis-address"),
		RedisPassword:  c.String("redis-password"),
		RedisDB:        c.Int("redis-db"),
		RedisKeyPrefix: c.String("redis-key-prefix"),
		Debug:          c.Bool("verbose"),
	}
}
