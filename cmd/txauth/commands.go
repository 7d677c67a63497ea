package main

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/address"
	"github.com/efeint01/TronClientSdk/pkg/keys"
	"github.com/efeint01/TronClientSdk/pkg/keys/kms"
	"github.com/efeint01/TronClientSdk/pkg/protocol"
	"github.com/efeint01/TronClientSdk/pkg/txauth"
	"github.com/efeint01/TronClientSdk/pkg/txstore"
)

func txFileArg(c *cli.Context) (string, error) {
	path := c.Args().First()
	if path == "" {
		return "", fmt.Errorf("missing transaction file argument (use - for stdin)")
	}
	return path, nil
}

func loadTransactionArg(c *cli.Context, s *session) (*protocol.Transaction, error) {
	path, err := txFileArg(c)
	if err != nil {
		return nil, err
	}
	return readTransaction(path, c.App.Reader, s.hex)
}

func keygenCommand(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	w := c.App.Writer
	if c.Bool("kms") {
		client, err := newKMSClient(c.Context, s.cfg, s.logger)
		if err != nil {
			return err
		}
		keyID, err := kms.CreateKey(c.Context, client, "txauth signing key", c.String("alias"))
		if err != nil {
			return err
		}
		key, err := kms.New(c.Context, client, keyID, s.logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "kms key id: %s\n", keyID)
		fmt.Fprintf(w, "address:    %s\n", key.Address().Hex())
		fmt.Fprintf(w, "base58:     %s\n", address.ToBase58(key.Address()))
		return nil
	}

	key, err := keys.GeneratePrivateKey()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "private key: %s\n", key.Hex())
	fmt.Fprintf(w, "address:     %s\n", key.Address().Hex())
	fmt.Fprintf(w, "base58:      %s\n", address.ToBase58(key.Address()))
	return nil
}

func hashCommand(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	tx, err := loadTransactionArg(c, s)
	if err != nil {
		return err
	}
	hash := txauth.SigningHash(tx)
	fmt.Fprintf(c.App.Writer, "signing hash:   %s\n", hexutil.Encode(hash[:]))
	fmt.Fprintf(c.App.Writer, "transaction id: %s\n", txauth.TransactionIDHex(tx))
	return nil
}

func signCommand(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	var store txstore.ITransactionStore
	if c.Bool("save") {
		if store, err = openPersistentStore(s.cfg, s.logger); err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	tx, err := loadTransactionArg(c, s)
	if err != nil {
		return err
	}
	if c.Bool("stamp") {
		tx = txauth.SetTimestamp(tx, time.Now())
	}

	selector, err := newKeySelector(c.Context, s.cfg, s.logger)
	if err != nil {
		return err
	}
	signed, err := s.auth.SignTransactionWith(c.Context, tx, selector)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	if store != nil {
		id, err := store.SaveTransaction(signed)
		if err != nil {
			return err
		}
		s.logger.Sugar().Infow("Saved signed transaction", "id", id, "store", s.cfg.StoreType)
	}

	return writeTransaction(c.String("out"), c.App.Writer, signed, s.hex)
}

func validateCommand(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	tx, err := loadTransactionArg(c, s)
	if err != nil {
		return err
	}
	reason := s.auth.Verify(tx)
	if reason == nil {
		fmt.Fprintln(c.App.Writer, "valid")
		return nil
	}

	s.logger.Error("Transaction is not valid", zap.Error(reason))
	fmt.Fprintln(c.App.Writer, "invalid")
	return fmt.Errorf("transaction is not valid: %w", reason)
}

func ownerCommand(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	tx, err := loadTransactionArg(c, s)
	if err != nil {
		return err
	}
	for i, contract := range tx.GetContracts() {
		owner, ok := s.auth.ExtractOwner(contract)
		if !ok {
			fmt.Fprintf(c.App.Writer, "%d\t%s\tnone\n", i, contract.GetType())
			continue
		}
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\t%s\n", i, contract.GetType(), owner.Hex(), address.ToBase58(owner))
	}
	return nil
}

func showCommand(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.close()

	store, err := openPersistentStore(s.cfg, s.logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id := c.Args().First()
	if id == "" {
		ids, err := store.ListTransactionIDs()
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(c.App.Writer, id)
		}
		return nil
	}

	rec, err := store.LoadTransaction(id)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("transaction %s not found", id)
	}
	s.logger.Sugar().Debugw("Loaded transaction", "id", rec.ID, "savedAt", rec.SavedAt)
	return writeTransaction("", c.App.Writer, rec.Transaction, s.hex)
}
