package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efeint01/TronClientSdk/pkg/address"
	"github.com/efeint01/TronClientSdk/pkg/config"
	"github.com/efeint01/TronClientSdk/pkg/keys"
	"github.com/efeint01/TronClientSdk/pkg/protocol"
	"github.com/efeint01/TronClientSdk/pkg/txauth"
)

func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)
	err := app.Run(append([]string{"txauth"}, args...))
	return out.String(), err
}

func transferFrom(owner common.Address, amount int64) *protocol.Contract {
	return protocol.NewContract(&protocol.TransferContract{
		OwnerAddress: owner.Bytes(),
		ToAddress:    common.HexToAddress("0x00000000000000000000000000000000000000aa").Bytes(),
		Amount:       amount,
	})
}

func writeTxFile(t *testing.T, tx *protocol.Transaction) string {
	t.Helper()
	data, err := json.Marshal(tx)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "tx.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func readTxFile(t *testing.T, path string) *protocol.Transaction {
	t.Helper()
	tx, err := readTransaction(path, nil, false)
	require.NoError(t, err)
	return tx
}

func unsigned(contracts ...*protocol.Contract) *protocol.Transaction {
	return &protocol.Transaction{
		RawData: &protocol.TransactionRaw{
			Contract:   contracts,
			Expiration: 1_700_000_060_000,
			Timestamp:  1_700_000_000_000,
		},
	}
}

func TestKeygen(t *testing.T) {
	out, err := runApp(t, "", "keygen")
	require.NoError(t, err)

	var privHex, addrHex, base58 string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		require.NotEmpty(t, fields)
		value := fields[len(fields)-1]
		switch {
		case strings.HasPrefix(line, "private key:"):
			privHex = value
		case strings.HasPrefix(line, "address:"):
			addrHex = value
		case strings.HasPrefix(line, "base58:"):
			base58 = value
		}
	}

	key, err := keys.PrivateKeyFromHex(privHex)
	require.NoError(t, err)
	assert.Equal(t, key.Address().Hex(), addrHex)

	parsed, err := address.FromBase58(base58)
	require.NoError(t, err)
	assert.Equal(t, key.Address(), parsed)
}

func TestSignAndValidate(t *testing.T) {
	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)
	other, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	in := writeTxFile(t, unsigned(transferFrom(key.Address(), 100)))
	signedPath := filepath.Join(t.TempDir(), "signed.json")

	t.Run("Should sign with the local key", func(t *testing.T) {
		_, err := runApp(t, "", "--keys", key.Hex(), "sign", "--out", signedPath, in)
		require.NoError(t, err)

		signed := readTxFile(t, signedPath)
		require.Len(t, signed.Signature, 1)
		assert.Len(t, signed.Signature[0], txauth.SignatureLength)
	})

	t.Run("Should accept the owner's signature", func(t *testing.T) {
		out, err := runApp(t, "", "--metrics", "validate", signedPath)
		require.NoError(t, err)
		assert.Equal(t, "valid\n", out)
	})

	t.Run("Should reject another key's signature", func(t *testing.T) {
		forged := filepath.Join(t.TempDir(), "forged.json")
		_, err := runApp(t, "", "--keys", other.Hex(), "sign", "--out", forged, in)
		require.NoError(t, err)

		out, err := runApp(t, "", "validate", forged)
		require.Error(t, err)
		assert.ErrorIs(t, err, txauth.ErrOwnerMismatch)
		assert.Contains(t, out, "invalid")
	})

	t.Run("Should reject an unsigned transaction", func(t *testing.T) {
		_, err := runApp(t, "", "validate", in)
		assert.ErrorIs(t, err, txauth.ErrNoSignatures)
	})
}

func TestSign_Keyring(t *testing.T) {
	alice, err := keys.GeneratePrivateKey()
	require.NoError(t, err)
	bob, err := keys.GeneratePrivateKey()
	require.NoError(t, err)

	in := writeTxFile(t, unsigned(transferFrom(alice.Address(), 1), transferFrom(bob.Address(), 2)))
	signedPath := filepath.Join(t.TempDir(), "signed.json")

	_, err = runApp(t, "",
		"--backend", "keyring",
		"--keys", alice.Hex()+","+bob.Hex(),
		"sign", "--out", signedPath, in,
	)
	require.NoError(t, err)

	signed := readTxFile(t, signedPath)
	require.Len(t, signed.Signature, 2)
	assert.NoError(t, txauth.NewAuthenticator(nil).Validate(signed))
}

func TestSign_Stamp(t *testing.T) {
	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)
	tx := unsigned(transferFrom(key.Address(), 1))
	in := writeTxFile(t, tx)

	out, err := runApp(t, "", "--keys", key.Hex(), "sign", "--stamp", in)
	require.NoError(t, err)

	signed := &protocol.Transaction{}
	require.NoError(t, json.Unmarshal([]byte(out), signed))
	assert.NotEqual(t, tx.RawData.Timestamp, signed.RawData.Timestamp)
	assert.NoError(t, txauth.NewAuthenticator(nil).Validate(signed))
}

func TestSign_HexAndStdin(t *testing.T) {
	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)
	encoded, err := encodeTransaction(unsigned(transferFrom(key.Address(), 9)), true)
	require.NoError(t, err)

	out, err := runApp(t, string(encoded), "--hex", "--keys", key.Hex(), "sign", "-")
	require.NoError(t, err)

	signed, err := protocol.DecodeHexTransaction(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.NoError(t, txauth.NewAuthenticator(nil).Validate(signed))
}

func TestSign_SaveAndShow(t *testing.T) {
	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)
	in := writeTxFile(t, unsigned(transferFrom(key.Address(), 5)))
	storeFlags := []string{"--store", "badger", "--badger-path", t.TempDir()}

	out, err := runApp(t, "", append(storeFlags, "--keys", key.Hex(), "sign", "--save", in)...)
	require.NoError(t, err)
	signed := &protocol.Transaction{}
	require.NoError(t, json.Unmarshal([]byte(out), signed))
	id := txauth.TransactionIDHex(signed)

	out, err = runApp(t, "", append(storeFlags, "show")...)
	require.NoError(t, err)
	assert.Equal(t, id+"\n", out)

	out, err = runApp(t, "", append(storeFlags, "show", id)...)
	require.NoError(t, err)
	shown := &protocol.Transaction{}
	require.NoError(t, json.Unmarshal([]byte(out), shown))
	assert.Equal(t, signed.Marshal(), shown.Marshal())

	_, err = runApp(t, "", append(storeFlags, "show", "deadbeef")...)
	assert.Error(t, err)
}

func TestStore_MemoryRejected(t *testing.T) {
	key, err := keys.GeneratePrivateKey()
	require.NoError(t, err)
	in := writeTxFile(t, unsigned(transferFrom(key.Address(), 1)))
	out := filepath.Join(t.TempDir(), "signed.json")

	tests := []struct {
		name string
		args []string
	}{
		{name: "sign --save", args: []string{"--keys", key.Hex(), "sign", "--save", "--out", out, in}},
		{name: "show list", args: []string{"show"}},
		{name: "show id", args: []string{"--store", "memory", "show", "deadbeef"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, "", tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errEphemeralStore))
		})
	}

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHash(t *testing.T) {
	tx := unsigned(transferFrom(common.HexToAddress("0x01"), 1))
	in := writeTxFile(t, tx)

	out, err := runApp(t, "", "hash", in)
	require.NoError(t, err)

	hash := txauth.SigningHash(tx)
	assert.Contains(t, out, common.Bytes2Hex(hash[:]))
	assert.Contains(t, out, txauth.TransactionIDHex(tx))
}

func TestOwner(t *testing.T) {
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	unknown := &protocol.Contract{Type: protocol.ContractType(77)}
	in := writeTxFile(t, unsigned(transferFrom(owner, 1), unknown))

	out, err := runApp(t, "", "owner", in)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "0\tTransferContract\t"+owner.Hex()+"\t"+address.ToBase58(owner), lines[0])
	assert.Equal(t, "1\t77\tnone", lines[1])
}

func TestCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file argument", args: []string{"hash"}},
		{name: "file does not exist", args: []string{"hash", filepath.Join(t.TempDir(), "nope.json")}},
		{name: "sign without keys", args: []string{"sign", "-"}},
		{name: "unknown backend", args: []string{"--backend", "hsm", "--keys", "00", "sign", "-"}},
		{name: "unknown store", args: []string{"--store", "s3", "show"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, "{}", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestNewStore(t *testing.T) {
	store, err := newStore(&config.Config{StoreType: config.StoreType_Memory}, nil)
	require.NoError(t, err)
	assert.NoError(t, store.HealthCheck())
	assert.NoError(t, store.Close())

	store, err = newStore(&config.Config{StoreType: config.StoreType_Badger, BadgerPath: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.NoError(t, store.HealthCheck())
	assert.NoError(t, store.Close())

	_, err = newStore(&config.Config{StoreType: config.StoreType_Redis}, nil)
	assert.Error(t, err)
}
