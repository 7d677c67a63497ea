package badger

import (
	"testing"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efeint01/TronClientSdk/pkg/logger"
	"github.com/efeint01/TronClientSdk/pkg/txstore"
	"github.com/efeint01/TronClientSdk/pkg/txstore/storetest"
)

func openTestStore(t *testing.T, dir string) *BadgerStore {
	t.Helper()
	testLogger, err := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	require.NoError(t, err)

	bs, err := NewBadgerStore(dir, testLogger)
	require.NoError(t, err)
	return bs
}

func TestBadgerStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) txstore.ITransactionStore {
		return openTestStore(t, t.TempDir())
	})
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	tx := storetest.Transaction(7)

	bs := openTestStore(t, dir)
	id, err := bs.SaveTransaction(tx)
	require.NoError(t, err)
	require.NoError(t, bs.Close())

	reopened := openTestStore(t, dir)
	defer func() { _ = reopened.Close() }()

	rec, err := reopened.LoadTransaction(id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, tx.Marshal(), rec.Transaction.Marshal())
}

func TestBadgerStore_RejectsUnknownSchema(t *testing.T) {
	dir := t.TempDir()

	bs := openTestStore(t, dir)
	require.NoError(t, bs.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(keySchemaVersion), []byte("v0"))
	}))
	require.NoError(t, bs.Close())

	_, err := NewBadgerStore(dir, nil)
	assert.Error(t, err)
}

func TestBadgerStore_CorruptRecord(t *testing.T) {
	bs := openTestStore(t, t.TempDir())
	defer func() { _ = bs.Close() }()

	require.NoError(t, bs.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(txKey("broken"), []byte("not json"))
	}))

	_, err := bs.LoadTransaction("broken")
	assert.Error(t, err)

	ids, err := bs.ListTransactionIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"broken"}, ids)
}
