// Package storetest is a behavioural suite shared by the txstore backends.
package storetest

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
	"github.com/efeint01/TronClientSdk/pkg/txauth"
	"github.com/efeint01/TronClientSdk/pkg/txstore"
)

// Factory opens a fresh, empty store.
type Factory func(t *testing.T) txstore.ITransactionStore

// Transaction builds a distinct signed-looking transaction for seed.
func Transaction(seed int64) *protocol.Transaction {
	owner := make([]byte, 20)
	owner[19] = byte(seed)
	return &protocol.Transaction{
		RawData: &protocol.TransactionRaw{
			Contract: []*protocol.Contract{
				protocol.NewContract(&protocol.TransferContract{OwnerAddress: owner, Amount: seed + 1}),
			},
			Timestamp: 1_700_000_000_000 + seed,
		},
		Signature: [][]byte{make([]byte, txauth.SignatureLength)},
	}
}

// Run exercises every ITransactionStore operation against stores from open.
func Run(t *testing.T, open Factory) {
	t.Run("SaveAndLoad", func(t *testing.T) {
		store := open(t)
		defer func() { _ = store.Close() }()

		tx := Transaction(1)
		id, err := store.SaveTransaction(tx)
		require.NoError(t, err)
		assert.Equal(t, txauth.TransactionIDHex(tx), id)

		rec, err := store.LoadTransaction(id)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, id, rec.ID)
		assert.False(t, rec.SavedAt.IsZero())
		assert.Equal(t, tx.Marshal(), rec.Transaction.Marshal())
	})

	t.Run("LoadMissing", func(t *testing.T) {
		store := open(t)
		defer func() { _ = store.Close() }()

		rec, err := store.LoadTransaction("does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("SaveIsIdempotent", func(t *testing.T) {
		store := open(t)
		defer func() { _ = store.Close() }()

		tx := Transaction(2)
		first, err := store.SaveTransaction(tx)
		require.NoError(t, err)
		second, err := store.SaveTransaction(tx)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		ids, err := store.ListTransactionIDs()
		require.NoError(t, err)
		assert.Equal(t, []string{first}, ids)
	})

	t.Run("StoredCopyIsIsolated", func(t *testing.T) {
		store := open(t)
		defer func() { _ = store.Close() }()

		tx := Transaction(3)
		id, err := store.SaveTransaction(tx)
		require.NoError(t, err)
		tx.Signature[0][0] = 0xff

		rec, err := store.LoadTransaction(id)
		require.NoError(t, err)
		assert.Equal(t, byte(0), rec.Transaction.Signature[0][0])

		rec.Transaction.Signature[0][1] = 0xff
		again, err := store.LoadTransaction(id)
		require.NoError(t, err)
		assert.Equal(t, byte(0), again.Transaction.Signature[0][1])
	})

	t.Run("ListSorted", func(t *testing.T) {
		store := open(t)
		defer func() { _ = store.Close() }()

		var want []string
		for i := int64(10); i < 15; i++ {
			id, err := store.SaveTransaction(Transaction(i))
			require.NoError(t, err)
			want = append(want, id)
		}
		sort.Strings(want)

		ids, err := store.ListTransactionIDs()
		require.NoError(t, err)
		assert.Equal(t, want, ids)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		store := open(t)
		defer func() { _ = store.Close() }()

		ids, err := store.ListTransactionIDs()
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		store := open(t)
		defer func() { _ = store.Close() }()

		id, err := store.SaveTransaction(Transaction(20))
		require.NoError(t, err)

		require.NoError(t, store.DeleteTransaction(id))
		rec, err := store.LoadTransaction(id)
		require.NoError(t, err)
		assert.Nil(t, rec)

		// idempotent
		require.NoError(t, store.DeleteTransaction(id))

		ids, err := store.ListTransactionIDs()
		require.NoError(t, err)
		assert.NotContains(t, ids, id)
	})

	t.Run("SaveNil", func(t *testing.T) {
		store := open(t)
		defer func() { _ = store.Close() }()

		_, err := store.SaveTransaction(nil)
		assert.Error(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.HealthCheck())

		require.NoError(t, store.Close())
		require.NoError(t, store.Close())

		_, err := store.SaveTransaction(Transaction(30))
		assert.True(t, errors.Is(err, txstore.ErrClosed))
		_, err = store.LoadTransaction("x")
		assert.True(t, errors.Is(err, txstore.ErrClosed))
		_, err = store.ListTransactionIDs()
		assert.True(t, errors.Is(err, txstore.ErrClosed))
		assert.True(t, errors.Is(store.DeleteTransaction("x"), txstore.ErrClosed))
		assert.True(t, errors.Is(store.HealthCheck(), txstore.ErrClosed))
	})

	t.Run("Concurrent", func(t *testing.T) {
		store := open(t)
		defer func() { _ = store.Close() }()

		var wg sync.WaitGroup
		errs := make(chan error, 40)
		for i := int64(0); i < 20; i++ {
			wg.Add(2)
			go func(i int64) {
				defer wg.Done()
				if _, err := store.SaveTransaction(Transaction(100 + i)); err != nil {
					errs <- err
				}
			}(i)
			go func() {
				defer wg.Done()
				if _, err := store.ListTransactionIDs(); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Error(err)
		}

		ids, err := store.ListTransactionIDs()
		require.NoError(t, err)
		assert.Len(t, ids, 20, fmt.Sprintf("ids: %v", ids))
	})
}
