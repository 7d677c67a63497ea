package memory

import (
	"testing"

	"github.com/efeint01/TronClientSdk/pkg/txstore"
	"github.com/efeint01/TronClientSdk/pkg/txstore/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) txstore.ITransactionStore {
		return NewMemoryStore(nil)
	})
}
