package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
	"github.com/efeint01/TronClientSdk/pkg/txstore"
)

// MemoryStore keeps records in a map. Data is lost on exit. Records are deep
// copied in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*txstore.Record
	closed  bool
	now     func() time.Time
}

var _ txstore.ITransactionStore = (*MemoryStore)(nil)

func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger != nil {
		logger.Sugar().Warnw("Using in-memory transaction store, records are lost on exit")
	}
	return &MemoryStore{
		records: make(map[string]*txstore.Record),
		now:     time.Now,
	}
}

func (m *MemoryStore) SaveTransaction(tx *protocol.Transaction) (string, error) {
	rec, err := txstore.NewRecord(tx, m.now())
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", txstore.ErrClosed
	}
	m.records[rec.ID] = rec
	return rec.ID, nil
}

func (m *MemoryStore) LoadTransaction(id string) (*txstore.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, txstore.ErrClosed
	}
	return m.records[id].Clone(), nil
}

func (m *MemoryStore) ListTransactionIDs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, txstore.ErrClosed
	}
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) DeleteTransaction(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return txstore.ErrClosed
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.records = nil
	return nil
}

func (m *MemoryStore) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return txstore.ErrClosed
	}
	if m.records == nil {
		return fmt.Errorf("memory store not initialized")
	}
	return nil
}
