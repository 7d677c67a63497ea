package keys

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
	"github.com/efeint01/TronClientSdk/pkg/txauth"
)

// KeyInfo describes a key held by a Keyring.
type KeyInfo struct {
	ID      string
	Name    string
	Address common.Address
}

type keyEntry struct {
	info KeyInfo
	key  txauth.SigningKey
}

var _ txauth.KeySelector = (*Keyring)(nil)

// Keyring holds signing keys by id and by address. As a txauth.KeySelector it
// signs each contract with the key that owns it.
type Keyring struct {
	logger    *zap.Logger
	keys      map[string]*keyEntry // id -> entry
	byAddress map[common.Address]string
	mu        sync.RWMutex
}

func NewKeyring(logger *zap.Logger) *Keyring {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Keyring{
		logger:    logger,
		keys:      make(map[string]*keyEntry),
		byAddress: make(map[common.Address]string),
	}
}

func newKeyID() string {
	return fmt.Sprintf("local-key-%s", uuid.New().String())
}

// Generate creates a new local key and adds it under name.
func (r *Keyring) Generate(name string) (*KeyInfo, error) {
	key, err := GenerateLibKey()
	if err != nil {
		return nil, err
	}
	return r.AddWithID(newKeyID(), name, key)
}

// Add stores key under a fresh id.
func (r *Keyring) Add(name string, key txauth.SigningKey) (*KeyInfo, error) {
	return r.AddWithID(newKeyID(), name, key)
}

// AddWithID stores key under id. Both the id and the key's address must be new.
func (r *Keyring) AddWithID(id, name string, key txauth.SigningKey) (*KeyInfo, error) {
	if key == nil {
		return nil, fmt.Errorf("signing key cannot be nil")
	}
	addr := key.Address()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.keys[id]; exists {
		return nil, fmt.Errorf("%w: id %s", ErrKeyExists, id)
	}
	if existing, exists := r.byAddress[addr]; exists {
		return nil, fmt.Errorf("%w: address %s is held by %s", ErrKeyExists, addr.Hex(), existing)
	}

	entry := &keyEntry{
		info: KeyInfo{ID: id, Name: name, Address: addr},
		key:  key,
	}
	r.keys[id] = entry
	r.byAddress[addr] = id

	r.logger.Info("Added key to keyring",
		zap.String("keyId", id),
		zap.String("keyName", name),
		zap.String("address", addr.Hex()),
	)
	info := entry.info
	return &info, nil
}

// LoadPrivateKeyHex parses a hex private key and adds it under name.
func (r *Keyring) LoadPrivateKeyHex(name, privateKeyHex string) (*KeyInfo, error) {
	key, err := LibKeyFromHex(privateKeyHex)
	if err != nil {
		return nil, err
	}
	return r.Add(name, key)
}

func (r *Keyring) Get(id string) (txauth.SigningKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.keys[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrKeyNotFound, id)
	}
	return entry.key, nil
}

func (r *Keyring) ByAddress(addr common.Address) (txauth.SigningKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byAddress[addr]
	if !ok {
		return nil, fmt.Errorf("%w: address %s", ErrKeyNotFound, addr.Hex())
	}
	return r.keys[id].key, nil
}

// Remove deletes the key with id and reports whether it was present.
func (r *Keyring) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.keys[id]
	if !ok {
		return false
	}
	delete(r.keys, id)
	delete(r.byAddress, entry.info.Address)

	r.logger.Info("Removed key from keyring", zap.String("keyId", id))
	return true
}

// List returns the held keys ordered by name, then id.
func (r *Keyring) List() []KeyInfo {
	r.mu.RLock()
	out := make([]KeyInfo, 0, len(r.keys))
	for _, entry := range r.keys {
		out = append(out, entry.info)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Keyring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// KeyFor returns the key whose address is the contract's owner.
func (r *Keyring) KeyFor(index int, contract *protocol.Contract) (txauth.SigningKey, error) {
	owner, err := txauth.OwnerOf(contract)
	if err != nil {
		return nil, fmt.Errorf("contract %d has no usable owner: %w", index, err)
	}
	return r.ByAddress(owner)
}
