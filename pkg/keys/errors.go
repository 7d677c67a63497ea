package keys

import "errors"

var (
	ErrKeyNotFound   = errors.New("keys: key not found")
	ErrKeyExists     = errors.New("keys: key already exists")
	ErrInvalidHash   = errors.New("keys: hash must be 32 bytes")
	ErrInvalidKeyHex = errors.New("keys: invalid private key hex")
)
