// Package address converts between the 20-byte account address used for
// signature checks and its textual forms: 0x hex and the Base58Check string
// with the 0x41 version byte shown by wallets and explorers.
package address

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Version is the mainnet address prefix byte.
const Version byte = 0x41

var (
	ErrInvalidLength  = errors.New("address: invalid length")
	ErrInvalidVersion = errors.New("address: invalid version byte")
	ErrInvalidFormat  = errors.New("address: invalid format")
)

// ToBase58 returns the Base58Check form of addr, e.g. "T...".
func ToBase58(addr common.Address) string {
	return base58.CheckEncode(addr.Bytes(), Version)
}

// FromBase58 decodes a Base58Check address and strips the version byte.
func FromBase58(s string) (common.Address, error) {
	payload, version, err := base58.CheckDecode(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if version != Version {
		return common.Address{}, fmt.Errorf("%w: 0x%02x", ErrInvalidVersion, version)
	}
	if len(payload) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(payload))
	}
	return common.BytesToAddress(payload), nil
}

// FromHex accepts 20-byte hex, or the 21-byte form that carries the 0x41
// prefix. The 0x prefix is optional.
func FromHex(s string) (common.Address, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	switch {
	case len(b) == common.AddressLength:
		return common.BytesToAddress(b), nil
	case len(b) == common.AddressLength+1:
		if b[0] != Version {
			return common.Address{}, fmt.Errorf("%w: 0x%02x", ErrInvalidVersion, b[0])
		}
		return common.BytesToAddress(b[1:]), nil
	default:
		return common.Address{}, fmt.Errorf("%w: %d bytes", ErrInvalidLength, len(b))
	}
}

// Parse accepts either textual form.
func Parse(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "T") {
		return FromBase58(s)
	}
	return FromHex(s)
}
