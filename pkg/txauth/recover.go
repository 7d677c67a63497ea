package txauth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverAddress returns the address of the key that produced sig over hash.
// sig is a packed 65-byte signature with v in either convention.
func RecoverAddress(hash []byte, sig []byte) (common.Address, error) {
	unpacked, err := UnpackSignature(sig)
	if err != nil {
		return common.Address{}, err
	}
	return recoverSigner(hash, unpacked)
}

func recoverSigner(hash []byte, sig Signature) (common.Address, error) {
	if len(hash) != HashLength {
		return common.Address{}, fmt.Errorf("%w: hash is %d bytes", ErrSignatureRecovery, len(hash))
	}
	raw, err := sig.recoverable()
	if err != nil {
		return common.Address{}, err
	}
	pub, err := crypto.SigToPub(hash, raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrSignatureRecovery, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
