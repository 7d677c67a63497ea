package txauth

import (
	"errors"
	"fmt"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

var (
	ErrNilTransaction         = errors.New("txauth: transaction is nil")
	ErrNoSignatures           = errors.New("txauth: transaction has no signatures")
	ErrNoContracts            = errors.New("txauth: transaction has no contracts")
	ErrSignatureCountMismatch = errors.New("txauth: signature count does not match contract count")
	ErrValidationPanic        = errors.New("txauth: validation panicked")
)

var (
	ErrMalformedSignature = errors.New("txauth: malformed signature")
	ErrSignatureRecovery  = errors.New("txauth: signature recovery failed")
	ErrNoOwner            = errors.New("txauth: contract has no owner")
	ErrInvalidOwner       = errors.New("txauth: owner is not a 20-byte address")
	ErrOwnerMismatch      = errors.New("txauth: signer does not match contract owner")
)

// ContractAuthError reports which contract failed authorization and why.
type ContractAuthError struct {
	Index int
	Type  protocol.ContractType
	Err   error
}

func (e *ContractAuthError) Error() string {
	return fmt.Sprintf("contract %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *ContractAuthError) Unwrap() error {
	return e.Err
}
