package txauth

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

// Validate checks that every contract in tx is signed by its owner and
// returns the first failure.
func (a *Authenticator) Validate(tx *protocol.Transaction) error {
	if tx == nil {
		return ErrNilTransaction
	}
	sigs := tx.Signature
	contracts := tx.GetContracts()
	if len(sigs) == 0 {
		return ErrNoSignatures
	}
	if len(sigs) != len(contracts) {
		return fmt.Errorf("%w: %d signatures, %d contracts", ErrSignatureCountMismatch, len(sigs), len(contracts))
	}

	hash := SigningHash(tx)
	for i, contract := range contracts {
		if err := a.authorize(hash[:], i, contract, sigs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (a *Authenticator) authorize(hash []byte, index int, contract *protocol.Contract, sig []byte) error {
	fail := func(err error) error {
		return &ContractAuthError{Index: index, Type: contract.GetType(), Err: err}
	}

	owner, ok := a.ExtractOwner(contract)
	if !ok {
		return fail(ErrNoOwner)
	}
	signer, err := RecoverAddress(hash, sig)
	if err != nil {
		return fail(err)
	}
	if signer != owner {
		return fail(fmt.Errorf("%w: recovered %s, owner %s", ErrOwnerMismatch, signer.Hex(), owner.Hex()))
	}
	return nil
}

// ValidateTransaction reports whether tx is fully authorized. It never
// panics; any fault yields false.
func (a *Authenticator) ValidateTransaction(tx *protocol.Transaction) bool {
	return a.Verify(tx) == nil
}

// Verify runs Validate once, converting a panic into ErrValidationPanic, and
// records the outcome.
func (a *Authenticator) Verify(tx *protocol.Transaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Recovered from panic during validation", zap.Any("panic", r))
			err = fmt.Errorf("%w: %v", ErrValidationPanic, r)
		}
		a.recorder.ValidationResult(err == nil)
	}()

	if err = a.Validate(tx); err != nil {
		a.logger.Debug("Transaction failed validation", zap.Error(err))
	}
	return err
}
