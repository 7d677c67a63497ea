package txauth

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

// OwnerOf decodes the contract payload and returns its declared owner. The
// owner field must hold exactly 20 bytes.
func OwnerOf(contract *protocol.Contract) (common.Address, error) {
	param, err := protocol.DecodeParameter(contract)
	if err != nil {
		return common.Address{}, err
	}
	owner := param.GetOwnerAddress()
	if len(owner) != common.AddressLength {
		return common.Address{}, fmt.Errorf("%w: got %d bytes", ErrInvalidOwner, len(owner))
	}
	return common.BytesToAddress(owner), nil
}

// ExtractOwner returns the owner of contract, or false when it has none. Only
// the supported contract kinds have an owner. A supported contract whose
// payload cannot be decoded is logged and treated as having no owner.
func (a *Authenticator) ExtractOwner(contract *protocol.Contract) (common.Address, bool) {
	if contract == nil {
		return common.Address{}, false
	}
	if _, ok := protocol.NewParameter(contract.Type); !ok {
		return common.Address{}, false
	}
	owner, err := OwnerOf(contract)
	if err != nil {
		a.logger.Warn("Failed to extract contract owner",
			zap.String("contractType", contract.Type.String()),
			zap.Error(err),
		)
		a.recorder.OwnerExtractionFailed(contract.Type.String())
		return common.Address{}, false
	}
	return owner, true
}
