package txauth

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

func TestExtractOwner_SupportedKinds(t *testing.T) {
	auth := NewAuthenticator(nil)
	owner := common.HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314")

	for _, ct := range protocol.SupportedContractTypes() {
		t.Run(ct.String(), func(t *testing.T) {
			p := parameterWithOwner(ct, owner.Bytes())
			require.NotNil(t, p)

			got, ok := auth.ExtractOwner(protocol.NewContract(p))
			require.True(t, ok)
			assert.Equal(t, owner, got)
		})
	}
}

func TestExtractOwner_UnknownTypeIsSilent(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rec := newCountingRecorder()
	auth := NewAuthenticator(zap.New(core), WithMetrics(rec))

	for _, ct := range []protocol.ContractType{
		protocol.ContractType_ProposalCreateContract,
		protocol.ContractType_AccountUpdateContract,
		protocol.ContractType(999),
	} {
		_, ok := auth.ExtractOwner(&protocol.Contract{Type: ct, Parameter: &protocol.Any{TypeUrl: ct.TypeURL()}})
		assert.False(t, ok, ct.String())
	}
	_, ok := auth.ExtractOwner(nil)
	assert.False(t, ok)

	assert.Equal(t, 0, logs.Len())
	assert.Empty(t, rec.ownerFailure)
}

func TestExtractOwner_DecodeFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := newCountingRecorder()
	auth := NewAuthenticator(zap.New(core), WithMetrics(rec))
	owner := common.HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314")

	mismatched := protocol.NewContract(&protocol.TransferContract{OwnerAddress: owner.Bytes()})
	mismatched.Parameter.TypeUrl = protocol.ContractType_WithdrawBalanceContract.TypeURL()

	tests := []struct {
		name     string
		contract *protocol.Contract
	}{
		{"type url mismatch", mismatched},
		{"missing parameter", &protocol.Contract{Type: protocol.ContractType_TransferContract}},
		{"truncated payload", &protocol.Contract{
			Type:      protocol.ContractType_TransferContract,
			Parameter: &protocol.Any{TypeUrl: protocol.ContractType_TransferContract.TypeURL(), Value: []byte{0x0a, 0x14, 0x01}},
		}},
		{"short owner", protocol.NewContract(&protocol.TransferContract{OwnerAddress: []byte{1, 2, 3}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := auth.ExtractOwner(tt.contract)
			assert.False(t, ok)
		})
	}

	assert.Equal(t, len(tests), logs.FilterMessage("Failed to extract contract owner").Len())
	assert.Equal(t, len(tests), rec.ownerFailure["TransferContract"])
}

func TestOwnerOf_Errors(t *testing.T) {
	_, err := OwnerOf(protocol.NewContract(&protocol.WithdrawBalanceContract{}))
	assert.True(t, errors.Is(err, ErrInvalidOwner))

	_, err = OwnerOf(&protocol.Contract{Type: protocol.ContractType_ProposalDeleteContract, Parameter: &protocol.Any{}})
	assert.True(t, errors.Is(err, protocol.ErrUnknownContractType))
}
