package txauth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

type testKey struct {
	priv *ecdsa.PrivateKey
	// legacyV reports v as 27/28 instead of 0/1
	legacyV bool
}

func newTestKey(t *testing.T) *testKey {
	t.Helper()
	priv, err := crypto.GenerateKey()
	require.NoError(t, err)
	return &testKey{priv: priv}
}

func (k *testKey) Address() common.Address {
	return crypto.PubkeyToAddress(k.priv.PublicKey)
}

func (k *testKey) SignHash(_ context.Context, hash []byte) ([]byte, error) {
	sig, err := crypto.Sign(hash, k.priv)
	if err != nil {
		return nil, err
	}
	if k.legacyV {
		sig[64] += 27
	}
	return sig, nil
}

type failingKey struct {
	addr common.Address
	sig  []byte
	err  error
}

func (k *failingKey) Address() common.Address { return k.addr }

func (k *failingKey) SignHash(context.Context, []byte) ([]byte, error) {
	return k.sig, k.err
}

var errKeyUnavailable = errors.New("key unavailable")

func transferContract(owner common.Address, amount int64) *protocol.Contract {
	return protocol.NewContract(&protocol.TransferContract{
		OwnerAddress: owner.Bytes(),
		ToAddress:    common.HexToAddress("0x00000000000000000000000000000000000000aa").Bytes(),
		Amount:       amount,
	})
}

func unsignedTx(contracts ...*protocol.Contract) *protocol.Transaction {
	return &protocol.Transaction{
		RawData: &protocol.TransactionRaw{
			RefBlockBytes: []byte{0x12, 0x34},
			RefBlockHash:  []byte{1, 2, 3, 4, 5, 6, 7, 8},
			Expiration:    1_700_000_060_000,
			Contract:      contracts,
			Timestamp:     1_700_000_000_000,
		},
	}
}

// parameterWithOwner returns a payload of kind t whose owner field is owner.
func parameterWithOwner(t protocol.ContractType, owner []byte) protocol.ContractParameter {
	switch t {
	case protocol.ContractType_AccountCreateContract:
		return &protocol.AccountCreateContract{OwnerAddress: owner, AccountAddress: []byte{1}}
	case protocol.ContractType_TransferContract:
		return &protocol.TransferContract{OwnerAddress: owner, ToAddress: []byte{1}, Amount: 1}
	case protocol.ContractType_TransferAssetContract:
		return &protocol.TransferAssetContract{AssetName: []byte("1000001"), OwnerAddress: owner, Amount: 1}
	case protocol.ContractType_VoteAssetContract:
		return &protocol.VoteAssetContract{OwnerAddress: owner, Count: 1}
	case protocol.ContractType_VoteWitnessContract:
		return &protocol.VoteWitnessContract{OwnerAddress: owner, Votes: []*protocol.Vote{{VoteAddress: []byte{1}, VoteCount: 1}}}
	case protocol.ContractType_WitnessCreateContract:
		return &protocol.WitnessCreateContract{OwnerAddress: owner, Url: []byte("u")}
	case protocol.ContractType_AssetIssueContract:
		return &protocol.AssetIssueContract{OwnerAddress: owner, Name: []byte("T"), TotalSupply: 1}
	case protocol.ContractType_ParticipateAssetIssueContract:
		return &protocol.ParticipateAssetIssueContract{OwnerAddress: owner, AssetName: []byte("T"), Amount: 1}
	case protocol.ContractType_CreateSmartContract:
		return &protocol.CreateSmartContract{OwnerAddress: owner}
	case protocol.ContractType_TriggerSmartContract:
		return &protocol.TriggerSmartContract{OwnerAddress: owner, ContractAddress: []byte{1}}
	case protocol.ContractType_FreezeBalanceContract:
		return &protocol.FreezeBalanceContract{OwnerAddress: owner, FrozenBalance: 1, FrozenDuration: 3}
	case protocol.ContractType_UnfreezeBalanceContract:
		return &protocol.UnfreezeBalanceContract{OwnerAddress: owner}
	case protocol.ContractType_UnfreezeAssetContract:
		return &protocol.UnfreezeAssetContract{OwnerAddress: owner}
	case protocol.ContractType_WithdrawBalanceContract:
		return &protocol.WithdrawBalanceContract{OwnerAddress: owner}
	case protocol.ContractType_UpdateAssetContract:
		return &protocol.UpdateAssetContract{OwnerAddress: owner, Description: []byte("d")}
	}
	return nil
}

type countingRecorder struct {
	signatures   int
	valid        int
	invalid      int
	ownerFailure map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{ownerFailure: map[string]int{}}
}

func (r *countingRecorder) SignaturesCreated(n int) { r.signatures += n }

func (r *countingRecorder) ValidationResult(valid bool) {
	if valid {
		r.valid++
	} else {
		r.invalid++
	}
}

func (r *countingRecorder) OwnerExtractionFailed(contractType string) {
	r.ownerFailure[contractType]++
}
