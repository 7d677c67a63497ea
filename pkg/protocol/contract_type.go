package protocol

import (
	"fmt"
	"strconv"
)

// ContractType is the Transaction.Contract.ContractType enum. Values follow
// the on-chain numbering so that serialized transactions interoperate.
type ContractType int32

const (
	ContractType_AccountCreateContract         ContractType = 0
	ContractType_TransferContract              ContractType = 1
	ContractType_TransferAssetContract         ContractType = 2
	ContractType_VoteAssetContract             ContractType = 3
	ContractType_VoteWitnessContract           ContractType = 4
	ContractType_WitnessCreateContract         ContractType = 5
	ContractType_AssetIssueContract            ContractType = 6
	ContractType_WitnessUpdateContract         ContractType = 8
	ContractType_ParticipateAssetIssueContract ContractType = 9
	ContractType_AccountUpdateContract         ContractType = 10
	ContractType_FreezeBalanceContract         ContractType = 11
	ContractType_UnfreezeBalanceContract       ContractType = 12
	ContractType_WithdrawBalanceContract       ContractType = 13
	ContractType_UnfreezeAssetContract         ContractType = 14
	ContractType_UpdateAssetContract           ContractType = 15
	ContractType_ProposalCreateContract        ContractType = 16
	ContractType_ProposalApproveContract       ContractType = 17
	ContractType_ProposalDeleteContract        ContractType = 18
	ContractType_CreateSmartContract           ContractType = 30
	ContractType_TriggerSmartContract          ContractType = 31
)

var contractTypeNames = map[ContractType]string{
	ContractType_AccountCreateContract:         "AccountCreateContract",
	ContractType_TransferContract:              "TransferContract",
	ContractType_TransferAssetContract:         "TransferAssetContract",
	ContractType_VoteAssetContract:             "VoteAssetContract",
	ContractType_VoteWitnessContract:           "VoteWitnessContract",
	ContractType_WitnessCreateContract:         "WitnessCreateContract",
	ContractType_AssetIssueContract:            "AssetIssueContract",
	ContractType_WitnessUpdateContract:         "WitnessUpdateContract",
	ContractType_ParticipateAssetIssueContract: "ParticipateAssetIssueContract",
	ContractType_AccountUpdateContract:         "AccountUpdateContract",
	ContractType_FreezeBalanceContract:         "FreezeBalanceContract",
	ContractType_UnfreezeBalanceContract:       "UnfreezeBalanceContract",
	ContractType_WithdrawBalanceContract:       "WithdrawBalanceContract",
	ContractType_UnfreezeAssetContract:         "UnfreezeAssetContract",
	ContractType_UpdateAssetContract:           "UpdateAssetContract",
	ContractType_ProposalCreateContract:        "ProposalCreateContract",
	ContractType_ProposalApproveContract:       "ProposalApproveContract",
	ContractType_ProposalDeleteContract:        "ProposalDeleteContract",
	ContractType_CreateSmartContract:           "CreateSmartContract",
	ContractType_TriggerSmartContract:          "TriggerSmartContract",
}

func (c ContractType) String() string {
	if name, ok := contractTypeNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}

// ParseContractType accepts either the enum name or its decimal value.
func ParseContractType(s string) (ContractType, error) {
	for t, name := range contractTypeNames {
		if name == s {
			return t, nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown contract type: %s", s)
	}
	return ContractType(n), nil
}

// typeURLPrefix is prepended to the message name in Any.TypeUrl.
const typeURLPrefix = "type.googleapis.com/protocol."

// TypeURL returns the Any type URL used for parameters of this contract type.
func (c ContractType) TypeURL() string {
	return typeURLPrefix + c.String()
}
