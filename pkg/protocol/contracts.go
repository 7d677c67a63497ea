package protocol

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

var (
	ErrUnknownContractType = errors.New("protocol: unknown contract type")
	ErrMissingParameter    = errors.New("protocol: contract has no parameter")
	ErrTypeURLMismatch     = errors.New("protocol: parameter type url does not match contract type")
)

// ContractParameter is the closed set of contract payloads. Only the types in
// this file implement it; DecodeParameter is the single dispatch point from a
// ContractType to its payload.
type ContractParameter interface {
	ContractType() ContractType
	GetOwnerAddress() []byte
	Marshal() []byte
	Unmarshal(b []byte) error

	isContractParameter()
}

// NewParameter returns an empty payload for t, or false when t is not one of
// the supported kinds.
func NewParameter(t ContractType) (ContractParameter, bool) {
	switch t {
	case ContractType_AccountCreateContract:
		return &AccountCreateContract{}, true
	case ContractType_TransferContract:
		return &TransferContract{}, true
	case ContractType_TransferAssetContract:
		return &TransferAssetContract{}, true
	case ContractType_VoteAssetContract:
		return &VoteAssetContract{}, true
	case ContractType_VoteWitnessContract:
		return &VoteWitnessContract{}, true
	case ContractType_WitnessCreateContract:
		return &WitnessCreateContract{}, true
	case ContractType_AssetIssueContract:
		return &AssetIssueContract{}, true
	case ContractType_ParticipateAssetIssueContract:
		return &ParticipateAssetIssueContract{}, true
	case ContractType_CreateSmartContract:
		return &CreateSmartContract{}, true
	case ContractType_TriggerSmartContract:
		return &TriggerSmartContract{}, true
	case ContractType_FreezeBalanceContract:
		return &FreezeBalanceContract{}, true
	case ContractType_UnfreezeBalanceContract:
		return &UnfreezeBalanceContract{}, true
	case ContractType_UnfreezeAssetContract:
		return &UnfreezeAssetContract{}, true
	case ContractType_WithdrawBalanceContract:
		return &WithdrawBalanceContract{}, true
	case ContractType_UpdateAssetContract:
		return &UpdateAssetContract{}, true
	default:
		return nil, false
	}
}

// SupportedContractTypes lists every kind NewParameter knows about.
func SupportedContractTypes() []ContractType {
	return []ContractType{
		ContractType_AccountCreateContract,
		ContractType_TransferContract,
		ContractType_TransferAssetContract,
		ContractType_VoteAssetContract,
		ContractType_VoteWitnessContract,
		ContractType_WitnessCreateContract,
		ContractType_AssetIssueContract,
		ContractType_ParticipateAssetIssueContract,
		ContractType_CreateSmartContract,
		ContractType_TriggerSmartContract,
		ContractType_FreezeBalanceContract,
		ContractType_UnfreezeBalanceContract,
		ContractType_UnfreezeAssetContract,
		ContractType_WithdrawBalanceContract,
		ContractType_UpdateAssetContract,
	}
}

// NewContract wraps a payload into a Contract with the matching type and type URL.
func NewContract(p ContractParameter) *Contract {
	t := p.ContractType()
	return &Contract{
		Type: t,
		Parameter: &Any{
			TypeUrl: t.TypeURL(),
			Value:   p.Marshal(),
		},
	}
}

// DecodeParameter unpacks the contract's Any into its typed payload. The type
// URL must name the message that belongs to the contract type.
func DecodeParameter(c *Contract) (ContractParameter, error) {
	if c == nil {
		return nil, ErrMissingParameter
	}
	p, ok := NewParameter(c.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContractType, c.Type)
	}
	if c.Parameter == nil {
		return nil, ErrMissingParameter
	}
	if typeName(c.Parameter.TypeUrl) != "protocol."+c.Type.String() {
		return nil, fmt.Errorf("%w: %q for %s", ErrTypeURLMismatch, c.Parameter.TypeUrl, c.Type)
	}
	if err := p.Unmarshal(c.Parameter.Value); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.Type, err)
	}
	return p, nil
}

func typeName(typeURL string) string {
	if i := strings.LastIndexByte(typeURL, '/'); i >= 0 {
		return typeURL[i+1:]
	}
	return typeURL
}

type AccountCreateContract struct {
	OwnerAddress   []byte
	AccountAddress []byte
	Type           int32
}

func (*AccountCreateContract) isContractParameter() {}
func (*AccountCreateContract) ContractType() ContractType {
	return ContractType_AccountCreateContract
}
func (m *AccountCreateContract) GetOwnerAddress() []byte { return m.OwnerAddress }

func (m *AccountCreateContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendBytesField(b, 2, m.AccountAddress)
	b = appendInt32Field(b, 3, m.Type)
	return b
}

func (m *AccountCreateContract) Unmarshal(b []byte) error {
	*m = AccountCreateContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			m.AccountAddress, err = f.bytes()
		case 3:
			m.Type, err = f.int32()
		}
		return err
	})
}

type TransferContract struct {
	OwnerAddress []byte
	ToAddress    []byte
	Amount       int64
}

func (*TransferContract) isContractParameter()       {}
func (*TransferContract) ContractType() ContractType { return ContractType_TransferContract }
func (m *TransferContract) GetOwnerAddress() []byte  { return m.OwnerAddress }

func (m *TransferContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendBytesField(b, 2, m.ToAddress)
	b = appendInt64Field(b, 3, m.Amount)
	return b
}

func (m *TransferContract) Unmarshal(b []byte) error {
	*m = TransferContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			m.ToAddress, err = f.bytes()
		case 3:
			m.Amount, err = f.int64()
		}
		return err
	})
}

// TransferAssetContract carries its owner in field 2; the asset name comes first.
type TransferAssetContract struct {
	AssetName    []byte
	OwnerAddress []byte
	ToAddress    []byte
	Amount       int64
}

func (*TransferAssetContract) isContractParameter() {}
func (*TransferAssetContract) ContractType() ContractType {
	return ContractType_TransferAssetContract
}
func (m *TransferAssetContract) GetOwnerAddress() []byte { return m.OwnerAddress }

func (m *TransferAssetContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.AssetName)
	b = appendBytesField(b, 2, m.OwnerAddress)
	b = appendBytesField(b, 3, m.ToAddress)
	b = appendInt64Field(b, 4, m.Amount)
	return b
}

func (m *TransferAssetContract) Unmarshal(b []byte) error {
	*m = TransferAssetContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.AssetName, err = f.bytes()
		case 2:
			m.OwnerAddress, err = f.bytes()
		case 3:
			m.ToAddress, err = f.bytes()
		case 4:
			m.Amount, err = f.int64()
		}
		return err
	})
}

type VoteAssetContract struct {
	OwnerAddress []byte
	VoteAddress  [][]byte
	Support      bool
	Count        int32
}

func (*VoteAssetContract) isContractParameter()       {}
func (*VoteAssetContract) ContractType() ContractType { return ContractType_VoteAssetContract }
func (m *VoteAssetContract) GetOwnerAddress() []byte  { return m.OwnerAddress }

func (m *VoteAssetContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendRepeatedBytes(b, 2, m.VoteAddress)
	b = appendBoolField(b, 3, m.Support)
	b = appendInt32Field(b, 5, m.Count)
	return b
}

func (m *VoteAssetContract) Unmarshal(b []byte) error {
	*m = VoteAssetContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			var v []byte
			if v, err = f.bytes(); err == nil {
				m.VoteAddress = append(m.VoteAddress, v)
			}
		case 3:
			m.Support, err = f.bool()
		case 5:
			m.Count, err = f.int32()
		}
		return err
	})
}

type Vote struct {
	VoteAddress []byte
	VoteCount   int64
}

func (v *Vote) marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, v.VoteAddress)
	b = appendInt64Field(b, 2, v.VoteCount)
	return b
}

func (v *Vote) unmarshal(b []byte) error {
	*v = Vote{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			v.VoteAddress, err = f.bytes()
		case 2:
			v.VoteCount, err = f.int64()
		}
		return err
	})
}

type VoteWitnessContract struct {
	OwnerAddress []byte
	Votes        []*Vote
	Support      bool
}

func (*VoteWitnessContract) isContractParameter()       {}
func (*VoteWitnessContract) ContractType() ContractType { return ContractType_VoteWitnessContract }
func (m *VoteWitnessContract) GetOwnerAddress() []byte  { return m.OwnerAddress }

func (m *VoteWitnessContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	for _, v := range m.Votes {
		b = appendMessageField(b, 2, v.marshal())
	}
	b = appendBoolField(b, 3, m.Support)
	return b
}

func (m *VoteWitnessContract) Unmarshal(b []byte) error {
	*m = VoteWitnessContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			if err = f.expect(protowire.BytesType); err != nil {
				return err
			}
			v := &Vote{}
			if err = v.unmarshal(f.Bytes); err == nil {
				m.Votes = append(m.Votes, v)
			}
		case 3:
			m.Support, err = f.bool()
		}
		return err
	})
}

type WitnessCreateContract struct {
	OwnerAddress []byte
	Url          []byte
}

func (*WitnessCreateContract) isContractParameter() {}
func (*WitnessCreateContract) ContractType() ContractType {
	return ContractType_WitnessCreateContract
}
func (m *WitnessCreateContract) GetOwnerAddress() []byte { return m.OwnerAddress }

func (m *WitnessCreateContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendBytesField(b, 2, m.Url)
	return b
}

func (m *WitnessCreateContract) Unmarshal(b []byte) error {
	*m = WitnessCreateContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			m.Url, err = f.bytes()
		}
		return err
	})
}

// AssetIssueContract models the fields needed to issue and describe a token.
// Frozen supply schedules are not modelled and are skipped on decode.
type AssetIssueContract struct {
	OwnerAddress            []byte
	Name                    []byte
	Abbr                    []byte
	TotalSupply             int64
	TrxNum                  int32
	Precision               int32
	Num                     int32
	StartTime               int64
	EndTime                 int64
	Description             []byte
	Url                     []byte
	FreeAssetNetLimit       int64
	PublicFreeAssetNetLimit int64
	Id                      string
}

func (*AssetIssueContract) isContractParameter()       {}
func (*AssetIssueContract) ContractType() ContractType { return ContractType_AssetIssueContract }
func (m *AssetIssueContract) GetOwnerAddress() []byte  { return m.OwnerAddress }

func (m *AssetIssueContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendBytesField(b, 2, m.Name)
	b = appendBytesField(b, 3, m.Abbr)
	b = appendInt64Field(b, 4, m.TotalSupply)
	b = appendInt32Field(b, 6, m.TrxNum)
	b = appendInt32Field(b, 7, m.Precision)
	b = appendInt32Field(b, 8, m.Num)
	b = appendInt64Field(b, 9, m.StartTime)
	b = appendInt64Field(b, 10, m.EndTime)
	b = appendBytesField(b, 20, m.Description)
	b = appendBytesField(b, 21, m.Url)
	b = appendInt64Field(b, 22, m.FreeAssetNetLimit)
	b = appendInt64Field(b, 23, m.PublicFreeAssetNetLimit)
	b = appendStringField(b, 41, m.Id)
	return b
}

func (m *AssetIssueContract) Unmarshal(b []byte) error {
	*m = AssetIssueContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			m.Name, err = f.bytes()
		case 3:
			m.Abbr, err = f.bytes()
		case 4:
			m.TotalSupply, err = f.int64()
		case 6:
			m.TrxNum, err = f.int32()
		case 7:
			m.Precision, err = f.int32()
		case 8:
			m.Num, err = f.int32()
		case 9:
			m.StartTime, err = f.int64()
		case 10:
			m.EndTime, err = f.int64()
		case 20:
			m.Description, err = f.bytes()
		case 21:
			m.Url, err = f.bytes()
		case 22:
			m.FreeAssetNetLimit, err = f.int64()
		case 23:
			m.PublicFreeAssetNetLimit, err = f.int64()
		case 41:
			m.Id, err = f.str()
		}
		return err
	})
}

type ParticipateAssetIssueContract struct {
	OwnerAddress []byte
	ToAddress    []byte
	AssetName    []byte
	Amount       int64
}

func (*ParticipateAssetIssueContract) isContractParameter() {}
func (*ParticipateAssetIssueContract) ContractType() ContractType {
	return ContractType_ParticipateAssetIssueContract
}
func (m *ParticipateAssetIssueContract) GetOwnerAddress() []byte { return m.OwnerAddress }

func (m *ParticipateAssetIssueContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendBytesField(b, 2, m.ToAddress)
	b = appendBytesField(b, 3, m.AssetName)
	b = appendInt64Field(b, 4, m.Amount)
	return b
}

func (m *ParticipateAssetIssueContract) Unmarshal(b []byte) error {
	*m = ParticipateAssetIssueContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			m.ToAddress, err = f.bytes()
		case 3:
			m.AssetName, err = f.bytes()
		case 4:
			m.Amount, err = f.int64()
		}
		return err
	})
}

// CreateSmartContract keeps the SmartContract definition as encoded bytes.
type CreateSmartContract struct {
	OwnerAddress   []byte
	NewContract    []byte
	CallTokenValue int64
	TokenId        int64
}

func (*CreateSmartContract) isContractParameter()       {}
func (*CreateSmartContract) ContractType() ContractType { return ContractType_CreateSmartContract }
func (m *CreateSmartContract) GetOwnerAddress() []byte  { return m.OwnerAddress }

func (m *CreateSmartContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendBytesField(b, 2, m.NewContract)
	b = appendInt64Field(b, 3, m.CallTokenValue)
	b = appendInt64Field(b, 4, m.TokenId)
	return b
}

func (m *CreateSmartContract) Unmarshal(b []byte) error {
	*m = CreateSmartContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			m.NewContract, err = f.bytes()
		case 3:
			m.CallTokenValue, err = f.int64()
		case 4:
			m.TokenId, err = f.int64()
		}
		return err
	})
}

type TriggerSmartContract struct {
	OwnerAddress    []byte
	ContractAddress []byte
	CallValue       int64
	Data            []byte
	CallTokenValue  int64
	TokenId         int64
}

func (*TriggerSmartContract) isContractParameter()       {}
func (*TriggerSmartContract) ContractType() ContractType { return ContractType_TriggerSmartContract }
func (m *TriggerSmartContract) GetOwnerAddress() []byte  { return m.OwnerAddress }

func (m *TriggerSmartContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendBytesField(b, 2, m.ContractAddress)
	b = appendInt64Field(b, 3, m.CallValue)
	b = appendBytesField(b, 4, m.Data)
	b = appendInt64Field(b, 5, m.CallTokenValue)
	b = appendInt64Field(b, 6, m.TokenId)
	return b
}

func (m *TriggerSmartContract) Unmarshal(b []byte) error {
	*m = TriggerSmartContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			m.ContractAddress, err = f.bytes()
		case 3:
			m.CallValue, err = f.int64()
		case 4:
			m.Data, err = f.bytes()
		case 5:
			m.CallTokenValue, err = f.int64()
		case 6:
			m.TokenId, err = f.int64()
		}
		return err
	})
}

type FreezeBalanceContract struct {
	OwnerAddress    []byte
	FrozenBalance   int64
	FrozenDuration  int64
	Resource        int32
	ReceiverAddress []byte
}

func (*FreezeBalanceContract) isContractParameter() {}
func (*FreezeBalanceContract) ContractType() ContractType {
	return ContractType_FreezeBalanceContract
}
func (m *FreezeBalanceContract) GetOwnerAddress() []byte { return m.OwnerAddress }

func (m *FreezeBalanceContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendInt64Field(b, 2, m.FrozenBalance)
	b = appendInt64Field(b, 3, m.FrozenDuration)
	b = appendInt32Field(b, 10, m.Resource)
	b = appendBytesField(b, 15, m.ReceiverAddress)
	return b
}

func (m *FreezeBalanceContract) Unmarshal(b []byte) error {
	*m = FreezeBalanceContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			m.FrozenBalance, err = f.int64()
		case 3:
			m.FrozenDuration, err = f.int64()
		case 10:
			m.Resource, err = f.int32()
		case 15:
			m.ReceiverAddress, err = f.bytes()
		}
		return err
	})
}

type UnfreezeBalanceContract struct {
	OwnerAddress    []byte
	Resource        int32
	ReceiverAddress []byte
}

func (*UnfreezeBalanceContract) isContractParameter() {}
func (*UnfreezeBalanceContract) ContractType() ContractType {
	return ContractType_UnfreezeBalanceContract
}
func (m *UnfreezeBalanceContract) GetOwnerAddress() []byte { return m.OwnerAddress }

func (m *UnfreezeBalanceContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendInt32Field(b, 10, m.Resource)
	b = appendBytesField(b, 13, m.ReceiverAddress)
	return b
}

func (m *UnfreezeBalanceContract) Unmarshal(b []byte) error {
	*m = UnfreezeBalanceContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 10:
			m.Resource, err = f.int32()
		case 13:
			m.ReceiverAddress, err = f.bytes()
		}
		return err
	})
}

type UnfreezeAssetContract struct {
	OwnerAddress []byte
}

func (*UnfreezeAssetContract) isContractParameter() {}
func (*UnfreezeAssetContract) ContractType() ContractType {
	return ContractType_UnfreezeAssetContract
}
func (m *UnfreezeAssetContract) GetOwnerAddress() []byte { return m.OwnerAddress }

func (m *UnfreezeAssetContract) Marshal() []byte {
	return appendBytesField(nil, 1, m.OwnerAddress)
}

func (m *UnfreezeAssetContract) Unmarshal(b []byte) error {
	*m = UnfreezeAssetContract{}
	return walkFields(b, func(f field) (err error) {
		if f.Num == 1 {
			m.OwnerAddress, err = f.bytes()
		}
		return err
	})
}

type WithdrawBalanceContract struct {
	OwnerAddress []byte
}

func (*WithdrawBalanceContract) isContractParameter() {}
func (*WithdrawBalanceContract) ContractType() ContractType {
	return ContractType_WithdrawBalanceContract
}
func (m *WithdrawBalanceContract) GetOwnerAddress() []byte { return m.OwnerAddress }

func (m *WithdrawBalanceContract) Marshal() []byte {
	return appendBytesField(nil, 1, m.OwnerAddress)
}

func (m *WithdrawBalanceContract) Unmarshal(b []byte) error {
	*m = WithdrawBalanceContract{}
	return walkFields(b, func(f field) (err error) {
		if f.Num == 1 {
			m.OwnerAddress, err = f.bytes()
		}
		return err
	})
}

type UpdateAssetContract struct {
	OwnerAddress   []byte
	Description    []byte
	Url            []byte
	NewLimit       int64
	NewPublicLimit int64
}

func (*UpdateAssetContract) isContractParameter()       {}
func (*UpdateAssetContract) ContractType() ContractType { return ContractType_UpdateAssetContract }
func (m *UpdateAssetContract) GetOwnerAddress() []byte  { return m.OwnerAddress }

func (m *UpdateAssetContract) Marshal() []byte {
	var b []byte
	b = appendBytesField(b, 1, m.OwnerAddress)
	b = appendBytesField(b, 2, m.Description)
	b = appendBytesField(b, 3, m.Url)
	b = appendInt64Field(b, 4, m.NewLimit)
	b = appendInt64Field(b, 5, m.NewPublicLimit)
	return b
}

func (m *UpdateAssetContract) Unmarshal(b []byte) error {
	*m = UpdateAssetContract{}
	return walkFields(b, func(f field) (err error) {
		switch f.Num {
		case 1:
			m.OwnerAddress, err = f.bytes()
		case 2:
			m.Description, err = f.bytes()
		case 3:
			m.Url, err = f.bytes()
		case 4:
			m.NewLimit, err = f.int64()
		case 5:
			m.NewPublicLimit, err = f.int64()
		}
		return err
	})
}
