package protocol

import (
	"bytes"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Transaction is the signed envelope. Signatures live outside RawData so
// attaching them never changes the bytes that were signed.
type Transaction struct {
	RawData   *TransactionRaw
	Signature [][]byte

	// unknown carries fields this package does not model (e.g. execution
	// results) so that re-encoding a decoded transaction is lossless.
	unknown []byte
	wire    wireEncoding
}

// TransactionRaw is the immutable payload that is hashed and signed.
type TransactionRaw struct {
	RefBlockBytes []byte
	RefBlockNum   int64
	RefBlockHash  []byte
	Expiration    int64
	Data          []byte
	Contract      []*Contract
	Scripts       []byte
	Timestamp     int64
	FeeLimit      int64

	unknown []byte
	wire    wireEncoding
}

// Contract is one typed operation inside a transaction.
type Contract struct {
	Type         ContractType
	Parameter    *Any
	Provider     []byte
	ContractName []byte
	PermissionId int32

	unknown []byte
}

// Any is google.protobuf.Any: a type URL plus the serialized message.
type Any struct {
	TypeUrl string
	Value   []byte

	unknown []byte
}

// wireEncoding keeps the bytes a message was decoded from when they differ
// from its canonical encoding (fields out of order, explicit zero scalars,
// repeated embedded messages). canonical is what the decoded struct encoded
// to at that time; while it still does, Marshal returns received instead so
// hashes over the message match what its producer hashed.
type wireEncoding struct {
	received  []byte
	canonical []byte
}

func newWireEncoding(received, canonical []byte) wireEncoding {
	if bytes.Equal(received, canonical) {
		return wireEncoding{}
	}
	return wireEncoding{received: cloneBytes(received), canonical: canonical}
}

func (w wireEncoding) pick(current []byte) []byte {
	if w.received != nil && bytes.Equal(current, w.canonical) {
		return cloneBytes(w.received)
	}
	return current
}

func (w wireEncoding) clone() wireEncoding {
	return wireEncoding{received: cloneBytes(w.received), canonical: cloneBytes(w.canonical)}
}

const (
	fieldTxRawData   protowire.Number = 1
	fieldTxSignature protowire.Number = 2

	fieldRawRefBlockBytes protowire.Number = 1
	fieldRawRefBlockNum   protowire.Number = 3
	fieldRawRefBlockHash  protowire.Number = 4
	fieldRawExpiration    protowire.Number = 8
	fieldRawData          protowire.Number = 10
	fieldRawContract      protowire.Number = 11
	fieldRawScripts       protowire.Number = 12
	fieldRawTimestamp     protowire.Number = 14
	fieldRawFeeLimit      protowire.Number = 18

	fieldContractType         protowire.Number = 1
	fieldContractParameter    protowire.Number = 2
	fieldContractProvider     protowire.Number = 3
	fieldContractName         protowire.Number = 4
	fieldContractPermissionId protowire.Number = 5

	fieldAnyTypeUrl protowire.Number = 1
	fieldAnyValue   protowire.Number = 2
)

// GetContracts returns the contract list, nil-safe.
func (tx *Transaction) GetContracts() []*Contract {
	if tx == nil || tx.RawData == nil {
		return nil
	}
	return tx.RawData.Contract
}

// Marshal encodes the transaction in protobuf wire format. A decoded
// transaction that has not been modified encodes to the bytes it was decoded
// from.
func (tx *Transaction) Marshal() []byte {
	if tx == nil {
		return nil
	}
	return tx.wire.pick(tx.marshalWith(tx.RawData.Marshal()))
}

// CanonicalMarshal encodes tx in canonical field order, ignoring any
// received encoding.
func (tx *Transaction) CanonicalMarshal() []byte {
	if tx == nil {
		return nil
	}
	return tx.marshalWith(tx.RawData.CanonicalMarshal())
}

func (tx *Transaction) marshalWith(raw []byte) []byte {
	var b []byte
	if tx.RawData != nil {
		b = appendMessageField(b, fieldTxRawData, raw)
	}
	b = appendRepeatedBytes(b, fieldTxSignature, tx.Signature)
	return append(b, tx.unknown...)
}

// Unmarshal decodes protobuf wire bytes into tx, replacing its contents.
func (tx *Transaction) Unmarshal(b []byte) error {
	*tx = Transaction{}
	var (
		raw    []byte
		hasRaw bool
	)
	err := walkFields(b, func(f field) error {
		switch f.Num {
		case fieldTxRawData:
			chunk, err := f.bytes()
			if err != nil {
				return err
			}
			// repeated occurrences of an embedded message merge
			raw = append(raw, chunk...)
			hasRaw = true
		case fieldTxSignature:
			sig, err := f.bytes()
			if err != nil {
				return err
			}
			if sig == nil {
				sig = []byte{}
			}
			tx.Signature = append(tx.Signature, sig)
		default:
			tx.unknown = append(tx.unknown, f.Raw...)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if hasRaw {
		tx.RawData = &TransactionRaw{}
		if err := tx.RawData.Unmarshal(raw); err != nil {
			return fmt.Errorf("raw_data: %w", err)
		}
	}
	tx.wire = newWireEncoding(b, tx.marshalWith(tx.RawData.Marshal()))
	return nil
}

// Clone returns a deep copy.
func (tx *Transaction) Clone() *Transaction {
	if tx == nil {
		return nil
	}
	out := &Transaction{
		RawData: tx.RawData.Clone(),
		unknown: cloneBytes(tx.unknown),
		wire:    tx.wire.clone(),
	}
	if tx.Signature != nil {
		out.Signature = make([][]byte, len(tx.Signature))
		for i, s := range tx.Signature {
			out.Signature[i] = cloneBytes(s)
		}
	}
	return out
}

// Marshal encodes the raw payload. These are the bytes the signing hash
// covers: for an unmodified decoded payload, exactly the bytes received.
func (r *TransactionRaw) Marshal() []byte {
	if r == nil {
		return nil
	}
	return r.wire.pick(r.CanonicalMarshal())
}

// CanonicalMarshal encodes the payload in ascending field order with zero
// values omitted.
func (r *TransactionRaw) CanonicalMarshal() []byte {
	if r == nil {
		return nil
	}
	var b []byte
	b = appendBytesField(b, fieldRawRefBlockBytes, r.RefBlockBytes)
	b = appendInt64Field(b, fieldRawRefBlockNum, r.RefBlockNum)
	b = appendBytesField(b, fieldRawRefBlockHash, r.RefBlockHash)
	b = appendInt64Field(b, fieldRawExpiration, r.Expiration)
	b = appendBytesField(b, fieldRawData, r.Data)
	for _, c := range r.Contract {
		b = appendMessageField(b, fieldRawContract, c.Marshal())
	}
	b = appendBytesField(b, fieldRawScripts, r.Scripts)
	b = appendInt64Field(b, fieldRawTimestamp, r.Timestamp)
	b = appendInt64Field(b, fieldRawFeeLimit, r.FeeLimit)
	return append(b, r.unknown...)
}

func (r *TransactionRaw) Unmarshal(b []byte) error {
	*r = TransactionRaw{}
	err := walkFields(b, func(f field) error {
		var err error
		switch f.Num {
		case fieldRawRefBlockBytes:
			r.RefBlockBytes, err = f.bytes()
		case fieldRawRefBlockNum:
			r.RefBlockNum, err = f.int64()
		case fieldRawRefBlockHash:
			r.RefBlockHash, err = f.bytes()
		case fieldRawExpiration:
			r.Expiration, err = f.int64()
		case fieldRawData:
			r.Data, err = f.bytes()
		case fieldRawContract:
			var raw []byte
			if raw, err = f.bytes(); err != nil {
				return err
			}
			c := &Contract{}
			if err := c.Unmarshal(raw); err != nil {
				return fmt.Errorf("contract %d: %w", len(r.Contract), err)
			}
			r.Contract = append(r.Contract, c)
		case fieldRawScripts:
			r.Scripts, err = f.bytes()
		case fieldRawTimestamp:
			r.Timestamp, err = f.int64()
		case fieldRawFeeLimit:
			r.FeeLimit, err = f.int64()
		default:
			r.unknown = append(r.unknown, f.Raw...)
		}
		return err
	})
	if err != nil {
		return err
	}
	r.wire = newWireEncoding(b, r.CanonicalMarshal())
	return nil
}

func (r *TransactionRaw) Clone() *TransactionRaw {
	if r == nil {
		return nil
	}
	out := &TransactionRaw{
		RefBlockBytes: cloneBytes(r.RefBlockBytes),
		RefBlockNum:   r.RefBlockNum,
		RefBlockHash:  cloneBytes(r.RefBlockHash),
		Expiration:    r.Expiration,
		Data:          cloneBytes(r.Data),
		Scripts:       cloneBytes(r.Scripts),
		Timestamp:     r.Timestamp,
		FeeLimit:      r.FeeLimit,
		unknown:       cloneBytes(r.unknown),
		wire:          r.wire.clone(),
	}
	if r.Contract != nil {
		out.Contract = make([]*Contract, len(r.Contract))
		for i, c := range r.Contract {
			out.Contract[i] = c.Clone()
		}
	}
	return out
}

// GetType returns the contract type, nil-safe.
func (c *Contract) GetType() ContractType {
	if c == nil {
		return 0
	}
	return c.Type
}

func (c *Contract) Marshal() []byte {
	if c == nil {
		return nil
	}
	var b []byte
	b = appendInt32Field(b, fieldContractType, int32(c.Type))
	if c.Parameter != nil {
		b = appendMessageField(b, fieldContractParameter, c.Parameter.Marshal())
	}
	b = appendBytesField(b, fieldContractProvider, c.Provider)
	b = appendBytesField(b, fieldContractName, c.ContractName)
	b = appendInt32Field(b, fieldContractPermissionId, c.PermissionId)
	return append(b, c.unknown...)
}

func (c *Contract) Unmarshal(b []byte) error {
	*c = Contract{}
	return walkFields(b, func(f field) error {
		var err error
		switch f.Num {
		case fieldContractType:
			var t int32
			t, err = f.int32()
			c.Type = ContractType(t)
		case fieldContractParameter:
			var raw []byte
			if raw, err = f.bytes(); err != nil {
				return err
			}
			c.Parameter = &Any{}
			err = c.Parameter.Unmarshal(raw)
		case fieldContractProvider:
			c.Provider, err = f.bytes()
		case fieldContractName:
			c.ContractName, err = f.bytes()
		case fieldContractPermissionId:
			c.PermissionId, err = f.int32()
		default:
			c.unknown = append(c.unknown, f.Raw...)
		}
		return err
	})
}

func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	return &Contract{
		Type:         c.Type,
		Parameter:    c.Parameter.Clone(),
		Provider:     cloneBytes(c.Provider),
		ContractName: cloneBytes(c.ContractName),
		PermissionId: c.PermissionId,
		unknown:      cloneBytes(c.unknown),
	}
}

func (a *Any) Marshal() []byte {
	if a == nil {
		return nil
	}
	var b []byte
	b = appendStringField(b, fieldAnyTypeUrl, a.TypeUrl)
	b = appendBytesField(b, fieldAnyValue, a.Value)
	return append(b, a.unknown...)
}

func (a *Any) Unmarshal(b []byte) error {
	*a = Any{}
	return walkFields(b, func(f field) error {
		var err error
		switch f.Num {
		case fieldAnyTypeUrl:
			a.TypeUrl, err = f.str()
		case fieldAnyValue:
			a.Value, err = f.bytes()
		default:
			a.unknown = append(a.unknown, f.Raw...)
		}
		return err
	})
}

func (a *Any) Clone() *Any {
	if a == nil {
		return nil
	}
	return &Any{TypeUrl: a.TypeUrl, Value: cloneBytes(a.Value), unknown: cloneBytes(a.unknown)}
}
