package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// JSON form used by the CLI and the transaction store. Byte fields are 0x hex;
// fields the wire decoder did not recognise travel in "extra" so that the
// signing hash survives a JSON round trip. A transaction whose wire encoding
// is not canonical also carries those bytes in "encoded"; on decode they are
// authoritative and must agree with the structured fields.

// ErrEncodingMismatch is returned when "encoded" disagrees with the JSON fields.
var ErrEncodingMismatch = errors.New("protocol: encoded bytes do not match transaction fields")

type transactionJSON struct {
	RawData   *transactionRawJSON `json:"raw_data,omitempty"`
	Signature []hexutil.Bytes     `json:"signature,omitempty"`
	Extra     hexutil.Bytes       `json:"extra,omitempty"`
	Encoded   hexutil.Bytes       `json:"encoded,omitempty"`
}

type transactionRawJSON struct {
	RefBlockBytes hexutil.Bytes   `json:"ref_block_bytes,omitempty"`
	RefBlockNum   int64           `json:"ref_block_num,omitempty"`
	RefBlockHash  hexutil.Bytes   `json:"ref_block_hash,omitempty"`
	Expiration    int64           `json:"expiration,omitempty"`
	Data          hexutil.Bytes   `json:"data,omitempty"`
	Contract      []*contractJSON `json:"contract,omitempty"`
	Scripts       hexutil.Bytes   `json:"scripts,omitempty"`
	Timestamp     int64           `json:"timestamp,omitempty"`
	FeeLimit      int64           `json:"fee_limit,omitempty"`
	Extra         hexutil.Bytes   `json:"extra,omitempty"`
}

type contractJSON struct {
	Type         string        `json:"type"`
	Parameter    *anyJSON      `json:"parameter,omitempty"`
	Provider     hexutil.Bytes `json:"provider,omitempty"`
	ContractName hexutil.Bytes `json:"contract_name,omitempty"`
	PermissionId int32         `json:"permission_id,omitempty"`
	Extra        hexutil.Bytes `json:"extra,omitempty"`
}

type anyJSON struct {
	TypeUrl string        `json:"type_url"`
	Value   hexutil.Bytes `json:"value"`
	Extra   hexutil.Bytes `json:"extra,omitempty"`
}

func (tx *Transaction) MarshalJSON() ([]byte, error) {
	out := transactionJSON{Extra: tx.unknown}
	if encoded := tx.Marshal(); !bytes.Equal(encoded, tx.CanonicalMarshal()) {
		out.Encoded = encoded
	}
	for _, s := range tx.Signature {
		out.Signature = append(out.Signature, s)
	}
	if r := tx.RawData; r != nil {
		raw := &transactionRawJSON{
			RefBlockBytes: r.RefBlockBytes,
			RefBlockNum:   r.RefBlockNum,
			RefBlockHash:  r.RefBlockHash,
			Expiration:    r.Expiration,
			Data:          r.Data,
			Scripts:       r.Scripts,
			Timestamp:     r.Timestamp,
			FeeLimit:      r.FeeLimit,
			Extra:         r.unknown,
		}
		for _, c := range r.Contract {
			if c == nil {
				return nil, fmt.Errorf("contract %d is nil", len(raw.Contract))
			}
			cj := &contractJSON{
				Type:         c.Type.String(),
				Provider:     c.Provider,
				ContractName: c.ContractName,
				PermissionId: c.PermissionId,
				Extra:        c.unknown,
			}
			if c.Parameter != nil {
				cj.Parameter = &anyJSON{TypeUrl: c.Parameter.TypeUrl, Value: c.Parameter.Value, Extra: c.Parameter.unknown}
			}
			raw.Contract = append(raw.Contract, cj)
		}
		out.RawData = raw
	}
	return json.Marshal(out)
}

func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var in transactionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*tx = Transaction{unknown: cloneBytes(in.Extra)}
	for _, s := range in.Signature {
		if s == nil {
			s = hexutil.Bytes{}
		}
		tx.Signature = append(tx.Signature, cloneBytes(s))
	}
	if r := in.RawData; r != nil {
		raw := &TransactionRaw{
			RefBlockBytes: cloneBytes(r.RefBlockBytes),
			RefBlockNum:   r.RefBlockNum,
			RefBlockHash:  cloneBytes(r.RefBlockHash),
			Expiration:    r.Expiration,
			Data:          cloneBytes(r.Data),
			Scripts:       cloneBytes(r.Scripts),
			Timestamp:     r.Timestamp,
			FeeLimit:      r.FeeLimit,
			unknown:       cloneBytes(r.Extra),
		}
		for i, cj := range r.Contract {
			if cj == nil {
				return fmt.Errorf("contract %d is null", i)
			}
			t, err := ParseContractType(cj.Type)
			if err != nil {
				return fmt.Errorf("contract %d: %w", i, err)
			}
			c := &Contract{
				Type:         t,
				Provider:     cloneBytes(cj.Provider),
				ContractName: cloneBytes(cj.ContractName),
				PermissionId: cj.PermissionId,
				unknown:      cloneBytes(cj.Extra),
			}
			if cj.Parameter != nil {
				c.Parameter = &Any{
					TypeUrl: cj.Parameter.TypeUrl,
					Value:   cloneBytes(cj.Parameter.Value),
					unknown: cloneBytes(cj.Parameter.Extra),
				}
			}
			raw.Contract = append(raw.Contract, c)
		}
		tx.RawData = raw
	}

	if in.Encoded != nil {
		decoded := &Transaction{}
		if err := decoded.Unmarshal(in.Encoded); err != nil {
			return fmt.Errorf("encoded: %w", err)
		}
		if !bytes.Equal(decoded.CanonicalMarshal(), tx.CanonicalMarshal()) {
			return ErrEncodingMismatch
		}
		*tx = *decoded
	}
	return nil
}

// DecodeHexTransaction parses 0x-prefixed (or bare) hex protobuf bytes.
func DecodeHexTransaction(s string) (*Transaction, error) {
	if len(s) < 2 || s[:2] != "0x" {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hex: %w", err)
	}
	tx := &Transaction{}
	if err := tx.Unmarshal(b); err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return tx, nil
}
