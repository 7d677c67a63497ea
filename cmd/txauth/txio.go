package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/efeint01/TronClientSdk/pkg/protocol"
)

// readTransaction loads a transaction file; "-" reads stdin.
func readTransaction(path string, stdin io.Reader, asHex bool) (*protocol.Transaction, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction: %w", err)
	}

	if asHex {
		return protocol.DecodeHexTransaction(strings.TrimSpace(string(data)))
	}
	tx := &protocol.Transaction{}
	if err := json.Unmarshal(data, tx); err != nil {
		return nil, fmt.Errorf("failed to parse transaction JSON: %w", err)
	}
	return tx, nil
}

func encodeTransaction(tx *protocol.Transaction, asHex bool) ([]byte, error) {
	if asHex {
		return []byte(hexutil.Encode(tx.Marshal()) + "\n"), nil
	}
	data, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return append(data, '\n'), nil
}

// writeTransaction writes to path, or to w when path is empty.
func writeTransaction(path string, w io.Writer, tx *protocol.Transaction, asHex bool) error {
	data, err := encodeTransaction(tx, asHex)
	if err != nil {
		return err
	}
	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}
