package protocol

import (
	"testing"
)

func FuzzTransactionUnmarshal(f *testing.F) {
	f.Add(sampleTransaction().Marshal())
	f.Add([]byte{})
	f.Add([]byte{0x0a, 0x00})
	f.Add([]byte{0x12, 0x41})

	f.Fuzz(func(t *testing.T, data []byte) {
		tx := &Transaction{}
		if err := tx.Unmarshal(data); err != nil {
			return
		}

		first := tx.Marshal()
		again := &Transaction{}
		if err := again.Unmarshal(first); err != nil {
			t.Fatalf("re-decoding encoded bytes failed: %v", err)
		}
		if string(first) != string(again.Marshal()) {
			t.Fatalf("encoding is not stable")
		}
	})
}
