package txauth

import (
	"encoding/base64"
	"fmt"
)

const (
	// SignatureLength is r (32) || s (32) || v (1).
	SignatureLength = 65

	recoveryIDOffset = 64
	vBase            = 27
)

// Signature is an unpacked recoverable ECDSA signature.
type Signature struct {
	R [32]byte
	S [32]byte
	V byte
}

// UnpackSignature splits a 65-byte blob into r, s and v. A v below 27 is a
// raw recovery id and is shifted by 27.
func UnpackSignature(b []byte) (Signature, error) {
	if len(b) != SignatureLength {
		return Signature{}, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedSignature, len(b), SignatureLength)
	}
	var sig Signature
	copy(sig.R[:], b[0:32])
	copy(sig.S[:], b[32:64])
	sig.V = b[recoveryIDOffset]
	if sig.V < vBase {
		sig.V += vBase
	}
	return sig, nil
}

// PackSignature concatenates r, s and v as given.
func PackSignature(r, s [32]byte, v byte) []byte {
	out := make([]byte, SignatureLength)
	copy(out[0:32], r[:])
	copy(out[32:64], s[:])
	out[recoveryIDOffset] = v
	return out
}

// Bytes packs the signature.
func (s Signature) Bytes() []byte {
	return PackSignature(s.R, s.S, s.V)
}

// recoverable returns the signature in the form go-ethereum recovers from:
// v as a 0..3 recovery id.
func (s Signature) recoverable() ([]byte, error) {
	if s.V < vBase || s.V > vBase+3 {
		return nil, fmt.Errorf("%w: invalid v %d", ErrSignatureRecovery, s.V)
	}
	b := s.Bytes()
	b[recoveryIDOffset] = s.V - vBase
	return b, nil
}

// SignatureBase64 returns the standard base64 encoding of the normalized
// signature.
func SignatureBase64(b []byte) (string, error) {
	sig, err := UnpackSignature(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig.Bytes()), nil
}
