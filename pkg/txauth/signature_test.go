package txauth

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRS() ([32]byte, [32]byte) {
	var r, s [32]byte
	for i := range r {
		r[i] = byte(i + 1)
		s[i] = byte(0xff - i)
	}
	return r, s
}

func TestPackUnpackRoundTrip(t *testing.T) {
	r, s := sampleRS()
	for _, v := range []byte{27, 28} {
		packed := PackSignature(r, s, v)
		require.Len(t, packed, SignatureLength)

		sig, err := UnpackSignature(packed)
		require.NoError(t, err)
		assert.Equal(t, r, sig.R)
		assert.Equal(t, s, sig.S)
		assert.Equal(t, v, sig.V)
		assert.Equal(t, packed, sig.Bytes())
	}
}

func TestUnpackSignature_NormalizesV(t *testing.T) {
	tests := []struct {
		in   byte
		want byte
	}{
		{0, 27},
		{1, 28},
		{26, 53},
		{27, 27},
		{28, 28},
		{35, 35},
	}

	r, s := sampleRS()
	for _, tt := range tests {
		sig, err := UnpackSignature(PackSignature(r, s, tt.in))
		require.NoError(t, err)
		assert.Equal(t, tt.want, sig.V, "v=%d", tt.in)
	}
}

func TestPackSignature_DoesNotNormalize(t *testing.T) {
	r, s := sampleRS()
	assert.Equal(t, byte(0), PackSignature(r, s, 0)[64])
	assert.Equal(t, byte(1), Signature{R: r, S: s, V: 1}.Bytes()[64])
}

func TestUnpackSignature_Length(t *testing.T) {
	for _, n := range []int{0, 1, 64, 66, 130} {
		_, err := UnpackSignature(make([]byte, n))
		assert.True(t, errors.Is(err, ErrMalformedSignature), "len=%d", n)
	}
	_, err := UnpackSignature(nil)
	assert.True(t, errors.Is(err, ErrMalformedSignature))
}

func TestSignatureBase64(t *testing.T) {
	r, s := sampleRS()
	encoded, err := SignatureBase64(PackSignature(r, s, 1))
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, PackSignature(r, s, 28), decoded)

	_, err = SignatureBase64([]byte{1, 2, 3})
	assert.True(t, errors.Is(err, ErrMalformedSignature))
}
