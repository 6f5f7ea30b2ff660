package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

func TestEncodeDecodeChecked_RoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		prefix Prefix
		size   int
	}{
		{"tz1", PrefixTz1, 20},
		{"KT1", PrefixKT1, 20},
		{"edpk", PrefixEdPK, 32},
		{"edsk", PrefixEdSK, 64},
		{"edsig", PrefixEdSig, 64},
		{"o", PrefixOperationHash, 32},
		{"B", PrefixBlockHash, 32},
		{"empty payload", PrefixTz1, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := make([]byte, tc.size)
			for i := range payload {
				payload[i] = byte(i*7 + 3)
			}

			encoded := EncodeChecked(tc.prefix, payload)
			decoded, err := DecodeChecked(encoded, tc.prefix)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(payload, decoded))
		})
	}
}

func TestEncodeChecked_HumanPrefixes(t *testing.T) {
	cases := []struct {
		prefix Prefix
		size   int
		text   string
		length int
	}{
		{PrefixTz1, 20, "tz1", 36},
		{PrefixKT1, 20, "KT1", 36},
		{PrefixEdPK, 32, "edpk", 54},
		{PrefixEdSeed, 32, "edsk", 54},
		{PrefixEdSK, 64, "edsk", 98},
		{PrefixEdSig, 64, "edsig", 99},
		{PrefixOperationHash, 32, "o", 51},
		{PrefixBlockHash, 32, "B", 51},
	}

	for _, tc := range cases {
		for _, fill := range []byte{0x00, 0x5a, 0xff} {
			payload := bytes.Repeat([]byte{fill}, tc.size)
			encoded := EncodeChecked(tc.prefix, payload)
			assert.True(t, strings.HasPrefix(encoded, tc.text), "%q should start with %q", encoded, tc.text)
			assert.Len(t, encoded, tc.length)
		}
	}
}

func TestDecodeChecked_RejectsMutation(t *testing.T) {
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i + 1)
	}
	encoded := EncodeChecked(PrefixTz1, payload)

	for pos := 5; pos < len(encoded); pos += 3 {
		original := encoded[pos]
		replacement := base58Alphabet[(strings.IndexByte(base58Alphabet, original)+1)%len(base58Alphabet)]
		mutated := encoded[:pos] + string(replacement) + encoded[pos+1:]

		_, err := DecodeChecked(mutated, PrefixTz1)
		require.Error(t, err, "mutation at %d was accepted", pos)
		assert.True(t, IsChecksumError(err), "mutation at %d: expected checksum error, got %v", pos, err)
	}
}

func TestDecodeChecked_Errors(t *testing.T) {
	t.Run("invalid base58", func(t *testing.T) {
		_, err := DecodeChecked("tz1-not-base58-0OIl", PrefixTz1)
		require.Error(t, err)
		assert.True(t, IsDecodeError(err))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := DecodeChecked("", PrefixTz1)
		assert.True(t, IsDecodeError(err))
	})

	t.Run("too short for checksum", func(t *testing.T) {
		_, err := DecodeChecked("2g", PrefixTz1)
		assert.True(t, IsChecksumError(err))
	})

	t.Run("shorter than prefix", func(t *testing.T) {
		encoded := EncodeChecked(Prefix{}, []byte{1, 2})
		_, err := DecodeChecked(encoded, PrefixEdPK)
		require.Error(t, err)
		assert.True(t, IsPrefixLengthError(err))
	})

	t.Run("wrong prefix", func(t *testing.T) {
		encoded := EncodeChecked(PrefixEdPK, make([]byte, 32))
		_, err := DecodeChecked(encoded, PrefixEdSig)
		require.Error(t, err)
		assert.True(t, IsDecodeError(err))
	})
}

func TestDecodeAny(t *testing.T) {
	seed := bytes.Repeat([]byte{1}, 32)
	name, payload, err := DecodeAny(EncodeChecked(PrefixEdSeed, seed))
	require.NoError(t, err)
	assert.Equal(t, "edsk-seed", name)
	assert.Equal(t, seed, payload)

	sk := bytes.Repeat([]byte{2}, 64)
	name, payload, err = DecodeAny(EncodeChecked(PrefixEdSK, sk))
	require.NoError(t, err)
	assert.Equal(t, "edsk", name)
	assert.Equal(t, sk, payload)

	_, _, err = DecodeAny(EncodeChecked(Prefix{9, 9}, []byte{1}))
	assert.True(t, IsDecodeError(err))
}

func TestHexConversions(t *testing.T) {
	b, err := HexToBytes("00Ab0fFF")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xab, 0x0f, 0xff}, b)
	assert.Equal(t, "00ab0fff", BytesToHex(b))
	assert.Equal(t, "", BytesToHex(nil))

	_, err = HexToBytes("abc")
	assert.True(t, IsDecodeError(err))

	_, err = HexToBytes("zz")
	assert.True(t, IsDecodeError(err))
}
