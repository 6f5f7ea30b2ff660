package signer

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/AlexZinkM/tez-wallet/internal/codec"
	"github.com/AlexZinkM/tez-wallet/internal/keys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func testKeyPair(t *testing.T) (keys.KeyPair, ed25519.PrivateKey) {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(0x42 + i)
	}
	kp, err := keys.SeedToKeyPair(seed)
	require.NoError(t, err)
	return kp, ed25519.NewKeyFromSeed(seed)
}

func TestSign_KnownBytes(t *testing.T) {
	kp, priv := testKeyPair(t)

	signed, err := Sign("abc123", kp.SecretKey)
	require.NoError(t, err)

	digest := blake2b.Sum256([]byte{0xab, 0xc1, 0x23})
	expected := ed25519.Sign(priv, digest[:])

	assert.Equal(t, expected, signed.Signature)
	assert.Equal(t, "abc123", signed.ForgedBytes)
	assert.Equal(t, "abc123"+codec.BytesToHex(expected), signed.SignedBytes)
	assert.Len(t, signed.SignedBytes, len("abc123")+2*ed25519.SignatureSize)
	assert.True(t, strings.HasPrefix(signed.EncodedSignature, "edsig"))
	assert.True(t, Verify("abc123", signed.EncodedSignature, kp.PublicKey))
	assert.False(t, Verify("abc124", signed.EncodedSignature, kp.PublicKey))
}

func TestSign_Deterministic(t *testing.T) {
	kp, _ := testKeyPair(t)

	a, err := Sign("0011223344", kp.SecretKey)
	require.NoError(t, err)
	b, err := Sign("0011223344", kp.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSign_UppercaseInput(t *testing.T) {
	kp, _ := testKeyPair(t)

	lower, err := Sign("abcdef", kp.SecretKey)
	require.NoError(t, err)
	upper, err := Sign("ABCDEF", kp.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, lower.Signature, upper.Signature)
}

func TestSign_Errors(t *testing.T) {
	kp, _ := testKeyPair(t)

	_, err := Sign("abc123", kp.PublicKey)
	require.Error(t, err)
	assert.True(t, codec.IsDecodeError(err))

	_, err = Sign("abc123", "edsknotakey")
	assert.True(t, codec.IsDecodeError(err))

	_, err = Sign("abc12", kp.SecretKey)
	assert.True(t, codec.IsDecodeError(err))
}

func TestOperationHash(t *testing.T) {
	kp, _ := testKeyPair(t)
	signed, err := Sign("abc123", kp.SecretKey)
	require.NoError(t, err)

	hash, err := OperationHash(signed.SignedBytes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "o"))
	assert.Len(t, hash, 51)

	raw, err := codec.DecodeChecked(hash, codec.PrefixOperationHash)
	require.NoError(t, err)
	signedRaw, err := codec.HexToBytes(signed.SignedBytes)
	require.NoError(t, err)
	digest := blake2b.Sum256(signedRaw)
	assert.Equal(t, digest[:], raw)

	_, err = OperationHash("xyz")
	assert.Error(t, err)
}
