// Package signer signs forged operation bytes and derives operation hashes.
package signer

import (
	"crypto/ed25519"

	"github.com/AlexZinkM/tez-wallet/internal/codec"
	"github.com/AlexZinkM/tez-wallet/internal/keys"

	"golang.org/x/crypto/blake2b"
)

// SignedOperation is the result of signing forged operation bytes.
// SignedBytes = ForgedBytes ‖ hex(Signature)
type SignedOperation struct {
	ForgedBytes      string
	Signature        []byte
	EncodedSignature string
	SignedBytes      string
}

// Sign hashes the forged bytes with blake2b-256 and signs the digest with the
// decoded edsk key. ed25519 is deterministic so equal inputs give equal output.
func Sign(forgedBytesHex, encodedSecretKey string) (*SignedOperation, error) {
	forged, err := codec.HexToBytes(forgedBytesHex)
	if err != nil {
		return nil, err
	}

	priv, err := keys.DecodeSecretKey(encodedSecretKey)
	if err != nil {
		return nil, err
	}
	defer clear(priv)

	digest := blake2b.Sum256(forged)
	sig := ed25519.Sign(priv, digest[:])

	return &SignedOperation{
		ForgedBytes:      forgedBytesHex,
		Signature:        sig,
		EncodedSignature: codec.EncodeChecked(codec.PrefixEdSig, sig),
		SignedBytes:      forgedBytesHex + codec.BytesToHex(sig),
	}, nil
}

// OperationHash returns the o-prefixed blake2b-256 hash of signed operation bytes
func OperationHash(signedBytesHex string) (string, error) {
	signed, err := codec.HexToBytes(signedBytesHex)
	if err != nil {
		return "", err
	}
	digest := blake2b.Sum256(signed)
	return codec.EncodeChecked(codec.PrefixOperationHash, digest[:]), nil
}

// Verify checks an edsig signature over forged bytes against an edpk public key
func Verify(forgedBytesHex, encodedSignature, encodedPublicKey string) bool {
	forged, err := codec.HexToBytes(forgedBytesHex)
	if err != nil {
		return false
	}
	sig, err := codec.DecodeChecked(encodedSignature, codec.PrefixEdSig)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	pub, err := codec.DecodeChecked(encodedPublicKey, codec.PrefixEdPK)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return false
	}
	digest := blake2b.Sum256(forged)
	return ed25519.Verify(pub, digest[:], sig)
}
