package keys

import (
	"crypto/ed25519"
	"fmt"

	"github.com/AlexZinkM/tez-wallet/internal/codec"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/blake2b"
)

const (
	mnemonicEntropyBits = 160 // 15 words
	seedLen             = 32
	addressHashLen      = 20
)

// KeyPair identifies an account. SecretKey is empty in watch-only mode,
// in which case operations are forged but never signed.
type KeyPair struct {
	SecretKey string `json:"sk,omitempty"`
	PublicKey string `json:"pk,omitempty"`
	Address   string `json:"pkh"`
}

// CanSign reports whether the key pair carries a secret key
func (kp KeyPair) CanSign() bool {
	return kp.SecretKey != ""
}

// Validate checks that Address derives from PublicKey and, when present,
// that SecretKey belongs to PublicKey.
func (kp KeyPair) Validate() error {
	if kp.Address == "" {
		return &ValidationError{Message: "key pair has no address"}
	}
	if kp.PublicKey == "" {
		if kp.SecretKey != "" {
			return &ValidationError{Message: "secret key supplied without public key"}
		}
		return nil
	}

	address, err := PublicKeyToAddress(kp.PublicKey)
	if err != nil {
		return err
	}
	if address != kp.Address {
		return &ValidationError{Message: "address does not match public key"}
	}

	if kp.SecretKey == "" {
		return nil
	}
	priv, err := DecodeSecretKey(kp.SecretKey)
	if err != nil {
		return err
	}
	if EncodePublicKey(priv.Public().(ed25519.PublicKey)) != kp.PublicKey {
		return &ValidationError{Message: "secret key does not match public key"}
	}
	return nil
}

// ValidateMnemonic checks the word list and embedded checksum of phrase
func ValidateMnemonic(phrase string) bool {
	return bip39.IsMnemonicValid(phrase)
}

// GenerateMnemonic draws 160 bits of fresh entropy from crypto/rand and
// returns the matching 15 word phrase. Every call yields a new phrase.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to build mnemonic: %w", err)
	}
	return mnemonic, nil
}

// MnemonicToSeed stretches phrase with passphrase and keeps the first 32 bytes
func MnemonicToSeed(phrase, passphrase string) ([]byte, error) {
	if !ValidateMnemonic(phrase) {
		return nil, &ValidationError{Message: "invalid mnemonic"}
	}
	full := bip39.NewSeed(phrase, passphrase)
	defer clear(full)

	seed := make([]byte, seedLen)
	copy(seed, full[:seedLen])
	return seed, nil
}

// SeedToKeyPair expands a 32 byte seed into an ed25519 key pair and encodes
// secret key, public key and address.
func SeedToKeyPair(seed []byte) (KeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return KeyPair{}, &ValidationError{Message: fmt.Sprintf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))}
	}

	priv := ed25519.NewKeyFromSeed(seed)
	defer clear(priv)
	pub := priv.Public().(ed25519.PublicKey)

	address, err := hashPublicKey(pub)
	if err != nil {
		return KeyPair{}, err
	}

	return KeyPair{
		SecretKey: codec.EncodeChecked(codec.PrefixEdSK, priv),
		PublicKey: EncodePublicKey(pub),
		Address:   address,
	}, nil
}

// FromMnemonic is MnemonicToSeed followed by SeedToKeyPair
func FromMnemonic(phrase, passphrase string) (KeyPair, error) {
	seed, err := MnemonicToSeed(phrase, passphrase)
	if err != nil {
		return KeyPair{}, err
	}
	defer clear(seed)
	return SeedToKeyPair(seed)
}

// PublicKeyToAddress derives the tz1 address of an encoded edpk public key
func PublicKeyToAddress(encodedPK string) (string, error) {
	pub, err := codec.DecodeChecked(encodedPK, codec.PrefixEdPK)
	if err != nil {
		return "", &codec.DecodeError{Message: "invalid public key", Err: err}
	}
	if len(pub) != ed25519.PublicKeySize {
		return "", &codec.DecodeError{Message: fmt.Sprintf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(pub))}
	}
	return hashPublicKey(pub)
}

// EncodePublicKey returns the edpk form of pub
func EncodePublicKey(pub ed25519.PublicKey) string {
	return codec.EncodeChecked(codec.PrefixEdPK, pub)
}

// DecodeSecretKey accepts both the 64 byte edsk form and the 32 byte edsk seed form.
func DecodeSecretKey(encodedSK string) (ed25519.PrivateKey, error) {
	name, payload, err := codec.DecodeAny(encodedSK)
	if err != nil {
		return nil, &codec.DecodeError{Message: "invalid secret key", Err: err}
	}

	switch name {
	case "edsk":
		return ed25519.PrivateKey(payload), nil
	case "edsk-seed":
		defer clear(payload)
		return ed25519.NewKeyFromSeed(payload), nil
	default:
		return nil, &codec.DecodeError{Message: fmt.Sprintf("expected edsk secret key, got %s", name)}
	}
}

// ValidateAddress checks that address is a well formed tz1 or KT1 address
func ValidateAddress(address string) error {
	name, _, err := codec.DecodeAny(address)
	if err != nil {
		return &codec.DecodeError{Message: "invalid address", Err: err}
	}
	if name != "tz1" && name != "KT1" {
		return &codec.DecodeError{Message: fmt.Sprintf("expected tz1 or KT1 address, got %s", name)}
	}
	return nil
}

// hashPublicKey returns tz1(blake2b-160(pub))
func hashPublicKey(pub []byte) (string, error) {
	h, err := blake2b.New(addressHashLen, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create blake2b hash: %w", err)
	}
	h.Write(pub)
	return codec.EncodeChecked(codec.PrefixTz1, h.Sum(nil)), nil
}
