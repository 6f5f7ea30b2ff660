package codec

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/mr-tron/base58"
)

const checksumLen = 4

// checksum returns the first 4 bytes of sha256(sha256(data))
func checksum(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}

// EncodeChecked prepends prefix to payload and returns the base58check text form.
func EncodeChecked(prefix Prefix, payload []byte) string {
	data := make([]byte, 0, len(prefix)+len(payload)+checksumLen)
	data = append(data, prefix...)
	data = append(data, payload...)
	data = append(data, checksum(data)...)
	return base58.Encode(data)
}

// decodeRaw decodes base58 text and verifies the trailing checksum.
// Returns prefix and payload bytes together.
func decodeRaw(text string) ([]byte, error) {
	if text == "" {
		return nil, &DecodeError{Message: "empty encoded string"}
	}
	data, err := base58.Decode(text)
	if err != nil {
		return nil, &DecodeError{Message: "invalid base58 string", Err: err}
	}
	if len(data) < checksumLen {
		return nil, &ChecksumError{Message: "encoded string too short to carry a checksum"}
	}

	body, sum := data[:len(data)-checksumLen], data[len(data)-checksumLen:]
	if !bytes.Equal(checksum(body), sum) {
		return nil, &ChecksumError{Message: "base58check checksum mismatch"}
	}
	return body, nil
}

// DecodeChecked reverses EncodeChecked: verifies the checksum, checks the
// leading bytes against prefix and returns the remaining payload.
func DecodeChecked(text string, prefix Prefix) ([]byte, error) {
	body, err := decodeRaw(text)
	if err != nil {
		return nil, err
	}
	if len(body) < len(prefix) {
		return nil, &PrefixLengthError{Want: len(prefix), Got: len(body)}
	}
	if !prefix.hasPrefix(body) {
		return nil, &DecodeError{Message: "unexpected prefix"}
	}

	payload := make([]byte, len(body)-len(prefix))
	copy(payload, body[len(prefix):])
	return payload, nil
}

// DecodeAny decodes text against the known prefix table and returns the
// matched prefix name with its payload.
func DecodeAny(text string) (name string, payload []byte, err error) {
	body, err := decodeRaw(text)
	if err != nil {
		return "", nil, err
	}
	for _, entry := range prefixTable {
		if entry.prefix.hasPrefix(body) && len(body)-len(entry.prefix) == entry.size {
			out := make([]byte, entry.size)
			copy(out, body[len(entry.prefix):])
			return entry.name, out, nil
		}
	}
	return "", nil, &DecodeError{Message: "unknown prefix"}
}

// HexToBytes decodes a hex string. Input is case-insensitive.
func HexToBytes(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Message: "invalid hex string", Err: err}
	}
	return b, nil
}

// BytesToHex encodes bytes as lowercase hex, two digits per byte.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}
