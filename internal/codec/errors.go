package codec

import (
	"errors"
	"fmt"
)

// ChecksumError is returned when the base58check checksum does not match.
type ChecksumError struct {
	Message string
}

func (e *ChecksumError) Error() string {
	return e.Message
}

// PrefixLengthError is returned when a decoded payload is shorter than the expected prefix.
type PrefixLengthError struct {
	Want int
	Got  int
}

func (e *PrefixLengthError) Error() string {
	return fmt.Sprintf("decoded payload is %d bytes, shorter than %d byte prefix", e.Got, e.Want)
}

// DecodeError is returned for malformed encoded keys, addresses or hex strings.
// It may wrap a ChecksumError or PrefixLengthError.
type DecodeError struct {
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsChecksumError checks if err is or wraps a ChecksumError
func IsChecksumError(err error) bool {
	var target *ChecksumError
	return errors.As(err, &target)
}

// IsPrefixLengthError checks if err is or wraps a PrefixLengthError
func IsPrefixLengthError(err error) bool {
	var target *PrefixLengthError
	return errors.As(err, &target)
}

// IsDecodeError checks if err is or wraps a DecodeError
func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}
