package pipeline

import (
	"github.com/AlexZinkM/tez-wallet/internal/client"
	"github.com/AlexZinkM/tez-wallet/internal/codec"
	"github.com/AlexZinkM/tez-wallet/internal/keys"
)

// Result is the uniform envelope every entry point resolves to.
// Payload is one of the *Payload types below.
type Result struct {
	Success bool `json:"success"`
	Payload any  `json:"payload"`
}

// ErrorKind classifies a failure
type ErrorKind string

const (
	ErrorKindChecksum   ErrorKind = "checksum"
	ErrorKindDecode     ErrorKind = "decode"
	ErrorKindTransport  ErrorKind = "transport"
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindInternal   ErrorKind = "internal"
)

// FailurePayload carries the underlying error message unchanged
type FailurePayload struct {
	Msg   string    `json:"msg"`
	Kind  ErrorKind `json:"kind"`
	State string    `json:"state,omitempty"`
}

// InjectedPayload is returned by activation and broadcast
type InjectedPayload struct {
	OpHash string `json:"opHash"`
}

// OperationPayload is returned by transfer, delegate and originate.
// Signed runs set OpHash and leave UnsignedOperation nil; unsigned runs
// set only UnsignedOperation.
type OperationPayload struct {
	OpHash            string  `json:"opHash,omitempty"`
	NewAddress        string  `json:"newAddress,omitempty"`
	UnsignedOperation *string `json:"unsignedOperation"`
}

// BalancePayload is the balance of an account in mutez
type BalancePayload struct {
	Balance string `json:"balance"`
}

// DelegatePayload is the delegate of an account, empty when unset
type DelegatePayload struct {
	Delegate string `json:"delegate"`
}

// CounterPayload is the current on-chain counter of an account
type CounterPayload struct {
	Counter int64 `json:"counter"`
}

// AccountPayload is the contract state of an account
type AccountPayload struct {
	Balance  string `json:"balance"`
	Manager  string `json:"manager"`
	Delegate string `json:"delegate"`
	Counter  int64  `json:"counter"`
}

func success(payload any) Result {
	return Result{Success: true, Payload: payload}
}

func failure(kind ErrorKind, st state, err error) Result {
	p := &FailurePayload{Msg: err.Error(), Kind: kind}
	if st != stateNone {
		p.State = st.String()
	}
	return Result{Success: false, Payload: p}
}

// classify maps err to its kind. Untyped errors from node calls count as transport failures.
func classify(st state, err error) ErrorKind {
	switch {
	case codec.IsChecksumError(err):
		return ErrorKindChecksum
	case codec.IsDecodeError(err), codec.IsPrefixLengthError(err):
		return ErrorKindDecode
	case client.IsTransportError(err):
		return ErrorKindTransport
	case keys.IsValidationError(err):
		return ErrorKindValidation
	case st.callsNode():
		return ErrorKindTransport
	default:
		return ErrorKindInternal
	}
}
