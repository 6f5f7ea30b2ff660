package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// response is implemented by every decoded node response and reports
// missing required fields.
type response interface {
	validate() error
}

// flexInt accepts both JSON numbers and numeric strings
type flexInt struct {
	Value int64
	Set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := string(bytes.Trim(data, `"`))
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	f.Value, f.Set = n, true
	return nil
}

// flexString accepts both JSON strings and numbers, keeping the text form
type flexString struct {
	Value string
	Set   bool
}

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &f.Value); err != nil {
			return err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid numeric value %s", data)
		}
		f.Value = n.String()
	}
	f.Set = true
	return nil
}

// HeadResponse is the subset of the head block the wallet needs
type HeadResponse struct {
	Hash    string `json:"hash"`
	ChainID string `json:"chain_id"`
}

func (r *HeadResponse) validate() error {
	if r.Hash == "" {
		return errors.New("missing field hash")
	}
	if r.ChainID == "" {
		return errors.New("missing field chain_id")
	}
	return nil
}

type counterResponse struct {
	Counter flexInt `json:"counter"`
}

func (r *counterResponse) validate() error {
	if !r.Counter.Set {
		return errors.New("missing field counter")
	}
	return nil
}

type forgeResponse struct {
	Operation string `json:"operation"`
}

func (r *forgeResponse) validate() error {
	if r.Operation == "" {
		return errors.New("missing field operation")
	}
	return nil
}

type predecessorResponse struct {
	Predecessor string `json:"predecessor"`
}

func (r *predecessorResponse) validate() error {
	if r.Predecessor == "" {
		return errors.New("missing field predecessor")
	}
	return nil
}

// ApplyRequest asks the node to validate a signed operation against pred_block
type ApplyRequest struct {
	PredBlock       string `json:"pred_block"`
	OperationHash   string `json:"operation_hash"`
	ForgedOperation string `json:"forged_operation"`
	Signature       string `json:"signature"`
}

// ApplyResponse lists contracts created by the operation (origination only)
type ApplyResponse struct {
	Contracts []string `json:"contracts"`
}

func (r *ApplyResponse) validate() error {
	return nil
}

// InjectRequest broadcasts signed operation bytes on chain ChainID
type InjectRequest struct {
	SignedOperationContents string `json:"signedOperationContents"`
	ChainID                 string `json:"chain_id"`
}

type injectResponse struct {
	InjectedOperation string `json:"injectedOperation"`
}

func (r *injectResponse) validate() error {
	if r.InjectedOperation == "" {
		return errors.New("missing field injectedOperation")
	}
	return nil
}

type balanceResponse struct {
	Balance flexString `json:"balance"`
}

func (r *balanceResponse) validate() error {
	if !r.Balance.Set {
		return errors.New("missing field balance")
	}
	return nil
}

type delegateValue struct {
	Value string `json:"value"`
}

type delegateResponse struct {
	Value string `json:"value"`
}

func (r *delegateResponse) validate() error {
	return nil
}

// AccountResponse is the contract state of an account
type AccountResponse struct {
	Balance  string
	Manager  string
	Delegate string
	Counter  int64
}

type accountResponse struct {
	Balance  flexString     `json:"balance"`
	Manager  string         `json:"manager"`
	Delegate *delegateValue `json:"delegate"`
	Counter  flexInt        `json:"counter"`
}

func (r *accountResponse) validate() error {
	if !r.Balance.Set {
		return errors.New("missing field balance")
	}
	return nil
}
