package model

import (
	"errors"
)

// TransferRequest represents request for POST /tezos/transfer
type TransferRequest struct {
	ToAddress string `json:"toAddress" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Fee       string `json:"fee"`
}

// Validate checks required fields
func (r *TransferRequest) Validate() error {
	if r.ToAddress == "" {
		return errors.New("toAddress is required")
	}
	if r.Amount == "" {
		return errors.New("amount is required")
	}
	return nil
}

// DelegateRequest represents request for POST /tezos/delegate
type DelegateRequest struct {
	Delegate string `json:"delegate" binding:"required"`
	Fee      string `json:"fee"`
}

// Validate checks required fields
func (r *DelegateRequest) Validate() error {
	if r.Delegate == "" {
		return errors.New("delegate is required")
	}
	return nil
}

// OriginateRequest represents request for POST /tezos/originate
type OriginateRequest struct {
	Balance string `json:"balance" binding:"required"`
	Fee     string `json:"fee"`
}

// Validate checks required fields
func (r *OriginateRequest) Validate() error {
	if r.Balance == "" {
		return errors.New("balance is required")
	}
	return nil
}

// ActivateRequest represents request for POST /tezos/activate
type ActivateRequest struct {
	Address string `json:"address" binding:"required"`
	Secret  string `json:"secret" binding:"required"`
}

// Validate checks required fields
func (r *ActivateRequest) Validate() error {
	if r.Address == "" || r.Secret == "" {
		return errors.New("address and secret are required")
	}
	return nil
}

// BroadcastRequest represents request for POST /tezos/broadcast
type BroadcastRequest struct {
	SignedOperation string `json:"signedOperation" binding:"required"`
}

// Validate checks required fields
func (r *BroadcastRequest) Validate() error {
	if r.SignedOperation == "" {
		return errors.New("signedOperation is required")
	}
	return nil
}
