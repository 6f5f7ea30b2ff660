package operation

import (
	"fmt"

	"github.com/AlexZinkM/tez-wallet/internal/common"
)

const managerKind = "manager"

// Manager carries the fields shared by every manager operation batch
type Manager struct {
	Branch    string
	Source    string
	PublicKey string
	Fee       string // tez display units, empty means zero
	Counter   int64  // next counter, see NextCounter
}

// NextCounter returns the counter to forge with given the on-chain counter
func NextCounter(fetched int64) int64 {
	return fetched + 1
}

// Transfer builds a reveal + transaction batch
func Transfer(m Manager, destination, amount string) (*ForgeRequest, error) {
	mutez, err := common.TezToMutezString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return manager(m, Transaction{
		Kind:        KindTransaction,
		Amount:      mutez,
		Destination: destination,
		Parameters:  &Parameters{Prim: "Unit", Args: []any{}},
	})
}

// Delegate builds a reveal + delegation batch
func Delegate(m Manager, delegate string) (*ForgeRequest, error) {
	return manager(m, Delegation{
		Kind:     KindDelegation,
		Delegate: delegate,
	})
}

// Originate builds a reveal + origination batch. managerPKH becomes the
// manager of the new account, which is spendable and delegatable.
func Originate(m Manager, managerPKH, balance string) (*ForgeRequest, error) {
	mutez, err := common.TezToMutezString(balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}
	return manager(m, Origination{
		Kind:          KindOrigination,
		ManagerPubkey: managerPKH,
		Balance:       mutez,
		Spendable:     true,
		Delegatable:   true,
	})
}

// Activate builds an activation batch; it carries no manager fields
func Activate(branch, pkh, secret string) *ForgeRequest {
	return &ForgeRequest{
		Branch: branch,
		Operations: []Content{
			Activation{Kind: KindActivation, PKH: pkh, Secret: secret},
		},
	}
}

// manager always prepends a reveal, even for accounts already revealed on chain.
func manager(m Manager, op Content) (*ForgeRequest, error) {
	fee, err := common.TezToMutezString(m.Fee)
	if err != nil {
		return nil, fmt.Errorf("invalid fee: %w", err)
	}
	return &ForgeRequest{
		Branch:  m.Branch,
		Kind:    managerKind,
		Source:  m.Source,
		Fee:     fee,
		Counter: m.Counter,
		Operations: []Content{
			Reveal{Kind: KindReveal, PublicKey: m.PublicKey},
			op,
		},
	}, nil
}
