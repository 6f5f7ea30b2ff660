// Package operation builds the unsigned operation payloads submitted to the
// node's forging endpoint.
package operation

// Kind tags an operation content
type Kind string

const (
	KindReveal      Kind = "reveal"
	KindTransaction Kind = "transaction"
	KindDelegation  Kind = "delegation"
	KindOrigination Kind = "origination"
	KindActivation  Kind = "activation"
)

// Content is one entry of a forge batch. The concrete types below are the
// only implementations.
type Content interface {
	OperationKind() Kind
}

// Reveal publishes the source account's public key
type Reveal struct {
	Kind      Kind   `json:"kind"`
	PublicKey string `json:"public_key"`
}

// Parameters is the Michelson call argument of a transaction
type Parameters struct {
	Prim string `json:"prim"`
	Args []any  `json:"args"`
}

// Transaction moves Amount mutez to Destination
type Transaction struct {
	Kind        Kind        `json:"kind"`
	Amount      string      `json:"amount"`
	Destination string      `json:"destination"`
	Parameters  *Parameters `json:"parameters,omitempty"`
}

// Delegation sets the baker of the source account
type Delegation struct {
	Kind     Kind   `json:"kind"`
	Delegate string `json:"delegate"`
}

// Origination creates a new account funded with Balance mutez
type Origination struct {
	Kind          Kind   `json:"kind"`
	ManagerPubkey string `json:"managerPubkey"`
	Balance       string `json:"balance"`
	Spendable     bool   `json:"spendable"`
	Delegatable   bool   `json:"delegatable"`
}

// Activation claims a fundraiser account with its activation secret
type Activation struct {
	Kind   Kind   `json:"kind"`
	PKH    string `json:"pkh"`
	Secret string `json:"secret"`
}

func (Reveal) OperationKind() Kind      { return KindReveal }
func (Transaction) OperationKind() Kind { return KindTransaction }
func (Delegation) OperationKind() Kind  { return KindDelegation }
func (Origination) OperationKind() Kind { return KindOrigination }
func (Activation) OperationKind() Kind  { return KindActivation }

// ForgeRequest is the body sent to the forging endpoint. Manager fields are
// omitted for activation batches.
type ForgeRequest struct {
	Branch     string    `json:"branch"`
	Kind       string    `json:"kind,omitempty"`
	Source     string    `json:"source,omitempty"`
	Fee        string    `json:"fee,omitempty"`
	Counter    int64     `json:"counter,omitempty"`
	Operations []Content `json:"operations"`
}

// IsManager reports whether the batch carries manager fields
func (r *ForgeRequest) IsManager() bool {
	return r.Kind == managerKind
}
