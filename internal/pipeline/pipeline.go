// Package pipeline drives operations through the node protocol:
// fetch head, fetch counter, forge, then either return the unsigned bytes
// or fetch the predecessor, sign, apply and inject.
package pipeline

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/tez-wallet/internal/client"
	"github.com/AlexZinkM/tez-wallet/internal/codec"
	"github.com/AlexZinkM/tez-wallet/internal/keys"
	"github.com/AlexZinkM/tez-wallet/internal/operation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Node is the subset of the node RPC the pipeline talks to.
// *client.TezosClient implements it.
type Node interface {
	Head(ctx context.Context) (*client.HeadResponse, error)
	Counter(ctx context.Context, pkh string) (int64, error)
	Forge(ctx context.Context, req *operation.ForgeRequest) (string, error)
	Predecessor(ctx context.Context) (string, error)
	Apply(ctx context.Context, req *client.ApplyRequest) (*client.ApplyResponse, error)
	Inject(ctx context.Context, req *client.InjectRequest) (string, error)
	Balance(ctx context.Context, pkh string) (string, error)
	DelegateOf(ctx context.Context, pkh string) (string, error)
	Account(ctx context.Context, pkh string) (*client.AccountResponse, error)
}

// Pipeline submits operations to a node. It keeps no per-run state, so one
// Pipeline serves concurrent runs.
type Pipeline struct {
	node   Node
	logger *zap.SugaredLogger
}

// New creates a pipeline over node. A nil logger disables logging.
func New(node Node, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		node:   node,
		logger: logger.Sugar(),
	}
}

// Activate claims a fundraiser account with its activation secret
func (p *Pipeline) Activate(ctx context.Context, pkh, secret string) Result {
	if err := keys.ValidateAddress(pkh); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}
	if secret == "" {
		return failure(ErrorKindValidation, stateNone, &keys.ValidationError{Message: "activation secret is required"})
	}

	return p.execute(ctx, &run{
		name:   string(operation.KindActivation),
		flow:   flowActivation,
		source: pkh,
		build: func(branch string, _ int64) (*operation.ForgeRequest, error) {
			return operation.Activate(branch, pkh, secret), nil
		},
	})
}

// Originate creates a new account managed by kp with the given balance
func (p *Pipeline) Originate(ctx context.Context, source, amount, fee string, kp keys.KeyPair) Result {
	build := func(branch string, counter int64) (*operation.ForgeRequest, error) {
		return operation.Originate(managerFields(branch, source, fee, counter, kp), kp.Address, amount)
	}
	return p.manager(ctx, operation.KindOrigination, source, kp, build)
}

// Transfer sends amount tez from from to to
func (p *Pipeline) Transfer(ctx context.Context, from, to, amount, fee string, kp keys.KeyPair) Result {
	if err := keys.ValidateAddress(to); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}
	build := func(branch string, counter int64) (*operation.ForgeRequest, error) {
		return operation.Transfer(managerFields(branch, from, fee, counter, kp), to, amount)
	}
	return p.manager(ctx, operation.KindTransaction, from, kp, build)
}

// Delegate sets the delegate of from to to
func (p *Pipeline) Delegate(ctx context.Context, from, to, fee string, kp keys.KeyPair) Result {
	if err := keys.ValidateAddress(to); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}
	build := func(branch string, counter int64) (*operation.ForgeRequest, error) {
		return operation.Delegate(managerFields(branch, from, fee, counter, kp), to)
	}
	return p.manager(ctx, operation.KindDelegation, from, kp, build)
}

// Broadcast injects operation bytes that were signed elsewhere
func (p *Pipeline) Broadcast(ctx context.Context, signedBytes string) Result {
	if signedBytes == "" {
		return failure(ErrorKindValidation, stateNone, &keys.ValidationError{Message: "signed bytes are required"})
	}
	if _, err := codec.HexToBytes(signedBytes); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}

	return p.execute(ctx, &run{
		name:        "broadcast",
		flow:        flowBroadcast,
		signedBytes: signedBytes,
	})
}

// Balance returns the balance of pkh in mutez
func (p *Pipeline) Balance(ctx context.Context, pkh string) Result {
	if err := keys.ValidateAddress(pkh); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}
	balance, err := p.node.Balance(ctx, pkh)
	if err != nil {
		return p.queryFailure("balance", pkh, err)
	}
	return success(&BalancePayload{Balance: balance})
}

// DelegateOf returns the delegate of pkh
func (p *Pipeline) DelegateOf(ctx context.Context, pkh string) Result {
	if err := keys.ValidateAddress(pkh); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}
	delegate, err := p.node.DelegateOf(ctx, pkh)
	if err != nil {
		return p.queryFailure("delegate", pkh, err)
	}
	return success(&DelegatePayload{Delegate: delegate})
}

// Counter returns the current on-chain counter of pkh
func (p *Pipeline) Counter(ctx context.Context, pkh string) Result {
	if err := keys.ValidateAddress(pkh); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}
	counter, err := p.node.Counter(ctx, pkh)
	if err != nil {
		return p.queryFailure("counter", pkh, err)
	}
	return success(&CounterPayload{Counter: counter})
}

// Account returns the contract state of pkh
func (p *Pipeline) Account(ctx context.Context, pkh string) Result {
	if err := keys.ValidateAddress(pkh); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}
	account, err := p.node.Account(ctx, pkh)
	if err != nil {
		return p.queryFailure("account", pkh, err)
	}
	if account == nil {
		return p.queryFailure("account", pkh, errEmptyResponse)
	}
	return success(&AccountPayload{
		Balance:  account.Balance,
		Manager:  account.Manager,
		Delegate: account.Delegate,
		Counter:  account.Counter,
	})
}

func (p *Pipeline) queryFailure(query, pkh string, err error) Result {
	p.logger.Debugw("Query failed", "query", query, "pkh", pkh, "error", err)
	kind := classify(stateNone, err)
	if kind == ErrorKindInternal {
		kind = ErrorKindTransport
	}
	return failure(kind, stateNone, err)
}

// manager validates the inputs of a manager operation and runs it.
// Nothing reaches the node when the key pair or amounts are invalid.
func (p *Pipeline) manager(ctx context.Context, kind operation.Kind, source string, kp keys.KeyPair, build buildFunc) Result {
	if err := keys.ValidateAddress(source); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}
	if err := kp.Validate(); err != nil {
		return failure(classify(stateNone, err), stateNone, err)
	}
	if kp.PublicKey == "" {
		return failure(ErrorKindValidation, stateNone, &keys.ValidationError{Message: "public key is required for the reveal"})
	}
	if _, err := build("", 0); err != nil {
		return failure(ErrorKindValidation, stateNone, &keys.ValidationError{Message: err.Error()})
	}

	return p.execute(ctx, &run{
		name:   string(kind),
		flow:   flowManager,
		source: source,
		keys:   kp,
		build:  build,
	})
}

// execute is the driver loop. It runs states in order until done or the
// first failure, which ends the run.
func (p *Pipeline) execute(ctx context.Context, r *run) Result {
	r.id = uuid.NewString()
	log := p.logger.With("run", r.id, "operation", r.name)

	st := stateFetchHead
	for st != stateDone {
		next, err := p.step(ctx, st, r)
		if err != nil {
			log.Debugw("Pipeline step failed", "state", st.String(), "error", err)
			return failure(classify(st, err), st, err)
		}
		log.Debugw("Pipeline transition", "from", st.String(), "to", next.String())
		st = next
	}

	log.Debugw("Pipeline done", "opHash", r.opHash, "signed", r.opHash != "")
	return r.result()
}

func managerFields(branch, source, fee string, counter int64, kp keys.KeyPair) operation.Manager {
	return operation.Manager{
		Branch:    branch,
		Source:    source,
		PublicKey: kp.PublicKey,
		Fee:       fee,
		Counter:   counter,
	}
}

// String renders the envelope for logs
func (r Result) String() string {
	return fmt.Sprintf("success=%t payload=%+v", r.Success, r.Payload)
}
