package pipeline

import (
	"context"
	"errors"

	"github.com/AlexZinkM/tez-wallet/internal/client"
	"github.com/AlexZinkM/tez-wallet/internal/keys"
	"github.com/AlexZinkM/tez-wallet/internal/operation"
	"github.com/AlexZinkM/tez-wallet/internal/signer"
)

type state int

const (
	stateNone state = iota
	stateFetchHead
	stateFetchCounter
	stateForge
	stateFetchPredecessor
	stateSign
	stateApply
	stateInject
	stateDone
)

func (s state) String() string {
	switch s {
	case stateFetchHead:
		return "fetch_head"
	case stateFetchCounter:
		return "fetch_counter"
	case stateForge:
		return "forge"
	case stateFetchPredecessor:
		return "fetch_predecessor"
	case stateSign:
		return "sign"
	case stateApply:
		return "apply"
	case stateInject:
		return "inject"
	case stateDone:
		return "done"
	default:
		return "none"
	}
}

// callsNode reports whether the state performs a node request
func (s state) callsNode() bool {
	switch s {
	case stateFetchHead, stateFetchCounter, stateForge, stateFetchPredecessor, stateApply, stateInject:
		return true
	default:
		return false
	}
}

// flow selects the state graph of a run
type flow int

const (
	// fetch_head -> forge -> inject
	flowActivation flow = iota
	// fetch_head -> inject
	flowBroadcast
	// fetch_head -> fetch_counter -> forge -> done (unsigned)
	// fetch_head -> fetch_counter -> forge -> fetch_predecessor -> sign -> apply -> inject
	flowManager
)

// buildFunc assembles the forge batch once branch and counter are known.
// Activation ignores the counter.
type buildFunc func(branch string, counter int64) (*operation.ForgeRequest, error)

// run is the state of one pipeline invocation. It is owned by a single
// goroutine and never shared.
type run struct {
	id     string
	name   string
	flow   flow
	source string
	keys   keys.KeyPair
	build  buildFunc

	head        *client.HeadResponse
	counter     int64
	forged      string
	predecessor string
	signed      *signer.SignedOperation
	provisional string
	signedBytes string
	newAddress  string
	opHash      string
}

var errEmptyResponse = errors.New("node returned an empty response")

// step executes st and returns the next state
func (p *Pipeline) step(ctx context.Context, st state, r *run) (state, error) {
	switch st {
	case stateFetchHead:
		head, err := p.node.Head(ctx)
		if err != nil {
			return st, err
		}
		if head == nil {
			return st, errEmptyResponse
		}
		r.head = head
		switch r.flow {
		case flowManager:
			return stateFetchCounter, nil
		case flowBroadcast:
			return stateInject, nil
		default:
			return stateForge, nil
		}

	case stateFetchCounter:
		counter, err := p.node.Counter(ctx, r.source)
		if err != nil {
			return st, err
		}
		r.counter = operation.NextCounter(counter)
		return stateForge, nil

	case stateForge:
		req, err := r.build(r.head.Hash, r.counter)
		if err != nil {
			return st, &keys.ValidationError{Message: err.Error()}
		}
		forged, err := p.node.Forge(ctx, req)
		if err != nil {
			return st, err
		}
		r.forged = forged
		if r.flow == flowActivation {
			r.signedBytes = forged
			return stateInject, nil
		}
		if !r.keys.CanSign() {
			return stateDone, nil
		}
		return stateFetchPredecessor, nil

	case stateFetchPredecessor:
		pred, err := p.node.Predecessor(ctx)
		if err != nil {
			return st, err
		}
		r.predecessor = pred
		return stateSign, nil

	case stateSign:
		signed, err := signer.Sign(r.forged, r.keys.SecretKey)
		if err != nil {
			return st, err
		}
		hash, err := signer.OperationHash(signed.SignedBytes)
		if err != nil {
			return st, err
		}
		r.signed = signed
		r.provisional = hash
		r.signedBytes = signed.SignedBytes
		return stateApply, nil

	case stateApply:
		applied, err := p.node.Apply(ctx, &client.ApplyRequest{
			PredBlock:       r.predecessor,
			OperationHash:   r.provisional,
			ForgedOperation: r.forged,
			Signature:       r.signed.EncodedSignature,
		})
		if err != nil {
			return st, err
		}
		if applied != nil && len(applied.Contracts) > 0 {
			r.newAddress = applied.Contracts[0]
		}
		return stateInject, nil

	case stateInject:
		opHash, err := p.node.Inject(ctx, &client.InjectRequest{
			SignedOperationContents: r.signedBytes,
			ChainID:                 r.head.ChainID,
		})
		if err != nil {
			return st, err
		}
		r.opHash = opHash
		return stateDone, nil
	}

	return st, errors.New("unknown pipeline state " + st.String())
}

// result builds the success payload of a finished run
func (r *run) result() Result {
	switch {
	case r.flow != flowManager:
		return success(&InjectedPayload{OpHash: r.opHash})
	case r.opHash == "":
		forged := r.forged
		return success(&OperationPayload{UnsignedOperation: &forged})
	default:
		return success(&OperationPayload{OpHash: r.opHash, NewAddress: r.newAddress})
	}
}
