package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AlexZinkM/tez-wallet/internal/config"
	"github.com/AlexZinkM/tez-wallet/internal/operation"

	"golang.org/x/time/rate"
)

const (
	pathHead        = "/blocks/head"
	pathPredecessor = "/blocks/head/predecessor"
	pathForge       = "/blocks/head/proto/helpers/forge/operations"
	pathApply       = "/blocks/head/proto/helpers/apply_operation"
	pathInject      = "/inject_operation"
	pathContracts   = "/blocks/head/proto/context/contracts/"

	maxErrorBody = 512
)

// TezosClient is a client for the Tezos node RPC. Every call is a JSON POST.
// It holds no per-account state and is safe for concurrent use.
type TezosClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter // nil means unlimited
}

// NewTezosClient creates a client for nodeURL. rps <= 0 disables client-side rate limiting.
func NewTezosClient(nodeURL string, timeout time.Duration, rps float64) *TezosClient {
	c := &TezosClient{
		baseURL: strings.TrimRight(nodeURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
	if rps > 0 {
		c.limiter = newLimiter(rps)
	}
	return c
}

func newLimiter(rps float64) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// NewTezosClientFromConfig creates a client from the global configuration
func NewTezosClientFromConfig() *TezosClient {
	return NewTezosClient(config.GetNodeURL(), config.GetNodeTimeout(), config.GetNodeRPS())
}

// Head gets hash and chain id of the current head block
func (c *TezosClient) Head(ctx context.Context) (*HeadResponse, error) {
	var resp HeadResponse
	if err := c.post(ctx, "head", pathHead, struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Counter gets the current on-chain counter of pkh
func (c *TezosClient) Counter(ctx context.Context, pkh string) (int64, error) {
	var resp counterResponse
	if err := c.post(ctx, "counter", contractPath(pkh, "counter"), struct{}{}, &resp); err != nil {
		return 0, err
	}
	return resp.Counter.Value, nil
}

// Forge gets the forged hex bytes of an operation batch
func (c *TezosClient) Forge(ctx context.Context, req *operation.ForgeRequest) (string, error) {
	var resp forgeResponse
	if err := c.post(ctx, "forge", pathForge, req, &resp); err != nil {
		return "", err
	}
	return resp.Operation, nil
}

// Predecessor gets the hash of the head's predecessor block
func (c *TezosClient) Predecessor(ctx context.Context) (string, error) {
	var resp predecessorResponse
	if err := c.post(ctx, "predecessor", pathPredecessor, struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Predecessor, nil
}

// Apply validates a signed operation without injecting it
func (c *TezosClient) Apply(ctx context.Context, req *ApplyRequest) (*ApplyResponse, error) {
	var resp ApplyResponse
	if err := c.post(ctx, "apply", pathApply, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Inject broadcasts signed operation bytes and returns the injected operation hash
func (c *TezosClient) Inject(ctx context.Context, req *InjectRequest) (string, error) {
	var resp injectResponse
	if err := c.post(ctx, "inject", pathInject, req, &resp); err != nil {
		return "", err
	}
	return resp.InjectedOperation, nil
}

// Balance gets the balance of pkh in mutez
func (c *TezosClient) Balance(ctx context.Context, pkh string) (string, error) {
	var resp balanceResponse
	if err := c.post(ctx, "balance", contractPath(pkh, "balance"), struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Balance.Value, nil
}

// DelegateOf gets the delegate of pkh, empty when none is set
func (c *TezosClient) DelegateOf(ctx context.Context, pkh string) (string, error) {
	var resp delegateResponse
	if err := c.post(ctx, "delegate", contractPath(pkh, "delegate"), struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Value, nil
}

// Account gets balance, manager, delegate and counter of pkh
func (c *TezosClient) Account(ctx context.Context, pkh string) (*AccountResponse, error) {
	var resp accountResponse
	if err := c.post(ctx, "account", contractPath(pkh, ""), struct{}{}, &resp); err != nil {
		return nil, err
	}

	account := &AccountResponse{
		Balance: resp.Balance.Value,
		Manager: resp.Manager,
		Counter: resp.Counter.Value,
	}
	if resp.Delegate != nil {
		account.Delegate = resp.Delegate.Value
	}
	return account, nil
}

// contractPath builds the contracts path for pkh, optionally with a sub resource
func contractPath(pkh, sub string) string {
	p := pathContracts + url.PathEscape(pkh)
	if sub != "" {
		p += "/" + sub
	}
	return p
}

// post sends body as JSON and decodes the response into out.
// Every failure is returned as a TransportError.
func (c *TezosClient) post(ctx context.Context, op, path string, body any, out response) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Op: op, Err: err}
		}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if err := out.validate(); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("unexpected response shape: %w", err)}
	}
	return nil
}
