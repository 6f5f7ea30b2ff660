package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlexZinkM/tez-wallet/internal/operation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestNode serves fixed JSON bodies per path and records request bodies
func newTestNode(t *testing.T, routes map[string]string) (*TezosClient, map[string][]byte) {
	t.Helper()
	bodies := make(map[string][]byte)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		bodies[r.URL.Path] = body

		resp, ok := routes[r.URL.Path]
		if !ok {
			http.Error(w, "no route "+r.URL.Path, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(srv.Close)

	return NewTezosClient(srv.URL+"/", 5*time.Second, 0), bodies
}

func TestTezosClient_Head(t *testing.T) {
	c, _ := newTestNode(t, map[string]string{
		"/blocks/head": `{"hash":"H1","chain_id":"C1","protocol":"P"}`,
	})

	head, err := c.Head(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &HeadResponse{Hash: "H1", ChainID: "C1"}, head)
}

func TestTezosClient_HeadMissingField(t *testing.T) {
	c, _ := newTestNode(t, map[string]string{
		"/blocks/head": `{"hash":"H1"}`,
	})

	_, err := c.Head(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.Contains(t, err.Error(), "chain_id")
}

func TestTezosClient_Counter(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int64
	}{
		{"number", `{"counter":5}`, 5},
		{"string", `{"counter":"42"}`, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestNode(t, map[string]string{
				"/blocks/head/proto/context/contracts/tz1abc/counter": tt.body,
			})
			counter, err := c.Counter(context.Background(), "tz1abc")
			require.NoError(t, err)
			assert.Equal(t, tt.want, counter)
		})
	}

	c, _ := newTestNode(t, map[string]string{
		"/blocks/head/proto/context/contracts/tz1abc/counter": `{"counter":"x"}`,
	})
	_, err := c.Counter(context.Background(), "tz1abc")
	assert.True(t, IsTransportError(err))
}

func TestTezosClient_Forge(t *testing.T) {
	c, bodies := newTestNode(t, map[string]string{
		"/blocks/head/proto/helpers/forge/operations": `{"operation":"abc123"}`,
	})

	req := operation.Activate("H1", "tz1abc", "secret")
	forged, err := c.Forge(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "abc123", forged)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(bodies["/blocks/head/proto/helpers/forge/operations"], &sent))
	assert.Equal(t, "H1", sent["branch"])
	ops := sent["operations"].([]any)
	require.Len(t, ops, 1)
	assert.Equal(t, "activation", ops[0].(map[string]any)["kind"])
}

func TestTezosClient_ApplyAndInject(t *testing.T) {
	c, bodies := newTestNode(t, map[string]string{
		"/blocks/head/predecessor":                  `{"predecessor":"BPred"}`,
		"/blocks/head/proto/helpers/apply_operation": `{"contracts":["KT1new"]}`,
		"/inject_operation":                          `{"injectedOperation":"opH"}`,
	})
	ctx := context.Background()

	pred, err := c.Predecessor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "BPred", pred)

	applied, err := c.Apply(ctx, &ApplyRequest{PredBlock: pred, OperationHash: "o1", ForgedOperation: "ab", Signature: "edsig1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"KT1new"}, applied.Contracts)
	assert.JSONEq(t,
		`{"pred_block":"BPred","operation_hash":"o1","forged_operation":"ab","signature":"edsig1"}`,
		string(bodies["/blocks/head/proto/helpers/apply_operation"]))

	opHash, err := c.Inject(ctx, &InjectRequest{SignedOperationContents: "abcd", ChainID: "C1"})
	require.NoError(t, err)
	assert.Equal(t, "opH", opHash)
	assert.JSONEq(t, `{"signedOperationContents":"abcd","chain_id":"C1"}`, string(bodies["/inject_operation"]))
}

func TestTezosClient_Queries(t *testing.T) {
	c, _ := newTestNode(t, map[string]string{
		"/blocks/head/proto/context/contracts/tz1abc/balance":  `{"balance":"1500000"}`,
		"/blocks/head/proto/context/contracts/tz1abc/delegate": `{"value":"tz1del"}`,
		"/blocks/head/proto/context/contracts/tz1abc":          `{"balance":7,"manager":"tz1m","delegate":{"value":"tz1del"},"counter":"9"}`,
	})
	ctx := context.Background()

	balance, err := c.Balance(ctx, "tz1abc")
	require.NoError(t, err)
	assert.Equal(t, "1500000", balance)

	delegate, err := c.DelegateOf(ctx, "tz1abc")
	require.NoError(t, err)
	assert.Equal(t, "tz1del", delegate)

	account, err := c.Account(ctx, "tz1abc")
	require.NoError(t, err)
	assert.Equal(t, &AccountResponse{Balance: "7", Manager: "tz1m", Delegate: "tz1del", Counter: 9}, account)
}

func TestTezosClient_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `[{"kind":"temporary","id":"failure"}]`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewTezosClient(srv.URL, 5*time.Second, 0)
	_, err := c.Inject(context.Background(), &InjectRequest{SignedOperationContents: "ab", ChainID: "C1"})
	require.Error(t, err)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "inject", terr.Op)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	assert.Contains(t, terr.Body, "temporary")
}

func TestTezosClient_Unreachable(t *testing.T) {
	c := NewTezosClient("http://127.0.0.1:1", time.Second, 0)
	_, err := c.Head(context.Background())
	assert.True(t, IsTransportError(err))
}

func TestTezosClient_RateLimitHonoursContext(t *testing.T) {
	c, _ := newTestNode(t, map[string]string{
		"/blocks/head": `{"hash":"H1","chain_id":"C1"}`,
	})
	c.limiter = newLimiter(0.001)

	_, err := c.Head(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.Head(ctx)
	assert.True(t, IsTransportError(err))
}
