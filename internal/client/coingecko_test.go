package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoClient_GetTezosRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "tezos", r.URL.Query().Get("ids"))
		assert.Equal(t, "eur", r.URL.Query().Get("vs_currencies"))
		_, _ = io.WriteString(w, `{"tezos":{"eur":0.734}}`)
	}))
	defer srv.Close()

	rate, err := newCoinGeckoClient(srv.URL).GetTezosRate(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, "0.73", rate)
}

func TestCoinGeckoClient_MissingCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"tezos":{}}`)
	}))
	defer srv.Close()

	_, err := newCoinGeckoClient(srv.URL).GetTezosRate(context.Background(), "usd")
	require.Error(t, err)
}

func TestCoinGeckoClient_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newCoinGeckoClient(srv.URL).GetTezosRate(context.Background(), "usd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
