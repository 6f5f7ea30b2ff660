package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
	tezosCoinID  = "tezos"
)

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoClient creates a new CoinGecko client
func NewCoinGeckoClient() *CoinGeckoClient {
	return newCoinGeckoClient(coingeckoAPI)
}

func newCoinGeckoClient(baseURL string) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PriceResponse response from CoinGecko simple price API, keyed by coin id then currency
type PriceResponse map[string]map[string]float64

// GetTezosRate gets the price of one tez in currency (e.g. "usd")
func (c *CoinGeckoClient) GetTezosRate(ctx context.Context, currency string) (string, error) {
	currency = strings.ToLower(currency)
	q := url.Values{}
	q.Set("ids", tezosCoinID)
	q.Set("vs_currencies", currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get rate: status %d", resp.StatusCode)
	}

	var priceResp PriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return "", fmt.Errorf("failed to decode rate: %w", err)
	}

	price, ok := priceResp[tezosCoinID][currency]
	if !ok {
		return "", fmt.Errorf("no %s rate for %s", currency, tezosCoinID)
	}

	rate := strconv.FormatFloat(price, 'f', 2, 64)
	return rate, nil
}
