package model

// TezosBalanceResponse represents response for GET /tezos/balance
type TezosBalanceResponse struct {
	Address  string `json:"address"`
	Mutez    string `json:"mutez"`
	Tez      string `json:"tez"`
	Currency string `json:"currency"`
	Rate     string `json:"rate,omitempty"`
	Fiat     string `json:"tez_amount_in_fiat,omitempty"`
}
