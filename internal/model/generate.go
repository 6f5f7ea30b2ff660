package model

// GenerateResponse represents response for POST .../generate.
// The mnemonic is shown once and never stored.
type GenerateResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Address   string `json:"address,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
	Mnemonic  string `json:"mnemonic,omitempty"`
	QR        string `json:"QR,omitempty"`
}

// GenerateRequest represents request for POST .../generate
type GenerateRequest struct {
	Passphrase string `json:"passphrase"`
}
