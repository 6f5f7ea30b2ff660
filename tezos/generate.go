package tezos

import (
	"encoding/base64"
	"fmt"

	"github.com/AlexZinkM/tez-wallet/internal/keys"
	"github.com/AlexZinkM/tez-wallet/internal/model"

	"github.com/skip2/go-qrcode"
)

// GenerateWallet generates a new mnemonic and derives its key pair.
// Nothing is written to disk: the caller must show the mnemonic to the user.
func GenerateWallet(passphrase string) (*model.GenerateResponse, error) {
	mnemonic, err := keys.GenerateMnemonic()
	if err != nil {
		return nil, err
	}

	kp, err := keys.FromMnemonic(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to derive keys: %w", err)
	}

	qrCode, err := generateQRCode(kp.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	return &model.GenerateResponse{
		Success:   true,
		Message:   "Wallet generated successfully, write the mnemonic down",
		Address:   kp.Address,
		PublicKey: kp.PublicKey,
		Mnemonic:  mnemonic,
		QR:        qrCode,
	}, nil
}

// RestoreWallet derives the key pair of an existing mnemonic
func RestoreWallet(mnemonic, passphrase []byte) (keys.KeyPair, error) {
	return keys.FromMnemonic(string(mnemonic), string(passphrase))
}

// WatchOnly builds a key pair without a secret key from an edpk public key.
// Operations forged with it are returned unsigned.
func WatchOnly(publicKey string) (keys.KeyPair, error) {
	address, err := keys.PublicKeyToAddress(publicKey)
	if err != nil {
		return keys.KeyPair{}, err
	}
	return keys.KeyPair{PublicKey: publicKey, Address: address}, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
