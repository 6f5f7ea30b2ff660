package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the wallet mnemonic is prompted at runtime and kept in memory only - use GetMnemonicBytes()
type Config struct {
	Port               string  `envconfig:"PORT" default:"8080"`
	PayCooldown        int     `envconfig:"PAY_COOLDOWN_MINUTES" default:"0"`
	NodeURL            string  `envconfig:"TEZOS_NODE_URL" default:"https://rpc.tzbeta.net"`
	NodeTimeoutSeconds int     `envconfig:"NODE_TIMEOUT_SECONDS" default:"30"`
	NodeRPS            float64 `envconfig:"NODE_RPS" default:"0"`
	FiatCurrency       string  `envconfig:"FIAT_CURRENCY" default:"usd"`
	WatchOnlyPublicKey string  `envconfig:"WATCH_ONLY_PUBLIC_KEY"`
	Debug              bool    `envconfig:"LOG_DEBUG" default:"false"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg = &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.NodeTimeoutSeconds <= 0 {
		return errors.New("NODE_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetPayCooldown returns cooldown between signed submissions
func GetPayCooldown() time.Duration {
	return time.Duration(Get().PayCooldown) * time.Minute
}

// GetNodeURL returns Tezos node RPC URL from configuration
func GetNodeURL() string {
	return Get().NodeURL
}

// GetNodeTimeout returns the HTTP timeout for node requests
func GetNodeTimeout() time.Duration {
	return time.Duration(Get().NodeTimeoutSeconds) * time.Second
}

// GetNodeRPS returns the client-side node request rate limit, 0 means unlimited
func GetNodeRPS() float64 {
	return Get().NodeRPS
}

// GetFiatCurrency returns the fiat currency used for balance display
func GetFiatCurrency() string {
	return Get().FiatCurrency
}

// GetWatchOnlyPublicKey returns the public key for watch-only mode, empty if unset
func GetWatchOnlyPublicKey() string {
	return Get().WatchOnlyPublicKey
}

// IsDebug reports whether debug logging is enabled
func IsDebug() bool {
	return Get().Debug
}

var (
	mnemonicBytes   []byte
	passphraseBytes []byte
)

// PromptForMnemonic prompts the user for the wallet mnemonic and its optional
// passphrase in the terminal. Input is read without echoing and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForMnemonic() error {
	mnemonic, err := promptHidden("Enter wallet mnemonic: ")
	if err != nil {
		return err
	}
	if len(mnemonic) == 0 {
		return errors.New("mnemonic cannot be empty")
	}

	passphrase, err := promptHidden("Enter mnemonic passphrase (empty for none): ")
	if err != nil {
		clear(mnemonic)
		return err
	}

	mnemonicBytes = mnemonic
	passphraseBytes = passphrase
	return nil
}

// promptHidden reads one line from the terminal without echo
func promptHidden(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the app interactively to enter the mnemonic")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetMnemonicBytes returns copies of the mnemonic and passphrase stored by PromptForMnemonic.
// Returns an error if the mnemonic was not set.
// Caller must zero the returned slices after use.
func GetMnemonicBytes() (mnemonic, passphrase []byte, err error) {
	if len(mnemonicBytes) == 0 {
		return nil, nil, errors.New("mnemonic not set: call PromptForMnemonic at startup")
	}
	mnemonic = make([]byte, len(mnemonicBytes))
	copy(mnemonic, mnemonicBytes)
	passphrase = make([]byte, len(passphraseBytes))
	copy(passphrase, passphraseBytes)
	return mnemonic, passphrase, nil
}

// ClearMnemonic wipes the stored mnemonic and passphrase
func ClearMnemonic() {
	clear(mnemonicBytes)
	clear(passphraseBytes)
	mnemonicBytes, passphraseBytes = nil, nil
}
