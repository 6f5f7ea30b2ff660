package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/AlexZinkM/tez-wallet/internal/client"
	"github.com/AlexZinkM/tez-wallet/internal/config"
	"github.com/AlexZinkM/tez-wallet/internal/keys"
	"github.com/AlexZinkM/tez-wallet/internal/logger"
	"github.com/AlexZinkM/tez-wallet/internal/pipeline"
	"github.com/AlexZinkM/tez-wallet/tezos"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// environment is what every command needs once config is loaded
type environment struct {
	logger   *zap.Logger
	node     *client.TezosClient
	pipeline *pipeline.Pipeline
}

func setup() (*environment, error) {
	if err := config.Init(); err != nil {
		return nil, err
	}

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: config.IsDebug()})
	if err != nil {
		return nil, err
	}

	node := client.NewTezosClientFromConfig()
	return &environment{
		logger:   l,
		node:     node,
		pipeline: pipeline.New(node, l),
	}, nil
}

// loadWallet returns the watch-only key pair when WATCH_ONLY_PUBLIC_KEY is set,
// otherwise prompts for the mnemonic and derives the signing key pair.
func loadWallet() (keys.KeyPair, error) {
	if pk := config.GetWatchOnlyPublicKey(); pk != "" {
		kp, err := tezos.WatchOnly(pk)
		if err != nil {
			return keys.KeyPair{}, fmt.Errorf("invalid WATCH_ONLY_PUBLIC_KEY: %w", err)
		}
		return kp, nil
	}

	if err := config.PromptForMnemonic(); err != nil {
		return keys.KeyPair{}, err
	}
	defer config.ClearMnemonic()

	mnemonic, passphrase, err := config.GetMnemonicBytes()
	if err != nil {
		return keys.KeyPair{}, err
	}
	defer clear(mnemonic)
	defer clear(passphrase)

	return tezos.RestoreWallet(mnemonic, passphrase)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult prints the envelope and turns a failed run into a non-zero exit
func printResult(res pipeline.Result) error {
	if err := printJSON(res); err != nil {
		return err
	}
	if !res.Success {
		return cli.Exit("", 1)
	}
	return nil
}

func feeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "fee",
		Usage: "fee in tez",
		Value: "0",
	}
}

func commandGenerate() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "generate a new mnemonic and print its address",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "passphrase",
				Usage: "optional mnemonic passphrase",
			},
			&cli.BoolFlag{
				Name:  "qr",
				Usage: "include the address QR code (base64 PNG)",
			},
		},
		Action: func(c *cli.Context) error {
			resp, err := tezos.GenerateWallet(c.String("passphrase"))
			if err != nil {
				return err
			}
			if !c.Bool("qr") {
				resp.QR = ""
			}
			return printJSON(resp)
		},
	}
}

func commandAddress() *cli.Command {
	return &cli.Command{
		Name:  "address",
		Usage: "print the address and public key of the wallet",
		Action: func(c *cli.Context) error {
			if err := config.Init(); err != nil {
				return err
			}
			kp, err := loadWallet()
			if err != nil {
				return err
			}
			kp.SecretKey = ""
			return printJSON(kp)
		},
	}
}

func commandBalance() *cli.Command {
	return &cli.Command{
		Name:  "balance",
		Usage: "print the balance of an address",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "tz1 or KT1 address",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			env, err := setup()
			if err != nil {
				return err
			}
			balance, err := tezos.GetBalance(c.Context, env.node, client.NewCoinGeckoClient(), c.String("address"), config.GetFiatCurrency(), env.logger)
			if err != nil {
				return err
			}
			return printJSON(balance)
		},
	}
}

func commandActivate() *cli.Command {
	return &cli.Command{
		Name:  "activate",
		Usage: "activate a fundraiser account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "address", Usage: "tz1 address to activate", Required: true},
			&cli.StringFlag{Name: "secret", Usage: "activation secret", Required: true},
		},
		Action: func(c *cli.Context) error {
			env, err := setup()
			if err != nil {
				return err
			}
			return printResult(env.pipeline.Activate(c.Context, c.String("address"), c.String("secret")))
		},
	}
}

func commandTransfer() *cli.Command {
	return &cli.Command{
		Name:  "transfer",
		Usage: "send tez from the wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Usage: "destination address", Required: true},
			&cli.StringFlag{Name: "amount", Usage: "amount in tez", Required: true},
			feeFlag(),
		},
		Action: func(c *cli.Context) error {
			env, err := setup()
			if err != nil {
				return err
			}
			kp, err := loadWallet()
			if err != nil {
				return err
			}
			return printResult(env.pipeline.Transfer(c.Context, kp.Address, c.String("to"), c.String("amount"), c.String("fee"), kp))
		},
	}
}

func commandDelegate() *cli.Command {
	return &cli.Command{
		Name:  "delegate",
		Usage: "set the delegate of the wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "to", Usage: "delegate address", Required: true},
			feeFlag(),
		},
		Action: func(c *cli.Context) error {
			env, err := setup()
			if err != nil {
				return err
			}
			kp, err := loadWallet()
			if err != nil {
				return err
			}
			return printResult(env.pipeline.Delegate(c.Context, kp.Address, c.String("to"), c.String("fee"), kp))
		},
	}
}

func commandOriginate() *cli.Command {
	return &cli.Command{
		Name:  "originate",
		Usage: "originate a new account managed by the wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "balance", Usage: "initial balance in tez", Required: true},
			feeFlag(),
		},
		Action: func(c *cli.Context) error {
			env, err := setup()
			if err != nil {
				return err
			}
			kp, err := loadWallet()
			if err != nil {
				return err
			}
			return printResult(env.pipeline.Originate(c.Context, kp.Address, c.String("balance"), c.String("fee"), kp))
		},
	}
}

func commandBroadcast() *cli.Command {
	return &cli.Command{
		Name:  "broadcast",
		Usage: "inject an operation signed elsewhere",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "signed", Usage: "signed operation hex", Required: true},
		},
		Action: func(c *cli.Context) error {
			env, err := setup()
			if err != nil {
				return err
			}
			return printResult(env.pipeline.Broadcast(c.Context, c.String("signed")))
		},
	}
}
