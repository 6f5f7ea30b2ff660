package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "tezwallet",
		Usage: "Tezos wallet: key derivation, signing and operation submission",
		Description: `A wallet that keeps keys in memory only.

The mnemonic is prompted on the terminal for every command that signs.
Set WATCH_ONLY_PUBLIC_KEY to forge operations without signing them.
Node and server settings are read from the environment or a .env file.`,
		Version: "1.0.0",
		Commands: []*cli.Command{
			commandServe(),
			commandGenerate(),
			commandAddress(),
			commandBalance(),
			commandActivate(),
			commandTransfer(),
			commandDelegate(),
			commandOriginate(),
			commandBroadcast(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
