package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/tez-wallet/internal/api"
	"github.com/AlexZinkM/tez-wallet/internal/client"
	"github.com/AlexZinkM/tez-wallet/internal/config"
	"github.com/AlexZinkM/tez-wallet/internal/handler"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func commandServe() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the wallet HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "serve address, defaults to :PORT",
			},
		},
		Action: func(c *cli.Context) error {
			env, err := setup()
			if err != nil {
				return err
			}
			defer env.logger.Sync() //nolint:errcheck

			wallet, err := loadWallet()
			if err != nil {
				return err
			}

			router, err := api.SetupRouter(&handler.TezosConfig{
				Pipeline: env.pipeline,
				Balances: env.node,
				Rates:    client.NewCoinGeckoClient(),
				Wallet:   wallet,
				Currency: config.GetFiatCurrency(),
				Cooldown: config.GetPayCooldown(),
				Logger:   env.logger,
			})
			if err != nil {
				return err
			}

			addr := c.String("addr")
			if addr == "" {
				addr = ":" + config.GetPort()
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errWg, errCtx := errgroup.WithContext(ctx)

			errWg.Go(func() error {
				env.logger.Sugar().Infow("Starting wallet API",
					"addr", addr,
					"node", config.GetNodeURL(),
					"address", wallet.Address,
					"watchOnly", !wallet.CanSign(),
				)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			errWg.Go(func() error {
				<-errCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return errWg.Wait()
		},
	}
}
