package api

import (
	"net/http"

	"github.com/AlexZinkM/tez-wallet/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(cfg *handler.TezosConfig) (http.Handler, error) {
	tezosHandler, err := handler.NewTezosHandler(cfg)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Tezos endpoints
	mux.HandleFunc("/tezos/generate", tezosHandler.Generate)
	mux.HandleFunc("/tezos/balance", tezosHandler.GetBalance)
	mux.HandleFunc("/tezos/account", tezosHandler.GetAccount)
	mux.HandleFunc("/tezos/activate", tezosHandler.Activate)
	mux.HandleFunc("/tezos/transfer", tezosHandler.Transfer)
	mux.HandleFunc("/tezos/delegate", tezosHandler.Delegate)
	mux.HandleFunc("/tezos/originate", tezosHandler.Originate)
	mux.HandleFunc("/tezos/broadcast", tezosHandler.Broadcast)

	return mux, nil
}
