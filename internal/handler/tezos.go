package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/AlexZinkM/tez-wallet/internal/keys"
	"github.com/AlexZinkM/tez-wallet/internal/model"
	"github.com/AlexZinkM/tez-wallet/internal/pipeline"
	"github.com/AlexZinkM/tez-wallet/tezos"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TezosConfig holds the dependencies of TezosHandler
type TezosConfig struct {
	Pipeline *pipeline.Pipeline
	Balances tezos.BalanceSource
	Rates    tezos.RateSource
	Wallet   keys.KeyPair // watch-only when SecretKey is empty
	Currency string
	Cooldown time.Duration // minimum time between signed submissions, 0 disables
	Logger   *zap.Logger
}

// TezosHandler serves the wallet HTTP API
type TezosHandler struct {
	pipeline *pipeline.Pipeline
	balances tezos.BalanceSource
	rates    tezos.RateSource
	wallet   keys.KeyPair
	currency string
	cooldown *rate.Limiter
	logger   *zap.Logger
}

// NewTezosHandler creates a new TezosHandler
func NewTezosHandler(cfg *TezosConfig) (*TezosHandler, error) {
	if cfg.Pipeline == nil {
		return nil, errors.New("pipeline is required")
	}
	if err := cfg.Wallet.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &TezosHandler{
		pipeline: cfg.Pipeline,
		balances: cfg.Balances,
		rates:    cfg.Rates,
		wallet:   cfg.Wallet,
		currency: cfg.Currency,
		logger:   logger,
	}
	if cfg.Cooldown > 0 {
		h.cooldown = rate.NewLimiter(rate.Every(cfg.Cooldown), 1)
	}
	return h, nil
}

// Generate handles POST /tezos/generate
// @Summary      Generate new wallet
// @Description  Generates a new mnemonic and returns its address, public key and address QR code. Nothing is stored.
// @Tags         tezos
// @Accept       json
// @Produce      json
// @Param        request  body      model.GenerateRequest  false  "Optional mnemonic passphrase"
// @Success      200      {object}  model.GenerateResponse
// @Router       /tezos/generate [post]
func (h *TezosHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := tezos.GenerateWallet(req.Passphrase)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /tezos/balance
// @Summary      Get wallet balance
// @Description  Gets the tez balance of an address (the loaded wallet by default) with its fiat value
// @Tags         tezos
// @Produce      json
// @Param        address  query     string  false  "tz1 or KT1 address"
// @Success      200      {object}  model.TezosBalanceResponse
// @Router       /tezos/balance [get]
func (h *TezosHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	address := h.addressParam(r)
	if err := keys.ValidateAddress(address); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	balance, err := tezos.GetBalance(r.Context(), h.balances, h.rates, address, h.currency, h.logger)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

// GetAccount handles GET /tezos/account
// @Summary      Get account state
// @Description  Gets balance, manager, delegate and counter of an address (the loaded wallet by default)
// @Tags         tezos
// @Produce      json
// @Param        address  query     string  false  "tz1 or KT1 address"
// @Success      200      {object}  pipeline.Result
// @Router       /tezos/account [get]
func (h *TezosHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	h.writeResult(w, "account", h.pipeline.Account(r.Context(), h.addressParam(r)))
}

// Activate handles POST /tezos/activate
// @Summary      Activate fundraiser account
// @Description  Forges and injects an activation operation. Activation needs no signature.
// @Tags         tezos
// @Accept       json
// @Produce      json
// @Param        request  body      model.ActivateRequest  true  "Address and activation secret"
// @Success      200      {object}  pipeline.Result
// @Router       /tezos/activate [post]
func (h *TezosHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req model.ActivateRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	h.writeResult(w, "activate", h.pipeline.Activate(r.Context(), req.Address, req.Secret))
}

// Transfer handles POST /tezos/transfer
// @Summary      Send tez
// @Description  Sends tez from the loaded wallet. In watch-only mode the unsigned operation is returned.
// @Tags         tezos
// @Accept       json
// @Produce      json
// @Param        request  body      model.TransferRequest  true  "Transfer data"
// @Success      200      {object}  pipeline.Result
// @Router       /tezos/transfer [post]
func (h *TezosHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req model.TransferRequest
	if !decodeRequest(w, r, &req) || !h.allowSubmission(w) {
		return
	}
	res := h.pipeline.Transfer(r.Context(), h.wallet.Address, req.ToAddress, req.Amount, req.Fee, h.wallet)
	h.writeResult(w, "transfer", res)
}

// Delegate handles POST /tezos/delegate
// @Summary      Set delegate
// @Description  Delegates the loaded wallet. In watch-only mode the unsigned operation is returned.
// @Tags         tezos
// @Accept       json
// @Produce      json
// @Param        request  body      model.DelegateRequest  true  "Delegation data"
// @Success      200      {object}  pipeline.Result
// @Router       /tezos/delegate [post]
func (h *TezosHandler) Delegate(w http.ResponseWriter, r *http.Request) {
	var req model.DelegateRequest
	if !decodeRequest(w, r, &req) || !h.allowSubmission(w) {
		return
	}
	res := h.pipeline.Delegate(r.Context(), h.wallet.Address, req.Delegate, req.Fee, h.wallet)
	h.writeResult(w, "delegate", res)
}

// Originate handles POST /tezos/originate
// @Summary      Originate account
// @Description  Creates a new account managed by the loaded wallet. The new address is returned once applied.
// @Tags         tezos
// @Accept       json
// @Produce      json
// @Param        request  body      model.OriginateRequest  true  "Origination data"
// @Success      200      {object}  pipeline.Result
// @Router       /tezos/originate [post]
func (h *TezosHandler) Originate(w http.ResponseWriter, r *http.Request) {
	var req model.OriginateRequest
	if !decodeRequest(w, r, &req) || !h.allowSubmission(w) {
		return
	}
	res := h.pipeline.Originate(r.Context(), h.wallet.Address, req.Balance, req.Fee, h.wallet)
	h.writeResult(w, "originate", res)
}

// Broadcast handles POST /tezos/broadcast
// @Summary      Broadcast signed operation
// @Description  Injects operation bytes signed elsewhere
// @Tags         tezos
// @Accept       json
// @Produce      json
// @Param        request  body      model.BroadcastRequest  true  "Signed operation hex"
// @Success      200      {object}  pipeline.Result
// @Router       /tezos/broadcast [post]
func (h *TezosHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req model.BroadcastRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	h.writeResult(w, "broadcast", h.pipeline.Broadcast(r.Context(), req.SignedOperation))
}

func (h *TezosHandler) addressParam(r *http.Request) string {
	if address := r.URL.Query().Get("address"); address != "" {
		return address
	}
	return h.wallet.Address
}

// allowSubmission enforces the cooldown between signed submissions.
// Watch-only submissions are never limited.
func (h *TezosHandler) allowSubmission(w http.ResponseWriter) bool {
	if h.cooldown == nil || !h.wallet.CanSign() {
		return true
	}
	if !h.cooldown.Allow() {
		writeJSON(w, http.StatusTooManyRequests, model.ErrorResponse{
			Error: "submission cooldown active, try again later",
			Code:  "cooldown",
		})
		return false
	}
	return true
}

// writeResult writes the pipeline envelope with a status derived from the failure kind
func (h *TezosHandler) writeResult(w http.ResponseWriter, op string, res pipeline.Result) {
	status := http.StatusOK
	if fp, ok := res.Payload.(*pipeline.FailurePayload); ok && !res.Success {
		status = statusForKind(fp.Kind)
		h.logger.Sugar().Warnw("Operation failed", "operation", op, "kind", fp.Kind, "state", fp.State, "error", fp.Msg)
	} else {
		h.logger.Sugar().Infow("Operation succeeded", "operation", op)
	}
	writeJSON(w, status, res)
}

func statusForKind(kind pipeline.ErrorKind) int {
	switch kind {
	case pipeline.ErrorKindChecksum, pipeline.ErrorKindDecode, pipeline.ErrorKindValidation:
		return http.StatusBadRequest
	case pipeline.ErrorKindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
