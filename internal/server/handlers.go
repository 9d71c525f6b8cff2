package server

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/amm"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/models"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/registry"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/storage"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Pools     storage.PoolStore     // Pool registry (read-only from here)
	Supply    storage.SupplyQuerier // LP token total supplies
	ConfigSrc storage.ConfigStore   // Contract config record
	Quotes    storage.QuoteStore    // Optional quote-history sink
	Sim       *amm.Simulator        // Pricing engine
	DevMode   bool                  // Enable detailed error responses in development
	Logger    *logrus.Logger        // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// simErr maps pricing and registry errors onto HTTP status codes. Arithmetic
// failures are the client's problem (the request cannot be priced), not ours.
func (h *Handlers) simErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, registry.ErrPoolNotFound):
		return h.err(c, http.StatusNotFound, "pool not found", map[string]any{"err": err.Error()})
	case errors.Is(err, amm.ErrAssetMismatch):
		return h.err(c, http.StatusBadRequest, "asset mismatch", map[string]any{"err": err.Error()})
	case errors.Is(err, amm.ErrNoSwapOperations):
		return h.err(c, http.StatusBadRequest, "no swap operations provided", nil)
	case errors.Is(err, amm.ErrOverflow),
		errors.Is(err, amm.ErrUnderflow),
		errors.Is(err, amm.ErrDivideByZero),
		errors.Is(err, amm.ErrInvalidFees),
		errors.Is(err, amm.ErrEmptyReserves),
		errors.Is(err, amm.ErrConvergence),
		errors.Is(err, amm.ErrInvalidAmp),
		errors.Is(err, amm.ErrPrecision):
		return h.err(c, http.StatusUnprocessableEntity, "simulation failed", map[string]any{"err": err.Error()})
	default:
		h.Logger.WithError(err).Error("simulation failed")
		return h.err(c, http.StatusInternalServerError, "simulation failed", nil)
	}
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// GetConfig returns the contract-wide config record
func (h *Handlers) GetConfig(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	cfg, err := h.ConfigSrc.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, registry.ErrConfigNotFound) {
			return h.err(c, http.StatusNotFound, "config not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get config", nil)
	}
	return c.JSON(http.StatusOK, cfg)
}

// AssetDecimals returns the declared decimals for one denom of a pool
// Fails with 400 if the denom is not part of the pool's asset list
func (h *Handlers) AssetDecimals(c echo.Context) error {
	poolID := c.Param("id")
	denom := strings.TrimSpace(c.Param("denom"))
	if denom == "" {
		return h.err(c, http.StatusBadRequest, "invalid denom", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	pool, err := h.Pools.GetPool(ctx, poolID)
	if err != nil {
		return h.simErr(c, err)
	}

	decimals, err := amm.AssetDecimals(pool, denom)
	if err != nil {
		return h.simErr(c, err)
	}
	return c.JSON(http.StatusOK, AssetDecimalsResponse{PoolID: poolID, Denom: denom, Decimals: decimals})
}

// Pools returns one page of the pool listing, each entry annotated with the
// total supply of its liquidity token
// Accepts pool_id (single lookup), start_after (cursor) and limit parameters
func (h *Handlers) Pools(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if poolID := strings.TrimSpace(c.QueryParam("pool_id")); poolID != "" {
		pool, err := h.Pools.GetPool(ctx, poolID)
		if err != nil {
			return h.simErr(c, err)
		}
		info, err := h.poolInfo(ctx, pool)
		if err != nil {
			return h.err(c, http.StatusInternalServerError, "failed to get pool", nil)
		}
		return c.JSON(http.StatusOK, PoolsResponse{Pools: []PoolInfoResponse{info}})
	}

	limit := 0
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be a positive integer"})
		}
		limit = n
	}

	pools, err := h.Pools.ListPools(ctx, strings.TrimSpace(c.QueryParam("start_after")), limit)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list pools", nil)
	}

	out := make([]PoolInfoResponse, 0, len(pools))
	for _, pool := range pools {
		info, err := h.poolInfo(ctx, pool)
		if err != nil {
			return h.err(c, http.StatusInternalServerError, "failed to list pools", nil)
		}
		out = append(out, info)
	}
	return c.JSON(http.StatusOK, PoolsResponse{Pools: out})
}

func (h *Handlers) poolInfo(ctx context.Context, pool *models.Pool) (PoolInfoResponse, error) {
	share, err := h.Supply.TotalSupply(ctx, pool.LPDenom)
	if err != nil {
		return PoolInfoResponse{}, err
	}
	return PoolInfoResponse{Pool: pool, TotalShare: share.String()}, nil
}

// Simulate prices a forward swap: how much of the ask asset an exact offer
// amount yields in the given pool
func (h *Handlers) Simulate(c echo.Context) error {
	var req SimulationRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if req.OfferAsset.Denom == "" || req.OfferAsset.Amount == nil {
		return h.err(c, http.StatusBadRequest, "invalid offer_asset", map[string]any{"offer_asset": "denom and amount required"})
	}
	if req.AskDenom == "" {
		return h.err(c, http.StatusBadRequest, "invalid ask_asset_denom", map[string]any{"ask_asset_denom": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pool, err := h.Pools.GetPool(ctx, req.PoolID)
	if err != nil {
		return h.simErr(c, err)
	}

	start := time.Now()
	res, err := h.Sim.Simulate(pool, req.OfferAsset, req.AskDenom)
	if err != nil {
		return h.simErr(c, err)
	}

	h.recordQuote(&models.QuoteRecord{
		Timestamp:  start.UTC(),
		PoolID:     req.PoolID,
		Direction:  "simulate",
		OfferDenom: req.OfferAsset.Denom,
		AskDenom:   req.AskDenom,
		AmountIn:   req.OfferAsset.Amount.String(),
		AmountOut:  res.ReturnAmount.String(),
		Spread:     res.SpreadAmount.String(),
		TotalFees:  totalFees(res.SwapFeeAmount, res.ProtocolFeeAmount, res.BurnFeeAmount, res.ExtraFeesAmount),
		TookMs:     time.Since(start).Milliseconds(),
	})

	return c.JSON(http.StatusOK, SimulationResponse{
		ReturnAmount:      res.ReturnAmount.String(),
		SpreadAmount:      res.SpreadAmount.String(),
		SwapFeeAmount:     res.SwapFeeAmount.String(),
		ProtocolFeeAmount: res.ProtocolFeeAmount.String(),
		BurnFeeAmount:     res.BurnFeeAmount.String(),
		ExtraFeesAmount:   res.ExtraFeesAmount.String(),
	})
}

// ReverseSimulate prices a reverse swap: the offer amount required to receive
// an exact ask amount from the given pool
func (h *Handlers) ReverseSimulate(c echo.Context) error {
	var req ReverseSimulationRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if req.AskAsset.Denom == "" || req.AskAsset.Amount == nil {
		return h.err(c, http.StatusBadRequest, "invalid ask_asset", map[string]any{"ask_asset": "denom and amount required"})
	}
	if req.OfferDenom == "" {
		return h.err(c, http.StatusBadRequest, "invalid offer_asset_denom", map[string]any{"offer_asset_denom": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pool, err := h.Pools.GetPool(ctx, req.PoolID)
	if err != nil {
		return h.simErr(c, err)
	}

	start := time.Now()
	res, err := h.Sim.ReverseSimulate(pool, req.AskAsset, req.OfferDenom)
	if err != nil {
		return h.simErr(c, err)
	}

	h.recordQuote(&models.QuoteRecord{
		Timestamp:  start.UTC(),
		PoolID:     req.PoolID,
		Direction:  "reverse_simulate",
		OfferDenom: req.OfferDenom,
		AskDenom:   req.AskAsset.Denom,
		AmountIn:   res.OfferAmount.String(),
		AmountOut:  req.AskAsset.Amount.String(),
		Spread:     res.SpreadAmount.String(),
		TotalFees:  totalFees(res.SwapFeeAmount, res.ProtocolFeeAmount, res.BurnFeeAmount),
		TookMs:     time.Since(start).Milliseconds(),
	})

	return c.JSON(http.StatusOK, ReverseSimulationResponse{
		OfferAmount:       res.OfferAmount.String(),
		SpreadAmount:      res.SpreadAmount.String(),
		SwapFeeAmount:     res.SwapFeeAmount.String(),
		ProtocolFeeAmount: res.ProtocolFeeAmount.String(),
		BurnFeeAmount:     res.BurnFeeAmount.String(),
	})
}

// SimulateChain folds an offer amount through an ordered list of swap
// operations and returns the final amount
func (h *Handlers) SimulateChain(c echo.Context) error {
	var req ChainSimulationRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	amount, err := models.ParseAmount(req.OfferAmount)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid offer_amount", map[string]any{"offer_amount": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	out, err := h.Sim.SimulateChain(ctx, h.Pools, amount, req.Operations)
	if err != nil {
		return h.simErr(c, err)
	}
	return c.JSON(http.StatusOK, ChainSimulationResponse{Amount: out.String()})
}

// ReverseSimulateChain walks the operations right to left from a desired ask
// amount and returns the initial amount the chain requires
func (h *Handlers) ReverseSimulateChain(c echo.Context) error {
	var req ReverseChainSimulationRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	amount, err := models.ParseAmount(req.AskAmount)
	if err != nil {
		return h.err(c, http.StatusBadRequest, "invalid ask_amount", map[string]any{"ask_amount": err.Error()})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	out, err := h.Sim.ReverseSimulateChain(ctx, h.Pools, amount, req.Operations)
	if err != nil {
		return h.simErr(c, err)
	}
	return c.JSON(http.StatusOK, ChainSimulationResponse{Amount: out.String()})
}

func totalFees(amounts ...*big.Int) string {
	total := new(big.Int)
	for _, a := range amounts {
		total.Add(total, a)
	}
	return total.String()
}

// recordQuote writes a quote record to the history sink in the background.
// History is best-effort and never delays or fails the response.
func (h *Handlers) recordQuote(quote *models.QuoteRecord) {
	if h.Quotes == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Quotes.InsertQuote(ctx, quote); err != nil {
			h.Logger.WithError(err).Warn("failed to record quote")
		}
	}()
}
