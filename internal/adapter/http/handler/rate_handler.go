package handler

import (
	"fx-payment-processor/internal/adapter/http/dto"
	"fx-payment-processor/internal/core/domain"
	"fx-payment-processor/internal/core/ports"
	"fx-payment-processor/pkg/apperror"
	"fx-payment-processor/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RateHandler exposes the exchange-rate table. Reads are public; the
// merge endpoint sits behind the admin-key middleware.
type RateHandler struct {
	ledger ports.LedgerService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(ledger ports.LedgerService) *RateHandler {
	return &RateHandler{ledger: ledger}
}

// List handles GET /api/v1/rates.
func (h *RateHandler) List(c *gin.Context) {
	rates, err := h.ledger.ListRates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RatesResponse{Rates: rates})
}

// Update handles PUT /api/v1/rates. The body is a flat object keyed by
// "FROM_TO" pairs; entries merge into the live table, overwriting any
// existing rate for the same pair. The response echoes the full merged
// table.
func (h *RateHandler) Update(c *gin.Context) {
	var body map[string]decimal.Decimal
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if len(body) == 0 {
		response.Error(c, apperror.Validation("rate table update must not be empty"))
		return
	}

	updates := make(map[domain.RatePair]decimal.Decimal, len(body))
	for key, rate := range body {
		pair, err := domain.ParseRatePair(key)
		if err != nil {
			response.Error(c, apperror.Validation("invalid rate key "+key+": "+err.Error()))
			return
		}
		if !rate.IsPositive() {
			response.Error(c, apperror.Validation("rate for "+key+" must be positive"))
			return
		}
		updates[pair] = rate
	}

	if err := h.ledger.UpdateRates(c.Request.Context(), updates); err != nil {
		response.Error(c, err)
		return
	}

	merged, err := h.ledger.ListRates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RatesResponse{Rates: merged})
}
