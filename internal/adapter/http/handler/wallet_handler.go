package handler

import (
	"strings"

	"fx-payment-processor/internal/adapter/http/dto"
	"fx-payment-processor/internal/core/domain"
	"fx-payment-processor/internal/core/ports"
	"fx-payment-processor/pkg/apperror"
	"fx-payment-processor/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes the ledger's wallet operations over HTTP. It
// validates request shape only; domain rules (positivity, sufficiency,
// rate availability) belong to the ledger engine.
type WalletHandler struct {
	ledger ports.LedgerService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledger ports.LedgerService) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// Fund handles POST /api/v1/wallets/:user_id/fund.
func (h *WalletHandler) Fund(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledger.Fund(c.Request.Context(), ports.FundRequest{
		UserID:   userID,
		Currency: strings.ToUpper(req.Currency),
		Amount:   req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{Success: true, NewBalance: result.NewBalance})
}

// Withdraw handles POST /api/v1/wallets/:user_id/withdraw.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledger.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		UserID:   userID,
		Currency: strings.ToUpper(req.Currency),
		Amount:   req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{Success: true, NewBalance: result.NewBalance})
}

// Convert handles POST /api/v1/wallets/:user_id/convert.
func (h *WalletHandler) Convert(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.ledger.Convert(c.Request.Context(), ports.ConvertRequest{
		UserID:       userID,
		FromCurrency: strings.ToUpper(req.FromCurrency),
		ToCurrency:   strings.ToUpper(req.ToCurrency),
		Amount:       req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ConvertResponse{
		Success:         true,
		ConvertedAmount: result.ConvertedAmount,
		ExchangeRate:    result.ExchangeRate,
		FromBalance:     result.FromBalance,
		ToBalance:       result.ToBalance,
	})
}

// GetBalances handles GET /api/v1/wallets/:user_id/balances.
func (h *WalletHandler) GetBalances(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	balances, err := h.ledger.GetBalances(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalancesResponse{UserID: userID, Balances: balances})
}

// GetTransactions handles GET /api/v1/wallets/:user_id/transactions.
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	txs, err := h.ledger.GetTransactions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, toTransactionResponse(&txs[i]))
	}
	response.OK(c, dto.TransactionListResponse{UserID: userID, Transactions: items})
}

// Reconcile handles GET /api/v1/wallets/:user_id/reconcile.
func (h *WalletHandler) Reconcile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.ledger.Reconcile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ReconcileResponse{
		CurrentBalances:    result.CurrentBalances,
		CalculatedBalances: result.CalculatedBalances,
		Balanced:           result.Balanced,
	})
}

// requireUserID extracts and validates the user_id path parameter.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.Param("user_id")
	if !dto.ValidUserID(userID) {
		response.Error(c, apperror.Validation("user_id must be a non-empty safe identifier"))
		return "", false
	}
	return userID, true
}

func toTransactionResponse(tx *domain.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:           tx.ID,
		UserID:       tx.UserID,
		Type:         string(tx.Type),
		Currency:     tx.Currency,
		Amount:       tx.Amount,
		Timestamp:    tx.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		Description:  tx.Description,
		FromCurrency: tx.FromCurrency,
		ToCurrency:   tx.ToCurrency,
		ExchangeRate: tx.ExchangeRate,
	}
}
