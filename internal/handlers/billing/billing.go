package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ecoprint/b2b-manager/internal/domain"
	"github.com/ecoprint/b2b-manager/internal/dto"
	"github.com/ecoprint/b2b-manager/pkg/utils"
	"github.com/ecoprint/b2b-manager/pkg/validate"
)

//go:generate mockgen -source=billing.go -destination=billing_mock.go -package=billing

type Service interface {
	GetBalance(ctx context.Context, userID string) (*domain.LedgerAccount, error)
	ListTransactions(ctx context.Context, userID string, txType domain.TransactionType, limit int) ([]domain.Transaction, error)
	TopUp(ctx context.Context, userID string, amount decimal.Decimal, method, reference string) error
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal, method, accountInfo string) error
}

type BillingHandler struct {
	billingService Service
}

func New(billingService Service) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
	}
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrInsufficientFunds):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// GetBalance godoc
//
//	@Summary	Get ledger account balance
//	@Tags		Billing
//	@Produce	json
//	@Param		userId	query		string	true	"User id"
//	@Success	200		{object}	dto.BalanceResponseDTO
//	@Failure	400		{object}	utils.Response	"Missing userId"
//	@Failure	404		{object}	utils.Response	"User not found"
//	@Failure	500		{object}	utils.Response	"Internal server error"
//	@Router		/billing/balance [get]
func (h *BillingHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userId is required")
		return
	}

	account, err := h.billingService.GetBalance(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Balance:      account.Balance.InexactFloat64(),
		Currency:     account.Currency,
		CreditScore:  account.CreditScore,
		CreditLimit:  account.CreditLimit.InexactFloat64(),
		PaymentTerms: account.PaymentTerms,
	})
}

// ListTransactions godoc
//
//	@Summary		List ledger transactions
//	@Description	Reverse-chronological transaction history, optionally filtered by type.
//	@Tags			Billing
//	@Produce		json
//	@Param			userId	query		string	true	"User id"
//	@Param			type	query		string	false	"topup|withdraw"
//	@Param			limit	query		int		false	"Max rows"
//	@Success		200		{array}		dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/billing/transactions [get]
func (h *BillingHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID := q.Get("userId")
	if userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userId is required")
		return
	}
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	txs, err := h.billingService.ListTransactions(r.Context(), userID, domain.TransactionType(q.Get("type")), limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := make([]dto.TransactionResponseDTO, len(txs))
	for i, tx := range txs {
		resp[i] = dto.TransactionResponseDTO{
			ID:          tx.ID,
			Type:        string(tx.Type),
			Amount:      tx.Amount.InexactFloat64(),
			Status:      tx.Status,
			Method:      tx.Method,
			Reference:   tx.Reference,
			AccountInfo: tx.AccountInfo,
			CreatedAt:   tx.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// TopUp godoc
//
//	@Summary		Top up a ledger account
//	@Description	Atomically credits the balance and appends a completed transaction record.
//	@Tags			Billing
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.TopUpRequestDTO	true	"Top-up payload"
//	@Success		201		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/billing/topup [post]
func (h *BillingHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req dto.TopUpRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.billingService.TopUp(r.Context(), req.UserID, decimal.NewFromFloat(req.Amount), req.PaymentMethod, req.Reference)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, "top-up successful")
}

// Withdraw godoc
//
//	@Summary		Request a withdrawal
//	@Description	Atomically debits the balance and appends a pending transaction awaiting manual confirmation.
//	@Tags			Billing
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body	dto.WithdrawRequestDTO	true	"Withdraw payload"
//	@Success		201		{object}	utils.Response
//	@Failure		400		{object}	utils.Response	"Insufficient funds or invalid payload"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		422		{object}	utils.Response	"Invalid account number"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/billing/withdraw [post]
func (h *BillingHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Card withdrawals carry a PAN; reject numbers that fail the Luhn check
	// before touching the ledger.
	if req.WithdrawMethod == "card" && !validate.IsLuhn(req.AccountInfo) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid account number")
		return
	}

	err := h.billingService.Withdraw(r.Context(), req.UserID, decimal.NewFromFloat(req.Amount), req.WithdrawMethod, req.AccountInfo)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, "withdrawal requested")
}
