package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/bankadmin/internal/domain"
	"github.com/yungbote/bankadmin/internal/observability"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/platform/logger"
)

type TransactionAPI interface {
	PostTransaction(ctx context.Context, token string, req domain.TransactionRequest) (domain.TransactionReceipt, error)
}

// TransactionForm is the raw input of the credit/debit form.
type TransactionForm struct {
	Kind        string
	Amount      string
	Description string
}

type PostedTransaction struct {
	Receipt domain.TransactionReceipt
	Kind    domain.TransactionKind
	Amount  float64
}

type TransactionService interface {
	Post(ctx context.Context, token string, accountID uuid.UUID, form TransactionForm) (PostedTransaction, error)
}

type transactionService struct {
	log     *logger.Logger
	api     TransactionAPI
	metrics *observability.Metrics
}

func NewTransactionService(log *logger.Logger, api TransactionAPI, metrics *observability.Metrics) TransactionService {
	return &transactionService{
		log:     log.With("service", "TransactionService"),
		api:     api,
		metrics: metrics,
	}
}

const minAmount = 0.01

func parseAmount(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	raw = strings.TrimPrefix(raw, "£")
	if raw == "" {
		return 0, apierr.BadRequest("invalid_amount", "amount is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apierr.BadRequest("invalid_amount", "amount must be a number")
	}
	v = math.Round(v*100) / 100
	if v < minAmount {
		return 0, apierr.BadRequest("invalid_amount", "amount must be at least 0.01")
	}
	return v, nil
}

func (s *transactionService) Post(ctx context.Context, token string, accountID uuid.UUID, form TransactionForm) (PostedTransaction, error) {
	kind, ok := domain.ParseTransactionKind(form.Kind)
	if !ok {
		return PostedTransaction{}, apierr.BadRequest("invalid_transaction", "transaction type must be credit or debit")
	}
	amount, err := parseAmount(form.Amount)
	if err != nil {
		return PostedTransaction{}, err
	}
	desc := strings.TrimSpace(form.Description)
	if desc == "" {
		return PostedTransaction{}, apierr.BadRequest("invalid_transaction", "description is required")
	}

	receipt, err := s.api.PostTransaction(ctx, token, domain.NewTransactionRequest(kind, accountID, amount, desc))
	if err != nil {
		s.metrics.IncTransaction(string(kind), "error")
		return PostedTransaction{}, err
	}
	s.metrics.IncTransaction(string(kind), "ok")
	s.log.Info("transaction posted", "account_id", accountID.String(), "kind", string(kind), "transaction_id", receipt.TransactionID.String())
	return PostedTransaction{Receipt: receipt, Kind: kind, Amount: amount}, nil
}
