package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TransactionKind string

const (
	KindCredit TransactionKind = "credit"
	KindDebit  TransactionKind = "debit"
)

func ParseTransactionKind(raw string) (TransactionKind, bool) {
	switch TransactionKind(strings.ToLower(strings.TrimSpace(raw))) {
	case KindCredit:
		return KindCredit, true
	case KindDebit:
		return KindDebit, true
	default:
		return "", false
	}
}

type Transaction struct {
	ID              uuid.UUID `json:"transaction_id"`
	FromAccountID   uuid.UUID `json:"from_account_id"`
	ToAccountID     uuid.UUID `json:"to_account_id"`
	Amount          Money     `json:"amount"`
	ReferenceNumber string    `json:"reference_number"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
	Currency        string    `json:"currency"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Direction reports how the transaction moved money for the given account:
// "credit" when the account received funds, "debit" when it paid, "" otherwise.
func (t Transaction) Direction(accountID uuid.UUID) TransactionKind {
	switch {
	case accountID == uuid.Nil:
		return ""
	case t.ToAccountID == accountID:
		return KindCredit
	case t.FromAccountID == accountID:
		return KindDebit
	default:
		return ""
	}
}

// TransactionRequest is the body of the credit and debit endpoints. Exactly
// one side is set: the receiving account for a credit, the paying account
// for a debit.
type TransactionRequest struct {
	FromAccountID *uuid.UUID      `json:"from_account_id"`
	ToAccountID   *uuid.UUID      `json:"to_account_id"`
	Amount        float64         `json:"amount"`
	Narration     string          `json:"narration"`
	Description   string          `json:"description"`
	Type          TransactionKind `json:"type"`
}

func NewTransactionRequest(kind TransactionKind, accountID uuid.UUID, amount float64, description string) TransactionRequest {
	id := accountID
	req := TransactionRequest{
		Amount:      amount,
		Narration:   description,
		Description: description,
		Type:        kind,
	}
	if kind == KindCredit {
		req.ToAccountID = &id
	} else {
		req.FromAccountID = &id
	}
	return req
}

type TransactionReceipt struct {
	TransactionID uuid.UUID `json:"transaction_id"`
}
