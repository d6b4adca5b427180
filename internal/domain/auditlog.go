package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuditCreateAccount       = "create_account"
	AuditAccountStatusChange = "account_status_change"
	AuditAccountCredit       = "account_credit"
	AuditAccountDebit        = "account_debit"
	AuditAccountTransfer     = "account_transfer"
	AuditInterestRateChange  = "interest_rate_change"
)

type AuditLog struct {
	AccountID     uuid.UUID `json:"account_id"`
	Action        string    `json:"action"`
	ActionCode    string    `json:"action_code"`
	ActionBy      string    `json:"action_by"`
	Amount        Money     `json:"amount"`
	CurrentStatus string    `json:"current_status"`
	NewStatus     string    `json:"new_status"`
	OldStatus     string    `json:"old_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Label is the headline shown for an audit entry.
func (l AuditLog) Label() string {
	if l.ActionCode == AuditAccountStatusChange && l.NewStatus == StatusActive {
		return "Activated account"
	}
	return l.Action
}

// HasAmount reports whether the entry records money movement.
func (l AuditLog) HasAmount() bool {
	return l.ActionCode == AuditAccountCredit || l.ActionCode == AuditAccountDebit
}
