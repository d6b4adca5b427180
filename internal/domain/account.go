package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusClosed    = "CLOSED"
)

// Currency used for every account opened from the console.
const DefaultCurrency = "GBP"

const AccountTypeCurrent = "Current"

// AccountTypes lists the account types an operator can open.
var AccountTypes = []string{AccountTypeCurrent}

type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
}

type Account struct {
	AccountID     uuid.UUID `json:"account_id"`
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"account_type"`
	Balance       Money     `json:"balance"`
	Status        string    `json:"status"`
	Currency      string    `json:"currency"`
	UserID        uuid.UUID `json:"user_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HolderName is the display name of the account owner.
func (a Account) HolderName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return "Unknown User"
	}
	return name
}

type AccountStats struct {
	Closed     int64 `json:"closed"`
	Suspended  int64 `json:"suspended"`
	Total      int64 `json:"total"`
	TotalUsers int64 `json:"total_users"`
}

type Balance struct {
	AccountID     uuid.UUID `json:"account_id"`
	Balance       float64   `json:"balance"`
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"account_type"`
	Currency      string    `json:"currency"`
}

// StatusChange is one entry of an account's status history.
type StatusChange struct {
	AccountID uuid.UUID `json:"account_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	ChangedBy string    `json:"changed_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountAction is an account lifecycle transition an admin can request.
type AccountAction string

const (
	ActionActivate AccountAction = "activate"
	ActionSuspend  AccountAction = "suspend"
	ActionClose    AccountAction = "close"
)

func ParseAccountAction(raw string) (AccountAction, bool) {
	switch AccountAction(strings.ToLower(strings.TrimSpace(raw))) {
	case ActionActivate:
		return ActionActivate, true
	case ActionSuspend:
		return ActionSuspend, true
	case ActionClose:
		return ActionClose, true
	default:
		return "", false
	}
}

// PastTense is the wording used in confirmations ("Account suspended successfully!").
func (a AccountAction) PastTense() string {
	switch a {
	case ActionActivate:
		return "activated"
	case ActionSuspend:
		return "suspended"
	case ActionClose:
		return "closed"
	default:
		return string(a)
	}
}

// StatusTone maps an account status onto the badge colour used by the pages.
func StatusTone(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case StatusActive:
		return "green"
	case StatusSuspended:
		return "yellow"
	default:
		return "red"
	}
}
