package domain

import (
	"strings"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

var Roles = []string{RoleAdmin, RoleCustomer}

// Profile is the authenticated user as returned by the `me` endpoint.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	AccountID   uuid.UUID `json:"account_id"`
	AccountType string    `json:"account_type"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	UserType    string    `json:"user_type,omitempty"`
}

func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

type AccessToken struct {
	Token string `json:"token"`
}

type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	UserType  string `json:"user_type"`
}

type CreatedUser struct {
	UserID uuid.UUID `json:"user_id"`
}

type CreateAccountRequest struct {
	AccountType    string    `json:"account_type"`
	InitialDeposit float64   `json:"initial_deposit"`
	Currency       string    `json:"currency"`
	UserID         uuid.UUID `json:"user_id"`
}

// CustomerDraft is the create-account wizard input: the user to register and
// the account to open for them. Password is only ever held for the request
// that submits it and is never serialized.
type CustomerDraft struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Password       string  `json:"-"`
	UserRole       string  `json:"user_role"`
	AccountType    string  `json:"account_type"`
	InitialDeposit float64 `json:"initial_deposit"`
}

// NewCustomerDraft returns the wizard defaults.
func NewCustomerDraft() CustomerDraft {
	return CustomerDraft{UserRole: RoleCustomer, AccountType: AccountTypeCurrent}
}
