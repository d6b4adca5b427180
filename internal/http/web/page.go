package web

import (
	"github.com/yungbote/bankadmin/internal/session"
)

// Nav entries of the sidebar.
const (
	NavDashboard     = "dashboard"
	NavCreateAccount = "create-account"
	NavInterestRate  = "interest-rate"
)

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (f *Flash) IsError() bool { return f != nil && f.Kind == FlashError }

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Page is the data every template receives. Data carries the page's own view.
type Page struct {
	Title   string
	Nav     string
	Profile *session.Profile
	CSRF    string
	Flash   *Flash
	Error   string
	Data    any
}

func (p Page) Authenticated() bool { return p.Profile != nil }
