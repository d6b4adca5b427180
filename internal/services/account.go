package services

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/bankadmin/internal/domain"
	"github.com/yungbote/bankadmin/internal/observability"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/platform/logger"
)

// AccountAPI is the part of the banking API the account pages use.
type AccountAPI interface {
	ListAccounts(ctx context.Context, token string) ([]domain.Account, error)
	AccountStats(ctx context.Context, token string) (domain.AccountStats, error)
	GetAccount(ctx context.Context, token string, id uuid.UUID) (domain.Account, error)
	AccountBalance(ctx context.Context, token string, id uuid.UUID) (domain.Balance, error)
	AccountTransactions(ctx context.Context, token string, id uuid.UUID) ([]domain.Transaction, error)
	AccountAuditLogs(ctx context.Context, token string, id uuid.UUID) ([]domain.AuditLog, error)
	AccountStatusHistory(ctx context.Context, token string, id uuid.UUID) ([]domain.StatusChange, error)
	ChangeAccountStatus(ctx context.Context, token string, id uuid.UUID, action domain.AccountAction) error
	CreateUser(ctx context.Context, token string, req domain.CreateUserRequest) (domain.CreatedUser, error)
	CreateAccount(ctx context.Context, token string, req domain.CreateAccountRequest) (domain.Profile, error)
}

type DashboardView struct {
	Accounts []domain.Account
	Stats    domain.AccountStats
}

// DetailsView is everything the account page shows. Only Account is
// guaranteed; the rest is best effort.
type DetailsView struct {
	Account      domain.Account
	Balance      *domain.Balance
	Transactions []domain.Transaction
	Logs         []domain.AuditLog
	History      []domain.StatusChange
}

type AccountService interface {
	Dashboard(ctx context.Context, token string) (DashboardView, error)
	Details(ctx context.Context, token string, id uuid.UUID) (DetailsView, error)
	ValidateUserStep(d domain.CustomerDraft) error
	CreateCustomer(ctx context.Context, token string, d domain.CustomerDraft) (domain.Profile, error)
	ApplyAction(ctx context.Context, token string, id uuid.UUID, raw string) (domain.AccountAction, error)
}

type accountService struct {
	log     *logger.Logger
	api     AccountAPI
	metrics *observability.Metrics
}

func NewAccountService(log *logger.Logger, api AccountAPI, metrics *observability.Metrics) AccountService {
	return &accountService{
		log:     log.With("service", "AccountService"),
		api:     api,
		metrics: metrics,
	}
}

func (s *accountService) Dashboard(ctx context.Context, token string) (DashboardView, error) {
	var view DashboardView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		accounts, err := s.api.ListAccounts(gctx, token)
		if err != nil {
			return err
		}
		view.Accounts = accounts
		return nil
	})
	g.Go(func() error {
		stats, err := s.api.AccountStats(gctx, token)
		if err != nil {
			return err
		}
		view.Stats = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardView{}, err
	}
	if view.Accounts == nil {
		view.Accounts = []domain.Account{}
	}
	return view, nil
}

func (s *accountService) Details(ctx context.Context, token string, id uuid.UUID) (DetailsView, error) {
	view := DetailsView{
		Transactions: []domain.Transaction{},
		Logs:         []domain.AuditLog{},
		History:      []domain.StatusChange{},
	}

	// The secondary loads never fail the group; only the account does.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		acct, err := s.api.GetAccount(gctx, token, id)
		if err != nil {
			return err
		}
		view.Account = acct
		return nil
	})
	g.Go(func() error {
		bal, err := s.api.AccountBalance(gctx, token, id)
		if err != nil {
			s.degraded(gctx, "balance", id, err)
			return nil
		}
		view.Balance = &bal
		return nil
	})
	g.Go(func() error {
		txs, err := s.api.AccountTransactions(gctx, token, id)
		if err != nil {
			s.degraded(gctx, "transactions", id, err)
			return nil
		}
		if txs != nil {
			view.Transactions = txs
		}
		return nil
	})
	g.Go(func() error {
		logs, err := s.api.AccountAuditLogs(gctx, token, id)
		if err != nil {
			s.degraded(gctx, "logs", id, err)
			return nil
		}
		if logs != nil {
			view.Logs = logs
		}
		return nil
	})
	g.Go(func() error {
		hist, err := s.api.AccountStatusHistory(gctx, token, id)
		if err != nil {
			s.degraded(gctx, "status_history", id, err)
			return nil
		}
		if hist != nil {
			view.History = hist
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return DetailsView{}, err
	}
	return view, nil
}

func (s *accountService) degraded(ctx context.Context, part string, id uuid.UUID, err error) {
	// A cancelled group means the account itself failed; that error wins.
	if ctx.Err() != nil {
		return
	}
	s.log.Warn("account details partially unavailable", "part", part, "account_id", id.String(), "error", err)
}

func (s *accountService) ValidateUserStep(d domain.CustomerDraft) error {
	if strings.TrimSpace(d.FirstName) == "" || strings.TrimSpace(d.LastName) == "" {
		return apierr.BadRequest("invalid_user", "first and last name are required")
	}
	email := strings.TrimSpace(d.Email)
	if email == "" {
		return apierr.BadRequest("invalid_user", "email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return apierr.BadRequest("invalid_user", "email is not a valid address")
	}
	if !contains(domain.Roles, d.UserRole) {
		return apierr.BadRequest("invalid_user", fmt.Sprintf("unknown user role %q", d.UserRole))
	}
	return nil
}

func validateAccountStep(d domain.CustomerDraft) error {
	if !contains(domain.AccountTypes, d.AccountType) {
		return apierr.BadRequest("invalid_account", fmt.Sprintf("unknown account type %q", d.AccountType))
	}
	if math.IsNaN(d.InitialDeposit) || math.IsInf(d.InitialDeposit, 0) {
		return apierr.BadRequest("invalid_account", "initial deposit must be a number")
	}
	if d.InitialDeposit < 0 {
		return apierr.BadRequest("invalid_account", "initial deposit cannot be negative")
	}
	return nil
}

// CreateCustomer registers the user and then opens their account. When the
// user cannot be created no account call is made.
func (s *accountService) CreateCustomer(ctx context.Context, token string, d domain.CustomerDraft) (domain.Profile, error) {
	if err := s.ValidateUserStep(d); err != nil {
		return domain.Profile{}, err
	}
	if d.Password == "" {
		return domain.Profile{}, apierr.BadRequest("invalid_user", "password is required")
	}
	if err := validateAccountStep(d); err != nil {
		return domain.Profile{}, err
	}

	user, err := s.api.CreateUser(ctx, token, domain.CreateUserRequest{
		FirstName: strings.TrimSpace(d.FirstName),
		LastName:  strings.TrimSpace(d.LastName),
		Password:  d.Password,
		Email:     strings.TrimSpace(d.Email),
		UserType:  d.UserRole,
	})
	if err != nil {
		return domain.Profile{}, err
	}
	if user.UserID == uuid.Nil {
		return domain.Profile{}, apierr.Newf(http.StatusBadGateway, "upstream_error", "user was created without an id")
	}

	prof, err := s.api.CreateAccount(ctx, token, domain.CreateAccountRequest{
		AccountType:    d.AccountType,
		InitialDeposit: d.InitialDeposit,
		Currency:       domain.DefaultCurrency,
		UserID:         user.UserID,
	})
	if err != nil {
		s.log.Warn("user created but account opening failed", "user_id", user.UserID.String(), "error", err)
		return domain.Profile{}, err
	}
	s.log.Info("customer account opened", "user_id", user.UserID.String(), "account_id", prof.AccountID.String())
	return prof, nil
}

func (s *accountService) ApplyAction(ctx context.Context, token string, id uuid.UUID, raw string) (domain.AccountAction, error) {
	action, ok := domain.ParseAccountAction(raw)
	if !ok {
		return "", apierr.BadRequest("invalid_action", fmt.Sprintf("unknown account action %q", raw))
	}
	if err := s.api.ChangeAccountStatus(ctx, token, id, action); err != nil {
		s.metrics.IncAccountAction(string(action), "error")
		return "", err
	}
	s.metrics.IncAccountAction(string(action), "ok")
	s.log.Info("account status changed", "account_id", id.String(), "action", string(action))
	return action, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
