package bankapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/yungbote/bankadmin/internal/domain"
)

func accountPath(id uuid.UUID, suffix string) string {
	if suffix == "" {
		return "accounts/" + id.String()
	}
	return "accounts/" + id.String() + "/" + suffix
}

func accountEndpoint(suffix string) string {
	if suffix == "" {
		return "accounts/:id"
	}
	return "accounts/:id/" + suffix
}

func (c *Client) getAccountResource(ctx context.Context, token string, id uuid.UUID, suffix string, out any) error {
	_, err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     accountPath(id, suffix),
		endpoint: accountEndpoint(suffix),
		token:    token,
	}, out)
	return err
}

func (c *Client) CreateAccount(ctx context.Context, token string, req domain.CreateAccountRequest) (domain.Profile, error) {
	var p domain.Profile
	_, err := c.Post(ctx, "accounts", token, req, &p)
	return p, err
}

func (c *Client) ListAccounts(ctx context.Context, token string) ([]domain.Account, error) {
	accounts := []domain.Account{}
	if _, err := c.Get(ctx, "accounts", token, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (c *Client) AccountStats(ctx context.Context, token string) (domain.AccountStats, error) {
	var s domain.AccountStats
	_, err := c.Get(ctx, "accounts/stats", token, &s)
	return s, err
}

func (c *Client) GetAccount(ctx context.Context, token string, id uuid.UUID) (domain.Account, error) {
	var a domain.Account
	err := c.getAccountResource(ctx, token, id, "", &a)
	return a, err
}

// ChangeAccountStatus issues PATCH accounts/{id}/{activate|suspend|close}.
func (c *Client) ChangeAccountStatus(ctx context.Context, token string, id uuid.UUID, action domain.AccountAction) error {
	if _, ok := domain.ParseAccountAction(string(action)); !ok {
		return fmt.Errorf("unknown account action %q", action)
	}
	suffix := string(action)
	_, err := c.do(ctx, request{
		method:   http.MethodPatch,
		path:     accountPath(id, suffix),
		endpoint: accountEndpoint(suffix),
		token:    token,
	}, nil)
	return err
}

func (c *Client) AccountStatusHistory(ctx context.Context, token string, id uuid.UUID) ([]domain.StatusChange, error) {
	history := []domain.StatusChange{}
	if err := c.getAccountResource(ctx, token, id, "status-history", &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = []domain.StatusChange{}
	}
	return history, nil
}

func (c *Client) AccountBalance(ctx context.Context, token string, id uuid.UUID) (domain.Balance, error) {
	var b domain.Balance
	err := c.getAccountResource(ctx, token, id, "balance", &b)
	return b, err
}

func (c *Client) AccountTransactions(ctx context.Context, token string, id uuid.UUID) ([]domain.Transaction, error) {
	txs := []domain.Transaction{}
	if err := c.getAccountResource(ctx, token, id, "transactions", &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}

func (c *Client) AccountAuditLogs(ctx context.Context, token string, id uuid.UUID) ([]domain.AuditLog, error) {
	logs := []domain.AuditLog{}
	if err := c.getAccountResource(ctx, token, id, "logs", &logs); err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.AuditLog{}
	}
	return logs, nil
}
