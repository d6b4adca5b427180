package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/bankadmin/internal/domain"
)

type fakeBank struct {
	mu    sync.Mutex
	calls []string

	accounts     []domain.Account
	stats        domain.AccountStats
	account      domain.Account
	balance      domain.Balance
	transactions []domain.Transaction
	logs         []domain.AuditLog
	history      []domain.StatusChange
	createdUser  domain.CreatedUser
	profile      domain.Profile
	receipt      domain.TransactionReceipt
	rate         domain.InterestRate

	errs map[string]error

	lastUser   domain.CreateUserRequest
	lastOpen   domain.CreateAccountRequest
	lastAction domain.AccountAction
	lastTx     domain.TransactionRequest
	lastCreate domain.CreateInterestRateRequest
	lastRate   domain.UpdateInterestRateRequest
	lastFreq   domain.UpdateFrequencyRequest
}

func (f *fakeBank) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeBank) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (f *fakeBank) ListAccounts(ctx context.Context, token string) ([]domain.Account, error) {
	return f.accounts, f.record("ListAccounts")
}

func (f *fakeBank) AccountStats(ctx context.Context, token string) (domain.AccountStats, error) {
	return f.stats, f.record("AccountStats")
}

func (f *fakeBank) GetAccount(ctx context.Context, token string, id uuid.UUID) (domain.Account, error) {
	return f.account, f.record("GetAccount")
}

func (f *fakeBank) AccountBalance(ctx context.Context, token string, id uuid.UUID) (domain.Balance, error) {
	return f.balance, f.record("AccountBalance")
}

func (f *fakeBank) AccountTransactions(ctx context.Context, token string, id uuid.UUID) ([]domain.Transaction, error) {
	return f.transactions, f.record("AccountTransactions")
}

func (f *fakeBank) AccountAuditLogs(ctx context.Context, token string, id uuid.UUID) ([]domain.AuditLog, error) {
	return f.logs, f.record("AccountAuditLogs")
}

func (f *fakeBank) AccountStatusHistory(ctx context.Context, token string, id uuid.UUID) ([]domain.StatusChange, error) {
	return f.history, f.record("AccountStatusHistory")
}

func (f *fakeBank) ChangeAccountStatus(ctx context.Context, token string, id uuid.UUID, action domain.AccountAction) error {
	f.lastAction = action
	return f.record("ChangeAccountStatus")
}

func (f *fakeBank) CreateUser(ctx context.Context, token string, req domain.CreateUserRequest) (domain.CreatedUser, error) {
	f.lastUser = req
	return f.createdUser, f.record("CreateUser")
}

func (f *fakeBank) CreateAccount(ctx context.Context, token string, req domain.CreateAccountRequest) (domain.Profile, error) {
	f.lastOpen = req
	return f.profile, f.record("CreateAccount")
}

func (f *fakeBank) PostTransaction(ctx context.Context, token string, req domain.TransactionRequest) (domain.TransactionReceipt, error) {
	f.lastTx = req
	return f.receipt, f.record("PostTransaction")
}

func (f *fakeBank) CurrentInterestRate(ctx context.Context, token string) (domain.InterestRate, error) {
	return f.rate, f.record("CurrentInterestRate")
}

func (f *fakeBank) CreateInterestRate(ctx context.Context, token string, req domain.CreateInterestRateRequest) (domain.InterestRateReceipt, error) {
	f.lastCreate = req
	return domain.InterestRateReceipt{InterestRateID: f.rate.ID}, f.record("CreateInterestRate")
}

func (f *fakeBank) UpdateInterestRate(ctx context.Context, token string, req domain.UpdateInterestRateRequest) (domain.InterestRateReceipt, error) {
	f.lastRate = req
	return domain.InterestRateReceipt{InterestRateID: f.rate.ID}, f.record("UpdateInterestRate")
}

func (f *fakeBank) UpdateCalculationFrequency(ctx context.Context, token string, req domain.UpdateFrequencyRequest) (domain.InterestRateReceipt, error) {
	f.lastFreq = req
	return domain.InterestRateReceipt{InterestRateID: f.rate.ID}, f.record("UpdateCalculationFrequency")
}
