package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/bankadmin/internal/domain"
	"github.com/yungbote/bankadmin/internal/http/middleware"
	"github.com/yungbote/bankadmin/internal/http/web"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/platform/logger"
	"github.com/yungbote/bankadmin/internal/services"
	"github.com/yungbote/bankadmin/internal/session"
)

type fakeAuth struct{ err error }

func (f fakeAuth) Authenticate(ctx context.Context, email, password string) (domain.AccessToken, error) {
	if f.err != nil {
		return domain.AccessToken{}, f.err
	}
	return domain.AccessToken{Token: "bank-token"}, nil
}

func (f fakeAuth) Me(ctx context.Context, token string) (domain.Profile, error) {
	return domain.Profile{UserID: uuid.New(), FirstName: "Ada", LastName: "Obi", Email: "ada@bank.test"}, nil
}

type fakeAccounts struct {
	dashboard    services.DashboardView
	dashboardErr error
	details      services.DetailsView
	detailsErr   error
	actionErr    error
	created      *domain.CustomerDraft
	createErr    error
}

func (f *fakeAccounts) Dashboard(ctx context.Context, token string) (services.DashboardView, error) {
	return f.dashboard, f.dashboardErr
}

func (f *fakeAccounts) Details(ctx context.Context, token string, id uuid.UUID) (services.DetailsView, error) {
	return f.details, f.detailsErr
}

func (f *fakeAccounts) ValidateUserStep(d domain.CustomerDraft) error {
	if d.FirstName == "" || d.Email == "" {
		return apierr.BadRequest("invalid_user", "first and last name are required")
	}
	return nil
}

func (f *fakeAccounts) CreateCustomer(ctx context.Context, token string, d domain.CustomerDraft) (domain.Profile, error) {
	if f.createErr != nil {
		return domain.Profile{}, f.createErr
	}
	f.created = &d
	return domain.Profile{}, nil
}

func (f *fakeAccounts) ApplyAction(ctx context.Context, token string, id uuid.UUID, raw string) (domain.AccountAction, error) {
	if f.actionErr != nil {
		return "", f.actionErr
	}
	a, ok := domain.ParseAccountAction(raw)
	if !ok {
		return "", apierr.BadRequest("invalid_action", "unknown account action")
	}
	return a, nil
}

type fakeTransactions struct{ form services.TransactionForm }

func (f *fakeTransactions) Post(ctx context.Context, token string, accountID uuid.UUID, form services.TransactionForm) (services.PostedTransaction, error) {
	f.form = form
	return services.PostedTransaction{Kind: domain.TransactionKind(form.Kind), Amount: 12.5}, nil
}

type fakeRates struct {
	current *domain.InterestRate
	op      string
}

func (f *fakeRates) Current(ctx context.Context, token string) (*domain.InterestRate, error) {
	return f.current, nil
}

func (f *fakeRates) Create(ctx context.Context, token, rate, frequency string) (domain.InterestRateReceipt, error) {
	f.op = "create:" + rate + ":" + frequency
	return domain.InterestRateReceipt{}, nil
}

func (f *fakeRates) UpdateRate(ctx context.Context, token, rate string) (domain.InterestRateReceipt, error) {
	f.op = "rate:" + rate
	return domain.InterestRateReceipt{}, nil
}

func (f *fakeRates) UpdateFrequency(ctx context.Context, token, frequency string) (domain.InterestRateReceipt, error) {
	f.op = "frequency:" + frequency
	return domain.InterestRateReceipt{}, nil
}

type fixture struct {
	t        *testing.T
	r        *gin.Engine
	manager  *session.Manager
	accounts *fakeAccounts
	txs      *fakeTransactions
	rates    *fakeRates
	sess     *session.Session
	cookies  []*http.Cookie
}

func newFixture(t *testing.T, auth session.Authenticator) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	signer, err := session.NewSigner("0123456789abcdef0123456789abcdef", "")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	mgr, err := session.NewManager(log, session.NewMemoryStore(), signer, auth, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	cookie := middleware.SessionCookie{Name: "sid"}
	am := middleware.NewAuthMiddleware(log, mgr, cookie)
	pages := NewPages(log, mgr, cookie)
	f := &fixture{t: t, manager: mgr, accounts: &fakeAccounts{}, txs: &fakeTransactions{}, rates: &fakeRates{}}

	authH := NewAuthHandler(pages, nil)
	accountH := NewAccountHandler(pages, f.accounts, f.txs)
	createH := NewCreateAccountHandler(pages, f.accounts)
	rateH := NewInterestRateHandler(pages, f.rates)

	r := gin.New()
	r.HTMLRender = renderer
	g := r.Group("/", am.LoadSession())
	g.GET("/login", authH.LoginPage)
	g.POST("/login", authH.Login)
	p := g.Group("/", am.RequireSession(), am.RequireCSRF())
	p.POST("/logout", authH.Logout)
	p.GET("/dashboard", NewDashboardHandler(pages, f.accounts).Show)
	p.GET("/accounts/:id", accountH.Show)
	p.POST("/accounts/:id/actions/:action", accountH.Action)
	p.POST("/accounts/:id/transactions", accountH.PostTransaction)
	p.GET("/create-account", createH.Show)
	p.POST("/create-account", createH.Submit)
	p.GET("/interest-rate", rateH.Show)
	p.POST("/interest-rate", rateH.Submit)
	f.r = r
	return f
}

// login signs in through the real handler and keeps the session cookie.
func (f *fixture) login() {
	f.t.Helper()
	rec := f.do(http.MethodPost, "/login", url.Values{"email": {"ada@bank.test"}, "password": {"pw"}})
	if rec.Code != http.StatusSeeOther {
		f.t.Fatalf("login: want=303 got=%d body=%s", rec.Code, rec.Body.String())
	}
	raw := ""
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			raw = c.Value
		}
	}
	sess, err := f.manager.Resolve(context.Background(), raw)
	if err != nil {
		f.t.Fatalf("resolve login cookie: %v", err)
	}
	f.sess = sess
}

func (f *fixture) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	f.t.Helper()
	var body *strings.Reader
	if form != nil {
		if f.sess != nil && form.Get(middleware.CSRFField) == "" {
			form.Set(middleware.CSRFField, f.sess.CSRFToken)
		}
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range f.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.r.ServeHTTP(rec, req)
	f.absorb(rec)
	return rec
}

// absorb applies Set-Cookie headers the way a browser would.
func (f *fixture) absorb(rec *httptest.ResponseRecorder) {
	for _, set := range rec.Result().Cookies() {
		kept := f.cookies[:0]
		for _, c := range f.cookies {
			if c.Name != set.Name {
				kept = append(kept, c)
			}
		}
		f.cookies = kept
		if set.MaxAge >= 0 && set.Value != "" {
			f.cookies = append(f.cookies, &http.Cookie{Name: set.Name, Value: set.Value})
		}
	}
}

func TestLoginFailureShowsUpstreamMessage(t *testing.T) {
	f := newFixture(t, fakeAuth{err: apierr.New(http.StatusUnauthorized, "upstream_error", errors.New("invalid credentials"))})
	rec := f.do(http.MethodPost, "/login", url.Values{"email": {"ada@bank.test"}, "password": {"bad"}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "invalid credentials") || !strings.Contains(body, `value="ada@bank.test"`) {
		t.Fatalf("body missing error or email: %s", body)
	}
}

func TestLoginThenDashboard(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.accounts.dashboard = services.DashboardView{
		Accounts: []domain.Account{{AccountID: uuid.New(), AccountNumber: "0012345678", FirstName: "Grace", LastName: "Hopper", Status: "SUSPENDED", Balance: domain.Money{Amount: 1234.5}, Currency: "GBP"}},
		Stats:    domain.AccountStats{Total: 1, Suspended: 1, TotalUsers: 1},
	}
	f.login()

	rec := f.do(http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Grace Hopper", "£1,234.50", "badge-yellow", "Ada Obi", f.sess.CSRFToken} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q", want)
		}
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("cache-control: want=no-store got=%q", got)
	}
}

func TestDashboardWithoutAccounts(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.accounts.dashboard = services.DashboardView{Accounts: []domain.Account{}}
	f.login()

	rec := f.do(http.MethodGet, "/dashboard", nil)
	if !strings.Contains(rec.Body.String(), "No accounts found") {
		t.Fatalf("want empty state row")
	}
}

func TestUpstreamUnauthorizedEndsSession(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.login()
	f.accounts.dashboardErr = apierr.New(http.StatusUnauthorized, "upstream_error", errors.New("token expired"))

	rec := f.do(http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("want redirect to /login got=%d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = f.do(http.MethodGet, "/login", nil)
	if !strings.Contains(rec.Body.String(), "Your session has expired") {
		t.Fatalf("login page missing expiry flash")
	}
	rec = f.do(http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("session survived upstream 401: status=%d", rec.Code)
	}
}

func TestDashboardUpstreamErrorRendersMessage(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.login()
	f.accounts.dashboardErr = apierr.New(http.StatusInternalServerError, "upstream_error", errors.New("database unavailable"))

	rec := f.do(http.MethodGet, "/dashboard", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: want=502 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "database unavailable") {
		t.Fatalf("missing upstream message")
	}
}

func TestAccountActionFlashesAndRedirects(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.accounts.dashboard = services.DashboardView{Accounts: []domain.Account{}}
	f.login()

	rec := f.do(http.MethodPost, "/accounts/"+uuid.NewString()+"/actions/suspend", url.Values{})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("want 303 /dashboard got=%d %q", rec.Code, rec.Header().Get("Location"))
	}
	rec = f.do(http.MethodGet, "/dashboard", nil)
	if !strings.Contains(rec.Body.String(), "Account suspended successfully!") {
		t.Fatalf("dashboard missing success flash")
	}
}

func TestAccountActionRequiresCSRF(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.login()
	rec := f.do(http.MethodPost, "/accounts/"+uuid.NewString()+"/actions/close", url.Values{middleware.CSRFField: {"forged"}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: want=403 got=%d", rec.Code)
	}
}

func TestPostTransactionFlash(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	id := uuid.New()
	f.accounts.details = services.DetailsView{Account: domain.Account{AccountID: id, Status: "ACTIVE"}}
	f.login()

	rec := f.do(http.MethodPost, "/accounts/"+id.String()+"/transactions", url.Values{"type": {"credit"}, "amount": {"12.50"}, "description": {"refund"}})
	want := "/accounts/" + id.String() + "?tab=transactions"
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != want {
		t.Fatalf("want 303 %s got=%d %q", want, rec.Code, rec.Header().Get("Location"))
	}
	if f.txs.form.Description != "refund" || f.txs.form.Amount != "12.50" {
		t.Fatalf("form: got=%+v", f.txs.form)
	}
	rec = f.do(http.MethodGet, want, nil)
	if !strings.Contains(rec.Body.String(), "credit transaction of £12.50 processed successfully!") {
		t.Fatalf("details missing transaction flash")
	}
}

func TestAccountDetailsTabs(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	id := uuid.New()
	other := uuid.New()
	f.accounts.details = services.DetailsView{
		Account:      domain.Account{AccountID: id, Status: "ACTIVE", FirstName: "Grace", LastName: "Hopper", Currency: "GBP"},
		Transactions: []domain.Transaction{{ToAccountID: id, FromAccountID: other, Amount: domain.Money{Amount: 10}, Description: "salary"}},
		Logs:         []domain.AuditLog{{ActionCode: domain.AuditAccountStatusChange, Action: "changed status", NewStatus: "ACTIVE"}},
		History:      []domain.StatusChange{},
	}
	f.login()

	rec := f.do(http.MethodGet, "/accounts/"+id.String(), nil)
	body := rec.Body.String()
	if rec.Code != http.StatusOK || !strings.Contains(body, "salary") || !strings.Contains(body, "amount credit") {
		t.Fatalf("transactions tab: status=%d", rec.Code)
	}
	if !strings.Contains(body, "/actions/suspend") || strings.Contains(body, "/actions/activate") {
		t.Fatalf("active account should offer suspend and not activate")
	}

	rec = f.do(http.MethodGet, "/accounts/"+id.String()+"?tab=logs", nil)
	if !strings.Contains(rec.Body.String(), "Activated account") {
		t.Fatalf("logs tab missing label")
	}
	rec = f.do(http.MethodGet, "/accounts/"+id.String()+"?tab=history", nil)
	if !strings.Contains(rec.Body.String(), "No status changes found") {
		t.Fatalf("history tab missing empty state")
	}
}

func TestAccountDetailsNotFound(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.login()

	if rec := f.do(http.MethodGet, "/accounts/not-a-uuid", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("bad id: want=404 got=%d", rec.Code)
	}
	f.accounts.detailsErr = apierr.New(http.StatusNotFound, "upstream_error", errors.New("account not found"))
	if rec := f.do(http.MethodGet, "/accounts/"+uuid.NewString(), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("upstream 404: want=404 got=%d", rec.Code)
	}
}

func TestCreateAccountWizard(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.accounts.dashboard = services.DashboardView{Accounts: []domain.Account{}}
	f.login()

	if rec := f.do(http.MethodGet, "/create-account?step=2", nil); rec.Code != http.StatusFound {
		t.Fatalf("step 2 without draft: want=302 got=%d", rec.Code)
	}

	rec := f.do(http.MethodPost, "/create-account?step=1", url.Values{
		"first_name": {"Grace"}, "last_name": {"Hopper"}, "email": {"grace@bank.test"}, "user_role": {"CUSTOMER"},
	})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/create-account?step=2" {
		t.Fatalf("step 1: want 303 step=2 got=%d %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = f.do(http.MethodGet, "/create-account?step=2", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "grace@bank.test") {
		t.Fatalf("step 2 page: status=%d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/create-account?step=2", url.Values{"password": {"cobol"}, "account_type": {"Current"}, "initial_deposit": {"250"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("step 2: want 303 /dashboard got=%d", rec.Code)
	}
	if f.accounts.created == nil || f.accounts.created.Password != "cobol" || f.accounts.created.InitialDeposit != 250 {
		t.Fatalf("created draft: got=%+v", f.accounts.created)
	}
	rec = f.do(http.MethodGet, "/dashboard", nil)
	if !strings.Contains(rec.Body.String(), "Account created successfully!") {
		t.Fatalf("dashboard missing creation flash")
	}
	sess, err := f.manager.Resolve(context.Background(), f.cookieValue("sid"))
	if err != nil || sess.Draft != nil {
		t.Fatalf("draft not cleared: sess=%+v err=%v", sess, err)
	}
}

func TestCreateAccountKeepsDraftOnFailure(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.login()
	f.do(http.MethodPost, "/create-account?step=1", url.Values{
		"first_name": {"Grace"}, "last_name": {"Hopper"}, "email": {"grace@bank.test"},
	})
	f.accounts.createErr = apierr.New(http.StatusConflict, "upstream_error", errors.New("email already exists"))

	rec := f.do(http.MethodPost, "/create-account?step=2", url.Values{"password": {"cobol"}, "account_type": {"Current"}, "initial_deposit": {"10"}})
	if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "email already exists") {
		t.Fatalf("want 409 with message got=%d", rec.Code)
	}
	sess, _ := f.manager.Resolve(context.Background(), f.cookieValue("sid"))
	if sess == nil || sess.Draft == nil || sess.Draft.InitialDeposit != 10 {
		t.Fatalf("draft lost after failure: %+v", sess)
	}
	if sess.Draft.Password != "" {
		t.Fatalf("password kept in session draft")
	}
}

func TestCreateAccountRejectsNonFiniteDeposit(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.login()
	f.do(http.MethodPost, "/create-account?step=1", url.Values{
		"first_name": {"Grace"}, "last_name": {"Hopper"}, "email": {"grace@bank.test"},
	})

	for _, raw := range []string{"NaN", "Inf", "-Inf", "ten"} {
		rec := f.do(http.MethodPost, "/create-account?step=2", url.Values{"password": {"cobol"}, "account_type": {"Current"}, "initial_deposit": {raw}})
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "initial deposit must be a number") {
			t.Fatalf("deposit %q: want 400 got=%d", raw, rec.Code)
		}
	}
	if f.accounts.created != nil {
		t.Fatalf("customer created with invalid deposit: %+v", f.accounts.created)
	}
}

func TestInterestRatePage(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.login()

	rec := f.do(http.MethodGet, "/interest-rate", nil)
	if !strings.Contains(rec.Body.String(), "No interest rate configured") {
		t.Fatalf("missing create form")
	}

	rec = f.do(http.MethodPost, "/interest-rate", url.Values{"op": {"create"}, "rate": {"3.25"}, "calculation_frequency": {"monthly"}})
	if rec.Code != http.StatusSeeOther || f.rates.op != "create:3.25:monthly" {
		t.Fatalf("create: status=%d op=%q", rec.Code, f.rates.op)
	}

	f.rates.current = &domain.InterestRate{Rate: 325, CalculationFrequency: domain.Monthly}
	rec = f.do(http.MethodGet, "/interest-rate", nil)
	body := rec.Body.String()
	if !strings.Contains(body, "3.25%") || !strings.Contains(body, "Interest rate created successfully!") {
		t.Fatalf("rate page missing rate or flash")
	}

	rec = f.do(http.MethodPost, "/interest-rate", url.Values{"op": {"bogus"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("bogus op: want=303 got=%d", rec.Code)
	}
	rec = f.do(http.MethodGet, "/interest-rate", nil)
	if !strings.Contains(rec.Body.String(), "unknown interest rate operation") {
		t.Fatalf("missing error flash")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	f := newFixture(t, fakeAuth{})
	f.login()
	raw := f.cookieValue("sid")

	rec := f.do(http.MethodPost, "/logout", url.Values{})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("logout: got=%d %q", rec.Code, rec.Header().Get("Location"))
	}
	if _, err := f.manager.Resolve(context.Background(), raw); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("session still resolvable: %v", err)
	}
}

func (f *fixture) cookieValue(name string) string {
	for _, c := range f.cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
