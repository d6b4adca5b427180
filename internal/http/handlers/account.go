package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/bankadmin/internal/domain"
	"github.com/yungbote/bankadmin/internal/http/response"
	"github.com/yungbote/bankadmin/internal/http/web"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/services"
)

const (
	TabTransactions = "transactions"
	TabLogs         = "logs"
	TabHistory      = "history"
)

var errAccountNotFound = errors.New("account not found")

type AccountData struct {
	View    services.DetailsView
	Tab     string
	Actions []domain.AccountAction
}

type AccountHandler struct {
	*Pages
	accounts     services.AccountService
	transactions services.TransactionService
}

func NewAccountHandler(pages *Pages, accounts services.AccountService, transactions services.TransactionService) *AccountHandler {
	return &AccountHandler{Pages: pages, accounts: accounts, transactions: transactions}
}

func normalizeTab(raw string) string {
	switch raw {
	case TabLogs, TabHistory:
		return raw
	default:
		return TabTransactions
	}
}

// availableActions lists the lifecycle transitions offered for a status.
func availableActions(status string) []domain.AccountAction {
	switch domain.StatusTone(status) {
	case "green":
		return []domain.AccountAction{domain.ActionSuspend, domain.ActionClose}
	case "yellow":
		return []domain.AccountAction{domain.ActionActivate, domain.ActionClose}
	default:
		return []domain.AccountAction{domain.ActionActivate}
	}
}

func (h *AccountHandler) Show(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.renderError(c, http.StatusNotFound, "Account not found", errAccountNotFound)
		return
	}
	view, err := h.accounts.Details(c.Request.Context(), token(c), id)
	if err != nil {
		_ = c.Error(err)
		if h.expired(c, err) {
			return
		}
		if apierr.StatusOf(err) == http.StatusNotFound {
			h.renderError(c, http.StatusNotFound, "Account not found", err)
			return
		}
		h.renderError(c, pageStatus(err), "Account unavailable", err)
		return
	}
	data := AccountData{
		View:    view,
		Tab:     normalizeTab(c.Query("tab")),
		Actions: availableActions(view.Account.Status),
	}
	h.render(c, http.StatusOK, web.PageAccount, h.page(c, view.Account.HolderName(), web.NavDashboard, data))
}

func (h *AccountHandler) Action(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.failAndRedirect(c, "/dashboard", apierr.New(http.StatusNotFound, "invalid_account", errAccountNotFound))
		return
	}
	action, err := h.accounts.ApplyAction(c.Request.Context(), token(c), id, c.Param("action"))
	if err != nil {
		h.failAndRedirect(c, "/dashboard", err)
		return
	}
	response.Success(c, fmt.Sprintf("Account %s successfully!", action.PastTense()))
	response.SeeOther(c, "/dashboard")
}

func (h *AccountHandler) PostTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.failAndRedirect(c, "/dashboard", apierr.New(http.StatusNotFound, "invalid_account", errAccountNotFound))
		return
	}
	back := "/accounts/" + id.String() + "?tab=" + TabTransactions
	posted, err := h.transactions.Post(c.Request.Context(), token(c), id, services.TransactionForm{
		Kind:        c.PostForm("type"),
		Amount:      c.PostForm("amount"),
		Description: c.PostForm("description"),
	})
	if err != nil {
		h.failAndRedirect(c, back, err)
		return
	}
	response.Success(c, fmt.Sprintf("%s transaction of %s processed successfully!", posted.Kind, domain.FormatMoney(posted.Amount, domain.DefaultCurrency)))
	response.SeeOther(c, back)
}
