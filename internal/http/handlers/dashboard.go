package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bankadmin/internal/domain"
	"github.com/yungbote/bankadmin/internal/http/web"
	"github.com/yungbote/bankadmin/internal/services"
)

type DashboardHandler struct {
	*Pages
	accounts services.AccountService
}

func NewDashboardHandler(pages *Pages, accounts services.AccountService) *DashboardHandler {
	return &DashboardHandler{Pages: pages, accounts: accounts}
}

func (h *DashboardHandler) Show(c *gin.Context) {
	view, err := h.accounts.Dashboard(c.Request.Context(), token(c))
	if err != nil {
		_ = c.Error(err)
		if h.expired(c, err) {
			return
		}
		pg := h.page(c, "Dashboard", web.NavDashboard, services.DashboardView{Accounts: []domain.Account{}})
		pg.Error = err.Error()
		h.render(c, pageStatus(err), web.PageDashboard, pg)
		return
	}
	h.render(c, http.StatusOK, web.PageDashboard, h.page(c, "Dashboard", web.NavDashboard, view))
}
