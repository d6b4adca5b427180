package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bankadmin/internal/http/response"
	"github.com/yungbote/bankadmin/internal/http/web"
	"github.com/yungbote/bankadmin/internal/observability"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/session"
)

type LoginData struct {
	Email string
}

type AuthHandler struct {
	*Pages
	metrics *observability.Metrics
}

func NewAuthHandler(pages *Pages, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{Pages: pages, metrics: metrics}
}

// Index sends operators to the dashboard and everyone else to login.
func (h *AuthHandler) Index(c *gin.Context) {
	if session.FromContext(c.Request.Context()) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	if session.FromContext(c.Request.Context()) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, web.PageLogin, h.page(c, "Sign in", "", LoginData{}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	sess, cookie, err := h.manager.Login(c.Request.Context(), email, password)
	if err != nil {
		_ = c.Error(err)
		status := apierr.StatusOf(err)
		switch {
		case status == http.StatusBadRequest || status == http.StatusUnauthorized:
			h.metrics.IncLogin("rejected")
		default:
			h.metrics.IncLogin("error")
			status = http.StatusBadGateway
		}
		pg := h.page(c, "Sign in", "", LoginData{Email: email})
		pg.Error = err.Error()
		h.render(c, status, web.PageLogin, pg)
		return
	}

	h.metrics.IncLogin("ok")
	h.cookie.Set(c, cookie, h.manager.TTL())
	h.log.Info("login", "user_id", sess.Profile.UserID.String())
	response.SeeOther(c, "/dashboard")
}

// Throttled answers a login attempt that exceeded the per-client budget.
func (h *AuthHandler) Throttled(c *gin.Context) {
	h.metrics.IncLogin("throttled")
	pg := h.page(c, "Sign in", "", LoginData{Email: strings.TrimSpace(c.PostForm("email"))})
	pg.Error = "Too many sign-in attempts. Please wait a minute and try again."
	h.render(c, http.StatusTooManyRequests, web.PageLogin, pg)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.manager.Logout(c.Request.Context(), session.FromContext(c.Request.Context())); err != nil {
		h.log.Warn("logout failed", "error", err)
	}
	h.cookie.Clear(c)
	response.SeeOther(c, "/login")
}
