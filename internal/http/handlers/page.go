package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bankadmin/internal/http/middleware"
	"github.com/yungbote/bankadmin/internal/http/response"
	"github.com/yungbote/bankadmin/internal/http/web"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/platform/logger"
	"github.com/yungbote/bankadmin/internal/session"
)

const sessionExpiredMessage = "Your session has expired. Please sign in again."

// Pages is the state every page handler shares: the session manager for
// forced logouts and the cookie it must clear.
type Pages struct {
	log     *logger.Logger
	manager *session.Manager
	cookie  middleware.SessionCookie
}

func NewPages(log *logger.Logger, manager *session.Manager, cookie middleware.SessionCookie) *Pages {
	return &Pages{log: log.With("handler", "Pages"), manager: manager, cookie: cookie}
}

func (p *Pages) page(c *gin.Context, title, nav string, data any) web.Page {
	pg := web.Page{Title: title, Nav: nav, Flash: response.TakeFlash(c), Data: data}
	if sess := session.FromContext(c.Request.Context()); sess != nil {
		prof := sess.Profile
		pg.Profile = &prof
		pg.CSRF = sess.CSRFToken
	}
	return pg
}

// render writes a console page. Pages carry account data and the CSRF token,
// so browsers and proxies must not keep them after logout.
func (p *Pages) render(c *gin.Context, status int, name string, pg web.Page) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.HTML(status, name, pg)
}

func (p *Pages) renderError(c *gin.Context, status int, title string, err error) {
	pg := p.page(c, title, "", nil)
	if err != nil {
		pg.Error = err.Error()
	}
	p.render(c, status, web.PageError, pg)
}

// expired handles an upstream 401: the bearer token is no longer valid, so
// the session is dropped and the operator sent back to the login page.
func (p *Pages) expired(c *gin.Context, err error) bool {
	if !apierr.IsUnauthorized(err) {
		return false
	}
	if sess := session.FromContext(c.Request.Context()); sess != nil {
		if lerr := p.manager.Logout(c.Request.Context(), sess); lerr != nil {
			p.log.Warn("logout after upstream 401 failed", "error", lerr)
		}
	}
	p.cookie.Clear(c)
	response.Failure(c, sessionExpiredMessage)
	response.SeeOther(c, "/login")
	return true
}

// failAndRedirect reports err to the operator on the page at location.
func (p *Pages) failAndRedirect(c *gin.Context, location string, err error) {
	_ = c.Error(err)
	if p.expired(c, err) {
		return
	}
	response.Failure(c, err.Error())
	response.SeeOther(c, location)
}

// pageStatus is the status a page is rendered with after err: client
// mistakes keep their 4xx, anything upstream becomes a 502.
func pageStatus(err error) int {
	status := apierr.StatusOf(err)
	if status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}

func token(c *gin.Context) string {
	if sess := session.FromContext(c.Request.Context()); sess != nil {
		return sess.Profile.Token
	}
	return ""
}
