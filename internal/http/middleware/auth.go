package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bankadmin/internal/http/response"
	"github.com/yungbote/bankadmin/internal/platform/ctxutil"
	"github.com/yungbote/bankadmin/internal/platform/logger"
	"github.com/yungbote/bankadmin/internal/session"
)

const (
	CSRFField  = "_csrf"
	CSRFHeader = "X-CSRF-Token"

	ginSessionKey = "session"
)

// SessionCookie describes the cookie that carries the signed session id.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (sc SessionCookie) Set(c *gin.Context, value string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (sc SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type AuthMiddleware struct {
	log     *logger.Logger
	manager *session.Manager
	cookie  SessionCookie
}

func NewAuthMiddleware(log *logger.Logger, manager *session.Manager, cookie SessionCookie) *AuthMiddleware {
	if cookie.Name == "" {
		cookie.Name = "bankadmin_session"
	}
	return &AuthMiddleware{log: log.With("Middleware", "AuthMiddleware"), manager: manager, cookie: cookie}
}

func (am *AuthMiddleware) Cookie() SessionCookie { return am.cookie }

// LoadSession attaches the session named by the cookie, if any. It never
// rejects a request; stale cookies are cleared.
func (am *AuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(am.cookie.Name)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		sess, err := am.manager.Resolve(c.Request.Context(), raw)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) && !errors.Is(err, session.ErrInvalidCookie) {
				am.log.Warn("session lookup failed", "error", err)
			}
			am.cookie.Clear(c)
			c.Next()
			return
		}
		ctx := session.WithSession(c.Request.Context(), sess)
		ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
			UserID:    sess.Profile.UserID.String(),
			SessionID: sess.ID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginSessionKey, sess)
		c.Next()
	}
}

// RequireSession sends anonymous callers to the login page.
func (am *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session.FromContext(c.Request.Context()) != nil {
			c.Next()
			return
		}
		if response.WantsJSON(c) {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("sign in required"))
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

// RequireCSRF checks the session's token on state-changing requests.
func (am *AuthMiddleware) RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		token := c.GetHeader(CSRFHeader)
		if token == "" {
			token = c.PostForm(CSRFField)
		}
		if !session.FromContext(c.Request.Context()).CheckCSRF(token) {
			am.log.Warn("csrf token mismatch", "path", c.FullPath())
			response.AbortError(c, http.StatusForbidden, "invalid_csrf", errors.New("invalid or missing CSRF token"))
			return
		}
		c.Next()
	}
}
