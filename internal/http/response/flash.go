package response

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bankadmin/internal/http/web"
)

const (
	flashCookie = "bankadmin_flash"
	flashMaxAge = 60
)

// SetFlash queues a one-shot message for the next rendered page.
func SetFlash(c *gin.Context, kind, message string) {
	raw, err := json.Marshal(web.Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func Success(c *gin.Context, message string) { SetFlash(c, web.FlashSuccess, message) }

func Failure(c *gin.Context, message string) { SetFlash(c, web.FlashError, message) }

// TakeFlash returns the pending flash, if any, and clears it.
func TakeFlash(c *gin.Context) *web.Flash {
	v, err := c.Cookie(flashCookie)
	if err != nil || v == "" {
		return nil
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var f web.Flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	if f.Kind != web.FlashError {
		f.Kind = web.FlashSuccess
	}
	return &f
}

// SeeOther redirects after a form post.
func SeeOther(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}
