// Package web holds the console's HTML templates and static assets and
// renders them through gin.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"

	"github.com/yungbote/bankadmin/internal/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages rendered by the console. Each is parsed together with the layout.
const (
	PageLogin         = "login"
	PageDashboard     = "dashboard"
	PageCreateAccount = "create_account"
	PageAccount       = "account"
	PageInterestRate  = "interest_rate"
	PageError         = "error"
)

var pages = []string{PageLogin, PageDashboard, PageCreateAccount, PageAccount, PageInterestRate, PageError}

// Renderer implements gin's render.HTMLRender with one template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(Funcs()).ParseFS(templateFS, "templates/layout.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = r.pages[PageError]
		data = Page{Title: "Error", Error: "page " + name + " does not exist"}
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

// Static serves the embedded stylesheet under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Funcs is the template helper set.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": domain.FormatMoney,
		"moneyOf": func(m domain.Money, fallback string) string {
			cur := m.Currency
			if cur == "" {
				cur = fallback
			}
			return domain.FormatMoney(m.Amount, cur)
		},
		"when": domain.FormatTime,
		"tone": domain.StatusTone,
		"direction": func(tx domain.Transaction, accountID uuid.UUID) string {
			return string(tx.Direction(accountID))
		},
		"percent": func(r domain.InterestRate) string {
			return fmt.Sprintf("%.2f%%", r.Percent())
		},
		"upper": strings.ToUpper,
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
		},
		"year": func() int { return time.Now().Year() },
	}
}
