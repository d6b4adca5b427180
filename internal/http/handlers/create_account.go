package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bankadmin/internal/domain"
	"github.com/yungbote/bankadmin/internal/http/response"
	"github.com/yungbote/bankadmin/internal/http/web"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/services"
	"github.com/yungbote/bankadmin/internal/session"
)

const createAccountPath = "/create-account"

type CreateAccountData struct {
	Step         int
	Draft        domain.CustomerDraft
	Roles        []string
	AccountTypes []string
}

// CreateAccountHandler drives the two-step wizard. The draft lives in the
// session between steps.
type CreateAccountHandler struct {
	*Pages
	accounts services.AccountService
}

func NewCreateAccountHandler(pages *Pages, accounts services.AccountService) *CreateAccountHandler {
	return &CreateAccountHandler{Pages: pages, accounts: accounts}
}

func currentDraft(sess *session.Session) domain.CustomerDraft {
	if sess != nil && sess.Draft != nil {
		return *sess.Draft
	}
	return domain.NewCustomerDraft()
}

func (h *CreateAccountHandler) show(c *gin.Context, status, step int, draft domain.CustomerDraft, err error) {
	pg := h.page(c, "Create Account", web.NavCreateAccount, CreateAccountData{
		Step:         step,
		Draft:        draft,
		Roles:        domain.Roles,
		AccountTypes: domain.AccountTypes,
	})
	if err != nil {
		pg.Error = err.Error()
	}
	h.render(c, status, web.PageCreateAccount, pg)
}

func (h *CreateAccountHandler) Show(c *gin.Context) {
	draft := currentDraft(session.FromContext(c.Request.Context()))
	if c.Query("step") == "2" {
		if h.accounts.ValidateUserStep(draft) != nil {
			c.Redirect(http.StatusFound, createAccountPath+"?step=1")
			return
		}
		h.show(c, http.StatusOK, 2, draft, nil)
		return
	}
	h.show(c, http.StatusOK, 1, draft, nil)
}

func (h *CreateAccountHandler) Submit(c *gin.Context) {
	if c.Query("step") == "2" {
		h.submitAccount(c)
		return
	}
	h.submitUser(c)
}

// saveDraft stores the wizard input in the session without the password.
func (h *CreateAccountHandler) saveDraft(c *gin.Context, draft *domain.CustomerDraft) error {
	sess := session.FromContext(c.Request.Context())
	sess.Draft = nil
	if draft != nil {
		kept := *draft
		kept.Password = ""
		sess.Draft = &kept
	}
	return h.manager.Update(c.Request.Context(), sess)
}

func (h *CreateAccountHandler) submitUser(c *gin.Context) {
	sess := session.FromContext(c.Request.Context())
	draft := currentDraft(sess)
	draft.FirstName = strings.TrimSpace(c.PostForm("first_name"))
	draft.LastName = strings.TrimSpace(c.PostForm("last_name"))
	draft.Email = strings.TrimSpace(c.PostForm("email"))
	draft.UserRole = c.DefaultPostForm("user_role", domain.RoleCustomer)

	if err := h.accounts.ValidateUserStep(draft); err != nil {
		h.show(c, apierr.StatusOf(err), 1, draft, err)
		return
	}
	if err := h.saveDraft(c, &draft); err != nil {
		_ = c.Error(err)
		h.show(c, http.StatusInternalServerError, 1, draft, apierr.Newf(http.StatusInternalServerError, "session_error", "could not save your progress, please try again"))
		return
	}
	response.SeeOther(c, createAccountPath+"?step=2")
}

func (h *CreateAccountHandler) submitAccount(c *gin.Context) {
	sess := session.FromContext(c.Request.Context())
	draft := currentDraft(sess)
	if h.accounts.ValidateUserStep(draft) != nil {
		response.SeeOther(c, createAccountPath+"?step=1")
		return
	}

	draft.AccountType = c.DefaultPostForm("account_type", domain.AccountTypeCurrent)
	draft.Password = c.PostForm("password")
	var depositErr error
	if raw := strings.TrimSpace(c.PostForm("initial_deposit")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			depositErr = apierr.BadRequest("invalid_account", "initial deposit must be a number")
		} else {
			draft.InitialDeposit = v
		}
	} else {
		draft.InitialDeposit = 0
	}

	if c.PostForm("nav") == "back" {
		if err := h.saveDraft(c, &draft); err != nil {
			_ = c.Error(err)
		}
		response.SeeOther(c, createAccountPath+"?step=1")
		return
	}
	if depositErr != nil {
		h.show(c, http.StatusBadRequest, 2, draft, depositErr)
		return
	}

	if _, err := h.accounts.CreateCustomer(c.Request.Context(), token(c), draft); err != nil {
		_ = c.Error(err)
		if h.expired(c, err) {
			return
		}
		if serr := h.saveDraft(c, &draft); serr != nil {
			_ = c.Error(serr)
		}
		h.show(c, pageStatus(err), 2, draft, err)
		return
	}

	if err := h.saveDraft(c, nil); err != nil {
		_ = c.Error(err)
	}
	response.Success(c, "Account created successfully!")
	response.SeeOther(c, "/dashboard")
}
