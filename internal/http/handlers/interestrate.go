package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bankadmin/internal/domain"
	"github.com/yungbote/bankadmin/internal/http/response"
	"github.com/yungbote/bankadmin/internal/http/web"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/services"
)

const interestRatePath = "/interest-rate"

type InterestRateData struct {
	Current     *domain.InterestRate
	Frequencies []domain.Frequency
}

type InterestRateHandler struct {
	*Pages
	rates services.InterestRateService
}

func NewInterestRateHandler(pages *Pages, rates services.InterestRateService) *InterestRateHandler {
	return &InterestRateHandler{Pages: pages, rates: rates}
}

func (h *InterestRateHandler) Show(c *gin.Context) {
	data := InterestRateData{Frequencies: domain.Frequencies}
	current, err := h.rates.Current(c.Request.Context(), token(c))
	if err != nil {
		_ = c.Error(err)
		if h.expired(c, err) {
			return
		}
		pg := h.page(c, "Interest Rate", web.NavInterestRate, data)
		pg.Error = err.Error()
		h.render(c, pageStatus(err), web.PageInterestRate, pg)
		return
	}
	data.Current = current
	h.render(c, http.StatusOK, web.PageInterestRate, h.page(c, "Interest Rate", web.NavInterestRate, data))
}

func (h *InterestRateHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	tok := token(c)
	var (
		err error
		msg string
	)
	switch c.PostForm("op") {
	case "create":
		_, err = h.rates.Create(ctx, tok, c.PostForm("rate"), c.PostForm("calculation_frequency"))
		msg = "Interest rate created successfully!"
	case "rate":
		_, err = h.rates.UpdateRate(ctx, tok, c.PostForm("rate"))
		msg = "Interest rate updated successfully!"
	case "frequency":
		_, err = h.rates.UpdateFrequency(ctx, tok, c.PostForm("calculation_frequency"))
		msg = "Calculation frequency updated successfully!"
	default:
		err = apierr.BadRequest("invalid_operation", "unknown interest rate operation")
	}
	if err != nil {
		h.failAndRedirect(c, interestRatePath, err)
		return
	}
	response.Success(c, msg)
	response.SeeOther(c, interestRatePath)
}
