package services

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/yungbote/bankadmin/internal/domain"
	"github.com/yungbote/bankadmin/internal/platform/apierr"
	"github.com/yungbote/bankadmin/internal/platform/logger"
)

type InterestRateAPI interface {
	CurrentInterestRate(ctx context.Context, token string) (domain.InterestRate, error)
	CreateInterestRate(ctx context.Context, token string, req domain.CreateInterestRateRequest) (domain.InterestRateReceipt, error)
	UpdateInterestRate(ctx context.Context, token string, req domain.UpdateInterestRateRequest) (domain.InterestRateReceipt, error)
	UpdateCalculationFrequency(ctx context.Context, token string, req domain.UpdateFrequencyRequest) (domain.InterestRateReceipt, error)
}

type InterestRateService interface {
	// Current returns nil when no rate has been configured yet.
	Current(ctx context.Context, token string) (*domain.InterestRate, error)
	Create(ctx context.Context, token, rate, frequency string) (domain.InterestRateReceipt, error)
	UpdateRate(ctx context.Context, token, rate string) (domain.InterestRateReceipt, error)
	UpdateFrequency(ctx context.Context, token, frequency string) (domain.InterestRateReceipt, error)
}

type interestRateService struct {
	log *logger.Logger
	api InterestRateAPI
}

func NewInterestRateService(log *logger.Logger, api InterestRateAPI) InterestRateService {
	return &interestRateService{log: log.With("service", "InterestRateService"), api: api}
}

func (s *interestRateService) Current(ctx context.Context, token string) (*domain.InterestRate, error) {
	rate, err := s.api.CurrentInterestRate(ctx, token)
	if err != nil {
		switch apierr.StatusOf(err) {
		case http.StatusPreconditionFailed, http.StatusNotFound:
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func parseRate(raw string, allowZero bool) (float64, error) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apierr.BadRequest("invalid_rate", "rate must be a number")
	}
	if v < 0 || (!allowZero && v == 0) {
		if allowZero {
			return 0, apierr.BadRequest("invalid_rate", "rate cannot be negative")
		}
		return 0, apierr.BadRequest("invalid_rate", "rate must be greater than zero")
	}
	return v, nil
}

func parseFrequency(raw string) (domain.Frequency, error) {
	f, ok := domain.ParseFrequency(raw)
	if !ok {
		return "", apierr.BadRequest("invalid_frequency", "frequency must be one of hourly, daily, weekly, monthly or yearly")
	}
	return f, nil
}

func (s *interestRateService) Create(ctx context.Context, token, rate, frequency string) (domain.InterestRateReceipt, error) {
	r, err := parseRate(rate, false)
	if err != nil {
		return domain.InterestRateReceipt{}, err
	}
	f, err := parseFrequency(frequency)
	if err != nil {
		return domain.InterestRateReceipt{}, err
	}
	out, err := s.api.CreateInterestRate(ctx, token, domain.CreateInterestRateRequest{Rate: r, CalculationFrequency: f})
	if err != nil {
		return domain.InterestRateReceipt{}, err
	}
	s.log.Info("interest rate created", "rate", r, "frequency", string(f))
	return out, nil
}

func (s *interestRateService) UpdateRate(ctx context.Context, token, rate string) (domain.InterestRateReceipt, error) {
	r, err := parseRate(rate, true)
	if err != nil {
		return domain.InterestRateReceipt{}, err
	}
	out, err := s.api.UpdateInterestRate(ctx, token, domain.UpdateInterestRateRequest{Rate: r})
	if err != nil {
		return domain.InterestRateReceipt{}, err
	}
	s.log.Info("interest rate updated", "rate", r)
	return out, nil
}

func (s *interestRateService) UpdateFrequency(ctx context.Context, token, frequency string) (domain.InterestRateReceipt, error) {
	f, err := parseFrequency(frequency)
	if err != nil {
		return domain.InterestRateReceipt{}, err
	}
	out, err := s.api.UpdateCalculationFrequency(ctx, token, domain.UpdateFrequencyRequest{CalculationFrequency: f})
	if err != nil {
		return domain.InterestRateReceipt{}, err
	}
	s.log.Info("interest rate frequency updated", "frequency", string(f))
	return out, nil
}
