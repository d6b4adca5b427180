package bankapi

import (
	"context"

	"github.com/yungbote/bankadmin/internal/domain"
)

func (c *Client) CurrentInterestRate(ctx context.Context, token string) (domain.InterestRate, error) {
	var r domain.InterestRate
	_, err := c.Get(ctx, "interest-rate/current", token, &r)
	return r, err
}

func (c *Client) CreateInterestRate(ctx context.Context, token string, req domain.CreateInterestRateRequest) (domain.InterestRateReceipt, error) {
	var out domain.InterestRateReceipt
	_, err := c.Post(ctx, "interest-rate", token, req, &out)
	return out, err
}

func (c *Client) UpdateInterestRate(ctx context.Context, token string, req domain.UpdateInterestRateRequest) (domain.InterestRateReceipt, error) {
	var out domain.InterestRateReceipt
	_, err := c.Put(ctx, "interest-rate", token, req, &out)
	return out, err
}

func (c *Client) UpdateCalculationFrequency(ctx context.Context, token string, req domain.UpdateFrequencyRequest) (domain.InterestRateReceipt, error) {
	var out domain.InterestRateReceipt
	_, err := c.Put(ctx, "interest-rate/calculation-frequency", token, req, &out)
	return out, err
}
