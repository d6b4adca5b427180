package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Frequency string

const (
	Hourly  Frequency = "hourly"
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

var Frequencies = []Frequency{Hourly, Daily, Weekly, Monthly, Yearly}

func ParseFrequency(raw string) (Frequency, bool) {
	f := Frequency(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Frequencies {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// InterestRate mirrors the backend row. Rate is stored in hundredths of a
// percent, so 325 means 3.25%.
type InterestRate struct {
	ID                   uuid.UUID `json:"id"`
	Rate                 int64     `json:"rate"`
	CalculationFrequency Frequency `json:"calculation_frequency"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (r InterestRate) Percent() float64 {
	return float64(r.Rate) / 100
}

type CreateInterestRateRequest struct {
	Rate                 float64   `json:"rate"`
	CalculationFrequency Frequency `json:"calculation_frequency"`
}

type UpdateInterestRateRequest struct {
	Rate float64 `json:"rate"`
}

type UpdateFrequencyRequest struct {
	CalculationFrequency Frequency `json:"calculation_frequency"`
}

type InterestRateReceipt struct {
	InterestRateID uuid.UUID `json:"interest_rate_id"`
}
