package model

import (
	"github.com/shopspring/decimal"
)

// Project is something work is tracked against
type Project struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name" validate:"required,max=200"`
	IsBilledHourly bool             `json:"is_billed_hourly"`
	HourRate       *decimal.Decimal `json:"hour_rate,omitempty"`
}

// HasBilling reports whether hours on this project turn into a billing amount.
// A zero rate counts as no rate.
func (p *Project) HasBilling() bool {
	return p.IsBilledHourly && p.HourRate != nil && !p.HourRate.IsZero()
}

// BillingLabel returns "Hourly" or "Fixed"
func (p *Project) BillingLabel() string {
	if p.IsBilledHourly {
		return "Hourly"
	}
	return "Fixed"
}

func (p *Project) String() string {
	return p.Name
}
