package report

import (
	"github.com/dori/worklog/internal/model"
	"github.com/shopspring/decimal"
)

// Billing is the amount owed for a project's hours
type Billing struct {
	Hours  decimal.Decimal
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// String renders the amount rounded half-to-even at two places
func (b Billing) String() string {
	return "$" + b.Amount.StringFixedBank(2)
}

// bill computes hours × rate for hourly projects. Hours come from float
// seconds/3600 and are converted to decimal only here, right before the
// multiplication; nothing is rounded.
func bill(p model.Project, hours float64) *Billing {
	if !p.HasBilling() {
		return nil
	}
	h := decimal.NewFromFloat(hours)
	return &Billing{
		Hours:  h,
		Rate:   *p.HourRate,
		Amount: h.Mul(*p.HourRate),
	}
}
