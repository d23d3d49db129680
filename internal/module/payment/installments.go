package payment

import (
	"math"
	"time"

	apperrors "github.com/e2ecommerce/server/internal/shared/errors"
)

// Installment is a single parcel of an installment plan.
type Installment struct {
	Number  int       `json:"number"`
	Amount  int64     `json:"amount"`
	DueDate time.Time `json:"due_date"`
}

// Plan is a full installment quote. All amounts are centavos.
type Plan struct {
	Installments []Installment `json:"installments"`
	PerAmount    int64         `json:"per_amount"`
	Total        int64         `json:"total"`
	Interest     int64         `json:"interest"`
}

// Calculator quotes installment plans using the Price amortization formula
// with a fixed monthly rate.
type Calculator struct {
	MonthlyRate float64
	Max         int
}

// Quote computes the plan for paying principal in count installments
// starting one month from `from`. A single installment carries no interest.
func (c Calculator) Quote(principal int64, count int, from time.Time) (*Plan, error) {
	if principal <= 0 {
		return nil, apperrors.Validation("amount must be positive")
	}
	if count < 1 || count > c.Max {
		return nil, apperrors.Validation("installments out of range")
	}

	var per, total int64
	if count == 1 || c.MonthlyRate == 0 {
		per = principal
		total = principal
		if count > 1 {
			per = int64(math.Round(float64(principal) / float64(count)))
			total = principal
		}
	} else {
		r := c.MonthlyRate
		factor := math.Pow(1+r, float64(count))
		pmt := float64(principal) * (r * factor) / (factor - 1)
		per = int64(math.Round(pmt))
		total = int64(math.Round(pmt * float64(count)))
	}

	plan := &Plan{
		PerAmount: per,
		Total:     total,
		Interest:  total - principal,
	}
	for i := 1; i <= count; i++ {
		amount := per
		if i == count {
			// The last parcel absorbs the rounding remainder so the
			// parcels sum exactly to the total.
			amount = total - per*int64(count-1)
		}
		plan.Installments = append(plan.Installments, Installment{
			Number:  i,
			Amount:  amount,
			DueDate: from.AddDate(0, i, 0),
		})
	}
	return plan, nil
}
