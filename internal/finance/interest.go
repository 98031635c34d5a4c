package finance

import (
	"math"

	"github.com/shopspring/decimal"

	"chama-backend/internal/domain/fault"
)

type InterestType string

const (
	FlatRate        InterestType = "FLAT_RATE"
	ReducingBalance InterestType = "REDUCING_BALANCE"
)

func (t InterestType) Valid() bool {
	return t == FlatRate || t == ReducingBalance
}

// Terms is a computed repayment schedule summary for one loan.
type Terms struct {
	MonthlyRepayment decimal.Decimal `json:"monthly_repayment"`
	TotalRepayment   decimal.Decimal `json:"total_repayment"`
	InterestAmount   decimal.Decimal `json:"interest_amount"`
}

// LoanTerms computes repayment terms for a principal over a term of whole
// months at a monthly rate expressed as a decimal fraction (0.10 = 10%).
//
// FLAT_RATE charges interest on the full principal for the whole term:
//
//	total = P * (1 + r*n)
//
// REDUCING_BALANCE is the standard annuity formula:
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with the r=0 case degenerating to an even split of the principal.
func LoanTerms(principal, rate decimal.Decimal, typ InterestType, months int) (*Terms, error) {
	if months <= 0 {
		return nil, fault.Newf(fault.KindInvalidArgument, "term months must be positive, got %d", months)
	}
	if rate.IsNegative() {
		return nil, fault.New(fault.KindInvalidArgument, "interest rate must not be negative")
	}
	if principal.IsNegative() {
		return nil, fault.New(fault.KindInvalidArgument, "principal must not be negative")
	}
	if !typ.Valid() {
		return nil, fault.Newf(fault.KindInvalidArgument, "unknown interest type %q", typ)
	}

	n := decimal.NewFromInt(int64(months))

	switch typ {
	case FlatRate:
		interest := principal.Mul(rate).Mul(n).Round(2)
		total := principal.Add(interest)
		return &Terms{
			MonthlyRepayment: total.Div(n).Round(2),
			TotalRepayment:   total,
			InterestAmount:   interest,
		}, nil

	default: // ReducingBalance
		if rate.IsZero() {
			return &Terms{
				MonthlyRepayment: principal.Div(n).Round(2),
				TotalRepayment:   principal,
				InterestAmount:   decimal.Zero,
			}, nil
		}
		// The annuity factor needs exponentiation; compute it in float64 and
		// round back to money precision, the error is far below a cent for
		// realistic rates and terms.
		r := rate.InexactFloat64()
		factor := math.Pow(1+r, float64(months))
		payment := principal.InexactFloat64() * r * factor / (factor - 1)
		// Round the installment toward the lender so total never undercuts
		// the principal, even for sub-cent installments.
		monthly := decimal.NewFromFloat(payment).RoundUp(2)
		total := monthly.Mul(n)
		if total.LessThan(principal) {
			total = principal
		}
		return &Terms{
			MonthlyRepayment: monthly,
			TotalRepayment:   total,
			InterestAmount:   total.Sub(principal),
		}, nil
	}
}
