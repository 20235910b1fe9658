package employee

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// UpdateOpeningBalancesRequest sets the balances a full replay starts from.
type UpdateOpeningBalancesRequest struct {
	Code               string  `json:"-"`
	AnnualLeaveOpening float64 `json:"annual_leave_opening"`
	MonthlyLateQuota   int     `json:"monthly_late_quota"`
}

func (r *UpdateOpeningBalancesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "employee code is required",
		})
	}

	if r.AnnualLeaveOpening < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "annual_leave_opening",
			Message: "annual_leave_opening must not be negative",
		})
	}

	if r.MonthlyLateQuota < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "monthly_late_quota",
			Message: "monthly_late_quota must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BalanceResponse struct {
	Code                 string  `json:"code"`
	DisplayName          string  `json:"display_name"`
	AnnualLeaveOpening   float64 `json:"annual_leave_opening"`
	MonthlyLateQuota     int     `json:"monthly_late_quota"`
	AnnualLeaveBalance   float64 `json:"annual_leave_balance"`
	MonthlyLateAllowance int     `json:"monthly_late_allowance"`
	BalanceVersion       int64   `json:"balance_version"`
}

func NewBalanceResponse(e Employee) BalanceResponse {
	return BalanceResponse{
		Code:                 e.Code,
		DisplayName:          e.DisplayName,
		AnnualLeaveOpening:   e.AnnualLeaveOpening,
		MonthlyLateQuota:     e.MonthlyLateQuota,
		AnnualLeaveBalance:   e.AnnualLeaveBalance,
		MonthlyLateAllowance: e.MonthlyLateAllowance,
		BalanceVersion:       e.BalanceVersion,
	}
}
