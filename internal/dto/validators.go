package dto

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accounttype", validAccountType)
	}
}

// validAccountType accepts only the five fundamental account types.
func validAccountType(fl validator.FieldLevel) bool {
	switch domain.AccountType(fl.Field().String()) {
	case domain.Asset, domain.Liability, domain.Equity, domain.Income, domain.Expense:
		return true
	default:
		return false
	}
}
