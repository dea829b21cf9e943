package dto

import (
	"github.com/go-playground/validator/v10"
)

// JobParams carries the domain validation rules for a calculation request.
// Huma's schema tags catch range violations at the HTTP boundary; these tags
// guard direct service callers as well.
type JobParams struct {
	BlueprintID     int     `validate:"required,min=1"`
	Runs            int     `validate:"required,min=1"`
	MELevel         int     `validate:"min=0,max=10"`
	TELevel         int     `validate:"te_level"`
	SystemCostIndex float64 `validate:"min=0,max=1"`
	PriceSide       string  `validate:"oneof=buy sell"`
}

// RegisterCustomValidators registers industry-specific validators
func RegisterCustomValidators(validate *validator.Validate) {
	// TE levels come in 2% steps: only even values 0-20 exist in game data.
	_ = validate.RegisterValidation("te_level", func(fl validator.FieldLevel) bool {
		level := fl.Field().Int()
		return level >= 0 && level <= 20 && level%2 == 0
	})
}

// NewValidator returns a validator with the industry rules registered.
func NewValidator() *validator.Validate {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return validate
}
