package service

import (
	"errors"
	"reflect"
	"strings"

	"catalog-api/internal/domain"
	"catalog-api/internal/dto"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var (
	maxPrice = decimal.RequireFromString("99999999.99")
)

// Bounds on the shape of a parsed price. Anything outside them is rejected
// before rounding, which rescales through 10^|exponent|.
const (
	maxPriceExponent = 12
	maxPriceDigits   = 24
)

// Validator checks request bodies before they reach storage
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Category turns a request into an entity or a *domain.ValidationError
func (v *Validator) Category(req dto.CategoryRequest) (*domain.Category, error) {
	verr := &domain.ValidationError{}
	v.collect(verr, req)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &domain.Category{
		Code: req.Code,
		Name: req.Name,
	}, nil
}

// Item turns a request into an entity or a *domain.ValidationError.
// Price is rounded half-up to cents and defaults to zero; stock defaults to zero.
func (v *Validator) Item(req dto.ItemRequest) (*domain.Item, error) {
	verr := &domain.ValidationError{}
	v.collect(verr, req)

	price := decimal.Zero
	if req.Price != nil {
		raw := req.Price.Decimal()
		if !priceInShape(raw) {
			verr.Add("price", "must be a number with at most 8 integer digits and 2 decimals")
		} else {
			price = raw.Round(2)
			switch {
			case price.IsNegative():
				verr.Add("price", "must be greater than or equal to 0")
			case price.GreaterThan(maxPrice):
				verr.Add("price", "must be less than or equal to "+maxPrice.String())
			}
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	item := &domain.Item{
		SKU:         req.SKU,
		Name:        req.Name,
		Price:       price,
		CategoryID:  *req.CategoryID,
		Description: req.Description,
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	return item, nil
}

func priceInShape(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxPriceExponent && exp <= maxPriceExponent && d.NumDigits() <= maxPriceDigits
}

func (v *Validator) collect(verr *domain.ValidationError, s any) {
	err := v.validate.Struct(s)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add("body", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), errorMessage(fe))
	}
}

func errorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "max":
		if e.Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be less than or equal to " + e.Param()
	case "min":
		return "must be greater than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
