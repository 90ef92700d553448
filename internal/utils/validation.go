package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var promoCodeRegex = regexp.MustCompile(`^[A-Z0-9_-]+$`)

func init() {
	validate = validator.New()

	validate.RegisterValidation("promo_code", validatePromoCode)
	validate.RegisterValidation("shop_domain", validateShopDomain)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationErrors flattens validator errors into a field->message map for
// the response envelope.
func ValidationErrors(err error) map[string]string {
	details := make(map[string]string)

	var verrs validator.ValidationErrors
	if ok := errorsAs(err, &verrs); !ok {
		details["error"] = err.Error()
		return details
	}

	for _, fe := range verrs {
		details[strings.ToLower(fe.Field())] = "failed on '" + fe.Tag() + "' validation"
	}
	return details
}

func errorsAs(err error, target *validator.ValidationErrors) bool {
	verrs, ok := err.(validator.ValidationErrors)
	if ok {
		*target = verrs
	}
	return ok
}

func validatePromoCode(fl validator.FieldLevel) bool {
	return IsValidPromoCode(fl.Field().String())
}

func IsValidPromoCode(code string) bool {
	code = NormalizeCode(code)
	if code == "" || len(code) > PromoCodeMaxLength {
		return false
	}
	return promoCodeRegex.MatchString(code)
}

func validateShopDomain(fl validator.FieldLevel) bool {
	return IsValidShopDomain(fl.Field().String())
}

func IsValidShopDomain(domain string) bool {
	return strings.HasSuffix(domain, ".myshopify.com") && !strings.Contains(domain, "/")
}
