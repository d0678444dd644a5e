package utils

import (
	"reflect"

	"cart-shop/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the custom binding tags used by the request models.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("uf", validateStateCode); err != nil {
		return err
	}
	return v.RegisterValidation("cart_status", validateCartStatus)
}

func validateStateCode(fl validator.FieldLevel) bool {
	_, ok := models.RegionForState(fl.Field().String())
	return ok
}

func validateCartStatus(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return false
		}
		field = field.Elem()
	}
	return models.CartStatus(field.String()).Valid()
}
