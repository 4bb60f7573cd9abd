package controllers

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ValidateStruct returns a field -> message map, or nil when the payload
// is valid.
func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errs[fieldErr.Field()] = "failed on " + fieldErr.Tag()
	}
	return errs
}
