package validator

import (
	"log"
	"regexp"

	"jobconnect_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Камерунские номера: мобильные начинаются с 6, стационарные с 2 или 3,
// всего 9 цифр
var cmPhoneRegex = regexp.MustCompile(`^(6|2|3)\d{8}$`)

// registerCustomRules регистрирует кастомные правила валидации.
// Пустые значения правила пропускают: за обязательность отвечает 'required'.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-job-type", validateJobType)
	mustRegister("is-cm-phone", validateCMPhone)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidUserRole(models.UserRole(value))
}

func validateJobType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidJobType(models.JobType(value))
}

func validateCMPhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return cmPhoneRegex.MatchString(value)
}
