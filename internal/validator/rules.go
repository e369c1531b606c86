package validator

import (
	"log"
	"strings"

	"scholarhub_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила - ошибка запуска приложения
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-application-status': статус заявки из statuses.go
	mustRegister("is-application-status", validateApplicationStatus)

	// 'is-scholarship-status': Active / Inactive
	mustRegister("is-scholarship-status", validateScholarshipStatus)

	// 'is-gender': пол заявителя
	mustRegister("is-gender", validateGender)
}

// --- Функции валидации ---

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}
	return models.ApplicationStatus(value).IsValid()
}

func validateScholarshipStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ScholarshipStatus(value).IsValid()
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch strings.ToLower(value) {
	case "male", "female", "other":
		return true
	default:
		return false
	}
}
