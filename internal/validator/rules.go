package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"campusjobs_backend/internal/models"
)

// registerCustomRules регистрирует кастомные функции валидации.
// Пустые значения пропускаются: для них есть 'required'.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// при регистрации допустимы только student и company, admin создается сидом
	mustRegister("is-user-role", func(fl validator.FieldLevel) bool {
		return validEnum(fl, func(s string) bool {
			r := models.UserRole(s)
			return r == models.UserRoleStudent || r == models.UserRoleCompany
		})
	})
	mustRegister("is-job-status", func(fl validator.FieldLevel) bool {
		return validEnum(fl, func(s string) bool { return models.JobStatus(s).IsValid() })
	})
	mustRegister("is-job-type", func(fl validator.FieldLevel) bool {
		return validEnum(fl, func(s string) bool { return models.JobType(s).IsValid() })
	})
	mustRegister("is-application-status", func(fl validator.FieldLevel) bool {
		return validEnum(fl, func(s string) bool { return models.ApplicationStatus(s).IsValid() })
	})
	mustRegister("is-industry", func(fl validator.FieldLevel) bool {
		return validEnum(fl, func(s string) bool { return models.Industry(s).IsValid() })
	})
}

func validEnum(fl validator.FieldLevel, ok func(string) bool) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return ok(value)
}
