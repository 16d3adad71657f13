// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/models"
	"fintrack/internal/services"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("chart_theme", validateChartTheme)
	}
}

// validateCategoryType checks that the field is a known category type.
func validateCategoryType(fl validator.FieldLevel) bool {
	return models.CategoryType(fl.Field().String()).Valid()
}

// validateChartTheme checks that the field is a known chart theme.
func validateChartTheme(fl validator.FieldLevel) bool {
	theme := services.Theme(fl.Field().String())
	return theme == services.ThemeLight || theme == services.ThemeDark
}
