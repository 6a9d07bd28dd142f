package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/strategiclayer/api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums and dates
	// These should never fail in normal operation
	if err := Validate.RegisterValidation("layer", validateLayer); err != nil {
		panic(fmt.Sprintf("failed to register layer validator: %v", err))
	}
	if err := Validate.RegisterValidation("category", validateCategory); err != nil {
		panic(fmt.Sprintf("failed to register category validator: %v", err))
	}
	if err := Validate.RegisterValidation("appraisal_mode", validateAppraisalMode); err != nil {
		panic(fmt.Sprintf("failed to register appraisal_mode validator: %v", err))
	}
	if err := Validate.RegisterValidation("sort_key", validateSortKey); err != nil {
		panic(fmt.Sprintf("failed to register sort_key validator: %v", err))
	}
	if err := Validate.RegisterValidation("iso_date", validateISODate); err != nil {
		panic(fmt.Sprintf("failed to register iso_date validator: %v", err))
	}
}

// validateLayer validates that a string is a valid Layer enum value
func validateLayer(fl validator.FieldLevel) bool {
	return ValidateLayer(fl.Field().String()) == nil
}

// validateCategory validates that a string is a valid Category enum value
func validateCategory(fl validator.FieldLevel) bool {
	return ValidateCategory(fl.Field().String()) == nil
}

// validateAppraisalMode validates that a string is a valid AppraisalMode enum value
func validateAppraisalMode(fl validator.FieldLevel) bool {
	return ValidateAppraisalMode(fl.Field().String()) == nil
}

// validateSortKey validates that a string is a valid SortKey enum value
func validateSortKey(fl validator.FieldLevel) bool {
	return ValidateSortKey(fl.Field().String()) == nil
}

// validateISODate validates that a string parses as a YYYY-MM-DD calendar date
func validateISODate(fl validator.FieldLevel) bool {
	return ValidateDeadline(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateLayer validates a Layer string value
func ValidateLayer(value string) error {
	switch models.Layer(value) {
	case models.LayerDeadline, models.LayerInvestment, models.LayerDesire:
		return nil
	default:
		return fmt.Errorf("invalid layer: %s (must be 'deadline', 'investment', or 'desire')", value)
	}
}

// ValidateCategory validates a Category string value
func ValidateCategory(value string) error {
	switch models.Category(value) {
	case models.CategoryWork, models.CategoryStudy, models.CategoryPrivate, models.CategoryOther:
		return nil
	default:
		return fmt.Errorf("invalid category: %s (must be 'work', 'study', 'private', or 'other')", value)
	}
}

// ValidateAppraisalMode validates an AppraisalMode string value
func ValidateAppraisalMode(value string) error {
	switch models.AppraisalMode(value) {
	case models.ModeSweet, models.ModeNormal, models.ModeSpicy:
		return nil
	default:
		return fmt.Errorf("invalid mode: %s (must be 'sweet', 'normal', or 'spicy')", value)
	}
}

// ValidateSortKey validates a SortKey string value
func ValidateSortKey(value string) error {
	switch models.SortKey(value) {
	case models.SortScoreDesc, models.SortDeadlineAsc, models.SortDeadlineDesc:
		return nil
	default:
		return fmt.Errorf("invalid sort: %s (must be 'score_desc', 'deadline_asc', or 'deadline_desc')", value)
	}
}

// ValidateDeadline validates a deadline string as an ISO calendar date.
// The scoring engine tolerates malformed dates by treating them as "no
// deadline"; the input surface rejects them here so they never get stored.
func ValidateDeadline(value string) error {
	if _, err := time.Parse(models.DeadlineLayout, value); err != nil {
		return fmt.Errorf("invalid deadline: %s (must be a YYYY-MM-DD date)", value)
	}
	return nil
}

// ValidateLanguage validates a Language string value
func ValidateLanguage(value string) error {
	switch models.Language(value) {
	case models.LanguageJA, models.LanguageEN:
		return nil
	default:
		return fmt.Errorf("invalid lang: %s (must be 'ja' or 'en')", value)
	}
}
