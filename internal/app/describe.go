package app

import (
	"errors"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecast"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/services"
)

// ErrorCategory groups errors by what the operator can do about them.
type ErrorCategory int

const (
	// CategoryOther is any error without a more specific category.
	CategoryOther ErrorCategory = iota
	// CategoryValidation errors are fixed by changing the input.
	CategoryValidation
	// CategoryPrediction errors may go away on retry or another product.
	CategoryPrediction
	// CategoryBundle errors need the model bundle fixed.
	CategoryBundle
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryValidation:
		return "validation"
	case CategoryPrediction:
		return "prediction"
	case CategoryBundle:
		return "bundle"
	default:
		return "other"
	}
}

// Describe returns the category of err, a headline and a hint telling the
// operator what to do next.
func Describe(err error) (ErrorCategory, string, string) {
	var le *catalog.LoadError
	switch {
	case err == nil:
		return CategoryOther, "", ""
	case forecast.IsValidation(err):
		return CategoryValidation, "Invalid input", "Fix the highlighted value and press enter again."
	case forecast.IsPrediction(err):
		return CategoryPrediction, "Prediction failed", "Try again or pick another product."
	case errors.As(err, &le):
		hint := "Check the file and press r to retry."
		if le.Kind == catalog.NotFound {
			hint = "Create one with `prediksi bundle demo " + le.Path + "` and press r."
		}
		return CategoryBundle, "Model bundle " + le.Kind.String(), hint
	case errors.Is(err, services.ErrCatalogUnavailable):
		return CategoryBundle, "Model bundle not loaded", "Press r to retry."
	default:
		return CategoryOther, "Error", ""
	}
}
