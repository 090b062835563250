package forecast

import (
	"errors"
	"fmt"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/catalog"
)

var (
	// ErrUnknownProduct is returned for a product key not in the catalog.
	ErrUnknownProduct = catalog.ErrUnknownProduct
	// ErrInvalidRange is returned when the end date is not after the start.
	ErrInvalidRange = errors.New("end date must be after start date")
	// ErrInvalidDate is returned for a date that does not parse.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// ValidationError is a user-correctable rejection of a request. Value holds
// the offending input.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LargeRangeWarning flags an accepted request spanning more days than
// MaxRecommendedDays. It never blocks generation.
type LargeRangeWarning struct {
	DayCount int
}

func (w *LargeRangeWarning) Error() string {
	return fmt.Sprintf("range of %d days is longer than %d days; predictions may be less accurate", w.DayCount, MaxRecommendedDays)
}

// PredictionError wraps any failure of the forecaster or of the series it
// returned. The request can be retried or changed.
type PredictionError struct {
	Product string
	Err     error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed for %q: %v", e.Product, e.Err)
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a user-correctable input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPrediction reports whether err is a PredictionError.
func IsPrediction(err error) bool {
	var pe *PredictionError
	return errors.As(err, &pe)
}
