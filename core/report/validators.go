package report

import (
	"errors"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/luct/core"
)

var (
	statusTag  = "status"
	statusText = "status must be one of " + strings.Join(AllStatuses, ", ")

	errRequiredFields = "Please provide all required fields"
	errInvalidReport  = "Please provide valid report data"
	errStatusRequired = "Status is required"
	errInvalidStatus  = "Status must be one of " + strings.Join(AllStatuses, ", ")
	errInvalidDates   = errors.New("startDate and endDate must be dates formatted as YYYY-MM-DD")
	errDateRange      = errors.New("startDate must not be after endDate")
)

// InitValidators registers the report validators & translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

func (nr *NewReport) Validate(validate *validator.Validate) error {
	nr.DateOfLecture = core.CleanString(nr.DateOfLecture)
	nr.TopicTaught = core.CleanString(nr.TopicTaught)
	nr.LearningOutcomes = core.CleanString(nr.LearningOutcomes)
	nr.Recommendations = core.CleanString(nr.Recommendations)
	return core.NewInputError(validate.Struct(nr), errInvalidReport, errRequiredFields)
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return core.NewInputError(validate.Struct(su), errInvalidStatus, errStatusRequired)
}

// validateDateRange checks the export date range: both ends must parse and be ordered.
func validateDateRange(filter QueryFilter) error {
	if !filter.HasDateRange() {
		return nil
	}
	start, err := time.Parse(core.DateLayout, filter.StartDate)
	if err != nil {
		return core.NewValidationError(errInvalidDates, core.FieldError{Field: "startDate", Error: errInvalidDates.Error()})
	}
	end, err := time.Parse(core.DateLayout, filter.EndDate)
	if err != nil {
		return core.NewValidationError(errInvalidDates, core.FieldError{Field: "endDate", Error: errInvalidDates.Error()})
	}
	if start.After(end) {
		return core.NewValidationError(errDateRange, core.FieldError{Field: "startDate", Error: errDateRange.Error()})
	}
	return nil
}

// statusValidation checks that the status is one of AllStatuses
func statusValidation(fl validator.FieldLevel) bool {
	return IsValidStatus(fl.Field().String())
}
