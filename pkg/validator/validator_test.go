package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingInput struct {
	Date   string `json:"appointment_date" validate:"required,calendardate"`
	Gender string `json:"patient_gender" validate:"required,oneof=MALE FEMALE OTHER"`
	Age    int    `json:"patient_age" validate:"required,min=1"`
}

func TestNewValidator_RegistersCalendarDate(t *testing.T) {
	var v *CustomValidator
	require.NotPanics(t, func() { v = NewValidator() })
	assert.Error(t, v.Validate(&bookingInput{Date: "2024-13-40", Gender: "MALE", Age: 30}))
}

func TestValidate_AcceptsCalendarDates(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&bookingInput{Date: "2024-01-01", Gender: "MALE", Age: 30}))
	assert.NoError(t, v.Validate(&bookingInput{Date: "2024-01-01T09:00:00Z", Gender: "OTHER", Age: 1}))
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&bookingInput{Date: "01/02/2024", Gender: "X"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "appointment_date must be a date in YYYY-MM-DD format", errs["appointment_date"])
	assert.Equal(t, "patient_gender must be one of MALE FEMALE OTHER", errs["patient_gender"])
	assert.Equal(t, "patient_age is required", errs["patient_age"])
}
