package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/happynation/wellbeing-service/internal/models"
)

// Validator combines struct-tag validation with survey answer checks
type Validator struct {
	structValidator *validator.Validate
	surveyValidator *SurveyValidator
}

// New creates a validator with the custom tags registered
func New() *Validator {
	structValidator := validator.New()
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		surveyValidator: NewSurveyValidator(),
	}
}

// ValidateStruct validates struct tags and converts failures to ValidationErrors
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if ve := ToValidationErrors(err); len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Survey returns the answer-set validator
func (v *Validator) Survey() *SurveyValidator {
	return v.surveyValidator
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("likert", validateLikert)
	validate.RegisterValidation("risk_tier", validateRiskTier)
	validate.RegisterValidation("survey_frequency", validateSurveyFrequency)
	validate.RegisterValidation("report_type", validateReportType)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateLikert(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := fl.Field().Int()
		return v >= LikertMin && v <= LikertMax
	}
	return false
}

func validateRiskTier(fl validator.FieldLevel) bool {
	return models.RiskTier(fl.Field().String()).Valid()
}

func validateSurveyFrequency(fl validator.FieldLevel) bool {
	switch models.SurveyFrequency(fl.Field().String()) {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
		return true
	}
	return false
}

func validateReportType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Daily", "Weekly", "Monthly":
		return true
	}
	return false
}
