package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/talentflow/talentflow/internal/domain/lifecycle"
	"github.com/talentflow/talentflow/internal/domain/shift"
	"github.com/talentflow/talentflow/internal/domain/status"
	ierr "github.com/talentflow/talentflow/internal/errors"
	"github.com/talentflow/talentflow/internal/types"
)

var validate *validator.Validate

func NewValidator() *validator.Validate {
	validate = validator.New()
	registerDomainTags(validate)
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

// registerDomainTags adds the enumeration tags used by request dtos
func registerDomainTags(v *validator.Validate) {
	axisTag := func(axis status.Axis) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return status.Validate(axis, fl.Field().String())
		}
	}
	_ = v.RegisterValidation("status1", axisTag(status.AxisConfirmation))
	_ = v.RegisterValidation("status2", axisTag(status.AxisVisit))
	_ = v.RegisterValidation("status3", axisTag(status.AxisDecision))
	_ = v.RegisterValidation("status4", axisTag(status.AxisRegistration))

	_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return lifecycle.Stage(fl.Field().String()).Validate()
	})
	_ = v.RegisterValidation("shift_type", func(fl validator.FieldLevel) bool {
		return shift.Type(fl.Field().String()).Validate()
	})
	_ = v.RegisterValidation("shift_status", func(fl validator.FieldLevel) bool {
		return shift.Status(fl.Field().String()).Validate()
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		return types.ValidateDate(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return types.ValidateClockRange(fl.Field().String(), "") == nil
	})
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
