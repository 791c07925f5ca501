package profile

import (
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("activity", func(fl validator.FieldLevel) bool {
		return domain.IsActivity(fl.Field().String())
	})
	_ = v.RegisterValidation("goal", func(fl validator.FieldLevel) bool {
		return domain.IsGoal(fl.Field().String())
	})
	_ = v.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
		return domain.IsSkillLevel(fl.Field().String())
	})
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.DaysOfWeek, fl.Field().String())
	})
	_ = v.RegisterValidation("timewindow", func(fl validator.FieldLevel) bool {
		return slices.Contains(domain.TimeWindows, fl.Field().String())
	})
	_ = v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		return domain.IsAvailabilitySlot(fl.Field().String())
	})
	return v
}
