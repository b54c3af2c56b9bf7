package calendar

import (
	"regexp"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/itchub/itchub/core"
)

var (
	hhmmTag   = "hhmm"
	hhmmText  = "time must be a valid 24-hour HH:MM time"
	hhmmRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

	isoDateTag  = "isodate"
	isoDateText = "date must be a valid YYYY-MM-DD date"

	durationText  = "duration must be one of 30, 60 or 90 minutes"
	eventTypeText = "type must be one of meeting, review, planning or workshop"
)

// InitValidators registers the calendar validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(hhmmTag, hhmmValidation)
	core.RegisterCustomTranslation(validate, translator, hhmmTag, hhmmText)

	_ = validate.RegisterValidation(isoDateTag, isoDateValidation)
	core.RegisterCustomTranslation(validate, translator, isoDateTag, isoDateText)

	validate.RegisterStructValidation(eventFormStructValidation, EventForm{})
	core.RegisterCustomTranslation(validate, translator, "duration", durationText)
	core.RegisterCustomTranslation(validate, translator, "eventtype", eventTypeText)
}

func hhmmValidation(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}

func isoDateValidation(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// eventFormStructValidation checks the enum fields of EventForm.
func eventFormStructValidation(sl validator.StructLevel) {
	form, ok := sl.Current().Interface().(EventForm)
	if !ok {
		return
	}
	if _, ok = parseDuration(form.Duration); !ok {
		sl.ReportError(form.Duration, "duration", "Duration", "duration", "")
	}
	if !EventType(form.Type).IsValid() {
		sl.ReportError(form.Type, "type", "Type", "eventtype", "")
	}
}
