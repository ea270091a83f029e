package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"lodgera/pkg/logger"
	"lodgera/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type ReservationValidator struct {
	validate       *validator.Validate
	maxAdvanceDays int
	logger         *logger.Logger
}

func NewReservationValidator(maxAdvanceDays int, log *logger.Logger) *ReservationValidator {
	return &ReservationValidator{
		validate:       validator.New(),
		maxAdvanceDays: maxAdvanceDays,
		logger:         log,
	}
}

// Midnight truncates t to date granularity in UTC. All check-in and
// check-out comparisons happen on whole days.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Nights returns the number of whole days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(Midnight(checkOut).Sub(Midnight(checkIn)).Hours() / 24)
}

// ValidateRequest checks the client-supplied fields of a reservation
// request, including the date window rules.
func (v *ReservationValidator) ValidateRequest(req *model.ReservationRequest, now time.Time) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateDates(req.CheckIn, req.CheckOut, now)
}

// Validate checks a fully assembled reservation document before insert.
// Failures here mean the service composed a bad document, not that the
// client sent one.
func (v *ReservationValidator) Validate(reservation *model.Reservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		v.logger.Warn("Assembled reservation failed validation",
			"reservation_id", reservation.ReservationID,
			"error", err,
		)
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateCapacity rejects a guest count over the room's capacity.
func (v *ReservationValidator) ValidateCapacity(numberOfGuests int, room *model.Room) error {
	if numberOfGuests > room.Capacity {
		return ValidationErrors{
			ValidationError{
				Field:   "NumberOfGuests",
				Message: fmt.Sprintf("number of guests (%d) exceeds room capacity (%d)", numberOfGuests, room.Capacity),
			},
		}
	}
	return nil
}

func (v *ReservationValidator) validateDates(checkIn, checkOut, now time.Time) error {
	today := Midnight(now)
	in := Midnight(checkIn)
	out := Midnight(checkOut)

	if in.Before(today) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckIn",
				Message: "check_in cannot be in the past",
			},
		}
	}

	if in.After(today.AddDate(0, 0, v.maxAdvanceDays)) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckIn",
				Message: fmt.Sprintf("check_in cannot be more than %d days in advance", v.maxAdvanceDays),
			},
		}
	}

	if !out.After(in) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckOut",
				Message: "check_out must be after check_in",
			},
		}
	}

	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "uuid4":
			message = fmt.Sprintf("%s must be a valid UUID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +12025550123)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
