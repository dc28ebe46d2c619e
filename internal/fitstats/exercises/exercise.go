package exercises

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidExercise = errors.New("invalid exercise")

// Exercise is a single logged exercise session. Duration is in minutes.
type Exercise struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username" validate:"required"`
	ExerciseType string    `json:"exerciseType" bson:"exerciseType" validate:"required"`
	SubActivity  *string   `json:"subActivity" bson:"subActivity,omitempty"`
	Description  string    `json:"description" bson:"description"`
	Duration     float64   `json:"duration" bson:"duration" validate:"gte=0"`
	Date         time.Time `json:"date" bson:"date" validate:"required"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		if tag == "" || tag == "-" {
			return fld.Name
		}
		return tag
	})
	return v
}

// Validate checks the exercise before it is stored. Returned errors wrap ErrInvalidExercise.
func (e *Exercise) Validate() error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %w", ErrInvalidExercise, err)
	}

	fields := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidExercise, strings.Join(fields, ", "))
}
