package domain

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// check runs a single validator tag against value and turns a failure into a validation error
// carrying msg.
func check(value any, tag, msg string) error {
	if err := fieldValidator().Var(value, tag); err != nil {
		return Validationf("%s", msg)
	}
	return nil
}

func checkFirstName(v string) error {
	return check(v, "required,max=50", "invalid first_name: must be non-empty and at most 50 characters")
}

func checkLastName(v string) error {
	return check(v, "required,max=50", "invalid last_name: must be non-empty and at most 50 characters")
}

func checkEmail(v string) error {
	return check(v, "required,email", "invalid email format")
}

func checkTitle(v string) error {
	return check(v, "required,max=100", "invalid title: must be non-empty and at most 100 characters")
}

func checkPrice(v float64) error {
	return check(v, "gte=0", "invalid price: must be non-negative")
}

func checkLatitude(v float64) error {
	return check(v, "gte=-90,lte=90", "invalid latitude: must be between -90 and 90")
}

func checkLongitude(v float64) error {
	return check(v, "gte=-180,lte=180", "invalid longitude: must be between -180 and 180")
}

func checkAmenityName(v string) error {
	return check(v, "required,max=50", "invalid name: must be non-empty and at most 50 characters")
}

func checkReviewText(v string) error {
	return check(v, "required", "invalid text: must be non-empty")
}

func checkRating(v int) error {
	return check(v, "gte=1,lte=5", "invalid rating: must be between 1 and 5")
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
