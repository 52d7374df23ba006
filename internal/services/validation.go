package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"recipebox/internal/apperr"
)

const (
	msgBlank    = "This field may not be blank."
	msgTooLong  = "Ensure this field has no more than %d characters."
	msgNegative = "Ensure this value is greater than or equal to 0."

	maxPriceDigits   = 6
	maxPricePlaces   = 2
	maxNestedNameLen = 255
)

// cleanName trims a required name and checks its length.
func cleanName(field, name string, max int) (string, *apperr.Error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.FieldError(field, msgBlank)
	}
	if utf8.RuneCountInString(name) > max {
		return "", apperr.FieldError(field, tooLong(max))
	}
	return name, nil
}

// checkNames rejects nested names that are blank or too long.
func checkNames(field string, names []string) *apperr.Error {
	for _, name := range names {
		if _, err := cleanName(field, name, maxNestedNameLen); err != nil {
			return err
		}
	}
	return nil
}

// checkPrice enforces numeric(6,2): at most two decimal places and four
// integer digits.
func checkPrice(price decimal.Decimal) *apperr.Error {
	if !price.Truncate(maxPricePlaces).Equal(price) {
		return apperr.FieldError("price", "Ensure that there are no more than 2 decimal places.")
	}
	limit := decimal.New(1, maxPriceDigits-maxPricePlaces)
	if price.Abs().GreaterThanOrEqual(limit) {
		return apperr.FieldError("price", "Ensure that there are no more than 6 digits in total.")
	}
	return nil
}

func tooLong(max int) string {
	return fmt.Sprintf(msgTooLong, max)
}
