package repositories

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"recipebox/internal/apperr"
)

// translate maps storage failures onto domain errors. Lookups that find
// nothing become not-found and uniqueness violations become integrity
// errors; anything else is wrapped with the operation name.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(fmt.Errorf("%s: %w", op, err))
	case isDuplicate(err):
		return apperr.Integrity(fmt.Errorf("%s: %w", op, err))
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
