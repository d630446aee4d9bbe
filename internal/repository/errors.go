package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DineshPrabhakaran22/Zerodha1/lib/errs"
	"gorm.io/gorm"
)

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// dbError maps gorm failures onto the errs sentinels.
func dbError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case isDuplicate(err):
		return errs.ErrAlreadyExists
	default:
		return fmt.Errorf("%w: %s", errs.ErrDB, err.Error())
	}
}
