package handlers

import (
	"errors"
	"fmt"
)

var errStartAfterEnd = errors.New("start_date must be before end_date")

func errInvalidDate(field string, err error) error {
	return fmt.Errorf("invalid %s (want YYYY-MM-DD): %w", field, err)
}
