package api

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned for a path id that is not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a record id taken from the request path.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return uint(id), nil
}
