package pathutil

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned when a path segment is not a positive integer ID.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive integer ID from a path segment, typically
// the value of a {id} route wildcard.
func ParseID(segment string) (int64, error) {
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
