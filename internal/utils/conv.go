package utils

import (
	"strconv"
)

// ParseID parses a positive surrogate key from a path parameter.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// FormatID renders a surrogate key for use in a path.
func FormatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
