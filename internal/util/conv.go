package util

import (
	"strconv"
	"strings"
)

// ParseOptionalUint treats an empty string as absent.
func ParseOptionalUint(s string) (*uint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, err
	}
	id := uint(v)
	return &id, nil
}
