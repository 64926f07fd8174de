package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCursor parses a pagination cursor (block timestamp in nanoseconds).
// An empty input means no cursor.
func ParseCursor(input string) (*uint64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	if !isNumeric(input) {
		return nil, fmt.Errorf("invalid cursor: %q", input)
	}
	val, err := strconv.ParseUint(input, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	return &val, nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}
