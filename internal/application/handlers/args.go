package handlers

import (
	"fmt"
	"strconv"
	"strings"
)

// parsePositive parses an operator-supplied number that must be 1 or more.
func parsePositive(arg, what string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", what, arg)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid %s %d: must be 1 or more", what, n)
	}
	return n, nil
}

// isNumber reports whether arg is all digits.
func isNumber(arg string) bool {
	if arg == "" {
		return false
	}
	for _, r := range arg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
