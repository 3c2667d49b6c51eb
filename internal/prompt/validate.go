package prompt

import (
	"errors"
	"strconv"
	"strings"

	"github.com/muurk/tr064-debug/internal/tr064"
)

// Required rejects empty answers
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}

// IPv4 accepts dotted-quad IPv4 addresses
func IPv4(s string) error {
	if err := tr064.ValidateIPv4(s); err != nil {
		return errors.New("please enter a valid IPv4 address")
	}
	return nil
}

// Port accepts numeric TCP ports
func Port(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("please enter a number")
	}
	if tr064.ValidatePort(n) != nil {
		return errors.New("please enter a port between 1 and 65535")
	}
	return nil
}

// NonNegative accepts integers >= 0
func NonNegative(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return errors.New("please enter a number")
	}
	if n < 0 {
		return errors.New("please enter a number >= 0")
	}
	return nil
}

// TrimSpace is a Filter removing surrounding whitespace
func TrimSpace(s string) string {
	return strings.TrimSpace(s)
}
