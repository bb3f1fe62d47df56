package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shrimpsizemoose/qsolog/internal/geo"
)

var (
	reportRegex   = regexp.MustCompile(`^[0-9]{1,3}$`)
	serialRegex   = regexp.MustCompile(`^[0-9]+$`)
	callsignRegex = regexp.MustCompile(`^[A-Z0-9]+(/[A-Z0-9]+)*$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	must("locator", func(fl validator.FieldLevel) bool {
		return geo.Valid(fl.Field().String())
	})
	must("report", func(fl validator.FieldLevel) bool {
		return reportRegex.MatchString(fl.Field().String())
	})
	must("serial", func(fl validator.FieldLevel) bool {
		return serialRegex.MatchString(fl.Field().String())
	})
	must("callsign", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) >= 3 && callsignRegex.MatchString(strings.ToUpper(s))
	})
	return v
}

// NormalizeSerial renders a digit string as a serial number: leading zeros
// are dropped and the result is padded to at least three digits.
func NormalizeSerial(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if !serialRegex.MatchString(s) {
		return "", fmt.Errorf("serial %q is not a number", s)
	}
	s = strings.TrimLeft(s, "0")
	if len(s) < 3 {
		s = strings.Repeat("0", 3-len(s)) + s
	}
	return s, nil
}

// FormatSerial renders n the same way NormalizeSerial does.
func FormatSerial(n int) string {
	return fmt.Sprintf("%03d", n)
}
