// Package parser pulls contest exchange fields out of a free-text line as an
// operator types it during a contest, e.g. "DL5ABC JN59MO 59001 B01".
package parser

import (
	"regexp"
	"strings"

	"github.com/shrimpsizemoose/qsolog/internal/models"
)

var (
	multiplierRegex = regexp.MustCompile(`(?i)^([0-9]+)?[a-z][0-9]{2}`)
	exchangeRegex   = regexp.MustCompile(`^[0-9]+`)
	locatorRegex    = regexp.MustCompile(`(?i)^[a-z]{2}[0-9]{2}[a-z]{2}`)
	callsignRegex   = regexp.MustCompile(`(?i)^([a-z0-9]+/)?[a-z]{1,2}[0-9]+[a-z]+(/p|/m|/mm|/am)?`)
)

// Ambiguity marks a token that looked like a callsign but also like a
// locator. It is never used as a callsign.
type Ambiguity struct {
	Token string
}

func (a Ambiguity) String() string {
	return a.Token + " looks like a locator and was ignored as callsign"
}

// Result holds the extracted fields. Empty strings mean "not found".
type Result struct {
	MultiplierCode string
	Report         string
	Serial         string
	Locator        string
	Callsign       string

	Ambiguities []Ambiguity
}

// state is folded over the tokens from right to left.
type state struct {
	result Result

	multiplierFound bool
	exchangeFound   bool
	locatorFound    bool
	callsignFound   bool
}

func (s state) done() bool {
	return s.multiplierFound && s.exchangeFound && s.locatorFound && s.callsignFound
}

// consume tests one token against the patterns in priority order. The first
// pattern that matches claims the token.
func (s state) consume(token string) state {
	if s.done() {
		return s
	}

	if !s.multiplierFound {
		if m := multiplierRegex.FindString(token); m != "" {
			s.result.MultiplierCode = strings.ToUpper(m)
			s.multiplierFound = true
			return s
		}
	}

	if !s.exchangeFound {
		if m := exchangeRegex.FindString(token); m != "" {
			s.result.Report, s.result.Serial = splitExchange(m)
			s.exchangeFound = true
			return s
		}
	}

	if !s.locatorFound {
		if m := locatorRegex.FindString(token); m != "" {
			s.result.Locator = strings.ToUpper(m)
			s.locatorFound = true
			return s
		}
	}

	if !s.callsignFound {
		if locatorRegex.MatchString(token) {
			s.result.Ambiguities = append(s.result.Ambiguities, Ambiguity{Token: token})
			return s
		}
		if m := callsignRegex.FindString(token); m != "" {
			s.result.Callsign = strings.ToUpper(m)
			s.callsignFound = true
		}
	}

	return s
}

// splitExchange splits a digit run into report (first two digits) and serial
// (the rest, zero padded). A run of one or two digits has no serial.
func splitExchange(digits string) (string, string) {
	if len(digits) <= 2 {
		return digits, ""
	}
	serial, _ := models.NormalizeSerial(digits[2:])
	return digits[:2], serial
}

// Extract parses one input line. Tokens are inspected from the end of the line
// backwards because operators type the exchange after the callsign.
func Extract(line string) Result {
	tokens := strings.Fields(line)

	var s state
	for i := len(tokens) - 1; i >= 0; i-- {
		s = s.consume(tokens[i])
	}
	return s.result
}

// Found reports whether every field was extracted.
func (r Result) Found() bool {
	return r.MultiplierCode != "" && r.Report != "" && r.Locator != "" && r.Callsign != ""
}
