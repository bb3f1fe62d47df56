package models

import "strings"

// Operator describes the station running the log.
type Operator struct {
	Call    string `toml:"call" validate:"required,callsign"`
	Locator string `toml:"locator" validate:"required,locator"`
	DOK     string `toml:"dok" validate:"required,alphanum,max=8"`
	Name    string `toml:"name" validate:"required"`
	Address string `toml:"address" validate:"required"`
	QTH     string `toml:"qth" validate:"required"`
}

func (o *Operator) Normalize() {
	o.Call = strings.ToUpper(strings.TrimSpace(o.Call))
	o.Locator = strings.ToUpper(strings.TrimSpace(o.Locator))
	o.DOK = strings.ToUpper(strings.TrimSpace(o.DOK))
}

func (o *Operator) Validate() error {
	return validate.Struct(o)
}
