package models

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownClass = errors.New("unknown contest class")

// Class is a contest participation class. It selects band and mode.
type Class struct {
	Code        string
	Description string
	// CabrilloFreq is the frequency column of Cabrillo QSO lines: kHz on HF,
	// the band designator on VHF/UHF.
	CabrilloFreq int
	CabrilloBand string
	ADIFBand     string
	Mode         string
	CabrilloMode string
}

var Classes = []Class{
	{Code: "B", Description: "80m/40m SSB", CabrilloFreq: 3500, CabrilloBand: "80M", ADIFBand: "80M", Mode: "SSB", CabrilloMode: "PH"},
	{Code: "D", Description: "80m/40m SSB - 100 Watt", CabrilloFreq: 3500, CabrilloBand: "80M", ADIFBand: "80M", Mode: "SSB", CabrilloMode: "PH"},
	{Code: "F", Description: "10m SSB", CabrilloFreq: 28000, CabrilloBand: "10M", ADIFBand: "10M", Mode: "SSB", CabrilloMode: "PH"},
	{Code: "K", Description: "2m SSB", CabrilloFreq: 144, CabrilloBand: "2M", ADIFBand: "2M", Mode: "SSB", CabrilloMode: "PH"},
	{Code: "L", Description: "70cm SSB", CabrilloFreq: 432, CabrilloBand: "432", ADIFBand: "70CM", Mode: "SSB", CabrilloMode: "PH"},
}

func LookupClass(code string) (Class, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Classes {
		if c.Code == code {
			return c, nil
		}
	}
	return Class{}, fmt.Errorf("%w: %q", ErrUnknownClass, code)
}
