// Package geo converts Maidenhead grid locators to coordinates and measures
// the distance between two of them on a spherical earth.
package geo

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// KMPerDegree is the arc length of one degree used by the contest rules.
const KMPerDegree = 111.1

var ErrInvalidLocator = errors.New("invalid locator")

var locatorRegex = regexp.MustCompile(`^[A-Za-z]{2}[0-9]{2}[A-Za-z]{2}$`)

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (c Coordinates) radians() (float64, float64) {
	return c.Lat * math.Pi / 180, c.Lon * math.Pi / 180
}

// Valid reports whether s has the six character AA99AA shape.
func Valid(s string) bool {
	return locatorRegex.MatchString(s)
}

// Field returns the four character field of a locator, e.g. JN59MO -> JN59.
// Shorter input is returned upper-cased as is.
func Field(locator string) string {
	locator = strings.ToUpper(locator)
	if len(locator) < 4 {
		return locator
	}
	return locator[:4]
}

// ToCoordinates decodes a locator to the center of its sub-square.
func ToCoordinates(locator string) (Coordinates, error) {
	if !Valid(locator) {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrInvalidLocator, locator)
	}
	l := strings.ToUpper(locator)

	lon := float64(l[0]-'A')*20 - 180 +
		float64(l[2]-'0')*2 +
		(float64(l[4]-'A')+0.5)/12

	lat := float64(l[1]-'A')*10 - 90 +
		float64(l[3]-'0') +
		(float64(l[5]-'A')+0.5)/24

	return Coordinates{Lat: lat, Lon: lon}, nil
}

// DistanceKM returns the great-circle distance between two locators using the
// spherical law of cosines and KMPerDegree.
func DistanceKM(a, b string) (float64, error) {
	ca, err := ToCoordinates(a)
	if err != nil {
		return 0, err
	}
	cb, err := ToCoordinates(b)
	if err != nil {
		return 0, err
	}

	if ca == cb {
		return 0, nil
	}

	lat1, lon1 := ca.radians()
	lat2, lon2 := cb.radians()

	cse := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(lon1-lon2)
	// rounding can push the cosine just past 1 for identical points
	cse = math.Max(-1, math.Min(1, cse))

	return math.Acos(cse) * 180 / math.Pi * KMPerDegree, nil
}
