// Package geo validates search coordinates and radii and computes
// great-circle distances. Everything here is pure; callers run these checks
// before any network request is issued.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// EarthRadiusMiles is the mean Earth radius used by CalculateDistance.
const EarthRadiusMiles = 3959.0

// Radius bounds accepted by the camera search tool.
const (
	MinRadius     = 10
	MaxRadius     = 500
	DefaultRadius = 50
)

// ValidationError reports a coordinate or radius rejected at the input boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation is the outcome of ValidateCoordinates. Lat and Lng hold the
// parsed values only when Valid is true.
type Validation struct {
	Valid bool
	Lat   float64
	Lng   float64
	Error string
}

// Err returns the validation failure as a *ValidationError, or nil.
func (v Validation) Err() error {
	if v.Valid {
		return nil
	}
	return &ValidationError{Field: "coordinates", Message: v.Error}
}

// ValidateCoordinates parses and range-checks a latitude/longitude pair.
// The first violated constraint is reported.
func ValidateCoordinates(lat, lng string) Validation {
	latitude, latErr := parseFinite(lat)
	longitude, lngErr := parseFinite(lng)
	if latErr != nil || lngErr != nil {
		return Validation{Error: "Coordinates must be numbers"}
	}
	return ValidatePoint(latitude, longitude)
}

// ValidatePoint applies the range rules of ValidateCoordinates to parsed values.
func ValidatePoint(lat, lng float64) Validation {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return Validation{Error: "Coordinates must be numbers"}
	}
	if lat < -90 || lat > 90 {
		return Validation{Error: "Latitude must be between -90 and 90"}
	}
	if lng < -180 || lng > 180 {
		return Validation{Error: "Longitude must be between -180 and 180"}
	}
	return Validation{Valid: true, Lat: lat, Lng: lng}
}

// ValidateRadius parses a search radius in miles. Blank input yields fallback.
func ValidateRadius(value string, fallback int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		trimmed = strconv.Itoa(fallback)
	}
	radius, err := strconv.Atoi(trimmed)
	if err != nil || !RadiusInRange(radius) {
		return 0, &ValidationError{
			Field:   "radius",
			Message: fmt.Sprintf("Radius must be between %d and %d miles", MinRadius, MaxRadius),
		}
	}
	return radius, nil
}

// RadiusInRange reports whether radius lies within [MinRadius, MaxRadius].
func RadiusInRange(radius int) bool {
	return radius >= MinRadius && radius <= MaxRadius
}

// CalculateDistance returns the haversine distance in miles between two points.
func CalculateDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMiles * c
}

func toRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

func parseFinite(value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %q", value)
	}
	return f, nil
}
