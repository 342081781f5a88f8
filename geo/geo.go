// Package geo holds the coordinate validation rules and the great-circle
// distance used by the scooter search. Everything here is pure: validated
// values are rounded to a fixed precision so two logically-equal coordinates
// from different call sites always compare equal.
package geo

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel errors for the validation failure modes. Callers match with
// errors.Is and report the wrapped reason to the client.
var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidRadius     = errors.New("invalid radius")
	ErrInvalidScooterID  = errors.New("invalid scooter id")
)

// EarthRadiusMeters is the mean Earth radius used for haversine distances
const EarthRadiusMeters = 6371000.0

// coordinatePrecision is the number of decimal places validated coordinates
// are rounded to (~0.11m of latitude)
const coordinatePrecision = 6

// MaxScooterIDLength caps scooter ids at the fleet-management limit
const MaxScooterIDLength = 100

var scooterIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Options controls the optional coordinate checks
type Options struct {
	// CheckRegionBounds requires the point to fall inside at least one
	// configured operating region
	CheckRegionBounds bool
	// AllowNullIsland accepts the degenerate (0,0) point, which is rejected
	// by default as a likely data-entry error
	AllowNullIsland bool
}

// boundingBox is one rectangular operating region
type boundingBox struct {
	name           string
	minLat, maxLat float64
	minLng, maxLng float64
}

// The supported operating regions. A point is in-region if it falls inside
// any one box; the boxes are deliberately disjoint.
var operatingRegions = []boundingBox{
	{name: "continental US", minLat: 24.5, maxLat: 49.5, minLng: -125.0, maxLng: -66.9},
	{name: "Alaska", minLat: 51.0, maxLat: 71.6, minLng: -180.0, maxLng: -129.0},
	{name: "Hawaii", minLat: 18.5, maxLat: 22.5, minLng: -160.6, maxLng: -154.5},
	{name: "Puerto Rico", minLat: 17.5, maxLat: 18.6, minLng: -67.5, maxLng: -65.1},
}

// ValidateCoordinates validates a latitude/longitude pair and returns it
// rounded to 6 decimal places
func ValidateCoordinates(lat, lng float64, opts Options) (float64, float64, error) {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return 0, 0, fmt.Errorf("%w: coordinates must not be NaN", ErrInvalidCoordinate)
	}
	if math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return 0, 0, fmt.Errorf("%w: coordinates must be finite", ErrInvalidCoordinate)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("%w: latitude must be in range [-90, 90], got %v", ErrInvalidCoordinate, lat)
	}
	if lng < -180 || lng > 180 {
		return 0, 0, fmt.Errorf("%w: longitude must be in range [-180, 180], got %v", ErrInvalidCoordinate, lng)
	}

	lat = round(lat, coordinatePrecision)
	lng = round(lng, coordinatePrecision)

	if lat == 0 && lng == 0 && !opts.AllowNullIsland {
		return 0, 0, fmt.Errorf("%w: (0, 0) is Null Island, almost certainly a data-entry error", ErrInvalidCoordinate)
	}

	if opts.CheckRegionBounds && !inAnyRegion(lat, lng) {
		return 0, 0, fmt.Errorf("%w: point (%v, %v) is outside all operating regions", ErrInvalidCoordinate, lat, lng)
	}

	return lat, lng, nil
}

// ParseCoordinates validates a latitude/longitude pair arriving as strings,
// e.g. from query parameters
func ParseCoordinates(latStr, lngStr string, opts Options) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: coordinates must be valid numbers", ErrInvalidCoordinate)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: coordinates must be valid numbers", ErrInvalidCoordinate)
	}
	return ValidateCoordinates(lat, lng, opts)
}

// ValidateRadius validates a search radius in meters against the configured
// maximum
func ValidateRadius(radius, max float64) (float64, error) {
	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return 0, fmt.Errorf("%w: radius must be a valid number", ErrInvalidRadius)
	}
	if radius <= 0 {
		return 0, fmt.Errorf("%w: radius must be greater than 0", ErrInvalidRadius)
	}
	if radius > max {
		return 0, fmt.Errorf("%w: radius must be at most %v meters", ErrInvalidRadius, max)
	}
	return radius, nil
}

// ParseRadius validates a radius arriving as a string
func ParseRadius(radiusStr string, max float64) (float64, error) {
	radius, err := strconv.ParseFloat(strings.TrimSpace(radiusStr), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: radius must be a valid number", ErrInvalidRadius)
	}
	return ValidateRadius(radius, max)
}

// ValidateScooterID trims and validates a scooter id
func ValidateScooterID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: scooter id cannot be empty", ErrInvalidScooterID)
	}
	if len(id) > MaxScooterIDLength {
		return "", fmt.Errorf("%w: scooter id is too long (max %d characters)", ErrInvalidScooterID, MaxScooterIDLength)
	}
	if !scooterIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: scooter id may only contain letters, digits, dashes and underscores", ErrInvalidScooterID)
	}
	return id, nil
}

// Haversine returns the great-circle distance in meters between two points.
// Coordinates are never projected, so the result is approximate for very
// large separations; the supported search radius is capped well below that.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

func inAnyRegion(lat, lng float64) bool {
	for _, b := range operatingRegions {
		if lat >= b.minLat && lat <= b.maxLat && lng >= b.minLng && lng <= b.maxLng {
			return true
		}
	}
	return false
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
