package geo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lng     string
		valid   bool
		wantErr string
	}{
		{"san francisco", "37.7749", "-122.4194", true, ""},
		{"latitude too high", "91", "0", false, "Latitude must be between -90 and 90"},
		{"latitude too low", "-90.5", "0", false, "Latitude must be between -90 and 90"},
		{"longitude too high", "0", "181", false, "Longitude must be between -180 and 180"},
		{"bounds inclusive", "-90", "180", true, ""},
		{"not a number", "abc", "0", false, "Coordinates must be numbers"},
		{"empty longitude", "10", "", false, "Coordinates must be numbers"},
		{"infinite", "Inf", "0", false, "Coordinates must be numbers"},
		{"both bad reports latitude first", "95", "200", false, "Latitude must be between -90 and 90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateCoordinates(tt.lat, tt.lng)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.wantErr, got.Error)
			if tt.valid {
				assert.NoError(t, got.Err())
			} else {
				var vErr *ValidationError
				require.True(t, errors.As(got.Err(), &vErr))
				assert.Equal(t, tt.wantErr, vErr.Message)
			}
		})
	}
}

func TestValidateCoordinates_EchoesParsedFloats(t *testing.T) {
	got := ValidateCoordinates(" 37.7749 ", "-122.4194")
	require.True(t, got.Valid)
	assert.Equal(t, 37.7749, got.Lat)
	assert.Equal(t, -122.4194, got.Lng)
}

func TestValidateRadius(t *testing.T) {
	r, err := ValidateRadius("", DefaultRadius)
	require.NoError(t, err)
	assert.Equal(t, DefaultRadius, r)

	r, err = ValidateRadius(" 10 ", DefaultRadius)
	require.NoError(t, err)
	assert.Equal(t, 10, r)

	r, err = ValidateRadius("500", DefaultRadius)
	require.NoError(t, err)
	assert.Equal(t, 500, r)

	for _, bad := range []string{"9", "501", "ten", "12.5", "-50"} {
		_, err := ValidateRadius(bad, DefaultRadius)
		var vErr *ValidationError
		require.Truef(t, errors.As(err, &vErr), "ValidateRadius(%q) error = %v", bad, err)
		assert.Equal(t, "radius", vErr.Field)
	}
}

func TestCalculateDistance_ZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, CalculateDistance(0, 0, 0, 0))
	assert.Equal(t, 0.0, CalculateDistance(37.7749, -122.4194, 37.7749, -122.4194))
}

func TestCalculateDistance_Symmetric(t *testing.T) {
	points := [][2]float64{
		{37.7749, -122.4194},
		{40.7128, -74.0060},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
		{0, -180},
	}
	for _, a := range points {
		for _, b := range points {
			ab := CalculateDistance(a[0], a[1], b[0], b[1])
			ba := CalculateDistance(b[0], b[1], a[0], a[1])
			assert.InDeltaf(t, ab, ba, 1e-9, "d(%v,%v) != d(%v,%v)", a, b, b, a)
		}
	}
}

func TestCalculateDistance_KnownPair(t *testing.T) {
	// San Francisco to New York is roughly 2570 miles.
	d := CalculateDistance(37.7749, -122.4194, 40.7128, -74.0060)
	assert.InDelta(t, 2570, d, 15)

	// A quarter of the circumference along the equator.
	quarter := CalculateDistance(0, 0, 0, 90)
	assert.InDelta(t, math.Pi*EarthRadiusMiles/2, quarter, 1e-6)
}
