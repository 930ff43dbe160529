package geo

import (
	"math"
	"strings"
)

// Location is a built-in shortcut for filling search fields. It is not
// server data.
type Location struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Lat         float64 `json:"lat" yaml:"lat"`
	Lng         float64 `json:"lng" yaml:"lng"`
	RadiusMiles int     `json:"radius" yaml:"radius"`
	Category    string  `json:"category" yaml:"category"`
}

// NearbyLocation pairs a location with its distance from a query point.
type NearbyLocation struct {
	Location
	DistanceMiles float64 `json:"distance" yaml:"distance"`
}

// CategoryAll matches every location in ByCategory.
const CategoryAll = "All"

var popularLocations = []Location{
	{Name: "Yosemite National Park", Description: "Valley views, waterfalls, and iconic landmarks", Lat: 37.7456, Lng: -119.5936, RadiusMiles: 25, Category: "National Park"},
	{Name: "Yellowstone National Park", Description: "Geysers, wildlife, and thermal features", Lat: 44.4280, Lng: -110.5885, RadiusMiles: 50, Category: "National Park"},
	{Name: "Grand Canyon National Park", Description: "South and North Rim views", Lat: 36.1069, Lng: -112.1129, RadiusMiles: 30, Category: "National Park"},
	{Name: "San Francisco Bay Area", Description: "Golden Gate, Bay Bridge, and city views", Lat: 37.7749, Lng: -122.4194, RadiusMiles: 50, Category: "Urban"},
	{Name: "New York City", Description: "Times Square, Central Park, and skyline", Lat: 40.7128, Lng: -74.0060, RadiusMiles: 25, Category: "Urban"},
	{Name: "Miami Beach", Description: "Ocean views, beaches, and weather stations", Lat: 25.7907, Lng: -80.1300, RadiusMiles: 20, Category: "Beach"},
	{Name: "Seattle", Description: "Space Needle, Puget Sound, and mountain views", Lat: 47.6062, Lng: -122.3321, RadiusMiles: 30, Category: "Urban"},
	{Name: "Denver", Description: "Downtown and Rocky Mountain views", Lat: 39.7392, Lng: -104.9903, RadiusMiles: 40, Category: "Urban"},
	{Name: "Big Sur Coast", Description: "Coastal highway and ocean views", Lat: 36.2704, Lng: -121.8081, RadiusMiles: 25, Category: "Coast"},
	{Name: "Lake Tahoe", Description: "Alpine lake and mountain cameras", Lat: 39.0968, Lng: -120.0324, RadiusMiles: 30, Category: "Mountain"},
	{Name: "Glacier National Park", Description: "Mountain peaks and glacial views", Lat: 48.7596, Lng: -113.7870, RadiusMiles: 40, Category: "National Park"},
	{Name: "Acadia National Park", Description: "Rocky coastline and forest views", Lat: 44.3386, Lng: -68.2733, RadiusMiles: 20, Category: "National Park"},
}

var categories = []string{CategoryAll, "National Park", "Urban", "Beach", "Coast", "Mountain"}

// Locations returns a copy of the built-in popular locations.
func Locations() []Location {
	return cloneLocations(popularLocations)
}

// Categories returns the location categories, starting with CategoryAll.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// NextCategory returns the category after current, wrapping around.
func NextCategory(current string) string {
	for i, name := range categories {
		if name == current {
			return categories[(i+1)%len(categories)]
		}
	}
	return categories[0]
}

// ByCategory filters the popular locations. CategoryAll and blank return all.
func ByCategory(category string) []Location {
	category = strings.TrimSpace(category)
	if category == "" || category == CategoryAll {
		return Locations()
	}
	var out []Location
	for _, loc := range popularLocations {
		if loc.Category == category {
			out = append(out, loc)
		}
	}
	return out
}

// FindByName returns the first location whose name or description contains
// term, ignoring case.
func FindByName(term string) (Location, bool) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return Location{}, false
	}
	for _, loc := range popularLocations {
		if strings.Contains(strings.ToLower(loc.Name), needle) ||
			strings.Contains(strings.ToLower(loc.Description), needle) {
			return loc, true
		}
	}
	return Location{}, false
}

// Nearest returns the popular location closest to the given point.
func Nearest(lat, lng float64) (NearbyLocation, bool) {
	var nearest NearbyLocation
	found := false
	minDistance := math.Inf(1)
	for _, loc := range popularLocations {
		d := CalculateDistance(lat, lng, loc.Lat, loc.Lng)
		if d < minDistance {
			minDistance = d
			nearest = NearbyLocation{Location: loc, DistanceMiles: d}
			found = true
		}
	}
	return nearest, found
}

func cloneLocations(in []Location) []Location {
	if len(in) == 0 {
		return nil
	}
	out := make([]Location, len(in))
	copy(out, in)
	return out
}
