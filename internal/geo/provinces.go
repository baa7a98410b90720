package geo

// region is a rectangular geographic envelope with a name. Envelopes are a
// coarse approximation of province borders, not a polygon test; where they
// overlap, the first listed region wins.
type region struct {
	name   string
	minLat float64
	maxLat float64
	minLng float64
	maxLng float64
}

func (r region) contains(p Point) bool {
	return p.Lat >= r.minLat && p.Lat <= r.maxLat && p.Lng >= r.minLng && p.Lng <= r.maxLng
}

// countryBounds is the envelope of mainland South Africa.
var countryBounds = region{
	name:   "South Africa",
	minLat: -35.0, maxLat: -22.0,
	minLng: 16.0, maxLng: 33.0,
}

// provinces is an ordered lookup table. Gauteng is listed first because its
// envelope is smallest and sits inside the overlap of several neighbours.
var provinces = []region{
	{name: "Gauteng", minLat: -26.6, maxLat: -25.1, minLng: 27.1, maxLng: 29.1},
	{name: "Western Cape", minLat: -34.9, maxLat: -31.0, minLng: 17.8, maxLng: 23.0},
	{name: "KwaZulu-Natal", minLat: -31.1, maxLat: -26.8, minLng: 28.9, maxLng: 32.9},
	{name: "Eastern Cape", minLat: -34.2, maxLat: -30.0, minLng: 22.5, maxLng: 30.2},
	{name: "Mpumalanga", minLat: -27.5, maxLat: -24.0, minLng: 28.9, maxLng: 32.0},
	{name: "Limpopo", minLat: -25.2, maxLat: -22.1, minLng: 26.4, maxLng: 31.9},
	{name: "North West", minLat: -28.0, maxLat: -24.6, minLng: 22.6, maxLng: 28.4},
	{name: "Free State", minLat: -30.7, maxLat: -26.6, minLng: 24.3, maxLng: 29.8},
	{name: "Northern Cape", minLat: -32.0, maxLat: -26.0, minLng: 16.5, maxLng: 25.0},
}

// ProvinceUnknown is returned when a point matches no province envelope.
const ProvinceUnknown = "Unknown"

// InSouthAfrica reports whether the point lies inside the country envelope.
func InSouthAfrica(p Point) bool {
	return countryBounds.contains(p)
}

// Province returns the name of the first province envelope containing the
// point, or ProvinceUnknown.
func Province(p Point) string {
	for _, r := range provinces {
		if r.contains(p) {
			return r.name
		}
	}
	return ProvinceUnknown
}
