package geo

import "testing"

func TestInSouthAfrica(t *testing.T) {
	cases := []struct {
		name string
		p    Point
		want bool
	}{
		{"johannesburg", Point{Lat: -26.2041, Lng: 28.0473}, true},
		{"cape town", Point{Lat: -33.9249, Lng: 18.4241}, true},
		{"null island", Point{Lat: 0, Lng: 0}, false},
		{"london", Point{Lat: 51.5074, Lng: -0.1278}, false},
		{"nairobi", Point{Lat: -1.2921, Lng: 36.8219}, false},
	}

	for _, tc := range cases {
		if got := InSouthAfrica(tc.p); got != tc.want {
			t.Fatalf("%s: InSouthAfrica(%+v) = %v, want %v", tc.name, tc.p, got, tc.want)
		}
	}
}

func TestProvince(t *testing.T) {
	cases := []struct {
		name string
		p    Point
		want string
	}{
		{"johannesburg", Point{Lat: -26.2041, Lng: 28.0473}, "Gauteng"},
		{"pretoria", Point{Lat: -25.7479, Lng: 28.2293}, "Gauteng"},
		{"cape town", Point{Lat: -33.9249, Lng: 18.4241}, "Western Cape"},
		{"durban", Point{Lat: -29.8587, Lng: 31.0218}, "KwaZulu-Natal"},
		{"polokwane", Point{Lat: -23.9045, Lng: 29.4689}, "Limpopo"},
		{"null island", Point{Lat: 0, Lng: 0}, ProvinceUnknown},
	}

	for _, tc := range cases {
		if got := Province(tc.p); got != tc.want {
			t.Fatalf("%s: Province(%+v) = %q, want %q", tc.name, tc.p, got, tc.want)
		}
	}
}

func TestProvince_OverlapPrefersFirstListed(t *testing.T) {
	// Inside both the Gauteng envelope and the wider North West envelope.
	p := Point{Lat: -26.5, Lng: 27.9}
	if got := Province(p); got != "Gauteng" {
		t.Fatalf("expected first listed province to win, got %q", got)
	}
}
