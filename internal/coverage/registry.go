package coverage

import (
	"errors"
	"fmt"
)

// Descriptor holds the provider-specific query parameters for one supported
// technology. The table is static process-wide data.
type Descriptor struct {
	ID      string  `json:"id"`
	LayerID string  `json:"layerId"`
	StyleID string  `json:"styleId"`
	Opacity float64 `json:"opacity"`
}

// ErrUnknownTechnology signals that a caller asked for a technology the
// registry does not know. This is a caller error, distinct from "no coverage".
var ErrUnknownTechnology = errors.New("unknown technology")

var descriptors = []Descriptor{
	{ID: "2G", LayerID: "coverage:gsm", StyleID: "coverage-2g", Opacity: 0.55},
	{ID: "3G", LayerID: "coverage:umts", StyleID: "coverage-3g", Opacity: 0.55},
	{ID: "4G", LayerID: "coverage:lte", StyleID: "coverage-4g", Opacity: 0.6},
	{ID: "5G", LayerID: "coverage:nr", StyleID: "coverage-5g", Opacity: 0.6},
	{ID: "fixed-lte", LayerID: "coverage:fixed_lte", StyleID: "coverage-fixed-lte", Opacity: 0.6},
	{ID: "fixed-wireless", LayerID: "coverage:fwa", StyleID: "coverage-fwa", Opacity: 0.6},
	{ID: "fibre", LayerID: "coverage:fibre", StyleID: "coverage-fibre", Opacity: 0.7},
	{ID: "licensed-wireless", LayerID: "coverage:licensed_wireless", StyleID: "coverage-lw", Opacity: 0.6},
}

// All returns the supported technology descriptors in registry order.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Describe looks up the descriptor for a technology id.
func Describe(id string) (Descriptor, error) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownTechnology, id)
}
