package coverage

import (
	"encoding/json"
	"strings"

	"coverage_backend/platform/logger"
)

// defaultQuality maps each technology to its assumed quality score when the
// provider returns features without any signal measurements.
var defaultQuality = map[string]int{
	"2G":             60,
	"3G":             70,
	"4G":             85,
	"5G":             95,
	"fixed-wireless": 80,
	"fibre":          98,
	"fixed-lte":      75,
}

// fallbackQuality applies to technologies missing from the default table.
const fallbackQuality = 65

// signalProperties are the feature property names treated as signal
// measurements when deriving a quality score.
var signalProperties = []string{"signal", "strength", "quality", "level", "power", "rssi"}

// noCoverageMarkers are the plain-text fragments providers use to say a
// point has no features or is out of bounds.
var noCoverageMarkers = []string{"no features", "outside"}

// Interpret converts one decoded transport response into an observation.
// It is a pure transform: a malformed response yields (zero, false) and is
// logged, never an error.
func Interpret(raw RawResponse, technology string, log *logger.Logger) (Observation, bool) {
	switch raw.Kind {
	case KindBinary:
		return interpretBinary(raw, technology), true
	case KindJSON:
		return interpretFeatures(raw, technology, log)
	default:
		return interpretText(raw, technology), true
	}
}

// interpretBinary treats any non-empty payload as coverage. Heuristic: the
// provider does not reliably distinguish "no coverage" from an empty or
// placeholder image in tile mode, so an empty body is the only negative
// signal available. May produce false positives pending provider
// documentation.
func interpretBinary(raw RawResponse, technology string) Observation {
	return Observation{
		Technology: technology,
		Available:  len(raw.Binary) > 0,
	}
}

type featureCollection struct {
	Features []json.RawMessage `json:"features"`
}

func interpretFeatures(raw RawResponse, technology string, log *logger.Logger) (Observation, bool) {
	features, ok := extractFeatures(raw.JSON)
	if !ok {
		if log != nil {
			log.ParseAnomaly(technology, "unparseable feature payload")
		}
		return Observation{}, false
	}

	obs := Observation{
		Technology: technology,
		Available:  len(features) > 0,
		Features:   raw.JSON,
	}
	if !obs.Available {
		return obs, true
	}

	quality, measured := averageSignal(features)
	if !measured {
		quality = defaultQualityFor(technology)
	}

	obs.Quality = quality
	obs.Strength = strengthTier(quality, len(features))
	obs.Infrastructure = infrastructureLabel(features)

	return obs, true
}

func interpretText(raw RawResponse, technology string) Observation {
	text := strings.TrimSpace(raw.Text)
	lower := strings.ToLower(text)

	available := text != ""
	for _, marker := range noCoverageMarkers {
		if strings.Contains(lower, marker) {
			available = false
			break
		}
	}

	// No quality or strength is derivable from text alone.
	return Observation{Technology: technology, Available: available}
}

// extractFeatures accepts both a GeoJSON-style FeatureCollection and a bare
// array of features.
func extractFeatures(payload json.RawMessage) ([]map[string]interface{}, bool) {
	var collection featureCollection
	raw := payload

	if err := json.Unmarshal(payload, &collection); err == nil && collection.Features != nil {
		merged, err := json.Marshal(collection.Features)
		if err != nil {
			return nil, false
		}
		raw = merged
	}

	var features []map[string]interface{}
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, false
	}
	return features, true
}

// averageSignal averages every numeric property whose name matches a known
// signal field, across all features. The second return is false when no
// measurement was found.
func averageSignal(features []map[string]interface{}) (int, bool) {
	var sum float64
	var count int

	for _, f := range features {
		props := properties(f)
		for _, name := range signalProperties {
			if v, ok := props[name]; ok {
				if n, ok := v.(float64); ok {
					sum += n
					count++
				}
			}
		}
	}

	if count == 0 {
		return 0, false
	}

	avg := sum / float64(count)
	if avg < 0 {
		avg = 0
	}
	if avg > 100 {
		avg = 100
	}
	return int(avg + 0.5), true
}

// properties returns the feature's properties object when present, otherwise
// the feature itself, with keys lowercased.
func properties(feature map[string]interface{}) map[string]interface{} {
	source := feature
	if nested, ok := feature["properties"].(map[string]interface{}); ok {
		source = nested
	}

	out := make(map[string]interface{}, len(source))
	for k, v := range source {
		out[strings.ToLower(k)] = v
	}
	return out
}

func infrastructureLabel(features []map[string]interface{}) string {
	for _, f := range features {
		props := properties(f)
		if label, ok := props["infrastructure"].(string); ok && label != "" {
			return label
		}
	}
	return ""
}

func defaultQualityFor(technology string) int {
	if q, ok := defaultQuality[technology]; ok {
		return q
	}
	return fallbackQuality
}

// strengthTier buckets a quality score and feature density into a coarse
// tier.
func strengthTier(quality, featureCount int) Strength {
	switch {
	case quality >= 85 && featureCount >= 3:
		return StrengthHigh
	case quality >= 65 || featureCount >= 2:
		return StrengthMedium
	default:
		return StrengthLow
	}
}
