// Package projection binds PROJ4-style projection strings to area
// definitions. The regrid step works entirely in projected meters with the
// same projection on both sides, so validation is limited to what matters:
// the projection must use linear meter units. The string's full PROJ4
// grammar is not re-validated here.
package projection

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
)

// Default is UTM zone 13 north on the WGS84 ellipsoid, natural origin,
// no false easting or northing.
const Default = "+proj=utm +zone=13 +ellps=WGS84 +units=m"

// metricProjections are projection families whose native units are meters
// even when the +units parameter is omitted.
var metricProjections = map[string]bool{
	"utm":   true,
	"tmerc": true,
	"merc":  true,
	"stere": true,
	"laea":  true,
	"lcc":   true,
	"aea":   true,
}

// Spec is a parsed projection specification.
type Spec struct {
	// Raw is the original PROJ4 string.
	Raw string
	// Params holds the +key=value pairs; bare +key flags map to "".
	Params map[string]string
}

// Parse splits a PROJ4-style string into parameters and verifies the
// projection is usable for metric regridding. An empty string selects
// Default. Degree-based projections are rejected: by the time areas are
// bound, every extent has already been normalized to meters.
func Parse(raw string) (Spec, error) {
	if strings.TrimSpace(raw) == "" {
		raw = Default
	}

	params := make(map[string]string)
	for _, tok := range strings.Fields(raw) {
		if !strings.HasPrefix(tok, "+") {
			return Spec{}, fmt.Errorf("projection %q: token %q is not a +parameter", raw, tok)
		}
		key, value, _ := strings.Cut(strings.TrimPrefix(tok, "+"), "=")
		if key == "" {
			return Spec{}, fmt.Errorf("projection %q: empty parameter name", raw)
		}
		params[key] = value
	}

	proj, ok := params["proj"]
	if !ok || proj == "" {
		return Spec{}, fmt.Errorf("projection %q: missing +proj parameter", raw)
	}

	switch units, ok := params["units"]; {
	case ok && units != "m":
		return Spec{}, fmt.Errorf("projection %q: units %q not supported, areas are resolved in meters", raw, units)
	case !ok && !metricProjections[proj]:
		return Spec{}, fmt.Errorf("projection %q: cannot confirm meter units for +proj=%s, add +units=m", raw, proj)
	}

	return Spec{Raw: raw, Params: params}, nil
}

// BindArea pairs a geographic extent with a pixel grid under this
// projection, producing an immutable area definition.
func (s Spec) BindArea(id, description string, rows, cols int, extent domain.Extent) (domain.AreaDefinition, error) {
	area := domain.AreaDefinition{
		ID:          id,
		Description: description,
		Projection:  s.Raw,
		Rows:        rows,
		Cols:        cols,
		Extent:      extent,
	}
	if err := area.Validate(); err != nil {
		return domain.AreaDefinition{}, err
	}
	return area, nil
}
