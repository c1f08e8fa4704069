package raster

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
)

// era5Var maps a wind component to its ERA5 10-meter variable name.
func era5Var(comp Component) string {
	if comp == ComponentV {
		return "v10"
	}
	return "u10"
}

// NetCDFReader reads one 2-D wind component variable from a NetCDF file.
// Values are taken as physical m/s; for variables with a leading time
// dimension the first timestep is used.
type NetCDFReader struct {
	Var string
}

// ReadGrid implements Reader.
func (r *NetCDFReader) ReadGrid(path string) (domain.SampleGrid, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return domain.SampleGrid{}, fmt.Errorf("open netcdf: %w", err)
	}
	defer nc.Close()

	vg, err := nc.GetVarGetter(r.Var)
	if err != nil {
		return domain.SampleGrid{}, fmt.Errorf("%s: variable %q: %w", path, r.Var, err)
	}
	values, err := vg.Values()
	if err != nil {
		return domain.SampleGrid{}, fmt.Errorf("%s: read %q: %w", path, r.Var, err)
	}

	grid, err := gridFromValues(values)
	if err != nil {
		return domain.SampleGrid{}, fmt.Errorf("%s: variable %q: %w", path, r.Var, err)
	}
	return grid, nil
}

// gridFromValues converts the netcdf library's dynamically typed slices
// into a sample grid. 3-D shapes are reduced to their first slice.
func gridFromValues(values any) (domain.SampleGrid, error) {
	switch v := values.(type) {
	case [][]float64:
		return gridFromRows(v, func(x float64) float64 { return x })
	case [][]float32:
		return gridFromRows(v, func(x float32) float64 { return float64(x) })
	case [][][]float64:
		if len(v) == 0 {
			return domain.SampleGrid{}, fmt.Errorf("empty time dimension")
		}
		return gridFromRows(v[0], func(x float64) float64 { return x })
	case [][][]float32:
		if len(v) == 0 {
			return domain.SampleGrid{}, fmt.Errorf("empty time dimension")
		}
		return gridFromRows(v[0], func(x float32) float64 { return float64(x) })
	default:
		return domain.SampleGrid{}, fmt.Errorf("unsupported value type %T", values)
	}
}

func gridFromRows[T float32 | float64](rows [][]T, conv func(T) float64) (domain.SampleGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return domain.SampleGrid{}, fmt.Errorf("empty grid")
	}
	grid := domain.NewSampleGrid(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != grid.Cols {
			return domain.SampleGrid{}, fmt.Errorf("ragged row %d: %d != %d columns", r, len(row), grid.Cols)
		}
		for c, val := range row {
			grid.Set(r, c, conv(val))
		}
	}
	return grid, nil
}
