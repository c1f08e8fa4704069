// Package domain models wind component rasters and the geometry of
// regridding them onto a user-specified area of interest.
//
// # Sample Encoding
//
// Input rasters are 8-bit grayscale grids, one per wind component (u is the
// zonal component, v is the meridional component). Each sample byte encodes
// a signed wind speed in m/s:
//
//	byte = round(127 * clamp(value/25, -1, 1) + 128)
//
// so byte 128 is 0 m/s, byte 255 is +25 m/s, byte 1 is -25 m/s, and byte 0
// is reserved as the no-data sentinel. 25 m/s is the encoding ceiling
// ([MaxWindSpeed]); faster winds clip. The output raster encodes the
// unsigned magnitude instead, mapping 0..25 m/s onto bytes 0..255, with
// byte 0 doubling as no-data for target cells the source area never covered.
// Inside the pipeline no-data travels as NaN.
//
// # Geometry Conventions
//
// Area shapes and offsets arrive in either meters or degrees. Degrees are
// normalized to meters with a single global constant of 100 km per degree
// (500 m per 0.005°). This is a deliberate approximation: the true
// latitudinal figure is closer to 555 m per 0.005° and varies by latitude,
// and the longitudinal figure shrinks to zero at the poles. The constant is
// exported ([DefaultMetersPerDegree]) and overridable on [UnitConverter] so
// a latitude-aware conversion can be swapped in without touching call sites.
//
// All extents are axis-aligned rectangles in projected meters centered on
// the projection's natural origin. Offsets are measured from the source
// area's centroid, positive x east and positive y north. Raster rows run
// top-down, opposite to increasing y; the default-offset inference in
// [ResolveGeometry] carries the resulting sign flip on the y axis.
package domain
