package config

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/windspeed-raster/internal/domain"
)

func TestParseArgs_Defaults(t *testing.T) {
	var out bytes.Buffer
	opts, showVersion, err := ParseArgs([]string{"u.png", "v.png", "out.png"}, &out)
	require.NoError(t, err)
	assert.False(t, showVersion)

	assert.Equal(t, "u.png", opts.UFile)
	assert.Equal(t, "v.png", opts.VFile)
	assert.Equal(t, "out.png", opts.OutFile)
	assert.Equal(t, domain.Meters, opts.Units)
	assert.Empty(t, opts.Projection)
	assert.Equal(t, 1.0, opts.Rescale)
	assert.Equal(t, runtime.NumCPU(), opts.Workers)
	assert.Zero(t, opts.SourceShape, "unset source shape defers to pipeline defaults")
	assert.Nil(t, opts.TargetShape)
	assert.Nil(t, opts.TargetOffset)
}

func TestParseArgs_LongFlags(t *testing.T) {
	var out bytes.Buffer
	opts, _, err := ParseArgs([]string{
		"-sArea", "500,500",
		"-tArea", "250,250",
		"-tOffset", "125,-125",
		"-units", "d",
		"-projection", "+proj=merc +units=m",
		"-rescale", "0.5",
		"-nprocs", "1",
		"u.png", "v.png", "out.png",
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, domain.Shape{Width: 500, Height: 500}, opts.SourceShape)
	require.NotNil(t, opts.TargetShape)
	assert.Equal(t, domain.Shape{Width: 250, Height: 250}, *opts.TargetShape)
	require.NotNil(t, opts.TargetOffset)
	assert.Equal(t, domain.Offset{DX: 125, DY: -125}, *opts.TargetOffset)
	assert.Equal(t, domain.Degrees, opts.Units)
	assert.Equal(t, "+proj=merc +units=m", opts.Projection)
	assert.Equal(t, 0.5, opts.Rescale)
	assert.Equal(t, 1, opts.Workers)
}

func TestParseArgs_ShortAliases(t *testing.T) {
	var out bytes.Buffer
	opts, _, err := ParseArgs([]string{
		"-s", "1000,800",
		"-t", "500,400",
		"-o", "0,0",
		"-u", "m",
		"-r", "0.25",
		"u.png", "v.png", "out.webp",
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, domain.Shape{Width: 1000, Height: 800}, opts.SourceShape)
	require.NotNil(t, opts.TargetShape)
	assert.Equal(t, domain.Shape{Width: 500, Height: 400}, *opts.TargetShape)
	require.NotNil(t, opts.TargetOffset)
	assert.Equal(t, domain.Offset{}, *opts.TargetOffset,
		"an explicit zero offset is distinct from no offset")
	assert.Equal(t, 0.25, opts.Rescale)
}

func TestParseArgs_InvalidPair(t *testing.T) {
	var out bytes.Buffer
	for _, bad := range []string{"500", "500,500,500", "abc,500", "500;500"} {
		_, _, err := ParseArgs([]string{"-sArea", bad, "u.png", "v.png", "out.png"}, &out)
		assert.Error(t, err, "pair %q", bad)
	}
}

func TestParseArgs_MissingPositionals(t *testing.T) {
	var out bytes.Buffer
	_, _, err := ParseArgs([]string{"u.png", "v.png"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 positional arguments")
	assert.Contains(t, out.String(), "Usage: windspeed")
}

func TestParseArgs_Version(t *testing.T) {
	var out bytes.Buffer
	_, showVersion, err := ParseArgs([]string{"--version"}, &out)
	require.NoError(t, err)
	assert.True(t, showVersion)

	_, showVersion, err = ParseArgs([]string{"-v"}, &out)
	require.NoError(t, err)
	assert.True(t, showVersion)
}
