package storage

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractWithoutProbeUsesStat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

	extractor := NewMetadataExtractor(nil)
	meta := extractor.Extract(context.Background(), path)

	assert.False(t, meta.FileCreated.IsZero())
	assert.False(t, meta.FileModified.IsZero())
	assert.Nil(t, meta.DateTaken)
	assert.Nil(t, meta.CameraModel)
	assert.Equal(t, "none", extractor.ProbeName())
}

func TestExtractMissingFileNeverErrors(t *testing.T) {
	extractor := NewMetadataExtractor(nil)
	meta := extractor.Extract(context.Background(), "/does/not/exist.jpg")

	// Falls back to now; extraction is best-effort by contract.
	assert.WithinDuration(t, time.Now(), meta.FileCreated, 5*time.Second)
}

func TestExtractDecodesResolutionFromHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	extractor := NewMetadataExtractor(nil)
	meta := extractor.Extract(context.Background(), path)

	require.NotNil(t, meta.Resolution)
	assert.Equal(t, "40x30", *meta.Resolution)
}

func TestParseExifToolOutputFull(t *testing.T) {
	out := []byte(`[{
		"DateTimeOriginal": "2024:06:15 14:30:00",
		"GPSLatitude": 37.7749,
		"GPSLongitude": -122.4194,
		"Make": "Apple",
		"Model": "iPhone 15 Pro",
		"ImageWidth": 4032,
		"ImageHeight": 3024
	}]`)

	result, err := ParseExifToolOutput(out)
	require.NoError(t, err)

	require.NotNil(t, result.DateTaken)
	assert.Equal(t, time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC), *result.DateTaken)
	require.NotNil(t, result.Latitude)
	assert.InDelta(t, 37.7749, *result.Latitude, 1e-9)
	require.NotNil(t, result.Longitude)
	assert.InDelta(t, -122.4194, *result.Longitude, 1e-9)
	require.NotNil(t, result.CameraModel)
	assert.Equal(t, "Apple iPhone 15 Pro", *result.CameraModel)
	require.NotNil(t, result.Resolution)
	assert.Equal(t, "4032x3024", *result.Resolution)
	assert.Equal(t, out, result.Raw)
}

func TestParseExifToolOutputCreateDateFallback(t *testing.T) {
	out := []byte(`[{"CreateDate": "2023:12:01 08:00:00"}]`)

	result, err := ParseExifToolOutput(out)
	require.NoError(t, err)

	require.NotNil(t, result.DateTaken)
	assert.Equal(t, 2023, result.DateTaken.Year())
	assert.Nil(t, result.Latitude)
	assert.Nil(t, result.CameraModel)
	assert.Nil(t, result.Resolution)
}

func TestParseExifToolOutputGPSRequiresBothCoordinates(t *testing.T) {
	out := []byte(`[{"GPSLatitude": 37.7749}]`)

	result, err := ParseExifToolOutput(out)
	require.NoError(t, err)

	assert.Nil(t, result.Latitude)
	assert.Nil(t, result.Longitude)
}

func TestParseExifToolOutputModelOnly(t *testing.T) {
	out := []byte(`[{"Model": "PowerShot G7"}]`)

	result, err := ParseExifToolOutput(out)
	require.NoError(t, err)

	require.NotNil(t, result.CameraModel)
	assert.Equal(t, "PowerShot G7", *result.CameraModel)
}

func TestParseExifToolOutputInvalid(t *testing.T) {
	_, err := ParseExifToolOutput([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseExifToolOutput([]byte("[]"))
	assert.Error(t, err)
}

func TestParseExifDateLayouts(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"2024:06:15 14:30:00", true},
		{"2024:06:15 14:30:00+02:00", true},
		{"2024:06:15", true},
		{"", false},
		{"June 15 2024", false},
	}
	for _, tt := range tests {
		got := parseExifDate(tt.value)
		if tt.ok {
			assert.NotNil(t, got, "value %q", tt.value)
		} else {
			assert.Nil(t, got, "value %q", tt.value)
		}
	}
}
