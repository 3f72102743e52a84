package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Metadata is the enrichment derived from an image file. FileCreated and
// FileModified always come from the filesystem; everything else is overlaid
// by the probe when it succeeds.
type Metadata struct {
	DateTaken    *time.Time
	Latitude     *float64
	Longitude    *float64
	CameraModel  *string
	Resolution   *string
	FileCreated  time.Time
	FileModified time.Time
	Raw          []byte
}

// MetadataProbe is the optional capability that reads embedded metadata from
// an image file. Implementations are selected at startup; a nil probe means
// extraction degrades to filesystem stat only.
type MetadataProbe interface {
	Name() string
	Probe(ctx context.Context, absPath string) (*ProbeResult, error)
}

type ProbeResult struct {
	DateTaken   *time.Time
	Latitude    *float64
	Longitude   *float64
	CameraModel *string
	Resolution  *string
	Raw         []byte
}

// MetadataExtractor never fails: probe absence, tool errors and parse errors
// all degrade to the stat-only result.
type MetadataExtractor struct {
	probe MetadataProbe
}

func NewMetadataExtractor(probe MetadataProbe) *MetadataExtractor {
	return &MetadataExtractor{probe: probe}
}

// ProbeName reports which probe is active, or "none".
func (e *MetadataExtractor) ProbeName() string {
	if e.probe == nil {
		return "none"
	}
	return e.probe.Name()
}

func (e *MetadataExtractor) Extract(ctx context.Context, absPath string) Metadata {
	var meta Metadata

	if info, err := os.Stat(absPath); err == nil {
		meta.FileCreated = info.ModTime()
		meta.FileModified = info.ModTime()
	} else {
		now := time.Now()
		meta.FileCreated = now
		meta.FileModified = now
	}

	if e.probe != nil {
		if result, err := e.probe.Probe(ctx, absPath); err == nil && result != nil {
			meta.DateTaken = result.DateTaken
			meta.Latitude = result.Latitude
			meta.Longitude = result.Longitude
			meta.CameraModel = result.CameraModel
			meta.Resolution = result.Resolution
			meta.Raw = result.Raw
		}
	}

	if meta.Resolution == nil {
		meta.Resolution = decodeResolution(absPath)
	}

	return meta
}

// decodeResolution reads just the image header; nil on any failure.
func decodeResolution(absPath string) *string {
	f, err := os.Open(absPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil
	}
	res := fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
	return &res
}

// ExifToolProbe shells out to exiftool. Runs are bounded by a timeout so a
// hung tool cannot stall the ingestion request.
type ExifToolProbe struct {
	bin     string
	timeout time.Duration
}

// DetectExifTool probes the PATH for exiftool. The second return is false
// when the tool is not installed.
func DetectExifTool() (*ExifToolProbe, bool) {
	bin, err := exec.LookPath("exiftool")
	if err != nil {
		return nil, false
	}
	return &ExifToolProbe{bin: bin, timeout: 10 * time.Second}, true
}

func (p *ExifToolProbe) Name() string {
	return "exiftool"
}

func (p *ExifToolProbe) Probe(ctx context.Context, absPath string) (*ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.bin,
		"-json", "-n",
		"-DateTimeOriginal", "-CreateDate",
		"-GPSLatitude", "-GPSLongitude",
		"-Make", "-Model",
		"-ImageWidth", "-ImageHeight",
		absPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return ParseExifToolOutput(out)
}

type exifToolRecord struct {
	DateTimeOriginal string   `json:"DateTimeOriginal"`
	CreateDate       string   `json:"CreateDate"`
	GPSLatitude      *float64 `json:"GPSLatitude"`
	GPSLongitude     *float64 `json:"GPSLongitude"`
	Make             string   `json:"Make"`
	Model            string   `json:"Model"`
	ImageWidth       *int     `json:"ImageWidth"`
	ImageHeight      *int     `json:"ImageHeight"`
}

// ParseExifToolOutput maps exiftool's JSON array onto a ProbeResult. The
// original-capture field wins over the generic create date; GPS is taken only
// when both coordinates are present.
func ParseExifToolOutput(out []byte) (*ProbeResult, error) {
	var records []exifToolRecord
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, fmt.Errorf("parse exiftool output: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("exiftool returned no records")
	}
	rec := records[0]

	result := &ProbeResult{Raw: out}

	if t := parseExifDate(rec.DateTimeOriginal); t != nil {
		result.DateTaken = t
	} else if t := parseExifDate(rec.CreateDate); t != nil {
		result.DateTaken = t
	}

	if rec.GPSLatitude != nil && rec.GPSLongitude != nil {
		result.Latitude = rec.GPSLatitude
		result.Longitude = rec.GPSLongitude
	}

	if camera := strings.TrimSpace(strings.TrimSpace(rec.Make) + " " + strings.TrimSpace(rec.Model)); camera != "" {
		result.CameraModel = &camera
	}

	if rec.ImageWidth != nil && rec.ImageHeight != nil {
		res := fmt.Sprintf("%dx%d", *rec.ImageWidth, *rec.ImageHeight)
		result.Resolution = &res
	}

	return result, nil
}

var exifDateLayouts = []string{
	"2006:01:02 15:04:05-07:00",
	"2006:01:02 15:04:05Z07:00",
	"2006:01:02 15:04:05",
	"2006:01:02",
}

func parseExifDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range exifDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
