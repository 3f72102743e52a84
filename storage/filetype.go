package storage

import (
	"strings"

	"github.com/cloudstore-app/cloudstore-service/entity"
)

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "svg": true, "webp": true, "heic": true,
}

var videoExtensions = map[string]bool{
	"mp4": true, "avi": true, "mov": true, "wmv": true,
	"flv": true, "mkv": true, "webm": true, "m4v": true,
}

var documentExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"ppt": true, "pptx": true, "txt": true, "rtf": true, "csv": true,
}

var audioExtensions = map[string]bool{
	"mp3": true, "wav": true, "ogg": true, "flac": true, "m4a": true, "aac": true,
}

// rasterExtensions is the subset of image types the imaging library can
// decode and re-encode. svg/webp/heic classify as images but are thumbnailed
// with the copy fallback.
var rasterExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "tif": true, "tiff": true,
}

// Extension returns the lowercase extension without the dot, or "" if the
// filename has none.
func Extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

// Classify maps a filename to its coarse category. Total: unknown or missing
// extensions map to FileTypeOther.
func Classify(filename string) entity.FileType {
	ext := Extension(filename)
	switch {
	case imageExtensions[ext]:
		return entity.FileTypeImage
	case videoExtensions[ext]:
		return entity.FileTypeVideo
	case documentExtensions[ext]:
		return entity.FileTypeDocument
	case audioExtensions[ext]:
		return entity.FileTypeAudio
	default:
		return entity.FileTypeOther
	}
}

// IsRasterImage reports whether the file can be resized natively.
func IsRasterImage(filename string) bool {
	return rasterExtensions[Extension(filename)]
}
