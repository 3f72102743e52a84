package storage

import (
	"testing"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/stretchr/testify/assert"
)

func TestExtension(t *testing.T) {
	assert.Equal(t, "jpg", Extension("photo.jpg"))
	assert.Equal(t, "jpg", Extension("PHOTO.JPG"))
	assert.Equal(t, "gz", Extension("archive.tar.gz"))
	assert.Equal(t, "", Extension("README"))
	assert.Equal(t, "", Extension("trailing."))
	assert.Equal(t, "gitignore", Extension(".gitignore"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want entity.FileType
	}{
		{"vacation.jpg", entity.FileTypeImage},
		{"vacation.JPEG", entity.FileTypeImage},
		{"scan.heic", entity.FileTypeImage},
		{"icon.svg", entity.FileTypeImage},
		{"clip.mp4", entity.FileTypeVideo},
		{"clip.MOV", entity.FileTypeVideo},
		{"report.pdf", entity.FileTypeDocument},
		{"notes.txt", entity.FileTypeDocument},
		{"song.mp3", entity.FileTypeAudio},
		{"voice.m4a", entity.FileTypeAudio},
		{"archive.zip", entity.FileTypeOther},
		{"binary", entity.FileTypeOther},
		{"", entity.FileTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Any input, however malformed, must land in a valid category.
	for _, name := range []string{"..", "a.b.c.d.unknown", "no-dot", ".", "x."} {
		assert.True(t, entity.ValidFileType(Classify(name)), "input %q", name)
	}
}

func TestIsRasterImage(t *testing.T) {
	assert.True(t, IsRasterImage("photo.jpg"))
	assert.True(t, IsRasterImage("photo.PNG"))
	assert.False(t, IsRasterImage("photo.heic"))
	assert.False(t, IsRasterImage("photo.svg"))
	assert.False(t, IsRasterImage("clip.mp4"))
}
