package upload

import (
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// captureDate extracts the original capture timestamp from the image's EXIF
// block. Photos without EXIF (or without a date tag) are common, so every
// failure degrades to an empty string.
func captureDate(imagePath string) string {
	f, err := os.Open(imagePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	meta, err := exif.Decode(f)
	if err != nil {
		return ""
	}

	taken, err := meta.DateTime()
	if err != nil {
		return ""
	}

	return taken.Format(time.RFC3339)
}
