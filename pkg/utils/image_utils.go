package utils

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/SagarTeotia1/PHOTO-CONTEXT-V1/internal/domain"
)

// ProbeImage decodes the header of an image and returns its dimensions and
// format. Corrupt or unsupported bytes yield an error; callers record those
// as a per-image failure with zero dimensions.
func ProbeImage(data []byte) (domain.ImageSize, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.ImageSize{Format: "Unknown"}, err
	}

	return domain.ImageSize{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: strings.ToUpper(format),
	}, nil
}

// ContentTypeByExt maps a filename extension to its image MIME type,
// falling back to image/jpeg the way the upload form always has.
func ContentTypeByExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}

// AllowedFormat reports whether the filename carries one of the accepted
// image extensions.
func AllowedFormat(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}
