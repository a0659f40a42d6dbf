package services

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/devmo-app/devmo-backend/errs"
)

// Target resolution for stored project images. Every upload is normalized to
// this size before it reaches the blob store, so signed URLs always serve a
// predictable format regardless of what clients send.
const (
	imageWidth  = 1200
	imageHeight = 800
	jpegQuality = 85
)

const imageContentType = "image/jpeg"

// NormalizeImage decodes an uploaded image, crops/scales it to the target
// resolution and re-encodes it as JPEG. Returns the normalized bytes and
// their content type.
func NormalizeImage(data []byte) ([]byte, string, error) {
	if len(data) == 0 {
		return nil, "", errs.NewMissingRequiredFieldError("image")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errs.NewInvalidFieldError("image", "not a decodable image")
	}

	normalized := imaging.Fill(img, imageWidth, imageHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, normalized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, "", fmt.Errorf("encoding normalized image: %w", err)
	}

	return buf.Bytes(), imageContentType, nil
}
