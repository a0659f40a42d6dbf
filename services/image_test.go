package services_test

import (
	"bytes"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devmo-app/devmo-backend/errs"
	"github.com/devmo-app/devmo-backend/services"
)

func TestNormalizeImage_ProducesFixedSizeJPEG(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
	}{
		{"smaller than target", 400, 300},
		{"larger than target", 2400, 1600},
		{"portrait", 600, 1200},
		{"extreme aspect ratio", 3000, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, contentType, err := services.NormalizeImage(testImage(t, tc.width, tc.height))
			require.NoError(t, err)
			assert.Equal(t, "image/jpeg", contentType)

			img, err := jpeg.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			bounds := img.Bounds()
			assert.Equal(t, 1200, bounds.Dx())
			assert.Equal(t, 800, bounds.Dy())
		})
	}
}

func TestNormalizeImage_RejectsEmptyInput(t *testing.T) {
	_, _, err := services.NormalizeImage(nil)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestNormalizeImage_RejectsNonImageData(t *testing.T) {
	_, _, err := services.NormalizeImage([]byte("definitely not an image"))
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}
