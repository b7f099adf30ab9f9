package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/mmcdole/reel/internal/domain"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes poster bytes. Bytes that are not a supported image
// format fail with ErrInvalidImageData.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, domain.ErrInvalidImageData
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImageData, err)
	}
	return img, nil
}
