package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-augment/internal/ndimage"
)

// EncodeResult is an augmented array rendered as an inline PNG.
type EncodeResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Channels    int    `json:"channels"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNGBase64 renders arr as a base64 PNG. Values are rounded and
// clamped to 8 bits, so normalized arrays should be rescaled first.
func EncodePNGBase64(arr *ndimage.Array) (*EncodeResult, error) {
	img, err := arr.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodeResult{
		Width:       arr.Width(),
		Height:      arr.Height(),
		Channels:    arr.Channels(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Save writes arr to path. The format follows the extension (png, jpg,
// gif, tif, bmp).
func Save(path string, arr *ndimage.Array) error {
	img, err := arr.ToImage()
	if err != nil {
		return err
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
