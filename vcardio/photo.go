/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package vcardio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// MaxPhotoDimension is the longest-edge size contact photos are resized to
// before embedding, per SPEC_FULL.md's Open Question decision #2.
const MaxPhotoDimension = 128

// ResizePhotoToDataURI decodes an arbitrary PNG/JPEG/GIF image, resizes it
// so its longest edge is at most MaxPhotoDimension, re-encodes as JPEG, and
// returns a data: URI suitable for SetPhoto.
func ResizePhotoToDataURI(raw []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode photo: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("photo has zero-sized bounds")
	}

	scale := 1.0
	if w > h && w > MaxPhotoDimension {
		scale = float64(MaxPhotoDimension) / float64(w)
	} else if h >= w && h > MaxPhotoDimension {
		scale = float64(MaxPhotoDimension) / float64(h)
	}

	dstW, dstH := w, h
	if scale < 1.0 {
		dstW = int(float64(w) * scale)
		dstH = int(float64(h) * scale)
		if dstW < 1 {
			dstW = 1
		}
		if dstH < 1 {
			dstH = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode resized photo: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return "data:image/jpeg;base64," + encoded, nil
}
