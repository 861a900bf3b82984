package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	thumbnailMaxWidth  = 1280
	thumbnailMaxHeight = 720
	thumbnailQuality   = 80
)

// NormalizeThumbnail decodes a jpeg/png/webp image, shrinks it to fit
// 1280x720 and writes it as WebP into dir. It returns the new path and size.
func NormalizeThumbnail(src, dir string) (string, int64, error) {
	// #nosec G304: src is a server-created temp file
	data, err := os.ReadFile(src)
	if err != nil {
		return "", 0, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
	}

	img = resizeToFit(img, thumbnailMaxWidth, thumbnailMaxHeight)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: thumbnailQuality}); err != nil {
		return "", 0, fmt.Errorf("encode webp: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, err
	}
	out, err := os.CreateTemp(dir, "thumb-*.webp")
	if err != nil {
		return "", 0, err
	}
	if _, err := out.Write(buf.Bytes()); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", 0, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", 0, err
	}
	return out.Name(), int64(buf.Len()), nil
}

func resizeToFit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}

	nw, nh := maxW, h*maxW/w
	if nh > maxH {
		nw, nh = w*maxH/h, maxH
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
