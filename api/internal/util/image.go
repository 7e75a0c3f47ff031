package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
)

// LowDetailSide bounds the longer side of an image sent in "low detail" mode.
const LowDetailSide = 512

const maxDownloadBytes = 20 << 20

var httpc = &http.Client{Timeout: 60 * time.Second}

// Download fetches an image by URL.
func Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("download status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
}

// Downscale fits the image into side×side and re-encodes it as JPEG.
// Images already within bounds are returned unchanged. EXIF orientation is applied.
func Downscale(data []byte, side int) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= side && b.Dy() <= side {
		return data, PickMIME("", data), nil
	}

	small := imaging.Fit(img, side, side, imaging.Lanczos)
	var out bytes.Buffer
	if err := imaging.Encode(&out, small, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("encode image: %w", err)
	}
	return out.Bytes(), "image/jpeg", nil
}
