package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// Renderer turns an already-built payment or ticket payload into a
// scannable image. Implementations must be pure: same payload, same image.
type Renderer interface {
	Render(payload string) ([]byte, error)
}

type pngRenderer struct {
	size int
}

// NewPNGRenderer returns a Renderer producing PNG images of the given
// pixel size.
func NewPNGRenderer(size int) Renderer {
	if size <= 0 {
		size = 300
	}
	return &pngRenderer{size: size}
}

func (r *pngRenderer) Render(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty payload")
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, r.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr image: %w", err)
	}

	return png, nil
}
