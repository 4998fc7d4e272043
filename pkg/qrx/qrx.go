// Package qrx renders QR code images for provisioning URIs. Display helper
// only; nothing here is security-sensitive.
package qrx

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("qrx: content cannot be empty")

const defaultSize = 256

// PNG encodes content as a QR code PNG of size pixels (defaultSize when
// size <= 0).
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = defaultSize
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qrx: encode: %w", err)
	}
	return png, nil
}

// DataURI encodes content as a QR code and returns it as a data URI
// suitable for an <img> src attribute.
func DataURI(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
