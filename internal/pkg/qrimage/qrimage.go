// Package qrimage renders scan tokens as QR code images.
package qrimage

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 300

// DataURL encodes the given content as a PNG QR code wrapped in a base64
// data URL, ready to drop into an <img> tag.
func DataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("qrcode.Encode -> %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
