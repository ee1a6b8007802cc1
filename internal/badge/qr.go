package badge

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSizePx = 256

// RenderQR encodes a URL as a QR PNG.
func RenderQR(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, qrSizePx)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}

// QRDataURI renders the URL as a QR PNG inlined as a data URI, ready to drop
// into an <img> tag.
func QRDataURI(url string) (string, error) {
	png, err := RenderQR(url)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
