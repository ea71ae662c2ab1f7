package helpers

import (
	"github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// GenerateQRCode encodes payload into a black-on-white QR PNG with medium
// error correction.
func GenerateQRCode(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, qrImageSize)
}
