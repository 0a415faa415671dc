package utils

import (
	"bytes"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// GenerateAgentQRCode renders an agent ID as a PNG QR code so the owner
// can attach it to an offline bank-transfer note or show it at a branch.
func GenerateAgentQRCode(agentID string) ([]byte, error) {
	qrCode, err := qr.Encode(agentID, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
