package qrcode

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
)

// SigningLinkPNG renders the e-sign ceremony URL as a QR code PNG in the
// upload directory, so the signing link can be put on printed paperwork.
// Returns the public /files URL of the image.
func SigningLinkPNG(signingURL, submissionID string) (string, error) {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("esign-%s.png", submissionID)
	if err := qrcode.WriteFile(signingURL, qrcode.Medium, 256, filepath.Join(dir, filename)); err != nil {
		return "", err
	}
	return "/files/" + filename, nil
}
