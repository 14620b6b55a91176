// services/qrcode_service.go
package services

import (
	"os"

	"github.com/skip2/go-qrcode"
)

// GenerateCompetitionQR creates a QR code pointing at a competition's join
// page, for the invite poster on the competitions screen.
func GenerateCompetitionQR(competitionID string, size int) ([]byte, error) {
	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default for local testing
	}

	png, err := qrcode.Encode(applicationURL+"/competitions/"+competitionID+"/join", qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
