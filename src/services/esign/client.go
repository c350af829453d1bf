package esign

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"
)

type signerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type envelopeRequest struct {
	DocumentURLs []string   `json:"documentUrls"`
	Signer       signerInfo `json:"signerInfo"`
	Reference    string     `json:"reference"` // submission id, echoed in the webhook
}

type envelopeResponse struct {
	SigningURL string `json:"signingUrl"`
}

// createEnvelope hands the document set to the e-sign service and returns
// the signing URL the agency completes the ceremony at.
func createEnvelope(documentURLs []string, signerName, signerEmail, reference string) (string, error) {
	base := os.Getenv("ESIGN_API_BASE")
	if base == "" {
		return "", errors.New("ESIGN_API_BASE not configured")
	}

	body, _ := json.Marshal(envelopeRequest{
		DocumentURLs: documentURLs,
		Signer:       signerInfo{Name: signerName, Email: signerEmail},
		Reference:    reference,
	})

	req, _ := http.NewRequest("POST", base+"/envelopes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return "", errors.New("e-sign service returned status " + res.Status)
	}

	var out envelopeResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SigningURL == "" {
		return "", errors.New("e-sign service returned empty signingUrl")
	}
	return out.SigningURL, nil
}
