package documents

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"
)

// RenderFields is the structured input the renderer merges into a template.
type RenderFields map[string]string

type renderRequest struct {
	DocumentType string       `json:"documentType"`
	Fields       RenderFields `json:"fields"`
}

type renderResponse struct {
	DocumentURL string `json:"documentUrl"`
}

// callRenderer asks the document-rendering service to produce one document
// and returns the persisted file URL. The render itself is out of scope;
// we only care that the call either returns a URL or fails cleanly.
func callRenderer(documentType string, fields RenderFields) (string, error) {
	base := os.Getenv("RENDERER_API_BASE")
	if base == "" {
		return "", errors.New("RENDERER_API_BASE not configured")
	}

	body, _ := json.Marshal(renderRequest{DocumentType: documentType, Fields: fields})

	req, _ := http.NewRequest("POST", base+"/render", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", errors.New("renderer returned status " + res.Status)
	}

	var out renderResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.DocumentURL == "" {
		return "", errors.New("renderer returned empty documentUrl")
	}
	return out.DocumentURL, nil
}
