package payments

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"Backend-Brokerflow/src/models"
)

type chargeRequest struct {
	SubmissionID string       `json:"submissionId"`
	Amount       models.Money `json:"amount"`
	Method       string       `json:"method"`
}

type chargeResponse struct {
	PaymentStatus string `json:"paymentStatus"`
}

// callProcessor submits the charge. Authorization itself is the
// processor's business; we only need a definite success or failure.
func callProcessor(submissionID string, amount models.Money, method string) error {
	base := os.Getenv("PAYMENT_API_BASE")
	if base == "" {
		return errors.New("PAYMENT_API_BASE not configured")
	}

	body, _ := json.Marshal(chargeRequest{
		SubmissionID: submissionID,
		Amount:       amount,
		Method:       method,
	})

	req, _ := http.NewRequest("POST", base+"/charges", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.New("payment processor returned status " + res.Status)
	}

	var out chargeResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return err
	}
	if out.PaymentStatus != "PAID" {
		return errors.New("payment processor reported status " + out.PaymentStatus)
	}
	return nil
}
