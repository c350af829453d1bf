// Package tax looks up surplus-lines tax rates from the external rate
// service. A failed lookup never clobbers existing values — the caller
// falls back to manual entry.
package tax

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"Backend-Brokerflow/src/models"
)

type rateRequest struct {
	StateCode     string       `json:"stateCode"`
	PremiumAmount models.Money `json:"premiumAmount"`
}

type rateResponse struct {
	TaxRate   models.Money `json:"taxRate"`
	TaxAmount models.Money `json:"taxAmount"`
}

// Result carries an auto-calculated rate and amount, both rounded to 2dp.
type Result struct {
	Percent models.Money
	Amount  models.Money
}

// Lookup queries the rate service for (state, premium). The state name is
// normalized to a short code first. Any transport error, non-200 status or
// malformed body is returned as an error; the caller keeps prior values.
func Lookup(state string, premium models.Money) (*Result, error) {
	base := os.Getenv("TAX_API_BASE")
	if base == "" {
		return nil, errors.New("TAX_API_BASE not configured")
	}

	body, _ := json.Marshal(rateRequest{
		StateCode:     NormalizeState(state),
		PremiumAmount: premium,
	})

	req, _ := http.NewRequest("POST", base+"/rates", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.New("tax service returned status " + res.Status)
	}

	var out rateResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &Result{
		Percent: out.TaxRate.Round2(),
		Amount:  out.TaxAmount.Round2(),
	}, nil
}

// DeriveAmount recomputes the tax amount from a manually entered percent:
// carrierQuote * percent / 100, 2dp. No external call is made.
func DeriveAmount(carrierQuote, percent models.Money) models.Money {
	return carrierQuote.Percent(percent).Round2()
}
