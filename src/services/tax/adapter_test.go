package tax

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"Backend-Brokerflow/src/models"

	"github.com/stretchr/testify/assert"
)

func money(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.MoneyFromString(s)
	assert.NoError(t, err)
	return m
}

func TestLookup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var gotReq rateRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rates", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			json.NewEncoder(w).Encode(map[string]string{
				"taxRate":   "4.850",
				"taxAmount": "485.004",
			})
		}))
		defer srv.Close()
		t.Setenv("TAX_API_BASE", srv.URL)

		res, err := Lookup("Texas", money(t, "10000"))
		assert.NoError(t, err)
		assert.Equal(t, "TX", gotReq.StateCode)
		assert.Equal(t, "4.85", res.Percent.String())
		assert.Equal(t, "485", res.Amount.String()) // rounded to 2dp
	})

	t.Run("ServiceError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()
		t.Setenv("TAX_API_BASE", srv.URL)

		res, err := Lookup("Texas", money(t, "10000"))
		assert.Error(t, err)
		assert.Nil(t, res)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()
		t.Setenv("TAX_API_BASE", srv.URL)

		_, err := Lookup("Texas", money(t, "10000"))
		assert.Error(t, err)
	})

	t.Run("Unconfigured", func(t *testing.T) {
		t.Setenv("TAX_API_BASE", "")

		_, err := Lookup("Texas", money(t, "10000"))
		assert.Error(t, err)
	})
}

func TestDeriveAmount(t *testing.T) {
	got := DeriveAmount(money(t, "10000"), money(t, "4.85"))
	assert.Equal(t, "485", got.String())

	// odd premiums round at 2dp
	got = DeriveAmount(money(t, "333.33"), money(t, "3.5"))
	assert.Equal(t, "11.67", got.String())
}
