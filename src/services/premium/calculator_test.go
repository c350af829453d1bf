package premium

import (
	"testing"

	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/utils"

	"github.com/stretchr/testify/assert"
)

func money(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.MoneyFromString(s)
	assert.NoError(t, err)
	return m
}

func TestFinalAmount(t *testing.T) {
	t.Run("AllComponents", func(t *testing.T) {
		tax := money(t, "350.00")
		fee := money(t, "25.00")

		got, err := FinalAmount(money(t, "10000.00"), money(t, "500.00"), &tax, &fee)
		assert.NoError(t, err)
		assert.True(t, got.Equal(money(t, "10875.00")))
	})

	t.Run("AbsentTaxAndFeeCountAsZero", func(t *testing.T) {
		got, err := FinalAmount(money(t, "10000.00"), money(t, "500.00"), nil, nil)
		assert.NoError(t, err)
		assert.True(t, got.Equal(money(t, "10500.00")))
	})

	t.Run("ZeroBrokerFee", func(t *testing.T) {
		got, err := FinalAmount(money(t, "1200.50"), models.Money{}, nil, nil)
		assert.NoError(t, err)
		assert.True(t, got.Equal(money(t, "1200.50")))
	})

	t.Run("ResultRoundedTo2dp", func(t *testing.T) {
		tax := money(t, "41.666")

		got, err := FinalAmount(money(t, "1190.476"), money(t, "100"), &tax, nil)
		assert.NoError(t, err)
		assert.Equal(t, "1332.14", got.String())
	})

	t.Run("RejectsNonPositiveCarrierQuote", func(t *testing.T) {
		_, err := FinalAmount(models.Money{}, money(t, "500"), nil, nil)
		assert.Error(t, err)

		appErr := utils.AsAppError(err)
		assert.NotNil(t, appErr)
		assert.Equal(t, utils.KindValidation, appErr.Kind)

		_, err = FinalAmount(money(t, "-10"), money(t, "500"), nil, nil)
		assert.Error(t, err)
	})
}

func TestRecompute(t *testing.T) {
	tax := money(t, "300.00")

	q := models.Quote{
		CarrierQuote:     money(t, "10000.00"),
		BrokerFee:        money(t, "250.00"),
		PremiumTaxAmount: &tax,
	}
	assert.NoError(t, Recompute(&q))
	assert.True(t, q.FinalAmount.Equal(money(t, "10550.00")))

	// editing a component and recomputing never leaves a stale total
	q.BrokerFee = money(t, "400.00")
	assert.NoError(t, Recompute(&q))
	assert.True(t, q.FinalAmount.Equal(money(t, "10700.00")))
}
