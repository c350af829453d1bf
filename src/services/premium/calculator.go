package premium

import (
	"Backend-Brokerflow/src/models"
	"Backend-Brokerflow/src/utils"
)

// FinalAmount computes the payable amount for a quote:
// carrierQuote + brokerFee + premiumTaxAmount + policyFee.
// Absent tax/fee components count as zero. There is no wholesale or markup
// fee in this model.
func FinalAmount(carrierQuote, brokerFee models.Money, premiumTaxAmount, policyFee *models.Money) (models.Money, error) {
	if !carrierQuote.IsPositive() {
		return models.Money{}, utils.Validation("carrierQuote must be greater than 0")
	}

	total := carrierQuote.Add(brokerFee)
	if premiumTaxAmount != nil {
		total = total.Add(*premiumTaxAmount)
	}
	if policyFee != nil {
		total = total.Add(*policyFee)
	}
	return total.Round2(), nil
}

// Recompute refreshes q.FinalAmount from its current components. Called
// after every component edit so the derived value never drifts.
func Recompute(q *models.Quote) error {
	final, err := FinalAmount(q.CarrierQuote, q.BrokerFee, q.PremiumTaxAmount, q.PolicyFee)
	if err != nil {
		return err
	}
	q.FinalAmount = final
	return nil
}
