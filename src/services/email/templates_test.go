package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderNotification(t *testing.T) {
	data := NotificationData{
		AgencyName:  "Acme Insurance Agency",
		InsuredName: "Lakeside Marina LLC",
		FinalAmount: "10875.00",
	}

	t.Run("QuoteCreated", func(t *testing.T) {
		subject, html, err := RenderNotification("QUOTE_CREATED", data)
		assert.NoError(t, err)
		assert.Equal(t, "New quote available", subject)
		assert.Contains(t, html, "Acme Insurance Agency")
		assert.Contains(t, html, "Lakeside Marina LLC")
		assert.Contains(t, html, "$10875.00")
	})

	t.Run("PaymentCompleted", func(t *testing.T) {
		subject, html, err := RenderNotification("PAYMENT_COMPLETED", data)
		assert.NoError(t, err)
		assert.Equal(t, "Payment received", subject)
		assert.Contains(t, html, "Payment of $10875.00")
	})

	t.Run("EscapesInsuredName", func(t *testing.T) {
		_, html, err := RenderNotification("ESIGN_COMPLETED", NotificationData{
			AgencyName:  "Acme",
			InsuredName: "<script>alert(1)</script>",
		})
		assert.NoError(t, err)
		assert.NotContains(t, html, "<script>")
	})

	t.Run("UnknownEvent", func(t *testing.T) {
		_, _, err := RenderNotification("SOMETHING_ELSE", data)
		assert.Error(t, err)
	})
}
