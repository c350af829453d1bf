package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// NotificationData feeds the agency notification templates.
type NotificationData struct {
	AgencyName   string
	InsuredName  string
	CarrierName  string
	FinalAmount  string
	SigningURL   string
	DocumentName string
}

var notifyTmpl = template.Must(template.New("notify").Parse(`
<p>Hello {{.AgencyName}},</p>
<p>{{.Body}}</p>
<p>— Brokerflow</p>
`))

type notifyBody struct {
	AgencyName string
	Body       template.HTML
}

// subjects and bodies per workflow event
var notifications = map[string]struct {
	Subject string
	Body    string
}{
	"QUOTE_CREATED":           {"New quote available", "A carrier quote for %s is ready for your review. Final amount: $%s."},
	"BIND_REQUESTED":          {"Bind request received", "Your bind request for %s has been received and is awaiting carrier approval."},
	"BIND_APPROVED":           {"Policy bound", "Coverage for %s has been bound. Final policy documents will follow."},
	"ESIGN_COMPLETED":         {"Signature completed", "All documents for %s have been signed."},
	"PAYMENT_COMPLETED":       {"Payment received", "Payment of $%s for %s has been received."},
	"FINAL_DOCUMENT_UPLOADED": {"Final documents available", "A final policy document for %s has been uploaded and is ready to download."},
}

// RenderNotification builds subject and HTML body for a workflow event.
func RenderNotification(event string, data NotificationData) (subject, html string, err error) {
	n, ok := notifications[event]
	if !ok {
		return "", "", fmt.Errorf("unknown notification event %q", event)
	}

	var body string
	switch event {
	case "QUOTE_CREATED":
		body = fmt.Sprintf(n.Body, template.HTMLEscapeString(data.InsuredName), template.HTMLEscapeString(data.FinalAmount))
	case "PAYMENT_COMPLETED":
		body = fmt.Sprintf(n.Body, template.HTMLEscapeString(data.FinalAmount), template.HTMLEscapeString(data.InsuredName))
	default:
		body = fmt.Sprintf(n.Body, template.HTMLEscapeString(data.InsuredName))
	}

	var buf bytes.Buffer
	err = notifyTmpl.Execute(&buf, notifyBody{
		AgencyName: data.AgencyName,
		Body:       template.HTML(body),
	})
	if err != nil {
		return "", "", err
	}
	return n.Subject, buf.String(), nil
}
