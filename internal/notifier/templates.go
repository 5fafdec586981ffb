package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// TemplateData carries everything any template might interpolate. Templates
// pick the fields they need and ignore the rest.
type TemplateData struct {
	BrandName    string
	CreatorName  string
	DealType     enums.DealType
	DealAmount   decimal.Decimal
	Currency     string
	Deliverables string
	Deadline     *time.Time
	AcceptURL    string
	DeclineURL   string
	ContractURL  string
	Action       string
}

type renderedMail struct {
	Subject string
	Text    string
	HTML    string
}

func render(template enums.NotificationTemplate, data TemplateData) (*renderedMail, error) {
	switch template {
	case enums.TemplateCollabProposal:
		return renderCollabProposal(data), nil
	case enums.TemplateBrandConfirmation:
		return renderBrandConfirmation(data), nil
	case enums.TemplateCreatorAccepted:
		return renderCreatorUpdate(data, "accepted",
			"Great news! %s accepted your %s proposal for %s."), nil
	case enums.TemplateCreatorDeclined:
		return renderCreatorUpdate(data, "declined",
			"%s declined your %s proposal for %s."), nil
	case enums.TemplateCreatorCountered:
		return renderCreatorUpdate(data, "countered",
			"%s sent a counter-offer on your %s proposal. The new terms are %s."), nil
	case enums.TemplateCreatorRequestLapsed:
		return renderCreatorLapsed(data), nil
	case enums.TemplateContractReady:
		return renderContractReady(data), nil
	default:
		return nil, fmt.Errorf("unknown notification template %q", template)
	}
}

func renderCollabProposal(data TemplateData) *renderedMail {
	amount := formatAmount(data.DealAmount, data.Currency)
	subject := fmt.Sprintf("%s wants to collaborate with you", data.CreatorName)

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", data.BrandName)
	fmt.Fprintf(&text, "%s is proposing a %s collaboration for %s.\n\n", data.CreatorName, data.DealType, amount)
	if data.Deliverables != "" {
		fmt.Fprintf(&text, "Deliverables: %s\n", data.Deliverables)
	}
	if data.Deadline != nil {
		fmt.Fprintf(&text, "Deadline: %s\n", data.Deadline.Format("January 2, 2006"))
	}
	fmt.Fprintf(&text, "\nAccept: %s\nDecline: %s\n", data.AcceptURL, data.DeclineURL)
	text.WriteString("\nThese links expire, so please respond soon.\n")

	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>%s is proposing a <strong>%s</strong> collaboration for <strong>%s</strong>.</p><p><a href="%s">Accept</a> &middot; <a href="%s">Decline</a></p><p>These links expire, so please respond soon.</p>`,
		html.EscapeString(data.BrandName),
		html.EscapeString(data.CreatorName),
		html.EscapeString(string(data.DealType)),
		html.EscapeString(amount),
		data.AcceptURL,
		data.DeclineURL,
	)

	return &renderedMail{Subject: subject, Text: text.String(), HTML: htmlBody}
}

func renderBrandConfirmation(data TemplateData) *renderedMail {
	subject := fmt.Sprintf("You %s the collaboration with %s", data.Action, data.CreatorName)
	text := fmt.Sprintf(
		"Hi %s,\n\nThis confirms you %s the collaboration proposal from %s.\nNo further action is needed.\n",
		data.BrandName, data.Action, data.CreatorName,
	)
	htmlBody := fmt.Sprintf(
		"<p>Hi %s,</p><p>This confirms you %s the collaboration proposal from %s.</p><p>No further action is needed.</p>",
		html.EscapeString(data.BrandName),
		html.EscapeString(data.Action),
		html.EscapeString(data.CreatorName),
	)
	return &renderedMail{Subject: subject, Text: text, HTML: htmlBody}
}

func renderCreatorUpdate(data TemplateData, verb, bodyFormat string) *renderedMail {
	amount := formatAmount(data.DealAmount, data.Currency)
	subject := fmt.Sprintf("%s %s your proposal", data.BrandName, verb)
	body := fmt.Sprintf(bodyFormat, data.BrandName, data.DealType, amount)
	text := fmt.Sprintf("Hi %s,\n\n%s\n", data.CreatorName, body)
	htmlBody := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>",
		html.EscapeString(data.CreatorName), html.EscapeString(body))
	return &renderedMail{Subject: subject, Text: text, HTML: htmlBody}
}

func renderCreatorLapsed(data TemplateData) *renderedMail {
	subject := fmt.Sprintf("Your proposal to %s expired", data.BrandName)
	text := fmt.Sprintf(
		"Hi %s,\n\nYour collaboration proposal to %s did not get a response in time and has expired.\nYou can send a fresh proposal whenever you are ready.\n",
		data.CreatorName, data.BrandName,
	)
	htmlBody := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your collaboration proposal to %s did not get a response in time and has expired.</p><p>You can send a fresh proposal whenever you are ready.</p>",
		html.EscapeString(data.CreatorName), html.EscapeString(data.BrandName),
	)
	return &renderedMail{Subject: subject, Text: text, HTML: htmlBody}
}

func renderContractReady(data TemplateData) *renderedMail {
	subject := "Your collaboration contract is ready"
	text := fmt.Sprintf(
		"Hi %s,\n\nThe contract for your collaboration with %s has been generated.\nDownload: %s\n",
		data.CreatorName, data.BrandName, data.ContractURL,
	)
	htmlBody := fmt.Sprintf(
		`<p>Hi %s,</p><p>The contract for your collaboration with %s has been generated.</p><p><a href="%s">Download contract</a></p>`,
		html.EscapeString(data.CreatorName), html.EscapeString(data.BrandName), data.ContractURL,
	)
	return &renderedMail{Subject: subject, Text: text, HTML: htmlBody}
}

func formatAmount(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}
