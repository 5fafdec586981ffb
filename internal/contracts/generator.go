package contracts

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
)

const contractContentType = "text/html; charset=utf-8"

type objectWriter interface {
	WriteObject(ctx context.Context, bucket, object, contentType string, data []byte) error
	DefaultBucket() string
}

// HTMLGenerator renders a simple HTML agreement and writes it to object storage.
type HTMLGenerator struct {
	storage objectWriter
}

// NewHTMLGenerator builds the storage-backed document generator.
func NewHTMLGenerator(storage objectWriter) (*HTMLGenerator, error) {
	if storage == nil {
		return nil, fmt.Errorf("object storage required")
	}
	return &HTMLGenerator{storage: storage}, nil
}

func (g *HTMLGenerator) Generate(ctx context.Context, input GenerateInput) (string, error) {
	if input.Contract == nil || input.Deal == nil || input.Request == nil || input.Creator == nil {
		return "", fmt.Errorf("contract, deal, request, and creator are all required")
	}

	document := renderDocument(input)
	path := fmt.Sprintf("contracts/%s/%s.html", input.Deal.CreatorID, input.Deal.ID)

	if err := g.storage.WriteObject(ctx, g.storage.DefaultBucket(), path, contractContentType, []byte(document)); err != nil {
		return "", fmt.Errorf("store contract document: %w", err)
	}
	return path, nil
}

func renderDocument(input GenerateInput) string {
	deal := input.Deal
	request := input.Request
	creator := input.Creator

	amount := fmt.Sprintf("%s %s", deal.DealAmount.StringFixed(2), deal.Currency)
	deadline := "as mutually agreed"
	if deal.Deadline != nil {
		deadline = deal.Deadline.Format("January 2, 2006")
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Collaboration Agreement</title></head><body>")
	b.WriteString("<h1>Collaboration Agreement</h1>")
	fmt.Fprintf(&b, "<p>Agreement reference: %s</p>", input.Contract.ID)
	fmt.Fprintf(&b, "<p>Dated %s</p>", time.Now().UTC().Format("January 2, 2006"))
	fmt.Fprintf(&b, "<h2>Parties</h2><p>Creator: %s (%s)</p><p>Brand: %s (%s)</p>",
		html.EscapeString(creator.DisplayName),
		html.EscapeString(creator.Email),
		html.EscapeString(deal.BrandName),
		html.EscapeString(request.BrandEmail),
	)
	fmt.Fprintf(&b, "<h2>Engagement</h2><p>Type: %s</p><p>Compensation: %s</p>",
		html.EscapeString(string(deal.DealType)), html.EscapeString(amount))
	fmt.Fprintf(&b, "<p>Deliverables: %s</p>", html.EscapeString(request.Deliverables))
	fmt.Fprintf(&b, "<p>Deadline: %s</p>", html.EscapeString(deadline))
	b.WriteString("<h2>Terms</h2>")
	b.WriteString("<p>The brand agrees to pay the stated compensation upon satisfactory delivery of the deliverables above. The creator retains authorship of produced content and grants the brand a license to use it for the agreed campaign.</p>")
	b.WriteString("<p>Either party may terminate this agreement in writing before work begins. Payment obligations survive for work already delivered.</p>")
	b.WriteString("</body></html>")
	return b.String()
}
