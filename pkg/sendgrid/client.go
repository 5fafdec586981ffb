package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/creatorlane/creatorlane-backend/pkg/config"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
)

const (
	defaultBaseURL = "https://api.sendgrid.com"
	sendPath       = "/v3/mail/send"
	maxErrorBody   = 512
)

var (
	errAPIKeyRequired = errors.New("sendgrid api key is required")
	errFromRequired   = errors.New("sendgrid from address is required")
	errToRequired     = errors.New("recipient address is required")
)

// Client is a thin wrapper over the SendGrid v3 mail send endpoint.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	defaultFrom string
	logger      *logger.Logger
}

// Mail is a single outbound message.
type Mail struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

// NewClient validates credentials and builds the mail client.
func NewClient(cfg config.SendgridConfig, logg *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	from := strings.TrimSpace(cfg.DefaultFrom)
	if from == "" {
		return nil, errFromRequired
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     defaultBaseURL,
		apiKey:      apiKey,
		defaultFrom: from,
		logger:      logg,
	}, nil
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send delivers a single message. SendGrid answers 202 on acceptance.
func (c *Client) Send(ctx context.Context, mail Mail) error {
	if c == nil || c.httpClient == nil {
		return errors.New("sendgrid client not initialized")
	}
	to := strings.TrimSpace(mail.To)
	if to == "" {
		return errToRequired
	}

	body := sendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: to, Name: mail.ToName}}}},
		From:             emailAddress{Email: c.defaultFrom},
		Subject:          mail.Subject,
	}
	if mail.PlainText != "" {
		body.Content = append(body.Content, content{Type: "text/plain", Value: mail.PlainText})
	}
	if mail.HTML != "" {
		body.Content = append(body.Content, content{Type: "text/html", Value: mail.HTML})
	}
	if len(body.Content) == 0 {
		return errors.New("mail body is required")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && c.logger != nil {
			c.logger.Warn(ctx, "closing sendgrid response body failed")
		}
	}()

	if resp.StatusCode == http.StatusAccepted {
		return nil
	}

	excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
}
