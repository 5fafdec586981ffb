package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/sendgrid"
)

// Message is one outbound delivery request.
type Message struct {
	Template enums.NotificationTemplate
	To       string
	ToName   string
	Data     TemplateData
}

// Notifier delivers rendered messages to a recipient.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

type mailSender interface {
	Send(ctx context.Context, mail sendgrid.Mail) error
}

// EmailNotifier renders templates and sends them through SendGrid.
type EmailNotifier struct {
	mail mailSender
	logg *logger.Logger
}

// NewEmailNotifier builds the email-backed notifier.
func NewEmailNotifier(mail mailSender, logg *logger.Logger) (*EmailNotifier, error) {
	if mail == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &EmailNotifier{mail: mail, logg: logg}, nil
}

func (n *EmailNotifier) Send(ctx context.Context, msg Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return fmt.Errorf("recipient required")
	}
	rendered, err := render(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	err = n.mail.Send(ctx, sendgrid.Mail{
		To:        to,
		ToName:    msg.ToName,
		Subject:   rendered.Subject,
		PlainText: rendered.Text,
		HTML:      rendered.HTML,
	})
	if err != nil {
		return fmt.Errorf("send %s email: %w", msg.Template, err)
	}

	n.logg.Info(n.logg.WithFields(ctx, map[string]any{
		"template":  string(msg.Template),
		"recipient": to,
	}), "email sent")
	return nil
}
