package enums

import "fmt"

// NotificationTemplate identifies the message rendered for a delivery.
type NotificationTemplate string

const (
	TemplateCollabProposal       NotificationTemplate = "collab_proposal"
	TemplateBrandConfirmation    NotificationTemplate = "brand_confirmation"
	TemplateCreatorAccepted      NotificationTemplate = "creator_accepted"
	TemplateCreatorDeclined      NotificationTemplate = "creator_declined"
	TemplateCreatorCountered     NotificationTemplate = "creator_countered"
	TemplateCreatorRequestLapsed NotificationTemplate = "creator_request_lapsed"
	TemplateContractReady        NotificationTemplate = "contract_ready"
)

var validNotificationTemplates = []NotificationTemplate{
	TemplateCollabProposal,
	TemplateBrandConfirmation,
	TemplateCreatorAccepted,
	TemplateCreatorDeclined,
	TemplateCreatorCountered,
	TemplateCreatorRequestLapsed,
	TemplateContractReady,
}

// IsValid reports whether the value is a known NotificationTemplate.
func (n NotificationTemplate) IsValid() bool {
	for _, candidate := range validNotificationTemplates {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationTemplate converts raw input into a NotificationTemplate.
func ParseNotificationTemplate(value string) (NotificationTemplate, error) {
	for _, candidate := range validNotificationTemplates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification template %q", value)
}

// NotificationChannel is the transport a message goes out on.
type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelSMS      NotificationChannel = "sms"
	ChannelWhatsApp NotificationChannel = "whatsapp"
	ChannelPush     NotificationChannel = "push"
)

var validNotificationChannels = []NotificationChannel{
	ChannelEmail,
	ChannelSMS,
	ChannelWhatsApp,
	ChannelPush,
}

// IsValid reports whether the value is a known NotificationChannel.
func (c NotificationChannel) IsValid() bool {
	for _, candidate := range validNotificationChannels {
		if candidate == c {
			return true
		}
	}
	return false
}
