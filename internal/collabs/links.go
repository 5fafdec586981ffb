package collabs

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/creatorlane/creatorlane-backend/pkg/actiontoken"
	"github.com/creatorlane/creatorlane-backend/pkg/config"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

const actionPath = "/collabs/action"

// ActionLinks are the signed URLs embedded in the brand proposal email.
type ActionLinks struct {
	Accept  string
	Decline string
}

// LinkBuilder mints signed action links for a collaboration request.
type LinkBuilder struct {
	codec   *actiontoken.Codec
	baseURL string
	ttl     time.Duration
}

// NewLinkBuilder validates the configured base URL and builds the link minter.
func NewLinkBuilder(codec *actiontoken.Codec, cfg config.ActionLinkConfig) (*LinkBuilder, error) {
	if codec == nil {
		return nil, fmt.Errorf("action token codec required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("action link base url required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid action link base url: %w", err)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("action link ttl must be positive")
	}
	return &LinkBuilder{codec: codec, baseURL: base, ttl: cfg.TTL}, nil
}

// Build mints one accept and one decline link for the request.
func (b *LinkBuilder) Build(requestID uuid.UUID) (*ActionLinks, error) {
	if requestID == uuid.Nil {
		return nil, fmt.Errorf("request id required")
	}
	accept, err := b.link(requestID, enums.CollabActionAccept)
	if err != nil {
		return nil, err
	}
	decline, err := b.link(requestID, enums.CollabActionDecline)
	if err != nil {
		return nil, err
	}
	return &ActionLinks{Accept: accept, Decline: decline}, nil
}

func (b *LinkBuilder) link(requestID uuid.UUID, action enums.CollabAction) (string, error) {
	token, err := b.codec.Mint(requestID.String(), action, b.ttl)
	if err != nil {
		return "", fmt.Errorf("mint %s token: %w", action, err)
	}
	return b.baseURL + actionPath + "?token=" + url.QueryEscape(token), nil
}
