package actiontoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/creatorlane/creatorlane-backend/pkg/config"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
)

// Wire format, five dot-delimited fields:
//
//	v1.<requestId>.<accept|decline>.<expiryEpochMs>.<base64url-signature>
//
// The signature is an HMAC-SHA256 over the first four fields exactly as
// serialized. Tokens are stateless bearer capabilities; single-use semantics
// come from the state machine's terminal-state check, not from revocation.
const (
	Version   = "v1"
	delimiter = "."
)

var (
	// ErrMalformed covers tokens that do not parse into five fields.
	ErrMalformed = errors.New("malformed action token")
	// ErrSignature covers tokens whose keyed hash does not match.
	ErrSignature = errors.New("action token signature mismatch")
	// ErrExpired covers structurally valid, correctly signed tokens past
	// their expiry.
	ErrExpired = errors.New("action token expired")
	// ErrInvalidActionKind covers mint attempts for actions that may not be
	// embedded in a link. Verified tokens carrying an unknown action surface
	// the same error; that can only happen with a leaked signing secret.
	ErrInvalidActionKind = errors.New("invalid action kind for token")
)

// IsInvalidLink reports whether the error is any of the verification failures
// that must be collapsed to a single user-facing outcome. Callers must not
// distinguish between them in responses.
func IsInvalidLink(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, ErrSignature) || errors.Is(err, ErrExpired)
}

// Claims is the verified payload of an action token.
type Claims struct {
	RequestID string
	Action    enums.CollabAction
}

// Codec mints and verifies action tokens with a process-wide secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a codec from the action-link configuration.
func NewCodec(cfg config.ActionLinkConfig) (*Codec, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("action link secret is required")
	}
	return &Codec{
		secret: []byte(cfg.Secret),
		now:    time.Now,
	}, nil
}

// WithClock overrides the codec's time source. Test hook.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	if now != nil {
		c.now = now
	}
	return c
}

// Mint serializes and signs a token for the given request and action, valid
// for ttl from now.
func (c *Codec) Mint(requestID string, action enums.CollabAction, ttl time.Duration) (string, error) {
	if requestID == "" {
		return "", errors.New("request id is required")
	}
	if strings.Contains(requestID, delimiter) {
		return "", fmt.Errorf("request id must not contain %q", delimiter)
	}
	if !action.IsTokenAction() {
		return "", fmt.Errorf("%w: %q", ErrInvalidActionKind, action)
	}

	expiry := c.now().Add(ttl).UnixMilli()
	payload := strings.Join([]string{
		Version,
		requestID,
		action.String(),
		strconv.FormatInt(expiry, 10),
	}, delimiter)

	return payload + delimiter + c.sign(payload), nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// The signature is checked before anything else is interpreted, so malformed
// expiries and unknown actions are unreachable from forged input.
func (c *Codec) Verify(token string) (*Claims, error) {
	fields := strings.Split(token, delimiter)
	if len(fields) != 5 {
		return nil, ErrMalformed
	}
	if fields[0] != Version {
		return nil, ErrMalformed
	}

	payload := strings.Join(fields[:4], delimiter)
	expected := c.sign(payload)
	// hmac.Equal is constant time; comparing encoded forms keeps both sides
	// the same length.
	if !hmac.Equal([]byte(expected), []byte(fields[4])) {
		return nil, ErrSignature
	}

	expiryMs, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, ErrMalformed
	}
	if c.now().UnixMilli() >= expiryMs {
		return nil, ErrExpired
	}

	action, err := enums.ParseCollabAction(fields[2])
	if err != nil || !action.IsTokenAction() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidActionKind, fields[2])
	}

	return &Claims{
		RequestID: fields[1],
		Action:    action,
	}, nil
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
