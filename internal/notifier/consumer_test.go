package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/internal/collabs"
	"github.com/creatorlane/creatorlane-backend/pkg/actiontoken"
	"github.com/creatorlane/creatorlane-backend/pkg/config"
	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox/payloads"
)

type stubRequestFinder struct {
	requests map[uuid.UUID]*models.CollabRequest
}

func (s *stubRequestFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.CollabRequest, error) {
	request, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return request, nil
}

type stubCreatorFinder struct {
	creators map[uuid.UUID]*models.User
}

func (s *stubCreatorFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	creator, ok := s.creators[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return creator, nil
}

type stubNotifier struct {
	messages []Message
	err      error
}

func (s *stubNotifier) Send(ctx context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

type captureRecorder struct {
	entries []audit.Entry
}

func (c *captureRecorder) Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) {
	c.entries = append(c.entries, entry)
}

func (c *captureRecorder) ListForRequest(ctx context.Context, requestID uuid.UUID, limit int) ([]models.DealActionLog, error) {
	return nil, nil
}

func (c *captureRecorder) ListForDeal(ctx context.Context, dealID uuid.UUID, limit int) ([]models.DealActionLog, error) {
	return nil, nil
}

func mustLinkBuilder(t *testing.T) *collabs.LinkBuilder {
	t.Helper()
	codec, err := actiontoken.NewCodec(config.ActionLinkConfig{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	builder, err := collabs.NewLinkBuilder(codec, config.ActionLinkConfig{
		Secret:  "test-secret",
		BaseURL: "https://app.test",
		TTL:     time.Hour,
	})
	if err != nil {
		t.Fatalf("new link builder: %v", err)
	}
	return builder
}

type consumerFixture struct {
	consumer *Consumer
	requests *stubRequestFinder
	creators *stubCreatorFinder
	notifier *stubNotifier
	recorder *captureRecorder
}

func newConsumerFixture(t *testing.T) *consumerFixture {
	t.Helper()
	requests := &stubRequestFinder{requests: map[uuid.UUID]*models.CollabRequest{}}
	creators := &stubCreatorFinder{creators: map[uuid.UUID]*models.User{}}
	notifierStub := &stubNotifier{}
	recorder := &captureRecorder{}
	return &consumerFixture{
		consumer: &Consumer{
			notifier: notifierStub,
			links:    mustLinkBuilder(t),
			requests: requests,
			creators: creators,
			recorder: recorder,
			logg:     testLogger(),
		},
		requests: requests,
		creators: creators,
		notifier: notifierStub,
		recorder: recorder,
	}
}

func (f *consumerFixture) seedRequest(t *testing.T) *models.CollabRequest {
	t.Helper()
	creator := &models.User{
		ID:          uuid.New(),
		Email:       "maya@example.com",
		DisplayName: "Maya",
		Handle:      "maya.codes",
	}
	request := &models.CollabRequest{
		ID:           uuid.New(),
		CreatorID:    creator.ID,
		BrandName:    "Acme",
		BrandEmail:   "partnerships@acme.test",
		Status:       enums.CollabRequestStatusPending,
		DealType:     enums.DealTypeSponsoredPost,
		DealAmount:   decimal.NewFromInt(1500),
		Currency:     "USD",
		Deliverables: "2 posts",
	}
	f.creators.creators[creator.ID] = creator
	f.requests.requests[request.ID] = request
	return request
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestHandleRequestCreatedMailsBrandWithLinks(t *testing.T) {
	fixture := newConsumerFixture(t)
	request := fixture.seedRequest(t)
	ctx := context.Background()

	payload := mustJSON(t, payloads.CollabRequestCreatedEvent{
		RequestID: request.ID,
		CreatorID: request.CreatorID,
	})
	if err := fixture.consumer.handleRequestCreated(ctx, payload, ctx); err != nil {
		t.Fatalf("handle created: %v", err)
	}

	if len(fixture.notifier.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fixture.notifier.messages))
	}
	msg := fixture.notifier.messages[0]
	if msg.Template != enums.TemplateCollabProposal {
		t.Fatalf("unexpected template %s", msg.Template)
	}
	if msg.To != request.BrandEmail {
		t.Fatalf("proposal must go to the brand, got %s", msg.To)
	}
	if !strings.HasPrefix(msg.Data.AcceptURL, "https://app.test/collabs/action?token=") {
		t.Fatalf("accept link not minted, got %q", msg.Data.AcceptURL)
	}
	if msg.Data.AcceptURL == msg.Data.DeclineURL {
		t.Fatal("accept and decline links must differ")
	}

	if len(fixture.recorder.entries) != 1 || fixture.recorder.entries[0].Event != enums.DealEventNotificationSent {
		t.Fatalf("expected a notification_sent audit entry, got %+v", fixture.recorder.entries)
	}
}

func TestNotifyDecisionMailsBothParties(t *testing.T) {
	fixture := newConsumerFixture(t)
	request := fixture.seedRequest(t)
	ctx := context.Background()

	dealID := uuid.New()
	payload := mustJSON(t, payloads.CollabRequestAcceptedEvent{
		RequestID: request.ID,
		CreatorID: request.CreatorID,
		DealID:    dealID,
	})
	if err := fixture.consumer.handleRequestAccepted(ctx, payload, ctx); err != nil {
		t.Fatalf("handle accepted: %v", err)
	}

	if len(fixture.notifier.messages) != 2 {
		t.Fatalf("expected creator and brand mails, got %d", len(fixture.notifier.messages))
	}
	if fixture.notifier.messages[0].Template != enums.TemplateCreatorAccepted {
		t.Fatalf("first message should be the creator update, got %s", fixture.notifier.messages[0].Template)
	}
	if fixture.notifier.messages[0].To != "maya@example.com" {
		t.Fatalf("creator update misaddressed: %s", fixture.notifier.messages[0].To)
	}
	if fixture.notifier.messages[1].Template != enums.TemplateBrandConfirmation {
		t.Fatalf("second message should be the brand receipt, got %s", fixture.notifier.messages[1].Template)
	}

	for _, entry := range fixture.recorder.entries {
		if entry.DealID == nil || *entry.DealID != dealID {
			t.Fatalf("audit entries should carry the deal id, got %+v", entry)
		}
	}
}

func TestDeliverFailureRecordsAudit(t *testing.T) {
	fixture := newConsumerFixture(t)
	request := fixture.seedRequest(t)
	fixture.notifier.err = errors.New("smtp down")
	ctx := context.Background()

	payload := mustJSON(t, payloads.CollabRequestExpiredEvent{
		RequestID: request.ID,
		CreatorID: request.CreatorID,
	})
	err := fixture.consumer.handleRequestExpired(ctx, payload, ctx)
	if err == nil {
		t.Fatal("expected delivery error")
	}

	if len(fixture.recorder.entries) != 1 || fixture.recorder.entries[0].Event != enums.DealEventNotificationFailed {
		t.Fatalf("expected a notification_failed audit entry, got %+v", fixture.recorder.entries)
	}
}

func TestHandlerForSkipsUnrelatedEvents(t *testing.T) {
	fixture := newConsumerFixture(t)
	if _, ok := fixture.consumer.handlerFor(enums.EventBrandDealCreated); ok {
		t.Fatal("deal created should not produce email")
	}
	if _, ok := fixture.consumer.handlerFor(enums.EventCollabRequestCreated); !ok {
		t.Fatal("request created must have a handler")
	}
}
