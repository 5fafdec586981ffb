package contracts

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
	"github.com/creatorlane/creatorlane-backend/pkg/outbox"
)

type stubContractRepo struct {
	byDeal    map[uuid.UUID]*models.Contract
	createErr error
	updates   []enums.ContractStatus
}

func (s *stubContractRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubContractRepo) Create(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	contract.ID = uuid.New()
	s.byDeal[contract.DealID] = contract
	return contract, nil
}

func (s *stubContractRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	for _, contract := range s.byDeal {
		if contract.ID == id {
			return contract, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubContractRepo) FindByDealID(ctx context.Context, dealID uuid.UUID) (*models.Contract, error) {
	contract, ok := s.byDeal[dealID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return contract, nil
}

func (s *stubContractRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ContractStatus, updates map[string]any) error {
	s.updates = append(s.updates, status)
	contract, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	contract.Status = status
	if path, ok := updates["document_path"].(string); ok {
		contract.DocumentPath = &path
	}
	if message, ok := updates["last_error"].(string); ok {
		contract.LastError = &message
	}
	return nil
}

type stubContractTx struct{}

func (stubContractTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubContractOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubContractOutbox) EmitIfNotExists(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubGenerator struct {
	path   string
	err    error
	inputs []GenerateInput
}

func (s *stubGenerator) Generate(ctx context.Context, input GenerateInput) (string, error) {
	s.inputs = append(s.inputs, input)
	if s.err != nil {
		return "", s.err
	}
	return s.path, nil
}

type stubDealFinder struct {
	deals map[uuid.UUID]*models.BrandDeal
}

func (s *stubDealFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.BrandDeal, error) {
	deal, ok := s.deals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return deal, nil
}

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

type contractFixture struct {
	consumer  *Consumer
	repo      *stubContractRepo
	outbox    *stubContractOutbox
	generator *stubGenerator
	recorder  *captureRecorder
	deal      *models.BrandDeal
}

func newContractFixture(t *testing.T) *contractFixture {
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
		Deliverables: "2 posts",
	}
	deal := &models.BrandDeal{
		ID:        uuid.New(),
		CreatorID: creator.ID,
		RequestID: request.ID,
		BrandName: request.BrandName,
		Status:    enums.BrandDealStatusDrafting,
	}

	repo := &stubContractRepo{byDeal: map[uuid.UUID]*models.Contract{}}
	outboxStub := &stubContractOutbox{}
	generator := &stubGenerator{path: "contracts/" + creator.ID.String() + "/" + deal.ID.String() + ".html"}
	recorder := &captureRecorder{}

	return &contractFixture{
		consumer: &Consumer{
			repo:      repo,
			tx:        stubContractTx{},
			outbox:    outboxStub,
			generator: generator,
			deals:     &stubDealFinder{deals: map[uuid.UUID]*models.BrandDeal{deal.ID: deal}},
			requests:  &stubRequestFinder{requests: map[uuid.UUID]*models.CollabRequest{request.ID: request}},
			creators:  &stubCreatorFinder{creators: map[uuid.UUID]*models.User{creator.ID: creator}},
			recorder:  recorder,
			logg:      logger.New(logger.Options{}),
		},
		repo:      repo,
		outbox:    outboxStub,
		generator: generator,
		recorder:  recorder,
		deal:      deal,
	}
}

func TestGenerateForDealRendersAndEmits(t *testing.T) {
	fixture := newContractFixture(t)
	ctx := context.Background()

	if err := fixture.consumer.generateForDeal(ctx, fixture.deal.ID, ctx); err != nil {
		t.Fatalf("generate for deal: %v", err)
	}

	contract, err := fixture.repo.FindByDealID(ctx, fixture.deal.ID)
	if err != nil {
		t.Fatalf("contract row not created: %v", err)
	}
	if contract.Status != enums.ContractStatusGenerated {
		t.Fatalf("expected generated status, got %s", contract.Status)
	}
	if contract.DocumentPath == nil || *contract.DocumentPath != fixture.generator.path {
		t.Fatalf("document path not recorded: %+v", contract.DocumentPath)
	}

	if len(fixture.outbox.events) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(fixture.outbox.events))
	}
	if fixture.outbox.events[0].EventType != enums.EventContractGenerated {
		t.Fatalf("unexpected event type %s", fixture.outbox.events[0].EventType)
	}
	if fixture.outbox.events[0].AggregateID != contract.ID {
		t.Fatal("event should aggregate on the contract id")
	}

	if len(fixture.recorder.entries) != 1 || fixture.recorder.entries[0].Event != enums.DealEventContractGenerated {
		t.Fatalf("expected a contract_generated audit entry, got %+v", fixture.recorder.entries)
	}
}

func TestGenerateForDealReusesGeneratedContract(t *testing.T) {
	fixture := newContractFixture(t)
	ctx := context.Background()

	path := "contracts/existing.html"
	fixture.repo.byDeal[fixture.deal.ID] = &models.Contract{
		ID:           uuid.New(),
		DealID:       fixture.deal.ID,
		RequestID:    fixture.deal.RequestID,
		Status:       enums.ContractStatusGenerated,
		DocumentPath: &path,
	}

	if err := fixture.consumer.generateForDeal(ctx, fixture.deal.ID, ctx); err != nil {
		t.Fatalf("generate for deal: %v", err)
	}
	if len(fixture.generator.inputs) != 0 {
		t.Fatal("already generated contract should not be rendered again")
	}
	if len(fixture.outbox.events) != 0 {
		t.Fatal("redelivery of a generated contract should not emit events")
	}
}

func TestGenerateForDealRetriesFailedContract(t *testing.T) {
	fixture := newContractFixture(t)
	ctx := context.Background()

	message := "render blew up"
	fixture.repo.byDeal[fixture.deal.ID] = &models.Contract{
		ID:        uuid.New(),
		DealID:    fixture.deal.ID,
		RequestID: fixture.deal.RequestID,
		Status:    enums.ContractStatusFailed,
		LastError: &message,
	}

	if err := fixture.consumer.generateForDeal(ctx, fixture.deal.ID, ctx); err != nil {
		t.Fatalf("generate for deal: %v", err)
	}
	contract := fixture.repo.byDeal[fixture.deal.ID]
	if contract.Status != enums.ContractStatusGenerated {
		t.Fatalf("failed contract should be retried to generated, got %s", contract.Status)
	}
}

func TestGenerateForDealMarksFailureAndErrors(t *testing.T) {
	fixture := newContractFixture(t)
	fixture.generator.err = errors.New("storage unavailable")
	ctx := context.Background()

	err := fixture.consumer.generateForDeal(ctx, fixture.deal.ID, ctx)
	if err == nil {
		t.Fatal("expected generation failure")
	}

	contract := fixture.repo.byDeal[fixture.deal.ID]
	if contract.Status != enums.ContractStatusFailed {
		t.Fatalf("expected failed status, got %s", contract.Status)
	}
	if contract.LastError == nil || *contract.LastError != "storage unavailable" {
		t.Fatalf("last error not recorded: %+v", contract.LastError)
	}
	if len(fixture.recorder.entries) != 1 || fixture.recorder.entries[0].Event != enums.DealEventContractFailed {
		t.Fatalf("expected a contract_failed audit entry, got %+v", fixture.recorder.entries)
	}
	if len(fixture.outbox.events) != 0 {
		t.Fatal("failed generation must not emit events")
	}
}

func TestGenerateForDealMissingDeal(t *testing.T) {
	fixture := newContractFixture(t)
	ctx := context.Background()

	if err := fixture.consumer.generateForDeal(ctx, uuid.New(), ctx); err == nil {
		t.Fatal("expected error for unknown deal")
	}
	if len(fixture.generator.inputs) != 0 {
		t.Fatal("generator should not run for unknown deals")
	}
}
