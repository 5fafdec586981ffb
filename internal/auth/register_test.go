package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/creatorlane/creatorlane-backend/internal/users"
	"github.com/creatorlane/creatorlane-backend/pkg/config"
	pkgmodels "github.com/creatorlane/creatorlane-backend/pkg/db/models"
	pkgerrors "github.com/creatorlane/creatorlane-backend/pkg/errors"
)

type stubTxRunner struct{}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserRepository struct {
	byEmail   map[string]*pkgmodels.User
	byHandle  map[string]*pkgmodels.User
	created   *pkgmodels.User
	createErr error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{
		byEmail:  map[string]*pkgmodels.User{},
		byHandle: map[string]*pkgmodels.User{},
	}
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*pkgmodels.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) FindByHandle(ctx context.Context, handle string) (*pkgmodels.User, error) {
	if user, ok := s.byHandle[handle]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Create(ctx context.Context, dto users.CreateUserDTO) (*pkgmodels.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.byEmail[dto.Email] = user
	s.byHandle[dto.Handle] = user
	s.created = user
	return user, nil
}

func newRegisterTestService(t *testing.T) (RegisterService, *stubUserRepository) {
	t.Helper()
	userRepo := newStubUserRepository()
	svc, err := NewRegisterService(RegisterServiceParams{
		TxRunner: stubTxRunner{},
		UserRepoFactory: func(tx *gorm.DB) registerUserRepository {
			return userRepo
		},
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc, userRepo
}

func sampleRegisterRequest(email, handle string) RegisterRequest {
	return RegisterRequest{
		Email:       email,
		Password:    "Secret123!",
		DisplayName: "Jamie Rivera",
		Handle:      handle,
		AcceptTOS:   true,
	}
}

func TestRegisterCreatesCreator(t *testing.T) {
	svc, userRepo := newRegisterTestService(t)

	req := sampleRegisterRequest("New@Example.com", "Jamie.Rivera")
	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if userRepo.created == nil {
		t.Fatal("expected user to be created")
	}
	if userRepo.created.Email != "new@example.com" {
		t.Fatalf("email not normalized, got %q", userRepo.created.Email)
	}
	if userRepo.created.Handle != "jamie.rivera" {
		t.Fatalf("handle not normalized, got %q", userRepo.created.Handle)
	}
	if userRepo.created.PasswordHash == "" || userRepo.created.PasswordHash == req.Password {
		t.Fatal("password must be stored hashed")
	}
	if !userRepo.created.IsActive {
		t.Fatal("new creators start active")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, userRepo := newRegisterTestService(t)
	userRepo.byEmail["taken@example.com"] = &pkgmodels.User{ID: uuid.New()}

	err := svc.Register(context.Background(), sampleRegisterRequest("taken@example.com", "someone"))
	assertRegisterCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterRejectsDuplicateHandle(t *testing.T) {
	svc, userRepo := newRegisterTestService(t)
	userRepo.byHandle["someone"] = &pkgmodels.User{ID: uuid.New()}

	err := svc.Register(context.Background(), sampleRegisterRequest("fresh@example.com", "someone"))
	assertRegisterCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newRegisterTestService(t)

	cases := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"missing email", func(r *RegisterRequest) { r.Email = " " }},
		{"missing display name", func(r *RegisterRequest) { r.DisplayName = "" }},
		{"bad handle", func(r *RegisterRequest) { r.Handle = "x" }},
		{"handle with spaces", func(r *RegisterRequest) { r.Handle = "jamie rivera" }},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }},
		{"tos not accepted", func(r *RegisterRequest) { r.AcceptTOS = false }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := sampleRegisterRequest("jamie@example.com", "jamie.rivera")
			tc.mutate(&req)
			err := svc.Register(context.Background(), req)
			assertRegisterCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func assertRegisterCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}
