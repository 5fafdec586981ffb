package attachments

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/creatorlane/creatorlane-backend/internal/audit"
	"github.com/creatorlane/creatorlane-backend/pkg/db/models"
	"github.com/creatorlane/creatorlane-backend/pkg/enums"
	pkgerrors "github.com/creatorlane/creatorlane-backend/pkg/errors"
	"github.com/creatorlane/creatorlane-backend/pkg/logger"
)

const maxUploadBytes = 25 * 1024 * 1024

var allowedMimeTypes = []string{
	"application/pdf",
	"image/png",
	"image/jpeg",
	"image/webp",
	"text/plain",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type attachmentRepository interface {
	Create(ctx context.Context, attachment *models.Attachment) (*models.Attachment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Attachment, error)
	ListForDeal(ctx context.Context, dealID uuid.UUID) ([]models.Attachment, error)
	RecordScan(ctx context.Context, id uuid.UUID, status enums.ScanStatus, scannedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type dealFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.BrandDeal, error)
}

type gcsSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

// Service exposes attachment upload, scanning, and download semantics.
type Service interface {
	PresignUpload(ctx context.Context, creatorID uuid.UUID, input PresignInput) (*PresignOutput, error)
	FinalizeScan(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, error)
	DownloadURL(ctx context.Context, creatorID, attachmentID uuid.UUID) (string, error)
	ListForDeal(ctx context.Context, creatorID, dealID uuid.UUID) ([]models.Attachment, error)
}

type service struct {
	repo        attachmentRepository
	deals       dealFinder
	gcs         gcsSigner
	scanner     Scanner
	recorder    audit.Recorder
	logg        *logger.Logger
	bucket      string
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

// ServiceParams bundles the attachment service dependencies.
type ServiceParams struct {
	Repo        attachmentRepository
	Deals       dealFinder
	GCS         gcsSigner
	Scanner     Scanner
	Recorder    audit.Recorder
	Logger      *logger.Logger
	Bucket      string
	UploadTTL   time.Duration
	DownloadTTL time.Duration
}

// NewService constructs an attachment service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("attachments repository required")
	}
	if params.Deals == nil {
		return nil, fmt.Errorf("deals repository required")
	}
	if params.GCS == nil {
		return nil, fmt.Errorf("gcs signer required")
	}
	if params.Scanner == nil {
		return nil, fmt.Errorf("scanner required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if params.UploadTTL <= 0 || params.DownloadTTL <= 0 {
		return nil, fmt.Errorf("url ttls must be positive")
	}
	return &service{
		repo:        params.Repo,
		deals:       params.Deals,
		gcs:         params.GCS,
		scanner:     params.Scanner,
		recorder:    params.Recorder,
		logg:        params.Logger,
		bucket:      params.Bucket,
		uploadTTL:   params.UploadTTL,
		downloadTTL: params.DownloadTTL,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	DealID    uuid.UUID
	FileName  string
	MimeType  string
	SizeBytes int64
}

// PresignOutput contains the data returned to the client after creating an
// attachment record.
type PresignOutput struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	ObjectPath   string    `json:"object_path"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *service) PresignUpload(ctx context.Context, creatorID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if creatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator identity missing")
	}
	if input.DealID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deal_id is required")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d", maxUploadBytes))
	}
	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed for attachments")
	}

	deal, err := s.ownedDeal(ctx, creatorID, input.DealID)
	if err != nil {
		return nil, err
	}

	attachmentID := uuid.New()
	objectPath := buildObjectPath(deal.ID, attachmentID, fileName)

	row := &models.Attachment{
		ID:         attachmentID,
		DealID:     deal.ID,
		FileName:   fileName,
		ObjectPath: objectPath,
		SizeBytes:  input.SizeBytes,
		ScanStatus: enums.ScanStatusError,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist attachment row")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.gcs.SignedURL(s.bucket, objectPath, mimeType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, attachmentID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		AttachmentID: attachmentID,
		ObjectPath:   objectPath,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

// FinalizeScan runs the scanner over an uploaded object and records the
// verdict. A scanner failure records the error verdict rather than failing
// the call; the attachment simply stays undownloadable.
func (s *service) FinalizeScan(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, error) {
	if attachmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "attachment_id is required")
	}
	attachment, err := s.repo.FindByID(ctx, attachmentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "attachment not found")
	}

	verdict, scanErr := s.scanner.Scan(ctx, s.bucket, attachment.ObjectPath)
	if scanErr != nil {
		s.logg.Error(ctx, "attachment scan failed", scanErr)
		verdict = enums.ScanStatusError
	}
	if !verdict.IsValid() {
		verdict = enums.ScanStatusError
	}

	scannedAt := time.Now().UTC()
	if err := s.repo.RecordScan(ctx, attachment.ID, verdict, scannedAt); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record scan verdict")
	}

	metadata := map[string]any{
		"attachment_id": attachment.ID.String(),
		"file_name":     attachment.FileName,
		"verdict":       string(verdict),
	}
	if scanErr != nil {
		metadata["error"] = scanErr.Error()
	}
	s.recorder.Record(ctx, nil, audit.Entry{
		DealID:   &attachment.DealID,
		Event:    enums.DealEventAttachmentScanned,
		Metadata: metadata,
	})

	attachment.ScanStatus = verdict
	attachment.ScannedAt = &scannedAt
	return attachment, nil
}

func (s *service) DownloadURL(ctx context.Context, creatorID, attachmentID uuid.UUID) (string, error) {
	if creatorID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "creator identity missing")
	}
	attachment, err := s.repo.FindByID(ctx, attachmentID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "attachment not found")
	}
	if _, err := s.ownedDeal(ctx, creatorID, attachment.DealID); err != nil {
		return "", err
	}
	if attachment.ScanStatus != enums.ScanStatusClean {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "attachment has not passed scanning")
	}

	signedURL, err := s.gcs.SignedReadURL(s.bucket, attachment.ObjectPath, s.downloadTTL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return signedURL, nil
}

func (s *service) ListForDeal(ctx context.Context, creatorID, dealID uuid.UUID) ([]models.Attachment, error) {
	if creatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "creator identity missing")
	}
	if _, err := s.ownedDeal(ctx, creatorID, dealID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListForDeal(ctx, dealID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attachments")
	}
	return rows, nil
}

// ownedDeal hides foreign deals behind not-found so attachment ids cannot be
// probed across accounts.
func (s *service) ownedDeal(ctx context.Context, creatorID, dealID uuid.UUID) (*models.BrandDeal, error) {
	deal, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "deal not found")
	}
	if deal.CreatorID != creatorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	return deal, nil
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func buildObjectPath(dealID, attachmentID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = attachmentID.String()
	}
	return fmt.Sprintf("attachments/%s/%s/%s", dealID, attachmentID, cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
